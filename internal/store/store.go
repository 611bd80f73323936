// Package store is the storefront persistence layer: product records,
// categories, tax classes and rates, shipping charge settings and orders.
// The sync engine only depends on the CatalogStore interface so it can be
// tested against the in-memory implementation.
package store

import "errors"

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrTaxRateNotFound  = errors.New("tax rate not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrOrderNotFound    = errors.New("order not found")
)

// Stock and visibility states written by the sync engine. Values mirror the
// storefront's conventions.
const (
	StockStatusInStock = "instock"
	TaxStatusTaxable   = "taxable"
)

// Shipping charge kinds addressable by the reserved delivery SKUs.
const (
	ShippingFreeMinAmount      = "free_shipping_min_amount"
	ShippingLocalDeliveryFee   = "local_delivery_fee"
	ShippingFlatRateCost       = "flat_rate_cost"
	ShippingInternationalCost  = "international_delivery_cost"
)

// Product is the local storefront product record. SKU is the external join
// key and must be unique; at most one local product exists per SKU.
type Product struct {
	ID              int
	SKU             string
	Name            string
	LongDescription string
	Price           float64
	RegularPrice    float64
	SalePrice       float64
	TaxStatus       string
	TaxClass        string
	StockStatus     string
	StockQuantity   int
	ManageStock     bool
	Backorders      bool
	Downloadable    bool
	Virtual         bool
	Visible         bool
	Featured        bool
	Weight          float64
	CategoryID      int
	CreatedAt       string
	UpdatedAt       string
}

// Category is a local hierarchical product category, keyed by a name-derived
// slug. Subcategories carry the resolved parent's id.
type Category struct {
	ID          int
	Name        string
	Slug        string
	Description string
	ParentID    int
}

// TaxRateRecord is a local tax rate row. Name holds the remote tax
// description (the join key used during sync), Class the remote tax code.
type TaxRateRecord struct {
	ID       int
	Name     string
	Rate     float64
	Class    string
	Country  string
	Shipping bool
}

// OrderItem is one product line of a local order.
type OrderItem struct {
	ProductID    int
	Quantity     int
	LineSubtotal float64
	TaxClass     string
}

// ShippingLine is one shipping method applied to a local order.
type ShippingLine struct {
	MethodID string
	Name     string
	Cost     float64
}

// Coupon is a discount applied to a local order.
type Coupon struct {
	Code  string
	Value float64
}

// Address holds one side (billing or shipping) of an order's contact data.
type Address struct {
	FirstName string
	LastName  string
	Company   string
	Address1  string
	Address2  string
	City      string
	State     string
	Postcode  string
	Country   string
	Phone     string
	Email     string
}

// Order is a local storefront order pending export.
type Order struct {
	No            int
	CustomerID    int
	Billing       Address
	Shipping      Address
	Items         []OrderItem
	ShippingLines []ShippingLine
	Coupons       []Coupon
	PaymentMethod string
	Total         float64
	TransactionID string
	CustomerNote  string
}

// CatalogStore is the narrow persistence interface consumed by the sync and
// order-export engines.
type CatalogStore interface {
	// Products, keyed by the external SKU.
	ProductBySKU(sku string) (Product, error)
	ProductExists(sku string) (bool, error)
	InsertProduct(p Product) (Product, error)
	UpdateProduct(p Product) (Product, error)
	DeleteProduct(sku string) error
	// UpdateProductWebInfo replaces the product's primary image and
	// long-form HTML content.
	UpdateProductWebInfo(sku string, image []byte, htmlDescription string) error

	// Categories, created lazily by name within a parent.
	EnsureCategory(name string, parentID int) (Category, error)

	// Tax classes and rates. Classes and rate rows are separate registries
	// kept consistent by the tax sync engine.
	TaxClasses() ([]string, error)
	AddTaxClass(code string) error
	RemoveTaxClass(code string) error
	TaxRateByName(name string) (TaxRateRecord, error)
	InsertTaxRate(rec TaxRateRecord) (TaxRateRecord, error)
	UpdateTaxRate(rec TaxRateRecord) error
	DeleteTaxRate(id int) error

	// Shipping charge settings mutated by reserved delivery SKUs.
	UpdateShippingCharge(kind string, price float64) error
	ShippingCharge(kind string) (float64, error)

	// Orders, read by the export engine.
	OrderByNo(no int) (Order, error)
	SKUByProductID(id int) (string, error)
}
