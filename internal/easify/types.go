package easify

import "github.com/shopspring/decimal"

// ProductDetail is the full product record as served by the Easify server.
// All values are remote-owned; the SKU is the join key to local records.
type ProductDetail struct {
	SKU                     string
	OurStockCode            string
	ManufacturerStockCode   string
	SupplierStockCode       string
	EANCode                 string
	Description             string
	CategoryID              int
	SubcategoryID           int
	ManufacturerID          int
	CostPrice               decimal.Decimal
	StockLevel              int
	MinimumStockLevel       int
	ReorderAmount           int
	ReorderWhenLow          bool
	SupplierID              int
	RetailMargin            decimal.Decimal
	TradeMargin             decimal.Decimal
	TaxID                   int
	Published               bool
	Discontinued            bool
	Allocatable             bool
	LoyaltyPoints           int
	Weight                  float64
	ItemTypeID              int
	LocationID              int
	DiscontinueWhenDepleted bool
	DateAdded               string
	DatePriceLastChanged    string
	DateStockLastUpdated    string
	WebInfoPresent          bool
}

// Category is an Easify product category or subcategory reference entry.
type Category struct {
	ID          int
	Description string
}

// TaxRate is an Easify tax rate definition.
type TaxRate struct {
	TaxID       int
	Code        string
	Rate        float64
	Description string
	IsDefault   bool
}

// WebInfo carries the web-only product assets: the product image (decoded
// from the base64 feed value) and the long-form HTML description.
type WebInfo struct {
	Image       []byte
	Description string
}

// OrderStatus is an Easify order status reference entry.
type OrderStatus struct {
	ID          int
	Description string
	TypeID      int
	System      bool
	DefaultType bool
}

// OrderType is an Easify order type reference entry.
type OrderType struct {
	ID          int
	Description string
}

// CustomerType is an Easify customer type reference entry.
type CustomerType struct {
	ID          int
	Description string
}

// CustomerRelationship is an Easify customer relationship reference entry.
type CustomerRelationship struct {
	ID          int
	Description string
}

// PaymentTerms is an Easify payment terms reference entry.
type PaymentTerms struct {
	ID          int
	Description string
	PaymentDays int
}

// PaymentMethod is an Easify payment method reference entry.
type PaymentMethod struct {
	ID          int
	Description string
	Active      bool
	TypeID      int
	ShowInPOS   bool
	RowOrder    int
}

// PaymentAccount is an Easify payment account reference entry.
type PaymentAccount struct {
	ID             int
	Description    string
	Active         bool
	AccountType    string
	OpeningBalance float64
}
