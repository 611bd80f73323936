// Package easify is the client for the Easify server's OData-style Atom API
// and for the Easify cloud endpoints.
package easify

import (
	"context"
	"crypto/tls"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/easify/storefront-bridge/internal/config"
)

var (
	// ErrNotFound indicates the requested entity does not exist on the
	// Easify server.
	ErrNotFound = errors.New("easify: entity not found")
	// ErrMalformedFeed indicates an empty or unparseable response body.
	ErrMalformedFeed = errors.New("easify: malformed feed response")
	// ErrUnavailable indicates a transport-level failure talking to the
	// Easify server.
	ErrUnavailable = errors.New("easify: server unavailable")
)

// Client talks to an Easify server over HTTPS with basic authentication.
type Client struct {
	baseURL  string
	username string
	password string
	http     *http.Client
	log      *zap.Logger
}

// NewClient builds a Client from the Easify connection settings.
func NewClient(cfg config.Easify, logger *zap.Logger) *Client {
	transport := http.DefaultTransport
	if cfg.InsecureSkipVerify {
		// Kept for self-signed Easify server deployments. Verification is
		// on by default.
		logger.Warn("TLS certificate verification disabled for easify server calls")
		transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 600 * time.Second
	}

	return &Client{
		baseURL:  strings.TrimRight(cfg.ServerURL, "/"),
		username: cfg.Username,
		password: cfg.Password,
		http:     &http.Client{Timeout: timeout, Transport: transport},
		log:      logger,
	}
}

// get performs an authenticated GET and returns the raw body. Transport
// failures are wrapped in ErrUnavailable, HTTP 404 in ErrNotFound.
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("%w: no server url configured", ErrUnavailable)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.SetBasicAuth(c.username, c.password)

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error("easify server request failed", zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode != http.StatusOK:
		c.log.Error("easify server returned error status",
			zap.String("path", path), zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}
	return body, nil
}

// getEntity fetches Entity or Entity(Key) and parses the Atom response.
func (c *Client) getEntity(ctx context.Context, entity, key string) ([]properties, error) {
	path := "/" + entity
	if key != "" {
		path += "(" + url.PathEscape(key) + ")"
	}
	body, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}
	return parseFeed(body)
}

// getFiltered fetches a list endpoint with an OData $filter expression.
func (c *Client) getFiltered(ctx context.Context, entity, filter string) ([]properties, error) {
	body, err := c.get(ctx, "/"+entity+"?$filter="+url.QueryEscape(filter))
	if err != nil {
		return nil, err
	}
	return parseFeed(body)
}

// Product fetches the full product record for a SKU.
func (c *Client) Product(ctx context.Context, sku string) (ProductDetail, error) {
	entries, err := c.getEntity(ctx, "Products", sku)
	if err != nil {
		return ProductDetail{}, err
	}
	if len(entries) == 0 {
		return ProductDetail{}, ErrNotFound
	}

	p := entries[0]
	if p.str("SKU") == "" {
		return ProductDetail{}, ErrNotFound
	}

	return ProductDetail{
		SKU:                     p.str("SKU"),
		OurStockCode:            p.str("OurStockCode"),
		ManufacturerStockCode:   p.str("ManufacturerStockCode"),
		SupplierStockCode:       p.str("SupplierStockCode"),
		EANCode:                 p.str("EANCode"),
		Description:             p.str("Description"),
		CategoryID:              p.asInt("CategoryId"),
		SubcategoryID:           p.asInt("SubcategoryId"),
		ManufacturerID:          p.asInt("ManufacturerId"),
		CostPrice:               parseDecimal(p.str("CostPrice")),
		StockLevel:              p.asInt("StockLevel"),
		MinimumStockLevel:       p.asInt("MinStockLevel"),
		ReorderAmount:           p.asInt("ReorderQty"),
		ReorderWhenLow:          p.asBool("ReorderWhenLow"),
		SupplierID:              p.asInt("SupplierId"),
		RetailMargin:            parseDecimal(p.str("RetailMargin")),
		TradeMargin:             parseDecimal(p.str("TradeMargin")),
		TaxID:                   p.asInt("TaxId"),
		Published:               p.asBool("Published"),
		Discontinued:            p.asBool("Discontinued"),
		Allocatable:             p.asBool("Allocatable"),
		LoyaltyPoints:           p.asInt("LoyaltyPoints"),
		Weight:                  p.asFloat("Weight"),
		ItemTypeID:              p.asInt("ItemTypeId"),
		LocationID:              p.asInt("LocationId"),
		DiscontinueWhenDepleted: p.asBool("DiscontinueWhenDepleted"),
		DateAdded:               p.str("DateAddedToEasify"),
		DatePriceLastChanged:    p.str("PriceChangeDate"),
		DateStockLastUpdated:    p.str("LastStockCheckDate"),
		WebInfoPresent:          p.asBool("WebInfoPresent"),
	}, nil
}

// Categories fetches all product categories.
func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	entries, err := c.getEntity(ctx, "ProductCategories", "")
	if err != nil {
		return nil, err
	}
	out := make([]Category, 0, len(entries))
	for _, p := range entries {
		out = append(out, Category{ID: p.asInt("CategoryId"), Description: p.str("Description")})
	}
	return out, nil
}

// SubcategoriesByCategory fetches the subcategories belonging to a category.
func (c *Client) SubcategoriesByCategory(ctx context.Context, categoryID int) ([]Category, error) {
	entries, err := c.getFiltered(ctx, "ProductSubcategories", "CategoryId eq "+strconv.Itoa(categoryID))
	if err != nil {
		return nil, err
	}
	out := make([]Category, 0, len(entries))
	for _, p := range entries {
		out = append(out, Category{ID: p.asInt("SubCategoryId"), Description: p.str("Description")})
	}
	return out, nil
}

// TaxRates fetches all tax rate definitions.
func (c *Client) TaxRates(ctx context.Context) ([]TaxRate, error) {
	entries, err := c.getEntity(ctx, "TaxRates", "")
	if err != nil {
		return nil, err
	}
	out := make([]TaxRate, 0, len(entries))
	for _, p := range entries {
		out = append(out, TaxRate{
			TaxID:       p.asInt("TaxId"),
			Code:        strings.TrimSpace(p.str("Code")),
			Rate:        p.asFloat("Rate"),
			Description: strings.TrimSpace(p.str("TaxDescription")),
			IsDefault:   p.asBool("IsDefaultTaxCode"),
		})
	}
	return out, nil
}

// ProductWebInfo fetches the web image and HTML description for a SKU. The
// image arrives base64-encoded in the feed and is returned decoded.
func (c *Client) ProductWebInfo(ctx context.Context, sku string) (WebInfo, error) {
	entries, err := c.getFiltered(ctx, "ProductInfo", "SKU eq "+sku)
	if err != nil {
		return WebInfo{}, err
	}
	if len(entries) == 0 {
		return WebInfo{}, ErrNotFound
	}

	p := entries[0]
	image, err := base64.StdEncoding.DecodeString(p.str("Image"))
	if err != nil {
		return WebInfo{}, fmt.Errorf("%w: invalid image encoding", ErrMalformedFeed)
	}
	return WebInfo{Image: image, Description: p.str("Description")}, nil
}

// AllocationCount returns the quantity of a SKU's stock committed to other
// outstanding orders. This endpoint returns a bare scalar, not a feed.
func (c *Client) AllocationCount(ctx context.Context, sku string) (int, error) {
	body, err := c.get(ctx, "/Products_Allocated?SKU="+url.QueryEscape(sku))
	if err != nil {
		return 0, err
	}
	raw, err := parseScalar(body)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: allocation count %q", ErrMalformedFeed, raw)
	}
	return n, nil
}

// Ping verifies connectivity by fetching the well-known probe product
// (SKU -100) and checking the echoed key.
func (c *Client) Ping(ctx context.Context) bool {
	p, err := c.Product(ctx, "-100")
	if err != nil {
		c.log.Info("easify server ping failed", zap.Error(err))
		return false
	}
	return p.SKU == "-100"
}

// OrderStatuses fetches the order status reference data.
func (c *Client) OrderStatuses(ctx context.Context) ([]OrderStatus, error) {
	entries, err := c.getEntity(ctx, "OrderStatuses", "")
	if err != nil {
		return nil, err
	}
	out := make([]OrderStatus, 0, len(entries))
	for _, p := range entries {
		out = append(out, OrderStatus{
			ID:          p.asInt("OrderStatusId"),
			Description: p.str("Description"),
			TypeID:      p.asInt("OrderStatusTypeId"),
			System:      p.asBool("System"),
			DefaultType: p.asBool("DefaultType"),
		})
	}
	return out, nil
}

// OrderTypes fetches the order type reference data.
func (c *Client) OrderTypes(ctx context.Context) ([]OrderType, error) {
	entries, err := c.getEntity(ctx, "OrderTypes", "")
	if err != nil {
		return nil, err
	}
	out := make([]OrderType, 0, len(entries))
	for _, p := range entries {
		out = append(out, OrderType{ID: p.asInt("OrderTypeId"), Description: p.str("Description")})
	}
	return out, nil
}

// CustomerTypes fetches the customer type reference data.
func (c *Client) CustomerTypes(ctx context.Context) ([]CustomerType, error) {
	entries, err := c.getEntity(ctx, "CustomerTypes", "")
	if err != nil {
		return nil, err
	}
	out := make([]CustomerType, 0, len(entries))
	for _, p := range entries {
		out = append(out, CustomerType{ID: p.asInt("CustomerTypeId"), Description: p.str("Description")})
	}
	return out, nil
}

// CustomerRelationships fetches the customer relationship reference data.
func (c *Client) CustomerRelationships(ctx context.Context) ([]CustomerRelationship, error) {
	entries, err := c.getEntity(ctx, "CustomerRelationships", "")
	if err != nil {
		return nil, err
	}
	out := make([]CustomerRelationship, 0, len(entries))
	for _, p := range entries {
		out = append(out, CustomerRelationship{
			ID:          p.asInt("CustomerRelationshipId"),
			Description: p.str("Description"),
		})
	}
	return out, nil
}

// PaymentTerms fetches the payment terms reference data.
func (c *Client) PaymentTerms(ctx context.Context) ([]PaymentTerms, error) {
	entries, err := c.getEntity(ctx, "PaymentTerms", "")
	if err != nil {
		return nil, err
	}
	out := make([]PaymentTerms, 0, len(entries))
	for _, p := range entries {
		out = append(out, PaymentTerms{
			ID:          p.asInt("PaymentTermsId"),
			Description: p.str("Description"),
			PaymentDays: p.asInt("PaymentDays"),
		})
	}
	return out, nil
}

// PaymentMethods fetches the payment method reference data.
func (c *Client) PaymentMethods(ctx context.Context) ([]PaymentMethod, error) {
	entries, err := c.getEntity(ctx, "PaymentMethods", "")
	if err != nil {
		return nil, err
	}
	out := make([]PaymentMethod, 0, len(entries))
	for _, p := range entries {
		out = append(out, PaymentMethod{
			ID:          p.asInt("PaymentMethodsId"),
			Description: p.str("Description"),
			Active:      p.asBool("Active"),
			TypeID:      p.asInt("PaymentMethodTypeId"),
			ShowInPOS:   p.asBool("ShowInPOS"),
			RowOrder:    p.asInt("RowOrder"),
		})
	}
	return out, nil
}

// PaymentAccounts fetches the payment account reference data.
func (c *Client) PaymentAccounts(ctx context.Context) ([]PaymentAccount, error) {
	entries, err := c.getEntity(ctx, "PaymentAccounts", "")
	if err != nil {
		return nil, err
	}
	out := make([]PaymentAccount, 0, len(entries))
	for _, p := range entries {
		out = append(out, PaymentAccount{
			ID:             p.asInt("PaymentAccountId"),
			Description:    p.str("Description"),
			Active:         p.asBool("Active"),
			AccountType:    p.str("AccountType"),
			OpeningBalance: p.asFloat("OpeningBalance"),
		})
	}
	return out, nil
}

func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}
