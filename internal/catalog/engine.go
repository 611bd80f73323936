// Package catalog reconciles the local storefront catalog with the Easify
// server. Notifications carry only an entity name, an action and a SKU; the
// engine pulls the full record and applies an idempotent create, update or
// delete against the local store.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/easify/storefront-bridge/internal/config"
	"github.com/easify/storefront-bridge/internal/easify"
	"github.com/easify/storefront-bridge/internal/lock"
	"github.com/easify/storefront-bridge/internal/store"
)

// fallbackCategoryName is used when the remote category cannot be resolved
// to a non-empty description.
const fallbackCategoryName = "Uncategorized"

// Server is the remote read surface the sync engine depends on. Implemented
// by easify.Client.
type Server interface {
	Product(ctx context.Context, sku string) (easify.ProductDetail, error)
	Categories(ctx context.Context) ([]easify.Category, error)
	SubcategoriesByCategory(ctx context.Context, categoryID int) ([]easify.Category, error)
	TaxRates(ctx context.Context) ([]easify.TaxRate, error)
	ProductWebInfo(ctx context.Context, sku string) (easify.WebInfo, error)
	AllocationCount(ctx context.Context, sku string) (int, error)
}

// Engine applies product notifications to the local catalog. All operations
// for a SKU are serialized through the keyed lock, so overlapping
// notifications for the same product cannot interleave their
// read-modify-write cycles.
type Engine struct {
	server   Server
	store    store.CatalogStore
	shipping config.ShippingMapping
	locks    lock.Keyed
	log      *zap.Logger
}

// NewEngine builds an Engine over a remote server, a local store and the
// operator's shipping SKU mapping.
func NewEngine(server Server, st store.CatalogStore, shipping config.ShippingMapping, locks lock.Keyed, logger *zap.Logger) *Engine {
	return &Engine{server: server, store: st, shipping: shipping, locks: locks, log: logger}
}

// ProductAdded handles a Products/Added notification. If the SKU is already
// known locally the notification is redundant and ignored.
func (e *Engine) ProductAdded(ctx context.Context, sku string) error {
	release, err := e.locks.Acquire(ctx, sku)
	if err != nil {
		return err
	}
	defer release()

	exists, err := e.store.ProductExists(sku)
	if err != nil {
		return err
	}
	if exists {
		e.log.Info("product already exists, ignoring added notification", zap.String("sku", sku))
		return nil
	}
	return e.insertOrUpdate(ctx, sku, false)
}

// ProductModified handles a Products/Modified notification. A modification
// for a SKU that was never synced is treated as a missed Added and inserts.
func (e *Engine) ProductModified(ctx context.Context, sku string) error {
	release, err := e.locks.Acquire(ctx, sku)
	if err != nil {
		return err
	}
	defer release()

	exists, err := e.store.ProductExists(sku)
	if err != nil {
		return err
	}
	return e.insertOrUpdate(ctx, sku, exists)
}

// ProductDeleted handles a Products/Delete notification. Deleting a SKU
// that does not exist locally is a no-op.
func (e *Engine) ProductDeleted(ctx context.Context, sku string) error {
	release, err := e.locks.Acquire(ctx, sku)
	if err != nil {
		return err
	}
	defer release()

	return e.deleteLocal(sku)
}

// ProductInfoUpdated handles a ProductInfo/Added or Modified notification:
// the web image and long description changed but the product record itself
// did not.
func (e *Engine) ProductInfoUpdated(ctx context.Context, sku string) error {
	release, err := e.locks.Acquire(ctx, sku)
	if err != nil {
		return err
	}
	defer release()

	exists, err := e.store.ProductExists(sku)
	if err != nil {
		return err
	}
	if !exists {
		e.log.Info("product info notification for unknown sku, ignoring", zap.String("sku", sku))
		return nil
	}
	return e.syncWebInfo(ctx, sku)
}

func (e *Engine) deleteLocal(sku string) error {
	err := e.store.DeleteProduct(sku)
	if errors.Is(err, store.ErrProductNotFound) {
		e.log.Info("product not present locally, nothing to delete", zap.String("sku", sku))
		return nil
	}
	return err
}

// insertOrUpdate is the shared sync path for Added and Modified. It pulls
// the full remote record and writes the local product, redirecting to the
// delete path when the product is unpublished or discontinued.
func (e *Engine) insertOrUpdate(ctx context.Context, sku string, exists bool) error {
	detail, err := e.server.Product(ctx, sku)
	if err != nil {
		return fmt.Errorf("pull product %s: %w", sku, err)
	}

	if !detail.Published || detail.Discontinued {
		e.log.Info("product unpublished or discontinued, removing local record",
			zap.String("sku", sku),
			zap.Bool("published", detail.Published),
			zap.Bool("discontinued", detail.Discontinued))
		return e.deleteLocal(sku)
	}

	price, err := RetailPrice(detail.CostPrice, detail.RetailMargin)
	if err != nil {
		return fmt.Errorf("price product %s: %w", sku, err)
	}
	priceValue, _ := price.Float64()

	// Reserved delivery SKUs represent shipping charges, not products. The
	// price lands in the shipping settings and no catalog record is written.
	if e.shipping.IsDeliverySku(sku) {
		kind := e.shippingKind(sku)
		e.log.Info("delivery sku updated, adjusting shipping charge",
			zap.String("sku", sku), zap.String("kind", kind), zap.Float64("price", priceValue))
		return e.store.UpdateShippingCharge(kind, priceValue)
	}

	refs := newRefCache(e.server)

	categoryID, err := e.resolveCategory(ctx, refs, detail.CategoryID, detail.SubcategoryID)
	if err != nil {
		return fmt.Errorf("resolve category for %s: %w", sku, err)
	}

	rates, err := refs.TaxRates(ctx)
	if err != nil {
		return fmt.Errorf("pull tax rates for %s: %w", sku, err)
	}

	p := store.Product{
		SKU:           sku,
		Name:          detail.Description,
		Price:         priceValue,
		RegularPrice:  priceValue,
		SalePrice:     priceValue,
		TaxStatus:     store.TaxStatusTaxable,
		TaxClass:      taxClassFor(rates, detail.TaxID),
		StockStatus:   store.StockStatusInStock,
		StockQuantity: detail.StockLevel,
		ManageStock:   true,
		Backorders:    false,
		Downloadable:  false,
		Virtual:       false,
		Visible:       true,
		Weight:        detail.Weight,
		CategoryID:    categoryID,
		CreatedAt:     detail.DateAdded,
	}

	if exists {
		// Allocation counts only apply to updates. A freshly synced product
		// has no outstanding orders against it, so the insert path takes the
		// remote stock level as is.
		allocated, err := e.server.AllocationCount(ctx, sku)
		if err != nil {
			return fmt.Errorf("pull allocation count for %s: %w", sku, err)
		}
		p.StockQuantity = detail.StockLevel - allocated
		if _, err := e.store.UpdateProduct(p); err != nil {
			return fmt.Errorf("update product %s: %w", sku, err)
		}
		e.log.Info("product updated", zap.String("sku", sku), zap.Int("stock", p.StockQuantity))
	} else {
		if _, err := e.store.InsertProduct(p); err != nil {
			return fmt.Errorf("insert product %s: %w", sku, err)
		}
		e.log.Info("product created", zap.String("sku", sku), zap.Float64("price", priceValue))
	}

	if detail.WebInfoPresent {
		return e.syncWebInfo(ctx, sku)
	}
	return nil
}

// resolveCategory maps the remote category and subcategory ids to a local
// category id, creating local categories lazily. Remote entries are matched
// by description; an unresolvable category falls back to a fixed name, and
// an unresolvable subcategory attaches the product to the parent category.
func (e *Engine) resolveCategory(ctx context.Context, refs *refCache, categoryID, subcategoryID int) (int, error) {
	cats, err := refs.Categories(ctx)
	if err != nil {
		return 0, err
	}

	name := fallbackCategoryName
	for _, c := range cats {
		if c.ID == categoryID {
			if c.Description != "" {
				name = c.Description
			}
			break
		}
	}

	parent, err := e.store.EnsureCategory(name, 0)
	if err != nil {
		return 0, err
	}

	subs, err := refs.Subcategories(ctx, categoryID)
	if err != nil {
		return 0, err
	}
	for _, s := range subs {
		if s.ID == subcategoryID && s.Description != "" {
			child, err := e.store.EnsureCategory(s.Description, parent.ID)
			if err != nil {
				return 0, err
			}
			return child.ID, nil
		}
	}
	return parent.ID, nil
}

// syncWebInfo pulls the product image and long description and writes them
// to the local record, replacing any previous image.
func (e *Engine) syncWebInfo(ctx context.Context, sku string) error {
	info, err := e.server.ProductWebInfo(ctx, sku)
	if err != nil {
		return fmt.Errorf("pull web info for %s: %w", sku, err)
	}
	if err := e.store.UpdateProductWebInfo(sku, info.Image, info.Description); err != nil {
		return fmt.Errorf("store web info for %s: %w", sku, err)
	}
	e.log.Info("product web info updated", zap.String("sku", sku), zap.Int("image_bytes", len(info.Image)))
	return nil
}

func (e *Engine) shippingKind(sku string) string {
	switch sku {
	case e.shipping.FreeShipping:
		return store.ShippingFreeMinAmount
	case e.shipping.LocalDelivery:
		return store.ShippingLocalDeliveryFee
	case e.shipping.FlatRate:
		return store.ShippingFlatRateCost
	default:
		return store.ShippingInternationalCost
	}
}
