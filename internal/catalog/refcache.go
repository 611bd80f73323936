package catalog

import (
	"context"

	"github.com/easify/storefront-bridge/internal/easify"
)

// refCache memoizes reference-data pulls for the duration of one sync
// operation, so resolving a product's category and tax class does not hit
// the server more than once per list. A fresh cache is built per operation
// and never shared across requests; it is not safe for concurrent use.
type refCache struct {
	server Server

	categories     []easify.Category
	haveCategories bool
	subcategories  map[int][]easify.Category
	taxRates       []easify.TaxRate
	haveTaxRates   bool
}

func newRefCache(server Server) *refCache {
	return &refCache{server: server, subcategories: make(map[int][]easify.Category)}
}

func (c *refCache) Categories(ctx context.Context) ([]easify.Category, error) {
	if !c.haveCategories {
		cats, err := c.server.Categories(ctx)
		if err != nil {
			return nil, err
		}
		c.categories = cats
		c.haveCategories = true
	}
	return c.categories, nil
}

func (c *refCache) Subcategories(ctx context.Context, categoryID int) ([]easify.Category, error) {
	if subs, ok := c.subcategories[categoryID]; ok {
		return subs, nil
	}
	subs, err := c.server.SubcategoriesByCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	c.subcategories[categoryID] = subs
	return subs, nil
}

func (c *refCache) TaxRates(ctx context.Context) ([]easify.TaxRate, error) {
	if !c.haveTaxRates {
		rates, err := c.server.TaxRates(ctx)
		if err != nil {
			return nil, err
		}
		c.taxRates = rates
		c.haveTaxRates = true
	}
	return c.taxRates, nil
}
