package notification

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/easify/storefront-bridge/internal/catalog"
	"github.com/easify/storefront-bridge/internal/config"
	"github.com/easify/storefront-bridge/internal/easify"
	"github.com/easify/storefront-bridge/internal/lock"
	"github.com/easify/storefront-bridge/internal/store"
)

// unreachableServer fails the test if any remote call is attempted.
type unreachableServer struct{ t *testing.T }

func (s unreachableServer) fail() {
	s.t.Helper()
	s.t.Fatal("remote server contacted for a rejected notification")
}

func (s unreachableServer) Product(context.Context, string) (easify.ProductDetail, error) {
	s.fail()
	return easify.ProductDetail{}, nil
}

func (s unreachableServer) Categories(context.Context) ([]easify.Category, error) {
	s.fail()
	return nil, nil
}

func (s unreachableServer) SubcategoriesByCategory(context.Context, int) ([]easify.Category, error) {
	s.fail()
	return nil, nil
}

func (s unreachableServer) TaxRates(context.Context) ([]easify.TaxRate, error) {
	s.fail()
	return nil, nil
}

func (s unreachableServer) ProductWebInfo(context.Context, string) (easify.WebInfo, error) {
	s.fail()
	return easify.WebInfo{}, nil
}

func (s unreachableServer) AllocationCount(context.Context, string) (int, error) {
	s.fail()
	return 0, nil
}

func TestRejectedNotificationLeavesStoreUntouched(t *testing.T) {
	st := store.NewMemoryStore()
	_, err := st.InsertProduct(store.Product{SKU: "1001", Name: "Widget", StockQuantity: 7})
	require.NoError(t, err)
	before := st.Products()

	server := unreachableServer{t: t}
	engine := catalog.NewEngine(server, st, config.ShippingMapping{}, lock.NewMemoryLock(), zap.NewNop())
	tax := catalog.NewTaxEngine(server, st, zap.NewNop())
	d := NewDispatcher("user", "pass", "", engine, tax, zap.NewNop())

	for _, action := range []string{ActionAdded, ActionModified, ActionDelete} {
		rec := notify(d, envelope(EntityProducts, action, "1001"), basicAuth("user", "wrong"))
		assert.Equal(t, 403, rec.Code, "action %s", action)
	}

	assert.Equal(t, before, st.Products())
	assert.Empty(t, st.TaxRates())
}
