package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/easify/storefront-bridge/internal/easify"
	"github.com/easify/storefront-bridge/internal/store"
)

func newTestTaxEngine(server *fakeServer, st store.CatalogStore) *TaxEngine {
	return NewTaxEngine(server, st, zap.NewNop())
}

func TestRateCreatedAppendsClassOnce(t *testing.T) {
	server := newFakeServer()
	server.taxRates = []easify.TaxRate{
		{TaxID: 3, Code: "RED", Rate: 5, Description: "Reduced rate"},
	}
	st := store.NewMemoryStore()
	engine := newTestTaxEngine(server, st)

	class, err := engine.RateUpdated(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "RED", class)

	classes, err := st.TaxClasses()
	require.NoError(t, err)
	assert.Equal(t, []string{"RED"}, classes)

	rates := st.TaxRates()
	require.Len(t, rates, 1)
	assert.Equal(t, "Reduced rate", rates[0].Name)
	assert.Equal(t, 5.0, rates[0].Rate)
	assert.Equal(t, "RED", rates[0].Class)

	// A repeat notification updates in place; nothing is duplicated.
	_, err = engine.RateUpdated(context.Background(), 3)
	require.NoError(t, err)
	classes, err = st.TaxClasses()
	require.NoError(t, err)
	assert.Equal(t, []string{"RED"}, classes)
	assert.Len(t, st.TaxRates(), 1)
}

func TestRateUpdatedMatchesByDescription(t *testing.T) {
	// Local rate records are joined to remote rates by description text,
	// so a remote rate change with a new code updates the existing record
	// rather than creating a second one.
	server := newFakeServer()
	server.taxRates = []easify.TaxRate{
		{TaxID: 3, Code: "RED2", Rate: 7.5, Description: "Reduced rate"},
	}
	st := store.NewMemoryStore()
	_, err := st.InsertTaxRate(store.TaxRateRecord{Name: "Reduced rate", Rate: 5, Class: "RED"})
	require.NoError(t, err)

	engine := newTestTaxEngine(server, st)
	class, err := engine.RateUpdated(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "RED2", class)

	rates := st.TaxRates()
	require.Len(t, rates, 1)
	assert.Equal(t, 7.5, rates[0].Rate)
	assert.Equal(t, "RED2", rates[0].Class)
}

func TestRateDeletedRemovesClassAndRate(t *testing.T) {
	server := newFakeServer()
	server.taxRates = []easify.TaxRate{
		{TaxID: 3, Code: "RED", Rate: 5, Description: "Reduced rate"},
	}
	st := store.NewMemoryStore()
	engine := newTestTaxEngine(server, st)

	_, err := engine.RateUpdated(context.Background(), 3)
	require.NoError(t, err)

	require.NoError(t, engine.RateDeleted(context.Background(), 3))

	classes, err := st.TaxClasses()
	require.NoError(t, err)
	assert.Empty(t, classes)
	assert.Empty(t, st.TaxRates())
}

func TestRateDeletedUnregisteredIsNoop(t *testing.T) {
	server := newFakeServer()
	server.taxRates = []easify.TaxRate{
		{TaxID: 3, Code: "RED", Rate: 5, Description: "Reduced rate"},
	}
	st := store.NewMemoryStore()
	engine := newTestTaxEngine(server, st)

	require.NoError(t, engine.RateDeleted(context.Background(), 3))
	classes, err := st.TaxClasses()
	require.NoError(t, err)
	assert.Empty(t, classes)
}

func TestRateUpdatedUnknownRemoteID(t *testing.T) {
	server := newFakeServer()
	st := store.NewMemoryStore()
	engine := newTestTaxEngine(server, st)

	_, err := engine.RateUpdated(context.Background(), 99)
	assert.ErrorIs(t, err, easify.ErrNotFound)
	assert.Empty(t, st.TaxRates())
}

func TestDefaultTaxRate(t *testing.T) {
	flagged := []easify.TaxRate{
		{TaxID: 2, Code: "STD", Rate: 20, Description: "Standard"},
		{TaxID: 3, Code: "RED", Rate: 5, Description: "Reduced", IsDefault: true},
	}
	assert.Equal(t, 3, DefaultTaxRate(flagged).TaxID)

	// No flagged default falls back to the stock standard rate.
	def := DefaultTaxRate(nil)
	assert.Equal(t, 2, def.TaxID)
	assert.Equal(t, 20.0, def.Rate)
}

func TestTaxClassFor(t *testing.T) {
	rates := []easify.TaxRate{
		{TaxID: 2, Code: "STD", Rate: 20, Description: "Standard", IsDefault: true},
		{TaxID: 3, Code: "RED", Rate: 5, Description: "Reduced"},
	}
	assert.Equal(t, "RED", taxClassFor(rates, 3))
	assert.Equal(t, "STD", taxClassFor(rates, 99), "unknown id falls back to the default code")
}
