package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetailPrice(t *testing.T) {
	tests := []struct {
		name   string
		cost   string
		margin string
		want   string
	}{
		{"fifty percent margin doubles cost", "50", "50", "100"},
		{"zero margin keeps cost", "19.99", "0", "19.99"},
		{"quarter margin", "33.33", "25", "44.44"},
		{"rounded to four places", "10", "30", "14.2857"},
		{"free product stays free", "0", "40", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cost := decimal.RequireFromString(tt.cost)
			margin := decimal.RequireFromString(tt.margin)
			got, err := RetailPrice(cost, margin)
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
				"got %s, want %s", got, tt.want)
		})
	}
}

func TestRetailPriceRejectsFullMargin(t *testing.T) {
	for _, margin := range []string{"100", "150"} {
		_, err := RetailPrice(decimal.NewFromInt(50), decimal.RequireFromString(margin))
		assert.ErrorIs(t, err, ErrInvalidMargin, "margin %s", margin)
	}
}
