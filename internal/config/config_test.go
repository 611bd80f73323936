package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "memory", cfg.StorageBackend)
	assert.False(t, cfg.LoggingEnabled)
	assert.Equal(t, 600*time.Second, cfg.Easify.Timeout)
	assert.Equal(t, 25*time.Second, cfg.Easify.ShortTimeout)
	assert.False(t, cfg.Easify.InsecureSkipVerify)
	assert.Equal(t, DefaultOrderStatusID, cfg.Orders.StatusID)
	assert.Equal(t, DefaultOrderTypeID, cfg.Orders.TypeID)
	assert.Equal(t, "Internet Order", cfg.Orders.Comment)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bridge.yaml")
	body := `
listen_addr: ":9090"
storage_backend: postgres
easify:
  server_url: https://server.example:9000/api
  username: shop
  password: secret
shipping:
  flat_rate: "9001"
orders:
  discount_sku: "8001"
payments:
  - name: stripe
    method_id: 4
    account_id: 7
    enabled: true
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.ListenAddr)
	assert.Equal(t, "postgres", cfg.StorageBackend)
	assert.Equal(t, "https://server.example:9000/api", cfg.Easify.ServerURL)
	assert.Equal(t, "9001", cfg.Shipping.FlatRate)
	assert.Equal(t, "8001", cfg.Orders.DiscountSku)
	require.Len(t, cfg.Payments, 1)
	assert.True(t, cfg.Payments[0].Enabled)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/does/not/exist.yaml")
	assert.Error(t, err)
}

func TestShippingMapping(t *testing.T) {
	m := ShippingMapping{FreeShipping: "9000", FlatRate: "9001"}

	assert.Equal(t, "9000", m.SkuForMethod("free_shipping"))
	assert.Equal(t, "9001", m.SkuForMethod(" Flat_Rate "))
	assert.Equal(t, "", m.SkuForMethod("local_delivery"))
	assert.Equal(t, "", m.SkuForMethod("carrier_pigeon"))

	assert.True(t, m.IsDeliverySku("9000"))
	assert.True(t, m.IsDeliverySku("9001"))
	assert.False(t, m.IsDeliverySku("1001"))
	assert.False(t, m.IsDeliverySku(""))
}

func TestPaymentMappingByName(t *testing.T) {
	cfg := Config{Payments: []PaymentMapping{
		{Name: "Default", MethodID: 1, Enabled: true},
		{Name: "stripe", MethodID: 4, Enabled: true},
		{Name: "cheque", MethodID: 2, Enabled: false},
	}}

	assert.Equal(t, 4, cfg.PaymentMappingByName("Stripe").MethodID)
	assert.Equal(t, 1, cfg.PaymentMappingByName("paypal").MethodID, "unknown methods fall back to Default")
	assert.True(t, cfg.IsPaymentMethodEnabled("stripe"))
	assert.False(t, cfg.IsPaymentMethodEnabled("cheque"))
	assert.False(t, cfg.IsPaymentMethodEnabled("paypal"))
}
