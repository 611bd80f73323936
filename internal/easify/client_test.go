package easify

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/easify/storefront-bridge/internal/config"
)

func decimalFromString(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.Easify{
		ServerURL: srv.URL,
		Username:  "shop",
		Password:  "secret",
	}, zap.NewNop())
}

func TestProductParsesEntry(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/Products(1001)", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "shop", user)
		assert.Equal(t, "secret", pass)
		fmt.Fprint(w, productEntryXML)
	})

	p, err := client.Product(context.Background(), "1001")
	require.NoError(t, err)
	assert.Equal(t, "1001", p.SKU)
	assert.Equal(t, "Widget", p.Description)
	assert.True(t, p.CostPrice.Equal(decimalFromString(t, "50.0000")))
	assert.Equal(t, 10, p.StockLevel)
	assert.True(t, p.Published)
}

func TestProductNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	_, err := client.Product(context.Background(), "404")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProductEmptySKUTreatedAsMissing(t *testing.T) {
	body := `<entry xmlns="http://www.w3.org/2005/Atom"
	  xmlns:d="http://schemas.microsoft.com/ado/2007/08/dataservices"
	  xmlns:m="http://schemas.microsoft.com/ado/2007/08/dataservices/metadata">
	  <content type="application/xml"><m:properties>
	    <d:SKU m:null="true" />
	  </m:properties></content></entry>`
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, body)
	})

	_, err := client.Product(context.Background(), "1001")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestServerErrorWrapsUnavailable(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.Product(context.Background(), "1001")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestTransportErrorWrapsUnavailable(t *testing.T) {
	client := NewClient(config.Easify{ServerURL: "http://127.0.0.1:1"}, zap.NewNop())
	_, err := client.Product(context.Background(), "1001")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestTaxRatesTrimmed(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/TaxRates", r.URL.Path)
		fmt.Fprint(w, taxFeedXML)
	})

	rates, err := client.TaxRates(context.Background())
	require.NoError(t, err)
	require.Len(t, rates, 2)
	assert.Equal(t, "T1", rates[0].Code, "codes are whitespace-trimmed")
	assert.Equal(t, "Standard", rates[0].Description)
	assert.True(t, rates[0].IsDefault)
	assert.Equal(t, 5.0, rates[1].Rate)
}

func TestPaymentMethodsReferenceData(t *testing.T) {
	body := `<feed xmlns="http://www.w3.org/2005/Atom"
	  xmlns:d="http://schemas.microsoft.com/ado/2007/08/dataservices"
	  xmlns:m="http://schemas.microsoft.com/ado/2007/08/dataservices/metadata">
	  <entry><content type="application/xml"><m:properties>
	    <d:PaymentMethodsId m:type="Edm.Int32">4</d:PaymentMethodsId>
	    <d:Description>Credit Card</d:Description>
	    <d:Active m:type="Edm.Boolean">true</d:Active>
	    <d:PaymentMethodTypeId m:type="Edm.Int32">2</d:PaymentMethodTypeId>
	    <d:ShowInPOS m:type="Edm.Boolean">false</d:ShowInPOS>
	  </m:properties></content></entry>
	  <entry><content type="application/xml"><m:properties>
	    <d:PaymentMethodsId m:type="Edm.Int32">1</d:PaymentMethodsId>
	    <d:Description>Cash</d:Description>
	    <d:Active m:type="Edm.Boolean">true</d:Active>
	  </m:properties></content></entry></feed>`

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/PaymentMethods", r.URL.Path)
		fmt.Fprint(w, body)
	})

	methods, err := client.PaymentMethods(context.Background())
	require.NoError(t, err)
	require.Len(t, methods, 2)
	assert.Equal(t, 4, methods[0].ID)
	assert.Equal(t, "Credit Card", methods[0].Description)
	assert.True(t, methods[0].Active)
	assert.Equal(t, 2, methods[0].TypeID)
	assert.False(t, methods[0].ShowInPOS)
	assert.Equal(t, 1, methods[1].ID)
}

func TestOrderStatusesReferenceData(t *testing.T) {
	body := `<feed xmlns="http://www.w3.org/2005/Atom"
	  xmlns:d="http://schemas.microsoft.com/ado/2007/08/dataservices"
	  xmlns:m="http://schemas.microsoft.com/ado/2007/08/dataservices/metadata">
	  <entry><content type="application/xml"><m:properties>
	    <d:OrderStatusId m:type="Edm.Int32">11</d:OrderStatusId>
	    <d:Description>Internet order received</d:Description>
	    <d:OrderStatusTypeId m:type="Edm.Int32">1</d:OrderStatusTypeId>
	    <d:System m:type="Edm.Boolean">true</d:System>
	    <d:DefaultType m:type="Edm.Boolean">false</d:DefaultType>
	  </m:properties></content></entry></feed>`

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/OrderStatuses", r.URL.Path)
		fmt.Fprint(w, body)
	})

	statuses, err := client.OrderStatuses(context.Background())
	require.NoError(t, err)
	require.Len(t, statuses, 1)
	assert.Equal(t, 11, statuses[0].ID)
	assert.Equal(t, "Internet order received", statuses[0].Description)
	assert.True(t, statuses[0].System)
}

func TestProductWebInfoDecodesImage(t *testing.T) {
	image := []byte{0xff, 0xd8, 0xff}
	body := fmt.Sprintf(`<feed xmlns="http://www.w3.org/2005/Atom"
	  xmlns:d="http://schemas.microsoft.com/ado/2007/08/dataservices"
	  xmlns:m="http://schemas.microsoft.com/ado/2007/08/dataservices/metadata">
	  <entry><content type="application/xml"><m:properties>
	    <d:SKU m:type="Edm.Int32">1001</d:SKU>
	    <d:Image m:type="Edm.Binary">%s</d:Image>
	    <d:Description>&lt;p&gt;Long form&lt;/p&gt;</d:Description>
	  </m:properties></content></entry></feed>`,
		base64.StdEncoding.EncodeToString(image))

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "SKU eq 1001", r.URL.Query().Get("$filter"))
		fmt.Fprint(w, body)
	})

	info, err := client.ProductWebInfo(context.Background(), "1001")
	require.NoError(t, err)
	assert.Equal(t, image, info.Image)
	assert.Equal(t, "<p>Long form</p>", info.Description)
}

func TestAllocationCount(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/Products_Allocated", r.URL.Path)
		assert.Equal(t, "2002", r.URL.Query().Get("SKU"))
		fmt.Fprint(w, `<d:Products_Allocated xmlns:d="http://schemas.microsoft.com/ado/2007/08/dataservices">5</d:Products_Allocated>`)
	})

	n, err := client.AllocationCount(context.Background(), "2002")
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}

func TestPing(t *testing.T) {
	body := `<entry xmlns="http://www.w3.org/2005/Atom"
	  xmlns:d="http://schemas.microsoft.com/ado/2007/08/dataservices"
	  xmlns:m="http://schemas.microsoft.com/ado/2007/08/dataservices/metadata">
	  <content type="application/xml"><m:properties>
	    <d:SKU m:type="Edm.Int32">-100</d:SKU>
	  </m:properties></content></entry>`
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/Products(-100)", r.URL.Path)
		fmt.Fprint(w, body)
	})
	assert.True(t, client.Ping(context.Background()))

	down := NewClient(config.Easify{ServerURL: "http://127.0.0.1:1"}, zap.NewNop())
	assert.False(t, down.Ping(context.Background()))
}
