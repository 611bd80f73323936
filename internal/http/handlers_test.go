package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/easify/storefront-bridge/internal/auth"
	"github.com/easify/storefront-bridge/internal/config"
	"github.com/easify/storefront-bridge/internal/easify"
)

type stubSyncer struct {
	skus []string
	err  error
}

func (s *stubSyncer) ProductModified(_ context.Context, sku string) error {
	s.skus = append(s.skus, sku)
	return s.err
}

type stubExporter struct {
	orders []int
	err    error
}

func (s *stubExporter) Export(_ context.Context, orderNo int) error {
	s.orders = append(s.orders, orderNo)
	return s.err
}

type stubPinger struct{ up bool }

func (s stubPinger) Ping(context.Context) bool { return s.up }

type stubDiscoverer struct {
	endpoint string
	err      error
}

func (s stubDiscoverer) ServerEndpoint(context.Context) (string, error) {
	return s.endpoint, s.err
}

type stubReference struct{ err error }

func (s stubReference) OrderStatuses(context.Context) ([]easify.OrderStatus, error) {
	return []easify.OrderStatus{{ID: 11, Description: "Internet order received"}}, s.err
}

func (s stubReference) OrderTypes(context.Context) ([]easify.OrderType, error) {
	return []easify.OrderType{{ID: 5, Description: "Internet"}}, s.err
}

func (s stubReference) CustomerTypes(context.Context) ([]easify.CustomerType, error) {
	return []easify.CustomerType{{ID: 1, Description: "Retail"}}, s.err
}

func (s stubReference) CustomerRelationships(context.Context) ([]easify.CustomerRelationship, error) {
	return []easify.CustomerRelationship{{ID: 3, Description: "Customer"}}, s.err
}

func (s stubReference) PaymentTerms(context.Context) ([]easify.PaymentTerms, error) {
	return []easify.PaymentTerms{{ID: 1, Description: "Pro forma"}}, s.err
}

func (s stubReference) PaymentMethods(context.Context) ([]easify.PaymentMethod, error) {
	return []easify.PaymentMethod{{ID: 4, Description: "Credit card"}}, s.err
}

func (s stubReference) PaymentAccounts(context.Context) ([]easify.PaymentAccount, error) {
	return []easify.PaymentAccount{{ID: 7, Description: "Online"}}, s.err
}

type markerDispatcher struct{ hits int }

func (d *markerDispatcher) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	d.hits++
	w.WriteHeader(http.StatusOK)
}

func setupTestDeps(t *testing.T) (*stubSyncer, *stubExporter, *markerDispatcher) {
	t.Helper()
	hash, err := auth.HashPassword("letmein")
	require.NoError(t, err)
	SetConfig(config.Config{
		Admin: config.Admin{Username: "admin", PasswordHash: hash, JWTSecret: "test-secret"},
	})
	s := &stubSyncer{}
	e := &stubExporter{}
	d := &markerDispatcher{}
	SetProductSyncer(s)
	SetOrderExporter(e)
	SetPinger(stubPinger{up: true})
	SetDiscoverer(stubDiscoverer{endpoint: "https://server.example:9000/api"})
	SetDispatcher(d)
	SetReferenceLister(stubReference{})
	SetReconfigure(nil)
	return s, e, d
}

func bearerToken(t *testing.T) string {
	t.Helper()
	token, err := auth.GenerateToken("admin", []byte("test-secret"))
	require.NoError(t, err)
	return "Bearer " + token
}

func TestNotificationInterceptMatchesPathVariants(t *testing.T) {
	_, _, dispatcher := setupTestDeps(t)
	router := NewRouter()

	for _, path := range []string{"/easify", "/Easify/", "/shop/wp-admin/EASIFY", "/x/easify/"} {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, "path %s", path)
	}
	assert.Equal(t, 4, dispatcher.hits)

	// GETs and non-matching paths fall through to normal routing.
	req := httptest.NewRequest(http.MethodGet, "/easify", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/easify-webhooks", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, 4, dispatcher.hits)
}

func TestLoginIssuesToken(t *testing.T) {
	setupTestDeps(t)
	router := NewRouter()

	body, _ := json.Marshal(loginRequest{Username: "admin", Password: "letmein"})
	req := httptest.NewRequest(http.MethodPost, "/admin/login", bytes.NewReader(body))
	req.RemoteAddr = "10.0.0.1:1111"
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp loginResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.NotEmpty(t, resp.Token)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	setupTestDeps(t)
	router := NewRouter()

	body, _ := json.Marshal(loginRequest{Username: "admin", Password: "wrong"})
	req := httptest.NewRequest(http.MethodPost, "/admin/login", bytes.NewReader(body))
	req.RemoteAddr = "10.0.0.2:1111"
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginRateLimited(t *testing.T) {
	setupTestDeps(t)
	router := NewRouter()

	var last int
	for range 10 {
		body, _ := json.Marshal(loginRequest{Username: "admin", Password: "wrong"})
		req := httptest.NewRequest(http.MethodPost, "/admin/login", bytes.NewReader(body))
		req.RemoteAddr = "10.0.0.3:1111"
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		last = rec.Code
	}
	assert.Equal(t, http.StatusTooManyRequests, last)
}

func TestAdminRoutesRequireToken(t *testing.T) {
	setupTestDeps(t)
	router := NewRouter()

	req := httptest.NewRequest(http.MethodGet, "/admin/settings", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/admin/settings", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSettingsRedacted(t *testing.T) {
	setupTestDeps(t)
	c := getConfig()
	c.Easify = config.Easify{ServerURL: "https://server.example:9000/api", Username: "shop", Password: "topsecret"}
	SetConfig(c)
	router := NewRouter()

	req := httptest.NewRequest(http.MethodGet, "/admin/settings", nil)
	req.Header.Set("Authorization", bearerToken(t))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "topsecret")
	assert.Contains(t, rec.Body.String(), "https://server.example:9000/api")
}

func TestReferenceData(t *testing.T) {
	setupTestDeps(t)
	router := NewRouter()

	req := httptest.NewRequest(http.MethodGet, "/admin/reference-data", nil)
	req.Header.Set("Authorization", bearerToken(t))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp referenceDataResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []refEntry{{ID: 11, Description: "Internet order received"}}, resp.OrderStatuses)
	assert.Equal(t, []refEntry{{ID: 4, Description: "Credit card"}}, resp.PaymentMethods)
	assert.Equal(t, []refEntry{{ID: 7, Description: "Online"}}, resp.PaymentAccounts)

	SetReferenceLister(stubReference{err: errors.New("connection refused")})
	req = httptest.NewRequest(http.MethodGet, "/admin/reference-data", nil)
	req.Header.Set("Authorization", bearerToken(t))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestUpdateSettings(t *testing.T) {
	setupTestDeps(t)
	c := getConfig()
	c.Easify.ServerURL = "https://old.example:9000/api"
	c.Shipping.FlatRate = "8000"
	c.Orders.StatusID = 11
	SetConfig(c)

	var rewired []config.Config
	SetReconfigure(func(c config.Config) { rewired = append(rewired, c) })
	router := NewRouter()

	body := bytes.NewBufferString(`{"server_url":"https://new.example:9000/api","flat_rate_sku":"8001"}`)
	req := httptest.NewRequest(http.MethodPut, "/admin/settings", body)
	req.Header.Set("Authorization", bearerToken(t))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp settingsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "https://new.example:9000/api", resp.ServerURL)
	assert.Equal(t, "8001", resp.Shipping["flat_rate"])
	assert.Equal(t, 11, resp.OrderStatusID)

	require.Len(t, rewired, 1)
	assert.Equal(t, "https://new.example:9000/api", rewired[0].Easify.ServerURL)
	assert.Equal(t, "8001", rewired[0].Shipping.FlatRate)

	req = httptest.NewRequest(http.MethodPut, "/admin/settings", bytes.NewBufferString("{"))
	req.Header.Set("Authorization", bearerToken(t))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestConcurrentSettingsUpdateAndRead(t *testing.T) {
	setupTestDeps(t)
	SetReconfigure(func(config.Config) {})
	router := NewRouter()
	token := bearerToken(t)

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			body := fmt.Sprintf(`{"order_status_id":%d}`, i)
			req := httptest.NewRequest(http.MethodPut, "/admin/settings", strings.NewReader(body))
			req.Header.Set("Authorization", token)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusOK, rec.Code)
		}()
		go func() {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodGet, "/admin/settings", nil)
			req.Header.Set("Authorization", token)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusOK, rec.Code)
		}()
	}
	wg.Wait()
}

func TestExportOrderHandler(t *testing.T) {
	_, exporter, _ := setupTestDeps(t)
	router := NewRouter()

	req := httptest.NewRequest(http.MethodPost, "/admin/orders/42/export", nil)
	req.Header.Set("Authorization", bearerToken(t))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []int{42}, exporter.orders)

	req = httptest.NewRequest(http.MethodPost, "/admin/orders/abc/export", nil)
	req.Header.Set("Authorization", bearerToken(t))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportOrderFailure(t *testing.T) {
	_, exporter, _ := setupTestDeps(t)
	exporter.err = errors.New("cloud unreachable")
	router := NewRouter()

	req := httptest.NewRequest(http.MethodPost, "/admin/orders/42/export", nil)
	req.Header.Set("Authorization", bearerToken(t))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestSyncProductHandler(t *testing.T) {
	syncer, _, _ := setupTestDeps(t)
	router := NewRouter()

	req := httptest.NewRequest(http.MethodPost, "/admin/products/1001/sync", nil)
	req.Header.Set("Authorization", bearerToken(t))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"1001"}, syncer.skus)
}

func TestTestConnectionHandler(t *testing.T) {
	setupTestDeps(t)
	router := NewRouter()

	req := httptest.NewRequest(http.MethodPost, "/admin/test-connection", nil)
	req.Header.Set("Authorization", bearerToken(t))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"reachable": true}`, rec.Body.String())
}

func TestDiscoverHandler(t *testing.T) {
	setupTestDeps(t)
	router := NewRouter()

	req := httptest.NewRequest(http.MethodPost, "/admin/discover", nil)
	req.Header.Set("Authorization", bearerToken(t))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"endpoint": "https://server.example:9000/api"}`, rec.Body.String())
}
