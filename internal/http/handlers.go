package http

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/easify/storefront-bridge/internal/auth"
	"github.com/easify/storefront-bridge/internal/config"
	"github.com/easify/storefront-bridge/internal/http/ratelimit"
)

var loginLimiter = ratelimit.New(1, 5)

// LoginLimiterCleanupLoop expires idle login limiter entries. Run in its
// own goroutine.
func LoginLimiterCleanupLoop() {
	loginLimiter.StartCleanupLoop()
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type settingsUpdate struct {
	ServerURL      *string `json:"server_url"`
	Username       *string `json:"username"`
	Password       *string `json:"password"`
	PrivateKey     *string `json:"private_key"`
	LoggingEnabled *bool   `json:"logging_enabled"`

	FreeShippingSku          *string `json:"free_shipping_sku"`
	LocalDeliverySku         *string `json:"local_delivery_sku"`
	FlatRateSku              *string `json:"flat_rate_sku"`
	InternationalDeliverySku *string `json:"international_delivery_sku"`

	DiscountSku   *string `json:"discount_sku"`
	OrderStatusID *int    `json:"order_status_id"`
	OrderTypeID   *int    `json:"order_type_id"`
	OrderComment  *string `json:"order_comment"`
}

type settingsResponse struct {
	ServerURL      string            `json:"server_url"`
	Username       string            `json:"username"`
	LoggingEnabled bool              `json:"logging_enabled"`
	StorageBackend string            `json:"storage_backend"`
	Shipping       map[string]string `json:"shipping_skus"`
	DiscountSku    string            `json:"discount_sku"`
	OrderStatusID  int               `json:"order_status_id"`
	OrderTypeID    int               `json:"order_type_id"`
	OrderComment   string            `json:"order_comment"`
}

// HealthHandler godoc
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /healthz [get]
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// LoginHandler godoc
// @Summary Authenticate the admin user and return a bearer token
// @Tags admin
// @Accept json
// @Produce json
// @Param credentials body loginRequest true "admin credentials"
// @Success 200 {object} loginResponse
// @Failure 401 {string} string "Unauthorized"
// @Failure 429 {string} string "Too many attempts"
// @Router /admin/login [post]
func LoginHandler(w http.ResponseWriter, r *http.Request) {
	if !loginLimiter.Allow(clientIP(r)) {
		http.Error(w, "too many login attempts", http.StatusTooManyRequests)
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	c := getConfig()
	if req.Username != c.Admin.Username || !auth.CheckPassword(c.Admin.PasswordHash, req.Password) {
		getLogger().Warn("admin login rejected", zap.String("user", req.Username))
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := auth.GenerateToken(req.Username, []byte(c.Admin.JWTSecret))
	if err != nil {
		http.Error(w, "failed to generate token", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Token: token})
}

// SettingsHandler godoc
// @Summary Show the active bridge settings, credentials redacted
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Success 200 {object} settingsResponse
// @Failure 401 {string} string "Unauthorized"
// @Router /admin/settings [get]
func SettingsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, settingsFromConfig(getConfig()))
}

// UpdateSettingsHandler godoc
// @Summary Update the bridge settings, absent fields are left unchanged
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param settings body settingsUpdate true "settings fields to change"
// @Success 200 {object} settingsResponse
// @Failure 400 {string} string "Invalid input"
// @Failure 401 {string} string "Unauthorized"
// @Router /admin/settings [put]
func UpdateSettingsHandler(w http.ResponseWriter, r *http.Request) {
	var req settingsUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	next := getConfig()
	applyString(&next.Easify.ServerURL, req.ServerURL)
	applyString(&next.Easify.Username, req.Username)
	applyString(&next.Easify.Password, req.Password)
	applyString(&next.Easify.PrivateKey, req.PrivateKey)
	if req.LoggingEnabled != nil {
		next.LoggingEnabled = *req.LoggingEnabled
	}
	applyString(&next.Shipping.FreeShipping, req.FreeShippingSku)
	applyString(&next.Shipping.LocalDelivery, req.LocalDeliverySku)
	applyString(&next.Shipping.FlatRate, req.FlatRateSku)
	applyString(&next.Shipping.InternationalDelivery, req.InternationalDeliverySku)
	applyString(&next.Orders.DiscountSku, req.DiscountSku)
	if req.OrderStatusID != nil {
		next.Orders.StatusID = *req.OrderStatusID
	}
	if req.OrderTypeID != nil {
		next.Orders.TypeID = *req.OrderTypeID
	}
	applyString(&next.Orders.Comment, req.OrderComment)

	SetConfig(next)
	if f := getReconfigure(); f != nil {
		f(next)
	}
	getLogger().Info("bridge settings updated", zap.String("by", GetUsername(r)))
	writeJSON(w, http.StatusOK, settingsFromConfig(next))
}

func settingsFromConfig(c config.Config) settingsResponse {
	return settingsResponse{
		ServerURL:      c.Easify.ServerURL,
		Username:       c.Easify.Username,
		LoggingEnabled: c.LoggingEnabled,
		StorageBackend: c.StorageBackend,
		Shipping: map[string]string{
			"free_shipping":          c.Shipping.FreeShipping,
			"local_delivery":         c.Shipping.LocalDelivery,
			"flat_rate":              c.Shipping.FlatRate,
			"international_delivery": c.Shipping.InternationalDelivery,
		},
		DiscountSku:   c.Orders.DiscountSku,
		OrderStatusID: c.Orders.StatusID,
		OrderTypeID:   c.Orders.TypeID,
		OrderComment:  c.Orders.Comment,
	}
}

func applyString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// TestConnectionHandler godoc
// @Summary Probe connectivity to the configured Easify server
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]bool
// @Failure 401 {string} string "Unauthorized"
// @Router /admin/test-connection [post]
func TestConnectionHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"reachable": getPinger().Ping(r.Context())})
}

// DiscoverHandler godoc
// @Summary Resolve the subscription's Easify server endpoint
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 401 {string} string "Unauthorized"
// @Failure 502 {string} string "Discovery failed"
// @Router /admin/discover [post]
func DiscoverHandler(w http.ResponseWriter, r *http.Request) {
	endpoint, err := getDiscoverer().ServerEndpoint(r.Context())
	if err != nil {
		getLogger().Error("endpoint discovery failed", zap.Error(err))
		http.Error(w, "discovery failed", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"endpoint": endpoint})
}

// ExportOrderHandler godoc
// @Summary Export a local order to the Easify cloud API
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Param orderNo path int true "local order number"
// @Success 200 {object} map[string]string
// @Failure 400 {string} string "Invalid order number"
// @Failure 401 {string} string "Unauthorized"
// @Failure 502 {string} string "Export failed"
// @Router /admin/orders/{orderNo}/export [post]
func ExportOrderHandler(w http.ResponseWriter, r *http.Request) {
	orderNo, err := strconv.Atoi(chi.URLParam(r, "orderNo"))
	if err != nil {
		http.Error(w, "invalid order number", http.StatusBadRequest)
		return
	}
	if err := getExporter().Export(r.Context(), orderNo); err != nil {
		http.Error(w, "export failed", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "exported"})
}

type refEntry struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
}

type referenceDataResponse struct {
	OrderStatuses         []refEntry `json:"order_statuses"`
	OrderTypes            []refEntry `json:"order_types"`
	CustomerTypes         []refEntry `json:"customer_types"`
	CustomerRelationships []refEntry `json:"customer_relationships"`
	PaymentTerms          []refEntry `json:"payment_terms"`
	PaymentMethods        []refEntry `json:"payment_methods"`
	PaymentAccounts       []refEntry `json:"payment_accounts"`
}

// ReferenceDataHandler godoc
// @Summary List the Easify reference data used to configure order defaults and payment mappings
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Success 200 {object} referenceDataResponse
// @Failure 401 {string} string "Unauthorized"
// @Failure 502 {string} string "Easify server unreachable"
// @Router /admin/reference-data [get]
func ReferenceDataHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	resp, err := collectReferenceData(ctx)
	if err != nil {
		getLogger().Error("reference data fetch failed", zap.Error(err))
		http.Error(w, "easify server unreachable", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func collectReferenceData(ctx context.Context) (referenceDataResponse, error) {
	var resp referenceDataResponse
	ref := getReference()

	statuses, err := ref.OrderStatuses(ctx)
	if err != nil {
		return resp, err
	}
	for _, s := range statuses {
		resp.OrderStatuses = append(resp.OrderStatuses, refEntry{s.ID, s.Description})
	}

	orderTypes, err := ref.OrderTypes(ctx)
	if err != nil {
		return resp, err
	}
	for _, t := range orderTypes {
		resp.OrderTypes = append(resp.OrderTypes, refEntry{t.ID, t.Description})
	}

	customerTypes, err := ref.CustomerTypes(ctx)
	if err != nil {
		return resp, err
	}
	for _, t := range customerTypes {
		resp.CustomerTypes = append(resp.CustomerTypes, refEntry{t.ID, t.Description})
	}

	relationships, err := ref.CustomerRelationships(ctx)
	if err != nil {
		return resp, err
	}
	for _, rel := range relationships {
		resp.CustomerRelationships = append(resp.CustomerRelationships, refEntry{rel.ID, rel.Description})
	}

	terms, err := ref.PaymentTerms(ctx)
	if err != nil {
		return resp, err
	}
	for _, t := range terms {
		resp.PaymentTerms = append(resp.PaymentTerms, refEntry{t.ID, t.Description})
	}

	methods, err := ref.PaymentMethods(ctx)
	if err != nil {
		return resp, err
	}
	for _, m := range methods {
		resp.PaymentMethods = append(resp.PaymentMethods, refEntry{m.ID, m.Description})
	}

	accounts, err := ref.PaymentAccounts(ctx)
	if err != nil {
		return resp, err
	}
	for _, a := range accounts {
		resp.PaymentAccounts = append(resp.PaymentAccounts, refEntry{a.ID, a.Description})
	}

	return resp, nil
}

// SyncProductHandler godoc
// @Summary Re-sync one product from the Easify server
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Param sku path string true "product SKU"
// @Success 200 {object} map[string]string
// @Failure 401 {string} string "Unauthorized"
// @Failure 502 {string} string "Sync failed"
// @Router /admin/products/{sku}/sync [post]
func SyncProductHandler(w http.ResponseWriter, r *http.Request) {
	sku := chi.URLParam(r, "sku")
	if err := getSyncer().ProductModified(r.Context(), sku); err != nil {
		getLogger().Error("manual product sync failed", zap.String("sku", sku), zap.Error(err))
		http.Error(w, "sync failed", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "synced", "sku": sku})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		getLogger().Error("failed to write JSON response", zap.Error(err))
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
