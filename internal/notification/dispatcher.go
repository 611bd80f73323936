// Package notification receives the Easify server's change notifications
// and routes them to the catalog and tax sync engines. Notifications are
// fire-and-forget on the remote side: the response status carries no retry
// semantics, so handler failures are logged and answered with 200.
package notification

import (
	"context"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Entity and action names carried in the notification envelope.
const (
	EntityProducts    = "Products"
	EntityProductInfo = "ProductInfo"
	EntityTaxRates    = "TaxRates"

	ActionAdded    = "Added"
	ActionModified = "Modified"
	ActionDelete   = "Delete"
)

// CatalogHandler is the product sync surface the dispatcher routes to.
type CatalogHandler interface {
	ProductAdded(ctx context.Context, sku string) error
	ProductModified(ctx context.Context, sku string) error
	ProductDeleted(ctx context.Context, sku string) error
	ProductInfoUpdated(ctx context.Context, sku string) error
}

// TaxHandler is the tax rate sync surface the dispatcher routes to.
type TaxHandler interface {
	RateUpdated(ctx context.Context, taxID int) (string, error)
	RateDeleted(ctx context.Context, taxID int) error
}

// Dispatcher authenticates inbound notifications and dispatches them by
// entity and action. It holds no state across requests.
type Dispatcher struct {
	username   string
	password   string
	privateKey string

	catalog CatalogHandler
	tax     TaxHandler
	log     *zap.Logger
}

// NewDispatcher builds a Dispatcher. The Basic Auth check runs only when
// both username and password are set; an empty privateKey disables the
// pre-shared key check.
func NewDispatcher(username, password, privateKey string, catalog CatalogHandler, tax TaxHandler, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		username:   username,
		password:   password,
		privateKey: privateKey,
		catalog:    catalog,
		tax:        tax,
		log:        logger,
	}
}

// ServeHTTP processes one notification. Each validation gate short-circuits
// with no further side effects; auth failures answer 403 with a short plain
// text body, everything else answers 200.
func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil || len(r.PostForm) == 0 {
		// Empty or malformed call, nothing to do.
		return
	}

	if d.username != "" && d.password != "" {
		user, pass, ok := credentials(r)
		if !ok {
			d.log.Warn("notification rejected: no basic auth credentials supplied")
			http.Error(w, "Easify credentials required.", http.StatusForbidden)
			return
		}
		if user != d.username || pass != d.password {
			d.log.Warn("notification rejected: basic auth mismatch", zap.String("user", user))
			http.Error(w, "Easify credentials not accepted.", http.StatusForbidden)
			return
		}
	}

	if d.privateKey != "" && r.PostFormValue("PrivateKey") != d.privateKey {
		d.log.Warn("notification rejected: private key mismatch")
		http.Error(w, "Easify private key not accepted.", http.StatusForbidden)
		return
	}

	entity := r.PostFormValue("EntityName")
	action := r.PostFormValue("Action")
	key := r.PostFormValue("KeyValue")

	id := uuid.NewString()
	log := d.log.With(
		zap.String("notification_id", id),
		zap.String("entity", entity),
		zap.String("action", action),
		zap.String("key", key))
	log.Info("notification received")

	if err := d.dispatch(r.Context(), entity, action, key, log); err != nil {
		// The remote side does not act on the response, so errors end here.
		log.Error("notification handling failed", zap.Error(err))
	}
	w.WriteHeader(http.StatusOK)
}

func (d *Dispatcher) dispatch(ctx context.Context, entity, action, key string, log *zap.Logger) error {
	switch entity {
	case EntityProducts:
		switch action {
		case ActionAdded:
			return d.catalog.ProductAdded(ctx, key)
		case ActionModified:
			return d.catalog.ProductModified(ctx, key)
		case ActionDelete:
			return d.catalog.ProductDeleted(ctx, key)
		}

	case EntityProductInfo:
		switch action {
		case ActionAdded, ActionModified:
			return d.catalog.ProductInfoUpdated(ctx, key)
		case ActionDelete:
			// Asset deletion is not supported; the product record itself is
			// removed through Products/Delete.
			log.Info("product info deletion ignored")
			return nil
		}

	case EntityTaxRates:
		taxID, err := strconv.Atoi(key)
		if err != nil {
			log.Warn("tax rate notification with non-numeric key ignored")
			return nil
		}
		switch action {
		case ActionAdded, ActionModified:
			_, err := d.tax.RateUpdated(ctx, taxID)
			return err
		case ActionDelete:
			return d.tax.RateDeleted(ctx, taxID)
		}
	}

	log.Info("unrecognized notification ignored")
	return nil
}
