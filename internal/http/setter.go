package http

import (
	"context"
	"net/http"
	"sync"

	"go.uber.org/zap"

	"github.com/easify/storefront-bridge/internal/config"
	"github.com/easify/storefront-bridge/internal/easify"
)

// ProductSyncer re-syncs a single product from the Easify server.
type ProductSyncer interface {
	ProductModified(ctx context.Context, sku string) error
}

// OrderExporter submits a local order to the Easify cloud API.
type OrderExporter interface {
	Export(ctx context.Context, orderNo int) error
}

// Pinger probes connectivity to the Easify server.
type Pinger interface {
	Ping(ctx context.Context) bool
}

// Discoverer resolves the subscription's Easify server endpoint.
type Discoverer interface {
	ServerEndpoint(ctx context.Context) (string, error)
}

// ReferenceLister reads the Easify reference data the settings surface
// offers when configuring order defaults and payment mappings.
type ReferenceLister interface {
	OrderStatuses(ctx context.Context) ([]easify.OrderStatus, error)
	OrderTypes(ctx context.Context) ([]easify.OrderType, error)
	CustomerTypes(ctx context.Context) ([]easify.CustomerType, error)
	CustomerRelationships(ctx context.Context) ([]easify.CustomerRelationship, error)
	PaymentTerms(ctx context.Context) ([]easify.PaymentTerms, error)
	PaymentMethods(ctx context.Context) ([]easify.PaymentMethod, error)
	PaymentAccounts(ctx context.Context) ([]easify.PaymentAccount, error)
}

// The package dependencies stay mutable after startup: a settings update
// rebuilds the component graph through the reconfigure callback while other
// requests are in flight, so every read and write goes through depsMu.
var (
	depsMu      sync.RWMutex
	cfg         config.Config
	dispatcher  http.Handler
	syncer      ProductSyncer
	exporter    OrderExporter
	pinger      Pinger
	discoverer  Discoverer
	reference   ReferenceLister
	reconfigure func(config.Config)
	logger      = zap.NewNop()
)

func SetConfig(c config.Config) {
	depsMu.Lock()
	cfg = c
	depsMu.Unlock()
}

func SetDispatcher(h http.Handler) {
	depsMu.Lock()
	dispatcher = h
	depsMu.Unlock()
}

func SetProductSyncer(s ProductSyncer) {
	depsMu.Lock()
	syncer = s
	depsMu.Unlock()
}

func SetOrderExporter(e OrderExporter) {
	depsMu.Lock()
	exporter = e
	depsMu.Unlock()
}

func SetPinger(p Pinger) {
	depsMu.Lock()
	pinger = p
	depsMu.Unlock()
}

func SetDiscoverer(d Discoverer) {
	depsMu.Lock()
	discoverer = d
	depsMu.Unlock()
}

func SetReferenceLister(l ReferenceLister) {
	depsMu.Lock()
	reference = l
	depsMu.Unlock()
}

// SetReconfigure registers the callback invoked after a settings update so
// the caller can rebuild the components that hold configuration values.
func SetReconfigure(f func(config.Config)) {
	depsMu.Lock()
	reconfigure = f
	depsMu.Unlock()
}

func SetLogger(l *zap.Logger) {
	depsMu.Lock()
	logger = l
	depsMu.Unlock()
}

func getConfig() config.Config {
	depsMu.RLock()
	defer depsMu.RUnlock()
	return cfg
}

func getDispatcher() http.Handler {
	depsMu.RLock()
	defer depsMu.RUnlock()
	return dispatcher
}

func getSyncer() ProductSyncer {
	depsMu.RLock()
	defer depsMu.RUnlock()
	return syncer
}

func getExporter() OrderExporter {
	depsMu.RLock()
	defer depsMu.RUnlock()
	return exporter
}

func getPinger() Pinger {
	depsMu.RLock()
	defer depsMu.RUnlock()
	return pinger
}

func getDiscoverer() Discoverer {
	depsMu.RLock()
	defer depsMu.RUnlock()
	return discoverer
}

func getReference() ReferenceLister {
	depsMu.RLock()
	defer depsMu.RUnlock()
	return reference
}

func getReconfigure() func(config.Config) {
	depsMu.RLock()
	defer depsMu.RUnlock()
	return reconfigure
}

func getLogger() *zap.Logger {
	depsMu.RLock()
	defer depsMu.RUnlock()
	return logger
}
