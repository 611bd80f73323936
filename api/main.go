package main

import (
	"flag"
	"log"
	"net/http"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/easify/storefront-bridge/docs"
	"github.com/easify/storefront-bridge/internal/catalog"
	"github.com/easify/storefront-bridge/internal/config"
	"github.com/easify/storefront-bridge/internal/easify"
	bridgehttp "github.com/easify/storefront-bridge/internal/http"
	"github.com/easify/storefront-bridge/internal/lock"
	"github.com/easify/storefront-bridge/internal/logging"
	"github.com/easify/storefront-bridge/internal/notification"
	"github.com/easify/storefront-bridge/internal/order"
	"github.com/easify/storefront-bridge/internal/store"
)

// @title Easify Storefront Bridge API
// @version 1.0
// @description Admin and notification API for the Easify storefront bridge.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("could not load configuration: %v", err)
	}

	logger := logging.New(cfg.LoggingEnabled)
	defer logger.Sync()

	var catalogStore store.CatalogStore
	switch cfg.StorageBackend {
	case "postgres":
		db, err := store.Connect(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("could not connect to database: %v", err)
		}
		defer db.Close()
		catalogStore = store.NewPostgresStore(db)
	default:
		catalogStore = store.NewMemoryStore()
	}

	var skuLocks lock.Keyed = lock.NewMemoryLock()
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		skuLocks = lock.NewRedisLock(rdb)
		logger.Info("per-sku locks backed by redis", zap.String("addr", cfg.RedisAddr))
	}

	wire := func(c config.Config) {
		client := easify.NewClient(c.Easify, logger)
		discovery := easify.NewDiscovery(c.Easify, logger)
		cloud := easify.NewCloudAPI(c.Easify, logger)

		engine := catalog.NewEngine(client, catalogStore, c.Shipping, skuLocks, logger)
		taxEngine := catalog.NewTaxEngine(client, catalogStore, logger)
		dispatcher := notification.NewDispatcher(
			c.Easify.Username, c.Easify.Password, c.Easify.PrivateKey,
			engine, taxEngine, logger)
		exporter := order.NewExporter(client, cloud, catalogStore, c,
			order.NewSMTPMailer(c.SMTP), logger)

		bridgehttp.SetDispatcher(dispatcher)
		bridgehttp.SetProductSyncer(engine)
		bridgehttp.SetOrderExporter(exporter)
		bridgehttp.SetPinger(client)
		bridgehttp.SetDiscoverer(discovery)
		bridgehttp.SetReferenceLister(client)
	}

	bridgehttp.SetConfig(cfg)
	bridgehttp.SetLogger(logger)
	bridgehttp.SetReconfigure(wire)
	wire(cfg)

	go bridgehttp.LoginLimiterCleanupLoop()

	router := bridgehttp.NewRouter()
	logger.Info("bridge listening", zap.String("addr", cfg.ListenAddr))
	if err := http.ListenAndServe(cfg.ListenAddr, router); err != nil {
		log.Fatal(err)
	}
}
