package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/zestcart/zestcart-backend/api/routes"
	"github.com/zestcart/zestcart-backend/internal/address"
	"github.com/zestcart/zestcart-backend/internal/cart"
	"github.com/zestcart/zestcart-backend/internal/catalog"
	"github.com/zestcart/zestcart-backend/internal/checkout"
	"github.com/zestcart/zestcart-backend/internal/delivery"
	"github.com/zestcart/zestcart-backend/internal/orders"
	"github.com/zestcart/zestcart-backend/pkg/config"
	"github.com/zestcart/zestcart-backend/pkg/db"
	"github.com/zestcart/zestcart-backend/pkg/logger"
	"github.com/zestcart/zestcart-backend/pkg/maps"
	"github.com/zestcart/zestcart-backend/pkg/metrics"
	"github.com/zestcart/zestcart-backend/pkg/migrate"
	"github.com/zestcart/zestcart-backend/pkg/outbox"
	"github.com/zestcart/zestcart-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	mapsClient, err := maps.NewClient(cfg.GoogleMaps.APIKey,
		maps.WithHTTPClient(&http.Client{Timeout: cfg.GoogleMaps.Timeout}))
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap google maps client", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)
	checkoutMetrics := metrics.NewCheckoutMetrics(registry)

	gormDB := dbClient.DB()
	cartRepo := cart.NewRepository(gormDB)
	catalogRepo := catalog.NewRepository(gormDB)
	orderRepo := orders.NewRepository(gormDB)
	addressRepo := address.NewRepository(gormDB)
	outboxService := outbox.NewService(outbox.NewRepository(gormDB), logg)

	cartService, err := cart.NewService(cartRepo, catalogRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}
	addressService, err := address.NewService(addressRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create address service", err)
		os.Exit(1)
	}
	deliveryService, err := delivery.NewService(catalogRepo, mapsClient, addressService, cfg.Delivery)
	if err != nil {
		logg.Error(context.Background(), "failed to create delivery service", err)
		os.Exit(1)
	}
	checkoutService, err := checkout.NewService(cartRepo, catalogRepo, orderRepo, addressRepo, dbClient, outboxService, checkoutMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}
	ordersService, err := orders.NewService(orderRepo, dbClient, outboxService)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		ReadHeaderTimeout: 10 * time.Second,
		Handler: routes.NewRouter(routes.Deps{
			Config:          cfg,
			Logger:          logg,
			DB:              dbClient,
			Redis:           redisClient,
			HTTPMetrics:     httpMetrics,
			MetricsRegistry: registry,
			CartService:     cartService,
			CheckoutService: checkoutService,
			DeliveryService: deliveryService,
			OrdersService:   ordersService,
			AddressService:  addressService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
