package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/markethub-backend/api/routes"
	"github.com/angelmondragon/markethub-backend/internal/analytics"
	"github.com/angelmondragon/markethub-backend/internal/auth"
	"github.com/angelmondragon/markethub-backend/internal/authz"
	"github.com/angelmondragon/markethub-backend/internal/cart"
	"github.com/angelmondragon/markethub-backend/internal/checkout"
	"github.com/angelmondragon/markethub-backend/internal/grants"
	"github.com/angelmondragon/markethub-backend/internal/members"
	"github.com/angelmondragon/markethub-backend/internal/orders"
	"github.com/angelmondragon/markethub-backend/internal/products"
	"github.com/angelmondragon/markethub-backend/internal/stores"
	"github.com/angelmondragon/markethub-backend/internal/users"
	"github.com/angelmondragon/markethub-backend/pkg/config"
	"github.com/angelmondragon/markethub-backend/pkg/db"
	"github.com/angelmondragon/markethub-backend/pkg/logger"
	"github.com/angelmondragon/markethub-backend/pkg/metrics"
	"github.com/angelmondragon/markethub-backend/pkg/migrate"
	"github.com/angelmondragon/markethub-backend/pkg/permissions"
	"github.com/angelmondragon/markethub-backend/pkg/redis"
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

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	gdb := dbClient.DB()

	usersRepo := users.NewRepository(gdb)
	storesRepo := stores.NewRepository(gdb)
	membersRepo := members.NewRepository(gdb)
	grantsRepo := grants.NewRepository(gdb)
	productsRepo := products.NewRepository(gdb)
	cartRepo := cart.NewRepository(gdb)
	ordersRepo := orders.NewRepository(gdb)
	analyticsRepo := analytics.NewRepository(gdb)

	resolver, err := authz.NewResolver(storesRepo, membersRepo, grantsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create permission resolver", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		Users:          usersRepo,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	usersService, err := users.NewService(usersRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}

	storesService, err := stores.NewService(stores.ServiceParams{
		Repo:     storesRepo,
		TxRunner: dbClient,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create stores service", err)
		os.Exit(1)
	}

	membersService, err := members.NewService(members.ServiceParams{
		Repo:       membersRepo,
		Users:      usersRepo,
		Resolver:   resolver,
		RoleGrants: permissions.DefaultRoleGrants(),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create members service", err)
		os.Exit(1)
	}

	grantsService, err := grants.NewService(grantsRepo, resolver)
	if err != nil {
		logg.Error(context.Background(), "failed to create grants service", err)
		os.Exit(1)
	}

	productsService, err := products.NewService(products.ServiceParams{
		Repo:     productsRepo,
		Stores:   storesRepo,
		Resolver: resolver,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create products service", err)
		os.Exit(1)
	}

	cartService, err := cart.NewService(cart.ServiceParams{
		Repo:     cartRepo,
		Products: productsRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	checkoutService, err := checkout.NewService(checkout.ServiceParams{
		TxRunner: dbClient,
		Cart:     cartRepo,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(orders.ServiceParams{
		Repo:     ordersRepo,
		Resolver: resolver,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	analyticsService, err := analytics.NewService(analytics.ServiceParams{
		Repo:     analyticsRepo,
		Stores:   storesRepo,
		Resolver: resolver,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create analytics service", err)
		os.Exit(1)
	}

	httpMetrics := metrics.NewHTTPMetrics(prometheus.DefaultRegisterer)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	instance := os.Getenv("DYNO")
	if instance == "" {
		instance = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance,
	})
	logg.Info(ctx, "starting api server")

	router := routes.NewRouter(cfg, logg, dbClient, redisClient, httpMetrics, promhttp.Handler(), routes.Services{
		Auth:      authService,
		Users:     usersService,
		Stores:    storesService,
		Members:   membersService,
		Grants:    grantsService,
		Products:  productsService,
		Cart:      cartService,
		Checkout:  checkoutService,
		Orders:    ordersService,
		Analytics: analyticsService,
	})

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-runCtx.Done():
		logg.Info(ctx, "shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}
