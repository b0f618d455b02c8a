package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/velvetrow/velvetrow-backend/api/routes"
	"github.com/velvetrow/velvetrow-backend/internal/auth"
	"github.com/velvetrow/velvetrow-backend/internal/cart"
	checkoutsvc "github.com/velvetrow/velvetrow-backend/internal/checkout"
	"github.com/velvetrow/velvetrow-backend/internal/contact"
	"github.com/velvetrow/velvetrow-backend/internal/orders"
	product "github.com/velvetrow/velvetrow-backend/internal/products"
	"github.com/velvetrow/velvetrow-backend/internal/settings"
	"github.com/velvetrow/velvetrow-backend/internal/users"
	"github.com/velvetrow/velvetrow-backend/internal/wishlist"
	"github.com/velvetrow/velvetrow-backend/pkg/auth/session"
	"github.com/velvetrow/velvetrow-backend/pkg/config"
	"github.com/velvetrow/velvetrow-backend/pkg/db"
	"github.com/velvetrow/velvetrow-backend/pkg/logger"
	"github.com/velvetrow/velvetrow-backend/pkg/metrics"
	"github.com/velvetrow/velvetrow-backend/pkg/migrate"
	"github.com/velvetrow/velvetrow-backend/pkg/outbox"
	"github.com/velvetrow/velvetrow-backend/pkg/paystack"
	"github.com/velvetrow/velvetrow-backend/pkg/redis"
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

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	usersRepo := users.NewRepository(dbClient.DB())

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       usersRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		TxRunner:       dbClient,
		SessionManager: sessionManager,
		PasswordConfig: cfg.Password,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create register service", err)
		os.Exit(1)
	}

	usersService, err := users.NewService(usersRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}

	if err := auth.EnsureAdmin(context.Background(), cfg.Admin, cfg.Password, usersRepo, logg); err != nil {
		logg.Error(context.Background(), "failed to seed admin account", err)
		os.Exit(1)
	}

	productRepo := product.NewRepository(dbClient.DB())
	productService, err := product.NewService(productRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	guestStore, err := cart.NewGuestStore(redisClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create guest cart store", err)
		os.Exit(1)
	}
	userStore, err := cart.NewUserStore(cart.NewRepository(dbClient.DB()), dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create user cart store", err)
		os.Exit(1)
	}
	cartService, err := cart.NewService(guestStore, userStore, productRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	settingsService, err := settings.NewService(settings.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create settings service", err)
		os.Exit(1)
	}

	wishlistService, err := wishlist.NewService(wishlist.ServiceParams{
		Repo:     wishlist.NewRepository(dbClient.DB()),
		Products: productRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create wishlist service", err)
		os.Exit(1)
	}

	outboxService := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)

	contactService, err := contact.NewService(contact.ServiceParams{
		Repo:   contact.NewRepository(dbClient.DB()),
		Tx:     dbClient,
		Outbox: outboxService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create contact service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(orders.ServiceParams{
		Repo:   orders.NewRepository(dbClient.DB()),
		Tx:     dbClient,
		Outbox: outboxService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	paystackClient, err := paystack.NewClient(
		cfg.Paystack.SecretKey,
		paystack.WithBaseURL(cfg.Paystack.BaseURL),
		paystack.WithHTTPClient(&http.Client{Timeout: cfg.Paystack.Timeout}),
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create paystack client", err)
		os.Exit(1)
	}

	attemptStore, err := checkoutsvc.NewAttemptStore(redisClient, cfg.Checkout.AttemptTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout attempt store", err)
		os.Exit(1)
	}

	reconciler, err := checkoutsvc.NewReconciler(checkoutsvc.ReconcilerParams{
		Tx:     dbClient,
		Outbox: outboxService,
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create stock reconciler", err)
		os.Exit(1)
	}

	checkoutService, err := checkoutsvc.NewService(checkoutsvc.ServiceParams{
		Carts:       cartService,
		Stock:       productRepo,
		Gateway:     paystackClient,
		Attempts:    attemptStore,
		Orders:      ordersService,
		Reconciler:  reconciler,
		Shipping:    settingsService,
		Metrics:     metrics.NewCheckoutMetrics(prometheus.DefaultRegisterer),
		Logger:      logg,
		CallbackURL: cfg.Paystack.CallbackURL,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
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
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			sessionManager,
			authService,
			registerService,
			usersService,
			productService,
			cartService,
			checkoutService,
			ordersService,
			settingsService,
			wishlistService,
			contactService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
