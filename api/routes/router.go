package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/velvetrow/velvetrow-backend/api/controllers"
	"github.com/velvetrow/velvetrow-backend/api/middleware"
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
	"github.com/velvetrow/velvetrow-backend/pkg/redis"
)

type sessionManager interface {
	session.AccessSessionChecker
	Rotate(context.Context, string, string) (string, string, error)
	Revoke(context.Context, string) error
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	sessionManager sessionManager,
	authService auth.Service,
	registerService auth.RegisterService,
	usersService users.Service,
	productService product.Service,
	cartService cart.Service,
	checkoutService checkoutsvc.Service,
	ordersService orders.Service,
	settingsService settings.Service,
	wishlistService wishlist.Service,
	contactService contact.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(authService, logg))
		r.With(
			middleware.AuthRateLimit(registerPolicy, redisClient, logg),
			middleware.Idempotency(redisClient, logg),
		).Post("/register", controllers.AuthRegister(registerService, logg))
		r.Post("/logout", controllers.AuthLogout(sessionManager, cfg.JWT, logg))
		r.Post("/refresh", controllers.AuthRefresh(sessionManager, cfg.JWT, logg))
	})

	r.Route("/api/admin/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AdminAuthLogin(authService, logg))
	})

	// Public storefront reads work without any credentials.
	r.Group(func(r chi.Router) {
		r.Get("/api/v1/products", controllers.ProductList(productService, logg))
		r.Get("/api/v1/products/{productId}", controllers.ProductDetail(productService, logg))
		r.Get("/api/v1/settings", controllers.PublicSettings(settingsService, logg))
		r.Post("/api/v1/contact", controllers.ContactSubmit(contactService, logg))
	})

	// Cart and checkout accept either an authenticated user or a guest
	// session header.
	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(middleware.Shopper(cfg.JWT, sessionManager, logg))
		r.Use(middleware.Maintenance(settingsService, logg))
		r.Get("/", controllers.CartFetch(cartService, logg))
		r.Delete("/", controllers.CartClear(cartService, logg))
		r.Post("/items", controllers.CartAddItem(cartService, logg))
		r.Put("/items", controllers.CartSetQuantity(cartService, logg))
		r.Delete("/items", controllers.CartRemoveItem(cartService, logg))
		r.Post("/merge", controllers.CartMerge(cartService, logg))
	})

	r.Route("/api/v1/checkout", func(r chi.Router) {
		r.Use(middleware.Shopper(cfg.JWT, sessionManager, logg))
		r.Use(middleware.Maintenance(settingsService, logg))
		r.Use(middleware.Idempotency(redisClient, logg))
		r.Post("/", controllers.CheckoutBegin(checkoutService, logg))
		r.Post("/confirm", controllers.CheckoutConfirm(checkoutService, logg))
	})

	// Account surfaces require a full login.
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionManager, logg))
		r.Use(middleware.Maintenance(settingsService, logg))
		r.Get("/ping", controllers.PrivatePing())

		r.Route("/users/me", func(r chi.Router) {
			r.Get("/", controllers.MyProfile(usersService, logg))
			r.Put("/", controllers.UpdateMyProfile(usersService, logg))
		})
		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.MyOrders(ordersService, logg))
			r.Get("/{orderId}", controllers.MyOrderDetail(ordersService, logg))
		})
		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", controllers.WishlistList(wishlistService, logg))
			r.Get("/ids", controllers.WishlistIDs(wishlistService, logg))
			r.Post("/", controllers.WishlistAdd(wishlistService, logg))
			r.Delete("/{productId}", controllers.WishlistRemove(wishlistService, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionManager, logg))
		r.Use(middleware.RequireRole("admin", logg))
		r.Use(middleware.Idempotency(redisClient, logg))
		r.Get("/ping", controllers.AdminPing())

		r.Route("/products", func(r chi.Router) {
			r.Post("/", controllers.AdminProductCreate(productService, logg))
			r.Patch("/{productId}", controllers.AdminProductUpdate(productService, logg))
			r.Delete("/{productId}", controllers.AdminProductDelete(productService, logg))
			r.Put("/{productId}/stock", controllers.AdminProductSetStock(productService, logg))
		})
		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminOrderList(ordersService, logg))
			r.Get("/{orderId}", controllers.AdminOrderDetail(ordersService, logg))
			r.Post("/{orderId}/status", controllers.AdminOrderUpdateStatus(ordersService, logg))
		})
		r.Route("/users", func(r chi.Router) {
			r.Get("/", controllers.AdminUserList(usersService, logg))
			r.Put("/{userId}/role", controllers.AdminUserSetRole(usersService, logg))
			r.Delete("/{userId}", controllers.AdminUserDelete(usersService, logg))
		})
		r.Route("/settings", func(r chi.Router) {
			r.Get("/", controllers.AdminSettings(settingsService, logg))
			r.Put("/", controllers.AdminSettingsUpdate(settingsService, logg))
		})
	})

	return r
}
