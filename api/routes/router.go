package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/markethub-backend/api/controllers"
	"github.com/angelmondragon/markethub-backend/api/middleware"
	analyticsvc "github.com/angelmondragon/markethub-backend/internal/analytics"
	authsvc "github.com/angelmondragon/markethub-backend/internal/auth"
	cartsvc "github.com/angelmondragon/markethub-backend/internal/cart"
	checkoutsvc "github.com/angelmondragon/markethub-backend/internal/checkout"
	grantsvc "github.com/angelmondragon/markethub-backend/internal/grants"
	membersvc "github.com/angelmondragon/markethub-backend/internal/members"
	ordersvc "github.com/angelmondragon/markethub-backend/internal/orders"
	productsvc "github.com/angelmondragon/markethub-backend/internal/products"
	storesvc "github.com/angelmondragon/markethub-backend/internal/stores"
	usersvc "github.com/angelmondragon/markethub-backend/internal/users"
	"github.com/angelmondragon/markethub-backend/pkg/config"
	"github.com/angelmondragon/markethub-backend/pkg/db"
	"github.com/angelmondragon/markethub-backend/pkg/logger"
	"github.com/angelmondragon/markethub-backend/pkg/metrics"
	"github.com/angelmondragon/markethub-backend/pkg/redis"
)

// Services bundles everything the router mounts.
type Services struct {
	Auth      authsvc.Service
	Users     usersvc.Service
	Stores    storesvc.Service
	Members   membersvc.Service
	Grants    grantsvc.Service
	Products  productsvc.Service
	Cart      cartsvc.Service
	Checkout  checkoutsvc.Service
	Orders    ordersvc.Service
	Analytics analyticsvc.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	httpMetrics *metrics.HTTPMetrics,
	metricsHandler http.Handler,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
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

	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).Post("/register", controllers.AuthRegister(svcs.Auth, logg))
			r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(svcs.Auth, logg))
		})

		// Browsing endpoints work anonymously; a bearer token, when present,
		// unlocks private stores the caller has access to.
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthOptional(cfg.JWT, logg))

			r.Get("/stores", controllers.ListPublicStores(svcs.Stores, logg))
			r.Get("/stores/{storeId}", controllers.GetStore(svcs.Stores, logg))
			r.Get("/stores/{storeId}/products", controllers.ListStoreProducts(svcs.Products, logg))
			r.Get("/products/{productId}", controllers.GetProduct(svcs.Products, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))

			r.Get("/users/me", controllers.CurrentUser(svcs.Users, logg))

			r.Post("/stores", controllers.CreateStore(svcs.Stores, logg))
			r.Patch("/stores/{storeId}", controllers.UpdateStore(svcs.Stores, logg))

			r.Route("/stores/{storeId}/members", func(r chi.Router) {
				r.Post("/", controllers.InviteMember(svcs.Members, logg))
				r.Get("/", controllers.ListMembers(svcs.Members, logg))
				r.Patch("/{userId}", controllers.UpdateMemberPermissions(svcs.Members, logg))
				r.Delete("/{userId}", controllers.RemoveMember(svcs.Members, logg))
			})

			r.Route("/stores/{storeId}/grants", func(r chi.Router) {
				r.Post("/", controllers.GrantStoreAccess(svcs.Grants, logg))
				r.Delete("/{userId}", controllers.RevokeStoreAccess(svcs.Grants, logg))
			})

			r.Post("/stores/{storeId}/products", controllers.CreateProduct(svcs.Products, logg))
			r.Patch("/products/{productId}", controllers.UpdateProduct(svcs.Products, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.ListCart(svcs.Cart, logg))
				r.Delete("/", controllers.ClearCart(svcs.Cart, logg))
				r.Post("/items", controllers.AddCartItem(svcs.Cart, logg))
				r.Patch("/items/{productId}", controllers.UpdateCartItem(svcs.Cart, logg))
				r.Delete("/items/{productId}", controllers.RemoveCartItem(svcs.Cart, logg))
			})

			r.Post("/checkout", controllers.Checkout(svcs.Checkout, logg))

			r.Get("/orders", controllers.ListMyOrders(svcs.Orders, logg))
			r.Get("/orders/groups/{groupId}", controllers.GetOrderGroup(svcs.Orders, logg))
			r.Get("/stores/{storeId}/orders", controllers.ListStoreOrders(svcs.Orders, logg))

			r.Get("/stores/{storeId}/analytics", controllers.StoreAnalytics(svcs.Analytics, logg))
		})
	})

	return r
}
