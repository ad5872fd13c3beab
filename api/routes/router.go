package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dcastano/veloshop-backend/api/controllers"
	"github.com/dcastano/veloshop-backend/api/middleware"
	authsvc "github.com/dcastano/veloshop-backend/internal/auth"
	cartsvc "github.com/dcastano/veloshop-backend/internal/cart"
	"github.com/dcastano/veloshop-backend/internal/catalog"
	dashboardsvc "github.com/dcastano/veloshop-backend/internal/dashboard"
	ordersvc "github.com/dcastano/veloshop-backend/internal/orders"
	paymentsvc "github.com/dcastano/veloshop-backend/internal/payments"
	reviewsvc "github.com/dcastano/veloshop-backend/internal/reviews"
	shippingsvc "github.com/dcastano/veloshop-backend/internal/shipping"
	settingssvc "github.com/dcastano/veloshop-backend/internal/storesettings"
	wishlistsvc "github.com/dcastano/veloshop-backend/internal/wishlist"
	"github.com/dcastano/veloshop-backend/pkg/auth/session"
	"github.com/dcastano/veloshop-backend/pkg/config"
	"github.com/dcastano/veloshop-backend/pkg/db"
	"github.com/dcastano/veloshop-backend/pkg/logger"
	"github.com/dcastano/veloshop-backend/pkg/redis"
)

// Services groups every domain service the router exposes.
type Services struct {
	Auth          authsvc.Service
	Catalog       catalog.Service
	Cart          cartsvc.Service
	Wishlist      wishlistsvc.Service
	Reviews       reviewsvc.Service
	Orders        ordersvc.Service
	Shipping      shippingsvc.Service
	Payments      paymentsvc.Service
	Dashboard     dashboardsvc.Service
	StoreSettings settingssvc.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	sessions session.AccessSessionChecker,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(),
		middleware.CORS(cfg.CORS),
	)

	loginThrottle := middleware.Throttle(middleware.ThrottlePolicy{
		Surface:  "login",
		Window:   cfg.AuthRateLimit.LoginWindow,
		PerIP:    cfg.AuthRateLimit.LoginIPLimit,
		PerEmail: cfg.AuthRateLimit.LoginEmailLimit,
	}, redisClient, logg)
	registerThrottle := middleware.Throttle(middleware.ThrottlePolicy{
		Surface:  "register",
		Window:   cfg.AuthRateLimit.RegisterWindow,
		PerIP:    cfg.AuthRateLimit.RegisterIPLimit,
		PerEmail: cfg.AuthRateLimit.RegisterEmailLimit,
	}, redisClient, logg)
	resetThrottle := middleware.Throttle(middleware.ThrottlePolicy{
		Surface:  "reset",
		Window:   cfg.AuthRateLimit.ResetWindow,
		PerIP:    cfg.AuthRateLimit.ResetIPLimit,
		PerEmail: cfg.AuthRateLimit.ResetEmailLimit,
	}, redisClient, logg)

	authn := middleware.Auth(cfg.JWT, sessions, logg)
	vendor := middleware.RequireVendor(logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(loginThrottle).Post("/login", controllers.AuthLogin(svcs.Auth, logg))
		r.With(registerThrottle).Post("/register", controllers.AuthRegister(svcs.Auth, logg))
		r.Post("/logout", controllers.AuthLogout(svcs.Auth, cfg.JWT, logg))
		r.Post("/refresh", controllers.AuthRefresh(svcs.Auth, cfg.JWT, logg))
		r.With(resetThrottle).Post("/forgot-password", controllers.AuthForgotPassword(svcs.Auth, logg))
		r.Post("/reset-password", controllers.AuthResetPassword(svcs.Auth, logg))

		r.Group(func(r chi.Router) {
			r.Use(authn)
			r.Get("/profile", controllers.AuthProfile(svcs.Auth, logg))
			r.Put("/profile", controllers.AuthUpdateProfile(svcs.Auth, logg))
		})
	})

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", controllers.ProductsList(svcs.Catalog, logg))
		r.Get("/{productId}", controllers.ProductsGet(svcs.Catalog, logg))

		r.Group(func(r chi.Router) {
			r.Use(authn, vendor)
			r.Post("/", controllers.ProductsCreate(svcs.Catalog, logg))
			r.Put("/{productId}", controllers.ProductsUpdate(svcs.Catalog, logg))
			r.Delete("/{productId}", controllers.ProductsDelete(svcs.Catalog, logg))
			r.Post("/{productId}/delete-image", controllers.ProductsDeleteImage(svcs.Catalog, logg))
		})
	})

	r.Route("/api/v1/categories", func(r chi.Router) {
		r.Get("/", controllers.CategoriesList(svcs.Catalog, logg))
		r.With(authn, vendor).Post("/", controllers.CategoriesCreate(svcs.Catalog, logg))
	})

	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(authn)
		r.Get("/", controllers.CartGet(svcs.Cart, logg))
		r.Post("/add", controllers.CartAdd(svcs.Cart, logg))
		r.Post("/remove", controllers.CartRemove(svcs.Cart, logg))
		r.Post("/clear", controllers.CartClear(svcs.Cart, logg))
	})

	r.Route("/api/v1/wishlist", func(r chi.Router) {
		r.Use(authn)
		r.Get("/", controllers.WishlistGet(svcs.Wishlist, logg))
		r.Post("/add", controllers.WishlistAdd(svcs.Wishlist, logg))
		r.Post("/remove", controllers.WishlistRemove(svcs.Wishlist, logg))
	})

	r.Route("/api/v1/reviews", func(r chi.Router) {
		r.Get("/", controllers.ReviewsList(svcs.Reviews, logg))
		r.Get("/{reviewId}", controllers.ReviewsGet(svcs.Reviews, logg))

		r.Group(func(r chi.Router) {
			r.Use(authn)
			r.Post("/", controllers.ReviewsCreate(svcs.Reviews, logg))
			r.Put("/{reviewId}", controllers.ReviewsUpdate(svcs.Reviews, logg))
			r.Delete("/{reviewId}", controllers.ReviewsDelete(svcs.Reviews, logg))
		})
	})

	r.Route("/api/v1/orders", func(r chi.Router) {
		r.Use(authn)
		r.Get("/", controllers.OrdersList(svcs.Orders, logg))
		r.Post("/", controllers.OrdersPlace(svcs.Orders, logg))
		r.Get("/{orderId}", controllers.OrdersGet(svcs.Orders, logg))
		r.With(vendor).Put("/{orderId}/status", controllers.OrdersUpdateStatus(svcs.Orders, logg))
		r.Get("/{orderId}/shipping", controllers.ShippingGet(svcs.Shipping, logg))
		r.With(vendor).Put("/{orderId}/shipping", controllers.ShippingUpdate(svcs.Shipping, logg))
	})

	r.Route("/api/v1/payments", func(r chi.Router) {
		r.Use(authn)
		r.Post("/initiate", controllers.PaymentsInitiate(svcs.Payments, logg))
		r.Post("/verify", controllers.PaymentsVerify(svcs.Payments, logg))
		r.Get("/history", controllers.PaymentsHistory(svcs.Payments, logg))
	})

	r.Route("/api/v1/store/settings", func(r chi.Router) {
		r.Use(authn, vendor)
		r.Get("/", controllers.StoreSettingsGet(svcs.StoreSettings, logg))
		r.Put("/", controllers.StoreSettingsUpdate(svcs.StoreSettings, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(authn, vendor)
		r.Get("/dashboard", controllers.DashboardSummary(svcs.Dashboard, logg))
		r.Get("/orders", controllers.AdminOrdersList(svcs.Orders, logg))
	})

	return r
}
