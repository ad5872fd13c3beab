package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/dcastano/veloshop-backend/api/routes"
	authsvc "github.com/dcastano/veloshop-backend/internal/auth"
	cartsvc "github.com/dcastano/veloshop-backend/internal/cart"
	"github.com/dcastano/veloshop-backend/internal/catalog"
	dashboardsvc "github.com/dcastano/veloshop-backend/internal/dashboard"
	ordersvc "github.com/dcastano/veloshop-backend/internal/orders"
	paymentsvc "github.com/dcastano/veloshop-backend/internal/payments"
	reviewsvc "github.com/dcastano/veloshop-backend/internal/reviews"
	shippingsvc "github.com/dcastano/veloshop-backend/internal/shipping"
	settingssvc "github.com/dcastano/veloshop-backend/internal/storesettings"
	"github.com/dcastano/veloshop-backend/internal/users"
	wishlistsvc "github.com/dcastano/veloshop-backend/internal/wishlist"
	"github.com/dcastano/veloshop-backend/pkg/auth/session"
	"github.com/dcastano/veloshop-backend/pkg/config"
	"github.com/dcastano/veloshop-backend/pkg/db"
	"github.com/dcastano/veloshop-backend/pkg/logger"
	"github.com/dcastano/veloshop-backend/pkg/mailer"
	"github.com/dcastano/veloshop-backend/pkg/migrate"
	"github.com/dcastano/veloshop-backend/pkg/paystack"
	"github.com/dcastano/veloshop-backend/pkg/redis"
	pkgstripe "github.com/dcastano/veloshop-backend/pkg/stripe"
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

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	stripeClient, err := pkgstripe.NewClient(context.Background(), cfg.Stripe, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create stripe client", err)
		os.Exit(1)
	}

	paystackClient, err := paystack.NewClient(cfg.Paystack.SecretKey, paystack.WithBaseURL(cfg.Paystack.BaseURL))
	if err != nil {
		logg.Error(context.Background(), "failed to create paystack client", err)
		os.Exit(1)
	}

	mail := mailer.New(cfg.SMTP, logg)

	gormDB := dbClient.DB()
	userRepo := users.NewRepository(gormDB)
	productRepo := catalog.NewProductRepository(gormDB)
	categoryRepo := catalog.NewCategoryRepository(gormDB)
	cartRepo := cartsvc.NewRepository(gormDB)
	wishlistRepo := wishlistsvc.NewRepository(gormDB)
	reviewRepo := reviewsvc.NewRepository(gormDB)
	orderRepo := ordersvc.NewRepository(gormDB)
	shippingRepo := shippingsvc.NewRepository(gormDB)
	paymentRepo := paymentsvc.NewRepository(gormDB)
	settingsRepo := settingssvc.NewRepository(gormDB)

	authService, err := authsvc.NewService(authsvc.ServiceParams{
		UserRepo:       userRepo,
		CartRepo:       cartRepo,
		Tx:             dbClient,
		SessionManager: sessionManager,
		Mailer:         mail,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
		Logger:         logg,
	})
	exitOnError(logg, "auth service", err)

	catalogService, err := catalog.NewService(catalog.ServiceParams{
		ProductRepo:  productRepo,
		CategoryRepo: categoryRepo,
	})
	exitOnError(logg, "catalog service", err)

	cartService, err := cartsvc.NewService(cartsvc.ServiceParams{
		CartRepo:    cartRepo,
		ProductRepo: productRepo,
	})
	exitOnError(logg, "cart service", err)

	wishlistService, err := wishlistsvc.NewService(wishlistsvc.ServiceParams{
		WishlistRepo: wishlistRepo,
		ProductRepo:  productRepo,
	})
	exitOnError(logg, "wishlist service", err)

	reviewService, err := reviewsvc.NewService(reviewsvc.ServiceParams{
		ReviewRepo:  reviewRepo,
		ProductRepo: productRepo,
	})
	exitOnError(logg, "review service", err)

	orderService, err := ordersvc.NewService(ordersvc.ServiceParams{
		OrderRepo:    orderRepo,
		CartRepo:     cartRepo,
		ProductRepo:  productRepo,
		ShippingRepo: shippingRepo,
		UserRepo:     userRepo,
		Tx:           dbClient,
		Mailer:       mail,
		Logger:       logg,
	})
	exitOnError(logg, "order service", err)

	shippingService, err := shippingsvc.NewService(shippingsvc.ServiceParams{
		ShippingRepo: shippingRepo,
		OrderRepo:    orderRepo,
	})
	exitOnError(logg, "shipping service", err)

	paymentService, err := paymentsvc.NewService(paymentsvc.ServiceParams{
		PaymentRepo: paymentRepo,
		OrderRepo:   orderRepo,
		UserRepo:    userRepo,
		Tx:          dbClient,
		Stripe:      paymentsvc.NewStripeCheckoutClient(stripeClient),
		StripeURLs: paymentsvc.StripeRedirectURLs{
			SuccessURL: stripeClient.SuccessURL(),
			CancelURL:  stripeClient.CancelURL(),
		},
		Paystack: paystackClient,
		Mailer:   mail,
		Logger:   logg,
	})
	exitOnError(logg, "payment service", err)

	dashboardService, err := dashboardsvc.NewService(dashboardsvc.ServiceParams{
		DB:       gormDB,
		UserRepo: userRepo,
	})
	exitOnError(logg, "dashboard service", err)

	settingsService, err := settingssvc.NewService(settingsRepo)
	exitOnError(logg, "store settings service", err)

	handler := routes.NewRouter(cfg, logg, dbClient, redisClient, sessionManager, routes.Services{
		Auth:          authService,
		Catalog:       catalogService,
		Cart:          cartService,
		Wishlist:      wishlistService,
		Reviews:       reviewService,
		Orders:        orderService,
		Shipping:      shippingService,
		Payments:      paymentService,
		Dashboard:     dashboardService,
		StoreSettings: settingsService,
	})

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
		Addr:    addr,
		Handler: handler,
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
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
	case <-shutdownCtx.Done():
		logg.Info(ctx, "shutting down api server")
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(timeoutCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}

func exitOnError(logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), "failed to create "+resource, err)
	os.Exit(1)
}
