package routes

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/pochi-pay/pochi_pay/internal/auth"
	"github.com/pochi-pay/pochi_pay/internal/billpay"
	"github.com/pochi-pay/pochi_pay/internal/config"
	"github.com/pochi-pay/pochi_pay/internal/funding"
	"github.com/pochi-pay/pochi_pay/internal/identity"
	"github.com/pochi-pay/pochi_pay/internal/middleware"
	"github.com/pochi-pay/pochi_pay/internal/notification"
	"github.com/pochi-pay/pochi_pay/internal/payments"
	"github.com/pochi-pay/pochi_pay/internal/posting"
	"github.com/pochi-pay/pochi_pay/internal/transaction"
	"github.com/pochi-pay/pochi_pay/internal/wallet"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// Enforce DB/Redis presence outside of dev, even though main also checks.
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	// Middlewares
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger))
	if d.Cfg.IsDev() {
		app.Use(logger.New(logger.Config{
			Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
			TimeFormat: "15:04:05",
			TimeZone:   "Local",
		}))
	}
	if d.Cache != nil {
		app.Use(middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}

	// Health
	RegisterHealthRoutes(app, d)

	// Storage backends
	var postingStore posting.Store
	var walletRepo wallet.Repository
	var identityRepo identity.Repository
	var billerRepo billpay.Repository
	var historyRepo transaction.Repository
	if d.DB != nil {
		postingStore = posting.NewPostgresStore(d.DB)
		walletRepo = wallet.NewPostgresRepository(d.DB)
		identityRepo = identity.NewPostgresRepository(d.DB)
		billerRepo = billpay.NewPostgresRepository(d.DB)
		historyRepo = transaction.NewPostgresRepository(d.DB)
	} else {
		postingStore = posting.NewInMemory()
		walletRepo = wallet.NewMemoryRepository()
		identityRepo = identity.NewMemoryRepository()
		billerRepo = billpay.NewMemoryRepository()
		historyRepo = transaction.NewMemoryRepository()
		seedDevServices(billerRepo)
	}

	// Services and handlers
	walletSvc := wallet.NewService(walletRepo, postingStore)
	identitySvc := identity.NewService(identityRepo)
	tokens := auth.NewTokens(d.Cfg.JWTSecret, d.Cfg.AppName, d.Cfg.AccessTokenTTL)
	notifier := notification.NewLoggerNotifier(d.Logger)
	paymentSvc := payments.NewService(postingStore, walletSvc, billerRepo, historyRepo, notifier)
	fundingSvc, err := funding.NewService(context.Background(), postingStore, walletSvc, historyRepo, nil, notifier)
	if err != nil {
		return err
	}

	authHandler := auth.NewHandler(identitySvc, tokens, walletSvc)
	walletHandler := wallet.NewHandler(walletSvc)
	historyHandler := transaction.NewHandler(historyRepo, walletSvc)
	billerHandler := billpay.NewHandler(billerRepo)
	fundingHandler := funding.NewHandler(fundingSvc)
	paymentHandler := payments.NewHandler(paymentSvc)

	// API routes
	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	// Public routes
	rateLimiter := middleware.LoginRateLimit(d.Cache, d.Cfg.LoginPerMinute)
	RegisterAuthRoutes(api, authHandler, rateLimiter)

	// Protected routes
	jwtmw := middleware.JWTAuth(tokens)
	protected := api.Group("", jwtmw)
	protected.Get("/auth/me", authHandler.Me)
	RegisterWalletRoutes(protected, walletHandler, fundingHandler, paymentHandler)
	RegisterTransactionRoutes(protected, historyHandler)
	RegisterServiceRoutes(protected, billerHandler, paymentHandler)

	return nil
}

func seedDevServices(repo billpay.Repository) {
	ctx := context.Background()
	for _, svc := range billpay.DefaultServices() {
		_ = repo.Create(ctx, svc)
	}
}
