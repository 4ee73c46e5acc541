package routes

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/ALAAWF2/arabi-rent-home/internal/auth"
	"github.com/ALAAWF2/arabi-rent-home/internal/booking"
	"github.com/ALAAWF2/arabi-rent-home/internal/config"
	"github.com/ALAAWF2/arabi-rent-home/internal/identity"
	"github.com/ALAAWF2/arabi-rent-home/internal/ledger"
	"github.com/ALAAWF2/arabi-rent-home/internal/middleware"
	"github.com/ALAAWF2/arabi-rent-home/internal/notification"
	"github.com/ALAAWF2/arabi-rent-home/internal/property"
	"github.com/ALAAWF2/arabi-rent-home/internal/wallet"
)

// Deps aggregates shared dependencies required to wire routes. A nil DB or
// Cache swaps in the in-memory backends, which is only allowed in dev.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.Env)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.Env)
		}
	}

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))
	app.Use(middleware.Audit(d.Logger))

	RegisterHealthRoutes(app, d)

	policy := ledger.Policy{
		CommissionRate:        d.Cfg.Wallet.CommissionRate,
		SuspensionThreshold:   d.Cfg.Wallet.SuspensionThreshold,
		ReactivationThreshold: d.Cfg.Wallet.ReactivationThreshold,
	}

	var ledgerBackend ledger.Ledger
	if d.DB != nil {
		ledgerBackend = ledger.NewPostgresLedger(d.DB, policy)
	} else {
		ledgerBackend = ledger.NewInMemory(policy)
	}

	var identityRepo identity.Repository
	var propertyRepo property.Repository
	var bookingRepo booking.Repository
	if d.DB != nil {
		identityRepo = identity.NewPostgresRepository(d.DB)
		propertyRepo = property.NewPostgresRepository(d.DB)
		bookingRepo = booking.NewPostgresRepository(d.DB)
	} else {
		identityRepo = identity.NewMemoryRepository()
		propertyRepo = property.NewMemoryRepository()
		bookingRepo = booking.NewMemoryRepository()
	}

	notifier := notification.NewLoggerNotifier(d.Logger)
	walletSvc := wallet.NewService(ledgerBackend, nil, notifier, d.Cfg.Wallet.HistoryLimit)
	propertySvc := property.NewService(propertyRepo, walletSvc)
	bookingSvc := booking.NewService(bookingRepo, propertySvc, walletSvc, policy, notifier, d.Logger)
	identitySvc := identity.NewService(identityRepo)
	authSvc := auth.NewService(d.Cfg, identityRepo)

	authHandler := auth.NewHandler(identitySvc, authSvc)
	walletHandler := wallet.NewHandler(walletSvc)
	propertyHandler := property.NewHandler(propertySvc)
	bookingHandler := booking.NewHandler(bookingSvc)

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
	RegisterIdentityRoutes(api, identitySvc, ledgerBackend, d.Logger)
	RegisterAuthRoutes(api, authHandler, middleware.LoginRateLimit(d.Cache, 5))

	// Protected routes
	jwtmw := middleware.JWTAuth(d.Cfg, identityRepo)
	protected := api.Group("", jwtmw)
	protected.Post("/auth/logout", authHandler.Logout)

	// Money-moving endpoints replay on retried Idempotency-Key when Redis is up.
	var idem fiber.Handler
	if d.Cache != nil {
		idem = middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger)
	}

	RegisterWalletRoutes(protected, walletHandler, idem)
	RegisterPropertyRoutes(protected, propertyHandler)
	RegisterBookingRoutes(protected, bookingHandler, idem)

	return nil
}
