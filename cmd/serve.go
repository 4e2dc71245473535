package cmd

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/edukasiku/ms-go-premium/app/controller"
	"github.com/edukasiku/ms-go-premium/app/dto"
	"github.com/edukasiku/ms-go-premium/app/gateway"
	"github.com/edukasiku/ms-go-premium/app/notifier"
	"github.com/edukasiku/ms-go-premium/app/repository"
	"github.com/edukasiku/ms-go-premium/app/service"
	"github.com/edukasiku/ms-go-premium/config"

	_ "github.com/go-sql-driver/mysql"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  "Start the HTTP server handling payment intents, gateway webhooks and entitlement reads.",
	Run:   runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	if err := configureLogging(cfg); err != nil {
		logrus.WithError(err).Fatal("Failed to configure logging")
	}

	db, err := sql.Open("mysql", cfg.MySQL.DSN)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.MySQL.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		logrus.WithError(err).Fatal("Failed to ping database")
	}

	packageRepo := repository.NewPackageRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	uow := repository.NewUnitOfWork(db)

	var upgradeNotifier notifier.Notifier
	if cfg.Notifier.SMTPHost != "" {
		upgradeNotifier = notifier.NewSMTPMailer(cfg.Notifier, profileRepo)
	} else {
		logrus.Info("SMTP_HOST not set, upgrade notifications are log-only")
		upgradeNotifier = notifier.NewLogNotifier()
	}
	dispatcher := notifier.NewAsyncDispatcher(upgradeNotifier, cfg.Notifier.QueueSize)
	dispatcher.Start()

	if cfg.Midtrans.ServerKey == "" {
		logrus.Warn("MIDTRANS_SERVER_KEY not set, webhook signature verification is disabled")
	}

	gw := gateway.NewMidtransClient(cfg.Midtrans.BaseURL, cfg.Midtrans.ServerKey, cfg.Midtrans.RequestTimeout)
	intentService := service.NewPaymentIntentService(packageRepo, transactionRepo, profileRepo, gw, cfg.Midtrans)
	webhookService := service.NewWebhookService(uow, dispatcher, cfg.Midtrans)
	catalogService := service.NewCatalogService(packageRepo, cfg.Premium)
	entitlementService := service.NewEntitlementService(profileRepo)
	accessService := service.NewAccessService(profileRepo)

	paymentController := controller.NewPaymentController(intentService, webhookService)
	catalogController := controller.NewCatalogController(catalogService)
	profileController := controller.NewProfileController(entitlementService, accessService)

	e := setupHTTPServer(cfg, paymentController, catalogController, profileController)

	go func() {
		httpAddr := net.JoinHostPort(cfg.HTTP.Host, cfg.HTTP.Port)
		logrus.WithField("addr", httpAddr).Info("Starting HTTP server")
		if err := e.Start(httpAddr); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Warn("HTTP shutdown error")
	}
	dispatcher.Stop()

	logrus.Info("Server stopped")
}

func setupHTTPServer(
	cfg *config.Config,
	paymentController *controller.PaymentController,
	catalogController *controller.CatalogController,
	profileController *controller.ProfileController,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogRemoteIP:  true,
		LogLatency:   true,
		LogUserAgent: true,
		LogError:     true,
		HandleError:  true,
		LogRequestID: true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			fields := logrus.Fields{
				"remote_ip":  v.RemoteIP,
				"host":       v.Host,
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency":    v.Latency.String(),
				"latency_ns": v.Latency.Nanoseconds(),
				"user_agent": v.UserAgent,
			}
			entry := logrus.WithFields(fields)
			if v.Error != nil {
				entry = entry.WithError(v.Error)
			}
			entry.Info("http_request")
			return nil
		},
	}))
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: func() string {
			return fmt.Sprintf("rest-%s", uuid.New().String())
		},
	}))

	e.GET("/health", paymentController.Health)
	e.GET("/packages", catalogController.ListPublicPackages)

	// Webhook authenticity is checked by gateway signature, not API key.
	webhooks := e.Group("/webhooks")
	webhooks.POST("/midtrans", paymentController.MidtransWebhook)

	internal := e.Group("", requireAPIKey(cfg.App.APIKey))
	internal.POST("/payments", paymentController.CreatePayment)
	internal.GET("/access/check", profileController.CheckAccess)
	internal.GET("/profiles/:id", profileController.GetProfile)

	admin := e.Group("/admin", requireAPIKey(cfg.App.APIKey))
	admin.GET("/packages", catalogController.ListPackages)
	admin.POST("/packages", catalogController.CreatePackage)
	admin.GET("/packages/:id", catalogController.GetPackage)
	admin.PATCH("/packages/:id", catalogController.UpdatePackage)
	admin.POST("/packages/:id/deactivate", catalogController.DeactivatePackage)
	admin.PATCH("/profiles/:id/entitlement", profileController.SetEntitlement)

	return e
}

// requireAPIKey guards internal routes with a shared key. An empty configured
// key disables the check for local development.
func requireAPIKey(apiKey string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			if apiKey == "" {
				return next(ctx)
			}
			provided := ctx.Request().Header.Get("X-API-Key")
			if subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) != 1 {
				return ctx.JSON(http.StatusUnauthorized, &dto.ErrorResponse{Error: "unauthorized"})
			}
			return next(ctx)
		}
	}
}
