// Command onboarding is the LandBank customer-onboarding and
// account-management web application.
package main

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"os"

	json "github.com/goccy/go-json"
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/encryptcookie"
	"github.com/gofiber/template/html/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/landbank/onboarding/dashboard"
	"github.com/landbank/onboarding/gateway"
	"github.com/landbank/onboarding/portal"
	"github.com/landbank/onboarding/store"
)

func main() {
	bootLogger := logrus.New()
	cfg := loadConfig(bootLogger)
	logger, sampling := configureLogger(cfg)

	db, err := store.OpenFromConfig(cfg.DBURL, cfg.SQLitePath, cfg.DBDriver)
	if err != nil {
		logger.WithError(err).Fatal("database open failed")
	}
	defer db.Close()

	ctx := context.Background()
	if err := store.Migrate(ctx, db); err != nil {
		logger.WithError(err).Fatal("migrations failed")
	}

	st := store.New(db, logger)
	if err := st.EnsureAdmin(ctx, portal.BuiltinAdminEmail); err != nil {
		logger.WithError(err).Fatal("admin seed failed")
	}
	if cfg.BootstrapSQL != "" {
		if _, err := os.Stat(cfg.BootstrapSQL); err == nil {
			if err := st.ExecSQLFile(ctx, cfg.BootstrapSQL); err != nil {
				logger.WithError(err).Fatal("bootstrap SQL failed")
			}
		}
	}

	var storage fiber.Storage
	if cfg.RedisURL != "" {
		redisStorage, err := gateway.NewRedisStorage(cfg.RedisURL)
		if err != nil {
			logger.WithError(err).Fatal("redis connect failed")
		}
		storage = redisStorage
		logger.Info("sessions backed by redis")
	}
	sessions := gateway.NewSessionManager(storage)

	logger.Warn("customer credentials are stored and compared in plaintext; the built-in admin login is active")

	app := buildApp(cfg, logger, sampling, st, sessions)
	logger.WithField("port", cfg.Port).Info("listening")
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.WithError(err).Fatal("server stopped")
	}
}

// buildApp wires middleware, services and routes into the fiber app.
func buildApp(cfg Config, logger *logrus.Logger, sampling gateway.LogSamplingConfig, st *store.Store, sessions *gateway.SessionManager) *fiber.App {
	engine := html.New(cfg.ViewsDir, ".html")

	app := fiber.New(fiber.Config{
		Views:       engine,
		ViewsLayout: "base",
		JSONEncoder: json.Marshal,
		JSONDecoder: json.Unmarshal,
	})

	app.Use(gateway.RequestID())
	app.Use(gateway.RequestLogger(logger, sampling))
	app.Use(gateway.Instrumentation())
	app.Use(encryptcookie.New(encryptcookie.Config{Key: cookieKey(cfg.Secret)}))

	portalService := &portal.Service{
		Store:    st,
		Logger:   logger,
		Sessions: sessions,
		Debug:    cfg.Debug,
	}
	dashService := &dashboard.Service{
		Store:    st,
		Logger:   logger,
		Sessions: sessions,
		Audit:    dashboard.NewAuditLog(cfg.AuditLogPath, logger),
	}

	app.Get("/", portalService.LandingPage)
	app.Post("/login", portalService.Login)
	app.Get("/logout", portalService.Logout)
	app.Get("/about", portalService.AboutPage)
	app.Get("/services", portalService.ServicesPage)
	app.Get("/contact", portalService.ContactPage)

	app.Get("/openAcc", portalService.OpenAccountStep1)
	app.Get("/openAcc/step2", portalService.OpenAccountStep2)
	app.Get("/openAcc/step3", portalService.OpenAccountStep3)
	app.Get("/openAcc/print", portalService.PrintSummary)
	app.Post("/register", portalService.Register)

	app.Get("/home", sessions.RequireCustomer(), portalService.HomePage)
	app.Get("/my_record", sessions.RequireCustomer(), portalService.MyRecord)

	app.Get("/admin_dashboard", sessions.RequireAdmin(), dashService.Dashboard)
	app.Post("/compute_customers", sessions.RequireAdmin(), dashService.Compute)
	app.Get("/customers", sessions.RequireAdmin(), dashService.CustomerList)

	admin := app.Group("/admin", sessions.RequireAdmin())
	admin.Get("/view/:cust_no", dashService.View)
	admin.Get("/edit/:cust_no", dashService.EditForm)
	admin.Post("/edit/:cust_no", dashService.Edit)
	admin.Post("/delete/:cust_no", dashService.Delete)
	admin.Post("/add", dashService.Add)

	// Development-only escape hatch to provision the schema from the
	// bootstrap SQL file.
	app.Get("/setup_database", func(c *fiber.Ctx) error {
		if !cfg.Debug {
			_ = sessions.AddFlash(c, "error", "Database setup not allowed in production mode.")
			return c.Redirect("/", fiber.StatusFound)
		}
		if cfg.BootstrapSQL == "" {
			_ = sessions.AddFlash(c, "error", "No bootstrap SQL file configured.")
			return c.Redirect("/", fiber.StatusFound)
		}
		if err := st.ExecSQLFile(c.UserContext(), cfg.BootstrapSQL); err != nil {
			logger.WithError(err).Error("database setup failed")
			_ = sessions.AddFlash(c, "error", "Database setup failed. Check server logs.")
			return c.Redirect("/", fiber.StatusFound)
		}
		_ = sessions.AddFlash(c, "success", "Database setup completed successfully!")
		return c.Redirect("/", fiber.StatusFound)
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"code": "not_found", "message": "page not found"})
	})

	return app
}

// cookieKey derives the 32-byte base64 key encryptcookie expects from
// the configured secret.
func cookieKey(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return base64.StdEncoding.EncodeToString(sum[:])
}
