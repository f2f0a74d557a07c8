package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"sync-verifier/core/config"
	"sync-verifier/core/database"
	"sync-verifier/core/logger"
	"sync-verifier/core/middleware/auth"
	"sync-verifier/core/middleware/rayid"
	"sync-verifier/core/solr"
	"sync-verifier/core/storage"
	"sync-verifier/feature/verify"
	"sync-verifier/feature/verify/lookup"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the verifier server",
	Long:  `Starts the HTTP server exposing the verification endpoints.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 3. Connect to the authoritative store
		db, err := database.Connect(cfg.Database)
		if err != nil {
			logg.Fatal("Failed to connect to database", zap.Error(err))
		}

		// 4. Search index client
		index, err := solr.NewClient(cfg.Solr)
		if err != nil {
			logg.Fatal("Failed to create solr client", zap.Error(err))
		}

		// 5. Report archive
		archive, err := storage.NewClient(cfg.Storage)
		if err != nil {
			logg.Fatal("Failed to create storage client", zap.Error(err))
		}

		// 6. Verification pipeline
		adapter := lookup.NewAdapter(index, cfg.Verify.Collection,
			cfg.Verify.LookupTimeout(), cfg.Verify.LookupAttempts, logg)
		engine := verify.NewEngine(adapter, cfg.Verify.OverlapThreshold, logg)
		driver := verify.NewDriver(engine, verify.NewAggregator(cfg.Verify.OverlapThreshold),
			cfg.Verify.Workers, logg)
		source := verify.NewSourceStore(db, cfg.Verify.SourceTable)
		service := verify.NewService(cfg.Verify, source, driver, archive, cfg.Storage.Bucket, logg)

		// 7. Fiber app
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
		})

		// RayID must be first to trace everything
		app.Use(rayid.New())

		// Logging middleware (Zap + RayID)
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// Auth (protect every request)
		if cfg.Server.IsProtected() {
			app.Use(auth.New(cfg.Server.ApiKey))
		} else {
			logg.Warn("No API key configured, endpoints are unprotected")
		}

		verify.NewHandler(service).RegisterRoutes(app)

		// 8. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 9. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
