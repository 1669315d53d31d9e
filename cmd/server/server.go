package server

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/spf13/cobra"
	"github.com/zaplink/zaplink/cmd"
	"github.com/zaplink/zaplink/internal/api"
	"github.com/zaplink/zaplink/internal/config"
	"github.com/zaplink/zaplink/internal/models"
	"github.com/zaplink/zaplink/internal/monitor"
	"github.com/zaplink/zaplink/internal/repository"
	"github.com/zaplink/zaplink/internal/services"
	"github.com/zaplink/zaplink/internal/workers"
	"gorm.io/gorm"
)

// RunServerCmd starts the API server together with the analytics event
// workers and the link URL monitor.
var RunServerCmd = &cobra.Command{
	Use:   "run-server",
	Short: "Starts the profile API server and background workers.",
	Long: `Initializes the database, wires the profile, link and analytics
services, starts the asynchronous analytics event workers and the link URL
monitor, then serves the HTTP API.`,
	Run: func(cobraCmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		db, err := gorm.Open(sqlite.Open(cfg.Database.Name), &gorm.Config{})
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}

		if err := db.AutoMigrate(
			&models.Profile{},
			&models.Link{},
			&models.LinkPlatform{},
			&models.LinkCustom{},
			&models.LinkContact{},
			&models.AnalyticsEvent{},
		); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}

		profileRepo := repository.NewProfileRepository(db)
		linkRepo := repository.NewLinkRepository(db)
		analyticsRepo := repository.NewAnalyticsRepository(db)
		log.Println("Repositories initialized.")

		// Analytics events flow through a buffered channel to a worker pool
		// so public tracking requests never wait on the database.
		events := make(chan models.TrackedEvent, cfg.Analytics.BufferSize)
		workers.StartEventWorkers(cfg.Analytics.WorkerCount, events, analyticsRepo)
		log.Printf("Analytics event channel initialized with a buffer of %d. %d worker(s) started.",
			cfg.Analytics.BufferSize, cfg.Analytics.WorkerCount)

		profileService := services.NewProfileService(profileRepo, linkRepo)
		linkService := services.NewLinkService(profileRepo, linkRepo)
		analyticsService := services.NewAnalyticsService(analyticsRepo, linkRepo, profileRepo, events)
		log.Println("Services initialized.")

		if cfg.Monitor.Enabled {
			monitorInterval := time.Duration(cfg.Monitor.IntervalMinutes) * time.Minute
			linkMonitor := monitor.NewLinkMonitor(linkRepo, monitorInterval)
			go linkMonitor.Start()
			log.Printf("Link URL monitor started with an interval of %v.", monitorInterval)
		}

		router := gin.Default()
		api.SetupRoutes(router, profileService, linkService, analyticsService)
		log.Println("API routes configured.")

		serverAddr := fmt.Sprintf(":%d", cfg.Server.Port)
		srv := &http.Server{
			Addr:    serverAddr,
			Handler: router,
		}

		go func() {
			log.Printf("Starting server on %s", serverAddr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("Failed to start server: %v", err)
			}
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("Shutdown signal received. Stopping server...")

		// Give the workers a moment to drain the event channel before the
		// process exits.
		time.Sleep(5 * time.Second)

		log.Println("Server stopped cleanly.")
	},
}

func init() {
	cmd.RootCmd.AddCommand(RunServerCmd)
}
