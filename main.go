package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	firebase "firebase.google.com/go"
	"github.com/gin-gonic/gin"
	"github.com/sashabaranov/go-openai"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"go-relieflink/alerts"
	"go-relieflink/assistant"
	"go-relieflink/auth"
	"go-relieflink/config"
	"go-relieflink/cronjobs"
	"go-relieflink/db"
	"go-relieflink/estimator"
	"go-relieflink/geocode"
	"go-relieflink/handlers"
	"go-relieflink/lifecycle"
	"go-relieflink/logger"
	"go-relieflink/routes"
	"go-relieflink/seed"
	"go-relieflink/shelters"
)

const shutdownTimeout = 10 * time.Second

var rootCmd = &cobra.Command{
	Use:           "relieflink",
	Short:         "Disaster relief coordination backend",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the shortage check",
	RunE:  runServe,
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load demo shelters, inventory and the opening alert",
	RunE:  runSeed,
}

func main() {
	rootCmd.AddCommand(serveCmd, seedCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// setup loads configuration, the logger and the store shared by every command.
func setup(ctx context.Context) (*config.Config, *zap.Logger, *firebase.App, db.Store, error) {
	cfg, envLoaded := config.Load()
	log := logger.New(cfg.LogLevel)
	if !envLoaded {
		log.Info("no .env file found, using process environment")
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, nil, nil, err
	}

	app, err := db.InitFirebase(ctx, cfg.FirebaseCredentials, cfg.FirebaseProjectID)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	var store db.Store
	switch cfg.StoreBackend {
	case config.BackendMemory:
		log.Warn("using in-memory store, data is lost on exit")
		store = db.NewMemoryStore()
	default:
		store, err = db.NewFirestoreStore(ctx, app, log)
		if err != nil {
			return nil, nil, nil, nil, err
		}
	}
	return cfg, log, app, store, nil
}

func runSeed(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	_, log, _, store, err := setup(ctx)
	if err != nil {
		return err
	}
	defer store.Close()
	defer log.Sync() //nolint:errcheck

	if err := seed.Run(ctx, store, log); err != nil {
		return err
	}
	log.Info("seed complete")
	return nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, log, app, store, err := setup(ctx)
	if err != nil {
		return err
	}
	defer store.Close()
	defer log.Sync() //nolint:errcheck

	authClient, err := app.Auth(ctx)
	if err != nil {
		return fmt.Errorf("get firebase auth client: %w", err)
	}

	var locator shelters.Locator
	if mapsClient, err := geocode.InitMapsClient(cfg.MapsAPIKey); err != nil {
		log.Warn("geocoding disabled", zap.Error(err))
	} else {
		locator = geocode.NewGeocoder(mapsClient, log)
	}

	var streamer handlers.Streamer
	if cfg.OpenAIAPIKey != "" {
		log.Info("OPENAI_API_KEY loaded", zap.String("model", cfg.OpenAIModel))
		streamer = assistant.New(openai.NewClient(cfg.OpenAIAPIKey), cfg.OpenAIModel, log)
	} else {
		log.Warn("OPENAI_API_KEY not set, assistant disabled")
	}

	users := auth.NewService(store, log)
	h := handlers.New(handlers.Deps{
		Requests:  lifecycle.NewEngine(store, log),
		Alerts:    alerts.NewService(store, log),
		Shelters:  shelters.NewService(store, locator, log),
		Stock:     estimator.NewStock(store, log),
		Reports:   store,
		Users:     users,
		Settings:  store,
		Assistant: streamer,
		Log:       log,
	})

	scheduler, err := cronjobs.InitCronJobs(cfg.ShortageCron, cronjobs.NewShortageCheck(store, log), log)
	if err != nil {
		return err
	}
	defer func() { <-scheduler.Stop().Done() }()

	gin.SetMode(gin.ReleaseMode)
	r := routes.SetupRouter(h, auth.Middleware(authClient, users, log), auth.RequireRole, cfg.ClientURL, log)
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr), zap.String("clientURL", cfg.ClientURL))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
