package main

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"penguins/adapters/palmer"
	"penguins/domain/penguins"
	"penguins/internal"
	"penguins/internal/config"
	"penguins/internal/events"
	"penguins/internal/inputs"
	"penguins/internal/session"
	"penguins/internal/views"
	"penguins/ui"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

//go:embed ui/templates ui/static ui/content
var embeddedFiles embed.FS

const shutdownTimeout = 5 * time.Second

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Load application configuration
	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	internal.DefaultLogger.SetLevel(internal.ParseLogLevel(appConfig.LogLevel))
	logger := internal.DefaultLogger.With("Main")
	gin.SetMode(appConfig.Server.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ds, source, err := loadDataset(ctx, appConfig.Data)
	if err != nil {
		log.Fatalf("Failed to load dataset: %v", err)
	}
	logger.Info("Loaded %d penguins from %s", ds.Len(), source)

	registry := inputs.NewRegistry()
	graph := views.Outputs(ds)
	sessions := session.NewManager(graph, registry, appConfig.Session.TTL)

	// Initialize web server
	server := ui.NewServer(embeddedFiles)
	if err := server.Initialize(ui.Dependencies{
		Dataset:  ds,
		Registry: registry,
		Graph:    graph,
		Sessions: sessions,
		Events:   events.NewHub(appConfig.Session.EventKeepAlive),
		Page:     ui.PageConfig{Title: appConfig.Page.Title, GitHubURL: appConfig.Page.GitHubURL},
	}); err != nil {
		log.Fatalf("Failed to initialize server: %v", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	servers := []*http.Server{{
		Addr:              ":" + appConfig.Server.Port,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}}

	// Profiling and health endpoints stay off the public listener
	if appConfig.Profiling.Enabled {
		servers = append(servers, &http.Server{
			Addr:              ":" + appConfig.Profiling.Port,
			Handler:           opsRouter(ds, sessions),
			ReadHeaderTimeout: 10 * time.Second,
		})
		logger.Info("View profiles: go tool pprof -http=:8081 http://localhost:%s/debug/pprof/profile?seconds=30", appConfig.Profiling.Port)
	}

	for _, srv := range servers {
		srv := srv
		g.Go(func() error {
			logger.Info("Listening on %s", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("listener %s: %w", srv.Addr, err)
			}
			return nil
		})
	}

	g.Go(func() error {
		return sessions.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		for _, srv := range servers {
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("shutdown of %s: %v", srv.Addr, err)
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// loadDataset reads the configured database table or file, or the bundled
// dataset when neither is set, and names the source for logging
func loadDataset(ctx context.Context, cfg config.DataConfig) (*penguins.Dataset, string, error) {
	switch {
	case cfg.DatabaseURL != "":
		ds, err := palmer.LoadPostgres(ctx, cfg.DatabaseURL, cfg.Table)
		return ds, "postgres table " + cfg.Table, err
	case cfg.File != "":
		ds, err := palmer.LoadFile(cfg.File)
		return ds, cfg.File, err
	default:
		ds, err := palmer.Load()
		return ds, palmer.BundledSource, err
	}
}

// opsRouter serves pprof and a liveness check on the profiling port
func opsRouter(ds *penguins.Dataset, sessions *session.Manager) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Mount("/debug", middleware.Profiler())
	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprintf(w, "ok records=%d sessions=%d\n", ds.Len(), sessions.Len())
	})
	return r
}
