package internal

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"guildstore/internal/controllers"
	"guildstore/internal/document"
	"guildstore/internal/providers"
	"guildstore/internal/registry"
	"guildstore/internal/repository"
	"guildstore/internal/scheduler"
	"guildstore/internal/services"
	"guildstore/internal/structures"
)

type App struct {
	WebServer *http.Server
	scheduler scheduler.SchedulerInterface
	conf      *structures.Config
	logger    providers.Logger
}

// Toolkit bundles the components the offline CLI commands work with.
type Toolkit struct {
	Config    *structures.Config
	Logger    providers.Logger
	Service   services.IntelServiceInterface
	Scheduler scheduler.SchedulerInterface
	Backups   *document.BackupManager
}

// NewRepository builds the repository and initializes it when a document
// path is configured. Without one every repository operation is a no-op.
func NewRepository(conf *structures.Config, store document.StoreInterface, logger providers.Logger, metrics providers.MetricsProviderInterface, tracker *registry.Tracker) *repository.Repository {
	repo := repository.NewRepository(store, logger, metrics, tracker)
	if conf.Repository.FilePath == "" {
		logger.Warnf(providers.TypeApp, "repository.filePath is not set, intel will not be persisted")
		return repo
	}
	repo.Initialize(repository.Config{FilePath: conf.Repository.FilePath})
	return repo
}

func NewToolkit(conf *structures.Config, logger providers.Logger, service services.IntelServiceInterface, sched scheduler.SchedulerInterface, backups *document.BackupManager) *Toolkit {
	return &Toolkit{
		Config:    conf,
		Logger:    logger,
		Service:   service,
		Scheduler: sched,
		Backups:   backups,
	}
}

func NewApp(apiController *controllers.ApiController, healthController *controllers.HealthController, sched scheduler.SchedulerInterface, conf *structures.Config, logger providers.Logger, router providers.RouterProviderInterface, metrics providers.MetricsProviderInterface) *App {
	// Inner mux: API routes
	apiMux := http.NewServeMux()
	for _, route := range router.GetRoutes() {
		apiMux.Handle(route.Url, route.Handler)
	}

	// Wrap API routes with metrics middleware
	instrumentedAPI := providers.MetricsMiddleware(metrics, apiMux)

	// Outer mux: infrastructure + instrumented API
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthController.Health)
	if conf.Metrics.Enabled {
		mux.Handle("/metrics", promhttp.Handler())
	}
	mux.Handle("/", instrumentedAPI)

	return &App{
		WebServer: &http.Server{
			Addr:         conf.WebServer.Host + ":" + strconv.Itoa(conf.WebServer.Port),
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		scheduler: sched,
		conf:      conf,
		logger:    logger,
	}
}

// Run serves HTTP until SIGINT or SIGTERM, then stops the scheduler and
// writes a final backup.
func (a *App) Run() error {
	a.logger.Infof(providers.TypeApp, "Starting %s", a.conf.AppName)
	a.scheduler.Init()

	serverErr := make(chan error, 1)
	go func() {
		a.logger.Infof(providers.TypeApp, "Listening HTTP clients on %s:%d", a.conf.WebServer.Host, a.conf.WebServer.Port)
		if err := a.WebServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		a.logger.Infof(providers.TypeApp, "Shutdown signal received")
	case err := <-serverErr:
		a.scheduler.Stop()
		return fmt.Errorf("server error: %w", err)
	}

	a.scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := a.WebServer.Shutdown(ctx); err != nil {
		return err
	}
	if err := a.scheduler.Backup(); err != nil {
		return err
	}
	a.logger.Infof(providers.TypeApp, "gracefully stopped")
	return nil
}
