package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"

	"github.com/mrlokans/highlights-web/internal/apiclient"
	"github.com/mrlokans/highlights-web/internal/config"
	"github.com/mrlokans/highlights-web/internal/covers"
	http_controllers "github.com/mrlokans/highlights-web/internal/http"
	"github.com/mrlokans/highlights-web/internal/middleware"
	"github.com/mrlokans/highlights-web/internal/scheduler"
	"github.com/mrlokans/highlights-web/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// kill (no param) sends SIGTERM, kill -2 sends SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop background work before the listener goes away
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Highlights Web v%s", version)

	apiclient.Configure(cfg.API.BaseURL, cfg.API.BaseURLSet)
	apiclient.Default.SetTimeout(cfg.API.Timeout)

	var publicOrigin string
	if cfg.HTTP.PublicOrigin != "" {
		origin, err := apiclient.ParseOrigin(cfg.HTTP.PublicOrigin)
		if err != nil {
			log.Fatalf("Invalid PUBLIC_ORIGIN: %v", err)
		}
		publicOrigin = origin
	}

	if base := apiclient.Default.BaseURL(); strings.Contains(base, "://") {
		log.Printf("Backend API: %s", base)
	} else if publicOrigin != "" {
		log.Printf("Backend API: %s%s", publicOrigin, base)
	} else {
		log.Printf("WARNING: API_URL is relative and PUBLIC_ORIGIN is not set. Backend requests will fail until one of them is configured.")
	}

	locale, err := language.Parse(cfg.UI.Locale)
	if err != nil {
		log.Printf("WARNING: Invalid UI_LOCALE %q, using locale-neutral ordering: %v", cfg.UI.Locale, err)
		locale = language.Und
	}

	var csrfSecret []byte
	if cfg.Session.Secret != "" {
		csrfSecret = middleware.ParseSecret(cfg.Session.Secret)
	} else {
		csrfSecret, err = middleware.GenerateSecret()
		if err != nil {
			log.Fatalf("Failed to generate CSRF secret: %v", err)
		}
		log.Printf("Generated session secret (set SESSION_SECRET to persist)")
	}

	sessionDB, err := middleware.OpenSessionDB(cfg.Session.DBPath)
	if err != nil {
		log.Fatalf("Failed to open session database: %v", err)
	}
	defer func() {
		if err := sessionDB.Close(); err != nil {
			log.Printf("Error closing session database: %v", err)
		}
	}()

	sessionManager, err := middleware.NewSessionManager(sessionDB, cfg.Session)
	if err != nil {
		log.Fatalf("Failed to initialize session manager: %v", err)
	}

	coverCache, err := covers.NewCache(cfg.Covers.CacheDir)
	if err != nil {
		log.Printf("WARNING: Failed to initialize cover cache: %v", err)
		coverCache = nil
	} else {
		log.Printf("Cover cache initialized at %s", cfg.Covers.CacheDir)
	}

	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled && coverCache != nil {
		tasksPath := cfg.Tasks.DBPath
		if tasksPath == "" {
			tasksPath = tasks.TasksDBPath(cfg.Session.DBPath)
		}

		taskClient, err = tasks.NewClient(tasksPath, tasks.Config{
			Workers:         cfg.Tasks.Workers,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
		})
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(
			tasks.NewWarmCoverQueue(coverCache),
			tasks.NewPruneCoversQueue(coverCache),
		)

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)
	}

	var pruneScheduler *scheduler.CoverPruneScheduler
	var schedCtxCancel context.CancelFunc
	if coverCache != nil {
		var schedCtx context.Context
		schedCtx, schedCtxCancel = context.WithCancel(context.Background())
		pruneScheduler = scheduler.NewCoverPruneScheduler(coverCache, taskClient, cfg.Covers.PruneSchedule, cfg.Covers.MaxAge)
		if err := pruneScheduler.Start(schedCtx); err != nil {
			log.Printf("WARNING: Cover prune scheduler not started: %v", err)
		}
	}

	routerCfg := http_controllers.RouterConfig{
		API:            apiclient.Default,
		PublicOrigin:   publicOrigin,
		Locale:         locale,
		TemplatesPath:  cfg.UI.TemplatesPath,
		StaticPath:     cfg.UI.StaticPath,
		CSRFSecret:     csrfSecret,
		SecureCookies:  cfg.Session.SecureCookies,
		APIOrigin:      middleware.ExtractOrigin(cfg.API.BaseURL),
		SessionManager: sessionManager,
		CoverCache:     coverCache,
		TaskClient:     taskClient,
		Version:        version,
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		if pruneScheduler != nil {
			pruneScheduler.Stop()
			schedCtxCancel()
		}
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}
