package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"mkulima/soko/internal/api"
	"mkulima/soko/internal/cache"
	"mkulima/soko/internal/config"
	"mkulima/soko/internal/index"
	"mkulima/soko/internal/remote"
	"mkulima/soko/internal/render"
	"mkulima/soko/internal/session"
	"mkulima/soko/internal/storage"
	"mkulima/soko/internal/tasks"
	"mkulima/soko/internal/tradeflow"
)

var runMode = flag.String("m", "all", "Run mode: 'api', 'bg' (background refresh worker), 'all' (default)")

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*runMode)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Cache (Redis): session mirror and task transport
	redisClient, err := cache.ConnectRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer func() {
		if err := cache.DisconnectRedis(redisClient); err != nil {
			log.Printf("Error disconnecting from Redis: %v", err)
		}
	}()

	// Core collaborators shared by both modes
	backendClient := remote.NewClient(cfg)
	listingIndex := index.New()
	sessions := session.NewManager(session.NewRedisStore(redisClient, cfg.SessionTTL))
	flow := tradeflow.New(backendClient, listingIndex, sessions)

	engine, err := render.New(cfg.AppName, cfg.DefaultImagePath)
	if err != nil {
		log.Fatalf("Failed to initialize page renderer: %v", err)
	}

	// Image uploads are optional; without S3 settings listings just use the
	// default image.
	var images storage.IImageStorage
	if storage.Configured(cfg) {
		images, err = storage.NewS3Storage(cfg)
		if err != nil {
			log.Fatalf("Failed to initialize S3 storage: %v", err)
		}
	} else {
		log.Println("S3 not configured, listing image uploads disabled.")
	}

	// Warm the index before serving the first page. Non-fatal: the refresh
	// worker retries on its own schedule.
	warmCtx, cancelWarm := context.WithTimeout(context.Background(), cfg.BackendTimeout)
	if err := flow.RefreshListings(warmCtx); err != nil {
		log.Printf("WARN: Initial market refresh failed: %v", err)
	}
	cancelWarm()

	taskClient := tasks.NewClient(redisClient)
	defer taskClient.Close()
	taskProcessor := tasks.NewTaskProcessor(cfg, flow)

	// WaitGroup for managing goroutines
	var wg sync.WaitGroup
	loopCtx, cancelLoop := context.WithCancel(context.Background())

	var webSrv *http.Server
	var taskSrv *asynq.Server

	fmt.Printf("Starting application in '%s' mode...\n", cfg.RunMode)

	apiMode := func() {
		fmt.Println("Starting web server...")
		router := api.SetupRouter(cfg, backendClient, listingIndex, sessions, flow, engine, images)
		webSrv = &http.Server{
			Addr:    ":" + cfg.ListenPort,
			Handler: router,
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			fmt.Printf("Web server listening on :%s\n", cfg.ListenPort)
			if err := webSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("Web server ListenAndServe error: %v", err)
			}
			fmt.Println("Web server stopped.")
		}()
	}

	bgMode := func() {
		fmt.Println("Starting background refresh worker...")
		taskSrv = tasks.SetupServer(redisClient, taskProcessor, true)
		wg.Add(1)
		go func() {
			defer wg.Done()
			tasks.StartRefreshLoop(loopCtx, taskClient, cfg.MarketRefreshInterval)
			fmt.Println("Market refresh loop stopped.")
		}()
	}

	switch cfg.RunMode {
	case "api":
		apiMode()
	case "bg":
		bgMode()
	case "all":
		apiMode()
		bgMode()
	default:
		log.Fatalf("Invalid run mode specified: %s.", cfg.RunMode)
	}

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	fmt.Printf("\nReceived signal: %s. Shutting down gracefully...\n", sig)

	cancelLoop()

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelShutdown()

	if webSrv != nil {
		fmt.Println("Shutting down web server...")
		if err := webSrv.Shutdown(ctxShutdown); err != nil {
			log.Printf("Web server shutdown error: %v", err)
		}
	}
	if taskSrv != nil {
		fmt.Println("Shutting down task server...")
		taskSrv.Shutdown()
	}

	fmt.Println("Waiting for servers to stop...")
	wg.Wait()

	fmt.Println("Server gracefully stopped")
}
