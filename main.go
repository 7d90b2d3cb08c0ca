package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/qr-table-order/cache"
	"github.com/yeremiapane/qr-table-order/config"
	"github.com/yeremiapane/qr-table-order/database"
	"github.com/yeremiapane/qr-table-order/feed"
	"github.com/yeremiapane/qr-table-order/jobs"
	"github.com/yeremiapane/qr-table-order/router"
	"github.com/yeremiapane/qr-table-order/storage"
	"github.com/yeremiapane/qr-table-order/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		utils.ErrorLogger.Fatalf("Invalid configuration: %v", err)
	}
	utils.InitLogger(cfg.LogLevel, cfg.LogFormat)

	if cfg.GinMode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.InitDB(cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	if _, err := database.SeedCategories(db); err != nil {
		utils.ErrorLogger.Printf("Error seeding categories: %v", err)
	}

	menuCache := setupCache(cfg)
	store := setupStorage(cfg)

	deps := router.Dependencies{
		Config:  cfg,
		DB:      db,
		Cache:   menuCache,
		Storage: store,
		Hub:     feed.NewHub(),
	}
	svc := router.NewServices(deps)
	r := router.SetupRouter(deps, svc)

	var scheduler *jobs.Scheduler
	if _, ok := menuCache.(*cache.RedisMenuCache); ok {
		scheduler, err = jobs.NewScheduler(svc.Menus, cfg.Redis.RefreshEvery)
		if err != nil {
			utils.ErrorLogger.Printf("Menu cache refresh disabled: %v", err)
		} else {
			scheduler.Start()
		}
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		utils.InfoLogger.Printf("Listening on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.ErrorLogger.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	utils.InfoLogger.Println("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		utils.ErrorLogger.Printf("Server shutdown: %v", err)
	}
	if scheduler != nil {
		if err := scheduler.Stop(); err != nil {
			utils.ErrorLogger.Printf("Scheduler shutdown: %v", err)
		}
	}
	if rc, ok := menuCache.(*cache.RedisMenuCache); ok {
		rc.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}

// setupCache returns the Redis menu cache when configured and reachable,
// otherwise a cache that always misses.
func setupCache(cfg *config.Config) cache.MenuCache {
	if !cfg.Redis.Enabled() {
		return cache.NoopCache{}
	}

	client := cache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	rc := cache.NewRedisMenuCache(client, cfg.Redis.MenuCacheTTL)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rc.Ping(ctx); err != nil {
		utils.ErrorLogger.Printf("Redis unavailable at %s, menu cache disabled: %v", cfg.Redis.Addr, err)
		rc.Close()
		return cache.NoopCache{}
	}
	utils.InfoLogger.Printf("Menu cache enabled (redis %s, ttl %s)", cfg.Redis.Addr, cfg.Redis.MenuCacheTTL)
	return rc
}

func setupStorage(cfg *config.Config) storage.Storage {
	if cfg.MinIO.Enabled() {
		ms, err := storage.NewMinioStorage(cfg.MinIO.Endpoint, cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, cfg.MinIO.Bucket, cfg.MinIO.UseSSL)
		if err == nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			err = ms.EnsureBucket(ctx)
			cancel()
		}
		if err == nil {
			utils.InfoLogger.Printf("Uploads stored in MinIO bucket %s", cfg.MinIO.Bucket)
			return ms
		}
		utils.ErrorLogger.Printf("MinIO unavailable, falling back to local uploads: %v", err)
	}

	local, err := storage.NewLocalStorage(cfg.UploadDir)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to prepare upload directory: %v", err)
	}
	return local
}
