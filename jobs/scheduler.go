// Package jobs runs periodic background work.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/yeremiapane/qr-table-order/utils"
)

// CacheRefresher reloads a cache from the store.
type CacheRefresher interface {
	RefreshCache(ctx context.Context) error
}

type Scheduler struct {
	scheduler gocron.Scheduler
}

// NewScheduler registers the menu cache refresh job running every interval.
func NewScheduler(refresher CacheRefresher, interval time.Duration) (*Scheduler, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("invalid refresh interval %s", interval)
	}

	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	_, err = s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(refreshMenuCache, refresher),
		gocron.WithName("menu-cache-refresh"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, fmt.Errorf("register menu cache refresh job: %w", err)
	}

	return &Scheduler{scheduler: s}, nil
}

func refreshMenuCache(refresher CacheRefresher) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := refresher.RefreshCache(ctx); err != nil {
		utils.ErrorLogger.Printf("Menu cache refresh failed: %v", err)
		return
	}
	utils.InfoLogger.Debug("Menu cache refreshed")
}

func (s *Scheduler) Start() {
	utils.InfoLogger.Println("Starting background job scheduler")
	s.scheduler.Start()
}

func (s *Scheduler) Stop() error {
	utils.InfoLogger.Println("Stopping background job scheduler")
	return s.scheduler.Shutdown()
}
