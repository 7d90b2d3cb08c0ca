package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/yeremiapane/qr-table-order/models"
	"github.com/yeremiapane/qr-table-order/utils"
)

const menuCatalogKey = "qrorder:menu:catalog"

type RedisMenuCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient builds a client for addr, accepting both "host:port" and
// redis:// style addresses.
func NewRedisClient(addr, password string, db int) *redis.Client {
	parsedAddr := strings.TrimPrefix(strings.TrimPrefix(addr, "rediss://"), "redis://")
	return redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})
}

func NewRedisMenuCache(client *redis.Client, ttl time.Duration) *RedisMenuCache {
	return &RedisMenuCache{client: client, ttl: ttl}
}

// Ping checks connectivity; callers fall back to NoopCache on failure.
func (r *RedisMenuCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisMenuCache) GetMenus(ctx context.Context) ([]models.Menu, bool, error) {
	data, err := r.client.Get(ctx, menuCatalogKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var menus []models.Menu
	if err := json.Unmarshal(data, &menus); err != nil {
		// A corrupt entry is treated as a miss and dropped.
		utils.ErrorLogger.Printf("Discarding unreadable menu cache entry: %v", err)
		_ = r.client.Del(ctx, menuCatalogKey).Err()
		return nil, false, nil
	}
	return menus, true, nil
}

func (r *RedisMenuCache) SetMenus(ctx context.Context, menus []models.Menu) error {
	data, err := json.Marshal(menus)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, menuCatalogKey, data, r.ttl).Err()
}

func (r *RedisMenuCache) InvalidateMenus(ctx context.Context) error {
	return r.client.Del(ctx, menuCatalogKey).Err()
}

func (r *RedisMenuCache) Close() error {
	return r.client.Close()
}
