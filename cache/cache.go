// Package cache holds the menu catalog cache used by the menu service.
package cache

import (
	"context"

	"github.com/yeremiapane/qr-table-order/models"
)

// MenuCache stores the full menu catalog as one entry. A miss is reported
// with ok == false and a nil error.
type MenuCache interface {
	GetMenus(ctx context.Context) (menus []models.Menu, ok bool, err error)
	SetMenus(ctx context.Context, menus []models.Menu) error
	InvalidateMenus(ctx context.Context) error
}

// NoopCache always misses. It is used when Redis is not configured.
type NoopCache struct{}

func (NoopCache) GetMenus(context.Context) ([]models.Menu, bool, error) { return nil, false, nil }

func (NoopCache) SetMenus(context.Context, []models.Menu) error { return nil }

func (NoopCache) InvalidateMenus(context.Context) error { return nil }
