package services

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/yeremiapane/qr-table-order/apperror"
	"github.com/yeremiapane/qr-table-order/cache"
	"github.com/yeremiapane/qr-table-order/feed"
	"github.com/yeremiapane/qr-table-order/models"
	"github.com/yeremiapane/qr-table-order/utils"
	"gorm.io/gorm"
)

// MenuOptionInput is one modifier option submitted with a new menu.
type MenuOptionInput struct {
	Label      string `json:"label" binding:"required"`
	IsRequired bool   `json:"isRequired"`
	ExtraPrice int64  `json:"extraPrice" binding:"gte=0"`
}

type CreateMenuInput struct {
	Name        string            `json:"name" binding:"required"`
	Price       *int64            `json:"price" binding:"required,gte=0"`
	CategoryID  uint              `json:"categoryId" binding:"required"`
	Image       string            `json:"image" binding:"required"`
	Description *string           `json:"description"`
	Stock       *int              `json:"stock" binding:"omitempty,gte=0"`
	Options     []MenuOptionInput `json:"options" binding:"omitempty,dive"`
}

// UpdateMenuInput carries the mutable menu fields. Nil fields are left
// untouched.
type UpdateMenuInput struct {
	Name        *string `json:"name" binding:"omitempty,min=1"`
	Price       *int64  `json:"price" binding:"omitempty,gte=0"`
	Stock       *int    `json:"stock" binding:"omitempty,gte=0"`
	Description *string `json:"description"`
}

type MenuService struct {
	db     *gorm.DB
	cache  cache.MenuCache
	events EventPublisher

	// generation counts committed catalog writes in this process.
	generation atomic.Uint64
}

func NewMenuService(db *gorm.DB, menuCache cache.MenuCache, events EventPublisher) *MenuService {
	if menuCache == nil {
		menuCache = cache.NoopCache{}
	}
	return &MenuService{db: db, cache: menuCache, events: publisherOrNoop(events)}
}

// ListMenus returns the catalog, served from the cache when it holds a copy.
func (s *MenuService) ListMenus(ctx context.Context) ([]models.Menu, error) {
	if menus, ok, err := s.cache.GetMenus(ctx); err != nil {
		utils.ErrorLogger.Printf("Menu cache read failed: %v", err)
	} else if ok {
		return menus, nil
	}

	gen := s.generation.Load()
	menus, err := s.loadMenus(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.fillCache(ctx, gen, menus); err != nil {
		utils.ErrorLogger.Printf("Menu cache write failed: %v", err)
	}
	return menus, nil
}

// RefreshCache reloads the catalog from the store into the cache.
func (s *MenuService) RefreshCache(ctx context.Context) error {
	gen := s.generation.Load()
	menus, err := s.loadMenus(ctx)
	if err != nil {
		return err
	}
	return s.fillCache(ctx, gen, menus)
}

// fillCache stores a catalog read at generation gen. If a write landed
// while it was being read, the copy is stale and is dropped again.
func (s *MenuService) fillCache(ctx context.Context, gen uint64, menus []models.Menu) error {
	if err := s.cache.SetMenus(ctx, menus); err != nil {
		return err
	}
	if s.generation.Load() != gen {
		return s.cache.InvalidateMenus(ctx)
	}
	return nil
}

func (s *MenuService) loadMenus(ctx context.Context) ([]models.Menu, error) {
	menus := []models.Menu{}
	err := s.db.WithContext(ctx).
		Preload("Category").
		Preload("Options").
		Order("id").
		Find(&menus).Error
	if err != nil {
		return nil, apperror.Store("failed to fetch menus", err)
	}
	return menus, nil
}

// CreateMenu writes the menu and its options in one transaction.
func (s *MenuService) CreateMenu(ctx context.Context, in CreateMenuInput) (*models.Menu, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	menu := models.Menu{
		Name:        in.Name,
		Price:       *in.Price,
		CategoryID:  in.CategoryID,
		Image:       in.Image,
		Description: in.Description,
		Stock:       in.Stock,
	}
	for _, opt := range in.Options {
		menu.Options = append(menu.Options, models.MenuOption{
			Label:      opt.Label,
			IsRequired: opt.IsRequired,
			ExtraPrice: opt.ExtraPrice,
		})
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var category models.Category
		if err := tx.First(&category, in.CategoryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.Validation("category %d does not exist", in.CategoryID)
			}
			return err
		}
		return tx.Create(&menu).Error
	})
	if err != nil {
		if apperror.Is(err, apperror.KindValidation) {
			return nil, err
		}
		return nil, apperror.Store("failed to create menu", err)
	}

	created, err := s.findMenu(ctx, menu.ID)
	if err != nil {
		return nil, err
	}
	s.catalogChanged(ctx, feed.EventMenuCreated, created)
	return created, nil
}

func (s *MenuService) UpdateMenu(ctx context.Context, id uint, in UpdateMenuInput) (*models.Menu, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Name != nil {
		updates["name"] = *in.Name
	}
	if in.Price != nil {
		updates["price"] = *in.Price
	}
	if in.Stock != nil {
		updates["stock"] = *in.Stock
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}

	db := s.db.WithContext(ctx)
	var menu models.Menu
	if err := db.First(&menu, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("menu %d not found", id)
		}
		return nil, apperror.Store("failed to fetch menu", err)
	}
	if len(updates) > 0 {
		if err := db.Model(&menu).Updates(updates).Error; err != nil {
			return nil, apperror.Store("failed to update menu", err)
		}
	}

	updated, err := s.findMenu(ctx, id)
	if err != nil {
		return nil, err
	}
	s.catalogChanged(ctx, feed.EventMenuUpdated, updated)
	return updated, nil
}

// DeleteMenu removes the menu with its options and the order lines that
// reference it. Orders left without any line are removed as well.
func (s *MenuService) DeleteMenu(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var menu models.Menu
		if err := tx.First(&menu, id).Error; err != nil {
			return err
		}
		if err := tx.Where("menu_id = ?", id).Delete(&models.MenuOption{}).Error; err != nil {
			return err
		}

		var orderIDs []uint
		if err := tx.Model(&models.OrderItem{}).Where("menu_id = ?", id).Distinct().Pluck("order_id", &orderIDs).Error; err != nil {
			return err
		}
		if err := tx.Where("menu_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		if len(orderIDs) > 0 {
			emptied := tx.Where("id IN ?", orderIDs).
				Where("NOT EXISTS (SELECT 1 FROM order_items WHERE order_items.order_id = orders.id)")
			if err := emptied.Delete(&models.Order{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&menu).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("menu %d not found", id)
		}
		return apperror.Store("failed to delete menu", err)
	}

	s.catalogChanged(ctx, feed.EventMenuDeleted, map[string]uint{"id": id})
	return nil
}

func (s *MenuService) findMenu(ctx context.Context, id uint) (*models.Menu, error) {
	var menu models.Menu
	err := s.db.WithContext(ctx).Preload("Category").Preload("Options").First(&menu, id).Error
	if err != nil {
		return nil, apperror.Store("failed to fetch menu", err)
	}
	return &menu, nil
}

func (s *MenuService) catalogChanged(ctx context.Context, event string, data interface{}) {
	s.generation.Add(1)
	if err := s.cache.InvalidateMenus(ctx); err != nil {
		utils.ErrorLogger.Printf("Menu cache invalidation failed: %v", err)
	}
	s.events.Publish(event, data)
}
