package services

import (
	"context"
	"strings"

	"github.com/yeremiapane/qr-table-order/apperror"
	"github.com/yeremiapane/qr-table-order/database"
	"github.com/yeremiapane/qr-table-order/models"
	"gorm.io/gorm"
)

type CategoryService struct {
	db *gorm.DB
}

func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{db: db}
}

func (s *CategoryService) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.WithContext(ctx).Order("id").Find(&categories).Error; err != nil {
		return nil, apperror.Store("failed to fetch categories", err)
	}
	return categories, nil
}

func (s *CategoryService) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.Validation("name is required")
	}

	category := models.Category{Name: name}
	if err := s.db.WithContext(ctx).Create(&category).Error; err != nil {
		return nil, apperror.Store("failed to create category", err)
	}
	return &category, nil
}

// SeedDefaults creates Food and Drink when the category table is empty and
// returns the current category list.
func (s *CategoryService) SeedDefaults(ctx context.Context) ([]models.Category, error) {
	if _, err := database.SeedCategories(s.db.WithContext(ctx)); err != nil {
		return nil, apperror.Store("failed to seed categories", err)
	}
	return s.ListCategories(ctx)
}
