package services

import (
	"context"
	"errors"
	"strings"

	"github.com/yeremiapane/qr-table-order/apperror"
	"github.com/yeremiapane/qr-table-order/feed"
	"github.com/yeremiapane/qr-table-order/models"
	"gorm.io/gorm"
)

type CreateTableInput struct {
	Name string `json:"name" binding:"required"`
	Slug string `json:"slug" binding:"required"`
}

// TableWithLatestOrder is a table plus the most recent order placed at it.
type TableWithLatestOrder struct {
	models.Table
	LatestOrder *models.Order `json:"latestOrder"`
}

type TableService struct {
	db     *gorm.DB
	events EventPublisher
}

func NewTableService(db *gorm.DB, events EventPublisher) *TableService {
	return &TableService{db: db, events: publisherOrNoop(events)}
}

func (s *TableService) ListTables(ctx context.Context) ([]models.Table, error) {
	var tables []models.Table
	if err := s.db.WithContext(ctx).Order("id").Find(&tables).Error; err != nil {
		return nil, apperror.Store("failed to fetch tables", err)
	}
	return tables, nil
}

// CreateTable registers a table. The slug pre-check is only a fast path;
// the unique index decides under concurrent creation.
func (s *TableService) CreateTable(ctx context.Context, in CreateTableInput) (*models.Table, error) {
	name := strings.TrimSpace(in.Name)
	slug := strings.TrimSpace(in.Slug)
	if name == "" || slug == "" {
		return nil, apperror.Validation("name and slug are required")
	}

	db := s.db.WithContext(ctx)

	var count int64
	if err := db.Model(&models.Table{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return nil, apperror.Store("failed to check table slug", err)
	}
	if count > 0 {
		return nil, apperror.Conflict("table slug %q already exists", slug)
	}

	table := models.Table{Name: name, Slug: slug}
	if err := db.Create(&table).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.Conflict("table slug %q already exists", slug)
		}
		return nil, apperror.Store("failed to create table", err)
	}

	s.events.Publish(feed.EventTableCreated, table)
	return &table, nil
}

// DeleteTable detaches the table's orders and removes it. Orders keep the
// slug they were placed at.
func (s *TableService) DeleteTable(ctx context.Context, id uint) error {
	var table models.Table
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&table, id).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Order{}).Where("table_id = ?", id).Update("table_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&table).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("table %d not found", id)
		}
		return apperror.Store("failed to delete table", err)
	}

	s.events.Publish(feed.EventTableDeleted, table)
	return nil
}

func (s *TableService) GetTableBySlug(ctx context.Context, slug string) (*models.Table, error) {
	return findTableBySlug(s.db.WithContext(ctx), slug)
}

func (s *TableService) GetTableWithLatestOrder(ctx context.Context, slug string) (*TableWithLatestOrder, error) {
	db := s.db.WithContext(ctx)
	table, err := findTableBySlug(db, slug)
	if err != nil {
		return nil, err
	}

	result := &TableWithLatestOrder{Table: *table}
	var order models.Order
	err = preloadOrder(db).Where("table_id = ?", table.ID).Order("created_at DESC, id DESC").First(&order).Error
	switch {
	case err == nil:
		result.LatestOrder = &order
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, apperror.Store("failed to fetch latest order", err)
	}
	return result, nil
}

func findTableBySlug(db *gorm.DB, slug string) (*models.Table, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, apperror.Validation("slug is required")
	}

	var table models.Table
	if err := db.Where("slug = ?", slug).First(&table).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("table %q not found", slug)
		}
		return nil, apperror.Store("failed to fetch table", err)
	}
	return &table, nil
}
