package database

import (
	"fmt"

	"github.com/yeremiapane/qr-table-order/models"
	"github.com/yeremiapane/qr-table-order/utils"
	"gorm.io/gorm"
)

// AutoMigrate creates or updates every table the application uses. Parents
// are listed before children so foreign keys resolve.
func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Table{},
		&models.Category{},
		&models.Menu{},
		&models.MenuOption{},
		&models.Customer{},
		&models.Order{},
		&models.OrderItem{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	utils.InfoLogger.Println("Database migration completed")
	return nil
}

// SeedCategories inserts the default categories when none exist yet.
// It returns the number of rows created.
func SeedCategories(db *gorm.DB) (int, error) {
	var count int64
	if err := db.Model(&models.Category{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count categories: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	categories := make([]models.Category, 0, len(models.DefaultCategoryNames))
	for _, name := range models.DefaultCategoryNames {
		categories = append(categories, models.Category{Name: name})
	}
	if err := db.Create(&categories).Error; err != nil {
		return 0, fmt.Errorf("seed categories: %w", err)
	}

	utils.InfoLogger.Printf("Seeded %d default categories", len(categories))
	return len(categories), nil
}
