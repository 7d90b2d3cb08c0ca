package models

import "time"

// Menu is a sellable item. Price is in whole rupiah.
type Menu struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	CategoryID  uint         `gorm:"not null;index" json:"categoryId"`
	Category    Category     `gorm:"foreignKey:CategoryID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"category"`
	Name        string       `gorm:"type:varchar(255);not null" json:"name"`
	Price       int64        `gorm:"not null" json:"price"`
	Image       string       `gorm:"type:varchar(255);not null" json:"image"`
	Description *string      `gorm:"type:text" json:"description"`
	Stock       *int         `json:"stock"`
	Options     []MenuOption `gorm:"foreignKey:MenuID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"options"`
	CreatedAt   time.Time    `gorm:"not null" json:"createdAt"`
	UpdatedAt   time.Time    `gorm:"not null" json:"updatedAt"`
}

// MenuOption is a modifier that can be added to a menu item.
type MenuOption struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	MenuID     uint   `gorm:"not null;index" json:"menuId"`
	Label      string `gorm:"type:varchar(100);not null" json:"label"`
	IsRequired bool   `gorm:"not null;default:false" json:"isRequired"`
	ExtraPrice int64  `gorm:"not null;default:0" json:"extraPrice"`
}
