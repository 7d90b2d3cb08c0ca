package models

import (
	"time"
)

const OrderStatusPending = "pending"

// Order is the checkout aggregate. TableID is the authoritative table
// association; TableSlug keeps the slug the order was placed at so history
// survives table deletion.
type Order struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	TableID    *uint       `gorm:"index" json:"tableId"`
	Table      *Table      `gorm:"foreignKey:TableID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"tableRelation,omitempty"`
	TableSlug  string      `gorm:"type:varchar(100);not null;index" json:"table"`
	CustomerID uint        `gorm:"not null;index" json:"customerId"`
	Customer   Customer    `gorm:"foreignKey:CustomerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"customer"`
	Status     string      `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Items      []OrderItem `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"items"`
	CreatedAt  time.Time   `gorm:"not null;index" json:"createdAt"`
	UpdatedAt  time.Time   `gorm:"not null" json:"updatedAt"`
}

// Total sums menu price times quantity over the loaded items. Items must be
// loaded with their Menu.
func (o *Order) Total() int64 {
	var total int64
	for _, item := range o.Items {
		total += item.Subtotal()
	}
	return total
}
