package models

type OrderItem struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	OrderID  uint `gorm:"not null;index" json:"orderId"`
	MenuID   uint `gorm:"not null;index" json:"menuId"`
	Menu     Menu `gorm:"foreignKey:MenuID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"menu"`
	Quantity int  `gorm:"not null" json:"quantity"`
}

func (i OrderItem) Subtotal() int64 {
	return i.Menu.Price * int64(i.Quantity)
}
