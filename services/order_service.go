package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yeremiapane/qr-table-order/apperror"
	"github.com/yeremiapane/qr-table-order/feed"
	"github.com/yeremiapane/qr-table-order/models"
	"github.com/yeremiapane/qr-table-order/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CustomerInput struct {
	Name    string `json:"name"`
	Email   string `json:"email" binding:"omitempty,email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// SelectedOption is a modifier chosen for a cart line. It is accepted with
// the order but not stored.
type SelectedOption struct {
	ID         uint   `json:"id"`
	Label      string `json:"label"`
	ExtraPrice int64  `json:"extraPrice"`
}

type OrderItemInput struct {
	MenuID          uint             `json:"menuId" binding:"required"`
	Quantity        int              `json:"quantity" binding:"required,gte=1"`
	SelectedOptions []SelectedOption `json:"selectedOptions"`
}

// CreateOrderInput is the cart submitted at checkout.
type CreateOrderInput struct {
	Table    string           `json:"table" binding:"required"`
	Customer *CustomerInput   `json:"customer"`
	Items    []OrderItemInput `json:"items" binding:"required,min=1,dive"`
}

type ReceiptLine struct {
	MenuID   uint   `json:"menuId"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
	Subtotal int64  `json:"subtotal"`
}

type Receipt struct {
	Order          models.Order  `json:"order"`
	Lines          []ReceiptLine `json:"lines"`
	Total          int64         `json:"total"`
	TotalFormatted string        `json:"totalFormatted"`
}

func NewReceipt(order models.Order) *Receipt {
	r := &Receipt{Order: order, Lines: make([]ReceiptLine, 0, len(order.Items))}
	for _, item := range order.Items {
		r.Lines = append(r.Lines, ReceiptLine{
			MenuID:   item.MenuID,
			Name:     item.Menu.Name,
			Price:    item.Menu.Price,
			Quantity: item.Quantity,
			Subtotal: item.Subtotal(),
		})
	}
	r.Total = order.Total()
	r.TotalFormatted = utils.FormatCurrencyIDR(r.Total)
	return r
}

type OrderService struct {
	db     *gorm.DB
	events EventPublisher
	now    func() time.Time
}

func NewOrderService(db *gorm.DB, events EventPublisher) *OrderService {
	return &OrderService{db: db, events: publisherOrNoop(events), now: time.Now}
}

// CreateOrder validates the cart, then writes the customer, order and order
// items in one transaction. Nothing is written when validation fails.
func (s *OrderService) CreateOrder(ctx context.Context, in CreateOrderInput) (*models.Order, error) {
	if len(in.Items) == 0 {
		return nil, apperror.Validation("items must contain at least one item")
	}
	if err := validateInput(in); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)

	table, err := findTableBySlug(db, in.Table)
	if err != nil {
		if apperror.Is(err, apperror.KindNotFound) {
			return nil, apperror.Validation("table %q does not exist", strings.TrimSpace(in.Table))
		}
		return nil, err
	}
	if err := s.ensureMenusExist(db, in.Items); err != nil {
		return nil, err
	}

	customerIn := CustomerInput{}
	if in.Customer != nil {
		customerIn = *in.Customer
	}
	email := normalizeEmail(customerIn.Email)
	if email == "" {
		email = s.guestEmail()
	}

	var orderID uint
	err = db.Transaction(func(tx *gorm.DB) error {
		customer, err := upsertCustomer(tx, customerIn, email)
		if err != nil {
			return err
		}

		order := models.Order{
			TableID:    &table.ID,
			TableSlug:  table.Slug,
			CustomerID: customer.ID,
			Status:     models.OrderStatusPending,
		}
		for _, item := range in.Items {
			order.Items = append(order.Items, models.OrderItem{
				MenuID:   item.MenuID,
				Quantity: item.Quantity,
			})
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		orderID = order.ID
		return nil
	})
	if err != nil {
		return nil, apperror.Store("failed to create order", err)
	}

	var created models.Order
	if err := preloadOrder(db).First(&created, orderID).Error; err != nil {
		return nil, apperror.Store("failed to fetch created order", err)
	}

	s.events.Publish(feed.EventOrderCreated, created)
	return &created, nil
}

func (s *OrderService) ensureMenusExist(db *gorm.DB, items []OrderItemInput) error {
	ids := make([]uint, 0, len(items))
	seen := make(map[uint]bool, len(items))
	for _, item := range items {
		if !seen[item.MenuID] {
			seen[item.MenuID] = true
			ids = append(ids, item.MenuID)
		}
	}

	var found []uint
	if err := db.Model(&models.Menu{}).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return apperror.Store("failed to check menus", err)
	}
	if len(found) == len(ids) {
		return nil
	}

	existing := make(map[uint]bool, len(found))
	for _, id := range found {
		existing[id] = true
	}
	for _, id := range ids {
		if !existing[id] {
			return apperror.Validation("menu %d does not exist", id)
		}
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *OrderService) guestEmail() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("guest-%d-%s@example.com", s.now().UnixMilli(), suffix)
}

// upsertCustomer keys the customer on email with a single insert that
// updates on conflict, so concurrent checkouts with one email share a row.
// Only supplied profile fields overwrite stored values.
func upsertCustomer(tx *gorm.DB, in CustomerInput, email string) (*models.Customer, error) {
	customer := models.Customer{
		Name:    strings.TrimSpace(in.Name),
		Email:   email,
		Phone:   nilIfEmpty(in.Phone),
		Address: nilIfEmpty(in.Address),
	}

	columns := []string{"updated_at"}
	if customer.Name != "" {
		columns = append(columns, "name")
	}
	if customer.Phone != nil {
		columns = append(columns, "phone")
	}
	if customer.Address != nil {
		columns = append(columns, "address")
	}

	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns(columns),
	}).Create(&customer).Error
	if err != nil {
		return nil, err
	}

	// The insert may have updated an existing row; read back its id.
	var stored models.Customer
	if err := tx.Where("email = ?", email).First(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

// ListOrders returns every order, newest first.
func (s *OrderService) ListOrders(ctx context.Context) ([]models.Order, error) {
	orders := []models.Order{}
	err := preloadOrder(s.db.WithContext(ctx)).Order("created_at DESC, id DESC").Find(&orders).Error
	if err != nil {
		return nil, apperror.Store("failed to fetch orders", err)
	}
	return orders, nil
}

func (s *OrderService) DeleteOrder(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, id).Error; err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&order).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("order %d not found", id)
		}
		return apperror.Store("failed to delete order", err)
	}

	s.events.Publish(feed.EventOrderDeleted, map[string]uint{"id": id})
	return nil
}

// FindActiveOrderByCustomer returns the customer's most recent pending order.
func (s *OrderService) FindActiveOrderByCustomer(ctx context.Context, customerID uint) (*models.Order, error) {
	return s.latestOrder(ctx, "no pending order for customer",
		"customer_id = ? AND status = ?", customerID, models.OrderStatusPending)
}

// FindLatestOrderByCustomer returns the customer's most recent order of any
// status.
func (s *OrderService) FindLatestOrderByCustomer(ctx context.Context, customerID uint) (*models.Order, error) {
	return s.latestOrder(ctx, "no order for customer", "customer_id = ?", customerID)
}

func (s *OrderService) FindOrderForReceipt(ctx context.Context, customerID uint, tableSlug string) (*Receipt, error) {
	table, err := findTableBySlug(s.db.WithContext(ctx), tableSlug)
	if err != nil {
		return nil, err
	}
	order, err := s.latestOrder(ctx, "order not found",
		"customer_id = ? AND table_id = ?", customerID, table.ID)
	if err != nil {
		return nil, err
	}
	return NewReceipt(*order), nil
}

func (s *OrderService) FindOrderByTableSlug(ctx context.Context, slug string) (*models.Order, error) {
	table, err := findTableBySlug(s.db.WithContext(ctx), slug)
	if err != nil {
		return nil, err
	}
	return s.latestOrder(ctx, "no order for table", "table_id = ?", table.ID)
}

func (s *OrderService) FindPendingOrderByTableSlug(ctx context.Context, slug string) (*models.Order, error) {
	table, err := findTableBySlug(s.db.WithContext(ctx), slug)
	if err != nil {
		return nil, err
	}
	return s.latestOrder(ctx, "no pending order for table",
		"table_id = ? AND status = ?", table.ID, models.OrderStatusPending)
}

func (s *OrderService) latestOrder(ctx context.Context, notFound string, query string, args ...interface{}) (*models.Order, error) {
	var order models.Order
	err := preloadOrder(s.db.WithContext(ctx)).
		Where(query, args...).
		Order("created_at DESC, id DESC").
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("%s", notFound)
		}
		return nil, apperror.Store("failed to fetch order", err)
	}
	return &order, nil
}

func preloadOrder(db *gorm.DB) *gorm.DB {
	return db.Preload("Items.Menu").Preload("Customer").Preload("Table")
}
