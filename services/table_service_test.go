package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/qr-table-order/apperror"
	"github.com/yeremiapane/qr-table-order/feed"
	"github.com/yeremiapane/qr-table-order/models"
	"gorm.io/gorm"
)

func TestCreateTableThenGetBySlug(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, in := range []CreateTableInput{
		{Name: "Table 1", Slug: "table-1"},
		{Name: "Table 2", Slug: "table-2"},
		{Name: " Patio ", Slug: " patio "},
	} {
		created, err := f.tables.CreateTable(ctx, in)
		require.NoError(t, err)

		got, err := f.tables.GetTableBySlug(ctx, created.Slug)
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, created.Name, got.Name)
		assert.Equal(t, created.Slug, got.Slug)
	}

	got, err := f.tables.GetTableBySlug(ctx, "patio")
	require.NoError(t, err)
	assert.Equal(t, "Patio", got.Name)

	tables, err := f.tables.ListTables(ctx)
	require.NoError(t, err)
	assert.Len(t, tables, 3)
	assert.Equal(t, []string{feed.EventTableCreated, feed.EventTableCreated, feed.EventTableCreated}, f.events.Events())
}

func TestCreateTableRejectsDuplicateSlug(t *testing.T) {
	f := newFixture(t)
	f.mustTable(t, "Table 1", "table-1")

	_, err := f.tables.CreateTable(context.Background(), CreateTableInput{Name: "Another", Slug: "table-1"})
	assert.True(t, apperror.Is(err, apperror.KindConflict))
	assert.Equal(t, int64(1), f.count(t, &models.Table{}))
}

func TestCreateTableSlugTakenAfterPreCheck(t *testing.T) {
	f := newFixture(t)
	now := time.Now()
	f.beforeCreateOnce(t, "tables", func(db *gorm.DB) {
		execRaw(t, db, "INSERT INTO tables (name, slug, created_at, updated_at) VALUES (?, ?, ?, ?)",
			"Racer", "table-1", now, now)
	})

	_, err := f.tables.CreateTable(context.Background(), CreateTableInput{Name: "Table 1", Slug: "table-1"})
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindConflict), "got %v", err)
	assert.Empty(t, f.events.Events())
}

func TestCreateTableValidation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		in   CreateTableInput
	}{
		{"missing name", CreateTableInput{Slug: "table-1"}},
		{"missing slug", CreateTableInput{Name: "Table 1"}},
		{"blank slug", CreateTableInput{Name: "Table 1", Slug: "   "}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.tables.CreateTable(context.Background(), tt.in)
			assert.True(t, apperror.Is(err, apperror.KindValidation))
		})
	}
	assert.Equal(t, int64(0), f.count(t, &models.Table{}))
}

func TestGetTableBySlugErrors(t *testing.T) {
	f := newFixture(t)

	_, err := f.tables.GetTableBySlug(context.Background(), "nonexistent")
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	_, err = f.tables.GetTableBySlug(context.Background(), "")
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestDeleteTableKeepsOrderHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	food := f.mustCategory(t, "Food")
	table := f.mustTable(t, "Table 1", "table-1")
	menu := f.mustMenu(t, food.ID, "Nasi Goreng", 25000)

	order, err := f.orders.CreateOrder(ctx, CreateOrderInput{
		Table: "table-1",
		Items: []OrderItemInput{{MenuID: menu.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	require.NoError(t, f.tables.DeleteTable(ctx, table.ID))

	var kept models.Order
	require.NoError(t, f.db.First(&kept, order.ID).Error)
	assert.Nil(t, kept.TableID)
	assert.Equal(t, "table-1", kept.TableSlug)

	_, err = f.tables.GetTableBySlug(ctx, "table-1")
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
	assert.Contains(t, f.events.Events(), feed.EventTableDeleted)
}

func TestDeleteTableRollsBackOnFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	food := f.mustCategory(t, "Food")
	table := f.mustTable(t, "Table 1", "table-1")
	menu := f.mustMenu(t, food.ID, "Nasi Goreng", 25000)

	order, err := f.orders.CreateOrder(ctx, CreateOrderInput{
		Table: "table-1",
		Items: []OrderItemInput{{MenuID: menu.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	f.failDelete(t, "tables")
	err = f.tables.DeleteTable(ctx, table.ID)
	assert.True(t, apperror.Is(err, apperror.KindStore), "got %v", err)

	var kept models.Order
	require.NoError(t, f.db.First(&kept, order.ID).Error)
	require.NotNil(t, kept.TableID)
	assert.Equal(t, table.ID, *kept.TableID)
	assert.Equal(t, int64(1), f.count(t, &models.Table{}))
	assert.NotContains(t, f.events.Events(), feed.EventTableDeleted)
}

func TestDeleteTableNotFound(t *testing.T) {
	f := newFixture(t)

	err := f.tables.DeleteTable(context.Background(), 42)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestGetTableWithLatestOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	food := f.mustCategory(t, "Food")
	f.mustTable(t, "Table 1", "table-1")
	menu := f.mustMenu(t, food.ID, "Nasi Goreng", 25000)

	result, err := f.tables.GetTableWithLatestOrder(ctx, "table-1")
	require.NoError(t, err)
	assert.Nil(t, result.LatestOrder)

	for i := 1; i <= 2; i++ {
		_, err := f.orders.CreateOrder(ctx, CreateOrderInput{
			Table: "table-1",
			Items: []OrderItemInput{{MenuID: menu.ID, Quantity: i}},
		})
		require.NoError(t, err)
	}

	result, err = f.tables.GetTableWithLatestOrder(ctx, "table-1")
	require.NoError(t, err)
	require.NotNil(t, result.LatestOrder)
	require.Len(t, result.LatestOrder.Items, 1)
	assert.Equal(t, 2, result.LatestOrder.Items[0].Quantity)
	assert.Equal(t, "table-1", result.Slug)
}
