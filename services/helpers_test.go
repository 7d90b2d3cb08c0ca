package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/qr-table-order/models"
	"github.com/yeremiapane/qr-table-order/testhelpers"
	"gorm.io/gorm"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *recordingPublisher) Publish(event string, _ interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) Events() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.events...)
}

type memoryCache struct {
	menus         []models.Menu
	filled        bool
	sets          int
	invalidations int
}

func (c *memoryCache) GetMenus(context.Context) ([]models.Menu, bool, error) {
	return c.menus, c.filled, nil
}

func (c *memoryCache) SetMenus(_ context.Context, menus []models.Menu) error {
	c.menus = menus
	c.filled = true
	c.sets++
	return nil
}

func (c *memoryCache) InvalidateMenus(context.Context) error {
	c.menus = nil
	c.filled = false
	c.invalidations++
	return nil
}

type fixture struct {
	db       *gorm.DB
	events   *recordingPublisher
	cache    *memoryCache
	tables   *TableService
	menus    *MenuService
	orders   *OrderService
	category *CategoryService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testhelpers.NewTestDB(t)
	events := &recordingPublisher{}
	menuCache := &memoryCache{}
	return &fixture{
		db:       db,
		events:   events,
		cache:    menuCache,
		tables:   NewTableService(db, events),
		menus:    NewMenuService(db, menuCache, events),
		orders:   NewOrderService(db, events),
		category: NewCategoryService(db),
	}
}

func int64Ptr(v int64) *int64 { return &v }

func (f *fixture) mustCategory(t *testing.T, name string) models.Category {
	t.Helper()
	c, err := f.category.CreateCategory(context.Background(), name)
	require.NoError(t, err)
	return *c
}

func (f *fixture) mustTable(t *testing.T, name, slug string) models.Table {
	t.Helper()
	table, err := f.tables.CreateTable(context.Background(), CreateTableInput{Name: name, Slug: slug})
	require.NoError(t, err)
	return *table
}

func (f *fixture) mustMenu(t *testing.T, categoryID uint, name string, price int64) models.Menu {
	t.Helper()
	menu, err := f.menus.CreateMenu(context.Background(), CreateMenuInput{
		Name:       name,
		Price:      int64Ptr(price),
		CategoryID: categoryID,
		Image:      "x.jpg",
	})
	require.NoError(t, err)
	return *menu
}

func (f *fixture) count(t *testing.T, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(model).Count(&n).Error)
	return n
}

var errInjected = errors.New("boom")

// beforeCreateOnce runs fn inside the first create on table, on the same
// connection and transaction as that create.
func (f *fixture) beforeCreateOnce(t *testing.T, table string, fn func(db *gorm.DB)) {
	t.Helper()
	var once sync.Once
	err := f.db.Callback().Create().Before("gorm:create").Register("test:before_create_"+table, func(db *gorm.DB) {
		if db.Statement.Schema != nil && db.Statement.Schema.Table == table {
			once.Do(func() { fn(db) })
		}
	})
	require.NoError(t, err)
}

// failCreate makes every create on table fail.
func (f *fixture) failCreate(t *testing.T, table string) {
	t.Helper()
	err := f.db.Callback().Create().Before("gorm:create").Register("test:fail_create_"+table, func(db *gorm.DB) {
		if db.Statement.Schema != nil && db.Statement.Schema.Table == table {
			db.AddError(errInjected)
		}
	})
	require.NoError(t, err)
}

// failDelete makes every delete on table fail.
func (f *fixture) failDelete(t *testing.T, table string) {
	t.Helper()
	err := f.db.Callback().Delete().Before("gorm:delete").Register("test:fail_delete_"+table, func(db *gorm.DB) {
		if db.Statement.Schema != nil && db.Statement.Schema.Table == table {
			db.AddError(errInjected)
		}
	})
	require.NoError(t, err)
}

// execRaw runs a statement on the connection of an in-flight gorm call.
func execRaw(t *testing.T, db *gorm.DB, sql string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Session(&gorm.Session{NewDB: true}).Exec(sql, args...).Error)
}
