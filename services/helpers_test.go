package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Kariqs/shopfront-api/initializers"
	"github.com/Kariqs/shopfront-api/models"
	"github.com/Kariqs/shopfront-api/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, initializers.SyncDatabase(db))
	return db
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []utils.Email
	err  error
}

func (m *recordingMailer) Send(ctx context.Context, email utils.Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, email)
	return nil
}

func (m *recordingMailer) last() utils.Email {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return utils.Email{}
	}
	return m.sent[len(m.sent)-1]
}

type memCache struct {
	mu    sync.Mutex
	items map[string][]byte
	gets  int
}

func newMemCache() *memCache {
	return &memCache{items: map[string][]byte{}}
}

func (c *memCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	v, ok := c.items[key]
	if !ok {
		return nil, utils.ErrCacheMiss
	}
	return v, nil
}

func (c *memCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = value
	return nil
}

func (c *memCache) Delete(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.items, k)
	}
	return nil
}

func createUser(t *testing.T, db *gorm.DB, email, password string) *models.User {
	t.Helper()
	hash, err := utils.HashPassword(password)
	require.NoError(t, err)
	user := &models.User{Name: "Test User", Email: email, Password: hash, Role: models.RoleUser, IsActive: true}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()
	category := &models.Category{Name: name, IsActive: true}
	require.NoError(t, db.Create(category).Error)
	return category
}

func createProduct(t *testing.T, db *gorm.DB, category *models.Category, name string, price float64) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:        name,
		Description: name + " description",
		Price:       price,
		CategoryID:  category.ID,
		IsActive:    true,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

// deactivate flips is_active after creation, since gorm skips zero values for
// columns with a default.
func deactivate(t *testing.T, db *gorm.DB, model any) {
	t.Helper()
	require.NoError(t, db.Model(model).Update("is_active", false).Error)
}
