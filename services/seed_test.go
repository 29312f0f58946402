package services

import (
	"context"
	"testing"

	"github.com/Kariqs/shopfront-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeederReplacesCatalog(t *testing.T) {
	db := newTestDB(t)
	stale := createCategory(t, db, "Stale")
	createProduct(t, db, stale, "Old Thing", 1)
	ctx := context.Background()

	seeder := NewSeeder(db, 1)
	result, err := seeder.Seed(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, result.Categories)
	assert.Equal(t, 75, result.Products)

	result, err = seeder.Seed(ctx)
	require.NoError(t, err)
	assert.Equal(t, 75, result.Products)

	var products int64
	require.NoError(t, db.Model(&models.Product{}).Count(&products).Error)
	assert.Equal(t, int64(75), products)

	list, err := NewCategoryService(db, nil, 0, nil).List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 5)
	var total int64
	for _, c := range list {
		assert.NotEqual(t, "stale", c.Slug)
		total += c.ProductCount
	}
	assert.Equal(t, int64(75), total)

	var p models.Product
	require.NoError(t, db.Preload("Images").First(&p).Error)
	assert.Len(t, p.Images, 2)
	assert.Greater(t, p.Discount, 0)
}
