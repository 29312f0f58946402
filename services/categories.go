package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Kariqs/shopfront-api/models"
	"github.com/Kariqs/shopfront-api/utils"
	"gorm.io/gorm"
)

const categoryListCacheKey = "cache:categories"

type CategoryWithCount struct {
	models.Category
	ProductCount int64 `json:"productCount"`
}

// CategoryService lists active categories with the number of active products in each.
// Counts are computed per request; cache, when set, holds only the category rows for cacheTTL.
type CategoryService struct {
	db       *gorm.DB
	cache    utils.Cache
	cacheTTL time.Duration
	logger   *slog.Logger
}

func NewCategoryService(db *gorm.DB, cache utils.Cache, cacheTTL time.Duration, logger *slog.Logger) *CategoryService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CategoryService{db: db, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

func (s *CategoryService) List(ctx context.Context) ([]CategoryWithCount, error) {
	categories, err := s.activeCategories(ctx)
	if err != nil {
		return nil, err
	}

	counts, err := s.activeProductCounts(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]CategoryWithCount, 0, len(categories))
	for _, c := range categories {
		out = append(out, CategoryWithCount{Category: c, ProductCount: counts[c.ID]})
	}
	return out, nil
}

func (s *CategoryService) activeCategories(ctx context.Context) ([]models.Category, error) {
	if cached, ok := s.cached(ctx); ok {
		return cached, nil
	}

	var categories []models.Category
	if err := s.db.WithContext(ctx).Where("is_active = ?", true).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	s.store(ctx, categories)
	return categories, nil
}

func (s *CategoryService) GetBySlug(ctx context.Context, slug string) (*CategoryWithCount, error) {
	var category models.Category
	err := s.db.WithContext(ctx).Where("slug = ? AND is_active = ?", slug, true).First(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get category %q: %w", slug, err)
	}

	var count int64
	err = s.db.WithContext(ctx).Model(&models.Product{}).
		Where("category_id = ? AND is_active = ?", category.ID, true).
		Count(&count).Error
	if err != nil {
		return nil, fmt.Errorf("count products for category %d: %w", category.ID, err)
	}
	return &CategoryWithCount{Category: category, ProductCount: count}, nil
}

// Invalidate drops the cached category rows after catalog writes.
func (s *CategoryService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, categoryListCacheKey); err != nil {
		s.logger.WarnContext(ctx, "category cache invalidation failed", "error", err)
	}
}

func (s *CategoryService) activeProductCounts(ctx context.Context) (map[uint]int64, error) {
	var rows []struct {
		CategoryID uint
		Total      int64
	}
	err := s.db.WithContext(ctx).Model(&models.Product{}).
		Select("category_id, COUNT(*) AS total").
		Where("is_active = ?", true).
		Group("category_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count products by category: %w", err)
	}

	counts := make(map[uint]int64, len(rows))
	for _, r := range rows {
		counts[r.CategoryID] = r.Total
	}
	return counts, nil
}

func (s *CategoryService) cached(ctx context.Context) ([]models.Category, bool) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return nil, false
	}
	data, err := s.cache.Get(ctx, categoryListCacheKey)
	if err != nil {
		if !errors.Is(err, utils.ErrCacheMiss) {
			s.logger.WarnContext(ctx, "category cache read failed", "error", err)
		}
		return nil, false
	}
	var out []models.Category
	if err := json.Unmarshal(data, &out); err != nil {
		s.logger.WarnContext(ctx, "category cache entry unreadable", "error", err)
		return nil, false
	}
	return out, true
}

func (s *CategoryService) store(ctx context.Context, list []models.Category) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(list)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, categoryListCacheKey, data, s.cacheTTL); err != nil {
		s.logger.WarnContext(ctx, "category cache write failed", "error", err)
	}
}
