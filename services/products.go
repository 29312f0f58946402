package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Kariqs/shopfront-api/models"
	"gorm.io/gorm"
)

type ProductPage struct {
	Products   []models.Product
	Pagination Pagination
}

type ProductService struct {
	db *gorm.DB
}

func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{db: db}
}

// List returns one page of active products matching q.
func (s *ProductService) List(ctx context.Context, q ProductQuery) (*ProductPage, error) {
	base, err := q.Filter.Apply(s.db.WithContext(ctx).Model(&models.Product{}))
	if err != nil {
		return nil, fmt.Errorf("build product filter: %w", err)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}

	products := []models.Product{}
	if q.PastEnd(total) {
		return &ProductPage{Products: products, Pagination: NewPagination(q.Page, q.Limit, total)}, nil
	}
	err = base.Session(&gorm.Session{}).
		Preload("Category").
		Preload("Images").
		Order(q.Sort.OrderBy()).
		Limit(q.Limit).
		Offset(q.Offset()).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	return &ProductPage{
		Products:   products,
		Pagination: NewPagination(q.Page, q.Limit, total),
	}, nil
}

// Featured returns up to limit active featured products, newest first.
func (s *ProductService) Featured(ctx context.Context, limit int) ([]models.Product, error) {
	if limit < 1 {
		limit = DefaultFeaturedLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	page, err := s.List(ctx, ProductQuery{
		Filter: ProductFilter{FeaturedOnly: true},
		Sort:   SortNewest,
		Page:   1,
		Limit:  limit,
	})
	if err != nil {
		return nil, err
	}
	return page.Products, nil
}

func (s *ProductService) Get(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	err := s.db.WithContext(ctx).
		Preload("Category").
		Preload("Images").
		Where("is_active = ?", true).
		First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get product %d: %w", id, err)
	}
	return &product, nil
}

// ListByCategory resolves an active category by slug and lists its products.
func (s *ProductService) ListByCategory(ctx context.Context, slug string, q ProductQuery) (*models.Category, *ProductPage, error) {
	var category models.Category
	err := s.db.WithContext(ctx).Where("slug = ? AND is_active = ?", slug, true).First(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("get category %q: %w", slug, err)
	}

	q.Filter.CategoryID = &category.ID
	q.Filter.CategorySlug = ""
	page, err := s.List(ctx, q)
	if err != nil {
		return nil, nil, err
	}
	return &category, page, nil
}

// AddImage records an uploaded image URL against an existing product.
func (s *ProductService) AddImage(ctx context.Context, productID uint, url string) (*models.ProductImage, error) {
	var product models.Product
	err := s.db.WithContext(ctx).Select("id").First(&product, productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get product %d: %w", productID, err)
	}

	image := models.ProductImage{ProductID: productID, Url: url}
	if err := s.db.WithContext(ctx).Create(&image).Error; err != nil {
		return nil, fmt.Errorf("save product image: %w", err)
	}
	return &image, nil
}
