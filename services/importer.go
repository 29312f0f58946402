package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Kariqs/shopfront-api/models"
	"github.com/gosimple/slug"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// Column headers understood by ProductImporter. Matching is case-insensitive.
const (
	colName          = "name"
	colDescription   = "description"
	colPrice         = "price"
	colOriginalPrice = "originalprice"
	colCategory      = "category"
	colStock         = "stock"
	colFeatured      = "featured"
	colImage         = "image"
)

type ImportRowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

type ImportResult struct {
	Created           int              `json:"created"`
	Skipped           int              `json:"skipped"`
	CategoriesCreated int              `json:"categoriesCreated"`
	Errors            []ImportRowError `json:"errors"`
}

// ProductImporter loads products from the first sheet of an xlsx workbook.
// Categories are matched by slug and created when missing.
type ProductImporter struct {
	db         *gorm.DB
	categories *CategoryService
}

func NewProductImporter(db *gorm.DB, categories *CategoryService) *ProductImporter {
	return &ProductImporter{db: db, categories: categories}
}

func (p *ProductImporter) Import(ctx context.Context, r io.Reader) (*ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: not a readable xlsx file: %v", ErrInvalidInput, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrInvalidInput)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: sheet %q is empty", ErrInvalidInput, sheets[0])
	}

	header := map[string]int{}
	for i, cell := range rows[0] {
		header[strings.ToLower(strings.TrimSpace(cell))] = i
	}
	for _, required := range []string{colName, colPrice, colCategory} {
		if _, ok := header[required]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrInvalidInput, required)
		}
	}

	result := &ImportResult{Errors: []ImportRowError{}}
	err = p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		byslug := map[string]uint{}
		for i, row := range rows[1:] {
			rowNum := i + 2
			cell := func(col string) string {
				idx, ok := header[col]
				if !ok || idx >= len(row) {
					return ""
				}
				return strings.TrimSpace(row[idx])
			}

			if cell(colName) == "" && cell(colPrice) == "" && cell(colCategory) == "" {
				continue
			}

			product, categoryName, rowErr := parseProductRow(cell)
			if rowErr != nil {
				result.Skipped++
				result.Errors = append(result.Errors, ImportRowError{Row: rowNum, Message: rowErr.Error()})
				continue
			}

			categoryID, created, err := resolveCategory(tx, byslug, categoryName)
			if err != nil {
				return err
			}
			if created {
				result.CategoriesCreated++
			}
			product.CategoryID = categoryID

			if err := tx.Create(product).Error; err != nil {
				return fmt.Errorf("row %d: create product: %w", rowNum, err)
			}
			result.Created++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if p.categories != nil && result.Created > 0 {
		p.categories.Invalidate(ctx)
	}
	return result, nil
}

func parseProductRow(cell func(string) string) (*models.Product, string, error) {
	name := cell(colName)
	if name == "" {
		return nil, "", errors.New("name is required")
	}
	categoryName := cell(colCategory)
	if slug.Make(categoryName) == "" {
		return nil, "", errors.New("category is required")
	}

	price, err := strconv.ParseFloat(cell(colPrice), 64)
	if err != nil || price < 0 {
		return nil, "", fmt.Errorf("invalid price %q", cell(colPrice))
	}

	product := &models.Product{
		Name:        name,
		Description: cell(colDescription),
		Price:       price,
		MainImage:   cell(colImage),
		IsActive:    true,
	}
	if v := cell(colOriginalPrice); v != "" {
		original, err := strconv.ParseFloat(v, 64)
		if err != nil || original < 0 {
			return nil, "", fmt.Errorf("invalid originalPrice %q", v)
		}
		product.OriginalPrice = original
	}
	if v := cell(colStock); v != "" {
		stock, err := strconv.Atoi(v)
		if err != nil || stock < 0 {
			return nil, "", fmt.Errorf("invalid stock %q", v)
		}
		product.Stock = stock
	}
	if v := cell(colFeatured); v != "" {
		featured, err := strconv.ParseBool(strings.ToLower(v))
		if err != nil {
			return nil, "", fmt.Errorf("invalid featured %q", v)
		}
		product.Featured = featured
	}
	return product, categoryName, nil
}

func resolveCategory(tx *gorm.DB, byslug map[string]uint, name string) (uint, bool, error) {
	key := slug.Make(name)
	if id, ok := byslug[key]; ok {
		return id, false, nil
	}

	var category models.Category
	err := tx.Where("slug = ?", key).First(&category).Error
	created := false
	if errors.Is(err, gorm.ErrRecordNotFound) {
		category = models.Category{Name: name, Slug: key, IsActive: true}
		if err := tx.Create(&category).Error; err != nil {
			return 0, false, fmt.Errorf("create category %q: %w", name, err)
		}
		created = true
	} else if err != nil {
		return 0, false, fmt.Errorf("find category %q: %w", name, err)
	}

	byslug[key] = category.ID
	return category.ID, created, nil
}
