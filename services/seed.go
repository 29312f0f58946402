package services

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/Kariqs/shopfront-api/models"
	"gorm.io/gorm"
)

type seedItem struct {
	name  string
	price float64
	desc  string
}

type seedCategory struct {
	name        string
	description string
	image       string
	items       []seedItem
}

var seedVariants = []string{"", " 128GB", " 256GB", " 512GB", " Plus"}

var seedCatalog = []seedCategory{
	{
		name:        "Phones",
		description: "Smartphones from every major brand",
		image:       "https://images.unsplash.com/photo-1511707171634-5f897ff02aa9?w=300",
		items: []seedItem{
			{"iPhone 15 Pro Max", 1199, "A17 Pro chip, 48MP camera"},
			{"Samsung Galaxy S24 Ultra", 1119, "Snapdragon 8 Gen 3"},
			{"Xiaomi 14 Pro", 799, "Leica optics, 120W charging"},
			{"OPPO Find X7", 759, "Hasselblad camera"},
		},
	},
	{
		name:        "Laptops",
		description: "Notebooks for work and play",
		image:       "https://images.unsplash.com/photo-1496181133206-80ce9b88a853?w=300",
		items: []seedItem{
			{"MacBook Pro M3", 1839, "M3 chip, 16GB RAM"},
			{"Dell XPS 15", 1719, "Intel Core i7, RTX 4060"},
			{"Lenovo ThinkPad X1", 1439, "Business ultrabook"},
		},
	},
	{
		name:        "Tablets",
		description: "Portable tablets",
		image:       "https://images.unsplash.com/photo-1561154464-82e9adf32764?w=300",
		items: []seedItem{
			{"iPad Pro 12.9", 1159, "M2 chip, Liquid Retina display"},
			{"Samsung Galaxy Tab S9", 919, "120Hz AMOLED display"},
			{"Xiaomi Pad 6", 359, "Snapdragon 870, 144Hz"},
		},
	},
	{
		name:        "Accessories",
		description: "Chargers, keyboards, cases and more",
		image:       "https://images.unsplash.com/photo-1572635196237-14b3f281503f?w=300",
		items: []seedItem{
			{"AirPods Pro 2", 239, "Active noise cancellation"},
			{"Keychron Mechanical Keyboard", 99, "Hot-swap, RGB"},
			{"Logitech MX Master 3S", 91, "8K DPI sensor"},
		},
	},
	{
		name:        "Smart Watches",
		description: "Smartwatches and wearables",
		image:       "https://images.unsplash.com/photo-1523275335684-37898b6baf30?w=300",
		items: []seedItem{
			{"Apple Watch Series 9", 439, "S9 chip, always-on display"},
			{"Garmin Forerunner 965", 599, "GPS, 23 day battery"},
		},
	},
}

type SeedResult struct {
	Categories int
	Products   int
}

// Seeder replaces the catalog with demo categories and products.
type Seeder struct {
	db   *gorm.DB
	rand *rand.Rand
}

func NewSeeder(db *gorm.DB, seed uint64) *Seeder {
	return &Seeder{db: db, rand: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *Seeder) Seed(ctx context.Context) (*SeedResult, error) {
	result := &SeedResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []any{&models.ProductImage{}, &models.Product{}, &models.Category{}} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
				return fmt.Errorf("clear %T: %w", model, err)
			}
		}

		for _, sc := range seedCatalog {
			category := models.Category{
				Name:        sc.name,
				Description: sc.description,
				Image:       sc.image,
				IsActive:    true,
			}
			if err := tx.Create(&category).Error; err != nil {
				return fmt.Errorf("create category %q: %w", sc.name, err)
			}
			result.Categories++

			products := s.generate(category.ID, sc.items)
			if err := tx.CreateInBatches(products, 50).Error; err != nil {
				return fmt.Errorf("create products for %q: %w", sc.name, err)
			}
			result.Products += len(products)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Seeder) generate(categoryID uint, items []seedItem) []models.Product {
	products := make([]models.Product, 0, len(items)*len(seedVariants))
	for _, item := range items {
		for i, variant := range seedVariants {
			price := item.price + float64(i*80)
			products = append(products, models.Product{
				Name:          item.name + variant,
				Description:   item.desc + ". Genuine product with a 12 month warranty.",
				Price:         price,
				OriginalPrice: price + 120,
				CategoryID:    categoryID,
				MainImage:     fmt.Sprintf("https://picsum.photos/seed/%d/400/400", s.rand.Uint32()),
				Images: []models.ProductImage{
					{Url: fmt.Sprintf("https://picsum.photos/seed/%d/400/400", s.rand.Uint32())},
					{Url: fmt.Sprintf("https://picsum.photos/seed/%d/400/400", s.rand.Uint32())},
				},
				Stock:      s.rand.IntN(100) + 20,
				Sold:       s.rand.IntN(500),
				Rating:     math.Round((s.rand.Float64()*2+3)*10) / 10,
				NumReviews: s.rand.IntN(200) + 10,
				IsActive:   true,
				Featured:   s.rand.Float64() > 0.7,
			})
		}
	}
	return products
}
