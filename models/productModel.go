package models

import (
	"errors"
	"math"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrNegativePrice = errors.New("price must not be negative")

type ProductImage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Url       string    `gorm:"not null" json:"url"`
	ProductID uint      `gorm:"index;not null" json:"productId"`
	CreatedAt time.Time `json:"createdAt"`
}

type Product struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Name          string         `gorm:"size:200;index;not null" json:"name"`
	Description   string         `json:"description"`
	Price         float64        `gorm:"index;not null" json:"price"`
	OriginalPrice float64        `json:"originalPrice,omitempty"`
	Discount      int            `json:"discount"`
	CategoryID    uint           `gorm:"index;not null" json:"categoryId"`
	Category      *Category      `json:"category,omitempty"`
	Stock         int            `gorm:"not null;default:0" json:"stock"`
	Sold          int            `gorm:"index;not null;default:0" json:"sold"`
	Rating        float64        `gorm:"index;not null;default:0" json:"rating"`
	NumReviews    int            `gorm:"not null;default:0" json:"numReviews"`
	IsActive      bool           `gorm:"index;not null;default:true" json:"isActive"`
	Featured      bool           `gorm:"index;not null;default:false" json:"featured"`
	MainImage     string         `json:"mainImage"`
	Images        []ProductImage `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"images"`
	Attributes    datatypes.JSON `json:"attributes,omitempty"`
	CreatedAt     time.Time      `gorm:"index" json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

func (p *Product) BeforeSave(tx *gorm.DB) error {
	if p.Price < 0 {
		return ErrNegativePrice
	}
	p.Discount = DiscountPercent(p.Price, p.OriginalPrice)
	return nil
}

// DiscountPercent derives a whole-number discount from the list and sale price.
// It is zero when there is no original price or no reduction.
func DiscountPercent(price, originalPrice float64) int {
	if originalPrice <= 0 || price >= originalPrice {
		return 0
	}
	return int(math.Round((originalPrice - price) / originalPrice * 100))
}
