package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Category string

const (
	CategoryPoultry Category = "Poultry"
	CategoryCattle  Category = "Cattle"
	CategoryFish    Category = "Fish"
)

func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryPoultry:
		return CategoryPoultry, nil
	case CategoryCattle:
		return CategoryCattle, nil
	case CategoryFish:
		return CategoryFish, nil
	default:
		return "", errors.New("invalid category")
	}
}

// Product stock is the single source of truth for availability. Deleting a
// product is a soft delete so historical order items stay resolvable.
type Product struct {
	ID          uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string          `gorm:"not null" json:"name"`
	Category    Category        `gorm:"type:VARCHAR(50);not null" json:"category"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Stock       int             `gorm:"not null;default:0" json:"stock"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}
