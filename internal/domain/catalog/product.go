package catalog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Product struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name           string    `gorm:"column:name;not null" json:"name"`
	SKU            string    `gorm:"column:sku;uniqueIndex" json:"sku"`
	Description    string    `gorm:"column:description" json:"description,omitempty"`
	BasePriceCents int64     `gorm:"column:base_price_cents;not null;default:0" json:"base_price_cents"`
	Active         bool      `gorm:"column:active;not null;default:true" json:"active"`

	// ConfigTreeVersionID pins the option tree used to price this product.
	// When nil, the latest ACTIVE version for the product is used.
	ConfigTreeVersionID *uuid.UUID `gorm:"type:uuid;column:config_tree_version_id" json:"config_tree_version_id,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Product) TableName() string { return "product" }
