package orders

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	OrderStatusDraft      = "draft"
	OrderStatusConfirmed  = "confirmed"
	OrderStatusInProduction = "in_production"
	OrderStatusComplete   = "complete"
	OrderStatusCancelled  = "cancelled"
)

type Order struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Number       string    `gorm:"column:number;not null;uniqueIndex" json:"number"`
	CustomerName string    `gorm:"column:customer_name" json:"customer_name,omitempty"`
	PricingTier  string    `gorm:"column:pricing_tier;not null;default:'standard'" json:"pricing_tier"`
	Status       string    `gorm:"column:status;not null;default:'draft'" json:"status"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Order) TableName() string { return "order" }
