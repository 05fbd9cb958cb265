package orders

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ComponentStatusAccepted = "accepted"
	ComponentStatusVoided   = "voided"
)

const (
	ComponentKindInlineSKU  = "inline_sku"
	ComponentKindProductRef = "product_ref"
)

const (
	InvoiceVisibilityHidden       = "hidden"
	InvoiceVisibilityRollup       = "rollup"
	InvoiceVisibilitySeparateLine = "separate_line"
)

// LineItemComponent is a billable child item derived from a configuration
// proposal. Within one line item at most one row may be ACCEPTED for a
// given (source_node_id, effect_index) pair; voided history is retained.
// The uniqueness is enforced by a partial index created in db.AutoMigrateAll.
type LineItemComponent struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	OrderLineItemID uuid.UUID      `gorm:"type:uuid;not null;index" json:"order_line_item_id"`
	OrderLineItem   *OrderLineItem `gorm:"constraint:OnDelete:CASCADE;foreignKey:OrderLineItemID;references:ID" json:"order_line_item,omitempty"`

	SourceNodeID uuid.UUID `gorm:"type:uuid;not null" json:"source_node_id"`
	EffectIndex  int       `gorm:"column:effect_index;not null" json:"effect_index"`

	Kind              string     `gorm:"column:kind;not null" json:"kind"`
	Title             string     `gorm:"column:title;not null" json:"title"`
	SKURef            string     `gorm:"column:sku_ref" json:"sku_ref,omitempty"`
	ChildProductID    *uuid.UUID `gorm:"type:uuid;column:child_product_id" json:"child_product_id,omitempty"`
	Quantity          float64    `gorm:"column:quantity;not null" json:"quantity"`
	UnitPriceCents    *int64     `gorm:"column:unit_price_cents" json:"unit_price_cents,omitempty"`
	LinePriceCents    *int64     `gorm:"column:line_price_cents" json:"line_price_cents,omitempty"`
	InvoiceVisibility string     `gorm:"column:invoice_visibility;not null;default:'rollup'" json:"invoice_visibility"`

	Status   string     `gorm:"column:status;not null;default:'accepted'" json:"status"`
	VoidedAt *time.Time `gorm:"column:voided_at" json:"voided_at,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (LineItemComponent) TableName() string { return "line_item_component" }
