package orders

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Tombstone73/quotevault-backend/internal/domain/catalog"
)

type OrderLineItem struct {
	ID        uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID   uuid.UUID        `gorm:"type:uuid;not null;index" json:"order_id"`
	Order     *Order           `gorm:"constraint:OnDelete:CASCADE;foreignKey:OrderID;references:ID" json:"order,omitempty"`
	ProductID uuid.UUID        `gorm:"type:uuid;not null;index" json:"product_id"`
	Product   *catalog.Product `gorm:"foreignKey:ProductID;references:ID" json:"product,omitempty"`

	Description string   `gorm:"column:description" json:"description,omitempty"`
	Quantity    int      `gorm:"column:quantity;not null;default:1" json:"quantity"`
	WidthIn     *float64 `gorm:"column:width_in" json:"width_in,omitempty"`
	HeightIn    *float64 `gorm:"column:height_in" json:"height_in,omitempty"`

	UnitPriceCents  int64 `gorm:"column:unit_price_cents;not null;default:0" json:"unit_price_cents"`
	TotalPriceCents int64 `gorm:"column:total_price_cents;not null;default:0" json:"total_price_cents"`

	// ConfigSelections is the customer's current explicit selections,
	// owned by the caller and stored independently of the snapshot so
	// staleness can be judged against live inputs.
	ConfigSelections datatypes.JSON `gorm:"type:jsonb;column:config_selections" json:"config_selections,omitempty"`

	// ConfigSnapshot is the frozen evaluation result. Replaced wholesale
	// on recompute, never partially mutated.
	ConfigSnapshot        datatypes.JSON `gorm:"type:jsonb;column:config_snapshot" json:"config_snapshot,omitempty"`
	SnapshotTreeVersionID *uuid.UUID     `gorm:"type:uuid;column:snapshot_tree_version_id" json:"snapshot_tree_version_id,omitempty"`
	SnapshotSignature     string         `gorm:"column:snapshot_signature;index" json:"snapshot_signature,omitempty"`
	SnapshotTakenAt       *time.Time     `gorm:"column:snapshot_taken_at" json:"snapshot_taken_at,omitempty"`

	// Keep-existing acknowledgment: records that a human chose to proceed
	// with a stale snapshot. Does not clear staleness.
	StaleAckAt *time.Time `gorm:"column:stale_ack_at" json:"stale_ack_at,omitempty"`
	StaleAckBy string     `gorm:"column:stale_ack_by" json:"stale_ack_by,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (OrderLineItem) TableName() string { return "order_line_item" }
