package catalog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Option tree version lifecycle. Only non-draft versions may be used to
// price or accept components against a persisted order line.
const (
	TreeStatusDraft    = "draft"
	TreeStatusActive   = "active"
	TreeStatusArchived = "archived"
)

const (
	NodeKindQuestion = "question"
	NodeKindGroup    = "group"
	NodeKindComputed = "computed"
)

const (
	InputTypeBoolean     = "boolean"
	InputTypeSelect      = "select"
	InputTypeMultiselect = "multiselect"
	InputTypeNumber      = "number"
	InputTypeText        = "text"
	InputTypeTextarea    = "textarea"
	InputTypeFile        = "file"
	InputTypeDimension   = "dimension"
)

// Soft-delete status shared by nodes and edges. Deleted rows are retained
// for audit; traversal must filter by status, never assume absence.
const (
	GraphStatusEnabled  = "enabled"
	GraphStatusDisabled = "disabled"
	GraphStatusDeleted  = "deleted"
)

type OptionTreeVersion struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ProductID   uuid.UUID  `gorm:"type:uuid;not null;index:idx_tree_product_version,unique" json:"product_id"`
	Product     *Product   `gorm:"constraint:OnDelete:CASCADE;foreignKey:ProductID;references:ID" json:"product,omitempty"`
	Version     int        `gorm:"column:version;not null;index:idx_tree_product_version,unique" json:"version"`
	Status      string     `gorm:"column:status;not null;default:'draft'" json:"status"`
	Label       string     `gorm:"column:label" json:"label,omitempty"`
	PublishedAt *time.Time `gorm:"column:published_at" json:"published_at,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (OptionTreeVersion) TableName() string { return "option_tree_version" }

type OptionNode struct {
	ID            uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
	TreeVersionID uuid.UUID          `gorm:"type:uuid;not null;index" json:"tree_version_id"`
	TreeVersion   *OptionTreeVersion `gorm:"constraint:OnDelete:CASCADE;foreignKey:TreeVersionID;references:ID" json:"tree_version,omitempty"`
	Kind          string             `gorm:"column:kind;not null" json:"kind"`
	Key           string             `gorm:"column:key;not null" json:"key"`
	Label         string             `gorm:"column:label" json:"label,omitempty"`
	InputType     string             `gorm:"column:input_type" json:"input_type,omitempty"`
	Required      bool               `gorm:"column:required;not null;default:false" json:"required"`
	SortOrder     int                `gorm:"column:sort_order;not null;default:0" json:"sort_order"`
	Status        string             `gorm:"column:status;not null;default:'enabled'" json:"status"`

	DefaultValue     datatypes.JSON `gorm:"type:jsonb;column:default_value" json:"default_value,omitempty"`
	Constraints      datatypes.JSON `gorm:"type:jsonb;column:constraints" json:"constraints,omitempty"`
	Choices          datatypes.JSON `gorm:"type:jsonb;column:choices" json:"choices,omitempty"`
	PricingImpact    datatypes.JSON `gorm:"type:jsonb;column:pricing_impact" json:"pricing_impact,omitempty"`
	MaterialEffects  datatypes.JSON `gorm:"type:jsonb;column:material_effects" json:"material_effects,omitempty"`
	ChildItemEffects datatypes.JSON `gorm:"type:jsonb;column:child_item_effects" json:"child_item_effects,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (OptionNode) TableName() string { return "option_node" }

type OptionEdge struct {
	ID            uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
	TreeVersionID uuid.UUID          `gorm:"type:uuid;not null;index" json:"tree_version_id"`
	TreeVersion   *OptionTreeVersion `gorm:"constraint:OnDelete:CASCADE;foreignKey:TreeVersionID;references:ID" json:"tree_version,omitempty"`
	FromNodeID    uuid.UUID          `gorm:"type:uuid;not null;index" json:"from_node_id"`
	ToNodeID      uuid.UUID          `gorm:"type:uuid;not null;index" json:"to_node_id"`
	Condition     datatypes.JSON     `gorm:"type:jsonb;column:condition" json:"condition,omitempty"`
	Priority      int                `gorm:"column:priority;not null;default:0" json:"priority"`
	Status        string             `gorm:"column:status;not null;default:'enabled'" json:"status"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (OptionEdge) TableName() string { return "option_edge" }
