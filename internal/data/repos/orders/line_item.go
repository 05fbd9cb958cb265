package orders

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/Tombstone73/quotevault-backend/internal/domain"
	"github.com/Tombstone73/quotevault-backend/internal/platform/dbctx"
	"github.com/Tombstone73/quotevault-backend/internal/platform/logger"
)

type OrderLineItemRepo interface {
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.OrderLineItem, error)
	Create(dbc dbctx.Context, rows []*types.OrderLineItem) ([]*types.OrderLineItem, error)
	UpdateSelections(dbc dbctx.Context, id uuid.UUID, selections datatypes.JSON) error
	ReplaceSnapshot(dbc dbctx.Context, id uuid.UUID, snapshot datatypes.JSON, treeVersionID uuid.UUID, signature string, takenAt time.Time) error
	StampStaleAck(dbc dbctx.Context, id uuid.UUID, actor string, at time.Time) error
}

type orderLineItemRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewOrderLineItemRepo(db *gorm.DB, baseLog *logger.Logger) OrderLineItemRepo {
	return &orderLineItemRepo{
		db:  db,
		log: baseLog.With("repo", "OrderLineItemRepo"),
	}
}

func (r *orderLineItemRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.OrderLineItem, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var row types.OrderLineItem
	err := transaction.WithContext(dbc.Ctx).
		Preload("Order").
		Preload("Product").
		Where("id = ?", id).
		Limit(1).
		Find(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *orderLineItemRepo) Create(dbc dbctx.Context, rows []*types.OrderLineItem) ([]*types.OrderLineItem, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(rows) == 0 {
		return []*types.OrderLineItem{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *orderLineItemRepo) UpdateSelections(dbc dbctx.Context, id uuid.UUID, selections datatypes.JSON) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil
	}
	return transaction.WithContext(dbc.Ctx).
		Model(&types.OrderLineItem{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"config_selections": selections,
			"updated_at":        time.Now().UTC(),
		}).Error
}

// ReplaceSnapshot swaps the snapshot wholesale and clears any keep-existing
// acknowledgment, since the new snapshot supersedes the stale one it
// acknowledged.
func (r *orderLineItemRepo) ReplaceSnapshot(dbc dbctx.Context, id uuid.UUID, snapshot datatypes.JSON, treeVersionID uuid.UUID, signature string, takenAt time.Time) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil
	}
	return transaction.WithContext(dbc.Ctx).
		Model(&types.OrderLineItem{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"config_snapshot":          snapshot,
			"snapshot_tree_version_id": treeVersionID,
			"snapshot_signature":       signature,
			"snapshot_taken_at":        takenAt.UTC(),
			"stale_ack_at":             nil,
			"stale_ack_by":             "",
			"updated_at":               time.Now().UTC(),
		}).Error
}

func (r *orderLineItemRepo) StampStaleAck(dbc dbctx.Context, id uuid.UUID, actor string, at time.Time) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil
	}
	return transaction.WithContext(dbc.Ctx).
		Model(&types.OrderLineItem{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"stale_ack_at": at.UTC(),
			"stale_ack_by": actor,
			"updated_at":   time.Now().UTC(),
		}).Error
}
