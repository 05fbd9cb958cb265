package catalog

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/Tombstone73/quotevault-backend/internal/domain"
	"github.com/Tombstone73/quotevault-backend/internal/platform/dbctx"
	"github.com/Tombstone73/quotevault-backend/internal/platform/logger"
)

type OptionTreeRepo interface {
	GetVersionByID(dbc dbctx.Context, id uuid.UUID) (*types.OptionTreeVersion, error)
	GetLatestActiveByProduct(dbc dbctx.Context, productID uuid.UUID) (*types.OptionTreeVersion, error)
	ListNodesByVersion(dbc dbctx.Context, versionID uuid.UUID) ([]*types.OptionNode, error)
	ListEdgesByVersion(dbc dbctx.Context, versionID uuid.UUID) ([]*types.OptionEdge, error)
	CreateVersion(dbc dbctx.Context, row *types.OptionTreeVersion) error
	CreateNodes(dbc dbctx.Context, rows []*types.OptionNode) error
	CreateEdges(dbc dbctx.Context, rows []*types.OptionEdge) error
}

type optionTreeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewOptionTreeRepo(db *gorm.DB, baseLog *logger.Logger) OptionTreeRepo {
	return &optionTreeRepo{
		db:  db,
		log: baseLog.With("repo", "OptionTreeRepo"),
	}
}

func (r *optionTreeRepo) GetVersionByID(dbc dbctx.Context, id uuid.UUID) (*types.OptionTreeVersion, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var row types.OptionTreeVersion
	err := transaction.WithContext(dbc.Ctx).
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

func (r *optionTreeRepo) GetLatestActiveByProduct(dbc dbctx.Context, productID uuid.UUID) (*types.OptionTreeVersion, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if productID == uuid.Nil {
		return nil, nil
	}
	var row types.OptionTreeVersion
	err := transaction.WithContext(dbc.Ctx).
		Where("product_id = ? AND status = ?", productID, types.TreeStatusActive).
		Order("version DESC").
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

// ListNodesByVersion returns every node row of the version, including
// disabled and soft-deleted ones; the engine filters by status itself.
func (r *optionTreeRepo) ListNodesByVersion(dbc dbctx.Context, versionID uuid.UUID) ([]*types.OptionNode, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.OptionNode
	if versionID == uuid.Nil {
		return out, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Where("tree_version_id = ?", versionID).
		Order("sort_order ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *optionTreeRepo) ListEdgesByVersion(dbc dbctx.Context, versionID uuid.UUID) ([]*types.OptionEdge, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.OptionEdge
	if versionID == uuid.Nil {
		return out, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Where("tree_version_id = ?", versionID).
		Order("priority ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *optionTreeRepo) CreateVersion(dbc dbctx.Context, row *types.OptionTreeVersion) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx).Create(row).Error
}

func (r *optionTreeRepo) CreateNodes(dbc dbctx.Context, rows []*types.OptionNode) error {
	if len(rows) == 0 {
		return nil
	}
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx).Create(&rows).Error
}

func (r *optionTreeRepo) CreateEdges(dbc dbctx.Context, rows []*types.OptionEdge) error {
	if len(rows) == 0 {
		return nil
	}
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx).Create(&rows).Error
}
