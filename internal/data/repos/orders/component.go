package orders

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/Tombstone73/quotevault-backend/internal/domain"
	"github.com/Tombstone73/quotevault-backend/internal/platform/dbctx"
	"github.com/Tombstone73/quotevault-backend/internal/platform/logger"
)

type LineItemComponentRepo interface {
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.LineItemComponent, error)
	ListByLineItem(dbc dbctx.Context, lineItemID uuid.UUID) ([]*types.LineItemComponent, error)
	ListAcceptedByLineItem(dbc dbctx.Context, lineItemID uuid.UUID) ([]*types.LineItemComponent, error)
	UpsertAccepted(dbc dbctx.Context, rows []*types.LineItemComponent) error
	VoidByIDs(dbc dbctx.Context, ids []uuid.UUID, at time.Time) error
}

type lineItemComponentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLineItemComponentRepo(db *gorm.DB, baseLog *logger.Logger) LineItemComponentRepo {
	return &lineItemComponentRepo{
		db:  db,
		log: baseLog.With("repo", "LineItemComponentRepo"),
	}
}

func (r *lineItemComponentRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.LineItemComponent, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var row types.LineItemComponent
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

func (r *lineItemComponentRepo) ListByLineItem(dbc dbctx.Context, lineItemID uuid.UUID) ([]*types.LineItemComponent, error) {
	return r.list(dbc, lineItemID, "")
}

func (r *lineItemComponentRepo) ListAcceptedByLineItem(dbc dbctx.Context, lineItemID uuid.UUID) ([]*types.LineItemComponent, error) {
	return r.list(dbc, lineItemID, types.ComponentStatusAccepted)
}

func (r *lineItemComponentRepo) list(dbc dbctx.Context, lineItemID uuid.UUID, status string) ([]*types.LineItemComponent, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.LineItemComponent
	if lineItemID == uuid.Nil {
		return out, nil
	}
	q := transaction.WithContext(dbc.Ctx).
		Where("order_line_item_id = ?", lineItemID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.
		Order("source_node_id ASC, effect_index ASC, created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// UpsertAccepted inserts rows with status ACCEPTED, resolving conflicts on
// the partial unique index (order_line_item_id, source_node_id,
// effect_index) WHERE status='accepted' by updating the payload in place.
// A concurrent apply on the same line item therefore cannot produce two
// ACCEPTED rows for one key: this is a single conflict-resolving write,
// not read-then-write.
func (r *lineItemComponentRepo) UpsertAccepted(dbc dbctx.Context, rows []*types.LineItemComponent) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(rows) == 0 {
		return nil
	}
	now := time.Now().UTC()
	for _, row := range rows {
		if row.ID == uuid.Nil {
			row.ID = uuid.New()
		}
		row.Status = types.ComponentStatusAccepted
		row.VoidedAt = nil
		row.UpdatedAt = now
	}
	return transaction.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "order_line_item_id"},
				{Name: "source_node_id"},
				{Name: "effect_index"},
			},
			TargetWhere: clause.Where{Exprs: []clause.Expression{
				clause.Expr{SQL: "status = ? AND deleted_at IS NULL", Vars: []interface{}{types.ComponentStatusAccepted}},
			}},
			DoUpdates: clause.AssignmentColumns([]string{
				"kind", "title", "sku_ref", "child_product_id",
				"quantity", "unit_price_cents", "line_price_cents",
				"invoice_visibility", "updated_at",
			}),
		}).
		Create(&rows).Error
}

func (r *lineItemComponentRepo) VoidByIDs(dbc dbctx.Context, ids []uuid.UUID, at time.Time) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(ids) == 0 {
		return nil
	}
	return transaction.WithContext(dbc.Ctx).
		Model(&types.LineItemComponent{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{
			"status":     types.ComponentStatusVoided,
			"voided_at":  at.UTC(),
			"updated_at": at.UTC(),
		}).Error
}

// IsUniqueViolation reports whether err is a Postgres unique constraint
// violation, so callers can surface concurrent-apply races as conflicts.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
