package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	catalogrepos "github.com/Tombstone73/quotevault-backend/internal/data/repos/catalog"
	orderrepos "github.com/Tombstone73/quotevault-backend/internal/data/repos/orders"
	types "github.com/Tombstone73/quotevault-backend/internal/domain"
	"github.com/Tombstone73/quotevault-backend/internal/modules/configurator"
	pkgerrors "github.com/Tombstone73/quotevault-backend/internal/pkg/errors"
	"github.com/Tombstone73/quotevault-backend/internal/platform/dbctx"
	"github.com/Tombstone73/quotevault-backend/internal/platform/logger"
)

// ApplyResult summarizes one reconciliation pass. Accepted is the full
// ACCEPTED set after the pass, not just the rows this pass touched.
type ApplyResult struct {
	Added    int                        `json:"added"`
	Removed  int                        `json:"removed"`
	Modified int                        `json:"modified"`
	Accepted []*types.LineItemComponent `json:"accepted"`
}

type ComponentService interface {
	Apply(ctx context.Context, lineItemID uuid.UUID) (*ApplyResult, error)
	AcceptAll(ctx context.Context, lineItemID uuid.UUID) (*ApplyResult, error)
	Void(ctx context.Context, componentID uuid.UUID) (*types.LineItemComponent, error)
	List(ctx context.Context, lineItemID uuid.UUID, acceptedOnly bool) ([]*types.LineItemComponent, error)
}

type componentService struct {
	db         *gorm.DB
	log        *logger.Logger
	products   catalogrepos.ProductRepo
	trees      catalogrepos.OptionTreeRepo
	lineItems  orderrepos.OrderLineItemRepo
	components orderrepos.LineItemComponentRepo
	notifier   AuditNotifier
}

func NewComponentService(
	db *gorm.DB,
	baseLog *logger.Logger,
	products catalogrepos.ProductRepo,
	trees catalogrepos.OptionTreeRepo,
	lineItems orderrepos.OrderLineItemRepo,
	components orderrepos.LineItemComponentRepo,
	notifier AuditNotifier,
) ComponentService {
	if notifier == nil {
		notifier = NewNopAuditNotifier()
	}
	return &componentService{
		db:         db,
		log:        baseLog.With("service", "ComponentService"),
		products:   products,
		trees:      trees,
		lineItems:  lineItems,
		components: components,
		notifier:   notifier,
	}
}

// reconcileState is the validated input to one reconciliation pass.
type reconcileState struct {
	lineItem  *types.OrderLineItem
	snapshot  *configurator.Snapshot
	proposals []configurator.ChildItemProposal
	accepted  []*types.LineItemComponent
}

// Apply reconciles the ACCEPTED component rows of a line item against its
// snapshot's child-item proposals. Unchanged rows are never rewritten;
// modified rows are voided and re-inserted so history survives. An empty
// diff performs no writes at all.
func (s *componentService) Apply(ctx context.Context, lineItemID uuid.UUID) (*ApplyResult, error) {
	dbc := dbctx.Context{Ctx: ctx}
	st, err := s.prepare(dbc, lineItemID)
	if err != nil {
		return nil, err
	}

	diff, err := configurator.DiffComponents(st.proposals, st.accepted)
	if err != nil {
		return nil, err
	}
	if diff.Empty() {
		return &ApplyResult{Accepted: st.accepted}, nil
	}

	voidIDs := make([]uuid.UUID, 0, len(diff.Removed)+len(diff.Modified))
	for _, row := range diff.Removed {
		voidIDs = append(voidIDs, row.ID)
	}
	for _, m := range diff.Modified {
		voidIDs = append(voidIDs, m.Existing.ID)
	}
	inserts := make([]*types.LineItemComponent, 0, len(diff.Added)+len(diff.Modified))
	for _, p := range diff.Added {
		inserts = append(inserts, componentRow(st.lineItem.ID, p))
	}
	for _, m := range diff.Modified {
		inserts = append(inserts, componentRow(st.lineItem.ID, m.Proposal))
	}

	now := time.Now()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txc := dbctx.Context{Ctx: ctx, Tx: tx}
		if err := s.components.VoidByIDs(txc, voidIDs, now); err != nil {
			return err
		}
		return s.components.UpsertAccepted(txc, inserts)
	})
	if err != nil {
		if orderrepos.IsUniqueViolation(err) {
			return nil, fmt.Errorf("concurrent component apply on line item %s: %w", st.lineItem.ID, pkgerrors.ErrConflict)
		}
		return nil, err
	}

	accepted, err := s.components.ListAcceptedByLineItem(dbc, st.lineItem.ID)
	if err != nil {
		return nil, err
	}

	res := &ApplyResult{
		Added:    len(diff.Added),
		Removed:  len(diff.Removed),
		Modified: len(diff.Modified),
		Accepted: accepted,
	}
	s.log.Info("components reconciled",
		"line_item_id", st.lineItem.ID,
		"added", res.Added,
		"removed", res.Removed,
		"modified", res.Modified)
	s.notifier.ComponentsReconciled(ctx, ComponentAuditEvent{
		LineItemID:    st.lineItem.ID,
		TreeVersionID: st.snapshot.TreeVersionID,
		Added:         res.Added,
		Removed:       res.Removed,
		Modified:      res.Modified,
		At:            now,
	})
	return res, nil
}

// AcceptAll is the accept-only variant: it inserts or updates rows for the
// snapshot's proposals and never voids anything, so components accepted
// outside the current snapshot survive.
func (s *componentService) AcceptAll(ctx context.Context, lineItemID uuid.UUID) (*ApplyResult, error) {
	dbc := dbctx.Context{Ctx: ctx}
	st, err := s.prepare(dbc, lineItemID)
	if err != nil {
		return nil, err
	}

	diff, err := configurator.DiffComponents(st.proposals, st.accepted)
	if err != nil {
		return nil, err
	}
	if len(diff.Added) == 0 && len(diff.Modified) == 0 {
		return &ApplyResult{Accepted: st.accepted}, nil
	}

	inserts := make([]*types.LineItemComponent, 0, len(diff.Added)+len(diff.Modified))
	for _, p := range diff.Added {
		inserts = append(inserts, componentRow(st.lineItem.ID, p))
	}
	for _, m := range diff.Modified {
		inserts = append(inserts, componentRow(st.lineItem.ID, m.Proposal))
	}

	if err := s.components.UpsertAccepted(dbc, inserts); err != nil {
		if orderrepos.IsUniqueViolation(err) {
			return nil, fmt.Errorf("concurrent component accept on line item %s: %w", st.lineItem.ID, pkgerrors.ErrConflict)
		}
		return nil, err
	}

	accepted, err := s.components.ListAcceptedByLineItem(dbc, st.lineItem.ID)
	if err != nil {
		return nil, err
	}
	res := &ApplyResult{
		Added:    len(diff.Added),
		Modified: len(diff.Modified),
		Accepted: accepted,
	}
	s.log.Info("components accepted",
		"line_item_id", st.lineItem.ID,
		"added", res.Added,
		"modified", res.Modified)
	return res, nil
}

func (s *componentService) Void(ctx context.Context, componentID uuid.UUID) (*types.LineItemComponent, error) {
	if componentID == uuid.Nil {
		return nil, fmt.Errorf("missing component id: %w", pkgerrors.ErrInvalidArgument)
	}
	dbc := dbctx.Context{Ctx: ctx}
	row, err := s.components.GetByID(dbc, componentID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, fmt.Errorf("component %s: %w", componentID, pkgerrors.ErrNotFound)
	}
	if row.Status == types.ComponentStatusVoided {
		return row, nil
	}
	if err := s.components.VoidByIDs(dbc, []uuid.UUID{row.ID}, time.Now()); err != nil {
		return nil, err
	}
	updated, err := s.components.GetByID(dbc, row.ID)
	if err != nil {
		return nil, err
	}
	s.log.Info("component voided", "component_id", row.ID, "line_item_id", row.OrderLineItemID)
	return updated, nil
}

func (s *componentService) List(ctx context.Context, lineItemID uuid.UUID, acceptedOnly bool) ([]*types.LineItemComponent, error) {
	if lineItemID == uuid.Nil {
		return nil, fmt.Errorf("missing line item id: %w", pkgerrors.ErrInvalidArgument)
	}
	dbc := dbctx.Context{Ctx: ctx}
	if acceptedOnly {
		return s.components.ListAcceptedByLineItem(dbc, lineItemID)
	}
	return s.components.ListByLineItem(dbc, lineItemID)
}

// prepare loads the line item, checks every reconciliation precondition
// (snapshot present and complete, tree version not DRAFT, snapshot not
// stale), and assigns fallback effect indexes to the proposals.
func (s *componentService) prepare(dbc dbctx.Context, lineItemID uuid.UUID) (*reconcileState, error) {
	if lineItemID == uuid.Nil {
		return nil, fmt.Errorf("missing line item id: %w", pkgerrors.ErrInvalidArgument)
	}
	li, err := s.lineItems.GetByID(dbc, lineItemID)
	if err != nil {
		return nil, err
	}
	if li == nil {
		return nil, fmt.Errorf("line item %s: %w", lineItemID, pkgerrors.ErrNotFound)
	}

	snap, err := configurator.DecodeSnapshot(li.ConfigSnapshot)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, fmt.Errorf("line item %s has no configuration snapshot: %w", li.ID, pkgerrors.ErrNotFound)
	}
	if !snap.Complete() {
		return nil, fmt.Errorf("line item %s snapshot predates child-item support, recompute first: %w", li.ID, pkgerrors.ErrInvalidArgument)
	}

	version, err := resolveTreeVersion(dbc, s.products, s.trees, li.ProductID)
	if err != nil {
		return nil, err
	}
	if version.Status == types.TreeStatusDraft {
		return nil, &configurator.DraftTreeError{TreeVersionID: version.ID}
	}

	// The snapshot must still describe the line item's live inputs against
	// the currently resolved tree version. Publishing a newer active
	// version shifts the signature just like an input edit, so a snapshot
	// taken against a superseded version is rejected here too.
	liveSel, err := configurator.DecodeSelections(li.ConfigSelections)
	if err != nil {
		return nil, err
	}
	if liveSel == nil {
		liveSel = configurator.Selections{}
	}
	tier := ""
	if li.Order != nil {
		tier = li.Order.PricingTier
	}
	quantity := li.Quantity
	if quantity <= 0 {
		quantity = 1
	}
	env := configurator.BuildEnvironment(quantity, li.WidthIn, li.HeightIn, tier)
	currentSig := configurator.Signature(version.ID, liveSel, env)
	if currentSig != snap.Signature {
		return nil, &configurator.StalenessError{
			StoredSignature:  snap.Signature,
			CurrentSignature: currentSig,
		}
	}

	proposals := configurator.AssignFallbackIndexes(snap.ChildItems)
	accepted, err := s.components.ListAcceptedByLineItem(dbc, li.ID)
	if err != nil {
		return nil, err
	}
	return &reconcileState{
		lineItem:  li,
		snapshot:  snap,
		proposals: proposals,
		accepted:  accepted,
	}, nil
}

func componentRow(lineItemID uuid.UUID, p configurator.ChildItemProposal) *types.LineItemComponent {
	return &types.LineItemComponent{
		ID:                uuid.New(),
		OrderLineItemID:   lineItemID,
		SourceNodeID:      p.SourceNodeID,
		EffectIndex:       *p.EffectIndex,
		Kind:              p.Kind,
		Title:             p.Title,
		SKURef:            p.SKURef,
		ChildProductID:    p.ChildProductID,
		Quantity:          p.Qty,
		UnitPriceCents:    p.UnitPriceCents,
		LinePriceCents:    p.LinePriceCents,
		InvoiceVisibility: p.InvoiceVisibility,
		Status:            types.ComponentStatusAccepted,
	}
}
