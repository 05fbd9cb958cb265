package services

import (
	"context"
	"fmt"
	"strings"
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

// PreviewInput carries ad-hoc evaluation inputs for an authoring or
// storefront preview. Previews may target DRAFT tree versions.
type PreviewInput struct {
	Selections  configurator.Selections
	Quantity    int
	WidthIn     *float64
	HeightIn    *float64
	PricingTier string
}

// StalenessReport compares the stored snapshot signature against the
// signature of the line item's live inputs.
type StalenessReport struct {
	HasSnapshot      bool                   `json:"has_snapshot"`
	Stale            bool                   `json:"stale"`
	StoredSignature  string                 `json:"stored_signature,omitempty"`
	CurrentSignature string                 `json:"current_signature,omitempty"`
	Snapshot         *configurator.Snapshot `json:"snapshot,omitempty"`
	StaleAckAt       *time.Time             `json:"stale_ack_at,omitempty"`
	StaleAckBy       string                 `json:"stale_ack_by,omitempty"`
}

type ConfiguratorService interface {
	Preview(ctx context.Context, treeVersionID uuid.UUID, in PreviewInput) (*configurator.Result, error)
	Recompute(ctx context.Context, lineItemID uuid.UUID, selections configurator.Selections) (*configurator.Snapshot, error)
	Staleness(ctx context.Context, lineItemID uuid.UUID) (*StalenessReport, error)
	KeepExisting(ctx context.Context, lineItemID uuid.UUID, actor string) error
}

type configuratorService struct {
	db        *gorm.DB
	log       *logger.Logger
	products  catalogrepos.ProductRepo
	trees     catalogrepos.OptionTreeRepo
	lineItems orderrepos.OrderLineItemRepo
}

func NewConfiguratorService(
	db *gorm.DB,
	baseLog *logger.Logger,
	products catalogrepos.ProductRepo,
	trees catalogrepos.OptionTreeRepo,
	lineItems orderrepos.OrderLineItemRepo,
) ConfiguratorService {
	return &configuratorService{
		db:        db,
		log:       baseLog.With("service", "ConfiguratorService"),
		products:  products,
		trees:     trees,
		lineItems: lineItems,
	}
}

func (s *configuratorService) Preview(ctx context.Context, treeVersionID uuid.UUID, in PreviewInput) (*configurator.Result, error) {
	if treeVersionID == uuid.Nil {
		return nil, fmt.Errorf("missing tree version id: %w", pkgerrors.ErrInvalidArgument)
	}
	dbc := dbctx.Context{Ctx: ctx}
	version, err := s.trees.GetVersionByID(dbc, treeVersionID)
	if err != nil {
		return nil, err
	}
	if version == nil {
		return nil, fmt.Errorf("option tree version %s: %w", treeVersionID, pkgerrors.ErrNotFound)
	}
	graph, err := s.loadGraph(dbc, version)
	if err != nil {
		return nil, err
	}
	quantity := in.Quantity
	if quantity <= 0 {
		quantity = 1
	}
	env := configurator.BuildEnvironment(quantity, in.WidthIn, in.HeightIn, in.PricingTier)
	sel := in.Selections
	if sel == nil {
		sel = configurator.Selections{}
	}
	return configurator.Evaluate(graph, sel, env)
}

// Recompute re-evaluates against the line item's current geometry,
// quantity and tier, then replaces the snapshot wholesale. It is the only
// code path that writes a snapshot: routine line-item edits never touch it.
func (s *configuratorService) Recompute(ctx context.Context, lineItemID uuid.UUID, selections configurator.Selections) (*configurator.Snapshot, error) {
	dbc := dbctx.Context{Ctx: ctx}
	li, err := s.getLineItem(dbc, lineItemID)
	if err != nil {
		return nil, err
	}

	version, err := resolveTreeVersion(dbc, s.products, s.trees, li.ProductID)
	if err != nil {
		return nil, err
	}
	if version.Status == types.TreeStatusDraft {
		return nil, &configurator.DraftTreeError{TreeVersionID: version.ID}
	}

	sel := selections
	if sel == nil {
		stored, err := configurator.DecodeSelections(li.ConfigSelections)
		if err != nil {
			return nil, err
		}
		sel = stored
	}
	if sel == nil {
		sel = configurator.Selections{}
	}

	graph, err := s.loadGraph(dbc, version)
	if err != nil {
		return nil, err
	}
	env := s.environmentFor(li)
	res, err := configurator.Evaluate(graph, sel, env)
	if err != nil {
		return nil, err
	}

	snap := configurator.NewSnapshot(version.ID, sel, env, res, time.Now())
	encoded, err := snap.Encode()
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txc := dbctx.Context{Ctx: ctx, Tx: tx}
		if selections != nil {
			raw, err := configurator.EncodeSelections(sel)
			if err != nil {
				return err
			}
			if err := s.lineItems.UpdateSelections(txc, li.ID, raw); err != nil {
				return err
			}
		}
		return s.lineItems.ReplaceSnapshot(txc, li.ID, encoded, version.ID, snap.Signature, snap.EvaluatedAt)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("snapshot recomputed",
		"line_item_id", li.ID,
		"tree_version_id", version.ID,
		"signature", snap.Signature,
		"child_items", len(snap.ChildItems))
	return snap, nil
}

func (s *configuratorService) Staleness(ctx context.Context, lineItemID uuid.UUID) (*StalenessReport, error) {
	dbc := dbctx.Context{Ctx: ctx}
	li, err := s.getLineItem(dbc, lineItemID)
	if err != nil {
		return nil, err
	}
	snap, err := configurator.DecodeSnapshot(li.ConfigSnapshot)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return &StalenessReport{HasSnapshot: false}, nil
	}

	currentSig, err := s.currentSignature(dbc, li)
	if err != nil {
		return nil, err
	}
	return &StalenessReport{
		HasSnapshot:      true,
		Stale:            currentSig != snap.Signature,
		StoredSignature:  snap.Signature,
		CurrentSignature: currentSig,
		Snapshot:         snap,
		StaleAckAt:       li.StaleAckAt,
		StaleAckBy:       li.StaleAckBy,
	}, nil
}

// KeepExisting records that a human chose to proceed with a stale
// snapshot. Audit only: the snapshot and its staleness are untouched.
func (s *configuratorService) KeepExisting(ctx context.Context, lineItemID uuid.UUID, actor string) error {
	if strings.TrimSpace(actor) == "" {
		return fmt.Errorf("missing actor: %w", pkgerrors.ErrInvalidArgument)
	}
	dbc := dbctx.Context{Ctx: ctx}
	li, err := s.getLineItem(dbc, lineItemID)
	if err != nil {
		return err
	}
	if len(li.ConfigSnapshot) == 0 {
		return fmt.Errorf("line item %s has no snapshot to keep: %w", lineItemID, pkgerrors.ErrInvalidArgument)
	}
	if err := s.lineItems.StampStaleAck(dbc, li.ID, actor, time.Now()); err != nil {
		return err
	}
	s.log.Info("stale snapshot acknowledged", "line_item_id", li.ID, "actor", actor)
	return nil
}

func (s *configuratorService) getLineItem(dbc dbctx.Context, id uuid.UUID) (*types.OrderLineItem, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("missing line item id: %w", pkgerrors.ErrInvalidArgument)
	}
	li, err := s.lineItems.GetByID(dbc, id)
	if err != nil {
		return nil, err
	}
	if li == nil {
		return nil, fmt.Errorf("line item %s: %w", id, pkgerrors.ErrNotFound)
	}
	return li, nil
}

// resolveTreeVersion honors a product's pinned version when set, and falls
// back to the highest ACTIVE version otherwise. Shared by recompute,
// staleness reporting and component reconciliation so they all agree on
// which graph version is current.
func resolveTreeVersion(dbc dbctx.Context, products catalogrepos.ProductRepo, trees catalogrepos.OptionTreeRepo, productID uuid.UUID) (*types.OptionTreeVersion, error) {
	product, err := products.GetByID(dbc, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("product %s: %w", productID, pkgerrors.ErrNotFound)
	}
	if product.ConfigTreeVersionID != nil {
		version, err := trees.GetVersionByID(dbc, *product.ConfigTreeVersionID)
		if err != nil {
			return nil, err
		}
		if version == nil {
			return nil, fmt.Errorf("pinned option tree version %s: %w", *product.ConfigTreeVersionID, pkgerrors.ErrNotFound)
		}
		return version, nil
	}
	version, err := trees.GetLatestActiveByProduct(dbc, product.ID)
	if err != nil {
		return nil, err
	}
	if version == nil {
		return nil, fmt.Errorf("product %s has no active option tree: %w", product.ID, pkgerrors.ErrNotFound)
	}
	return version, nil
}

func (s *configuratorService) loadGraph(dbc dbctx.Context, version *types.OptionTreeVersion) (*configurator.Graph, error) {
	nodes, err := s.trees.ListNodesByVersion(dbc, version.ID)
	if err != nil {
		return nil, err
	}
	edges, err := s.trees.ListEdgesByVersion(dbc, version.ID)
	if err != nil {
		return nil, err
	}
	return configurator.NewGraph(version, nodes, edges)
}

func (s *configuratorService) environmentFor(li *types.OrderLineItem) configurator.Environment {
	tier := ""
	if li.Order != nil {
		tier = li.Order.PricingTier
	}
	quantity := li.Quantity
	if quantity <= 0 {
		quantity = 1
	}
	return configurator.BuildEnvironment(quantity, li.WidthIn, li.HeightIn, tier)
}

// currentSignature fingerprints the line item's live inputs against the
// product's currently resolved tree version.
func (s *configuratorService) currentSignature(dbc dbctx.Context, li *types.OrderLineItem) (string, error) {
	version, err := resolveTreeVersion(dbc, s.products, s.trees, li.ProductID)
	if err != nil {
		return "", err
	}
	sel, err := configurator.DecodeSelections(li.ConfigSelections)
	if err != nil {
		return "", err
	}
	if sel == nil {
		sel = configurator.Selections{}
	}
	return configurator.Signature(version.ID, sel, s.environmentFor(li)), nil
}
