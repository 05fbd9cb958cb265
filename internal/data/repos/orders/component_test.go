package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Tombstone73/quotevault-backend/internal/data/repos/testutil"
	types "github.com/Tombstone73/quotevault-backend/internal/domain"
	"github.com/Tombstone73/quotevault-backend/internal/platform/dbctx"
)

func componentRow(lineItemID, sourceNodeID uuid.UUID, effectIndex int, title string) *types.LineItemComponent {
	return &types.LineItemComponent{
		ID:                uuid.New(),
		OrderLineItemID:   lineItemID,
		SourceNodeID:      sourceNodeID,
		EffectIndex:       effectIndex,
		Kind:              types.ComponentKindInlineSKU,
		Title:             title,
		Quantity:          4,
		InvoiceVisibility: types.InvoiceVisibilityRollup,
		Status:            types.ComponentStatusAccepted,
	}
}

func TestUpsertAcceptedResolvesConflicts(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewLineItemComponentRepo(db, testutil.Logger(t))

	product := testutil.SeedProduct(t, ctx, tx, "Banner")
	order := testutil.SeedOrder(t, ctx, tx, "retail")
	li := testutil.SeedLineItem(t, ctx, tx, order.ID, product.ID, 3)
	source := uuid.New()

	first := componentRow(li.ID, source, 0, "Grommet")
	if err := repo.UpsertAccepted(dbc, []*types.LineItemComponent{first}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	// Same key, different payload: must update in place, not duplicate.
	second := componentRow(li.ID, source, 0, "Grommet (brass)")
	second.Quantity = 8
	if err := repo.UpsertAccepted(dbc, []*types.LineItemComponent{second}); err != nil {
		t.Fatalf("upsert conflict: %v", err)
	}

	accepted, err := repo.ListAcceptedByLineItem(dbc, li.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(accepted) != 1 {
		t.Fatalf("conflicting upsert must keep one accepted row, got %d", len(accepted))
	}
	if accepted[0].Title != "Grommet (brass)" || accepted[0].Quantity != 8 {
		t.Fatalf("payload not updated: %+v", accepted[0])
	}
}

func TestVoidedRowsDoNotBlockReinsertion(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewLineItemComponentRepo(db, testutil.Logger(t))

	product := testutil.SeedProduct(t, ctx, tx, "Banner")
	order := testutil.SeedOrder(t, ctx, tx, "retail")
	li := testutil.SeedLineItem(t, ctx, tx, order.ID, product.ID, 3)
	source := uuid.New()

	original := componentRow(li.ID, source, 0, "Grommet")
	if err := repo.UpsertAccepted(dbc, []*types.LineItemComponent{original}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := repo.VoidByIDs(dbc, []uuid.UUID{original.ID}, time.Now()); err != nil {
		t.Fatalf("void: %v", err)
	}

	// The partial index only covers ACCEPTED rows, so the key is free again.
	replacement := componentRow(li.ID, source, 0, "Grommet v2")
	if err := repo.UpsertAccepted(dbc, []*types.LineItemComponent{replacement}); err != nil {
		t.Fatalf("reinsert after void: %v", err)
	}

	all, err := repo.ListByLineItem(dbc, li.ID)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("voided history must be retained, got %d rows", len(all))
	}
	accepted, err := repo.ListAcceptedByLineItem(dbc, li.ID)
	if err != nil {
		t.Fatalf("list accepted: %v", err)
	}
	if len(accepted) != 1 || accepted[0].Title != "Grommet v2" {
		t.Fatalf("accepted = %+v", accepted)
	}

	voided, err := repo.GetByID(dbc, original.ID)
	if err != nil {
		t.Fatalf("get voided: %v", err)
	}
	if voided.Status != types.ComponentStatusVoided || voided.VoidedAt == nil {
		t.Fatalf("original row should be voided: %+v", voided)
	}
}

func TestSameEffectIndexDifferentLineItems(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewLineItemComponentRepo(db, testutil.Logger(t))

	product := testutil.SeedProduct(t, ctx, tx, "Banner")
	order := testutil.SeedOrder(t, ctx, tx, "retail")
	liA := testutil.SeedLineItem(t, ctx, tx, order.ID, product.ID, 1)
	liB := testutil.SeedLineItem(t, ctx, tx, order.ID, product.ID, 1)
	source := uuid.New()

	rows := []*types.LineItemComponent{
		componentRow(liA.ID, source, 0, "A"),
		componentRow(liB.ID, source, 0, "B"),
	}
	if err := repo.UpsertAccepted(dbc, rows); err != nil {
		t.Fatalf("the uniqueness key is scoped per line item: %v", err)
	}
}
