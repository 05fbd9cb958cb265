package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/Tombstone73/quotevault-backend/internal/domain"
)

func SeedProduct(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *types.Product {
	tb.Helper()
	p := &types.Product{
		ID:             uuid.New(),
		Name:           name,
		SKU:            fmt.Sprintf("sku-%s", uuid.NewString()[:8]),
		BasePriceCents: 10_00,
		Active:         true,
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed product: %v", err)
	}
	return p
}

func SeedTreeVersion(tb testing.TB, ctx context.Context, tx *gorm.DB, productID uuid.UUID, version int, status string) *types.OptionTreeVersion {
	tb.Helper()
	v := &types.OptionTreeVersion{
		ID:        uuid.New(),
		ProductID: productID,
		Version:   version,
		Status:    status,
		Label:     fmt.Sprintf("v%d", version),
	}
	if err := tx.WithContext(ctx).Create(v).Error; err != nil {
		tb.Fatalf("seed tree version: %v", err)
	}
	return v
}

func SeedNode(tb testing.TB, ctx context.Context, tx *gorm.DB, versionID uuid.UUID, kind, key, inputType string) *types.OptionNode {
	tb.Helper()
	n := &types.OptionNode{
		ID:            uuid.New(),
		TreeVersionID: versionID,
		Kind:          kind,
		Key:           key,
		Label:         key,
		InputType:     inputType,
		Status:        types.GraphStatusEnabled,
	}
	if err := tx.WithContext(ctx).Create(n).Error; err != nil {
		tb.Fatalf("seed node: %v", err)
	}
	return n
}

func SeedEdge(tb testing.TB, ctx context.Context, tx *gorm.DB, versionID, fromID, toID uuid.UUID, condition datatypes.JSON) *types.OptionEdge {
	tb.Helper()
	e := &types.OptionEdge{
		ID:            uuid.New(),
		TreeVersionID: versionID,
		FromNodeID:    fromID,
		ToNodeID:      toID,
		Condition:     condition,
		Status:        types.GraphStatusEnabled,
	}
	if err := tx.WithContext(ctx).Create(e).Error; err != nil {
		tb.Fatalf("seed edge: %v", err)
	}
	return e
}

func SeedOrder(tb testing.TB, ctx context.Context, tx *gorm.DB, tier string) *types.Order {
	tb.Helper()
	o := &types.Order{
		ID:          uuid.New(),
		Number:      fmt.Sprintf("Q-%s", uuid.NewString()[:8]),
		PricingTier: tier,
		Status:      types.OrderStatusDraft,
	}
	if err := tx.WithContext(ctx).Create(o).Error; err != nil {
		tb.Fatalf("seed order: %v", err)
	}
	return o
}

func SeedLineItem(tb testing.TB, ctx context.Context, tx *gorm.DB, orderID, productID uuid.UUID, quantity int) *types.OrderLineItem {
	tb.Helper()
	li := &types.OrderLineItem{
		ID:        uuid.New(),
		OrderID:   orderID,
		ProductID: productID,
		Quantity:  quantity,
	}
	if err := tx.WithContext(ctx).Create(li).Error; err != nil {
		tb.Fatalf("seed line item: %v", err)
	}
	return li
}
