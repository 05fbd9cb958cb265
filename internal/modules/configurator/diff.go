package configurator

import (
	"github.com/google/uuid"

	types "github.com/Tombstone73/quotevault-backend/internal/domain"
)

// ModifiedComponent pairs a fresh proposal with the accepted row it
// supersedes.
type ModifiedComponent struct {
	Proposal ChildItemProposal
	Existing *types.LineItemComponent
}

// Diff is the keyed comparison of snapshot proposals against currently
// accepted components.
type Diff struct {
	Added     []ChildItemProposal
	Modified  []ModifiedComponent
	Removed   []*types.LineItemComponent
	Unchanged []*types.LineItemComponent
}

func (d Diff) Empty() bool {
	return len(d.Added) == 0 && len(d.Modified) == 0 && len(d.Removed) == 0
}

// DiffComponents diffs proposals against accepted rows by
// (sourceNodeId, effectIndex). Proposals must have indexes assigned (run
// AssignFallbackIndexes first); a nil index here is a programming error
// reported as an EvaluationError rather than a panic.
func DiffComponents(proposals []ChildItemProposal, accepted []*types.LineItemComponent) (Diff, error) {
	var diff Diff

	current := make(map[ComponentKey]*types.LineItemComponent, len(accepted))
	for _, row := range accepted {
		current[ComponentKey{SourceNodeID: row.SourceNodeID, EffectIndex: row.EffectIndex}] = row
	}

	seen := make(map[ComponentKey]bool, len(proposals))
	for _, p := range proposals {
		if p.EffectIndex == nil {
			return Diff{}, evaluationErrorf("proposal from node %s has no effect index", p.SourceNodeID)
		}
		key := ComponentKey{SourceNodeID: p.SourceNodeID, EffectIndex: *p.EffectIndex}
		if seen[key] {
			return Diff{}, evaluationErrorf("duplicate proposal key (%s, %d)", key.SourceNodeID, key.EffectIndex)
		}
		seen[key] = true

		row, ok := current[key]
		if !ok {
			diff.Added = append(diff.Added, p)
			continue
		}
		if payloadEqual(p, row) {
			diff.Unchanged = append(diff.Unchanged, row)
		} else {
			diff.Modified = append(diff.Modified, ModifiedComponent{Proposal: p, Existing: row})
		}
	}

	for _, row := range accepted {
		key := ComponentKey{SourceNodeID: row.SourceNodeID, EffectIndex: row.EffectIndex}
		if !seen[key] {
			diff.Removed = append(diff.Removed, row)
		}
	}
	return diff, nil
}

// payloadEqual compares the billable payload: kind, title, sku/product
// reference, quantity, prices and visibility. Identity and lifecycle
// columns are excluded.
func payloadEqual(p ChildItemProposal, row *types.LineItemComponent) bool {
	if p.Kind != row.Kind || p.Title != row.Title || p.SKURef != row.SKURef {
		return false
	}
	if !uuidPtrEqual(p.ChildProductID, row.ChildProductID) {
		return false
	}
	if p.Qty != row.Quantity {
		return false
	}
	if !int64PtrEqual(p.UnitPriceCents, row.UnitPriceCents) {
		return false
	}
	if !int64PtrEqual(p.LinePriceCents, row.LinePriceCents) {
		return false
	}
	return p.InvoiceVisibility == row.InvoiceVisibility
}

func uuidPtrEqual(a, b *uuid.UUID) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	return a == nil || *a == *b
}

func int64PtrEqual(a, b *int64) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	return a == nil || *a == *b
}
