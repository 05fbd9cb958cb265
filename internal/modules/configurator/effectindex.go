package configurator

import "github.com/google/uuid"

// AssignFallbackIndexes backfills effect indexes for proposals written
// before explicit indexing existed. Proposals that already carry an index
// pass through unchanged; the rest get 0-based ordinals per source node in
// input order, which the evaluator guarantees is stable. Returns a new
// slice; the input is never mutated, so evaluator output stays
// reproducible.
func AssignFallbackIndexes(proposals []ChildItemProposal) []ChildItemProposal {
	out := make([]ChildItemProposal, len(proposals))
	next := make(map[uuid.UUID]int)

	// Explicit indexes reserve their ordinals first so a mixed list cannot
	// collide a backfilled key with an explicit one.
	for _, p := range proposals {
		if p.EffectIndex == nil {
			continue
		}
		if *p.EffectIndex >= next[p.SourceNodeID] {
			next[p.SourceNodeID] = *p.EffectIndex + 1
		}
	}

	for i, p := range proposals {
		out[i] = p
		if p.EffectIndex != nil {
			continue
		}
		idx := next[p.SourceNodeID]
		next[p.SourceNodeID] = idx + 1
		out[i].EffectIndex = &idx
	}
	return out
}
