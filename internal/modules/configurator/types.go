package configurator

import (
	"math"

	"github.com/google/uuid"
)

// Selections maps node id (uuid string) to the customer's chosen value.
// Value shapes follow the node's input type: bool, string, []string (as
// []any after JSON decode) or float64.
type Selections map[string]any

func (s Selections) value(id uuid.UUID) (any, bool) {
	if s == nil {
		return nil, false
	}
	v, ok := s[id.String()]
	return v, ok
}

// Environment carries the contextual scalars effects may reference.
// Quantity is always present; geometry-derived fields are set only when
// both width and height are known.
type Environment struct {
	Quantity    int      `json:"quantity"`
	WidthIn     *float64 `json:"widthIn,omitempty"`
	HeightIn    *float64 `json:"heightIn,omitempty"`
	AreaSqin    *float64 `json:"areaSqin,omitempty"`
	AreaSqft    *float64 `json:"areaSqft,omitempty"`
	PerimeterIn *float64 `json:"perimeterIn,omitempty"`
	PricingTier string   `json:"pricingTier,omitempty"`
}

// BuildEnvironment derives area and perimeter when both dimensions are
// present and finite.
func BuildEnvironment(quantity int, widthIn, heightIn *float64, pricingTier string) Environment {
	env := Environment{
		Quantity:    quantity,
		WidthIn:     widthIn,
		HeightIn:    heightIn,
		PricingTier: pricingTier,
	}
	if widthIn == nil || heightIn == nil {
		return env
	}
	w, h := *widthIn, *heightIn
	if !isFinite(w) || !isFinite(h) {
		return env
	}
	areaSqin := w * h
	areaSqft := areaSqin / 144.0
	perimeter := 2 * (w + h)
	env.AreaSqin = &areaSqin
	env.AreaSqft = &areaSqft
	env.PerimeterIn = &perimeter
	return env
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Pricing is the reduced pricing output. Flat/per-qty/per-area effects are
// summed into AddOnCents; percent and multiplier effects are recorded for
// the caller to apply against its base price, never folded into cents here.
type Pricing struct {
	AddOnCents    int64     `json:"addOnCents"`
	PercentOfBase []float64 `json:"percentOfBase,omitempty"`
	Multipliers   []float64 `json:"multipliers,omitempty"`
}

// MaterialTotal is an accumulated weight contribution per material name.
type MaterialTotal struct {
	Name     string  `json:"name"`
	WeightOz float64 `json:"weightOz"`
}

// ChildItemProposal is a candidate auto-generated line item. The pair
// (SourceNodeID, EffectIndex) identifies the same logical child across
// repeated evaluations of one tree version. EffectIndex is a pointer so
// legacy snapshots written before explicit indexing decode as unset and go
// through AssignFallbackIndexes.
type ChildItemProposal struct {
	SourceNodeID      uuid.UUID  `json:"sourceNodeId"`
	EffectIndex       *int       `json:"effectIndex,omitempty"`
	Kind              string     `json:"kind"`
	Title             string     `json:"title"`
	SKURef            string     `json:"skuRef,omitempty"`
	ChildProductID    *uuid.UUID `json:"childProductId,omitempty"`
	Qty               float64    `json:"qty"`
	UnitPriceCents    *int64     `json:"unitPriceCents,omitempty"`
	LinePriceCents    *int64     `json:"linePriceCents,omitempty"`
	InvoiceVisibility string     `json:"invoiceVisibility"`
}

// ComponentKey is the stable identity of a derived child item within one
// order line item.
type ComponentKey struct {
	SourceNodeID uuid.UUID
	EffectIndex  int
}

// Result is the full evaluation output.
type Result struct {
	Pricing    Pricing             `json:"pricing"`
	Materials  []MaterialTotal     `json:"materials,omitempty"`
	ChildItems []ChildItemProposal `json:"childItems"`
}
