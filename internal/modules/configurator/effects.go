package configurator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gorm.io/datatypes"
)

// Pricing effect modes. Exactly one shape per effect; amounts are integer
// cents, percent and factor are plain decimals applied by the caller.
const (
	PricingModeFlat          = "flat_fee"
	PricingModePerQty        = "per_quantity"
	PricingModePerSqft       = "per_sqft"
	PricingModePercentOfBase = "percent_of_base"
	PricingModeMultiplier    = "multiplier"

	// PricingModePerSqin is a UI-side authoring unit only. It is persisted
	// as per_sqft with the amount scaled by 144 (in^2 -> ft^2) and always
	// reads back as per_sqft. The lossy round-trip is accepted behavior.
	PricingModePerSqin = "per_sqin"
)

type PricingEffect struct {
	Mode        string  `json:"mode"`
	AmountCents int64   `json:"amountCents,omitempty"`
	Percent     float64 `json:"percent,omitempty"`
	Factor      float64 `json:"factor,omitempty"`
	Label       string  `json:"label,omitempty"`
}

// DecodePricingEffects reads a node's pricing impact list. Any per_sqin
// entry (hand-authored rows predating the encode-side conversion) is
// normalized to per_sqft on the spot.
func DecodePricingEffects(raw datatypes.JSON) ([]PricingEffect, error) {
	if emptyJSON(raw) {
		return nil, nil
	}
	var effects []PricingEffect
	if err := json.Unmarshal(raw, &effects); err != nil {
		return nil, fmt.Errorf("decode pricing effects: %w", err)
	}
	for i := range effects {
		if effects[i].Mode == PricingModePerSqin {
			effects[i].Mode = PricingModePerSqft
			effects[i].AmountCents *= 144
		}
	}
	return effects, nil
}

// EncodePricingEffects writes a pricing impact list, converting per_sqin
// to per_sqft x144.
func EncodePricingEffects(effects []PricingEffect) (datatypes.JSON, error) {
	out := make([]PricingEffect, len(effects))
	copy(out, effects)
	for i := range out {
		if out[i].Mode == PricingModePerSqin {
			out[i].Mode = PricingModePerSqft
			out[i].AmountCents *= 144
		}
	}
	b, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("encode pricing effects: %w", err)
	}
	return datatypes.JSON(b), nil
}

// Material effect modes.
const (
	MaterialModeFlat    = "flat"
	MaterialModePerUnit = "per_unit"
	MaterialModePerSqft = "per_sqft"
)

type MaterialEffect struct {
	Name     string  `json:"name"`
	Mode     string  `json:"mode"`
	WeightOz float64 `json:"weightOz"`
}

func DecodeMaterialEffects(raw datatypes.JSON) ([]MaterialEffect, error) {
	if emptyJSON(raw) {
		return nil, nil
	}
	var effects []MaterialEffect
	if err := json.Unmarshal(raw, &effects); err != nil {
		return nil, fmt.Errorf("decode material effects: %w", err)
	}
	return effects, nil
}

// ChildItemEffect declares an auto-generated child line item. Qty is the
// base quantity; PerUnit multiplies it by the environment quantity.
type ChildItemEffect struct {
	Kind              string  `json:"kind"`
	Title             string  `json:"title"`
	SKURef            string  `json:"skuRef,omitempty"`
	ChildProductID    string  `json:"childProductId,omitempty"`
	Qty               float64 `json:"qty"`
	PerUnit           bool    `json:"perUnit,omitempty"`
	UnitPriceCents    *int64  `json:"unitPriceCents,omitempty"`
	InvoiceVisibility string  `json:"invoiceVisibility,omitempty"`
}

func DecodeChildItemEffects(raw datatypes.JSON) ([]ChildItemEffect, error) {
	if emptyJSON(raw) {
		return nil, nil
	}
	var effects []ChildItemEffect
	if err := json.Unmarshal(raw, &effects); err != nil {
		return nil, fmt.Errorf("decode child item effects: %w", err)
	}
	return effects, nil
}

// Choice is one selectable value of a select/multiselect node. WeightOz,
// when set, contributes per-unit material weight for the chosen value.
type Choice struct {
	Value    string  `json:"value"`
	Label    string  `json:"label,omitempty"`
	WeightOz float64 `json:"weightOz,omitempty"`
}

func DecodeChoices(raw datatypes.JSON) ([]Choice, error) {
	if emptyJSON(raw) {
		return nil, nil
	}
	var choices []Choice
	if err := json.Unmarshal(raw, &choices); err != nil {
		return nil, fmt.Errorf("decode choices: %w", err)
	}
	return choices, nil
}

func decodeDefaultValue(raw datatypes.JSON) (any, bool) {
	if emptyJSON(raw) {
		return nil, false
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil || v == nil {
		return nil, false
	}
	return v, true
}

func emptyJSON(raw datatypes.JSON) bool {
	trimmed := strings.TrimSpace(string(raw))
	return len(raw) == 0 || trimmed == "null" || trimmed == "" ||
		bytes.Equal([]byte(trimmed), []byte("[]"))
}
