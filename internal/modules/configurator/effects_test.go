package configurator

import (
	"testing"

	"gorm.io/datatypes"
)

func TestDecodePricingEffectsNormalizesPerSqin(t *testing.T) {
	raw := datatypes.JSON(`[{"mode":"per_sqin","amountCents":2}]`)
	effects, err := DecodePricingEffects(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(effects) != 1 {
		t.Fatalf("expected 1 effect, got %d", len(effects))
	}
	if effects[0].Mode != PricingModePerSqft {
		t.Fatalf("mode = %q, want per_sqft", effects[0].Mode)
	}
	if effects[0].AmountCents != 288 {
		t.Fatalf("amount = %d, want 288", effects[0].AmountCents)
	}
}

func TestEncodePricingEffectsConvertsPerSqin(t *testing.T) {
	in := []PricingEffect{{Mode: PricingModePerSqin, AmountCents: 2}}
	raw, err := EncodePricingEffects(in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	// The conversion must not mutate the caller's slice.
	if in[0].Mode != PricingModePerSqin || in[0].AmountCents != 2 {
		t.Fatalf("input slice mutated: %+v", in[0])
	}

	decoded, err := DecodePricingEffects(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded[0].Mode != PricingModePerSqft || decoded[0].AmountCents != 288 {
		t.Fatalf("round trip = %+v, want per_sqft 288", decoded[0])
	}
	// per_sqin never survives a round trip; reading back as per_sqft x144
	// is the accepted (lossy) behavior.
}

func TestDecodeEmptyPayloads(t *testing.T) {
	for _, raw := range []datatypes.JSON{nil, datatypes.JSON(``), datatypes.JSON(`null`), datatypes.JSON(`[]`)} {
		effects, err := DecodePricingEffects(raw)
		if err != nil || effects != nil {
			t.Fatalf("raw %q: got (%v, %v), want (nil, nil)", raw, effects, err)
		}
	}
}

func TestDecodeChildItemEffectsMalformed(t *testing.T) {
	if _, err := DecodeChildItemEffects(datatypes.JSON(`{"not":"a list"}`)); err == nil {
		t.Fatalf("expected decode error for non-list payload")
	}
}
