package configurator

import (
	"errors"
	"reflect"
	"testing"

	"github.com/google/uuid"

	types "github.com/Tombstone73/quotevault-backend/internal/domain"
)

func TestEvaluatePricingReduction(t *testing.T) {
	grommets := questionNode("grommets", types.InputTypeBoolean)
	grommets.PricingImpact = mustJSON(t, []PricingEffect{
		{Mode: PricingModeFlat, AmountCents: 500},
		{Mode: PricingModePerQty, AmountCents: 25},
	})
	laminate := questionNode("laminate", types.InputTypeBoolean)
	laminate.PricingImpact = mustJSON(t, []PricingEffect{
		{Mode: PricingModePerSqft, AmountCents: 100},
		{Mode: PricingModePercentOfBase, Percent: 10},
		{Mode: PricingModeMultiplier, Factor: 1.5},
	})
	g := mustGraph(t, []*types.OptionNode{grommets, laminate}, nil)

	env := BuildEnvironment(10, floatPtr(24), floatPtr(36), "retail")
	sel := Selections{
		grommets.ID.String(): true,
		laminate.ID.String(): true,
	}
	res := mustEvaluate(t, g, sel, env)

	// 500 flat + 25*10 per qty + 100 * 6 sqft
	if res.Pricing.AddOnCents != 500+250+600 {
		t.Fatalf("AddOnCents = %d, want %d", res.Pricing.AddOnCents, 500+250+600)
	}
	if !reflect.DeepEqual(res.Pricing.PercentOfBase, []float64{10}) {
		t.Fatalf("PercentOfBase = %v", res.Pricing.PercentOfBase)
	}
	if !reflect.DeepEqual(res.Pricing.Multipliers, []float64{1.5}) {
		t.Fatalf("Multipliers = %v", res.Pricing.Multipliers)
	}
}

func TestEvaluatePerSqftSkippedWithoutGeometry(t *testing.T) {
	n := questionNode("laminate", types.InputTypeBoolean)
	n.PricingImpact = mustJSON(t, []PricingEffect{{Mode: PricingModePerSqft, AmountCents: 100}})
	g := mustGraph(t, []*types.OptionNode{n}, nil)

	res := mustEvaluate(t, g, Selections{n.ID.String(): true}, BuildEnvironment(5, nil, nil, ""))
	if res.Pricing.AddOnCents != 0 {
		t.Fatalf("per_sqft without geometry should contribute nothing, got %d", res.Pricing.AddOnCents)
	}
}

func TestEvaluateUnknownPricingModeIsNoOp(t *testing.T) {
	n := questionNode("weird", types.InputTypeBoolean)
	n.PricingImpact = mustJSON(t, []PricingEffect{
		{Mode: "per_lightyear", AmountCents: 9999},
		{Mode: PricingModeFlat, AmountCents: 100},
	})
	g := mustGraph(t, []*types.OptionNode{n}, nil)

	res := mustEvaluate(t, g, Selections{n.ID.String(): true}, BuildEnvironment(1, nil, nil, ""))
	if res.Pricing.AddOnCents != 100 {
		t.Fatalf("unknown mode must be skipped, got %d", res.Pricing.AddOnCents)
	}
}

func TestEvaluateUnselectedQuestionContributesNothing(t *testing.T) {
	n := questionNode("grommets", types.InputTypeBoolean)
	n.PricingImpact = mustJSON(t, []PricingEffect{{Mode: PricingModeFlat, AmountCents: 500}})
	g := mustGraph(t, []*types.OptionNode{n}, nil)

	res := mustEvaluate(t, g, Selections{}, BuildEnvironment(1, nil, nil, ""))
	if res.Pricing.AddOnCents != 0 {
		t.Fatalf("unselected boolean should not fire, got %d", res.Pricing.AddOnCents)
	}

	res = mustEvaluate(t, g, Selections{n.ID.String(): false}, BuildEnvironment(1, nil, nil, ""))
	if res.Pricing.AddOnCents != 0 {
		t.Fatalf("false boolean should not fire, got %d", res.Pricing.AddOnCents)
	}
}

func TestEvaluateDefaultValueFires(t *testing.T) {
	n := questionNode("hem", types.InputTypeBoolean)
	n.DefaultValue = mustJSON(t, true)
	n.PricingImpact = mustJSON(t, []PricingEffect{{Mode: PricingModeFlat, AmountCents: 300}})
	g := mustGraph(t, []*types.OptionNode{n}, nil)

	res := mustEvaluate(t, g, Selections{}, BuildEnvironment(1, nil, nil, ""))
	if res.Pricing.AddOnCents != 300 {
		t.Fatalf("default true should fire the effect, got %d", res.Pricing.AddOnCents)
	}

	// An explicit selection overrides the default.
	res = mustEvaluate(t, g, Selections{n.ID.String(): false}, BuildEnvironment(1, nil, nil, ""))
	if res.Pricing.AddOnCents != 0 {
		t.Fatalf("explicit false must override the default, got %d", res.Pricing.AddOnCents)
	}
}

func TestEvaluateGroupEffectsAlwaysFire(t *testing.T) {
	grp := groupNode("base_fees")
	grp.PricingImpact = mustJSON(t, []PricingEffect{{Mode: PricingModeFlat, AmountCents: 150}})
	g := mustGraph(t, []*types.OptionNode{grp}, nil)

	res := mustEvaluate(t, g, Selections{}, BuildEnvironment(1, nil, nil, ""))
	if res.Pricing.AddOnCents != 150 {
		t.Fatalf("visible group effects should fire unconditionally, got %d", res.Pricing.AddOnCents)
	}
}

func TestEvaluateRejectsUnknownSelectionNode(t *testing.T) {
	g := mustGraph(t, []*types.OptionNode{groupNode("root")}, nil)
	_, err := Evaluate(g, Selections{uuid.NewString(): true}, BuildEnvironment(1, nil, nil, ""))
	var eerr *EvaluationError
	if !errors.As(err, &eerr) {
		t.Fatalf("expected EvaluationError, got %v", err)
	}
}

func TestEvaluateRejectsUnknownChoice(t *testing.T) {
	n := questionNode("material", types.InputTypeSelect)
	n.Choices = mustJSON(t, []Choice{{Value: "vinyl"}, {Value: "mesh"}})
	g := mustGraph(t, []*types.OptionNode{n}, nil)

	_, err := Evaluate(g, Selections{n.ID.String(): "granite"}, BuildEnvironment(1, nil, nil, ""))
	var eerr *EvaluationError
	if !errors.As(err, &eerr) {
		t.Fatalf("expected EvaluationError, got %v", err)
	}
}

func TestEvaluateMaterialTotals(t *testing.T) {
	banner := questionNode("material", types.InputTypeSelect)
	banner.Choices = mustJSON(t, []Choice{
		{Value: "vinyl_13oz", WeightOz: 2.5},
		{Value: "mesh_8oz", WeightOz: 1.75},
	})
	banner.MaterialEffects = mustJSON(t, []MaterialEffect{
		{Name: "ink", Mode: MaterialModePerSqft, WeightOz: 0.1},
		{Name: "packaging", Mode: MaterialModeFlat, WeightOz: 4},
	})
	g := mustGraph(t, []*types.OptionNode{banner}, nil)

	env := BuildEnvironment(3, floatPtr(48), floatPtr(96), "")
	res := mustEvaluate(t, g, Selections{banner.ID.String(): "vinyl_13oz"}, env)

	want := map[string]float64{
		"ink":        0.1 * 32, // 48*96/144 sqft
		"packaging":  4,
		"vinyl_13oz": 2.5 * 3, // choice weight x quantity
	}
	got := map[string]float64{}
	for _, m := range res.Materials {
		got[m.Name] = m.WeightOz
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("materials = %v, want %v", got, want)
	}
}

func TestEvaluateChildProposals(t *testing.T) {
	childProduct := uuid.New()
	n := questionNode("grommets", types.InputTypeBoolean)
	n.ChildItemEffects = mustJSON(t, []ChildItemEffect{
		{Kind: types.ComponentKindInlineSKU, Title: "Grommet", SKURef: "GRM-10", Qty: 4, PerUnit: true, UnitPriceCents: int64Ptr(12)},
		{Kind: types.ComponentKindInlineSKU, Title: "Optional spacer", Qty: 0},
		{Kind: types.ComponentKindProductRef, Title: "Rope kit", ChildProductID: childProduct.String(), Qty: 1},
	})
	g := mustGraph(t, []*types.OptionNode{n}, nil)

	res := mustEvaluate(t, g, Selections{n.ID.String(): true}, BuildEnvironment(5, nil, nil, ""))
	if len(res.ChildItems) != 2 {
		t.Fatalf("expected 2 proposals (zero qty filtered), got %d", len(res.ChildItems))
	}

	first := res.ChildItems[0]
	if *first.EffectIndex != 0 {
		t.Fatalf("first proposal index = %d", *first.EffectIndex)
	}
	if first.Qty != 20 {
		t.Fatalf("per-unit qty should scale by quantity, got %v", first.Qty)
	}
	if first.LinePriceCents == nil || *first.LinePriceCents != 240 {
		t.Fatalf("line price = %v, want 240", first.LinePriceCents)
	}

	// The filtered zero-qty entry still consumed index 1.
	second := res.ChildItems[1]
	if *second.EffectIndex != 2 {
		t.Fatalf("declaration position must be preserved across filtered entries, got %d", *second.EffectIndex)
	}
	if second.ChildProductID == nil || *second.ChildProductID != childProduct {
		t.Fatalf("product_ref proposal should carry the child product id")
	}
	if second.InvoiceVisibility != types.InvoiceVisibilityRollup {
		t.Fatalf("missing visibility should default to rollup, got %q", second.InvoiceVisibility)
	}
}

func TestEvaluateRejectsMalformedChildEffect(t *testing.T) {
	cases := []ChildItemEffect{
		{Kind: "subscription", Title: "Bad kind", Qty: 1},
		{Kind: types.ComponentKindInlineSKU, Qty: 1}, // no title
		{Kind: types.ComponentKindProductRef, Title: "Bad ref", ChildProductID: "not-a-uuid", Qty: 1},
	}
	for _, bad := range cases {
		n := questionNode("opt", types.InputTypeBoolean)
		n.ChildItemEffects = mustJSON(t, []ChildItemEffect{bad})
		g := mustGraph(t, []*types.OptionNode{n}, nil)

		_, err := Evaluate(g, Selections{n.ID.String(): true}, BuildEnvironment(1, nil, nil, ""))
		var eerr *EvaluationError
		if !errors.As(err, &eerr) {
			t.Fatalf("effect %+v: expected EvaluationError, got %v", bad, err)
		}
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	a := questionNode("a", types.InputTypeBoolean)
	a.PricingImpact = mustJSON(t, []PricingEffect{{Mode: PricingModeFlat, AmountCents: 100}})
	a.ChildItemEffects = mustJSON(t, []ChildItemEffect{
		{Kind: types.ComponentKindInlineSKU, Title: "Widget", Qty: 2},
	})
	b := questionNode("b", types.InputTypeNumber)
	b.MaterialEffects = mustJSON(t, []MaterialEffect{{Name: "steel", Mode: MaterialModePerUnit, WeightOz: 1}})
	g := mustGraph(t, []*types.OptionNode{a, b}, nil)

	sel := Selections{a.ID.String(): true, b.ID.String(): float64(7)}
	env := BuildEnvironment(2, floatPtr(10), floatPtr(20), "wholesale")

	first := mustEvaluate(t, g, sel, env)
	for i := 0; i < 10; i++ {
		if got := mustEvaluate(t, g, sel, env); !reflect.DeepEqual(got, first) {
			t.Fatalf("evaluation %d differed from the first", i)
		}
	}
}
