package configurator

import (
	"math"

	"github.com/google/uuid"

	types "github.com/Tombstone73/quotevault-backend/internal/domain"
)

// Evaluate resolves the visible node set for the selections, then reduces
// every applicable node's declared effects into pricing add-ons, material
// totals and child-item proposals. Pure: no I/O, no shared state, safe for
// unlimited concurrent calls, and deterministic for identical inputs.
func Evaluate(g *Graph, sel Selections, env Environment) (*Result, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if err := checkSelections(g, sel); err != nil {
		return nil, err
	}

	res := &Result{ChildItems: []ChildItemProposal{}}
	materials := newMaterialAccumulator()

	for _, node := range g.visibleNodes(sel) {
		apply, choiceWeights, err := effectsApply(node, sel)
		if err != nil {
			return nil, err
		}
		if !apply {
			continue
		}
		if err := reducePricing(res, node, env); err != nil {
			return nil, err
		}
		if err := reduceMaterials(materials, node, env); err != nil {
			return nil, err
		}
		for _, cw := range choiceWeights {
			materials.add(cw.Value, cw.WeightOz*float64(env.Quantity))
		}
		proposals, err := childProposals(node, env)
		if err != nil {
			return nil, err
		}
		res.ChildItems = append(res.ChildItems, proposals...)
	}

	res.Materials = materials.totals()
	return res, nil
}

// checkSelections rejects selections that reference a node outside the
// graph or a value outside a select node's choice list.
func checkSelections(g *Graph, sel Selections) error {
	for key, val := range sel {
		nodeID, err := uuid.Parse(key)
		if err != nil {
			return evaluationErrorf("selection key %q is not a node id", key)
		}
		node, ok := g.Node(nodeID)
		if !ok {
			return evaluationErrorf("selection references unknown node %s", nodeID)
		}
		if node.Kind != types.NodeKindQuestion {
			return evaluationErrorf("selection targets non-question node %s (%s)", nodeID, node.Kind)
		}
		switch node.InputType {
		case types.InputTypeSelect, types.InputTypeMultiselect:
			choices, err := DecodeChoices(node.Choices)
			if err != nil {
				return validationErrorf("node %s: %v", nodeID, err)
			}
			if err := checkChoiceMembership(node, choices, val); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkChoiceMembership(node *types.OptionNode, choices []Choice, val any) error {
	allowed := make(map[string]bool, len(choices))
	for _, c := range choices {
		allowed[c.Value] = true
	}
	check := func(v any) error {
		s, ok := v.(string)
		if !ok {
			return evaluationErrorf("node %s: select value must be a string", node.ID)
		}
		if s == "" {
			return nil
		}
		if !allowed[s] {
			return evaluationErrorf("node %s has no choice %q", node.ID, s)
		}
		return nil
	}
	switch v := val.(type) {
	case []any:
		for _, item := range v {
			if err := check(item); err != nil {
				return err
			}
		}
		return nil
	case []string:
		for _, item := range v {
			if err := check(item); err != nil {
				return err
			}
		}
		return nil
	case nil:
		return nil
	default:
		return check(v)
	}
}

// effectsApply decides whether a visible node's effects fire. Questions
// fire only when selected per their input type; groups and computed nodes
// fire whenever visible. For select/multiselect questions the chosen
// choices' weights are returned alongside.
func effectsApply(node *types.OptionNode, sel Selections) (bool, []Choice, error) {
	if node.Kind != types.NodeKindQuestion {
		return true, nil, nil
	}
	val, ok := sel.value(node.ID)
	if !ok {
		if def, has := decodeDefaultValue(node.DefaultValue); has {
			val = def
			ok = true
		}
	}
	if !ok {
		return false, nil, nil
	}

	switch node.InputType {
	case types.InputTypeBoolean:
		b, isBool := val.(bool)
		return isBool && b, nil, nil
	case types.InputTypeSelect, types.InputTypeMultiselect:
		if isEmptyValue(val) {
			return false, nil, nil
		}
		choices, err := DecodeChoices(node.Choices)
		if err != nil {
			return false, nil, validationErrorf("node %s: %v", node.ID, err)
		}
		return true, chosenWeights(choices, val), nil
	case types.InputTypeNumber, types.InputTypeDimension:
		f, isNum := asFloat(val)
		return isNum && isFinite(f), nil, nil
	default:
		// text, textarea, file: selected when non-empty.
		return !isEmptyValue(val), nil, nil
	}
}

func chosenWeights(choices []Choice, val any) []Choice {
	var out []Choice
	for _, c := range choices {
		if c.WeightOz <= 0 {
			continue
		}
		if selectionMatches(val, c.Value) {
			out = append(out, c)
		}
	}
	return out
}

func reducePricing(res *Result, node *types.OptionNode, env Environment) error {
	effects, err := DecodePricingEffects(node.PricingImpact)
	if err != nil {
		return validationErrorf("node %s: %v", node.ID, err)
	}
	for _, eff := range effects {
		switch eff.Mode {
		case PricingModeFlat:
			res.Pricing.AddOnCents += eff.AmountCents
		case PricingModePerQty:
			res.Pricing.AddOnCents += eff.AmountCents * int64(env.Quantity)
		case PricingModePerSqft:
			if env.AreaSqft != nil {
				res.Pricing.AddOnCents += int64(math.Round(float64(eff.AmountCents) * *env.AreaSqft))
			}
		case PricingModePercentOfBase:
			res.Pricing.PercentOfBase = append(res.Pricing.PercentOfBase, eff.Percent)
		case PricingModeMultiplier:
			res.Pricing.Multipliers = append(res.Pricing.Multipliers, eff.Factor)
		default:
			// Unsupported pricing modes are no-ops.
		}
	}
	return nil
}

func reduceMaterials(acc *materialAccumulator, node *types.OptionNode, env Environment) error {
	effects, err := DecodeMaterialEffects(node.MaterialEffects)
	if err != nil {
		return validationErrorf("node %s: %v", node.ID, err)
	}
	for _, eff := range effects {
		switch eff.Mode {
		case MaterialModeFlat:
			acc.add(eff.Name, eff.WeightOz)
		case MaterialModePerUnit:
			acc.add(eff.Name, eff.WeightOz*float64(env.Quantity))
		case MaterialModePerSqft:
			if env.AreaSqft != nil {
				acc.add(eff.Name, eff.WeightOz*(*env.AreaSqft))
			}
		default:
			// Unsupported material modes are no-ops.
		}
	}
	return nil
}

// childProposals enumerates a node's child-item effects in declaration
// order. EffectIndex is the declaration position, so a filtered-out entry
// still consumes its index and keys stay stable when quantities toggle.
func childProposals(node *types.OptionNode, env Environment) ([]ChildItemProposal, error) {
	effects, err := DecodeChildItemEffects(node.ChildItemEffects)
	if err != nil {
		return nil, evaluationErrorf("node %s: %v", node.ID, err)
	}
	var out []ChildItemProposal
	for i, eff := range effects {
		idx := i
		p, err := buildProposal(node.ID, idx, eff, env)
		if err != nil {
			return nil, err
		}
		if p == nil {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func buildProposal(sourceNodeID uuid.UUID, idx int, eff ChildItemEffect, env Environment) (*ChildItemProposal, error) {
	if eff.Title == "" {
		return nil, evaluationErrorf("node %s child effect %d has no title", sourceNodeID, idx)
	}
	var childProductID *uuid.UUID
	switch eff.Kind {
	case types.ComponentKindInlineSKU:
		// sku ref optional for ad-hoc components
	case types.ComponentKindProductRef:
		id, err := uuid.Parse(eff.ChildProductID)
		if err != nil {
			return nil, evaluationErrorf("node %s child effect %d has an invalid childProductId", sourceNodeID, idx)
		}
		childProductID = &id
	default:
		return nil, evaluationErrorf("node %s child effect %d has unsupported kind %q", sourceNodeID, idx, eff.Kind)
	}

	qty := eff.Qty
	if eff.PerUnit {
		qty *= float64(env.Quantity)
	}
	// Non-positive quantity means absent, not a zero-quantity proposal.
	if qty <= 0 {
		return nil, nil
	}

	visibility := eff.InvoiceVisibility
	if visibility == "" {
		visibility = types.InvoiceVisibilityRollup
	}
	switch visibility {
	case types.InvoiceVisibilityHidden, types.InvoiceVisibilityRollup, types.InvoiceVisibilitySeparateLine:
	default:
		return nil, evaluationErrorf("node %s child effect %d has unsupported invoice visibility %q", sourceNodeID, idx, visibility)
	}

	p := &ChildItemProposal{
		SourceNodeID:      sourceNodeID,
		EffectIndex:       &idx,
		Kind:              eff.Kind,
		Title:             eff.Title,
		SKURef:            eff.SKURef,
		ChildProductID:    childProductID,
		Qty:               qty,
		UnitPriceCents:    eff.UnitPriceCents,
		InvoiceVisibility: visibility,
	}
	if eff.UnitPriceCents != nil {
		line := int64(math.Round(float64(*eff.UnitPriceCents) * qty))
		p.LinePriceCents = &line
	}
	return p, nil
}

// materialAccumulator keeps per-material totals in first-seen order so the
// output is deterministic without a final sort.
type materialAccumulator struct {
	order []string
	sums  map[string]float64
}

func newMaterialAccumulator() *materialAccumulator {
	return &materialAccumulator{sums: make(map[string]float64)}
}

func (a *materialAccumulator) add(name string, weightOz float64) {
	if name == "" || weightOz == 0 {
		return
	}
	if _, ok := a.sums[name]; !ok {
		a.order = append(a.order, name)
	}
	a.sums[name] += weightOz
}

func (a *materialAccumulator) totals() []MaterialTotal {
	if len(a.order) == 0 {
		return nil
	}
	out := make([]MaterialTotal, 0, len(a.order))
	for _, name := range a.order {
		out = append(out, MaterialTotal{Name: name, WeightOz: a.sums[name]})
	}
	return out
}
