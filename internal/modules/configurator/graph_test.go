package configurator

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	types "github.com/Tombstone73/quotevault-backend/internal/domain"
)

func TestNewGraphRejectsDanglingEdge(t *testing.T) {
	a := groupNode("a")
	e := &types.OptionEdge{
		ID:         uuid.New(),
		FromNodeID: a.ID,
		ToNodeID:   uuid.New(),
		Status:     types.GraphStatusEnabled,
	}
	_, err := NewGraph(testVersion(), []*types.OptionNode{a}, []*types.OptionEdge{e})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestValidateRejectsCycle(t *testing.T) {
	a := groupNode("a")
	b := groupNode("b")
	g := mustGraph(t, []*types.OptionNode{a, b}, []*types.OptionEdge{edge(a, b), edge(b, a)})
	var verr *ValidationError
	if err := g.Validate(); !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError for cycle, got %v", err)
	}
}

func TestValidateRejectsOrphanedQuestion(t *testing.T) {
	root := groupNode("root")
	q := questionNode("orphan", types.InputTypeBoolean)
	e := edge(root, q)
	e.Status = types.GraphStatusDeleted
	g := mustGraph(t, []*types.OptionNode{root, q}, []*types.OptionEdge{e})
	var verr *ValidationError
	if err := g.Validate(); !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError for orphaned question, got %v", err)
	}
}

func TestValidateRejectsQuestionBehindOnlyDisabledEdges(t *testing.T) {
	root := groupNode("root")
	q := questionNode("hidden", types.InputTypeBoolean)
	e := edge(root, q)
	e.Status = types.GraphStatusDisabled
	g := mustGraph(t, []*types.OptionNode{root, q}, []*types.OptionEdge{e})
	var verr *ValidationError
	if err := g.Validate(); !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError for question behind only disabled edges, got %v", err)
	}

	// One enabled path is enough, and disabling the node itself is the
	// sanctioned way to hide a question.
	reachable := questionNode("reachable", types.InputTypeBoolean)
	disabledIn := edge(root, reachable)
	disabledIn.Status = types.GraphStatusDisabled
	g = mustGraph(t, []*types.OptionNode{root, reachable}, []*types.OptionEdge{disabledIn, edge(root, reachable)})
	if err := g.Validate(); err != nil {
		t.Fatalf("question with one enabled inbound edge should validate, got %v", err)
	}

	q.Status = types.GraphStatusDisabled
	g = mustGraph(t, []*types.OptionNode{root, q}, []*types.OptionEdge{e})
	if err := g.Validate(); err != nil {
		t.Fatalf("disabled question behind disabled edges should validate, got %v", err)
	}
}

func TestQuestionRootWithoutInboundIsLegal(t *testing.T) {
	q := questionNode("standalone", types.InputTypeBoolean)
	g := mustGraph(t, []*types.OptionNode{q}, nil)
	if err := g.Validate(); err != nil {
		t.Fatalf("standalone question root should validate, got %v", err)
	}
	visible := g.visibleNodes(Selections{})
	if len(visible) != 1 || visible[0].ID != q.ID {
		t.Fatalf("expected the question root to be visible, got %d nodes", len(visible))
	}
}

func TestVisibilitySkipsDisabledNodesAndEdges(t *testing.T) {
	root := groupNode("root")
	disabledChild := groupNode("disabled_child")
	disabledChild.Status = types.GraphStatusDisabled
	reachable := groupNode("reachable")
	cutOff := groupNode("cut_off")

	disabledEdge := edge(root, cutOff)
	disabledEdge.Status = types.GraphStatusDisabled

	g := mustGraph(t,
		[]*types.OptionNode{root, disabledChild, reachable, cutOff},
		[]*types.OptionEdge{edge(root, disabledChild), edge(root, reachable), disabledEdge},
	)
	visible := g.visibleNodes(Selections{})

	ids := make(map[uuid.UUID]bool, len(visible))
	for _, n := range visible {
		ids[n.ID] = true
	}
	if !ids[root.ID] || !ids[reachable.ID] {
		t.Fatalf("root and reachable should be visible")
	}
	if ids[disabledChild.ID] {
		t.Fatalf("disabled node must not be visible")
	}
	if ids[cutOff.ID] {
		t.Fatalf("node behind a disabled edge must not be visible")
	}
}

func TestVisibilityConditionGatesSubtree(t *testing.T) {
	q := questionNode("laminate", types.InputTypeBoolean)
	detail := questionNode("laminate_type", types.InputTypeSelect)
	detail.Choices = mustJSON(t, []Choice{{Value: "gloss"}, {Value: "matte"}})
	grandchild := groupNode("finishing")

	edges := []*types.OptionEdge{
		condEdge(t, q, detail, Condition{NodeID: q.ID, Op: CondOpEquals, Value: true}),
		edge(detail, grandchild),
	}
	g := mustGraph(t, []*types.OptionNode{q, detail, grandchild}, edges)

	hidden := g.visibleNodes(Selections{q.ID.String(): false})
	if len(hidden) != 1 {
		t.Fatalf("with condition unmet only the root should be visible, got %d", len(hidden))
	}

	// Children of an invisible node stay invisible even if their own
	// edge carries no condition.
	shown := g.visibleNodes(Selections{q.ID.String(): true})
	if len(shown) != 3 {
		t.Fatalf("with condition met the whole chain should be visible, got %d", len(shown))
	}
}

func TestConditionUnknownOperatorFailsClosed(t *testing.T) {
	q := questionNode("opt", types.InputTypeBoolean)
	child := groupNode("child")
	e := condEdge(t, q, child, Condition{NodeID: q.ID, Op: "matches_regex", Value: "x"})
	g := mustGraph(t, []*types.OptionNode{q, child}, []*types.OptionEdge{e})

	visible := g.visibleNodes(Selections{q.ID.String(): true})
	for _, n := range visible {
		if n.ID == child.ID {
			t.Fatalf("edge with unknown operator must not be taken")
		}
	}
}

func TestConditionMultiselectMatchesAnyElement(t *testing.T) {
	q := questionNode("extras", types.InputTypeMultiselect)
	q.Choices = mustJSON(t, []Choice{{Value: "grommets"}, {Value: "hem"}})
	child := groupNode("grommet_opts")
	e := condEdge(t, q, child, Condition{NodeID: q.ID, Op: CondOpEquals, Value: "grommets"})
	g := mustGraph(t, []*types.OptionNode{q, child}, []*types.OptionEdge{e})

	visible := g.visibleNodes(Selections{q.ID.String(): []any{"hem", "grommets"}})
	found := false
	for _, n := range visible {
		if n.ID == child.ID {
			found = true
		}
	}
	if !found {
		t.Fatalf("multiselect containing the target value should satisfy equals")
	}
}
