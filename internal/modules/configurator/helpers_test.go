package configurator

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	types "github.com/Tombstone73/quotevault-backend/internal/domain"
)

func mustJSON(t *testing.T, v any) datatypes.JSON {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return datatypes.JSON(b)
}

func testVersion() *types.OptionTreeVersion {
	return &types.OptionTreeVersion{
		ID:      uuid.New(),
		Version: 1,
		Status:  types.TreeStatusActive,
	}
}

func questionNode(key, inputType string) *types.OptionNode {
	return &types.OptionNode{
		ID:        uuid.New(),
		Kind:      types.NodeKindQuestion,
		Key:       key,
		InputType: inputType,
		Status:    types.GraphStatusEnabled,
	}
}

func groupNode(key string) *types.OptionNode {
	return &types.OptionNode{
		ID:     uuid.New(),
		Kind:   types.NodeKindGroup,
		Key:    key,
		Status: types.GraphStatusEnabled,
	}
}

func edge(from, to *types.OptionNode) *types.OptionEdge {
	return &types.OptionEdge{
		ID:         uuid.New(),
		FromNodeID: from.ID,
		ToNodeID:   to.ID,
		Status:     types.GraphStatusEnabled,
	}
}

func condEdge(t *testing.T, from, to *types.OptionNode, cond Condition) *types.OptionEdge {
	t.Helper()
	e := edge(from, to)
	e.Condition = mustJSON(t, cond)
	return e
}

func mustGraph(t *testing.T, nodes []*types.OptionNode, edges []*types.OptionEdge) *Graph {
	t.Helper()
	g, err := NewGraph(testVersion(), nodes, edges)
	if err != nil {
		t.Fatalf("NewGraph: %v", err)
	}
	return g
}

func mustEvaluate(t *testing.T, g *Graph, sel Selections, env Environment) *Result {
	t.Helper()
	res, err := Evaluate(g, sel, env)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	return res
}

func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }
func int64Ptr(i int64) *int64     { return &i }
