package configurator

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Snapshot is the frozen evaluation result attached to one order line
// item. It carries the inputs it was computed from, so reconciliation can
// verify freshness without re-evaluating the graph. Replaced wholesale on
// recompute, never partially mutated.
type Snapshot struct {
	TreeVersionID uuid.UUID    `json:"treeVersionId"`
	EvaluatedAt   time.Time    `json:"evaluatedAt"`
	Signature     string       `json:"signature"`
	Selections    Selections   `json:"selections"`
	Environment   *Environment `json:"environment,omitempty"`

	Pricing    Pricing             `json:"pricing"`
	Materials  []MaterialTotal     `json:"materials,omitempty"`
	ChildItems []ChildItemProposal `json:"childItems"`
}

// NewSnapshot freezes an evaluation result. Selections and ChildItems are
// never nil in a snapshot written by this code; nil values on decode mark
// legacy rows that predate complete snapshots.
func NewSnapshot(treeVersionID uuid.UUID, sel Selections, env Environment, res *Result, at time.Time) *Snapshot {
	if sel == nil {
		sel = Selections{}
	}
	items := res.ChildItems
	if items == nil {
		items = []ChildItemProposal{}
	}
	envCopy := env
	return &Snapshot{
		TreeVersionID: treeVersionID,
		EvaluatedAt:   at.UTC(),
		Signature:     Signature(treeVersionID, sel, env),
		Selections:    sel,
		Environment:   &envCopy,
		Pricing:       res.Pricing,
		Materials:     res.Materials,
		ChildItems:    items,
	}
}

// Complete reports whether the snapshot carries everything reconciliation
// needs: recorded inputs and an explicit proposal list.
func (s *Snapshot) Complete() bool {
	return s != nil &&
		s.TreeVersionID != uuid.Nil &&
		s.Selections != nil &&
		s.Environment != nil &&
		s.ChildItems != nil
}

func (s *Snapshot) Encode() (datatypes.JSON, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return datatypes.JSON(b), nil
}

func DecodeSnapshot(raw datatypes.JSON) (*Snapshot, error) {
	if emptyJSON(raw) {
		return nil, nil
	}
	var s Snapshot
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &s, nil
}
