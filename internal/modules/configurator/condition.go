package configurator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Edge condition vocabulary. This is a fixed, small set over selections,
// not a scripting surface. Unknown operators fail closed: the edge is not
// taken, so a bad author entry hides options instead of erroring live carts.
const (
	CondOpEquals    = "equals"
	CondOpNotEquals = "not_equals"
	CondOpPresent   = "present"
	CondOpAbsent    = "absent"
)

type Condition struct {
	NodeID uuid.UUID `json:"nodeId"`
	Op     string    `json:"op"`
	Value  any       `json:"value,omitempty"`
}

func decodeCondition(raw datatypes.JSON) (*Condition, error) {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) || bytes.Equal(raw, []byte("{}")) {
		return nil, nil
	}
	var c Condition
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	if c.NodeID == uuid.Nil {
		return nil, fmt.Errorf("condition missing nodeId")
	}
	if strings.TrimSpace(c.Op) == "" {
		return nil, fmt.Errorf("condition missing op")
	}
	return &c, nil
}

func (c *Condition) eval(sel Selections) bool {
	v, ok := sel.value(c.NodeID)
	switch c.Op {
	case CondOpPresent:
		return ok && !isEmptyValue(v)
	case CondOpAbsent:
		return !ok || isEmptyValue(v)
	case CondOpEquals:
		return ok && selectionMatches(v, c.Value)
	case CondOpNotEquals:
		return !ok || !selectionMatches(v, c.Value)
	default:
		return false
	}
}

// selectionMatches compares a selection value against a condition target.
// Multiselect selections match when any element equals the target.
func selectionMatches(selected, target any) bool {
	if list, ok := selected.([]any); ok {
		for _, item := range list {
			if scalarEquals(item, target) {
				return true
			}
		}
		return false
	}
	if list, ok := selected.([]string); ok {
		for _, item := range list {
			if scalarEquals(item, target) {
				return true
			}
		}
		return false
	}
	return scalarEquals(selected, target)
}

func scalarEquals(a, b any) bool {
	if af, aok := asFloat(a); aok {
		if bf, bok := asFloat(b); bok {
			return af == bf
		}
		return false
	}
	return fmt.Sprint(a) == fmt.Sprint(b)
}

func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func isEmptyValue(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case bool:
		return !t
	case []any:
		return len(t) == 0
	case []string:
		return len(t) == 0
	default:
		return false
	}
}
