package configurator

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
)

func DecodeSelections(raw datatypes.JSON) (Selections, error) {
	if emptyJSON(raw) {
		return nil, nil
	}
	var sel Selections
	if err := json.Unmarshal(raw, &sel); err != nil {
		return nil, fmt.Errorf("decode selections: %w", err)
	}
	return sel, nil
}

func EncodeSelections(sel Selections) (datatypes.JSON, error) {
	if sel == nil {
		sel = Selections{}
	}
	b, err := json.Marshal(sel)
	if err != nil {
		return nil, fmt.Errorf("encode selections: %w", err)
	}
	return datatypes.JSON(b), nil
}
