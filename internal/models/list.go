package models

import (
	"encoding/json"
	"fmt"
)

// DecodeList decodes a JSON array one element at a time. Elements that do not
// decode into T are dropped and counted in skipped, so one bad record leaves
// the rest of the collection usable. A body that is not an array is an error.
func DecodeList[T any](data []byte) (items []T, skipped int, err error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return nil, 0, fmt.Errorf("decode list: %w", err)
	}
	items = make([]T, 0, len(elems))
	for _, e := range elems {
		var v T
		if err := json.Unmarshal(e, &v); err != nil {
			skipped++
			continue
		}
		items = append(items, v)
	}
	return items, skipped, nil
}
