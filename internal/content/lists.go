package content

import (
	"cmp"
	"encoding/json"
	"slices"

	"github.com/starford/vitrine/internal/models"
)

// Ranked is a list entry with an activation flag and a sort key.
type Ranked interface {
	Active() bool
	Rank() int
}

// ActiveSorted returns the active entries of items ordered by rank. The sort
// is stable, so entries with equal rank keep their upstream order. items is
// not modified.
func ActiveSorted[T Ranked](items []T) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if it.Active() {
			out = append(out, it)
		}
	}
	slices.SortStableFunc(out, func(a, b T) int { return cmp.Compare(a.Rank(), b.Rank()) })
	return out
}

// Lookup returns the value of the record with key. When the key occurs more
// than once the last occurrence in collection order wins.
func Lookup(records []models.ConfigRecord, key string) (json.RawMessage, bool) {
	for i := len(records) - 1; i >= 0; i-- {
		if records[i].Key == key {
			return records[i].Value, true
		}
	}
	return nil, false
}

// decodeObject decodes the value stored under key into target. Missing keys
// and values of another JSON shape leave target untouched.
func decodeObject(records []models.ConfigRecord, key string, target any) {
	raw, ok := Lookup(records, key)
	if !ok {
		return
	}
	_ = json.Unmarshal(raw, target)
}

// decodeCredentials decodes a JSON array of credential entries, skipping
// elements that do not decode. Non-array values yield nil.
func decodeCredentials(raw json.RawMessage) []models.CredentialEntry {
	out, _, err := models.DecodeList[models.CredentialEntry](raw)
	if err != nil {
		return nil
	}
	return out
}
