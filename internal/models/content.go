// Package models defines the domain types read from the content API.
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ID is a record identifier. The content API emits numeric ids for some
// collections and string ids for others, so both decode into the same type.
type ID string

// UnmarshalJSON accepts a JSON number or string.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// MarshalJSON emits canonical integers as numbers and everything else,
// including "007" and "+5", as strings.
func (id ID) MarshalJSON() ([]byte, error) {
	if id.numeric() {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id ID) numeric() bool {
	n, err := strconv.ParseInt(string(id), 10, 64)
	return err == nil && strconv.FormatInt(n, 10) == string(id)
}

// ConfigRecord is one key/value entry of the site configuration collection.
// Value is kept raw and decoded per section.
type ConfigRecord struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

// ExpertiseCard is a specialty tile edited in the admin panel.
type ExpertiseCard struct {
	ID              ID     `json:"id"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	Icon            string `json:"icon"`
	BackgroundColor string `json:"backgroundColor"`
	IsActive        *bool  `json:"isActive,omitempty"`
	Order           *int   `json:"order,omitempty"`
}

// Active reports whether the card should be displayed. Absent means active.
func (c ExpertiseCard) Active() bool { return c.IsActive == nil || *c.IsActive }

// Rank returns the sort key. Absent means 0.
func (c ExpertiseCard) Rank() int {
	if c.Order == nil {
		return 0
	}
	return *c.Order
}

// CredentialEntry is one qualification listed in the about_credentials value.
type CredentialEntry struct {
	ID       ID     `json:"id"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Gradient string `json:"gradient"`
	IsActive *bool  `json:"isActive,omitempty"`
	Order    *int   `json:"order,omitempty"`
}

// Active reports whether the credential should be displayed. Absent means active.
func (c CredentialEntry) Active() bool { return c.IsActive == nil || *c.IsActive }

// Rank returns the sort key. Absent means 0.
func (c CredentialEntry) Rank() int {
	if c.Order == nil {
		return 0
	}
	return *c.Order
}
