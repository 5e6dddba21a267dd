// Package catalog matches extracted line items against the store's item
// catalog and builds purchase-order imports from them.
package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Item is one catalog entry as exported by the point-of-sale system.
type Item struct {
	Description string
	PublicID    string
}

type rawItem struct {
	Description string          `json:"item.description"`
	PublicID    json.RawMessage `json:"item.public_id"`
}

// UnmarshalJSON accepts public ids exported either as strings or numbers.
func (it *Item) UnmarshalJSON(data []byte) error {
	var raw rawItem
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	it.Description = raw.Description
	it.PublicID = ""

	id := bytes.TrimSpace(raw.PublicID)
	switch {
	case len(id) == 0 || bytes.Equal(id, []byte("null")):
	case id[0] == '"':
		if err := json.Unmarshal(id, &it.PublicID); err != nil {
			return fmt.Errorf("item.public_id: %w", err)
		}
	default:
		it.PublicID = string(id)
	}
	return nil
}

// MarshalJSON writes the export's field names.
func (it Item) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{
		"item.description": it.Description,
		"item.public_id":   it.PublicID,
	})
}

// Load reads a catalog export: a JSON array of items.
func Load(path string) ([]Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode catalog %s: %w", path, err)
	}
	return items, nil
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
