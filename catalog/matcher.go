package catalog

import (
	"fmt"
	"strings"

	"github.com/antzucaro/matchr"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/aluiziolira/go-scrape-orders/models"
)

// Strategy names the rule that produced a match.
type Strategy string

const (
	ExactVariation Strategy = "exact_variation"
	ExactName      Strategy = "exact_name"
	ContainsBoth   Strategy = "contains_both"
	ContainsName   Strategy = "contains_name"
	Unmatched      Strategy = ""
)

// Match is the outcome of looking up one line item.
type Match struct {
	Item     *Item
	Strategy Strategy

	// Suggestion is the most similar description for unmatched items.
	Suggestion string
	Similarity float64
}

// Matched reports whether a catalog item was found.
func (m Match) Matched() bool { return m.Item != nil }

type matchKey struct {
	name      string
	variation string
}

// Matcher finds catalog items by description. Earlier catalog entries win
// ties.
type Matcher struct {
	items      []Item
	normalized []string
	exact      map[string]int
	memo       *lru.Cache[matchKey, Match]
}

// NewMatcher indexes items and memoises up to cacheSize lookups.
func NewMatcher(items []Item, cacheSize int) (*Matcher, error) {
	if cacheSize <= 0 {
		cacheSize = 1024
	}
	memo, err := lru.New[matchKey, Match](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create match cache: %w", err)
	}

	m := &Matcher{
		items:      items,
		normalized: make([]string, len(items)),
		exact:      make(map[string]int, len(items)),
		memo:       memo,
	}
	for i, item := range items {
		desc := normalize(item.Description)
		m.normalized[i] = desc
		if _, ok := m.exact[desc]; !ok {
			m.exact[desc] = i
		}
	}
	return m, nil
}

// Match looks item up with, in order: exact "<name> - <variation>", exact
// name, description containing name and variation (items with a variation
// only), and description containing name (items without a variation only).
func (m *Matcher) Match(item models.LineItem) Match {
	key := matchKey{name: normalize(item.Name), variation: normalize(models.Value(item.Variation))}
	if cached, ok := m.memo.Get(key); ok {
		return cached
	}
	result := m.lookup(key)
	m.memo.Add(key, result)
	return result
}

func (m *Matcher) lookup(key matchKey) Match {
	if key.variation != "" {
		if i, ok := m.exact[key.name+" - "+key.variation]; ok {
			return m.found(i, ExactVariation)
		}
	}
	if i, ok := m.exact[key.name]; ok {
		return m.found(i, ExactName)
	}

	for i, desc := range m.normalized {
		if key.variation != "" {
			if strings.Contains(desc, key.name) && strings.Contains(desc, key.variation) {
				return m.found(i, ContainsBoth)
			}
			continue
		}
		if strings.Contains(desc, key.name) {
			return m.found(i, ContainsName)
		}
	}

	return m.suggest(key)
}

func (m *Matcher) found(i int, s Strategy) Match {
	return Match{Item: &m.items[i], Strategy: s}
}

// suggest finds the closest description by Jaro-Winkler similarity.
func (m *Matcher) suggest(key matchKey) Match {
	label := key.name
	if key.variation != "" {
		label += " - " + key.variation
	}

	var best Match
	for i, desc := range m.normalized {
		similarity := matchr.JaroWinkler(label, desc, false)
		if similarity > best.Similarity {
			best.Similarity = similarity
			best.Suggestion = m.items[i].Description
		}
	}
	return best
}
