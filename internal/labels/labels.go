// Package labels is the closed set of article tags. Free-form input is
// translated through Lookup and rejected when it names no known tag.
package labels

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/tourgo/internal/common"
)

type Label struct {
	Tag  string `json:"tag"`
	Name string `json:"name"`
}

var all = []Label{
	{Tag: "nature", Name: "Nature & Scenery"},
	{Tag: "culture", Name: "Culture & Art"},
	{Tag: "history", Name: "History & Heritage"},
	{Tag: "food", Name: "Food & Drink"},
	{Tag: "city", Name: "City Walks"},
	{Tag: "beach", Name: "Beach & Islands"},
	{Tag: "mountain", Name: "Mountains & Hiking"},
	{Tag: "adventure", Name: "Adventure"},
	{Tag: "family", Name: "Family Trips"},
	{Tag: "budget", Name: "Budget Travel"},
}

var byTag = func() map[string]Label {
	m := make(map[string]Label, len(all))
	for _, l := range all {
		m[l.Tag] = l
	}
	return m
}()

// All returns a copy of every known label in display order.
func All() []Label {
	out := make([]Label, len(all))
	copy(out, all)
	return out
}

// Lookup resolves tag (case-insensitive, surrounding space ignored).
func Lookup(tag string) (Label, error) {
	l, ok := byTag[strings.ToLower(strings.TrimSpace(tag))]
	if !ok {
		return Label{}, fmt.Errorf("%w: unknown label %q", common.ErrValidation, tag)
	}
	return l, nil
}
