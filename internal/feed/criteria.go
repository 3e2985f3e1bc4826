package feed

import (
	"strconv"
	"strings"

	"github.com/swipebay/marketplace-service/internal/marketplace/domain"
)

// StringSet is a membership set of normalized strings.
type StringSet map[string]struct{}

// NewStringSet builds a set from values, trimming surrounding whitespace.
// Empty values are dropped.
func NewStringSet(values ...string) StringSet {
	s := make(StringSet, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			s[v] = struct{}{}
		}
	}
	return s
}

func (s StringSet) Has(v string) bool {
	_, ok := s[v]
	return ok
}

// Values returns the set's members in unspecified order.
func (s StringSet) Values() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	return out
}

// Criteria is the user's active feed filter. It is an immutable value:
// edits replace the whole criteria, never mutate it in place. The zero
// value restricts nothing.
//
// Category membership is case-insensitive; conditions and regions match
// exactly after whitespace trimming.
type Criteria struct {
	MinPrice   *float64
	MaxPrice   *float64
	Categories StringSet
	Conditions StringSet
	Regions    StringSet
}

// NewCriteria normalizes the allow-sets: categories are lowercased so that
// membership checks are case-insensitive, all values are trimmed.
func NewCriteria(minPrice, maxPrice *float64, categories, conditions, regions []string) Criteria {
	lowered := make([]string, 0, len(categories))
	for _, c := range categories {
		lowered = append(lowered, strings.ToLower(c))
	}
	return Criteria{
		MinPrice:   minPrice,
		MaxPrice:   maxPrice,
		Categories: NewStringSet(lowered...),
		Conditions: NewStringSet(conditions...),
		Regions:    NewStringSet(regions...),
	}
}

// Matches reports whether the listing passes every active clause.
//
// A listing whose price does not parse as a number fails the filter
// outright; this is a deliberate strict-exclude policy, not a default-pass.
// Inverted bounds (min > max) are legal and simply match nothing.
func (c Criteria) Matches(l *domain.Listing) bool {
	price, err := strconv.ParseFloat(strings.TrimSpace(l.Price), 64)
	if err != nil {
		return false
	}
	if c.MinPrice != nil && price < *c.MinPrice {
		return false
	}
	if c.MaxPrice != nil && price > *c.MaxPrice {
		return false
	}
	if len(c.Categories) > 0 && !c.Categories.Has(strings.ToLower(strings.TrimSpace(l.Category))) {
		return false
	}
	if len(c.Conditions) > 0 && !c.Conditions.Has(strings.TrimSpace(l.Condition)) {
		return false
	}
	if len(c.Regions) > 0 && !c.Regions.Has(strings.TrimSpace(l.Region)) {
		return false
	}
	return true
}
