// Package resolver maps free-text token labels to canonical market ids.
package resolver

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/bobmcallan/cryptofolio/internal/interfaces"
	"github.com/bobmcallan/cryptofolio/internal/models"
)

// FuzzyCutoff is the minimum similarity ratio for a fuzzy name match.
// Tuned to match difflib.get_close_matches defaults.
const FuzzyCutoff = 0.6

// Resolver implements TokenResolver.
//
// Ticker symbols collide across many assets (wrapped tokens in particular),
// so symbol ties break deterministically: "btc" prefers the entry named
// "bitcoin", anything else takes the first entry in catalog order.
type Resolver struct{}

// New creates a resolver.
func New() *Resolver {
	return &Resolver{}
}

// Resolve returns the market id for a token label. Matching is ordered and
// the first stage that produces a result wins: exact symbol match (with the
// tie-breaks above), then best fuzzy match against display names at or above
// FuzzyCutoff.
func (r *Resolver) Resolve(token string, catalog []models.CatalogEntry) (string, bool) {
	label := strings.ToLower(strings.TrimSpace(token))
	if label == "" || len(catalog) == 0 {
		return "", false
	}

	var symbolMatches []models.CatalogEntry
	for _, e := range catalog {
		if strings.ToLower(e.Symbol) == label {
			symbolMatches = append(symbolMatches, e)
		}
	}
	if len(symbolMatches) > 0 {
		if label == "btc" {
			for _, e := range symbolMatches {
				if strings.ToLower(e.Name) == "bitcoin" {
					return e.ID, true
				}
			}
		}
		return symbolMatches[0].ID, true
	}

	if id, ok := r.fuzzyMatch(label, catalog); ok {
		return id, true
	}

	return "", false
}

// ResolveAll maps every position's token, preserving sheet order. Unresolved
// tokens get an empty id.
func (r *Resolver) ResolveAll(positions []models.Position, catalog []models.CatalogEntry) map[string]string {
	ids := make(map[string]string, len(positions))
	for _, p := range positions {
		if id, ok := r.Resolve(p.Token, catalog); ok {
			ids[p.Token] = id
		}
	}
	return ids
}

// fuzzyMatch finds the single best display-name match above the cutoff.
func (r *Resolver) fuzzyMatch(label string, catalog []models.CatalogEntry) (string, bool) {
	bestRatio := 0.0
	bestID := ""

	labelChars := splitChars(label)
	for _, e := range catalog {
		name := strings.ToLower(e.Name)
		if name == "" {
			continue
		}
		matcher := difflib.NewMatcher(labelChars, splitChars(name))
		if ratio := matcher.Ratio(); ratio > bestRatio {
			bestRatio = ratio
			bestID = e.ID
		}
	}

	if bestRatio >= FuzzyCutoff {
		return bestID, true
	}
	return "", false
}

// splitChars turns a string into per-rune elements for the sequence matcher,
// giving character-level similarity rather than line-level.
func splitChars(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}

// Ensure Resolver implements TokenResolver
var _ interfaces.TokenResolver = (*Resolver)(nil)
