// Package models defines data structures for Cryptofolio
package models

// Position is a single row from an uploaded position sheet.
// TargetPercent is the intended share of total capital (0-100); when the sheet
// carries no allocation column the parser assigns an equal split.
// Entry1 and Entry2 are optional entry price thresholds; nil means not set
// (including the malformed-value case, which degrades to "not set").
type Position struct {
	Token         string   `json:"token"`
	TargetPercent float64  `json:"target_percent"`
	Entry1        *float64 `json:"entry1,omitempty"`
	Entry2        *float64 `json:"entry2,omitempty"`
}

// PositionSheet is a parsed upload: positions in sheet order, token labels
// unique (duplicates collapsed to first occurrence).
type PositionSheet struct {
	Positions []Position `json:"positions"`
}

// Tokens returns the token labels in sheet order.
func (s *PositionSheet) Tokens() []string {
	tokens := make([]string, len(s.Positions))
	for i, p := range s.Positions {
		tokens[i] = p.Token
	}
	return tokens
}
