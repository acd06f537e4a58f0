// Package sheet parses uploaded position sheets.
package sheet

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/bobmcallan/cryptofolio/internal/models"
	"github.com/bobmcallan/cryptofolio/internal/services/activation"
)

// Column headers as they appear in the uploaded sheet. Matching trims
// whitespace but is otherwise exact, mirroring the sheet template.
const (
	colToken  = "Token"
	colTarget = "Target Allocation"
	colEntry1 = "entry/%(50%)"
	colEntry2 = "entry2/%(50%)"
)

// Parse reads a CSV position sheet. The Token column is required; rows with
// an empty token are dropped and duplicate tokens collapse to the first
// occurrence. When the sheet has no Target Allocation column every position
// gets an equal split of 100%.
func Parse(r io.Reader) (*models.PositionSheet, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // tolerate ragged rows

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse sheet: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet is empty")
	}

	cols := map[string]int{}
	for i, name := range rows[0] {
		cols[strings.TrimSpace(name)] = i
	}

	tokenCol, ok := cols[colToken]
	if !ok {
		return nil, fmt.Errorf("sheet is missing required column %q", colToken)
	}
	targetCol, hasTarget := cols[colTarget]
	entry1Col, hasEntry1 := cols[colEntry1]
	entry2Col, hasEntry2 := cols[colEntry2]

	var positions []models.Position
	seen := map[string]bool{}

	for _, row := range rows[1:] {
		token := strings.TrimSpace(cell(row, tokenCol))
		if token == "" {
			continue
		}
		if seen[token] {
			continue
		}
		seen[token] = true

		pos := models.Position{Token: token}
		if hasTarget {
			if v, err := strconv.ParseFloat(strings.TrimSpace(cell(row, targetCol)), 64); err == nil {
				pos.TargetPercent = v
			}
		}
		if hasEntry1 {
			pos.Entry1 = activation.ParseThreshold(cell(row, entry1Col))
		}
		if hasEntry2 {
			pos.Entry2 = activation.ParseThreshold(cell(row, entry2Col))
		}
		positions = append(positions, pos)
	}

	if len(positions) == 0 {
		return nil, fmt.Errorf("sheet has no positions")
	}

	if !hasTarget {
		split := math.Round(100.0/float64(len(positions))*100) / 100
		for i := range positions {
			positions[i].TargetPercent = split
		}
	}

	return &models.PositionSheet{Positions: positions}, nil
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
