package statefs

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bobmcallan/cryptofolio/internal/models"
)

// catalogStorage persists the coin catalog as a CSV artifact mirroring the
// catalog service response. Staleness is the file modification time.
type catalogStorage struct {
	store *Store
}

func (c *catalogStorage) GetCatalog(_ context.Context) ([]models.CatalogEntry, time.Time, error) {
	path := filepath.Join(c.store.basePath, catalogFile)

	info, err := os.Stat(path)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("catalog cache not found")
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to open catalog cache: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to parse catalog cache: %w", err)
	}
	if len(rows) < 1 {
		return nil, time.Time{}, fmt.Errorf("catalog cache is empty")
	}

	// Required fields guard: a cache written by an older build (or truncated
	// by hand) is rejected so the caller falls through to a fresh fetch.
	cols := map[string]int{}
	for i, name := range rows[0] {
		cols[name] = i
	}
	idCol, idOK := cols["id"]
	symCol, symOK := cols["symbol"]
	nameCol, nameOK := cols["name"]
	if !idOK || !symOK || !nameOK {
		return nil, time.Time{}, fmt.Errorf("catalog cache is missing required columns")
	}

	entries := make([]models.CatalogEntry, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) <= idCol || len(row) <= symCol || len(row) <= nameCol {
			continue
		}
		entries = append(entries, models.CatalogEntry{
			ID:     row[idCol],
			Symbol: row[symCol],
			Name:   row[nameCol],
		})
	}

	return entries, info.ModTime(), nil
}

func (c *catalogStorage) SaveCatalog(_ context.Context, entries []models.CatalogEntry) error {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	writer.Write([]string{"id", "symbol", "name"})
	for _, e := range entries {
		writer.Write([]string{e.ID, e.Symbol, e.Name})
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to encode catalog cache: %w", err)
	}

	if err := c.store.writeAtomic(catalogFile, buf.Bytes()); err != nil {
		return fmt.Errorf("failed to save catalog cache: %w", err)
	}

	c.store.logger.Debug().Int("coins", len(entries)).Msg("Catalog cache saved")
	return nil
}
