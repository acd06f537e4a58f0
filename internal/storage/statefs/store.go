// Package statefs implements file-based storage for the coin catalog cache,
// activation state, uploaded position sheets and operator overrides.
package statefs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bobmcallan/cryptofolio/internal/common"
	"github.com/bobmcallan/cryptofolio/internal/interfaces"
)

const (
	catalogFile   = "coins_list.csv"
	stateFile     = "active_state.json"
	sheetFile     = "positions.json"
	overridesFile = "overrides.json"
)

// Store provides file-based storage under a single data directory.
// The design assumes a single writer; concurrent runs over the same data
// directory are not supported.
type Store struct {
	basePath string
	logger   *common.Logger
}

// NewStore creates the data directory and returns a store over it.
func NewStore(logger *common.Logger, path string) (*Store, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create store path %s: %w", path, err)
	}

	logger.Info().Str("path", path).Msg("StateFS store opened")
	return &Store{
		basePath: path,
		logger:   logger,
	}, nil
}

// DataPath returns the base data path.
func (s *Store) DataPath() string {
	return s.basePath
}

// CatalogStorage returns the catalog cache storage interface.
func (s *Store) CatalogStorage() interfaces.CatalogStorage {
	return &catalogStorage{store: s}
}

// StateStorage returns the activation state storage interface.
func (s *Store) StateStorage() interfaces.StateStorage {
	return &stateStorage{store: s}
}

// SheetStorage returns the position sheet storage interface.
func (s *Store) SheetStorage() interfaces.SheetStorage {
	return &sheetStorage{store: s}
}

// Close is a no-op for file-based storage.
func (s *Store) Close() error {
	return nil
}

// --- helpers ---

// writeAtomic writes data to name via a temp file and rename, so readers
// never observe a partially written artifact.
func (s *Store) writeAtomic(name string, data []byte) error {
	target := filepath.Join(s.basePath, name)

	tmpFile, err := os.CreateTemp(s.basePath, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, target); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

func (s *Store) readJSON(name string, dest interface{}) error {
	path := filepath.Join(s.basePath, name)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("'%s' not found", name)
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(data) == 0 {
		return fmt.Errorf("'%s' is empty", name)
	}
	return json.Unmarshal(data, dest)
}

func (s *Store) writeJSON(name string, data interface{}) error {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	jsonData = append(jsonData, '\n')
	return s.writeAtomic(name, jsonData)
}

// Ensure Store implements StorageManager
var _ interfaces.StorageManager = (*Store)(nil)
