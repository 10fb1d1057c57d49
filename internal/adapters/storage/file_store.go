// Package storage implements the durable and session stores.
//
// Durable state is a small set of JSON key files under one data directory:
// one file for the quote list, one for the selected category. Writes go
// through a temp file and rename so a crash mid-write can never leave a
// half-written value behind.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jsamuelsen/quotevault/internal/domain"
)

const (
	quotesFile   = "quotes.json"
	categoryFile = "selected_category.json"

	dirPerm  = 0o755
	filePerm = 0o644
)

// FileStore is the file-backed implementation of ports.QuoteRepository.
type FileStore struct {
	dir    string
	logger *slog.Logger
}

// FileStoreConfig contains configuration for the file store.
type FileStoreConfig struct {
	// DataDir is created if missing.
	DataDir string

	Logger *slog.Logger
}

// NewFileStore creates the store and ensures the data directory exists.
func NewFileStore(cfg FileStoreConfig) (*FileStore, error) {
	if cfg.DataDir == "" {
		return nil, errors.New("data directory is required")
	}

	if err := os.MkdirAll(cfg.DataDir, dirPerm); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &FileStore{
		dir:    cfg.DataDir,
		logger: logger.With(slog.String("component", "storage.FileStore")),
	}, nil
}

// QuotesPath returns the absolute location of the quotes file, for the
// reload watcher.
func (s *FileStore) QuotesPath() string {
	return filepath.Join(s.dir, quotesFile)
}

// LoadQuotes implements ports.QuoteRepository.
func (s *FileStore) LoadQuotes(_ context.Context) ([]domain.Quote, error) {
	raw, err := os.ReadFile(s.QuotesPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.NewNotFoundError("quotes", "")
		}

		return nil, fmt.Errorf("reading quotes file: %w", err)
	}

	var quotes []domain.Quote
	if err := json.Unmarshal(raw, &quotes); err != nil {
		return nil, domain.NewStorageCorruptError("quotes", err)
	}

	return quotes, nil
}

// SaveQuotes implements ports.QuoteRepository.
func (s *FileStore) SaveQuotes(_ context.Context, quotes []domain.Quote) error {
	raw, err := json.MarshalIndent(quotes, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding quotes: %w", err)
	}

	return s.writeAtomic(quotesFile, raw)
}

// LoadSelectedCategory implements ports.QuoteRepository.
func (s *FileStore) LoadSelectedCategory(_ context.Context) (string, error) {
	raw, err := os.ReadFile(filepath.Join(s.dir, categoryFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", domain.NewNotFoundError("selected category", "")
		}

		return "", fmt.Errorf("reading selected category file: %w", err)
	}

	var category string
	if err := json.Unmarshal(raw, &category); err != nil {
		return "", domain.NewStorageCorruptError("selectedCategory", err)
	}

	return category, nil
}

// SaveSelectedCategory implements ports.QuoteRepository.
func (s *FileStore) SaveSelectedCategory(_ context.Context, category string) error {
	raw, err := json.Marshal(category)
	if err != nil {
		return fmt.Errorf("encoding selected category: %w", err)
	}

	return s.writeAtomic(categoryFile, raw)
}

// writeAtomic writes the value to a temp file in the same directory and
// renames it into place.
func (s *FileStore) writeAtomic(name string, raw []byte) error {
	target := filepath.Join(s.dir, name)

	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}

	tmpName := tmp.Name()

	_, writeErr := tmp.Write(raw)
	closeErr := tmp.Close()

	if writeErr != nil || closeErr != nil {
		_ = os.Remove(tmpName)
		if writeErr != nil {
			return fmt.Errorf("writing %s: %w", name, writeErr)
		}

		return fmt.Errorf("closing %s: %w", name, closeErr)
	}

	if err := os.Chmod(tmpName, filePerm); err != nil {
		s.logger.Warn("setting file mode failed", slog.Any("error", err))
	}

	if err := os.Rename(tmpName, target); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", name, err)
	}

	return nil
}

// Name returns the health check name for this store.
// Implements ports.HealthChecker.
func (s *FileStore) Name() string {
	return "file-store"
}

// Check verifies the data directory is still present and writable.
// Implements ports.HealthChecker.
func (s *FileStore) Check(_ context.Context) error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return fmt.Errorf("data directory: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("data directory %q is not a directory", s.dir)
	}

	probe, err := os.CreateTemp(s.dir, ".healthcheck-*")
	if err != nil {
		return fmt.Errorf("data directory not writable: %w", err)
	}

	name := probe.Name()
	_ = probe.Close()
	_ = os.Remove(name)

	return nil
}
