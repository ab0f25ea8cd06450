// Package storage provides collaborator implementations that feed portfolio
// file bytes into the core.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/benjamingolder/portfolio-dashboard/internal/common"
)

// portfolioPattern matches the files served from the data directory.
const portfolioPattern = "*.portfolio"

// DirSource serves portfolio files from a local directory. Remote retrieval
// (or any other transport) sits behind the same PortfolioSource contract.
type DirSource struct {
	dir    string
	logger *common.Logger
}

// NewDirSource creates a source over the given directory.
func NewDirSource(dir string, logger *common.Logger) *DirSource {
	return &DirSource{dir: dir, logger: logger}
}

// List returns the base names of all portfolio files in the directory.
// A missing directory is logged and treated as empty, not as an error.
func (s *DirSource) List(ctx context.Context) ([]string, error) {
	if _, err := os.Stat(s.dir); os.IsNotExist(err) {
		s.logger.Warn().Str("dir", s.dir).Msg("Data directory does not exist")
		return nil, nil
	}

	matches, err := filepath.Glob(filepath.Join(s.dir, portfolioPattern))
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", s.dir, err)
	}

	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, filepath.Base(m))
	}
	sort.Strings(names)
	return names, nil
}

// Read returns the raw bytes of one portfolio file by base name.
func (s *DirSource) Read(ctx context.Context, name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, filepath.Base(name)))
	if err != nil {
		return nil, fmt.Errorf("read portfolio file %s: %w", name, err)
	}
	return data, nil
}
