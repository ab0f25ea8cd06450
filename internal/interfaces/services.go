// Package interfaces defines the contracts between the dashboard core and its
// collaborators.
package interfaces

import (
	"context"

	"github.com/benjamingolder/portfolio-dashboard/internal/models"
)

// PortfolioSource supplies portfolio files to the loader. Implementations own
// file discovery and retrieval; the core consumes only bytes plus a display
// filename.
type PortfolioSource interface {
	// List returns the display names of the available portfolio files.
	List(ctx context.Context) ([]string, error)

	// Read returns the raw bytes of one portfolio file.
	Read(ctx context.Context, name string) ([]byte, error)
}

// AggregationService loads every portfolio file and serves the merged results.
type AggregationService interface {
	// LoadAll rebuilds the full result set. Per-file failures are logged and
	// skipped; the fresh set replaces the previous one atomically.
	LoadAll(ctx context.Context) error

	// Overview returns the current cross-client roll-up.
	Overview() models.AggregatedOverview

	// Clients returns the current per-client results, sorted by total value.
	Clients() []*models.ClientPortfolio

	// Client returns the result for one file by its display name.
	Client(filename string) (*models.ClientPortfolio, bool)
}
