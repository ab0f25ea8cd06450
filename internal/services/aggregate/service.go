// Package aggregate loads every available portfolio file and merges the
// per-client results into one consolidated overview.
package aggregate

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/benjamingolder/portfolio-dashboard/internal/common"
	"github.com/benjamingolder/portfolio-dashboard/internal/interfaces"
	"github.com/benjamingolder/portfolio-dashboard/internal/models"
	"github.com/benjamingolder/portfolio-dashboard/internal/services/portfolio"
)

// Service implements AggregationService. Builds run without shared state; the
// finished result set replaces the previous one in a single swap, so readers
// never observe a mix of stale and fresh clients.
type Service struct {
	source interfaces.PortfolioSource
	logger *common.Logger
	now    func() time.Time

	mu       sync.RWMutex
	clients  map[string]*models.ClientPortfolio
	overview models.AggregatedOverview
}

// NewService creates a new aggregation service.
func NewService(source interfaces.PortfolioSource, logger *common.Logger) *Service {
	return &Service{
		source:  source,
		logger:  logger,
		now:     time.Now,
		clients: make(map[string]*models.ClientPortfolio),
	}
}

// LoadAll rebuilds the full result set from the source. A file that fails to
// decode or build is logged and skipped; the remaining files still produce
// results. The fresh set is swapped in atomically once complete.
func (s *Service) LoadAll(ctx context.Context) error {
	start := s.now()
	snapshotID := uuid.NewString()

	names, err := s.source.List(ctx)
	if err != nil {
		return fmt.Errorf("list portfolio files: %w", err)
	}

	newClients := make(map[string]*models.ClientPortfolio, len(names))
	for _, name := range names {
		data, err := s.source.Read(ctx, name)
		if err != nil {
			s.logger.Warn().Err(err).Str("file", name).Msg("Failed to read portfolio file")
			filesFailed.Inc()
			continue
		}
		client, err := portfolio.Load(name, data, start)
		if err != nil {
			s.logger.Warn().Err(err).Str("file", name).Msg("Failed to parse portfolio file")
			filesFailed.Inc()
			continue
		}
		newClients[name] = client
		filesLoaded.Inc()
		s.logger.Info().
			Str("file", name).
			Float64("value", client.TotalValue).
			Str("currency", client.BaseCurrency).
			Msg("Loaded portfolio")
	}

	overview := BuildOverview(newClients, start)
	overview.SnapshotID = snapshotID

	s.mu.Lock()
	s.clients = newClients
	s.overview = overview
	s.mu.Unlock()

	loadDuration.Set(time.Since(start).Seconds())
	clientCount.Set(float64(len(newClients)))

	s.logger.Info().
		Str("snapshot", snapshotID).
		Int("clients", len(newClients)).
		Int("files", len(names)).
		Dur("elapsed", time.Since(start)).
		Msg("Portfolio load complete")
	return nil
}

// Overview returns the current cross-client roll-up.
func (s *Service) Overview() models.AggregatedOverview {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.overview
}

// Clients returns the current per-client results, sorted by total value
// descending.
func (s *Service) Clients() []*models.ClientPortfolio {
	s.mu.RLock()
	defer s.mu.RUnlock()
	clients := make([]*models.ClientPortfolio, 0, len(s.clients))
	for _, c := range s.clients {
		clients = append(clients, c)
	}
	sortClients(clients)
	return clients
}

// Client returns the result for one file by its display name.
func (s *Service) Client(filename string) (*models.ClientPortfolio, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.clients[filename]
	return c, ok
}
