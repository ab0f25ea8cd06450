package aggregate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benjamingolder/portfolio-dashboard/internal/common"
	"github.com/benjamingolder/portfolio-dashboard/internal/parser"
)

// fakeSource serves portfolio files from memory.
type fakeSource struct {
	files   map[string][]byte
	listErr error
}

func (s *fakeSource) List(ctx context.Context) ([]string, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	names := make([]string, 0, len(s.files))
	for name := range s.files {
		names = append(names, name)
	}
	return names, nil
}

func (s *fakeSource) Read(ctx context.Context, name string) ([]byte, error) {
	data, ok := s.files[name]
	if !ok {
		return nil, errors.New("no such file")
	}
	return data, nil
}

func encodedClient(securityName string, shares int64) []byte {
	return parser.Encode(&parser.Client{
		BaseCurrency: "CHF",
		Securities: []parser.Security{
			{
				UUID: "sec-1", Name: securityName, Currency: "CHF",
				Prices: []parser.HistoricalPrice{{Date: 18536, Close: 10000000000}}, // 100.00
			},
		},
		Transactions: []parser.Transaction{
			{
				UUID: "tx-1", Type: 0, Security: "sec-1",
				Date:   parser.Timestamp{Seconds: 1600000000},
				Amount: 500000, Shares: shares * 100000000,
			},
		},
	})
}

func TestLoadAll(t *testing.T) {
	source := &fakeSource{files: map[string][]byte{
		"a.portfolio": encodedClient("Acme Corp", 10),
		"b.portfolio": encodedClient("Acme Corp", 20),
	}}
	svc := NewService(source, common.NewSilentLogger())

	require.NoError(t, svc.LoadAll(context.Background()))

	clients := svc.Clients()
	require.Len(t, clients, 2)
	// Sorted by total value descending.
	assert.Equal(t, "b.portfolio", clients[0].Filename)
	assert.InDelta(t, 2000.0, clients[0].TotalValue, 1e-9)

	overview := svc.Overview()
	assert.Equal(t, 2, overview.ClientCount)
	assert.InDelta(t, 3000.0, overview.TotalValue, 1e-9)
	require.Len(t, overview.TopHoldings, 1, "identically named securities merge")
	assert.InDelta(t, 30.0, overview.TopHoldings[0].Shares, 1e-9)

	c, ok := svc.Client("a.portfolio")
	require.True(t, ok)
	assert.InDelta(t, 1000.0, c.TotalValue, 1e-9)

	_, ok = svc.Client("missing.portfolio")
	assert.False(t, ok)
}

func TestLoadAll_SkipsBadFiles(t *testing.T) {
	source := &fakeSource{files: map[string][]byte{
		"good.portfolio": encodedClient("Acme Corp", 10),
		"bad.portfolio":  []byte("this is not a portfolio file"),
	}}
	svc := NewService(source, common.NewSilentLogger())

	require.NoError(t, svc.LoadAll(context.Background()))

	assert.Len(t, svc.Clients(), 1)
	assert.Equal(t, 1, svc.Overview().ClientCount)
	_, ok := svc.Client("bad.portfolio")
	assert.False(t, ok)
}

func TestLoadAll_ListFailureKeepsPreviousResults(t *testing.T) {
	source := &fakeSource{files: map[string][]byte{
		"a.portfolio": encodedClient("Acme Corp", 10),
	}}
	svc := NewService(source, common.NewSilentLogger())
	require.NoError(t, svc.LoadAll(context.Background()))

	source.listErr = errors.New("directory unavailable")
	require.Error(t, svc.LoadAll(context.Background()))

	// The previous result set stays in place.
	assert.Len(t, svc.Clients(), 1)
	assert.Equal(t, 1, svc.Overview().ClientCount)
}

func TestLoadAll_ReplacesResultSet(t *testing.T) {
	source := &fakeSource{files: map[string][]byte{
		"a.portfolio": encodedClient("Acme Corp", 10),
		"b.portfolio": encodedClient("Bond Fund", 5),
	}}
	svc := NewService(source, common.NewSilentLogger())
	require.NoError(t, svc.LoadAll(context.Background()))
	require.Len(t, svc.Clients(), 2)

	firstSnapshot := svc.Overview().SnapshotID
	assert.NotEmpty(t, firstSnapshot)

	// A file disappears and another changes between loads.
	delete(source.files, "b.portfolio")
	source.files["a.portfolio"] = encodedClient("Acme Corp", 50)

	require.NoError(t, svc.LoadAll(context.Background()))
	assert.NotEqual(t, firstSnapshot, svc.Overview().SnapshotID)

	clients := svc.Clients()
	require.Len(t, clients, 1)
	assert.InDelta(t, 5000.0, clients[0].TotalValue, 1e-9)
	_, ok := svc.Client("b.portfolio")
	assert.False(t, ok)
}

func TestService_EmptyBeforeLoad(t *testing.T) {
	svc := NewService(&fakeSource{}, common.NewSilentLogger())

	assert.Empty(t, svc.Clients())
	assert.Zero(t, svc.Overview().ClientCount)
}
