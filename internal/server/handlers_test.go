package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benjamingolder/portfolio-dashboard/internal/app"
	"github.com/benjamingolder/portfolio-dashboard/internal/common"
	"github.com/benjamingolder/portfolio-dashboard/internal/parser"
	"github.com/benjamingolder/portfolio-dashboard/internal/services/aggregate"
	"github.com/benjamingolder/portfolio-dashboard/internal/storage"
)

// newTestServer writes one valid portfolio file into a temp data directory
// and wires a full app around it.
func newTestServer(t *testing.T) *Server {
	t.Helper()

	dir := t.TempDir()
	data := parser.Encode(&parser.Client{
		BaseCurrency: "CHF",
		Securities: []parser.Security{
			{
				UUID: "sec-1", Name: "Acme Corp", Currency: "CHF",
				Prices: []parser.HistoricalPrice{
					{Date: 18536, Close: 10000000000}, // 100.00 on 2020-10-01
					{Date: 18700, Close: 15000000000}, // 150.00 on 2021-03-14
				},
			},
		},
		Accounts: []parser.Account{{UUID: "acc-1", Name: "Main", Currency: "CHF"}},
		Transactions: []parser.Transaction{
			{
				UUID: "tx-1", Type: 0, Account: "acc-1", Security: "sec-1",
				Date:   parser.Timestamp{Seconds: 1600000000},
				Amount: 100000, Shares: 1000000000,
			},
		},
	})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "acme.portfolio"), data, 0644))

	logger := common.NewSilentLogger()
	source := storage.NewDirSource(dir, logger)
	aggregator := aggregate.NewService(source, logger)
	require.NoError(t, aggregator.LoadAll(context.Background()))

	a := &app.App{
		Config:      common.NewDefaultConfig(),
		Logger:      logger,
		Source:      source,
		Aggregator:  aggregator,
		StartupTime: time.Now(),
	}
	return NewServer(a)
}

func doRequest(t *testing.T, srv *Server, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/health")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestHandleVersion(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/version")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body["version"])
}

func TestHandleOverview(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/overview")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, float64(1), body["client_count"])
	assert.Equal(t, 1500.0, body["total_value"])
}

func TestHandleClientList(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/clients")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Clients []map[string]interface{} `json:"clients"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Clients, 1)
	assert.Equal(t, "acme", body.Clients[0]["client_name"])
	assert.NotContains(t, body.Clients[0], "all_transactions", "summaries omit the full history")
}

func TestHandleClientGet(t *testing.T) {
	srv := newTestServer(t)

	// By file name.
	rec := doRequest(t, srv, http.MethodGet, "/api/clients/acme.portfolio")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "acme", body["client_name"])
	assert.Contains(t, body, "all_transactions")

	// By display name.
	rec = doRequest(t, srv, http.MethodGet, "/api/clients/acme")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleClientGet_NotFound(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/clients/unknown")
	require.Equal(t, http.StatusNotFound, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body.Error, "unknown")
}

func TestHandleClientChart(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/clients/acme/chart.png")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	// PNG signature.
	require.Greater(t, rec.Body.Len(), 8)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, rec.Body.Bytes()[:4])
}

func TestHandleReload(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/api/reload")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, float64(1), body["clients"])

	rec = doRequest(t, srv, http.MethodGet, "/api/reload")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodDelete, "/api/overview")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Contains(t, rec.Header().Get("Allow"), http.MethodGet)
}

func TestUnknownClientSubpath(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/clients/acme/holdings/extra")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "portfolio_clients")
}
