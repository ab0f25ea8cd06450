package server

import (
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/benjamingolder/portfolio-dashboard/internal/common"
)

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)
	mux.HandleFunc("/api/reload", s.handleReload)
	mux.Handle("/metrics", promhttp.Handler())

	// Portfolios
	mux.HandleFunc("/api/overview", s.handleOverview)
	mux.HandleFunc("/api/clients/", s.routeClients)
	mux.HandleFunc("/api/clients", s.handleClientList)
}

// routeClients dispatches /api/clients/{name} and /api/clients/{name}/chart.png.
func (s *Server) routeClients(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/clients/")
	if rest == "" {
		s.handleClientList(w, r)
		return
	}

	if strings.HasSuffix(rest, "/chart.png") {
		name := strings.TrimSuffix(rest, "/chart.png")
		s.handleClientChart(w, r, name)
		return
	}

	if strings.Contains(rest, "/") {
		WriteError(w, http.StatusNotFound, "Not found")
		return
	}
	s.handleClientGet(w, r, rest)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.Build,
		"commit":  common.GitCommit,
	})
}
