package server

import (
	"fmt"
	"net/http"

	"github.com/benjamingolder/portfolio-dashboard/internal/models"
	"github.com/benjamingolder/portfolio-dashboard/internal/services/portfolio"
)

// --- Portfolio handlers ---

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, s.app.Aggregator.Overview())
}

func (s *Server) handleClientList(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	clients := s.app.Aggregator.Clients()
	summaries := make([]models.ClientPortfolio, 0, len(clients))
	for _, c := range clients {
		summaries = append(summaries, c.Summary())
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"clients": summaries,
	})
}

// lookupClient resolves a client by file name or by display name.
func (s *Server) lookupClient(name string) (*models.ClientPortfolio, bool) {
	if c, ok := s.app.Aggregator.Client(name); ok {
		return c, true
	}
	for _, c := range s.app.Aggregator.Clients() {
		if c.ClientName == name {
			return c, true
		}
	}
	return nil, false
}

func (s *Server) handleClientGet(w http.ResponseWriter, r *http.Request, name string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	client, ok := s.lookupClient(name)
	if !ok {
		WriteError(w, http.StatusNotFound, fmt.Sprintf("Client not found: %s", name))
		return
	}

	WriteJSON(w, http.StatusOK, client)
}

func (s *Server) handleClientChart(w http.ResponseWriter, r *http.Request, name string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	client, ok := s.lookupClient(name)
	if !ok {
		WriteError(w, http.StatusNotFound, fmt.Sprintf("Client not found: %s", name))
		return
	}

	png, err := portfolio.RenderValueChart(client)
	if err != nil {
		WriteError(w, http.StatusUnprocessableEntity, fmt.Sprintf("Chart rendering error: %v", err))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	s.logger.Info().Msg("Reload requested via HTTP endpoint")

	if err := s.app.Aggregator.LoadAll(r.Context()); err != nil {
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Reload error: %v", err))
		return
	}

	overview := s.app.Aggregator.Overview()
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"clients": overview.ClientCount,
	})
}
