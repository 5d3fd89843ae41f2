package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"royale-meta/internal/domain"
	"royale-meta/internal/service"
)

// MetaServer exposes finished sampling runs over plain JSON endpoints.
type MetaServer struct {
	metaSvc *service.MetaService
	logger  zerolog.Logger
}

func NewMetaServer(metaSvc *service.MetaService, logger zerolog.Logger) *MetaServer {
	return &MetaServer{metaSvc: metaSvc, logger: logger}
}

func (s *MetaServer) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/meta/runs", s.handleStartRun)
	mux.HandleFunc("GET /api/v1/meta/runs/latest", s.handleLatestRun)
	mux.HandleFunc("GET /api/v1/meta/runs/{id}", s.handleGetRun)
	mux.HandleFunc("GET /api/v1/meta/runs/{id}/archetypes", s.handleArchetypes)
	mux.HandleFunc("GET /api/v1/meta/runs/{id}/matchups", s.handleMatchups)
	mux.HandleFunc("GET /api/v1/meta/runs/{id}/notes", s.handleNotes)
}

type runResponse struct {
	ID             string    `json:"id"`
	Decision       string    `json:"decision"`
	TotalGames     int       `json:"total_games"`
	PlayersFetched int       `json:"players_fetched"`
	LoopCount      int       `json:"loop_count"`
	StartedAt      time.Time `json:"started_at"`
	FinishedAt     time.Time `json:"finished_at"`
}

type startRunResponse struct {
	runResponse
	ArchetypeSummary []domain.ArchetypeSummaryRow `json:"archetype_summary"`
	MatchupSummary   []domain.MatchupSummaryRow   `json:"matchup_summary"`
	Notes            []string                     `json:"notes"`
}

func toRunResponse(run domain.MetaRun) runResponse {
	return runResponse{
		ID:             run.ID,
		Decision:       run.Decision,
		TotalGames:     run.TotalGames,
		PlayersFetched: run.PlayersFetched,
		LoopCount:      run.LoopCount,
		StartedAt:      run.StartedAt,
		FinishedAt:     run.FinishedAt,
	}
}

func (s *MetaServer) handleStartRun(w http.ResponseWriter, r *http.Request) {
	result, err := s.metaSvc.StartRun(r.Context())
	if err != nil {
		s.writeError(w, http.StatusBadGateway, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, startRunResponse{
		runResponse:      toRunResponse(result.Run),
		ArchetypeSummary: result.Report.ArchetypeSummary,
		MatchupSummary:   result.Report.MatchupSummary,
		Notes:            result.Report.Notes,
	})
}

func (s *MetaServer) handleLatestRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.metaSvc.GetLatestRun(r.Context())
	if err != nil {
		s.writeLookupError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toRunResponse(*run))
}

func (s *MetaServer) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.metaSvc.GetRun(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeLookupError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toRunResponse(*run))
}

func (s *MetaServer) handleArchetypes(w http.ResponseWriter, r *http.Request) {
	rows, err := s.metaSvc.ArchetypeSummary(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeLookupError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rows)
}

func (s *MetaServer) handleMatchups(w http.ResponseWriter, r *http.Request) {
	rows, err := s.metaSvc.MatchupSummary(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeLookupError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rows)
}

func (s *MetaServer) handleNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := s.metaSvc.Notes(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeLookupError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, notes)
}

func (s *MetaServer) writeLookupError(w http.ResponseWriter, err error) {
	if errors.Is(err, service.ErrRunNotFound) {
		s.writeError(w, http.StatusNotFound, err)
		return
	}
	s.writeError(w, http.StatusInternalServerError, err)
}

func (s *MetaServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error().Err(err).Msg("failed to encode response")
	}
}

func (s *MetaServer) writeError(w http.ResponseWriter, status int, err error) {
	s.logger.Error().Err(err).Int("status", status).Msg("request failed")
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}
