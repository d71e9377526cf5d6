// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fidalgok/tilt-challenge-tracking-sub000/internal/adapters/repository"
	service "github.com/fidalgok/tilt-challenge-tracking-sub000/internal/app"
	"github.com/fidalgok/tilt-challenge-tracking-sub000/internal/domain/calendar"
	"github.com/fidalgok/tilt-challenge-tracking-sub000/internal/domain/datenorm"
	"github.com/fidalgok/tilt-challenge-tracking-sub000/internal/domain/leaderboard"
)

const maxBodyBytes = 1 << 20

// Dependencies required by HTTP handlers.
type Dependencies interface {
	ChallengeDependencies
	LeaderboardDependencies
	RankDependencies
	EntryDependencies
}

// Server wires HTTP routes for the challenge API.
type Server struct {
	healthHandler      *HealthHandler
	challengesHandler  *ChallengesHandler
	leaderboardHandler *LeaderboardHandler
	rankHandler        *RankHandler
	entriesHandler     *EntriesHandler
}

// NewServer creates a new API server with all handlers. maxLimit bounds the
// leaderboard limit query parameter.
func NewServer(deps Dependencies, maxLimit int) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		challengesHandler:  NewChallengesHandler(deps),
		leaderboardHandler: NewLeaderboardHandler(deps, maxLimit),
		rankHandler:        NewRankHandler(deps),
		entriesHandler:     NewEntriesHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /challenges", MetricsMiddleware(s.challengesHandler.HandleList, "challenges"))
	mux.HandleFunc("GET /challenges/{id}/calendar", MetricsMiddleware(s.challengesHandler.HandleCalendar, "calendar"))
	mux.HandleFunc("GET /challenges/{id}/days", MetricsMiddleware(s.challengesHandler.HandleDays, "days"))
	mux.HandleFunc("GET /challenges/{id}/leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
	mux.HandleFunc("GET /challenges/{id}/rank/{user}", MetricsMiddleware(s.rankHandler.HandleGetRank, "rank"))
	mux.HandleFunc("POST /challenges/{id}/entries", MetricsMiddleware(s.entriesHandler.HandlePostEntry, "entries"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeFailure maps a service error to its status and code.
func writeFailure(w http.ResponseWriter, err error) {
	status, code := classify(err)
	writeError(w, status, code, err)
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, datenorm.ErrParse):
		return http.StatusBadRequest, "invalid_date"
	case errors.Is(err, datenorm.ErrInvalidRange):
		return http.StatusBadRequest, "invalid_range"
	case errors.Is(err, calendar.ErrInvalidViewMode):
		return http.StatusBadRequest, "invalid_view"
	case errors.Is(err, calendar.ErrInvalidDirection):
		return http.StatusBadRequest, "invalid_nav"
	case errors.Is(err, service.ErrInvalidTimezone):
		return http.StatusBadRequest, "invalid_timezone"
	case errors.Is(err, service.ErrOutsideChallenge):
		return http.StatusBadRequest, "outside_challenge"
	case errors.Is(err, service.ErrUserRequired),
		errors.Is(err, service.ErrInvalidEntryInput),
		errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, ErrTooLarge):
		return http.StatusRequestEntityTooLarge, "too_large"
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, leaderboard.ErrNotRanked):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, repository.ErrDuplicateEntry):
		return http.StatusConflict, "duplicate_entry"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
