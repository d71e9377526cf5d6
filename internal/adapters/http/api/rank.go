package api

import (
	"context"
	"net/http"

	service "github.com/fidalgok/tilt-challenge-tracking-sub000/internal/app"
)

// RankDependencies defines the interface for rank operations.
type RankDependencies interface {
	Rank(ctx context.Context, challengeID, userID string) (service.Standing, error)
}

// RankHandler handles rank requests.
type RankHandler struct {
	deps RankDependencies
}

// NewRankHandler creates a new rank handler.
func NewRankHandler(deps RankDependencies) *RankHandler {
	return &RankHandler{deps: deps}
}

// HandleGetRank handles GET /challenges/{id}/rank/{user} requests.
func (h *RankHandler) HandleGetRank(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_rank"
	standing, err := h.deps.Rank(r.Context(), r.PathValue("id"), r.PathValue("user"))
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, standing)
}
