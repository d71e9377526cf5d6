package api

import (
	"context"
	"net/http"

	service "github.com/fidalgok/tilt-challenge-tracking-sub000/internal/app"
	"github.com/fidalgok/tilt-challenge-tracking-sub000/internal/domain/model"
)

// ChallengeDependencies defines the read operations behind the challenge
// routes.
type ChallengeDependencies interface {
	Challenges(ctx context.Context) ([]model.Challenge, error)
	Calendar(ctx context.Context, challengeID string, q service.CalendarQuery) (service.CalendarView, error)
	Days(ctx context.Context, challengeID, userID string) (service.DayTable, error)
}

// ChallengesHandler serves challenge listings, calendars and day tables.
type ChallengesHandler struct {
	deps ChallengeDependencies
}

// NewChallengesHandler creates a new challenges handler.
func NewChallengesHandler(deps ChallengeDependencies) *ChallengesHandler {
	return &ChallengesHandler{deps: deps}
}

// HandleList handles GET /challenges.
func (h *ChallengesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_challenges"
	list, err := h.deps.Challenges(r.Context())
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// HandleCalendar handles GET /challenges/{id}/calendar?view=&anchor=&nav=&tz=&user=.
func (h *ChallengesHandler) HandleCalendar(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_calendar"
	q := r.URL.Query()
	view, err := h.deps.Calendar(r.Context(), r.PathValue("id"), service.CalendarQuery{
		View:     q.Get("view"),
		Anchor:   q.Get("anchor"),
		Nav:      q.Get("nav"),
		Timezone: q.Get("tz"),
		UserID:   q.Get("user"),
	})
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// HandleDays handles GET /challenges/{id}/days?user=.
func (h *ChallengesHandler) HandleDays(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_days"
	table, err := h.deps.Days(r.Context(), r.PathValue("id"), r.URL.Query().Get("user"))
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, table)
}
