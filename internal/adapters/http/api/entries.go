package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	service "github.com/fidalgok/tilt-challenge-tracking-sub000/internal/app"
	"github.com/fidalgok/tilt-challenge-tracking-sub000/internal/domain/model"
)

// EntryDependencies defines the write operation behind the entries route.
type EntryDependencies interface {
	LogEntry(ctx context.Context, challengeID string, in service.EntryInput) (model.Entry, error)
}

// EntriesHandler handles entry submissions.
type EntriesHandler struct {
	deps EntryDependencies
}

// NewEntriesHandler creates a new entries handler.
func NewEntriesHandler(deps EntryDependencies) *EntriesHandler {
	return &EntriesHandler{deps: deps}
}

// HandlePostEntry handles POST /challenges/{id}/entries requests.
func (h *EntriesHandler) HandlePostEntry(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_entry"
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var in service.EntryInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeFailure(w, WrapKind(op, ErrTooLarge, err))
			return
		}
		writeFailure(w, WrapKind(op, ErrBadRequest, err))
		return
	}

	e, err := h.deps.LogEntry(r.Context(), r.PathValue("id"), in)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, e)
}
