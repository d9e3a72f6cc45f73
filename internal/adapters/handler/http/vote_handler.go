package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/votesync/internal/core/domain"
	"github.com/vncsmyrnk/votesync/internal/core/ports"
)

type VoteHandler struct {
	service ports.VoteService
}

func NewVoteHandler(service ports.VoteService) *VoteHandler {
	return &VoteHandler{
		service: service,
	}
}

type voteRequest struct {
	EntityID  string `json:"entityId"`
	Direction string `json:"direction"`
}

// Vote applies the caller's click on a project and answers with the
// project's totals as seen by the caller.
func (h *VoteHandler) Vote(w http.ResponseWriter, r *http.Request) {
	var req voteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	projectID, err := uuid.Parse(req.EntityID)
	if err != nil {
		writeError(w, http.StatusBadRequest, domain.ErrInvalidProjectID.Error())
		return
	}

	direction, err := domain.ParseDirection(req.Direction)
	if err != nil || !direction.Valid() {
		writeError(w, http.StatusBadRequest, domain.ErrInvalidDirection.Error())
		return
	}

	userID, ok := userFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized: missing user context")
		return
	}

	input := ports.VoteInput{
		ProjectID: projectID,
		UserID:    userID,
		Direction: direction,
	}

	tally, err := h.service.Vote(r.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidDirection):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrProjectNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, domain.ErrDuplicateVote):
			writeError(w, http.StatusConflict, domain.ErrDuplicateVote.Error())
		default:
			writeError(w, http.StatusInternalServerError, domain.ErrInternal.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, tally)
}
