package httpserver

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"github.com/tradewars/resolver/pkg/types"
	"go.uber.org/zap"
)

// CompetitionResolver runs a full resolution for one competition.
type CompetitionResolver interface {
	Resolve(ctx context.Context, competitionID int64) (*types.WinnerDetermination, error)
}

// ResolveHandler serves the resolution endpoint.
type ResolveHandler struct {
	resolver CompetitionResolver
	logger   *zap.Logger
}

// NewResolveHandler creates a new ResolveHandler.
func NewResolveHandler(resolver CompetitionResolver, logger *zap.Logger) *ResolveHandler {
	return &ResolveHandler{
		resolver: resolver,
		logger:   logger,
	}
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HandleResolve handles POST /api/competitions/{id}/resolve.
func (h *ResolveHandler) HandleResolve(w http.ResponseWriter, r *http.Request) {
	idParam := chi.URLParam(r, "id")

	competitionID, err := strconv.ParseInt(idParam, 10, 64)
	if err != nil || competitionID <= 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error: "competition id must be a positive integer",
			Code:  types.ErrCodeInvalidCompetitionID,
		})
		return
	}

	det, err := h.resolver.Resolve(r.Context(), competitionID)
	if err != nil {
		h.writeResolutionError(w, competitionID, err)
		return
	}

	writeJSON(w, http.StatusOK, det)
}

// writeResolutionError maps resolution error codes onto HTTP statuses.
// Precondition failures are 409 so callers know to retry later; they are
// not permanent the way a bad id is.
func (h *ResolveHandler) writeResolutionError(w http.ResponseWriter, competitionID int64, err error) {
	code := types.ResolutionCode(err)

	status := http.StatusInternalServerError
	message := "resolution failed"

	switch code {
	case types.ErrCodeCompetitionNotFound:
		status = http.StatusNotFound
		message = err.Error()
	case types.ErrCodeNoParticipants, types.ErrCodeUnderfilled:
		status = http.StatusConflict
		message = err.Error()
	case types.ErrCodeNoUsableData:
		status = http.StatusUnprocessableEntity
		message = err.Error()
	}

	if status == http.StatusInternalServerError {
		// Internal details stay in the logs.
		h.logger.Error("resolution-failed",
			zap.Int64("competition-id", competitionID),
			zap.Error(err))
	}

	writeJSON(w, status, errorResponse{Error: message, Code: code})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
