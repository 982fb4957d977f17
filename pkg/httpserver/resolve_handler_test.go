package httpserver

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/tradewars/resolver/pkg/types"
	"go.uber.org/zap"
)

type fakeResolver struct {
	det    *types.WinnerDetermination
	err    error
	gotID  int64
	called bool
}

func (f *fakeResolver) Resolve(ctx context.Context, competitionID int64) (*types.WinnerDetermination, error) {
	f.called = true
	f.gotID = competitionID
	return f.det, f.err
}

func doResolve(resolver CompetitionResolver, id string) *httptest.ResponseRecorder {
	handler := NewResolveHandler(resolver, zap.NewNop())

	r := chi.NewRouter()
	r.Post("/api/competitions/{id}/resolve", handler.HandleResolve)

	req := httptest.NewRequest(http.MethodPost, "/api/competitions/"+id+"/resolve", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	return rec
}

func TestHandleResolve_Success(t *testing.T) {
	resolver := &fakeResolver{det: &types.WinnerDetermination{
		ID:            "det-1",
		CompetitionID: 7,
		WinnerWallet:  "w2",
		WinnerPrize:   decimal.NewFromInt(500),
		ResolvedAt:    time.Now().UTC(),
	}}

	rec := doResolve(resolver, "7")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if resolver.gotID != 7 {
		t.Errorf("expected competition id 7, got %d", resolver.gotID)
	}

	var det types.WinnerDetermination
	if err := json.Unmarshal(rec.Body.Bytes(), &det); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if det.WinnerWallet != "w2" {
		t.Errorf("expected winner w2, got %s", det.WinnerWallet)
	}
}

func TestHandleResolve_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			"not-found",
			types.NewResolutionError(types.ErrCodeCompetitionNotFound, 7, "competition does not exist"),
			http.StatusNotFound,
			types.ErrCodeCompetitionNotFound,
		},
		{
			"no-participants",
			types.NewResolutionError(types.ErrCodeNoParticipants, 7, "no players registered"),
			http.StatusConflict,
			types.ErrCodeNoParticipants,
		},
		{
			"underfilled",
			types.NewResolutionError(types.ErrCodeUnderfilled, 7, "3 of 12 players registered"),
			http.StatusConflict,
			types.ErrCodeUnderfilled,
		},
		{
			"no-usable-data",
			types.NewResolutionError(types.ErrCodeNoUsableData, 7, "no usable transaction data"),
			http.StatusUnprocessableEntity,
			types.ErrCodeNoUsableData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doResolve(&fakeResolver{err: tt.err}, "7")

			if rec.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d", tt.wantStatus, rec.Code)
			}

			var body errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode error response: %v", err)
			}
			if body.Code != tt.wantCode {
				t.Errorf("expected code %s, got %s", tt.wantCode, body.Code)
			}
		})
	}
}

func TestHandleResolve_InvalidID(t *testing.T) {
	tests := []struct {
		name string
		id   string
	}{
		{"not-a-number", "abc"},
		{"zero", "0"},
		{"negative", "-3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := &fakeResolver{}
			rec := doResolve(resolver, tt.id)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", rec.Code)
			}
			if resolver.called {
				t.Error("expected resolver not to be called for invalid id")
			}

			var body errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode error response: %v", err)
			}
			if body.Code != types.ErrCodeInvalidCompetitionID {
				t.Errorf("expected INVALID_COMPETITION_ID, got %s", body.Code)
			}
		})
	}
}

// Internal failures come back as a generic 500 with no detail in the body.
func TestHandleResolve_InternalError(t *testing.T) {
	rec := doResolve(&fakeResolver{err: errors.New("pq: connection refused")}, "7")

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}

	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if body.Error != "resolution failed" {
		t.Errorf("expected opaque error message, got %q", body.Error)
	}
}
