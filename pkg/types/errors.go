package types

import (
	"errors"
	"fmt"
)

// Resolution error codes surfaced to callers. Provider error payloads are
// never passed through raw.
const (
	ErrCodeInvalidCompetitionID = "INVALID_COMPETITION_ID"
	ErrCodeCompetitionNotFound  = "COMPETITION_NOT_FOUND"
	ErrCodeNoParticipants       = "NO_PARTICIPANTS"
	ErrCodeUnderfilled          = "COMPETITION_UNDERFILLED"
	ErrCodeNoUsableData         = "NO_USABLE_DATA"
)

// ResolutionError is a structured, caller-facing resolution failure.
type ResolutionError struct {
	Code          string
	Message       string
	CompetitionID int64
}

func (e *ResolutionError) Error() string {
	if e.CompetitionID != 0 {
		return fmt.Sprintf("%s: %s (competition %d)", e.Code, e.Message, e.CompetitionID)
	}

	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewResolutionError creates a ResolutionError with the given code.
func NewResolutionError(code string, competitionID int64, format string, args ...any) *ResolutionError {
	return &ResolutionError{
		Code:          code,
		Message:       fmt.Sprintf(format, args...),
		CompetitionID: competitionID,
	}
}

// ResolutionCode extracts the error code from err, or "" if err is not a
// ResolutionError.
func ResolutionCode(err error) string {
	var resErr *ResolutionError
	if errors.As(err, &resErr) {
		return resErr.Code
	}

	return ""
}
