package history

import (
	"errors"
	"time"

	"menumerge/internal/entity"
)

// Kind distinguishes restaurant linkage runs from menu fusion runs.
type Kind string

const (
	KindRestaurants Kind = "restaurants"
	KindMenu        Kind = "menu"
)

// ErrRunNotFound is returned when a run ID does not exist.
var ErrRunNotFound = errors.New("run not found")

// NotFoundError wraps ErrRunNotFound with the requested ID.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string { return "run " + e.ID + ": " + ErrRunNotFound.Error() }

func (e *NotFoundError) Unwrap() error { return ErrRunNotFound }

// ErrorKind classifies the error for CLI exit handling.
func (e *NotFoundError) ErrorKind() string { return entity.KindNotFound }

// Summary holds the run-level statistics stored with each run.
type Summary struct {
	TotalRecords      int     `json:"total_records"`
	Matches           int     `json:"matches"`
	UnmatchedA        int     `json:"unmatched_a"`
	UnmatchedB        int     `json:"unmatched_b"`
	MatchRate         float64 `json:"match_rate"`
	AverageConfidence float64 `json:"average_confidence"`
	AverageQuality    float64 `json:"average_quality"`
}

// Run is one persisted reconciliation run.
type Run struct {
	ID         string    `json:"id"`
	Kind       Kind      `json:"kind"`
	CreatedAt  time.Time `json:"created_at"`
	InputA     string    `json:"input_a,omitempty"`
	InputB     string    `json:"input_b,omitempty"`
	Assignment string    `json:"assignment,omitempty"`
	Summary    Summary   `json:"summary"`
}
