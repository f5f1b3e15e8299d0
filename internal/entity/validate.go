package entity

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	// ErrDuplicateIdentity reports two entities sharing (origin, id) within one input set.
	ErrDuplicateIdentity = errors.New("duplicate entity identity")
	// ErrMissingField reports a required field that is absent.
	ErrMissingField = errors.New("missing required field")
	// ErrInvalidConfidence reports a candidate confidence outside [0,1].
	ErrInvalidConfidence = errors.New("confidence out of range")
)

// ValidationError describes a caller contract violation in an input set.
type ValidationError struct {
	Set   string
	Index int
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	if e.Set != "" {
		b.WriteString(e.Set)
		b.WriteByte(' ')
	}
	fmt.Fprintf(&b, "[%d]", e.Index)
	if e.Field != "" {
		b.WriteString(" ")
		b.WriteString(e.Field)
	}
	b.WriteString(": ")
	if e.Err != nil {
		b.WriteString(e.Err.Error())
	} else {
		b.WriteString("invalid input")
	}
	return b.String()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// ErrorKind classifies validation failures for callers that map error kinds.
func (e *ValidationError) ErrorKind() string { return KindValidation }

// ValidateEntities checks identities within one input set. Degraded signals
// (blank names, missing coordinates or phones) are not errors.
func ValidateEntities(set string, entities []SourceEntity) error {
	seen := make(map[Key]int, len(entities))
	for i, e := range entities {
		if strings.TrimSpace(e.SourceID) == "" {
			return &ValidationError{Set: set, Index: i, Field: "id", Err: ErrMissingField}
		}
		if strings.TrimSpace(e.OriginTag) == "" {
			return &ValidationError{Set: set, Index: i, Field: "origin", Err: ErrMissingField}
		}
		key := e.Key()
		if first, dup := seen[key]; dup {
			return &ValidationError{
				Set:   set,
				Index: i,
				Field: "id",
				Err:   fmt.Errorf("%w: %s also at index %d", ErrDuplicateIdentity, key, first),
			}
		}
		seen[key] = i
	}
	return nil
}

// ValidateCandidates checks candidate confidences.
func ValidateCandidates(candidates []ExtractionCandidate) error {
	for i, c := range candidates {
		if math.IsNaN(c.Confidence) || c.Confidence < 0 || c.Confidence > 1 {
			return &ValidationError{
				Set:   "candidates",
				Index: i,
				Field: "confidence",
				Err:   fmt.Errorf("%w: %v", ErrInvalidConfidence, c.Confidence),
			}
		}
	}
	return nil
}
