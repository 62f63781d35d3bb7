// Package academicyear classifies the current time against an academic year's
// submission windows and checks the ordering of its boundary dates.
package academicyear

import (
	"time"

	"ideahub/internal/apperr"
)

// Status is where a point in time sits relative to a Period.
type Status string

const (
	// Valid: opening <= now <= closure. New ideas are accepted.
	Valid Status = "valid"
	// Closure: closure <= now <= final closure. The late window; ideas are blocked.
	Closure Status = "closure"
	// Invalid: before opening or after final closure.
	Invalid Status = "invalid"
)

// Period holds the three boundaries of an academic year. All bounds are inclusive.
type Period struct {
	Opening      time.Time
	Closure      time.Time
	FinalClosure time.Time
}

// Classify returns the status of now within p. Valid is checked first, so
// now == p.Closure is Valid.
func Classify(p Period, now time.Time) Status {
	switch {
	case !now.Before(p.Opening) && !now.After(p.Closure):
		return Valid
	case !now.Before(p.Closure) && !now.After(p.FinalClosure):
		return Closure
	default:
		return Invalid
	}
}

// CheckSubmission allows new ideas only while p is Valid. Closure is refused
// the same as Invalid.
func CheckSubmission(p Period, now time.Time) error {
	if Classify(p, now) != Valid {
		return apperr.InvalidState("invalid year or missing user")
	}
	return nil
}

// Validate enforces opening < closure <= final closure.
func Validate(p Period) error {
	switch {
	case p.Opening.IsZero() || p.Closure.IsZero() || p.FinalClosure.IsZero():
		return apperr.InvalidState("opening, closure and final closure dates are required")
	case !p.Opening.Before(p.Closure):
		return apperr.InvalidState("opening date must be before closure date")
	case !p.Opening.Before(p.FinalClosure):
		return apperr.InvalidState("opening date must be before final closure date")
	case p.Closure.After(p.FinalClosure):
		return apperr.InvalidState("closure date must not be after final closure date")
	}
	return nil
}
