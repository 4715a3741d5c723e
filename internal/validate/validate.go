// Package validate gates sessions before they are admitted to the sync
// engine. A failed check blocks persistence entirely; nothing is partially
// written.
package validate

import (
	"fmt"
	"strings"
	"time"

	"github.com/yashwanthk/focusflow/internal/models"
	"github.com/yashwanthk/focusflow/internal/timeutil"
)

// Reason classifies why a session was rejected.
type Reason string

const (
	ReasonEmptyField  Reason = "empty_field"
	ReasonBadClock    Reason = "bad_clock"
	ReasonNonPositive Reason = "non_positive_duration"
	ReasonOverlap     Reason = "overlap_conflict"
	ReasonFuture      Reason = "future_timestamp"
)

// Error is a classified validation failure.
type Error struct {
	Reason  Reason
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid session (%s): %s", e.Reason, e.Message)
}

func fail(reason Reason, format string, args ...any) *Error {
	return &Error{Reason: reason, Message: fmt.Sprintf(format, args...)}
}

// Session checks a candidate against the rules and the user's existing
// sessions. excludeID is the id of the session being edited so it does not
// conflict with itself; pass "" for a new session. now is injected so that
// the future-entry check is evaluated at validation time, never cached.
// Returns the recomputed duration in minutes on success.
func Session(in models.SessionInput, existing []models.Session, excludeID string, now time.Time) (int, *Error) {
	if !in.UserID.Valid() {
		return 0, fail(ReasonEmptyField, "unknown user %q", in.UserID)
	}
	if strings.TrimSpace(in.Task) == "" {
		return 0, fail(ReasonEmptyField, "task must not be empty")
	}
	if in.Date == "" || in.StartTime == "" || in.EndTime == "" {
		return 0, fail(ReasonEmptyField, "date, start and end are required")
	}
	if _, err := timeutil.ParseDate(in.Date); err != nil {
		return 0, fail(ReasonBadClock, "%v", err)
	}

	duration, err := timeutil.ComputeDuration(in.StartTime, in.EndTime)
	if err != nil {
		return 0, fail(ReasonBadClock, "%v", err)
	}
	if duration <= 0 {
		return 0, fail(ReasonNonPositive, "start and end describe an empty interval")
	}

	if timeutil.IsFuture(in.Date, in.StartTime, now) {
		return 0, fail(ReasonFuture, "session starts in the future")
	}

	if HasOverlap(in, existing, excludeID) {
		return 0, fail(ReasonOverlap, "time range overlaps an existing session on %s", in.Date)
	}

	return duration, nil
}

// HasOverlap reports whether the candidate's interval intersects any of the
// same user's sessions on the same date, excluding excludeID. Every interval
// is normalized to minutes since midnight of the date with the same
// midnight-crossing rule, so the check is symmetric.
func HasOverlap(in models.SessionInput, existing []models.Session, excludeID string) bool {
	cStart, cEnd, err := timeutil.Interval(in.StartTime, in.EndTime)
	if err != nil {
		return false
	}
	for _, s := range existing {
		if s.ID == excludeID || s.UserID != in.UserID || s.Date != in.Date {
			continue
		}
		sStart, sEnd, err := timeutil.Interval(s.StartTime, s.EndTime)
		if err != nil {
			continue
		}
		if timeutil.Overlaps(cStart, cEnd, sStart, sEnd) {
			return true
		}
	}
	return false
}
