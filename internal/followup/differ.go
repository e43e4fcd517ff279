// Package followup decides whether a change to a customer's follow-up date
// occurred and how it should be narrated in the audit trail.
package followup

import (
	"fmt"
	"time"
)

// ChangeKind classifies a follow-up transition.
type ChangeKind string

const (
	KindNoChange    ChangeKind = "NO_CHANGE"
	KindScheduled   ChangeKind = "SCHEDULED"
	KindCleared     ChangeKind = "CLEARED"
	KindRescheduled ChangeKind = "RESCHEDULED"
)

// Change is the differ's verdict. Narrative is empty iff Kind is
// KindNoChange.
type Change struct {
	Kind      ChangeKind
	Narrative string
}

// Changed reports whether an audit entry should be written.
func (c Change) Changed() bool {
	return c.Kind != KindNoChange
}

// narrativeDateLayout renders dates for humans, independent of locale.
const narrativeDateLayout = "2 Jan 2006"

// wireDateLayout is the only accepted input format.
const wireDateLayout = "2006-01-02"

// ParseDate validates a wire-format date. Malformed strings and impossible
// calendar dates are rejected before any store interaction.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(wireDateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// FormatDate renders a date for a narrative, e.g. "15 Jun 2026".
func FormatDate(t time.Time) string {
	return t.Format(narrativeDateLayout)
}

// Diff compares a record's previous and next follow-up values on the
// calendar date alone; time-of-day never participates.
func Diff(prev, next *time.Time) Change {
	switch {
	case prev == nil && next == nil:
		return Change{Kind: KindNoChange}
	case prev == nil:
		return Change{
			Kind:      KindScheduled,
			Narrative: fmt.Sprintf("Follow-up scheduled for %s.", FormatDate(*next)),
		}
	case next == nil:
		return Change{Kind: KindCleared, Narrative: "Follow-up cleared."}
	case sameDate(*prev, *next):
		return Change{Kind: KindNoChange}
	default:
		return Change{
			Kind:      KindRescheduled,
			Narrative: fmt.Sprintf("Follow-up date changed from %s to %s.", FormatDate(*prev), FormatDate(*next)),
		}
	}
}

// MarkDone clears the follow-up through the same differ but narrates the
// completion with its own fixed text. This is a business rule, not a
// shortcut; do not fold it into the generic clear.
func MarkDone(prev *time.Time) Change {
	change := Diff(prev, nil)
	if change.Kind == KindCleared {
		change.Narrative = "Follow-up marked as done."
	}
	return change
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
