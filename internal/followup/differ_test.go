package followup

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(t *testing.T, s string) *time.Time {
	t.Helper()
	parsed, err := ParseDate(s)
	require.NoError(t, err)
	return &parsed
}

func TestDiff(t *testing.T) {
	tests := []struct {
		name          string
		prev          *time.Time
		next          *time.Time
		wantKind      ChangeKind
		wantNarrative string
	}{
		{
			name:     "both nil",
			wantKind: KindNoChange,
		},
		{
			name:          "scheduled",
			next:          date(t, "2026-06-15"),
			wantKind:      KindScheduled,
			wantNarrative: "Follow-up scheduled for 15 Jun 2026.",
		},
		{
			name:          "cleared",
			prev:          date(t, "2026-06-15"),
			wantKind:      KindCleared,
			wantNarrative: "Follow-up cleared.",
		},
		{
			name:     "same date",
			prev:     date(t, "2026-06-15"),
			next:     date(t, "2026-06-15"),
			wantKind: KindNoChange,
		},
		{
			name:          "rescheduled",
			prev:          date(t, "2026-06-15"),
			next:          date(t, "2026-07-01"),
			wantKind:      KindRescheduled,
			wantNarrative: "Follow-up date changed from 15 Jun 2026 to 1 Jul 2026.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			change := Diff(tt.prev, tt.next)
			assert.Equal(t, tt.wantKind, change.Kind)
			assert.Equal(t, tt.wantNarrative, change.Narrative)
			assert.Equal(t, tt.wantKind != KindNoChange, change.Changed())
		})
	}
}

func TestDiffIgnoresTimeOfDay(t *testing.T) {
	morning := time.Date(2026, time.June, 15, 8, 30, 0, 0, time.UTC)
	evening := time.Date(2026, time.June, 15, 22, 0, 0, 0, time.UTC)

	change := Diff(&morning, &evening)
	assert.Equal(t, KindNoChange, change.Kind)
}

func TestMarkDone(t *testing.T) {
	change := MarkDone(date(t, "2026-06-15"))
	assert.Equal(t, KindCleared, change.Kind)
	assert.Equal(t, "Follow-up marked as done.", change.Narrative)
}

func TestMarkDoneWithoutFollowUp(t *testing.T) {
	change := MarkDone(nil)
	assert.Equal(t, KindNoChange, change.Kind)
	assert.Empty(t, change.Narrative)
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{input: "2026-06-15"},
		{input: "2026-02-29", wantErr: true},
		{input: "15-06-2026", wantErr: true},
		{input: "2026-13-40", wantErr: true},
		{input: "not-a-date", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			parsed, err := ParseDate(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.input, parsed.Format("2006-01-02"))
		})
	}
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "1 Jul 2026", FormatDate(time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "15 Jun 2026", FormatDate(time.Date(2026, time.June, 15, 0, 0, 0, 0, time.UTC)))
}
