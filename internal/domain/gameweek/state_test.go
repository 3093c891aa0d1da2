package gameweek

import (
	"testing"
	"time"
)

func mustParse(t *testing.T, value string) time.Time {
	t.Helper()
	at, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("parse %q: %v", value, err)
	}
	return at
}

func TestStateAt(t *testing.T) {
	t.Parallel()

	now := "2024-01-15T12:00:00Z"

	cases := []struct {
		name      string
		deadline  string
		windowEnd string
		now       string
		want      State
	}{
		{name: "before deadline", deadline: "2024-01-20T12:00:00Z", windowEnd: "2024-01-20T23:00:00Z", now: now, want: StateUpcoming},
		{name: "between deadline and window end", deadline: "2024-01-10T12:00:00Z", windowEnd: "2024-01-20T23:00:00Z", now: now, want: StateActive},
		{name: "after window end", deadline: "2024-01-10T12:00:00Z", windowEnd: "2024-01-12T23:00:00Z", now: now, want: StateCompleted},
		{name: "exactly at deadline", deadline: now, windowEnd: "2024-01-20T23:00:00Z", now: now, want: StateActive},
		{name: "exactly at window end", deadline: "2024-01-10T12:00:00Z", windowEnd: now, now: now, want: StateActive},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := StateAt(mustParse(t, tc.deadline), mustParse(t, tc.windowEnd), mustParse(t, tc.now))
			if got != tc.want {
				t.Fatalf("unexpected state: got=%s want=%s", got, tc.want)
			}
		})
	}
}

func TestAcceptsPredictionsAt(t *testing.T) {
	t.Parallel()

	deadline := mustParse(t, "2024-01-20T12:00:00Z")

	if !AcceptsPredictionsAt(deadline, deadline.Add(-time.Second)) {
		t.Fatal("expected writes accepted one second before the deadline")
	}
	if AcceptsPredictionsAt(deadline, deadline) {
		t.Fatal("expected writes rejected exactly at the deadline")
	}
	if AcceptsPredictionsAt(deadline, deadline.Add(time.Second)) {
		t.Fatal("expected writes rejected after the deadline")
	}
}

func TestTimingPolicyWindow(t *testing.T) {
	t.Parallel()

	policy := TimingPolicy{DeadlineLead: 90 * time.Minute, WindowExtension: 3 * time.Hour}

	first := mustParse(t, "2024-02-03T12:30:00Z")
	last := mustParse(t, "2024-02-05T16:30:00Z")
	kickoffs := []time.Time{last, {}, first}

	deadline, windowEnd, ok := policy.Window(kickoffs)
	if !ok {
		t.Fatal("expected a window from non-empty kickoffs")
	}
	if !deadline.Equal(first.Add(-90 * time.Minute)) {
		t.Fatalf("unexpected deadline: got=%s", deadline)
	}
	if !windowEnd.Equal(last.Add(3 * time.Hour)) {
		t.Fatalf("unexpected window end: got=%s", windowEnd)
	}

	if _, _, ok := policy.Window(nil); ok {
		t.Fatal("expected no window without kickoffs")
	}
	if _, _, ok := policy.Window([]time.Time{{}}); ok {
		t.Fatal("expected no window from zero kickoffs only")
	}
}
