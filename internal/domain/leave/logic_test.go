package leave

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestInclusiveDays(t *testing.T) {
	cases := []struct {
		name   string
		start  time.Time
		resume time.Time
		want   int
	}{
		{"five day leave", date(2024, 1, 15), date(2024, 1, 20), 5},
		{"single day leave", date(2024, 1, 15), date(2024, 1, 16), 1},
		{"same day span is empty", date(2024, 1, 15), date(2024, 1, 15), 0},
		{"across month boundary", date(2024, 1, 30), date(2024, 2, 2), 3},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := InclusiveDays(tc.start, tc.resume)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %d days, got %d", tc.want, got)
			}
		})
	}
}

func TestInclusiveDaysRejectsReversedRange(t *testing.T) {
	if _, err := InclusiveDays(date(2024, 2, 10), date(2024, 2, 9)); err == nil {
		t.Fatal("expected error for resume before start")
	}
}

func TestTerminalStatus(t *testing.T) {
	for _, status := range []string{StatusApproved, StatusRejected} {
		if !TerminalStatus(status) {
			t.Fatalf("expected %s to be terminal", status)
		}
	}
	for _, status := range []string{StatusPending, StatusRecommended} {
		if TerminalStatus(status) {
			t.Fatalf("expected %s to be non-terminal", status)
		}
	}
}
