package classify

import (
	"testing"
	"time"
)

func TestWithinSendWindow(t *testing.T) {
	t.Parallel()

	at := func(hour, min int) time.Time {
		return time.Date(2026, 3, 10, hour, min, 0, 0, time.UTC)
	}

	tests := []struct {
		name string
		t    time.Time
		want bool
	}{
		{"before start", at(8, 59), false},
		{"start boundary inclusive", at(9, 0), true},
		{"mid window", at(14, 30), true},
		{"last minute of window", at(19, 59), true},
		{"end boundary exclusive", at(20, 0), false},
		{"after end", at(23, 0), false},
		{"early morning", at(2, 15), false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := WithinSendWindow(tt.t, 9, 20); got != tt.want {
				t.Fatalf("WithinSendWindow(%s) = %v, want %v", tt.t.Format(time.Kitchen), got, tt.want)
			}
		})
	}
}
