package classify

import "time"

// WithinSendWindow reports whether local time t falls inside the quiet
// hours send window [startHour, endHour). The start boundary is
// inclusive, the end boundary exclusive: 09:00:00 with a 9-20 window
// may send, 20:00:00 may not. The gate applies to a whole run, not per
// record; callers abort fail-closed when it is false.
func WithinSendWindow(t time.Time, startHour, endHour int) bool {
	h := t.Hour()
	return h >= startHour && h < endHour
}
