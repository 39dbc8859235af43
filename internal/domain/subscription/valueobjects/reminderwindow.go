package valueobjects

import (
	"fmt"
	"time"
)

// ReminderWindow is the rolling span ahead of "now" in which a renewal
// reminder is due. Both bounds are exclusive, so a skipped or late pass still
// catches a subscription on the next run instead of needing an exact day match.
type ReminderWindow struct {
	min time.Duration
	max time.Duration
}

func NewReminderWindow(min, max time.Duration) (ReminderWindow, error) {
	if min < 0 || max <= min {
		return ReminderWindow{}, fmt.Errorf("invalid reminder window: min=%s max=%s", min, max)
	}
	return ReminderWindow{min: min, max: max}, nil
}

// DefaultReminderWindow is (now+1d, now+7d).
func DefaultReminderWindow() ReminderWindow {
	return ReminderWindow{min: 24 * time.Hour, max: 7 * 24 * time.Hour}
}

// Bounds returns the exclusive [from, to] end-date range relative to now.
func (w ReminderWindow) Bounds(now time.Time) (time.Time, time.Time) {
	return now.Add(w.min), now.Add(w.max)
}

// Contains reports whether endDate lies strictly inside the window.
func (w ReminderWindow) Contains(now, endDate time.Time) bool {
	from, to := w.Bounds(now)
	return endDate.After(from) && endDate.Before(to)
}

func (w ReminderWindow) Min() time.Duration { return w.min }
func (w ReminderWindow) Max() time.Duration { return w.max }
