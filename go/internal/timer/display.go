package timer

import (
	"fmt"
	"math"
	"time"
)

// Clockify splits a remaining time into a wall clock reading. Under a minute
// the seconds keep their fraction; otherwise they are rounded up to the next
// whole second. Negative values read as zero.
func Clockify(remaining time.Duration) (minutes int, seconds float64) {
	if remaining < 0 {
		remaining = 0
	}
	total := remaining.Seconds()
	if total < 60 {
		return 0, total
	}
	rounded := int(math.Ceil(total))
	return rounded / 60, float64(rounded % 60)
}

// FormatClock renders remaining time as "m:ss", or "s.s" under a minute.
func FormatClock(remaining time.Duration) string {
	minutes, seconds := Clockify(remaining)
	if minutes > 0 {
		return fmt.Sprintf("%d:%02d", minutes, int(seconds))
	}
	return fmt.Sprintf("%.1f", seconds)
}
