// Package hours evaluates weekly opening periods against a reference instant.
package hours

import (
	"time"

	"github.com/sells-group/picker-cli/internal/model"
)

// PackTime converts a clock reading to the packed HHMM form used by opening
// periods (14:05 -> 1405).
func PackTime(hour, minute int) int {
	return hour*100 + minute
}

// IsOpenNow reports whether any period covers the reference instant. The
// result is nil ("unknown") when there are no periods at all or none for the
// instant's weekday; unknown is never collapsed to closed.
//
// A period whose close is earlier than its open crosses midnight and is
// treated as wrapping: open when t >= open OR t < close.
func IsOpenNow(periods []model.OpeningPeriod, ref time.Time) *bool {
	if len(periods) == 0 {
		return nil
	}

	day := int(ref.Weekday())
	now := PackTime(ref.Hour(), ref.Minute())

	matched := false
	open := false
	for _, p := range periods {
		if p.Day != day {
			continue
		}
		matched = true
		if covers(p, now) {
			open = true
			break
		}
	}

	if !matched {
		return nil
	}
	return &open
}

// covers checks now against [open, close), wrapping across midnight when
// close < open.
func covers(p model.OpeningPeriod, now int) bool {
	if p.Close < p.Open {
		return now >= p.Open || now < p.Close
	}
	return now >= p.Open && now < p.Close
}
