package kernel

import (
	"strings"
	"time"

	"pharmadelivery/internal/pkg/errs"
)

// Weekdays packs the seven day-of-week flags of a recurrence into one byte:
// Monday is bit 0, Sunday is bit 6.
type Weekdays uint8

const AllWeekdays Weekdays = 0x7f

var weekdayNames = [7]string{"mon", "tue", "wed", "thu", "fri", "sat", "sun"}

// EncodeWeekdays packs flags indexed Monday..Sunday.
func EncodeWeekdays(days [7]bool) Weekdays {
	var w Weekdays
	for i, on := range days {
		if on {
			w |= 1 << i
		}
	}
	return w
}

// Days unpacks the mask; it is the inverse of EncodeWeekdays.
func (w Weekdays) Days() [7]bool {
	var days [7]bool
	for i := range days {
		days[i] = w&(1<<i) != 0
	}
	return days
}

// Validate rejects masks with bits above Sunday.
// Returns errs.ErrValueIsOutOfRange for such a mask.
func (w Weekdays) Validate() error {
	if w > AllWeekdays {
		return errs.NewValueIsOutOfRangeError("weekdays", int(w), 0, int(AllWeekdays))
	}
	return nil
}

// Includes reports whether the weekday of t is part of the recurrence.
func (w Weekdays) Includes(t time.Time) bool {
	return w&(1<<mondayIndex(t.Weekday())) != 0
}

// ParseWeekdays reads a comma separated list such as "mon,tue,fri".
func ParseWeekdays(s string) (Weekdays, error) {
	var w Weekdays
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		idx := -1
		for i, name := range weekdayNames {
			if name == part {
				idx = i
				break
			}
		}
		if idx < 0 {
			return 0, errs.NewValueIsInvalidError("weekday " + part)
		}
		w |= 1 << idx
	}
	return w, nil
}

// String lists the set days as lowercase three-letter names joined by commas,
// the format ParseWeekdays reads. The empty mask prints as "".
func (w Weekdays) String() string {
	names := make([]string, 0, len(weekdayNames))
	for i, name := range weekdayNames {
		if w&(1<<i) != 0 {
			names = append(names, name)
		}
	}
	return strings.Join(names, ",")
}

func mondayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}
