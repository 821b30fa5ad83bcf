package timex

import (
	"fmt"
	"time"
)

// FormatDisplay renders t as "YYYY-M-D / H:MM" in loc. Month, day and hour are
// not padded, minutes always have two digits.
func FormatDisplay(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	return fmt.Sprintf("%d-%d-%d / %d:%02d", t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute())
}
