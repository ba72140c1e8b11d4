package runtime

import (
	"math"
	"time"
)

// Date objects keep their time value (milliseconds since the epoch, NaN for
// invalid dates) in Object.Internal and are rendered in UTC.

const dateLayout = "Mon Jan 02 2006 15:04:05 GMT+0000 (Coordinated Universal Time)"

func TimeFromMillis(ms float64) time.Time {
	return time.UnixMilli(int64(ms)).UTC()
}

func MillisFromTime(t time.Time) float64 {
	return float64(t.UnixMilli())
}

// FormatDate renders a time value like Date#toString.
func FormatDate(ms float64) string {
	if math.IsNaN(ms) {
		return "Invalid Date"
	}
	return TimeFromMillis(ms).Format(dateLayout)
}

// FormatISODate renders a time value like Date#toISOString.
func FormatISODate(ms float64) string {
	return TimeFromMillis(ms).Format("2006-01-02T15:04:05.000Z")
}

// ParseDate accepts the ISO forms Date.parse understands; ok is false for
// anything else.
func ParseDate(s string) (float64, bool) {
	layouts := []string{
		"2006-01-02T15:04:05.000Z07:00",
		"2006-01-02T15:04:05Z07:00",
		"2006-01-02T15:04:05.000",
		"2006-01-02T15:04:05",
		"2006-01-02T15:04",
		"2006-01-02",
		"2006-01",
		"2006",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return MillisFromTime(t), true
		}
	}
	return math.NaN(), false
}
