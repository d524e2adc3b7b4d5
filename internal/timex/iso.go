package timex

import (
	"fmt"
	"time"
)

// naive layouts written by tools that drop the zone offset; they are read
// in local time.
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// FormatISO renders t as RFC 3339 with nanosecond precision.
func FormatISO(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

// ParseISO accepts RFC 3339 timestamps and the zone-less variants above.
func ParseISO(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
