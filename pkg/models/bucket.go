package models

import (
	"fmt"
	"strings"
)

// TimeBucket is a closed-open range of local hours, [StartHour, EndHour).
type TimeBucket struct {
	Name      string
	StartHour int
	EndHour   int
}

var (
	Morning   = TimeBucket{Name: "morning", StartHour: 9, EndHour: 12}
	Afternoon = TimeBucket{Name: "afternoon", StartHour: 13, EndHour: 17}
)

// ParseTimeBucket resolves a symbolic bucket name, ignoring case and
// surrounding whitespace.
func ParseTimeBucket(s string) (TimeBucket, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case Morning.Name:
		return Morning, nil
	case Afternoon.Name:
		return Afternoon, nil
	default:
		return TimeBucket{}, fmt.Errorf("unknown time of day %q", s)
	}
}

// Contains reports whether hour falls inside the bucket.
func (b TimeBucket) Contains(hour int) bool {
	return hour >= b.StartHour && hour < b.EndHour
}

func (b TimeBucket) String() string {
	return b.Name
}
