package weighting

import (
	"math"
	"strings"
	"time"
)

// Default recency-decay parameters.
const (
	DefaultDecayWindowDays   = 15.0
	DefaultDecayHalfLifeDays = 3.0
	DefaultDecayFloor        = 0.05
)

// Decay configures the two-phase recency curve: exponential half-life
// decay inside the window, a constant floor outside it.
type Decay struct {
	WindowDays   float64
	HalfLifeDays float64
	Floor        float64
}

// DefaultDecay returns the tuned decay parameters.
func DefaultDecay() Decay {
	return Decay{
		WindowDays:   DefaultDecayWindowDays,
		HalfLifeDays: DefaultDecayHalfLifeDays,
		Floor:        DefaultDecayFloor,
	}
}

// ScoreTime computes the recency multiplier for a timestamp.
// A nil timestamp returns 1.0: unknown-age content is never penalised.
// Future timestamps are clamped to age zero.
func ScoreTime(ts *time.Time, now time.Time, d Decay) float64 {
	if ts == nil {
		return 1.0
	}

	ageDays := now.Sub(*ts).Hours() / 24.0
	if ageDays < 0 {
		ageDays = 0
	}

	floor := clamp(d.Floor, 0, 1)

	// A non-positive window degenerates to the floor everywhere.
	if d.WindowDays <= 0 {
		return floor
	}

	// A non-positive half-life degenerates to a step function.
	if d.HalfLifeDays <= 0 {
		if ageDays <= d.WindowDays {
			return 1.0
		}
		return floor
	}

	if ageDays <= d.WindowDays {
		// exp(-ln2 * age/halfLife) == 2^(-age/halfLife), floored so the
		// output range is [floor, 1] over the whole domain.
		return clamp(math.Exp(-math.Ln2*ageDays/d.HalfLifeDays), floor, 1)
	}
	return floor
}

// ParseTimestamp parses an ISO-8601 timestamp, tolerating a trailing
// "Z" and missing zone information (assumed UTC). The second return is
// false when the string is empty or unparseable; callers must then treat
// the age as unknown rather than erroring.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	s = strings.Replace(s, "Z", "+00:00", 1)

	layouts := []string{
		"2006-01-02T15:04:05.999999999-07:00",
		"2006-01-02T15:04:05-07:00",
		"2006-01-02T15:04:05.999999999",
		"2006-01-02T15:04:05",
		"2006-01-02",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
