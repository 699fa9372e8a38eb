// Package series aligns sparse hourly time series against target timestamps
// and dates. Timestamps are the ISO-8601 local-time strings the forecast API
// returns ("2026-08-30T14:00"), compared by prefix rather than parsed.
package series

const (
	// hourPrefixLen covers "YYYY-MM-DDTHH".
	hourPrefixLen = 13
	// datePrefixLen covers "YYYY-MM-DD".
	datePrefixLen = 10
)

// IndexAtTimestamp locates target in times. It tries an exact match first,
// then falls back to matching on the date+hour prefix so that a current
// snapshot timestamp between grid points still resolves. Returns -1 when no
// entry matches; callers degrade to missing-value display.
func IndexAtTimestamp(times []string, target string) int {
	for i, t := range times {
		if t == target {
			return i
		}
	}
	if len(target) < hourPrefixLen {
		return -1
	}
	prefix := target[:hourPrefixLen]
	for i, t := range times {
		if len(t) >= hourPrefixLen && t[:hourPrefixLen] == prefix {
			return i
		}
	}
	return -1
}

// SliceForDate returns the values whose timestamp shares the target date's
// prefix, in original order. An empty result means the hourly series has no
// coverage for that date.
func SliceForDate(times []string, values []float64, isoDate string) []float64 {
	if len(isoDate) < datePrefixLen || len(values) < len(times) {
		return nil
	}
	prefix := isoDate[:datePrefixLen]
	var out []float64
	for i, t := range times {
		if len(t) >= datePrefixLen && t[:datePrefixLen] == prefix {
			out = append(out, values[i])
		}
	}
	return out
}

// ValueAt returns values[idx] when idx is a valid index from
// IndexAtTimestamp, along with whether a value was present.
func ValueAt(values []float64, idx int) (float64, bool) {
	if idx < 0 || idx >= len(values) {
		return 0, false
	}
	return values[idx], true
}

// SyntheticTrend builds the three-point fallback trend (min, midpoint, max)
// used when a date has no hourly coverage.
func SyntheticTrend(min, max float64) []float64 {
	return []float64{min, (min + max) / 2, max}
}
