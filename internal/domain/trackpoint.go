// Package domain contains the core data types for the survey preparation
// pipeline. This package has zero external dependencies and is imported by
// every other internal package.
//
// Operating precondition: both the GPX log and the camera clock are assumed
// to already be in UTC, by field convention (computer clock set to UTC before
// log conversion, camera pre-set to UTC). Nothing in the data asserts this,
// and nothing here tries to detect it.
package domain

import "time"

// GPXTimeLayout is the fixed timestamp layout found in trackpoint <time>
// elements: seconds resolution, no fractional seconds, no zone designator.
// Values are taken as UTC by the operating precondition above.
const GPXTimeLayout = "2006-01-02T15:04:05"

// TrackPoint is one timestamped GPS fix from the flight log.
// Lat, Lon and the time fields are mandatory; every other field is optional
// and nil when the source element is absent or unparsable for that point.
type TrackPoint struct {
	Lat float64
	Lon float64

	// Optional sensor/attitude fields. nil = not present for this point.
	Ele    *float64
	Ele2   *float64
	Course *float64
	Roll   *float64
	Pitch  *float64
	Mode   *string

	// TimeRaw is the timestamp string exactly as found in the GPX file.
	TimeRaw string
	// Time is TimeRaw parsed with GPXTimeLayout, in UTC.
	Time time.Time
	// Epoch is Time as integer seconds since the Unix epoch, truncated.
	Epoch int64
}

// TelemetryTable is the ordered sequence of track points from one GPX file.
// Order is document order, which for a well-formed flight log is also time
// order. The table is built once per run and never persisted beyond CSV.
type TelemetryTable []TrackPoint

// TelemetrySummary carries the diagnostic counts reported after extraction.
// A DistinctTimes value below Total signals duplicate-timestamp anomalies
// seen in some GPS logs.
type TelemetrySummary struct {
	Total         int
	DistinctTimes int
}

// Summary returns the total row count and the count of distinct raw
// timestamp strings.
func (t TelemetryTable) Summary() TelemetrySummary {
	seen := make(map[string]struct{}, len(t))
	for _, p := range t {
		seen[p.TimeRaw] = struct{}{}
	}
	return TelemetrySummary{Total: len(t), DistinctTimes: len(seen)}
}

// CheckMonotonic returns the indexes of every point whose Epoch is smaller
// than its predecessor's. A well-formed flight log yields none; violations
// are reported to the operator, never silently swallowed and never fatal.
func (t TelemetryTable) CheckMonotonic() []int {
	var bad []int
	for i := 1; i < len(t); i++ {
		if t[i].Epoch < t[i-1].Epoch {
			bad = append(bad, i)
		}
	}
	return bad
}

// Span returns the first and last point times. ok is false for an empty table.
func (t TelemetryTable) Span() (start, end time.Time, ok bool) {
	if len(t) == 0 {
		return time.Time{}, time.Time{}, false
	}
	return t[0].Time, t[len(t)-1].Time, true
}
