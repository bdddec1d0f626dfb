package export

import (
	"fmt"
	"time"

	"github.com/whcmsc/surveyprep/internal/domain"
)

// SpanReport compares the telemetry time span against the photo capture
// span so the operator can confirm every photo falls inside the flight.
type SpanReport struct {
	TelemetryStart time.Time
	TelemetryEnd   time.Time
	PhotoEarliest  time.Time
	PhotoLatest    time.Time
	PhotoCount     int
	// OutOfSpan counts photos captured outside [TelemetryStart, TelemetryEnd].
	OutOfSpan int
}

// InSpan reports whether every photo capture time falls within the
// telemetry span.
func (r SpanReport) InSpan() bool { return r.OutOfSpan == 0 }

// CompareSpans builds a SpanReport for the two tables.
// An empty telemetry table is a clear failure: span comparison depends on a
// flight log. An empty photo table yields a report with PhotoCount 0.
func CompareSpans(tel domain.TelemetryTable, photos domain.PhotoTable) (SpanReport, error) {
	start, end, ok := tel.Span()
	if !ok {
		return SpanReport{}, fmt.Errorf("span comparison: telemetry table: %w", domain.ErrEmptyTable)
	}

	rep := SpanReport{
		TelemetryStart: start,
		TelemetryEnd:   end,
		PhotoCount:     len(photos),
	}
	if earliest, latest, ok := photos.CaptureSpan(); ok {
		rep.PhotoEarliest = earliest
		rep.PhotoLatest = latest
	}
	for _, p := range photos {
		if p.CaptureTime.Before(start) || p.CaptureTime.After(end) {
			rep.OutOfSpan++
		}
	}
	return rep, nil
}
