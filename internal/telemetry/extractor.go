// Package telemetry extracts the flight log from a GPX 1.1 file into an
// in-memory telemetry table.
//
// Field policy is explicit, not a blanket coerce-or-null:
//   - lat/lon attributes are mandatory — a point that lacks them or carries
//     a non-numeric value fails the whole extraction.
//   - the <time> child is mandatory and must match domain.GPXTimeLayout —
//     any failure is fatal for the whole file.
//   - every other child (ele, ele2, course, roll, pitch, mode) is optional
//     and degrades to nil for that point only.
package telemetry

import (
	"encoding/xml"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/whcmsc/surveyprep/internal/domain"
)

// gpxNamespace is the GPX 1.1 schema namespace the extractor expects.
const gpxNamespace = "http://www.topografix.com/GPX/1/1"

// XML shapes for the subset of GPX we read. Attribute and child values are
// kept as strings so the mandatory/optional parse policy stays in one place.
type gpxFile struct {
	XMLName xml.Name   `xml:"gpx"`
	Tracks  []gpxTrack `xml:"trk"`
}

type gpxTrack struct {
	Segments []gpxSegment `xml:"trkseg"`
}

type gpxSegment struct {
	Points []gpxPoint `xml:"trkpt"`
}

type gpxPoint struct {
	Lat    string `xml:"lat,attr"`
	Lon    string `xml:"lon,attr"`
	Time   string `xml:"time"`
	Ele    string `xml:"ele"`
	Ele2   string `xml:"ele2"`
	Course string `xml:"course"`
	Roll   string `xml:"roll"`
	Pitch  string `xml:"pitch"`
	Mode   string `xml:"mode"`
}

// Extractor parses GPX flight logs into domain.TelemetryTable values.
type Extractor struct{}

// NewExtractor constructs an Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract reads and parses the GPX file at path. It returns one TrackPoint
// per trkpt element in document order, across all tracks and segments.
// An empty track is not an error; it yields an empty table.
func (e *Extractor) Extract(path string) (domain.TelemetryTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read gpx file: %w", err)
	}

	var doc gpxFile
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse gpx file %s: %w", path, err)
	}
	if doc.XMLName.Space != "" && doc.XMLName.Space != gpxNamespace {
		return nil, fmt.Errorf("%w: unexpected gpx namespace %q", domain.ErrValidation, doc.XMLName.Space)
	}

	var table domain.TelemetryTable
	for _, trk := range doc.Tracks {
		for _, seg := range trk.Segments {
			for _, raw := range seg.Points {
				p, err := parsePoint(raw, len(table))
				if err != nil {
					return nil, err
				}
				table = append(table, p)
			}
		}
	}
	return table, nil
}

// parsePoint converts one raw trkpt into a TrackPoint. ordinal is the
// document-order index, used only for error messages.
func parsePoint(raw gpxPoint, ordinal int) (domain.TrackPoint, error) {
	var p domain.TrackPoint

	lat, err := strconv.ParseFloat(strings.TrimSpace(raw.Lat), 64)
	if err != nil {
		return p, fmt.Errorf("trkpt %d: invalid lat %q: %w", ordinal, raw.Lat, err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(raw.Lon), 64)
	if err != nil {
		return p, fmt.Errorf("trkpt %d: invalid lon %q: %w", ordinal, raw.Lon, err)
	}
	p.Lat, p.Lon = lat, lon

	p.TimeRaw = strings.TrimSpace(raw.Time)
	if p.TimeRaw == "" {
		return p, fmt.Errorf("trkpt %d: missing time element", ordinal)
	}
	// No zone designator in the layout: time.Parse yields UTC directly.
	ts, err := time.Parse(domain.GPXTimeLayout, p.TimeRaw)
	if err != nil {
		return p, fmt.Errorf("trkpt %d: invalid time %q: %w", ordinal, p.TimeRaw, err)
	}
	p.Time = ts
	p.Epoch = ts.Unix() // truncation, not rounding: sub-second parts never exist here

	p.Ele = optionalFloat(raw.Ele)
	p.Ele2 = optionalFloat(raw.Ele2)
	p.Course = optionalFloat(raw.Course)
	p.Roll = optionalFloat(raw.Roll)
	p.Pitch = optionalFloat(raw.Pitch)
	p.Mode = optionalString(raw.Mode)

	return p, nil
}

// optionalFloat parses s as a float, returning nil when s is empty or does
// not parse. Permissive by design for the optional sensor fields only.
func optionalFloat(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// optionalString returns a pointer to the trimmed value, or nil when empty.
// The mode flag is kept as a string since some logs write it as text.
func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
