package domain

import "time"

// ExifTimeLayout is the capture-time layout of the EXIF DateTimeOriginal
// field. The camera clock is taken as UTC by operating convention.
const ExifTimeLayout = "2006:01:02 15:04:05"

// CompactISOLayout is the compact UTC form used inside standardized
// filenames, e.g. 20180601T120001Z.
const CompactISOLayout = "20060102T150405Z"

// PhotoRecord is one image file from the survey folder.
// NewName stays empty until the rename step assigns it.
type PhotoRecord struct {
	// OriginalName is the file's base name, unique within the folder.
	OriginalName string
	// CaptureTime is the parsed DateTimeOriginal value, UTC.
	CaptureTime time.Time
	// Epoch is CaptureTime as truncated Unix seconds.
	Epoch int64
	// ISOTime is CaptureTime in CompactISOLayout.
	ISOTime string
	// NewName is the standardized filename, assigned by the rename step.
	NewName string
}

// NewPhotoRecord builds a PhotoRecord with the derived time fields filled in.
func NewPhotoRecord(name string, captured time.Time) PhotoRecord {
	captured = captured.UTC()
	return PhotoRecord{
		OriginalName: name,
		CaptureTime:  captured,
		Epoch:        captured.Unix(),
		ISOTime:      captured.Format(CompactISOLayout),
	}
}

// PhotoTable is the ordered sequence of photo records from one folder scan.
// Order is directory listing order and must not be assumed chronological.
type PhotoTable []PhotoRecord

// Bounds returns the first and last record for operator sanity-checking
// against the telemetry time span. ok is false for an empty table.
func (p PhotoTable) Bounds() (first, last PhotoRecord, ok bool) {
	if len(p) == 0 {
		return PhotoRecord{}, PhotoRecord{}, false
	}
	return p[0], p[len(p)-1], true
}

// CaptureSpan returns the earliest and latest capture times in the table,
// scanning every record since listing order is not chronological.
// ok is false for an empty table.
func (p PhotoTable) CaptureSpan() (earliest, latest time.Time, ok bool) {
	if len(p) == 0 {
		return time.Time{}, time.Time{}, false
	}
	earliest, latest = p[0].CaptureTime, p[0].CaptureTime
	for _, r := range p[1:] {
		if r.CaptureTime.Before(earliest) {
			earliest = r.CaptureTime
		}
		if r.CaptureTime.After(latest) {
			latest = r.CaptureTime
		}
	}
	return earliest, latest, true
}
