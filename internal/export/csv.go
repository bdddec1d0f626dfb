// Package export writes the telemetry and photo tables to delimited files
// and supports the read-only time-span diagnostics. It performs no
// photo-to-trackpoint matching — correlation is visual/diagnostic only,
// a noted limitation of the current design.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/whcmsc/surveyprep/internal/domain"
)

// telemetryHeaders defines the column names written as the first row of the
// telemetry CSV. Order is stable and part of the output contract.
var telemetryHeaders = []string{
	"lat", "lon", "time", "ele", "ele2", "course", "roll", "pitch", "mode",
	"datetime_utc", "epoch_utc",
}

// photoHeaders defines the column names of the photo CSV.
var photoHeaders = []string{"new_name", "time_utc", "orig_name", "time_epoch", "time_iso"}

// WriteTelemetry encodes the telemetry table as CSV, one row per track
// point in table order. Null optional fields become empty cells.
func WriteTelemetry(w io.Writer, table domain.TelemetryTable) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(telemetryHeaders); err != nil {
		return fmt.Errorf("write telemetry header: %w", err)
	}
	for i, p := range table {
		if err := cw.Write(trackPointRecord(p)); err != nil {
			return fmt.Errorf("write telemetry row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WritePhotos encodes the photo table as CSV, one row per record in table
// order. NewName is empty for records the rename step has not touched.
func WritePhotos(w io.Writer, table domain.PhotoTable) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(photoHeaders); err != nil {
		return fmt.Errorf("write photo header: %w", err)
	}
	for i, r := range table {
		rec := []string{
			r.NewName,
			r.CaptureTime.UTC().Format(time.RFC3339),
			r.OriginalName,
			strconv.FormatInt(r.Epoch, 10),
			r.ISOTime,
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write photo row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTelemetryFile writes the telemetry CSV to path, creating or
// truncating it.
func WriteTelemetryFile(path string, table domain.TelemetryTable) error {
	return writeFile(path, func(w io.Writer) error { return WriteTelemetry(w, table) })
}

// WritePhotosFile writes the photo CSV to path, creating or truncating it.
func WritePhotosFile(path string, table domain.PhotoTable) error {
	return writeFile(path, func(w io.Writer) error { return WritePhotos(w, table) })
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// trackPointRecord encodes one track point as a flat string slice.
// Floats use the shortest representation that round-trips exactly.
func trackPointRecord(p domain.TrackPoint) []string {
	return []string{
		formatFloat(p.Lat),
		formatFloat(p.Lon),
		p.TimeRaw,
		formatOptionalFloat(p.Ele),
		formatOptionalFloat(p.Ele2),
		formatOptionalFloat(p.Course),
		formatOptionalFloat(p.Roll),
		formatOptionalFloat(p.Pitch),
		formatOptionalString(p.Mode),
		p.Time.UTC().Format(time.RFC3339),
		strconv.FormatInt(p.Epoch, 10),
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatOptionalFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

func formatOptionalString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
