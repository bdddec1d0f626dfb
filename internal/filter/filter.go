// Package filter copies photos whose embedded GPSAltitude falls inside an
// operator-supplied band into a keep folder, separating on-survey captures
// from ascent, descent, and calibration frames.
package filter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/whcmsc/surveyprep/internal/photo"
	"github.com/whcmsc/surveyprep/internal/rename"
)

// Result summarizes one filter pass.
type Result struct {
	// KeepDir is the folder the in-range photos were copied to.
	KeepDir string
	// Kept and Rejected count photos inside and outside the band.
	Kept     int
	Rejected int
	// Unreadable counts photos with no readable GPSAltitude; they are
	// rejected but also logged individually.
	Unreadable int
}

// Filter applies the altitude band.
type Filter struct {
	meta photo.MetaSource
	log  *slog.Logger
}

// New constructs a Filter backed by the provided MetaSource.
func New(meta photo.MetaSource, log *slog.Logger) *Filter {
	return &Filter{meta: meta, log: log}
}

// KeepDirName returns the keep-folder name for an altitude band,
// e.g. "keep_alt73to88".
func KeepDirName(min, max float64) string {
	return fmt.Sprintf("keep_alt%gto%g", min, max)
}

// Apply scans the accepted image files directly inside srcDir and copies
// those with min <= GPSAltitude <= max (inclusive bounds) into
// keepRoot/keep_alt{min}to{max}/. The source folder is never mutated.
func (f *Filter) Apply(srcDir, keepRoot string, min, max float64) (Result, error) {
	if min > max {
		return Result{}, fmt.Errorf("altitude band: min %g exceeds max %g", min, max)
	}

	entries, err := os.ReadDir(srcDir)
	if err != nil {
		return Result{}, fmt.Errorf("read folder: %w", err)
	}

	res := Result{KeepDir: filepath.Join(keepRoot, KeepDirName(min, max))}
	if err := os.MkdirAll(res.KeepDir, 0o755); err != nil {
		return Result{}, fmt.Errorf("create keep folder: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !photo.Accepted(entry.Name()) {
			continue
		}
		src := filepath.Join(srcDir, entry.Name())

		alt, err := f.meta.Altitude(src)
		if err != nil {
			f.log.Warn("filter: no readable altitude, rejecting", "file", entry.Name(), "error", err)
			res.Unreadable++
			res.Rejected++
			continue
		}
		if alt < min || alt > max {
			res.Rejected++
			continue
		}
		if err := rename.CopyFile(src, filepath.Join(res.KeepDir, entry.Name())); err != nil {
			return res, fmt.Errorf("copy %s to keep folder: %w", entry.Name(), err)
		}
		res.Kept++
	}

	f.log.Info("filter: altitude band applied",
		"keep_dir", res.KeepDir, "kept", res.Kept, "rejected", res.Rejected,
		"unreadable", res.Unreadable)
	return res, nil
}
