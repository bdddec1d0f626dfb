// Package pipeline wires the preparation stages together and runs them in
// order. Execution is single-threaded and sequential: every stage runs to
// completion before the next begins, and any stage failure aborts the rest
// — except the diagnostic plot, which only degrades to a warning because it
// mutates nothing.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/whcmsc/surveyprep/internal/config"
	"github.com/whcmsc/surveyprep/internal/domain"
	"github.com/whcmsc/surveyprep/internal/exiftool"
	"github.com/whcmsc/surveyprep/internal/export"
	"github.com/whcmsc/surveyprep/internal/filter"
	"github.com/whcmsc/surveyprep/internal/plot"
)

// TelemetryExtractor parses a GPX file into a telemetry table.
type TelemetryExtractor interface {
	Extract(path string) (domain.TelemetryTable, error)
}

// PhotoReader scans an image folder into a photo table.
type PhotoReader interface {
	Read(dir string) (domain.PhotoTable, error)
}

// Stager copies and renames the photo folder.
type Stager interface {
	Stage(srcDir, dstDir string, photos domain.PhotoTable) (domain.PhotoTable, error)
}

// Tagger issues the external tagging tool's invocations.
type Tagger interface {
	Geotag(ctx context.Context, gpxPath, imgDir, offset string) error
	WriteStandardTags(ctx context.Context, imgDir string, meta exiftool.Metadata) error
	WriteFlightComment(ctx context.Context, imgDir, flightID string) error
}

// AltFilter applies the optional altitude band.
type AltFilter interface {
	Apply(srcDir, keepRoot string, min, max float64) (filter.Result, error)
}

// Pipeline holds one run's configuration and stage implementations.
type Pipeline struct {
	cfg       config.Config
	log       *slog.Logger
	extractor TelemetryExtractor
	reader    PhotoReader
	stager    Stager
	tagger    Tagger
	filter    AltFilter
}

// New constructs a Pipeline. Every log line of the run carries a fresh
// run_id so interleaved operator sessions stay distinguishable.
func New(cfg config.Config, log *slog.Logger, ex TelemetryExtractor, rd PhotoReader,
	st Stager, tg Tagger, fl AltFilter) *Pipeline {
	return &Pipeline{
		cfg:       cfg,
		log:       log.With("run_id", uuid.NewString()),
		extractor: ex,
		reader:    rd,
		stager:    st,
		tagger:    tg,
		filter:    fl,
	}
}

// resolve joins a configured path onto HomeDir when it is relative.
func (p *Pipeline) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) || p.cfg.HomeDir == "" {
		return path
	}
	return filepath.Join(p.cfg.HomeDir, path)
}

// StagedDir is the per-flight output folder receiving the renamed copies.
func (p *Pipeline) StagedDir() string {
	return filepath.Join(p.resolve(p.cfg.OutputDir), p.cfg.FlightID)
}

func (p *Pipeline) telemetryCSVPath() string {
	return filepath.Join(p.resolve(p.cfg.OutputDir), "telemetry.csv")
}

func (p *Pipeline) photoCSVPath() string {
	return filepath.Join(p.resolve(p.cfg.OutputDir), "photos.csv")
}

func (p *Pipeline) plotPath() string {
	if p.cfg.PlotPath != "" {
		return p.resolve(p.cfg.PlotPath)
	}
	return filepath.Join(p.resolve(p.cfg.OutputDir), "flightpath.png")
}

// Extract runs the telemetry extraction stage: parse the GPX log, report
// the summary counts and any time-order violations, and export the CSV.
func (p *Pipeline) Extract() (domain.TelemetryTable, error) {
	path := p.resolve(p.cfg.TelemetryPath)
	table, err := p.extractor.Extract(path)
	if err != nil {
		return nil, fmt.Errorf("telemetry extraction: %w", err)
	}

	s := table.Summary()
	p.log.Info("telemetry extracted", "file", path, "points", s.Total, "distinct_times", s.DistinctTimes)
	if s.DistinctTimes < s.Total {
		p.log.Warn("duplicate timestamps in GPS log", "duplicates", s.Total-s.DistinctTimes)
	}
	if bad := table.CheckMonotonic(); len(bad) > 0 {
		p.log.Warn("track time goes backwards", "points", bad)
	}

	if err := os.MkdirAll(p.resolve(p.cfg.OutputDir), 0o755); err != nil {
		return nil, fmt.Errorf("create output folder: %w", err)
	}
	if err := export.WriteTelemetryFile(p.telemetryCSVPath(), table); err != nil {
		return nil, fmt.Errorf("telemetry export: %w", err)
	}
	p.log.Info("telemetry CSV written", "path", p.telemetryCSVPath())
	return table, nil
}

// Photos runs the photo-reading stage and exports the photo CSV.
// The first and last records are logged for operator sanity-checking
// against the telemetry span.
func (p *Pipeline) Photos() (domain.PhotoTable, error) {
	dir := p.resolve(p.cfg.ImageDir)
	table, err := p.reader.Read(dir)
	if err != nil {
		return nil, fmt.Errorf("photo metadata read: %w", err)
	}
	p.log.Info("photos read", "folder", dir, "count", len(table))

	if first, last, ok := table.Bounds(); ok {
		p.log.Info("photo table bounds",
			"first_name", first.OriginalName, "first_time", first.CaptureTime,
			"last_name", last.OriginalName, "last_time", last.CaptureTime)
	}

	if err := os.MkdirAll(p.resolve(p.cfg.OutputDir), 0o755); err != nil {
		return nil, fmt.Errorf("create output folder: %w", err)
	}
	if err := export.WritePhotosFile(p.photoCSVPath(), table); err != nil {
		return nil, fmt.Errorf("photo export: %w", err)
	}
	return table, nil
}

// CompareSpans logs the telemetry-vs-photo time-span diagnostic.
func (p *Pipeline) CompareSpans(tel domain.TelemetryTable, photos domain.PhotoTable) error {
	rep, err := export.CompareSpans(tel, photos)
	if err != nil {
		return err
	}
	p.log.Info("time spans",
		"telemetry_start", rep.TelemetryStart, "telemetry_end", rep.TelemetryEnd,
		"photo_earliest", rep.PhotoEarliest, "photo_latest", rep.PhotoLatest)
	if !rep.InSpan() {
		p.log.Warn("photos captured outside the flight's time span", "count", rep.OutOfSpan)
	}
	return nil
}

// Plot renders the diagnostic PNG. Callers treat a failure as a warning.
func (p *Pipeline) Plot(tel domain.TelemetryTable, photos domain.PhotoTable) error {
	if err := plot.RenderFile(p.plotPath(), tel, photos); err != nil {
		return err
	}
	p.log.Info("flight-path plot written", "path", p.plotPath())
	return nil
}

// Rename stages the photo folder into StagedDir and applies the naming
// scheme, then rewrites the photo CSV with the assigned names.
func (p *Pipeline) Rename(photos domain.PhotoTable) (domain.PhotoTable, error) {
	staged, err := p.stager.Stage(p.resolve(p.cfg.ImageDir), p.StagedDir(), photos)
	if err != nil {
		return nil, fmt.Errorf("rename: %w", err)
	}
	if len(staged) > 0 {
		if err := export.WritePhotosFile(p.photoCSVPath(), staged); err != nil {
			return nil, fmt.Errorf("photo export after rename: %w", err)
		}
	}
	return staged, nil
}

// Tag runs the two external tagging invocations against the staged folder:
// the geotag pass, the flight UserComment, and the standard descriptive
// tags. The telemetry table must be non-empty — geotagging against an
// empty log would silently tag nothing.
func (p *Pipeline) Tag(ctx context.Context, tel domain.TelemetryTable) error {
	if len(tel) == 0 {
		return fmt.Errorf("geotag: telemetry table: %w", domain.ErrEmptyTable)
	}

	dir := p.StagedDir()
	if err := p.tagger.Geotag(ctx, p.resolve(p.cfg.TelemetryPath), dir, p.cfg.ClockOffset); err != nil {
		return fmt.Errorf("geotag: %w", err)
	}
	p.log.Info("geotag pass complete", "folder", dir)

	if err := p.tagger.WriteFlightComment(ctx, dir, p.cfg.FlightID); err != nil {
		return fmt.Errorf("flight comment: %w", err)
	}
	if err := p.tagger.WriteStandardTags(ctx, dir, p.cfg.Metadata()); err != nil {
		return fmt.Errorf("standard tags: %w", err)
	}
	p.log.Info("tagging complete", "folder", dir)
	return nil
}

// Filter applies the altitude band to the staged folder when configured.
func (p *Pipeline) Filter() error {
	if !p.cfg.AltFilterEnabled() {
		p.log.Info("altitude filter not configured, skipping")
		return nil
	}
	res, err := p.filter.Apply(p.StagedDir(), p.resolve(p.cfg.OutputDir), p.cfg.AltMin, p.cfg.AltMax)
	if err != nil {
		return fmt.Errorf("altitude filter: %w", err)
	}
	p.log.Info("altitude filter complete",
		"kept", res.Kept, "rejected", res.Rejected, "keep_dir", res.KeepDir)
	return nil
}

// Run executes the full pipeline in order. Diagnostics (span comparison,
// plot) warn and continue; every other failure aborts the remaining steps.
func (p *Pipeline) Run(ctx context.Context) error {
	tel, err := p.Extract()
	if err != nil {
		return err
	}
	photos, err := p.Photos()
	if err != nil {
		return err
	}

	if err := p.CompareSpans(tel, photos); err != nil {
		p.log.Warn("span comparison skipped", "error", err)
	}
	if err := p.Plot(tel, photos); err != nil {
		p.log.Warn("plot skipped", "error", err)
	}

	staged, err := p.Rename(photos)
	if err != nil {
		return err
	}
	if len(staged) == 0 {
		p.log.Info("no photos staged; skipping tagging")
		return nil
	}
	if err := p.Tag(ctx, tel); err != nil {
		return err
	}
	return p.Filter()
}
