package exiftool

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Metadata holds the descriptive tag values written identically to every
// photo in a batch. All values are literal strings supplied by the
// operator's configuration.
type Metadata struct {
	Artist   string
	Credit   string
	Contact  string
	Comment  string
	Keywords string
}

// Copyright derives the copyright string from the credit line.
func (m Metadata) Copyright() string {
	return fmt.Sprintf("Public Domain. Please credit %s", m.Credit)
}

// Validate reports which metadata fields are empty, all in one error.
func (m Metadata) Validate() error {
	var missing []string
	for name, v := range map[string]string{
		"artist":   m.Artist,
		"credit":   m.Credit,
		"contact":  m.Contact,
		"comment":  m.Comment,
		"keywords": m.Keywords,
	} {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("metadata fields not set: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Tagger issues the two tagging invocations against an image folder.
type Tagger struct {
	runner  Runner
	program string
}

// NewTagger constructs a Tagger that invokes program through runner.
// program is usually just "exiftool".
func NewTagger(runner Runner, program string) *Tagger {
	return &Tagger{runner: runner, program: program}
}

// Geotag attaches lat/lon/elevation from the telemetry file to each photo
// in imgDir, matched by the tool's own time-sync logic. offset is the
// signed H:M:S camera-to-GPS clock offset.
func (t *Tagger) Geotag(ctx context.Context, gpxPath, imgDir, offset string) error {
	if err := ValidateOffset(offset); err != nil {
		return err
	}
	return t.runner.Run(ctx, t.program, t.GeotagArgs(gpxPath, imgDir, offset))
}

// GeotagArgs returns the argv the Geotag call would run, for preview.
func (t *Tagger) GeotagArgs(gpxPath, imgDir, offset string) []string {
	return []string{"-geosync=" + offset, "-geotag", gpxPath, "-overwrite_original", imgDir}
}

// WriteStandardTags stamps the fixed descriptive tag set onto every photo
// in imgDir and copies CreateDate into the GPS date/time tags.
func (t *Tagger) WriteStandardTags(ctx context.Context, imgDir string, meta Metadata) error {
	if err := meta.Validate(); err != nil {
		return err
	}
	return t.runner.Run(ctx, t.program, t.StandardTagArgs(imgDir, meta))
}

// StandardTagArgs returns the argv for the standard-tags call. The comment
// value feeds every caption-like field; keywords are split on "; ".
func (t *Tagger) StandardTagArgs(imgDir string, meta Metadata) []string {
	copyright := meta.Copyright()
	return []string{
		"-Artist=" + meta.Artist,
		"-Credit=" + meta.Credit,
		"-Contact=" + meta.Contact,
		"-comment=" + meta.Comment,
		"-sep", "; ",
		"-keywords=" + meta.Keywords,
		"-Caption=" + meta.Comment,
		"-Copyright=" + copyright,
		"-CopyrightNotice=" + copyright,
		"-Caption-Abstract=" + meta.Comment,
		"-ImageDescription=" + meta.Comment,
		"-GPSTimeStamp<CreateDate",
		"-GPSDateStamp<CreateDate",
		"-overwrite_original",
		imgDir,
	}
}

// WriteFlightComment records the flight identifier in each photo's
// UserComment tag.
func (t *Tagger) WriteFlightComment(ctx context.Context, imgDir, flightID string) error {
	args := []string{
		"-UserComment=Flight " + flightID,
		"-overwrite_original",
		imgDir,
	}
	return t.runner.Run(ctx, t.program, args)
}
