// Package config loads and validates the pipeline configuration from an
// optional surveyprep.yaml file and SURVEYPREP_* environment variables.
// The result is a plain value object passed into each component constructor;
// there is no global mutable state.
package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/viper"

	"github.com/whcmsc/surveyprep/internal/exiftool"
)

// Config holds all values for one pipeline run, read once at start.
type Config struct {
	// HomeDir is the project root; relative paths below resolve against it
	// when set. Optional.
	HomeDir string `mapstructure:"home_dir"`

	// TelemetryPath is the GPX flight log. Required.
	TelemetryPath string `mapstructure:"telemetry_path"`
	// ImageDir is the folder of source photos. Required. Never mutated.
	ImageDir string `mapstructure:"image_dir"`
	// OutputDir receives the staged copy, renamed photos, and CSV/plot
	// artifacts. Required.
	OutputDir string `mapstructure:"output_dir"`
	// PlotPath overrides the flight-path PNG location.
	// Defaults to <output_dir>/flightpath.png.
	PlotPath string `mapstructure:"plot_path"`

	// SurveyID is the field-activity number as written, e.g. "2018-015-FA".
	// Required; separators are stripped when building filenames.
	SurveyID string `mapstructure:"survey_id"`
	// FlightID identifies the flight, e.g. "f06". Required.
	FlightID string `mapstructure:"flight_id"`
	// CameraID identifies the sensor, e.g. "r01". Required.
	CameraID string `mapstructure:"camera_id"`

	// ClockOffset is the signed H:M:S camera-to-GPS clock offset passed to
	// the geotag call. Defaults to "-0:0:0" (no offset).
	ClockOffset string `mapstructure:"clock_offset"`

	// AltMin/AltMax bound the optional altitude filter, meters, inclusive.
	// The filter runs only when AltMax is non-zero.
	AltMin float64 `mapstructure:"alt_min"`
	AltMax float64 `mapstructure:"alt_max"`

	// Batch metadata written identically to every photo. Validated by the
	// tag step, not at load, so extract-only runs need not set them.
	Artist   string `mapstructure:"artist"`
	Credit   string `mapstructure:"credit"`
	Contact  string `mapstructure:"contact"`
	Comment  string `mapstructure:"comment"`
	Keywords string `mapstructure:"keywords"`

	// ExiftoolPath is the tagging tool binary. Defaults to "exiftool".
	ExiftoolPath string `mapstructure:"exiftool_path"`

	// LogLevel controls the minimum log level. Defaults to "info".
	LogLevel string `mapstructure:"log_level"`
}

// keys lists every configuration key with its default. Registering a
// default makes viper pick the key up from the environment as well.
var keys = map[string]any{
	"home_dir":       "",
	"telemetry_path": "",
	"image_dir":      "",
	"output_dir":     "",
	"plot_path":      "",
	"survey_id":      "",
	"flight_id":      "",
	"camera_id":      "",
	"clock_offset":   exiftool.DefaultOffset,
	"alt_min":        0.0,
	"alt_max":        0.0,
	"artist":         "",
	"credit":         "",
	"contact":        "",
	"comment":        "",
	"keywords":       "",
	"exiftool_path":  "exiftool",
	"log_level":      "info",
}

// Load reads configuration and validates it.
// Precedence: environment variables > config file > defaults.
// Returns an error listing every required key that is not set.
func Load() (Config, error) {
	v := viper.New()
	for key, def := range keys {
		v.SetDefault(key, def)
	}

	v.SetConfigName("surveyprep")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.SetEnvPrefix("SURVEYPREP")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		// No config file is fine; env vars alone can configure a run.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse configuration: %w", err)
	}
	return cfg, cfg.validate()
}

// validate aggregates every problem into one error so the operator fixes
// the configuration in a single pass.
func (c Config) validate() error {
	var missing []string
	for key, val := range map[string]string{
		"telemetry_path": c.TelemetryPath,
		"image_dir":      c.ImageDir,
		"output_dir":     c.OutputDir,
		"survey_id":      c.SurveyID,
		"flight_id":      c.FlightID,
		"camera_id":      c.CameraID,
	} {
		if strings.TrimSpace(val) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("required configuration not set: %s", strings.Join(missing, ", "))
	}

	if err := exiftool.ValidateOffset(c.ClockOffset); err != nil {
		return fmt.Errorf("clock_offset: %w", err)
	}
	if c.AltFilterEnabled() && c.AltMin > c.AltMax {
		return fmt.Errorf("alt_min %g exceeds alt_max %g", c.AltMin, c.AltMax)
	}
	return nil
}

// AltFilterEnabled reports whether the altitude filter step should run.
func (c Config) AltFilterEnabled() bool { return c.AltMax != 0 }

// Metadata returns the batch tag values as an exiftool.Metadata.
func (c Config) Metadata() exiftool.Metadata {
	return exiftool.Metadata{
		Artist:   c.Artist,
		Credit:   c.Credit,
		Contact:  c.Contact,
		Comment:  c.Comment,
		Keywords: c.Keywords,
	}
}
