package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whcmsc/surveyprep/internal/config"
)

// setRequired sets the minimum environment for a valid configuration.
func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("SURVEYPREP_TELEMETRY_PATH", "/data/flight.gpx")
	t.Setenv("SURVEYPREP_IMAGE_DIR", "/data/photos/f06")
	t.Setenv("SURVEYPREP_OUTPUT_DIR", "/data/out")
	t.Setenv("SURVEYPREP_SURVEY_ID", "2018-015-FA")
	t.Setenv("SURVEYPREP_FLIGHT_ID", "f06")
	t.Setenv("SURVEYPREP_CAMERA_ID", "r01")
}

// TestLoad_defaults verifies that optional keys fall back to their defaults
// when only the required keys are provided.
func TestLoad_defaults(t *testing.T) {
	setRequired(t)

	cfg, err := config.Load()

	require.NoError(t, err)
	assert.Equal(t, "-0:0:0", cfg.ClockOffset)
	assert.Equal(t, "exiftool", cfg.ExiftoolPath)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.AltFilterEnabled())
	assert.Equal(t, "2018-015-FA", cfg.SurveyID)
}

// TestLoad_overrides verifies that optional values can be overridden via
// environment variables.
func TestLoad_overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("SURVEYPREP_CLOCK_OFFSET", "+0:0:18")
	t.Setenv("SURVEYPREP_ALT_MIN", "73")
	t.Setenv("SURVEYPREP_ALT_MAX", "88")
	t.Setenv("SURVEYPREP_LOG_LEVEL", "debug")
	t.Setenv("SURVEYPREP_ARTIST", "WHCMSC AIM Group")

	cfg, err := config.Load()

	require.NoError(t, err)
	assert.Equal(t, "+0:0:18", cfg.ClockOffset)
	assert.True(t, cfg.AltFilterEnabled())
	assert.Equal(t, 73.0, cfg.AltMin)
	assert.Equal(t, 88.0, cfg.AltMax)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "WHCMSC AIM Group", cfg.Metadata().Artist)
}

// TestLoad_missingRequired verifies the error names every missing key.
func TestLoad_missingRequired(t *testing.T) {
	t.Setenv("SURVEYPREP_TELEMETRY_PATH", "/data/flight.gpx")
	t.Setenv("SURVEYPREP_IMAGE_DIR", "")
	t.Setenv("SURVEYPREP_OUTPUT_DIR", "")
	t.Setenv("SURVEYPREP_SURVEY_ID", "2018-015-FA")
	t.Setenv("SURVEYPREP_FLIGHT_ID", "")
	t.Setenv("SURVEYPREP_CAMERA_ID", "r01")

	_, err := config.Load()

	require.Error(t, err)
	assert.ErrorContains(t, err, "image_dir")
	assert.ErrorContains(t, err, "output_dir")
	assert.ErrorContains(t, err, "flight_id")
	assert.NotContains(t, err.Error(), "telemetry_path")
}

func TestLoad_rejectsBadClockOffset(t *testing.T) {
	setRequired(t)
	t.Setenv("SURVEYPREP_CLOCK_OFFSET", "eighteen seconds")

	_, err := config.Load()

	require.Error(t, err)
	assert.ErrorContains(t, err, "clock_offset")
}

func TestLoad_rejectsInvertedAltitudeBand(t *testing.T) {
	setRequired(t)
	t.Setenv("SURVEYPREP_ALT_MIN", "90")
	t.Setenv("SURVEYPREP_ALT_MAX", "73")

	_, err := config.Load()

	require.Error(t, err)
	assert.ErrorContains(t, err, "alt_min")
}
