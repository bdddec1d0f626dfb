package exiftool_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whcmsc/surveyprep/internal/exiftool"
	"github.com/whcmsc/surveyprep/testutil"
)

func discardLog() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockRunner records every invocation instead of executing anything.
type mockRunner struct {
	calls [][]string
	err   error
}

func (m *mockRunner) Run(_ context.Context, program string, args []string) error {
	m.calls = append(m.calls, append([]string{program}, args...))
	return m.err
}

var _ exiftool.Runner = (*mockRunner)(nil)

func sampleMeta() exiftool.Metadata {
	return exiftool.Metadata{
		Artist:   "WHCMSC AIM Group",
		Credit:   "U.S. Geological Survey",
		Contact:  "data_contact@example.gov",
		Comment:  `Aerial survey photo; target altitude 80 m ("nadir")`,
		Keywords: "Plum Island, MA; Massachusetts; UAS; nadir",
	}
}

func TestGeotag_Argv(t *testing.T) {
	runner := &mockRunner{}
	tagger := exiftool.NewTagger(runner, "exiftool")

	err := tagger.Geotag(context.Background(), "/data/flight.gpx", "/data/out/f06", "-0:0:0")

	require.NoError(t, err)
	require.Len(t, runner.calls, 1)
	assert.Equal(t, []string{
		"exiftool",
		"-geosync=-0:0:0",
		"-geotag", "/data/flight.gpx",
		"-overwrite_original",
		"/data/out/f06",
	}, runner.calls[0])
}

func TestGeotag_RejectsMalformedOffset(t *testing.T) {
	runner := &mockRunner{}
	tagger := exiftool.NewTagger(runner, "exiftool")

	err := tagger.Geotag(context.Background(), "a.gpx", "dir", "three minutes")

	require.Error(t, err)
	assert.Empty(t, runner.calls, "nothing is invoked with a bad offset")
}

func TestValidateOffset(t *testing.T) {
	assert.NoError(t, exiftool.ValidateOffset("-0:0:0"))
	assert.NoError(t, exiftool.ValidateOffset("+1:30:05"))
	assert.NoError(t, exiftool.ValidateOffset("0:0:30"))
	assert.Error(t, exiftool.ValidateOffset(""))
	assert.Error(t, exiftool.ValidateOffset("1:2"))
	assert.Error(t, exiftool.ValidateOffset("-1:2:3:4"))
}

func TestWriteStandardTags_Argv(t *testing.T) {
	runner := &mockRunner{}
	tagger := exiftool.NewTagger(runner, "exiftool")
	meta := sampleMeta()

	err := tagger.WriteStandardTags(context.Background(), "/data/out/f06", meta)

	require.NoError(t, err)
	require.Len(t, runner.calls, 1)
	argv := runner.calls[0]

	assert.Contains(t, argv, "-Artist=WHCMSC AIM Group")
	assert.Contains(t, argv, "-Credit=U.S. Geological Survey")
	assert.Contains(t, argv, "-Copyright=Public Domain. Please credit U.S. Geological Survey")
	assert.Contains(t, argv, "-GPSTimeStamp<CreateDate")
	assert.Contains(t, argv, "-GPSDateStamp<CreateDate")
	assert.Contains(t, argv, "-overwrite_original")
	// Values with quotes and semicolons ride along as single argv entries —
	// the injection hazard of the old shell-string construction is gone.
	assert.Contains(t, argv, `-comment=Aerial survey photo; target altitude 80 m ("nadir")`)
	assert.Equal(t, "/data/out/f06", argv[len(argv)-1])
}

func TestWriteStandardTags_ReportsAllMissingFields(t *testing.T) {
	tagger := exiftool.NewTagger(&mockRunner{}, "exiftool")

	err := tagger.WriteStandardTags(context.Background(), "dir", exiftool.Metadata{Credit: "USGS"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "artist")
	assert.Contains(t, err.Error(), "comment")
	assert.Contains(t, err.Error(), "contact")
	assert.Contains(t, err.Error(), "keywords")
	assert.NotContains(t, err.Error(), "credit")
}

func TestWriteFlightComment_Argv(t *testing.T) {
	runner := &mockRunner{}
	tagger := exiftool.NewTagger(runner, "exiftool")

	err := tagger.WriteFlightComment(context.Background(), "/data/out/f06", "f06")

	require.NoError(t, err)
	require.Len(t, runner.calls, 1)
	assert.Equal(t, []string{
		"exiftool", "-UserComment=Flight f06", "-overwrite_original", "/data/out/f06",
	}, runner.calls[0])
}

func TestTagger_PropagatesRunnerFailure(t *testing.T) {
	boom := errors.New("exit status 1: Warning: no writable tags")
	tagger := exiftool.NewTagger(&mockRunner{err: boom}, "exiftool")

	err := tagger.Geotag(context.Background(), "a.gpx", "dir", "-0:0:0")

	assert.ErrorIs(t, err, boom)
}

func TestExecRunner_PreservesStderrOnNonZeroExit(t *testing.T) {
	runner := exiftool.NewExecRunner(discardLog())

	err := runner.Run(context.Background(), "sh", []string{"-c", "echo boom >&2; exit 3"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestExecRunner_ZeroExit(t *testing.T) {
	runner := exiftool.NewExecRunner(discardLog())

	assert.NoError(t, runner.Run(context.Background(), "true", nil))
}

// TestExecRunner_RealExiftool exercises the real binary. Opt-in via
// SURVEYPREP_TEST_EXIFTOOL.
func TestExecRunner_RealExiftool(t *testing.T) {
	path := testutil.ExiftoolPath(t)
	runner := exiftool.NewExecRunner(discardLog())

	assert.NoError(t, runner.Run(context.Background(), path, []string{"-ver"}))
}
