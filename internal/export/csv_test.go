package export_test

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whcmsc/surveyprep/internal/domain"
	"github.com/whcmsc/surveyprep/internal/export"
)

func fptr(v float64) *float64 { return &v }
func sptr(v string) *string   { return &v }

func samplePoint(raw string, lat, lon float64) domain.TrackPoint {
	ts, _ := time.Parse(domain.GPXTimeLayout, raw)
	return domain.TrackPoint{
		Lat: lat, Lon: lon,
		TimeRaw: raw, Time: ts, Epoch: ts.Unix(),
	}
}

func TestWriteTelemetry_ColumnsAndNulls(t *testing.T) {
	full := samplePoint("2018-06-01T12:00:00", 42.0, -70.0)
	full.Ele = fptr(81.25)
	full.Course = fptr(181.5)
	full.Mode = sptr("3")
	sparse := samplePoint("2018-06-01T12:00:01", 42.0001, -70.0001)

	var buf bytes.Buffer
	require.NoError(t, export.WriteTelemetry(&buf, domain.TelemetryTable{full, sparse}))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{
		"lat", "lon", "time", "ele", "ele2", "course", "roll", "pitch", "mode",
		"datetime_utc", "epoch_utc",
	}, rows[0])
	assert.Equal(t, "81.25", rows[1][3])
	assert.Equal(t, "3", rows[1][8])
	assert.Equal(t, "", rows[2][3], "absent ele is an empty cell")
	assert.Equal(t, "", rows[2][8], "absent mode is an empty cell")
}

// TestWriteTelemetry_RoundTrip re-parses the exported datetime_utc and
// epoch_utc columns and checks they reproduce the source values exactly.
func TestWriteTelemetry_RoundTrip(t *testing.T) {
	table := domain.TelemetryTable{
		samplePoint("2018-06-01T12:00:00", 42.0, -70.0),
		samplePoint("2018-06-01T12:00:01", 42.0001, -70.0001),
		samplePoint("2018-06-01T12:00:02", 42.0002, -70.0002),
	}

	var buf bytes.Buffer
	require.NoError(t, export.WriteTelemetry(&buf, table))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)

	for i, p := range table {
		row := rows[i+1]

		lat, err := strconv.ParseFloat(row[0], 64)
		require.NoError(t, err)
		assert.Equal(t, p.Lat, lat)

		ts, err := time.Parse(time.RFC3339, row[9])
		require.NoError(t, err)
		assert.True(t, ts.Equal(p.Time))

		epoch, err := strconv.ParseInt(row[10], 10, 64)
		require.NoError(t, err)
		assert.Equal(t, p.Epoch, epoch)
	}
}

func TestWritePhotos(t *testing.T) {
	rec := domain.NewPhotoRecord("IMG_0001.jpg", time.Date(2018, 6, 1, 12, 0, 1, 0, time.UTC))
	rec.NewName = "2018015FA_f06r01_20180601T120001Z_IMG_0001.jpg"

	var buf bytes.Buffer
	require.NoError(t, export.WritePhotos(&buf, domain.PhotoTable{rec}))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"new_name", "time_utc", "orig_name", "time_epoch", "time_iso"}, rows[0])
	assert.Equal(t, []string{
		"2018015FA_f06r01_20180601T120001Z_IMG_0001.jpg",
		"2018-06-01T12:00:01Z",
		"IMG_0001.jpg",
		"1527854401",
		"20180601T120001Z",
	}, rows[1])
}

func TestWritePhotos_EmptyTableWritesHeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.WritePhotos(&buf, nil))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 1)
}

func TestCompareSpans(t *testing.T) {
	tel := domain.TelemetryTable{
		samplePoint("2018-06-01T12:00:00", 42, -70),
		samplePoint("2018-06-01T12:10:00", 42, -70),
	}
	inside := domain.NewPhotoRecord("in.jpg", time.Date(2018, 6, 1, 12, 5, 0, 0, time.UTC))
	before := domain.NewPhotoRecord("early.jpg", time.Date(2018, 6, 1, 11, 59, 59, 0, time.UTC))

	rep, err := export.CompareSpans(tel, domain.PhotoTable{inside, before})

	require.NoError(t, err)
	assert.Equal(t, 2, rep.PhotoCount)
	assert.Equal(t, 1, rep.OutOfSpan)
	assert.False(t, rep.InSpan())
	assert.Equal(t, before.CaptureTime, rep.PhotoEarliest)
}

func TestCompareSpans_EmptyTelemetryFailsClearly(t *testing.T) {
	_, err := export.CompareSpans(nil, nil)

	assert.ErrorIs(t, err, domain.ErrEmptyTable)
}
