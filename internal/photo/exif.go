package photo

import (
	"fmt"
	"os"
	"time"

	"github.com/rwcarlsen/goexif/exif"

	"github.com/whcmsc/surveyprep/internal/domain"
)

// MetaSource reads embedded metadata from a single image file.
// The production implementation is ExifSource; tests substitute
// function-field doubles.
type MetaSource interface {
	// CaptureTime returns the DateTimeOriginal value, UTC by the camera
	// clock convention.
	CaptureTime(path string) (time.Time, error)
	// Altitude returns the GPSAltitude value in meters, negative when the
	// GPSAltitudeRef marks it below sea level.
	Altitude(path string) (float64, error)
}

// ExifSource reads metadata from image headers via goexif.
type ExifSource struct{}

var _ MetaSource = ExifSource{}

// CaptureTime reads and parses the EXIF DateTimeOriginal field.
func (ExifSource) CaptureTime(path string) (time.Time, error) {
	x, err := decode(path)
	if err != nil {
		return time.Time{}, err
	}
	tag, err := x.Get(exif.DateTimeOriginal)
	if err != nil {
		return time.Time{}, fmt.Errorf("missing DateTimeOriginal: %w", err)
	}
	s, err := tag.StringVal()
	if err != nil {
		return time.Time{}, fmt.Errorf("read DateTimeOriginal: %w", err)
	}
	return ParseExifTime(s)
}

// Altitude reads the EXIF GPSAltitude rational, applying GPSAltitudeRef.
func (ExifSource) Altitude(path string) (float64, error) {
	x, err := decode(path)
	if err != nil {
		return 0, err
	}
	tag, err := x.Get(exif.GPSAltitude)
	if err != nil {
		return 0, fmt.Errorf("missing GPSAltitude: %w", err)
	}
	num, den, err := tag.Rat2(0)
	if err != nil || den == 0 {
		return 0, fmt.Errorf("read GPSAltitude: %w", err)
	}
	alt := float64(num) / float64(den)

	// Ref 1 = below sea level. Absent ref defaults to above.
	if ref, err := x.Get(exif.GPSAltitudeRef); err == nil {
		if v, err := ref.Int(0); err == nil && v == 1 {
			alt = -alt
		}
	}
	return alt, nil
}

// ParseExifTime parses an EXIF timestamp (domain.ExifTimeLayout) as UTC.
func ParseExifTime(s string) (time.Time, error) {
	t, err := time.Parse(domain.ExifTimeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse capture time %q: %w", s, err)
	}
	return t, nil
}

func decode(path string) (*exif.Exif, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode exif: %w", err)
	}
	return x, nil
}
