// Package photo builds the photo table by scanning a survey folder and
// reading the embedded capture time of every image in it.
package photo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/whcmsc/surveyprep/internal/domain"
)

// acceptedExtensions lists the image extensions the scanner picks up,
// lowercase. The original RedEdge cameras produce TIFFs; hand-held survey
// cameras produce JPEGs.
var acceptedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".tif":  true,
	".tiff": true,
}

// Accepted reports whether the filename carries an accepted image
// extension (case-insensitive).
func Accepted(name string) bool {
	return acceptedExtensions[strings.ToLower(filepath.Ext(name))]
}

// Reader scans an image folder and produces a domain.PhotoTable.
type Reader struct {
	meta MetaSource
}

// NewReader constructs a Reader backed by the provided MetaSource.
func NewReader(meta MetaSource) *Reader {
	return &Reader{meta: meta}
}

// Read builds one PhotoRecord per accepted image file directly inside dir
// (non-recursive), in listing order. An empty folder yields an empty table.
//
// A file whose capture time cannot be read is fatal for the whole batch —
// a silently skipped photo would corrupt the rename sequence and
// misrepresent survey coverage. All offending files are collected and
// reported in one error rather than failing on the first.
func (r *Reader) Read(dir string) (domain.PhotoTable, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read image folder: %w", err)
	}

	var table domain.PhotoTable
	var bad []error
	for _, entry := range entries {
		if entry.IsDir() || !Accepted(entry.Name()) {
			continue
		}
		captured, err := r.meta.CaptureTime(filepath.Join(dir, entry.Name()))
		if err != nil {
			bad = append(bad, fmt.Errorf("%s: %w", entry.Name(), err))
			continue
		}
		table = append(table, domain.NewPhotoRecord(entry.Name(), captured))
	}

	if len(bad) > 0 {
		return nil, fmt.Errorf("%d photo(s) without a readable capture time: %w",
			len(bad), errors.Join(bad...))
	}
	return table, nil
}
