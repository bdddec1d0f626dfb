package rename

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/shirou/gopsutil/v3/disk"

	"github.com/whcmsc/surveyprep/internal/domain"
)

// Stager copies the source photo folder into an output folder, then renames
// every staged file to its standardized name. The two phases are separate:
// no rename happens until every file has been copied.
//
// Filesystem operations are not transactional. If the process dies
// mid-batch the output folder holds a mix of renamed and un-renamed files;
// the returned error always states exactly which files had been renamed.
type Stager struct {
	namer Namer
	log   *slog.Logger
}

// NewStager constructs a Stager for the given namer.
func NewStager(namer Namer, log *slog.Logger) *Stager {
	return &Stager{namer: namer, log: log}
}

// Stage copies the accepted image files from srcDir into dstDir and renames
// them per the naming scheme. It returns a copy of photos with NewName
// filled in, in table order.
//
// An empty photo table is a no-op. A dstDir that already contains
// survey-prefixed files fails with domain.ErrAlreadyRenamed — running the
// step twice must never double-prefix names.
func (s *Stager) Stage(srcDir, dstDir string, photos domain.PhotoTable) (domain.PhotoTable, error) {
	if len(photos) == 0 {
		s.log.Info("rename: empty photo table, nothing to do")
		return photos, nil
	}

	// Compute all target names up front and reject collisions before any
	// filesystem mutation. N unique originals must yield N unique names.
	staged := make(domain.PhotoTable, len(photos))
	targets := make(map[string]string, len(photos)) // new name → original
	for i, rec := range photos {
		name := s.namer.NewName(rec)
		if prev, dup := targets[name]; dup {
			return nil, fmt.Errorf("%w: %s and %s both map to %s",
				domain.ErrValidation, prev, rec.OriginalName, name)
		}
		targets[name] = rec.OriginalName
		rec.NewName = name
		staged[i] = rec
	}

	if err := s.checkNotRenamed(srcDir); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output folder: %w", err)
	}
	if err := s.checkNotRenamed(dstDir); err != nil {
		return nil, err
	}
	if err := s.checkFreeSpace(srcDir, dstDir, staged); err != nil {
		return nil, err
	}

	// Phase 1: copy everything. The source folder stays untouched.
	for i, rec := range staged {
		src := filepath.Join(srcDir, rec.OriginalName)
		dst := filepath.Join(dstDir, rec.OriginalName)
		if err := CopyFile(src, dst); err != nil {
			return nil, fmt.Errorf("staging copy failed on file %d of %d (%s): %w",
				i+1, len(staged), rec.OriginalName, err)
		}
	}
	s.log.Info("rename: staging copy complete", "files", len(staged), "dir", dstDir)

	// Phase 2: rename the staged copies.
	for i, rec := range staged {
		from := filepath.Join(dstDir, rec.OriginalName)
		to := filepath.Join(dstDir, rec.NewName)
		if err := os.Rename(from, to); err != nil {
			return nil, fmt.Errorf("rename failed on %s (files renamed so far: %s; not renamed: %s): %w",
				rec.OriginalName, nameList(staged[:i]), nameList(staged[i:]), err)
		}
	}
	s.log.Info("rename: complete", "files", len(staged))

	return staged, nil
}

// checkNotRenamed fails with ErrAlreadyRenamed when dir contains files that
// already carry the survey prefix.
func (s *Stager) checkNotRenamed(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read folder %s: %w", dir, err)
	}
	prefix := s.namer.SurveyPrefix()
	var hits int
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), prefix) {
			hits++
		}
	}
	if hits > 0 {
		return fmt.Errorf("%w: %d file(s) in %s already start with %q",
			domain.ErrAlreadyRenamed, hits, dir, prefix)
	}
	return nil
}

// checkFreeSpace verifies the destination filesystem can hold a full copy
// of the staged files before the first byte is written.
func (s *Stager) checkFreeSpace(srcDir, dstDir string, staged domain.PhotoTable) error {
	var need uint64
	for _, rec := range staged {
		info, err := os.Stat(filepath.Join(srcDir, rec.OriginalName))
		if err != nil {
			return fmt.Errorf("stat source file: %w", err)
		}
		need += uint64(info.Size())
	}
	usage, err := disk.Usage(dstDir)
	if err != nil {
		// Free-space probing is a preflight nicety; some filesystems
		// cannot answer. The copy itself still fails safely on ENOSPC.
		s.log.Warn("rename: cannot determine free space", "dir", dstDir, "error", err)
		return nil
	}
	if usage.Free < need {
		return fmt.Errorf("not enough space in %s: need %d bytes, %d free", dstDir, need, usage.Free)
	}
	return nil
}

// CopyFile copies src to dst, preserving the modification time so staged
// files keep their original timestamps. Shared with the altitude filter.
func CopyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}

func nameList(recs domain.PhotoTable) string {
	if len(recs) == 0 {
		return "none"
	}
	names := make([]string, len(recs))
	for i, r := range recs {
		names[i] = r.OriginalName
	}
	return strings.Join(names, ", ")
}
