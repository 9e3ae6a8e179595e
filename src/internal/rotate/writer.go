// FILE: logfan/src/internal/rotate/writer.go
package rotate

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/lixenwraith/log"
)

const (
	dateLayout    = "2006-01-02"
	fileSuffix    = ".log"
	archiveSuffix = ".gz"
)

// Config bounds one family of log artifacts.
type Config struct {
	// Directory holding the family's artifacts
	Directory string

	// Family is the artifact name prefix, e.g. "error" producing
	// error-2025-03-14.log
	Family string

	// MaxBytes per artifact before a size rotation
	MaxBytes int64

	// MaxAgeDays before an artifact is deleted by the retention sweep
	MaxAgeDays int

	// Compress rotated artifacts into .gz archives
	Compress bool
}

// Writer appends rendered records to date-named artifacts, rotating on
// calendar date change or size and sweeping expired artifacts at each
// rotation. A Writer is owned by exactly one sink; writes are already
// serialized by the sink's processing goroutine.
type Writer struct {
	cfg    Config
	logger *log.Logger
	now    func() time.Time

	file *os.File
	path string
	date string
	size int64
	seq  int
}

// NewWriter prepares a writer for one artifact family. The first
// artifact is opened lazily on the first write.
func NewWriter(cfg Config, logger *log.Logger) (*Writer, error) {
	if cfg.Family == "" {
		return nil, fmt.Errorf("rotate: empty artifact family")
	}
	if cfg.MaxBytes <= 0 {
		return nil, fmt.Errorf("rotate: max bytes must be positive: %d", cfg.MaxBytes)
	}
	if err := os.MkdirAll(cfg.Directory, 0755); err != nil {
		return nil, fmt.Errorf("rotate: failed to create directory %q: %w", cfg.Directory, err)
	}
	return &Writer{
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}, nil
}

// Write appends one rendered record. The rotation decision is a single
// check-and-rotate point executed immediately before the write: rotate
// if the calendar date changed since the active artifact was opened,
// or if the record would push the artifact past MaxBytes. A record
// larger than MaxBytes on its own still lands in a fresh artifact.
func (w *Writer) Write(p []byte) (int, error) {
	today := w.now().Format(dateLayout)

	if w.file == nil {
		if err := w.open(today, 0); err != nil {
			return 0, err
		}
	} else if w.date != today {
		if err := w.rotate(today, 0); err != nil {
			return 0, err
		}
	}

	// The size check runs after any open or date rotation too: a
	// reopened partial artifact may already sit near the cap, and so
	// may the next partial the rotation lands on. A fresh artifact has
	// size zero, so the loop terminates.
	for w.size > 0 && w.size+int64(len(p)) > w.cfg.MaxBytes {
		if err := w.rotate(today, w.seq+1); err != nil {
			return 0, err
		}
	}

	n, err := w.file.Write(p)
	w.size += int64(n)
	if err != nil {
		return n, fmt.Errorf("rotate: write to %q failed: %w", w.path, err)
	}
	return n, nil
}

// Close syncs and closes the active artifact.
func (w *Writer) Close() error {
	if w.file == nil {
		return nil
	}
	if err := w.file.Sync(); err != nil {
		w.file.Close()
		w.file = nil
		return fmt.Errorf("rotate: sync %q failed: %w", w.path, err)
	}
	err := w.file.Close()
	w.file = nil
	if err != nil {
		return fmt.Errorf("rotate: close %q failed: %w", w.path, err)
	}
	return nil
}

// rotate closes the active artifact, optionally compresses it, runs
// the retention sweep, and opens the next artifact for today starting
// at startSeq.
func (w *Writer) rotate(today string, startSeq int) error {
	closedPath := w.path
	if err := w.Close(); err != nil {
		return err
	}

	if w.cfg.Compress && closedPath != "" {
		if err := w.compress(closedPath); err != nil {
			// Keep the uncompressed artifact rather than lose it.
			w.logger.Warn("msg", "Failed to compress rotated artifact",
				"component", "rotate",
				"path", closedPath,
				"error", err)
		}
	}

	w.sweep()

	w.logger.Debug("msg", "Rotated artifact",
		"component", "rotate",
		"family", w.cfg.Family,
		"closed", closedPath)

	return w.open(today, startSeq)
}

// open finds the next usable artifact for the given date, skipping
// archives and artifacts that are already full, and appends to a
// partially filled one if present.
func (w *Writer) open(date string, startSeq int) error {
	for seq := startSeq; ; seq++ {
		path := w.artifactPath(date, seq)
		if _, err := os.Stat(path + archiveSuffix); err == nil {
			continue
		}

		var existing int64
		if info, err := os.Stat(path); err == nil {
			if info.Size() >= w.cfg.MaxBytes {
				continue
			}
			existing = info.Size()
		}

		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("rotate: failed to open %q: %w", path, err)
		}

		w.file = f
		w.path = path
		w.date = date
		w.size = existing
		w.seq = seq
		return nil
	}
}

func (w *Writer) artifactPath(date string, seq int) string {
	name := w.cfg.Family + "-" + date
	if seq > 0 {
		name += "." + strconv.Itoa(seq)
	}
	return filepath.Join(w.cfg.Directory, name+fileSuffix)
}

// compress gzips the closed artifact and removes the original.
func (w *Writer) compress(path string) error {
	in, err := os.Open(path)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(path + archiveSuffix)
	if err != nil {
		return err
	}

	gz := gzip.NewWriter(out)
	if _, err := io.Copy(gz, in); err != nil {
		gz.Close()
		out.Close()
		os.Remove(path + archiveSuffix)
		return err
	}
	if err := gz.Close(); err != nil {
		out.Close()
		os.Remove(path + archiveSuffix)
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Remove(path)
}

// sweep deletes artifacts of this family older than MaxAgeDays. Runs
// at rotation time only; there is no background timer to race with an
// in-flight write.
func (w *Writer) sweep() {
	if w.cfg.MaxAgeDays <= 0 {
		return
	}

	entries, err := os.ReadDir(w.cfg.Directory)
	if err != nil {
		w.logger.Warn("msg", "Retention sweep failed to read directory",
			"component", "rotate",
			"directory", w.cfg.Directory,
			"error", err)
		return
	}

	today := w.now()
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		date, ok := w.artifactDate(entry.Name())
		if !ok {
			continue
		}
		if ageDays(date, today) <= w.cfg.MaxAgeDays {
			continue
		}
		path := filepath.Join(w.cfg.Directory, entry.Name())
		if err := os.Remove(path); err != nil {
			w.logger.Warn("msg", "Retention sweep failed to delete artifact",
				"component", "rotate",
				"path", path,
				"error", err)
			continue
		}
		w.logger.Debug("msg", "Deleted expired artifact",
			"component", "rotate",
			"path", path)
	}
}

// artifactDate extracts the date from an artifact name of this family:
// <family>-<date>[.<seq>].log[.gz]
func (w *Writer) artifactDate(name string) (time.Time, bool) {
	prefix := w.cfg.Family + "-"
	if !strings.HasPrefix(name, prefix) {
		return time.Time{}, false
	}
	rest := strings.TrimPrefix(name, prefix)
	rest = strings.TrimSuffix(rest, archiveSuffix)
	if !strings.HasSuffix(rest, fileSuffix) {
		return time.Time{}, false
	}
	rest = strings.TrimSuffix(rest, fileSuffix)
	if dot := strings.IndexByte(rest, '.'); dot >= 0 {
		if _, err := strconv.Atoi(rest[dot+1:]); err != nil {
			return time.Time{}, false
		}
		rest = rest[:dot]
	}
	date, err := time.Parse(dateLayout, rest)
	if err != nil {
		return time.Time{}, false
	}
	return date, true
}

// ageDays counts whole calendar days between the artifact date and now.
func ageDays(date, now time.Time) int {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return int(midnight.Sub(date).Hours() / 24)
}
