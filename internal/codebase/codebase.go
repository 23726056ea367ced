// Package codebase walks a source tree and measures the facts the scoring
// engine needs: line counts, source and test file counts, and documentation
// coverage.
package codebase

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dshills/codescore/internal/profile"
	"github.com/dshills/codescore/internal/score"
)

// Snapshot holds the measurements of one walk.
type Snapshot struct {
	Root         string
	Profile      string
	TotalLines   int64
	SourceFiles  int
	TestFiles    int
	Undocumented []string
	// Unreadable lists files that could not be read; they count as zero
	// lines and undocumented.
	Unreadable []string
}

// Metrics converts the snapshot to the engine's input.
func (s *Snapshot) Metrics() score.Metrics {
	return score.Metrics{
		TotalLines:      s.TotalLines,
		SourceFileCount: s.SourceFiles,
		TestFileCount:   s.TestFiles,
		FullyDocumented: len(s.Undocumented) == 0,
	}
}

// Scan walks root and measures every file the profile treats as source.
// Test files are source files too.
func Scan(ctx context.Context, root string, p *profile.Profile) (*Snapshot, error) {
	if err := checkDir(root); err != nil {
		return nil, fmt.Errorf("codebase.Scan: %w", err)
	}

	snap := &Snapshot{Root: root, Profile: p.Name}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() {
			if path != root && p.Excluded(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || !p.IsSource(path) {
			return nil
		}

		snap.SourceFiles++
		if p.IsTest(path) {
			snap.TestFiles++
		}
		rel := relPath(root, path)
		lines, documented, err := measureFile(path, p)
		if err != nil {
			snap.Unreadable = append(snap.Unreadable, rel)
			snap.Undocumented = append(snap.Undocumented, rel)
			return nil
		}
		snap.TotalLines += lines
		if !documented {
			snap.Undocumented = append(snap.Undocumented, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("codebase.Scan: %w", err)
	}
	return snap, nil
}

// CountLines returns the number of lines in r. A final line without a
// trailing newline still counts.
func CountLines(r io.Reader) (int64, error) {
	var n int64
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			n++
		}
		if errors.Is(err, io.EOF) {
			return n, nil
		}
		if err != nil {
			return n, err
		}
	}
}

func measureFile(path string, p *profile.Profile) (int64, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, false, err
	}
	defer f.Close()

	var lines int64
	documented := false
	br := bufio.NewReader(f)
	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			lines++
			if !documented && p.HasDocMarker(line) {
				documented = true
			}
		}
		if errors.Is(err, io.EOF) {
			return lines, documented, nil
		}
		if err != nil {
			return lines, documented, err
		}
	}
}

func checkDir(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotExist, root)
		}
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotDirectory, root)
	}
	return nil
}

func relPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
