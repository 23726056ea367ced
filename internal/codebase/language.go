package codebase

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/dshills/codescore/internal/profile"
)

// Unknown is the language reported when no profile matches any file.
const Unknown = "unknown"

// Detection is the result of language detection over a tree.
type Detection struct {
	Language   string         `json:"language"`
	Confidence float64        `json:"confidence"`
	FileCounts map[string]int `json:"file_counts"`
	TotalFiles int            `json:"total_files"`
}

// DetectLanguage counts files per built-in profile and picks the language with
// the most files. Ties go to the alphabetically first language.
func DetectLanguage(ctx context.Context, root string) (*Detection, error) {
	if err := checkDir(root); err != nil {
		return nil, fmt.Errorf("codebase.DetectLanguage: %w", err)
	}
	profiles, err := profile.All()
	if err != nil {
		return nil, fmt.Errorf("codebase.DetectLanguage: %w", err)
	}

	counts := make(map[string]int)
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() {
			if path != root && excludedByAny(profiles, d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		for _, p := range profiles {
			if p.IsSource(path) {
				counts[p.Name]++
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("codebase.DetectLanguage: %w", err)
	}

	det := &Detection{Language: Unknown, FileCounts: counts}
	best := 0
	for _, p := range profiles {
		n := counts[p.Name]
		det.TotalFiles += n
		if n > best {
			best = n
			det.Language = p.Name
		}
	}
	if det.TotalFiles > 0 {
		det.Confidence = float64(best) / float64(det.TotalFiles)
	}
	return det, nil
}

// ResolveProfile returns the profile named by name. "auto" (or "") detects
// the primary language of root; a name ending in .yaml or .yml is loaded as
// a custom profile file. The detection is nil unless auto was used.
func ResolveProfile(ctx context.Context, name, root string) (*profile.Profile, *Detection, error) {
	switch {
	case name == "" || name == profile.Auto:
		det, err := DetectLanguage(ctx, root)
		if err != nil {
			return nil, nil, err
		}
		if det.Language == Unknown {
			return nil, det, fmt.Errorf("codebase.ResolveProfile: %w in %s", ErrUnknownLanguage, root)
		}
		p, err := profile.LoadBuiltin(det.Language)
		return p, det, err
	case strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml"):
		p, err := profile.LoadFile(name)
		return p, nil, err
	default:
		p, err := profile.LoadBuiltin(name)
		return p, nil, err
	}
}

func excludedByAny(profiles []*profile.Profile, dir string) bool {
	for _, p := range profiles {
		if p.Excluded(dir) {
			return true
		}
	}
	return false
}
