// Package registry discovers voice-preset audio files on disk. Presets live
// two directory levels deep (category/subcategory/*.wav), matching how the
// demo voice library is laid out.
package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"ttsd/internal/common/fsutil"
	"ttsd/pkg/types"
)

// LoadDir scans a voices directory and builds a catalog of presets.
// Hidden directories are skipped; only *.wav files are collected, sorted by
// filename within each subcategory.
func LoadDir(dir string) ([]types.Voice, error) {
	base, err := fsutil.ExpandHome(dir)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("abs path: %w", err)
	}
	categories, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var voices []types.Voice
	for _, cat := range categories {
		if !cat.IsDir() || strings.HasPrefix(cat.Name(), ".") {
			continue
		}
		catPath := filepath.Join(abs, cat.Name())
		subs, err := os.ReadDir(catPath)
		if err != nil {
			return nil, fmt.Errorf("read dir: %w", err)
		}
		for _, sub := range subs {
			if !sub.IsDir() || strings.HasPrefix(sub.Name(), ".") {
				continue
			}
			subPath := filepath.Join(catPath, sub.Name())
			files, err := os.ReadDir(subPath)
			if err != nil {
				return nil, fmt.Errorf("read dir: %w", err)
			}
			names := make([]string, 0, len(files))
			for _, f := range files {
				if f.IsDir() || !strings.HasSuffix(strings.ToLower(f.Name()), ".wav") {
					continue
				}
				names = append(names, f.Name())
			}
			sort.Strings(names)
			for _, name := range names {
				voices = append(voices, types.Voice{
					Category:    cat.Name(),
					Subcategory: sub.Name(),
					Filename:    name,
					Path:        filepath.Join(subPath, name),
				})
			}
		}
	}
	return voices, nil
}

// Catalog is an immutable snapshot of discovered presets with lookup
// helpers for the HTTP layer.
type Catalog struct {
	voices []types.Voice
}

// NewCatalog wraps a scanned voice list.
func NewCatalog(voices []types.Voice) *Catalog {
	return &Catalog{voices: voices}
}

// Voices returns a shallow copy to avoid external mutation.
func (c *Catalog) Voices() []types.Voice {
	out := make([]types.Voice, len(c.voices))
	copy(out, c.voices)
	return out
}

// Categories lists per-category subcategory preset counts.
func (c *Catalog) Categories() map[string]map[string]int {
	out := make(map[string]map[string]int)
	for _, v := range c.voices {
		if out[v.Category] == nil {
			out[v.Category] = make(map[string]int)
		}
		out[v.Category][v.Subcategory]++
	}
	return out
}

// VoicesIn returns the presets under one category/subcategory pair.
func (c *Catalog) VoicesIn(category, subcategory string) []types.Voice {
	var out []types.Voice
	for _, v := range c.voices {
		if v.Category == category && v.Subcategory == subcategory {
			out = append(out, v)
		}
	}
	return out
}

// Resolve returns the absolute path of a specific preset, or "" when no
// such preset exists.
func (c *Catalog) Resolve(category, subcategory, filename string) string {
	for _, v := range c.voices {
		if v.Category == category && v.Subcategory == subcategory && v.Filename == filename {
			return v.Path
		}
	}
	return ""
}
