package fsutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"ttsd/pkg/types"
)

// ExpandHome expands a leading '~' to the user's home directory.
func ExpandHome(path string) (string, error) {
	if path == "" {
		return path, nil
	}
	if path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home dir: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	// handle cases like ~/tts/voices
	return filepath.Join(home, strings.TrimPrefix(path, "~/")), nil
}

// PathExists checks if the given path exists.
func PathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil || !errors.Is(err, os.ErrNotExist)
}

// RecentWavs lists up to limit *.wav files in dir, newest first by
// modification time. A missing dir yields an empty list, not an error.
func RecentWavs(dir string, limit int) ([]types.AudioFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []types.AudioFile{}, nil
		}
		return nil, fmt.Errorf("read dir: %w", err)
	}
	type withTime struct {
		file types.AudioFile
		mod  time.Time
	}
	var files []withTime
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".wav") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, withTime{
			file: types.AudioFile{
				Filename:    e.Name(),
				Path:        filepath.Join(dir, e.Name()),
				Size:        info.Size(),
				CreatedTime: info.ModTime().UTC().Format(time.RFC3339),
			},
			mod: info.ModTime(),
		})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].mod.After(files[j].mod) })
	if limit > 0 && len(files) > limit {
		files = files[:limit]
	}
	out := make([]types.AudioFile, 0, len(files))
	for _, f := range files {
		out = append(out, f.file)
	}
	return out, nil
}
