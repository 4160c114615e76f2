package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	fuzzyfinder "github.com/ktr0731/go-fuzzyfinder"
)

// errSelectionAborted is returned when the user leaves the finder without choosing.
var errSelectionAborted = errors.New("selection aborted")

// listCandidateDirs walks root and returns every directory below it that is
// not hidden (unless showHidden), root itself first.
func listCandidateDirs(root string, showHidden bool) ([]string, error) {
	candidates := []string{root}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if path == root || !d.IsDir() {
			return nil
		}
		if !showHidden && isHidden(d.Name()) {
			return fs.SkipDir
		}
		candidates = append(candidates, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error scanning for directories: %w", err)
	}
	return candidates, nil
}

// selectDirectory lets the user pick the directory to count with a fuzzy finder.
func selectDirectory(showHidden bool) (string, error) {
	candidates, err := listCandidateDirs(".", showHidden)
	if err != nil {
		return "", err
	}

	idx, err := fuzzyfinder.Find(
		candidates,
		func(i int) string { return candidates[i] },
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return "Select the directory to count. Press Enter to confirm."
			}
			entries, readErr := os.ReadDir(candidates[i])
			if readErr != nil {
				return fmt.Sprintf("Path: %s\nError: %v", candidates[i], readErr)
			}
			files := 0
			for _, e := range entries {
				if e.Type().IsRegular() {
					files++
				}
			}
			return fmt.Sprintf("Path: %s\nEntries: %d\nFiles: %d", candidates[i], len(entries), files)
		}),
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return "", errSelectionAborted
		}
		return "", fmt.Errorf("fuzzy finder error: %w", err)
	}
	return candidates[idx], nil
}
