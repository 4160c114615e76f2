package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/monochromegane/go-gitignore"
	"go.uber.org/zap"
)

// EntryPolicy controls what happens with directory entries that are not
// readable text files.
type EntryPolicy string

const (
	// PolicyError aborts the scan on the first entry that cannot be counted.
	PolicyError EntryPolicy = "error"
	// PolicySkip logs and records such entries, then moves on.
	PolicySkip EntryPolicy = "skip"
	// PolicyRecurse walks into subdirectories. Unreadable files still abort.
	PolicyRecurse EntryPolicy = "recurse"
)

// ParseEntryPolicy parses the --entries flag value.
func ParseEntryPolicy(s string) (EntryPolicy, error) {
	switch p := EntryPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case PolicyError, PolicySkip, PolicyRecurse:
		return p, nil
	case "":
		return PolicyError, nil
	}
	return "", fmt.Errorf("%q: %w (use error, skip or recurse)", s, ErrUnknownPolicy)
}

// ScanOptions configures ScanDirectory. The zero value scans every entry of
// the root directory and fails on the first one it cannot read.
type ScanOptions struct {
	Policy   EntryPolicy
	Includes []string // base-name globs; empty keeps everything
	Excludes []string // base-name globs

	// Only used by PolicyRecurse.
	ShowHidden bool
	NoIgnore   bool
	MaxDepth   int

	Languages *LoadedLanguageData
	Tokenizer Tokenizer
	Logger    *zap.Logger
}

type scanEntry struct {
	name string // relative to root, slash separated
	path string
}

// ScanDirectory counts every file in root and returns per-file results and
// grand totals. Entries are visited in lexical order.
func ScanDirectory(ctx context.Context, root string, opts ScanOptions) (*Report, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Policy == "" {
		opts.Policy = PolicyError
	}
	if _, err := ParseEntryPolicy(string(opts.Policy)); err != nil {
		return nil, err
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("error accessing path %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	// --- Collect entries ---
	var entries []scanEntry
	if opts.Policy == PolicyRecurse {
		entries, err = walkDirectory(root, opts, logger)
	} else {
		entries, err = listDirectory(root, opts)
	}
	if err != nil {
		return nil, err
	}
	logger.Debug("scanning directory",
		zap.String("root", root),
		zap.String("policy", string(opts.Policy)),
		zap.Int("entries", len(entries)))

	// --- Count and aggregate ---
	report := &Report{Root: root, Files: make([]FileCount, 0, len(entries))}
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		fc, err := countEntry(e, opts)
		if err != nil {
			// Fail fast unless told to skip
			if opts.Policy != PolicySkip {
				return nil, fmt.Errorf("error counting %s: %w", e.name, err)
			}
			logger.Warn("skipping entry", zap.String("name", e.name), zap.Error(err))
			report.Skipped = append(report.Skipped, SkippedEntry{Name: e.name, Reason: skipReason(err)})
			continue
		}
		report.Files = append(report.Files, fc)
		report.Totals.Add(fc.Counts)
	}
	return report, nil
}

func countEntry(e scanEntry, opts ScanOptions) (FileCount, error) {
	c, err := CountFile(e.path)
	if err != nil {
		return FileCount{}, err
	}
	fc := FileCount{Name: e.name, Path: e.path, Counts: c}
	if lang, ok := opts.Languages.GetLanguageForFile(e.path); ok {
		fc.Language = lang
	}
	if opts.Tokenizer != nil {
		content, err := os.ReadFile(e.path)
		if err != nil {
			return FileCount{}, err
		}
		fc.Tokens = opts.Tokenizer.CountTokens(string(content))
	}
	return fc, nil
}

func skipReason(err error) string {
	switch {
	case errors.Is(err, ErrNotRegular):
		return "not a regular file"
	case errors.Is(err, ErrNotText):
		return "not a text file"
	case errors.Is(err, fs.ErrPermission):
		return "permission denied"
	}
	return err.Error()
}

// listDirectory returns the direct entries of root, without type filtering.
func listDirectory(root string, opts ScanOptions) ([]scanEntry, error) {
	dirEntries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("error reading directory %s: %w", root, err)
	}
	var entries []scanEntry
	for _, d := range dirEntries {
		keep, err := matchesFilters(d.Name(), opts)
		if err != nil {
			return nil, err
		}
		if keep {
			entries = append(entries, scanEntry{name: d.Name(), path: filepath.Join(root, d.Name())})
		}
	}
	return entries, nil
}

// walkDirectory recursively collects files under root, respecting hidden
// files, .gitignore, max depth and the include/exclude globs. A symlinked
// root is resolved first; symlinks to directories inside the tree are not
// followed, symlinks to files are counted.
func walkDirectory(root string, opts ScanOptions, logger *zap.Logger) ([]scanEntry, error) {
	var entries []scanEntry
	var ignoreMatcher gitignore.IgnoreMatcher

	// WalkDir does not follow a symlinked root.
	resolved, err := filepath.EvalSymlinks(root)
	if err != nil {
		return nil, fmt.Errorf("error resolving %s: %w", root, err)
	}
	if resolved != root {
		logger.Debug("resolved symlinked root", zap.String("root", root), zap.String("target", resolved))
	}
	root = resolved

	if !opts.NoIgnore {
		gitIgnorePath := filepath.Join(root, ".gitignore")
		if _, err := os.Stat(gitIgnorePath); err == nil {
			matcher, err := gitignore.NewGitIgnore(gitIgnorePath)
			if err != nil {
				logger.Warn("could not parse .gitignore", zap.String("path", gitIgnorePath), zap.Error(err))
			} else {
				ignoreMatcher = matcher
			}
		}
	}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		// Skip root directory itself
		if path == root {
			return nil
		}

		baseName := d.Name()
		isDir := d.IsDir()

		// 1. Hidden files/dirs
		if !opts.ShowHidden && isHidden(baseName) {
			if isDir {
				return fs.SkipDir
			}
			return nil
		}

		// 2. Symlinked directories are left out, so the walk can't loop
		if d.Type()&fs.ModeSymlink != 0 {
			if target, statErr := os.Stat(path); statErr == nil && target.IsDir() {
				logger.Debug("not following directory symlink", zap.String("path", path))
				return nil
			}
		}

		// 3. .gitignore, matched against the path below root
		relPath, _ := filepath.Rel(root, path)
		if ignoreMatcher != nil && ignoreMatcher.Match(path, isDir) {
			if isDir {
				return fs.SkipDir
			}
			return nil
		}

		// 4. Max depth and excludes only prune directories; files are filtered below
		if isDir {
			if opts.MaxDepth > 0 && countPathSeparators(relPath) >= opts.MaxDepth-1 {
				return fs.SkipDir
			}
			excluded, err := matchesAnyPattern(baseName, opts.Excludes)
			if err != nil {
				return err
			}
			if excluded {
				return fs.SkipDir
			}
			return nil
		}

		// 5. Include/exclude globs on the file name
		keep, err := matchesFilters(baseName, opts)
		if err != nil {
			return err
		}
		if keep {
			entries = append(entries, scanEntry{name: filepath.ToSlash(relPath), path: path})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking directory %s: %w", root, err)
	}
	return entries, nil
}

// matchesFilters reports whether a base name passes the exclude and include globs.
func matchesFilters(name string, opts ScanOptions) (bool, error) {
	excluded, err := matchesAnyPattern(name, opts.Excludes)
	if err != nil {
		return false, err
	}
	if excluded {
		return false, nil
	}
	if len(opts.Includes) == 0 {
		return true, nil
	}
	return matchesAnyPattern(name, opts.Includes)
}

// parsePatterns splits a comma-separated string of patterns into a slice.
func parsePatterns(patterns string) []string {
	if patterns == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(patterns, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// matchesAnyPattern checks if the given name matches any of the provided glob patterns.
func matchesAnyPattern(name string, patterns []string) (bool, error) {
	for _, pattern := range patterns {
		matched, err := filepath.Match(pattern, name)
		if err != nil {
			return false, fmt.Errorf("invalid glob pattern '%s': %w", pattern, err)
		}
		if matched {
			return true, nil
		}
	}
	return false, nil
}

// isHidden checks if a base name is hidden (starts with '.').
func isHidden(name string) bool {
	if name == "." || name == ".." {
		return false
	}
	baseName := filepath.Base(name)
	return len(baseName) > 0 && baseName[0] == '.'
}

// countPathSeparators counts the number of path separators in a relative path.
func countPathSeparators(path string) int {
	path = filepath.ToSlash(path)
	if path == "." || path == "" {
		return 0
	}
	return strings.Count(strings.Trim(path, "/"), "/")
}
