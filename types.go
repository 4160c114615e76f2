package main

import "errors"

var (
	// ErrNotText is returned when a file contains bytes that are not valid UTF-8.
	ErrNotText = errors.New("not a text file")
	// ErrNotRegular is returned for entries that are not regular files (directories, sockets, ...).
	ErrNotRegular = errors.New("not a regular file")
	// ErrUnknownPolicy is returned when --entries names an unsupported policy.
	ErrUnknownPolicy = errors.New("unknown entry policy")
)

// LineKind is the classification of a single line.
type LineKind int

const (
	LineBlank LineKind = iota
	LineComment
	LineCode
)

func (k LineKind) String() string {
	switch k {
	case LineBlank:
		return "blank"
	case LineComment:
		return "comment"
	case LineCode:
		return "code"
	}
	return "unknown"
}

// Counts holds line counters for one file or an aggregate.
// Significant + Blank + Comment == Total always holds.
type Counts struct {
	Significant int `yaml:"sloc"`
	Total       int `yaml:"tloc"`
	Blank       int `yaml:"blank"`
	Comment     int `yaml:"comment"`
	Tokens      int `yaml:"tokens,omitempty"`
}

// Add accumulates other into c.
func (c *Counts) Add(other Counts) {
	c.Significant += other.Significant
	c.Total += other.Total
	c.Blank += other.Blank
	c.Comment += other.Comment
	c.Tokens += other.Tokens
}

// FileCount is the result for one scanned file.
type FileCount struct {
	Name     string `yaml:"name"` // relative to the scan root
	Path     string `yaml:"-"`
	Language string `yaml:"language,omitempty"`
	Counts   `yaml:",inline"`
}

// SkippedEntry records an entry left out under the skip policy.
type SkippedEntry struct {
	Name   string `yaml:"name"`
	Reason string `yaml:"reason"`
}

// Report is the outcome of one scan.
type Report struct {
	Root    string         `yaml:"root"`
	Files   []FileCount    `yaml:"files"`
	Skipped []SkippedEntry `yaml:"skipped,omitempty"`
	Totals  Counts         `yaml:"totals"`
}

// ByLanguage sums file counts per language label. Unlabeled files are
// grouped under "Other".
func (r *Report) ByLanguage() map[string]Counts {
	out := make(map[string]Counts)
	for _, f := range r.Files {
		lang := f.Language
		if lang == "" {
			lang = "Other"
		}
		c := out[lang]
		c.Add(f.Counts)
		out[lang] = c
	}
	return out
}
