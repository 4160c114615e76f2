package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/atotto/clipboard"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// formatText renders the report in the plain "name: sloc/tloc" form followed
// by the sloc and tloc summary lines.
func formatText(report *Report, withTokens bool) string {
	var builder strings.Builder
	for _, f := range report.Files {
		fmt.Fprintf(&builder, "%s: %d/%d", f.Name, f.Significant, f.Total)
		if withTokens {
			fmt.Fprintf(&builder, " (%d tokens)", f.Tokens)
		}
		builder.WriteString("\n")
	}
	fmt.Fprintf(&builder, "sloc: %d\n", report.Totals.Significant)
	fmt.Fprintf(&builder, "tloc: %d\n", report.Totals.Total)
	if withTokens {
		fmt.Fprintf(&builder, "tokens: %d\n", report.Totals.Tokens)
	}
	return builder.String()
}

type languageRow struct {
	Language string `yaml:"language"`
	Counts   `yaml:",inline"`
}

type yamlReport struct {
	Report    `yaml:",inline"`
	Languages []languageRow `yaml:"languages,omitempty"`
}

// formatYAML renders the report, including a per-language breakdown when
// any file carries a language label.
func formatYAML(report *Report) (string, error) {
	doc := yamlReport{Report: *report}
	// Only add the breakdown if languages.yml labeled something
	if hasLanguages(report) {
		doc.Languages = languageRows(report)
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("error encoding report: %w", err)
	}
	return string(out), nil
}

func hasLanguages(report *Report) bool {
	for _, f := range report.Files {
		if f.Language != "" {
			return true
		}
	}
	return false
}

// languageRows returns per-language totals ordered by sloc, then by name.
func languageRows(report *Report) []languageRow {
	byLang := report.ByLanguage()
	rows := make([]languageRow, 0, len(byLang))
	for lang, c := range byLang {
		rows = append(rows, languageRow{Language: lang, Counts: c})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Significant != rows[j].Significant {
			return rows[i].Significant > rows[j].Significant
		}
		return rows[i].Language < rows[j].Language
	})
	return rows
}

// renderReport picks the formatter for the configured output format.
func renderReport(report *Report, format string, withTokens bool) (string, error) {
	switch strings.ToLower(format) {
	case "", "text":
		return formatText(report, withTokens), nil
	case "yaml":
		return formatYAML(report)
	}
	return "", fmt.Errorf("unsupported output format: %s. Use 'text' or 'yaml'", format)
}

// outputTarget describes where the rendered report goes.
type outputTarget struct {
	File      string
	Clipboard bool
}

// writeReport sends output to a file, the clipboard, or stdout. A failed
// clipboard write falls back to stdout.
func writeReport(output string, target outputTarget, stdout io.Writer, logger *zap.Logger) error {
	switch {
	case target.File != "": // Save to text file
		if err := os.WriteFile(target.File, []byte(output), 0644); err != nil {
			return fmt.Errorf("error writing to file %s: %w", target.File, err)
		}
		logger.Info("output saved", zap.String("file", target.File))
		return nil
	case target.Clipboard: // Copy to clipboard
		if err := clipboard.WriteAll(output); err != nil {
			logger.Warn("clipboard write failed, printing instead", zap.Error(err))
			break
		}
		logger.Info("output copied to clipboard")
		return nil
	}
	// Default to stdout
	_, err := io.WriteString(stdout, output)
	return err
}
