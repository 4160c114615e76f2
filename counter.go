package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"
)

// commentPrefix is matched literally; block comments and other syntaxes are code.
const commentPrefix = "//"

// isLineSpace reports whether r is stripped from line ends. The ASCII
// separators \x1c-\x1f count as whitespace alongside unicode.IsSpace.
func isLineSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}

// classifyLine decides what a single line counts as.
func classifyLine(line string) LineKind {
	trimmed := strings.TrimFunc(line, isLineSpace)
	if trimmed == "" {
		return LineBlank
	}
	if strings.HasPrefix(trimmed, commentPrefix) {
		return LineComment
	}
	return LineCode
}

// readLine returns the next line including its terminator. "\n", "\r\n"
// and a lone "\r" all end a line. At EOF the partial line is returned with io.EOF.
func readLine(br *bufio.Reader) (string, error) {
	var sb strings.Builder
	for {
		b, err := br.ReadByte()
		if err != nil {
			return sb.String(), err
		}
		sb.WriteByte(b)
		switch b {
		case '\n':
			return sb.String(), nil
		case '\r':
			if next, err := br.Peek(1); err == nil && next[0] == '\n' {
				_, _ = br.ReadByte()
				sb.WriteByte('\n')
			}
			return sb.String(), nil
		}
	}
}

// CountLines reads r to EOF and classifies every line. A trailing line
// without a newline still counts.
func CountLines(r io.Reader) (Counts, error) {
	var c Counts
	br := bufio.NewReader(r)
	lineNo := 0
	for {
		line, err := readLine(br)
		if len(line) > 0 {
			lineNo++
			if !utf8.ValidString(line) {
				return Counts{}, fmt.Errorf("line %d: %w", lineNo, ErrNotText)
			}
			c.Total++
			switch classifyLine(line) {
			case LineBlank:
				c.Blank++
			case LineComment:
				c.Comment++
			default:
				c.Significant++
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return c, nil
			}
			return Counts{}, err
		}
	}
}

// CountFile opens path, counts it and closes it again on every exit path.
func CountFile(path string) (Counts, error) {
	f, err := os.Open(path)
	if err != nil {
		return Counts{}, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return Counts{}, err
	}
	if !info.Mode().IsRegular() {
		return Counts{}, fmt.Errorf("%s: %w", path, ErrNotRegular)
	}

	c, err := CountLines(f)
	if err != nil {
		return Counts{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}
