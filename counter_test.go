package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyLine(t *testing.T) {
	cases := []struct {
		line string
		want LineKind
	}{
		{"", LineBlank},
		{"   \t ", LineBlank},
		{"\r\n", LineBlank},
		{"// a comment", LineComment},
		{"   // indented comment  ", LineComment},
		{"//", LineComment},
		{"int x = 1;", LineCode},
		{"/* block */", LineCode},
		{"/", LineCode},
		{"# hash", LineCode},
		{"x // trailing", LineCode},
		{"\x1c\x1d\x1e\x1f", LineBlank},
		{"\x1f// separated", LineComment},
		{"\u00a0\u2028", LineBlank},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, classifyLine(tc.line), "line %q", tc.line)
	}
}

func TestCountLines_MixedContent(t *testing.T) {
	input := strings.Join([]string{"", "  ", "// a comment", "int x = 1;", "   // indented comment  "}, "\n") + "\n"
	c, err := CountLines(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, Counts{Significant: 1, Total: 5, Blank: 2, Comment: 2}, c)
}

func TestCountLines_Empty(t *testing.T) {
	c, err := CountLines(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, Counts{}, c)
}

func TestCountLines_TrailingPartialLine(t *testing.T) {
	c, err := CountLines(strings.NewReader("a\nb"))
	require.NoError(t, err)
	assert.Equal(t, 2, c.Total)
	assert.Equal(t, 2, c.Significant)

	c, err = CountLines(strings.NewReader("a\nb\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, c.Total)
}

func TestCountLines_CRLF(t *testing.T) {
	c, err := CountLines(strings.NewReader("fn main() {\r\n\r\n// hi\r\n}\r\n"))
	require.NoError(t, err)
	assert.Equal(t, Counts{Significant: 2, Total: 4, Blank: 1, Comment: 1}, c)
}

func TestCountLines_LoneCarriageReturn(t *testing.T) {
	c, err := CountLines(strings.NewReader("a\rb\r"))
	require.NoError(t, err)
	assert.Equal(t, Counts{Significant: 2, Total: 2}, c)

	c, err = CountLines(strings.NewReader("a\r\r\n// c\rd"))
	require.NoError(t, err)
	assert.Equal(t, Counts{Significant: 2, Total: 4, Blank: 1, Comment: 1}, c)
}

func TestCountLines_SeparatorOnlyLine(t *testing.T) {
	c, err := CountLines(strings.NewReader("\x1f\nx\n"))
	require.NoError(t, err)
	assert.Equal(t, Counts{Significant: 1, Total: 2, Blank: 1}, c)
}

func TestCountLines_LongLine(t *testing.T) {
	long := strings.Repeat("x", 1<<20)
	c, err := CountLines(strings.NewReader(long + "\n// tail\n"))
	require.NoError(t, err)
	assert.Equal(t, Counts{Significant: 1, Total: 2, Comment: 1}, c)
}

func TestCountLines_InvalidUTF8(t *testing.T) {
	_, err := CountLines(strings.NewReader("ok\n\xff\xfe\x00\n"))
	require.ErrorIs(t, err, ErrNotText)
	assert.Contains(t, err.Error(), "line 2")
}

func TestCountLines_Invariant(t *testing.T) {
	inputs := []string{
		"",
		"\n\n\n",
		"//\n//\ncode",
		"a\n  b\n\t// c\n/* d */\n",
	}
	for _, in := range inputs {
		c, err := CountLines(strings.NewReader(in))
		require.NoError(t, err)
		assert.LessOrEqual(t, c.Significant, c.Total)
		assert.Equal(t, c.Total, c.Significant+c.Blank+c.Comment)
	}
}

func TestCountFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.rs")
	require.NoError(t, os.WriteFile(path, []byte("fn main() {}\n// done\n"), 0644))

	c, err := CountFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Significant)
	assert.Equal(t, 2, c.Total)
}

func TestCountFile_Directory(t *testing.T) {
	_, err := CountFile(t.TempDir())
	require.ErrorIs(t, err, ErrNotRegular)
}

func TestCountFile_Missing(t *testing.T) {
	_, err := CountFile(filepath.Join(t.TempDir(), "nope.rs"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
