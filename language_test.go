package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testLanguages = `
Rust:
  type: programming
  extensions: [".rs"]
Go:
  type: programming
  extensions: [".go"]
C:
  type: programming
  extensions: [".c", ".H"]
C++:
  type: programming
  extensions: [".cpp", ".h"]
Dockerfile:
  type: programming
  filenames: ["Dockerfile"]
`

func TestGetLanguageForFile(t *testing.T) {
	ld, err := parseLanguageData([]byte(testLanguages))
	require.NoError(t, err)

	cases := map[string]string{
		"src/main.rs":       "Rust",
		"cmd/x/main.go":     "Go",
		"include/util.h":    "C", // shared extension goes to the lexically smaller name
		"deploy/Dockerfile": "Dockerfile",
		"MAIN.RS":           "Rust",
	}
	for path, want := range cases {
		got, ok := ld.GetLanguageForFile(path)
		assert.True(t, ok, path)
		assert.Equal(t, want, got, path)
	}

	_, ok := ld.GetLanguageForFile("README")
	assert.False(t, ok)
}

func TestGetLanguageForFile_NilReceiver(t *testing.T) {
	var ld *LoadedLanguageData
	_, ok := ld.GetLanguageForFile("main.rs")
	assert.False(t, ok)
}

func TestParseLanguageData_Invalid(t *testing.T) {
	_, err := parseLanguageData([]byte("Rust: [unclosed"))
	assert.Error(t, err)
}

func TestFindAndLoadLanguageFile(t *testing.T) {
	empty := t.TempDir()
	withFile := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(withFile, "languages.yml"), []byte(testLanguages), 0644))

	_, err := findLanguageFile([]string{empty})
	require.ErrorIs(t, err, errNoLanguageFile)

	path, err := findLanguageFile([]string{empty, withFile})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(withFile, "languages.yml"), path)

	ld, err := loadLanguageFile(path)
	require.NoError(t, err)
	assert.Len(t, ld.Langs, 5)
}
