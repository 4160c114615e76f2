package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// errNoLanguageFile means no languages.yml was found; labels are simply not applied.
var errNoLanguageFile = errors.New("languages.yml not found")

// LanguageInfo holds the linguist fields used for labeling files.
type LanguageInfo struct {
	Type       string   `yaml:"type"`
	Extensions []string `yaml:"extensions"`
	Filenames  []string `yaml:"filenames"`
}

// LanguageMap maps language names (e.g., "Go") to their details.
type LanguageMap map[string]LanguageInfo

// LoadedLanguageData holds the parsed language map and lookup tables.
type LoadedLanguageData struct {
	Langs        LanguageMap
	extensionMap map[string]string // ".go" -> "Go"
	filenameMap  map[string]string // "Makefile" -> "Makefile"
}

// languageSearchPaths lists the directories checked for languages.yml.
func languageSearchPaths() []string {
	var paths []string
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "loc"))
	}
	return append(paths, ".")
}

// findLanguageFile returns the first languages.yml found in dirs.
func findLanguageFile(dirs []string) (string, error) {
	for _, p := range dirs {
		testPath := filepath.Join(p, "languages.yml")
		if _, err := os.Stat(testPath); err == nil {
			return testPath, nil
		}
	}
	return "", errNoLanguageFile
}

// loadLanguageFile reads and indexes a linguist-style languages.yml.
func loadLanguageFile(path string) (*LoadedLanguageData, error) {
	yamlFile, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading language file %s: %w", path, err)
	}
	return parseLanguageData(yamlFile)
}

func parseLanguageData(raw []byte) (*LoadedLanguageData, error) {
	var langs LanguageMap
	if err := yaml.Unmarshal(raw, &langs); err != nil {
		return nil, fmt.Errorf("error parsing language definitions: %w", err)
	}

	data := &LoadedLanguageData{
		Langs:        langs,
		extensionMap: make(map[string]string),
		filenameMap:  make(map[string]string),
	}
	for langName, info := range langs {
		for _, ext := range info.Extensions {
			lowerExt := strings.ToLower(ext)
			// Map iteration order is random; the lexically smaller name wins a shared extension.
			if cur, ok := data.extensionMap[lowerExt]; !ok || langName < cur {
				data.extensionMap[lowerExt] = langName
			}
		}
		for _, fname := range info.Filenames {
			if cur, ok := data.filenameMap[fname]; !ok || langName < cur {
				data.filenameMap[fname] = langName
			}
		}
	}
	return data, nil
}

// GetLanguageForFile determines the language for a given path. Safe on a nil receiver.
func (ld *LoadedLanguageData) GetLanguageForFile(filePath string) (string, bool) {
	if ld == nil {
		return "", false
	}

	baseName := filepath.Base(filePath)
	if lang, ok := ld.filenameMap[baseName]; ok {
		return lang, true
	}
	if ext := strings.ToLower(filepath.Ext(baseName)); ext != "" {
		if lang, ok := ld.extensionMap[ext]; ok {
			return lang, true
		}
	}
	return "", false
}
