package content

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vinayprograms/syllabus/internal/parallel"
)

// File is a generated JSON file found under the output directory.
type File struct {
	Kind Kind   `json:"kind"`
	Name string `json:"name"`
	Path string `json:"path"`
}

// Rel is the path relative to the output directory, e.g. "courses/001-x.json".
func (f File) Rel() string {
	return path.Join(string(f.Kind), f.Name)
}

// List returns every *.json file in the kind subdirectories of dir, grouped
// by kind and sorted by name. Missing subdirectories are skipped.
func List(dir string) ([]File, error) {
	var files []File
	for _, kind := range Kinds {
		entries, err := os.ReadDir(filepath.Join(dir, string(kind)))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, err
		}
		var names []string
		for _, e := range entries {
			if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
				names = append(names, e.Name())
			}
		}
		sort.Strings(names)
		for _, name := range names {
			files = append(files, File{Kind: kind, Name: name, Path: filepath.Join(dir, string(kind), name)})
		}
	}
	return files, nil
}

// Load decodes a generated file into a generic object.
func Load(f File) (map[string]any, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, err
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Entry is a generated file with its metadata and size.
type Entry struct {
	File     File
	Metadata Metadata
	Words    WordCount
}

// Inventory reads every generated file under dir. Unreadable files are
// skipped.
func Inventory(dir string) ([]Entry, error) {
	files, err := List(dir)
	if err != nil {
		return nil, err
	}
	return parallel.Collect(files, func(f File) (Entry, bool) {
		data, err := os.ReadFile(f.Path)
		if err != nil {
			return Entry{}, false
		}
		var doc struct {
			Metadata Metadata `json:"_metadata"`
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			return Entry{}, false
		}
		var body map[string]any
		json.Unmarshal(data, &body)
		delete(body, "_metadata")
		return Entry{File: f, Metadata: doc.Metadata, Words: CountWords(body)}, true
	}), nil
}
