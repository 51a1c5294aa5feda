// Package discover expands input paths into the ordered list of source
// files a batch will convert.
package discover

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultExt is the source extension accepted when none is configured.
const DefaultExt = ".mov"

// Problem reasons for inputs that produced no usable files.
const (
	ProblemNotFound    = "input_not_found"
	ProblemUnsupported = "unsupported_format"
	ProblemEmptyDir    = "empty_directory"
)

// Problem records an input path that cannot contribute files. Problems
// are values, not errors: one bad path must not sink the batch.
type Problem struct {
	Path   string
	Reason string
	Detail string
}

// Options controls input expansion.
type Options struct {
	Recursive bool
	Ext       string // source extension with leading dot, default .mov
}

// Find expands inputs into a sorted, deduplicated file list.
// Directories list direct children, or the full subtree when recursive.
// Files reachable under several names count once, keyed by real path,
// and the same real-path keying bounds symlink cycles.
func Find(inputs []string, opts Options) ([]string, []Problem) {
	ext := opts.Ext
	if ext == "" {
		ext = DefaultExt
	}

	w := &walker{
		ext:       strings.ToLower(ext),
		recursive: opts.Recursive,
		visited:   make(map[string]bool),
		seen:      make(map[string]bool),
	}

	var problems []Problem
	for _, input := range inputs {
		info, err := os.Stat(input)
		if err != nil {
			problems = append(problems, Problem{
				Path:   input,
				Reason: ProblemNotFound,
				Detail: err.Error(),
			})
			continue
		}

		if !info.IsDir() {
			if !w.matchExt(input) {
				problems = append(problems, Problem{
					Path:   input,
					Reason: ProblemUnsupported,
					Detail: fmt.Sprintf("expected a %s file", w.ext),
				})
				continue
			}
			w.addFile(input)
			continue
		}

		w.matched = 0
		walked := w.walkDir(input)
		if walked && w.matched == 0 {
			problems = append(problems, Problem{
				Path:   input,
				Reason: ProblemEmptyDir,
				Detail: fmt.Sprintf("no %s files found", w.ext),
			})
		}
	}

	sort.Strings(w.files)
	return w.files, problems
}

type walker struct {
	ext       string
	recursive bool
	visited   map[string]bool // real dir paths, bounds symlink cycles
	seen      map[string]bool // real file paths, collapses duplicates
	files     []string
	matched   int // files matching ext in the current expansion, pre-dedupe
}

// walkDir lists dir and descends into subdirectories when recursive.
// Returns false when dir's real path was already walked.
func (w *walker) walkDir(dir string) bool {
	real, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return false
	}
	if w.visited[real] {
		return false
	}
	w.visited[real] = true

	entries, err := os.ReadDir(dir)
	if err != nil {
		return true
	}

	for _, e := range entries {
		path := filepath.Join(dir, e.Name())
		info, err := os.Stat(path) // follows symlinks
		if err != nil {
			continue // dangling symlink
		}
		if info.IsDir() {
			if w.recursive {
				w.walkDir(path)
			}
			continue
		}
		if w.matchExt(e.Name()) {
			w.matched++
			w.addFile(path)
		}
	}
	return true
}

func (w *walker) addFile(path string) {
	key := path
	if real, err := filepath.EvalSymlinks(path); err == nil {
		key = real
	}
	if w.seen[key] {
		return
	}
	w.seen[key] = true
	w.files = append(w.files, filepath.Clean(path))
}

func (w *walker) matchExt(name string) bool {
	return strings.EqualFold(filepath.Ext(name), w.ext)
}
