package checks

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// File is a file in the repository, addressed relative to its top level.
// Read errors come back as empty results; they are reported through the
// owning rule's log.
type File struct {
	base *Base
	rel  string
	path string
}

// NewFile returns the file rel, a slash-separated path relative to the top
// level of b's repository.
func NewFile(b *Base, rel string) *File {
	return &File{base: b, rel: rel, path: filepath.Join(b.RepoPath(), filepath.FromSlash(rel))}
}

// Path is the absolute path of the file.
func (f *File) Path() string { return f.path }

// Rel is the path relative to the repository top level.
func (f *File) Rel() string { return f.rel }

// Exists reports whether the path names a regular file.
func (f *File) Exists() bool {
	info, err := os.Stat(f.path)
	return err == nil && info.Mode().IsRegular()
}

// Read returns the whole file, or "" if it cannot be read.
func (f *File) Read() string {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			f.base.Logf("Failed to read '%s': %v", f.path, err)
		}
		return ""
	}
	return string(data)
}

// ReadLines splits the file into lines without their terminators.
func (f *File) ReadLines() []string {
	return splitLines(f.Read())
}

// ReadLinesTrimmed is ReadLines with surrounding whitespace removed.
func (f *File) ReadLinesTrimmed() []string {
	lines := f.ReadLines()
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	return lines
}

// Write replaces the file content, creating parent directories as needed.
func (f *File) Write(content string) bool {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		f.base.Logf("Error writing the file '%s': %v", f.path, err)
		return false
	}
	if err := os.WriteFile(f.path, []byte(content), 0o644); err != nil {
		f.base.Logf("Error writing the file '%s': %v", f.path, err)
		return false
	}
	return true
}

// WriteLines writes lines joined by newlines, with a final newline.
func (f *File) WriteLines(lines []string) bool {
	return f.Write(strings.Join(lines, "\n") + "\n")
}

// ReplaceLine replaces line i. Replacing one past the last line appends.
func (f *File) ReplaceLine(i int, line string) bool {
	lines := f.ReadLines()
	switch {
	case i < 0 || i > len(lines):
		return false
	case i == len(lines):
		lines = append(lines, line)
	default:
		lines[i] = line
	}
	return f.WriteLines(lines)
}

// PreValidate holds when the file exists and is not empty.
func (f *File) PreValidate() bool {
	if !f.Exists() {
		f.base.Logf("The file '%s' does not exist.", f.path)
		return false
	}
	if len(f.ReadLines()) == 0 {
		f.base.Logf("The file '%s' is empty.", f.path)
		return false
	}
	return true
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}
