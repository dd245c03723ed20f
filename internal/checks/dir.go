package checks

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Dir is a directory in the repository, addressed relative to its top
// level.
type Dir struct {
	base *Base
	rel  string
	path string
}

// NewDir returns the directory rel, a slash-separated path relative to the
// top level of b's repository.
func NewDir(b *Base, rel string) *Dir {
	return &Dir{base: b, rel: rel, path: filepath.Join(b.RepoPath(), filepath.FromSlash(rel))}
}

// beman tree: <prefix>/beman/<short_name>
func newTreeDir(b *Base, prefix string) *Dir {
	return NewDir(b, path.Join(prefix, "beman", b.RepoName()))
}

// Path is the absolute path of the directory.
func (d *Dir) Path() string { return d.path }

// Rel is the path relative to the repository top level.
func (d *Dir) Rel() string { return d.rel }

// Exists reports whether the directory exists and is a directory.
func (d *Dir) Exists() bool {
	info, err := os.Stat(d.path)
	return err == nil && info.IsDir()
}

// IsEmpty is true for a missing directory as well.
func (d *Dir) IsEmpty() bool {
	entries, err := os.ReadDir(d.path)
	return err != nil || len(entries) == 0
}

// RepoPath returns the absolute path of rel inside the repository.
func (d *Dir) RepoPath(rel string) string {
	return filepath.Join(d.base.RepoPath(), filepath.FromSlash(rel))
}

// Glob matches pattern against every file of the repository and returns
// slash-separated paths relative to the top level. .git directories are
// not descended into.
func (d *Dir) Glob(pattern string) []string {
	return d.walk(".", pattern)
}

// Files matches pattern against the files inside the directory. Results
// are relative to the repository top level.
func (d *Dir) Files(pattern string) []string {
	if !d.Exists() {
		return nil
	}
	return d.walk(d.rel, pattern)
}

// walk matches pattern against the paths under root, taken relative to
// root, so metacharacters in root need no escaping.
func (d *Dir) walk(root, pattern string) []string {
	if !doublestar.ValidatePattern(pattern) {
		d.base.Logf("Invalid pattern %q", pattern)
		return nil
	}
	var out []string
	_ = fs.WalkDir(os.DirFS(d.base.RepoPath()), root, func(p string, e fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if e.Name() == ".git" {
			if e.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if e.IsDir() {
			return nil
		}
		rel := p
		if root != "." {
			rel = strings.TrimPrefix(p, root+"/")
		}
		if ok, _ := doublestar.Match(pattern, rel); ok {
			out = append(out, p)
		}
		return nil
	})
	return out
}
