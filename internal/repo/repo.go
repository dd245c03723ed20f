// Package repo discovers the facts about a git working tree that the
// checks need: its name, top level, default branch and unstaged changes.
package repo

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

var ErrNotARepo = errors.New("not a git repository")

// Info describes the repository under inspection.
type Info struct {
	Name            string   `json:"name"`
	TopLevel        string   `json:"top_level"`
	DefaultBranch   string   `json:"default_branch"`
	UnstagedChanges []string `json:"unstaged_changes"`

	RemoteURL     string `json:"remote_url,omitempty"`
	CurrentBranch string `json:"current_branch,omitempty"`
	Commit        string `json:"commit,omitempty"`
}

// Validate fails when a field required by the checks is missing.
func (i *Info) Validate() error {
	if i == nil {
		return errors.New("repository info is nil")
	}
	var missing []string
	if i.Name == "" {
		missing = append(missing, "name")
	}
	if i.TopLevel == "" {
		missing = append(missing, "top level")
	}
	if i.DefaultBranch == "" {
		missing = append(missing, "default branch")
	}
	if len(missing) > 0 {
		return fmt.Errorf("repository info missing %s", strings.Join(missing, ", "))
	}
	return nil
}

// Git runs git commands in a fixed directory.
type Git struct {
	Dir string
}

// Run runs git with args and returns trimmed stdout.
func (g Git) Run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = g.Dir
	out, err := cmd.Output()
	return strings.TrimRight(string(out), "\n"), err
}

// Discover inspects the working tree containing path.
func Discover(ctx context.Context, path string) (*Info, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	top, err := Git{Dir: abs}.Run(ctx, "rev-parse", "--show-toplevel")
	if err != nil || top == "" {
		return nil, fmt.Errorf("%s: %w", abs, ErrNotARepo)
	}
	g := Git{Dir: top}

	info := &Info{
		Name:     filepath.Base(top),
		TopLevel: top,
	}
	info.RemoteURL, _ = g.Run(ctx, "config", "--get", "remote.origin.url")
	// symbolic-ref also works on an unborn branch, unlike rev-parse.
	info.CurrentBranch, _ = g.Run(ctx, "symbolic-ref", "--quiet", "--short", "HEAD")
	info.Commit, _ = g.Run(ctx, "rev-parse", "--verify", "--quiet", "HEAD")
	info.DefaultBranch = defaultBranch(ctx, g, info.CurrentBranch)

	status, err := g.Run(ctx, "status", "--porcelain")
	if err != nil {
		return nil, fmt.Errorf("git status in %s: %w", top, err)
	}
	info.UnstagedChanges = ParseUnstaged(status)

	if err := info.Validate(); err != nil {
		return nil, err
	}
	return info, nil
}

// defaultBranch prefers origin's HEAD, then main or master, then the
// current branch.
func defaultBranch(ctx context.Context, g Git, current string) string {
	if ref, err := g.Run(ctx, "symbolic-ref", "--quiet", "refs/remotes/origin/HEAD"); err == nil {
		if name := OriginHeadBranch(ref); name != "" {
			return name
		}
	}
	for _, name := range []string{"main", "master"} {
		if _, err := g.Run(ctx, "rev-parse", "--verify", "--quiet", "refs/heads/"+name); err == nil {
			return name
		}
	}
	return current
}

// OriginHeadBranch turns refs/remotes/origin/main into main.
func OriginHeadBranch(ref string) string {
	return strings.TrimPrefix(strings.TrimSpace(ref), "refs/remotes/origin/")
}

// ParseUnstaged returns the paths of tracked files whose working tree
// copy differs from the index, given `git status --porcelain` output.
// Untracked files are not unstaged changes.
func ParseUnstaged(porcelain string) []string {
	var paths []string
	for _, line := range strings.Split(porcelain, "\n") {
		if len(line) < 4 || strings.HasPrefix(line, "?? ") || strings.HasPrefix(line, "!! ") {
			continue
		}
		if line[1] == ' ' {
			continue
		}
		path := line[3:]
		if _, to, ok := strings.Cut(path, " -> "); ok {
			path = to
		}
		paths = append(paths, path)
	}
	return paths
}
