package checks

import (
	"strings"

	"github.com/bemanproject/beman-tidy/internal/standard"
)

const changelogTitle = "# Changelog"

// changelogFile is the shared shape of the changelog.* rules.
type changelogFile struct {
	*Base
	changelog *File
}

func newChangelogFile(b *Base) changelogFile {
	return changelogFile{Base: b, changelog: NewFile(b, fileParam(b, "CHANGELOG.md"))}
}

func (r *changelogFile) PreValidate() bool {
	return r.Base.PreValidate() && r.changelog.PreValidate()
}

// changelogTitleRule: the first line is "# Changelog".
type changelogTitleRule struct{ changelogFile }

func (r *changelogTitleRule) Validate() bool {
	lines := r.changelog.ReadLinesTrimmed()
	if len(lines) == 0 || !strings.HasPrefix(lines[0], changelogTitle) {
		r.Logf("The file '%s' must begin with a level 1 header with the name 'Changelog'.", r.changelog.Path())
		return false
	}
	return true
}

// Fix replaces a level one heading on the first line, and otherwise
// inserts the title above the existing content.
func (r *changelogTitleRule) Fix() bool {
	if satisfied(r) {
		return true
	}
	lines := r.changelog.ReadLines()
	switch {
	case len(lines) == 0:
		lines = []string{changelogTitle}
	case strings.HasPrefix(strings.TrimSpace(lines[0]), "# "):
		lines[0] = changelogTitle
	default:
		lines = append([]string{changelogTitle, ""}, lines...)
	}
	return r.changelog.WriteLines(lines)
}

// changelogLibraryStatus: every "- [LIBRARY_STATUS]" line names a status
// of the maturity model, and there is at least one.
type changelogLibraryStatus struct{ changelogFile }

// statuses are the configured values, or else the status lines of the
// rule's description.
func (r *changelogLibraryStatus) statuses() []string {
	if values := r.Descriptor().Strings("values"); len(values) > 0 {
		return values
	}
	return r.Descriptor().Lines(standard.ChangelogStatusPrefix)
}

// statusKey is a status line up to the closing parenthesis of its
// maturity model link. What follows is free text.
func statusKey(line string) string {
	if i := strings.Index(line, ")"); i >= 0 {
		return line[:i+1]
	}
	return line
}

func (r *changelogLibraryStatus) Validate() bool {
	var entries []string
	for _, line := range r.changelog.ReadLinesTrimmed() {
		if strings.HasPrefix(line, standard.ChangelogStatusPrefix) {
			entries = append(entries, line)
		}
	}
	if len(entries) == 0 {
		r.Logf("The file '%s' must contain a line for each previous library status. The initial library status is missing.",
			r.changelog.Path())
		return false
	}
	statuses := r.statuses()
	for _, entry := range entries {
		known := false
		for _, s := range statuses {
			if strings.Contains(entry, statusKey(s)) {
				known = true
				break
			}
		}
		if !known {
			r.Logf("Library status '%s' is not in the correct format.", entry)
			return false
		}
	}
	return true
}

// Fix writes a fresh changelog recording the initial status, but only
// over a changelog that holds at most a title.
func (r *changelogLibraryStatus) Fix() bool {
	if satisfied(r) {
		return true
	}
	statuses := r.statuses()
	if len(r.changelog.ReadLinesTrimmed()) > 1 || len(statuses) == 0 {
		return manualFix(r, "Please record the library status in CHANGELOG.md.")
	}
	return r.changelog.WriteLines([]string{
		changelogTitle,
		"",
		"<!--",
		"SPDX-License-Identifier: 2.0 license with LLVM exceptions",
		"-->",
		"",
		"## [Unreleased]",
		"",
		"### Added",
		"",
		statuses[0],
	})
}

func registerChangelog(reg *Registry) {
	Register(reg, "changelog.title", func(b *Base) *changelogTitleRule {
		return &changelogTitleRule{newChangelogFile(b)}
	})
	Register(reg, "changelog.library_status", func(b *Base) *changelogLibraryStatus {
		return &changelogLibraryStatus{newChangelogFile(b)}
	})
}
