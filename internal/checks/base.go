package checks

import (
	"fmt"
	"strings"

	"github.com/bemanproject/beman-tidy/internal/console"
	"github.com/bemanproject/beman-tidy/internal/repo"
	"github.com/bemanproject/beman-tidy/internal/standard"
)

// LogLevel tags the lines a rule prints.
type LogLevel string

const (
	LevelError   LogLevel = "error"
	LevelWarning LogLevel = "warning"
	LevelSkipped LogLevel = "skipped"
)

func (l LogLevel) color() string {
	switch l {
	case LevelError:
		return console.Red
	case LevelWarning:
		return console.Yellow
	case LevelSkipped:
		return console.Gray
	}
	return ""
}

func levelFor(s standard.Severity) LogLevel {
	if s == standard.Requirement {
		return LevelError
	}
	return LevelWarning
}

// Base carries the state shared by every rule. Rules embed *Base.
type Base struct {
	name       string
	severity   standard.Severity
	descriptor *standard.Descriptor
	level      LogLevel
	logging    bool
	repo       *repo.Info
	out        *console.Console
}

func newBase(env Env, name string) (*Base, error) {
	if err := env.Repo.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfig, name, err)
	}

	b := &Base{name: name, repo: env.Repo, out: env.Console}
	if b.out == nil {
		b.out = console.Discard()
	}

	if standard.IsInternal(name) {
		b.severity = standard.Requirement
		b.descriptor = &standard.Descriptor{Name: name, Severity: standard.Requirement}
	} else {
		if env.Catalogue == nil {
			return nil, fmt.Errorf("%w: %s: no catalogue", ErrConfig, name)
		}
		d, ok := env.Catalogue.Get(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s is not in the catalogue", ErrConfig, name)
		}
		if !d.Severity.Valid() {
			return nil, fmt.Errorf("%w: %s has unknown severity %q", ErrConfig, name, d.Severity)
		}
		b.severity = d.Severity
		b.descriptor = d
	}
	b.level = levelFor(b.severity)
	return b, nil
}

// Core returns b itself, giving every rule access to its Base.
func (b *Base) Core() *Base { return b }

// Name is the check name the rule was registered under.
func (b *Base) Name() string { return b.name }

// Severity is the catalogue severity, or Requirement after promotion.
func (b *Base) Severity() standard.Severity { return b.severity }

// Descriptor is the catalogue entry. Internal rules get a synthetic one.
func (b *Base) Descriptor() *standard.Descriptor { return b.descriptor }

func (b *Base) Description() string { return b.descriptor.Description }

// LogLevel is the level Log prints at.
func (b *Base) LogLevel() LogLevel { return b.level }

func (b *Base) Repo() *repo.Info { return b.repo }

// RepoName is the repository short name, e.g. exemplar.
func (b *Base) RepoName() string { return b.repo.Name }

// RepoPath is the absolute path of the repository top level.
func (b *Base) RepoPath() string { return b.repo.TopLevel }

// LibraryName is the CMake and README name of the library, e.g.
// beman.exemplar.
func (b *Base) LibraryName() string { return "beman." + b.repo.Name }

// SetLogging turns the rule's output on or off. It is off after
// construction.
func (b *Base) SetLogging(on bool) { b.logging = on }

// ShouldSkip is false unless a rule overrides it.
func (b *Base) ShouldSkip() bool { return false }

// PreValidate checks that the rule knows its name and repository.
func (b *Base) PreValidate() bool {
	if b.name == "" {
		b.Log("The name is not set.")
		return false
	}
	if b.repo == nil || b.repo.Name == "" {
		b.Logf("The repository name is not set for check %s.", b.name)
		return false
	}
	if b.repo.TopLevel == "" {
		b.Logf("The repository path is not set for check %s.", b.name)
		return false
	}
	return true
}

// PromoteToRequirement turns a Recommendation into a Requirement. It
// panics when the rule already is one.
func (b *Base) PromoteToRequirement() {
	if b.severity != standard.Recommendation {
		panic(fmt.Sprintf("cannot promote %s: already a %s", b.name, b.severity))
	}
	b.severity = standard.Requirement
	if b.level != LevelSkipped {
		b.level = LevelError
	}
}

// Log prints msg at the rule's own level.
func (b *Base) Log(msg string) { b.LogAs(b.level, msg) }

func (b *Base) Logf(format string, args ...any) { b.Log(fmt.Sprintf(format, args...)) }

// LogAs prints msg at level:
//
//	[error          ][readme.title             ]: msg
func (b *Base) LogAs(level LogLevel, msg string) {
	if !b.logging {
		return
	}
	b.out.Printf("[%s][%-25s]: %s\n", b.out.Paint(level.color(), fmt.Sprintf("%-15s", level)), b.name, msg)
}

// hint points at the section of the standard describing name.
func hint(name string) string {
	return fmt.Sprintf("See %s#%s for more information.", standardURL, anchor(name))
}

const standardURL = "https://github.com/bemanproject/beman/blob/main/docs/beman_standard.md"

func anchor(name string) string { return strings.ReplaceAll(name, ".", "") }
