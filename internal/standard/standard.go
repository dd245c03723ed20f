// Package standard holds the catalogue of Beman Standard checks: each
// check's name, severity, descriptive text and rule parameters.
package standard

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Severity is the category of a check in the standard.
type Severity string

const (
	Requirement    Severity = "Requirement"
	Recommendation Severity = "Recommendation"
)

// Severities lists the recognised severities in report order.
var Severities = []Severity{Requirement, Recommendation}

// InternalPrefix marks checks that are not part of the published standard.
// Such checks never appear in a catalogue.
const InternalPrefix = "internal."

// ErrInvalidCatalogue is wrapped by every catalogue validation failure.
var ErrInvalidCatalogue = errors.New("invalid catalogue")

var checkNameRe = regexp.MustCompile(`^[a-z0-9_]+(\.[a-z0-9_]+)+$`)

// ParseSeverity accepts exactly "Requirement" or "Recommendation".
func ParseSeverity(s string) (Severity, error) {
	switch Severity(s) {
	case Requirement, Recommendation:
		return Severity(s), nil
	}
	return "", fmt.Errorf("unknown severity %q", s)
}

// Valid reports whether s is one of the recognised severities.
func (s Severity) Valid() bool {
	return s == Requirement || s == Recommendation
}

// IsInternal reports whether name uses the reserved internal prefix.
func IsInternal(name string) bool {
	return strings.HasPrefix(name, InternalPrefix)
}

// Descriptor describes one check of the standard.
type Descriptor struct {
	Name        string
	Severity    Severity
	Description string
	// Params holds rule-specific parameters such as file_name or values.
	Params map[string]any
}

// Group is a named list of values, e.g. one badge category.
type Group struct {
	Name   string
	Values []string
}

// String returns the string parameter key, or "" if absent.
func (d *Descriptor) String(key string) string {
	s, _ := d.Params[key].(string)
	return s
}

// Strings returns the list parameter key as strings. Non-string items
// are skipped.
func (d *Descriptor) Strings(key string) []string {
	return toStrings(d.Params[key])
}

// Groups returns a parameter shaped as a list of single-key maps:
//
//	values:
//	  - library_status: [a, b]
//	  - standard_target: [c, d]
func (d *Descriptor) Groups(key string) []Group {
	items, _ := d.Params[key].([]any)
	var groups []Group
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		for name, v := range m {
			groups = append(groups, Group{Name: name, Values: toStrings(v)})
		}
	}
	return groups
}

// Lines returns the lines of the description that start with prefix,
// with surrounding whitespace removed.
func (d *Descriptor) Lines(prefix string) []string {
	var out []string
	for _, line := range strings.Split(d.Description, "\n") {
		if line = strings.TrimSpace(line); strings.HasPrefix(line, prefix) {
			out = append(out, line)
		}
	}
	return out
}

// Status line prefixes of the Beman library maturity model, in a README
// and in a CHANGELOG.
const (
	LibraryStatusPrefix   = "**Status**:"
	ChangelogStatusPrefix = "- [LIBRARY_STATUS]"
)

func toStrings(v any) []string {
	items, _ := v.([]any)
	var out []string
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Catalogue is an ordered, immutable table of descriptors.
type Catalogue struct {
	names   []string
	entries map[string]*Descriptor
}

// NewCatalogue validates descs and returns them as a catalogue, keeping
// their order.
func NewCatalogue(descs []Descriptor) (*Catalogue, error) {
	c := &Catalogue{entries: make(map[string]*Descriptor, len(descs))}
	for i := range descs {
		d := descs[i]
		if err := validateDescriptor(&d); err != nil {
			return nil, err
		}
		if _, dup := c.entries[d.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate check %q", ErrInvalidCatalogue, d.Name)
		}
		c.names = append(c.names, d.Name)
		c.entries[d.Name] = &d
	}
	return c, nil
}

func validateDescriptor(d *Descriptor) error {
	if !checkNameRe.MatchString(d.Name) {
		return fmt.Errorf("%w: malformed check name %q", ErrInvalidCatalogue, d.Name)
	}
	if IsInternal(d.Name) {
		return fmt.Errorf("%w: %q uses the reserved %q prefix", ErrInvalidCatalogue, d.Name, InternalPrefix)
	}
	if !d.Severity.Valid() {
		return fmt.Errorf("%w: check %q: unknown severity %q", ErrInvalidCatalogue, d.Name, d.Severity)
	}
	switch d.Name {
	case "readme.library_status":
		// The Beman library maturity model has exactly four states, given
		// as values or as status lines of the description.
		n := len(d.Strings("values"))
		if n == 0 {
			n = len(d.Lines(LibraryStatusPrefix))
		}
		if n != 4 {
			return fmt.Errorf("%w: readme.library_status needs 4 statuses, got %d", ErrInvalidCatalogue, n)
		}
	case "changelog.library_status":
		if len(d.Strings("values")) == 0 && len(d.Lines(ChangelogStatusPrefix)) == 0 {
			return fmt.Errorf("%w: changelog.library_status lists no %q lines", ErrInvalidCatalogue, ChangelogStatusPrefix)
		}
	case "readme.badges":
		for _, g := range d.Groups("values") {
			if len(g.Values) == 0 {
				return fmt.Errorf("%w: readme.badges category %q is empty", ErrInvalidCatalogue, g.Name)
			}
		}
	}
	return nil
}

// Names returns the check names in catalogue order.
func (c *Catalogue) Names() []string {
	return append([]string(nil), c.names...)
}

// Get returns the descriptor for name.
func (c *Catalogue) Get(name string) (*Descriptor, bool) {
	d, ok := c.entries[name]
	return d, ok
}

// Len returns the number of checks in the catalogue.
func (c *Catalogue) Len() int { return len(c.names) }
