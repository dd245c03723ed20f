package standard

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogue(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	names := c.Names()
	require.NotEmpty(t, names)
	assert.Equal(t, "library.name", names[0], "document order is kept")

	title, ok := c.Get("readme.title")
	require.True(t, ok)
	assert.Equal(t, Requirement, title.Severity)
	assert.Equal(t, "README.md", title.String("file_name"))
	assert.Contains(t, title.Description, "# beman.<short_name>")

	status, ok := c.Get("readme.library_status")
	require.True(t, ok)
	assert.Len(t, status.Strings("values"), 4)

	changelog, ok := c.Get("changelog.library_status")
	require.True(t, ok)
	assert.Len(t, changelog.Lines(ChangelogStatusPrefix), 4)

	badges, ok := c.Get("readme.badges")
	require.True(t, ok)
	groups := badges.Groups("values")
	require.Len(t, groups, 2)
	assert.Equal(t, "library_status", groups[0].Name)
	assert.Len(t, groups[0].Values, 4)
	assert.Equal(t, "standard_target", groups[1].Name)
	assert.Len(t, groups[1].Values, 2)

	for _, name := range names {
		assert.False(t, IsInternal(name), name)
	}
}

func TestParseSeverity(t *testing.T) {
	s, err := ParseSeverity("Requirement")
	require.NoError(t, err)
	assert.Equal(t, Requirement, s)

	s, err = ParseSeverity("Recommendation")
	require.NoError(t, err)
	assert.Equal(t, Recommendation, s)

	_, err = ParseSeverity("requirement")
	assert.Error(t, err)
	_, err = ParseSeverity("")
	assert.Error(t, err)
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not a mapping", "- a\n- b\n"},
		{"empty", ""},
		{"bad severity", "readme.title:\n  type: Mandatory\n"},
		{"missing severity", "readme.title:\n  full_text_body: x\n"},
		{"uppercase name", "Readme.Title:\n  type: Requirement\n"},
		{"undotted name", "readme:\n  type: Requirement\n"},
		{"internal prefix", "internal.foo:\n  type: Requirement\n"},
		{"status needs four values", "readme.library_status:\n  type: Requirement\n  values: [a, b]\n"},
		{"status needs four lines", "readme.library_status:\n  type: Requirement\n  full_text_body: |\n    **Status**: a\n"},
		{"changelog status lines", "changelog.library_status:\n  type: Recommendation\n  full_text_body: x\n"},
		{"empty badge category", "readme.badges:\n  type: Requirement\n  values:\n    - library_status: []\n"},
		{"malformed yaml", "readme.title: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.ErrorIs(t, err, ErrInvalidCatalogue)
		})
	}
}

func TestParseSeverityError(t *testing.T) {
	_, err := Parse([]byte("readme.title:\n  type: Mandatory\n"))
	require.ErrorIs(t, err, ErrInvalidCatalogue)
	assert.Contains(t, err.Error(), `check "readme.title": unknown severity "Mandatory"`)
}

func TestLibraryStatusFromDescription(t *testing.T) {
	doc := `readme.library_status:
  type: Requirement
  full_text_body: |
    The README.md must contain one of:

      **Status**: [Under development.](u)
      **Status**: [Production ready. API may undergo changes.](p)
      **Status**: [Production ready. Stable API.](s)
      **Status**: [Retired.](r)
`
	c, err := Parse([]byte(doc))
	require.NoError(t, err)
	d, ok := c.Get("readme.library_status")
	require.True(t, ok)
	assert.Empty(t, d.Strings("values"))
	assert.Equal(t, []string{
		"**Status**: [Under development.](u)",
		"**Status**: [Production ready. API may undergo changes.](p)",
		"**Status**: [Production ready. Stable API.](s)",
		"**Status**: [Retired.](r)",
	}, d.Lines(LibraryStatusPrefix))
}

func TestNewCatalogueRejectsDuplicates(t *testing.T) {
	_, err := NewCatalogue([]Descriptor{
		{Name: "readme.title", Severity: Requirement},
		{Name: "readme.title", Severity: Recommendation},
	})
	assert.ErrorIs(t, err, ErrInvalidCatalogue)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "standard.yml")
	doc := "b.second:\n  type: Recommendation\na.first:\n  type: Requirement\n  file_name: X\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	c, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"b.second", "a.first"}, c.Names())
	assert.Equal(t, 2, c.Len())

	d, ok := c.Get("a.first")
	require.True(t, ok)
	assert.Equal(t, "X", d.String("file_name"))
	assert.Empty(t, d.String("missing"))
	assert.Nil(t, d.Strings("missing"))

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}

func TestNamesIsACopy(t *testing.T) {
	c, err := NewCatalogue([]Descriptor{{Name: "a.b", Severity: Requirement}})
	require.NoError(t, err)
	names := c.Names()
	names[0] = "mutated"
	assert.Equal(t, []string{"a.b"}, c.Names())
}
