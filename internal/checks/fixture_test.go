package checks

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bemanproject/beman-tidy/internal/console"
	"github.com/bemanproject/beman-tidy/internal/repo"
	"github.com/bemanproject/beman-tidy/internal/standard"
)

// fixture is a throwaway repository on disk plus the Env to check it.
type fixture struct {
	t   *testing.T
	dir string
	out *bytes.Buffer
	env Env
}

// newFixture creates a repository named name. Keys of files ending in "/"
// create empty directories.
func newFixture(t *testing.T, name string, files map[string]string) *fixture {
	t.Helper()
	dir := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.MkdirAll(dir, 0o755))

	cat, err := standard.Default()
	require.NoError(t, err)

	out := &bytes.Buffer{}
	f := &fixture{
		t:   t,
		dir: dir,
		out: out,
		env: Env{
			Repo:      &repo.Info{Name: name, TopLevel: dir, DefaultBranch: "main"},
			Catalogue: cat,
			Console:   console.New(out, false),
		},
	}
	for rel, content := range files {
		f.write(rel, content)
	}
	return f
}

func (f *fixture) write(rel, content string) {
	f.t.Helper()
	path := filepath.Join(f.dir, filepath.FromSlash(rel))
	if strings.HasSuffix(rel, "/") {
		require.NoError(f.t, os.MkdirAll(path, 0o755))
		return
	}
	require.NoError(f.t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(f.t, os.WriteFile(path, []byte(content), 0o644))
}

func (f *fixture) read(rel string) string {
	f.t.Helper()
	data, err := os.ReadFile(filepath.Join(f.dir, filepath.FromSlash(rel)))
	require.NoError(f.t, err)
	return string(data)
}

// rule builds the named rule with its output going to f.out.
func (f *fixture) rule(name string) Rule {
	f.t.Helper()
	r, err := Default().New(name, f.env)
	require.NoError(f.t, err)
	r.Core().SetLogging(true)
	return r
}

// passes evaluates the rule the way the engine does in read-only mode.
func (f *fixture) passes(name string) bool {
	f.t.Helper()
	r := f.rule(name)
	require.False(f.t, r.ShouldSkip(), "%s is skipped", name)
	return r.PreValidate() && r.Validate()
}

func (f *fixture) values(name string) []string {
	d, ok := f.env.Catalogue.Get(name)
	require.True(f.t, ok)
	return d.Strings("values")
}

func (f *fixture) badges() []standard.Group {
	d, ok := f.env.Catalogue.Get("readme.badges")
	require.True(f.t, ok)
	return d.Groups("values")
}

const godboltBadge = "[![Compiler Explorer Example](https://img.shields.io/badge/Try%20it%20on%20Compiler%20Explorer-grey?logo=compilerexplorer&logoColor=67c52a)](https://godbolt.org/z/4qEPK87va)"

// validReadme is a README.md of beman.exemplar that satisfies every
// readme.* rule.
func (f *fixture) validReadme() string {
	groups := f.badges()
	return "# beman.exemplar: A Beman Library Exemplar\n" +
		"\n" +
		groups[0].Values[0] + " " + groups[1].Values[0] + " " + godboltBadge + "\n" +
		"\n" +
		"`beman.exemplar` is a minimal C++ library conforming to The Beman Standard.\n" +
		"\n" +
		"**Implements**: `std::identity` proposed in [Standard Library Concepts (P0898R3)](https://wg21.link/P0898R3).\n" +
		"\n" +
		f.values("readme.library_status")[0] + "\n" +
		"\n" +
		"## License\n" +
		"\n" +
		"`beman.exemplar` is licensed under the Apache License v2.0 with LLVM Exceptions.\n" +
		"\n" +
		"## Usage\n" +
		"\n" +
		"See examples/.\n"
}

const apacheLLVMLicense = `==============================================================================
The Beman Project is under the Apache License v2.0 with LLVM Exceptions:
==============================================================================

                                 Apache License
                           Version 2.0, January 2004
                        http://www.apache.org/licenses/

---- LLVM Exceptions to the Apache 2.0 License ----
`
