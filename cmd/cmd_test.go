package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/bemanproject/beman-tidy/internal/report"
)

func git(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", append([]string{
		"-c", "user.name=Test", "-c", "user.email=test@example.com",
		"-c", "commit.gpgsign=false",
	}, args...)...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))
}

// newRepo commits files into a fresh repository named exemplar on main.
func newRepo(t *testing.T, files map[string]string) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	dir := filepath.Join(t.TempDir(), "exemplar")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	git(t, dir, "init", "--quiet")
	git(t, dir, "symbolic-ref", "HEAD", "refs/heads/main")
	for rel, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	git(t, dir, "add", "--all")
	git(t, dir, "commit", "--quiet", "--allow-empty", "-m", "initial")
	return dir
}

func run(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	code = exitCode(cmd.Execute(), &errOut)
	return code, out.String(), errOut.String()
}

const goodTitle = "# beman.exemplar: A Beman Library Exemplar\n"

func TestLintPasses(t *testing.T) {
	dir := newRepo(t, map[string]string{"README.md": goodTitle})

	code, out, _ := run(t, "--checks", "repository.name,repository.default_branch,readme.title", dir)
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "Summary    Requirement:  2 checks passed, 0 checks failed")
	assert.Contains(t, out, "Summary Recommendation:  1 checks passed, 0 checks failed")
	assert.Contains(t, out, "Coverage          TOTAL:")
}

func TestLintFailureCountIsExitCode(t *testing.T) {
	dir := newRepo(t, map[string]string{"README.md": "Wrong Title Format\n"})

	code, out, _ := run(t, "--checks", "readme.title,toplevel.cmake,repository.name", dir)
	assert.Equal(t, 2, code)
	assert.Contains(t, out, "Summary    Requirement:  0 checks passed, 2 checks failed")

	code, _, _ = run(t, "--checks", "readme.title,toplevel.cmake,readme.implements", "--require-all", dir)
	assert.Equal(t, 3, code)
}

func TestLintVerbose(t *testing.T) {
	dir := newRepo(t, map[string]string{"README.md": "Wrong Title Format\n"})

	_, out, _ := run(t, "-v", "--checks", "readme.title", dir)
	assert.Contains(t, out, "beman-tidy pipeline started ...")
	assert.Contains(t, out, "Running check [Requirement][readme.title] ... ")
	assert.Contains(t, out, "[readme.title             ]: ")
	assert.Contains(t, out, "\tcheck [Requirement][readme.title] ... failed")
}

func TestLintFixInplace(t *testing.T) {
	dir := newRepo(t, map[string]string{"README.md": "Wrong Title Format\n\nBody.\n"})

	code, _, _ := run(t, "--fix-inplace", "--checks", "readme.title", dir)
	assert.Equal(t, 0, code)
	data, err := os.ReadFile(filepath.Join(dir, "README.md"))
	require.NoError(t, err)
	assert.Equal(t, "# beman.exemplar: TODO Short Description\n\nBody.\n", string(data))
}

func TestLintFixInplaceRefusesDirtyTree(t *testing.T) {
	dir := newRepo(t, map[string]string{"README.md": "Wrong Title Format\n"})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("Edited\n"), 0o644))

	code, out, errOut := run(t, "--fix-inplace", "--checks", "readme.title", dir)
	assert.Equal(t, exitAbort, code)
	assert.Contains(t, out, "Unstaged changes in: README.md")
	assert.Contains(t, errOut, "refusing to fix in place")

	data, err := os.ReadFile(filepath.Join(dir, "README.md"))
	require.NoError(t, err)
	assert.Equal(t, "Edited\n", string(data), "nothing is fixed")
}

func TestLintJSON(t *testing.T) {
	dir := newRepo(t, map[string]string{"README.md": goodTitle})

	code, out, _ := run(t, "--format", "json", "--checks", "readme.title,toplevel.cmake", dir)
	assert.Equal(t, 1, code)

	var got struct {
		RunID      string `json:"run_id"`
		Repository string `json:"repository"`
		Checks     []struct {
			Name    string `json:"name"`
			Outcome string `json:"outcome"`
		} `json:"checks"`
		ExitCode int `json:"exit_code"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got), out)
	assert.NotEmpty(t, got.RunID)
	assert.Equal(t, "exemplar", got.Repository)
	assert.Equal(t, 1, got.ExitCode)
	require.Len(t, got.Checks, 2)
	assert.Equal(t, "passed", got.Checks[0].Outcome)
	assert.Equal(t, "failed", got.Checks[1].Outcome)
}

func TestLintMetricsFile(t *testing.T) {
	dir := newRepo(t, map[string]string{"README.md": goodTitle})
	metrics := filepath.Join(t.TempDir(), "beman_tidy.prom")

	code, _, _ := run(t, "--metrics-file", metrics, "--checks", "readme.title", dir)
	assert.Equal(t, 0, code)
	data, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(data), `beman_tidy_checks{outcome="passed",severity="Requirement"} 1`)
}

func TestLintProjectConfig(t *testing.T) {
	dir := newRepo(t, map[string]string{
		"README.md":        "Wrong Title Format\n",
		".beman-tidy.yaml": "exclude:\n  - readme.title\nrequire_all: true\n",
	})

	code, out, _ := run(t, "--checks", "readme.title,repository.name", dir)
	assert.Equal(t, 0, code, "the failing check is excluded")
	assert.Contains(t, out, "Summary    Requirement:  1 checks passed", "repository.name is promoted")
}

func TestLintCustomStandard(t *testing.T) {
	dir := newRepo(t, map[string]string{"README.md": goodTitle})
	standard := filepath.Join(t.TempDir(), "standard.yml")
	require.NoError(t, os.WriteFile(standard, []byte(
		"readme.title:\n  type: Requirement\n  full_text_body: |\n    The title.\n"), 0o644))

	code, out, _ := run(t, "--standard", standard, dir)
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "Summary    Requirement:  1 checks passed, 0 checks failed, 0 checks skipped,  0 checks not implemented.")
	assert.Contains(t, out, "Summary Recommendation:  0 checks passed")
}

func TestLintConfigErrors(t *testing.T) {
	dir := newRepo(t, nil)

	code, _, errOut := run(t, "--format", "xml", dir)
	assert.Equal(t, exitConfig, code)
	assert.Contains(t, errOut, "unknown format")

	code, _, errOut = run(t, "--config", filepath.Join(dir, "missing.yaml"), dir)
	assert.Equal(t, exitConfig, code)
	assert.Contains(t, errOut, "missing.yaml")

	code, _, _ = run(t, "--standard", filepath.Join(dir, "missing.yml"), dir)
	assert.Equal(t, exitConfig, code)

	code, _, errOut = run(t, "--checks", "no.such_check", dir)
	assert.Equal(t, 0, code, "unimplemented names are ignored")
	assert.Empty(t, errOut)
}

func TestLintNotARepo(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	t.Setenv("GIT_CEILING_DIRECTORIES", os.TempDir())
	code, _, errOut := run(t, t.TempDir())
	assert.Equal(t, exitConfig, code)
	assert.Contains(t, errOut, "not a git repository")
}

func TestListCommand(t *testing.T) {
	dir := newRepo(t, map[string]string{".beman-tidy.yaml": "exclude: [readme.badges]\n"})

	code, out, _ := run(t, "list", dir)
	assert.Equal(t, 0, code)
	assert.Regexp(t, `(?m)^Requirement\s+readme\.title\s+implemented$`, out)
	assert.Regexp(t, `(?m)^Requirement\s+readme\.badges\s+implemented \(excluded\)$`, out)
	assert.Regexp(t, `(?m)^Recommendation\s+cmake\.default\s+not implemented$`, out)
	assert.Regexp(t, `(?m)^Recommendation\s+changelog\.title\s+implemented$`, out)
	assert.Contains(t, out, "checks, ")
}

func TestVersionCommand(t *testing.T) {
	code, out, _ := run(t, "version")
	assert.Equal(t, 0, code)
	assert.Equal(t, "beman-tidy version dev\n", out)
}

func TestExitCode(t *testing.T) {
	var buf bytes.Buffer
	assert.Equal(t, 0, exitCode(nil, &buf))
	assert.Equal(t, 7, exitCode(&exitError{code: 7}, &buf))
	assert.Empty(t, buf.String())

	assert.Equal(t, exitAbort, exitCode(&exitError{code: exitAbort, err: errors.New("dirty")}, &buf))
	assert.Equal(t, "error: dirty\n", buf.String())

	buf.Reset()
	assert.Equal(t, exitConfig, exitCode(errors.New("unknown flag: --nope"), &buf))
	assert.Contains(t, buf.String(), "unknown flag")

	// A refused fix or a bad config never reads as a failure count.
	assert.Greater(t, exitAbort, report.MaxExitCode)
	assert.Greater(t, exitConfig, report.MaxExitCode)
	assert.NotEqual(t, exitAbort, exitConfig)
}

func TestWatchTree(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".git"), 0o755))

	ctx, cancel := context.WithCancel(context.Background())
	var runs atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- watchTree(ctx, root, 50*time.Millisecond, nil, zaptest.NewLogger(t).Sugar(), func() { runs.Add(1) })
	}()

	require.Eventually(t, func() bool { return runs.Load() == 1 }, 2*time.Second, 10*time.Millisecond)

	// A burst of writes settles into one run.
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(root, "README.md"), []byte(strings.Repeat("x", i+1)), 0o644))
	}
	require.Eventually(t, func() bool { return runs.Load() == 2 }, 2*time.Second, 10*time.Millisecond)

	// New directories are watched too.
	require.NoError(t, os.MkdirAll(filepath.Join(root, "docs"), 0o755))
	require.Eventually(t, func() bool { return runs.Load() == 3 }, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(root, "docs", "usage.md"), []byte("x"), 0o644))
	require.Eventually(t, func() bool { return runs.Load() == 4 }, 2*time.Second, 10*time.Millisecond)

	// Changes under .git are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(root, ".git", "index"), []byte("x"), 0o644))
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, int32(4), runs.Load())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watchTree did not stop")
	}
}

func TestWatchIgnoresMetricsFileInRepo(t *testing.T) {
	dir := newRepo(t, map[string]string{"README.md": goodTitle})
	o := &options{checks: []string{"readme.title"}, metricsFile: filepath.Join(dir, "beman_tidy.prom")}
	s, err := o.resolve(context.Background(), dir)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var runs atomic.Int32
	var stdout, stderr bytes.Buffer
	done := make(chan error, 1)
	go func() {
		done <- watchTree(ctx, s.info.TopLevel, 50*time.Millisecond, s.ownOutput(), s.logger, func() {
			_, _ = s.lint(&stdout, &stderr, false)
			runs.Add(1)
		})
	}()

	require.Eventually(t, func() bool { return runs.Load() == 1 }, 5*time.Second, 10*time.Millisecond)
	time.Sleep(500 * time.Millisecond)
	assert.Equal(t, int32(1), runs.Load(), "the run's own metrics file retriggered it")
	assert.FileExists(t, o.metricsFile)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watchTree did not stop")
	}
}

func TestWrittenFiles(t *testing.T) {
	dir := t.TempDir()
	match := writtenFiles(filepath.Join(dir, "beman_tidy.prom"))
	assert.True(t, match(filepath.Join(dir, "beman_tidy.prom")))
	assert.True(t, match(filepath.Join(dir, "beman_tidy.prom123456")))
	assert.False(t, match(filepath.Join(dir, "README.md")))
	assert.False(t, match(filepath.Join(dir, "docs", "beman_tidy.prom")))
}

func TestInGitDir(t *testing.T) {
	root := filepath.FromSlash("/src/exemplar")
	assert.True(t, inGitDir(root, filepath.Join(root, ".git")))
	assert.True(t, inGitDir(root, filepath.Join(root, ".git", "index")))
	assert.False(t, inGitDir(root, filepath.Join(root, ".github", "CODEOWNERS")))
	assert.False(t, inGitDir(root, filepath.Join(root, "README.md")))
}
