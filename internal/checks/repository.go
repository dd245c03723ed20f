package checks

import (
	"fmt"
	"path"
	"strings"
)

// repositoryName: the repository is named after the library's short name.
type repositoryName struct{ *Base }

func (r *repositoryName) Validate() bool {
	if !isBemanShortName(r.RepoName()) {
		r.Logf("The repository should be named after the library in snake_case, without the beman. prefix or a trailing version, but it is %q.",
			r.RepoName())
		return false
	}
	return true
}

func (r *repositoryName) Fix() bool {
	return manualFix(r, "Please rename the repository. This needs to be done on the hosting platform.")
}

// repositoryCodeowners: a non-empty .github/CODEOWNERS.
type repositoryCodeowners struct {
	*Base
	codeowners *File
}

func (r *repositoryCodeowners) Validate() bool { return r.codeowners.PreValidate() }

func (r *repositoryCodeowners) Fix() bool {
	return manualFix(r, "Please add a CODEOWNERS file to the repository.")
}

// repositoryDefaultBranch: the default branch is main.
type repositoryDefaultBranch struct{ *Base }

func (r *repositoryDefaultBranch) Validate() bool {
	if r.Repo().DefaultBranch == "main" {
		return true
	}
	r.Logf("The default branch of the repository should be 'main', but it is '%s'.", r.Repo().DefaultBranch)
	return false
}

func (r *repositoryDefaultBranch) Fix() bool {
	return manualFix(r, "Please change the default branch to 'main'. This typically needs to be done on the hosting platform.")
}

// repositoryDisallowGitSubmodules: no submodules besides the wg21 one used
// for papers.
type repositoryDisallowGitSubmodules struct {
	*Base
	gitmodules *File
}

type submodule struct {
	name, path, url string
}

func (s submodule) isWG21() bool {
	return path.Base(s.path) == "wg21" || strings.Contains(s.url, "/wg21")
}

func (r *repositoryDisallowGitSubmodules) Validate() bool {
	if !r.gitmodules.Exists() {
		return true
	}
	mods := parseGitmodules(r.gitmodules.Read())
	var offending []string
	for _, m := range mods {
		if !m.isWG21() {
			offending = append(offending, m.name)
		}
	}
	if len(offending) > 0 || len(mods) > 1 {
		r.Logf("The repository should not use git submodules other than wg21, found %d: %s.",
			len(mods), strings.Join(submoduleNames(mods), ", "))
		return false
	}
	return true
}

func (r *repositoryDisallowGitSubmodules) Fix() bool {
	return manualFix(r, "Please remove the git submodules and fetch dependencies with CMake FetchContent.")
}

// parseGitmodules reads the [submodule "x"] sections of a .gitmodules file.
func parseGitmodules(content string) []submodule {
	var mods []submodule
	for _, line := range splitLines(content) {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}
		if strings.HasPrefix(line, "[") {
			name := strings.TrimSuffix(strings.TrimPrefix(line, "[submodule"), "]")
			mods = append(mods, submodule{name: strings.Trim(strings.TrimSpace(name), `"`)})
			continue
		}
		if len(mods) == 0 {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		cur := &mods[len(mods)-1]
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "path":
			cur.path = strings.TrimSpace(value)
		case "url":
			cur.url = strings.TrimSpace(value)
		}
	}
	return mods
}

func submoduleNames(mods []submodule) []string {
	names := make([]string, len(mods))
	for i, m := range mods {
		names[i] = m.name
		if names[i] == "" {
			names[i] = fmt.Sprintf("#%d", i+1)
		}
	}
	return names
}

func registerRepository(reg *Registry) {
	Register(reg, "repository.name", func(b *Base) *repositoryName {
		return &repositoryName{b}
	})
	Register(reg, "repository.codeowners", func(b *Base) *repositoryCodeowners {
		return &repositoryCodeowners{Base: b, codeowners: NewFile(b, fileParam(b, ".github/CODEOWNERS"))}
	})
	Register(reg, "repository.default_branch", func(b *Base) *repositoryDefaultBranch {
		return &repositoryDefaultBranch{b}
	})
	Register(reg, "repository.disallow_git_submodules", func(b *Base) *repositoryDisallowGitSubmodules {
		return &repositoryDisallowGitSubmodules{Base: b, gitmodules: NewFile(b, fileParam(b, ".gitmodules"))}
	})
}
