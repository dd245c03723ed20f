package checks

import (
	"path"
	"strings"
)

const headerPattern = "**/*.{hpp,hxx,hh,h}"

func under(rel, dir string) bool {
	return strings.HasPrefix(rel, dir+"/")
}

// directoryInterfaceHeaders: public headers live in include/beman/<name>.
type directoryInterfaceHeaders struct {
	*Base
	include *Dir
	tree    *Dir
}

func (r *directoryInterfaceHeaders) Validate() bool {
	if !r.tree.Exists() {
		r.Logf("Missing interface headers directory %s.", r.tree.Rel())
		return false
	}
	if len(r.tree.Files(headerPattern)) == 0 {
		r.Logf("No headers found in %s.", r.tree.Rel())
		return false
	}
	ok := true
	for _, h := range r.include.Files(headerPattern) {
		if !under(h, r.tree.Rel()) {
			r.Logf("Misplaced interface header found: %s", h)
			ok = false
		}
	}
	return ok
}

func (r *directoryInterfaceHeaders) Fix() bool {
	return manualFix(r, "Please move the public headers to "+r.tree.Rel()+".")
}

// directorySources: sources live in src/beman/<name>. Header-only
// libraries have no src/ at all, which is fine.
type directorySources struct {
	*Base
	src  *Dir
	tree *Dir
}

var forbiddenSourceDirs = []string{"source", "sources", "lib", "library"}

func (r *directorySources) PreValidate() bool { return true }

func (r *directorySources) Validate() bool {
	for _, name := range forbiddenSourceDirs {
		if d := NewDir(r.Base, name); d.Exists() {
			r.Logf("Please move source files from %s to %s.", d.Path(), r.tree.Rel())
			return false
		}
	}
	if r.src.Exists() && !r.tree.Exists() {
		r.Logf("Please use the required source files location: %s.", r.tree.Rel())
		return false
	}
	return true
}

func (r *directorySources) Fix() bool {
	return manualFix(r, "Please manually move sources to "+r.tree.Rel()+".")
}

// directoryTests: unit tests named *.test.cpp live in tests/beman/<name>
// next to a CMakeLists.txt.
type directoryTests struct {
	*Base
	tree *Dir
}

func (r *directoryTests) Validate() bool {
	if !r.tree.Exists() {
		r.Logf("Missing tests directory %s.", r.tree.Rel())
		return false
	}
	ok := true
	if len(r.tree.Files("CMakeLists.txt")) == 0 {
		r.Logf("Missing %s.", path.Join(r.tree.Rel(), "CMakeLists.txt"))
		ok = false
	}
	if len(r.tree.Files("**/*.test.cpp")) == 0 {
		r.Logf("No *.test.cpp files found in %s.", r.tree.Rel())
		ok = false
	}
	for _, t := range r.tree.Glob("**/*.test.cpp") {
		if !under(t, r.tree.Rel()) {
			r.Logf("Misplaced test file found: %s", t)
			ok = false
		}
	}
	return ok
}

func (r *directoryTests) Fix() bool {
	return manualFix(r, "Please move the unit tests to "+r.tree.Rel()+".")
}

// directoryExamples: examples/ with a CMakeLists.txt and some .cpp.
type directoryExamples struct {
	*Base
	examples *Dir
}

func (r *directoryExamples) Validate() bool {
	if !r.examples.Exists() {
		r.Logf("Missing examples directory %s.", r.examples.Rel())
		return false
	}
	ok := true
	if len(r.examples.Files("CMakeLists.txt")) == 0 {
		r.Logf("Missing %s.", path.Join(r.examples.Rel(), "CMakeLists.txt"))
		ok = false
	}
	if len(r.examples.Files("**/*.cpp")) == 0 {
		r.Logf("No .cpp files found in %s.", r.examples.Rel())
		ok = false
	}
	return ok
}

func (r *directoryExamples) Fix() bool {
	return manualFix(r, "Please add examples with a CMakeLists.txt to "+r.examples.Rel()+".")
}

// directoryDocs: Markdown other than the root README.md lives in docs/.
type directoryDocs struct {
	*Base
	docs *Dir
}

func (r *directoryDocs) PreValidate() bool { return true }

func (r *directoryDocs) Validate() bool {
	exclude := map[string]bool{"papers": true, ".github": true}
	if r.docs.Exists() {
		exclude[r.docs.Rel()] = true
	}
	if r.RepoName() == "exemplar" {
		exclude["cookiecutter"] = true
		exclude["infra"] = true
	}
	var misplaced []string
	for _, md := range r.docs.Glob("**/*.md") {
		if md == "README.md" || pathHasComponent(md, exclude) {
			continue
		}
		misplaced = append(misplaced, md)
	}
	for _, md := range misplaced {
		r.Logf("Misplaced MD file found: %s", md)
	}
	if len(misplaced) > 0 {
		r.Log("Please move all documentation files within the docs/ directory, except for the root README.md file.")
		return false
	}
	return true
}

func (r *directoryDocs) Fix() bool {
	return manualFix(r, "Please manually move documentation files to the docs/ directory, except for the root README.md file.")
}

// directoryPapers: paper sources and assets live in papers/.
type directoryPapers struct {
	*Base
	papers *Dir
}

const paperPattern = "**/*.{bib,pdf,tex,png,jpg,jpeg,svg,bst}"

func (r *directoryPapers) PreValidate() bool { return true }

func (r *directoryPapers) Validate() bool {
	exclude := map[string]bool{"src": true}
	if r.papers.Exists() {
		exclude[r.papers.Rel()] = true
	}
	if r.RepoName() == "exemplar" {
		exclude["cookiecutter"] = true
	}
	var misplaced []string
	for _, p := range r.papers.Glob(paperPattern) {
		if !pathHasComponent(p, exclude) {
			misplaced = append(misplaced, p)
		}
	}
	for _, p := range misplaced {
		r.Logf("Misplaced paper file found: %s", p)
	}
	if len(misplaced) > 0 {
		r.Log("Please move all paper related files (and directories if applicable) within the papers/ directory.")
		return false
	}
	return true
}

func (r *directoryPapers) Fix() bool {
	return manualFix(r, "Please move all paper related files (and directories if applicable) to the papers/ directory.")
}

func registerDirectory(reg *Registry) {
	Register(reg, "directory.interface_headers", func(b *Base) *directoryInterfaceHeaders {
		prefix := dirParam(b, "include")
		return &directoryInterfaceHeaders{Base: b, include: NewDir(b, prefix), tree: newTreeDir(b, prefix)}
	})
	Register(reg, "directory.sources", func(b *Base) *directorySources {
		prefix := dirParam(b, "src")
		return &directorySources{Base: b, src: NewDir(b, prefix), tree: newTreeDir(b, prefix)}
	})
	Register(reg, "directory.tests", func(b *Base) *directoryTests {
		return &directoryTests{Base: b, tree: newTreeDir(b, dirParam(b, "tests"))}
	})
	Register(reg, "directory.examples", func(b *Base) *directoryExamples {
		return &directoryExamples{Base: b, examples: NewDir(b, dirParam(b, "examples"))}
	})
	Register(reg, "directory.docs", func(b *Base) *directoryDocs {
		return &directoryDocs{Base: b, docs: NewDir(b, dirParam(b, "docs"))}
	})
	Register(reg, "directory.papers", func(b *Base) *directoryPapers {
		return &directoryPapers{Base: b, papers: NewDir(b, dirParam(b, "papers"))}
	})
}
