package checks

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bemanproject/beman-tidy/internal/standard"
)

// readmeFile is the shared shape of the readme.* rules.
type readmeFile struct {
	*Base
	readme *File
}

func newReadmeFile(b *Base) readmeFile {
	return readmeFile{Base: b, readme: NewFile(b, fileParam(b, "README.md"))}
}

func (r *readmeFile) PreValidate() bool {
	return r.Base.PreValidate() && r.readme.PreValidate()
}

// readmeTitle: the first line is "# beman.<short_name>: <description>".
type readmeTitle struct{ readmeFile }

func (r *readmeTitle) titleRe() *regexp.Regexp {
	return regexp.MustCompile(`^# ` + regexp.QuoteMeta(r.LibraryName()) + `: (.*)$`)
}

func (r *readmeTitle) Validate() bool {
	lines := r.readme.ReadLinesTrimmed()
	if len(lines) == 0 || !r.titleRe().MatchString(lines[0]) {
		r.Logf("The first line of the file '%s' is invalid. It should start with '# %s: <short_description>'.",
			r.readme.Path(), r.LibraryName())
		return false
	}
	return true
}

func (r *readmeTitle) Fix() bool {
	if satisfied(r) {
		return true
	}
	title := fmt.Sprintf("# %s: TODO Short Description", r.LibraryName())
	if len(r.readme.ReadLines()) == 0 {
		return r.readme.WriteLines([]string{title})
	}
	return r.readme.ReplaceLine(0, title)
}

// readmeBadges: exactly one badge of every configured category.
type readmeBadges struct{ readmeFile }

func (r *readmeBadges) Validate() bool {
	groups := r.Descriptor().Groups("values")
	if len(groups) == 0 {
		r.Log("No badge categories are configured.")
		return false
	}
	content := r.readme.Read()
	ok := true
	for _, g := range groups {
		if countPresent(content, g.Values) != 1 {
			r.Logf("The file '%s' does not contain exactly one required badge of category '%s'.", r.readme.Path(), g.Name)
			ok = false
		}
	}
	return ok
}

func (r *readmeBadges) Fix() bool {
	return manualFix(r, "Please add the required badges to README.md.")
}

// readmePurpose cannot be decided mechanically.
type readmePurpose struct{ unverifiable }

// readmeImplements: exactly one "**Implements**:" line naming a paper
// revision and its wg21.link URL.
type readmeImplements struct{ readmeFile }

var implementsRe = regexp.MustCompile(`^\*\*Implements\*\*:\s+.*\bP\d{4}R\d+\b.*wg21\.link/\S+`)

func (r *readmeImplements) Validate() bool {
	n := 0
	for _, line := range r.readme.ReadLinesTrimmed() {
		if implementsRe.MatchString(line) {
			n++
		}
	}
	if n != 1 {
		r.Logf("Invalid/missing/duplicate 'Implements:' line in '%s'.", r.readme.Path())
		return false
	}
	return true
}

func (r *readmeImplements) Fix() bool {
	return manualFix(r, "Please write an Implements line in README.md.")
}

// readmeLibraryStatus: exactly one status line of the maturity model.
type readmeLibraryStatus struct{ readmeFile }

// statuses are the configured values, or else the status lines of the
// rule's description.
func (r *readmeLibraryStatus) statuses() []string {
	if values := r.Descriptor().Strings("values"); len(values) > 0 {
		return values
	}
	return r.Descriptor().Lines(standard.LibraryStatusPrefix)
}

func (r *readmeLibraryStatus) Validate() bool {
	statuses := r.statuses()
	if n := countPresent(r.readme.Read(), statuses); n != 1 {
		r.Logf("The file '%s' does not contain exactly one of the required statuses (found %d of %d).",
			r.readme.Path(), n, len(statuses))
		return false
	}
	return true
}

func (r *readmeLibraryStatus) Fix() bool {
	return manualFix(r, "Please write a Status line in README.md.")
}

// readmeLicense: a "## License" section naming an approved license.
type readmeLicense struct{ readmeFile }

// The section runs to the next level two heading or the end of the file.
var licenseSectionRe = regexp.MustCompile(`(?ms)^## License\n(.*?)(?:\n##|\z)`)

func (r *readmeLicense) Validate() bool {
	content := strings.ReplaceAll(r.readme.Read(), "\r\n", "\n")
	m := licenseSectionRe.FindStringSubmatch(content)
	if m == nil {
		r.Logf("The file '%s' does not contain a `## License` section.", r.readme.Path())
		return false
	}
	text := strings.TrimSpace(m[1])
	if !matchApacheLLVM(text) && !matchBoost(text) && !matchMIT(text) {
		r.Logf("The file '%s' does not name an approved license in its License section.", r.readme.Path())
		return false
	}
	return true
}

func (r *readmeLicense) Fix() bool {
	return manualFix(r, "Please write a License section in README.md.")
}

func countPresent(content string, values []string) int {
	n := 0
	for _, v := range values {
		if strings.Contains(content, v) {
			n++
		}
	}
	return n
}

func registerReadme(reg *Registry) {
	Register(reg, "readme.title", func(b *Base) *readmeTitle {
		return &readmeTitle{newReadmeFile(b)}
	})
	Register(reg, "readme.badges", func(b *Base) *readmeBadges {
		return &readmeBadges{newReadmeFile(b)}
	})
	Register(reg, "readme.purpose", func(b *Base) *readmePurpose {
		return &readmePurpose{unverifiable{b,
			"beman-tidy cannot check readme.purpose. Please add a one line summary describing the library's purpose."}}
	})
	Register(reg, "readme.implements", func(b *Base) *readmeImplements {
		return &readmeImplements{newReadmeFile(b)}
	})
	Register(reg, "readme.library_status", func(b *Base) *readmeLibraryStatus {
		return &readmeLibraryStatus{newReadmeFile(b)}
	})
	Register(reg, "readme.license", func(b *Base) *readmeLicense {
		return &readmeLicense{newReadmeFile(b)}
	})
}
