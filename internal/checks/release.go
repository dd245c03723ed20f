package checks

import "regexp"

// Release data lives on GitHub; beman-tidy works offline.
type releaseGithub struct{ unverifiable }

type releaseNotes struct{ unverifiable }

// releaseGodboltTrunkVersion: the README carries a Compiler Explorer
// badge, taken as evidence that trunk is available there.
type releaseGodboltTrunkVersion struct{ readmeFile }

var godboltBadgeRe = regexp.MustCompile(`\[!\[Compiler Explorer Example\]\(https://img\.shields\.io/badge/Try%20it%20on%20Compiler%20Explorer-grey\?logo=compilerexplorer&logoColor=67c52a\)\]\(https://godbolt\.org/z/([a-zA-Z0-9]+)\)`)

func (r *releaseGodboltTrunkVersion) Validate() bool {
	if !godboltBadgeRe.MatchString(r.readme.Read()) {
		r.Logf("The file '%s' does not contain a Compiler Explorer badge - trunk version assumed to be missing.", r.readme.Path())
		return false
	}
	return true
}

func (r *releaseGodboltTrunkVersion) Fix() bool {
	return manualFix(r, "Please add a Compiler Explorer badge linking to an example built against trunk.")
}

func registerRelease(reg *Registry) {
	Register(reg, "release.github", func(b *Base) *releaseGithub {
		return &releaseGithub{unverifiable{b, "beman-tidy cannot check GitHub releases offline."}}
	})
	Register(reg, "release.notes", func(b *Base) *releaseNotes {
		return &releaseNotes{unverifiable{b, "beman-tidy cannot check release notes offline."}}
	})
	Register(reg, "release.godbolt_trunk_version", func(b *Base) *releaseGodboltTrunkVersion {
		return &releaseGodboltTrunkVersion{newReadmeFile(b)}
	})
}
