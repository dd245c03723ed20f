package checks

import (
	"regexp"
	"strings"
)

// satisfied runs PreValidate and Validate with the rule's output off.
func satisfied(r Rule) bool {
	b := r.Core()
	on := b.logging
	b.logging = false
	defer func() { b.logging = on }()
	return r.PreValidate() && r.Validate()
}

// manualFix is the Fix of a rule that cannot repair the repository: it
// succeeds only when nothing needs repairing, and otherwise logs msg.
func manualFix(r Rule, msg string) bool {
	if satisfied(r) {
		return true
	}
	r.Core().Log(msg + " " + hint(r.Core().Name()))
	return false
}

// fileParam returns the file_name parameter of the rule, or def.
func fileParam(b *Base, def string) string {
	if name := b.Descriptor().String("file_name"); name != "" {
		return name
	}
	return def
}

// dirParam returns the directory_name parameter of the rule, or def.
func dirParam(b *Base, def string) string {
	if name := b.Descriptor().String("directory_name"); name != "" {
		return name
	}
	return def
}

// unverifiable is embedded by rules that cannot be decided offline. They
// are always skipped.
type unverifiable struct {
	*Base
	reason string
}

func (r *unverifiable) ShouldSkip() bool {
	r.Log(r.reason + " " + hint(r.Name()))
	return true
}

func (r *unverifiable) Validate() bool { return false }

func (r *unverifiable) Fix() bool { return false }

var (
	snakeCaseRe      = regexp.MustCompile(`(^[a-z0-9]+$)|(^[a-z0-9][a-z0-9_.]+[a-z0-9]$)`)
	trailingDigitsRe = regexp.MustCompile(`[0-9]+$`)
)

func isSnakeCase(name string) bool {
	return snakeCaseRe.MatchString(name)
}

// isBemanShortName accepts snake_case names without the beman. prefix and
// without a trailing C++ version such as 26.
func isBemanShortName(name string) bool {
	return !strings.HasPrefix(name, "beman.") &&
		isSnakeCase(name) &&
		!trailingDigitsRe.MatchString(name)
}

func anyMatch(content string, res []*regexp.Regexp) bool {
	for _, re := range res {
		if re.MatchString(content) {
			return true
		}
	}
	return false
}

func ci(exprs ...string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		res[i] = regexp.MustCompile(`(?i)` + e)
	}
	return res
}

var (
	apacheNameRe = ci(`Apache License`)
	apacheVerRe  = ci(`Version v?2\.0`, `Apache License v?2\.0 with LLVM Exceptions`, `Apache v?2\.0`)
	llvmExcRe    = ci(`LLVM Exceptions`)
	boostNameRe  = ci(`Boost Software License`, `Boost License`)
	boostVerRe   = ci(`Version 1\.0`, `V1\.0`, `Boost Software License 1\.0`)
	mitNameRe    = ci(`MIT License`)
)

// matchApacheLLVM recognises the Apache License v2.0 with LLVM Exceptions
// and its common spellings.
func matchApacheLLVM(content string) bool {
	return anyMatch(content, apacheNameRe) && anyMatch(content, apacheVerRe) && anyMatch(content, llvmExcRe)
}

func matchBoost(content string) bool {
	return anyMatch(content, boostNameRe) && anyMatch(content, boostVerRe)
}

func matchMIT(content string) bool {
	return anyMatch(content, mitNameRe)
}

// pathHasComponent reports whether any slash-separated element of rel is
// in names.
func pathHasComponent(rel string, names map[string]bool) bool {
	for _, part := range strings.Split(rel, "/") {
		if names[part] {
			return true
		}
	}
	return false
}
