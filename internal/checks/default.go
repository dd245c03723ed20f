package checks

// Default returns a registry holding every implemented rule.
func Default() *Registry {
	reg := NewRegistry()
	registerGeneral(reg)
	registerRepository(reg)
	registerRelease(reg)
	registerToplevel(reg)
	registerLicense(reg)
	registerReadme(reg)
	registerChangelog(reg)
	registerDirectory(reg)
	return reg
}
