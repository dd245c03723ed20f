package checks

// toplevelFile requires a non-empty file at the repository root.
type toplevelFile struct {
	*Base
	file *File
}

func newToplevelFile(b *Base, def string) toplevelFile {
	return toplevelFile{Base: b, file: NewFile(b, fileParam(b, def))}
}

func (r *toplevelFile) Validate() bool { return r.file.PreValidate() }

type toplevelCMake struct{ toplevelFile }

func (r *toplevelCMake) Fix() bool {
	return manualFix(r, "Please add a top level CMakeLists.txt.")
}

type toplevelLicense struct{ toplevelFile }

func (r *toplevelLicense) Fix() bool {
	return manualFix(r, "Please add a top level "+r.file.Rel()+" file with an approved license.")
}

type toplevelReadme struct{ toplevelFile }

func (r *toplevelReadme) Fix() bool {
	return manualFix(r, "Please add a top level "+r.file.Rel()+" file.")
}

func registerToplevel(reg *Registry) {
	Register(reg, "toplevel.cmake", func(b *Base) *toplevelCMake {
		return &toplevelCMake{newToplevelFile(b, "CMakeLists.txt")}
	})
	Register(reg, "toplevel.license", func(b *Base) *toplevelLicense {
		return &toplevelLicense{newToplevelFile(b, "LICENSE")}
	})
	Register(reg, "toplevel.readme", func(b *Base) *toplevelReadme {
		return &toplevelReadme{newToplevelFile(b, "README.md")}
	})
}
