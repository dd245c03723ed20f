package checks

// libraryName cannot be checked directly; cmake.library_name and
// repository.name cover it.
type libraryName struct{ unverifiable }

func registerGeneral(reg *Registry) {
	Register(reg, "library.name", func(b *Base) *libraryName {
		return &libraryName{unverifiable{b,
			"beman-tidy cannot check library.name. Please ignore this message if cmake.library_name and repository.name have passed."}}
	})
}
