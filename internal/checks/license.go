package checks

import "strings"

type licenseFile struct {
	*Base
	license *File
}

func newLicenseFile(b *Base) licenseFile {
	return licenseFile{Base: b, license: NewFile(b, fileParam(b, "LICENSE"))}
}

func (r *licenseFile) PreValidate() bool {
	return r.Base.PreValidate() && r.license.PreValidate()
}

var approvedLicenses = []string{"Apache License", "Boost Software License", "MIT License"}

// licenseApproved: some line names one of the approved licenses.
type licenseApproved struct{ licenseFile }

func (r *licenseApproved) Validate() bool {
	for _, line := range r.license.ReadLinesTrimmed() {
		for _, name := range approvedLicenses {
			if strings.Contains(line, name) {
				return true
			}
		}
	}
	r.Logf("The file '%s' does not contain an approved license.", r.license.Path())
	return false
}

func (r *licenseApproved) Fix() bool {
	return manualFix(r, "Please update the LICENSE file to include an approved license.")
}

// licenseApacheLLVM: the license is Apache 2.0 with LLVM Exceptions.
type licenseApacheLLVM struct{ licenseFile }

func (r *licenseApacheLLVM) Validate() bool {
	if !matchApacheLLVM(r.license.Read()) {
		r.Logf("The file '%s' is not the Apache License v2.0 with LLVM Exceptions.", r.license.Path())
		return false
	}
	return true
}

func (r *licenseApacheLLVM) Fix() bool {
	return manualFix(r, "Please consider the Apache License v2.0 with LLVM Exceptions.")
}

// licenseCriteria needs a legal review.
type licenseCriteria struct{ unverifiable }

func registerLicense(reg *Registry) {
	Register(reg, "license.approved", func(b *Base) *licenseApproved {
		return &licenseApproved{newLicenseFile(b)}
	})
	Register(reg, "license.apache_llvm", func(b *Base) *licenseApacheLLVM {
		return &licenseApacheLLVM{newLicenseFile(b)}
	})
	Register(reg, "license.criteria", func(b *Base) *licenseCriteria {
		return &licenseCriteria{unverifiable{b,
			"beman-tidy cannot check license.criteria. The license must be reviewed against the Beman licensing criteria."}}
	})
}
