// Command beman-tidy checks C++ library repositories against the Beman
// Standard.
package main

import "github.com/bemanproject/beman-tidy/cmd"

func main() {
	cmd.Execute()
}
