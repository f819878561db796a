// Package runtime ships the small Python support library that every
// emitted lumex script imports: Selector and Record, tracking the
// "current selection" that addfdtd/addrect/select/set and friends operate
// on. It is not generated from the AST; it is a fixed asset translated
// output depends on at runtime, so it travels with the binary via
// go:embed rather than living only on disk somewhere the caller has to
// locate by hand.
package runtime

import _ "embed"

//go:embed runtime.py
var source string

// Source returns the Python text of the runtime support module, suitable
// for writing out next to a translated script as runtime.py.
func Source() string {
	return source
}

// ModuleName is the Python module name translated scripts import
// Selector and Record from, matching the `from %s import Selector,
// Record` line the Imports action emits into every Module.
const ModuleName = "runtime"
