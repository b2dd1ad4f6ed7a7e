// Package invariants gates debug-only assertions. Production builds elide
// every check; build with the "sparsego_invariants" tag to enable them.
package invariants

import "fmt"

// Assertf panics with the formatted message when the condition does not
// hold and assertions are enabled. It compiles to nothing otherwise.
func Assertf(cond bool, format string, args ...any) {
	if Enabled && !cond {
		panic(fmt.Sprintf(format, args...))
	}
}
