//go:build sparsego_invariants

package invariants

// Enabled reports whether debug assertions are compiled in.
const Enabled = true
