package resolver

import "hash/maphash"

// seed is process-wide so two Symbols computed from the same text always
// compare equal within a run; Symbols are never persisted across runs, so
// a fresh seed per process (rather than a fixed one) is fine.
var seed = maphash.MakeSeed()

func newSymbol(identifier string) Symbol {
	return Symbol{hash: maphash.String(seed, identifier)}
}
