// Package phigo provides in-process symbolic transpilation for Go programs.
// It compiles a symbol mapping once, then transpiles source documents with
// literal and comment protection and a threat denylist gating every
// replacement.
//
// Usage:
//
//	tp, err := phigo.New(phigo.WithProfile("phicode"))
//	out, err := tp.Transpile("∀ item ∈ items:\n    π(item)")
//
// The SDK links directly against internal packages for zero-subprocess
// overhead. External users import github.com/Varietyz/phigo-transpiler/sdk/go/phigo.
package phigo
