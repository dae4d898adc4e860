// Package text canonicalizes dictation text and splits it into comparable tokens.
//
// Both functions are pure and keep no matching state between calls, so they
// can be used from any number of goroutines.
package text
