package classify

import "strings"

// Tables is a classifier's view of the SAFE/UNSAFE allow/deny lists. The
// zero value is not usable; construct with Default or LoadOverrides.
type Tables struct {
	safe, unsafe map[string]NameSet
}

// Default returns a Tables backed directly by the package-level SAFE/UNSAFE
// maps — the normative tables spec.md §6 defines, unmodified.
func Default() *Tables {
	return &Tables{safe: SAFE, unsafe: UNSAFE}
}

// Classify assigns a SafetyLevel to (module, name) using the package's
// built-in tables. It implements spec.md §4.3's four-rule order:
//  1. "unknown" substring in either field => Dangerous
//  2. UNSAFE match => Dangerous
//  3. SAFE match => Innocuous
//  4. else => Suspicious
//
// issue reports whether the pair should count against a ScanResult's issue
// tally — true only for Dangerous; Suspicious and Innocuous both leave the
// tally untouched.
func Classify(module, name string) (level SafetyLevel, issue bool) {
	return Default().Classify(module, name)
}

// Classify is the per-instance form, consulting t's tables instead of the
// package-level defaults — used by callers that loaded overrides via
// LoadOverrides.
func (t *Tables) Classify(module, name string) (level SafetyLevel, issue bool) {
	if strings.Contains(module, unknownSubstring) || strings.Contains(name, unknownSubstring) {
		return Dangerous, true
	}
	if set, ok := t.unsafe[module]; ok && set.has(name) {
		return Dangerous, true
	}
	if set, ok := t.safe[module]; ok && set.has(name) {
		return Innocuous, false
	}
	return Suspicious, false
}

// unknownSubstring matches pickle.unknownToken without importing the pickle
// package here — classify must stay usable by anything that merely has a
// (module, name) string pair, not only by Extract's own output.
const unknownSubstring = "unknown"
