// Package classify assigns a SafetyLevel to a (module, name) symbol recovered
// from a pickle stream, using the same fixed SAFE/UNSAFE allow/deny tables
// ported from the reference Python scanner's _safe_globals/_unsafe_globals.
package classify
