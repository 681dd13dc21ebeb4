// Package scanresult holds the aggregate outcome of scanning one or more
// files: the recovered Globals, counters, and the commutative merge
// operation that lets a directory scan fold per-file results together in any
// order.
package scanresult

import "github.com/picklevet/picklevet/classify"

// Global is one recovered symbol reference together with its verdict.
type Global struct {
	Module string
	Name   string
	Safety classify.SafetyLevel
}

// Result is a ScanResult: spec.md §3's aggregate record. The zero value is a
// valid, empty result and is the identity element for Merge.
type Result struct {
	Globals       []Global
	ScannedFiles  int
	IssuesCount   int
	InfectedFiles int
	ScanErr       bool
}

// FromGlobals builds the single-file Result for one file_id's raw globals,
// classifying each with t and tallying issues — spec.md §4.3's
// _build_scan_result_from_raw_globals, generalized to take any Tables
// instead of always the package defaults so a Scanner with overrides loaded
// produces consistent results.
func FromGlobals(pairs []Pair, t *classify.Tables, scanErr bool) Result {
	globals := make([]Global, 0, len(pairs))
	issues := 0
	for _, p := range pairs {
		level, isIssue := t.Classify(p.Module, p.Name)
		globals = append(globals, Global{Module: p.Module, Name: p.Name, Safety: level})
		if isIssue {
			issues++
		}
	}
	infected := 0
	if issues > 0 {
		infected = 1
	}
	return Result{
		Globals:       globals,
		ScannedFiles:  1,
		IssuesCount:   issues,
		InfectedFiles: infected,
		ScanErr:       scanErr,
	}
}

// Pair is the (module, name) shape scanresult accepts from callers —
// deliberately not pickle.Pair, so this package never needs to import the
// pickle decoder just to describe its own input.
type Pair struct {
	Module string
	Name   string
}

// Merge folds sr into r in place, implementing spec.md §3's commutative
// monoid: Globals concatenate, counters sum, ScanErr is OR'd. Order of calls
// to Merge must not affect the final totals (spec.md §8 invariant).
func (r *Result) Merge(sr Result) {
	r.Globals = append(r.Globals, sr.Globals...)
	r.ScannedFiles += sr.ScannedFiles
	r.IssuesCount += sr.IssuesCount
	r.InfectedFiles += sr.InfectedFiles
	r.ScanErr = r.ScanErr || sr.ScanErr
}
