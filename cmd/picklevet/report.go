package main

import (
	"encoding/json"
	"fmt"
	"io"

	"golang.org/x/exp/slices"
	"sigs.k8s.io/yaml"

	"github.com/picklevet/picklevet/scanresult"
)

// reportGlobal is scanresult.Global with JSON tags, the shape a machine
// reader of --format json/yaml actually wants instead of scanresult's bare
// Go field names.
type reportGlobal struct {
	Module string `json:"module"`
	Name   string `json:"name"`
	Safety string `json:"safety"`
}

// report wraps a scanresult.Result for --format json/yaml output, matching
// lci's own practice of encoding a dedicated output struct rather than a
// package-internal result type directly.
type report struct {
	Globals       []reportGlobal `json:"globals"`
	ScannedFiles  int            `json:"scanned_files"`
	IssuesCount   int            `json:"issues_count"`
	InfectedFiles int            `json:"infected_files"`
	ScanErr       bool           `json:"scan_error"`
}

func newReport(r scanresult.Result) report {
	globals := make([]reportGlobal, len(r.Globals))
	for i, g := range r.Globals {
		globals[i] = reportGlobal{Module: g.Module, Name: g.Name, Safety: g.Safety.String()}
	}
	// Scan order across a directory or archive depends on filesystem/zip
	// iteration order, which isn't reproducible run to run; sort the
	// reported globals so --format json/yaml output is diffable.
	slices.SortFunc(globals, func(a, b reportGlobal) bool {
		if a.Module != b.Module {
			return a.Module < b.Module
		}
		return a.Name < b.Name
	})
	return report{
		Globals:       globals,
		ScannedFiles:  r.ScannedFiles,
		IssuesCount:   r.IssuesCount,
		InfectedFiles: r.InfectedFiles,
		ScanErr:       r.ScanErr,
	}
}

func writeReport(w io.Writer, r scanresult.Result, format string) error {
	rep := newReport(r)
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	case "yaml":
		out, err := yaml.Marshal(rep)
		if err != nil {
			return fmt.Errorf("report: marshaling yaml: %w", err)
		}
		_, err = w.Write(out)
		return err
	default:
		return writeText(w, rep)
	}
}

func writeText(w io.Writer, rep report) error {
	fmt.Fprintf(w, "scanned files: %d\n", rep.ScannedFiles)
	fmt.Fprintf(w, "issues: %d  infected files: %d  scan errors: %t\n",
		rep.IssuesCount, rep.InfectedFiles, rep.ScanErr)
	for _, g := range rep.Globals {
		if g.Safety == "innocuous" {
			continue
		}
		fmt.Fprintf(w, "  %s: %s.%s\n", g.Safety, g.Module, g.Name)
	}
	return nil
}
