package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/picklevet/picklevet/classify"
	"github.com/picklevet/picklevet/scanresult"
)

func sampleResult() scanresult.Result {
	return scanresult.Result{
		Globals: []scanresult.Global{
			{Module: "os", Name: "system", Safety: classify.Dangerous},
			{Module: "collections", Name: "OrderedDict", Safety: classify.Innocuous},
		},
		ScannedFiles:  1,
		IssuesCount:   1,
		InfectedFiles: 1,
	}
}

func TestWriteReportJSONRoundTrips(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeReport(&buf, sampleResult(), "json"))

	var got report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Equal(t, 1, got.IssuesCount)
	require.Len(t, got.Globals, 2)
}

func TestWriteReportYAMLContainsFields(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeReport(&buf, sampleResult(), "yaml"))
	require.Contains(t, buf.String(), "issues_count: 1")
}

func TestWriteReportTextSkipsInnocuousGlobals(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeReport(&buf, sampleResult(), "text"))
	out := buf.String()
	require.Contains(t, out, "dangerous: os.system")
	require.NotContains(t, out, "OrderedDict")
}

func TestReportGlobalsAreSortedDeterministically(t *testing.T) {
	rep := newReport(sampleResult())
	require.Equal(t, "collections", rep.Globals[0].Module)
	require.Equal(t, "os", rep.Globals[1].Module)
}
