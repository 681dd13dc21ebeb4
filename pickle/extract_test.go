package pickle

import (
	"bytes"
	"sort"
	"testing"
)

func pairsOf(t *testing.T, set GlobalsSet) []string {
	t.Helper()
	pairs := set.Pairs()
	out := make([]string, len(pairs))
	for i, p := range pairs {
		out[i] = p.Module + " " + p.Name
	}
	sort.Strings(out)
	return out
}

func buildGlobalPickle(module, name string) []byte {
	var buf bytes.Buffer
	buf.WriteByte(opProto)
	buf.WriteByte(2)
	buf.WriteByte(opGlobal)
	buf.WriteString(module)
	buf.WriteByte('\n')
	buf.WriteString(name)
	buf.WriteByte('\n')
	buf.WriteByte(opMemoize)
	buf.WriteByte(opStop)
	return buf.Bytes()
}

func TestExtractGlobal(t *testing.T) {
	data := buildGlobalPickle("os", "system")
	set, err := Extract(bytes.NewReader(data), true)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	got := pairsOf(t, set)
	want := []string{"os system"}
	if len(got) != 1 || got[0] != want[0] {
		t.Fatalf("got %v, want %v", got, want)
	}
}

// TestExtractStackGlobalThroughMemo builds:
//   PROTO 5
//   SHORT_BINUNICODE "os"       -> memo[0] via BINPUT
//   BINPUT 0
//   SHORT_BINUNICODE "system"   -> memo[1] via BINPUT
//   BINPUT 1
//   BINGET 0                    -> re-push "os"
//   BINGET 1                    -> re-push "system"
//   STACK_GLOBAL
//   STOP
//
// reconstructStackGlobal must resolve both operands through the memo table
// by scanning backward from STACK_GLOBAL, per spec.md §4.2 step 5.
func TestExtractStackGlobalThroughMemo(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteByte(opProto)
	buf.WriteByte(5)
	buf.WriteByte(opShortBinUnicode)
	buf.WriteByte(2)
	buf.WriteString("os")
	buf.WriteByte(opBinput)
	buf.WriteByte(0)
	buf.WriteByte(opShortBinUnicode)
	buf.WriteByte(6)
	buf.WriteString("system")
	buf.WriteByte(opBinput)
	buf.WriteByte(1)
	buf.WriteByte(opBinget)
	buf.WriteByte(0)
	buf.WriteByte(opBinget)
	buf.WriteByte(1)
	buf.WriteByte(opStackGlobal)
	buf.WriteByte(opStop)

	set, err := Extract(&buf, true)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	got := pairsOf(t, set)
	if len(got) != 1 || got[0] != "os system" {
		t.Fatalf("got %v, want [\"os system\"]", got)
	}
}

func TestExtractStackGlobalUnrecoverableOperand(t *testing.T) {
	// STACK_GLOBAL preceded by two opcodes that carry no recoverable string
	// (here, NONE pushes) must fall back to the unknown sentinel rather than
	// erroring the whole frame.
	var buf bytes.Buffer
	buf.WriteByte(opProto)
	buf.WriteByte(4)
	buf.WriteByte(opNone)
	buf.WriteByte(opNone)
	buf.WriteByte(opStackGlobal)
	buf.WriteByte(opStop)

	set, err := Extract(&buf, true)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	got := pairsOf(t, set)
	if len(got) != 1 || got[0] != unknownToken+" "+unknownToken {
		t.Fatalf("got %v, want one unknown/unknown pair", got)
	}
}

func TestExtractConcatenatedPickles(t *testing.T) {
	var data []byte
	data = append(data, buildGlobalPickle("os", "system")...)
	data = append(data, buildGlobalPickle("subprocess", "Popen")...)

	multi, err := Extract(bytes.NewReader(data), true)
	if err != nil {
		t.Fatalf("Extract(multi=true): %v", err)
	}
	got := pairsOf(t, multi)
	want := []string{"os system", "subprocess Popen"}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("got %v, want %v", got, want)
	}

	single, err := Extract(bytes.NewReader(data), false)
	if err != nil {
		t.Fatalf("Extract(multi=false): %v", err)
	}
	gotSingle := pairsOf(t, single)
	if len(gotSingle) != 1 || gotSingle[0] != "os system" {
		t.Fatalf("got %v, want [\"os system\"]", gotSingle)
	}
}

func TestExtractIsIdempotent(t *testing.T) {
	data := buildGlobalPickle("builtins", "eval")
	a, err := Extract(bytes.NewReader(data), true)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	b, err := Extract(bytes.NewReader(data), true)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	pa, pb := pairsOf(t, a), pairsOf(t, b)
	if len(pa) != len(pb) || pa[0] != pb[0] {
		t.Fatalf("Extract not idempotent: %v vs %v", pa, pb)
	}
}

func TestExtractEmptyStreamYieldsEmptySet(t *testing.T) {
	set, err := Extract(bytes.NewReader(nil), true)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if set.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", set.Len())
	}
}

func TestExtractTruncatedStreamReturnsPartialSet(t *testing.T) {
	data := buildGlobalPickle("os", "system")
	// Cut off right after STOP would be — instead truncate mid-stream.
	truncated := data[:len(data)-2]
	set, err := Extract(bytes.NewReader(truncated), true)
	if err == nil {
		t.Fatal("expected parse error from truncated stream")
	}
	got := pairsOf(t, set)
	if len(got) != 1 || got[0] != "os system" {
		t.Fatalf("got %v, want partial set with the GLOBAL already seen", got)
	}
}
