package pickle

import (
	"hash/maphash"
	"io"
	"strings"

	"github.com/aristanetworks/gomap"

	"github.com/dchest/siphash"
)

// Pair is a recovered (module, name) symbol reference.
type Pair struct {
	Module string
	Name   string
}

// siphashKey0/siphashKey1 are a fixed key pair, not a per-process random
// seed. Extract must be idempotent (spec.md §8 invariant 6: scanning the
// same bytes twice yields equal globals sets) and GlobalsSet fixture tests
// compare sets across separate test binary runs, so — unlike og-rek's own
// Dict, which seeds hash/maphash randomly per Dict and is fine with that
// because it never needs cross-run reproducibility — this set's hash
// function must not vary from run to run.
const (
	siphashKey0 = 0x6f67c3b3726b2121
	siphashKey1 = 0x7069636b6c657321
)

func pairEqual(a, b Pair) bool {
	return a.Module == b.Module && a.Name == b.Name
}

func pairHash(_ maphash.Seed, p Pair) uint64 {
	return siphash.Hash(siphashKey0, siphashKey1, []byte(p.Module+"\x00"+p.Name))
}

// GlobalsSet is an unordered, deduplicated collection of (module, name)
// pairs — spec.md §3's GlobalsSet, realized with the same generic-map
// container og-rek's Dict builds on (gomap.Map), keyed directly on Pair
// instead of wrapping arbitrary Python-typed keys.
type GlobalsSet struct {
	m *gomap.Map[Pair, struct{}]
}

// NewGlobalsSet returns an empty GlobalsSet.
func NewGlobalsSet() GlobalsSet {
	return GlobalsSet{m: gomap.NewHint[Pair, struct{}](0, pairEqual, pairHash)}
}

// Add inserts (module, name), coalescing with any existing equal pair.
func (s GlobalsSet) Add(module, name string) {
	s.m.Set(Pair{module, name}, struct{}{})
}

// Len returns the number of distinct pairs.
func (s GlobalsSet) Len() int { return s.m.Len() }

// Pairs returns the set's contents. Order is unspecified (spec.md §4.2:
// "set semantics; order of emission is not observable").
func (s GlobalsSet) Pairs() []Pair {
	out := make([]Pair, 0, s.m.Len())
	s.m.Iter()(func(k Pair, _ struct{}) bool {
		out = append(out, k)
		return true
	})
	return out
}

// unknownToken is the reserved sentinel spec.md §4.2 step 5 and §9 describe:
// substituted for any STACK_GLOBAL operand that cannot be statically
// recovered as a string. It is intentionally treated as dangerous by the
// classifier even when a collision with a legitimate module or name
// containing the substring "unknown" is coincidental — spec.md §9 flags this
// as potentially over-broad and preserves it anyway, favoring false
// positives over silently-innocuous unparseable streams.
const unknownToken = "unknown"

// isMemoOp reports the opcodes that teach the memo table a value without pushing
// anything new semantically meaningful to the backward scan.
func isMemoOp(name string) bool {
	switch name {
	case "MEMOIZE", "PUT", "BINPUT", "LONG_BINPUT":
		return true
	}
	return false
}

func isStringOp(name string) bool {
	switch name {
	case "SHORT_BINUNICODE", "UNICODE", "BINUNICODE", "BINUNICODE8":
		return true
	}
	return false
}

func isGetOp(name string) bool {
	switch name {
	case "GET", "BINGET", "LONG_BINGET":
		return true
	}
	return false
}

// Extract recovers the set of (module, name) pairs the pickle stream read
// from r would resolve into live callables if unpickled.
//
// When multi is true (the default for a standalone pickle file), Extract
// keeps restarting over a fresh memo table after each STOP as long as the
// stream has more bytes — spec.md §4.2 step 6, handling concatenated
// pickles. The legacy tensor-archive path (scan package) instead drives a
// FrameReader directly, since it needs to share one underlying byte cursor
// across a fixed number of frame attempts rather than run until end of
// stream.
//
// On a parse failure partway through, Extract returns the GlobalsSet
// accumulated so far together with the error — spec.md §7: "Parse is always
// recovered", partial globals are never discarded.
func Extract(r io.Reader, multi bool) (GlobalsSet, error) {
	fr := NewFrameReader(r)
	total := NewGlobalsSet()

	for {
		set, err := fr.Next()
		if err == io.EOF {
			return total, nil
		}
		mergeSets(total, set)
		if err != nil {
			return total, err
		}
		if !multi {
			return total, nil
		}
	}
}

// FrameReader disassembles one pickle frame at a time from a shared
// underlying byte cursor, so that a caller driving a fixed number of frame
// attempts (the legacy tensor-archive header: magic, protocol, sys-info,
// model, each a separate top-level pickle object) never loses bytes
// buffered-but-unconsumed at a frame boundary, unlike constructing a fresh
// Reader directly on r for each attempt would.
type FrameReader struct {
	br *byteReader
}

// NewFrameReader wraps r for frame-at-a-time extraction.
func NewFrameReader(r io.Reader) *FrameReader {
	return &FrameReader{br: newByteReader(r)}
}

// Next extracts exactly one frame's globals. It returns io.EOF (with an
// empty GlobalsSet) when the stream is exhausted before any opcode of a new
// frame is read; any other error is a parse failure partway through the
// frame, returned together with whatever globals that frame yielded before
// failing.
func (fr *FrameReader) Next() (GlobalsSet, error) {
	set := NewGlobalsSet()
	if _, err := fr.br.peek(); err != nil {
		return set, io.EOF
	}
	err := extractFrame(fr.br, set)
	return set, err
}

func mergeSets(dst, src GlobalsSet) {
	for _, p := range src.Pairs() {
		dst.Add(p.Module, p.Name)
	}
}

// extractFrame runs one pickle frame (PROTO..STOP) through Reader, folding
// GLOBAL/INST/STACK_GLOBAL references into set as they're found.
func extractFrame(br *byteReader, set GlobalsSet) error {
	rd := newReaderFromByteReader(br)
	memo := map[int64]any{}
	var ops []Op

	for {
		op, err := rd.Next()
		if err != nil {
			// Parse failed mid-frame: the ops seen so far have already been
			// folded into set by the loop body below, nothing more to do
			// except propagate the error.
			return err
		}
		ops = append(ops, op)

		switch op.Name {
		case "MEMOIZE":
			if len(ops) >= 2 {
				memo[int64(len(memo))] = ops[len(ops)-2].Arg
			}
		case "PUT", "BINPUT", "LONG_BINPUT":
			if len(ops) >= 2 {
				k, _ := op.Arg.(int64)
				memo[k] = ops[len(ops)-2].Arg
			}
		case "GLOBAL", "INST":
			module, name, ok := splitModuleName(op.Arg)
			if ok {
				set.Add(module, name)
			}
		case "STACK_GLOBAL":
			module, name, err := reconstructStackGlobal(ops, memo)
			if err != nil {
				return err
			}
			set.Add(module, name)
		}

		if op.Name == "STOP" {
			return nil
		}
	}
}

func splitModuleName(arg any) (module, name string, ok bool) {
	s, isStr := arg.(string)
	if !isStr {
		return "", "", false
	}
	module, name, found := strings.Cut(s, " ")
	if !found {
		return "", "", false
	}
	return module, name, true
}

// reconstructStackGlobal implements spec.md §4.2 step 5: scan backward from
// the just-seen STACK_GLOBAL, skipping memo-writing opcodes, resolving
// GET/BINGET/LONG_BINGET through memo, reading string-push opcodes
// literally, and substituting unknownToken for anything else — including a
// memo entry that does not itself hold a string, which the spec text does
// not call out explicitly but which this implementation treats the same
// way: there is no other reasonable coercion into the (string, string) pair
// GlobalsSet requires.
func reconstructStackGlobal(ops []Op, memo map[int64]any) (module, name string, err error) {
	// ops[len(ops)-1] is the STACK_GLOBAL op itself; start just before it.
	var values []string
	for i := len(ops) - 2; i >= 0 && len(values) < 2; i-- {
		op := ops[i]
		switch {
		case isMemoOp(op.Name):
			continue
		case isGetOp(op.Name):
			idx, _ := op.Arg.(int64)
			v, ok := memo[idx]
			if s, isStr := v.(string); ok && isStr {
				values = append(values, s)
			} else {
				values = append(values, unknownToken)
			}
		case isStringOp(op.Name):
			s, _ := op.Arg.(string)
			values = append(values, s)
		default:
			values = append(values, unknownToken)
		}
	}

	if len(values) != 2 {
		return "", "", &ParseError{ops[len(ops)-1].Pos, "STACK_GLOBAL: could not recover two operands"}
	}
	// The loop walks backward, so values[0] is the operand nearest
	// STACK_GLOBAL (top of the stack, the name) and values[1] is the deeper
	// one (the module). Emit (module, name) = (second_collected, first_collected).
	return values[1], values[0], nil
}
