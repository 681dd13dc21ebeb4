package pickle

import "fmt"

// ParseError is returned when the opcode stream is malformed: an unknown
// opcode byte, a truncated argument, or — from Extract — a STACK_GLOBAL that
// could not collect two operands.
//
// Mirrors kisielk/og-rek's OpcodeError, but carries a byte position instead
// of an instruction count, since callers here need an offset for
// diagnostics rather than a count of opcodes interpreted.
type ParseError struct {
	Pos int64
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("pickle: parse error at byte %d: %s", e.Pos, e.Msg)
}

// UnknownOpcodeError is a ParseError naming the specific unrecognized byte.
type UnknownOpcodeError struct {
	ParseError
	Key byte
}

func (e *UnknownOpcodeError) Error() string {
	return fmt.Sprintf("pickle: unknown opcode %#x at byte %d", e.Key, e.Pos)
}
