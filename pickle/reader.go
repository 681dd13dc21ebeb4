package pickle

import (
	"bufio"
	"encoding/binary"
	"io"
	"strconv"
)

// Op is one decoded pickle virtual-machine instruction.
//
// Arg holds the opcode-dependent argument: nil, an int64 index/version, an
// unsigned integer (uint64 for FRAME and the raw BINFLOAT bits; byte, uint16
// or uint32 for EXT1/EXT2/EXT4), a string (for GLOBAL/INST "module name" and
// the text-push opcodes), or a []byte (for opaque binary payloads no caller
// of this package needs to interpret further). This is the tagged union spec.md §9 describes,
// expressed as plain `any` the way og-rek's own decode stack already holds
// heterogeneous values.
type Op struct {
	Name string
	Arg  any
	Pos  int64
}

// byteReaderLike is the subset of *bufio.Reader's API Reader needs to
// decode opcodes. *byteReader (pickle/byte_reader.go) satisfies it directly
// via its embedded *bufio.Reader, so a Reader driven by one never needs a
// second buffering layer of its own.
type byteReaderLike interface {
	io.Reader
	io.ByteReader
	ReadLine() (line []byte, isPrefix bool, err error)
	Peek(n int) ([]byte, error)
}

// Reader disassembles a single pickle frame's opcode stream.
//
// A Reader instance is scoped to one frame: callers that need to parse a
// concatenation of pickles (spec.md §4.2 step 6) construct a fresh Reader
// per frame. Reader never seeks backward.
type Reader struct {
	r   byteReaderLike
	pos int64

	// reusable scratch buffer for readLine; valid only until the next call.
	line []byte
}

// NewReader constructs a Reader that disassembles starting at the current
// position of r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// newReaderFromByteReader builds a Reader that decodes directly off br
// instead of wrapping it in a fresh bufio.Reader. FrameReader shares one br
// across every frame of a stream (pickle/extract.go); layering a second
// bufio.Reader on top would let that inner buffer silently swallow bytes
// belonging to the next frame once the current one returns.
func newReaderFromByteReader(br *byteReader) *Reader {
	return &Reader{r: br}
}

// Pos returns the reader's current byte offset from where it started.
func (d *Reader) Pos() int64 { return d.pos }

// Next decodes and returns the next opcode.
//
// Next returns the Op for STOP like any other opcode (err == nil); callers
// decide to stop requesting more. Any error — unknown opcode byte, or
// end-of-stream reached while decoding an opcode or its argument — is
// returned as a *ParseError (or *UnknownOpcodeError) and Next must not be
// called again afterward.
func (d *Reader) Next() (Op, error) {
	startPos := d.pos
	key, err := d.readByte()
	if err != nil {
		return Op{}, d.fail(startPos, err)
	}

	name, ok := opNames[key]
	if !ok {
		return Op{}, &UnknownOpcodeError{ParseError{startPos, "unrecognized opcode"}, key}
	}

	arg, err := d.decodeArg(key)
	if err != nil {
		return Op{}, d.fail(startPos, err)
	}
	return Op{Name: name, Arg: arg, Pos: startPos}, nil
}

// fail normalizes an I/O error encountered while decoding an opcode or its
// argument into a *ParseError carrying the opcode's starting position — an
// EOF found partway through an instruction is always unexpected, since every
// well-formed pickle ends with a complete STOP opcode.
func (d *Reader) fail(pos int64, err error) error {
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return &ParseError{pos, err.Error()}
}

func (d *Reader) decodeArg(key byte) (any, error) {
	switch key {
	case opMark, opStop, opPop, opPopMark, opDup, opNone, opAppend, opBuild,
		opDict, opList, opSetitem, opTuple, opAppends, opEmptyList,
		opEmptyTuple, opEmptyDict, opObj, opSetitems, opNewobj, opTuple1,
		opTuple2, opTuple3, opNewtrue, opNewfalse, opStackGlobal, opMemoize,
		opBinpersid, opReduce, opEmptySet, opAdditems, opFrozenset,
		opNewobjEx, opNextBuffer, opReadonlyBuf:
		return nil, nil

	case opFloat, opInt, opLong, opGet, opPut, opPersid:
		line, err := d.readLine()
		if err != nil {
			return nil, err
		}
		switch key {
		case opGet, opPut:
			n, err := strconv.ParseInt(string(line), 10, 64)
			if err != nil {
				return nil, err
			}
			return n, nil
		default:
			return string(line), nil
		}

	case opString:
		line, err := d.readLine()
		if err != nil {
			return nil, err
		}
		return string(line), nil

	case opUnicode:
		line, err := d.readLine()
		if err != nil {
			return nil, err
		}
		return string(line), nil

	case opGlobal, opInst:
		module, err := d.readLine()
		if err != nil {
			return nil, err
		}
		name, err := d.readLine()
		if err != nil {
			return nil, err
		}
		return string(module) + " " + string(name), nil

	case opBinint:
		var b [4]byte
		if err := d.readFull(b[:]); err != nil {
			return nil, err
		}
		return int64(int32(binary.LittleEndian.Uint32(b[:]))), nil

	case opBinint1:
		b, err := d.readByte()
		if err != nil {
			return nil, err
		}
		return int64(b), nil

	case opBinint2:
		var b [2]byte
		if err := d.readFull(b[:]); err != nil {
			return nil, err
		}
		return int64(binary.LittleEndian.Uint16(b[:])), nil

	case opBinfloat:
		var b [8]byte
		if err := d.readFull(b[:]); err != nil {
			return nil, err
		}
		return binary.BigEndian.Uint64(b[:]), nil

	case opBinstring:
		n, err := d.readUint32()
		if err != nil {
			return nil, err
		}
		buf := make([]byte, n)
		if err := d.readFull(buf); err != nil {
			return nil, err
		}
		return string(buf), nil

	case opShortBinstring:
		n, err := d.readByte()
		if err != nil {
			return nil, err
		}
		buf := make([]byte, n)
		if err := d.readFull(buf); err != nil {
			return nil, err
		}
		return string(buf), nil

	case opBinunicode:
		n, err := d.readUint32()
		if err != nil {
			return nil, err
		}
		buf := make([]byte, n)
		if err := d.readFull(buf); err != nil {
			return nil, err
		}
		return string(buf), nil

	case opShortBinUnicode:
		n, err := d.readByte()
		if err != nil {
			return nil, err
		}
		buf := make([]byte, n)
		if err := d.readFull(buf); err != nil {
			return nil, err
		}
		return string(buf), nil

	case opBinunicode8, opBinbytes8, opBytearray8:
		var b [8]byte
		if err := d.readFull(b[:]); err != nil {
			return nil, err
		}
		n := binary.LittleEndian.Uint64(b[:])
		buf := make([]byte, n)
		if err := d.readFull(buf); err != nil {
			return nil, err
		}
		if key == opBinunicode8 {
			return string(buf), nil
		}
		return buf, nil

	case opBinget:
		b, err := d.readByte()
		if err != nil {
			return nil, err
		}
		return int64(b), nil

	case opLongBinget:
		var b [4]byte
		if err := d.readFull(b[:]); err != nil {
			return nil, err
		}
		return int64(binary.LittleEndian.Uint32(b[:])), nil

	case opBinput:
		b, err := d.readByte()
		if err != nil {
			return nil, err
		}
		return int64(b), nil

	case opLongBinput:
		var b [4]byte
		if err := d.readFull(b[:]); err != nil {
			return nil, err
		}
		return int64(binary.LittleEndian.Uint32(b[:])), nil

	case opLong1:
		n, err := d.readByte()
		if err != nil {
			return nil, err
		}
		buf := make([]byte, n)
		if err := d.readFull(buf); err != nil {
			return nil, err
		}
		return buf, nil

	case opLong4:
		n, err := d.readUint32()
		if err != nil {
			return nil, err
		}
		buf := make([]byte, n)
		if err := d.readFull(buf); err != nil {
			return nil, err
		}
		return buf, nil

	case opExt1:
		return d.readByte()

	case opExt2:
		var b [2]byte
		if err := d.readFull(b[:]); err != nil {
			return nil, err
		}
		return binary.LittleEndian.Uint16(b[:]), nil

	case opExt4:
		var b [4]byte
		if err := d.readFull(b[:]); err != nil {
			return nil, err
		}
		return binary.LittleEndian.Uint32(b[:]), nil

	case opProto:
		v, err := d.readByte()
		if err != nil {
			return nil, err
		}
		if v > 5 {
			return nil, &ParseError{d.pos, "invalid pickle protocol version"}
		}
		return int64(v), nil

	case opFrame:
		var b [8]byte
		if err := d.readFull(b[:]); err != nil {
			return nil, err
		}
		return binary.LittleEndian.Uint64(b[:]), nil

	default:
		return nil, &ParseError{d.pos, "unimplemented opcode"}
	}
}

// PeekByte returns the next byte without consuming it, or an error when no
// byte is available. Extract does not call it: FrameReader detects
// end-of-stream between concatenated pickles through byteReader.peek.
func (d *Reader) PeekByte() (byte, error) {
	b, err := d.r.Peek(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (d *Reader) readByte() (byte, error) {
	b, err := d.r.ReadByte()
	if err != nil {
		return 0, err
	}
	d.pos++
	return b, nil
}

func (d *Reader) readFull(buf []byte) error {
	n, err := io.ReadFull(d.r, buf)
	d.pos += int64(n)
	return err
}

func (d *Reader) readUint32() (uint32, error) {
	var b [4]byte
	if err := d.readFull(b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

// readLine reads up to and including the next '\n', returning the line
// without its terminator. Mirrors og-rek's Decoder.readLine, built on
// bufio.Reader.ReadLine to transparently handle lines longer than the
// internal buffer.
func (d *Reader) readLine() ([]byte, error) {
	d.line = d.line[:0]
	for {
		data, isPrefix, err := d.r.ReadLine()
		d.pos += int64(len(data))
		if err != nil {
			return d.line, err
		}
		d.line = append(d.line, data...)
		if !isPrefix {
			d.pos++ // account for the newline ReadLine strips
			return d.line, nil
		}
	}
}
