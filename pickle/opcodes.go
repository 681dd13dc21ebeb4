package pickle

// Opcodes, and their canonical names as used by CPython's pickletools.
//
// The byte values and argument encodings below follow the documented pickle
// protocol, versions 0 through 5. Grouped the same way ogórek's decoder
// groups them (see kisielk/og-rek's ogorek.go), by the protocol version that
// introduced each opcode.
const (
	// Protocol 0

	opMark    byte = '(' // push markobject on the stack
	opStop    byte = '.' // every pickle ends with STOP
	opPop     byte = '0' // discard topmost stack item
	opPopMark byte = '1' // discard stack top through topmost markobject
	opDup     byte = '2' // duplicate top stack item
	opFloat   byte = 'F' // push float object; decimal string argument
	opInt     byte = 'I' // push integer or bool; decimal string argument
	opBinint  byte = 'J' // push four-byte signed int
	opBinint1 byte = 'K' // push 1-byte unsigned int
	opLong    byte = 'L' // push long; decimal string argument
	opBinint2 byte = 'M' // push 2-byte unsigned int
	opNone    byte = 'N' // push None
	opPersid  byte = 'P' // push persistent object; id is string argument
	opReduce  byte = 'R' // apply callable to argtuple, both on stack
	opString  byte = 'S' // push string; NL-terminated string argument
	opUnicode byte = 'V' // push Unicode string; raw-unicode-escaped argument
	opAppend  byte = 'a' // append stack top to list below it
	opBuild   byte = 'b' // call __setstate__ or __dict__.update()
	opGlobal  byte = 'c' // push self.find_class(modname, name); 2 string args
	opDict    byte = 'd' // build a dict from stack items
	opGet     byte = 'g' // push item from memo on stack; index is string arg
	opInst    byte = 'i' // build & push class instance
	opList    byte = 'l' // build list from topmost stack items
	opPut     byte = 'p' // store stack top in memo; index is string arg
	opSetitem byte = 's' // add key+value pair to dict
	opTuple   byte = 't' // build tuple from topmost stack items

	// Protocol 1

	opBinpersid      byte = 'Q' // push persistent object; id is taken from stack
	opBinstring      byte = 'T' // push string; counted binary string argument
	opShortBinstring byte = 'U' // push string; counted binary string < 256 bytes
	opBinunicode     byte = 'X' // push Unicode string; counted UTF-8 argument
	opAppends        byte = 'e' // extend list on stack by topmost stack slice
	opBinget         byte = 'h' // push item from memo; index is 1-byte arg
	opLongBinget     byte = 'j' // push item from memo; index is 4-byte arg
	opEmptyList      byte = ']' // push empty list
	opEmptyTuple     byte = ')' // push empty tuple
	opEmptyDict      byte = '}' // push empty dict
	opObj            byte = 'o' // build & push class instance
	opBinput         byte = 'q' // store stack top in memo; index is 1-byte arg
	opLongBinput     byte = 'r' // store stack top in memo; index is 4-byte arg
	opSetitems       byte = 'u' // modify dict by adding topmost key+value pairs
	opBinfloat       byte = 'G' // push float; arg is 8-byte float encoding

	// Protocol 2

	opProto    byte = '\x80' // identify pickle protocol
	opNewobj   byte = '\x81' // build object by applying cls.__new__ to argtuple
	opExt1     byte = '\x82' // push object from extension registry; 1-byte index
	opExt2     byte = '\x83' // ditto, but 2-byte index
	opExt4     byte = '\x84' // ditto, but 4-byte index
	opTuple1   byte = '\x85' // build 1-tuple from stack top
	opTuple2   byte = '\x86' // build 2-tuple from two topmost stack items
	opTuple3   byte = '\x87' // build 3-tuple from three topmost stack items
	opNewtrue  byte = '\x88' // push True
	opNewfalse byte = '\x89' // push False
	opLong1    byte = '\x8a' // push long from < 256 bytes
	opLong4    byte = '\x8b' // push really big long

	// Protocol 4

	opShortBinUnicode byte = '\x8c' // push short string; UTF-8 length < 256 bytes
	opBinunicode8     byte = '\x8d' // push Unicode string; 8-byte length argument
	opBinbytes8       byte = '\x8e' // push bytes; 8-byte length argument
	opEmptySet        byte = '\x8f' // push empty set
	opAdditems        byte = '\x90' // modify set by adding topmost stack items
	opFrozenset       byte = '\x91' // build frozenset from topmost stack items
	opNewobjEx        byte = '\x92' // like NEWOBJ but work with keyword arguments
	opStackGlobal     byte = '\x93' // same as GLOBAL, but using names on the stack
	opMemoize         byte = '\x94' // store top of the stack in memo
	opFrame           byte = '\x95' // indicate the beginning of a new frame

	// Protocol 5

	opBytearray8    byte = '\x96' // push bytearray; 8-byte length argument
	opNextBuffer    byte = '\x97' // push next out-of-band buffer
	opReadonlyBuf   byte = '\x98' // make top-of-stack buffer read-only
)

// opNames maps an opcode byte to its canonical pickletools name.
//
// This is the static table spec.md §9 calls for: a fixed set of recognized
// opcode bytes, looked up by Reader.Next for every opcode byte, never mutated.
var opNames = map[byte]string{
	opMark:            "MARK",
	opStop:            "STOP",
	opPop:             "POP",
	opPopMark:         "POP_MARK",
	opDup:             "DUP",
	opFloat:           "FLOAT",
	opInt:             "INT",
	opBinint:          "BININT",
	opBinint1:         "BININT1",
	opLong:            "LONG",
	opBinint2:         "BININT2",
	opNone:            "NONE",
	opPersid:          "PERSID",
	opReduce:          "REDUCE",
	opString:          "STRING",
	opUnicode:         "UNICODE",
	opAppend:          "APPEND",
	opBuild:           "BUILD",
	opGlobal:          "GLOBAL",
	opDict:            "DICT",
	opGet:             "GET",
	opInst:            "INST",
	opList:            "LIST",
	opPut:             "PUT",
	opSetitem:         "SETITEM",
	opTuple:           "TUPLE",
	opBinpersid:       "BINPERSID",
	opBinstring:       "BINSTRING",
	opShortBinstring:  "SHORT_BINSTRING",
	opBinunicode:      "BINUNICODE",
	opAppends:         "APPENDS",
	opBinget:          "BINGET",
	opLongBinget:      "LONG_BINGET",
	opEmptyList:       "EMPTY_LIST",
	opEmptyTuple:      "EMPTY_TUPLE",
	opEmptyDict:       "EMPTY_DICT",
	opObj:             "OBJ",
	opBinput:          "BINPUT",
	opLongBinput:      "LONG_BINPUT",
	opSetitems:        "SETITEMS",
	opBinfloat:        "BINFLOAT",
	opProto:           "PROTO",
	opNewobj:          "NEWOBJ",
	opExt1:            "EXT1",
	opExt2:            "EXT2",
	opExt4:            "EXT4",
	opTuple1:          "TUPLE1",
	opTuple2:          "TUPLE2",
	opTuple3:          "TUPLE3",
	opNewtrue:         "NEWTRUE",
	opNewfalse:        "NEWFALSE",
	opLong1:           "LONG1",
	opLong4:           "LONG4",
	opShortBinUnicode: "SHORT_BINUNICODE",
	opBinunicode8:     "BINUNICODE8",
	opBinbytes8:       "BINBYTES8",
	opEmptySet:        "EMPTY_SET",
	opAdditems:        "ADDITEMS",
	opFrozenset:       "FROZENSET",
	opNewobjEx:        "NEWOBJ_EX",
	opStackGlobal:     "STACK_GLOBAL",
	opMemoize:         "MEMOIZE",
	opFrame:           "FRAME",
	opBytearray8:      "BYTEARRAY8",
	opNextBuffer:      "NEXT_BUFFER",
	opReadonlyBuf:     "READONLY_BUFFER",
}
