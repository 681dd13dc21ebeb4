package format

import (
	"encoding/binary"
	"errors"
	"io"
	"strings"
)

var numpyMagic = []byte("\x93NUMPY")

// ErrNotNumpy reports that a stream claiming to be numpy data didn't start
// with the expected 6-byte prefix.
var ErrNotNumpy = errors.New("format: not a numpy array stream")

// ErrUnexpectedZip reports a zip signature where a numpy member was
// expected — spec.md §4.4.2: ".npz file not handled as zip file", a caller
// mistake since .npz members are walked as zip archives upstream of here.
var ErrUnexpectedZip = errors.New("format: zip signature where numpy header expected")

// NumpyHeader is the portion of a .npy array header this scanner needs.
type NumpyHeader struct {
	Major, Minor byte
	Descr        string
}

// IsObjectDtype reports whether the array's element dtype can embed
// arbitrary Python objects, meaning the array body is itself a pickle
// stream — numpy's object dtype code is 'O', spelled in the header's descr
// field as "|O" for a plain object array, or embedded within a structured
// dtype's field list.
func (h NumpyHeader) IsObjectDtype() bool {
	return strings.HasPrefix(h.Descr, "|O") || strings.Contains(h.Descr, "'O'") || strings.Contains(h.Descr, "\"O\"")
}

// ReadNumpyHeader parses a .npy stream's magic, version, and just enough of
// the header dict to recover the descr field — spec.md §4.4.2. It does not
// attempt to evaluate the header as general Python literal syntax; numpy's
// own writer only ever emits a small, fixed dict shape here.
func ReadNumpyHeader(r io.Reader) (NumpyHeader, error) {
	prefix := make([]byte, 6)
	if _, err := io.ReadFull(r, prefix); err != nil {
		return NumpyHeader{}, err
	}
	if hasPrefix(prefix, zipLocalHeaderMagic) || hasPrefix(prefix, zipEmptyArchiveMagic) {
		return NumpyHeader{}, ErrUnexpectedZip
	}
	if !hasPrefix(prefix, numpyMagic) {
		return NumpyHeader{}, ErrNotNumpy
	}

	var verBuf [2]byte
	if _, err := io.ReadFull(r, verBuf[:]); err != nil {
		return NumpyHeader{}, err
	}
	major, minor := verBuf[0], verBuf[1]

	var headerLen int
	if major >= 2 {
		var lenBuf [4]byte
		if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
			return NumpyHeader{}, err
		}
		headerLen = int(binary.LittleEndian.Uint32(lenBuf[:]))
	} else {
		var lenBuf [2]byte
		if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
			return NumpyHeader{}, err
		}
		headerLen = int(binary.LittleEndian.Uint16(lenBuf[:]))
	}

	headerBytes := make([]byte, headerLen)
	if _, err := io.ReadFull(r, headerBytes); err != nil {
		return NumpyHeader{}, err
	}

	return NumpyHeader{Major: major, Minor: minor, Descr: parseDescr(string(headerBytes))}, nil
}

// parseDescr extracts the quoted value following a 'descr' key in the
// header dict's literal text, e.g. "{'descr': '<f8', 'fortran_order': ...}".
func parseDescr(header string) string {
	idx := strings.Index(header, "descr")
	if idx < 0 {
		return ""
	}
	rest := header[idx+len("descr"):]
	colon := strings.IndexByte(rest, ':')
	if colon < 0 {
		return ""
	}
	rest = strings.TrimSpace(rest[colon+1:])
	if len(rest) == 0 {
		return ""
	}
	quote := rest[0]
	if quote != '\'' && quote != '"' {
		return ""
	}
	end := strings.IndexByte(rest[1:], quote)
	if end < 0 {
		return ""
	}
	return rest[1 : 1+end]
}
