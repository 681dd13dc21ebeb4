package pickle

import (
	"bufio"
	"io"
)

// byteReader is the single buffered view over the caller's stream that
// Extract threads through all of a multi-pickle stream's frames, so that
// peeking for "is there another pickle after this one" (spec.md §4.2 step 6)
// never double-buffers or drops a byte between frames.
type byteReader struct {
	*bufio.Reader
}

func newByteReader(r io.Reader) *byteReader {
	return &byteReader{bufio.NewReaderSize(r, 4096)}
}

func (b *byteReader) peek() (byte, error) {
	p, err := b.Peek(1)
	if err != nil {
		return 0, err
	}
	return p[0], nil
}
