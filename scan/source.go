package scan

import (
	"bytes"
	"io"
)

func newByteSource(data []byte) readerAt {
	return bytes.NewReader(data)
}

// freshReader returns an independent view of ra's first size bytes starting
// at offset zero, letting the scanner re-read from the top (sniff, then
// scan) without the two reads interfering with each other's position.
func freshReader(ra readerAt, size int64) io.Reader {
	return io.NewSectionReader(ra, 0, size)
}
