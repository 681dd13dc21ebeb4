package archive

import (
	"archive/zip"
	"io"
	"log"
	"path/filepath"
	"strings"

	kflate "github.com/klauspost/compress/flate"

	"github.com/picklevet/picklevet/format"
	"github.com/picklevet/picklevet/scanresult"
)

func init() {
	// klauspost/compress/flate decodes faster than compress/flate and is a
	// drop-in io.ReadCloser, the same swap-the-codec-behind-a-narrow-interface
	// technique sneller's compr package uses for zstd/s2.
	zip.RegisterDecompressor(zip.Deflate, func(r io.Reader) io.ReadCloser {
		return kflate.NewReader(r)
	})
}

// ScanMember is called once per zip entry worth scanning (spec.md §4.5's
// zip-walker classification rule already applied). ext is the member's
// lowercased extension including the leading dot.
type ScanMember func(name, ext string, r io.Reader) (scanresult.Result, error)

// WalkZip enumerates ra's zip central directory, classifies each member by
// extension and leading bytes, and scans the ones that look like pickle or
// numpy payloads. Per-member errors are logged and do not abort the walk —
// spec.md §4.5 and §7.
func WalkZip(ra io.ReaderAt, size int64, fileID string, scanMember ScanMember) (scanresult.Result, error) {
	zr, err := zip.NewReader(ra, size)
	if err != nil {
		return scanresult.Result{}, err
	}

	var result scanresult.Result
	for _, f := range zr.File {
		ext := strings.ToLower(filepath.Ext(f.Name))
		head, err := peekMember(f, 8)
		if err != nil {
			log.Printf("archive: %s: skipping unreadable zip member %q: %v", fileID, f.Name, err)
			continue
		}

		switch {
		case format.PickleExtensions[ext] || format.HasPickleMagic(head):
		case format.NumpyExtensions[ext] || format.HasNumpyMagic(head):
		default:
			continue
		}

		rc, err := f.Open()
		if err != nil {
			log.Printf("archive: %s: failed opening zip member %q: %v", fileID, f.Name, err)
			continue
		}
		res, scanErr := scanMember(f.Name, ext, rc)
		rc.Close()
		if scanErr != nil {
			log.Printf("archive: %s: error scanning zip member %q: %v", fileID, f.Name, scanErr)
		}
		result.Merge(res)
	}
	return result, nil
}

func peekMember(f *zip.File, n int) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	buf := make([]byte, n)
	m, err := io.ReadFull(rc, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, err
	}
	return buf[:m], nil
}
