package archive

import (
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/bodgit/sevenzip"

	"github.com/picklevet/picklevet/format"
	"github.com/picklevet/picklevet/scanresult"
)

// ScanExtractedFile is called once per pickle-extension member extracted
// from a 7z archive, with path pointing at the extracted copy on disk.
type ScanExtractedFile func(path string) (scanresult.Result, error)

// Walk7z enumerates ra's 7z directory and extracts every member whose
// extension is a recognized pickle extension into a scoped temporary
// directory, then hands each extracted path to scanFile. The temporary
// directory is removed on every exit path — spec.md §4.5's "released on all
// exit paths" and §5's resource discipline.
//
// Members are extracted rather than streamed because bodgit/sevenzip, like
// the reference implementation's py7zr, must materialize a solid block to
// serve any one file inside it; there is no cheaper random-access path for
// an archive format built around whole-block compression.
func Walk7z(ra io.ReaderAt, size int64, fileID string, scanFile ScanExtractedFile) (scanresult.Result, error) {
	zr, err := sevenzip.NewReader(ra, size)
	if err != nil {
		return scanresult.Result{}, err
	}

	tmpdir, err := os.MkdirTemp("", "picklevet-7z-")
	if err != nil {
		return scanresult.Result{}, err
	}
	defer os.RemoveAll(tmpdir)

	var result scanresult.Result
	for _, f := range zr.File {
		ext := filepath.Ext(f.Name)
		if !format.PickleExtensions[ext] {
			continue
		}

		destPath := filepath.Join(tmpdir, filepath.Base(f.Name))
		if err := extractMember(f, destPath); err != nil {
			log.Printf("archive: %s: failed extracting 7z member %q: %v", fileID, f.Name, err)
			continue
		}

		res, scanErr := scanFile(destPath)
		if scanErr != nil {
			log.Printf("archive: %s: error scanning extracted 7z member %q: %v", fileID, f.Name, scanErr)
		}
		result.Merge(res)
	}
	return result, nil
}

func extractMember(f *sevenzip.File, destPath string) error {
	src, err := f.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, src)
	return err
}
