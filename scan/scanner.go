package scan

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/picklevet/picklevet/archive"
	"github.com/picklevet/picklevet/classify"
	"github.com/picklevet/picklevet/config"
	"github.com/picklevet/picklevet/format"
	"github.com/picklevet/picklevet/pickle"
	"github.com/picklevet/picklevet/scanresult"
)

// Scanner holds everything one scan run shares: the classifier tables
// (possibly overridden) and the configured recursion limit. A Scanner has
// no mutable state beyond these — spec.md §5: "classifier-table access is
// read-only", concurrent use of a single Scanner across goroutines is safe
// as long as callers don't race the fields themselves.
type Scanner struct {
	tables *classify.Tables
	cfg    config.Config
}

// New builds a Scanner. If cfg.ClassifyOverridesPath is set, it's loaded
// immediately; a missing override file is not an error (classify.LoadOverrides
// falls back to the built-in tables).
func New(cfg config.Config) (*Scanner, error) {
	tables := classify.Default()
	if cfg.ClassifyOverridesPath != "" {
		t, err := classify.LoadOverrides(cfg.ClassifyOverridesPath)
		if err != nil {
			return nil, fmt.Errorf("scan: loading classify overrides: %w", err)
		}
		tables = t
	}
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = config.Default().MaxDepth
	}
	return &Scanner{tables: tables, cfg: cfg}, nil
}

// readerAt is the minimal capability the scanner needs from a source: it
// must support both sequential reads from the start and random access, the
// way an *os.File or *bytes.Reader does, because an archive member may need
// to be re-opened from position zero after a magic-byte sniff.
type readerAt interface {
	io.ReaderAt
	io.Reader
}

// ScanBytes scans an in-memory payload. ext is the lowercased extension
// (including the leading dot) used for the extension-driven branches of
// spec.md §4.4's decision order; pass "" when there is no filename hint.
func (s *Scanner) ScanBytes(data []byte, fileID, ext string) (scanresult.Result, error) {
	return s.scanAt(newByteSource(data), int64(len(data)), fileID, ext, 0)
}

// ScanFile opens path and scans it, using the file's own extension as the
// format hint.
func (s *Scanner) ScanFile(path string) (scanresult.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return scanresult.Result{}, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return scanresult.Result{}, err
	}
	ext := strings.ToLower(filepath.Ext(path))
	return s.scanAt(f, info.Size(), path, ext, 0)
}

func (s *Scanner) scanAt(ra readerAt, size int64, fileID, ext string, depth int) (scanresult.Result, error) {
	if depth > s.cfg.MaxDepth {
		log.Printf("scan: %s: max recursion depth %d exceeded", fileID, s.cfg.MaxDepth)
		return scanresult.Result{ScanErr: true}, nil
	}

	switch {
	case format.TensorArchiveExtensions[ext]:
		return s.scanTensorArchive(ra, size, fileID, depth)
	case format.NumpyExtensions[ext]:
		return s.scanNumpy(freshReader(ra, size), fileID)
	default:
		kind, err := format.Sniff(bufio.NewReader(freshReader(ra, size)))
		if err != nil {
			return s.scanPickle(freshReader(ra, size), fileID)
		}
		return s.scanByKind(kind, ra, size, fileID, depth)
	}
}

func (s *Scanner) scanByKind(kind format.Kind, ra readerAt, size int64, fileID string, depth int) (scanresult.Result, error) {
	switch kind {
	case format.KindZip:
		return s.scanZip(ra, size, fileID, depth)
	case format.KindSevenZip:
		return s.scanSevenZip(ra, size, fileID, depth)
	default:
		return s.scanPickle(freshReader(ra, size), fileID)
	}
}

// scanTensorArchive implements spec.md §4.4.1: delegate to zip/7z if the
// stream carries either signature, else validate the legacy 8-byte magic
// and scan up to five concatenated single-pickle frames off one shared
// cursor.
func (s *Scanner) scanTensorArchive(ra readerAt, size int64, fileID string, depth int) (scanresult.Result, error) {
	kind, err := format.Sniff(bufio.NewReader(freshReader(ra, size)))
	if err == nil && kind != format.KindPickle {
		return s.scanByKind(kind, ra, size, fileID, depth)
	}

	r := freshReader(ra, size)
	if err := format.CheckLegacyMagic(r); err != nil {
		log.Printf("scan: %s: invalid tensor-archive magic: %v", fileID, err)
		return scanresult.Result{ScanErr: true}, nil
	}

	fr := pickle.NewFrameReader(r)
	var result scanresult.Result
	for i := 0; i < 5; i++ {
		set, frErr := fr.Next()
		if frErr == io.EOF {
			break
		}
		result.Merge(scanresult.FromGlobals(toPairs(set), s.tables, frErr != nil))
	}
	result.ScannedFiles = 1
	return result, nil
}

func (s *Scanner) scanNumpy(r io.Reader, fileID string) (scanresult.Result, error) {
	h, err := format.ReadNumpyHeader(r)
	if err != nil {
		log.Printf("scan: %s: numpy header: %v", fileID, err)
		return scanresult.Result{ScanErr: true}, nil
	}
	if h.IsObjectDtype() {
		return s.scanPickle(r, fileID)
	}
	return scanresult.Result{ScannedFiles: 1}, nil
}

func (s *Scanner) scanPickle(r io.Reader, fileID string) (scanresult.Result, error) {
	set, err := pickle.Extract(r, true)
	scanErr := err != nil
	if err != nil {
		log.Printf("scan: %s: pickle parse error: %v", fileID, err)
	}
	return scanresult.FromGlobals(toPairs(set), s.tables, scanErr), nil
}

func (s *Scanner) scanZip(ra readerAt, size int64, fileID string, depth int) (scanresult.Result, error) {
	return archive.WalkZip(ra, size, fileID, func(name, ext string, r io.Reader) (scanresult.Result, error) {
		br := bufio.NewReader(r)
		head, _ := br.Peek(8)
		switch {
		case format.PickleExtensions[ext] || format.HasPickleMagic(head):
			return s.scanPickle(br, fileID+":"+name)
		default:
			return s.scanNumpy(br, fileID+":"+name)
		}
	})
}

func (s *Scanner) scanSevenZip(ra readerAt, size int64, fileID string, depth int) (scanresult.Result, error) {
	return archive.Walk7z(ra, size, fileID, func(path string) (scanresult.Result, error) {
		return s.scanExtractedFile(path, depth+1)
	})
}

// scanExtractedFile is ScanFile with an explicit depth, used by the 7z
// walker's callback once a member has been written out to a temp file.
func (s *Scanner) scanExtractedFile(path string, depth int) (scanresult.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return scanresult.Result{}, err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return scanresult.Result{}, err
	}
	ext := strings.ToLower(filepath.Ext(path))
	return s.scanAt(f, info.Size(), path, ext, depth)
}

func toPairs(set pickle.GlobalsSet) []scanresult.Pair {
	src := set.Pairs()
	out := make([]scanresult.Pair, len(src))
	for i, p := range src {
		out[i] = scanresult.Pair{Module: p.Module, Name: p.Name}
	}
	return out
}
