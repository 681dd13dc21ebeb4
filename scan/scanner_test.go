package scan

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/picklevet/picklevet/config"
)

func buildGlobalPickle(module, name string) []byte {
	var buf bytes.Buffer
	buf.WriteByte(0x80)
	buf.WriteByte(2)
	buf.WriteByte('c')
	buf.WriteString(module)
	buf.WriteByte('\n')
	buf.WriteString(name)
	buf.WriteByte('\n')
	buf.WriteByte(0x94)
	buf.WriteByte('.')
	return buf.Bytes()
}

func newScanner(t *testing.T) *Scanner {
	t.Helper()
	s, err := New(config.Default())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestScanBytesRawPickleDangerous(t *testing.T) {
	s := newScanner(t)
	data := buildGlobalPickle("os", "system")
	r, err := s.ScanBytes(data, "test.pkl", ".pkl")
	if err != nil {
		t.Fatalf("ScanBytes: %v", err)
	}
	if r.IssuesCount != 1 || r.InfectedFiles != 1 {
		t.Fatalf("got %+v, want one dangerous issue", r)
	}
}

func TestScanBytesRawPickleInnocuous(t *testing.T) {
	s := newScanner(t)
	data := buildGlobalPickle("collections", "OrderedDict")
	r, err := s.ScanBytes(data, "test.pkl", ".pkl")
	if err != nil {
		t.Fatalf("ScanBytes: %v", err)
	}
	if r.IssuesCount != 0 || r.InfectedFiles != 0 {
		t.Fatalf("got %+v, want no issues", r)
	}
}

func TestScanBytesSniffsZipWithoutExtension(t *testing.T) {
	s := newScanner(t)

	var zbuf bytes.Buffer
	zw := zip.NewWriter(&zbuf)
	fw, err := zw.Create("weights.pkl")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	fw.Write(buildGlobalPickle("subprocess", "Popen"))
	if err := zw.Close(); err != nil {
		t.Fatalf("zip Close: %v", err)
	}

	r, err := s.ScanBytes(zbuf.Bytes(), "model.zip", "")
	if err != nil {
		t.Fatalf("ScanBytes: %v", err)
	}
	if r.IssuesCount != 1 {
		t.Fatalf("got %+v, want one dangerous issue from the zip member", r)
	}
}

func TestScanBytesTensorArchiveDelegatesToZip(t *testing.T) {
	s := newScanner(t)

	var zbuf bytes.Buffer
	zw := zip.NewWriter(&zbuf)
	fw, err := zw.Create("data.pkl")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	fw.Write(buildGlobalPickle("os", "system"))
	if err := zw.Close(); err != nil {
		t.Fatalf("zip Close: %v", err)
	}

	r, err := s.ScanBytes(zbuf.Bytes(), "model.pt", ".pt")
	if err != nil {
		t.Fatalf("ScanBytes: %v", err)
	}
	if r.IssuesCount != 1 {
		t.Fatalf("got %+v, want one dangerous issue via the zip-backed tensor archive path", r)
	}
}

func TestScanBytesLegacyTensorArchiveInvalidMagic(t *testing.T) {
	s := newScanner(t)
	r, err := s.ScanBytes([]byte{0, 1, 2, 3, 4, 5, 6, 7}, "model.bin", ".bin")
	if err != nil {
		t.Fatalf("ScanBytes: %v", err)
	}
	if !r.ScanErr {
		t.Fatalf("got %+v, want ScanErr=true for bad legacy magic", r)
	}
}

func TestScanBytesMaxDepthExceeded(t *testing.T) {
	cfg := config.Default()
	cfg.MaxDepth = 1
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	data := buildGlobalPickle("os", "system")
	r, err := s.scanAt(newByteSource(data), int64(len(data)), "test.pkl", ".pkl", 2)
	if err != nil {
		t.Fatalf("scanAt: %v", err)
	}
	if !r.ScanErr {
		t.Fatalf("got %+v, want ScanErr=true once depth exceeds MaxDepth", r)
	}
}
