package fetch

import (
	"context"
	"log"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/picklevet/picklevet/internal/walkfs"
	"github.com/picklevet/picklevet/scan"
	"github.com/picklevet/picklevet/scanresult"
)

// ScanURL fetches href and scans the resulting bytes, the Go equivalent of
// original_source's scan_url.
func ScanURL(ctx context.Context, c *Client, s *scan.Scanner, href string) (scanresult.Result, error) {
	runID := uuid.New()
	data, err := c.Get(ctx, runID, href)
	if err != nil {
		return scanresult.Result{}, err
	}
	ext := strings.ToLower(filepath.Ext(href))
	return s.ScanBytes(data, href, ext)
}

// ScanHuggingFaceModel lists repoID's file manifest and scans every member
// whose extension walkfs.Recognized accepts, merging their results the way
// original_source's scan_huggingface_model folds each file's scan_bytes
// call into one running ScanResult.
func ScanHuggingFaceModel(ctx context.Context, c *Client, s *scan.Scanner, repoID string) (scanresult.Result, error) {
	runID := uuid.New()

	names, err := c.HuggingFaceFiles(ctx, runID, repoID)
	if err != nil {
		return scanresult.Result{}, err
	}

	var result scanresult.Result
	for _, name := range names {
		ext := strings.ToLower(filepath.Ext(name))
		if !walkfs.Recognized(ext) {
			continue
		}

		url := c.HuggingFaceFileURL(repoID, name)
		data, err := c.Get(ctx, runID, url)
		if err != nil {
			log.Printf("fetch[%s]: %s: %v", runID, url, err)
			result.Merge(scanresult.Result{ScanErr: true})
			continue
		}

		r, err := s.ScanBytes(data, url, ext)
		if err != nil {
			log.Printf("fetch[%s]: %s: scan error: %v", runID, url, err)
			result.Merge(scanresult.Result{ScanErr: true})
			continue
		}
		result.Merge(r)
	}
	return result, nil
}
