package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const defaultHuggingFaceBaseURL = "https://huggingface.co"

// Client fetches remote byte blobs and HuggingFace repo manifests. The
// underlying http.Client follows redirects with the standard library's
// default policy and makes exactly one request per call — no retry loop.
type Client struct {
	http           *http.Client
	huggingFaceURL string
}

// NewClient builds a Client whose requests are each bounded by timeout
// (config.Config.FetchTimeout); timeout <= 0 means no client-side timeout
// beyond whatever context deadline the caller supplies.
func NewClient(timeout time.Duration) *Client {
	return &Client{http: &http.Client{Timeout: timeout}, huggingFaceURL: defaultHuggingFaceBaseURL}
}

// Get issues one GET request and returns the response body. runID tags the
// request/response log lines so a multi-file run's output can be
// correlated; pass uuid.New() once per invocation of the command that
// drives this Client.
func (c *Client) Get(ctx context.Context, runID uuid.UUID, url string) ([]byte, error) {
	log.Printf("fetch[%s]: GET %s", runID, url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch: building request for %s: %w", url, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	log.Printf("fetch[%s]: %s -> %d", runID, url, resp.StatusCode)
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("fetch: HTTP %d (%s) calling GET %s", resp.StatusCode, resp.Status, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch: reading body of %s: %w", url, err)
	}
	return body, nil
}

// modelManifest mirrors the subset of the HuggingFace models API response
// scan_huggingface_model reads: the repo's list of file siblings.
type modelManifest struct {
	Siblings []struct {
		RFilename string `json:"rfilename"`
	} `json:"siblings"`
}

// HuggingFaceFiles fetches repoID's manifest and returns its file names.
func (c *Client) HuggingFaceFiles(ctx context.Context, runID uuid.UUID, repoID string) ([]string, error) {
	body, err := c.Get(ctx, runID, c.huggingFaceURL+"/api/models/"+repoID)
	if err != nil {
		return nil, err
	}
	return parseManifest(body, repoID)
}

func parseManifest(body []byte, repoID string) ([]string, error) {
	var m modelManifest
	if err := json.Unmarshal(body, &m); err != nil {
		return nil, fmt.Errorf("fetch: parsing manifest for %s: %w", repoID, err)
	}

	names := make([]string, 0, len(m.Siblings))
	for _, s := range m.Siblings {
		if s.RFilename != "" {
			names = append(names, s.RFilename)
		}
	}
	return names, nil
}

// HuggingFaceFileURL builds the download URL for one file of repoID's main
// branch, matching original_source's "{repo}/resolve/main/{file}" pattern.
func (c *Client) HuggingFaceFileURL(repoID, fileName string) string {
	return fmt.Sprintf("%s/%s/resolve/main/%s", c.huggingFaceURL, repoID, fileName)
}
