package ingestor

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"github.com/tablake/ingestr/core"
)

const fetchChunkSize = 256 * 1024

// Ensure both fetchers implement the core.Fetcher interface
var (
	_ core.Fetcher = (*HTTPFetcher)(nil)
	_ core.Fetcher = DisabledFetcher{}
)

// HTTPFetcher downloads remote sources over HTTP with a bounded timeout
type HTTPFetcher struct {
	Fs     afero.Fs
	Client *http.Client
}

// NewHTTPFetcher creates an HTTPFetcher. A zero timeout falls back to 60s.
func NewHTTPFetcher(fs afero.Fs, timeout time.Duration) *HTTPFetcher {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &HTTPFetcher{
		Fs:     fs,
		Client: &http.Client{Timeout: timeout},
	}
}

// Fetch streams url into dest in fixed-size chunks, creating parent
// directories as needed. Non-2xx responses fail.
func (f *HTTPFetcher) Fetch(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request for %s: %v", url, err)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download %s: %v", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("failed to download %s: %s", url, resp.Status)
	}

	if err := f.Fs.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("failed to create destination directory: %v", err)
	}
	out, err := f.Fs.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create %s: %v", dest, err)
	}
	defer out.Close()

	if _, err := io.CopyBuffer(out, resp.Body, make([]byte, fetchChunkSize)); err != nil {
		return fmt.Errorf("failed to write %s: %v", dest, err)
	}
	return nil
}

// DisabledFetcher is substituted in offline deployments; any fetch attempt
// fails immediately with a configuration error.
type DisabledFetcher struct{}

func (DisabledFetcher) Fetch(ctx context.Context, url, dest string) error {
	return fmt.Errorf("HTTP fetching is disabled: unset offline mode or ingest local files with --input")
}
