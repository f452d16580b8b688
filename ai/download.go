package ai

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Downloader fetches generated assets over plain HTTP.
type Downloader struct {
	httpClient *http.Client
	timeout    time.Duration
}

func NewDownloader(timeout time.Duration) *Downloader {
	return &Downloader{
		httpClient: &http.Client{Timeout: timeout},
		timeout:    timeout,
	}
}

func (d *Downloader) Fetch(ctx context.Context, url string, w io.Writer) error {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &Failure{Op: "download", Err: err}
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return &Failure{Op: "download", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &Failure{Op: "download", Status: resp.StatusCode, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	if _, err := io.Copy(w, resp.Body); err != nil {
		return &Failure{Op: "download", Err: fmt.Errorf("reading body: %w", err)}
	}
	return nil
}
