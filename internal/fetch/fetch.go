// Package fetch downloads image bytes from chat-provided URLs.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/nightdust/imgmeta/internal/logger"
	"github.com/nightdust/imgmeta/pkg/common"
)

// Downloader fetches image bytes over HTTP with a size cap and
// bounded retries for transient failures.
type Downloader struct {
	client   *http.Client
	maxBytes int64
	retry    RetryConfig
}

// New creates a downloader. A nil client gets a default with the
// given timeout.
func New(client *http.Client, timeout time.Duration, maxBytes int64) *Downloader {
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	if maxBytes <= 0 {
		maxBytes = 32 << 20
	}
	return &Downloader{
		client:   client,
		maxBytes: maxBytes,
		retry:    DefaultRetryConfig(),
	}
}

// Download fetches the resource at rawURL and returns its bytes.
func (d *Downloader) Download(ctx context.Context, rawURL string) ([]byte, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, common.NewDownloadError(fmt.Sprintf("invalid image URL: %v", err))
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, common.NewDownloadError(fmt.Sprintf("unsupported URL scheme %q", parsed.Scheme))
	}

	var data []byte
	op := "download from " + parsed.Host
	err = RetryWithBackoff(ctx, op, func() error {
		var attemptErr error
		data, attemptErr = d.fetch(ctx, rawURL)
		return attemptErr
	}, d.retry)
	if err != nil {
		return nil, err
	}

	logger.Debug("downloaded %d bytes from %s", len(data), parsed.Host)
	return data, nil
}

func (d *Downloader) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, common.NewDownloadError(fmt.Sprintf("build request: %v", err))
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, common.NewDownloadError(fmt.Sprintf("image download failed: HTTP %d", resp.StatusCode))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, d.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read image body: %w", err)
	}
	if int64(len(data)) > d.maxBytes {
		return nil, common.NewDownloadError(fmt.Sprintf("image exceeds size limit of %d bytes", d.maxBytes))
	}
	if len(data) == 0 {
		return nil, errors.New("empty response body")
	}

	return data, nil
}
