// internal/feed/client.go
//
// Partner feed downloader.
//
// Context:
//   - The partner exposes one archive per publisher at
//     {base}/{publisherID}.zip behind HTTP Basic auth.  Download streams
//     it to a temp file in the scratch directory and hands the path to
//     the extractor.
//   - There is deliberately no client timeout and no retry.  The export
//     runs to a few hundred megabytes on large dealer groups, and the
//     sync makes exactly one attempt per run.
//   - A failed or truncated download never leaves a file behind.  The
//     next stage may assume any path it receives is a complete archive.
//
// Notes:
//   - Oxford commas, two spaces after periods.

package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"go.uber.org/zap"
)

// ClientOptions configures the downloader.  BaseURL carries the scheme,
// for example "https://feeds.example.net".
type ClientOptions struct {
	BaseURL     string
	Username    string
	Password    string
	PublisherID string
	ScratchDir  string
}

// Client downloads the partner inventory archive.
type Client struct {
	http *http.Client
	opts ClientOptions
}

// NewClient builds a downloader.  An empty ScratchDir falls back to the
// system temp directory.
func NewClient(opts ClientOptions) *Client {
	if opts.ScratchDir == "" {
		opts.ScratchDir = os.TempDir()
	}
	return &Client{
		http: &http.Client{},
		opts: opts,
	}
}

// DownloadURL returns the archive URL for the configured publisher.
func (c *Client) DownloadURL() string {
	return fmt.Sprintf("%s/%s.zip", strings.TrimRight(c.opts.BaseURL, "/"), c.opts.PublisherID)
}

// Download fetches the archive into the scratch directory and returns
// the file path.  The caller owns cleanup of the returned file.
func (c *Client) Download(ctx context.Context) (string, error) {
	url := c.DownloadURL()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &NetworkError{URL: url, Err: err}
	}
	req.SetBasicAuth(c.opts.Username, c.opts.Password)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &NetworkError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &NetworkError{URL: url, Status: resp.StatusCode}
	}

	out, err := os.CreateTemp(c.opts.ScratchDir, c.opts.PublisherID+"-*.zip")
	if err != nil {
		return "", &NetworkError{URL: url, Err: err}
	}

	written, err := io.Copy(out, resp.Body)
	if err != nil {
		out.Close()
		os.Remove(out.Name())
		return "", &NetworkError{URL: url, Err: err}
	}
	if err := out.Close(); err != nil {
		os.Remove(out.Name())
		return "", &NetworkError{URL: url, Err: err}
	}

	zap.S().Infow("feed archive downloaded",
		"url", url,
		"file", out.Name(),
		"bytes", written,
	)
	return out.Name(), nil
}
