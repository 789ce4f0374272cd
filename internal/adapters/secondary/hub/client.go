// Package hub talks to a model hub that serves artifact files over HTTP
// using the {repo}/resolve/{revision}/{filename} layout.
package hub

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

type Client struct {
	httpClient *http.Client
	baseURL    string
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
	}
}

// Download fetches one artifact file at a pinned revision and returns its
// raw bytes.
func (c *Client) Download(ctx context.Context, repo, revision, filename string) ([]byte, error) {
	url := fmt.Sprintf("%s/%s/resolve/%s/%s", c.baseURL, repo, revision, filename)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create hub request: %w", err)
	}

	log.WithFields(log.Fields{
		"repo":     repo,
		"revision": revision,
		"file":     filename,
	}).Debug("downloading artifact from hub")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("hub request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("hub returned status %d for %s", resp.StatusCode, url)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read hub response: %w", err)
	}
	return data, nil
}
