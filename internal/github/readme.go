package github

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// maxReadmeBytes bounds how much of a README is read.
const maxReadmeBytes = 1 << 20

// FetchReadme downloads one file from the repository's branch via the
// raw-content endpoint. Any non-200 answer is an error.
func (c *Client) FetchReadme(ctx context.Context, account, repo, branch, file string) (string, error) {
	rawURL, err := url.JoinPath(c.rawURL, account, repo, branch, file)
	if err != nil {
		return "", fmt.Errorf("building raw URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", &APIError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxReadmeBytes))
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", rawURL, err)
	}
	return string(body), nil
}
