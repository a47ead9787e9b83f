package progress

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// maxRemoteBody bounds how much of a mirror response is read
const maxRemoteBody = 4 << 20

// TokenSource supplies bearer tokens for the mirror endpoint
type TokenSource interface {
	Token() (string, error)
}

// RemoteClient talks to the /api/data CSV endpoint of a persistence server
type RemoteClient struct {
	baseURL string
	client  *http.Client
	tokens  TokenSource
}

// NewRemoteClient creates a client for baseURL; tokens may be nil
func NewRemoteClient(baseURL string, timeout time.Duration, tokens TokenSource) *RemoteClient {
	return &RemoteClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		tokens:  tokens,
	}
}

func (c *RemoteClient) newRequest(ctx context.Context, method string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/api/data", body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if c.tokens != nil {
		token, err := c.tokens.Token()
		if err != nil {
			return nil, fmt.Errorf("failed to issue token: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// Fetch downloads the CSV snapshot. A missing snapshot is ErrNotFound.
func (c *RemoteClient) Fetch(ctx context.Context) ([]byte, error) {
	req, err := c.newRequest(ctx, http.MethodGet, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/csv")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch progress: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("failed to fetch progress: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxRemoteBody))
	if err != nil {
		return nil, fmt.Errorf("failed to read progress: %w", err)
	}
	return data, nil
}

// Push uploads a full CSV snapshot, replacing the remote one
func (c *RemoteClient) Push(ctx context.Context, data []byte) error {
	req, err := c.newRequest(ctx, http.MethodPost, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "text/csv")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to push progress: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxRemoteBody))

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to push progress: status %d", resp.StatusCode)
	}
	return nil
}
