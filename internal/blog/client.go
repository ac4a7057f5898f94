package blog

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"blogstats/internal/fetch"
)

// AdminSecretHeader carries the deployment secret to the upstream API.
const AdminSecretHeader = "x-hasura-admin-secret"

// maxBodyBytes caps how much of an upstream response is read.
const maxBodyBytes = 32 << 20

// Client reads the full blog collection from the upstream API.
type Client struct {
	http   *fetch.Client
	url    string
	secret string
}

// NewClient creates a Client for url authenticated with secret.
func NewClient(hc *fetch.Client, url, secret string) *Client {
	return &Client{http: hc, url: url, secret: secret}
}

// Fetch performs one upstream read. Transport failures, non-2xx statuses and
// undecodable bodies are all returned as errors.
func (c *Client) Fetch(ctx context.Context) (*Dataset, error) {
	resp, err := c.http.Get(ctx, c.url, map[string]string{AdminSecretHeader: c.secret})
	if err != nil {
		return nil, fmt.Errorf("fetch blogs: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("upstream returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read blogs: %w", err)
	}
	return Decode(body)
}
