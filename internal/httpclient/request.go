package httpclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
)

// MethodPropfind is the WebDAV PROPFIND method.
const MethodPropfind = "PROPFIND"

// Request performs an authenticated request and returns the response body.
// For PROPFIND the body is sent as application/xml with Depth: 1. Any
// failure, including a non-2xx status, is reported as an error wrapping
// ErrTransport.
func (c *httpClientWrapper) Request(ctx context.Context, method, urlStr string, body []byte) ([]byte, error) {
	if method == MethodPropfind {
		return c.DoPROPFIND(ctx, urlStr, 1, body)
	}
	return c.do(ctx, method, urlStr, body, nil)
}

func (c *httpClientWrapper) do(ctx context.Context, method, urlStr string, body []byte, headers http.Header) ([]byte, error) {
	resolvedURL, err := c.resolveURL(urlStr)
	if err != nil {
		c.logger.Debug("failed to resolve URL", "url", urlStr, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	target := resolvedURL.String()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create %s request: %w", ErrTransport, method, err)
	}
	for key, values := range headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Debug("request failed", "method", method, "url", target, "error", err)
		return nil, fmt.Errorf("%w: %s %s: %w", ErrTransport, method, target, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("received response", "method", method, "url", target, "status", resp.Status)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{Method: method, URL: target, Code: resp.StatusCode, Status: resp.Status}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s response body: %w", ErrTransport, method, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %w: %s %s", ErrTransport, ErrEmptyBody, method, target)
	}
	return data, nil
}
