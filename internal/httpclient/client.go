package httpclient

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
)

// HttpClientWrapper is a generic authenticated-HTTP primitive. It knows
// nothing about CardDAV; callers decide what the returned bytes mean.
type HttpClientWrapper interface {
	Request(ctx context.Context, method, url string, body []byte) ([]byte, error)
	DoPROPFIND(ctx context.Context, url string, depth int, body []byte) ([]byte, error)
	DoGET(ctx context.Context, url string) ([]byte, error)
}

type httpClientWrapper struct {
	client  *http.Client
	baseURL url.URL
	logger  *slog.Logger
}

// resolveURL resolves a URL string against the base URL
func (c *httpClientWrapper) resolveURL(urlStr string) (*url.URL, error) {
	ref, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL %q: %w", urlStr, err)
	}
	return c.baseURL.ResolveReference(ref), nil
}

// NewHttpClientWrapper creates a new client wrapper. Authentication is the
// job of client's transport, usually a BasicAuthTransport.
func NewHttpClientWrapper(client *http.Client, baseURL url.URL, logger *slog.Logger) (HttpClientWrapper, error) {
	if client == nil {
		return nil, fmt.Errorf("http client is required")
	}
	if baseURL.Scheme == "" || baseURL.Host == "" {
		return nil, fmt.Errorf("base URL %q must be absolute", baseURL.String())
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &httpClientWrapper{client: client, baseURL: baseURL, logger: logger}, nil
}
