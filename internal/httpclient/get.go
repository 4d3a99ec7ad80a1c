package httpclient

import (
	"context"
	"net/http"
)

// DoGET fetches a single resource.
func (c *httpClientWrapper) DoGET(ctx context.Context, urlStr string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, urlStr, nil, nil)
}
