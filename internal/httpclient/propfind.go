package httpclient

import (
	"context"
	"net/http"
	"strconv"
)

// DoPROPFIND sends a PROPFIND with the given XML body and Depth header and
// returns the raw multistatus document.
func (c *httpClientWrapper) DoPROPFIND(ctx context.Context, urlStr string, depth int, body []byte) ([]byte, error) {
	c.logger.Debug("starting PROPFIND request",
		"url", urlStr,
		"depth", depth,
		"body_size", len(body))

	headers := http.Header{}
	headers.Set("Content-Type", "application/xml")
	headers.Set("Depth", strconv.Itoa(depth))

	data, err := c.do(ctx, MethodPropfind, urlStr, body, headers)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("PROPFIND request complete", "url", urlStr, "size", len(data))
	return data, nil
}
