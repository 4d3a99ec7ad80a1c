package httpclient

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"
)

// maxLoggedBody caps how much of a request or response body ends up in debug logs.
const maxLoggedBody = 4096

// BasicAuthTransport implements http.RoundTripper and adds Basic Auth
// credentials to every outgoing request.
type BasicAuthTransport struct {
	Username  string
	Password  string
	Transport http.RoundTripper
	Logger    *slog.Logger
}

// NewBasicAuthTransport creates a new BasicAuthTransport. If transport is nil,
// http.DefaultTransport is used; if logger is nil, nothing is logged.
func NewBasicAuthTransport(username, password string, transport http.RoundTripper, logger *slog.Logger) *BasicAuthTransport {
	if transport == nil {
		transport = http.DefaultTransport
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &BasicAuthTransport{
		Username:  username,
		Password:  password,
		Transport: transport,
		Logger:    logger,
	}
}

// RoundTrip implements http.RoundTripper.
func (t *BasicAuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.Username == "" {
		return nil, errors.New("basic auth username cannot be empty")
	}
	if t.Password == "" {
		return nil, errors.New("basic auth password cannot be empty")
	}
	if t.Transport == nil {
		return nil, errors.New("transport cannot be nil")
	}

	// RoundTrippers must not modify the caller's request
	req = req.Clone(req.Context())
	req.SetBasicAuth(t.Username, t.Password)

	if t.Logger.Enabled(req.Context(), slog.LevelDebug) {
		var reqBody []byte
		if req.Body != nil {
			reqBody, req.Body = peekBody(req.Body)
		}
		t.Logger.Debug("outgoing request",
			"method", req.Method,
			"url", req.URL.String(),
			"depth", req.Header.Get("Depth"),
			"body", truncate(reqBody))
	}

	resp, err := t.Transport.RoundTrip(req)
	if err != nil {
		t.Logger.Debug("round trip failed", "method", req.Method, "url", req.URL.String(), "error", err)
		return nil, err
	}

	if t.Logger.Enabled(req.Context(), slog.LevelDebug) && resp.Body != nil {
		var respBody []byte
		respBody, resp.Body = peekBody(resp.Body)
		t.Logger.Debug("incoming response",
			"status", resp.Status,
			"content_type", resp.Header.Get("Content-Type"),
			"body", truncate(respBody))
	}

	return resp, nil
}

// peekBody drains rc and returns its contents together with a fresh reader
// over the same bytes. A read error is replayed by the fresh reader once the
// bytes read so far are consumed.
func peekBody(rc io.ReadCloser) ([]byte, io.ReadCloser) {
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return data, io.NopCloser(io.MultiReader(bytes.NewReader(data), errReader{err: err}))
	}
	return data, io.NopCloser(bytes.NewReader(data))
}

type errReader struct {
	err error
}

func (r errReader) Read([]byte) (int, error) {
	return 0, r.err
}

func truncate(b []byte) string {
	if len(b) > maxLoggedBody {
		return string(b[:maxLoggedBody]) + "...(truncated)"
	}
	return string(b)
}
