package davclient

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/cyp0633/libcarddav/internal/httpclient"
)

// mockHTTPClient is an in-memory HttpClientWrapper keyed by absolute URL.
type mockHTTPClient struct {
	mu        sync.Mutex
	propfind  []byte
	propErr   error
	resources map[string][]byte
	errors    map[string]error
	// blocked URLs hang until the request context is done.
	blocked   map[string]bool
	requested []string
}

func (m *mockHTTPClient) Request(ctx context.Context, method, url string, body []byte) ([]byte, error) {
	if method == httpclient.MethodPropfind {
		return m.DoPROPFIND(ctx, url, 1, body)
	}
	return m.DoGET(ctx, url)
}

func (m *mockHTTPClient) DoPROPFIND(_ context.Context, url string, _ int, _ []byte) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requested = append(m.requested, "PROPFIND "+url)
	return m.propfind, m.propErr
}

func (m *mockHTTPClient) DoGET(ctx context.Context, url string) ([]byte, error) {
	m.mu.Lock()
	m.requested = append(m.requested, "GET "+url)
	if m.blocked[url] {
		m.mu.Unlock()
		<-ctx.Done()
		return nil, ctx.Err()
	}
	defer m.mu.Unlock()
	if err, ok := m.errors[url]; ok {
		return nil, err
	}
	if data, ok := m.resources[url]; ok {
		return data, nil
	}
	return nil, &httpclient.StatusError{Method: "GET", URL: url, Code: 404, Status: "404 Not Found"}
}

func newMockClient(m *mockHTTPClient, opts Options) *davClient {
	opts = opts.withDefaults()
	return &davClient{
		httpClient: m,
		endpoint:   testEndpoint,
		opts:       opts,
		logger:     opts.Logger,
	}
}

var testEndpoint = Endpoint{
	Host:     "contacts.example.com",
	BasePath: "/carddav/lists/default/",
	Username: "alice",
	Password: "secret",
}

func vcardFor(name string) []byte {
	return []byte(fmt.Sprintf("BEGIN:VCARD\r\nVERSION:3.0\r\nFN:%s\r\nEND:VCARD\r\n", name))
}

// syncBuffer is a bytes.Buffer safe to read while FetchAll writes to it.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// failingWriter fails after limit successful writes.
type failingWriter struct {
	limit  int
	writes int
}

func (w *failingWriter) Write(p []byte) (int, error) {
	if w.writes >= w.limit {
		return 0, fmt.Errorf("disk full")
	}
	w.writes++
	return len(p), nil
}
