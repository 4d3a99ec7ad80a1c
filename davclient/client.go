package davclient

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/cyp0633/libcarddav/internal/httpclient"
)

// DefaultTimeout bounds every single request made by the client.
const DefaultTimeout = 30 * time.Second

// DAVClient lists an address-book collection and aggregates its vCards.
type DAVClient interface {
	// ListResources returns the hrefs of the collection members that the
	// server reported with a success status, in listing order.
	ListResources(ctx context.Context) ([]string, error)
	// FetchAll downloads each ref and appends its payload plus a newline to
	// sink, in the order given.
	FetchAll(ctx context.Context, refs []string, sink io.Writer) (Result, error)
	// Endpoint returns the collection this client reads.
	Endpoint() Endpoint
}

// Options tune a client. The zero value is a sequential client with the
// default timeout and no logging.
type Options struct {
	// Timeout bounds each request; zero means DefaultTimeout, negative means none.
	Timeout time.Duration
	// Concurrency > 1 fetches resources with that many workers. Output
	// order is unaffected.
	Concurrency int
	// Clean strips carriage returns and surrounding whitespace from payloads.
	Clean bool
	// Validate counts payloads that do not decode as vCard as failures.
	Validate bool
	// SkipCollection drops the collection's own href from listings.
	SkipCollection bool
	// Transport is the underlying round tripper, http.DefaultTransport if nil.
	Transport http.RoundTripper
	Logger    *slog.Logger
}

type davClient struct {
	httpClient httpclient.HttpClientWrapper
	endpoint   Endpoint
	opts       Options
	logger     *slog.Logger
}

// NewDAVClient creates a new CardDAV client for endpoint.
func NewDAVClient(endpoint Endpoint, opts Options) (DAVClient, error) {
	if err := endpoint.Validate(); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()

	wrapper, err := httpclient.NewHttpClientWrapper(newHTTPClient(endpoint, opts), endpoint.BaseURL(), opts.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client wrapper: %w", err)
	}

	return &davClient{
		httpClient: wrapper,
		endpoint:   endpoint,
		opts:       opts,
		logger:     opts.Logger,
	}, nil
}

func (c *davClient) Endpoint() Endpoint {
	return c.endpoint
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if o.Timeout == 0 {
		o.Timeout = DefaultTimeout
	}
	if o.Concurrency < 1 {
		o.Concurrency = 1
	}
	return o
}

func newHTTPClient(endpoint Endpoint, opts Options) *http.Client {
	client := &http.Client{
		Transport: httpclient.NewBasicAuthTransport(endpoint.Username, endpoint.Password, opts.Transport, opts.Logger),
	}
	if opts.Timeout > 0 {
		client.Timeout = opts.Timeout
	}
	return client
}
