package davclient

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrInvalidEndpoint is returned when an Endpoint cannot form request URLs.
var ErrInvalidEndpoint = errors.New("invalid endpoint")

// Endpoint identifies one address-book collection and the credentials used
// to read it. It is a plain value and is never modified after construction.
type Endpoint struct {
	Scheme   string // "https" when empty
	Host     string // host[:port]
	BasePath string // collection path, e.g. /carddav/v1/principals/me/lists/default/
	Username string
	Password string
}

// Validate checks that the endpoint can be turned into request URLs.
func (e Endpoint) Validate() error {
	if e.Host == "" {
		return fmt.Errorf("%w: host is required", ErrInvalidEndpoint)
	}
	if strings.Contains(e.Host, "/") {
		return fmt.Errorf("%w: host %q must not contain a path", ErrInvalidEndpoint, e.Host)
	}
	switch e.scheme() {
	case "http", "https":
	default:
		return fmt.Errorf("%w: unsupported scheme %q", ErrInvalidEndpoint, e.Scheme)
	}
	if e.Username == "" || e.Password == "" {
		return fmt.Errorf("%w: username and password are required", ErrInvalidEndpoint)
	}
	return nil
}

func (e Endpoint) scheme() string {
	if e.Scheme == "" {
		return "https"
	}
	return strings.ToLower(e.Scheme)
}

// BaseURL is scheme://host with no path.
func (e Endpoint) BaseURL() url.URL {
	return url.URL{Scheme: e.scheme(), Host: e.Host}
}

// CollectionURL is scheme://host followed by the base path.
func (e Endpoint) CollectionURL() string {
	u := e.BaseURL()
	u.Path = e.BasePath
	if u.Path != "" && !strings.HasPrefix(u.Path, "/") {
		u.Path = "/" + u.Path
	}
	return u.String()
}

// ResourceURL turns an href from a listing into an absolute URL. Server
// relative hrefs are joined to the host; relative ones are resolved against
// the collection; absolute URLs are kept.
func (e Endpoint) ResourceURL(ref string) string {
	base, err := url.Parse(e.CollectionURL())
	if err != nil {
		b := e.BaseURL()
		return b.String() + ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		b := e.BaseURL()
		return b.String() + ref
	}
	return base.ResolveReference(r).String()
}

// IsCollection reports whether ref names the collection itself.
func (e Endpoint) IsCollection(ref string) bool {
	base, err := url.Parse(e.CollectionURL())
	if err != nil {
		return false
	}
	return strings.TrimSuffix(e.ResourceURL(ref), "/") == strings.TrimSuffix(base.String(), "/")
}
