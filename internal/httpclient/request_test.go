package httpclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWrapper(t *testing.T, handler http.HandlerFunc) HttpClientWrapper {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	base, err := url.Parse(srv.URL)
	require.NoError(t, err)

	client := &http.Client{Transport: NewBasicAuthTransport("user", "pass", nil, nil)}
	w, err := NewHttpClientWrapper(client, *base, nil)
	require.NoError(t, err)
	return w
}

func TestRequest_Propfind(t *testing.T) {
	var gotMethod, gotDepth, gotType, gotBody, gotPath string
	w := newTestWrapper(t, func(rw http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotDepth = r.Header.Get("Depth")
		gotType = r.Header.Get("Content-Type")
		gotPath = r.URL.Path
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		rw.WriteHeader(http.StatusMultiStatus)
		_, _ = rw.Write([]byte("<multistatus/>"))
	})

	data, err := w.Request(context.Background(), MethodPropfind, "/carddav/lists/default/", []byte("<propfind/>"))
	require.NoError(t, err)
	assert.Equal(t, "<multistatus/>", string(data))
	assert.Equal(t, MethodPropfind, gotMethod)
	assert.Equal(t, "1", gotDepth)
	assert.Equal(t, "application/xml", gotType)
	assert.Equal(t, "<propfind/>", gotBody)
	assert.Equal(t, "/carddav/lists/default/", gotPath)
}

func TestRequest_GetHasNoDAVHeaders(t *testing.T) {
	var gotDepth string
	var gotUser string
	w := newTestWrapper(t, func(rw http.ResponseWriter, r *http.Request) {
		gotDepth = r.Header.Get("Depth")
		gotUser, _, _ = r.BasicAuth()
		_, _ = rw.Write([]byte("BEGIN:VCARD\r\nEND:VCARD\r\n"))
	})

	data, err := w.DoGET(context.Background(), "/c/1.vcf")
	require.NoError(t, err)
	assert.Equal(t, "BEGIN:VCARD\r\nEND:VCARD\r\n", string(data))
	assert.Empty(t, gotDepth)
	assert.Equal(t, "user", gotUser)
}

func TestRequest_Failures(t *testing.T) {
	tests := []struct {
		name     string
		handler  http.HandlerFunc
		wantCode int
		wantErr  error
	}{
		{
			name: "not found",
			handler: func(rw http.ResponseWriter, r *http.Request) {
				http.Error(rw, "gone", http.StatusNotFound)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "unauthorized",
			handler: func(rw http.ResponseWriter, r *http.Request) {
				rw.WriteHeader(http.StatusUnauthorized)
			},
			wantCode: http.StatusUnauthorized,
		},
		{
			name: "server error",
			handler: func(rw http.ResponseWriter, r *http.Request) {
				rw.WriteHeader(http.StatusInternalServerError)
			},
			wantCode: http.StatusInternalServerError,
		},
		{
			name: "empty body",
			handler: func(rw http.ResponseWriter, r *http.Request) {
				rw.WriteHeader(http.StatusOK)
			},
			wantErr: ErrEmptyBody,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWrapper(t, tt.handler)
			_, err := w.DoGET(context.Background(), "/c/1.vcf")
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrTransport)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.wantCode != 0 {
				var statusErr *StatusError
				require.True(t, errors.As(err, &statusErr))
				assert.Equal(t, tt.wantCode, statusErr.Code)
			}
		})
	}
}

func TestRequest_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base, _ := url.Parse(srv.URL)
	srv.Close()

	client := &http.Client{Transport: NewBasicAuthTransport("user", "pass", nil, nil)}
	w, err := NewHttpClientWrapper(client, *base, nil)
	require.NoError(t, err)

	_, err = w.DoPROPFIND(context.Background(), "/c/", 1, []byte("<propfind/>"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)
}

func TestDoPROPFIND_Depth(t *testing.T) {
	var gotDepth string
	w := newTestWrapper(t, func(rw http.ResponseWriter, r *http.Request) {
		gotDepth = r.Header.Get("Depth")
		rw.WriteHeader(http.StatusMultiStatus)
		_, _ = rw.Write([]byte("<multistatus/>"))
	})

	_, err := w.DoPROPFIND(context.Background(), "/principals/", 0, []byte("<propfind/>"))
	require.NoError(t, err)
	assert.Equal(t, "0", gotDepth)
}

func TestNewHttpClientWrapper_Validation(t *testing.T) {
	_, err := NewHttpClientWrapper(nil, url.URL{Scheme: "https", Host: "example.com"}, nil)
	assert.Error(t, err)

	_, err = NewHttpClientWrapper(http.DefaultClient, url.URL{Path: "/relative"}, nil)
	assert.Error(t, err)
}
