// Package httpcall defines the HTTP-call capability the token and flow code
// depends on. The core never owns a client, a connection pool, a timeout or
// a retry policy; callers inject a Caller and keep control of all of that.
package httpcall

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/pkg/errors"
)

// Request is a structured HTTP request handed to the injected capability.
type Request struct {
	Method string
	URL    *url.URL
	Header http.Header
	Body   []byte
}

// Response is what the injected capability hands back.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Caller performs a single HTTP exchange. Transport failures are returned
// as-is; the caller of this package is responsible for cancellation and
// timeouts via ctx or the underlying client.
type Caller func(ctx context.Context, req *Request) (*Response, error)

// New adapts a net/http client into a Caller.
func New(client *http.Client) Caller {
	return func(ctx context.Context, req *Request) (*Response, error) {
		httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL.String(), bytes.NewReader(req.Body))
		if err != nil {
			return nil, errors.Wrap(err, "httpcall.New building request")
		}
		for k, vs := range req.Header {
			httpReq.Header[k] = append([]string(nil), vs...)
		}

		resp, err := client.Do(httpReq)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, errors.Wrap(err, "httpcall.New reading response body")
		}
		return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: body}, nil
	}
}

var _ http.RoundTripper = Transport{}

// Transport exposes a Caller as an http.RoundTripper, so libraries that only
// accept an *http.Client still route their traffic through the injected
// capability.
type Transport struct {
	Call Caller
}

func (t Transport) RoundTrip(r *http.Request) (*http.Response, error) {
	var body []byte
	if r.Body != nil {
		b, err := io.ReadAll(r.Body)
		_ = r.Body.Close()
		if err != nil {
			return nil, errors.Wrap(err, "httpcall.Transport reading request body")
		}
		body = b
	}

	resp, err := t.Call(r.Context(), &Request{Method: r.Method, URL: r.URL, Header: r.Header, Body: body})
	if err != nil {
		return nil, err
	}

	header := resp.Header
	if header == nil {
		header = http.Header{}
	}
	return &http.Response{
		Status:        fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
		StatusCode:    resp.StatusCode,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(resp.Body)),
		ContentLength: int64(len(resp.Body)),
		Request:       r,
	}, nil
}
