// Package httpclient wraps the HTTP layer behind a small interface so that
// fetchers and the ingest loop can be exercised without a network.
package httpclient

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultTimeout bounds every page and service fetch so a hung remote call
// stalls only its own unit of work.
const DefaultTimeout = 30 * time.Second

// Response is the subset of an HTTP response the harvester consumes.
type Response interface {
	StatusCode() int
	Body() []byte
}

// Client issues GET requests with optional headers.
type Client interface {
	Get(ctx context.Context, url string, headers map[string]string) (Response, error)
}

type restyClient struct {
	client *resty.Client
}

type restyResponse struct {
	resp *resty.Response
}

func (r *restyResponse) StatusCode() int { return r.resp.StatusCode() }
func (r *restyResponse) Body() []byte    { return r.resp.Body() }

// NewRestyClient builds a resty-backed Client with the given per-request
// timeout. A non-positive timeout falls back to DefaultTimeout.
func NewRestyClient(timeout time.Duration) Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	c := resty.New().
		SetTimeout(timeout).
		SetHeader("Accept", "*/*")

	return &restyClient{client: c}
}

// Get performs the request and returns the raw response. Non-2xx statuses are
// returned to the caller for inspection, not converted into errors here.
func (c *restyClient) Get(ctx context.Context, url string, headers map[string]string) (Response, error) {
	req := c.client.R().SetContext(ctx)
	for k, v := range headers {
		req.SetHeader(k, v)
	}

	resp, err := req.Get(url)
	if err != nil {
		return nil, err
	}
	return &restyResponse{resp: resp}, nil
}
