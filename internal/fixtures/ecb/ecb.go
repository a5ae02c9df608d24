// Package ecb serves recorded ECB reference rate documents to tests.
package ecb

import (
	"bytes"
	"embed"
	"io"
	"net/http"
	"sync"
)

const (
	EndpointDaily      = "https://www.ecb.europa.eu/stats/eurofxref/eurofxref-daily.xml"
	EndpointNinetyDays = "https://www.ecb.europa.eu/stats/eurofxref/eurofxref-hist-90d.xml"
	EndpointHistory    = "https://www.ecb.europa.eu/stats/eurofxref/eurofxref-hist.xml"
)

//go:embed data/*.xml
var documents embed.FS

// Document returns one of the embedded documents by file name,
// e.g. "eurofxref-daily.xml".
func Document(name string) []byte {
	b, err := documents.ReadFile("data/" + name)
	if err != nil {
		panic(err)
	}
	return b
}

var routes = map[string]string{
	EndpointDaily:      "eurofxref-daily.xml",
	EndpointNinetyDays: "eurofxref-hist-90d.xml",
	EndpointHistory:    "eurofxref-hist.xml",
}

// MockClient answers GET requests for the three ECB URLs from the embedded
// documents and records every request it sees. Unknown URLs get a 404 unless
// a default response is configured.
type MockClient struct {
	mu       sync.Mutex
	requests []*http.Request

	DefaultStatus int
	DefaultBody   string
}

func NewMockClient() *MockClient {
	return &MockClient{}
}

func (c *MockClient) Do(req *http.Request) (*http.Response, error) {
	c.mu.Lock()
	c.requests = append(c.requests, req)
	c.mu.Unlock()

	if c.DefaultStatus != 0 {
		return response(req, c.DefaultStatus, []byte(c.DefaultBody)), nil
	}

	name, ok := routes[req.URL.String()]
	if !ok || req.Method != http.MethodGet {
		return response(req, http.StatusNotFound, []byte("not found")), nil
	}
	return response(req, http.StatusOK, Document(name)), nil
}

func (c *MockClient) Requests() []*http.Request {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*http.Request(nil), c.requests...)
}

func (c *MockClient) LastRequest() *http.Request {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.requests) == 0 {
		return nil
	}
	return c.requests[len(c.requests)-1]
}

func response(req *http.Request, status int, body []byte) *http.Response {
	return &http.Response{
		StatusCode:    status,
		Status:        http.StatusText(status),
		Header:        http.Header{"Content-Type": []string{"text/xml"}},
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
		Request:       req,
	}
}
