package ports

import (
	"context"
	"net/http"
	"time"

	"ecb-rate-service/internal/domain/model"
)

// RateRepository loads the rate table published at url, going through the
// cache with the given ttl.
type RateRepository interface {
	Fetch(ctx context.Context, url string, ttl time.Duration) (model.RateTable, error)
}

// HTTPDoer is satisfied by *http.Client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// RequestFactory builds outgoing requests, e.g. to preset headers.
type RequestFactory func(ctx context.Context, method, url string) (*http.Request, error)

type Clock interface {
	Now() time.Time
}
