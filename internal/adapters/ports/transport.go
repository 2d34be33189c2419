package ports

import (
	"context"
	"time"
)

// TransportResponse is a response body obtained from the gateway, whatever its status.
// Gateways answer validation problems with non-2xx pages, so the body of an
// error response is kept and handed to the parser like any other body.
type TransportResponse struct {
	StatusCode int
	Body       []byte
	RequestID  string
	Elapsed    time.Duration
}

// IsSuccessStatus reports whether the gateway answered with a 2xx status
func (r *TransportResponse) IsSuccessStatus() bool {
	return r != nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// Transport posts a request body to a gateway endpoint.
// Implementations must return a TransportResponse whenever any body was received,
// including for non-2xx statuses. The error return is reserved for the case where
// no body was obtained at all (connection refused, timeout, circuit open).
// Implementations must not retry.
type Transport interface {
	Post(ctx context.Context, url string, body []byte) (*TransportResponse, error)
}
