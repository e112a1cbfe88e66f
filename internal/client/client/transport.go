package client

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophstorage/internal/common"
	"github.com/dmitrijs2005/gophstorage/internal/logging"
	"github.com/google/uuid"
)

// requestIDTransport stamps every outgoing request with a fresh X-Request-ID
// (unless the caller already set one) and logs the exchange at debug level.
type requestIDTransport struct {
	base   http.RoundTripper
	logger logging.Logger
}

func (t *requestIDTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	id := r.Header.Get(common.RequestIDHeaderName)
	if id == "" {
		id = uuid.NewString()
		r.Header.Set(common.RequestIDHeaderName, id)
	}

	started := time.Now()
	resp, err := t.base.RoundTrip(r)
	if err != nil {
		t.logger.Debug(r.Context(), "api request failed",
			"request_id", id, "method", r.Method, "path", r.URL.Path, "error", err)
		return nil, err
	}

	t.logger.Debug(r.Context(), "api request",
		"request_id", id, "method", r.Method, "path", r.URL.Path,
		"status", resp.StatusCode, "duration", time.Since(started))
	return resp, nil
}

func baseTransport(rt http.RoundTripper) http.RoundTripper {
	if rt == nil {
		return http.DefaultTransport
	}
	return rt
}
