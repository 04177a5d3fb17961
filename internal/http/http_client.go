package http

import (
	"net"
	"net/http"
	"time"
)

// HTTPClient interface abstracts HTTP client operations so tests can
// inject a recording transport
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// NewHTTPClient creates the default HTTP client used for all outbound
// Fortnox calls. Interactive slash commands are low volume, so a single
// overall timeout is enough; a hung remote call blocks only that one
// command's response.
func NewHTTPClient() HTTPClient {
	return &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   10 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:        10,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
			ForceAttemptHTTP2:   true,
		},
	}
}
