package skipapi

import (
	"crypto/tls"
	"net"
	"net/http"
	"time"
)

// DefaultHTTPClient returns a client with pooled connections and no overall
// timeout; callers bound requests through the context.
func DefaultHTTPClient() *http.Client {
	return NewHTTPClient(0)
}

// NewHTTPClient returns a client whose requests give up after timeout.
// Zero means no timeout.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   5 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:          10,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   5 * time.Second,
			ExpectContinueTimeout: time.Second,
			ForceAttemptHTTP2:     true,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
		Timeout: timeout,
	}
}
