// internal/common/http/client.go
package http

import (
	"net"
	"net/http"
	"time"
)

// Options tunes the outbound transport. Timeout bounds a whole request and
// is left at zero for inference, whose deadline comes from the context.
type Options struct {
	Timeout             time.Duration
	DialTimeout         time.Duration
	TLSHandshakeTimeout time.Duration
	IdleConnTimeout     time.Duration
	MaxIdleConnsPerHost int
}

func DefaultOptions() Options {
	return Options{
		DialTimeout:         10 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		IdleConnTimeout:     90 * time.Second,
		MaxIdleConnsPerHost: 10,
	}
}

// NewClient returns a pooled *http.Client safe for concurrent use.
func NewClient(opts Options) *http.Client {
	dialer := &net.Dialer{Timeout: opts.DialTimeout, KeepAlive: 30 * time.Second}
	return &http.Client{
		Timeout: opts.Timeout,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			DialContext:         dialer.DialContext,
			TLSHandshakeTimeout: opts.TLSHandshakeTimeout,
			IdleConnTimeout:     opts.IdleConnTimeout,
			MaxIdleConnsPerHost: opts.MaxIdleConnsPerHost,
			ForceAttemptHTTP2:   true,
		},
	}
}
