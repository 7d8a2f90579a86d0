package httpclient

import (
	"net/http"
	"time"
)

// New builds an HTTP client with an overall request timeout.
func New(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &http.Client{Timeout: timeout}
}
