package feed

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/felixgeelhaar/fortify/timeout"
)

// HTTPSource downloads a CSV export. Failures are not retried; a manual
// refresh is the retry path.
type HTTPSource struct {
	url     string
	client  *http.Client
	timeout time.Duration
}

func NewHTTPSource(url string, client *http.Client, d time.Duration) *HTTPSource {
	if client == nil {
		client = http.DefaultClient
	}
	if d <= 0 {
		d = DefaultTimeout
	}
	return &HTTPSource{url: url, client: client, timeout: d}
}

func (s *HTTPSource) Fetch(ctx context.Context) ([][]string, error) {
	t := timeout.New[[][]string](timeout.Config{
		DefaultTimeout: s.timeout,
	})

	return t.Execute(ctx, s.timeout, func(ctx context.Context) ([][]string, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Accept", "text/csv")

		resp, err := s.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, &StatusError{Code: resp.StatusCode}
		}
		return DecodeReader(resp.Body)
	})
}
