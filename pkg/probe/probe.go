// Package probe checks that the application under test answers HTTP
// before any browser is launched.
package probe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrUnreachable reports that the base URL did not answer with a 2xx
// status within the timeout.
var ErrUnreachable = errors.New("application unreachable")

// DefaultTimeout bounds a probe when the caller passes zero.
const DefaultTimeout = 5 * time.Second

// Check issues a GET against baseURL. It succeeds only on a 2xx response
// received within timeout. A nil client uses http.DefaultClient.
func Check(ctx context.Context, client *http.Client, baseURL string, timeout time.Duration) error {
	if client == nil {
		client = http.DefaultClient
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrUnreachable, baseURL, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %s returned %s", ErrUnreachable, baseURL, resp.Status)
	}
	return nil
}
