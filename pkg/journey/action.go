package journey

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Action is a single interaction with the session. Steps are built by
// running actions in sequence and stopping at the first error.
type Action func(ctx context.Context, s Session) error

// Do runs actions in order and returns the first error.
func Do(ctx context.Context, s Session, actions ...Action) error {
	for _, a := range actions {
		if err := a(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

// Navigate opens url.
func Navigate(url string) Action {
	return func(ctx context.Context, s Session) error {
		if err := s.Navigate(ctx, url); err != nil {
			return fmt.Errorf("navigate to %s: %w", url, err)
		}
		return nil
	}
}

// WaitFor waits up to timeout for sel to appear. A zero timeout uses the
// session's configured timeout.
func WaitFor(sel Selector, timeout time.Duration) Action {
	return func(ctx context.Context, s Session) error {
		_, err := waitFor(ctx, s, sel, timeout)
		return err
	}
}

// Expect requires sel to be present right now.
func Expect(sel Selector) Action {
	return func(ctx context.Context, s Session) error {
		_, err := find(ctx, s, sel)
		return err
	}
}

// Fill types text into the element matching sel, replacing its content.
func Fill(sel Selector, text string) Action {
	return func(ctx context.Context, s Session) error {
		el, err := find(ctx, s, sel)
		if err != nil {
			return err
		}
		if err := el.Input(text); err != nil {
			return fmt.Errorf("type into %s: %w", sel, err)
		}
		return nil
	}
}

// Click clicks the element matching sel, which must be present.
func Click(sel Selector) Action {
	return func(ctx context.Context, s Session) error {
		el, err := find(ctx, s, sel)
		if err != nil {
			return err
		}
		if err := el.Click(); err != nil {
			return fmt.Errorf("click %s: %w", sel, err)
		}
		return nil
	}
}

// ClickWhenReady waits for sel and then clicks it.
func ClickWhenReady(sel Selector, timeout time.Duration) Action {
	return func(ctx context.Context, s Session) error {
		el, err := waitFor(ctx, s, sel, timeout)
		if err != nil {
			return err
		}
		if err := el.Click(); err != nil {
			return fmt.Errorf("click %s: %w", sel, err)
		}
		return nil
	}
}

// WaitURL waits up to timeout for the current URL to contain substr.
func WaitURL(substr string, timeout time.Duration) Action {
	return func(ctx context.Context, s Session) error {
		if timeout <= 0 {
			timeout = s.Timeout()
		}
		if err := s.WaitURL(ctx, substr, timeout); err != nil {
			return fmt.Errorf("wait for url containing %q: %w", substr, err)
		}
		return nil
	}
}

// Choose selects option in the <select> matching sel. An empty option
// picks the first option with a value.
func Choose(sel Selector, option string) Action {
	return func(ctx context.Context, s Session) error {
		el, err := find(ctx, s, sel)
		if err != nil {
			return err
		}
		if err := el.Choose(option); err != nil {
			return fmt.Errorf("choose %q in %s: %w", option, sel, err)
		}
		return nil
	}
}

// Count stores the number of elements currently matching sel into n.
func Count(sel Selector, n *int) Action {
	return func(ctx context.Context, s Session) error {
		els, err := s.FindAll(ctx, sel)
		if err != nil {
			return fmt.Errorf("find all %s: %w", sel, err)
		}
		*n = len(els)
		return nil
	}
}

// BestEffort runs actions and swallows their error. The failure is logged
// to logger at debug level and never turns into a result entry. A nil
// logger drops the failure silently.
func BestEffort(logger *slog.Logger, actions ...Action) Action {
	return func(ctx context.Context, s Session) error {
		if err := Do(ctx, s, actions...); err != nil && logger != nil {
			logger.Debug("best-effort action failed", "error", err)
		}
		return nil
	}
}

func find(ctx context.Context, s Session, sel Selector) (Element, error) {
	el, err := s.Find(ctx, sel)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", sel, err)
	}
	return el, nil
}

func waitFor(ctx context.Context, s Session, sel Selector, timeout time.Duration) (Element, error) {
	if timeout <= 0 {
		timeout = s.Timeout()
	}
	el, err := s.WaitFor(ctx, sel, timeout)
	if err != nil {
		return nil, fmt.Errorf("wait for %s: %w", sel, err)
	}
	return el, nil
}
