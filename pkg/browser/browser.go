// Package browser implements journey.Session on top of Rod.
// It launches a Chrome instance, drives a single page and reports waits
// that expire as journey.ErrTimeout and absent elements as
// journey.ErrNotFound.
package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/thesyncim/journey/pkg/journey"
)

// Config configures Chrome launch options.
type Config struct {
	Headless   bool          // Run without a visible window
	Timeout    time.Duration // Default bound for waits and element actions
	NoSandbox  bool          // Disable the Chrome sandbox (containers)
	WindowSize string        // "width,height"; empty starts maximized
	Bin        string        // Chrome binary; empty lets Rod find or download one
}

// DefaultConfig returns the settings used for acceptance runs.
func DefaultConfig() Config {
	return Config{
		Headless:   true,
		Timeout:    10 * time.Second,
		NoSandbox:  true,
		WindowSize: "1920,1080",
	}
}

// pollInterval is how often WaitURL re-reads the page URL.
const pollInterval = 100 * time.Millisecond

// Client is a Rod-driven Chrome with one page.
type Client struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
	timeout  time.Duration
}

var _ journey.Session = (*Client)(nil)

// Open launches Chrome and opens a blank page. The browser outlives ctx;
// only Close releases it.
func Open(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.Timeout <= 0 {
		return nil, errors.New("browser timeout must be positive")
	}

	l := launcher.New().
		Headless(cfg.Headless).
		Set("disable-dev-shm-usage").
		Set("disable-gpu")
	if cfg.NoSandbox {
		l = l.Set("no-sandbox")
	}
	if cfg.WindowSize != "" {
		l = l.Set("window-size", cfg.WindowSize)
	} else {
		l = l.Set("start-maximized")
	}
	if cfg.Bin != "" {
		l = l.Bin(cfg.Bin)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	url, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch Chrome: %w", err)
	}

	browser := rod.New().ControlURL(url)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("failed to connect to Chrome: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = browser.Close()
		l.Kill()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	return &Client{
		launcher: l,
		browser:  browser,
		page:     page,
		timeout:  cfg.Timeout,
	}, nil
}

// Opener returns a journey.Opener that launches a browser with cfg.
func Opener(cfg Config) journey.Opener {
	return func(ctx context.Context) (journey.Session, error) {
		c, err := Open(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
}

// Navigate opens url and waits for the load event.
func (c *Client) Navigate(ctx context.Context, url string) error {
	p := c.page.Context(ctx).Timeout(c.timeout)
	if err := p.Navigate(url); err != nil {
		return translate(err)
	}
	return translate(p.WaitLoad())
}

// Find looks sel up once without waiting.
func (c *Client) Find(ctx context.Context, sel journey.Selector) (journey.Element, error) {
	q, err := query(sel)
	if err != nil {
		return nil, err
	}

	p := c.page.Context(ctx).Timeout(c.timeout)
	var (
		has bool
		el  *rod.Element
	)
	if q.xpath {
		has, el, err = p.HasX(q.expr)
	} else {
		has, el, err = p.Has(q.expr)
	}
	if err != nil {
		return nil, translate(err)
	}
	if !has {
		return nil, journey.ErrNotFound
	}
	return c.wrap(ctx, el), nil
}

// FindAll returns every element currently matching sel.
func (c *Client) FindAll(ctx context.Context, sel journey.Selector) ([]journey.Element, error) {
	q, err := query(sel)
	if err != nil {
		return nil, err
	}

	p := c.page.Context(ctx).Timeout(c.timeout)
	var els rod.Elements
	if q.xpath {
		els, err = p.ElementsX(q.expr)
	} else {
		els, err = p.Elements(q.expr)
	}
	if err != nil {
		return nil, translate(err)
	}

	out := make([]journey.Element, 0, len(els))
	for _, el := range els {
		out = append(out, c.wrap(ctx, el))
	}
	return out, nil
}

// WaitFor retries the lookup until sel matches or timeout elapses. A
// non-positive timeout uses the configured default.
func (c *Client) WaitFor(ctx context.Context, sel journey.Selector, timeout time.Duration) (journey.Element, error) {
	q, err := query(sel)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = c.timeout
	}

	p := c.page.Context(ctx).Timeout(timeout)
	var el *rod.Element
	if q.xpath {
		el, err = p.ElementX(q.expr)
	} else {
		el, err = p.Element(q.expr)
	}
	if err != nil {
		return nil, translate(err)
	}
	return c.wrap(ctx, el), nil
}

// WaitURL polls the page URL until it contains substr or timeout elapses.
func (c *Client) WaitURL(ctx context.Context, substr string, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = c.timeout
	}
	deadline := time.Now().Add(timeout)
	last := ""

	for {
		url, err := c.URL(ctx)
		if err != nil {
			return err
		}
		if strings.Contains(url, substr) {
			return nil
		}
		last = url

		if time.Now().After(deadline) {
			return fmt.Errorf("%w: url is %s after %v", journey.ErrTimeout, last, timeout)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pollInterval):
		}
	}
}

// URL returns the page's current URL.
func (c *Client) URL(ctx context.Context) (string, error) {
	info, err := c.page.Context(ctx).Timeout(c.timeout).Info()
	if err != nil {
		return "", translate(err)
	}
	return info.URL, nil
}

// Timeout returns the configured default wait bound.
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// Close shuts the browser down. If Chrome does not exit cleanly the
// process is killed.
func (c *Client) Close() error {
	if c.browser == nil {
		return nil
	}
	err := c.browser.Close()
	if err != nil {
		c.launcher.Kill()
		return fmt.Errorf("failed to close Chrome: %w", err)
	}
	return nil
}

func (c *Client) wrap(ctx context.Context, el *rod.Element) *element {
	// Elements found through a page with a deadline inherit it; rebind to
	// the caller's context and bound each action separately.
	return &element{el: el.Context(ctx), timeout: c.timeout}
}

// translate maps Rod errors onto the journey failure vocabulary.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", journey.ErrTimeout, err)
	}
	var notFound *rod.ElementNotFoundError
	if errors.As(err, &notFound) {
		return fmt.Errorf("%w: %v", journey.ErrNotFound, err)
	}
	return err
}
