package cli

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/thesyncim/journey/pkg/browser"
	"github.com/thesyncim/journey/pkg/journey"
)

// stubSession accepts every interaction except for elements whose selector
// value is listed in missing.
type stubSession struct {
	mu      sync.Mutex
	missing map[string]bool
	url     string
	closes  int
}

type stubElement struct{ text string }

func (e stubElement) Input(string) error    { return nil }
func (e stubElement) Click() error          { return nil }
func (e stubElement) Text() (string, error) { return e.text, nil }
func (e stubElement) Choose(string) error   { return nil }

func (s *stubSession) Navigate(_ context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.url = url
	return nil
}

func (s *stubSession) Find(_ context.Context, sel journey.Selector) (journey.Element, error) {
	if s.missing[sel.Value] {
		return nil, journey.ErrNotFound
	}
	return stubElement{text: sel.Value}, nil
}

func (s *stubSession) FindAll(_ context.Context, sel journey.Selector) ([]journey.Element, error) {
	if s.missing[sel.Value] {
		return nil, nil
	}
	return []journey.Element{stubElement{}, stubElement{}, stubElement{}, stubElement{}}, nil
}

func (s *stubSession) WaitFor(_ context.Context, sel journey.Selector, _ time.Duration) (journey.Element, error) {
	if s.missing[sel.Value] {
		return nil, journey.ErrTimeout
	}
	return stubElement{text: sel.Value}, nil
}

func (s *stubSession) WaitURL(_ context.Context, substr string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.url = "http://stub" + substr
	return nil
}

func (s *stubSession) URL(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.url, nil
}

func (s *stubSession) Timeout() time.Duration { return time.Second }

func (s *stubSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closes++
	return nil
}

// harness wires a root command to a stub browser and captures output.
type harness struct {
	sess   *stubSession
	opens  int
	cfgs   []browser.Config
	openFn func(ctx context.Context) (journey.Session, error)
	out    bytes.Buffer
	errOut bytes.Buffer
	cmd    *cobra.Command
}

func newHarness(t *testing.T, missing ...string) *harness {
	t.Helper()
	h := &harness{sess: &stubSession{missing: map[string]bool{}}}
	for _, m := range missing {
		h.sess.missing[m] = true
	}

	opts := &RootOptions{
		openBrowser: func(cfg browser.Config) journey.Opener {
			h.cfgs = append(h.cfgs, cfg)
			return func(ctx context.Context) (journey.Session, error) {
				h.opens++
				if h.openFn != nil {
					return h.openFn(ctx)
				}
				return h.sess, nil
			}
		},
	}
	h.cmd = newRootCommand(opts)
	h.cmd.SetOut(&h.out)
	h.cmd.SetErr(&h.errOut)
	return h
}

func (h *harness) run(args ...string) error {
	h.cmd.SetArgs(args)
	return h.cmd.Execute()
}

// upServer returns the URL of a server that answers every request with 200.
func upServer(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

// downURL returns a URL nothing listens on.
func downURL(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	return url
}
