package journey

import (
	"context"
	"errors"
	"strings"
	"time"
)

// fakeSession is a scriptable in-memory Session. Selectors listed in
// present are found immediately; anything else is not-found for Find and
// a timeout for WaitFor.
type fakeSession struct {
	url     string
	timeout time.Duration
	present map[Selector]int

	navErr    error
	clickErr  error
	chooseErr error
	closeErr  error

	onNavigate map[string]func(*fakeSession)
	onClick    map[Selector]func(*fakeSession)

	navigations []string
	inputs      map[Selector]string
	clicks      []Selector
	chosen      map[Selector]string
	waits       []time.Duration
	closes      int
}

func newFakeSession() *fakeSession {
	return &fakeSession{
		timeout:    time.Second,
		present:    make(map[Selector]int),
		onNavigate: make(map[string]func(*fakeSession)),
		onClick:    make(map[Selector]func(*fakeSession)),
		inputs:     make(map[Selector]string),
		chosen:     make(map[Selector]string),
	}
}

func (s *fakeSession) show(sels ...Selector) *fakeSession {
	for _, sel := range sels {
		s.present[sel]++
	}
	return s
}

func (s *fakeSession) opener() Opener {
	return func(context.Context) (Session, error) { return s, nil }
}

func (s *fakeSession) Navigate(_ context.Context, url string) error {
	if s.navErr != nil {
		return s.navErr
	}
	s.url = url
	s.navigations = append(s.navigations, url)
	if fn := s.onNavigate[url]; fn != nil {
		fn(s)
	}
	return nil
}

func (s *fakeSession) Find(_ context.Context, sel Selector) (Element, error) {
	if s.present[sel] == 0 {
		return nil, ErrNotFound
	}
	return &fakeElement{s: s, sel: sel}, nil
}

func (s *fakeSession) FindAll(_ context.Context, sel Selector) ([]Element, error) {
	els := make([]Element, 0, s.present[sel])
	for i := 0; i < s.present[sel]; i++ {
		els = append(els, &fakeElement{s: s, sel: sel})
	}
	return els, nil
}

func (s *fakeSession) WaitFor(_ context.Context, sel Selector, timeout time.Duration) (Element, error) {
	s.waits = append(s.waits, timeout)
	if s.present[sel] == 0 {
		return nil, ErrTimeout
	}
	return &fakeElement{s: s, sel: sel}, nil
}

func (s *fakeSession) WaitURL(_ context.Context, substr string, timeout time.Duration) error {
	s.waits = append(s.waits, timeout)
	if !strings.Contains(s.url, substr) {
		return ErrTimeout
	}
	return nil
}

func (s *fakeSession) URL(context.Context) (string, error) {
	return s.url, nil
}

func (s *fakeSession) Timeout() time.Duration {
	return s.timeout
}

func (s *fakeSession) Close() error {
	s.closes++
	return s.closeErr
}

type fakeElement struct {
	s   *fakeSession
	sel Selector
}

func (e *fakeElement) Input(text string) error {
	e.s.inputs[e.sel] = text
	return nil
}

func (e *fakeElement) Click() error {
	if e.s.clickErr != nil {
		return e.s.clickErr
	}
	e.s.clicks = append(e.s.clicks, e.sel)
	if fn := e.s.onClick[e.sel]; fn != nil {
		fn(e.s)
	}
	return nil
}

func (e *fakeElement) Text() (string, error) {
	return e.sel.Value, nil
}

func (e *fakeElement) Choose(option string) error {
	if e.s.chooseErr != nil {
		return e.s.chooseErr
	}
	e.s.chosen[e.sel] = option
	return nil
}

var errBoom = errors.New("boom")

func passStep(name, msg string) Step {
	return Step{Name: name, Run: func(context.Context, Session) Outcome { return Pass(msg) }}
}

func failStep(name, msg string) Step {
	return Step{Name: name, Run: func(context.Context, Session) Outcome { return Fail(FailFault, msg) }}
}

func panicStep(name string) Step {
	return Step{Name: name, Run: func(context.Context, Session) Outcome { panic("driver exploded") }}
}
