package journey

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrTimeout reports that an expected element or URL did not appear
	// within the wait bound.
	ErrTimeout = errors.New("timeout")

	// ErrNotFound reports that a referenced element is absent from the DOM
	// at lookup time. Unlike ErrTimeout, no wait was involved.
	ErrNotFound = errors.New("not found")
)

// SelectorKind names how a Selector's value is matched against the DOM.
type SelectorKind string

const (
	ByName  SelectorKind = "name"  // [name="value"]
	ByCSS   SelectorKind = "css"   // raw CSS selector
	ByText  SelectorKind = "text"  // any element whose text contains value
	ByClass SelectorKind = "class" // elements carrying the class
	ByTag   SelectorKind = "tag"   // elements with the tag name
	ByXPath SelectorKind = "xpath" // raw XPath expression
)

// Selector locates elements on the current page.
type Selector struct {
	By    SelectorKind `yaml:"by" json:"by"`
	Value string       `yaml:"value" json:"value"`
}

// Name returns a selector matching the name attribute.
func Name(v string) Selector { return Selector{By: ByName, Value: v} }

// CSS returns a raw CSS selector.
func CSS(v string) Selector { return Selector{By: ByCSS, Value: v} }

// Text returns a selector matching elements whose text contains v.
func Text(v string) Selector { return Selector{By: ByText, Value: v} }

// Class returns a selector matching elements with class v.
func Class(v string) Selector { return Selector{By: ByClass, Value: v} }

// Tag returns a selector matching elements with tag v.
func Tag(v string) Selector { return Selector{By: ByTag, Value: v} }

// XPath returns a raw XPath selector.
func XPath(v string) Selector { return Selector{By: ByXPath, Value: v} }

// Validate reports whether the selector kind is known and the value set.
func (s Selector) Validate() error {
	switch s.By {
	case ByName, ByCSS, ByText, ByClass, ByTag, ByXPath:
	default:
		return fmt.Errorf("unknown selector kind %q", s.By)
	}
	if s.Value == "" {
		return fmt.Errorf("selector %q has empty value", s.By)
	}
	return nil
}

func (s Selector) String() string {
	return fmt.Sprintf("%s=%q", s.By, s.Value)
}

// Element is a DOM element handle returned by a Session.
type Element interface {
	// Input clears the element and types text into it.
	Input(text string) error
	Click() error
	Text() (string, error)
	// Choose selects the <option> whose visible text is option. An empty
	// option selects the first option with a non-empty value.
	Choose(option string) error
}

// Session is the live connection to the system under test. The Runner
// owns it exclusively for one run and closes it exactly once.
type Session interface {
	Navigate(ctx context.Context, url string) error

	// Find looks the selector up once. It returns ErrNotFound when no
	// element matches.
	Find(ctx context.Context, sel Selector) (Element, error)

	// FindAll returns every element currently matching the selector.
	FindAll(ctx context.Context, sel Selector) ([]Element, error)

	// WaitFor polls until the selector matches or timeout elapses, in
	// which case it returns ErrTimeout.
	WaitFor(ctx context.Context, sel Selector, timeout time.Duration) (Element, error)

	// WaitURL polls until the current URL contains substr or timeout
	// elapses, in which case it returns ErrTimeout.
	WaitURL(ctx context.Context, substr string, timeout time.Duration) error

	URL(ctx context.Context) (string, error)

	// Timeout is the configured bound for waits that do not set their own.
	Timeout() time.Duration

	Close() error
}

// Opener acquires a Session for one run.
type Opener func(ctx context.Context) (Session, error)
