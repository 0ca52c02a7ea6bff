package journey

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Expectation is the post-action state a step waits for. At least one of
// URLContains and Marker must be set; when both are, both must hold.
type Expectation struct {
	URLContains string    `yaml:"url_contains,omitempty"`
	Marker      *Selector `yaml:"marker,omitempty"`
}

func (e Expectation) empty() bool {
	return e.URLContains == "" && e.Marker == nil
}

func (e Expectation) actions(timeout time.Duration) []Action {
	var actions []Action
	if e.URLContains != "" {
		actions = append(actions, WaitURL(e.URLContains, timeout))
	}
	if e.Marker != nil {
		actions = append(actions, WaitFor(*e.Marker, timeout))
	}
	return actions
}

// PageLoadConfig configures a page-load check.
type PageLoadConfig struct {
	Name    string
	URL     string
	Marker  Selector      // waited for after navigation
	Require []Selector    // must be present once the marker appeared
	Timeout time.Duration // zero uses the session timeout
	Message string
}

// PageLoad navigates to URL and passes once Marker appears within the
// timeout and every Require selector is present.
func PageLoad(cfg PageLoadConfig) Step {
	actions := []Action{Navigate(cfg.URL), WaitFor(cfg.Marker, cfg.Timeout)}
	for _, sel := range cfg.Require {
		actions = append(actions, Expect(sel))
	}
	msg := orDefault(cfg.Message, "page loaded")
	return Step{
		Name: cfg.Name,
		Run: func(ctx context.Context, s Session) Outcome {
			if err := Do(ctx, s, actions...); err != nil {
				return FromError(err)
			}
			return Pass(msg)
		},
	}
}

// Field is a named input and the literal typed into it.
type Field struct {
	Target Selector `yaml:"target"`
	Value  string   `yaml:"value"`
}

// FormConfig configures a form-submit check.
type FormConfig struct {
	Name string
	// URL is navigated to first when set; otherwise the form is expected
	// on the page left by the previous step.
	URL string
	// Trigger is clicked, once ready, before the form is filled. Used for
	// forms that open in a modal.
	Trigger  *Selector
	Fields   []Field
	Optional []Action // best-effort, after the fields
	Submit   Selector
	Expect   Expectation
	Timeout  time.Duration
	Message  string
	Logger   *slog.Logger
}

// FormSubmit fills the form fields, submits it and passes once the
// expected post-submit state is observed before the timeout. The first
// field is waited for; the remaining fields and the submit control must
// already be present.
func FormSubmit(cfg FormConfig) Step {
	var actions []Action
	if cfg.URL != "" {
		actions = append(actions, Navigate(cfg.URL))
	}
	if cfg.Trigger != nil {
		actions = append(actions, ClickWhenReady(*cfg.Trigger, cfg.Timeout))
	}
	for i, f := range cfg.Fields {
		if i == 0 {
			actions = append(actions, WaitFor(f.Target, cfg.Timeout))
		}
		actions = append(actions, Fill(f.Target, f.Value))
	}
	if len(cfg.Optional) > 0 {
		actions = append(actions, BestEffort(cfg.Logger, cfg.Optional...))
	}
	actions = append(actions, Click(cfg.Submit))
	actions = append(actions, cfg.Expect.actions(cfg.Timeout)...)

	msg := orDefault(cfg.Message, "form submitted")
	return Step{
		Name: cfg.Name,
		Run: func(ctx context.Context, s Session) Outcome {
			if cfg.Expect.empty() {
				return Fail(FailFault, "form step has no expected post-submit state")
			}
			if err := Do(ctx, s, actions...); err != nil {
				return FromError(err)
			}
			return Pass(msg)
		},
	}
}

// PresenceConfig configures an element-presence check.
type PresenceConfig struct {
	Name    string
	Marker  Selector
	Timeout time.Duration
	// Count, when set, is counted after the marker appears and the result
	// substituted for %d in Message.
	Count   *Selector
	Message string
}

// ElementPresence passes once Marker appears within the timeout. It does
// not navigate or otherwise change the page.
func ElementPresence(cfg PresenceConfig) Step {
	msg := orDefault(cfg.Message, "element present")
	return Step{
		Name: cfg.Name,
		Run: func(ctx context.Context, s Session) Outcome {
			if err := WaitFor(cfg.Marker, cfg.Timeout)(ctx, s); err != nil {
				return FromError(err)
			}
			if cfg.Count == nil {
				return Pass(msg)
			}
			var n int
			if err := Count(*cfg.Count, &n)(ctx, s); err != nil {
				return FromError(err)
			}
			if strings.Contains(msg, "%d") {
				return Passf(msg, n)
			}
			return Pass(fmt.Sprintf("%s (%d)", msg, n))
		},
	}
}

// ClickConfig configures a click-through check.
type ClickConfig struct {
	Name    string
	Target  Selector
	Expect  Expectation
	Timeout time.Duration
	Message string
}

// ClickThrough waits for Target, clicks it and passes once the expected
// state is observed.
func ClickThrough(cfg ClickConfig) Step {
	actions := append([]Action{ClickWhenReady(cfg.Target, cfg.Timeout)}, cfg.Expect.actions(cfg.Timeout)...)
	msg := orDefault(cfg.Message, "clicked through")
	return Step{
		Name: cfg.Name,
		Run: func(ctx context.Context, s Session) Outcome {
			if cfg.Expect.empty() {
				return Fail(FailFault, "click step has no expected state")
			}
			if err := Do(ctx, s, actions...); err != nil {
				return FromError(err)
			}
			return Pass(msg)
		},
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
