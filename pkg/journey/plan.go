package journey

import (
	"embed"
	"fmt"
	"log/slog"
	"os"
	"path"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed plans/*.yaml
var builtinPlans embed.FS

// Step kinds understood by plan files.
const (
	KindPageLoad = "page_load"
	KindForm     = "form_submit"
	KindPresence = "element_present"
	KindClick    = "click"
)

// Plan is a named, ordered journey loaded from YAML.
type Plan struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description,omitempty"`
	Steps       []StepSpec `yaml:"steps"`
}

// StepSpec declares one step of a plan. Which fields apply depends on Kind.
type StepSpec struct {
	Name    string     `yaml:"name"`
	Kind    string     `yaml:"kind"`
	Path    string     `yaml:"path,omitempty"`
	Marker  *Selector  `yaml:"marker,omitempty"`
	Require []Selector `yaml:"require,omitempty"`
	Trigger *Selector  `yaml:"trigger,omitempty"`
	Fields  []Field    `yaml:"fields,omitempty"`
	// Optional choices are attempted best-effort; their failure is not
	// recorded against the step.
	Optional []Choice      `yaml:"optional,omitempty"`
	Submit   *Selector     `yaml:"submit,omitempty"`
	Target   *Selector     `yaml:"target,omitempty"`
	Expect   Expectation   `yaml:"expect,omitempty"`
	Count    *Selector     `yaml:"count,omitempty"`
	Timeout  time.Duration `yaml:"timeout,omitempty"`
	Message  string        `yaml:"message,omitempty"`
}

// Choice selects an option in a <select>. An empty Option picks the first
// option with a value.
type Choice struct {
	Target Selector `yaml:"target"`
	Option string   `yaml:"option,omitempty"`
}

// ListPlans returns the sorted names of the built-in plans.
func ListPlans() []string {
	entries, err := builtinPlans.ReadDir("plans")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), path.Ext(e.Name())))
	}
	sort.Strings(names)
	return names
}

// LoadPlan loads a built-in plan by name, or a plan file when nameOrPath
// is not a built-in name.
func LoadPlan(nameOrPath string) (*Plan, error) {
	data, err := builtinPlans.ReadFile("plans/" + nameOrPath + ".yaml")
	if err != nil {
		data, err = os.ReadFile(nameOrPath)
		if err != nil {
			return nil, fmt.Errorf("unknown plan %q (built-in: %s): %w",
				nameOrPath, strings.Join(ListPlans(), ", "), err)
		}
	}
	return ParsePlan(data)
}

// ParsePlan decodes and validates a plan.
func ParsePlan(data []byte) (*Plan, error) {
	var p Plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse plan: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate checks step names are unique and each step carries the fields
// its kind needs.
func (p *Plan) Validate() error {
	if len(p.Steps) == 0 {
		return fmt.Errorf("plan %q has no steps", p.Name)
	}
	seen := make(map[string]bool, len(p.Steps))
	for i, s := range p.Steps {
		if s.Name == "" {
			return fmt.Errorf("plan %q: step %d has no name", p.Name, i+1)
		}
		if seen[s.Name] {
			return fmt.Errorf("plan %q: duplicate step name %q", p.Name, s.Name)
		}
		seen[s.Name] = true
		if err := s.validate(); err != nil {
			return fmt.Errorf("plan %q: step %q: %w", p.Name, s.Name, err)
		}
	}
	return nil
}

func (s StepSpec) validate() error {
	var sels []Selector
	add := func(sel *Selector) {
		if sel != nil {
			sels = append(sels, *sel)
		}
	}

	switch s.Kind {
	case KindPageLoad:
		if s.Path == "" || s.Marker == nil {
			return fmt.Errorf("%s needs path and marker", s.Kind)
		}
	case KindForm:
		if s.Submit == nil {
			return fmt.Errorf("%s needs submit", s.Kind)
		}
		if s.Expect.empty() {
			return fmt.Errorf("%s needs expect", s.Kind)
		}
	case KindPresence:
		if s.Marker == nil {
			return fmt.Errorf("%s needs marker", s.Kind)
		}
	case KindClick:
		if s.Target == nil || s.Expect.empty() {
			return fmt.Errorf("%s needs target and expect", s.Kind)
		}
	default:
		return fmt.Errorf("unknown kind %q", s.Kind)
	}

	add(s.Marker)
	add(s.Trigger)
	add(s.Submit)
	add(s.Target)
	add(s.Count)
	add(s.Expect.Marker)
	sels = append(sels, s.Require...)
	for _, f := range s.Fields {
		sels = append(sels, f.Target)
	}
	for _, c := range s.Optional {
		sels = append(sels, c.Target)
	}
	for _, sel := range sels {
		if err := sel.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Build turns the plan into runnable steps. Paths are resolved against
// baseURL. Best-effort failures are logged to logger.
func (p *Plan) Build(baseURL string, logger *slog.Logger) ([]Step, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	steps := make([]Step, 0, len(p.Steps))
	for _, s := range p.Steps {
		steps = append(steps, s.build(baseURL, logger))
	}
	return steps, nil
}

func (s StepSpec) build(baseURL string, logger *slog.Logger) Step {
	switch s.Kind {
	case KindPageLoad:
		return PageLoad(PageLoadConfig{
			Name:    s.Name,
			URL:     JoinURL(baseURL, s.Path),
			Marker:  *s.Marker,
			Require: s.Require,
			Timeout: s.Timeout,
			Message: s.Message,
		})
	case KindForm:
		var optional []Action
		for _, c := range s.Optional {
			optional = append(optional, Choose(c.Target, c.Option))
		}
		cfg := FormConfig{
			Name:     s.Name,
			Trigger:  s.Trigger,
			Fields:   s.Fields,
			Optional: optional,
			Submit:   *s.Submit,
			Expect:   s.Expect,
			Timeout:  s.Timeout,
			Message:  s.Message,
			Logger:   logger,
		}
		if s.Path != "" {
			cfg.URL = JoinURL(baseURL, s.Path)
		}
		return FormSubmit(cfg)
	case KindPresence:
		return ElementPresence(PresenceConfig{
			Name:    s.Name,
			Marker:  *s.Marker,
			Timeout: s.Timeout,
			Count:   s.Count,
			Message: s.Message,
		})
	default:
		return ClickThrough(ClickConfig{
			Name:    s.Name,
			Target:  *s.Target,
			Expect:  s.Expect,
			Timeout: s.Timeout,
			Message: s.Message,
		})
	}
}

// JoinURL appends p to base with exactly one slash between them.
func JoinURL(base, p string) string {
	if p == "" {
		return base
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(p, "/")
}
