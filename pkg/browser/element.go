package browser

import (
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/thesyncim/journey/pkg/journey"
)

// chooseFirstJS selects the first enabled option with a non-empty value
// and fires the events frameworks listen for.
const chooseFirstJS = `function () {
	const opt = Array.from(this.options || []).find(o => o.value !== '' && !o.disabled);
	if (!opt) {
		return false;
	}
	this.value = opt.value;
	this.dispatchEvent(new Event('input', { bubbles: true }));
	this.dispatchEvent(new Event('change', { bubbles: true }));
	return true;
}`

type element struct {
	el      *rod.Element
	timeout time.Duration
}

func (e *element) bounded() *rod.Element {
	return e.el.Timeout(e.timeout)
}

// Input replaces the element's content with text.
func (e *element) Input(text string) error {
	el := e.bounded()
	if err := el.SelectAllText(); err != nil {
		return translate(err)
	}
	return translate(el.Input(text))
}

func (e *element) Click() error {
	return translate(e.bounded().Click(proto.InputMouseButtonLeft, 1))
}

func (e *element) Text() (string, error) {
	s, err := e.bounded().Text()
	return s, translate(err)
}

// Choose selects option by visible text, or the first valued option when
// option is empty.
func (e *element) Choose(option string) error {
	el := e.bounded()
	if option != "" {
		return translate(el.Select([]string{option}, true, rod.SelectorTypeText))
	}

	res, err := el.Eval(chooseFirstJS)
	if err != nil {
		return translate(err)
	}
	if !res.Value.Bool() {
		return fmt.Errorf("no selectable option: %w", journey.ErrNotFound)
	}
	return nil
}
