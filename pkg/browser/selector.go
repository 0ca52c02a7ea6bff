package browser

import (
	"fmt"
	"strings"

	"github.com/thesyncim/journey/pkg/journey"
)

// compiled is a selector in the form Rod consumes.
type compiled struct {
	expr  string
	xpath bool
}

func query(sel journey.Selector) (compiled, error) {
	if err := sel.Validate(); err != nil {
		return compiled{}, err
	}

	switch sel.By {
	case journey.ByName:
		return compiled{expr: fmt.Sprintf(`[name="%s"]`, cssString(sel.Value))}, nil
	case journey.ByCSS:
		return compiled{expr: sel.Value}, nil
	case journey.ByClass:
		// Attribute form avoids escaping class names such as "md:flex".
		return compiled{expr: fmt.Sprintf(`[class~="%s"]`, cssString(sel.Value))}, nil
	case journey.ByTag:
		return compiled{expr: sel.Value}, nil
	case journey.ByText:
		return compiled{
			expr:  fmt.Sprintf("//*[contains(text(), %s)]", xpathLiteral(sel.Value)),
			xpath: true,
		}, nil
	case journey.ByXPath:
		return compiled{expr: sel.Value, xpath: true}, nil
	}
	return compiled{}, fmt.Errorf("unsupported selector %s", sel)
}

func cssString(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}

// xpathLiteral quotes s for XPath 1.0, which has no escape sequences.
func xpathLiteral(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}

	parts := strings.Split(s, "'")
	args := make([]string, 0, 2*len(parts))
	for i, p := range parts {
		if i > 0 {
			args = append(args, `"'"`)
		}
		if p != "" {
			args = append(args, "'"+p+"'")
		}
	}
	return "concat(" + strings.Join(args, ", ") + ")"
}
