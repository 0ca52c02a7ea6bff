package browser

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thesyncim/journey/pkg/journey"
)

func TestQuery(t *testing.T) {
	tests := []struct {
		sel   journey.Selector
		expr  string
		xpath bool
	}{
		{journey.Name("email"), `[name="email"]`, false},
		{journey.CSS("button[type='submit']"), "button[type='submit']", false},
		{journey.Class("bg-gradient-to-r"), `[class~="bg-gradient-to-r"]`, false},
		{journey.Tag("table"), "table", false},
		{journey.Text("Novo Agendamento"), "//*[contains(text(), 'Novo Agendamento')]", true},
		{journey.XPath("//button[1]"), "//button[1]", true},
	}

	for _, tt := range tests {
		t.Run(tt.sel.String(), func(t *testing.T) {
			q, err := query(tt.sel)
			require.NoError(t, err)
			assert.Equal(t, tt.expr, q.expr)
			assert.Equal(t, tt.xpath, q.xpath)
		})
	}
}

func TestQuery_Invalid(t *testing.T) {
	_, err := query(journey.Selector{By: "id", Value: "main"})
	assert.Error(t, err)
}

func TestQuery_EscapesAttributeValue(t *testing.T) {
	q, err := query(journey.Name(`a"b`))
	require.NoError(t, err)
	assert.Equal(t, `[name="a\"b"]`, q.expr)
}

func TestXPathLiteral(t *testing.T) {
	assert.Equal(t, "'Sair'", xpathLiteral("Sair"))
	assert.Equal(t, `"d'Ávila"`, xpathLiteral("d'Ávila"))
	assert.Equal(t, `concat('say "hi" to ', "'", 'x', "'")`, xpathLiteral(`say "hi" to 'x'`))
}

func TestTranslate(t *testing.T) {
	assert.NoError(t, translate(nil))

	err := translate(fmt.Errorf("wait: %w", context.DeadlineExceeded))
	assert.ErrorIs(t, err, journey.ErrTimeout)
	assert.Equal(t, journey.FailTimeout, journey.KindOf(err))

	other := errors.New("cdp: target closed")
	assert.Equal(t, other, translate(other))
	assert.Equal(t, journey.FailFault, journey.KindOf(translate(other)))

	// Cancellation is not a timeout.
	assert.NotErrorIs(t, translate(context.Canceled), journey.ErrTimeout)
}

func TestOpen_RejectsZeroTimeout(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Timeout = 0
	_, err := Open(context.Background(), cfg)
	assert.Error(t, err)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.True(t, cfg.Headless)
	assert.True(t, cfg.NoSandbox)
	assert.Equal(t, "10s", cfg.Timeout.String())
}
