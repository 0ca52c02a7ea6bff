package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProbeCommand_Reachable(t *testing.T) {
	h := newHarness(t)
	url := upServer(t)

	require.NoError(t, h.run("probe", "--base-url", url))
	assert.Contains(t, h.out.String(), "reachable")
	assert.Contains(t, h.out.String(), url)
	assert.Zero(t, h.opens)
}

func TestProbeCommand_Unreachable(t *testing.T) {
	h := newHarness(t)

	err := h.run("probe", "--base-url", downURL(t), "--format", "json")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	var res ProbeResult
	require.NoError(t, json.Unmarshal(h.out.Bytes(), &res))
	assert.False(t, res.Reachable)
	assert.Contains(t, res.Error, "unreachable")
}
