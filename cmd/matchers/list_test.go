package main

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/praetorian-inc/matchers/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunList(t *testing.T) {
	resetFlags()
	cmd, buf := newTestCommand()

	require.NoError(t, runList(cmd, []string{}))

	output := buf.String()
	assert.Contains(t, output, "Name")
	assert.Contains(t, output, "Characteristics")

	lines := strings.Split(strings.TrimSpace(output), "\n")
	require.Greater(t, len(lines), 3)
	assert.True(t, strings.HasPrefix(lines[2], "*"), "default matcher should be marked: %q", lines[2])
	assert.Contains(t, lines[2], "brute")
	assert.Contains(t, lines[3], "kmp")
	assert.Contains(t, lines[3], "fast,stable")
}

func TestRunList_Require(t *testing.T) {
	resetFlags()
	listRequire = "fast,stable"
	cmd, buf := newTestCommand()

	require.NoError(t, runList(cmd, []string{}))
	for _, line := range strings.Split(buf.String(), "\n") {
		if strings.HasPrefix(line, "*") {
			assert.Contains(t, line, "kmp")
		}
	}
}

func TestRunList_JSON(t *testing.T) {
	resetFlags()
	listFormat = "json"
	cmd, buf := newTestCommand()

	require.NoError(t, runList(cmd, []string{}))

	var descs []types.Descriptor
	require.NoError(t, json.Unmarshal(buf.Bytes(), &descs))
	require.NotEmpty(t, descs)
	assert.Equal(t, "brute", descs[0].Name)
	assert.True(t, descs[0].Characteristics.Stable)
}

func TestRunList_MatcherFilters(t *testing.T) {
	resetFlags()
	listFormat = "json"
	includeMatchers = "^kmp$, rabin"
	cmd, buf := newTestCommand()

	require.NoError(t, runList(cmd, []string{}))

	var descs []types.Descriptor
	require.NoError(t, json.Unmarshal(buf.Bytes(), &descs))
	names := make([]string, len(descs))
	for i, d := range descs {
		names[i] = d.Name
	}
	assert.Equal(t, []string{"kmp", "rabin-karp", "brute"}, names)

	resetFlags()
	listFormat = "json"
	excludeMatchers = "kmp"
	cmd, buf = newTestCommand()

	require.NoError(t, runList(cmd, []string{}))
	require.NoError(t, json.Unmarshal(buf.Bytes(), &descs))
	for _, d := range descs {
		assert.NotContains(t, d.Name, "kmp")
	}

	resetFlags()
	includeMatchers = "("
	assert.ErrorContains(t, runList(cmd, []string{}), "filtering catalog")
}
