package main

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vlath-eng/symcheck/machine"
	"github.com/vlath-eng/symcheck/property"
	"github.com/vlath-eng/symcheck/verify"
)

func TestScenarioByNameKnownAndUnknown(t *testing.T) {
	sc, err := scenarioByName("trivial-safe")
	require.NoError(t, err)
	assert.Equal(t, "AG[a == 0]", sc.Property)

	_, err = scenarioByName("does-not-exist")
	assert.Error(t, err)
}

func TestCollectPropertiesDefaultsToInherent(t *testing.T) {
	props, err := collectProperties(nil, false, strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, []string{inherentProperty}, props)
}

func TestCollectPropertiesFromArgs(t *testing.T) {
	props, err := collectProperties([]string{"AG[a == 0]", "EG[true]"}, false, strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, []string{"AG[a == 0]", "EG[true]"}, props)
}

func TestCollectPropertiesFromStdinSkipsBlankLines(t *testing.T) {
	props, err := collectProperties(nil, true, strings.NewReader("AG[a == 0]\n\nEG[true]\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"AG[a == 0]", "EG[true]"}, props)
}

func TestExitCodeForMapsEachSentinel(t *testing.T) {
	assert.Equal(t, exitIncomplete, exitCodeFor(verify.ErrIncomplete))
	assert.Equal(t, exitFieldNotFound, exitCodeFor(machine.ErrFieldNotFound))
	assert.Equal(t, exitPropertyNotParseable, exitCodeFor(property.ErrSyntax))
	assert.Equal(t, exitSignednessNotEstablished, exitCodeFor(machine.ErrSignednessNotEstablished))
	assert.Equal(t, exitSignednessNotEstablished, exitCodeFor(property.ErrSignednessNotEstablished))
	assert.Equal(t, exitIO, exitCodeFor(errors.New("some I/O failure")))
}

func TestRunOneReportsParseError(t *testing.T) {
	sc, err := scenarioByName("trivial-safe")
	require.NoError(t, err)

	r := runOne(sc, "not a valid property (((", verify.Options{UseDecay: false}, false)
	require.Error(t, r.err)
	assert.True(t, errors.Is(r.err, property.ErrSyntax))
}

func TestRunChecksCoversEveryScenario(t *testing.T) {
	for _, sc := range []string{"trivial-safe", "trivial-unsafe", "overflow", "branch", "div-zero", "liveness"} {
		scenario, err := scenarioByName(sc)
		require.NoError(t, err)
		results := runChecks(scenario, []string{scenario.Property}, verify.Options{UseDecay: false}, 2, false)
		require.Len(t, results, 1)
		assert.NoError(t, results[0].err)
	}
}
