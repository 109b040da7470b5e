package cron

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	Cmd.SetOut(&out)
	Cmd.SetErr(&out)
	Cmd.SetArgs(args)
	err := Cmd.Execute()
	return out.String(), err
}

func TestDescribe(t *testing.T) {
	out, err := run(t, "describe", "0/5 * * * *", "--count", "3", "--timezone", "UTC")
	require.NoError(t, err)

	assert.Contains(t, out, "Expression: 0/5 * * * *")
	assert.Contains(t, out, "Tab:        Minutes")
	assert.Contains(t, out, "Next runs (UTC):")
	assert.Equal(t, 3, strings.Count(out, " UTC\n"))
}

func TestDescribeInvalid(t *testing.T) {
	_, err := run(t, "describe", "* * *")
	assert.Error(t, err)
}

func TestBuildWeekly(t *testing.T) {
	out, err := run(t, "build", "--tab", "Weekly", "--weekday", "WED,FRI", "--hour", "6", "--ampm", "PM", "--count", "1", "--timezone", "UTC")
	require.NoError(t, err)
	assert.Contains(t, out, "Expression: 0 18 * * WED,FRI")
}

func TestBuildActionsRejectsUnknownPreset(t *testing.T) {
	buildTab = "Fortnightly"
	defer func() { buildTab = "Minutes" }()

	_, err := buildActions(buildCmd)
	assert.Error(t, err)
}

func TestWeekdayToggles(t *testing.T) {
	actions, err := weekdayToggles([]string{"tue"})
	require.NoError(t, err)
	assert.Len(t, actions, 2)

	_, err = weekdayToggles([]string{"FUNDAY"})
	assert.Error(t, err)
}
