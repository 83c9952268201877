package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shard-legends/upgrade-planner-service/internal/planner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const snapshotJSON = `{
  "tag": "#2PP",
  "name": "Offline",
  "expLevel": 1,
  "expPoints": 10,
  "cards": [
    {"name": "Knight", "level": 1, "maxLevel": 14, "count": 5, "rarity": "common"}
  ]
}`

func writeSnapshot(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "player.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRun_Snapshot(t *testing.T) {
	var out bytes.Buffer
	err := run(context.Background(), []string{
		"--snapshot", writeSnapshot(t, snapshotJSON),
		"--gold", "100",
		"--common", "1",
	}, &out)
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "Offline #2PP (level 1)")
	assert.Contains(t, text, "XP to next level: 40")
	assert.Contains(t, text, "Knight")
	assert.Contains(t, text, "1 → 2")
	assert.Contains(t, text, "2 → 3")
	assert.Contains(t, text, "XP gained: 9 (target not reached)")
	assert.Contains(t, text, "Gold spent: 25, left: 75")
}

func TestRun_LogsStayOutOfPlanOutput(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "planner.log")

	var out bytes.Buffer
	err := run(context.Background(), []string{
		"--snapshot", writeSnapshot(t, snapshotJSON),
		"--gold", "100",
		"--log-level", "debug",
		"--log-output", logPath,
	}, &out)
	require.NoError(t, err)

	logged, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(logged), "Plan ready")
	assert.Contains(t, string(logged), "upgrade-planner-cli")
	assert.NotContains(t, out.String(), "Plan ready")
	assert.Contains(t, out.String(), "Offline #2PP (level 1)")
}

func TestRun_NoAffordableUpgrades(t *testing.T) {
	var out bytes.Buffer
	err := run(context.Background(), []string{"--snapshot", writeSnapshot(t, snapshotJSON)}, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "No affordable upgrades.")
}

func TestRun_BrokenSnapshot(t *testing.T) {
	err := run(context.Background(), []string{"--snapshot", writeSnapshot(t, `{"cards":`)}, &bytes.Buffer{})
	assert.True(t, errors.Is(err, planner.ErrMalformedInput))
}

func TestParseOptions(t *testing.T) {
	t.Setenv("PLANNER_SVC_PLAYER_API_TOKEN", "")

	_, err := parseOptions(nil)
	assert.ErrorContains(t, err, "--tag or --snapshot")

	_, err = parseOptions([]string{"--tag", "#2PP"})
	assert.ErrorContains(t, err, "PLANNER_SVC_PLAYER_API_TOKEN")

	t.Setenv("PLANNER_SVC_PLAYER_API_TOKEN", "token")
	opts, err := parseOptions([]string{"--tag", "#2PP", "--gold", "23000", "--legendary", "2", "--sequential"})
	require.NoError(t, err)
	assert.Equal(t, "token", opts.Token)
	assert.Equal(t, 23000, opts.Resources.TotalGold)
	assert.Equal(t, 2, opts.Resources.LegendaryWildcards)
	assert.True(t, opts.Sequential)
	assert.Equal(t, "https://api.clashroyale.com/v1", opts.BaseURL)
	assert.Equal(t, "stderr", opts.LogOutput)
	assert.Equal(t, "warn", opts.LogLevel)
}
