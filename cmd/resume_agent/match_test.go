package main

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-agent/internal/selection"
)

func TestMatchCommand(t *testing.T) {
	ws := newWorkspace(t)

	stdout, err := executeCommand(t, "match", ws.job, "--resume-index", ws.index)
	require.NoError(t, err)

	assert.Contains(t, stdout, "RESUME MATCH REPORT")
	assert.Contains(t, stdout, "Best: User Acquisition")
	assert.Contains(t, stdout, "#2  brand")
	assert.NotContains(t, stdout, "Low match")
}

func TestMatchCommand_JSON(t *testing.T) {
	ws := newWorkspace(t)

	stdout, err := executeCommand(t, "match", ws.job, "--resume-index", ws.index, "--json")
	require.NoError(t, err)

	var report selection.MatchReport
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	assert.Equal(t, "ua", report.Best.ID)
	require.Len(t, report.Results, 2)
	assert.Equal(t, 0.0, report.Results[1].RawScore)
	assert.False(t, report.IsLowMatch)
}

func TestMatchCommand_LowMatchThresholdFromConfig(t *testing.T) {
	ws := newWorkspace(t)
	cfgPath := ws.dir + "/config.json"
	writeFile(t, cfgPath, `{"low_match_threshold": 50}`)

	stdout, err := executeCommand(t, "match", ws.job, "--resume-index", ws.index, "--config", cfgPath, "--json")
	require.NoError(t, err)

	var report selection.MatchReport
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	assert.True(t, report.IsLowMatch)
}

func TestMatchCommand_ShortJob(t *testing.T) {
	ws := newWorkspace(t)
	short := ws.dir + "/short.txt"
	writeFile(t, short, "Hiring a UA lead.")

	_, err := executeCommand(t, "match", short, "--resume-index", ws.index)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "job description too short")
}
