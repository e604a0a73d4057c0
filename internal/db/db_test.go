package db

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, s string) uuid.UUID {
	t.Helper()
	id, err := uuid.Parse(s)
	require.NoError(t, err)
	return id
}

func TestSaveRun_RejectsBadInput(t *testing.T) {
	db := &DB{}

	_, err := db.SaveRun(context.Background(), nil)
	require.Error(t, err)

	out := sampleRun()
	out.RunID = "not-a-uuid"
	_, err = db.SaveRun(context.Background(), out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid run id")
}

func TestSchemaSQL(t *testing.T) {
	for _, table := range []string{"pipeline_runs", "artifacts", "run_steps"} {
		assert.True(t, strings.Contains(schemaSQL, "CREATE TABLE IF NOT EXISTS "+table), table)
	}
	assert.Contains(t, schemaSQL, "UNIQUE (run_id, step)")
}

func TestClose_NilPool(t *testing.T) {
	db := &DB{}
	assert.NotPanics(t, db.Close)
}
