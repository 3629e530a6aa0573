package data

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDataState(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)

	require.NoError(t, SaveAssessment(ctx, db, testAssessment("Jane", "2024-01-01")))
	require.NoError(t, SaveAssessment(ctx, db, testAssessment("John", "2024-01-01")))

	state, err := GetDataState(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, int64(2), state["assessments"])
	assert.Equal(t, int64(2), state["candidates"])
	assert.Equal(t, int64(6), state["scores"])
	assert.Equal(t, int64(3), state["labels"])

	_, err = GetDataState(ctx, (*sql.DB)(nil))
	assert.ErrorIs(t, err, errDBNotInitialized)
}
