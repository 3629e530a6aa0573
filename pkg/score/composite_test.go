package score

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mchmarny/hiscore/pkg/taxonomy"
)

func TestDerive(t *testing.T) {
	board := NewScoreBoard()
	board[taxonomy.Traits]["Certain"] = 7
	board[taxonomy.Traits]["Optimistic"] = 6.5
	board[taxonomy.Traits]["Outgoing"] = 2
	board[taxonomy.Interests]["Open / reflective"] = 9

	c, ok := taxonomy.CompositeByName("Outlook")
	require.True(t, ok)

	axes := Derive(board, c)
	assert.Equal(t, Axes{Top: 7, Right: 6.5, Bottom: 0, Left: 2}, axes)

	_, exists := board[taxonomy.Traits]["Open / reflective"]
	assert.False(t, exists)
	assert.Len(t, board[taxonomy.Traits], 3)
}

func TestDerive_NilBoard(t *testing.T) {
	c, _ := taxonomy.CompositeByName("Power")
	assert.Equal(t, Axes{}, Derive(nil, c))
}

func TestDeriveAll(t *testing.T) {
	board := NewScoreBoard()
	board[taxonomy.Traits]["Frank"] = 3

	all := DeriveAll(board)
	require.Len(t, all, 9)
	assert.Equal(t, "Outlook", all[0].Name)
	assert.Equal(t, "Communication", all[3].Name)
	assert.Equal(t, 3.0, all[3].Axes.Top)
}

func TestDerive_AxisOrder(t *testing.T) {
	c, ok := taxonomy.CompositeByName("Communication")
	require.True(t, ok)

	board := NewScoreBoard()
	for i, l := range c.Labels() {
		board[taxonomy.Traits][l] = float64(i + 1)
	}

	assert.Equal(t, Axes{Top: 1, Right: 2, Bottom: 3, Left: 4}, Derive(board, c))
}
