package score

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mchmarny/hiscore/pkg/answer"
	"github.com/mchmarny/hiscore/pkg/taxonomy"
)

func TestScore_EmptyModel(t *testing.T) {
	answers := answer.AnswerSet{"i like animals": 8}

	for _, m := range []*WeightModel{nil, {}} {
		board := Score(answers, m)
		require.Len(t, board, 7)
		for _, s := range taxonomy.Sections {
			v, ok := board[s]
			assert.True(t, ok, "section %s", s)
			assert.Empty(t, v)
		}
	}
}

func TestScore_EmptyAnswers(t *testing.T) {
	m, err := ParseModel([]byte(`{"generic": {
		"Frank": {"_intercept": 4, "i speak my mind": 1},
		"Tempo": {"_intercept": -3, "i work fast": 2},
		"Animals": {"_intercept": 15},
		"Precise": {"i check twice": 1}
	}}`))
	require.NoError(t, err)

	board := Score(answer.AnswerSet{}, m)
	assert.Equal(t, 4.0, board[taxonomy.Traits]["Frank"])
	assert.Equal(t, 0.0, board[taxonomy.Traits]["Tempo"])
	assert.Equal(t, 10.0, board[taxonomy.Interests]["Animals"])
	assert.Equal(t, 0.0, board[taxonomy.Traits]["Precise"])
}

func TestScore_GroupedExample(t *testing.T) {
	m := LoadModel([]byte(`{"G1": {"X": {"_intercept": 2, "feat": 3}}, "G2": {"X": {"_intercept": 0, "feat": 1}}}`))
	board := Score(answer.NewAnswerSet([]answer.ScoredStatement{{Score: 1, Statement: "feat"}}), m)

	v, ok := board.Get(taxonomy.Traits, "X")
	require.True(t, ok)
	assert.Equal(t, 1.0, v)
}

func TestScore_Linear(t *testing.T) {
	m := LoadModel([]byte(`{"generic": {
		"Outdoors": {"_intercept": 1, "I would enjoy working OUTDOORS": 0.5, "I dislike rain": -0.25, "Unanswered item": 3},
		"Handles Conflict": {"I handle arguments calmly": 1}
	}}`))

	answers := answer.Decode(answer.Encode([]answer.ScoredStatement{
		{Score: 8, Statement: "I would enjoy working outdoors"},
		{Score: 4, Statement: "I dislike rain"},
		{Score: 6, Statement: "I handle  arguments calmly"},
	}))

	board := Score(answers, m)
	assert.Equal(t, 4.0, board[taxonomy.WorkEnv]["Outdoors"])
	assert.Equal(t, 6.0, board[taxonomy.Behavioral]["Handles Conflict"])
	assert.Equal(t, 2, board.Len())
}

func TestScore_ClampInvariant(t *testing.T) {
	m := LoadModel([]byte(`{"generic": {
		"A": {"_intercept": 0, "q one here": 100},
		"B": {"_intercept": 0, "q one here": -100},
		"C": {"_intercept": 5, "q one here": 0.1}
	}}`))

	for _, a := range []float64{-10, -1, 0, 0.5, 3, 10, 1000} {
		board := Score(answer.AnswerSet{"q one here": a}, m)
		for _, s := range taxonomy.Sections {
			for l, v := range board[s] {
				assert.GreaterOrEqual(t, v, MinScore, "%s=%v", l, v)
				assert.LessOrEqual(t, v, MaxScore, "%s=%v", l, v)
			}
		}
	}
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, Clamp(-1, 0, 10))
	assert.Equal(t, 10.0, Clamp(11, 0, 10))
	assert.Equal(t, 5.5, Clamp(5.5, 0, 10))
	assert.Equal(t, 0.0, Clamp(0, 0, 10))
	assert.Equal(t, 10.0, Clamp(10, 0, 10))
}

func TestEvaluate(t *testing.T) {
	m := LoadModel([]byte(`{"generic": {
		"Certain": {"_intercept": 2, "i am sure of myself": 1},
		"Frnak": {"_intercept": 5}
	}}`))

	res := Evaluate(answer.AnswerSet{"i am sure of myself": 6}, m)
	assert.Equal(t, 1, res.Answers)
	assert.Equal(t, 8.0, res.Scores[taxonomy.Traits]["Certain"])
	assert.Equal(t, []string{"Frnak"}, res.Unclassified)
	require.Len(t, res.Composites, 9)
	assert.Equal(t, 8.0, res.Composites[0].Axes.Top)
	require.NotEmpty(t, res.Summary.Strengths)
	assert.Equal(t, "Certain", res.Summary.Strengths[0].Label)

	empty := Evaluate(nil, nil)
	assert.Equal(t, 0, empty.Answers)
	assert.Len(t, empty.Scores, 7)
	assert.Empty(t, empty.Unclassified)
}
