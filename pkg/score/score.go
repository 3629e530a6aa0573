// Package score applies a linear weight model to an answer set and derives
// section scores, composite axes, summaries and report tables from the result.
package score

import (
	"math"

	"github.com/mchmarny/hiscore/pkg/answer"
	"github.com/mchmarny/hiscore/pkg/taxonomy"
)

const (
	// MinScore is the lowest label score.
	MinScore = 0.0
	// MaxScore is the highest label score.
	MaxScore = 10.0
)

// ScoreBoard holds label scores per taxonomy section.
type ScoreBoard map[taxonomy.Section]map[string]float64

// NewScoreBoard returns a board with every section present and empty.
func NewScoreBoard() ScoreBoard {
	b := make(ScoreBoard, len(taxonomy.Sections))
	for _, s := range taxonomy.Sections {
		b[s] = make(map[string]float64)
	}
	return b
}

// Get returns the score of label in section s.
func (b ScoreBoard) Get(s taxonomy.Section, label string) (float64, bool) {
	v, ok := b[s][label]
	return v, ok
}

// Len returns the number of scored labels across all sections.
func (b ScoreBoard) Len() int {
	var n int
	for _, m := range b {
		n += len(m)
	}
	return n
}

// Score computes the value of every label in model:
// the intercept plus answer times weight for each feature answered,
// clamped to [MinScore, MaxScore]. Features without an answer add nothing.
// A nil or empty model yields an empty board.
func Score(answers answer.AnswerSet, model *WeightModel) ScoreBoard {
	board := NewScoreBoard()
	if model.IsEmpty() {
		return board
	}

	for _, lw := range model.Labels {
		v := lw.Intercept
		for _, f := range lw.Features {
			a, ok := answers.Lookup(f.Key)
			if !ok || !finite(a) {
				continue
			}
			v += a * f.Weight
		}
		board[taxonomy.SectionOf(lw.Label)][lw.Label] = Clamp(v, MinScore, MaxScore)
	}

	return board
}

// Clamp limits v to [lo, hi]. NaN becomes lo.
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
