package score

import (
	"sort"

	"github.com/mchmarny/hiscore/pkg/taxonomy"
)

// DefaultSummarySize is the number of labels listed in each summary column.
const DefaultSummarySize = 5

// Summary lists the strongest and weakest traits.
type Summary struct {
	Strengths   []LabelScore `json:"strengths" yaml:"strengths"`
	Development []LabelScore `json:"development" yaml:"development"`
}

// Summarize picks the n highest traits as strengths and the n lowest as
// development areas. n <= 0 uses DefaultSummarySize.
func Summarize(board ScoreBoard, n int) *Summary {
	if n <= 0 {
		n = DefaultSummarySize
	}

	ranked := board.Ranked(taxonomy.Traits)

	asc := make([]LabelScore, len(ranked))
	copy(asc, ranked)
	sort.SliceStable(asc, func(i, j int) bool {
		if asc[i].Value != asc[j].Value {
			return asc[i].Value < asc[j].Value
		}
		return asc[i].Label < asc[j].Label
	})

	return &Summary{
		Strengths:   ranked[:min(n, len(ranked))],
		Development: asc[:min(n, len(asc))],
	}
}
