package score

import "github.com/mchmarny/hiscore/pkg/answer"

// Result bundles everything derived from one scoring pass.
type Result struct {
	Candidate    string      `json:"candidate,omitempty" yaml:"candidate,omitempty"`
	Answers      int         `json:"answers" yaml:"answers"`
	Scores       ScoreBoard  `json:"scores" yaml:"scores"`
	Composites   []NamedAxes `json:"composites" yaml:"composites"`
	Summary      *Summary    `json:"summary" yaml:"summary"`
	Unclassified []string    `json:"unclassified,omitempty" yaml:"unclassified,omitempty"`
}

// Evaluate scores answers with m and derives composites and the summary.
func Evaluate(answers answer.AnswerSet, m *WeightModel) *Result {
	board := Score(answers, m)
	return &Result{
		Answers:      len(answers),
		Scores:       board,
		Composites:   DeriveAll(board),
		Summary:      Summarize(board, DefaultSummarySize),
		Unclassified: Unclassified(m),
	}
}
