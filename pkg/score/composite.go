package score

import (
	"log/slog"

	"github.com/mchmarny/hiscore/pkg/taxonomy"
)

// Axes holds the four values of a composite chart.
type Axes struct {
	Top    float64 `json:"top" yaml:"top"`
	Right  float64 `json:"right" yaml:"right"`
	Bottom float64 `json:"bottom" yaml:"bottom"`
	Left   float64 `json:"left" yaml:"left"`
}

// NamedAxes pairs a composite definition with its derived values.
type NamedAxes struct {
	taxonomy.Composite `json:",inline" yaml:",inline"`
	Axes               Axes `json:"axes" yaml:"axes"`
}

// Derive reads the four composite labels from the traits section.
// Missing labels read as 0.
func Derive(board ScoreBoard, c taxonomy.Composite) Axes {
	v := make([]float64, 0, 4)
	for _, l := range c.Labels() {
		s, ok := board.Get(taxonomy.Traits, l)
		if !ok {
			slog.Debug("composite axis not scored", "composite", c.Name, "label", l)
		}
		v = append(v, s)
	}
	return Axes{Top: v[0], Right: v[1], Bottom: v[2], Left: v[3]}
}

// DeriveAll derives every reference composite in declaration order.
func DeriveAll(board ScoreBoard) []NamedAxes {
	list := taxonomy.Composites()
	out := make([]NamedAxes, 0, len(list))
	for _, c := range list {
		out = append(out, NamedAxes{Composite: c, Axes: Derive(board, c)})
	}
	return out
}
