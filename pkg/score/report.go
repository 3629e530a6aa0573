package score

import (
	"encoding/csv"
	"io"
	"math"
	"math/big"
	"sort"
	"strconv"

	"github.com/pkg/errors"

	"github.com/mchmarny/hiscore/pkg/taxonomy"
)

// ReportHeader is the header row of the flattened score table.
var ReportHeader = []string{"Category", "Trait", "Score"}

// LabelScore is one scored label.
type LabelScore struct {
	Section taxonomy.Section `json:"section" yaml:"section"`
	Label   string           `json:"label" yaml:"label"`
	Value   float64          `json:"value" yaml:"value"`
}

// Ranked returns the labels of section s by score, highest first, ties by
// label name.
func (b ScoreBoard) Ranked(s taxonomy.Section) []LabelScore {
	out := make([]LabelScore, 0, len(b[s]))
	for l, v := range b[s] {
		out = append(out, LabelScore{Section: s, Label: l, Value: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].Label < out[j].Label
	})
	return out
}

// FormatScore renders v for display. Interests and expectations are rounded
// to a whole number first, halves rounding up. Everything is printed with one
// decimal, rounding the exact binary value of v.
func FormatScore(s taxonomy.Section, v float64) string {
	if !finite(v) {
		return ""
	}
	if roundsWhole(s) {
		return strconv.FormatFloat(math.Round(v), 'f', 1, 64)
	}
	return formatTenths(v)
}

// formatTenths prints v with one decimal. An exact tie such as 7.25 rounds
// away from zero, everything else is rounded by strconv on the exact value.
func formatTenths(v float64) string {
	r := new(big.Rat).SetFloat64(v)
	r.Mul(r, big.NewRat(10, 1))
	if r.Denom().Cmp(big.NewInt(2)) != 0 {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}

	n := new(big.Int).Quo(new(big.Int).Abs(r.Num()), r.Denom())
	n.Add(n, big.NewInt(1))
	if r.Sign() < 0 {
		n.Neg(n)
	}
	return strconv.FormatFloat(float64(n.Int64())/10, 'f', 1, 64)
}

func roundsWhole(s taxonomy.Section) bool {
	return s == taxonomy.Interests || s == taxonomy.Expectations
}

// WriteReport writes board as a Category,Trait,Score CSV table, sections in
// taxonomy order and labels ranked within each section.
func WriteReport(w io.Writer, board ScoreBoard) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(ReportHeader); err != nil {
		return errors.Wrap(err, "error writing report header")
	}

	for _, s := range taxonomy.Sections {
		for _, ls := range board.Ranked(s) {
			if err := cw.Write([]string{string(s), ls.Label, FormatScore(s, ls.Value)}); err != nil {
				return errors.Wrapf(err, "error writing report row %s", ls.Label)
			}
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.Wrap(err, "error flushing report")
	}

	return nil
}
