// Package answer holds the questionnaire answer types, the text normalizer
// and the two-column score,statement codec.
package answer

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	// MinStatementLength is the shortest statement (in runes, after trimming)
	// accepted as an answer. Shorter cells are row indices, units and such.
	MinStatementLength = 6
)

var leadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// ScoredStatement is one questionnaire answer: the response value and the
// exact wording of the item.
type ScoredStatement struct {
	Score     float64 `json:"score" yaml:"score"`
	Statement string  `json:"statement" yaml:"statement"`
}

// Key returns the dedupe key of the pair: exact score plus cleaned text.
func (s ScoredStatement) Key() string {
	return FormatNumber(s.Score) + "|" + CollapseSpace(s.Statement)
}

// AnswerSet maps normalized statement text to its response value.
type AnswerSet map[string]float64

// NewAnswerSet builds an AnswerSet from pairs. Later pairs overwrite earlier
// ones with the same normalized statement.
func NewAnswerSet(pairs []ScoredStatement) AnswerSet {
	set := make(AnswerSet, len(pairs))
	for _, p := range pairs {
		set.Set(p.Statement, p.Score)
	}
	return set
}

// Set records v under the normalized form of statement.
func (a AnswerSet) Set(statement string, v float64) {
	a[Normalize(statement)] = v
}

// Lookup returns the value recorded for the normalized form of key.
func (a AnswerSet) Lookup(key string) (float64, bool) {
	if a == nil {
		return 0, false
	}
	v, ok := a[Normalize(key)]
	return v, ok
}

// ValidStatement reports whether s is long enough to be an answer statement.
func ValidStatement(s string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(s)) >= MinStatementLength
}

// ParseNumber parses a score cell. The first comma is taken as a decimal
// separator. Blank and non-finite values are rejected.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(strings.Replace(s, ",", ".", 1))
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || !finite(v) {
		return 0, false
	}
	return v, true
}

// ParseLeadingNumber parses the numeric prefix of s, ignoring anything after
// it ("7 pts" is 7). The first comma is taken as a decimal separator.
func ParseLeadingNumber(s string) (float64, bool) {
	s = strings.TrimSpace(strings.Replace(s, ",", ".", 1))
	m := leadingNumber.FindString(s)
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil || !finite(v) {
		return 0, false
	}
	return v, true
}

// FormatNumber prints v in its shortest form: 8, 7.5, -0.25.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
