// Package extract pulls (score, statement) pairs out of loosely structured
// spreadsheet rows.
package extract

import (
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/mchmarny/hiscore/pkg/answer"
)

var mergedCell = regexp.MustCompile(`^\s*([-+]?\d+(?:\.\d+)?)\s+(.{6,})$`)

// Row is one spreadsheet row: strings, numbers or nil, of any width.
type Row []any

// Strategy recognizes one row layout.
type Strategy interface {
	Name() string
	Match(r Row) (answer.ScoredStatement, bool)
}

// Strategies is the ordered cascade tried against every row. The first
// strategy that matches wins.
var Strategies = []Strategy{
	MergedCell{},
	ColumnPair{},
	ColumnFallback{},
}

// MergedCell matches a score and statement typed into one cell,
// e.g. "8 I would enjoy working outdoors", in column A or B.
type MergedCell struct{}

func (MergedCell) Name() string { return "merged-cell" }

func (MergedCell) Match(r Row) (answer.ScoredStatement, bool) {
	for _, i := range []int{0, 1} {
		m := mergedCell.FindStringSubmatch(r.Text(i))
		if m == nil {
			continue
		}
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		return answer.ScoredStatement{Score: v, Statement: strings.TrimSpace(m[2])}, true
	}
	return answer.ScoredStatement{}, false
}

// ColumnPair matches the score in column A and the statement in column B.
type ColumnPair struct{}

func (ColumnPair) Name() string { return "column-pair" }

func (ColumnPair) Match(r Row) (answer.ScoredStatement, bool) {
	v, ok := r.Number(0)
	if !ok {
		return answer.ScoredStatement{}, false
	}
	stmt := strings.TrimSpace(r.Text(1))
	if !answer.ValidStatement(stmt) {
		return answer.ScoredStatement{}, false
	}
	return answer.ScoredStatement{Score: v, Statement: stmt}, true
}

// ColumnFallback matches layouts with the statement in column A and the
// score in column F.
type ColumnFallback struct{}

func (ColumnFallback) Name() string { return "column-fallback" }

func (ColumnFallback) Match(r Row) (answer.ScoredStatement, bool) {
	if _, ok := r.Number(0); ok {
		return answer.ScoredStatement{}, false
	}
	v, ok := r.Number(5)
	if !ok {
		return answer.ScoredStatement{}, false
	}
	stmt := strings.TrimSpace(r.Text(0))
	if !answer.ValidStatement(stmt) {
		return answer.ScoredStatement{}, false
	}
	return answer.ScoredStatement{Score: v, Statement: stmt}, true
}

// Match runs the strategy cascade against a single row and returns the pair
// along with the name of the strategy that produced it.
func Match(r Row) (answer.ScoredStatement, string, bool) {
	for _, s := range Strategies {
		if p, ok := s.Match(r); ok {
			return p, s.Name(), true
		}
	}
	return answer.ScoredStatement{}, "", false
}

// Rows extracts pairs from rows. Rows no strategy recognizes are skipped.
// Statements have their whitespace collapsed, short ones are dropped and
// pairs repeating an earlier score and statement are removed, keeping the
// first occurrence.
func Rows(rows []Row) []answer.ScoredStatement {
	seen := make(map[string]bool)
	out := make([]answer.ScoredStatement, 0, len(rows))

	for i, r := range rows {
		p, name, ok := Match(r)
		if !ok {
			continue
		}

		p.Statement = answer.CollapseSpace(p.Statement)
		if !answer.ValidStatement(p.Statement) {
			continue
		}

		key := p.Key()
		if seen[key] {
			continue
		}
		seen[key] = true

		slog.Debug("row matched", "row", i, "strategy", name, "score", p.Score)
		out = append(out, p)
	}

	return out
}

// Text returns cell i as text. Missing and nil cells are empty.
func (r Row) Text(i int) string {
	if i < 0 || i >= len(r) {
		return ""
	}
	return cellText(r[i])
}

// Number returns cell i as a number. Numeric cells are taken as is, text
// cells are parsed with the first comma read as a decimal point. Blank cells
// are never numeric.
func (r Row) Number(i int) (float64, bool) {
	if i < 0 || i >= len(r) {
		return 0, false
	}
	switch v := r[i].(type) {
	case nil:
		return 0, false
	case float64:
		return v, !math.IsNaN(v) && !math.IsInf(v, 0)
	case float32:
		f := float64(v)
		return f, !math.IsNaN(f) && !math.IsInf(f, 0)
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case int32:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint64:
		return float64(v), true
	case bool:
		return 0, false
	default:
		return answer.ParseNumber(cellText(v))
	}
}

// StringRows wraps plain string records as rows.
func StringRows(records [][]string) []Row {
	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		r := make(Row, len(rec))
		for i, c := range rec {
			r[i] = c
		}
		rows = append(rows, r)
	}
	return rows
}

func cellText(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	case float64:
		return answer.FormatNumber(c)
	case float32:
		return answer.FormatNumber(float64(c))
	case fmt.Stringer:
		return c.String()
	default:
		return fmt.Sprint(c)
	}
}
