package answer

import (
	"regexp"
	"strings"
)

const (
	// Header is the first line of the canonical processed format.
	Header = "score,statement"
)

var lineBreak = regexp.MustCompile(`\r?\n`)

// Encode serializes pairs into the canonical two-column format:
// a score,statement header followed by one <score>,"<statement>" line per
// pair. Statements are always quoted with embedded quotes doubled.
func Encode(pairs []ScoredStatement) string {
	var b strings.Builder
	b.WriteString(Header)
	b.WriteString("\n")
	for i, p := range pairs {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(FormatNumber(p.Score))
		b.WriteString(`,"`)
		b.WriteString(strings.ReplaceAll(p.Statement, `"`, `""`))
		b.WriteString(`"`)
	}
	return b.String()
}

// DecodePairs parses the canonical format back into pairs in line order.
// The header line is optional. Lines without a comma, with an empty
// statement, or whose score is not a finite number, are skipped.
func DecodePairs(text string) []ScoredStatement {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	lines := make([]string, 0)
	for _, l := range lineBreak.Split(text, -1) {
		if l != "" {
			lines = append(lines, l)
		}
	}
	if len(lines) == 0 {
		return nil
	}

	if IsHeader(lines[0]) {
		lines = lines[1:]
	}

	out := make([]ScoredStatement, 0, len(lines))
	for _, line := range lines {
		raw, rest, ok := strings.Cut(line, ",")
		if !ok || raw == "" {
			continue
		}
		v, ok := ParseLeadingNumber(raw)
		if !ok {
			continue
		}
		stmt := strings.TrimSpace(unquote(rest))
		if stmt == "" {
			continue
		}
		out = append(out, ScoredStatement{Score: v, Statement: stmt})
	}
	return out
}

// Decode parses the canonical format into an AnswerSet. When a statement
// appears more than once the last occurrence wins.
func Decode(text string) AnswerSet {
	return NewAnswerSet(DecodePairs(text))
}

// IsHeader reports whether line looks like the score,statement header.
func IsHeader(line string) bool {
	l := strings.ToLower(line)
	return strings.Contains(l, "score") && strings.Contains(l, "statement")
}

func unquote(s string) string {
	if strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		if len(s) < 2 {
			return ""
		}
		s = s[1 : len(s)-1]
		return strings.ReplaceAll(s, `""`, `"`)
	}
	return s
}
