package answer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"spaces only", "   \t\n ", ""},
		{"case and trim", "  I Would ENJOY  ", "i would enjoy"},
		{"internal runs", "I\twould \n\n enjoy", "i would enjoy"},
		{"decomposed accent", "Cafe\u0301 Work", "caf\u00e9 work"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	s := "  Working   OUTDOORS\twith animals "
	assert.Equal(t, Normalize(s), Normalize(Normalize(s)))
}

func TestAnswerSet_Lookup(t *testing.T) {
	set := NewAnswerSet([]ScoredStatement{
		{Score: 3, Statement: "I like Working outdoors"},
		{Score: 7, Statement: "i like working   outdoors"},
	})
	require.Len(t, set, 1)

	v, ok := set.Lookup("  I LIKE working outdoors ")
	assert.True(t, ok)
	assert.Equal(t, 7.0, v)

	_, ok = set.Lookup("something else entirely")
	assert.False(t, ok)

	var empty AnswerSet
	_, ok = empty.Lookup("anything")
	assert.False(t, ok)
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"8", 8, true},
		{" 7.5 ", 7.5, true},
		{"7,5", 7.5, true},
		{"-2", -2, true},
		{"", 0, false},
		{"   ", 0, false},
		{"abc", 0, false},
		{"Inf", 0, false},
		{"NaN", 0, false},
		{"8 points", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			v, ok := ParseNumber(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, v)
		})
	}
}

func TestParseLeadingNumber(t *testing.T) {
	v, ok := ParseLeadingNumber("7 pts")
	assert.True(t, ok)
	assert.Equal(t, 7.0, v)

	v, ok = ParseLeadingNumber("6,25")
	assert.True(t, ok)
	assert.Equal(t, 6.25, v)

	_, ok = ParseLeadingNumber("score")
	assert.False(t, ok)
}

func TestValidStatement(t *testing.T) {
	assert.True(t, ValidStatement("enjoys"))
	assert.True(t, ValidStatement("  I would enjoy working outdoors  "))
	assert.False(t, ValidStatement("ok"))
	assert.False(t, ValidStatement("  five  "))
	assert.False(t, ValidStatement(""))
}

func TestScoredStatement_Key(t *testing.T) {
	a := ScoredStatement{Score: 8, Statement: "I would  enjoy working"}
	b := ScoredStatement{Score: 8, Statement: " I would enjoy working "}
	c := ScoredStatement{Score: 7, Statement: "I would enjoy working"}
	assert.Equal(t, a.Key(), b.Key())
	assert.NotEqual(t, a.Key(), c.Key())
	assert.Equal(t, "8|I would enjoy working", a.Key())
}
