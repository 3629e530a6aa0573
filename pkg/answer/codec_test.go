package answer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	out := Encode([]ScoredStatement{
		{Score: 8, Statement: "I would enjoy working outdoors"},
		{Score: 7.5, Statement: `I say "no" often, politely`},
	})

	want := "score,statement\n" +
		"8,\"I would enjoy working outdoors\"\n" +
		"7.5,\"I say \"\"no\"\" often, politely\""
	assert.Equal(t, want, out)
}

func TestEncode_Empty(t *testing.T) {
	assert.Equal(t, "score,statement\n", Encode(nil))
}

func TestDecodePairs(t *testing.T) {
	text := "Score,Statement\r\n" +
		"8,\"I would enjoy working outdoors\"\r\n" +
		"\r\n" +
		"7,5,\"I plan my week ahead\"\n" +
		"abc,\"Not a number at all\"\n" +
		"no comma on this line\n" +
		",\"Missing score entirely\"\n" +
		"6,plain unquoted statement\n" +
		"5,\"\"\n" +
		"4,\"Say \"\"hello\"\" first\"\n"

	pairs := DecodePairs(text)
	require.Len(t, pairs, 4)
	assert.Equal(t, ScoredStatement{Score: 8, Statement: "I would enjoy working outdoors"}, pairs[0])
	// only the first comma splits, so "7" is the score and the rest is text
	assert.Equal(t, 7.0, pairs[1].Score)
	assert.Equal(t, `5,"I plan my week ahead"`, pairs[1].Statement)
	assert.Equal(t, ScoredStatement{Score: 6, Statement: "plain unquoted statement"}, pairs[2])
	assert.Equal(t, ScoredStatement{Score: 4, Statement: `Say "hello" first`}, pairs[3])
}

func TestDecodePairs_NoHeader(t *testing.T) {
	pairs := DecodePairs("3,\"I like routine work\"\n9,\"I like new challenges\"")
	require.Len(t, pairs, 2)
	assert.Equal(t, 3.0, pairs[0].Score)
	assert.Equal(t, 9.0, pairs[1].Score)
}

func TestDecodePairs_Empty(t *testing.T) {
	assert.Empty(t, DecodePairs(""))
	assert.Empty(t, DecodePairs("   \n  "))
	assert.Empty(t, DecodePairs("score,statement"))
}

func TestDecode_LastWins(t *testing.T) {
	set := Decode("score,statement\n2,\"I like routine work\"\n9,\"I LIKE routine work\"")
	require.Len(t, set, 1)
	v, ok := set.Lookup("i like routine work")
	assert.True(t, ok)
	assert.Equal(t, 9.0, v)
}

func TestRoundTrip(t *testing.T) {
	pairs := []ScoredStatement{
		{Score: 8, Statement: "I would enjoy working outdoors"},
		{Score: 0, Statement: "I prefer  a quiet office"},
		{Score: -1.25, Statement: `I answer "maybe", then decide`},
		{Score: 10, Statement: `"Quoted" statement here`},
		{Score: 3, Statement: "I would enjoy working outdoors"},
	}

	decoded := DecodePairs(Encode(pairs))
	require.Len(t, decoded, len(pairs))
	for i, p := range pairs {
		assert.Equal(t, p.Score, decoded[i].Score)
		assert.Equal(t, Normalize(p.Statement), Normalize(decoded[i].Statement))
	}

	set := Decode(Encode(pairs))
	v, ok := set.Lookup("I would enjoy working outdoors")
	require.True(t, ok)
	assert.Equal(t, 3.0, v)
	assert.Len(t, set, 4)
}
