package sheet

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mchmarny/hiscore/pkg/answer"
)

const processedCSV = `score,statement
8,"I would enjoy working outdoors"
7,"I prefer clear instructions"
6,"I like to plan my week"
5,"I enjoy public speaking"
4,"I like working with animals"
3,"I like repetitive tasks"
`

func TestIngest_Workbook(t *testing.T) {
	buf := makeWorkbook(t, []string{"Raw"}, [][]any{
		{"Score", "Statement"},
		{8, "I would enjoy working outdoors"},
		{"8 I would enjoy working outdoors"},
		{"I like routine work", nil, nil, nil, nil, 3},
		{5, "ok"},
	})

	res, err := Ingest("/tmp/in/Jane Doe.xlsx", buf)
	require.NoError(t, err)
	assert.Equal(t, KindWorkbook, res.Kind)
	assert.Equal(t, "Raw", res.Sheet)
	assert.Equal(t, "Jane Doe", res.Candidate)
	assert.Equal(t, "Jane Doe.xlsx", res.Source)
	assert.Equal(t, []answer.ScoredStatement{
		{Score: 8, Statement: "I would enjoy working outdoors"},
		{Score: 3, Statement: "I like routine work"},
	}, res.Pairs)
	assert.Equal(t, "processed_Jane Doe.csv", res.FileName())
}

func TestIngest_AnalysisSheet(t *testing.T) {
	buf := makeWorkbook(t, []string{"Analysis-Score"}, [][]any{
		{8, "I would enjoy working outdoors"},
	})
	_, err := Ingest("a.xlsx", buf)
	assert.ErrorIs(t, err, ErrAnalysisSheet)
}

func TestIngest_EmptyWorkbook(t *testing.T) {
	buf := makeWorkbook(t, []string{"Raw"}, [][]any{{"Header only"}})
	_, err := Ingest("a.xlsx", buf)
	assert.ErrorIs(t, err, ErrNoUsableRows)
}

func TestIngest_Processed(t *testing.T) {
	res, err := Ingest("processed_jane.csv", strings.NewReader(processedCSV))
	require.NoError(t, err)
	assert.Equal(t, KindProcessed, res.Kind)
	assert.Equal(t, "jane", res.Candidate)
	require.Len(t, res.Pairs, 6)
	assert.Equal(t, answer.Decode(processedCSV), answer.Decode(res.CSV()))
}

func TestIngest_RawRows(t *testing.T) {
	text := "Score,Statement,,,,\r\n" +
		"8,I would enjoy working outdoors\r\n" +
		"I like routine work,,,,,3\r\n" +
		"\"6\",\"I like to plan, carefully\"\r\n"

	res, err := Ingest("raw.txt", strings.NewReader(text))
	require.NoError(t, err)
	assert.Equal(t, KindRows, res.Kind)
	assert.Equal(t, []answer.ScoredStatement{
		{Score: 8, Statement: "I would enjoy working outdoors"},
		{Score: 3, Statement: "I like routine work"},
		{Score: 6, Statement: "I like to plan, carefully"},
	}, res.Pairs)
}

func TestIngest_NoRows(t *testing.T) {
	_, err := Ingest("empty.csv", strings.NewReader("nothing,here\n"))
	assert.ErrorIs(t, err, ErrNoUsableRows)
}

func TestIngest_Unsupported(t *testing.T) {
	for _, name := range []string{"legacy.xls", "notes.pdf", "noext"} {
		_, err := Ingest(name, bytes.NewBufferString("x"))
		assert.ErrorIs(t, err, ErrUnsupportedFormat, name)
	}
}

func TestSplitRows_LooseQuotes(t *testing.T) {
	rows := SplitRows("8,\"broken \"quote\" here\",x\n7,fine")
	require.Len(t, rows, 2)
	assert.Equal(t, "7", rows[1].Text(0))
}

func TestProcessedFileName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Jane Doe", "processed_Jane Doe.csv"},
		{`a/b\c:d*e?f"g<h>i|j`, "processed_a_b_c_d_e_f_g_h_i_j.csv"},
		{"", "processed_candidate.csv"},
		{"  ", "processed_candidate.csv"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ProcessedFileName(tt.in))
	}
}

func TestCandidateFromFile(t *testing.T) {
	assert.Equal(t, "jane", CandidateFromFile("/x/y/jane.xlsx"))
	assert.Equal(t, "jane", CandidateFromFile("processed_jane.csv"))
	assert.Equal(t, "candidate", CandidateFromFile(".csv"))
}
