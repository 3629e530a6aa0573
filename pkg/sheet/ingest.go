package sheet

import (
	"bytes"
	"encoding/csv"
	"io"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pkg/errors"

	"github.com/mchmarny/hiscore/pkg/answer"
	"github.com/mchmarny/hiscore/pkg/extract"
)

// Kind describes how an ingested file was interpreted.
type Kind string

const (
	// KindWorkbook is a spreadsheet read through the row extractor.
	KindWorkbook Kind = "workbook"
	// KindProcessed is a file already in the score,statement format.
	KindProcessed Kind = "processed"
	// KindRows is delimited text read through the row extractor.
	KindRows Kind = "rows"

	// ProcessedThreshold is the number of decoded answers above which a text
	// file is taken to be already processed.
	ProcessedThreshold = 5

	defaultCandidate = "candidate"
)

var (
	// ErrNoUsableRows is returned when no answer pairs could be extracted.
	ErrNoUsableRows = errors.New("no usable rows found")

	// ErrUnsupportedFormat is returned for file types that can not be read.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	unsafeFileChars = regexp.MustCompile(`[\\/:*?"<>|]`)
)

// Result is the outcome of ingesting one file.
type Result struct {
	Source    string                   `json:"source" yaml:"source"`
	Candidate string                   `json:"candidate" yaml:"candidate"`
	Kind      Kind                     `json:"kind" yaml:"kind"`
	Sheet     string                   `json:"sheet,omitempty" yaml:"sheet,omitempty"`
	Pairs     []answer.ScoredStatement `json:"pairs" yaml:"pairs"`
}

// CSV returns the pairs in the score,statement format.
func (r *Result) CSV() string {
	return answer.Encode(r.Pairs)
}

// FileName returns the processed file name for the result.
func (r *Result) FileName() string {
	return ProcessedFileName(r.Candidate)
}

// Ingest reads name's content from r and extracts its answer pairs. The file
// extension selects the reader: .xlsx and .xlsm are workbooks, .csv and .txt
// are either processed answers or raw delimited rows.
func Ingest(name string, r io.Reader) (*Result, error) {
	ext := strings.ToLower(filepath.Ext(name))
	res := &Result{
		Source:    filepath.Base(name),
		Candidate: CandidateFromFile(name),
	}

	switch ext {
	case ".xlsx", ".xlsm":
		rows, sheet, err := ReadWorkbook(r)
		if err != nil {
			return nil, errors.Wrapf(err, "error reading %s", res.Source)
		}
		res.Kind = KindWorkbook
		res.Sheet = sheet
		res.Pairs = extract.Rows(rows)
	case ".csv", ".txt":
		b, err := io.ReadAll(r)
		if err != nil {
			return nil, errors.Wrapf(err, "error reading %s", res.Source)
		}
		res.Kind, res.Pairs = readText(string(b))
	default:
		return nil, errors.Wrapf(ErrUnsupportedFormat, "file %s (%s)", res.Source, ext)
	}

	if len(res.Pairs) == 0 {
		return nil, errors.Wrapf(ErrNoUsableRows, "file %s", res.Source)
	}

	slog.Debug("ingested file",
		"source", res.Source,
		"kind", res.Kind,
		"pairs", len(res.Pairs))

	return res, nil
}

func readText(text string) (Kind, []answer.ScoredStatement) {
	if len(answer.Decode(text)) > ProcessedThreshold {
		return KindProcessed, answer.DecodePairs(text)
	}
	return KindRows, extract.Rows(SplitRows(text))
}

// SplitRows splits delimited text into rows. Quoted cells are honored where
// the text parses as CSV. Otherwise every line is split on commas.
func SplitRows(text string) []extract.Row {
	text = strings.ReplaceAll(text, "\r", "")

	cr := csv.NewReader(bytes.NewBufferString(text))
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err == nil {
		return extract.StringRows(records)
	}

	slog.Debug("text is not valid CSV, splitting on commas", "error", err)

	lines := strings.Split(text, "\n")
	records = make([][]string, 0, len(lines))
	for _, l := range lines {
		records = append(records, strings.Split(l, ","))
	}
	return extract.StringRows(records)
}

// CandidateFromFile derives a candidate name from a file path by dropping
// the directory and extension.
func CandidateFromFile(name string) string {
	base := filepath.Base(name)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.TrimPrefix(base, "processed_")
	if base == "" || base == "." {
		return defaultCandidate
	}
	return base
}

// ProcessedFileName returns processed_<candidate>.csv with characters that
// are unsafe in file names replaced.
func ProcessedFileName(candidate string) string {
	if strings.TrimSpace(candidate) == "" {
		candidate = defaultCandidate
	}
	return "processed_" + unsafeFileChars.ReplaceAllString(candidate, "_") + ".csv"
}
