// Package sheet turns uploaded questionnaire files into answer pairs.
package sheet

import (
	"io"
	"log/slog"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/mchmarny/hiscore/pkg/extract"
)

var (
	// ErrAnalysisSheet is returned when the leftmost worksheet looks like an
	// already scored analysis tab rather than raw answers.
	ErrAnalysisSheet = errors.New("analysis sheet")

	// ErrEmptyWorkbook is returned when the workbook has no worksheets.
	ErrEmptyWorkbook = errors.New("workbook has no worksheets")

	scoredSheetMarkers = []string{"analysis", "score"}
)

// CheckSheetName fails with ErrAnalysisSheet when name contains one of the
// markers of a scored sheet, ignoring case.
func CheckSheetName(name string) error {
	lower := strings.ToLower(name)
	for _, m := range scoredSheetMarkers {
		if strings.Contains(lower, m) {
			return errors.Wrapf(ErrAnalysisSheet,
				"leftmost worksheet %q looks like the analysis-score tab; move the raw sheet to the left and retry", name)
		}
	}
	return nil
}

// ReadWorkbook returns the rows of the leftmost worksheet of an xlsx
// workbook along with the sheet name. The sheet name is checked before any
// row is read.
func ReadWorkbook(r io.Reader) ([]extract.Row, string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, "", errors.Wrap(err, "error opening workbook")
	}
	defer func() {
		if err := f.Close(); err != nil {
			slog.Debug("error closing workbook", "error", err)
		}
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, "", ErrEmptyWorkbook
	}

	name := sheets[0]
	if err := CheckSheetName(name); err != nil {
		return nil, name, err
	}

	cells, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, name, errors.Wrapf(err, "error reading rows from sheet %s", name)
	}

	slog.Debug("read workbook", "sheet", name, "rows", len(cells))

	return extract.StringRows(cells), name, nil
}
