// Package spreadsheet reads measurement batches from and writes assessment
// history to xlsx workbooks.
package spreadsheet

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/bibbank/cardiorisk/internal/application/dto"
	"github.com/bibbank/cardiorisk/internal/domain/valueobject"
)

type column int

const (
	colPatientRef column = iota
	colAge
	colBloodPressure
	colCholesterol
	colBMI
	colSmoking
	colAssessedOn
	numColumns
)

var columnNames = [numColumns]string{
	colPatientRef:    "ID",
	colAge:           "Usia",
	colBloodPressure: "TekananDarah",
	colCholesterol:   "Kolesterol",
	colBMI:           "BMI",
	colSmoking:       "Merokok",
	colAssessedOn:    "Tanggal",
}

// headerAliases maps a normalized header to its column. Normalization
// lowercases and drops spaces, underscores and dashes.
var headerAliases = map[string]column{
	"id":            colPatientRef,
	"patientref":    colPatientRef,
	"usia":          colAge,
	"age":           colAge,
	"tekanandarah":  colBloodPressure,
	"bloodpressure": colBloodPressure,
	"kolesterol":    colCholesterol,
	"cholesterol":   colCholesterol,
	"bmi":           colBMI,
	"merokok":       colSmoking,
	"smokingyears":  colSmoking,
	"tanggal":       colAssessedOn,
	"assessedon":    colAssessedOn,
}

func normalizeHeader(h string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '_', '-':
			return -1
		}
		return r
	}, strings.ToLower(strings.TrimSpace(h)))
}

// ReadRows parses the first sheet of an xlsx workbook. The first row is the
// header; ID, Usia, TekananDarah, Kolesterol, BMI and Merokok are required,
// Tanggal is optional and unknown columns are ignored. Blank cells come back
// as nil and unparseable numbers as NaN so that row validation rejects them.
// Fully blank rows are skipped.
//
// Cells are read as stored, not as displayed, so a date-formatted Tanggal
// arrives as a serial number and is converted to YYYY-MM-DD.
func ReadRows(r io.Reader) ([]dto.ImportRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: spreadsheet: open workbook: %v", valueobject.ErrInvalidInput, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: spreadsheet: workbook has no sheets", valueobject.ErrInvalidInput)
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("spreadsheet: read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: spreadsheet: sheet %q is empty", valueobject.ErrInvalidInput, sheets[0])
	}

	index, err := mapHeader(rows[0])
	if err != nil {
		return nil, err
	}

	out := make([]dto.ImportRow, 0, len(rows)-1)
	for i, cells := range rows[1:] {
		if isBlank(cells) {
			continue
		}
		cell := func(c column) string {
			idx := index[c]
			if idx < 0 || idx >= len(cells) {
				return ""
			}
			return strings.TrimSpace(cells[idx])
		}
		out = append(out, dto.ImportRow{
			Row:        i + 2,
			PatientRef: cell(colPatientRef),
			AssessedOn: parseDate(cell(colAssessedOn)),
			MeasurementInput: dto.MeasurementInput{
				Age:           parseNumber(cell(colAge)),
				BloodPressure: cell(colBloodPressure),
				Cholesterol:   parseNumber(cell(colCholesterol)),
				BMI:           parseNumber(cell(colBMI)),
				SmokingYears:  parseNumber(cell(colSmoking)),
			},
		})
	}
	return out, nil
}

func mapHeader(header []string) ([numColumns]int, error) {
	var index [numColumns]int
	for i := range index {
		index[i] = -1
	}
	for i, h := range header {
		if c, ok := headerAliases[normalizeHeader(h)]; ok && index[c] < 0 {
			index[c] = i
		}
	}

	var missing []string
	for c := column(0); c < numColumns; c++ {
		if c == colAssessedOn {
			continue
		}
		if index[c] < 0 {
			missing = append(missing, columnNames[c])
		}
	}
	if len(missing) > 0 {
		return index, fmt.Errorf("%w: spreadsheet: missing columns %s", valueobject.ErrInvalidInput, strings.Join(missing, ", "))
	}
	return index, nil
}

// parseNumber accepts "27.5" and the comma decimal "27,5".
func parseNumber(s string) *float64 {
	if s == "" {
		return nil
	}
	if !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		v = math.NaN()
	}
	return &v
}

// parseDate turns a date cell's serial number into the wire layout. Text
// cells are passed through for request validation to judge.
func parseDate(s string) string {
	serial, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return s
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return s
	}
	return t.Format(dto.DateLayout)
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
