package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/churngrid/pkg/errors"
)

// ReadCSVFile loads a Table from a CSV file with a header row.
func ReadCSVFile(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open dataset file %s", path)
	}
	defer file.Close()

	return ReadCSV(file)
}

// ReadCSV loads a Table from CSV data with a header row. Every cell must
// be numeric or a recognized boolean word (yes/no, true/false, case
// insensitive, with or without a trailing period). Boolean columns are
// mapped to 1/0 and reported once per column through a
// DataConversionWarning.
func ReadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.NewModelError("dataset.ReadCSV", "empty input", errors.ErrEmptyData)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to read CSV header")
	}

	columns := make([]string, len(header))
	for i, name := range header {
		columns[i] = strings.TrimSpace(name)
	}

	var values []float64
	converted := make(map[int]bool)
	rows := 0

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Ragged rows surface here as csv.ErrFieldCount.
			return nil, errors.Wrapf(err, "failed to read CSV row %d", rows+1)
		}

		for j, cell := range record {
			v, wasBool, err := parseCell(cell)
			if err != nil {
				return nil, errors.NewValueError("dataset.ReadCSV",
					fmt.Sprintf("cannot parse cell %q at row %d, column %q", cell, rows+1, columns[j]))
			}
			if wasBool {
				converted[j] = true
			}
			values = append(values, v)
		}
		rows++
	}

	if rows == 0 {
		return nil, errors.NewModelError("dataset.ReadCSV", "no data rows", errors.ErrEmptyData)
	}

	for j, name := range columns {
		if converted[j] {
			errors.Warn(errors.NewDataConversionWarning("string", "float64",
				fmt.Sprintf("boolean values in column %q mapped to 1/0", name)))
		}
	}

	return New(columns, mat.NewDense(rows, len(columns), values))
}

// parseCell converts one CSV cell to a float64. wasBool reports whether
// the value came from a boolean word rather than a number.
func parseCell(cell string) (v float64, wasBool bool, err error) {
	s := strings.TrimSpace(cell)
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v, false, nil
	}

	// The churn export writes the label column as "True." / "False.".
	switch strings.TrimSuffix(strings.ToLower(s), ".") {
	case "yes", "true":
		return 1, true, nil
	case "no", "false":
		return 0, true, nil
	}

	return 0, false, fmt.Errorf("not a number or boolean: %q", cell)
}
