// Package dataset loads the cleaned holder metrics CSV and pulls out the
// date and cumulative-count columns in file order.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	logging "iacs-holders/internal/infra/log"

	"go.uber.org/zap"
)

// Series holds two index-aligned columns: Counts[i] belongs to Dates[i].
type Series struct {
	Dates  []string
	Counts []float64
}

func (s *Series) Len() int { return len(s.Dates) }

// Load reads path and returns the dateColumn and countColumn values.
// Rows keep file order. Date strings are kept verbatim; an empty count
// cell becomes NaN so the chart can leave a gap.
func Load(path, dateColumn, countColumn string) (*Series, error) {
	start := time.Now()

	f, err := os.Open(path)
	if err != nil {
		return nil, &DataLoadError{Path: path, Err: err}
	}
	defer f.Close()

	series, err := Read(f, path, dateColumn, countColumn)
	if err != nil {
		logging.LogError("Failed to load dataset", zap.String("path", path), zap.Error(err))
		return nil, err
	}

	logging.LogInfo("Dataset loaded",
		zap.String("path", path),
		zap.Int("rows", series.Len()),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()))
	return series, nil
}

// Read parses CSV from r. name is only used in error messages.
func Read(r io.Reader, name, dateColumn, countColumn string) (*Series, error) {
	reader := csv.NewReader(r)
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, &DataLoadError{Path: name, Err: errors.New("file is empty, header row expected")}
	}
	if err != nil {
		return nil, &DataLoadError{Path: name, Line: lineOf(err), Err: err}
	}
	header = append([]string(nil), header...)
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	dateIdx := columnIndex(header, dateColumn)
	if dateIdx < 0 {
		return nil, &MissingColumnError{Path: name, Column: dateColumn, Header: header}
	}
	countIdx := columnIndex(header, countColumn)
	if countIdx < 0 {
		return nil, &MissingColumnError{Path: name, Column: countColumn, Header: header}
	}

	series := &Series{Dates: []string{}, Counts: []float64{}}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &DataLoadError{Path: name, Line: lineOf(err), Err: err}
		}

		count, err := parseCount(row[countIdx])
		if err != nil {
			line, _ := reader.FieldPos(countIdx)
			return nil, &DataLoadError{
				Path: name,
				Line: line,
				Err:  fmt.Errorf("column %q: %w", countColumn, err),
			}
		}

		series.Dates = append(series.Dates, row[dateIdx])
		series.Counts = append(series.Counts, count)
	}
	return series, nil
}

func columnIndex(header []string, name string) int {
	for i, h := range header {
		if h == name {
			return i
		}
	}
	return -1
}

// naMarkers are the spellings of a missing value that spreadsheet and
// dataframe exports leave in cleaned CSVs. Each reads as NaN.
var naMarkers = map[string]struct{}{
	"": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {},
	"NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {}, "nan": {}, "null": {},
}

func parseCount(raw string) (float64, error) {
	v := strings.TrimSpace(raw)
	if _, ok := naMarkers[v]; ok {
		return math.NaN(), nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("value %q is not numeric", raw)
	}
	return f, nil
}

func lineOf(err error) int {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return pe.Line
	}
	return 0
}
