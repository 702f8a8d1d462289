// Package dataset loads tensile test measurement records from CSV files
// with columns `id,yield_MPa`.
package dataset

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/pkg/errors"

	"github.com/tensio-x/tensio/pkg/stats"
)

// Record is one tensile test measurement.
type Record struct {
	ID       int     `json:"id"`
	YieldMPa float64 `json:"yield_MPa"`
}

// LoadCSV reads measurement records from path. The first row must be the
// `id,yield_MPa` header; an empty data section is an error because every
// downstream computation needs at least one measurement.
func LoadCSV(path string) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening measurement file %s failed", path)
	}
	defer file.Close()
	records, err := Read(file)
	return records, errors.Wrapf(err, "reading measurement file %s failed", path)
}

// Read parses measurement records from r.
func Read(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 2

	header, err := reader.Read()
	if err != nil {
		return nil, errors.Wrap(err, "could not read CSV header")
	}
	if header[0] != "id" || header[1] != "yield_MPa" {
		return nil, errors.Errorf("unexpected CSV header %v, want [id yield_MPa]", header)
	}

	var records []Record
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "could not read CSV line %d", line)
		}
		id, err := strconv.Atoi(row[0])
		if err != nil {
			return nil, errors.Wrapf(err, "bad id %q on line %d", row[0], line)
		}
		yield, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			return nil, errors.Wrapf(err, "bad yield_MPa %q on line %d", row[1], line)
		}
		records = append(records, Record{ID: id, YieldMPa: yield})
	}
	if len(records) == 0 {
		return nil, &stats.InsufficientDataError{Stage: "measurement CSV", Size: 0, Min: 1}
	}
	return records, nil
}

// Yields extracts the measured strengths in record order.
func Yields(records []Record) []float64 {
	out := make([]float64, len(records))
	for i, r := range records {
		out[i] = r.YieldMPa
	}
	return out
}
