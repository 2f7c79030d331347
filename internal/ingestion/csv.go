// Package ingestion loads raw CSV files into tables. It is the external
// I/O collaborator of the pipeline: the core packages themselves never
// touch the filesystem.
package ingestion

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"trader-sentiment-lab/internal/table"
)

// ErrEmptyFile is returned when a CSV source has no header row.
var ErrEmptyFile = errors.New("csv source is empty")

// ReadCSV parses CSV data into a table. The first record is the header;
// ragged rows are tolerated (short rows are padded downstream).
func ReadCSV(r io.Reader) (*table.Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", len(rows)+2, err)
		}
		rows = append(rows, record)
	}

	return table.New(header, rows), nil
}

// LoadCSVFile reads a CSV file from disk into a table.
func LoadCSVFile(path string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	t, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return t, nil
}
