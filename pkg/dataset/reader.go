package dataset

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/quantbed/lobwin/pkg/model"
)

// Split files are whitespace-delimited plain text, one matrix row per
// line. Lines can run to megabytes for long days, so the scanner buffer
// is sized generously.
const maxLineBytes = 64 << 20

// ReadMatrix parses a whitespace-delimited text matrix into a RawMatrix.
// Every row must have the same number of columns and the row count must
// match the benchmark format (40 feature rows + 5 label rows).
func ReadMatrix(r io.Reader) (*model.RawMatrix, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 1<<20), maxLineBytes)

	var data []float64
	rows, cols := 0, -1
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue // blank line
		}
		if cols < 0 {
			cols = len(fields)
		} else if len(fields) != cols {
			return nil, fmt.Errorf("row %d has %d columns, want %d", rows, len(fields), cols)
		}
		for c, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %d: %w", rows, c, err)
			}
			data = append(data, v)
		}
		rows++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan matrix: %w", err)
	}
	if rows != model.TotalRows {
		return nil, &model.ShapeError{WantRows: model.TotalRows, GotRows: rows}
	}
	return model.NewRawMatrix(rows, cols, data)
}

// LoadFile reads one split/day-batch file.
func LoadFile(path string) (*model.RawMatrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open split file: %w", err)
	}
	defer f.Close()

	m, err := ReadMatrix(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// LoadFiles reads several split files and concatenates them column-wise in
// argument order. Columns are time-ordered, so callers must pass paths in
// chronological order.
func LoadFiles(paths ...string) (*model.RawMatrix, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no split files given")
	}
	matrices := make([]*model.RawMatrix, len(paths))
	for i, path := range paths {
		m, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		matrices[i] = m
	}
	return model.HStack(matrices...)
}
