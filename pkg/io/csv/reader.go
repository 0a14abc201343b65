// Package csv reads range profiles from and writes decisions to CSV files.
package csv

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Reader reads range profiles from CSV files.
//
// In row mode (the default) every record is one profile. With WithColumn
// the chosen column of every record forms a single profile.
type Reader struct {
	file      *os.File
	reader    *csv.Reader
	hasHeader bool
	headers   []string
	column    int

	// err ends a row-mode Stream; read it through Err.
	err error
}

// Option configures a CSV reader.
type Option func(*Reader)

// WithHeader indicates the CSV has a header row.
func WithHeader(has bool) Option {
	return func(r *Reader) {
		r.hasHeader = has
	}
}

// WithColumn reads column i of every record as one profile.
func WithColumn(i int) Option {
	return func(r *Reader) {
		r.column = i
	}
}

// NewReader creates a new CSV reader.
func NewReader(filename string, opts ...Option) (*Reader, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	r := newReader(file, opts...)
	r.file = file

	if err := r.readHeader(); err != nil {
		file.Close()
		return nil, err
	}

	return r, nil
}

// NewReaderFrom creates a CSV reader over src. Close does not close src.
func NewReaderFrom(src io.Reader, opts ...Option) (*Reader, error) {
	r := newReader(src, opts...)
	if err := r.readHeader(); err != nil {
		return nil, err
	}
	return r, nil
}

func newReader(src io.Reader, opts ...Option) *Reader {
	r := &Reader{
		reader:    csv.NewReader(src),
		hasHeader: false,
		column:    -1,
	}
	r.reader.FieldsPerRecord = -1
	r.reader.TrimLeadingSpace = true
	r.reader.Comment = '#'

	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Reader) readHeader() error {
	if !r.hasHeader {
		return nil
	}
	headers, err := r.reader.Read()
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}
	r.headers = headers
	return nil
}

// Headers returns the column headers.
func (r *Reader) Headers() []string {
	return r.headers
}

// Read returns every profile in the file.
func (r *Reader) Read() ([][]float64, error) {
	if r.column >= 0 {
		profile, err := r.readColumn()
		if err != nil {
			return nil, err
		}
		return [][]float64{profile}, nil
	}

	var data [][]float64
	for {
		row, err := r.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		data = append(data, row)
	}

	return data, nil
}

func (r *Reader) readColumn() ([]float64, error) {
	var profile []float64
	for {
		record, err := r.reader.Read()
		if err == io.EOF {
			return profile, nil
		}
		if err != nil {
			return nil, err
		}
		line, _ := r.reader.FieldPos(0)
		if r.column >= len(record) {
			return nil, fmt.Errorf("line %d: no column %d", line, r.column)
		}
		v, err := parseCell(record[r.column])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		profile = append(profile, v)
	}
}

// next returns the next record as a profile.
func (r *Reader) next() ([]float64, error) {
	record, err := r.reader.Read()
	if err != nil {
		return nil, err
	}
	line, _ := r.reader.FieldPos(0)
	row, err := parseRow(record)
	if err != nil {
		return nil, fmt.Errorf("line %d: %w", line, err)
	}
	return row, nil
}

// Stream returns a channel of profiles for real-time processing.
// A malformed record ends the stream; Err reports it once the channel is
// closed.
func (r *Reader) Stream(ctx context.Context) (<-chan []float64, error) {
	if r.column >= 0 {
		profile, err := r.readColumn()
		if err != nil {
			return nil, err
		}
		out := make(chan []float64, 1)
		out <- profile
		close(out)
		return out, nil
	}

	out := make(chan []float64, 16)

	go func() {
		defer close(out)
		for {
			row, err := r.next()
			if err == io.EOF {
				return
			}
			if err != nil {
				r.err = err
				return
			}

			select {
			case out <- row:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

// Err returns the error that ended the last Stream, or nil if it reached the
// end of the input or was cancelled. It is only valid after the stream
// channel has been closed.
func (r *Reader) Err() error {
	return r.err
}

// Close releases resources.
func (r *Reader) Close() error {
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}

// parseRow converts a record to a profile. Every cell must parse, since a
// dropped cell would shift every later index.
func parseRow(record []string) ([]float64, error) {
	if len(record) == 0 {
		return nil, errors.New("empty row")
	}

	row := make([]float64, len(record))
	for i, val := range record {
		f, err := parseCell(val)
		if err != nil {
			return nil, fmt.Errorf("column %d: %w", i, err)
		}
		row[i] = f
	}
	return row, nil
}

func parseCell(val string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(val), 64)
}
