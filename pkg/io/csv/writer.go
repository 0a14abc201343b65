package csv

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	gio "github.com/hed1ad/gocfar/pkg/io"
)

var header = []string{"frame", "index", "value", "noise", "threshold", "status", "intensity"}

// Writer writes one CSV record per cell.
type Writer struct {
	file        *os.File
	writer      *csv.Writer
	wroteHeader bool
}

// NewWriter creates filename and returns a writer for it.
func NewWriter(filename string) (*Writer, error) {
	file, err := os.Create(filename)
	if err != nil {
		return nil, err
	}
	w := NewWriterTo(file)
	w.file = file
	return w, nil
}

// NewWriterTo returns a writer over dst. Close flushes but does not close dst.
func NewWriterTo(dst io.Writer) *Writer {
	return &Writer{writer: csv.NewWriter(dst)}
}

// Write outputs a single result.
func (w *Writer) Write(result gio.Result) error {
	if !w.wroteHeader {
		if err := w.writer.Write(header); err != nil {
			return err
		}
		w.wroteHeader = true
	}

	intensity := ""
	if result.Intensity != nil {
		intensity = formatFloat(*result.Intensity)
	}

	return w.writer.Write([]string{
		strconv.Itoa(result.Frame),
		strconv.Itoa(result.Index),
		formatFloat(result.Value),
		formatFloat(result.Noise),
		formatFloat(result.Threshold),
		result.Status,
		intensity,
	})
}

// WriteAll outputs multiple results.
func (w *Writer) WriteAll(results []gio.Result) error {
	for _, r := range results {
		if err := w.Write(r); err != nil {
			return err
		}
	}
	w.writer.Flush()
	return w.writer.Error()
}

// Close flushes buffered records and releases resources.
func (w *Writer) Close() error {
	w.writer.Flush()
	if err := w.writer.Error(); err != nil {
		return err
	}
	if w.file != nil {
		return w.file.Close()
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
