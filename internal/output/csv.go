package output

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/UnknownOlympus/geobatch/internal/models"
	"github.com/jszwec/csvutil"
)

// CSVWriter encodes output records as CSV rows, flushing after every record so
// that partial output survives an interrupted run.
type CSVWriter struct {
	writer  *csv.Writer
	encoder *csvutil.Encoder
}

// NewCSVWriter creates a writer over dst.
func NewCSVWriter(dst io.Writer) *CSVWriter {
	writer := csv.NewWriter(dst)
	return &CSVWriter{
		writer:  writer,
		encoder: csvutil.NewEncoder(writer),
	}
}

// WriteHeader writes the header row. Calling it is optional: the first record
// writes the header otherwise, but an empty run then produces no output at all.
func (cw *CSVWriter) WriteHeader() error {
	if err := cw.encoder.EncodeHeader(models.OutputRecord{}); err != nil {
		return fmt.Errorf("failed to encode csv header: %w", err)
	}

	return cw.Flush()
}

// Write encodes one record and flushes it.
func (cw *CSVWriter) Write(record models.OutputRecord) error {
	if err := cw.encoder.Encode(record); err != nil {
		return fmt.Errorf("failed to encode record for %q: %w", record.Address, err)
	}

	return cw.Flush()
}

// Flush pushes buffered rows to the underlying writer.
func (cw *CSVWriter) Flush() error {
	cw.writer.Flush()
	if err := cw.writer.Error(); err != nil {
		return fmt.Errorf("failed to flush csv output: %w", err)
	}

	return nil
}
