package report

import (
	"io"

	"github.com/nao1215/txdig/internal/model"
)

// Writer defines the interface for report output.
// Implementations render the result of either mode in one format.
type Writer interface {
	// WriteAddress outputs an address mode report.
	WriteAddress(report *model.AddressReport) (int, error)

	// WriteDig outputs a dig mode result.
	WriteDig(result *model.DigResult) (int, error)
}

// MultiWriter writes to multiple Writers in order.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// WriteAddress outputs the report to all Writers.
// Stops on first error encountered.
func (m *MultiWriter) WriteAddress(report *model.AddressReport) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.WriteAddress(report)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// WriteDig outputs the result to all Writers.
// Stops on first error encountered.
func (m *MultiWriter) WriteDig(result *model.DigResult) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.WriteDig(result)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
