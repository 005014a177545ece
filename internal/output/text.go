package output

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// TextWriter writes each item in its human-readable form: the String
// method when it has one, fmt's %v otherwise.
type TextWriter struct {
	w *bufio.Writer
}

// NewTextWriter creates a text writer.
func NewTextWriter(w io.Writer) *TextWriter {
	return &TextWriter{w: bufio.NewWriter(w)}
}

// Write writes a single item followed by a newline.
func (w *TextWriter) Write(data any) error {
	s := fmt.Sprint(data)
	if _, err := w.w.WriteString(s); err != nil {
		return err
	}
	if !strings.HasSuffix(s, "\n") {
		if err := w.w.WriteByte('\n'); err != nil {
			return err
		}
	}
	return w.w.Flush()
}

// WriteAll writes multiple items.
func (w *TextWriter) WriteAll(data []any) error {
	for _, item := range data {
		if err := w.Write(item); err != nil {
			return err
		}
	}
	return nil
}

func (w *TextWriter) Flush() error { return w.w.Flush() }
func (w *TextWriter) Close() error { return w.Flush() }
