// Package export encodes persisted result rows as CSV or XLSX downloads.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"vtuportal/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns matches the shared result table.
var columns = []string{
	"Student Name",
	"USN",
	"SGPA",
	"Semester Label",
	"Last Updated",
}

// RowWriter streams result rows in one export format.
// Close must be called to flush buffered output.
type RowWriter interface {
	WriteHeader() error
	WriteRows(rows []domain.ResultRow) error
	Close() error
}

// NewWriter returns a RowWriter for format writing to w.
func NewWriter(w io.Writer, format domain.ExportFormat) (RowWriter, error) {
	switch format {
	case domain.ExportCSV:
		return NewCSVWriter(w), nil
	case domain.ExportXLSX:
		return NewXLSXWriter(w, "Results")
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, format)
	}
}

// ParseFormat maps a query value to an ExportFormat. Empty means CSV.
func ParseFormat(s string) (domain.ExportFormat, error) {
	switch f := domain.ExportFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return domain.ExportCSV, nil
	case domain.ExportCSV, domain.ExportXLSX:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, s)
	}
}

// ContentType returns the MIME type of format.
func ContentType(format domain.ExportFormat) string {
	if format == domain.ExportXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// CSVWriter wraps csv.Writer for exporting result rows as CSV.
type CSVWriter struct {
	out io.Writer
	csv *csv.Writer
}

// NewCSVWriter creates a CSVWriter that writes to w.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{out: w, csv: csv.NewWriter(w)}
}

// WriteHeader writes the BOM and the header row.
func (w *CSVWriter) WriteHeader() error {
	if _, err := w.out.Write(BOM); err != nil {
		return err
	}
	return w.csv.Write(columns)
}

// WriteRows converts a batch of rows and writes them.
func (w *CSVWriter) WriteRows(rows []domain.ResultRow) error {
	for i := range rows {
		if err := w.csv.Write(rowToStrings(&rows[i])); err != nil {
			return err
		}
	}
	return nil
}

// Close flushes the csv.Writer and reports any buffered error.
func (w *CSVWriter) Close() error {
	w.csv.Flush()
	return w.csv.Error()
}

// XLSXWriter streams rows into a single-sheet workbook written on Close.
type XLSXWriter struct {
	out    io.Writer
	file   *excelize.File
	stream *excelize.StreamWriter
	next   int
}

// NewXLSXWriter creates an XLSXWriter with one sheet named sheet.
func NewXLSXWriter(w io.Writer, sheet string) (*XLSXWriter, error) {
	f := excelize.NewFile()
	if def := f.GetSheetName(0); def != sheet {
		if err := f.SetSheetName(def, sheet); err != nil {
			f.Close()
			return nil, fmt.Errorf("naming sheet: %w", err)
		}
	}
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("opening stream writer: %w", err)
	}
	return &XLSXWriter{out: w, file: f, stream: sw, next: 1}, nil
}

func (w *XLSXWriter) setRow(values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, w.next)
	if err != nil {
		return err
	}
	if err := w.stream.SetRow(cell, values); err != nil {
		return err
	}
	w.next++
	return nil
}

// WriteHeader writes the header row.
func (w *XLSXWriter) WriteHeader() error {
	values := make([]interface{}, len(columns))
	for i, c := range columns {
		values[i] = c
	}
	return w.setRow(values)
}

// WriteRows appends a batch of rows. SGPA is written as a number.
func (w *XLSXWriter) WriteRows(rows []domain.ResultRow) error {
	for i := range rows {
		r := &rows[i]
		if err := w.setRow([]interface{}{
			r.Name,
			r.ExternalID,
			r.SGPA.InexactFloat64(),
			r.SemesterLabel,
			formatTime(r.LastUpdated),
		}); err != nil {
			return err
		}
	}
	return nil
}

// Close flushes the stream and writes the workbook to the underlying writer.
func (w *XLSXWriter) Close() error {
	defer w.file.Close()
	if err := w.stream.Flush(); err != nil {
		return fmt.Errorf("flushing sheet: %w", err)
	}
	if err := w.file.Write(w.out); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func rowToStrings(r *domain.ResultRow) []string {
	return []string{
		r.Name,
		r.ExternalID,
		r.SGPA.StringFixed(2),
		r.SemesterLabel,
		formatTime(r.LastUpdated),
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a name for use in Content-Disposition.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns {sanitized_name}_{YYYY-MM-DD}.{format}.
func BuildFilename(name string, format domain.ExportFormat, now time.Time) string {
	return fmt.Sprintf("%s_%s.%s", SanitizeFilename(name), now.Format("2006-01-02"), format)
}
