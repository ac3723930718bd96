package sheet

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"vtuportal/internal/domain"
)

// Header is the first row of the result sheet, in column order.
var Header = []string{"Student Name", "USN", "SGPA", "Semester Label", "Last Updated"}

const (
	colName = iota + 1
	colUSN
	colSGPA
	colSemester
	colUpdated
)

// ContentType is the MIME type the workbook is stored under.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// workbook is one decoded revision of the stored file.
type workbook struct {
	file  *excelize.File
	sheet string
	etag  string // empty when the object does not exist yet
	rows  []domain.ResultRow
	// next is the RowIndex an appended row receives.
	next int64
}

func newWorkbook(sheet string) (*workbook, error) {
	f := excelize.NewFile()
	if def := f.GetSheetName(0); def != sheet {
		if err := f.SetSheetName(def, sheet); err != nil {
			f.Close()
			return nil, fmt.Errorf("naming sheet: %w", err)
		}
	}
	wb := &workbook{file: f, sheet: sheet, next: 1}
	if err := wb.writeHeader(); err != nil {
		f.Close()
		return nil, err
	}
	return wb, nil
}

// openWorkbook decodes data and reads every row of sheet. A missing sheet or
// an empty one is initialised with the header; any other first row fails
// with domain.ErrInvalidSheet.
func openWorkbook(data []byte, etag, sheet string, logger *zap.Logger) (*workbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidSheet, err)
	}
	wb := &workbook{file: f, sheet: sheet, etag: etag, next: 1}

	idx, err := f.GetSheetIndex(sheet)
	if err != nil || idx < 0 {
		if _, err := f.NewSheet(sheet); err != nil {
			f.Close()
			return nil, fmt.Errorf("creating sheet %q: %w", sheet, err)
		}
		if err := wb.writeHeader(); err != nil {
			f.Close()
			return nil, err
		}
		return wb, nil
	}

	raw, err := f.GetRows(sheet)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}
	if len(raw) == 0 {
		if err := wb.writeHeader(); err != nil {
			f.Close()
			return nil, err
		}
		return wb, nil
	}
	if !isHeader(raw[0]) {
		f.Close()
		return nil, fmt.Errorf("%w: got %q", domain.ErrInvalidSheet, raw[0])
	}

	for i, cells := range raw[1:] {
		rowIndex := int64(i + 1)
		row, ok := parseRow(cells, rowIndex, logger)
		if ok {
			wb.rows = append(wb.rows, row)
		}
	}
	wb.next = int64(len(raw))
	return wb, nil
}

func isHeader(cells []string) bool {
	if len(cells) < len(Header) {
		return false
	}
	for i, h := range Header {
		if strings.TrimSpace(cells[i]) != h {
			return false
		}
	}
	return true
}

func cell(cells []string, col int) string {
	if col-1 < len(cells) {
		return strings.TrimSpace(cells[col-1])
	}
	return ""
}

// parseRow skips blank rows. Unparseable SGPA or timestamp cells are logged
// and left zero so the row still answers lookups by USN.
func parseRow(cells []string, rowIndex int64, logger *zap.Logger) (domain.ResultRow, bool) {
	row := domain.ResultRow{
		RowIndex:      rowIndex,
		Name:          cell(cells, colName),
		ExternalID:    cell(cells, colUSN),
		SemesterLabel: cell(cells, colSemester),
	}
	if row.ExternalID == "" {
		return row, false
	}
	if v := cell(cells, colSGPA); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			logger.Warn("unparseable sgpa cell", zap.Int64("row", rowIndex), zap.String("value", v))
		} else {
			row.SGPA = d
		}
	}
	if v := cell(cells, colUpdated); v != "" {
		ts, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			logger.Warn("unparseable last updated cell", zap.Int64("row", rowIndex), zap.String("value", v))
		} else {
			row.LastUpdated = ts.UTC()
		}
	}
	return row, true
}

func (wb *workbook) writeHeader() error {
	values := make([]interface{}, len(Header))
	for i, h := range Header {
		values[i] = h
	}
	if err := wb.file.SetSheetRow(wb.sheet, "A1", &values); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	return nil
}

// find returns the position in wb.rows of the first row for usn and
// semesterLabel, or -1.
func (wb *workbook) find(usn, semesterLabel string) int {
	for i := range wb.rows {
		if wb.rows[i].ExternalID == usn && wb.rows[i].SemesterLabel == semesterLabel {
			return i
		}
	}
	return -1
}

func sheetRow(rowIndex int64) int { return int(rowIndex) + 1 }

// update rewrites only the SGPA and Last Updated cells of row.
func (wb *workbook) update(row domain.ResultRow) error {
	r := sheetRow(row.RowIndex)
	sgpaCell, err := excelize.CoordinatesToCellName(colSGPA, r)
	if err != nil {
		return err
	}
	if err := wb.file.SetCellFloat(wb.sheet, sgpaCell, row.SGPA.InexactFloat64(), 2, 64); err != nil {
		return fmt.Errorf("writing %s: %w", sgpaCell, err)
	}
	updatedCell, err := excelize.CoordinatesToCellName(colUpdated, r)
	if err != nil {
		return err
	}
	if err := wb.file.SetCellStr(wb.sheet, updatedCell, formatTime(row.LastUpdated)); err != nil {
		return fmt.Errorf("writing %s: %w", updatedCell, err)
	}
	return nil
}

// appendRow writes row at wb.next and sets its RowIndex.
func (wb *workbook) appendRow(row *domain.ResultRow) error {
	row.RowIndex = wb.next
	start, err := excelize.CoordinatesToCellName(colName, sheetRow(row.RowIndex))
	if err != nil {
		return err
	}
	values := []interface{}{
		row.Name,
		row.ExternalID,
		row.SGPA.InexactFloat64(),
		row.SemesterLabel,
		formatTime(row.LastUpdated),
	}
	if err := wb.file.SetSheetRow(wb.sheet, start, &values); err != nil {
		return fmt.Errorf("appending row %d: %w", row.RowIndex, err)
	}
	wb.rows = append(wb.rows, *row)
	wb.next++
	return nil
}

func (wb *workbook) encode() ([]byte, error) {
	buf, err := wb.file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("encoding workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func (wb *workbook) close() {
	_ = wb.file.Close()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
