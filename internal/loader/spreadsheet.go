package loader

import (
	"fmt"
	"io"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/reportmap/internal/table"
)

// readXLSX reads the first sheet of an Office Open XML workbook.
func readXLSX(r io.Reader) (*table.Table, error) {
	wb, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoColumns
	}

	rows, err := wb.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return sheetTable(rows)
}

// readXLS reads the first sheet of a legacy BIFF workbook.
func readXLS(rs io.ReadSeeker) (t *table.Table, err error) {
	// The BIFF parser panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			t, err = nil, fmt.Errorf("open workbook: %v", r)
		}
	}()

	wb, err := xls.OpenReader(rs, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	if wb.NumSheets() == 0 {
		return nil, ErrNoColumns
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, ErrNoColumns
	}

	var rows [][]string
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cells := make([]string, row.LastCol())
		for j := range cells {
			cells[j] = row.Col(j)
		}
		rows = append(rows, cells)
	}
	return sheetTable(rows)
}

// sheetTable treats the first row as the header and drops blank data rows.
// Data rows wider than the header add unnamed columns. Unlike delimited text,
// sheet cells may become datetime columns.
func sheetTable(rows [][]string) (*table.Table, error) {
	if len(rows) == 0 || isBlankRow(rows[0]) {
		return nil, ErrNoColumns
	}

	width := 0
	var data [][]string
	for _, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		data = append(data, row)
		width = max(width, len(row))
	}

	header := trimTrailingBlanks(rows[0])
	if width > len(header) {
		header = append(header, make([]string, width-len(header))...)
	}
	return table.FromRecordsWith(header, data, table.InferOptions{ParseDates: true})
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func trimTrailingBlanks(row []string) []string {
	n := len(row)
	for n > 0 && strings.TrimSpace(row[n-1]) == "" {
		n--
	}
	return append([]string(nil), row[:n]...)
}
