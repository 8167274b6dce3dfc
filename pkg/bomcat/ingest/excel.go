package ingest

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/promtech/bomcat/pkg/bomcat/internalerr"
)

// ExcelAdapter reads spreadsheet workbooks. Sheet selection: the named
// list when Sheets is set, every sheet when AllSheets, else the first
// sheet of the workbook.
type ExcelAdapter struct {
	Sheets    []string
	AllSheets bool

	logger *zap.Logger
}

// NewExcelAdapter returns an adapter over the given sheet selection.
func NewExcelAdapter(sheets []string, all bool, logger *zap.Logger) *ExcelAdapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExcelAdapter{Sheets: sheets, AllSheets: all, logger: logger}
}

func (a *ExcelAdapter) Ingest(path string) ([]RawRow, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", internalerr.ErrUnreadableDocument, path, err)
	}
	defer f.Close()

	sheets, err := a.selectSheets(f, path)
	if err != nil {
		return nil, err
	}

	base := filepath.Base(path)
	var out []RawRow
	for _, sheet := range sheets {
		grid, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("%w: %s!%s: %v", internalerr.ErrUnreadableDocument, path, sheet, err)
		}
		rows := rowsFromGrid(grid, base, sheet)
		if a.logger != nil {
			a.logger.Debug("sheet ingested",
				zap.String("file", base), zap.String("sheet", sheet), zap.Int("rows", len(rows)))
		}
		out = append(out, rows...)
	}
	return out, nil
}

func (a *ExcelAdapter) selectSheets(f *excelize.File, path string) ([]string, error) {
	all := f.GetSheetList()
	if len(all) == 0 {
		return nil, fmt.Errorf("%w: %s has no sheets", internalerr.ErrUnreadableDocument, path)
	}
	if a.AllSheets {
		return all, nil
	}
	if len(a.Sheets) == 0 {
		return all[:1], nil
	}
	known := make(map[string]string, len(all))
	for _, s := range all {
		known[strings.ToLower(s)] = s
	}
	var picked []string
	for _, want := range a.Sheets {
		name, ok := known[strings.ToLower(strings.TrimSpace(want))]
		if !ok {
			return nil, fmt.Errorf("%w: sheet %q not in %s", internalerr.ErrUnreadableDocument, want, path)
		}
		picked = append(picked, name)
	}
	return picked, nil
}

// rowsFromGrid turns a cell grid into raw rows, treating the first row
// as headers. A blank header row (every column unnamed) promotes the
// first non-empty data row to headers instead.
func rowsFromGrid(grid [][]string, sourceFile, sourceSheet string) []RawRow {
	if len(grid) == 0 {
		return nil
	}

	headers := headerNames(grid[0])
	data := grid[1:]
	if allUnnamed(headers) {
		for i, row := range data {
			if rowEmpty(row) {
				continue
			}
			headers = headerNames(row)
			data = data[i+1:]
			break
		}
	}

	var out []RawRow
	for _, row := range data {
		if rowEmpty(row) {
			continue
		}
		cells := make(map[string]string, len(headers))
		for i, h := range headers {
			v := ""
			if i < len(row) {
				v = normalizeCell(row[i])
			}
			cells[h] = v
		}
		out = append(out, RawRow{
			Cells:       cells,
			Columns:     headers,
			SourceFile:  sourceFile,
			SourceSheet: sourceSheet,
		})
	}
	return out
}

// headerNames normalizes a header row, naming blank cells "unnamed: N".
func headerNames(row []string) []string {
	out := make([]string, len(row))
	seen := make(map[string]int, len(row))
	for i, c := range row {
		h := normalizeHeader(normalizeCell(c))
		if h == "" {
			h = fmt.Sprintf("unnamed: %d", i)
		}
		n := seen[h]
		seen[h] = n + 1
		if n > 0 {
			h = fmt.Sprintf("%s.%d", h, n)
		}
		out[i] = h
	}
	return out
}

func allUnnamed(headers []string) bool {
	for _, h := range headers {
		if !strings.HasPrefix(h, "unnamed:") {
			return false
		}
	}
	return len(headers) > 0
}

func rowEmpty(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
