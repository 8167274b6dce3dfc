package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/promtech/bomcat/pkg/bomcat/bom"
)

// WriteTextReports regenerates per-category text reports from an
// already-written workbook. The workbook file, not the in-memory rows,
// is the source of truth, so reports always match what was delivered.
func (a *Assembler) WriteTextReports(workbookPath, dir string) error {
	f, err := excelize.OpenFile(workbookPath)
	if err != nil {
		return fmt.Errorf("open workbook %s: %w", workbookPath, err)
	}
	defer f.Close()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("report dir %s: %w", dir, err)
	}

	written := 0
	for _, sheet := range f.GetSheetList() {
		if _, ok := bom.CategoryByDisplayName(sheet); !ok {
			continue
		}
		grid, err := f.GetRows(sheet)
		if err != nil {
			a.logger.Warn("report skipped a sheet", zap.String("sheet", sheet), zap.Error(err))
			continue
		}
		report := renderReport(sheet, grid)
		if report == "" {
			continue
		}
		path := filepath.Join(dir, sheet+".txt")
		if err := os.WriteFile(path, []byte(report), 0o644); err != nil {
			return fmt.Errorf("write report %s: %w", path, err)
		}
		written++
	}
	a.logger.Info("text reports written", zap.String("dir", dir), zap.Int("files", written))
	return nil
}

// renderReport formats one category sheet as a numbered text listing.
// Returns "" when the sheet holds no component rows.
func renderReport(sheet string, grid [][]string) string {
	var lines []string
	for i, row := range grid {
		if i == 0 {
			continue
		}
		desc := strings.TrimSpace(cellAt(row, 1))
		if desc == "" || !hasLetter(desc) {
			continue
		}
		line := fmt.Sprintf("%d. %s", len(lines)+1, desc)
		if tu := strings.TrimSpace(cellAt(row, 2)); tu != "" && tu != "-" {
			line += " | ТУ: " + tu
		}
		if qty := strings.TrimSpace(cellAt(row, 6)); qty != "" {
			line += " | шт.: " + qty
		}
		if inv := strings.TrimSpace(cellAt(row, 5)); inv != "" && inv != "-" {
			line += " | Код МР: " + inv
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return ""
	}

	var b strings.Builder
	rule := strings.Repeat("=", 80)
	fmt.Fprintf(&b, "=== %s ===\n", strings.ToUpper(sheet))
	fmt.Fprintf(&b, "Всего элементов: %d\n", len(lines))
	b.WriteString(rule + "\n\n")
	for _, line := range lines {
		b.WriteString(line + "\n")
	}
	b.WriteString("\n" + rule + "\n")
	return b.String()
}

func cellAt(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
