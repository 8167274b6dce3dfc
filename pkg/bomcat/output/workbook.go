// Package output shapes classified, enriched rows into the delivery
// artifacts: a categorized workbook with provenance and summary
// sheets, and per-category text reports generated from that workbook.
package output

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/promtech/bomcat/pkg/bomcat/bom"
	"github.com/promtech/bomcat/pkg/bomcat/enrich"
)

// Workbook column layout, fixed.
var headerCells = []string{
	"№ п/п", "Наименование ИВП", "ТУ", "Примечание", "Источник", "Код МР", "шт.",
}

const (
	compositeSheet = "Отладка модулей"
	sourcesSheet   = "SOURCES"
	summarySheet   = "SUMMARY"
	maxColWidth    = 100
)

// standardTypes are the implied component types per sheet; a note cell
// repeating the implied type stays empty.
var standardTypes = map[bom.Category]string{
	bom.Resistors:  "Резистор",
	bom.Capacitors: "Конденсатор",
	bom.Inductors:  "Дроссель",
	bom.ICs:        "Микросхема",
	bom.Connectors: "Разъем",
}

var parenTag = regexp.MustCompile(`\s*\([^)]*\)`)

// Options controls optional workbook surfaces.
type Options struct {
	// Summary adds a totals sheet built by re-reading the written
	// category sheets, not the in-memory rows.
	Summary bool

	// RunID is stamped on the provenance sheet.
	RunID string
}

// Assembler writes output workbooks and reports.
type Assembler struct {
	logger *zap.Logger
}

func New(logger *zap.Logger) *Assembler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assembler{logger: logger}
}

// WriteWorkbook partitions rows by category and writes one sheet per
// non-empty category in the fixed order, a composite development sheet,
// and a provenance sheet. With opts.Summary set, it then re-reads the
// written file and prepends a totals sheet.
func (a *Assembler) WriteWorkbook(path string, rows []bom.EnrichedRow, opts Options) error {
	byCategory := make(map[bom.Category][]bom.EnrichedRow)
	for _, r := range rows {
		byCategory[r.Category] = append(byCategory[r.Category], r)
	}

	f := excelize.NewFile()
	defer f.Close()

	w := &workbookWriter{f: f}
	var categorySheets []string

	for _, cat := range bom.SheetOrder {
		part := mergeRows(byCategory[cat])
		if len(part) == 0 {
			continue
		}
		SortRows(cat, part)
		name := cat.DisplayName()
		w.startSheet(name)
		w.appendRow(name, toCells(headerCells))
		for i, r := range part {
			w.appendRow(name, rowCells(cat, &r, i+1))
		}
		categorySheets = append(categorySheets, name)
	}

	a.writeComposite(w, byCategory)
	a.writeSources(w, rows, opts.RunID)

	if len(w.sheets) == 0 {
		w.startSheet("INFO")
		w.appendRow("INFO", []interface{}{"Сообщение"})
		w.appendRow("INFO", []interface{}{"Нет данных для записи"})
	}

	if err := w.applyStyles(); err != nil {
		return fmt.Errorf("style workbook: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("write workbook %s: %w", path, err)
	}
	a.logger.Info("workbook written",
		zap.String("path", path), zap.Int("sheets", len(w.sheets)))

	if opts.Summary && len(categorySheets) > 0 {
		if err := a.appendSummary(path, categorySheets); err != nil {
			return err
		}
	}
	return nil
}

// writeComposite emits the development overview sheet: own developments,
// a blank separator, dev boards, another separator, RF modules. Each
// segment keeps its own numbering.
func (a *Assembler) writeComposite(w *workbookWriter, byCategory map[bom.Category][]bom.EnrichedRow) {
	segments := []bom.Category{bom.OurDevelopments, bom.DevBoards, bom.RFModules}
	any := false
	for _, cat := range segments {
		if len(byCategory[cat]) > 0 {
			any = true
		}
	}
	if !any {
		return
	}

	w.startSheet(compositeSheet)
	w.appendRow(compositeSheet, toCells(headerCells))
	for si, cat := range segments {
		part := mergeRows(byCategory[cat])
		SortRows(cat, part)
		for i, r := range part {
			w.appendRow(compositeSheet, rowCells(cat, &r, i+1))
		}
		if si < len(segments)-1 {
			w.appendRow(compositeSheet, make([]interface{}, len(headerCells)))
		}
	}
}

// writeSources emits the distinct (file, sheet) provenance pairs plus
// the run identifier.
func (a *Assembler) writeSources(w *workbookWriter, rows []bom.EnrichedRow, runID string) {
	seen := make(map[[2]string]bool)
	var pairs [][2]string
	for _, r := range rows {
		p := [2]string{cleanSource(r.SourceFile), r.SourceSheet}
		if !seen[p] {
			seen[p] = true
			pairs = append(pairs, p)
		}
	}
	if len(pairs) == 0 {
		return
	}

	w.startSheet(sourcesSheet)
	w.appendRow(sourcesSheet, []interface{}{"source_file", "source_sheet"})
	for _, p := range pairs {
		w.appendRow(sourcesSheet, []interface{}{p[0], p[1]})
	}
	if runID != "" {
		w.appendRow(sourcesSheet, make([]interface{}, 2))
		w.appendRow(sourcesSheet, []interface{}{"run_id", runID})
	}
}

// appendSummary re-reads the just-written workbook and prepends a
// per-category totals sheet. Totals come from the file, so they reflect
// exactly what was written.
func (a *Assembler) appendSummary(path string, categorySheets []string) error {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return fmt.Errorf("reopen workbook %s: %w", path, err)
	}
	defer f.Close()

	type summaryLine struct {
		name      string
		positions int
		total     int
	}
	var lines []summaryLine
	for _, sheet := range categorySheets {
		grid, err := f.GetRows(sheet)
		if err != nil {
			a.logger.Warn("summary skipped a sheet", zap.String("sheet", sheet), zap.Error(err))
			continue
		}
		positions, total := 0, 0
		for i, row := range grid {
			if i == 0 || len(row) == 0 {
				continue
			}
			positions++
			if len(row) >= len(headerCells) {
				if n, err := strconv.Atoi(strings.TrimSpace(row[len(headerCells)-1])); err == nil {
					total += n
				}
			}
		}
		lines = append(lines, summaryLine{sheet, positions, total})
	}
	if len(lines) == 0 {
		return nil
	}

	first := f.GetSheetName(0)
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("summary sheet: %w", err)
	}
	w := &workbookWriter{f: f, sheets: map[string]*sheetState{}}
	w.sheets[summarySheet] = &sheetState{}
	w.appendRow(summarySheet, []interface{}{"№ п/п", "Категория", "Кол-во позиций", "Общее количество"})
	for i, l := range lines {
		w.appendRow(summarySheet, []interface{}{i + 1, l.name, l.positions, l.total})
	}
	if err := w.styleSheet(summarySheet, 50); err != nil {
		return fmt.Errorf("style summary: %w", err)
	}
	if err := f.MoveSheet(summarySheet, first); err != nil {
		a.logger.Warn("summary sheet stays at the end", zap.Error(err))
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("write summary %s: %w", path, err)
	}
	return nil
}

// mergeRows collapses rows describing the same part into one position:
// quantities sum, distinct reference designators join into one remark.
// First-occurrence order is kept. When the aggregated total computed
// across all inputs exceeds the within-sheet sum, the total wins.
func mergeRows(rows []bom.EnrichedRow) []bom.EnrichedRow {
	merged := make([]bom.EnrichedRow, 0, len(rows))
	index := make(map[string]int, len(rows))
	for _, r := range rows {
		key := enrich.IdentityKey(&r)
		i, ok := index[key]
		if !ok {
			index[key] = len(merged)
			if r.Quantity <= 0 {
				r.Quantity = 1
			}
			merged = append(merged, r)
			continue
		}
		m := &merged[i]
		q := r.Quantity
		if q <= 0 {
			q = 1
		}
		m.Quantity += q
		if ref := strings.TrimSpace(r.Reference); ref != "" && ref != m.Reference {
			if m.Reference == "" {
				m.Reference = ref
			} else {
				m.Reference += ", " + ref
			}
		}
	}
	for i := range merged {
		if merged[i].TotalQuantity > merged[i].Quantity {
			merged[i].Quantity = merged[i].TotalQuantity
		}
	}
	return merged
}

// rowCells builds one sheet row for a component.
func rowCells(cat bom.Category, r *bom.EnrichedRow, n int) []interface{} {
	desc := r.Description
	if cat == bom.OurDevelopments && strings.TrimSpace(desc) == "" {
		desc = strings.TrimSuffix(filepath.Base(r.SourceFile), filepath.Ext(r.SourceFile))
	}
	tu := r.TUCode
	if cat == bom.OurDevelopments {
		tu = ""
	}
	return []interface{}{
		n, desc, tu, noteCell(cat, r), cleanSource(r.SourceFile), r.InventoryCode, r.Quantity,
	}
}

// noteCell fills the remark column: the reference designators when the
// row carries any, else the component sub-type unless it only repeats
// the sheet's implied type.
func noteCell(cat bom.Category, r *bom.EnrichedRow) string {
	if cat == bom.PowerModules {
		return r.Reference
	}
	if ref := strings.TrimSpace(r.Reference); ref != "" {
		return ref
	}
	if r.ComponentType != "" && r.ComponentType != standardTypes[cat] {
		return r.ComponentType
	}
	return ""
}

// cleanSource strips replacement and selection tags like "(зам D4)"
// from a source-file label.
func cleanSource(source string) string {
	s := parenTag.ReplaceAllString(source, "")
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), ","))
}

func toCells(ss []string) []interface{} {
	out := make([]interface{}, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

// sheetState tracks what a sheet needs for styling: the row cursor and
// the widest content seen per column.
type sheetState struct {
	rows      int
	colWidths []int
}

type workbookWriter struct {
	f      *excelize.File
	sheets map[string]*sheetState
	order  []string
}

func (w *workbookWriter) startSheet(name string) {
	if w.sheets == nil {
		w.sheets = map[string]*sheetState{}
	}
	if len(w.sheets) == 0 && w.f.GetSheetName(0) == "Sheet1" {
		w.f.SetSheetName("Sheet1", name)
	} else {
		w.f.NewSheet(name)
	}
	w.sheets[name] = &sheetState{}
	w.order = append(w.order, name)
}

func (w *workbookWriter) appendRow(sheet string, cells []interface{}) {
	st := w.sheets[sheet]
	st.rows++
	cell, _ := excelize.CoordinatesToCellName(1, st.rows)
	w.f.SetSheetRow(sheet, cell, &cells)
	for i, v := range cells {
		for len(st.colWidths) <= i {
			st.colWidths = append(st.colWidths, 0)
		}
		if v == nil {
			continue
		}
		if n := len([]rune(fmt.Sprint(v))); n > st.colWidths[i] {
			st.colWidths[i] = n
		}
	}
}

// applyStyles centers every cell, left-aligns the description, code,
// remark and source columns, and fits column widths to content.
func (w *workbookWriter) applyStyles() error {
	for _, name := range w.order {
		if err := w.styleSheet(name, maxColWidth); err != nil {
			return err
		}
	}
	return nil
}

var leftColumns = map[int]bool{2: true, 3: true, 4: true, 5: true}

func (w *workbookWriter) styleSheet(name string, widthCap float64) error {
	st := w.sheets[name]
	if st.rows == 0 || len(st.colWidths) == 0 {
		return nil
	}
	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
	center, err := w.f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	})
	if err != nil {
		return err
	}
	left, err := w.f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
		Border:    border,
	})
	if err != nil {
		return err
	}

	for col := 1; col <= len(st.colWidths); col++ {
		top, _ := excelize.CoordinatesToCellName(col, 1)
		bottom, _ := excelize.CoordinatesToCellName(col, st.rows)
		style := center
		switch {
		case name == summarySheet:
			if col == 2 {
				style = left
			}
		case name != sourcesSheet && leftColumns[col]:
			style = left
		}
		if err := w.f.SetCellStyle(name, top, bottom, style); err != nil {
			return err
		}
		colName, _ := excelize.ColumnNumberToName(col)
		width := float64(st.colWidths[col-1] + 2)
		if width > widthCap {
			width = widthCap
		}
		if err := w.f.SetColWidth(name, colName, colName, width); err != nil {
			return err
		}
	}
	return nil
}
