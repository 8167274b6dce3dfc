package output

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/promtech/bomcat/pkg/bomcat/bom"
)

func erow(cat bom.Category, ref, desc string, qty int) bom.EnrichedRow {
	r := bom.EnrichedRow{}
	r.Category = cat
	r.Reference = ref
	r.Description = desc
	r.Quantity = qty
	r.TotalQuantity = qty
	r.SourceFile = "bom.xlsx"
	r.SourceSheet = "Лист1"
	return r
}

func descriptions(rows []bom.EnrichedRow) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Description
	}
	return out
}

func TestSortRowsByNominal(t *testing.T) {
	rows := []bom.EnrichedRow{
		erow(bom.Resistors, "R1", "Резистор 1 кОм", 1),
		erow(bom.Resistors, "R2", "Резистор без номинала", 1),
		erow(bom.Resistors, "R3", "Резистор 180 Ом", 1),
	}
	rows[0].NominalSortKey = 1000
	rows[2].NominalSortKey = 180

	SortRows(bom.Resistors, rows)
	got := descriptions(rows)
	want := []string{"Резистор 180 Ом", "Резистор 1 кОм", "Резистор без номинала"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestSortRowsICsLatinFirst(t *testing.T) {
	rows := []bom.EnrichedRow{
		erow(bom.ICs, "", "1594ТЛ2Т", 1),
		erow(bom.ICs, "", "AD9361BBCZ", 1),
		erow(bom.ICs, "", "К561ЛА7", 1),
	}
	SortRows(bom.ICs, rows)
	got := descriptions(rows)
	want := []string{"AD9361BBCZ", "1594ТЛ2Т", "К561ЛА7"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestSortRowsImportedBeforeDomestic(t *testing.T) {
	domestic := erow(bom.Semiconductors, "", "2Т630А-2", 1)
	domestic.TUCode = "АЕНВ.431320.515-01ТУ"
	imported := erow(bom.Semiconductors, "", "BFP740", 1)

	rows := []bom.EnrichedRow{domestic, imported}
	SortRows(bom.Semiconductors, rows)
	if rows[0].Description != "BFP740" {
		t.Errorf("imported row should sort before domestic, got %v", descriptions(rows))
	}

	second := erow(bom.Semiconductors, "", "5П103А", 1)
	second.TUCode = "АЕНВ.431320.516ТУ"
	rows = []bom.EnrichedRow{domestic, second}
	SortRows(bom.Semiconductors, rows)
	if rows[0].Description != "2Т630А-2" {
		t.Errorf("numeric prefix 2 should sort before 5, got %v", descriptions(rows))
	}
}

func TestSortRowsOwnDevelopmentsKeepOrder(t *testing.T) {
	rows := []bom.EnrichedRow{
		erow(bom.OurDevelopments, "", "Усилитель УМ-3", 1),
		erow(bom.OurDevelopments, "", "Блок БП-1", 1),
	}
	SortRows(bom.OurDevelopments, rows)
	if rows[0].Description != "Усилитель УМ-3" {
		t.Errorf("own developments must keep input order, got %v", descriptions(rows))
	}
}

func TestCleanSource(t *testing.T) {
	for _, tc := range []struct{ in, want string }{
		{"модуль.xlsx", "модуль.xlsx"},
		{"модуль.xlsx (зам D4)", "модуль.xlsx"},
		{"модуль.xlsx (п/б D3*), (п/б D5*)", "модуль.xlsx"},
	} {
		if got := cleanSource(tc.in); got != tc.want {
			t.Errorf("cleanSource(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestWriteWorkbookTwoRowPipeline(t *testing.T) {
	rows := []bom.EnrichedRow{
		erow(bom.Resistors, "R1", "Резистор 100 Ом", 5),
		erow(bom.Capacitors, "C1", "Конденсатор 10 нФ", 3),
	}
	path := filepath.Join(t.TempDir(), "out.xlsx")
	if err := New(nil).WriteWorkbook(path, rows, Options{RunID: "01J8ZTEST"}); err != nil {
		t.Fatalf("WriteWorkbook: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer f.Close()

	for _, tc := range []struct{ sheet, desc, qty string }{
		{"Резисторы", "Резистор 100 Ом", "5"},
		{"Конденсаторы", "Конденсатор 10 нФ", "3"},
	} {
		grid, err := f.GetRows(tc.sheet)
		if err != nil {
			t.Fatalf("GetRows(%s): %v", tc.sheet, err)
		}
		if len(grid) != 2 {
			t.Fatalf("%s has %d rows, want header plus one", tc.sheet, len(grid))
		}
		if grid[1][0] != "1" || grid[1][1] != tc.desc {
			t.Errorf("%s row = %v", tc.sheet, grid[1])
		}
		if grid[1][6] != tc.qty {
			t.Errorf("%s qty = %q, want %q", tc.sheet, grid[1][6], tc.qty)
		}
	}

	sources, err := f.GetRows(sourcesSheet)
	if err != nil {
		t.Fatalf("GetRows(SOURCES): %v", err)
	}
	fileRows := 0
	sawRunID := false
	for i, row := range sources {
		if i == 0 || len(row) == 0 {
			continue
		}
		switch row[0] {
		case "bom.xlsx":
			fileRows++
		case "run_id":
			sawRunID = true
		}
	}
	if fileRows != 1 {
		t.Errorf("input file listed %d times in provenance, want once", fileRows)
	}
	if !sawRunID {
		t.Error("provenance sheet lacks the run identifier")
	}
}

func TestWriteWorkbookMergesDuplicateRows(t *testing.T) {
	rows := []bom.EnrichedRow{
		erow(bom.Resistors, "R1", "Резистор 100 Ом", 2),
		erow(bom.Resistors, "R2", "Резистор 100 Ом", 3),
	}

	path := filepath.Join(t.TempDir(), "out.xlsx")
	if err := New(nil).WriteWorkbook(path, rows, Options{}); err != nil {
		t.Fatalf("WriteWorkbook: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer f.Close()

	grid, err := f.GetRows("Резисторы")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(grid) != 2 {
		t.Fatalf("duplicate part occupies %d rows, want one merged row", len(grid)-1)
	}
	if grid[1][6] != "5" {
		t.Errorf("merged quantity = %q, want %q", grid[1][6], "5")
	}
	if grid[1][3] != "R1, R2" {
		t.Errorf("merged remark = %q, want %q", grid[1][3], "R1, R2")
	}
}

func TestWriteWorkbookCompositeSheet(t *testing.T) {
	rows := []bom.EnrichedRow{
		erow(bom.OurDevelopments, "", "Модуль МШУ-18", 1),
		erow(bom.DevBoards, "A1", "EVAL-AD9361", 2),
		erow(bom.RFModules, "WS1", "Аттенюатор РАТ-3+", 4),
	}
	path := filepath.Join(t.TempDir(), "out.xlsx")
	if err := New(nil).WriteWorkbook(path, rows, Options{}); err != nil {
		t.Fatalf("WriteWorkbook: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer f.Close()

	grid, err := f.GetRows(compositeSheet)
	if err != nil {
		t.Fatalf("GetRows(%s): %v", compositeSheet, err)
	}
	var got []string
	for i, row := range grid {
		if i == 0 {
			continue
		}
		if len(row) < 2 {
			got = append(got, "")
			continue
		}
		got = append(got, row[1])
	}
	want := []string{"Модуль МШУ-18", "", "EVAL-AD9361", "", "Аттенюатор РАТ-3+"}
	if len(got) != len(want) {
		t.Fatalf("composite rows = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("composite rows = %v, want %v", got, want)
		}
	}

	// Each segment keeps its own numbering.
	if grid[1][0] != "1" || grid[3][0] != "1" || grid[5][0] != "1" {
		t.Errorf("segment numbering broken: %v / %v / %v", grid[1][0], grid[3][0], grid[5][0])
	}
}

func TestWriteWorkbookSummary(t *testing.T) {
	rows := []bom.EnrichedRow{
		erow(bom.Resistors, "R1", "Резистор 100 Ом", 5),
		erow(bom.Resistors, "R2", "Резистор 220 Ом", 2),
		erow(bom.Capacitors, "C1", "Конденсатор 10 нФ", 3),
	}
	path := filepath.Join(t.TempDir(), "out.xlsx")
	if err := New(nil).WriteWorkbook(path, rows, Options{Summary: true}); err != nil {
		t.Fatalf("WriteWorkbook: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer f.Close()

	grid, err := f.GetRows(summarySheet)
	if err != nil {
		t.Fatalf("GetRows(SUMMARY): %v", err)
	}
	found := false
	for _, row := range grid[1:] {
		if len(row) >= 4 && row[1] == "Резисторы" {
			found = true
			if row[2] != "2" || row[3] != "7" {
				t.Errorf("resistor summary = %v, want 2 positions totaling 7", row)
			}
		}
	}
	if !found {
		t.Fatal("summary has no resistor line")
	}
}

func TestWriteTextReports(t *testing.T) {
	rows := []bom.EnrichedRow{
		erow(bom.Resistors, "R1", "Резистор 100 Ом", 5),
	}
	rows[0].InventoryCode = "МР-001234"

	dir := t.TempDir()
	path := filepath.Join(dir, "out.xlsx")
	a := New(nil)
	if err := a.WriteWorkbook(path, rows, Options{}); err != nil {
		t.Fatalf("WriteWorkbook: %v", err)
	}
	reportDir := filepath.Join(dir, "txt")
	if err := a.WriteTextReports(path, reportDir); err != nil {
		t.Fatalf("WriteTextReports: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(reportDir, "Резисторы.txt"))
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	text := string(raw)
	for _, want := range []string{
		"=== РЕЗИСТОРЫ ===",
		"Всего элементов: 1",
		"1. Резистор 100 Ом",
		"шт.: 5",
		"Код МР: МР-001234",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("report missing %q:\n%s", want, text)
		}
	}
}
