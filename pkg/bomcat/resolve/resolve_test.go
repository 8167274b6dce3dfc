package resolve

import (
	"testing"

	"github.com/promtech/bomcat/pkg/bomcat/ingest"
)

func rawRow(columns []string, cells map[string]string) ingest.RawRow {
	return ingest.RawRow{Cells: cells, Columns: columns, SourceFile: "bom.xlsx", SourceSheet: "BOM"}
}

func TestResolveEnglishHeaders(t *testing.T) {
	r := New(DefaultAliases(), nil)
	rows := r.Resolve([]ingest.RawRow{rawRow(
		[]string{"reference", "description", "value", "qty"},
		map[string]string{
			"reference":   "R1",
			"description": "Chip resistor",
			"value":       "1k",
			"qty":         "5",
		},
	)})
	if len(rows) != 1 {
		t.Fatalf("len = %d", len(rows))
	}
	row := rows[0]
	if row.Reference != "R1" || row.Description != "Chip resistor" || row.Value != "1k" {
		t.Errorf("row = %+v", row)
	}
	if row.Quantity != 5 {
		t.Errorf("Quantity = %d, want 5", row.Quantity)
	}
	if row.SourceFile != "bom.xlsx" || row.SourceSheet != "BOM" {
		t.Errorf("provenance lost: %+v", row)
	}
}

func TestResolveRussianHeaders(t *testing.T) {
	r := New(DefaultAliases(), nil)
	rows := r.Resolve([]ingest.RawRow{rawRow(
		[]string{"обозначение", "наименование", "кол.", "примечание", "код мр"},
		map[string]string{
			"обозначение":  "C1",
			"наименование": "Конденсатор 10 нФ",
			"кол.":         "3",
			"примечание":   "АЛЯР.434110.005ТУ",
			"код мр":       "МР-000123",
		},
	)})
	row := rows[0]
	if row.Reference != "C1" || row.Description != "Конденсатор 10 нФ" {
		t.Errorf("row = %+v", row)
	}
	if row.Note != "АЛЯР.434110.005ТУ" {
		t.Errorf("Note = %q", row.Note)
	}
	if row.InventoryCode != "МР-000123" {
		t.Errorf("InventoryCode = %q", row.InventoryCode)
	}
}

func TestResolvePrefixMatch(t *testing.T) {
	r := New(DefaultAliases(), nil)
	rows := r.Resolve([]ingest.RawRow{rawRow(
		[]string{"кол. в ктд, шт."},
		map[string]string{"кол. в ктд, шт.": "7"},
	)})
	if rows[0].Quantity != 7 {
		t.Fatalf("Quantity = %d, want 7 via prefix match", rows[0].Quantity)
	}
}

func TestResolveMergedColumnsFirstNonEmptyWins(t *testing.T) {
	r := New(DefaultAliases(), nil)
	rows := r.Resolve([]ingest.RawRow{rawRow(
		[]string{"description", "наименование"},
		map[string]string{
			"description":  "",
			"наименование": "Резистор 1 кОм",
		},
	)})
	if rows[0].Description != "Резистор 1 кОм" {
		t.Fatalf("Description = %q, want merged value", rows[0].Description)
	}
}

func TestResolvePassthroughBag(t *testing.T) {
	r := New(DefaultAliases(), nil)
	rows := r.Resolve([]ingest.RawRow{rawRow(
		[]string{"reference", "корпус"},
		map[string]string{"reference": "R1", "корпус": "0603"},
	)})
	if rows[0].Extra["корпус"] != "0603" {
		t.Fatalf("Extra = %+v, want корпус preserved", rows[0].Extra)
	}
	if _, claimed := rows[0].Extra["reference"]; claimed {
		t.Fatal("semantic column leaked into passthrough bag")
	}
}

func TestResolveQuantityDefaults(t *testing.T) {
	r := New(DefaultAliases(), nil)
	rows := r.Resolve([]ingest.RawRow{
		rawRow([]string{"qty"}, map[string]string{"qty": ""}),
		rawRow([]string{"qty"}, map[string]string{"qty": "н/д"}),
		rawRow([]string{"reference"}, map[string]string{"reference": "R1"}),
	})
	for i, row := range rows {
		if row.Quantity != 1 {
			t.Errorf("row %d Quantity = %d, want 1", i, row.Quantity)
		}
	}
}
