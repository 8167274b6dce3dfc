package ingest

import (
	"os"
	"path/filepath"
	"testing"
)

func TestHTMLAdapterIngest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bom.html")
	doc := `<html><body>
<table>
<tr><th>Reference</th><th>Description</th><th>Qty</th></tr>
<tr><td>R1</td><td>Резистор 100 Ом</td><td>5</td></tr>
<tr><td>C1</td><td>Конденсатор 10 нФ</td><td>3</td></tr>
</table>
</body></html>`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	rows, err := NewHTMLAdapter(nil).Ingest(path)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("len = %d, want 2", len(rows))
	}
	if rows[0].Get("reference") != "R1" || rows[0].Get("description") != "Резистор 100 Ом" {
		t.Errorf("first row = %+v", rows[0].Cells)
	}
	if rows[0].SourceSheet != "table1" {
		t.Errorf("SourceSheet = %q, want table1", rows[0].SourceSheet)
	}
}

func TestHTMLAdapterMissingFile(t *testing.T) {
	if _, err := NewHTMLAdapter(nil).Ingest(filepath.Join(t.TempDir(), "absent.html")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestIngestDispatchUnsupported(t *testing.T) {
	if _, err := Ingest("bom.pdf", Options{}); err == nil {
		t.Fatal("expected error for unsupported extension")
	}
}
