package classify

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/promtech/bomcat/pkg/bomcat/bom"
)

func unclassifiedRow(desc string) bom.ClassifiedRow {
	return bom.ClassifiedRow{
		CanonicalRow: bom.CanonicalRow{Description: desc},
		Category:     bom.Unclassified,
	}
}

func TestRuleStoreFirstMatchWins(t *testing.T) {
	s := NewRuleStore(nil)
	s.Add(Rule{Contains: "QWZ", Category: "rf_modules"})
	s.Add(Rule{Contains: "qwz-10", Category: "others"})

	rows := []bom.ClassifiedRow{unclassifiedRow("Аттенюатор QWZ-10")}
	if n := s.Apply(rows); n != 1 {
		t.Fatalf("reassigned = %d, want 1", n)
	}
	if rows[0].Category != bom.RFModules {
		t.Fatalf("category = %s, want rf_modules from the first rule", rows[0].Category)
	}
}

func TestRuleStoreSkipsClassifiedRows(t *testing.T) {
	s := NewRuleStore(nil)
	s.Add(Rule{Contains: "резистор", Category: "others"})

	rows := []bom.ClassifiedRow{{
		CanonicalRow: bom.CanonicalRow{Description: "Резистор 100 Ом"},
		Category:     bom.Resistors,
	}}
	if n := s.Apply(rows); n != 0 {
		t.Fatalf("reassigned = %d, want 0", n)
	}
	if rows[0].Category != bom.Resistors {
		t.Fatalf("category = %s, classified row must not change", rows[0].Category)
	}
}

func TestRuleStoreRegexRules(t *testing.T) {
	s := NewRuleStore(nil)
	s.Add(Rule{Regex: `^zx\d+`, Category: "rf_modules"})

	rows := []bom.ClassifiedRow{unclassifiedRow("ZX60-83LN-S+")}
	s.Apply(rows)
	if rows[0].Category != bom.RFModules {
		t.Fatalf("category = %s, want rf_modules", rows[0].Category)
	}
}

func TestRuleStoreSkipsMalformedRules(t *testing.T) {
	s := NewRuleStore(nil)
	s.Add(Rule{Regex: `([`, Category: "others"})
	s.Add(Rule{Contains: "кварц", Category: "others"})

	rows := []bom.ClassifiedRow{unclassifiedRow("Кварц РК169")}
	if n := s.Apply(rows); n != 1 {
		t.Fatalf("reassigned = %d, want 1 despite malformed rule", n)
	}
	if rows[0].Category != bom.Others {
		t.Fatalf("category = %s, want others", rows[0].Category)
	}
}

func TestRuleStoreUnknownCategorySkipped(t *testing.T) {
	s := NewRuleStore(nil)
	s.Add(Rule{Contains: "кварц", Category: "no_such_bucket"})

	rows := []bom.ClassifiedRow{unclassifiedRow("Кварц РК169")}
	if n := s.Apply(rows); n != 0 {
		t.Fatalf("reassigned = %d, want 0", n)
	}
}

func TestRuleStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	s := NewRuleStore(nil)
	s.Add(Rule{Contains: "QWZ", Category: "rf_modules", Comment: "вендор"})
	s.Add(Rule{Regex: `^zx\d+`, Category: "rf_modules"})
	if err := s.Save(path); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadRuleStore(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded.Rules) != 2 {
		t.Fatalf("len = %d, want 2", len(loaded.Rules))
	}
	if loaded.Rules[0].Contains != "QWZ" || loaded.Rules[0].Comment != "вендор" {
		t.Errorf("first rule = %+v", loaded.Rules[0])
	}

	rows := []bom.ClassifiedRow{unclassifiedRow("ZX60-83LN-S+")}
	loaded.Apply(rows)
	if rows[0].Category != bom.RFModules {
		t.Fatalf("reloaded store gave %s", rows[0].Category)
	}
}

func TestLoadRuleStoreMissingFile(t *testing.T) {
	s, err := LoadRuleStore(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	if err != nil {
		t.Fatalf("missing file should give empty store, got %v", err)
	}
	if len(s.Rules) != 0 {
		t.Fatalf("len = %d, want 0", len(s.Rules))
	}
}

func TestLoadRuleStoreMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte("rules: [\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadRuleStore(path, nil); err == nil {
		t.Fatal("expected error for malformed rule file")
	}
}
