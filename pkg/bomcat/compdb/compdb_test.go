package compdb

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/promtech/bomcat/pkg/bomcat/bom"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s := New(filepath.Join(t.TempDir(), "component_database.json"), nil)
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	return s
}

func TestLoadCreatesSeedDatabase(t *testing.T) {
	s := testStore(t)

	components, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(components) != 9 {
		t.Fatalf("seed size = %d, want 9", len(components))
	}
	if components["HMC435AMS8GE"] != "ics" {
		t.Errorf("HMC435AMS8GE = %q, want ics", components["HMC435AMS8GE"])
	}

	stats, err := s.GetStats()
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}
	if stats.Version != "1.0" {
		t.Errorf("seed version = %q, want 1.0", stats.Version)
	}
	if stats.PerCategory["ics"] != 9 {
		t.Errorf("ics count = %d, want 9", stats.PerCategory["ics"])
	}
}

func TestHashIsOrderIndependent(t *testing.T) {
	a := map[string]string{}
	a["R-100"] = "resistors"
	a["C-200"] = "capacitors"
	a["AD9361"] = "ics"

	b := map[string]string{}
	b["AD9361"] = "ics"
	b["C-200"] = "capacitors"
	b["R-100"] = "resistors"

	if Hash(a) != Hash(b) {
		t.Errorf("hashes differ for identical content: %s vs %s", Hash(a), Hash(b))
	}
	if len(Hash(a)) != 16 {
		t.Errorf("hash length = %d, want 16", len(Hash(a)))
	}
	if Hash(map[string]string{}) != "" {
		t.Error("empty map should hash to empty string")
	}

	b["R-100"] = "ics"
	if Hash(a) == Hash(b) {
		t.Error("category change must change the hash")
	}
}

func TestSaveUnchangedKeepsVersionAndHistory(t *testing.T) {
	s := testStore(t)
	components, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	before, _ := s.GetStats()
	histBefore, _ := s.History(0)

	if err := s.Save(components, "manual_add", "", nil); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Save(components, "manual_add", "", nil); err != nil {
		t.Fatalf("Save: %v", err)
	}

	after, _ := s.GetStats()
	histAfter, _ := s.History(0)
	if after.Version != before.Version {
		t.Errorf("version changed %s -> %s on identical save", before.Version, after.Version)
	}
	if len(histAfter) != len(histBefore) {
		t.Errorf("history grew from %d to %d on identical save", len(histBefore), len(histAfter))
	}
	if after.LastUpdated == before.LastUpdated {
		t.Error("last_updated should refresh even without changes")
	}
}

func TestAddComponentVersioning(t *testing.T) {
	s := testStore(t)
	if _, err := s.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if err := s.AddComponent("ADF4351", bom.ICs, ""); err != nil {
		t.Fatalf("AddComponent: %v", err)
	}
	stats, _ := s.GetStats()
	if stats.Version != "1.1" {
		t.Errorf("manual add version = %q, want 1.1", stats.Version)
	}
	hist, _ := s.History(1)
	if hist[0].Action != "manual_add" || hist[0].ComponentsAdded != 1 {
		t.Errorf("history head = %+v, want manual_add of 1", hist[0])
	}

	// Re-adding loaded state must be a no-op.
	if err := s.AddComponent("ADF4351", bom.ICs, ""); err != nil {
		t.Fatalf("AddComponent repeat: %v", err)
	}
	stats, _ = s.GetStats()
	if stats.Version != "1.1" {
		t.Errorf("repeat add bumped version to %q", stats.Version)
	}

	if err := s.AddComponent("HMC1044", bom.ICs, "import.xlsx"); err != nil {
		t.Fatalf("AddComponent import: %v", err)
	}
	stats, _ = s.GetStats()
	if stats.Version != "2.0" {
		t.Errorf("import version = %q, want 2.0", stats.Version)
	}
	hist, _ = s.History(1)
	if hist[0].Action != "import_from_file" || hist[0].Source != "import.xlsx" {
		t.Errorf("import history head = %+v", hist[0])
	}
}

func TestGetCategoryFallbacks(t *testing.T) {
	s := testStore(t)
	if err := s.AddComponent("AB-12", bom.ICs, ""); err != nil {
		t.Fatalf("AddComponent: %v", err)
	}

	for _, name := range []string{"AB-12", "ab-12", "AB 12", "AB12", "  AB-12  "} {
		cat, ok := s.GetCategory(name)
		if !ok || cat != bom.ICs {
			t.Errorf("GetCategory(%q) = %q, %v; want ics, true", name, cat, ok)
		}
	}
	if _, ok := s.GetCategory("XY-99"); ok {
		t.Error("unknown name resolved")
	}
	if _, ok := s.GetCategory(""); ok {
		t.Error("empty name resolved")
	}
}

func TestClearBacksUpAndResets(t *testing.T) {
	s := testStore(t)
	if _, err := s.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	backup, err := s.Clear()
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, err := os.Stat(backup); err != nil {
		t.Fatalf("backup missing: %v", err)
	}
	if !strings.Contains(backup, "component_database_before_clear_") {
		t.Errorf("backup name %q lacks the clear marker", backup)
	}

	components, err := s.Load()
	if err != nil {
		t.Fatalf("Load after clear: %v", err)
	}
	if len(components) != 0 {
		t.Errorf("store still holds %d components after clear", len(components))
	}
	stats, _ := s.GetStats()
	if stats.Version != "0.0" {
		t.Errorf("post-clear version = %q, want 0.0", stats.Version)
	}

	// First manual add out of the cleared state lands on 0.1.
	if err := s.AddComponent("К10-17б", bom.Capacitors, ""); err != nil {
		t.Fatalf("AddComponent: %v", err)
	}
	stats, _ = s.GetStats()
	if stats.Version != "0.1" {
		t.Errorf("post-clear manual version = %q, want 0.1", stats.Version)
	}
}

func TestClearThenImportJumpsToOne(t *testing.T) {
	s := testStore(t)
	if _, err := s.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if err := s.AddComponent("PE4312", bom.ICs, "catalog.xlsx"); err != nil {
		t.Fatalf("AddComponent: %v", err)
	}
	stats, _ := s.GetStats()
	if stats.Version != "1.0" {
		t.Errorf("post-clear import version = %q, want 1.0", stats.Version)
	}
}

func TestHistoryNamesCapped(t *testing.T) {
	s := testStore(t)
	components, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	var names []string
	for i := 0; i < 15; i++ {
		name := fmt.Sprintf("PART-%02d", i)
		components[name] = "ics"
		names = append(names, name)
	}
	if err := s.Save(components, "import_from_file", "bulk.xlsx", names); err != nil {
		t.Fatalf("Save: %v", err)
	}

	hist, _ := s.History(1)
	got := hist[0].ComponentNames
	if len(got) != historyNamesCap+1 {
		t.Fatalf("stored %d names, want %d", len(got), historyNamesCap+1)
	}
	if got[historyNamesCap] != "... и еще 5" {
		t.Errorf("overflow marker = %q", got[historyNamesCap])
	}
	if hist[0].ComponentsAdded != 15 {
		t.Errorf("components_added = %d, want 15", hist[0].ComponentsAdded)
	}
}

func TestSetVersion(t *testing.T) {
	s := testStore(t)
	if _, err := s.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if err := s.SetVersion("not-a-version"); err == nil {
		t.Error("malformed version accepted")
	}
	if err := s.SetVersion("7.3"); err != nil {
		t.Fatalf("SetVersion: %v", err)
	}
	stats, _ := s.GetStats()
	if stats.Version != "7.3" {
		t.Errorf("version = %q, want 7.3", stats.Version)
	}
	hist, _ := s.History(1)
	if hist[0].Action != "manual_version_change" {
		t.Errorf("action = %q, want manual_version_change", hist[0].Action)
	}
}
