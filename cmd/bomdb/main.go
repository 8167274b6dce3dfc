package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/promtech/bomcat/pkg/bomcat/bom"
	"github.com/promtech/bomcat/pkg/bomcat/compdb"
)

const usage = `usage: bomdb [-db path] <command> [args]

commands:
  stats                     show version and per-category counts
  history [-n N]            list audit records, newest first
  add <name> <category>     add one component
  import <workbook.xlsx>    import names from a categorized workbook
  clear                     back up and empty the database
  set-version <major.minor> force the version string
`

func main() {
	dbPath := flag.String("db", "component_database.json", "Component database file")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("logger:", err)
	}
	defer logger.Sync()

	store := compdb.New(*dbPath, logger)
	args := flag.Args()

	switch args[0] {
	case "stats":
		runStats(store)
	case "history":
		runHistory(store, args[1:])
	case "add":
		runAdd(store, args[1:])
	case "import":
		runImport(store, args[1:])
	case "clear":
		runClear(store)
	case "set-version":
		runSetVersion(store, args[1:])
	default:
		flag.Usage()
		os.Exit(2)
	}
}

func runStats(store *compdb.Store) {
	stats, err := store.GetStats()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Version:     %s\n", stats.Version)
	fmt.Printf("Components:  %d\n", stats.TotalComponents)
	fmt.Printf("Updated:     %s\n", stats.LastUpdated)
	fmt.Printf("Hash:        %s\n", stats.CurrentHash)
	for _, c := range bom.SheetOrder {
		if n := stats.PerCategory[string(c)]; n > 0 {
			fmt.Printf("  %-18s %d\n", c, n)
		}
	}
}

func runHistory(store *compdb.Store, args []string) {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	limit := fs.Int("n", 10, "Number of records to show")
	fs.Parse(args)

	entries, err := store.History(*limit)
	if err != nil {
		log.Fatal(err)
	}
	for _, e := range entries {
		line := fmt.Sprintf("%s  v%-6s %-20s +%d", e.Timestamp, e.Version, e.Action, e.ComponentsAdded)
		if e.Source != "" {
			line += "  " + e.Source
		}
		fmt.Println(line)
		if len(e.ComponentNames) > 0 {
			fmt.Printf("    %s\n", strings.Join(e.ComponentNames, ", "))
		}
	}
}

func runAdd(store *compdb.Store, args []string) {
	if len(args) != 2 {
		log.Fatal("usage: bomdb add <name> <category>")
	}
	cat, ok := bom.ParseCategory(args[1])
	if !ok {
		log.Fatalf("unknown category %q", args[1])
	}
	if err := store.AddComponent(args[0], cat, ""); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Added %q as %s\n", args[0], cat)
}

// runImport reads a categorized workbook back in: every sheet whose
// name is a category display name contributes its component names.
func runImport(store *compdb.Store, args []string) {
	if len(args) != 1 {
		log.Fatal("usage: bomdb import <workbook.xlsx>")
	}
	path := args[0]

	f, err := excelize.OpenFile(path)
	if err != nil {
		log.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()

	components, err := store.Load()
	if err != nil {
		log.Fatal(err)
	}

	var added []string
	for _, sheet := range f.GetSheetList() {
		cat, ok := bom.CategoryByDisplayName(sheet)
		if !ok {
			continue
		}
		grid, err := f.GetRows(sheet)
		if err != nil {
			log.Fatalf("read sheet %s: %v", sheet, err)
		}
		nameCol := findNameColumn(grid)
		if nameCol < 0 {
			continue
		}
		for i, row := range grid {
			if i == 0 || nameCol >= len(row) {
				continue
			}
			name := strings.TrimSpace(row[nameCol])
			if name == "" {
				continue
			}
			if existing, ok := components[name]; ok && existing == string(cat) {
				continue
			}
			components[name] = string(cat)
			added = append(added, name)
		}
	}

	if len(added) == 0 {
		fmt.Println("Nothing new to import")
		return
	}
	if err := store.Save(components, "import_from_file", path, added); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Imported %d components from %s\n", len(added), path)
}

func findNameColumn(grid [][]string) int {
	if len(grid) == 0 {
		return -1
	}
	for i, h := range grid[0] {
		if strings.Contains(strings.ToLower(h), "наименование") {
			return i
		}
	}
	return -1
}

func runClear(store *compdb.Store) {
	backup, err := store.Clear()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Database cleared, backup at %s\n", backup)
}

func runSetVersion(store *compdb.Store, args []string) {
	if len(args) != 1 {
		log.Fatal("usage: bomdb set-version <major.minor>")
	}
	if err := store.SetVersion(args[0]); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Version set to %s\n", args[0])
}
