package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/promtech/bomcat/pkg/bomcat"
	"github.com/promtech/bomcat/pkg/bomcat/bom"
	"github.com/promtech/bomcat/pkg/bomcat/classify"
	"github.com/promtech/bomcat/pkg/bomcat/compdb"
)

func main() {
	var (
		output      = flag.String("o", "", "Output workbook path (required)")
		sheetsCSV   = flag.String("sheets", "", "Comma-separated sheet names to read")
		allSheets   = flag.Bool("all-sheets", false, "Read every sheet of each workbook")
		mergeTarget = flag.String("merge-target", "", "Existing workbook to merge into (accepted, not yet applied)")
		summary     = flag.Bool("summary", false, "Add a per-category totals sheet")
		interactive = flag.Bool("interactive", false, "Prompt for categories of unclassified rows")
		loose       = flag.Bool("loose", false, "Widen catch-all keyword matching")
		rulesPath   = flag.String("rules", "", "Learned-rules file (YAML)")
		txtDir      = flag.String("txt-dir", "", "Directory for per-category text reports")
		dbPath      = flag.String("db", "component_database.json", "Component database file")
	)
	flag.Parse()

	if *output == "" {
		log.Fatal("-o required")
	}
	if flag.NArg() == 0 {
		log.Fatal("at least one input file required (path or path:N)")
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("logger:", err)
	}
	defer logger.Sync()

	inputs, err := parseInputs(flag.Args())
	if err != nil {
		logger.Fatal("bad input argument", zap.Error(err))
	}

	var sheets []string
	if *sheetsCSV != "" {
		for _, s := range strings.Split(*sheetsCSV, ",") {
			if s = strings.TrimSpace(s); s != "" {
				sheets = append(sheets, s)
			}
		}
	}

	cat, err := bomcat.New(bomcat.Options{
		Sheets:    sheets,
		AllSheets: *allSheets,
		Loose:     *loose,
		RulesPath: *rulesPath,
		Logger:    logger,
	})
	if err != nil {
		logger.Fatal("init", zap.Error(err))
	}

	ctx := context.Background()
	req := bomcat.RunRequest{
		Inputs:        inputs,
		OutputPath:    *output,
		MergeTarget:   *mergeTarget,
		Summary:       *summary,
		TextReportDir: *txtDir,
	}

	if *interactive {
		// Dry pass without artifacts, then ask about what is left over.
		dry := req
		dry.OutputPath = ""
		dry.TextReportDir = ""
		res, err := cat.Run(ctx, dry)
		if err != nil {
			logger.Fatal("run", zap.Error(err))
		}
		n := refineInteractively(cat, res.Rows, *dbPath, logger)
		if n > 0 && *rulesPath != "" {
			if err := cat.Rules().Save(*rulesPath); err != nil {
				logger.Fatal("save rules", zap.Error(err))
			}
		}
	}

	res, err := cat.Run(ctx, req)
	if err != nil {
		logger.Fatal("run", zap.Error(err))
	}

	fmt.Printf("Categorized %d rows (run %s):\n", len(res.Rows), res.RunID)
	for _, c := range bom.SheetOrder {
		if n := res.PerCategory[c]; n > 0 {
			fmt.Printf("  %-20s %d\n", c.DisplayName(), n)
		}
	}
	if res.RulesApplied > 0 {
		fmt.Printf("Learned rules matched %d rows\n", res.RulesApplied)
	}
}

// parseInputs accepts "path" or "path:N" where N multiplies quantities
// from that file.
func parseInputs(args []string) ([]bomcat.Input, error) {
	inputs := make([]bomcat.Input, 0, len(args))
	for _, arg := range args {
		in := bomcat.Input{Path: arg, Multiplier: 1}
		if i := strings.LastIndex(arg, ":"); i > 1 {
			if n, err := strconv.Atoi(arg[i+1:]); err == nil {
				if n < 1 {
					return nil, fmt.Errorf("multiplier in %q must be positive", arg)
				}
				in.Path = arg[:i]
				in.Multiplier = n
			}
		}
		if in.Path == "" {
			return nil, fmt.Errorf("empty path in %q", arg)
		}
		inputs = append(inputs, in)
	}
	return inputs, nil
}

// refineInteractively asks the operator to categorize rows the cascade
// could not. Answers become learned rules and database entries.
// Returns the number of rules added.
func refineInteractively(cat *bomcat.Categorizer, rows []bom.EnrichedRow, dbPath string, logger *zap.Logger) int {
	store := compdb.New(dbPath, logger)
	scanner := bufio.NewScanner(os.Stdin)
	seen := map[string]bool{}
	added := 0

	for _, r := range rows {
		if r.Category != bom.Unclassified {
			continue
		}
		desc := strings.TrimSpace(r.Description)
		if desc == "" || seen[desc] {
			continue
		}
		seen[desc] = true

		if c, ok := store.GetCategory(desc); ok {
			cat.Rules().Add(classify.Rule{Contains: strings.ToLower(desc), Category: string(c)})
			added++
			continue
		}

		fmt.Printf("\nUnclassified: %s\n", desc)
		fmt.Printf("Category key (%s; empty to skip): ", categoryKeys())
		if !scanner.Scan() {
			break
		}
		answer := strings.TrimSpace(scanner.Text())
		if answer == "" {
			continue
		}
		c, ok := bom.ParseCategory(answer)
		if !ok {
			fmt.Printf("Unknown category %q, skipped\n", answer)
			continue
		}
		cat.Rules().Add(classify.Rule{Contains: strings.ToLower(desc), Category: string(c)})
		added++
		if err := store.AddComponent(desc, c, ""); err != nil {
			logger.Warn("component not saved", zap.String("name", desc), zap.Error(err))
		}
	}
	return added
}

func categoryKeys() string {
	keys := make([]string, 0, len(bom.SheetOrder))
	for _, c := range bom.SheetOrder {
		keys = append(keys, string(c))
	}
	return strings.Join(keys, "|")
}
