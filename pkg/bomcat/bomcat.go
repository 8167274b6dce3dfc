// Package bomcat ties the ingestion, resolution, classification,
// enrichment and output stages into one pipeline facade.
package bomcat

import (
	"context"
	"fmt"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/promtech/bomcat/pkg/bomcat/bom"
	"github.com/promtech/bomcat/pkg/bomcat/classify"
	"github.com/promtech/bomcat/pkg/bomcat/enrich"
	"github.com/promtech/bomcat/pkg/bomcat/ingest"
	"github.com/promtech/bomcat/pkg/bomcat/output"
	"github.com/promtech/bomcat/pkg/bomcat/resolve"
)

// Input is one source document. Quantities from the file are
// multiplied by Multiplier (a module used N times in an assembly).
type Input struct {
	Path       string
	Multiplier int
}

// Options configures a Categorizer instance.
type Options struct {
	// Sheets restricts spreadsheet ingestion to the named sheets;
	// AllSheets reads every sheet. Default is the first sheet only.
	Sheets    []string
	AllSheets bool

	// Loose widens the last catch-all classification bucket.
	Loose bool

	// RulesPath points at the learned-rules file. Empty means no
	// learned rules; a missing file is an empty rule set.
	RulesPath string

	// Converter handles legacy word documents. Nil uses the headless
	// office converter when present on the host.
	Converter ingest.DocumentConverter

	Logger *zap.Logger
}

// Categorizer runs BOM documents through the full pipeline.
type Categorizer struct {
	resolver  *resolve.Resolver
	engine    *classify.Engine
	rules     *classify.RuleStore
	enricher  *enrich.Enricher
	assembler *output.Assembler
	opts      Options
	logger    *zap.Logger
}

// New creates a Categorizer, loading the learned rules when a path is
// given.
func New(opts Options) (*Categorizer, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	rules := classify.NewRuleStore(logger)
	if opts.RulesPath != "" {
		loaded, err := classify.LoadRuleStore(opts.RulesPath, logger)
		if err != nil {
			return nil, fmt.Errorf("load rules %s: %w", opts.RulesPath, err)
		}
		rules = loaded
	}

	return &Categorizer{
		resolver:  resolve.New(resolve.DefaultAliases(), logger),
		engine:    classify.New(opts.Loose, logger),
		rules:     rules,
		enricher:  enrich.New(logger),
		assembler: output.New(logger),
		opts:      opts,
		logger:    logger,
	}, nil
}

// Rules exposes the learned-rule store for interactive refinement.
func (c *Categorizer) Rules() *classify.RuleStore {
	return c.rules
}

// RunRequest describes one pipeline run.
type RunRequest struct {
	Inputs     []Input
	OutputPath string

	// MergeTarget is accepted for interface compatibility; the writer
	// always creates a fresh workbook. See Result.MergeTargetIgnored.
	MergeTarget string

	// Summary adds the totals sheet to the workbook.
	Summary bool

	// TextReportDir, when set, regenerates per-category text reports
	// from the written workbook. Requires OutputPath.
	TextReportDir string
}

// Result summarizes a completed run.
type Result struct {
	RunID        string
	Rows         []bom.EnrichedRow
	PerCategory  map[bom.Category]int
	RulesApplied int

	// MergeTargetIgnored reports that a merge target was given but the
	// output was still written fresh.
	MergeTargetIgnored bool
}

// Run ingests every input, classifies and enriches the rows, and
// writes the requested artifacts. Unreadable inputs fail the whole
// run.
func (c *Categorizer) Run(ctx context.Context, req RunRequest) (Result, error) {
	runID := ulid.Make().String()
	c.logger.Info("run started", zap.String("run_id", runID), zap.Int("inputs", len(req.Inputs)))

	var canonical []bom.CanonicalRow
	for _, in := range req.Inputs {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		raw, err := ingest.Ingest(in.Path, ingest.Options{
			Sheets:    c.opts.Sheets,
			AllSheets: c.opts.AllSheets,
			Converter: c.opts.Converter,
			Logger:    c.logger,
		})
		if err != nil {
			return Result{}, fmt.Errorf("ingest %s: %w", in.Path, err)
		}
		rows := c.resolver.Resolve(raw)
		if in.Multiplier > 1 {
			for i := range rows {
				rows[i].Quantity *= in.Multiplier
			}
		}
		canonical = append(canonical, rows...)
	}

	classified := c.engine.Classify(canonical)
	applied := c.rules.Apply(classified)
	enriched := c.enricher.Enrich(classified)

	result := Result{
		RunID:              runID,
		Rows:               enriched,
		PerCategory:        countByCategory(enriched),
		RulesApplied:       applied,
		MergeTargetIgnored: req.MergeTarget != "",
	}
	if result.MergeTargetIgnored {
		c.logger.Warn("merge target ignored, writing a fresh workbook",
			zap.String("merge_target", req.MergeTarget))
	}

	if req.OutputPath != "" {
		err := c.assembler.WriteWorkbook(req.OutputPath, enriched, output.Options{
			Summary: req.Summary,
			RunID:   runID,
		})
		if err != nil {
			return Result{}, err
		}
		if req.TextReportDir != "" {
			if err := c.assembler.WriteTextReports(req.OutputPath, req.TextReportDir); err != nil {
				return Result{}, err
			}
		}
	}

	c.logger.Info("run finished",
		zap.String("run_id", runID),
		zap.Int("rows", len(enriched)),
		zap.Int("rules_applied", applied))
	return result, nil
}

func countByCategory(rows []bom.EnrichedRow) map[bom.Category]int {
	out := make(map[bom.Category]int)
	for _, r := range rows {
		out[r.Category]++
	}
	return out
}
