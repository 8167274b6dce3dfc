// Package ingest reads bill-of-materials documents of several formats
// into a raw tabular representation tagged with source provenance.
package ingest

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/promtech/bomcat/pkg/bomcat/internalerr"
)

// RawRow is one extracted table row before column resolution. Cells is
// keyed by normalized header text; Columns preserves the header order
// of the originating table.
type RawRow struct {
	Cells       map[string]string
	Columns     []string
	SourceFile  string
	SourceSheet string

	// Group context carried from the nearest preceding group header.
	GroupSpecCode string
	GroupType     string
}

// Get returns the named cell, empty when absent.
func (r RawRow) Get(column string) string {
	return r.Cells[column]
}

// Adapter reads one document into raw rows. Implementations fail with
// internalerr.ErrUnreadableDocument when the path cannot be opened and
// never return partial data for a file they claim to have parsed.
type Adapter interface {
	Ingest(path string) ([]RawRow, error)
}

// Options selects sheets and wires the optional legacy-document
// converter.
type Options struct {
	// Sheets restricts spreadsheet ingestion to the named sheets.
	// Empty means the first sheet; AllSheets overrides the list.
	Sheets    []string
	AllSheets bool

	// Converter handles legacy word documents. Nil or unavailable
	// converters degrade .doc inputs to a line-text parse.
	Converter DocumentConverter

	Logger *zap.Logger
}

// Ingest dispatches a path to the adapter for its extension.
func Ingest(path string, opts Options) ([]RawRow, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm", ".xls":
		a := &ExcelAdapter{Sheets: opts.Sheets, AllSheets: opts.AllSheets, logger: logger}
		return a.Ingest(path)
	case ".docx":
		a := &WordAdapter{logger: logger}
		return a.Ingest(path)
	case ".doc":
		a := &LegacyWordAdapter{Converter: opts.Converter, logger: logger}
		return a.Ingest(path)
	case ".htm", ".html":
		a := &HTMLAdapter{logger: logger}
		return a.Ingest(path)
	case ".txt", ".csv":
		a := &TextAdapter{logger: logger}
		return a.Ingest(path)
	default:
		return nil, fmt.Errorf("%w: unsupported document type %q", internalerr.ErrInvalidInput, filepath.Ext(path))
	}
}

// normalizeDashes folds typographic dashes to the plain hyphen. Legacy
// document converters substitute en/em dashes inside part numbers,
// which breaks identity-based aggregation.
func normalizeDashes(s string) string {
	r := strings.NewReplacer(
		"–", "-",
		"—", "-",
		"−", "-",
		"‐", "-",
		"‑", "-",
	)
	return r.Replace(s)
}

// normalizeCell trims a cell and strips non-printable leftovers.
func normalizeCell(s string) string {
	s = normalizeDashes(strings.TrimSpace(s))
	var b strings.Builder
	for _, r := range s {
		if r == '�' {
			continue
		}
		if unicode.IsPrint(r) || r == '\n' || r == '\r' || r == '\t' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// normalizeHeader lowercases and trims a header cell for alias lookup.
func normalizeHeader(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
