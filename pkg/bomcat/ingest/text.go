package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/text/encoding/charmap"

	"github.com/promtech/bomcat/pkg/bomcat/internalerr"
)

// TextAdapter parses line-oriented exports: one part per line, columns
// separated by runs of whitespace, tabs or semicolons.
type TextAdapter struct {
	logger *zap.Logger
}

// NewTextAdapter returns a line-text adapter.
func NewTextAdapter(logger *zap.Logger) *TextAdapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TextAdapter{logger: logger}
}

var (
	lineSplitRe = regexp.MustCompile(`\s{2,}|\t|;|,\s?`)
	posPrefixRe = regexp.MustCompile(`(?i)^(?:[A-ZА-ЯЁ]+\d+(?:[-,;\s]*[A-ZА-ЯЁ]*\d+)*)$`)
	qtyPhraseRe = regexp.MustCompile(`(?i)(\d+)\s*(шт\.?|pcs|pieces)`)
	pureIntRe   = regexp.MustCompile(`^\d+$`)
)

func (a *TextAdapter) Ingest(path string) ([]RawRow, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", internalerr.ErrUnreadableDocument, path, err)
	}
	text := decodeText(raw)

	base := filepath.Base(path)
	var out []RawRow
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if r, ok := rowFromTextLine(line, base, ""); ok {
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		out = append(out, textRow("", strings.TrimSpace(text), 1, base, ""))
	}
	a.logger.Debug("text file ingested", zap.String("file", base), zap.Int("rows", len(out)))
	return out, nil
}

// decodeText assumes UTF-8 and falls back to the cp1251 legacy
// encoding these exports usually carry.
func decodeText(raw []byte) string {
	if utf8.Valid(raw) {
		return string(raw)
	}
	decoded, err := charmap.Windows1251.NewDecoder().Bytes(raw)
	if err != nil {
		return string(raw)
	}
	return string(decoded)
}

// rowFromTextLine splits a line into reference, description and
// quantity. The first token is a reference when it matches the
// position-designator shape; quantity comes from an explicit "N шт"
// phrase, else the last pure-integer token, else 1.
func rowFromTextLine(line, sourceFile, sourceSheet string) (RawRow, bool) {
	line = normalizeDashes(strings.TrimSpace(line))
	parts := splitFields(line)
	if len(parts) == 0 {
		return RawRow{}, false
	}

	ref := ""
	if posPrefixRe.MatchString(parts[0]) {
		ref = parts[0]
		parts = parts[1:]
	}

	qty := 0
	qtyPhrase := ""
	if m := qtyPhraseRe.FindStringSubmatch(line); m != nil {
		qty, _ = strconv.Atoi(m[1])
		qtyPhrase = m[0]
	} else {
		for i := len(parts) - 1; i >= 0; i-- {
			if pureIntRe.MatchString(parts[i]) {
				qty, _ = strconv.Atoi(parts[i])
				parts = append(parts[:i], parts[i+1:]...)
				break
			}
		}
	}
	if qty == 0 {
		qty = 1
	}

	desc := strings.Join(parts, " ")
	if qtyPhrase != "" {
		desc = strings.TrimSpace(strings.Replace(desc, qtyPhrase, "", 1))
	}
	if desc == "" && ref == "" {
		return RawRow{}, false
	}
	return textRow(ref, desc, qty, sourceFile, sourceSheet), true
}

func splitFields(line string) []string {
	var out []string
	for _, p := range lineSplitRe.Split(line, -1) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

var textColumns = []string{colReference, colName, colQuantity}

func textRow(ref, desc string, qty int, sourceFile, sourceSheet string) RawRow {
	return RawRow{
		Cells: map[string]string{
			colReference: ref,
			colName:      desc,
			colQuantity:  strconv.Itoa(qty),
		},
		Columns:     textColumns,
		SourceFile:  sourceFile,
		SourceSheet: sourceSheet,
	}
}
