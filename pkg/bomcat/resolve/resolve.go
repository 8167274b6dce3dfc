// Package resolve maps arbitrary document headers onto the canonical
// semantic fields of a bill-of-materials row.
package resolve

import (
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/promtech/bomcat/pkg/bomcat/bom"
	"github.com/promtech/bomcat/pkg/bomcat/ingest"
)

// AliasTable lists accepted header names per semantic field. Lookup is
// exact first, then prefix, in alias order.
type AliasTable struct {
	Reference     []string
	Description   []string
	Value         []string
	PartNumber    []string
	Quantity      []string
	InventoryCode []string
	Note          []string
}

// DefaultAliases covers the header vocabulary of the supported
// document families, Russian and English.
func DefaultAliases() AliasTable {
	return AliasTable{
		Reference: []string{
			"ref", "reference", "designator", "refdes", "reference designator",
			"обозначение", "позиционное обозначение", "поз. обозначение",
		},
		Description: []string{
			"description", "desc", "наименование ивп", "наименование", "имя",
			"item", "part name", "наим.",
		},
		Value: []string{"value", "значение", "номинал"},
		PartNumber: []string{
			"partnumber", "mfr part", "mpn", "pn", "art", "артикул", "part",
		},
		Quantity: []string{
			"qty", "quantity", "количество", "кол.", "кол-во", "кол в ктд",
			"кол. в ктд", "кол. в спецификации", "кол",
		},
		InventoryCode: []string{
			"код мр", "код ивп", "код мр/ивп", "код позиции", "код изделия",
		},
		Note: []string{"note", "примечание", "примеч."},
	}
}

// Resolver turns raw rows into canonical rows.
type Resolver struct {
	aliases AliasTable
	logger  *zap.Logger
}

// New returns a Resolver over the given alias table.
func New(aliases AliasTable, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{aliases: aliases, logger: logger}
}

// Resolve maps every raw row onto the canonical field set. Columns
// matching several aliases of one field merge row-wise: the first
// non-empty cell in column order wins. Columns claimed by no field
// land in the row's passthrough bag.
func (r *Resolver) Resolve(rows []ingest.RawRow) []bom.CanonicalRow {
	out := make([]bom.CanonicalRow, 0, len(rows))
	for i := range rows {
		out = append(out, r.resolveRow(&rows[i]))
	}
	r.logger.Debug("columns resolved", zap.Int("rows", len(out)))
	return out
}

func (r *Resolver) resolveRow(raw *ingest.RawRow) bom.CanonicalRow {
	claimed := make(map[string]bool, len(raw.Columns))

	pick := func(aliases []string) string {
		value := ""
		for _, c := range matchColumns(raw.Columns, aliases) {
			if claimed[c] {
				continue
			}
			claimed[c] = true
			if value == "" {
				value = strings.TrimSpace(raw.Cells[c])
			}
		}
		return value
	}

	row := bom.CanonicalRow{
		Reference:     pick(r.aliases.Reference),
		Description:   pick(r.aliases.Description),
		Value:         pick(r.aliases.Value),
		PartNumber:    pick(r.aliases.PartNumber),
		InventoryCode: pick(r.aliases.InventoryCode),
		Note:          pick(r.aliases.Note),
		Quantity:      parseQuantity(pick(r.aliases.Quantity)),
		SourceFile:    raw.SourceFile,
		SourceSheet:   raw.SourceSheet,
		GroupSpecCode: raw.GroupSpecCode,
		GroupType:     raw.GroupType,
	}

	for _, c := range raw.Columns {
		if claimed[c] {
			continue
		}
		v := strings.TrimSpace(raw.Cells[c])
		if v == "" {
			continue
		}
		if row.Extra == nil {
			row.Extra = make(map[string]string)
		}
		row.Extra[c] = v
	}
	return row
}

// matchColumns returns the columns a field claims: exact alias matches
// first, then prefix matches, preserving column order within each tier.
func matchColumns(columns []string, aliases []string) []string {
	var exact, prefixed []string
	seen := make(map[string]bool)
	for _, col := range columns {
		low := strings.ToLower(strings.TrimSpace(col))
		for _, a := range aliases {
			if low == a {
				if !seen[col] {
					exact = append(exact, col)
					seen[col] = true
				}
				break
			}
		}
	}
	for _, col := range columns {
		if seen[col] {
			continue
		}
		low := strings.ToLower(strings.TrimSpace(col))
		for _, a := range aliases {
			if strings.HasPrefix(low, a) {
				prefixed = append(prefixed, col)
				seen[col] = true
				break
			}
		}
	}
	return append(exact, prefixed...)
}

var digitsRe = regexp.MustCompile(`\d+`)

// parseQuantity reads the first integer out of a quantity cell.
// Unparsable tokens default to 1.
func parseQuantity(s string) int {
	m := digitsRe.FindString(s)
	if m == "" {
		return 1
	}
	n, err := strconv.Atoi(m)
	if err != nil || n < 0 {
		return 1
	}
	return n
}
