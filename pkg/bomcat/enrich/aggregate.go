package enrich

import (
	"strings"

	"github.com/promtech/bomcat/pkg/bomcat/bom"
)

// IdentityKey derives the grouping key used for quantity aggregation
// and output row merging. Rows carrying an inventory code aggregate by
// that code; otherwise the part number, value or cleaned description
// identifies the part, in that order of preference.
func IdentityKey(r *bom.EnrichedRow) string {
	if code := strings.TrimSpace(r.InventoryCode); code != "" && code != "-" {
		return "inv:" + strings.ToLower(code)
	}
	if pn := strings.TrimSpace(r.PartNumber); pn != "" {
		return "pn:" + strings.ToLower(pn)
	}
	if v := strings.TrimSpace(r.Value); v != "" {
		return "val:" + strings.ToLower(v)
	}
	return "desc:" + strings.ToLower(strings.TrimSpace(r.Description))
}

// AggregateQuantities sums row quantities per identical part and writes
// the total back onto every row of the group. Rows stay in place; only
// TotalQuantity changes.
func AggregateQuantities(rows []bom.EnrichedRow) {
	totals := make(map[string]int, len(rows))
	for i := range rows {
		q := rows[i].Quantity
		if q <= 0 {
			q = 1
		}
		totals[IdentityKey(&rows[i])] += q
	}
	for i := range rows {
		rows[i].TotalQuantity = totals[IdentityKey(&rows[i])]
	}
}
