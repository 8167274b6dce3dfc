package output

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/promtech/bomcat/pkg/bomcat/bom"
	"github.com/promtech/bomcat/pkg/bomcat/enrich"
)

// nominalCategories sort purely by parsed nominal value.
var nominalCategories = map[bom.Category]bool{
	bom.Resistors:  true,
	bom.Capacitors: true,
	bom.Inductors:  true,
}

var leadingDigits = regexp.MustCompile(`^\s*(\d+)`)

// SortRows orders one category's rows in place for output.
//
// Resistors, capacitors and inductors sort by nominal value ascending,
// unparsable values last, tie-broken by description. ICs sort Latin
// names ahead of Cyrillic ones. Own developments keep their input
// order. Everything else sorts imported before domestic, then by the
// leading numeric prefix of the domestic name, then nominal, then
// description.
func SortRows(cat bom.Category, rows []bom.EnrichedRow) {
	switch {
	case nominalCategories[cat]:
		sort.SliceStable(rows, func(i, j int) bool {
			a, b := nominalOrLast(rows[i].NominalSortKey), nominalOrLast(rows[j].NominalSortKey)
			if a != b {
				return a < b
			}
			return rows[i].Description < rows[j].Description
		})
	case cat == bom.ICs:
		sort.SliceStable(rows, func(i, j int) bool {
			gi, ti := scriptGroup(rows[i].Description)
			gj, tj := scriptGroup(rows[j].Description)
			if gi != gj {
				return gi < gj
			}
			return ti < tj
		})
	case cat == bom.OurDevelopments:
		// Keep input order.
	default:
		sort.SliceStable(rows, func(i, j int) bool {
			return lessByOrigin(&rows[i], &rows[j])
		})
	}
}

// nominalOrLast maps the zero "unparsable" marker to the end of the
// ascending order.
func nominalOrLast(v float64) float64 {
	if v == 0 {
		return 1e308
	}
	return v
}

// scriptGroup buckets a name by its first letter: Latin 0, Cyrillic 1,
// no letters 2. The second return is the uppercased tie-break key.
func scriptGroup(text string) (int, string) {
	text = strings.TrimSpace(text)
	upper := strings.ToUpper(text)
	for _, r := range upper {
		switch {
		case r >= 'A' && r <= 'Z':
			return 0, upper
		case (r >= 'А' && r <= 'Я') || r == 'Ё':
			return 1, upper
		}
	}
	return 2, upper
}

func lessByOrigin(a, b *bom.EnrichedRow) bool {
	da, db := isDomestic(a), isDomestic(b)
	if da != db {
		return !da
	}
	na, nb := leadingNumber(a.Description), leadingNumber(b.Description)
	if na != nb {
		return na < nb
	}
	va, vb := nominalOrLast(a.NominalSortKey), nominalOrLast(b.NominalSortKey)
	if va != vb {
		return va < vb
	}
	return a.Description < b.Description
}

func isDomestic(r *bom.EnrichedRow) bool {
	if r.TUCode != "" && enrich.IsDomesticCode(r.TUCode) {
		return true
	}
	return false
}

// leadingNumber parses a numeric prefix from a name, returning a large
// sentinel when the name does not start with digits so prefixed names
// come first within their origin group.
func leadingNumber(text string) int {
	m := leadingDigits.FindStringSubmatch(text)
	if m == nil {
		return int(^uint(0) >> 1)
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return int(^uint(0) >> 1)
	}
	return n
}

// hasLetter reports whether the text contains any letter at all; rows
// that are pure separators are skipped by report writers.
func hasLetter(text string) bool {
	for _, r := range text {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
