package classify

import (
	"regexp"
	"strings"

	"github.com/promtech/bomcat/pkg/bomcat/bom"
)

// Nominal-value shapes recognized inside the free-text blob. Word
// boundaries are spelled out because RE2's \b is ASCII-only and never
// bounds Cyrillic units.
const (
	valueStart = `(?:^|[^\p{L}\d])`
	valueEnd   = `(?:$|[^\p{L}\d])`
)

var (
	resistorValueRe = regexp.MustCompile(`(?i)` + valueStart + `\d+(?:[.,]\d+)?\s*(?:ом|ohm|k\s*ohm|kohm|к\s*ом|ком|m\s*ohm|mohm|м\s*ом|мом)` + valueEnd)
	capValueRe      = regexp.MustCompile(`(?i)` + valueStart + `\d+(?:[.,]\d+)?\s*(?:pf|nf|uf|µf|μf|ф|пф|нф|мкф)` + valueEnd)
	indValueRe      = regexp.MustCompile(`(?i)` + valueStart + `\d+(?:[.,]\d+)?\s*(?:nh|uh|µh|μh|mh|h|нгн|мкгн|мгн|гн)` + valueEnd)
)

// stepReferencePrefix applies the designator-prefix table. Text
// content overrides a bare prefix for V/VT/Q/D (microchip wording wins)
// and for the A-prefix attenuators.
func stepReferencePrefix(c *rowCtx) (bom.Category, bool) {
	if c.ref == "" {
		return "", false
	}
	p := c.refPrefix
	switch {
	case strings.HasPrefix(p, "R"):
		return bom.Resistors, true
	case strings.HasPrefix(p, "C"):
		return bom.Capacitors, true
	case strings.HasPrefix(p, "L"):
		return bom.Inductors, true
	case strings.HasPrefix(p, "U"), strings.HasPrefix(p, "DD"),
		strings.HasPrefix(p, "DA"), strings.HasPrefix(p, "IC"):
		return bom.ICs, true
	case strings.HasPrefix(p, "J"), strings.HasPrefix(p, "X"),
		strings.HasPrefix(p, "P"), strings.HasPrefix(p, "K"):
		return bom.Connectors, true
	}

	// Bare "A" designators mark boards; longer A-prefixes are usually
	// attenuators, split between optics and dev boards by wording.
	if p == "A" || p == "А" {
		return bom.DevBoards, true
	}
	if (strings.HasPrefix(p, "A") || strings.HasPrefix(p, "А")) && len([]rune(p)) > 2 {
		if hasAny(c.blob, attenuatorWords) {
			if hasAny(c.blob, opticalMarkerWords) {
				return bom.Optics, true
			}
			return bom.DevBoards, true
		}
	}

	switch {
	case strings.HasPrefix(p, "WS"), strings.HasPrefix(p, "WU"):
		return bom.RFModules, true
	case strings.HasPrefix(p, "W"):
		if hasAny(c.blob, rfRefWords) {
			return bom.RFModules, true
		}
	case strings.HasPrefix(p, "H"):
		return bom.Semiconductors, true
	case strings.HasPrefix(p, "V"), strings.HasPrefix(p, "VT"), strings.HasPrefix(p, "Q"):
		if hasAny(c.blob, microchipWords) {
			return bom.ICs, true
		}
		return bom.Semiconductors, true
	case strings.HasPrefix(p, "D"):
		if hasAny(c.blob, microchipWords) {
			return bom.ICs, true
		}
		return bom.Semiconductors, true
	case strings.HasPrefix(p, "S"):
		if hasAny(c.blob, switchWords) {
			return bom.Others, true
		}
	}
	return "", false
}
