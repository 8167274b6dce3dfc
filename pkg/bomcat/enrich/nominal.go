package enrich

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/promtech/bomcat/pkg/bomcat/bom"
)

// unitMultipliers maps a nominal unit to its SI multiplier. Resistance in
// ohms, capacitance in farads, inductance in henries. Evaluated longest
// unit first so that "пФ" is never absorbed by "Ф".
var unitMultipliers = []struct {
	Unit string
	Mul  float64
}{
	{"мкгн", 1e-6},
	{"kohm", 1e3},
	{"mohm", 1e6},
	{"мкф", 1e-6},
	{"нгн", 1e-9},
	{"мгн", 1e-3},
	{"ком", 1e3},
	{"мом", 1e6},
	{"ohm", 1},
	{"пф", 1e-12},
	{"нф", 1e-9},
	{"мф", 1e-3},
	{"гн", 1},
	{"ом", 1},
	{"pf", 1e-12},
	{"nf", 1e-9},
	{"uf", 1e-6},
	{"µf", 1e-6},
	{"μf", 1e-6},
	{"mf", 1e-3},
	{"nh", 1e-9},
	{"uh", 1e-6},
	{"µh", 1e-6},
	{"μh", 1e-6},
	{"mh", 1e-3},
	{"ω", 1},
	{"ф", 1},
	{"f", 1},
	{"h", 1},
}

var unitPatterns []struct {
	re  *regexp.Regexp
	mul float64
}

func init() {
	sort.SliceStable(unitMultipliers, func(i, j int) bool {
		return len([]rune(unitMultipliers[i].Unit)) > len([]rune(unitMultipliers[j].Unit))
	})
	for _, um := range unitMultipliers {
		re := regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*` + regexp.QuoteMeta(um.Unit) + `(?:$|[^a-zа-яёωµμ])`)
		unitPatterns = append(unitPatterns, struct {
			re  *regexp.Regexp
			mul float64
		}{re, um.Mul})
	}
}

var (
	explicitResistorUnits  = regexp.MustCompile(`(?i)(ком|мом|ом|kohm|mohm|ohm)`)
	explicitCapacitorUnits = regexp.MustCompile(`(?i)(пф|нф|мкф|мф|pf|nf|uf|mf)`)
	explicitInductorUnits  = regexp.MustCompile(`(?i)(нгн|мкгн|мгн|гн|nh|uh|mh|\bh\b)`)

	smdLetterCode   = regexp.MustCompile(`(?i)(?:^|\s)(\d+)([rkm])(\d*)(?:\s|$)`)
	smdThreeDigit   = regexp.MustCompile(`(?:^|\s|-)(\d)(\d)(\d)(?:\s|$|-)`)
	smdFourDigit    = regexp.MustCompile(`(?:^|\s|-)(\d)(\d)(\d)(\d)(?:\s|$|-)`)
	indLeadingRCode = regexp.MustCompile(`(?i)(?:^|\s)r(\d+)(?:\s|$)`)
	indMiddleRCode  = regexp.MustCompile(`(?i)(?:^|\s)(\d+)r(\d+)(?:\s|$)`)
)

// Nominal extracts a sortable nominal value from free text. It is a
// total function: anything unparsable yields 0. Category selects which
// compact SMD code shapes apply before the generic unit table.
func Nominal(text string, cat bom.Category) float64 {
	if text == "" {
		return 0
	}
	text = strings.ToLower(text)

	switch cat {
	case bom.Resistors:
		if v, ok := smdResistorCode(text); ok {
			return v
		}
	case bom.Inductors:
		if v, ok := smdInductorCode(text); ok {
			return v
		}
	case bom.Capacitors:
		if v, ok := eiaCapacitorCode(text); ok {
			return v
		}
	}

	for _, up := range unitPatterns {
		m := up.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
		if err != nil {
			continue
		}
		return v * up.mul
	}
	return 0
}

// smdResistorCode parses compact resistor markings: letter codes
// ("4R7" = 4.7 Ω, "4K7" = 4.7 kΩ) and 3/4-digit exponent codes
// ("103" = 10 kΩ). Skipped when the text spells a unit out.
func smdResistorCode(text string) (float64, bool) {
	if explicitResistorUnits.MatchString(text) {
		return 0, false
	}
	if m := smdLetterCode.FindStringSubmatch(text); m != nil {
		whole, _ := strconv.ParseFloat(m[1], 64)
		frac := 0.0
		if m[3] != "" {
			f, _ := strconv.ParseFloat("0."+m[3], 64)
			frac = f
		}
		mul := 1.0
		switch strings.ToLower(m[2]) {
		case "k":
			mul = 1e3
		case "m":
			mul = 1e6
		}
		return (whole + frac) * mul, true
	}
	if v, ok := digitExponentCode(text); ok {
		return v, true
	}
	return 0, false
}

// smdInductorCode parses the three compact inductor code shapes:
// "R47" (0.47 µH), "4R7" (4.7 µH) and the 3-digit exponent code in nH.
func smdInductorCode(text string) (float64, bool) {
	if explicitInductorUnits.MatchString(text) {
		return 0, false
	}
	if m := indLeadingRCode.FindStringSubmatch(text); m != nil {
		f, err := strconv.ParseFloat("0."+m[1], 64)
		if err == nil {
			return f * 1e-6, true
		}
	}
	if m := indMiddleRCode.FindStringSubmatch(text); m != nil {
		f, err := strconv.ParseFloat(m[1]+"."+m[2], 64)
		if err == nil {
			return f * 1e-6, true
		}
	}
	if v, ok := digitExponentCode(text); ok {
		return v * 1e-9, true
	}
	return 0, false
}

// eiaCapacitorCode parses the 3-digit EIA code: XY×10^Z picofarads,
// so "102" is 1 nF. Skipped when the text spells a unit out.
func eiaCapacitorCode(text string) (float64, bool) {
	if explicitCapacitorUnits.MatchString(text) {
		return 0, false
	}
	m := smdThreeDigit.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	mantissa, _ := strconv.Atoi(m[1] + m[2])
	exponent, _ := strconv.Atoi(m[3])
	pf := float64(mantissa) * pow10(exponent)
	return pf * 1e-12, true
}

// digitExponentCode parses a standalone 3- or 4-digit exponent code
// (XYZ = XY×10^Z, WXYZ = WXY×10^Z) in base units.
func digitExponentCode(text string) (float64, bool) {
	if m := smdThreeDigit.FindStringSubmatch(text); m != nil {
		mantissa, _ := strconv.Atoi(m[1] + m[2])
		exponent, _ := strconv.Atoi(m[3])
		return float64(mantissa) * pow10(exponent), true
	}
	if m := smdFourDigit.FindStringSubmatch(text); m != nil {
		mantissa, _ := strconv.Atoi(m[1] + m[2] + m[3])
		exponent, _ := strconv.Atoi(m[4])
		return float64(mantissa) * pow10(exponent), true
	}
	return 0, false
}

func pow10(exp int) float64 {
	v := 1.0
	for i := 0; i < exp; i++ {
		v *= 10
	}
	return v
}
