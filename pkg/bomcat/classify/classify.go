// Package classify assigns bill-of-materials rows to component
// categories through a deterministic rule cascade: explicit type
// markers, reference-designator prefixes, value patterns and keyword
// buckets, in a fixed reviewable order.
package classify

import (
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/promtech/bomcat/pkg/bomcat/bom"
)

// Engine classifies canonical rows. Classification is a pure function
// of the row's fields; the engine itself holds only configuration.
type Engine struct {
	loose  bool
	steps  []step
	logger *zap.Logger
}

// step is one named stage of the cascade. The first step to return a
// category wins.
type step struct {
	name string
	fn   func(*rowCtx) (bom.Category, bool)
}

// rowCtx carries the lowered text views a step matches against.
type rowCtx struct {
	ref       string
	refPrefix string
	desc      string
	blob      string // description + value + part number + note, lowered
	srcFile   string
	loose     bool
}

// New returns a classification engine. The loose flag widens the final
// catch-all bucket and nothing else.
func New(loose bool, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{loose: loose, logger: logger}
	e.steps = []step{
		{"explicit-inductor", stepExplicitInductor},
		{"explicit-resistor", stepExplicitResistor},
		{"explicit-capacitor", stepExplicitCapacitor},
		{"explicit-fuse", stepExplicitFuse},
		{"own-development-markers", stepOwnDevelopment},
		{"resistor-words", stepResistorWords},
		{"capacitor-words", stepCapacitorWords},
		{"ic-words", stepICWords},
		{"inductor-words", stepInductorWords},
		{"semiconductor-words", stepSemiconductorWords},
		{"connector-words", stepConnectorWords},
		{"optics-modules", stepOpticsModules},
		{"cable-words", stepCableWords},
		{"power-module-words", stepPowerModuleWords},
		{"self-reference", stepSelfReference},
		{"adapters", stepAdapters},
		{"rf-attenuators", stepRFAttenuators},
		{"rittal", stepRittal},
		{"matched-load", stepMatchedLoad},
		{"ferrite-isolators", stepFerriteIsolators},
		{"dev-board-vendors", stepDevBoardVendors},
		{"broad-optics", stepBroadOptics},
		{"u-prefix-optics", stepUPrefixOptics},
		{"reference-prefix", stepReferencePrefix},
		{"value-patterns", stepValuePatterns},
		{"keyword-cascade", stepKeywordCascade},
	}
	return e
}

// Classify runs the cascade over every row. Rows nothing matches land
// in the unclassified bucket.
func (e *Engine) Classify(rows []bom.CanonicalRow) []bom.ClassifiedRow {
	out := make([]bom.ClassifiedRow, 0, len(rows))
	for _, row := range rows {
		cat := e.classifyRow(&row)
		out = append(out, bom.ClassifiedRow{CanonicalRow: row, Category: cat})
	}
	e.logger.Debug("rows classified", zap.Int("count", len(out)))
	return out
}

func (e *Engine) classifyRow(row *bom.CanonicalRow) bom.Category {
	ctx := newRowCtx(row, e.loose)
	for _, s := range e.steps {
		if cat, ok := s.fn(ctx); ok {
			return cat
		}
	}
	return bom.Unclassified
}

var refPrefixRe = regexp.MustCompile(`\d.*$`)

func newRowCtx(row *bom.CanonicalRow, loose bool) *rowCtx {
	ref := strings.TrimSpace(row.Reference)
	prefix := ""
	if ref != "" {
		prefix = strings.ToUpper(strings.Fields(ref)[0])
		prefix = refPrefixRe.ReplaceAllString(prefix, "")
	}
	blob := strings.ToLower(strings.Join([]string{
		row.Description, row.Value, row.PartNumber, row.Note,
	}, " "))
	return &rowCtx{
		ref:       ref,
		refPrefix: prefix,
		desc:      strings.TrimSpace(row.Description),
		blob:      blob,
		srcFile:   row.SourceFile,
		loose:     loose,
	}
}

func hasAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

func stepExplicitInductor(c *rowCtx) (bom.Category, bool) {
	if hasAny(c.blob, inductorTypeWords) {
		return bom.Inductors, true
	}
	return "", false
}

func stepExplicitResistor(c *rowCtx) (bom.Category, bool) {
	if hasAny(c.blob, resistorTypeWords) {
		return bom.Resistors, true
	}
	return "", false
}

func stepExplicitCapacitor(c *rowCtx) (bom.Category, bool) {
	if hasAny(c.blob, capacitorTypeWords) {
		return bom.Capacitors, true
	}
	return "", false
}

func stepExplicitFuse(c *rowCtx) (bom.Category, bool) {
	if hasAny(c.blob, fuseWords) {
		return bom.Others, true
	}
	return "", false
}

func stepOwnDevelopment(c *rowCtx) (bom.Category, bool) {
	if hasAny(c.blob, ourDevelopmentWords) {
		return bom.OurDevelopments, true
	}
	return "", false
}

func stepResistorWords(c *rowCtx) (bom.Category, bool) {
	if hasAny(c.blob, resistorWords) {
		return bom.Resistors, true
	}
	return "", false
}

func stepCapacitorWords(c *rowCtx) (bom.Category, bool) {
	if hasAny(c.blob, capacitorWords) && !hasAny(c.blob, powerDividerWords) {
		return bom.Capacitors, true
	}
	return "", false
}

func stepICWords(c *rowCtx) (bom.Category, bool) {
	if hasAny(c.blob, icWords) {
		return bom.ICs, true
	}
	if hasAny(c.blob, icShortWords) && !hasAny(c.blob, icShortExclusions) {
		return bom.ICs, true
	}
	return "", false
}

func stepInductorWords(c *rowCtx) (bom.Category, bool) {
	if hasAny(c.blob, inductorWords) {
		return bom.Inductors, true
	}
	return "", false
}

func stepSemiconductorWords(c *rowCtx) (bom.Category, bool) {
	if hasAny(c.blob, semiconductorTypeWords) {
		return bom.Semiconductors, true
	}
	return "", false
}

func stepConnectorWords(c *rowCtx) (bom.Category, bool) {
	if hasAny(c.blob, connectorTypeWords) {
		return bom.Connectors, true
	}
	return "", false
}

// Optical components outrank cables: an optical cable is optics.
func stepOpticsModules(c *rowCtx) (bom.Category, bool) {
	if hasAny(c.blob, opticsModuleWords) {
		return bom.Optics, true
	}
	if strings.Contains(c.blob, "оптическ") || strings.Contains(c.blob, "optical") {
		return bom.Optics, true
	}
	return "", false
}

func stepCableWords(c *rowCtx) (bom.Category, bool) {
	if hasAny(c.blob, cableWords) {
		return bom.Cables, true
	}
	return "", false
}

func stepPowerModuleWords(c *rowCtx) (bom.Category, bool) {
	if hasAny(c.blob, powerModuleWords) {
		return bom.PowerModules, true
	}
	return "", false
}

// stepSelfReference catches assembly rows whose description repeats
// the source file's base name: the board itself, not a part on it.
func stepSelfReference(c *rowCtx) (bom.Category, bool) {
	if c.srcFile == "" || c.desc == "" {
		return "", false
	}
	descLower := strings.ToLower(c.desc)
	if hasAny(descLower, selfReferenceComponentWords) {
		return "", false
	}
	base := strings.ToLower(filepath.Base(c.srcFile))
	base = strings.TrimSuffix(base, filepath.Ext(base))

	strip := func(s string) string {
		s = strings.ReplaceAll(s, ".xlsx", "")
		s = strings.ReplaceAll(s, ".xls", "")
		s = strings.ReplaceAll(s, " ", "")
		return strings.ReplaceAll(s, "_", "")
	}
	descClean := strip(descLower)
	fileClean := strip(base)
	if fileClean == "" {
		return "", false
	}
	if descClean == fileClean || strings.HasPrefix(descClean, fileClean) || strings.Contains(descClean, fileClean) {
		return bom.OurDevelopments, true
	}
	return "", false
}

func stepAdapters(c *rowCtx) (bom.Category, bool) {
	if hasAny(c.blob, adapterWords) && !hasAny(c.blob, opticalConnectorWords) {
		return bom.Connectors, true
	}
	return "", false
}

// RF attenuators and dividers go to rf_modules when a known vendor or
// part-family marker vouches for them.
func stepRFAttenuators(c *rowCtx) (bom.Category, bool) {
	if !hasAny(c.blob, rfComponentWords) || hasAny(c.blob, opticalMarkerWords) {
		return "", false
	}
	if hasAny(c.blob, rfVendorWords) || hasAny(c.blob, rfPartMarkerWords) {
		return bom.RFModules, true
	}
	return "", false
}

func stepRittal(c *rowCtx) (bom.Category, bool) {
	if strings.Contains(c.blob, "rittal") {
		return bom.Others, true
	}
	return "", false
}

func stepMatchedLoad(c *rowCtx) (bom.Category, bool) {
	if hasAny(c.blob, matchedLoadWords) {
		return bom.RFModules, true
	}
	return "", false
}

func stepFerriteIsolators(c *rowCtx) (bom.Category, bool) {
	if hasAny(c.blob, ferriteIsolatorWords) {
		return bom.Inductors, true
	}
	return "", false
}

func stepDevBoardVendors(c *rowCtx) (bom.Category, bool) {
	if hasAny(c.blob, devBoardWords) && hasAny(c.blob, devBoardVendorWords) {
		return bom.DevBoards, true
	}
	return "", false
}

func stepBroadOptics(c *rowCtx) (bom.Category, bool) {
	if strings.Contains(c.blob, "оптич") || strings.Contains(c.blob, "optical") {
		return bom.Optics, true
	}
	return "", false
}

func stepUPrefixOptics(c *rowCtx) (bom.Category, bool) {
	if c.ref == "" || !strings.HasPrefix(c.refPrefix, "U") {
		return "", false
	}
	if hasAny(c.blob, opticsUPrefixWords) {
		return bom.Optics, true
	}
	return "", false
}

func stepValuePatterns(c *rowCtx) (bom.Category, bool) {
	if resistorValueRe.MatchString(c.blob) || hasAny(c.blob, resistorCatchWords) {
		return bom.Resistors, true
	}
	if capValueRe.MatchString(c.blob) || hasAny(c.blob, capacitorCatchWords) {
		if !hasAny(c.blob, powerDividerWords) {
			return bom.Capacitors, true
		}
	}
	if indValueRe.MatchString(c.blob) || hasAny(c.blob, inductorCatchWords) {
		return bom.Inductors, true
	}
	return "", false
}

// stepKeywordCascade is the fixed-order keyword bucket pass: fuses and
// generic hardware before semiconductors and ICs, so a fuse holder is
// never mistaken for a diode.
func stepKeywordCascade(c *rowCtx) (bom.Category, bool) {
	if hasAny(c.blob, fuseWords) {
		return bom.Others, true
	}
	if hasAny(c.blob, semiconductorCatchWords) {
		return bom.Semiconductors, true
	}
	if hasAny(c.blob, icCatchWords) {
		return bom.ICs, true
	}
	if hasAny(c.blob, connectorCatchWords) {
		return bom.Connectors, true
	}
	if hasAny(c.blob, devBoardCatchWords) {
		return bom.DevBoards, true
	}
	if hasAny(c.blob, opticsCatchWords) {
		return bom.Optics, true
	}
	if hasAny(c.blob, rfCatchWords) {
		if hasAny(c.blob, qfaWords) && !strings.Contains(c.blob, "qpd") {
			return bom.Others, true
		}
		return bom.RFModules, true
	}
	if hasAny(c.blob, cableCatchWords) {
		return bom.Cables, true
	}
	if hasAny(c.blob, powerCatchWords) {
		return bom.PowerModules, true
	}
	if hasAny(c.blob, othersCatchWords) {
		return bom.Others, true
	}
	if c.loose && hasAny(c.blob, looseOthersWords) {
		return bom.Others, true
	}
	return "", false
}
