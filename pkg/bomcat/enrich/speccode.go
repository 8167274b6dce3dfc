package enrich

import (
	"regexp"
	"strings"
)

// Specification-code ("ТУ") shapes, most specific first. The first
// matching pattern wins and is stripped from the description.
var specCodePatterns = []struct {
	re       *regexp.Regexp
	tuPrefix bool // pattern captures the numeric tail of a "ТУ N" form
}{
	// Dotted code with a revision suffix: АЕНВ.431320.515-01ТУ
	{regexp.MustCompile(`[А-ЯЁ]{2,}\.\d+\.\d+(?:-\d+)?\s*ТУ`), false},
	// Dotted code: АЛЯР.434110.005ТУ
	{regexp.MustCompile(`[А-ЯЁ]{2,}\.\d+[\d.\-]*\s*ТУ`), false},
	// Leading "ТУ N": ТУ 6329-019-07614320-99
	{regexp.MustCompile(`ТУ\s+([\d\-]+)`), true},
	// Un-dotted code: ШКАБ434110002ТУ, АЕЯР431200424-07ТУ
	{regexp.MustCompile(`[А-ЯЁ]{2,}[\d\-]+\s*ТУ`), false},
	// Generic fallback: any Cyrillic stem glued to digits ending in ТУ
	{regexp.MustCompile(`[А-ЯЁ]{2,}[\d.\-]+ТУ`), false},
}

// ExtractSpecCode pulls the specification-document identifier out of a
// description. It returns the cleaned text and the code; when no shape
// matches, the text comes back untouched and the code is empty.
func ExtractSpecCode(text string) (clean, code string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ""
	}
	for _, p := range specCodePatterns {
		loc := p.re.FindStringSubmatchIndex(text)
		if loc == nil {
			continue
		}
		if p.tuPrefix {
			code = "ТУ " + text[loc[2]:loc[3]]
		} else {
			code = strings.TrimSpace(text[loc[0]:loc[1]])
		}
		clean = strings.Join(strings.Fields(text[:loc[0]]+" "+text[loc[1]:]), " ")
		return clean, code
	}
	return text, ""
}

// russianSpecCode matches codes of the ГОСТ registry shape; rows whose
// code does not look like this carry a manufacturer name instead.
var russianSpecCode = regexp.MustCompile(`(?i)^[А-ЯЁ\d]+\.\d+\.\d+.*ТУ`)

// IsDomesticCode reports whether a specification code denotes a
// domestically produced part (as opposed to an imported-part
// manufacturer annotation riding in the same column).
func IsDomesticCode(code string) bool {
	code = strings.TrimSpace(code)
	if code == "" || code == "-" {
		return false
	}
	if strings.HasPrefix(code, "ТУ ") {
		return true
	}
	return russianSpecCode.MatchString(code)
}
