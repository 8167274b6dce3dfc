package enrich

import (
	"regexp"
	"strings"
)

// end marks where a unit stops; \b is ASCII-only in RE2 and does not
// bound Cyrillic letters.
const unitEnd = `($|[^а-яёА-ЯЁa-zA-Z])`

var unitCasings = []struct {
	re   *regexp.Regexp
	repl string
}{
	{regexp.MustCompile(`(?i)(\d)\s*МКГН` + unitEnd), "$1 мкГн$2"},
	{regexp.MustCompile(`(?i)(\d)\s*МГН` + unitEnd), "$1 мГн$2"},
	{regexp.MustCompile(`(?i)(\d)\s*МКФ` + unitEnd), "$1 мкФ$2"},
	{regexp.MustCompile(`(?i)(\d)\s*КОМ` + unitEnd), "$1 кОм$2"},
	{regexp.MustCompile(`(?i)(\d)\s*МОМ` + unitEnd), "$1 МОм$2"},
	{regexp.MustCompile(`(?i)(\d)\s*ПФ` + unitEnd), "$1 пФ$2"},
	{regexp.MustCompile(`(?i)(\d)\s*НФ` + unitEnd), "$1 нФ$2"},
	{regexp.MustCompile(`(?i)(\d)\s*МФ` + unitEnd), "$1 мФ$2"},
	{regexp.MustCompile(`(?i)(\d)\s*ГН` + unitEnd), "$1 Гн$2"},
	{regexp.MustCompile(`(?i)(\d)\s*ОМ` + unitEnd), "$1 Ом$2"},
}

var (
	manufacturerComma = regexp.MustCompile(`,\s*ф\.`)
	tolerancePercent  = regexp.MustCompile(`(\s)(\d+(?:[.,]\d+)?)\s*%`)
)

// CleanDescription strips a leading canonical type word, normalizes
// unit casing and tolerance notation, and drops markup leftovers.
func CleanDescription(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	upper := strings.ToUpper(text)
	lower := strings.ToLower(text)
	for _, t := range componentTypes {
		if strings.HasPrefix(upper, t) {
			if t == "ВИЛКА" && (strings.Contains(lower, "harting") || strings.Contains(lower, "sek")) {
				continue
			}
			text = strings.TrimSpace(text[len(t):])
			break
		}
	}

	for _, u := range unitCasings {
		text = u.re.ReplaceAllString(text, u.repl)
	}

	text = manufacturerComma.ReplaceAllString(text, " ф.")

	// Bare tolerance figures gain the sign the source dropped.
	text = tolerancePercent.ReplaceAllStringFunc(text, func(m string) string {
		if strings.Contains(m, "±") || strings.Contains(m, "+") || strings.Contains(m, "-") {
			return m
		}
		sub := tolerancePercent.FindStringSubmatch(m)
		return sub[1] + "±" + sub[2] + "%"
	})

	text = strings.ReplaceAll(text, "$", "")

	// RE2 has no backreferences; the trailing duplicate token is
	// dropped by direct comparison instead.
	fields := strings.Fields(text)
	if n := len(fields); n >= 2 && fields[n-1] == fields[n-2] && len([]rune(fields[n-1])) >= 4 {
		fields = fields[:n-1]
	}
	return strings.Join(fields, " ")
}
