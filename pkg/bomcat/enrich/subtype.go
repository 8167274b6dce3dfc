package enrich

import "strings"

// componentTypes lists the canonical type words that prefix component
// descriptions in assembly documents. Longest first so compound names
// win over their single-word stems.
var componentTypes = []string{
	"ЧИП КОНДЕНСАТОР КЕРАМИЧЕСКИЙ",
	"НАБОР КОНДЕНСАТОРОВ",
	"ТРАНЗИСТОРНАЯ МАТРИЦА",
	"ПЛАТА ИНСТРУМЕНТАЛЬНАЯ",
	"НАБОР РЕЗИСТОРОВ",
	"НАБОР МИКРОСХЕМ",
	"ОПТИЧЕСКИЙ МОДУЛЬ",
	"МОДУЛЬ ПИТАНИЯ",
	"ПРЕДОХРАНИТЕЛЬ",
	"ИНДУКТИВНОСТЬ",
	"СТАБИЛИТРОН",
	"КОНДЕНСАТОР",
	"ТРАНЗИСТОР",
	"МИКРОСХЕМА",
	"ГЕНЕРАТОР",
	"РЕЗИСТОР",
	"ДРОССЕЛЬ",
	"РАЗЪЕМ",
	"РАЗЪЁМ",
	"ОПТРОН",
	"КАБЕЛЬ",
	"ВИЛКА",
	"ДИОД",
}

// ComponentType resolves the sub-type annotation for a row: a canonical
// type word found at the head of the description, or one inherited from
// the surrounding group header. Group types propagate only for resistor,
// capacitor and IC kits; individual parts under a generic group header
// keep their own typing.
func ComponentType(description, groupType string) string {
	upper := strings.ToUpper(strings.TrimSpace(description))
	for _, t := range componentTypes {
		if strings.HasPrefix(upper, t) {
			// Harting plug names keep their leading word.
			if t == "ВИЛКА" && (strings.Contains(strings.ToLower(description), "harting") ||
				strings.Contains(strings.ToLower(description), "sek")) {
				continue
			}
			return canonicalType(t)
		}
	}
	if groupType != "" && strings.Contains(strings.ToLower(groupType), "набор") {
		return canonicalType(strings.ToUpper(strings.TrimSpace(groupType)))
	}
	return ""
}

// canonicalType renders a shouting document prefix in title case.
func canonicalType(t string) string {
	words := strings.Fields(strings.ToLower(t))
	for i, w := range words {
		r := []rune(w)
		if len(r) > 0 && i == 0 {
			words[i] = strings.ToUpper(string(r[0])) + string(r[1:])
		}
	}
	return strings.Join(words, " ")
}

// groupTypeFromHeader picks the canonical type word a group header
// carries, if any. Used by ingestion adapters when a header row opens
// a new section.
func GroupTypeFromHeader(header string) string {
	upper := strings.ToUpper(header)
	for _, t := range componentTypes {
		if strings.Contains(upper, t) {
			return canonicalType(t)
		}
	}
	return ""
}
