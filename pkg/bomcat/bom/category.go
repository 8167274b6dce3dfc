package bom

// Category is the closed set of component categories a row can be
// assigned to. The zero value is Unclassified.
type Category string

const (
	Resistors       Category = "resistors"
	Capacitors      Category = "capacitors"
	Inductors       Category = "inductors"
	ICs             Category = "ics"
	Semiconductors  Category = "semiconductors"
	Connectors      Category = "connectors"
	DevBoards       Category = "dev_boards"
	Optics          Category = "optics"
	RFModules       Category = "rf_modules"
	Cables          Category = "cables"
	PowerModules    Category = "power_modules"
	OurDevelopments Category = "our_developments"
	Others          Category = "others"
	Unclassified    Category = "unclassified"
	NonBOM          Category = "non_bom"
)

// displayNames maps category keys to the Russian sheet names used in
// output workbooks and reports.
var displayNames = map[Category]string{
	Resistors:       "Резисторы",
	Capacitors:      "Конденсаторы",
	Inductors:       "Индуктивности",
	ICs:             "Микросхемы",
	Semiconductors:  "Полупроводники",
	Connectors:      "Разъемы",
	DevBoards:       "Отладочные платы",
	Optics:          "Оптические компоненты",
	RFModules:       "СВЧ модули",
	Cables:          "Кабели",
	PowerModules:    "Модули питания",
	OurDevelopments: "Наши разработки",
	Others:          "Другие",
	Unclassified:    "Не распределено",
	NonBOM:          "Не ИВП",
}

// SheetOrder is the fixed order categories appear in output workbooks.
var SheetOrder = []Category{
	ICs, Resistors, Capacitors, Inductors, Semiconductors, Connectors,
	Optics, PowerModules, Cables, OurDevelopments, DevBoards, RFModules,
	Others, Unclassified,
}

// Valid reports whether c is a member of the closed category set.
func (c Category) Valid() bool {
	_, ok := displayNames[c]
	return ok
}

// DisplayName returns the Russian sheet name for the category, or the
// raw key if the category is unknown.
func (c Category) DisplayName() string {
	if name, ok := displayNames[c]; ok {
		return name
	}
	return string(c)
}

// CategoryByDisplayName resolves a Russian sheet name back to its
// category key. Used when re-reading previously written workbooks.
func CategoryByDisplayName(name string) (Category, bool) {
	for cat, display := range displayNames {
		if display == name {
			return cat, true
		}
	}
	return "", false
}

// ParseCategory validates a raw key against the closed set.
func ParseCategory(key string) (Category, bool) {
	c := Category(key)
	return c, c.Valid()
}
