package bom

// CanonicalRow is one BOM line item after column resolution. Semantic
// fields are typed; everything the resolver could not map stays in Extra.
type CanonicalRow struct {
	Reference     string
	Description   string
	Value         string
	PartNumber    string
	Quantity      int
	InventoryCode string
	Note          string

	// Provenance.
	SourceFile  string
	SourceSheet string

	// Group context inherited from an ingestion-time group header row
	// (word-table adapter), consumed during enrichment.
	GroupSpecCode string
	GroupType     string

	// Unmapped source columns, kept out of the semantic model.
	Extra map[string]string
}

// ClassifiedRow is a canonical row with an assigned category.
type ClassifiedRow struct {
	CanonicalRow
	Category Category
}

// EnrichedRow is a classified row after code extraction, sub-type
// extraction, nominal parsing and quantity aggregation.
type EnrichedRow struct {
	ClassifiedRow

	// TUCode is the specification-document identifier, empty when the
	// row has none.
	TUCode string

	// ComponentType is the free-text sub-type stripped from the
	// description, empty when none was found.
	ComponentType string

	// TotalQuantity is the quantity summed across all rows sharing the
	// row's identity key.
	TotalQuantity int

	// NominalSortKey is the SI-normalized nominal value used for sort
	// order, 0 when unparsable.
	NominalSortKey float64
}
