// Package enrich derives presentation fields from classified rows:
// specification codes, canonical sub-types, sortable nominal values and
// aggregated per-part quantities.
package enrich

import (
	"go.uber.org/zap"

	"github.com/promtech/bomcat/pkg/bomcat/bom"
)

// Enricher derives the output-facing fields of classified rows.
type Enricher struct {
	logger *zap.Logger
}

// New returns an Enricher. A nil logger disables logging.
func New(logger *zap.Logger) *Enricher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Enricher{logger: logger}
}

// Enrich processes every classified row: it extracts and strips the
// specification code (falling back to the group header's code),
// resolves the sub-type, cleans the description, computes the nominal
// sort key and aggregates quantities across identical parts.
func (e *Enricher) Enrich(rows []bom.ClassifiedRow) []bom.EnrichedRow {
	out := make([]bom.EnrichedRow, 0, len(rows))
	for _, r := range rows {
		er := bom.EnrichedRow{ClassifiedRow: r}

		clean, code := ExtractSpecCode(r.Description)
		if code == "" {
			code = r.GroupSpecCode
		} else {
			er.Description = clean
		}
		er.TUCode = code

		er.ComponentType = ComponentType(er.Description, r.GroupType)
		er.Description = CleanDescription(er.Description)
		er.NominalSortKey = Nominal(er.Description, r.Category)

		out = append(out, er)
	}
	AggregateQuantities(out)
	e.logger.Debug("rows enriched", zap.Int("count", len(out)))
	return out
}
