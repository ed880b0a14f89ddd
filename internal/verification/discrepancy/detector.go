// Package discrepancy detects conflicting values for the same field across
// source documents. Detection is exact string equality with no normalization:
// the judgment whether "USA" and "American" conflict belongs to the external
// discrepancy judge, and silent fuzzy-matching here would weaken the
// fail-closed guarantee.
package discrepancy

import (
	"veritas/internal/verification/models"
)

// Detect returns one Discrepancy per field with more than one distinct value,
// in the classification's field order. A field with zero sources is not a
// discrepancy; it is a candidate for the missing-field check. No side effects.
func Detect(fields models.FieldSources) []models.Discrepancy {
	var out []models.Discrepancy

	for _, field := range models.FieldsFor(fields.Classification()) {
		sources := fields.Get(field)
		if len(sources) < 2 {
			continue
		}

		distinct, byValue := groupByValue(sources)
		if len(distinct) < 2 {
			continue
		}

		out = append(out, models.Discrepancy{
			Field:          field,
			DistinctValues: distinct,
			Sources:        byValue,
		})
	}

	return out
}

// groupByValue buckets sources by their exact value, preserving first-seen
// order of distinct values.
func groupByValue(sources []models.SourcedValue) ([]string, map[string][]models.SourcedValue) {
	var distinct []string
	byValue := make(map[string][]models.SourcedValue)

	for _, sv := range sources {
		if _, seen := byValue[sv.Value]; !seen {
			distinct = append(distinct, sv.Value)
		}
		byValue[sv.Value] = append(byValue[sv.Value], sv)
	}

	return distinct, byValue
}
