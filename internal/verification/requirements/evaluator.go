// Package requirements checks an entity's observed documents and fields
// against the requirement configuration for its classification.
package requirements

import (
	"strings"

	"veritas/internal/verification/models"
	dErrors "veritas/pkg/domain-errors"
	platstrings "veritas/pkg/platform/strings"
)

// Result lists what is missing for an entity. Both slices are ordered the way
// the configuration orders them so reports are stable.
type Result struct {
	MissingDocuments []string
	MissingFields    []models.Field
}

// IsComplete reports whether nothing is missing.
func (r Result) IsComplete() bool {
	return len(r.MissingDocuments) == 0 && len(r.MissingFields) == 0
}

// Evaluate checks the entity's observed document categories and field values
// against the requirement set. ownershipPercent is the entity's direct
// ownership of the company under verification; corporate entities at or above
// the threshold additionally owe the register-of-members category.
//
// A classification with no configured category list returns a
// CodeDataIntegrity error: the caller marks the entity pending with a
// configuration-error note rather than failing the run.
func Evaluate(entity models.Entity, reqs models.RequirementSet) (Result, error) {
	required, ok := reqs.CategoriesFor(entity.Classification)
	if !ok {
		return Result{}, dErrors.New(dErrors.CodeDataIntegrity,
			"no requirement set configured for classification "+string(entity.Classification))
	}

	required = appendOwnershipRequirement(required, entity, reqs)

	observed := platstrings.DedupeAndTrimLower(entity.Fields.DocumentCategories())

	var res Result
	for _, category := range required {
		if !categoryObserved(category, observed) {
			res.MissingDocuments = append(res.MissingDocuments, category)
		}
	}

	for _, field := range models.MandatoryFieldsFor(entity.Classification) {
		if strings.TrimSpace(entity.Fields.Primary(field)) == "" {
			res.MissingFields = append(res.MissingFields, field)
		}
	}

	return res, nil
}

// appendOwnershipRequirement adds the register-of-members category for
// corporate shareholders crossing the beneficial-ownership threshold, unless
// the classification's list already names it.
func appendOwnershipRequirement(required []string, entity models.Entity, reqs models.RequirementSet) []string {
	if !entity.Classification.IsCorporate() {
		return required
	}
	if reqs.RegisterOfMembersCategory == "" {
		return required
	}
	if entity.OwnershipPercent < reqs.OwnershipThreshold {
		return required
	}

	extra := strings.ToLower(strings.TrimSpace(reqs.RegisterOfMembersCategory))
	for _, c := range required {
		if strings.EqualFold(strings.TrimSpace(c), extra) {
			return required
		}
	}

	out := make([]string, 0, len(required)+1)
	out = append(out, required...)
	return append(out, reqs.RegisterOfMembersCategory)
}

// categoryObserved reports whether a required category matches any observed
// category. Matching is case-insensitive substring in either direction, so
// "passport" satisfies an observed "passport copy" and vice versa.
func categoryObserved(required string, observed []string) bool {
	req := strings.ToLower(strings.TrimSpace(required))
	if req == "" {
		return true
	}
	for _, obs := range observed {
		if strings.Contains(obs, req) || strings.Contains(req, obs) {
			return true
		}
	}
	return false
}
