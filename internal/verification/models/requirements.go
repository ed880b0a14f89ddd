package models

// RequirementSet maps each classification to its required document
// categories. This is configuration, not code: companies can carry their own
// set, with DefaultRequirementSet as the fallback.
type RequirementSet struct {
	// Categories holds the ordered required document categories per
	// classification. Matching against observed categories is
	// case-insensitive substring/equality.
	Categories map[Classification][]string

	// OwnershipThreshold is the beneficial-ownership percentage at and above
	// which corporate shareholders must disclose their individual owners.
	OwnershipThreshold float64

	// RegisterOfMembersCategory is additionally required from corporate
	// shareholders at or above the threshold.
	RegisterOfMembersCategory string

	// MinimumCapital is advisory only; the state machine never enforces it.
	MinimumCapital float64
}

// DefaultOwnershipThreshold is the regulatory default.
const DefaultOwnershipThreshold = 25.0

// DefaultRequirementSet returns the built-in requirement configuration used
// when a company has no override.
func DefaultRequirementSet() RequirementSet {
	return RequirementSet{
		Categories: map[Classification][]string{
			IndividualDomestic: {"national id", "proof of address"},
			IndividualForeign:  {"passport", "proof of address", "visa"},
			CorporateDomestic:  {"certificate of incorporation", "memorandum of association", "board resolution"},
			CorporateForeign:   {"certificate of incorporation", "certificate of good standing", "board resolution"},
		},
		OwnershipThreshold:        DefaultOwnershipThreshold,
		RegisterOfMembersCategory: "register of members",
	}
}

// CategoriesFor returns the required categories for a classification and
// whether any are configured. A classification with no configured list is a
// configuration error, not an empty requirement.
func (r RequirementSet) CategoriesFor(c Classification) ([]string, bool) {
	cats, ok := r.Categories[c]
	return cats, ok
}
