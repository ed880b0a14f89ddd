package models

// Field names are a fixed enumeration per entity type rather than an open
// map: the detector iterates the classification's field list in order, so
// discrepancy output is deterministic and unknown fields cannot leak in from
// upstream extraction.
type Field string

const (
	// Common fields apply to both individuals and corporates.
	FieldLegalName Field = "legal_name"
	FieldAddress   Field = "address"

	// Individual fields.
	FieldIdentityNumber Field = "identity_number"
	FieldNationality    Field = "nationality"
	FieldDateOfBirth    Field = "date_of_birth"

	// Corporate fields.
	FieldRegistrationNumber     Field = "registration_number"
	FieldRegisteredAddress      Field = "registered_address"
	FieldAuthorizedSignatory    Field = "authorized_signatory"
	FieldCountryOfIncorporation Field = "country_of_incorporation"
)

var commonFields = []Field{FieldLegalName, FieldAddress}

var individualFields = []Field{
	FieldIdentityNumber,
	FieldNationality,
	FieldDateOfBirth,
}

var corporateFields = []Field{
	FieldRegistrationNumber,
	FieldRegisteredAddress,
	FieldAuthorizedSignatory,
	FieldCountryOfIncorporation,
}

// FieldsFor returns the ordered field list relevant to a classification.
func FieldsFor(c Classification) []Field {
	fields := make([]Field, 0, len(commonFields)+len(corporateFields))
	fields = append(fields, commonFields...)
	if c.IsCorporate() {
		fields = append(fields, corporateFields...)
	} else {
		fields = append(fields, individualFields...)
	}
	return fields
}

// MandatoryFieldsFor returns the fields whose absence marks an entity pending.
func MandatoryFieldsFor(c Classification) []Field {
	if c.IsCorporate() {
		return []Field{FieldRegistrationNumber, FieldRegisteredAddress, FieldAuthorizedSignatory}
	}
	return []Field{FieldIdentityNumber, FieldLegalName, FieldAddress}
}

// FieldSources maps field names to their ordered source lists. Insertion
// order of values follows document processing order; the first value is the
// primary by convention. The zero value is usable.
type FieldSources struct {
	classification Classification
	values         map[Field][]SourcedValue
}

// NewFieldSources creates an empty source mapping restricted to the
// classification's field enumeration.
func NewFieldSources(c Classification) FieldSources {
	return FieldSources{
		classification: c,
		values:         make(map[Field][]SourcedValue),
	}
}

// Add appends a sourced value. Fields outside the classification's
// enumeration are dropped, preserving the fixed-field-set invariant.
func (f *FieldSources) Add(field Field, value SourcedValue) {
	if !f.allows(field) {
		return
	}
	if f.values == nil {
		f.values = make(map[Field][]SourcedValue)
	}
	f.values[field] = append(f.values[field], value)
}

func (f *FieldSources) allows(field Field) bool {
	for _, known := range FieldsFor(f.classification) {
		if known == field {
			return true
		}
	}
	return false
}

// Get returns the ordered source list for a field. A field with zero sources
// returns nil; it is a candidate for "missing field", not a discrepancy.
func (f FieldSources) Get(field Field) []SourcedValue {
	return f.values[field]
}

// Primary returns the first recorded value for a field, or "" when absent.
func (f FieldSources) Primary(field Field) string {
	sources := f.values[field]
	if len(sources) == 0 {
		return ""
	}
	return sources[0].Value
}

// Classification returns the entity classification the field set belongs to.
func (f FieldSources) Classification() Classification {
	return f.classification
}

// DocumentCategories returns every document category observed across all
// fields, in first-seen order with duplicates removed.
func (f FieldSources) DocumentCategories() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, field := range FieldsFor(f.classification) {
		for _, sv := range f.values[field] {
			if sv.DocumentCategory == "" {
				continue
			}
			if _, ok := seen[sv.DocumentCategory]; !ok {
				seen[sv.DocumentCategory] = struct{}{}
				out = append(out, sv.DocumentCategory)
			}
		}
	}
	return out
}
