package discrepancy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"veritas/internal/verification/models"
)

func sourced(value, docID, category string) models.SourcedValue {
	return models.SourcedValue{
		Value:            value,
		DocumentID:       docID,
		DocumentName:     docID + ".pdf",
		DocumentCategory: category,
	}
}

func TestDetect_NoConflicts(t *testing.T) {
	t.Run("identical values across sources produce no discrepancy", func(t *testing.T) {
		fields := models.NewFieldSources(models.IndividualForeign)
		fields.Add(models.FieldLegalName, sourced("Jane Mensah", "doc-1", "passport"))
		fields.Add(models.FieldLegalName, sourced("Jane Mensah", "doc-2", "visa"))
		fields.Add(models.FieldNationality, sourced("Ghanaian", "doc-1", "passport"))

		assert.Empty(t, Detect(fields))
	})

	t.Run("empty field set produces no discrepancy", func(t *testing.T) {
		fields := models.NewFieldSources(models.IndividualDomestic)
		assert.Empty(t, Detect(fields))
	})

	t.Run("single source is never a discrepancy", func(t *testing.T) {
		fields := models.NewFieldSources(models.CorporateDomestic)
		fields.Add(models.FieldRegistrationNumber, sourced("RC-4451", "doc-1", "certificate of incorporation"))

		assert.Empty(t, Detect(fields))
	})
}

func TestDetect_ConflictingValues(t *testing.T) {
	fields := models.NewFieldSources(models.IndividualForeign)
	fields.Add(models.FieldNationality, sourced("USA", "doc-1", "passport"))
	fields.Add(models.FieldNationality, sourced("American", "doc-2", "utility bill"))
	fields.Add(models.FieldNationality, sourced("USA", "doc-3", "visa"))

	discrepancies := Detect(fields)
	require.Len(t, discrepancies, 1)

	d := discrepancies[0]
	assert.Equal(t, models.FieldNationality, d.Field)
	// Exactly the number of distinct strings, in first-seen order.
	assert.Equal(t, []string{"USA", "American"}, d.DistinctValues)
	assert.Len(t, d.Sources["USA"], 2)
	assert.Len(t, d.Sources["American"], 1)
	assert.Equal(t, "doc-2", d.Sources["American"][0].DocumentID)
}

func TestDetect_ExactStringEquality(t *testing.T) {
	// No normalization: case and whitespace variants are distinct values.
	fields := models.NewFieldSources(models.IndividualDomestic)
	fields.Add(models.FieldLegalName, sourced("Jane Mensah", "doc-1", "national id"))
	fields.Add(models.FieldLegalName, sourced("JANE MENSAH", "doc-2", "proof of address"))
	fields.Add(models.FieldLegalName, sourced("Jane  Mensah", "doc-3", "utility bill"))

	discrepancies := Detect(fields)
	require.Len(t, discrepancies, 1)
	assert.Len(t, discrepancies[0].DistinctValues, 3)
}

func TestDetect_MultipleFieldsOrdered(t *testing.T) {
	fields := models.NewFieldSources(models.CorporateForeign)
	fields.Add(models.FieldRegisteredAddress, sourced("12 Rue Verte", "doc-1", "certificate of incorporation"))
	fields.Add(models.FieldRegisteredAddress, sourced("12 Green Street", "doc-2", "board resolution"))
	fields.Add(models.FieldLegalName, sourced("Acme Holdings SA", "doc-1", "certificate of incorporation"))
	fields.Add(models.FieldLegalName, sourced("ACME Holdings", "doc-2", "board resolution"))

	discrepancies := Detect(fields)
	require.Len(t, discrepancies, 2)

	// Output follows the classification's field order, not insertion order.
	assert.Equal(t, models.FieldLegalName, discrepancies[0].Field)
	assert.Equal(t, models.FieldRegisteredAddress, discrepancies[1].Field)
}

func TestDetect_IsDeterministic(t *testing.T) {
	fields := models.NewFieldSources(models.IndividualForeign)
	fields.Add(models.FieldAddress, sourced("1 High St", "doc-1", "passport"))
	fields.Add(models.FieldAddress, sourced("1 High Street", "doc-2", "utility bill"))

	first := Detect(fields)
	second := Detect(fields)
	assert.Equal(t, first, second)
}
