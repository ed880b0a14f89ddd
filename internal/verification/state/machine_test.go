package state

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"veritas/internal/verification/models"
)

var (
	genuine = []models.GenuineDiscrepancy{{
		Field:       models.FieldNationality,
		Values:      []string{"USA", "German"},
		Explanation: "nationalities conflict",
	}}
	resolved = []models.ResolvedDiscrepancy{{
		Field:      models.FieldLegalName,
		Values:     []string{"Jane Mensah", "JANE MENSAH"},
		Resolution: "case variant",
	}}
	missingFields = []models.Field{models.FieldIdentityNumber}
	missingDocs   = []string{"passport"}
	issues        = []models.OwnershipIssue{{OwnerName: "X", Issue: models.OwnerIssuePending}}
)

func TestDecide_Precedence(t *testing.T) {
	t.Run("genuine discrepancies dominate everything", func(t *testing.T) {
		status, detail := Decide(Inputs{
			GenuineDiscrepancies: genuine,
			MissingFields:        missingFields,
			MissingDocuments:     missingDocs,
			OwnershipIssues:      issues,
		})
		assert.Equal(t, models.StatusNotVerified, status)
		assert.Equal(t, genuine, detail.GenuineDiscrepancies)
		// Lower-severity findings are not reported once a harder failure wins.
		assert.Empty(t, detail.MissingFields)
		assert.Empty(t, detail.OwnershipIssues)
	})

	t.Run("missing requirements dominate ownership issues", func(t *testing.T) {
		status, detail := Decide(Inputs{
			MissingDocuments: missingDocs,
			OwnershipIssues:  issues,
		})
		assert.Equal(t, models.StatusPending, status)
		assert.Equal(t, missingDocs, detail.MissingDocuments)
	})

	t.Run("ownership issues alone yield beneficial_ownership_incomplete", func(t *testing.T) {
		status, detail := Decide(Inputs{OwnershipIssues: issues})
		assert.Equal(t, models.StatusOwnershipIncomplete, status)
		assert.Equal(t, issues, detail.OwnershipIssues)
	})

	t.Run("clean inputs verify", func(t *testing.T) {
		status, detail := Decide(Inputs{ResolvedDiscrepancies: resolved})
		assert.Equal(t, models.StatusVerified, status)
		assert.Empty(t, detail.MissingFields)
		assert.Empty(t, detail.OwnershipIssues)
		// Resolved discrepancies stay in the detail for the record.
		assert.Equal(t, resolved, detail.ResolvedDiscrepancies)
	})
}

func TestDecide_ConfigurationNotesForcePending(t *testing.T) {
	status, detail := Decide(Inputs{Notes: []string{"configuration error: no requirement set for classification"}})
	assert.Equal(t, models.StatusPending, status)
	assert.Len(t, detail.Notes, 1)
}

func TestDecide_IsPure(t *testing.T) {
	in := Inputs{MissingFields: missingFields}
	s1, d1 := Decide(in)
	s2, d2 := Decide(in)
	assert.Equal(t, s1, s2)
	assert.Equal(t, d1, d2)
}

func TestIssueForOwner(t *testing.T) {
	owner := func(status models.Status) models.BeneficialOwner {
		return models.BeneficialOwner{Name: "X", RequiresKYC: true, VerificationStatus: status}
	}

	t.Run("verified owner does not block", func(t *testing.T) {
		_, blocking := IssueForOwner(owner(models.StatusVerified), true)
		assert.False(t, blocking)
	})

	t.Run("unknown owner is missing", func(t *testing.T) {
		issue, blocking := IssueForOwner(owner(models.StatusUnset), false)
		assert.True(t, blocking)
		assert.Equal(t, models.OwnerIssueMissing, issue.Issue)
	})

	t.Run("pending owner blocks as pending", func(t *testing.T) {
		issue, blocking := IssueForOwner(owner(models.StatusPending), true)
		assert.True(t, blocking)
		assert.Equal(t, models.OwnerIssuePending, issue.Issue)
	})

	t.Run("notverified owner blocks as notverified", func(t *testing.T) {
		issue, blocking := IssueForOwner(owner(models.StatusNotVerified), true)
		assert.True(t, blocking)
		assert.Equal(t, models.OwnerIssueNotVerified, issue.Issue)
	})

	t.Run("known owner without status is unset", func(t *testing.T) {
		issue, blocking := IssueForOwner(owner(models.StatusUnset), true)
		assert.True(t, blocking)
		assert.Equal(t, models.OwnerIssueUnset, issue.Issue)
	})

	t.Run("owner below threshold never blocks", func(t *testing.T) {
		_, blocking := IssueForOwner(models.BeneficialOwner{Name: "Y", RequiresKYC: false}, true)
		assert.False(t, blocking)
	})
}
