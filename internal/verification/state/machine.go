// Package state computes the terminal verification status for one entity and
// run. Decide is a pure function of its inputs: the status is never mutated
// anywhere else.
package state

import (
	"fmt"

	"veritas/internal/verification/models"
)

// Inputs bundles the three evaluation outputs feeding the status decision.
type Inputs struct {
	GenuineDiscrepancies  []models.GenuineDiscrepancy
	ResolvedDiscrepancies []models.ResolvedDiscrepancy
	MissingFields         []models.Field
	MissingDocuments      []string
	OwnershipIssues       []models.OwnershipIssue
	// Notes carries configuration-error annotations (for example an
	// unconfigured requirement set); any note forces at least pending.
	Notes []string
}

// Decide applies the precedence rules, first match wins:
//
//  1. genuine discrepancies        -> notverified
//  2. missing fields or documents  -> pending
//  3. beneficial ownership issues  -> beneficial_ownership_incomplete
//  4. otherwise                    -> verified
//
// Earlier checks are strictly more severe; the result is terminal for the run.
func Decide(in Inputs) (models.Status, models.StatusDetail) {
	detail := models.StatusDetail{
		GenuineDiscrepancies:  in.GenuineDiscrepancies,
		ResolvedDiscrepancies: in.ResolvedDiscrepancies,
		Notes:                 in.Notes,
	}

	if len(in.GenuineDiscrepancies) > 0 {
		return models.StatusNotVerified, detail
	}

	if len(in.MissingFields) > 0 || len(in.MissingDocuments) > 0 || len(in.Notes) > 0 {
		detail.MissingFields = in.MissingFields
		detail.MissingDocuments = in.MissingDocuments
		return models.StatusPending, detail
	}

	if len(in.OwnershipIssues) > 0 {
		detail.OwnershipIssues = in.OwnershipIssues
		return models.StatusOwnershipIncomplete, detail
	}

	return models.StatusVerified, detail
}

// IssueForOwner maps a flagged beneficial owner to the issue blocking
// verification, or false when the owner does not block it.
func IssueForOwner(owner models.BeneficialOwner, known bool) (models.OwnershipIssue, bool) {
	if !owner.RequiresKYC {
		return models.OwnershipIssue{}, false
	}

	issue := models.OwnershipIssue{OwnerName: owner.Name}

	switch {
	case !known:
		issue.Issue = models.OwnerIssueMissing
	case owner.VerificationStatus == models.StatusVerified:
		return models.OwnershipIssue{}, false
	case owner.VerificationStatus == models.StatusPending:
		issue.Issue = models.OwnerIssuePending
	case owner.VerificationStatus == models.StatusNotVerified:
		issue.Issue = models.OwnerIssueNotVerified
	default:
		issue.Issue = models.OwnerIssueUnset
	}

	return issue, true
}

// Summarize renders a one-line human-readable reason for audit trails.
func Summarize(status models.Status, detail models.StatusDetail) string {
	switch status {
	case models.StatusNotVerified:
		return fmt.Sprintf("%d genuine discrepancies", len(detail.GenuineDiscrepancies))
	case models.StatusPending:
		return fmt.Sprintf("%d missing fields, %d missing documents",
			len(detail.MissingFields), len(detail.MissingDocuments))
	case models.StatusOwnershipIncomplete:
		return fmt.Sprintf("%d beneficial ownership issues", len(detail.OwnershipIssues))
	default:
		return "all checks passed"
	}
}
