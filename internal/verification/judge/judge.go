// Package judge defines the contract with the external discrepancy judge:
// the collaborator that decides whether conflicting strings are a genuine
// discrepancy or a formatting variant. The engine only consumes its boolean
// classification; no semantic judgment happens locally.
package judge

import (
	"context"

	"veritas/internal/verification/models"
)

// Request is one evaluation round trip covering every discrepancy of one
// entity.
type Request struct {
	EntityName               string               `json:"entityName"`
	EntityType               string               `json:"entityType"`
	Origin                   string               `json:"origin"`
	RequirementsSummary      string               `json:"requirementsSummary"`
	Discrepancies            []RequestDiscrepancy `json:"discrepancies"`
	SourceDocumentCategories []string             `json:"sourceDocumentCategories"`
}

// RequestDiscrepancy is the wire shape of one conflicting field.
type RequestDiscrepancy struct {
	Field   string      `json:"field"`
	Values  []string    `json:"values"`
	Sources []SourceRef `json:"sources"`
}

// SourceRef names the document backing one value.
type SourceRef struct {
	Value            string `json:"value"`
	DocumentName     string `json:"documentName"`
	DocumentCategory string `json:"documentCategory"`
}

// Response carries the judge's verdicts.
type Response struct {
	EvaluatedDiscrepancies []Verdict `json:"evaluatedDiscrepancies"`
}

// Verdict is the judge's classification of one discrepancy.
type Verdict struct {
	Field                string   `json:"field"`
	Values               []string `json:"values"`
	IsGenuineDiscrepancy bool     `json:"isGenuineDiscrepancy"`
	Explanation          string   `json:"explanation"`
}

// Judge evaluates discrepancies. Implementations must respect context
// cancellation; callers apply the fail-closed fallback on any error.
type Judge interface {
	Evaluate(ctx context.Context, req Request) (*Response, error)
}

// NewRequest builds a judge request from an entity's detected discrepancies.
func NewRequest(entity models.Entity, discrepancies []models.Discrepancy, requirementsSummary string) Request {
	req := Request{
		EntityName:               entity.Name,
		EntityType:               string(entity.Classification),
		Origin:                   entity.Classification.Origin(),
		RequirementsSummary:      requirementsSummary,
		SourceDocumentCategories: entity.Fields.DocumentCategories(),
	}

	for _, d := range discrepancies {
		rd := RequestDiscrepancy{
			Field:  string(d.Field),
			Values: d.DistinctValues,
		}
		for _, value := range d.DistinctValues {
			for _, sv := range d.Sources[value] {
				rd.Sources = append(rd.Sources, SourceRef{
					Value:            sv.Value,
					DocumentName:     sv.DocumentName,
					DocumentCategory: sv.DocumentCategory,
				})
			}
		}
		req.Discrepancies = append(req.Discrepancies, rd)
	}

	return req
}

// FallbackAllGenuine is the fail-closed response used when the judge is
// unreachable or replies with an unparsable payload: every discrepancy is
// conservatively treated as unresolved.
func FallbackAllGenuine(req Request) *Response {
	resp := &Response{}
	for _, d := range req.Discrepancies {
		resp.EvaluatedDiscrepancies = append(resp.EvaluatedDiscrepancies, Verdict{
			Field:                d.Field,
			Values:               d.Values,
			IsGenuineDiscrepancy: true,
			Explanation:          "unresolved: discrepancy judge unavailable",
		})
	}
	return resp
}

// Split partitions verdicts into genuine and resolved discrepancies,
// preserving verdict order. A submitted discrepancy the response left without
// a verdict stays genuine: no conflict is ever dropped for lack of an answer.
func Split(req Request, resp *Response) ([]models.GenuineDiscrepancy, []models.ResolvedDiscrepancy) {
	var genuine []models.GenuineDiscrepancy
	var resolved []models.ResolvedDiscrepancy

	answered := make(map[string]bool, len(resp.EvaluatedDiscrepancies))
	for _, v := range resp.EvaluatedDiscrepancies {
		answered[v.Field] = true
		if v.IsGenuineDiscrepancy {
			genuine = append(genuine, models.GenuineDiscrepancy{
				Field:       models.Field(v.Field),
				Values:      v.Values,
				Explanation: v.Explanation,
			})
		} else {
			resolved = append(resolved, models.ResolvedDiscrepancy{
				Field:      models.Field(v.Field),
				Values:     v.Values,
				Resolution: v.Explanation,
			})
		}
	}

	for _, d := range req.Discrepancies {
		if !answered[d.Field] {
			genuine = append(genuine, models.GenuineDiscrepancy{
				Field:       models.Field(d.Field),
				Values:      d.Values,
				Explanation: "unresolved: no verdict returned for this discrepancy",
			})
		}
	}

	return genuine, resolved
}
