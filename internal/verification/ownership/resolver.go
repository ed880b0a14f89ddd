// Package ownership resolves effective ownership of individuals through
// layered corporate holdings. Traversal supports arbitrary depth and rejects
// cyclic ownership instead of looping.
package ownership

import (
	"fmt"
	"sort"
	"strings"

	"veritas/internal/verification/models"
	dErrors "veritas/pkg/domain-errors"
	"veritas/pkg/platform/sentinel"
)

// Resolver walks an ownership graph snapshot. It holds no state between
// calls; a zero Resolver with a threshold is ready to use.
type Resolver struct {
	// Threshold is the effective percentage at and above which an individual
	// must be identified and verified.
	Threshold float64
}

// New creates a resolver. A non-positive threshold falls back to the default.
func New(threshold float64) *Resolver {
	if threshold <= 0 {
		threshold = models.DefaultOwnershipThreshold
	}
	return &Resolver{Threshold: threshold}
}

// path is one chain from an individual down to the target.
type path struct {
	description string
	effective   float64
	direct      float64
	via         string
}

// Resolve computes every beneficial owner of the target: individuals whose
// effective ownership meets the threshold, reached directly or through
// corporate layers. A corporate holder is only traversed while the path's
// effective percentage still meets the threshold, so owners of sub-threshold
// holders are never identified.
//
// A cycle anywhere on a traversed path aborts resolution with a
// CodeDataIntegrity error wrapping sentinel.ErrCycle.
func (r *Resolver) Resolve(graph *models.OwnershipGraph, targetID string) ([]models.BeneficialOwner, error) {
	if graph == nil {
		return nil, nil
	}

	byOwner := make(map[string][]path)
	onPath := map[string]bool{targetID: true}

	if err := r.walk(graph, targetID, targetID, 100, nil, onPath, byOwner); err != nil {
		return nil, err
	}

	return r.collect(graph, byOwner), nil
}

// walk descends from node through its owners. pathPct is the effective
// percentage the current chain conveys of the target (100 at the root).
func (r *Resolver) walk(
	graph *models.OwnershipGraph,
	node, targetID string,
	pathPct float64,
	chain []models.OwnershipEdge,
	onPath map[string]bool,
	byOwner map[string][]path,
) error {
	for _, edge := range graph.OwnersOf(node) {
		owner, known := graph.Nodes[edge.OwnerID]
		if !known {
			// An edge from an undeclared node: treat as corporate with no
			// status so the gap surfaces as an ownership issue downstream.
			owner = models.OwnershipNode{ID: edge.OwnerID, Name: edge.OwnerID, Kind: models.OwnershipNodeCorporate}
		}

		if onPath[edge.OwnerID] {
			return dErrors.Wrap(sentinel.ErrCycle, dErrors.CodeDataIntegrity,
				fmt.Sprintf("entity %s is directly or transitively its own owner", owner.Name))
		}

		effective := pathPct * edge.Percentage / 100

		// Copy the chain: sibling branches must not share backing arrays.
		nextChain := make([]models.OwnershipEdge, len(chain), len(chain)+1)
		copy(nextChain, chain)
		nextChain = append(nextChain, edge)

		if owner.Kind == models.OwnershipNodeIndividual {
			if effective >= r.Threshold {
				byOwner[edge.OwnerID] = append(byOwner[edge.OwnerID], path{
					description: describe(graph, nextChain, targetID),
					effective:   effective,
					direct:      edge.Percentage,
					via:         firstHop(nextChain),
				})
			}
			continue
		}

		// Corporate holders below the threshold are not traversed: their
		// owners are never required to be identified.
		if effective < r.Threshold {
			continue
		}

		onPath[edge.OwnerID] = true
		err := r.walk(graph, edge.OwnerID, targetID, effective, nextChain, onPath, byOwner)
		delete(onPath, edge.OwnerID)
		if err != nil {
			return err
		}
	}
	return nil
}

// collect flattens per-owner paths into BeneficialOwner records: maximum
// effective percentage, all distinct paths listed, deterministic order.
func (r *Resolver) collect(graph *models.OwnershipGraph, byOwner map[string][]path) []models.BeneficialOwner {
	owners := make([]models.BeneficialOwner, 0, len(byOwner))

	for ownerID, paths := range byOwner {
		best := paths[0]
		descriptions := make([]string, 0, len(paths))
		seen := make(map[string]struct{}, len(paths))
		for _, p := range paths {
			if p.effective > best.effective {
				best = p
			}
			if _, dup := seen[p.description]; !dup {
				seen[p.description] = struct{}{}
				descriptions = append(descriptions, p.description)
			}
		}
		sort.Strings(descriptions)

		node := graph.Nodes[ownerID]
		name := node.Name
		if name == "" {
			name = ownerID
		}

		owners = append(owners, models.BeneficialOwner{
			OwnerID:             ownerID,
			Name:                name,
			DirectPercentage:    best.direct,
			EffectivePercentage: best.effective,
			Paths:               descriptions,
			ViaOwnerID:          best.via,
			RequiresKYC:         true,
			VerificationStatus:  node.Status,
		})
	}

	sort.Slice(owners, func(i, j int) bool {
		if owners[i].EffectivePercentage != owners[j].EffectivePercentage {
			return owners[i].EffectivePercentage > owners[j].EffectivePercentage
		}
		return owners[i].Name < owners[j].Name
	})

	return owners
}

// describe renders a chain like
// "X -(60%)-> Acme Holdings -(50%)-> target". The chain is ordered from the
// target outward, so it is reversed for readability.
func describe(graph *models.OwnershipGraph, chain []models.OwnershipEdge, targetID string) string {
	var b strings.Builder
	for i := len(chain) - 1; i >= 0; i-- {
		edge := chain[i]
		b.WriteString(nodeName(graph, edge.OwnerID))
		fmt.Fprintf(&b, " -(%s%%)-> ", trimPct(edge.Percentage))
	}
	b.WriteString(nodeName(graph, targetID))
	return b.String()
}

// firstHop returns the owner on the edge closest to the target: the direct
// holder the chain passes through.
func firstHop(chain []models.OwnershipEdge) string {
	if len(chain) == 0 {
		return ""
	}
	return chain[0].OwnerID
}

func nodeName(graph *models.OwnershipGraph, nodeID string) string {
	if n, ok := graph.Nodes[nodeID]; ok && n.Name != "" {
		return n.Name
	}
	return nodeID
}

func trimPct(pct float64) string {
	s := fmt.Sprintf("%.2f", pct)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}
