package models

// OwnershipNodeKind distinguishes individuals from corporate holders in the
// ownership graph.
type OwnershipNodeKind string

const (
	OwnershipNodeIndividual OwnershipNodeKind = "individual"
	OwnershipNodeCorporate  OwnershipNodeKind = "corporate"
	OwnershipNodeCompany    OwnershipNodeKind = "company"
)

// OwnershipNode is one participant in the ownership graph. Status carries the
// owner's prior verification status when the owner is also a tracked entity.
type OwnershipNode struct {
	ID     string
	Name   string
	Kind   OwnershipNodeKind
	Status Status
}

// OwnershipEdge states that Owner holds Percentage of Owned. Percentage is in
// [0,100].
type OwnershipEdge struct {
	OwnerID    string
	OwnedID    string
	Percentage float64
}

// OwnershipGraph is the snapshot of edges reachable from a target company,
// with node metadata.
type OwnershipGraph struct {
	Nodes map[string]OwnershipNode
	Edges []OwnershipEdge
}

// NewOwnershipGraph creates an empty graph.
func NewOwnershipGraph() *OwnershipGraph {
	return &OwnershipGraph{Nodes: make(map[string]OwnershipNode)}
}

// AddNode registers a node, replacing any previous entry with the same ID.
func (g *OwnershipGraph) AddNode(n OwnershipNode) {
	g.Nodes[n.ID] = n
}

// AddEdge records that owner holds pct of owned.
func (g *OwnershipGraph) AddEdge(ownerID, ownedID string, pct float64) {
	g.Edges = append(g.Edges, OwnershipEdge{OwnerID: ownerID, OwnedID: ownedID, Percentage: pct})
}

// OwnersOf returns the edges whose owned side is the given node, in insertion
// order.
func (g *OwnershipGraph) OwnersOf(ownedID string) []OwnershipEdge {
	var out []OwnershipEdge
	for _, e := range g.Edges {
		if e.OwnedID == ownedID {
			out = append(out, e)
		}
	}
	return out
}

// BeneficialOwner is an individual whose effective ownership of the target
// company meets the configured threshold, together with how it was reached.
type BeneficialOwner struct {
	OwnerID             string  `json:"owner_id"`
	Name                string  `json:"name"`
	DirectPercentage    float64 `json:"direct_percentage"`
	EffectivePercentage float64 `json:"effective_percentage"`
	// Paths lists every distinct ownership path from the individual down to
	// the target; EffectivePercentage is the maximum across them.
	Paths []string `json:"paths"`
	// ViaOwnerID is the first-level holder of the target on the maximal
	// path: the individual itself for direct holdings, otherwise the
	// intermediate corporate shareholder.
	ViaOwnerID         string `json:"via_owner_id"`
	RequiresKYC        bool   `json:"requires_kyc"`
	VerificationStatus Status `json:"verification_status,omitempty"`
}
