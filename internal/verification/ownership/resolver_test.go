package ownership

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"veritas/internal/verification/models"
	dErrors "veritas/pkg/domain-errors"
	"veritas/pkg/platform/sentinel"
)

const target = "target-co"

func newGraph() *models.OwnershipGraph {
	g := models.NewOwnershipGraph()
	g.AddNode(models.OwnershipNode{ID: target, Name: "Target Ltd", Kind: models.OwnershipNodeCompany})
	return g
}

func TestResolve_DirectIndividualOwner(t *testing.T) {
	g := newGraph()
	g.AddNode(models.OwnershipNode{ID: "x", Name: "X", Kind: models.OwnershipNodeIndividual})
	g.AddEdge("x", target, 40)

	owners, err := New(25).Resolve(g, target)
	require.NoError(t, err)
	require.Len(t, owners, 1)

	assert.Equal(t, "X", owners[0].Name)
	assert.InDelta(t, 40, owners[0].EffectivePercentage, 1e-9)
	assert.True(t, owners[0].RequiresKYC)
	assert.Equal(t, "x", owners[0].ViaOwnerID)
}

func TestResolve_SingleIntermediateLayer(t *testing.T) {
	// A owns 50% of Target, X owns 60% of A: X effectively owns 30%.
	g := newGraph()
	g.AddNode(models.OwnershipNode{ID: "a", Name: "A Corp", Kind: models.OwnershipNodeCorporate})
	g.AddNode(models.OwnershipNode{ID: "x", Name: "X", Kind: models.OwnershipNodeIndividual})
	g.AddEdge("a", target, 50)
	g.AddEdge("x", "a", 60)

	owners, err := New(25).Resolve(g, target)
	require.NoError(t, err)
	require.Len(t, owners, 1)

	assert.Equal(t, "X", owners[0].Name)
	assert.InDelta(t, 30, owners[0].EffectivePercentage, 1e-9)
	assert.True(t, owners[0].RequiresKYC)
	assert.Equal(t, "a", owners[0].ViaOwnerID)
	require.Len(t, owners[0].Paths, 1)
	assert.Equal(t, "X -(60%)-> A Corp -(50%)-> Target Ltd", owners[0].Paths[0])
}

func TestResolve_MultipleLevels(t *testing.T) {
	// X -> B (80%) -> A (70%) -> Target (60%): effective 33.6%.
	g := newGraph()
	g.AddNode(models.OwnershipNode{ID: "a", Name: "A Corp", Kind: models.OwnershipNodeCorporate})
	g.AddNode(models.OwnershipNode{ID: "b", Name: "B Corp", Kind: models.OwnershipNodeCorporate})
	g.AddNode(models.OwnershipNode{ID: "x", Name: "X", Kind: models.OwnershipNodeIndividual})
	g.AddEdge("a", target, 60)
	g.AddEdge("b", "a", 70)
	g.AddEdge("x", "b", 80)

	owners, err := New(25).Resolve(g, target)
	require.NoError(t, err)
	require.Len(t, owners, 1)
	assert.InDelta(t, 33.6, owners[0].EffectivePercentage, 1e-9)
}

func TestResolve_BelowThresholdCorporateNotTraversed(t *testing.T) {
	// A holds only 10% of Target: A's owners are never identified, even an
	// individual holding 100% of A.
	g := newGraph()
	g.AddNode(models.OwnershipNode{ID: "a", Name: "A Corp", Kind: models.OwnershipNodeCorporate})
	g.AddNode(models.OwnershipNode{ID: "x", Name: "X", Kind: models.OwnershipNodeIndividual})
	g.AddEdge("a", target, 10)
	g.AddEdge("x", "a", 100)

	owners, err := New(25).Resolve(g, target)
	require.NoError(t, err)
	assert.Empty(t, owners)
}

func TestResolve_IndividualBelowThresholdNotFlagged(t *testing.T) {
	g := newGraph()
	g.AddNode(models.OwnershipNode{ID: "a", Name: "A Corp", Kind: models.OwnershipNodeCorporate})
	g.AddNode(models.OwnershipNode{ID: "x", Name: "X", Kind: models.OwnershipNodeIndividual})
	g.AddNode(models.OwnershipNode{ID: "y", Name: "Y", Kind: models.OwnershipNodeIndividual})
	g.AddEdge("a", target, 50)
	g.AddEdge("x", "a", 60) // effective 30, flagged
	g.AddEdge("y", "a", 40) // effective 20, not flagged

	owners, err := New(25).Resolve(g, target)
	require.NoError(t, err)
	require.Len(t, owners, 1)
	assert.Equal(t, "X", owners[0].Name)
}

func TestResolve_MultiplePathsReportsMaximum(t *testing.T) {
	// X reaches Target through two holdings: direct 26% and 60% of A which
	// holds 50%. Max effective is 30 via A; both paths are listed.
	g := newGraph()
	g.AddNode(models.OwnershipNode{ID: "a", Name: "A Corp", Kind: models.OwnershipNodeCorporate})
	g.AddNode(models.OwnershipNode{ID: "x", Name: "X", Kind: models.OwnershipNodeIndividual})
	g.AddEdge("x", target, 26)
	g.AddEdge("a", target, 50)
	g.AddEdge("x", "a", 60)

	owners, err := New(25).Resolve(g, target)
	require.NoError(t, err)
	require.Len(t, owners, 1)

	assert.InDelta(t, 30, owners[0].EffectivePercentage, 1e-9)
	assert.Len(t, owners[0].Paths, 2)
	assert.Equal(t, "a", owners[0].ViaOwnerID)
}

func TestResolve_CycleDetected(t *testing.T) {
	// A owns 30% of B, B owns 30% of A, A owns 50% of Target: the resolver
	// must terminate and report a data integrity error.
	g := newGraph()
	g.AddNode(models.OwnershipNode{ID: "a", Name: "A Corp", Kind: models.OwnershipNodeCorporate})
	g.AddNode(models.OwnershipNode{ID: "b", Name: "B Corp", Kind: models.OwnershipNodeCorporate})
	g.AddEdge("a", target, 50)
	g.AddEdge("b", "a", 90)
	g.AddEdge("a", "b", 90)

	_, err := New(25).Resolve(g, target)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeDataIntegrity))
	assert.ErrorIs(t, err, sentinel.ErrCycle)
}

func TestResolve_SelfOwnershipDetected(t *testing.T) {
	g := newGraph()
	g.AddNode(models.OwnershipNode{ID: "a", Name: "A Corp", Kind: models.OwnershipNodeCorporate})
	g.AddEdge("a", target, 50)
	g.AddEdge("a", "a", 100)

	_, err := New(25).Resolve(g, target)
	require.Error(t, err)
	assert.ErrorIs(t, err, sentinel.ErrCycle)
}

func TestResolve_InheritsPriorVerificationStatus(t *testing.T) {
	g := newGraph()
	g.AddNode(models.OwnershipNode{ID: "a", Name: "A Corp", Kind: models.OwnershipNodeCorporate})
	g.AddNode(models.OwnershipNode{
		ID: "x", Name: "X", Kind: models.OwnershipNodeIndividual,
		Status: models.StatusVerified,
	})
	g.AddEdge("a", target, 50)
	g.AddEdge("x", "a", 60)

	owners, err := New(25).Resolve(g, target)
	require.NoError(t, err)
	require.Len(t, owners, 1)
	assert.Equal(t, models.StatusVerified, owners[0].VerificationStatus)
}

func TestResolve_EffectiveNeverExceedsAnyEdgeOnPath(t *testing.T) {
	g := newGraph()
	g.AddNode(models.OwnershipNode{ID: "a", Name: "A Corp", Kind: models.OwnershipNodeCorporate})
	g.AddNode(models.OwnershipNode{ID: "x", Name: "X", Kind: models.OwnershipNodeIndividual})
	g.AddEdge("a", target, 30)
	g.AddEdge("x", "a", 95)

	owners, err := New(25).Resolve(g, target)
	require.NoError(t, err)
	require.Len(t, owners, 1)
	assert.LessOrEqual(t, owners[0].EffectivePercentage, 30.0)
	assert.LessOrEqual(t, owners[0].EffectivePercentage, 95.0)
}

func TestResolve_NilGraph(t *testing.T) {
	owners, err := New(25).Resolve(nil, target)
	require.NoError(t, err)
	assert.Nil(t, owners)
}
