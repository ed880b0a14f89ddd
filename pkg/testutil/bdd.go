package testutil

import "testing"

// Given/When/Then wrap t.Run so scenario tests over verification runs read as
// prose in test output without pulling in a BDD framework.

// Given names the seeded state of a scenario.
func Given(t *testing.T, desc string, fn func(t *testing.T)) {
	t.Helper()
	t.Run("Given "+desc, fn)
}

// When names the action under test.
func When(t *testing.T, desc string, fn func(t *testing.T)) {
	t.Helper()
	t.Run("When "+desc, fn)
}

// Then names the expected outcome.
func Then(t *testing.T, desc string, fn func(t *testing.T)) {
	t.Helper()
	t.Run("Then "+desc, fn)
}
