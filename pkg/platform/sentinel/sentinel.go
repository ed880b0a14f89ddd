package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and collaborator clients
// return these (optionally wrapped) so services can translate them into domain
// errors without string matching.
//
// These represent factual states, not validation failures:
// - ErrNotFound: record does not exist in the store
// - ErrConflict: concurrent write lost or unique constraint hit
// - ErrUnavailable: collaborator temporarily unreachable (retryable)
// - ErrMalformedResponse: collaborator replied with an unparsable payload
// - ErrCycle: ownership graph contains a cycle on the traversed path
//
// For validation errors (bad input, missing fields), use pkg/domain-errors.
var (
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrUnavailable       = errors.New("unavailable")
	ErrMalformedResponse = errors.New("malformed response")
	ErrCycle             = errors.New("ownership cycle")
)
