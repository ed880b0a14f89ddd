// Package domain holds typed identifiers shared across the verification engine.
// IDs are distinct types over uuid.UUID so a CompanyID can never be passed where
// an EntityID is expected.
package domain

import (
	"github.com/google/uuid"

	dErrors "veritas/pkg/domain-errors"
)

// CompanyID identifies the company whose directors and shareholders are verified.
type CompanyID uuid.UUID

// EntityID identifies a single director or shareholder record.
type EntityID uuid.UUID

// RunID identifies one verification run over a company's entities.
type RunID uuid.UUID

// NewRunID returns a fresh run identifier.
func NewRunID() RunID {
	return RunID(uuid.New())
}

func (id CompanyID) String() string { return uuid.UUID(id).String() }
func (id EntityID) String() string  { return uuid.UUID(id).String() }
func (id RunID) String() string     { return uuid.UUID(id).String() }

func (id CompanyID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id EntityID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }
func (id RunID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }

// IDs marshal as their canonical UUID string form.

func (id CompanyID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id EntityID) MarshalText() ([]byte, error)  { return []byte(id.String()), nil }
func (id RunID) MarshalText() ([]byte, error)     { return []byte(id.String()), nil }

func (id *CompanyID) UnmarshalText(text []byte) error {
	parsed, err := ParseCompanyID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *EntityID) UnmarshalText(text []byte) error {
	parsed, err := ParseEntityID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *RunID) UnmarshalText(text []byte) error {
	parsed, err := ParseRunID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// ParseCompanyID validates and parses a company ID from its string form.
// IDs must be valid, non-empty, non-nil UUIDs.
func ParseCompanyID(s string) (CompanyID, error) {
	u, err := parseUUID(s, "company_id")
	if err != nil {
		return CompanyID(uuid.Nil), err
	}
	return CompanyID(u), nil
}

// ParseEntityID validates and parses an entity ID from its string form.
func ParseEntityID(s string) (EntityID, error) {
	u, err := parseUUID(s, "entity_id")
	if err != nil {
		return EntityID(uuid.Nil), err
	}
	return EntityID(u), nil
}

// ParseRunID validates and parses a run ID from its string form.
func ParseRunID(s string) (RunID, error) {
	u, err := parseUUID(s, "run_id")
	if err != nil {
		return RunID(uuid.Nil), err
	}
	return RunID(u), nil
}

func parseUUID(s, field string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, field+" is required")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, field+" is not a valid UUID")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, field+" must not be the nil UUID")
	}
	return u, nil
}
