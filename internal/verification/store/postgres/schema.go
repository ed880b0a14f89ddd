package postgres

// Schema is the DDL for the verification tables. Applied by deployment
// tooling and by integration tests.
const Schema = `
CREATE TABLE IF NOT EXISTS verification_entities (
    id                UUID PRIMARY KEY,
    company_id        UUID NOT NULL,
    kind              TEXT NOT NULL,
    name              TEXT NOT NULL,
    classification    TEXT NOT NULL,
    ownership_percent DOUBLE PRECISION NOT NULL DEFAULT 0,
    status            TEXT,
    status_detail     JSONB,
    status_updated_at TIMESTAMPTZ,
    created_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_verification_entities_company
    ON verification_entities (company_id, kind);

CREATE TABLE IF NOT EXISTS entity_field_sources (
    entity_id         UUID NOT NULL REFERENCES verification_entities (id) ON DELETE CASCADE,
    field             TEXT NOT NULL,
    value             TEXT NOT NULL,
    document_id       TEXT NOT NULL DEFAULT '',
    document_name     TEXT NOT NULL DEFAULT '',
    document_category TEXT NOT NULL DEFAULT '',
    position          INT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_entity_field_sources_entity
    ON entity_field_sources (entity_id, position);

CREATE TABLE IF NOT EXISTS ownership_nodes (
    company_id UUID NOT NULL,
    node_id    TEXT NOT NULL,
    name       TEXT NOT NULL,
    kind       TEXT NOT NULL,
    entity_id  UUID,
    PRIMARY KEY (company_id, node_id)
);

CREATE TABLE IF NOT EXISTS ownership_edges (
    company_id UUID NOT NULL,
    owner_id   TEXT NOT NULL,
    owned_id   TEXT NOT NULL,
    percentage DOUBLE PRECISION NOT NULL,
    position   SERIAL
);
CREATE INDEX IF NOT EXISTS idx_ownership_edges_company
    ON ownership_edges (company_id);

CREATE TABLE IF NOT EXISTS verification_runs (
    run_id       UUID PRIMARY KEY,
    company_id   UUID NOT NULL,
    kind         TEXT NOT NULL,
    started_at   TIMESTAMPTZ NOT NULL,
    completed_at TIMESTAMPTZ NOT NULL,
    summary      JSONB NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_verification_runs_company
    ON verification_runs (company_id, kind, completed_at DESC);

CREATE TABLE IF NOT EXISTS requirement_sets (
    company_id UUID PRIMARY KEY,
    payload    JSONB NOT NULL
);
`
