package store

// schemaVersionV1 is the current runs schema.
const schemaVersionV1 = 1

// schemaV1 is the runs schema DDL.
var schemaV1 = `
CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL);

CREATE TABLE IF NOT EXISTS runs (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	kind          TEXT NOT NULL,
	status        TEXT NOT NULL DEFAULT 'running',
	vaults        INTEGER NOT NULL,
	interval_secs INTEGER NOT NULL,
	vaults_dir    TEXT NOT NULL,
	contact       TEXT,
	error         TEXT,
	started_at    TEXT NOT NULL,
	finished_at   TEXT
);

CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
`
