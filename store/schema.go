package store

const Schema = `
CREATE TABLE IF NOT EXISTS results (
	id TEXT PRIMARY KEY,
	fingerprint TEXT NOT NULL,
	year INTEGER NOT NULL,
	kind TEXT NOT NULL,
	n INTEGER NOT NULL,
	points INTEGER NOT NULL,
	payload BLOB NOT NULL,
	created DATETIME NOT NULL,
	UNIQUE (fingerprint, year, kind, n)
);

CREATE INDEX IF NOT EXISTS idx_results_fingerprint ON results(fingerprint);
`
