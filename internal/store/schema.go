package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS records (
    file_path            TEXT NOT NULL,
    row_idx              INTEGER NOT NULL,
    fiscal_year          INTEGER NOT NULL,
    state                TEXT NOT NULL,
    county               TEXT NOT NULL,
    product              TEXT NOT NULL,
    land_class           TEXT NOT NULL,
    revenue_type         TEXT NOT NULL,
    commodity            TEXT NOT NULL,
    revenue              REAL NOT NULL,
    fips                 TEXT NOT NULL,
    PRIMARY KEY (file_path, row_idx)
);

CREATE TABLE IF NOT EXISTS file_tracker (
    file_path            TEXT PRIMARY KEY,
    mtime_ns             INTEGER NOT NULL,
    size_bytes           INTEGER NOT NULL,
    row_count            INTEGER NOT NULL,
    filled_state         INTEGER NOT NULL DEFAULT 0,
    filled_county        INTEGER NOT NULL DEFAULT 0,
    filled_product       INTEGER NOT NULL DEFAULT 0,
    parsed_at            TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS counties (
    source_url           TEXT NOT NULL,
    fips                 TEXT NOT NULL,
    name                 TEXT NOT NULL,
    state_fips           TEXT NOT NULL,
    lon                  REAL NOT NULL,
    lat                  REAL NOT NULL,
    PRIMARY KEY (source_url, fips)
);

CREATE TABLE IF NOT EXISTS geo_tracker (
    source_url           TEXT PRIMARY KEY,
    fetched_at           TEXT NOT NULL,
    feature_count        INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_records_year ON records(fiscal_year);
`
