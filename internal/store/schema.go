package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS monthly_records (
    startup_id           TEXT NOT NULL,
    seq                  INTEGER NOT NULL,
    month_name           TEXT NOT NULL,
    marketing_spend      REAL NOT NULL DEFAULT 0,
    burn_rate            REAL NOT NULL DEFAULT 0,
    cac                  REAL NOT NULL DEFAULT 0,
    churn_rate           REAL NOT NULL DEFAULT 0,
    arpu                 REAL NOT NULL DEFAULT 0,
    team_size            INTEGER NOT NULL DEFAULT 0,
    product_improvements INTEGER NOT NULL DEFAULT 0,
    market_expansion     REAL NOT NULL DEFAULT 0,
    funding_round        TEXT NOT NULL DEFAULT '',
    added_at             TEXT NOT NULL,
    PRIMARY KEY (startup_id, seq)
);

CREATE TABLE IF NOT EXISTS investments (
    id                   TEXT PRIMARY KEY,
    tx_id                TEXT NOT NULL UNIQUE,
    wallet               TEXT NOT NULL,
    amount_usd           TEXT NOT NULL,
    startup_id           TEXT NOT NULL,
    investor_id          TEXT,
    equity               REAL NOT NULL DEFAULT 0,
    status               TEXT NOT NULL,
    created_at           TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS runs (
    run_id               TEXT PRIMARY KEY,
    startup_id           TEXT,
    created_at           TEXT NOT NULL,
    months               INTEGER NOT NULL,
    forecast_months      INTEGER NOT NULL,
    terminated           INTEGER NOT NULL DEFAULT 0,
    final_users          INTEGER,
    final_cash           INTEGER,
    summary_json         TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS file_tracker (
    file_path            TEXT PRIMARY KEY,
    startup_id           TEXT NOT NULL,
    mtime_ns             INTEGER NOT NULL,
    size_bytes           INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_investments_startup ON investments(startup_id);
CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
`
