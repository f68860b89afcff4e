package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS weeks (
    week_id              TEXT PRIMARY KEY,
    weekly_target        REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS week_channels (
    week_id              TEXT NOT NULL REFERENCES weeks(week_id) ON DELETE CASCADE,
    channel              TEXT NOT NULL,
    position             INTEGER NOT NULL,
    target_percentage    REAL NOT NULL,
    weekly_target        REAL NOT NULL,
    amount_spent         REAL NOT NULL DEFAULT 0,
    actual_sales         REAL NOT NULL DEFAULT 0,
    site_visits          INTEGER NOT NULL DEFAULT 0,
    calls_made           INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (week_id, channel)
);

CREATE TABLE IF NOT EXISTS meta (
    key                  TEXT PRIMARY KEY,
    value                TEXT NOT NULL
);
`

const (
	metaCurrentWeek = "current_week"
	metaSavedAt     = "saved_at"
)
