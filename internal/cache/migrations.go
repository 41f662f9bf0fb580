package cache

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS items (
	id                  TEXT PRIMARY KEY,
	owner_id            TEXT NOT NULL DEFAULT '',
	type                TEXT NOT NULL,
	title               TEXT NOT NULL,
	content             TEXT NOT NULL DEFAULT '',
	target_time         DATETIME,
	has_reminder        INTEGER NOT NULL DEFAULT 0 CHECK(has_reminder IN (0, 1)),
	reminder_lead_value INTEGER,
	reminder_lead_unit  TEXT,
	last_edited         DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_items_type ON items(type);
CREATE INDEX IF NOT EXISTS idx_items_target_time ON items(target_time);
CREATE INDEX IF NOT EXISTS idx_items_last_edited ON items(last_edited);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
}
