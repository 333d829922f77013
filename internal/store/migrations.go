package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
//
// The tables mirror the subset of the ServiceNow schema the trigger reads,
// using the platform's table and column names so queries read the same
// as their Table API counterparts.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS sys_user (
	sys_id     TEXT PRIMARY KEY,
	user_name  TEXT NOT NULL DEFAULT '',
	name       TEXT NOT NULL DEFAULT '',
	email      TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS sc_request (
	sys_id        TEXT PRIMARY KEY,
	number        TEXT NOT NULL UNIQUE,
	requested_for TEXT REFERENCES sys_user(sys_id) ON DELETE SET NULL,
	created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS sc_req_item (
	sys_id     TEXT PRIMARY KEY,
	number     TEXT NOT NULL UNIQUE,
	request    TEXT REFERENCES sc_request(sys_id) ON DELETE SET NULL,
	cat_item   TEXT NOT NULL DEFAULT '',
	state      TEXT NOT NULL DEFAULT '1',
	work_notes TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS item_option_new (
	sys_id TEXT PRIMARY KEY,
	name   TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS sc_item_option (
	sys_id          TEXT PRIMARY KEY,
	item_option_new TEXT REFERENCES item_option_new(sys_id) ON DELETE SET NULL,
	value           TEXT
);

CREATE TABLE IF NOT EXISTS sc_item_option_mtom (
	sys_id         TEXT PRIMARY KEY,
	request_item   TEXT NOT NULL REFERENCES sc_req_item(sys_id) ON DELETE CASCADE,
	sc_item_option TEXT NOT NULL REFERENCES sc_item_option(sys_id) ON DELETE CASCADE
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_item_option_new_name ON item_option_new(name) WHERE name <> '';
CREATE INDEX IF NOT EXISTS idx_sc_item_option_mtom_request_item ON sc_item_option_mtom(request_item);
CREATE INDEX IF NOT EXISTS idx_sc_req_item_request ON sc_req_item(request);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
}
