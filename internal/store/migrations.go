package store

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

CREATE TABLE IF NOT EXISTS tasks (
	id               TEXT PRIMARY KEY,
	owner_id         TEXT NOT NULL,
	phase            TEXT NOT NULL DEFAULT '',
	title            TEXT NOT NULL DEFAULT '',
	notes            TEXT NOT NULL DEFAULT '',
	budget_estimated REAL NOT NULL DEFAULT 0 CHECK(budget_estimated >= 0),
	budget_actual    REAL NOT NULL DEFAULT 0 CHECK(budget_actual >= 0),
	budget_optional  REAL NOT NULL DEFAULT 0 CHECK(budget_optional >= 0),
	status           TEXT NOT NULL DEFAULT 'todo' CHECK(status IN ('todo', 'progress', 'done')),
	date             DATETIME,
	assignee         TEXT NOT NULL DEFAULT '',
	order_index      INTEGER NOT NULL DEFAULT 0,
	created_at       DATETIME NOT NULL,
	updated_at       DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_tasks_owner_id ON tasks(owner_id);
CREATE INDEX IF NOT EXISTS idx_tasks_owner_order ON tasks(owner_id, order_index);
CREATE INDEX IF NOT EXISTS idx_tasks_date ON tasks(date);

CREATE TABLE IF NOT EXISTS settings (
	owner_id              TEXT PRIMARY KEY,
	relocation_start_date DATETIME,
	relocation_date       DATETIME,
	relocation_end_date   DATETIME,
	team_members          TEXT NOT NULL DEFAULT '[]',
	updated_at            DATETIME NOT NULL
);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
}
