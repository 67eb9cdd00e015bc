package repository

const schema = `
CREATE TABLE IF NOT EXISTS stock (
	symbol         TEXT PRIMARY KEY,
	name           TEXT NOT NULL,
	price          DOUBLE PRECISION NOT NULL DEFAULT 0,
	change         DOUBLE PRECISION NOT NULL DEFAULT 0,
	change_percent DOUBLE PRECISION NOT NULL DEFAULT 0,
	sector         TEXT NOT NULL DEFAULT '',
	weight         DOUBLE PRECISION NOT NULL DEFAULT 0,
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS news_item (
	id             BIGSERIAL PRIMARY KEY,
	title          TEXT NOT NULL,
	summary        TEXT NOT NULL DEFAULT '',
	source         TEXT NOT NULL DEFAULT '',
	url            TEXT NOT NULL UNIQUE,
	external_id    TEXT NOT NULL DEFAULT '',
	published_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	fetched_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
	display_time   TEXT,
	category       TEXT NOT NULL DEFAULT '',
	sentiment      TEXT NOT NULL DEFAULT '',
	impact_score   INT NOT NULL DEFAULT 0,
	reliability    INT NOT NULL DEFAULT 0,
	is_fact        BOOLEAN NOT NULL DEFAULT false,
	has_conflict   BOOLEAN NOT NULL DEFAULT false,
	conflict_note  TEXT NOT NULL DEFAULT '',
	equity_impact  TEXT,
	bond_impact    TEXT,
	fx_impact      TEXT,
	status         TEXT NOT NULL DEFAULT 'pending',
	prompt_version TEXT NOT NULL DEFAULT '',
	model_used     TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS news_item_status_published_idx ON news_item (status, published_at DESC);

CREATE TABLE IF NOT EXISTS news_symbol (
	news_id  BIGINT NOT NULL REFERENCES news_item(id) ON DELETE CASCADE,
	symbol   TEXT NOT NULL,
	position INT NOT NULL,
	PRIMARY KEY (news_id, symbol)
);

CREATE TABLE IF NOT EXISTS processing_error (
	id            BIGSERIAL PRIMARY KEY,
	news_id       BIGINT NOT NULL REFERENCES news_item(id) ON DELETE CASCADE,
	error_message TEXT NOT NULL,
	error_type    TEXT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS economic_indicator (
	id       TEXT PRIMARY KEY,
	name     TEXT NOT NULL,
	region   TEXT NOT NULL DEFAULT '',
	actual   TEXT NOT NULL DEFAULT '',
	forecast TEXT NOT NULL DEFAULT '',
	previous TEXT NOT NULL DEFAULT '',
	status   TEXT NOT NULL DEFAULT '',
	insight  TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS calendar_event (
	id         TEXT PRIMARY KEY,
	event_date TEXT NOT NULL,
	name       TEXT NOT NULL,
	importance TEXT NOT NULL DEFAULT '',
	region     TEXT NOT NULL DEFAULT '',
	forecast   TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS performance_point (
	position INT PRIMARY KEY,
	time     TEXT NOT NULL,
	value    DOUBLE PRECISION NOT NULL
);
`
