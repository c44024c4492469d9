package journal

const Schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	created_at DATETIME NOT NULL,
	source TEXT NOT NULL,
	sma_window INTEGER NOT NULL,
	ema_span INTEGER NOT NULL,
	vol_window INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS trade_rows (
	run_id TEXT NOT NULL REFERENCES runs(run_id),
	seq INTEGER NOT NULL,
	ts TEXT NOT NULL,
	symbol TEXT NOT NULL,
	price REAL NOT NULL,
	volume INTEGER NOT NULL,
	sma REAL NOT NULL,
	ema REAL NOT NULL,
	volatility REAL NOT NULL,
	vwap REAL NOT NULL,
	PRIMARY KEY (run_id, seq)
);

CREATE INDEX IF NOT EXISTS idx_trade_rows_symbol ON trade_rows(run_id, symbol);
`
