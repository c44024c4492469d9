package journal

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const defaultBatchSize = 500

// SQLite journals rows of one run into a SQLite database. Inserts are
// batched in transactions; Close commits whatever is pending.
type SQLite struct {
	db *sql.DB

	runID     string
	batchSize int
	tx        *sql.Tx
	stmt      *sql.Stmt
	pending   int
}

// NewSQLite opens (or creates) the database at path and ensures the schema.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}
	// single writer
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite schema: %w", err)
	}

	return &SQLite{db: db, batchSize: defaultBatchSize}, nil
}

const dsnParams = "_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000"

// dsn appends the connection parameters, keeping any query already on path.
func dsn(path string) string {
	if strings.Contains(path, "?") {
		return path + "&" + dsnParams
	}
	return path + "?" + dsnParams
}

// SetBatchSize sets how many rows go into one transaction.
func (j *SQLite) SetBatchSize(n int) {
	if n < 1 {
		n = 1
	}
	j.batchSize = n
}

// BeginRun registers a run; every following Record belongs to it.
func (j *SQLite) BeginRun(run RunInfo) error {
	if j.runID != "" {
		return fmt.Errorf("run %s already in progress", j.runID)
	}
	if run.Created.IsZero() {
		run.Created = time.Now()
	}

	_, err := j.db.Exec(`
		INSERT INTO runs
		(run_id, created_at, source, sma_window, ema_span, vol_window)
		VALUES (?, ?, ?, ?, ?, ?)`,
		run.RunID, run.Created.UTC(), run.Source, run.SMAWindow, run.EMASpan, run.VolWindow,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	j.runID = run.RunID
	return nil
}

// RunID returns the active run, "" when none was begun.
func (j *SQLite) RunID() string {
	return j.runID
}

func (j *SQLite) Record(r Row) error {
	if j.runID == "" {
		return fmt.Errorf("record row %d: no run begun", r.Seq)
	}
	if j.tx == nil {
		if err := j.begin(); err != nil {
			return err
		}
	}

	_, err := j.stmt.Exec(
		j.runID, r.Seq, r.Trade.Time, r.Trade.Symbol, r.Trade.Price, r.Trade.Volume,
		r.Values.SMA, r.Values.EMA, r.Values.Volatility, r.Values.VWAP,
	)
	if err != nil {
		return fmt.Errorf("insert row %d: %w", r.Seq, err)
	}

	j.pending++
	if j.pending >= j.batchSize {
		return j.commit()
	}
	return nil
}

func (j *SQLite) begin() error {
	tx, err := j.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	stmt, err := tx.Prepare(`
		INSERT INTO trade_rows
		(run_id, seq, ts, symbol, price, volume, sma, ema, volatility, vwap)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare: %w", err)
	}
	j.tx, j.stmt = tx, stmt
	return nil
}

func (j *SQLite) commit() error {
	if j.tx == nil {
		return nil
	}
	j.stmt.Close()
	err := j.tx.Commit()
	j.tx, j.stmt, j.pending = nil, nil, 0
	if err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Flush commits the rows of the open batch.
func (j *SQLite) Flush() error {
	return j.commit()
}

func (j *SQLite) Close() error {
	cerr := j.commit()
	if err := j.db.Close(); err != nil {
		return err
	}
	return cerr
}
