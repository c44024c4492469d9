package journal

import (
	"database/sql"
	"errors"
	"fmt"
)

// Queries share the single connection with the open batch, so each one
// commits pending rows first.

// GetRun returns a single run by ID.
func (j *SQLite) GetRun(runID string) (RunInfo, error) {
	var run RunInfo
	if err := j.commit(); err != nil {
		return run, err
	}

	row := j.db.QueryRow(`
		SELECT run_id, created_at, source, sma_window, ema_span, vol_window
		FROM runs
		WHERE run_id = ?`, runID)

	err := row.Scan(&run.RunID, &run.Created, &run.Source, &run.SMAWindow, &run.EMASpan, &run.VolWindow)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return RunInfo{}, fmt.Errorf("run %q not found", runID)
		}
		return RunInfo{}, err
	}
	return run, nil
}

// ListRuns returns every run, oldest first.
func (j *SQLite) ListRuns() ([]RunInfo, error) {
	if err := j.commit(); err != nil {
		return nil, err
	}
	rows, err := j.db.Query(`
		SELECT run_id, created_at, source, sma_window, ema_span, vol_window
		FROM runs
		ORDER BY created_at ASC, run_id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunInfo
	for rows.Next() {
		var run RunInfo
		if err := rows.Scan(&run.RunID, &run.Created, &run.Source, &run.SMAWindow, &run.EMASpan, &run.VolWindow); err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

// ListRows returns the rows of a run in input order. An empty symbol
// selects every symbol.
func (j *SQLite) ListRows(runID, symbol string) ([]Row, error) {
	if err := j.commit(); err != nil {
		return nil, err
	}
	rows, err := j.db.Query(`
		SELECT seq, ts, symbol, price, volume, sma, ema, volatility, vwap
		FROM trade_rows
		WHERE run_id = ? AND (? = '' OR symbol = ?)
		ORDER BY seq ASC`, runID, symbol, symbol)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var r Row
		if err := rows.Scan(
			&r.Seq,
			&r.Trade.Time,
			&r.Trade.Symbol,
			&r.Trade.Price,
			&r.Trade.Volume,
			&r.Values.SMA,
			&r.Values.EMA,
			&r.Values.Volatility,
			&r.Values.VWAP,
		); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
