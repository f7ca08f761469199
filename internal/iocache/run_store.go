package iocache

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/scendiff/scendiff/internal/contract"
	"github.com/scendiff/scendiff/schema"
)

const (
	runsTable      = "scendiff_runs"
	runDeltasTable = "scendiff_run_deltas"
)

// RunStoreImpl records run history using various database backends.
type RunStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
	connStr string
}

var _ contract.RunStore = &RunStoreImpl{} // Compile-time check

// NewRunStore initializes and returns a new RunStore based on the backend type.
func NewRunStore(backend schema.DatabaseBackend, connStr string) (contract.RunStore, error) {
	var db *sql.DB
	var err error

	switch backend {
	case schema.SQLiteBackend:
		dbPath := connStr
		if dbPath == "" {
			dbPath = GetRunsDBFilePath()
		}
		db, err = sql.Open("sqlite3", dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite run store at %q: %w. Ensure the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)

	case schema.MySQLBackend:
		db, err = sql.Open("mysql", connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MySQL run store: %w. Check connection format: user:password@tcp(host:port)/dbname", err)
		}

	case schema.PostgreSQLBackend:
		db, err = sql.Open("pgx", connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL run store: %w. Check connection format: host=localhost port=5432 user=postgres dbname=mydb", err)
		}

	case schema.NoneBackend:
		// Return a no-op store for disabled run tracking
		return &RunStoreImpl{
			db:      nil,
			backend: backend,
			connStr: connStr,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported run store backend: %s. Must be sqlite, mysql, postgresql, or none", backend)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database. Check that the server is running and connection parameters are valid: %w", backend, err)
	}

	if err := createRunTables(db, backend); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &RunStoreImpl{
		db:      db,
		backend: backend,
		connStr: connStr,
	}, nil
}

// createRunTables creates the run and delta tables if they do not exist.
func createRunTables(db *sql.DB, backend schema.DatabaseBackend) error {
	quotedRunsTable := quoteTableName(runsTable, backend)
	quotedDeltasTable := quoteTableName(runDeltasTable, backend)

	var runsQuery, deltasQuery string
	switch backend {
	case schema.MySQLBackend:
		runsQuery = fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id BIGINT AUTO_INCREMENT PRIMARY KEY,
				run_uid VARCHAR(64) NOT NULL,
				scenario VARCHAR(64) NOT NULL,
				transform VARCHAR(32) NOT NULL,
				magnitude DOUBLE NOT NULL,
				window_from DOUBLE NOT NULL,
				window_to DOUBLE NOT NULL,
				engine_command VARCHAR(255) NOT NULL,
				outcome VARCHAR(32) NOT NULL,
				error_message TEXT,
				started_at TIMESTAMP(6) NOT NULL,
				finished_at TIMESTAMP(6) NULL,
				duration_ms INT,
				max_abs_delta DOUBLE NOT NULL DEFAULT 0
			);
		`, quotedRunsTable)
		deltasQuery = fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				variable VARCHAR(64) NOT NULL,
				unit VARCHAR(32) NOT NULL,
				overlap_start DOUBLE NOT NULL,
				overlap_end DOUBLE NOT NULL,
				final_delta DOUBLE NOT NULL,
				peak_delta DOUBLE NOT NULL,
				peak_year DOUBLE NOT NULL,
				PRIMARY KEY (run_id, variable)
			);
		`, quotedDeltasTable)

	case schema.PostgreSQLBackend:
		runsQuery = fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id BIGSERIAL PRIMARY KEY,
				run_uid TEXT NOT NULL,
				scenario TEXT NOT NULL,
				transform TEXT NOT NULL,
				magnitude DOUBLE PRECISION NOT NULL,
				window_from DOUBLE PRECISION NOT NULL,
				window_to DOUBLE PRECISION NOT NULL,
				engine_command TEXT NOT NULL,
				outcome TEXT NOT NULL,
				error_message TEXT,
				started_at TIMESTAMPTZ NOT NULL,
				finished_at TIMESTAMPTZ,
				duration_ms INTEGER,
				max_abs_delta DOUBLE PRECISION NOT NULL DEFAULT 0
			);
		`, quotedRunsTable)
		deltasQuery = fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				variable TEXT NOT NULL,
				unit TEXT NOT NULL,
				overlap_start DOUBLE PRECISION NOT NULL,
				overlap_end DOUBLE PRECISION NOT NULL,
				final_delta DOUBLE PRECISION NOT NULL,
				peak_delta DOUBLE PRECISION NOT NULL,
				peak_year DOUBLE PRECISION NOT NULL,
				PRIMARY KEY (run_id, variable)
			);
		`, quotedDeltasTable)

	default: // SQLite
		runsQuery = fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				run_uid TEXT NOT NULL,
				scenario TEXT NOT NULL,
				transform TEXT NOT NULL,
				magnitude REAL NOT NULL,
				window_from REAL NOT NULL,
				window_to REAL NOT NULL,
				engine_command TEXT NOT NULL,
				outcome TEXT NOT NULL,
				error_message TEXT,
				started_at TEXT NOT NULL,
				finished_at TEXT,
				duration_ms INTEGER,
				max_abs_delta REAL NOT NULL DEFAULT 0
			);
		`, quotedRunsTable)
		deltasQuery = fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER NOT NULL,
				variable TEXT NOT NULL,
				unit TEXT NOT NULL,
				overlap_start REAL NOT NULL,
				overlap_end REAL NOT NULL,
				final_delta REAL NOT NULL,
				peak_delta REAL NOT NULL,
				peak_year REAL NOT NULL,
				PRIMARY KEY (run_id, variable)
			);
		`, quotedDeltasTable)
	}

	if _, err := db.Exec(runsQuery); err != nil {
		return fmt.Errorf("failed to create table %s: %w", runsTable, err)
	}
	if _, err := db.Exec(deltasQuery); err != nil {
		return fmt.Errorf("failed to create table %s: %w", runDeltasTable, err)
	}
	return nil
}

// BeginRun inserts a new run row and returns its ID.
func (rs *RunStoreImpl) BeginRun(rec schema.RunRecord) (int64, error) {
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return 0, nil
	}

	quotedTableName := quoteTableName(runsTable, rs.backend)
	startedAt := formatTime(rec.StartedAt, rs.backend)

	if rs.backend == schema.PostgreSQLBackend {
		query := fmt.Sprintf(`INSERT INTO %s
			(run_uid, scenario, transform, magnitude, window_from, window_to, engine_command, outcome, started_at, max_abs_delta)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`, quotedTableName)
		var id int64
		err := rs.db.QueryRow(query,
			rec.RunUID, rec.Scenario, rec.Transform, rec.Magnitude,
			rec.WindowFrom, rec.WindowTo, rec.EngineCommand,
			string(rec.Outcome), startedAt, rec.MaxAbsDelta).Scan(&id)
		if err != nil {
			return 0, fmt.Errorf("failed to insert run record: %w", err)
		}
		return id, nil
	}

	query := fmt.Sprintf(`INSERT INTO %s
		(run_uid, scenario, transform, magnitude, window_from, window_to, engine_command, outcome, started_at, max_abs_delta)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, quotedTableName)
	result, err := rs.db.Exec(query,
		rec.RunUID, rec.Scenario, rec.Transform, rec.Magnitude,
		rec.WindowFrom, rec.WindowTo, rec.EngineCommand,
		string(rec.Outcome), startedAt, rec.MaxAbsDelta)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run record: %w", err)
	}
	return result.LastInsertId()
}

// FinishRun finalizes a run row with its outcome and headline delta.
func (rs *RunStoreImpl) FinishRun(runID int64, outcome schema.RunOutcome, errMsg string, finishedAt time.Time, maxAbsDelta float64) error {
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil
	}

	quotedTableName := quoteTableName(runsTable, rs.backend)

	// Read the start time back to compute the duration server-agnostically
	var startedAt time.Time
	selectQuery := fmt.Sprintf(`SELECT started_at FROM %s WHERE id = %s`, quotedTableName, rs.getPlaceholder(1))
	if rs.backend == schema.SQLiteBackend {
		var startedStr string
		if err := rs.db.QueryRow(selectQuery, runID).Scan(&startedStr); err != nil {
			return fmt.Errorf("failed to read run %d: %w", runID, err)
		}
		parsed, err := time.Parse(time.RFC3339Nano, startedStr)
		if err != nil {
			return fmt.Errorf("failed to parse start time for run %d: %w", runID, err)
		}
		startedAt = parsed
	} else {
		if err := rs.db.QueryRow(selectQuery, runID).Scan(&startedAt); err != nil {
			return fmt.Errorf("failed to read run %d: %w", runID, err)
		}
	}

	durationMs := int32(finishedAt.Sub(startedAt).Milliseconds())

	var errVal any
	if errMsg != "" {
		errVal = errMsg
	}

	updateQuery := fmt.Sprintf(`UPDATE %s SET outcome = %s, error_message = %s, finished_at = %s, duration_ms = %s, max_abs_delta = %s WHERE id = %s`,
		quotedTableName,
		rs.getPlaceholder(1), rs.getPlaceholder(2), rs.getPlaceholder(3),
		rs.getPlaceholder(4), rs.getPlaceholder(5), rs.getPlaceholder(6))
	_, err := rs.db.Exec(updateQuery,
		string(outcome), errVal, formatTime(finishedAt, rs.backend), durationMs, maxAbsDelta, runID)
	if err != nil {
		return fmt.Errorf("failed to finalize run %d: %w", runID, err)
	}
	return nil
}

// RecordDeltas inserts the per-variable headline numbers for a run.
func (rs *RunStoreImpl) RecordDeltas(runID int64, deltas []schema.DeltaRecord) error {
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil
	}
	if len(deltas) == 0 {
		return nil
	}

	quotedTableName := quoteTableName(runDeltasTable, rs.backend)
	query := fmt.Sprintf(`INSERT INTO %s
		(run_id, variable, unit, overlap_start, overlap_end, final_delta, peak_delta, peak_year)
		VALUES (%s, %s, %s, %s, %s, %s, %s, %s)`, quotedTableName,
		rs.getPlaceholder(1), rs.getPlaceholder(2), rs.getPlaceholder(3), rs.getPlaceholder(4),
		rs.getPlaceholder(5), rs.getPlaceholder(6), rs.getPlaceholder(7), rs.getPlaceholder(8))

	for _, d := range deltas {
		_, err := rs.db.Exec(query,
			runID, d.Variable, d.Unit, d.OverlapStart, d.OverlapEnd,
			d.FinalDelta, d.PeakDelta, d.PeakYear)
		if err != nil {
			return fmt.Errorf("failed to insert delta for run %d variable %s: %w", runID, d.Variable, err)
		}
	}
	return nil
}

// getPlaceholder returns the parameter placeholder for position n.
func (rs *RunStoreImpl) getPlaceholder(n int) string {
	if rs.backend == schema.PostgreSQLBackend {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// Close closes the underlying DB connection.
func (rs *RunStoreImpl) Close() error {
	if rs.db != nil {
		return rs.db.Close()
	}
	return nil
}

// GetStatus returns status information about the run store.
func (rs *RunStoreImpl) GetStatus() (schema.RunStoreStatus, error) {
	status := schema.RunStoreStatus{
		Backend:    string(rs.backend),
		Connected:  rs.db != nil,
		TableSizes: make(map[string]int64),
	}

	if rs.backend == schema.NoneBackend || rs.db == nil {
		return status, nil
	}

	quotedRunsTable := quoteTableName(runsTable, rs.backend)
	quotedDeltasTable := quoteTableName(runDeltasTable, rs.backend)

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quotedRunsTable)
	if err := rs.db.QueryRow(countQuery).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	deltaCountQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quotedDeltasTable)
	if err := rs.db.QueryRow(deltaCountQuery).Scan(&status.TotalDeltas); err != nil {
		return status, fmt.Errorf("failed to get total deltas: %w", err)
	}

	if status.TotalRuns == 0 {
		return status, nil
	}

	lastQuery := fmt.Sprintf("SELECT id, started_at FROM %s ORDER BY id DESC LIMIT 1", quotedRunsTable)
	if rs.backend == schema.SQLiteBackend {
		var lastStr string
		if err := rs.db.QueryRow(lastQuery).Scan(&status.LastRunID, &lastStr); err != nil {
			return status, fmt.Errorf("failed to get last run: %w", err)
		}
		parsed, err := time.Parse(time.RFC3339Nano, lastStr)
		if err != nil {
			return status, fmt.Errorf("failed to parse last run time: %w", err)
		}
		status.LastRunTime = parsed
	} else {
		if err := rs.db.QueryRow(lastQuery).Scan(&status.LastRunID, &status.LastRunTime); err != nil {
			return status, fmt.Errorf("failed to get last run: %w", err)
		}
	}

	oldestQuery := fmt.Sprintf("SELECT started_at FROM %s ORDER BY id ASC LIMIT 1", quotedRunsTable)
	if rs.backend == schema.SQLiteBackend {
		var oldestStr string
		if err := rs.db.QueryRow(oldestQuery).Scan(&oldestStr); err != nil {
			return status, fmt.Errorf("failed to get oldest run: %w", err)
		}
		parsed, err := time.Parse(time.RFC3339Nano, oldestStr)
		if err != nil {
			return status, fmt.Errorf("failed to parse oldest run time: %w", err)
		}
		status.OldestRunTime = parsed
	} else {
		if err := rs.db.QueryRow(oldestQuery).Scan(&status.OldestRunTime); err != nil {
			return status, fmt.Errorf("failed to get oldest run: %w", err)
		}
	}

	rs.fillTableSizes(&status)
	return status, nil
}

// fillTableSizes populates approximate on-disk sizes per table. Failures
// leave a rough row-count based estimate instead of erroring the status call.
func (rs *RunStoreImpl) fillTableSizes(status *schema.RunStoreStatus) {
	rough := func(rows int) int64 { return int64(rows) * 500 }

	switch rs.backend {
	case schema.SQLiteBackend:
		// SQLite sizes the whole file, not individual tables
		var total int64
		sizeQuery := "SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()"
		if err := rs.db.QueryRow(sizeQuery).Scan(&total); err == nil {
			status.TableSizes[runsTable] = total
		}

	case schema.MySQLBackend:
		cfg, err := mysql.ParseDSN(rs.connStr)
		if err != nil || cfg.DBName == "" {
			status.TableSizes[runsTable] = rough(status.TotalRuns)
			status.TableSizes[runDeltasTable] = rough(status.TotalDeltas)
			return
		}
		sizeQuery := "SELECT data_length + index_length FROM information_schema.tables WHERE table_schema = ? AND table_name = ?"
		for _, table := range []string{runsTable, runDeltasTable} {
			var size int64
			if err := rs.db.QueryRow(sizeQuery, cfg.DBName, table).Scan(&size); err == nil {
				status.TableSizes[table] = size
			}
		}

	case schema.PostgreSQLBackend:
		for _, table := range []string{runsTable, runDeltasTable} {
			var size int64
			if err := rs.db.QueryRow("SELECT pg_total_relation_size($1)", table).Scan(&size); err == nil {
				status.TableSizes[table] = size
			}
		}
	}
}

// GetAllRuns returns every run row ordered by ID.
func (rs *RunStoreImpl) GetAllRuns() ([]schema.RunRecord, error) {
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil, nil
	}

	quotedTableName := quoteTableName(runsTable, rs.backend)
	query := fmt.Sprintf(`SELECT id, run_uid, scenario, transform, magnitude, window_from, window_to,
		engine_command, outcome, error_message, started_at, finished_at, duration_ms, max_abs_delta
		FROM %s ORDER BY id`, quotedTableName)

	rows, err := rs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []schema.RunRecord
	for rows.Next() {
		var rec schema.RunRecord
		var outcome string
		if rs.backend == schema.SQLiteBackend {
			var startedStr string
			var finishedStr *string
			err = rows.Scan(&rec.ID, &rec.RunUID, &rec.Scenario, &rec.Transform, &rec.Magnitude,
				&rec.WindowFrom, &rec.WindowTo, &rec.EngineCommand, &outcome,
				&rec.ErrorMessage, &startedStr, &finishedStr, &rec.DurationMs, &rec.MaxAbsDelta)
			if err != nil {
				return nil, fmt.Errorf("failed to scan run row: %w", err)
			}
			if rec.StartedAt, err = time.Parse(time.RFC3339Nano, startedStr); err != nil {
				return nil, fmt.Errorf("failed to parse start time: %w", err)
			}
			if finishedStr != nil {
				finished, err := time.Parse(time.RFC3339Nano, *finishedStr)
				if err != nil {
					return nil, fmt.Errorf("failed to parse finish time: %w", err)
				}
				rec.FinishedAt = &finished
			}
		} else {
			err = rows.Scan(&rec.ID, &rec.RunUID, &rec.Scenario, &rec.Transform, &rec.Magnitude,
				&rec.WindowFrom, &rec.WindowTo, &rec.EngineCommand, &outcome,
				&rec.ErrorMessage, &rec.StartedAt, &rec.FinishedAt, &rec.DurationMs, &rec.MaxAbsDelta)
			if err != nil {
				return nil, fmt.Errorf("failed to scan run row: %w", err)
			}
		}
		rec.Outcome = schema.RunOutcome(outcome)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// GetAllDeltas returns every delta row ordered by run ID then variable.
func (rs *RunStoreImpl) GetAllDeltas() ([]schema.DeltaRecord, error) {
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil, nil
	}

	quotedTableName := quoteTableName(runDeltasTable, rs.backend)
	query := fmt.Sprintf(`SELECT run_id, variable, unit, overlap_start, overlap_end,
		final_delta, peak_delta, peak_year FROM %s ORDER BY run_id, variable`, quotedTableName)

	rows, err := rs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query deltas: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []schema.DeltaRecord
	for rows.Next() {
		var rec schema.DeltaRecord
		err = rows.Scan(&rec.RunID, &rec.Variable, &rec.Unit, &rec.OverlapStart,
			&rec.OverlapEnd, &rec.FinalDelta, &rec.PeakDelta, &rec.PeakYear)
		if err != nil {
			return nil, fmt.Errorf("failed to scan delta row: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
