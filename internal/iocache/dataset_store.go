package iocache

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/proneness/core/attrs"
	"github.com/huangsam/proneness/internal/contract"
	"github.com/huangsam/proneness/schema"
	"github.com/jmoiron/sqlx"
)

// Table names for dataset storage.
const (
	runsTable    = "proneness_runs"
	columnsTable = "proneness_columns"
	rowsTable    = "proneness_rows"
)

// ErrRunNotFound is returned when a run id has no stored dataset.
var ErrRunNotFound = errors.New("run not found")

// DataSetStoreImpl implements the DataSetStore interface on top of sqlx.
type DataSetStoreImpl struct {
	db      *sqlx.DB
	backend schema.DatabaseBackend
}

var _ contract.DataSetStore = &DataSetStoreImpl{} // Compile-time check

// runRow mirrors one proneness_runs record.
type runRow struct {
	RunID       string        `db:"run_id"`
	StartTime   int64         `db:"start_time"`
	EndTime     sql.NullInt64 `db:"end_time"`
	RepoPath    string        `db:"repo_path"`
	Builder     string        `db:"builder"`
	ClassColumn string        `db:"class_column"`
	NumRows     int           `db:"num_rows"`
	NumColumns  int           `db:"num_columns"`
	Params      string        `db:"config_params"`
}

// columnRow mirrors one proneness_columns record.
type columnRow struct {
	Index  int    `db:"col_index"`
	Name   string `db:"name"`
	Kind   string `db:"kind"`
	Values string `db:"nominal_values"`
}

// NewDataSetStore creates a new DataSetStore with the specified backend and
// migrates its schema to the latest version.
func NewDataSetStore(backend schema.DatabaseBackend, connStr string) (*DataSetStoreImpl, error) {
	if backend == schema.NoneBackend {
		// No-op store for disabled tracking
		return &DataSetStoreImpl{backend: backend}, nil
	}

	db, driverName, err := openDB(backend, connStr, contract.GetDataSetDBFilePath())
	if err != nil {
		return nil, err
	}

	m, err := newMigrator(db, backend)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := runMigration(m, -1); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create dataset tables: %w", err)
	}

	return &DataSetStoreImpl{db: sqlx.NewDb(db, driverName), backend: backend}, nil
}

// BeginRun creates a new run and returns its unique ID.
func (ds *DataSetStoreImpl) BeginRun(startTime time.Time, repoPath string, builder schema.BuilderKind, params map[string]any) (string, error) {
	if ds.db == nil {
		return "", nil
	}
	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return "", fmt.Errorf("failed to encode run parameters: %w", err)
	}

	runID := uuid.NewString()
	query := ds.db.Rebind(fmt.Sprintf(`INSERT INTO %s (run_id, start_time, repo_path, builder, config_params) VALUES (?, ?, ?, ?, ?)`,
		quoteTableName(runsTable, ds.backend)))
	if _, err := ds.db.Exec(query, runID, startTime.UnixMilli(), repoPath, string(builder), string(paramsJSON)); err != nil {
		return "", fmt.Errorf("failed to begin run: %w", err)
	}
	return runID, nil
}

// RecordTable stores the columns and rows of table under runID.
func (ds *DataSetStoreImpl) RecordTable(runID string, table *attrs.Table) (err error) {
	if ds.db == nil {
		return nil
	}

	tx, err := ds.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	colStmt, err := tx.Preparex(tx.Rebind(fmt.Sprintf(`INSERT INTO %s (run_id, col_index, name, kind, nominal_values) VALUES (?, ?, ?, ?, ?)`,
		quoteTableName(columnsTable, ds.backend))))
	if err != nil {
		return fmt.Errorf("failed to prepare column insert: %w", err)
	}
	defer func() { _ = colStmt.Close() }()

	s := table.Schema
	for i := range s.Len() {
		col := s.Column(i)
		values := []string{}
		if col.Kind == schema.StringColumn {
			values = s.Values(i)
		}
		encoded, err := json.Marshal(values)
		if err != nil {
			return fmt.Errorf("failed to encode values of %s: %w", col.Name, err)
		}
		if _, err := colStmt.Exec(runID, i, col.Name, string(col.Kind), string(encoded)); err != nil {
			return fmt.Errorf("failed to record column %s: %w", col.Name, err)
		}
	}

	rowStmt, err := tx.Preparex(tx.Rebind(fmt.Sprintf(`INSERT INTO %s (run_id, row_index, row_values) VALUES (?, ?, ?)`,
		quoteTableName(rowsTable, ds.backend))))
	if err != nil {
		return fmt.Errorf("failed to prepare row insert: %w", err)
	}
	defer func() { _ = rowStmt.Close() }()

	for i, row := range table.Rows {
		encoded, err := encodeRow(row)
		if err != nil {
			return err
		}
		if _, err := rowStmt.Exec(runID, i, encoded); err != nil {
			return fmt.Errorf("failed to record row %d: %w", i, err)
		}
	}
	return tx.Commit()
}

// EndRun updates the run with completion data.
func (ds *DataSetStoreImpl) EndRun(runID string, endTime time.Time, numRows, numColumns int, classColumn string) error {
	if ds.db == nil {
		return nil
	}
	query := ds.db.Rebind(fmt.Sprintf(`UPDATE %s SET end_time = ?, num_rows = ?, num_columns = ?, class_column = ? WHERE run_id = ?`,
		quoteTableName(runsTable, ds.backend)))
	res, err := ds.db.Exec(query, endTime.UnixMilli(), numRows, numColumns, classColumn, runID)
	if err != nil {
		return fmt.Errorf("failed to end run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return nil
}

// ListRuns returns up to limit runs, newest first.
func (ds *DataSetStoreImpl) ListRuns(limit int) ([]schema.RunRecord, error) {
	if ds.db == nil {
		return nil, nil
	}
	var rows []runRow
	query := ds.db.Rebind(fmt.Sprintf(`SELECT run_id, start_time, end_time, repo_path, builder, class_column, num_rows, num_columns, config_params
		FROM %s ORDER BY start_time DESC, run_id LIMIT ?`, quoteTableName(runsTable, ds.backend)))
	if err := ds.db.Select(&rows, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	records := make([]schema.RunRecord, 0, len(rows))
	for _, r := range rows {
		records = append(records, r.record())
	}
	return records, nil
}

// LoadTable rebuilds the table recorded for runID, label column included.
func (ds *DataSetStoreImpl) LoadTable(runID string) (*attrs.Table, error) {
	if ds.db == nil {
		return nil, fmt.Errorf("%w: dataset storage is disabled", ErrRunNotFound)
	}

	var run runRow
	query := ds.db.Rebind(fmt.Sprintf(`SELECT run_id, start_time, end_time, repo_path, builder, class_column, num_rows, num_columns, config_params
		FROM %s WHERE run_id = ?`, quoteTableName(runsTable, ds.backend)))
	if err := ds.db.Get(&run, query, runID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, fmt.Errorf("failed to load run: %w", err)
	}

	var cols []columnRow
	query = ds.db.Rebind(fmt.Sprintf(`SELECT col_index, name, kind, nominal_values FROM %s WHERE run_id = ? ORDER BY col_index`,
		quoteTableName(columnsTable, ds.backend)))
	if err := ds.db.Select(&cols, query, runID); err != nil {
		return nil, fmt.Errorf("failed to load columns: %w", err)
	}

	s := attrs.NewSchema()
	for _, c := range cols {
		idx, err := s.AddColumn(c.Name, schema.ColumnKind(c.Kind))
		if err != nil {
			return nil, err
		}
		var values []string
		if err := json.Unmarshal([]byte(c.Values), &values); err != nil {
			return nil, fmt.Errorf("failed to decode values of %s: %w", c.Name, err)
		}
		for _, v := range values {
			s.Intern(idx, v)
		}
	}

	var encoded []string
	query = ds.db.Rebind(fmt.Sprintf(`SELECT row_values FROM %s WHERE run_id = ? ORDER BY row_index`,
		quoteTableName(rowsTable, ds.backend)))
	if err := ds.db.Select(&encoded, query, runID); err != nil {
		return nil, fmt.Errorf("failed to load rows: %w", err)
	}

	table := attrs.NewTable(s)
	for i, e := range encoded {
		row, err := decodeRow(e, s.Len())
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		table.Append(row)
	}
	if run.ClassColumn != "" {
		if err := table.SetClass(run.ClassColumn); err != nil {
			return nil, err
		}
	}
	return table, nil
}

// GetStatus returns status information about the dataset store.
func (ds *DataSetStoreImpl) GetStatus() (schema.DataSetStatus, error) {
	status := schema.DataSetStatus{
		Backend:    string(ds.backend),
		Connected:  ds.db != nil,
		TableSizes: make(map[string]int64),
	}
	if ds.db == nil {
		return status, nil
	}

	for _, table := range []string{runsTable, columnsTable, rowsTable} {
		var count int64
		if err := ds.db.Get(&count, fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, ds.backend))); err != nil {
			return status, fmt.Errorf("failed to count %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}
	status.TotalRuns = int(status.TableSizes[runsTable])
	status.TotalRows = status.TableSizes[rowsTable]

	if status.TotalRuns > 0 {
		runs, err := ds.ListRuns(1)
		if err != nil {
			return status, err
		}
		if len(runs) > 0 {
			status.LastRunID = runs[0].RunID
			status.LastRunTime = runs[0].StartTime
		}
	}
	return status, nil
}

// Clear removes every stored run.
func (ds *DataSetStoreImpl) Clear() error {
	if ds.db == nil {
		return nil
	}
	for _, table := range []string{rowsTable, columnsTable, runsTable} {
		if _, err := ds.db.Exec(fmt.Sprintf("DELETE FROM %s", quoteTableName(table, ds.backend))); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}

// Close closes the underlying DB connection.
func (ds *DataSetStoreImpl) Close() error {
	if ds.db != nil {
		return ds.db.Close()
	}
	return nil
}

func (r runRow) record() schema.RunRecord {
	rec := schema.RunRecord{
		RunID:       r.RunID,
		StartTime:   time.UnixMilli(r.StartTime),
		RepoPath:    r.RepoPath,
		Builder:     r.Builder,
		ClassColumn: r.ClassColumn,
		NumRows:     r.NumRows,
		NumColumns:  r.NumColumns,
		Params:      r.Params,
	}
	if r.EndTime.Valid {
		rec.EndTime = time.UnixMilli(r.EndTime.Int64)
	}
	return rec
}

// encodeRow renders a row as a JSON array with null for missing cells.
func encodeRow(row attrs.Row) (string, error) {
	cells := make([]*float64, len(row))
	for i := range row {
		if !attrs.IsMissing(row[i]) {
			cells[i] = &row[i]
		}
	}
	data, err := json.Marshal(cells)
	if err != nil {
		return "", fmt.Errorf("failed to encode row: %w", err)
	}
	return string(data), nil
}

// decodeRow reverses encodeRow for a schema of the given width.
func decodeRow(encoded string, width int) (attrs.Row, error) {
	var cells []*float64
	if err := json.Unmarshal([]byte(encoded), &cells); err != nil {
		return nil, fmt.Errorf("failed to decode row: %w", err)
	}
	if len(cells) != width {
		return nil, fmt.Errorf("row has %d cells, schema has %d columns", len(cells), width)
	}
	row := make(attrs.Row, width)
	for i, c := range cells {
		if c == nil {
			row[i] = attrs.Missing()
		} else {
			row[i] = *c
		}
	}
	return row, nil
}
