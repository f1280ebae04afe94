package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/groblegark/soscope/internal/model"
	"github.com/groblegark/soscope/internal/store"
)

// scanColumns is the column list used for SELECT statements on the
// scan_reports table, minus the report payload.
const scanColumns = `id, space, created_at, total_dashboards,
	healthy, warning, unhealthy, critical_issues`

// executor is the interface satisfied by both *sql.DB and *sql.Tx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func querySaveScan(ctx context.Context, db executor, rec *model.ScanRecord) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO scan_reports (
			id, space, created_at, total_dashboards,
			healthy, warning, unhealthy, critical_issues, report
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7, $8, $9
		)`,
		rec.ID,
		nullString(rec.Space),
		rec.CreatedAt,
		rec.TotalDashboards,
		rec.Healthy,
		rec.Warning,
		rec.Unhealthy,
		rec.CriticalIssues,
		jsonbBytes(rec.Report),
	)
	return err
}

func queryGetScan(ctx context.Context, db executor, id string) (*model.ScanRecord, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+scanColumns+`, report FROM scan_reports WHERE id = $1`, id)
	rec, err := scanRecord(row, true)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func queryListScans(ctx context.Context, db executor, space string, limit int) ([]*model.ScanRecord, error) {
	query := `SELECT ` + scanColumns + ` FROM scan_reports`
	var args []any
	if space != "" {
		query += ` WHERE space = $1`
		args = append(args, space)
	}
	query += ` ORDER BY created_at DESC`
	if limit > 0 {
		args = append(args, limit)
		if space != "" {
			query += ` LIMIT $2`
		} else {
			query += ` LIMIT $1`
		}
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []*model.ScanRecord
	for rows.Next() {
		rec, err := scanRecord(rows, false)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}
