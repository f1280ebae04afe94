package postgres

import (
	"database/sql"
	"encoding/json"

	"github.com/groblegark/soscope/internal/model"
)

// scannable is the interface satisfied by both *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

// scanRecord scans a single row into a model.ScanRecord. The row must contain
// columns in the order defined by scanColumns, plus a trailing report column
// when withReport is set.
func scanRecord(row scannable, withReport bool) (*model.ScanRecord, error) {
	var rec model.ScanRecord
	var (
		space  sql.NullString
		report []byte
	)

	dest := []any{
		&rec.ID,
		&space,
		&rec.CreatedAt,
		&rec.TotalDashboards,
		&rec.Healthy,
		&rec.Warning,
		&rec.Unhealthy,
		&rec.CriticalIssues,
	}
	if withReport {
		dest = append(dest, &report)
	}

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	rec.Space = space.String
	if len(report) > 0 {
		rec.Report = json.RawMessage(report)
	}
	return &rec, nil
}

// nullString converts an empty string to a NULL value.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// jsonbBytes converts a json.RawMessage to a value suitable for a jsonb
// column, mapping empty payloads to NULL.
func jsonbBytes(m json.RawMessage) []byte {
	if len(m) == 0 {
		return nil
	}
	return []byte(m)
}
