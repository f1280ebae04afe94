package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/groblegark/soscope/internal/model"
	"github.com/groblegark/soscope/internal/store"
)

// newMockDB creates a sqlmock database with automatic cleanup and expectation checking.
func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unfulfilled expectations: %v", err)
		}
		db.Close()
	})
	return db, mock
}

// scanRowColumns is the column list for queryListScans results.
var scanRowColumns = []string{
	"id", "space", "created_at", "total_dashboards",
	"healthy", "warning", "unhealthy", "critical_issues",
}

// scanRowColumnsWithReport adds the report payload column for queryGetScan.
var scanRowColumnsWithReport = append(append([]string{}, scanRowColumns...), "report")

func TestScanHelpers(t *testing.T) {
	// nullString
	if nullString("").Valid {
		t.Error("nullString(\"\") should be invalid")
	}
	if ns := nullString("marketing"); !ns.Valid || ns.String != "marketing" {
		t.Errorf("nullString(\"marketing\") = %v", ns)
	}

	// jsonbBytes
	if jsonbBytes(nil) != nil {
		t.Error("jsonbBytes(nil) should be nil")
	}
	if jsonbBytes(json.RawMessage{}) != nil {
		t.Error("jsonbBytes({}) should be nil")
	}
	input := json.RawMessage(`{"key":"value"}`)
	if string(jsonbBytes(input)) != `{"key":"value"}` {
		t.Errorf("jsonbBytes = %s", jsonbBytes(input))
	}
}

func TestQuerySaveScan(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Now().UTC()
	rec := &model.ScanRecord{
		ID: "rp-test1", Space: "marketing", CreatedAt: now,
		TotalDashboards: 10, Healthy: 7, Warning: 2, Unhealthy: 1, CriticalIssues: 3,
		Report: json.RawMessage(`{"dashboards":[]}`),
	}
	mock.ExpectExec("INSERT INTO scan_reports").
		WithArgs(
			"rp-test1", sqlmock.AnyArg(), now, 10,
			7, 2, 1, 3, sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := querySaveScan(context.Background(), db, rec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestQueryGetScan(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Now().UTC()

	rows := sqlmock.NewRows(scanRowColumnsWithReport).
		AddRow("rp-test1", "marketing", now, 10, 7, 2, 1, 3, []byte(`{"dashboards":[]}`))
	mock.ExpectQuery("SELECT .+ FROM scan_reports WHERE id = \\$1").
		WithArgs("rp-test1").
		WillReturnRows(rows)

	rec, err := queryGetScan(context.Background(), db, "rp-test1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.ID != "rp-test1" || rec.Space != "marketing" {
		t.Errorf("record = %+v", rec)
	}
	if rec.TotalDashboards != 10 || rec.CriticalIssues != 3 {
		t.Errorf("counts = %d/%d, want 10/3", rec.TotalDashboards, rec.CriticalIssues)
	}
	if string(rec.Report) != `{"dashboards":[]}` {
		t.Errorf("report = %s", rec.Report)
	}
}

func TestQueryGetScan_NotFound(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("SELECT .+ FROM scan_reports WHERE id = \\$1").
		WithArgs("rp-missing").
		WillReturnRows(sqlmock.NewRows(scanRowColumnsWithReport))

	_, err := queryGetScan(context.Background(), db, "rp-missing")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("err = %v, want store.ErrNotFound", err)
	}
}

func TestQueryGetScan_NullFields(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Now().UTC()

	rows := sqlmock.NewRows(scanRowColumnsWithReport).
		AddRow("rp-test2", nil, now, 0, 0, 0, 0, 0, nil)
	mock.ExpectQuery("SELECT .+ FROM scan_reports WHERE id = \\$1").
		WithArgs("rp-test2").
		WillReturnRows(rows)

	rec, err := queryGetScan(context.Background(), db, "rp-test2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Space != "" {
		t.Errorf("Space = %q, want empty for NULL", rec.Space)
	}
	if rec.Report != nil {
		t.Errorf("Report = %s, want nil for NULL", rec.Report)
	}
}

func TestQueryListScans(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Now().UTC()

	rows := sqlmock.NewRows(scanRowColumns).
		AddRow("rp-2", nil, now, 5, 5, 0, 0, 0).
		AddRow("rp-1", nil, now.Add(-time.Hour), 4, 2, 1, 1, 2)
	mock.ExpectQuery("SELECT .+ FROM scan_reports ORDER BY created_at DESC LIMIT \\$1").
		WithArgs(20).
		WillReturnRows(rows)

	recs, err := queryListScans(context.Background(), db, "", 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}
	if recs[0].ID != "rp-2" || recs[1].ID != "rp-1" {
		t.Errorf("order = %s, %s, want rp-2, rp-1", recs[0].ID, recs[1].ID)
	}
	// Listing never carries the payload.
	if recs[0].Report != nil {
		t.Errorf("Report = %s, want nil in listing", recs[0].Report)
	}
}

func TestQueryListScans_SpaceFilter(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Now().UTC()

	rows := sqlmock.NewRows(scanRowColumns).
		AddRow("rp-3", "marketing", now, 5, 5, 0, 0, 0)
	mock.ExpectQuery("SELECT .+ FROM scan_reports WHERE space = \\$1 ORDER BY created_at DESC LIMIT \\$2").
		WithArgs("marketing", 10).
		WillReturnRows(rows)

	recs, err := queryListScans(context.Background(), db, "marketing", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 1 || recs[0].Space != "marketing" {
		t.Errorf("records = %+v", recs)
	}
}
