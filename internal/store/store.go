package store

import (
	"context"
	"errors"

	"github.com/groblegark/soscope/internal/model"
)

// ErrNotFound is returned when a scan record does not exist.
var ErrNotFound = errors.New("scan not found")

// Store defines the persistence interface for scan history.
type Store interface {
	// SaveScan persists a completed batch scan.
	SaveScan(ctx context.Context, rec *model.ScanRecord) error

	// GetScan returns a single scan by ID, including the full report payload.
	// Returns ErrNotFound when no such scan exists.
	GetScan(ctx context.Context, id string) (*model.ScanRecord, error)

	// ListScans returns recent scans, newest first, without report payloads.
	// An empty space matches scans of every space.
	ListScans(ctx context.Context, space string, limit int) ([]*model.ScanRecord, error)

	// Lifecycle
	Close() error
}
