// Package export ships scan reports to external archives.
package export

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/groblegark/soscope/internal/model"
)

// Destination is the interface for an export target.
type Destination interface {
	// Write stores the JSON payload under the given name.
	Write(ctx context.Context, name string, data []byte) error
}

// WriteScan serializes a scan record and writes it to the destination under
// "<id>.json".
func WriteScan(ctx context.Context, dest Destination, rec *model.ScanRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshaling scan %s: %w", rec.ID, err)
	}
	if err := dest.Write(ctx, rec.ID+".json", data); err != nil {
		return fmt.Errorf("writing scan %s: %w", rec.ID, err)
	}
	return nil
}
