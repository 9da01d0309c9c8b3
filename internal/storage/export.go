package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bilgisen/haxsite/internal/models"
	"github.com/bilgisen/haxsite/internal/view"
)

// Export publishes the static page and the snapshot JSON for snap and
// returns the locations written.
func Export(ctx context.Context, pub Publisher, snap *models.Snapshot) ([]string, error) {
	if !snap.Renderable() {
		return nil, fmt.Errorf("nothing to export")
	}

	page, err := view.RenderBytes(view.NewPage(snap, false))
	if err != nil {
		return nil, err
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	outputs := []struct {
		name        string
		body        []byte
		contentType string
	}{
		{"index.html", page, "text/html; charset=utf-8"},
		{"snapshot.json", data, "application/json"},
	}

	var locations []string
	for _, out := range outputs {
		loc, err := pub.Publish(ctx, ExportKey(snap.SourceURL, out.name), out.body, out.contentType)
		if err != nil {
			return locations, err
		}
		locations = append(locations, loc)
	}
	return locations, nil
}
