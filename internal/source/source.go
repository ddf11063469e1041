// Package source provides the upstream adapters that fetch the raw content
// collections: the backend HTTP API and a local directory for offline use.
package source

import (
	"context"
	"log/slog"

	"github.com/starford/vitrine/internal/models"
)

// Default upstream paths served by the content API.
const (
	DefaultConfigPath    = "/api/admin/config"
	DefaultExpertisePath = "/api/specialization-areas"
)

// Source fetches the two raw collections. Implementations must return a
// fresh collection on every call; callers never reuse a previous response.
type Source interface {
	// FetchConfigs returns the configuration records in upstream order.
	FetchConfigs(ctx context.Context) ([]models.ConfigRecord, error)
	// FetchExpertise returns the expertise cards in upstream order.
	FetchExpertise(ctx context.Context) ([]models.ExpertiseCard, error)
}

// decodeList decodes a collection body element by element. Records that do
// not decode are dropped with a warning so the rest of the collection still
// refreshes.
func decodeList[T any](origin string, data []byte) ([]T, error) {
	items, skipped, err := models.DecodeList[T](data)
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		slog.Warn("source: skipped malformed records",
			slog.String("origin", origin),
			slog.Int("skipped", skipped))
	}
	return items, nil
}
