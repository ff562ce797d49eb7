package geocoding

import (
	"context"

	"github.com/UnknownOlympus/geobatch/internal/models"
)

// Provider is an interface that defines a method for searching an address.
// Search performs exactly one lookup and returns every candidate match;
// retry policy belongs to the caller.
type Provider interface {
	Search(ctx context.Context, query string) ([]models.GeoMatch, error)
}
