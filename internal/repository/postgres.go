package repository

import (
	"context"
	"fmt"

	"github.com/UnknownOlympus/geobatch/internal/models"
)

// EnsureSchema creates the geocoded_addresses table if it does not exist yet.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS geocoded_addresses (
			id           BIGSERIAL PRIMARY KEY,
			address      TEXT NOT NULL,
			place_id     BIGINT NOT NULL,
			licence      TEXT NOT NULL,
			osm_type     TEXT,
			osm_id       BIGINT,
			lat          TEXT NOT NULL,
			lon          TEXT NOT NULL,
			display_name TEXT NOT NULL,
			class        TEXT NOT NULL,
			type         TEXT NOT NULL,
			importance   DOUBLE PRECISION NOT NULL,
			created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
		);
	`

	if _, err := r.db.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create geocoded_addresses table: %w", err)
	}

	return nil
}

// SaveRecord inserts one emitted record. Coordinates stay text to keep the
// provider's formatting.
func (r *Repository) SaveRecord(ctx context.Context, record models.OutputRecord) error {
	query := `
		INSERT INTO geocoded_addresses
			(address, place_id, licence, osm_type, osm_id, lat, lon, display_name, class, type, importance)
		VALUES
			($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`

	_, err := r.db.Exec(ctx, query,
		record.Address,
		int64(record.PlaceID), //nolint:gosec // place ids fit in BIGINT
		record.Licence,
		record.OSMType,
		optionalInt64(record.OSMID),
		record.Lat,
		record.Lon,
		record.DisplayName,
		record.Class,
		record.Type,
		record.Importance,
	)
	if err != nil {
		return fmt.Errorf("failed to save record for %q: %w", record.Address, err)
	}

	r.log.DebugContext(ctx, "Record saved", "address", record.Address, "place_id", record.PlaceID)

	return nil
}

func optionalInt64(value *uint64) *int64 {
	if value == nil {
		return nil
	}
	converted := int64(*value) //nolint:gosec // osm ids fit in BIGINT

	return &converted
}
