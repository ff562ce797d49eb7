package models

// GeoMatch represents one candidate location returned by the geocoding provider.
// Latitude and longitude are kept as the provider's decimal strings so their
// formatting survives untouched.
type GeoMatch struct {
	PlaceID     uint64  `json:"place_id"`     // Provider-assigned place identifier.
	Licence     string  `json:"licence"`      // Data license of the match.
	OSMType     *string `json:"osm_type"`     // OpenStreetMap feature type, if known.
	OSMID       *uint64 `json:"osm_id"`       // OpenStreetMap feature identifier, if known.
	Lat         string  `json:"lat"`          // Latitude as string.
	Lon         string  `json:"lon"`          // Longitude as string.
	DisplayName string  `json:"display_name"` // Human-readable name of the place.
	Class       string  `json:"class"`        // Coarse category tag.
	Type        string  `json:"type"`         // Fine-grained type tag.
	Importance  float64 `json:"importance"`   // Provider ranking heuristic.
}
