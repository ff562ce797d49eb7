package models

// OutputRecord is a GeoMatch tagged with the original input line that produced it.
// It is the unit written to the output stream, so the csv tags define the header.
type OutputRecord struct {
	Address     string  `csv:"address"`
	PlaceID     uint64  `csv:"place_id"`
	Licence     string  `csv:"licence"`
	OSMType     *string `csv:"osm_type"`
	OSMID       *uint64 `csv:"osm_id"`
	Lat         string  `csv:"lat"`
	Lon         string  `csv:"lon"`
	DisplayName string  `csv:"display_name"`
	Class       string  `csv:"class"`
	Type        string  `csv:"type"`
	Importance  float64 `csv:"importance"`
}

// NewOutputRecord pairs a match with the original, untrimmed address.
func NewOutputRecord(address string, match GeoMatch) OutputRecord {
	return OutputRecord{
		Address:     address,
		PlaceID:     match.PlaceID,
		Licence:     match.Licence,
		OSMType:     match.OSMType,
		OSMID:       match.OSMID,
		Lat:         match.Lat,
		Lon:         match.Lon,
		DisplayName: match.DisplayName,
		Class:       match.Class,
		Type:        match.Type,
		Importance:  match.Importance,
	}
}

// NewOutputRecords builds one record per match, all tagged with address.
func NewOutputRecords(address string, matches []GeoMatch) []OutputRecord {
	records := make([]OutputRecord, 0, len(matches))
	for _, match := range matches {
		records = append(records, NewOutputRecord(address, match))
	}

	return records
}
