package geocode

import "context"

// Result contains location data returned by the geocoding provider
type Result struct {
	Lat              float64
	Lon              float64
	FormattedAddress string
	PlaceName        string
	Confidence       float64 // provider confidence score, 0.0 to 1.0
}

// Geocoder resolves a campus place name to a single point
type Geocoder interface {
	ForwardGeocode(ctx context.Context, query string) (Result, error)
}

// minPreciseConfidence is the relevance floor below which a location is not
// considered precisely mappable and is dropped from the map view only
const minPreciseConfidence = 0.75

// Mappable reports whether a geocoding result pins one precise point.
// Ambiguous or empty results are excluded from the map view but stay in
// every non-map aggregate.
func Mappable(r Result) bool {
	return r.FormattedAddress != "" && r.Confidence >= minPreciseConfidence
}
