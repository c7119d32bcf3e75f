package recommend

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

var (
	// ErrNoLocation means the profile has no usable coordinates.
	ErrNoLocation = errors.New("location not provided")
	// ErrMalformedLocation means a location was supplied in a shape that
	// cannot be turned into a coordinate pair.
	ErrMalformedLocation = errors.New("malformed location")
)

// LocationKind tags which wire shape a Location was decoded from.
type LocationKind int

const (
	LocationUnknown LocationKind = iota
	LocationLatLng               // {"lat": 6.52, "lng": 3.37}
	LocationGeoJSON              // {"coordinates": [3.37, 6.52]}
)

func (k LocationKind) String() string {
	switch k {
	case LocationLatLng:
		return "lat_lng"
	case LocationGeoJSON:
		return "geojson"
	default:
		return "unknown"
	}
}

// GeoPoint is a normalized coordinate pair in decimal degrees.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Location is a profile location as it arrives from storage or clients.
// Only the fields for Kind are meaningful; use Point to get coordinates.
type Location struct {
	Kind        LocationKind
	Lat         float64
	Lng         float64
	Coordinates []float64 // GeoJSON order: longitude, latitude

	raw json.RawMessage
}

// LatLng builds a Location from an explicit pair.
func LatLng(lat, lng float64) *Location {
	return &Location{Kind: LocationLatLng, Lat: lat, Lng: lng}
}

// GeoJSONPoint builds a Location in GeoJSON order.
func GeoJSONPoint(lng, lat float64) *Location {
	return &Location{Kind: LocationGeoJSON, Coordinates: []float64{lng, lat}}
}

type locationWire struct {
	Lat         *float64  `json:"lat,omitempty"`
	Lng         *float64  `json:"lng,omitempty"`
	Coordinates []float64 `json:"coordinates,omitempty"`
}

// UnmarshalJSON picks the shape from the keys present. Anything it cannot
// recognise is kept as LocationUnknown rather than failing the surrounding
// document, so one bad record cannot break a batch decode.
func (l *Location) UnmarshalJSON(data []byte) error {
	*l = Location{raw: append(json.RawMessage(nil), data...)}

	var w locationWire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil
	}

	switch {
	case w.Coordinates != nil:
		l.Kind = LocationGeoJSON
		l.Coordinates = w.Coordinates
	case w.Lat != nil && w.Lng != nil:
		l.Kind = LocationLatLng
		l.Lat, l.Lng = *w.Lat, *w.Lng
	}
	return nil
}

// MarshalJSON writes the location back in the shape it was given.
func (l Location) MarshalJSON() ([]byte, error) {
	switch l.Kind {
	case LocationLatLng:
		return json.Marshal(locationWire{Lat: &l.Lat, Lng: &l.Lng})
	case LocationGeoJSON:
		return json.Marshal(struct {
			Type        string    `json:"type"`
			Coordinates []float64 `json:"coordinates"`
		}{Type: "Point", Coordinates: l.Coordinates})
	default:
		if len(l.raw) > 0 {
			return l.raw, nil
		}
		return []byte("null"), nil
	}
}

// Point resolves the location to a single coordinate pair.
//
// A nil location, or one with a zero latitude or longitude, yields
// ErrNoLocation. Unknown shapes, wrong arity and out-of-range values yield
// ErrMalformedLocation.
func (l *Location) Point() (GeoPoint, error) {
	if l == nil {
		return GeoPoint{}, ErrNoLocation
	}

	var p GeoPoint
	switch l.Kind {
	case LocationLatLng:
		p = GeoPoint{Lat: l.Lat, Lng: l.Lng}
	case LocationGeoJSON:
		if len(l.Coordinates) != 2 {
			return GeoPoint{}, fmt.Errorf("%w: geojson point has %d coordinates", ErrMalformedLocation, len(l.Coordinates))
		}
		p = GeoPoint{Lat: l.Coordinates[1], Lng: l.Coordinates[0]}
	default:
		return GeoPoint{}, fmt.Errorf("%w: unrecognized shape %s", ErrMalformedLocation, string(l.raw))
	}

	if math.IsNaN(p.Lat) || math.IsNaN(p.Lng) || math.Abs(p.Lat) > 90 || math.Abs(p.Lng) > 180 {
		return GeoPoint{}, fmt.Errorf("%w: coordinates out of range (%v, %v)", ErrMalformedLocation, p.Lat, p.Lng)
	}
	if p.Lat == 0 || p.Lng == 0 {
		return GeoPoint{}, ErrNoLocation
	}
	return p, nil
}
