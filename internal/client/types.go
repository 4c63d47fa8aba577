package client

import (
	"github.com/dongnecli/dongne/internal/geo"
)

// AskRequest is the chatbot request body. Coords carries the forecast-grid
// index pair when a confirmed location exists.
type AskRequest struct {
	UserQuestion string      `json:"userQuestion"`
	Coords       *GridCoords `json:"coords,omitempty"`
}

// GridCoords is the forecast-grid index pair (nx/ny), distinct from
// latitude/longitude.
type GridCoords struct {
	NX int `json:"nx"`
	NY int `json:"ny"`
}

// AskResponse is the chatbot answer envelope.
type AskResponse struct {
	Message string   `json:"message"`
	Meta    *AskMeta `json:"meta,omitempty"`
}

// AskMeta classifies the answer and carries the intent-specific records.
type AskMeta struct {
	Intent       string              `json:"intent,omitempty"`
	BusPositions []BusPositionRecord `json:"busPositions,omitempty"`
	TopStores    []StoreRecord       `json:"topStores,omitempty"`
}

// BusPositionRecord is one live bus position as the backend sends it.
// Coordinates arrive as strings and may be malformed.
type BusPositionRecord struct {
	Lat         string `json:"lat"`
	Lng         string `json:"lng"`
	VehicleID   string `json:"vehId"`
	BusType     string `json:"busType"`
	Congestion  string `json:"congestion"`
	PlateNumber string `json:"plateNo"`
	IsFull      bool   `json:"isFull"`
	DataTime    string `json:"dataTm"`
}

// StoreRecord is one local-currency merchant as the backend sends it.
type StoreRecord struct {
	Lat      string `json:"lat"`
	Lng      string `json:"lng"`
	Name     string `json:"name"`
	Address  string `json:"address"`
	Industry string `json:"industry"`
}

// CitiesResponse is the region-hierarchy payload.
type CitiesResponse struct {
	Cities []CityRecord `json:"cities"`
}

type CityRecord struct {
	Name    string             `json:"name"`
	Seconds []CitySecondRecord `json:"city_seconds"`
}

type CitySecondRecord struct {
	Name   string   `json:"name"`
	Thirds []string `json:"city_thirds"`
}

// CoordsRequest asks the backend to geocode a confirmed address triple.
type CoordsRequest struct {
	First  string `json:"first"`
	Second string `json:"second"`
	Third  string `json:"third"`
}

// GeoBundle is the geocode result: forecast-grid indices plus fine-grained
// coordinate components. Persisted verbatim, so the field set must round-trip.
type GeoBundle struct {
	GridX  int     `json:"x"`
	GridY  int     `json:"y"`
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
	LatSec float64 `json:"latSec"`
	LngSec float64 `json:"lngSec"`
}

// Coordinate returns the bundle's position as a map coordinate.
func (g GeoBundle) Coordinate() geo.Coordinate {
	return geo.Coordinate{Lat: g.Lat, Lng: g.Lng}
}
