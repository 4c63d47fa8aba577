// Package geo holds the coordinate and map-overlay types shared by the
// session state, the intent router and the map views.
package geo

import "math"

// DefaultCenter is the fallback map center (안양 인근) used when neither
// markers nor a stored user coordinate are available.
var DefaultCenter = Coordinate{Lat: 37.405, Lng: 126.932}

// Coordinate is a WGS84 latitude/longitude pair.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Finite reports whether both components parse to finite numbers. Marker
// filtering uses this alone; range checks are left to Valid.
func (c Coordinate) Finite() bool {
	return isFinite(c.Lat) && isFinite(c.Lng)
}

// Valid reports whether both components are finite and in range.
func (c Coordinate) Valid() bool {
	return isFinite(c.Lat) && isFinite(c.Lng) &&
		c.Lat >= -90 && c.Lat <= 90 &&
		c.Lng >= -180 && c.Lng <= 180
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Kind distinguishes the two map overlays.
type Kind int

const (
	KindLocalCurrency Kind = iota
	KindBus
)

func (k Kind) String() string {
	switch k {
	case KindLocalCurrency:
		return "local currency"
	case KindBus:
		return "bus"
	default:
		return "unknown"
	}
}

// BusInfo is the marker payload for a bus position.
type BusInfo struct {
	VehicleID   string
	BusType     string
	Congestion  string
	PlateNumber string
	IsFull      bool
	DataTime    string
}

// StoreInfo is the marker payload for a local-currency merchant.
type StoreInfo struct {
	Address  string
	Industry string
}

// Marker is a single point on the map. Markers are immutable once built; a
// new answer always produces a whole new marker slice.
type Marker struct {
	Coordinate Coordinate
	Title      string
	Bus        *BusInfo
	Store      *StoreInfo
}

// MapData is what a map-bearing view renders.
type MapData struct {
	Center  Coordinate
	Markers []Marker
	Kind    Kind
}

// centerSampleSize bounds how many leading markers contribute to the
// derived center. Upstream lists are ranked by relevance, so averaging the
// head keeps the viewport near the best results.
const centerSampleSize = 5

// CenterOf returns the arithmetic mean of the first five marker
// coordinates (or all of them if fewer). An empty slice yields
// DefaultCenter.
func CenterOf(markers []Marker) Coordinate {
	if len(markers) == 0 {
		return DefaultCenter
	}

	n := len(markers)
	if n > centerSampleSize {
		n = centerSampleSize
	}

	var lat, lng float64
	for _, m := range markers[:n] {
		lat += m.Coordinate.Lat
		lng += m.Coordinate.Lng
	}
	return Coordinate{Lat: lat / float64(n), Lng: lng / float64(n)}
}

// BoundsOf returns the bounding box of the markers, used to fit the map
// viewport. ok is false when the slice is empty.
func BoundsOf(markers []Marker) (minLat, minLng, maxLat, maxLng float64, ok bool) {
	if len(markers) == 0 {
		return 0, 0, 0, 0, false
	}

	minLat, maxLat = markers[0].Coordinate.Lat, markers[0].Coordinate.Lat
	minLng, maxLng = markers[0].Coordinate.Lng, markers[0].Coordinate.Lng
	for _, m := range markers[1:] {
		minLat = math.Min(minLat, m.Coordinate.Lat)
		maxLat = math.Max(maxLat, m.Coordinate.Lat)
		minLng = math.Min(minLng, m.Coordinate.Lng)
		maxLng = math.Max(maxLng, m.Coordinate.Lng)
	}
	return minLat, minLng, maxLat, maxLng, true
}
