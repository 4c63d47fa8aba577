package session

import (
	"strconv"

	"github.com/dongnecli/dongne/internal/client"
	"github.com/dongnecli/dongne/internal/geo"
	"github.com/dongnecli/dongne/internal/log"
)

// Intents the backend attaches to an answer. Anything else falls through to
// plain conversation.
const (
	IntentBus           = "bus"
	IntentLocalCurrency = "local_currency"
)

// ApologyMessage replaces the bot answer when the chatbot call fails.
const ApologyMessage = "죄송해요, 지금은 답변을 가져올 수 없어요. 잠시 후 다시 시도해 주세요."

// Patch is the state update an answer demands. Route derives it as a pure
// function of the response; Apply commits it.
type Patch struct {
	BotMessage string

	SetMode bool
	Mode    ViewMode

	SetMapData bool
	MapData    geo.MapData
}

// Route classifies the response intent and derives the resulting patch.
//
// Bus answers with zero valid positions fall back to conversation; the map
// never opens on nothing. Local-currency answers enter hybrid mode even with
// zero valid stores, so the user still sees the merchant map around their
// area. The asymmetry is deliberate.
func Route(resp client.AskResponse) Patch {
	p := Patch{BotMessage: resp.Message, SetMode: true, Mode: ViewConversation}
	if resp.Meta == nil {
		return p
	}

	switch resp.Meta.Intent {
	case IntentBus:
		markers := BusMarkers(resp.Meta.BusPositions)
		if len(markers) == 0 {
			return p
		}
		p.Mode = ViewHybridBus
		p.SetMapData = true
		p.MapData = geo.MapData{
			Center:  geo.CenterOf(markers),
			Markers: markers,
			Kind:    geo.KindBus,
		}

	case IntentLocalCurrency:
		markers := StoreMarkers(resp.Meta.TopStores)
		p.Mode = ViewHybridLocalCurrency
		p.SetMapData = true
		p.MapData = geo.MapData{
			Center:  geo.CenterOf(markers),
			Markers: markers,
			Kind:    geo.KindLocalCurrency,
		}
	}
	return p
}

// Apply commits a routed patch: the bot message is appended and, when the
// patch says so, view mode and map data are replaced.
func (s *State) Apply(p Patch) {
	s.PushMessage(Message{Role: RoleBot, Text: p.BotMessage})
	if p.SetMapData {
		s.SetMapData(p.MapData)
	}
	if p.SetMode {
		s.SetMode(p.Mode)
	}
}

// ApplyFailure substitutes the fixed apology and leaves the view unchanged.
func (s *State) ApplyFailure() {
	s.PushMessage(Message{Role: RoleBot, Text: ApologyMessage})
}

// Finish is the terminal cleanup step for a question: it always runs,
// success or failure, clearing the pending token and the intent hint.
func (s *State) Finish() {
	s.ClearPending()
	s.ResetIntentHint()
}

// BusMarkers converts bus-position records to markers, dropping any record
// whose coordinates do not parse to finite values.
func BusMarkers(records []client.BusPositionRecord) []geo.Marker {
	var markers []geo.Marker
	for _, r := range records {
		c, ok := parseCoordinate(r.Lat, r.Lng)
		if !ok {
			log.Debug("dropping bus position with bad coordinates",
				"vehId", r.VehicleID, "lat", r.Lat, "lng", r.Lng)
			continue
		}
		title := r.PlateNumber
		if title == "" {
			title = r.VehicleID
		}
		markers = append(markers, geo.Marker{
			Coordinate: c,
			Title:      title,
			Bus: &geo.BusInfo{
				VehicleID:   r.VehicleID,
				BusType:     r.BusType,
				Congestion:  r.Congestion,
				PlateNumber: r.PlateNumber,
				IsFull:      r.IsFull,
				DataTime:    r.DataTime,
			},
		})
	}
	return markers
}

// StoreMarkers converts merchant records to markers with the same
// bad-coordinate filtering.
func StoreMarkers(records []client.StoreRecord) []geo.Marker {
	var markers []geo.Marker
	for _, r := range records {
		c, ok := parseCoordinate(r.Lat, r.Lng)
		if !ok {
			log.Debug("dropping store with bad coordinates",
				"name", r.Name, "lat", r.Lat, "lng", r.Lng)
			continue
		}
		markers = append(markers, geo.Marker{
			Coordinate: c,
			Title:      r.Name,
			Store: &geo.StoreInfo{
				Address:  r.Address,
				Industry: r.Industry,
			},
		})
	}
	return markers
}

func parseCoordinate(latRaw, lngRaw string) (geo.Coordinate, bool) {
	lat, err := strconv.ParseFloat(latRaw, 64)
	if err != nil {
		return geo.Coordinate{}, false
	}
	lng, err := strconv.ParseFloat(lngRaw, 64)
	if err != nil {
		return geo.Coordinate{}, false
	}
	c := geo.Coordinate{Lat: lat, Lng: lng}
	// ParseFloat accepts "NaN" and "Inf" without error.
	if !c.Finite() {
		return geo.Coordinate{}, false
	}
	return c, true
}
