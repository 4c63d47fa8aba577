// Package session is the single source of truth for view mode, map data and
// the chat transcript. State is owned by the top-level program model and
// mutated only on the event loop, so it carries no locks; async work reports
// back through messages that the owner applies via the setters here.
package session

import (
	"github.com/dongnecli/dongne/internal/geo"
)

// ViewMode selects the active layout.
type ViewMode int

const (
	// ViewConversation shows the full transcript.
	ViewConversation ViewMode = iota
	// ViewMap shows the map alone.
	ViewMap
	// ViewHybridLocalCurrency shows the summary strip over a merchant map.
	ViewHybridLocalCurrency
	// ViewHybridBus shows the summary strip over a bus-position map.
	ViewHybridBus
)

func (v ViewMode) String() string {
	switch v {
	case ViewConversation:
		return "conversation"
	case ViewMap:
		return "map"
	case ViewHybridLocalCurrency:
		return "hybrid/local-currency"
	case ViewHybridBus:
		return "hybrid/bus"
	default:
		return "unknown"
	}
}

// IsHybrid reports whether the mode combines a summary strip with a map.
func (v ViewMode) IsHybrid() bool {
	return v == ViewHybridLocalCurrency || v == ViewHybridBus
}

// ShowsMap reports whether the mode renders a map panel at all.
func (v ViewMode) ShowsMap() bool {
	return v == ViewMap || v.IsHybrid()
}

// HybridFor maps an overlay kind to its hybrid mode.
func HybridFor(k geo.Kind) ViewMode {
	if k == geo.KindBus {
		return ViewHybridBus
	}
	return ViewHybridLocalCurrency
}

// Role tags a transcript entry.
type Role int

const (
	RoleUser Role = iota
	RoleBot
)

// Message is one transcript entry. The transcript is append-only.
type Message struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// Question is the in-flight user input. IDs are monotonic per session so a
// stale or duplicated delivery can be told apart from a fresh one.
type Question struct {
	ID   int
	Text string
}

// State holds the session. Zero value is not usable; call New.
type State struct {
	mode     ViewMode
	mapData  geo.MapData
	messages []Message

	pending *Question
	nextID  int
	handled map[int]bool

	intentHint string

	userCoord    geo.Coordinate
	hasUserCoord bool
}

// New returns a conversation-mode session with the default map center.
func New() *State {
	return &State{
		mode:    ViewConversation,
		mapData: geo.MapData{Center: geo.DefaultCenter},
		handled: make(map[int]bool),
	}
}

func (s *State) Mode() ViewMode       { return s.mode }
func (s *State) SetMode(m ViewMode)   { s.mode = m }
func (s *State) MapData() geo.MapData { return s.mapData }

// SetMapData replaces the map data wholesale. Malformed upstream records are
// filtered before they get here, not at this layer.
func (s *State) SetMapData(d geo.MapData) { s.mapData = d }

// PushMessage appends to the transcript. No deduplication.
func (s *State) PushMessage(m Message) { s.messages = append(s.messages, m) }

// Messages returns the transcript. Callers must not mutate it.
func (s *State) Messages() []Message { return s.messages }

// SetMessages replaces the transcript wholesale, used when restoring a
// persisted chat session.
func (s *State) SetMessages(msgs []Message) { s.messages = msgs }

// NewQuestion allocates a fresh pending question with the next monotonic id.
// It replaces any previous pending question.
func (s *State) NewQuestion(text string) Question {
	s.nextID++
	q := Question{ID: s.nextID, Text: text}
	s.pending = &q
	return q
}

// Pending returns the in-flight question, if any.
func (s *State) Pending() (Question, bool) {
	if s.pending == nil {
		return Question{}, false
	}
	return *s.pending, true
}

// ClearPending drops the pending question so the same text can later be
// resubmitted as a fresh token.
func (s *State) ClearPending() { s.pending = nil }

// MarkHandled records the id as dispatched and reports whether it was new.
// A second call with the same id returns false, which suppresses duplicate
// dispatch of the same question token.
func (s *State) MarkHandled(id int) bool {
	if s.handled[id] {
		return false
	}
	s.handled[id] = true
	return true
}

// IsPending reports whether id is still the in-flight question. A resolved
// call checks this before applying its result; a stale response is dropped.
func (s *State) IsPending(id int) bool {
	return s.pending != nil && s.pending.ID == id
}

// IntentHint is a transient tag a guard can set before dispatch to bias the
// next answer's handling. It resets to empty at terminal cleanup.
func (s *State) IntentHint() string     { return s.intentHint }
func (s *State) SetIntentHint(h string) { s.intentHint = h }
func (s *State) ResetIntentHint()       { s.intentHint = "" }

// SetUserCoordinate records the confirmed user location used as the map
// fallback center.
func (s *State) SetUserCoordinate(c geo.Coordinate) {
	s.userCoord = c
	s.hasUserCoord = true
}

func (s *State) UserCoordinate() (geo.Coordinate, bool) {
	return s.userCoord, s.hasUserCoord
}

// FallbackCenter is the last known user coordinate, or the fixed default.
func (s *State) FallbackCenter() geo.Coordinate {
	if s.hasUserCoord {
		return s.userCoord
	}
	return geo.DefaultCenter
}

// ResetMap clears the markers and recenters on the fallback coordinate.
// Called when a map-bearing mode finishes closing, never on a mere mode
// switch.
func (s *State) ResetMap() {
	s.mapData = geo.MapData{Center: s.FallbackCenter(), Kind: s.mapData.Kind}
}

// LatestExchange scans the transcript backward for the most recent user and
// bot messages independently. waiting is true when the very last entry is a
// user message with no bot reply yet.
func (s *State) LatestExchange() (user, bot string, waiting bool) {
	var haveUser, haveBot bool
	for i := len(s.messages) - 1; i >= 0 && (!haveUser || !haveBot); i-- {
		m := s.messages[i]
		switch {
		case m.Role == RoleUser && !haveUser:
			user, haveUser = m.Text, true
		case m.Role == RoleBot && !haveBot:
			bot, haveBot = m.Text, true
		}
	}
	waiting = len(s.messages) > 0 && s.messages[len(s.messages)-1].Role == RoleUser
	return user, bot, waiting
}
