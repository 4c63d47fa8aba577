// Package transition drives the rise/fall animation of the map panel. The
// machine is environment-agnostic: the owner feeds it frame and
// animation-end events and acts on the effects it returns, so the panel is
// only dismissed after the fall finishes, never before.
package transition

// Phase is the panel's animation state.
type Phase int

const (
	// PhaseAtRestLow is the initial collapsed position.
	PhaseAtRestLow Phase = iota
	// PhaseRising is the entry animation.
	PhaseRising
	// PhaseSettled is the open, interactive position.
	PhaseSettled
	// PhaseFalling is the exit animation.
	PhaseFalling
)

func (p Phase) String() string {
	switch p {
	case PhaseAtRestLow:
		return "at-rest-low"
	case PhaseRising:
		return "rising"
	case PhaseSettled:
		return "settled"
	case PhaseFalling:
		return "falling"
	default:
		return "unknown"
	}
}

// Effect tells the owner what must happen after an event was consumed.
type Effect int

const (
	// EffectNone requires nothing.
	EffectNone Effect = iota
	// EffectRelayout nudges the map to recompute its drawable area; panels
	// laid out while collapsed render wrong without it.
	EffectRelayout
	// EffectDismiss unmounts the panel: switch away from the map-bearing
	// mode and reset the map.
	EffectDismiss
)

// Controller owns a single panel's phase. Not safe for concurrent use; it
// lives on the event loop.
type Controller struct {
	phase Phase
}

func New() *Controller { return &Controller{} }

func (c *Controller) Phase() Phase { return c.phase }

// Open reports whether the panel occupies the screen in any form.
func (c *Controller) Open() bool { return c.phase != PhaseAtRestLow }

// Enter resets the panel to the collapsed position synchronously. The owner
// must schedule Rise on the next frame, not the same tick, so the at-rest
// visual state paints first.
func (c *Controller) Enter() {
	c.phase = PhaseAtRestLow
}

// Rise starts the entry animation. It only fires from the collapsed
// position; a stale frame callback arriving in any other phase is dropped.
func (c *Controller) Rise() {
	if c.phase == PhaseAtRestLow {
		c.phase = PhaseRising
	}
}

// RequestClose starts the exit animation and reports whether it did.
// Requests while already falling or collapsed are no-ops.
func (c *Controller) RequestClose() bool {
	switch c.phase {
	case PhaseRising, PhaseSettled:
		c.phase = PhaseFalling
		return true
	default:
		return false
	}
}

// AnimationEnd consumes the end of the running animation. Ending a rise
// settles the panel and demands a relayout; ending a fall collapses it and
// demands dismissal. End events in other phases carry no effect.
func (c *Controller) AnimationEnd() Effect {
	switch c.phase {
	case PhaseRising:
		c.phase = PhaseSettled
		return EffectRelayout
	case PhaseFalling:
		c.phase = PhaseAtRestLow
		return EffectDismiss
	default:
		return EffectNone
	}
}
