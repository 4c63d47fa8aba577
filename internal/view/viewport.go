package view

import (
	"charm.land/bubbles/v2/viewport"
)

// ViewportState wraps a viewport with a readiness flag, since a viewport
// cannot render before the first size message arrives.
type ViewportState struct {
	Model viewport.Model
	Ready bool
}

// SetSize resizes the viewport, creating it on first use.
func (v *ViewportState) SetSize(width, height int) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	if !v.Ready {
		v.Model = viewport.New(viewport.WithWidth(width), viewport.WithHeight(height))
		v.Ready = true
		return
	}
	v.Model.SetWidth(width)
	v.Model.SetHeight(height)
}
