package view

import (
	"fmt"
	"strings"

	"github.com/dongnecli/dongne/internal/weather"
)

// WeatherLine formats a digested forecast into the one-line strip shown
// above the transcript.
func WeatherLine(r weather.Report) string {
	parts := []string{
		fmt.Sprintf("%s %s %.1f°C", r.Condition.Glyph, r.Condition.Label, r.Temperature),
		fmt.Sprintf("바람 %.1fm/s", r.WindSpeed),
	}
	if r.Rainfall > 0 {
		parts = append(parts, fmt.Sprintf("강수 %.1fmm/h", r.Rainfall))
	}

	advisories := weather.Advisories(r)
	if len(advisories) == 0 {
		parts = append(parts, "경보 없음")
	} else {
		names := make([]string, len(advisories))
		for i, a := range advisories {
			names[i] = "⚠ " + a.Name
		}
		parts = append(parts, strings.Join(names, " "))
	}

	return strings.Join(parts, " · ")
}
