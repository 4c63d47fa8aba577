package weather

import "fmt"

// Advisory thresholds, following the national advisory criteria the status
// strip mirrors.
const (
	heatWatchTemp    = 33.0
	heatWarningTemp  = 35.0
	coldWatchTemp    = -12.0
	coldWarningTemp  = -15.0
	rainWatchRate    = 20.0
	rainWarningRate  = 30.0
	windWatchSpeed   = 14.0
	windWarningSpeed = 21.0
)

// Advisory is one active weather alert.
type Advisory struct {
	Name   string
	Detail string
}

// Advisories derives the active alerts from a report. Warning supersedes
// watch within each category; categories are independent.
func Advisories(r Report) []Advisory {
	var out []Advisory

	switch {
	case r.Temperature >= heatWarningTemp:
		out = append(out, Advisory{Name: "폭염경보", Detail: fmt.Sprintf("%.1f°C", r.Temperature)})
	case r.Temperature >= heatWatchTemp:
		out = append(out, Advisory{Name: "폭염주의보", Detail: fmt.Sprintf("%.1f°C", r.Temperature)})
	}

	switch {
	case r.Temperature <= coldWarningTemp:
		out = append(out, Advisory{Name: "한파경보", Detail: fmt.Sprintf("%.1f°C", r.Temperature)})
	case r.Temperature <= coldWatchTemp:
		out = append(out, Advisory{Name: "한파주의보", Detail: fmt.Sprintf("%.1f°C", r.Temperature)})
	}

	switch {
	case r.Rainfall >= rainWarningRate:
		out = append(out, Advisory{Name: "호우경보", Detail: fmt.Sprintf("%.1fmm/h", r.Rainfall)})
	case r.Rainfall >= rainWatchRate:
		out = append(out, Advisory{Name: "호우주의보", Detail: fmt.Sprintf("%.1fmm/h", r.Rainfall)})
	}

	switch {
	case r.WindSpeed >= windWarningSpeed:
		out = append(out, Advisory{Name: "강풍경보", Detail: fmt.Sprintf("%.1fm/s", r.WindSpeed)})
	case r.WindSpeed >= windWatchSpeed:
		out = append(out, Advisory{Name: "강풍주의보", Detail: fmt.Sprintf("%.1fm/s", r.WindSpeed)})
	}

	if r.Lightning > 0 {
		out = append(out, Advisory{Name: "낙뢰주의보"})
	}

	return out
}
