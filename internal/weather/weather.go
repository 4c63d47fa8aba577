// Package weather interprets ultra-short-forecast items: base-time
// derivation in KST, closest-item selection, condition labeling and the
// advisory thresholds shown in the status strip.
package weather

import (
	"sort"
	"strconv"
	"time"
)

// Forecast categories of interest.
const (
	CategoryTemperature   = "T1H"
	CategorySky           = "SKY"
	CategoryPrecipitation = "PTY"
	CategoryRainfall      = "RN1"
	CategoryWindSpeed     = "WSD"
	CategoryLightning     = "LGT"
)

// Item is one forecast record as the backend sends it. Values are strings;
// interpretation depends on the category.
type Item struct {
	BaseDate  string `json:"baseDate"`
	BaseTime  string `json:"baseTime"`
	Category  string `json:"category"`
	FcstDate  string `json:"fcstDate"`
	FcstTime  string `json:"fcstTime"`
	FcstValue string `json:"fcstValue"`
	NX        int    `json:"nx"`
	NY        int    `json:"ny"`
}

// Response is the nested envelope of the ultra-short-forecast endpoint.
type Response struct {
	Response struct {
		Header struct {
			ResultCode string `json:"resultCode"`
			ResultMsg  string `json:"resultMsg"`
		} `json:"header"`
		Body struct {
			Items struct {
				Item []Item `json:"item"`
			} `json:"items"`
			TotalCount int `json:"totalCount"`
		} `json:"body"`
	} `json:"response"`
}

// Items unwraps the envelope.
func (r Response) Items() []Item {
	return r.Response.Body.Items.Item
}

var kst = loadKST()

func loadKST() *time.Location {
	if loc, err := time.LoadLocation("Asia/Seoul"); err == nil {
		return loc
	}
	return time.FixedZone("KST", 9*60*60)
}

// BaseDateTime derives the forecast base for a wall-clock instant: the
// latest HH30 at or before now in KST. Before 00:30 the base rolls back to
// the previous day's 2330.
func BaseDateTime(now time.Time) (baseDate, baseTime string) {
	t := now.In(kst)

	hour := t.Hour()
	if t.Minute() < 30 {
		hour--
		if hour < 0 {
			hour = 23
			t = t.AddDate(0, 0, -1)
		}
	}
	return t.Format("20060102"), twoDigits(hour) + "30"
}

func twoDigits(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

// ClosestItem picks the item whose forecast time is nearest at or before
// now, or the earliest item when every forecast is still in the future.
// ok is false for an empty slice.
func ClosestItem(items []Item, now time.Time) (Item, bool) {
	if len(items) == 0 {
		return Item{}, false
	}

	t := now.In(kst)
	cutoff := t.Hour()*100 + t.Minute()

	sorted := append([]Item(nil), items...)
	sort.Slice(sorted, func(i, j int) bool {
		return fcstMinutes(sorted[i]) < fcstMinutes(sorted[j])
	})

	best := sorted[0]
	for _, it := range sorted {
		if fcstMinutes(it) > cutoff {
			break
		}
		best = it
	}
	return best, true
}

func fcstMinutes(it Item) int {
	n, err := strconv.Atoi(it.FcstTime)
	if err != nil {
		return 0
	}
	return n
}

// Condition is a human-readable weather summary.
type Condition struct {
	Glyph string
	Label string
}

// Precipitation type codes (PTY).
const (
	ptyNone        = 0
	ptyRain        = 1
	ptyRainSnow    = 2
	ptySnow        = 3
	ptyDrizzle     = 5
	ptyDrizzleSnow = 6
	ptySnowFlurry  = 7
)

// ConditionOf labels the sky. Precipitation type wins over sky condition;
// only a dry forecast falls through to the SKY code.
func ConditionOf(skyItem, ptyItem *Item) Condition {
	clearSky := Condition{Glyph: "☀", Label: "맑음"}

	pty := 0
	if ptyItem != nil {
		pty = atoiDefault(ptyItem.FcstValue, 0)
	}
	if pty > 0 {
		switch pty {
		case ptyRain:
			return Condition{Glyph: "🌧", Label: "비"}
		case ptyRainSnow:
			return Condition{Glyph: "🌧", Label: "비/눈"}
		case ptySnow:
			return Condition{Glyph: "❄", Label: "눈"}
		case ptyDrizzle:
			return Condition{Glyph: "🌧", Label: "빗방울"}
		case ptyDrizzleSnow:
			return Condition{Glyph: "🌧", Label: "빗방울눈날림"}
		case ptySnowFlurry:
			return Condition{Glyph: "❄", Label: "눈날림"}
		default:
			return clearSky
		}
	}

	sky := 1
	if skyItem != nil {
		sky = atoiDefault(skyItem.FcstValue, 1)
	}
	switch sky {
	case 3:
		return Condition{Glyph: "☁", Label: "구름많음"}
	case 4:
		return Condition{Glyph: "☁", Label: "흐림"}
	default:
		return clearSky
	}
}

func atoiDefault(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// Report is the digested forecast for one instant.
type Report struct {
	Temperature float64
	Rainfall    float64
	WindSpeed   float64
	Lightning   float64
	Condition   Condition
}

// BuildReport digests raw items into a Report by picking, per category, the
// item closest to now.
func BuildReport(items []Item, now time.Time) Report {
	byCategory := func(cat string) []Item {
		var out []Item
		for _, it := range items {
			if it.Category == cat {
				out = append(out, it)
			}
		}
		return out
	}

	value := func(cat string) float64 {
		it, ok := ClosestItem(byCategory(cat), now)
		if !ok {
			return 0
		}
		f, err := strconv.ParseFloat(it.FcstValue, 64)
		if err != nil {
			return 0
		}
		return f
	}

	var skyItem, ptyItem *Item
	if it, ok := ClosestItem(byCategory(CategorySky), now); ok {
		skyItem = &it
	}
	if it, ok := ClosestItem(byCategory(CategoryPrecipitation), now); ok {
		ptyItem = &it
	}

	return Report{
		Temperature: value(CategoryTemperature),
		Rainfall:    value(CategoryRainfall),
		WindSpeed:   value(CategoryWindSpeed),
		Lightning:   value(CategoryLightning),
		Condition:   ConditionOf(skyItem, ptyItem),
	}
}
