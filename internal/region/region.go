// Package region resolves 3-level Korean administrative addresses over an
// irregular hierarchy: ordinary provinces carry city/county and district
// levels, direct-governed cities attach districts straight to the province,
// one province has no sub-district (gu) level at all, and one island entry
// has no children whatsoever.
package region

import (
	"regexp"
	"strings"
)

// Tree is the fetched reference hierarchy. It is immutable after load.
type Tree struct {
	Provinces []Province
}

// Province is a first-level entry (도, 특별시, 광역시, ...).
type Province struct {
	Name    string
	Seconds []Second
}

// Second is a second-level entry. For ordinary provinces the name may be a
// combined "si gu" string ("수원시 장안구"); for direct-governed cities it
// is a district ("강남구").
type Second struct {
	Name   string
	Thirds []string
}

// Category classifies a province for selector layout and cascade rules.
type Category int

const (
	// CategoryOrdinary has city/county and district selectors.
	CategoryOrdinary Category = iota
	// CategoryDirectGoverned has no city/county level; second-level
	// entries are districts.
	CategoryDirectGoverned
	// CategorySingleTier has no gu level; third-level entries are pooled
	// into one flat district list.
	CategorySingleTier
	// CategoryNoChildren has no subdivisions at all.
	CategoryNoChildren
)

func (c Category) String() string {
	switch c {
	case CategoryOrdinary:
		return "ordinary"
	case CategoryDirectGoverned:
		return "direct-governed"
	case CategorySingleTier:
		return "single-tier"
	case CategoryNoChildren:
		return "no-children"
	default:
		return "unknown"
	}
}

// SingleTierProvince is the one province without a gu level.
const SingleTierProvince = "제주특별자치도"

var directGovernedPattern = regexp.MustCompile(`(광역시|특별시|특별자치시)$`)

// Category returns the selector category of the province.
func (p Province) Category() Category {
	switch {
	case len(p.Seconds) == 0:
		return CategoryNoChildren
	case p.Name == SingleTierProvince:
		return CategorySingleTier
	case directGovernedPattern.MatchString(p.Name):
		return CategoryDirectGoverned
	default:
		return CategoryOrdinary
	}
}

// Lookup returns the province node by name.
func (t *Tree) Lookup(name string) (Province, bool) {
	for _, p := range t.Provinces {
		if p.Name == name {
			return p, true
		}
	}
	return Province{}, false
}

// ProvinceNames returns the first-level option list.
func (t *Tree) ProvinceNames() []string {
	names := make([]string, len(t.Provinces))
	for i, p := range t.Provinces {
		names[i] = p.Name
	}
	return names
}

// SplitName is a second-level name decomposed into independent selector
// fields.
type SplitName struct {
	Si string
	Gu string
}

var trailingSiGun = regexp.MustCompile(`^(.+?[시군])(.*)$`)

// SplitSecondName splits a combined second-level name into si and gu parts
// for independent selector fields. provinceName decides the direct-governed
// special case where the whole name is itself a gu.
func SplitSecondName(provinceName, combined string) SplitName {
	name := strings.TrimSpace(combined)
	if name == "" {
		return SplitName{}
	}

	// Already-separated form: "수원시 장안구"
	if i := strings.IndexFunc(name, func(r rune) bool { return r == ' ' || r == '\t' }); i >= 0 {
		return SplitName{
			Si: strings.TrimSpace(name[:i]),
			Gu: strings.TrimSpace(name[i+1:]),
		}
	}

	// Concatenated form: "수원시장안구"
	if m := trailingSiGun.FindStringSubmatch(name); m != nil {
		if m[2] != "" {
			return SplitName{Si: m[1], Gu: m[2]}
		}
		return SplitName{Si: m[1]}
	}

	// A bare gu under a direct-governed city: "강남구" under "서울특별시"
	if directGovernedPattern.MatchString(provinceName) && strings.HasSuffix(name, "구") {
		return SplitName{Si: provinceName, Gu: name}
	}

	return SplitName{Si: name}
}

var subUnitSuffix = regexp.MustCompile(`^[가-힣]{0,6}[구동읍면리]`)

// CityBase extracts the 시/군 base of a stored city string, tolerating both
// separated and concatenated forms ("수원시 장안구" and "수원시장안구" both
// yield "수원시"). A string without a 시/군 token comes back unchanged.
func CityBase(cityRaw string) string {
	s := stripSpaces(cityRaw)
	if s == "" {
		return ""
	}

	runes := []rune(s)
	if r := runes[len(runes)-1]; r == '시' || r == '군' {
		return s
	}

	// First 시/군 boundary whose remainder is a sub-unit (구/동/읍/면/리,
	// possibly prefixed) or nothing.
	for i, r := range runes {
		if r != '시' && r != '군' {
			continue
		}
		rest := string(runes[i+1:])
		if rest == "" || subUnitSuffix.MatchString(rest) {
			return string(runes[:i+1])
		}
	}

	// Fallback: cut at the last 시/군, or give the string back as-is.
	for i := len(runes) - 1; i >= 0; i-- {
		if runes[i] == '시' || runes[i] == '군' {
			return string(runes[:i+1])
		}
	}
	return s
}

var gyeonggiPattern = regexp.MustCompile(`^(경기|경기도)$`)

// IsGyeonggi reports whether the stored province denotes 경기도.
func IsGyeonggi(province string) bool {
	return gyeonggiPattern.MatchString(stripSpaces(province))
}

func stripSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '\t' || r == '\n' {
			return -1
		}
		return r
	}, s)
}
