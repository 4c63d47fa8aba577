package region

// Selection is the persisted address triple. City may be a combined
// "si gu" string exactly as the hierarchy names it.
type Selection struct {
	Province string `json:"first"`
	City     string `json:"second"`
	District string `json:"third"`
}

// Picker drives the cascading selectors of the location form. Changing an
// upper level recomputes every lower level's option list and defaults each
// to its first non-empty entry. Picker is not safe for concurrent use; it
// lives inside a single view model.
type Picker struct {
	tree *Tree

	province string
	si       string
	gu       string
	district string

	cityOpts     []string
	guOpts       []string
	districtOpts []string
}

// NewPicker builds a picker defaulted to the first province of the tree.
func NewPicker(tree *Tree) *Picker {
	p := &Picker{tree: tree}
	if names := tree.ProvinceNames(); len(names) > 0 {
		p.SetProvince(names[0])
	}
	return p
}

func (p *Picker) Province() string { return p.province }
func (p *Picker) City() string     { return p.si }
func (p *Picker) Gu() string       { return p.gu }
func (p *Picker) District() string { return p.district }

func (p *Picker) ProvinceOptions() []string { return p.tree.ProvinceNames() }
func (p *Picker) CityOptions() []string     { return p.cityOpts }
func (p *Picker) GuOptions() []string       { return p.guOpts }
func (p *Picker) DistrictOptions() []string { return p.districtOpts }

func (p *Picker) category() Category {
	prov, ok := p.tree.Lookup(p.province)
	if !ok {
		return CategoryNoChildren
	}
	return prov.Category()
}

// Category returns the layout category of the current province.
func (p *Picker) Category() Category { return p.category() }

// NeedsCity reports whether the city/county selector is shown.
func (p *Picker) NeedsCity() bool {
	switch p.category() {
	case CategoryOrdinary, CategorySingleTier:
		return true
	default:
		return false
	}
}

// NeedsGu reports whether the gu selector is shown.
func (p *Picker) NeedsGu() bool {
	switch p.category() {
	case CategoryDirectGoverned:
		return true
	case CategoryOrdinary:
		return hasNonEmpty(p.guOpts)
	default:
		return false
	}
}

// NeedsDistrict reports whether the district selector is shown.
func (p *Picker) NeedsDistrict() bool {
	return p.category() != CategoryNoChildren
}

// CanSubmit blocks submission while a required lower level is still empty.
func (p *Picker) CanSubmit() bool {
	if p.province == "" {
		return false
	}
	if p.NeedsCity() && p.si == "" {
		return false
	}
	if p.NeedsDistrict() && p.district == "" {
		return false
	}
	return true
}

// SetProvince rebuilds every lower level for the chosen province.
func (p *Picker) SetProvince(name string) {
	p.province = name
	p.si, p.gu, p.district = "", "", ""
	p.cityOpts, p.guOpts, p.districtOpts = nil, nil, nil

	prov, ok := p.tree.Lookup(name)
	if !ok {
		return
	}

	switch prov.Category() {
	case CategoryNoChildren:
		// Island entries keep only the province level.

	case CategoryDirectGoverned:
		p.guOpts = directGuOptions(prov)
		p.gu = firstNonEmpty(p.guOpts)
		p.rebuildDistricts(prov)

	case CategorySingleTier:
		p.cityOpts = secondNames(prov)
		p.si = firstNonEmpty(p.cityOpts)
		p.districtOpts = pooledThirds(prov)
		p.district = firstNonEmpty(p.districtOpts)

	default:
		p.cityOpts = ordinarySiOptions(prov)
		p.si = firstNonEmpty(p.cityOpts)
		p.rebuildGus(prov)
	}
}

// SetCity recomputes the lower levels for the chosen city/county. It is a
// no-op for categories without a city selector.
func (p *Picker) SetCity(si string) {
	prov, ok := p.tree.Lookup(p.province)
	if !ok {
		return
	}

	switch prov.Category() {
	case CategoryOrdinary:
		p.si = si
		p.rebuildGus(prov)
	case CategorySingleTier:
		// Thirds stay pooled province-wide; only the stored city moves.
		p.si = si
		p.district = firstNonEmpty(p.districtOpts)
	}
}

// SetGu recomputes the district level for the chosen gu.
func (p *Picker) SetGu(gu string) {
	prov, ok := p.tree.Lookup(p.province)
	if !ok {
		return
	}

	switch prov.Category() {
	case CategoryOrdinary, CategoryDirectGoverned:
		p.gu = gu
		p.rebuildDistricts(prov)
	}
}

// SetDistrict stores the chosen district; nothing cascades below it.
func (p *Picker) SetDistrict(d string) {
	p.district = d
}

func (p *Picker) rebuildGus(prov Province) {
	p.guOpts = nil
	seen := map[string]bool{}
	for _, s := range prov.Seconds {
		split := SplitSecondName(prov.Name, s.Name)
		if split.Si != p.si || seen[split.Gu] {
			continue
		}
		seen[split.Gu] = true
		p.guOpts = append(p.guOpts, split.Gu)
	}
	p.gu = firstNonEmpty(p.guOpts)
	p.rebuildDistricts(prov)
}

func (p *Picker) rebuildDistricts(prov Province) {
	p.districtOpts = nil
	if s, ok := p.matchedSecond(prov); ok {
		p.districtOpts = append([]string(nil), s.Thirds...)
	}
	p.district = firstNonEmpty(p.districtOpts)
}

// matchedSecond finds the second-level node addressed by the current si/gu
// fields.
func (p *Picker) matchedSecond(prov Province) (Second, bool) {
	for _, s := range prov.Seconds {
		split := SplitSecondName(prov.Name, s.Name)
		switch prov.Category() {
		case CategoryDirectGoverned:
			if split.Gu == p.gu || (split.Gu == "" && s.Name == p.gu) {
				return s, true
			}
		case CategorySingleTier:
			if s.Name == p.si {
				return s, true
			}
		default:
			if split.Si == p.si && split.Gu == p.gu {
				return s, true
			}
		}
	}
	return Second{}, false
}

// Selection returns the persisted triple for the current state. City is the
// hierarchy's own second-level name, combined form and all.
func (p *Picker) Selection() Selection {
	sel := Selection{Province: p.province, District: p.district}

	prov, ok := p.tree.Lookup(p.province)
	if !ok {
		return sel
	}
	switch prov.Category() {
	case CategoryNoChildren:
		return sel
	case CategorySingleTier:
		sel.City = p.si
		return sel
	}
	if s, ok := p.matchedSecond(prov); ok {
		sel.City = s.Name
	}
	return sel
}

func secondNames(prov Province) []string {
	names := make([]string, len(prov.Seconds))
	for i, s := range prov.Seconds {
		names[i] = s.Name
	}
	return names
}

func ordinarySiOptions(prov Province) []string {
	var opts []string
	seen := map[string]bool{}
	for _, s := range prov.Seconds {
		split := SplitSecondName(prov.Name, s.Name)
		if split.Si == "" || seen[split.Si] {
			continue
		}
		seen[split.Si] = true
		opts = append(opts, split.Si)
	}
	return opts
}

func directGuOptions(prov Province) []string {
	var opts []string
	seen := map[string]bool{}
	for _, s := range prov.Seconds {
		split := SplitSecondName(prov.Name, s.Name)
		gu := split.Gu
		if gu == "" {
			// Some direct-governed second levels are plain names.
			gu = s.Name
		}
		if seen[gu] {
			continue
		}
		seen[gu] = true
		opts = append(opts, gu)
	}
	return opts
}

func pooledThirds(prov Province) []string {
	var all []string
	seen := map[string]bool{}
	for _, s := range prov.Seconds {
		for _, t := range s.Thirds {
			if seen[t] {
				continue
			}
			seen[t] = true
			all = append(all, t)
		}
	}
	return all
}

func firstNonEmpty(opts []string) string {
	for _, o := range opts {
		if o != "" {
			return o
		}
	}
	return ""
}

func hasNonEmpty(opts []string) bool {
	return firstNonEmpty(opts) != ""
}
