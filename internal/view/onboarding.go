package view

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"golang.org/x/sync/errgroup"

	"github.com/dongnecli/dongne/internal/client"
	"github.com/dongnecli/dongne/internal/config"
	"github.com/dongnecli/dongne/internal/log"
	"github.com/dongnecli/dongne/internal/region"
	"github.com/dongnecli/dongne/internal/storage"
	"github.com/dongnecli/dongne/internal/ui"
)

// onboardingBackend is the slice of the API client the onboarding flow
// needs, kept narrow for tests.
type onboardingBackend interface {
	Cities(ctx context.Context) (*region.Tree, error)
	Geocode(ctx context.Context, req client.CoordsRequest) (client.GeoBundle, error)
}

// LocationSavedMsg announces a confirmed, persisted address.
type LocationSavedMsg struct {
	Selection region.Selection
	Bundle    client.GeoBundle
}

type citiesLoadedMsg struct {
	tree *region.Tree
	err  error
}

type locationSaveDoneMsg struct {
	selection region.Selection
	bundle    client.GeoBundle
	err       error
}

type onboardingStyles struct {
	title    lipgloss.Style
	label    lipgloss.Style
	value    lipgloss.Style
	focused  lipgloss.Style
	submit   lipgloss.Style
	disabled lipgloss.Style
	err      lipgloss.Style
	hint     lipgloss.Style
}

func newOnboardingStyles() onboardingStyles {
	return onboardingStyles{
		title:    ui.TitleStyle(),
		label:    ui.DimStyle(),
		value:    ui.TextBrightStyle(),
		focused:  ui.SelectedStyle(),
		submit:   ui.HighlightStyle(),
		disabled: ui.MutedStyle(),
		err:      ui.DangerStyle(),
		hint:     ui.MutedStyle(),
	}
}

// Field indices of the onboarding form. Which ones are visible depends on
// the province category.
const (
	fieldProvince = iota
	fieldCity
	fieldGu
	fieldDistrict
	fieldSubmit
)

// OnboardingView is the location picker modal. It loads the hierarchy,
// keeps the cascading fields consistent through the picker, and on
// confirmation geocodes and persists the selection.
type OnboardingView struct {
	backend onboardingBackend
	store   *storage.Store

	picker  *region.Picker
	loading bool
	saving  bool
	errMsg  string

	focus  int
	width  int
	height int
	styles onboardingStyles
}

func NewOnboardingView(backend onboardingBackend, store *storage.Store) *OnboardingView {
	return &OnboardingView{
		backend: backend,
		store:   store,
		loading: true,
		styles:  newOnboardingStyles(),
	}
}

func (o *OnboardingView) Init() tea.Cmd {
	return o.loadCities
}

func (o *OnboardingView) loadCities() tea.Msg {
	ctx, cancel := context.WithTimeout(context.Background(), config.File().HierarchyTimeout())
	defer cancel()

	tree, err := o.backend.Cities(ctx)
	return citiesLoadedMsg{tree: tree, err: err}
}

func (o *OnboardingView) saveSelection() tea.Cmd {
	sel := o.picker.Selection()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), config.File().RequestTimeout())
		defer cancel()

		bundle, err := o.backend.Geocode(ctx, client.CoordsRequest{
			First:  sel.Province,
			Second: sel.City,
			Third:  sel.District,
		})
		if err != nil {
			return locationSaveDoneMsg{err: err}
		}

		var g errgroup.Group
		g.Go(func() error { return o.store.Save(storage.KeyUserLocation, sel) })
		g.Go(func() error { return o.store.Save(storage.KeyUserCoords, bundle) })
		if err := g.Wait(); err != nil {
			return locationSaveDoneMsg{err: err}
		}

		return locationSaveDoneMsg{selection: sel, bundle: bundle}
	}
}

// visibleFields lists the form rows for the current province category.
func (o *OnboardingView) visibleFields() []int {
	fields := []int{fieldProvince}
	if o.picker == nil {
		return append(fields, fieldSubmit)
	}
	if o.picker.NeedsCity() {
		fields = append(fields, fieldCity)
	}
	if o.picker.NeedsGu() {
		fields = append(fields, fieldGu)
	}
	if o.picker.NeedsDistrict() {
		fields = append(fields, fieldDistrict)
	}
	return append(fields, fieldSubmit)
}

func (o *OnboardingView) canSubmit() bool {
	return !o.loading && !o.saving && o.errMsg == "" && o.picker != nil && o.picker.CanSubmit()
}

func (o *OnboardingView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case citiesLoadedMsg:
		o.loading = false
		if msg.err != nil {
			log.Error("failed to load region hierarchy", "error", msg.err)
			o.errMsg = "동네 목록을 불러오지 못했어요"
			return o, nil
		}
		o.picker = region.NewPicker(msg.tree)
		o.focus = 0
		return o, nil

	case locationSaveDoneMsg:
		o.saving = false
		if msg.err != nil {
			log.Error("failed to save location", "error", msg.err)
			o.errMsg = "동네 정보를 저장하지 못했어요"
			return o, nil
		}
		return o, func() tea.Msg {
			return LocationSavedMsg{Selection: msg.selection, Bundle: msg.bundle}
		}

	case ThemeChangedMsg:
		o.styles = newOnboardingStyles()
		return o, nil

	case tea.KeyPressMsg:
		return o.handleKey(msg)
	}

	return o, nil
}

func (o *OnboardingView) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if o.errMsg != "" {
		// Any retry key clears the error; reload when the tree is missing.
		if msg.String() == "r" {
			o.errMsg = ""
			if o.picker == nil {
				o.loading = true
				return o, o.loadCities
			}
		}
		return o, nil
	}
	if o.loading || o.saving || o.picker == nil {
		return o, nil
	}

	fields := o.visibleFields()
	switch msg.String() {
	case "up", "k":
		if o.focus > 0 {
			o.focus--
		}
		return o, nil
	case "down", "j", "tab":
		if o.focus < len(fields)-1 {
			o.focus++
		}
		return o, nil
	case "left", "h":
		o.cycleFocused(fields, -1)
		return o, nil
	case "right", "l":
		o.cycleFocused(fields, 1)
		return o, nil
	case "enter":
		if fields[o.focus] == fieldSubmit && o.canSubmit() {
			o.saving = true
			return o, o.saveSelection()
		}
		if o.focus < len(fields)-1 {
			o.focus++
		}
		return o, nil
	}
	return o, nil
}

func (o *OnboardingView) cycleFocused(fields []int, delta int) {
	if o.focus >= len(fields) {
		return
	}
	switch fields[o.focus] {
	case fieldProvince:
		o.picker.SetProvince(cycleOption(o.picker.ProvinceOptions(), o.picker.Province(), delta))
		o.clampFocus()
	case fieldCity:
		o.picker.SetCity(cycleOption(o.picker.CityOptions(), o.picker.City(), delta))
		o.clampFocus()
	case fieldGu:
		o.picker.SetGu(cycleOption(o.picker.GuOptions(), o.picker.Gu(), delta))
	case fieldDistrict:
		o.picker.SetDistrict(cycleOption(o.picker.DistrictOptions(), o.picker.District(), delta))
	}
}

// clampFocus keeps the focus in range after a cascade changed which fields
// are visible.
func (o *OnboardingView) clampFocus() {
	if n := len(o.visibleFields()); o.focus >= n {
		o.focus = n - 1
	}
}

func cycleOption(opts []string, current string, delta int) string {
	if len(opts) == 0 {
		return current
	}
	idx := 0
	for i, opt := range opts {
		if opt == current {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(opts)) % len(opts)
	return opts[idx]
}

func (o *OnboardingView) fieldLabel(field int) (label, value string) {
	switch field {
	case fieldProvince:
		return "시/도", o.picker.Province()
	case fieldCity:
		return "시/군", o.picker.City()
	case fieldGu:
		return "구", o.picker.Gu()
	default:
		return "동/읍/면", o.picker.District()
	}
}

func (o *OnboardingView) ViewString() string {
	var sb strings.Builder
	sb.WriteString(o.styles.title.Render("우리 동네 설정"))
	sb.WriteString("\n\n")

	switch {
	case o.errMsg != "":
		sb.WriteString(o.styles.err.Render(o.errMsg))
		sb.WriteString("\n\n")
		sb.WriteString(o.styles.hint.Render("r:다시 시도"))
		return sb.String()
	case o.loading:
		sb.WriteString(LoadingMessage)
		return sb.String()
	case o.saving:
		sb.WriteString("저장하는 중...")
		return sb.String()
	}

	fields := o.visibleFields()
	for i, field := range fields {
		if field == fieldSubmit {
			sb.WriteString("\n")
			label := "  [ 이 동네로 설정 ]"
			style := o.styles.submit
			if !o.canSubmit() {
				style = o.styles.disabled
			}
			if i == o.focus {
				label = "▸ [ 이 동네로 설정 ]"
			}
			sb.WriteString(style.Render(label))
			sb.WriteString("\n")
			continue
		}

		label, value := o.fieldLabel(field)
		if value == "" {
			value = "-"
		}
		line := fmt.Sprintf("%-8s ◂ %s ▸", label, value)
		if i == o.focus {
			sb.WriteString(o.styles.focused.Render("▸ " + line))
		} else {
			sb.WriteString(o.styles.label.Render("  ") + o.styles.value.Render(line))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(o.styles.hint.Render("↑↓:이동 • ◂▸:선택 • Enter:확인"))
	return sb.String()
}

func (o *OnboardingView) View() tea.View {
	return tea.NewView(o.ViewString())
}

func (o *OnboardingView) SetSize(width, height int) tea.Cmd {
	o.width = width
	o.height = height
	return nil
}

func (o *OnboardingView) StatusLine() string {
	return "동네를 설정하면 날씨와 챗봇 답변이 정확해져요"
}

func (o *OnboardingView) HasActiveInput() bool {
	return true
}
