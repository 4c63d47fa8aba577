// Package app owns the program root: it routes messages between the chat,
// map and hybrid views, dispatches questions to the backend, and drives the
// map panel's rise/fall transition.
package app

import (
	"context"
	"time"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/dongnecli/dongne/internal/chat"
	"github.com/dongnecli/dongne/internal/client"
	"github.com/dongnecli/dongne/internal/config"
	"github.com/dongnecli/dongne/internal/log"
	"github.com/dongnecli/dongne/internal/region"
	"github.com/dongnecli/dongne/internal/session"
	"github.com/dongnecli/dongne/internal/storage"
	"github.com/dongnecli/dongne/internal/transition"
	"github.com/dongnecli/dongne/internal/ui"
	"github.com/dongnecli/dongne/internal/view"
	"github.com/dongnecli/dongne/internal/weather"
)

// animationStep is the duration of one panel animation phase (rise or fall).
const animationStep = 180 * time.Millisecond

// Backend is the slice of the API client the root model uses directly.
// The weather fetcher is injected separately through the weather service.
type Backend interface {
	Ask(ctx context.Context, req client.AskRequest) (client.AskResponse, error)
	Cities(ctx context.Context) (*region.Tree, error)
	Geocode(ctx context.Context, req client.CoordsRequest) (client.GeoBundle, error)
}

// clearErrorMsg is sent to clear transient errors after a timeout
type clearErrorMsg struct{}

// askResultMsg is sent when a chatbot call completes. id ties the result to
// the question token so stale answers can be dropped.
type askResultMsg struct {
	id   int
	resp client.AskResponse
	err  error
}

// riseFrameMsg fires one frame after a hybrid mode was entered, so the
// collapsed state paints before the rise starts.
type riseFrameMsg struct{}

// animDoneMsg marks the end of the running panel animation.
type animDoneMsg struct{}

type weatherResultMsg struct {
	report weather.Report
	err    error
}

// weatherTickMsg triggers a periodic forecast refresh.
type weatherTickMsg struct{}

// appStyles holds cached lipgloss styles for performance
type appStyles struct {
	status lipgloss.Style
	err    lipgloss.Style
}

func newAppStyles(width int) appStyles {
	t := ui.Current()
	return appStyles{
		status: lipgloss.NewStyle().Background(t.BackgroundAlt).Foreground(t.Text).Padding(0, 1).Width(width),
		err:    ui.DangerStyle(),
	}
}

// Deps carries the root model's collaborators, injected for tests.
type Deps struct {
	Backend Backend
	Weather *weather.Service
	Store   *storage.Store
	Chats   *chat.Store
}

type App struct {
	ctx     context.Context
	backend Backend
	weather *weather.Service
	store   *storage.Store
	chats   *chat.Store

	state *session.State
	ctrl  *transition.Controller

	chatView   *view.ChatView
	mapView    *view.MapView
	hybridView *view.HybridView

	modal         *view.Modal
	modalRenderer *view.ModalRenderer

	chatSession *chat.Session

	selection   region.Selection
	hasLocation bool
	bundle      client.GeoBundle
	hasBundle   bool

	keys   keyMap
	err    error
	width  int
	height int
	styles appStyles
}

func New(ctx context.Context, d Deps) *App {
	state := session.New()
	mapView := view.NewMapView()

	return &App{
		ctx:           ctx,
		backend:       d.Backend,
		weather:       d.Weather,
		store:         d.Store,
		chats:         d.Chats,
		state:         state,
		ctrl:          transition.New(),
		chatView:      view.NewChatView(state),
		mapView:       mapView,
		hybridView:    view.NewHybridView(state, mapView),
		modalRenderer: view.NewModalRenderer(),
		keys:          defaultKeyMap(),
		styles:        newAppStyles(0),
	}
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	a.restoreLocation()
	a.restoreTranscript()

	cmds := []tea.Cmd{a.chatView.Init()}
	if !a.hasLocation || !a.hasBundle {
		a.openOnboarding()
	} else {
		cmds = append(cmds, a.fetchWeather())
	}
	return tea.Batch(cmds...)
}

// restoreLocation loads the persisted address and coordinate bundle. Either
// document missing or corrupt means onboarding runs again.
func (a *App) restoreLocation() {
	found, err := a.store.Load(storage.KeyUserLocation, &a.selection)
	if err != nil {
		log.Warn("failed to load saved location", "error", err)
		return
	}
	a.hasLocation = found

	found, err = a.store.Load(storage.KeyUserCoords, &a.bundle)
	if err != nil {
		log.Warn("failed to load saved coordinates", "error", err)
		return
	}
	a.hasBundle = found
	if found {
		a.state.SetUserCoordinate(a.bundle.Coordinate())
	}
}

// restoreTranscript resumes the most recent chat session, or starts a new
// one when none exists.
func (a *App) restoreTranscript() {
	if a.chats == nil {
		return
	}
	sess, err := a.chats.CurrentSession()
	if err != nil {
		log.Warn("failed to restore chat session", "error", err)
	}
	if sess == nil {
		sess = a.chats.NewSession()
	}
	a.chatSession = sess
	if len(sess.Messages) > 0 {
		a.state.SetMessages(sess.Messages)
	}
	a.chatView.Refresh()
}

func (a *App) openOnboarding() {
	ov := view.NewOnboardingView(a.backend, a.store)
	a.modal = &view.Modal{Content: ov, Width: view.ModalWidthOnboarding}
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Async completions land regardless of the modal; an answer must not be
	// lost because the user opened the location picker while waiting.
	switch msg := msg.(type) {
	case askResultMsg:
		return a, a.applyAskResult(msg)
	case weatherResultMsg, weatherTickMsg:
		// fall through to the main switch below
	default:
		if a.modal != nil {
			return a.handleModalUpdate(msg)
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return a, a.resize(msg.Width, msg.Height)

	case tea.KeyPressMsg:
		if cmd, handled := a.handleGlobalKey(msg); handled {
			return a, cmd
		}

	case view.SubmitQuestionMsg:
		return a, a.dispatch(msg.Text)

	case view.BusGuideMsg:
		a.state.BusGuide()
		a.persistBot(session.BusGuardMessage)
		a.chatView.Refresh()
		return a, nil

	case view.LocalCurrencyMsg:
		return a, a.localCurrencyShortcut()

	case view.CloseMapMsg:
		return a, a.requestClose()

	case view.LocationSavedMsg:
		// Not expected outside the modal, but harmless to apply.
		a.applyLocation(msg.Selection, msg.Bundle)
		return a, a.fetchWeather()

	case riseFrameMsg:
		a.ctrl.Rise()
		a.hybridView.SetPhase(a.ctrl.Phase())
		return a, tea.Tick(animationStep, func(time.Time) tea.Msg { return animDoneMsg{} })

	case animDoneMsg:
		return a, a.applyAnimationEnd()

	case weatherResultMsg:
		if msg.err != nil {
			log.Warn("weather fetch failed", "error", msg.err)
		} else {
			a.chatView.SetWeather(view.WeatherLine(msg.report))
		}
		return a, tea.Tick(config.File().WeatherStale(), func(time.Time) tea.Msg { return weatherTickMsg{} })

	case weatherTickMsg:
		return a, a.fetchWeather()

	case view.ThemeChangedMsg:
		a.styles = newAppStyles(a.width)
		a.modalRenderer.ReloadStyles()
		return a, a.broadcast(msg)

	case view.ErrorMsg:
		log.Error("application error", "error", msg.Err)
		a.err = msg.Err
		return a, tea.Tick(3*time.Second, func(time.Time) tea.Msg { return clearErrorMsg{} })

	case clearErrorMsg:
		a.err = nil
		return a, nil
	}

	return a, a.delegate(msg)
}

func (a *App) resize(width, height int) tea.Cmd {
	a.width = width
	a.height = height
	a.styles = newAppStyles(width)

	cmds := []tea.Cmd{
		a.chatView.SetSize(width, height-2),
		a.mapView.SetSize(width, height-2),
		a.hybridView.SetSize(width, height-2),
	}
	if a.modal != nil {
		cmds = append(cmds, a.modal.SetSize(width, height))
	}
	return tea.Batch(cmds...)
}

func (a *App) handleGlobalKey(msg tea.KeyPressMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, a.keys.Quit):
		return tea.Quit, true

	case key.Matches(msg, a.keys.BusGuide):
		return func() tea.Msg { return view.BusGuideMsg{} }, true

	case key.Matches(msg, a.keys.LocalCurrency):
		return func() tea.Msg { return view.LocalCurrencyMsg{} }, true

	case key.Matches(msg, a.keys.Location):
		a.openOnboarding()
		return a.modal.SetSize(a.width, a.height), true
	}
	return nil, false
}

// dispatch sends a user question to the chatbot. Each submission allocates a
// fresh question token; the token id rides along with the async result so a
// stale answer is recognized and dropped.
func (a *App) dispatch(text string) tea.Cmd {
	userMsg := session.Message{Role: session.RoleUser, Text: text}
	a.state.PushMessage(userMsg)
	a.persist(userMsg)

	q := a.state.NewQuestion(text)
	if !a.state.MarkHandled(q.ID) {
		log.Debug("suppressing duplicate question dispatch", "id", q.ID)
		return nil
	}
	a.chatView.Refresh()

	var coords *client.GridCoords
	if a.hasBundle {
		coords = &client.GridCoords{NX: a.bundle.GridX, NY: a.bundle.GridY}
	}

	askCmd := func() tea.Msg {
		ctx, cancel := context.WithTimeout(a.ctx, config.File().RequestTimeout())
		defer cancel()

		resp, err := a.backend.Ask(ctx, client.AskRequest{UserQuestion: text, Coords: coords})
		return askResultMsg{id: q.ID, resp: resp, err: err}
	}
	return tea.Batch(a.chatView.SetWaiting(true), askCmd)
}

// applyAskResult commits a chatbot answer. Stale results (the token is no
// longer pending) are dropped without touching the transcript.
func (a *App) applyAskResult(msg askResultMsg) tea.Cmd {
	if !a.state.IsPending(msg.id) {
		log.Debug("dropping stale chatbot answer", "id", msg.id)
		return nil
	}

	wasHybrid := a.state.Mode().IsHybrid()
	if msg.err != nil {
		log.Warn("chatbot call failed", "error", msg.err)
		a.state.ApplyFailure()
		a.persistBot(session.ApologyMessage)
	} else {
		p := session.Route(msg.resp)
		a.state.Apply(p)
		a.persistBot(p.BotMessage)
	}
	a.state.Finish()

	cmds := []tea.Cmd{a.chatView.SetWaiting(false)}
	a.chatView.Refresh()

	if a.state.Mode().IsHybrid() {
		a.mapView.SetData(a.state.MapData())
		if !wasHybrid || !a.ctrl.Open() {
			cmds = append(cmds, a.enterHybrid())
		}
	}
	return tea.Batch(cmds...)
}

// enterHybrid starts the panel's entry sequence: reset to the collapsed
// position now, schedule the rise for the next frame so the at-rest state
// paints first.
func (a *App) enterHybrid() tea.Cmd {
	a.ctrl.Enter()
	a.hybridView.SetPhase(a.ctrl.Phase())
	return func() tea.Msg { return riseFrameMsg{} }
}

func (a *App) requestClose() tea.Cmd {
	if !a.ctrl.RequestClose() {
		// A map shown without an animation in flight (or not yet risen)
		// closes immediately.
		if a.state.Mode().ShowsMap() {
			a.state.SetMode(session.ViewConversation)
			a.state.ResetMap()
			a.chatView.Refresh()
		}
		return nil
	}
	a.hybridView.SetPhase(a.ctrl.Phase())
	return tea.Tick(animationStep, func(time.Time) tea.Msg { return animDoneMsg{} })
}

// applyAnimationEnd settles a finished rise or tears down a finished fall.
// The panel is only dismissed here, after the fall completes.
func (a *App) applyAnimationEnd() tea.Cmd {
	effect := a.ctrl.AnimationEnd()
	a.hybridView.SetPhase(a.ctrl.Phase())

	switch effect {
	case transition.EffectRelayout:
		a.mapView.Relayout()
	case transition.EffectDismiss:
		a.state.SetMode(session.ViewConversation)
		a.state.ResetMap()
		a.chatView.Refresh()
	}
	return nil
}

// localCurrencyShortcut runs the merchant-map flow for the saved address.
// Without a saved address it opens onboarding instead; outside 경기도 it
// answers with the coverage notice.
func (a *App) localCurrencyShortcut() tea.Cmd {
	if !a.hasLocation {
		a.openOnboarding()
		return a.modal.SetSize(a.width, a.height)
	}

	question, ok := session.LocalCurrencyQuestion(a.selection)
	if !ok {
		a.state.PushMessage(session.Message{Role: session.RoleBot, Text: session.GyeonggiOnlyMessage})
		a.persistBot(session.GyeonggiOnlyMessage)
		a.state.SetMode(session.ViewConversation)
		a.chatView.Refresh()
		return nil
	}

	a.state.SetIntentHint(session.IntentLocalCurrency)
	return a.dispatch(question)
}

func (a *App) applyLocation(sel region.Selection, bundle client.GeoBundle) {
	a.selection = sel
	a.bundle = bundle
	a.hasLocation = true
	a.hasBundle = true
	a.state.SetUserCoordinate(bundle.Coordinate())
}

func (a *App) fetchWeather() tea.Cmd {
	if !a.hasBundle || a.weather == nil {
		return nil
	}
	nx, ny := a.bundle.GridX, a.bundle.GridY
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(a.ctx, config.File().WeatherTimeout())
		defer cancel()

		report, err := a.weather.Report(ctx, nx, ny)
		return weatherResultMsg{report: report, err: err}
	}
}

// persist appends a message to the stored chat session.
func (a *App) persist(msg session.Message) {
	if a.chats == nil || a.chatSession == nil {
		return
	}
	if err := a.chats.Append(a.chatSession, msg); err != nil {
		log.Warn("failed to persist chat message", "error", err)
	}
}

func (a *App) persistBot(text string) {
	a.persist(session.Message{Role: session.RoleBot, Text: text})
}

// activeView picks the view for the current mode.
func (a *App) activeView() view.View {
	switch {
	case a.state.Mode() == session.ViewMap:
		return a.mapView
	case a.state.Mode().IsHybrid():
		return a.hybridView
	default:
		return a.chatView
	}
}

// delegate forwards a message to the active view.
func (a *App) delegate(msg tea.Msg) tea.Cmd {
	model, cmd := a.activeView().Update(msg)
	switch v := model.(type) {
	case *view.ChatView:
		a.chatView = v
	case *view.MapView:
		a.mapView = v
	case *view.HybridView:
		a.hybridView = v
	}
	return cmd
}

// broadcast forwards a message to every view, active or not.
func (a *App) broadcast(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	for _, v := range []view.View{a.chatView, a.mapView, a.hybridView} {
		_, cmd := v.Update(msg)
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

func (a *App) handleModalUpdate(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case view.LocationSavedMsg:
		a.modal = nil
		a.applyLocation(msg.Selection, msg.Bundle)
		return a, a.fetchWeather()

	case view.HideModalMsg:
		a.modal = nil
		return a, nil

	case tea.KeyPressMsg:
		if key.Matches(msg, a.keys.Quit) {
			return a, tea.Quit
		}
		// The modal can only be dismissed once a location exists; the first
		// run has nothing to fall back to.
		if view.IsEscKey(msg) && a.hasLocation {
			a.modal = nil
			return a, nil
		}

	case tea.WindowSizeMsg:
		return a, a.resize(msg.Width, msg.Height)
	}

	modal, cmd := a.modal.Update(msg)
	a.modal = modal
	return a, cmd
}

// newAltScreenView creates a View with AltScreen enabled
func newAltScreenView(content string) tea.View {
	v := tea.NewView(content)
	v.AltScreen = true
	return v
}

func (a *App) View() tea.View {
	content := a.activeView().ViewString()

	var statusContent string
	if a.err != nil {
		statusContent = a.styles.err.Render("오류: " + a.err.Error())
	} else {
		statusContent = a.activeView().StatusLine()
	}
	status := a.styles.status.Render(statusContent)
	mainView := content + "\n" + status

	if a.modal != nil {
		return newAltScreenView(a.modalRenderer.Render(a.modal, mainView, a.width, a.height))
	}
	return newAltScreenView(mainView)
}

type keyMap struct {
	BusGuide      key.Binding
	LocalCurrency key.Binding
	Location      key.Binding
	Quit          key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		BusGuide: key.NewBinding(
			key.WithKeys("ctrl+b"),
			key.WithHelp("^B", "버스 안내"),
		),
		LocalCurrency: key.NewBinding(
			key.WithKeys("ctrl+g"),
			key.WithHelp("^G", "지역화폐"),
		),
		Location: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("^L", "동네 설정"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("^C", "종료"),
		),
	}
}
