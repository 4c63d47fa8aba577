package app

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dongnecli/dongne/internal/chat"
	"github.com/dongnecli/dongne/internal/client"
	"github.com/dongnecli/dongne/internal/geo"
	"github.com/dongnecli/dongne/internal/region"
	"github.com/dongnecli/dongne/internal/session"
	"github.com/dongnecli/dongne/internal/storage"
	"github.com/dongnecli/dongne/internal/transition"
	"github.com/dongnecli/dongne/internal/view"
)

type fakeBackend struct {
	askResp client.AskResponse
	askErr  error
	asked   []client.AskRequest
}

func (f *fakeBackend) Ask(ctx context.Context, req client.AskRequest) (client.AskResponse, error) {
	f.asked = append(f.asked, req)
	return f.askResp, f.askErr
}

func (f *fakeBackend) Cities(ctx context.Context) (*region.Tree, error) {
	return &region.Tree{}, nil
}

func (f *fakeBackend) Geocode(ctx context.Context, req client.CoordsRequest) (client.GeoBundle, error) {
	return client.GeoBundle{}, nil
}

func newTestApp(t *testing.T, backend *fakeBackend) *App {
	t.Helper()
	a := New(context.Background(), Deps{
		Backend: backend,
		Store:   storage.OpenAt(t.TempDir()),
		Chats:   chat.NewStoreAt(t.TempDir(), 10, false),
	})
	a.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return a
}

// newLocatedApp returns an app with a saved 경기도 address, past onboarding.
func newLocatedApp(t *testing.T, backend *fakeBackend) *App {
	t.Helper()
	a := newTestApp(t, backend)
	a.applyLocation(
		region.Selection{Province: "경기도", City: "과천시", District: "중앙동"},
		client.GeoBundle{GridX: 60, GridY: 124, Lat: 37.43, Lng: 126.99},
	)
	return a
}

func busAnswer(message string) client.AskResponse {
	return client.AskResponse{
		Message: message,
		Meta: &client.AskMeta{
			Intent: session.IntentBus,
			BusPositions: []client.BusPositionRecord{
				{Lat: "37.40", Lng: "126.93", VehicleID: "veh-1", PlateNumber: "경기70아1234"},
			},
		},
	}
}

func pendingID(t *testing.T, a *App) int {
	t.Helper()
	q, ok := a.state.Pending()
	require.True(t, ok, "expected a pending question")
	return q.ID
}

func TestDispatchAndBusAnswerOpensHybrid(t *testing.T) {
	backend := &fakeBackend{}
	a := newLocatedApp(t, backend)

	_, cmd := a.Update(view.SubmitQuestionMsg{Text: "버스 어디쯤이야?"})
	require.NotNil(t, cmd)
	id := pendingID(t, a)

	msgs := a.state.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, session.RoleUser, msgs[0].Role)

	a.Update(askResultMsg{id: id, resp: busAnswer("버스가 오고 있어요")})

	assert.Equal(t, session.ViewHybridBus, a.state.Mode())
	assert.Equal(t, transition.PhaseAtRestLow, a.ctrl.Phase())
	_, pending := a.state.Pending()
	assert.False(t, pending)

	msgs = a.state.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "버스가 오고 있어요", msgs[1].Text)

	// Rise is scheduled for the next frame, then settles at animation end.
	a.Update(riseFrameMsg{})
	assert.Equal(t, transition.PhaseRising, a.ctrl.Phase())
	a.Update(animDoneMsg{})
	assert.Equal(t, transition.PhaseSettled, a.ctrl.Phase())
}

func TestCloseMapFallsThenDismisses(t *testing.T) {
	backend := &fakeBackend{}
	a := newLocatedApp(t, backend)

	a.Update(view.SubmitQuestionMsg{Text: "버스"})
	a.Update(askResultMsg{id: pendingID(t, a), resp: busAnswer("답변")})
	a.Update(riseFrameMsg{})
	a.Update(animDoneMsg{})
	require.Equal(t, transition.PhaseSettled, a.ctrl.Phase())

	_, cmd := a.Update(view.CloseMapMsg{})
	require.NotNil(t, cmd)
	assert.Equal(t, transition.PhaseFalling, a.ctrl.Phase())
	// Still in hybrid until the fall finishes.
	assert.Equal(t, session.ViewHybridBus, a.state.Mode())

	a.Update(animDoneMsg{})
	assert.Equal(t, transition.PhaseAtRestLow, a.ctrl.Phase())
	assert.Equal(t, session.ViewConversation, a.state.Mode())
	assert.Empty(t, a.state.MapData().Markers)
}

func TestCloseMapWhileCollapsedIsNoop(t *testing.T) {
	a := newLocatedApp(t, &fakeBackend{})
	_, cmd := a.Update(view.CloseMapMsg{})
	assert.Nil(t, cmd)
	assert.Equal(t, transition.PhaseAtRestLow, a.ctrl.Phase())
}

func TestStaleAnswerDropped(t *testing.T) {
	a := newLocatedApp(t, &fakeBackend{})

	a.Update(view.SubmitQuestionMsg{Text: "첫 질문"})
	firstID := pendingID(t, a)
	a.Update(view.SubmitQuestionMsg{Text: "둘째 질문"})
	secondID := pendingID(t, a)
	require.NotEqual(t, firstID, secondID)

	a.Update(askResultMsg{id: firstID, resp: client.AskResponse{Message: "늦은 답변"}})

	// The stale answer must not land in the transcript.
	for _, m := range a.state.Messages() {
		assert.NotEqual(t, "늦은 답변", m.Text)
	}
	assert.True(t, a.state.IsPending(secondID))

	a.Update(askResultMsg{id: secondID, resp: client.AskResponse{Message: "제때 답변"}})
	msgs := a.state.Messages()
	assert.Equal(t, "제때 답변", msgs[len(msgs)-1].Text)
}

func TestAskFailurePushesApology(t *testing.T) {
	a := newLocatedApp(t, &fakeBackend{})
	a.state.SetMode(session.ViewHybridBus)

	a.Update(view.SubmitQuestionMsg{Text: "질문"})
	a.Update(askResultMsg{id: pendingID(t, a), err: assert.AnError})

	msgs := a.state.Messages()
	assert.Equal(t, session.ApologyMessage, msgs[len(msgs)-1].Text)
	// Failure leaves the view mode alone.
	assert.Equal(t, session.ViewHybridBus, a.state.Mode())
	_, pending := a.state.Pending()
	assert.False(t, pending)
}

func TestBusGuideShortcut(t *testing.T) {
	a := newLocatedApp(t, &fakeBackend{})
	a.state.SetMode(session.ViewHybridLocalCurrency)

	a.Update(view.BusGuideMsg{})

	msgs := a.state.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, session.BusGuardMessage, msgs[0].Text)
	assert.Equal(t, session.ViewConversation, a.state.Mode())
}

func TestLocalCurrencyShortcutDispatchesInGyeonggi(t *testing.T) {
	backend := &fakeBackend{askResp: client.AskResponse{Message: "가맹점이에요"}}
	a := newLocatedApp(t, backend)

	_, cmd := a.Update(view.LocalCurrencyMsg{})
	require.NotNil(t, cmd)

	q, ok := a.state.Pending()
	require.True(t, ok)
	assert.Equal(t, "과천시 지역화폐 가맹점 알려줘", q.Text)
	assert.Equal(t, session.IntentLocalCurrency, a.state.IntentHint())
}

func TestLocalCurrencyShortcutRefusedOutsideGyeonggi(t *testing.T) {
	a := newTestApp(t, &fakeBackend{})
	a.applyLocation(
		region.Selection{Province: "서울특별시", City: "강남구"},
		client.GeoBundle{GridX: 61, GridY: 126},
	)

	a.Update(view.LocalCurrencyMsg{})

	msgs := a.state.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, session.GyeonggiOnlyMessage, msgs[0].Text)
	_, pending := a.state.Pending()
	assert.False(t, pending)
}

func TestLocalCurrencyShortcutWithoutLocationOpensOnboarding(t *testing.T) {
	a := newTestApp(t, &fakeBackend{})

	a.Update(view.LocalCurrencyMsg{})

	assert.NotNil(t, a.modal)
	assert.Empty(t, a.state.Messages())
}

func TestInitOpensOnboardingOnFirstRun(t *testing.T) {
	a := newTestApp(t, &fakeBackend{})
	a.Init()
	assert.NotNil(t, a.modal)
}

func TestInitSkipsOnboardingWithSavedLocation(t *testing.T) {
	store := storage.OpenAt(t.TempDir())
	require.NoError(t, store.Save(storage.KeyUserLocation, region.Selection{Province: "경기도", City: "과천시"}))
	require.NoError(t, store.Save(storage.KeyUserCoords, client.GeoBundle{GridX: 60, GridY: 124, Lat: 37.43, Lng: 126.99}))

	a := New(context.Background(), Deps{
		Backend: &fakeBackend{},
		Store:   store,
		Chats:   chat.NewStoreAt(t.TempDir(), 10, false),
	})
	a.Init()

	assert.Nil(t, a.modal)
	assert.True(t, a.hasLocation)
	assert.Equal(t, "과천시", a.selection.City)
	assert.Equal(t, geo.Coordinate{Lat: 37.43, Lng: 126.99}, a.state.FallbackCenter())
}

func TestLocationSavedClosesModal(t *testing.T) {
	a := newTestApp(t, &fakeBackend{})
	a.openOnboarding()
	require.NotNil(t, a.modal)

	a.Update(view.LocationSavedMsg{
		Selection: region.Selection{Province: "경기도", City: "수원시 장안구", District: "정자동"},
		Bundle:    client.GeoBundle{GridX: 60, GridY: 121, Lat: 37.30, Lng: 127.01},
	})

	assert.Nil(t, a.modal)
	assert.True(t, a.hasLocation)
	assert.Equal(t, geo.Coordinate{Lat: 37.30, Lng: 127.01}, a.state.FallbackCenter())
}

func TestModalEscRequiresSavedLocation(t *testing.T) {
	a := newTestApp(t, &fakeBackend{})
	a.openOnboarding()

	// First run: esc must not skip onboarding.
	a.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	assert.NotNil(t, a.modal)

	a.hasLocation = true
	a.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	assert.Nil(t, a.modal)
}

func TestRestoredTranscriptFeedsSessionState(t *testing.T) {
	dir := t.TempDir()
	chats := chat.NewStoreAt(dir, 10, true)
	sess := chats.NewSession()
	require.NoError(t, chats.Append(sess, session.Message{Role: session.RoleUser, Text: "지난 질문"}))
	require.NoError(t, chats.Append(sess, session.Message{Role: session.RoleBot, Text: "지난 답변"}))

	a := New(context.Background(), Deps{
		Backend: &fakeBackend{},
		Store:   storage.OpenAt(t.TempDir()),
		Chats:   chat.NewStoreAt(dir, 10, true),
	})
	a.Init()

	msgs := a.state.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "지난 질문", msgs[0].Text)
	assert.Equal(t, "지난 답변", msgs[1].Text)
}

func TestAskCarriesGridCoords(t *testing.T) {
	backend := &fakeBackend{askResp: client.AskResponse{Message: "답"}}
	a := newLocatedApp(t, backend)

	_, cmd := a.Update(view.SubmitQuestionMsg{Text: "날씨 어때?"})
	require.NotNil(t, cmd)
	// Run the batched commands so the ask closure actually executes.
	drainCmd(t, a, cmd)

	require.Len(t, backend.asked, 1)
	require.NotNil(t, backend.asked[0].Coords)
	assert.Equal(t, 60, backend.asked[0].Coords.NX)
	assert.Equal(t, 124, backend.asked[0].Coords.NY)
}

// drainCmd executes a command tree, feeding produced messages back into the
// app, and stops when nothing new is produced.
func drainCmd(t *testing.T, a *App, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		return
	}
	msg := cmd()
	if msg == nil {
		return
	}
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			drainCmd(t, a, c)
		}
		return
	}
	a.Update(msg)
}
