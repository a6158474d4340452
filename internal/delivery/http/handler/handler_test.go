package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gdugdh24/collabswipe-backend/internal/domain"
	"github.com/gdugdh24/collabswipe-backend/internal/infrastructure/realtime"
	"github.com/gdugdh24/collabswipe-backend/internal/repository"
	"github.com/gdugdh24/collabswipe-backend/internal/session"
	"github.com/gdugdh24/collabswipe-backend/internal/usecase/swipe"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// withUser mimics RequireAuth for handler tests.
func withUser(userID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		st := &session.State{UserID: userID, HasProfile: true, Onboarded: true}
		c.Request = c.Request.WithContext(session.WithState(c.Request.Context(), st))
		c.Next()
	}
}

func TestRespondErrorMapsDomainErrors(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{domain.ErrInvalidInput, http.StatusBadRequest},
		{fmt.Errorf("wrap: %w", domain.ErrNotProjectOwner), http.StatusForbidden},
		{domain.ErrTaskNotFound, http.StatusNotFound},
		{domain.ErrCannotRemoveOwner, http.StatusConflict},
		{domain.ErrStorageUnavailable, http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

		respondError(c, tc.err, "something failed")
		assert.Equal(t, tc.status, w.Code, tc.err.Error())
	}
}

func TestRespondErrorHidesInternalCause(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	respondError(c, errors.New("pq: connection refused"), "failed to load")

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "failed to load", body.Error)
	require.Len(t, c.Errors, 1)
	assert.Contains(t, c.Errors[0].Error(), "connection refused")
}

type swipeRepoStub struct {
	repository.SwipeRepository
	created []*domain.Swipe
}

func (r *swipeRepoStub) Create(_ context.Context, sw *domain.Swipe) error {
	sw.ID = uuid.New()
	sw.CreatedAt = time.Now()
	r.created = append(r.created, sw)
	return nil
}

type matchRepoStub struct {
	repository.MatchRepository
	err error
}

func (r *matchRepoStub) CreateIfReciprocal(context.Context, uuid.UUID, uuid.UUID) (*repository.MatchResult, error) {
	if r.err != nil {
		return nil, r.err
	}
	return &repository.MatchResult{}, nil
}

func newSwipeRouter(userID uuid.UUID, swipes *swipeRepoStub, matches *matchRepoStub) *gin.Engine {
	uc := swipe.NewSwipeUseCase(swipes, matches, nil, nil, zap.NewNop())
	h := NewSwipeHandler(uc)

	r := gin.New()
	r.Use(withUser(userID))
	r.POST("/swipe", h.CreateSwipe)
	r.GET("/swipe/state/:user_id", h.GetPairState)
	return r
}

func postSwipe(t *testing.T, r http.Handler, target uuid.UUID, action string) *httptest.ResponseRecorder {
	t.Helper()
	body := fmt.Sprintf(`{"swiped_user_id":%q,"action":%q}`, target, action)
	req := httptest.NewRequest(http.MethodPost, "/swipe", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateSwipeReturnsNonMatch(t *testing.T) {
	swipes := &swipeRepoStub{}
	r := newSwipeRouter(uuid.New(), swipes, &matchRepoStub{})

	w := postSwipe(t, r, uuid.New(), "like")
	require.Equal(t, http.StatusOK, w.Code)

	var res swipe.SwipeResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.False(t, res.IsMatch)
	assert.Len(t, swipes.created, 1)
}

func TestCreateSwipeSurvivesMatchFailure(t *testing.T) {
	swipes := &swipeRepoStub{}
	matches := &matchRepoStub{err: domain.NewFlowError(domain.StageMatchInsert, errors.New("deadlock"))}
	r := newSwipeRouter(uuid.New(), swipes, matches)

	w := postSwipe(t, r, uuid.New(), "super_like")
	require.Equal(t, http.StatusOK, w.Code)

	var res swipe.SwipeResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.False(t, res.IsMatch)
	require.NotNil(t, res.Swipe)
	assert.Len(t, swipes.created, 1)
}

func TestCreateSwipeRejectsSelfAndBadAction(t *testing.T) {
	me := uuid.New()
	r := newSwipeRouter(me, &swipeRepoStub{}, &matchRepoStub{})

	assert.Equal(t, http.StatusBadRequest, postSwipe(t, r, me, "like").Code)
	assert.Equal(t, http.StatusBadRequest, postSwipe(t, r, uuid.New(), "maybe").Code)
}

func TestPairStateRejectsMalformedID(t *testing.T) {
	r := newSwipeRouter(uuid.New(), &swipeRepoStub{}, &matchRepoStub{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swipe/state/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandlersRequireSession(t *testing.T) {
	uc := swipe.NewSwipeUseCase(&swipeRepoStub{}, &matchRepoStub{}, nil, nil, zap.NewNop())
	r := gin.New()
	r.POST("/swipe", NewSwipeHandler(uc).CreateSwipe)

	assert.Equal(t, http.StatusUnauthorized, postSwipe(t, r, uuid.New(), "like").Code)
}

type authStub struct {
	states map[string]*session.State
}

func (a authStub) Authenticate(_ context.Context, token string) (*session.State, error) {
	st, ok := a.states[token]
	if !ok {
		return nil, domain.ErrInvalidToken
	}
	return st, nil
}

type accessStub struct {
	conversations map[uuid.UUID]bool
}

func (a accessStub) Authorize(_ context.Context, _, convID uuid.UUID) (*domain.Match, error) {
	if !a.conversations[convID] {
		return nil, domain.ErrNotParticipant
	}
	return &domain.Match{}, nil
}

func (a accessStub) CanAccess(context.Context, uuid.UUID, uuid.UUID) (bool, error) {
	return false, nil
}

func (a accessStub) IsMember(context.Context, uuid.UUID, uuid.UUID) (bool, error) {
	return true, nil
}

func newRealtimeServer(t *testing.T, hub *realtime.Hub, auth authStub, access accessStub) *httptest.Server {
	t.Helper()
	h := NewRealtimeHandler(hub, auth, access, access, access, []string{"*"}, zap.NewNop())
	r := gin.New()
	r.GET("/realtime", h.Connect)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func wsURL(srv *httptest.Server, query string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/realtime?" + query
}

func TestRealtimeStreamsUserAndConversationEvents(t *testing.T) {
	hub := realtime.NewHub(nil, 8, zap.NewNop())
	userID, convID := uuid.New(), uuid.New()
	auth := authStub{states: map[string]*session.State{"tok": {UserID: userID, Onboarded: true}}}
	srv := newRealtimeServer(t, hub, auth, accessStub{conversations: map[uuid.UUID]bool{convID: true}})

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "token=tok&conversations="+convID.String()), nil)
	require.NoError(t, err)
	defer conn.Close()

	// The subscription is registered before the upgrade completes.
	ctx := context.Background()
	require.NoError(t, hub.Publish(ctx, realtime.ConversationTopic(convID), realtime.Event{
		Type: realtime.EventMessageCreated,
		Data: map[string]any{"body": "hi"},
	}))
	require.NoError(t, hub.Publish(ctx, realtime.UserTopic(userID), realtime.Event{Type: realtime.EventMatchCreated}))
	require.NoError(t, hub.Publish(ctx, realtime.UserTopic(uuid.New()), realtime.Event{Type: realtime.EventMatchCreated}))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	var first realtime.Event
	require.NoError(t, conn.ReadJSON(&first))
	assert.Equal(t, realtime.EventMessageCreated, first.Type)
	assert.Equal(t, realtime.ConversationTopic(convID), first.Topic)
	assert.Equal(t, "hi", first.Data["body"])

	var second realtime.Event
	require.NoError(t, conn.ReadJSON(&second))
	assert.Equal(t, realtime.EventMatchCreated, second.Type)
	assert.Equal(t, realtime.UserTopic(userID), second.Topic)
}

func TestRealtimeRejectsUnauthorized(t *testing.T) {
	hub := realtime.NewHub(nil, 8, zap.NewNop())
	userID := uuid.New()
	auth := authStub{states: map[string]*session.State{
		"tok":    {UserID: userID, Onboarded: true},
		"newbie": {UserID: uuid.New()},
	}}
	srv := newRealtimeServer(t, hub, auth, accessStub{})

	cases := []struct {
		query  string
		status int
	}{
		{"", http.StatusUnauthorized},
		{"token=wrong", http.StatusUnauthorized},
		{"token=newbie", http.StatusForbidden},
		{"token=tok&conversations=" + uuid.NewString(), http.StatusForbidden},
		{"token=tok&tasks=" + uuid.NewString(), http.StatusForbidden},
		{"token=tok&projects=bogus", http.StatusBadRequest},
	}
	for _, tc := range cases {
		_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, tc.query), nil)
		require.Error(t, err, tc.query)
		require.NotNil(t, resp, tc.query)
		assert.Equal(t, tc.status, resp.StatusCode, tc.query)
		resp.Body.Close()
	}
}

func TestRealtimeClosesOnSignOut(t *testing.T) {
	hub := realtime.NewHub(nil, 8, zap.NewNop())
	userID := uuid.New()
	auth := authStub{states: map[string]*session.State{
		"tok": {UserID: userID, SessionID: "s1", Onboarded: true},
	}}
	srv := newRealtimeServer(t, hub, auth, accessStub{})

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "token=tok"), nil)
	require.NoError(t, err)
	defer conn.Close()

	ctx := context.Background()
	topic := realtime.UserTopic(userID)
	// Another device signing out leaves this socket open.
	require.NoError(t, hub.Publish(ctx, topic, realtime.Event{
		Type: realtime.EventSignedOut,
		Data: map[string]any{"session_id": "s2"},
	}))
	require.NoError(t, hub.Publish(ctx, topic, realtime.Event{
		Type: realtime.EventSignedOut,
		Data: map[string]any{"session_id": "s1"},
	}))
	require.NoError(t, hub.Publish(ctx, topic, realtime.Event{Type: realtime.EventMatchCreated}))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	for _, want := range []string{"s2", "s1"} {
		var evt realtime.Event
		require.NoError(t, conn.ReadJSON(&evt))
		assert.Equal(t, realtime.EventSignedOut, evt.Type)
		assert.Equal(t, want, evt.Data["session_id"])
	}

	_, _, err = conn.ReadMessage()
	require.Error(t, err)
	assert.True(t, websocket.IsCloseError(err, websocket.ClosePolicyViolation), err.Error())
}

func TestEndsSession(t *testing.T) {
	out := realtime.Event{Type: realtime.EventSignedOut, Data: map[string]any{"session_id": "s1"}}

	assert.True(t, endsSession(out, "s1"))
	assert.False(t, endsSession(out, "s2"))
	assert.False(t, endsSession(out, ""))
	assert.False(t, endsSession(realtime.Event{Type: realtime.EventSignedIn, Data: out.Data}, "s1"))
}

func TestMessageCursorParsing(t *testing.T) {
	id := uuid.New()
	cases := []struct {
		query  string
		ok     bool
		cursor *domain.MessageCursor
	}{
		{"", true, nil},
		{"before=2026-03-01T12:00:00.5Z", true, &domain.MessageCursor{CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 500000000, time.UTC)}},
		{"before=2026-03-01T12:00:00Z&before_id=" + id.String(), true, &domain.MessageCursor{CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), ID: id}},
		{"before=yesterday", false, nil},
		{"before=2026-03-01T12:00:00Z&before_id=nope", false, nil},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/?"+tc.query, nil)

		cursor, ok := messageCursor(c)
		require.Equal(t, tc.ok, ok, tc.query)
		if !ok {
			assert.Equal(t, http.StatusBadRequest, w.Code, tc.query)
			continue
		}
		if tc.cursor == nil {
			assert.Nil(t, cursor, tc.query)
			continue
		}
		require.NotNil(t, cursor, tc.query)
		assert.True(t, tc.cursor.CreatedAt.Equal(cursor.CreatedAt), tc.query)
		assert.Equal(t, tc.cursor.ID, cursor.ID, tc.query)
	}
}

func TestQueryIDsSplitsLists(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/?tasks=a,b&tasks=c&tasks=", nil)

	assert.Equal(t, []string{"a", "b", "c"}, queryIDs(c, "tasks"))
	assert.Empty(t, queryIDs(c, "projects"))
}
