package swipe

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gdugdh24/collabswipe-backend/internal/domain"
	"github.com/gdugdh24/collabswipe-backend/internal/infrastructure/realtime"
	"github.com/gdugdh24/collabswipe-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// store mimics the swipes, matches and conversations tables, including the
// unordered-pair uniqueness of matches.
type store struct {
	mu            sync.Mutex
	swipes        []*domain.Swipe
	matches       []*domain.Match
	conversations []*domain.Conversation

	swipeErr       error
	matchErr       error
	reciprocalHits int

	likesLimit, likesOffset int
}

func (s *store) positive(from, to uuid.UUID) *domain.Swipe {
	for i := len(s.swipes) - 1; i >= 0; i-- {
		sw := s.swipes[i]
		if sw.SwiperID == from && sw.SwipedID == to && sw.Action.IsPositive() {
			return sw
		}
	}
	return nil
}

func (s *store) matchFor(a, b uuid.UUID) *domain.Match {
	for _, m := range s.matches {
		if (m.User1ID == a && m.User2ID == b) || (m.User1ID == b && m.User2ID == a) {
			return m
		}
	}
	return nil
}

type swipeRepoFake struct{ s *store }

func (r swipeRepoFake) Create(_ context.Context, sw *domain.Swipe) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.swipeErr != nil {
		return r.s.swipeErr
	}
	sw.ID = uuid.New()
	sw.CreatedAt = time.Now()
	r.s.swipes = append(r.s.swipes, sw)
	return nil
}

func (r swipeRepoFake) FindPositive(_ context.Context, from, to uuid.UUID) (*domain.Swipe, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if sw := r.s.positive(from, to); sw != nil {
		return sw, nil
	}
	return nil, domain.ErrSwipeNotFound
}

func (r swipeRepoFake) GetLikesReceived(_ context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Swipe, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.likesLimit, r.s.likesOffset = limit, offset
	var out []*domain.Swipe
	for _, sw := range r.s.swipes {
		if sw.SwipedID == userID && sw.Action.IsPositive() {
			out = append(out, sw)
		}
	}
	return out, nil
}

type matchRepoFake struct{ s *store }

func (r matchRepoFake) CreateIfReciprocal(_ context.Context, userID, targetID uuid.UUID) (*repository.MatchResult, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.reciprocalHits++
	if r.s.matchErr != nil {
		return nil, r.s.matchErr
	}
	if r.s.positive(targetID, userID) == nil {
		return &repository.MatchResult{}, nil
	}

	res := &repository.MatchResult{Reciprocal: true}
	m := r.s.matchFor(userID, targetID)
	if m == nil {
		m = &domain.Match{ID: uuid.New(), User1ID: userID, User2ID: targetID, IsActive: true, CreatedAt: time.Now()}
		r.s.matches = append(r.s.matches, m)
		res.Created = true
	}
	res.Match = m

	for _, c := range r.s.conversations {
		if c.MatchID == m.ID {
			res.Conversation = c
		}
	}
	if res.Conversation == nil {
		res.Conversation = &domain.Conversation{ID: uuid.New(), MatchID: m.ID}
		r.s.conversations = append(r.s.conversations, res.Conversation)
	}
	return res, nil
}

func (r matchRepoFake) GetByID(context.Context, uuid.UUID) (*domain.Match, error) {
	return nil, domain.ErrMatchNotFound
}

func (r matchRepoFake) GetByUsers(_ context.Context, a, b uuid.UUID) (*domain.Match, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if m := r.s.matchFor(a, b); m != nil {
		return m, nil
	}
	return nil, domain.ErrMatchNotFound
}

func (r matchRepoFake) ListActiveForUser(context.Context, uuid.UUID, int, int) ([]*domain.MatchWithConversation, error) {
	return nil, nil
}

func (r matchRepoFake) ListWithoutConversation(context.Context, int) ([]*domain.Match, error) {
	return nil, nil
}

type profileRepoFake struct {
	profiles map[uuid.UUID]*domain.Profile
}

func (r profileRepoFake) Create(context.Context, *domain.Profile) error { return nil }
func (r profileRepoFake) GetByUserID(_ context.Context, id uuid.UUID) (*domain.Profile, error) {
	if p, ok := r.profiles[id]; ok {
		return p, nil
	}
	return nil, domain.ErrProfileNotFound
}
func (r profileRepoFake) GetByUserIDs(_ context.Context, ids []uuid.UUID) ([]*domain.Profile, error) {
	var out []*domain.Profile
	for _, id := range ids {
		if p, ok := r.profiles[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}
func (r profileRepoFake) Update(context.Context, *domain.Profile) error { return nil }
func (r profileRepoFake) UpdateAvatar(context.Context, uuid.UUID, string) error { return nil }
func (r profileRepoFake) SearchCandidates(context.Context, uuid.UUID, int) ([]*domain.Profile, error) {
	return nil, nil
}

type eventRecorder struct {
	mu     sync.Mutex
	events []realtime.Event
}

func (r *eventRecorder) Publish(_ context.Context, topic string, evt realtime.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	evt.Topic = topic
	r.events = append(r.events, evt)
	return nil
}

func newUseCase() (*SwipeUseCase, *store, *eventRecorder) {
	s := &store{}
	ev := &eventRecorder{}
	profiles := profileRepoFake{profiles: map[uuid.UUID]*domain.Profile{}}
	return NewSwipeUseCase(swipeRepoFake{s}, matchRepoFake{s}, profiles, ev, zap.NewNop()), s, ev
}

func TestOneSidedLikeIsNoMatch(t *testing.T) {
	uc, s, ev := newUseCase()
	a, b := uuid.New(), uuid.New()

	res, err := uc.RecordSwipe(context.Background(), a, b, domain.SwipeActionLike)
	require.NoError(t, err)
	assert.False(t, res.IsMatch)
	assert.NotNil(t, res.Swipe)
	assert.Empty(t, s.matches)
	assert.Empty(t, s.conversations)
	assert.Empty(t, ev.events)
}

func TestReciprocalLikeCreatesMatchAndConversation(t *testing.T) {
	for _, second := range []domain.SwipeAction{domain.SwipeActionLike, domain.SwipeActionSuperLike} {
		t.Run(string(second), func(t *testing.T) {
			uc, s, ev := newUseCase()
			ctx := context.Background()
			u1, u2 := uuid.New(), uuid.New()

			first, err := uc.RecordSwipe(ctx, u1, u2, domain.SwipeActionSuperLike)
			require.NoError(t, err)
			assert.False(t, first.IsMatch)

			res, err := uc.RecordSwipe(ctx, u2, u1, second)
			require.NoError(t, err)
			require.True(t, res.IsMatch)

			require.Len(t, s.matches, 1)
			require.Len(t, s.conversations, 1)
			assert.Equal(t, u2, res.Match.User1ID)
			assert.Equal(t, u1, res.Match.User2ID)
			assert.Equal(t, res.Match.ID, s.conversations[0].MatchID)
			assert.Equal(t, res.Match.ID, res.Conversation.MatchID)

			require.Len(t, ev.events, 2)
			topics := []string{ev.events[0].Topic, ev.events[1].Topic}
			assert.ElementsMatch(t, []string{realtime.UserTopic(u1), realtime.UserTopic(u2)}, topics)
			assert.Equal(t, realtime.EventMatchCreated, ev.events[0].Type)
		})
	}
}

func TestPassNeverChecksForMatch(t *testing.T) {
	uc, s, _ := newUseCase()
	ctx := context.Background()
	a, b := uuid.New(), uuid.New()

	_, err := uc.RecordSwipe(ctx, b, a, domain.SwipeActionLike)
	require.NoError(t, err)
	hits := s.reciprocalHits

	res, err := uc.RecordSwipe(ctx, a, b, domain.SwipeActionPass)
	require.NoError(t, err)
	assert.False(t, res.IsMatch)
	assert.Equal(t, hits, s.reciprocalHits)
	assert.Empty(t, s.matches)
}

func TestPassThenLikeIsNoMatch(t *testing.T) {
	uc, s, _ := newUseCase()
	ctx := context.Background()
	a, b := uuid.New(), uuid.New()

	res, err := uc.RecordSwipe(ctx, a, b, domain.SwipeActionPass)
	require.NoError(t, err)
	assert.False(t, res.IsMatch)
	assert.Zero(t, s.reciprocalHits)

	res, err = uc.RecordSwipe(ctx, b, a, domain.SwipeActionLike)
	require.NoError(t, err)
	assert.False(t, res.IsMatch)
	assert.Empty(t, s.matches)
}

func TestRepeatedSwipesAreIndependentRows(t *testing.T) {
	uc, s, _ := newUseCase()
	ctx := context.Background()
	a, b := uuid.New(), uuid.New()

	r1, err := uc.RecordSwipe(ctx, a, b, domain.SwipeActionLike)
	require.NoError(t, err)
	r2, err := uc.RecordSwipe(ctx, a, b, domain.SwipeActionLike)
	require.NoError(t, err)

	assert.Len(t, s.swipes, 2)
	assert.NotEqual(t, r1.Swipe.ID, r2.Swipe.ID)
}

func TestRepeatedReciprocalLikeKeepsOneMatch(t *testing.T) {
	uc, s, ev := newUseCase()
	ctx := context.Background()
	a, b := uuid.New(), uuid.New()

	_, err := uc.RecordSwipe(ctx, a, b, domain.SwipeActionLike)
	require.NoError(t, err)
	first, err := uc.RecordSwipe(ctx, b, a, domain.SwipeActionLike)
	require.NoError(t, err)
	again, err := uc.RecordSwipe(ctx, a, b, domain.SwipeActionLike)
	require.NoError(t, err)

	assert.True(t, again.IsMatch)
	assert.Equal(t, first.Match.ID, again.Match.ID)
	assert.Len(t, s.matches, 1)
	assert.Len(t, s.conversations, 1)
	assert.Len(t, ev.events, 2)
}

func TestConcurrentReciprocalLikesCreateOneMatch(t *testing.T) {
	uc, s, _ := newUseCase()
	ctx := context.Background()
	a, b := uuid.New(), uuid.New()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = uc.RecordSwipe(ctx, a, b, domain.SwipeActionLike)
		}()
		go func() {
			defer wg.Done()
			_, _ = uc.RecordSwipe(ctx, b, a, domain.SwipeActionLike)
		}()
	}
	wg.Wait()

	assert.Len(t, s.matches, 1)
	assert.Len(t, s.conversations, 1)
}

func TestValidation(t *testing.T) {
	uc, s, _ := newUseCase()
	a := uuid.New()

	_, err := uc.RecordSwipe(context.Background(), a, a, domain.SwipeActionLike)
	assert.ErrorIs(t, err, domain.ErrCannotSwipeSelf)

	_, err = uc.RecordSwipe(context.Background(), a, uuid.New(), domain.SwipeAction("maybe"))
	assert.ErrorIs(t, err, domain.ErrInvalidSwipeAction)

	assert.Empty(t, s.swipes)
}

func TestSwipeInsertFailureAborts(t *testing.T) {
	uc, s, _ := newUseCase()
	s.swipeErr = errors.New("connection reset")

	res, err := uc.RecordSwipe(context.Background(), uuid.New(), uuid.New(), domain.SwipeActionLike)
	assert.Nil(t, res)
	var flowErr *domain.FlowError
	require.ErrorAs(t, err, &flowErr)
	assert.Equal(t, domain.StageSwipeInsert, flowErr.Stage)
	assert.Zero(t, s.reciprocalHits)
}

func TestMatchStageFailureKeepsSwipe(t *testing.T) {
	stages := []domain.FlowStage{domain.StageMatchQuery, domain.StageMatchInsert, domain.StageConversationInsert}
	for _, stage := range stages {
		t.Run(string(stage), func(t *testing.T) {
			uc, s, ev := newUseCase()
			s.matchErr = domain.NewFlowError(stage, errors.New("boom"))

			res, err := uc.RecordSwipe(context.Background(), uuid.New(), uuid.New(), domain.SwipeActionLike)
			require.NotNil(t, res)
			assert.False(t, res.IsMatch)
			assert.NotNil(t, res.Swipe)
			assert.Len(t, s.swipes, 1)
			assert.Empty(t, ev.events)

			var flowErr *domain.FlowError
			require.ErrorAs(t, err, &flowErr)
			assert.Equal(t, stage, flowErr.Stage)
		})
	}
}

func TestUntypedMatchErrorIsReportedAsQueryStage(t *testing.T) {
	uc, s, _ := newUseCase()
	s.matchErr = errors.New("timeout")

	_, err := uc.CheckForMatch(context.Background(), uuid.New(), uuid.New())
	var flowErr *domain.FlowError
	require.ErrorAs(t, err, &flowErr)
	assert.Equal(t, domain.StageMatchQuery, flowErr.Stage)
}

func TestGetPairState(t *testing.T) {
	uc, _, _ := newUseCase()
	ctx := context.Background()
	a, b := uuid.New(), uuid.New()

	state, err := uc.GetPairState(ctx, a, b)
	require.NoError(t, err)
	assert.Equal(t, domain.PairStateNoInteraction, state)

	_, err = uc.RecordSwipe(ctx, b, a, domain.SwipeActionLike)
	require.NoError(t, err)
	state, err = uc.GetPairState(ctx, a, b)
	require.NoError(t, err)
	assert.Equal(t, domain.PairStateOneSidedLike, state)

	_, err = uc.RecordSwipe(ctx, a, b, domain.SwipeActionLike)
	require.NoError(t, err)
	state, err = uc.GetPairState(ctx, b, a)
	require.NoError(t, err)
	assert.Equal(t, domain.PairStateMatched, state)
}

func TestGetLikesReceivedSkipsMissingProfiles(t *testing.T) {
	s := &store{}
	liker, ghost, me := uuid.New(), uuid.New(), uuid.New()
	profiles := profileRepoFake{profiles: map[uuid.UUID]*domain.Profile{
		liker: {UserID: liker, DisplayName: "Liker"},
	}}
	uc := NewSwipeUseCase(swipeRepoFake{s}, matchRepoFake{s}, profiles, nil, zap.NewNop())
	ctx := context.Background()

	_, err := uc.RecordSwipe(ctx, liker, me, domain.SwipeActionSuperLike)
	require.NoError(t, err)
	_, err = uc.RecordSwipe(ctx, ghost, me, domain.SwipeActionLike)
	require.NoError(t, err)

	likes, err := uc.GetLikesReceived(ctx, me, 20, 0)
	require.NoError(t, err)
	require.Len(t, likes, 1)
	assert.Equal(t, "Liker", likes[0].User.DisplayName)
	assert.Equal(t, domain.SwipeActionSuperLike, likes[0].Action)
}

func TestGetLikesReceivedClampsPaging(t *testing.T) {
	s := &store{}
	uc := NewSwipeUseCase(swipeRepoFake{s}, matchRepoFake{s}, profileRepoFake{}, nil, zap.NewNop())
	me := uuid.New()

	cases := []struct {
		limit, offset         int
		wantLimit, wantOffset int
	}{
		{-1, -5, 20, 0},
		{0, 0, 20, 0},
		{5000, 40, 100, 40},
		{30, 10, 30, 10},
	}
	for _, tc := range cases {
		likes, err := uc.GetLikesReceived(context.Background(), me, tc.limit, tc.offset)
		require.NoError(t, err)
		assert.NotNil(t, likes)
		assert.Equal(t, tc.wantLimit, s.likesLimit, "limit %d", tc.limit)
		assert.Equal(t, tc.wantOffset, s.likesOffset, "offset %d", tc.offset)
	}
}
