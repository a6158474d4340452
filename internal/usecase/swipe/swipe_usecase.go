package swipe

import (
	"context"
	"errors"
	"fmt"

	"github.com/gdugdh24/collabswipe-backend/internal/domain"
	"github.com/gdugdh24/collabswipe-backend/internal/infrastructure/realtime"
	"github.com/gdugdh24/collabswipe-backend/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultLikesPage = 20
	maxLikesPage     = 100
)

type SwipeUseCase struct {
	swipeRepo   repository.SwipeRepository
	matchRepo   repository.MatchRepository
	profileRepo repository.ProfileRepository
	events      realtime.Publisher
	log         *zap.Logger
}

func NewSwipeUseCase(
	swipeRepo repository.SwipeRepository,
	matchRepo repository.MatchRepository,
	profileRepo repository.ProfileRepository,
	events realtime.Publisher,
	log *zap.Logger,
) *SwipeUseCase {
	return &SwipeUseCase{
		swipeRepo:   swipeRepo,
		matchRepo:   matchRepo,
		profileRepo: profileRepo,
		events:      events,
		log:         log,
	}
}

// SwipeRequest represents a swipe action
type SwipeRequest struct {
	SwipedUserID uuid.UUID          `json:"swiped_user_id" binding:"required"`
	Action       domain.SwipeAction `json:"action" binding:"required"`
}

// SwipeResult represents swipe result
type SwipeResult struct {
	IsMatch      bool                 `json:"is_match"`
	Swipe        *domain.Swipe        `json:"swipe,omitempty"`
	Match        *domain.Match        `json:"match,omitempty"`
	Conversation *domain.Conversation `json:"conversation,omitempty"`
	MatchedUser  *domain.Profile      `json:"matched_user,omitempty"`
}

// MatchOutcome is the result of match detection for one pair
type MatchOutcome struct {
	IsMatch      bool
	Created      bool
	Match        *domain.Match
	Conversation *domain.Conversation
}

// LikeReceived represents a like waiting for an answer
type LikeReceived struct {
	SwipeID   uuid.UUID          `json:"swipe_id"`
	Action    domain.SwipeAction `json:"action"`
	User      *domain.Profile    `json:"user"`
	CreatedAt string             `json:"created_at"`
}

// RecordSwipe stores the swipe and, for like and super_like, runs match
// detection. Once the swipe is stored the result is always non-nil; a failed
// match step is returned alongside it as a *domain.FlowError.
func (uc *SwipeUseCase) RecordSwipe(ctx context.Context, swiperID, swipedID uuid.UUID, action domain.SwipeAction) (*SwipeResult, error) {
	if swiperID == swipedID {
		return nil, domain.ErrCannotSwipeSelf
	}
	if !action.Valid() {
		return nil, domain.ErrInvalidSwipeAction
	}

	swipe := &domain.Swipe{
		SwiperID: swiperID,
		SwipedID: swipedID,
		Action:   action,
	}
	if err := uc.swipeRepo.Create(ctx, swipe); err != nil {
		uc.log.Error("swipe insert failed",
			zap.String("swiper_id", swiperID.String()),
			zap.String("swiped_id", swipedID.String()),
			zap.Error(err))
		return nil, domain.NewFlowError(domain.StageSwipeInsert, err)
	}

	result := &SwipeResult{Swipe: swipe}
	if !action.IsPositive() {
		return result, nil
	}

	outcome, err := uc.CheckForMatch(ctx, swiperID, swipedID)
	if err != nil {
		return result, err
	}
	if !outcome.IsMatch {
		return result, nil
	}

	result.IsMatch = true
	result.Match = outcome.Match
	result.Conversation = outcome.Conversation

	profile, err := uc.profileRepo.GetByUserID(ctx, swipedID)
	if err == nil {
		result.MatchedUser = profile
	} else if !errors.Is(err, domain.ErrProfileNotFound) {
		uc.log.Warn("failed to load matched profile", zap.String("user_id", swipedID.String()), zap.Error(err))
	}

	return result, nil
}

// CheckForMatch looks for a reciprocal like from targetUserID and, when one
// exists, makes sure the pair has exactly one match and one conversation.
func (uc *SwipeUseCase) CheckForMatch(ctx context.Context, userID, targetUserID uuid.UUID) (*MatchOutcome, error) {
	res, err := uc.matchRepo.CreateIfReciprocal(ctx, userID, targetUserID)
	if err != nil {
		var flowErr *domain.FlowError
		if !errors.As(err, &flowErr) {
			flowErr = domain.NewFlowError(domain.StageMatchQuery, err)
		}
		uc.log.Error("match detection failed",
			zap.String("stage", string(flowErr.Stage)),
			zap.String("user_id", userID.String()),
			zap.String("target_user_id", targetUserID.String()),
			zap.Error(flowErr.Err))
		return &MatchOutcome{}, flowErr
	}

	if !res.Reciprocal {
		return &MatchOutcome{}, nil
	}

	outcome := &MatchOutcome{
		IsMatch:      true,
		Created:      res.Created,
		Match:        res.Match,
		Conversation: res.Conversation,
	}

	if res.Created {
		uc.log.Info("match created",
			zap.String("match_id", res.Match.ID.String()),
			zap.String("user1_id", res.Match.User1ID.String()),
			zap.String("user2_id", res.Match.User2ID.String()))
		uc.announceMatch(ctx, outcome)
	}

	return outcome, nil
}

// GetPairState reports where an unordered pair is in the
// no_interaction -> one_sided_like -> matched progression
func (uc *SwipeUseCase) GetPairState(ctx context.Context, userA, userB uuid.UUID) (domain.PairState, error) {
	if userA == userB {
		return "", domain.ErrCannotSwipeSelf
	}

	_, err := uc.matchRepo.GetByUsers(ctx, userA, userB)
	if err == nil {
		return domain.PairStateMatched, nil
	}
	if !errors.Is(err, domain.ErrMatchNotFound) {
		return "", fmt.Errorf("failed to get match: %w", err)
	}

	for _, pair := range [][2]uuid.UUID{{userA, userB}, {userB, userA}} {
		_, err := uc.swipeRepo.FindPositive(ctx, pair[0], pair[1])
		if err == nil {
			return domain.PairStateOneSidedLike, nil
		}
		if !errors.Is(err, domain.ErrSwipeNotFound) {
			return "", fmt.Errorf("failed to get swipe: %w", err)
		}
	}

	return domain.PairStateNoInteraction, nil
}

// GetLikesReceived returns users who liked userID and are still waiting
func (uc *SwipeUseCase) GetLikesReceived(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*LikeReceived, error) {
	if limit <= 0 {
		limit = defaultLikesPage
	}
	if limit > maxLikesPage {
		limit = maxLikesPage
	}
	if offset < 0 {
		offset = 0
	}

	likes, err := uc.swipeRepo.GetLikesReceived(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get likes received: %w", err)
	}
	if len(likes) == 0 {
		return []*LikeReceived{}, nil
	}

	ids := make([]uuid.UUID, 0, len(likes))
	for _, like := range likes {
		ids = append(ids, like.SwiperID)
	}
	profiles, err := uc.profileRepo.GetByUserIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get profiles: %w", err)
	}
	byUser := make(map[uuid.UUID]*domain.Profile, len(profiles))
	for _, p := range profiles {
		byUser[p.UserID] = p
	}

	responses := make([]*LikeReceived, 0, len(likes))
	for _, like := range likes {
		profile, ok := byUser[like.SwiperID]
		if !ok {
			continue
		}
		responses = append(responses, &LikeReceived{
			SwipeID:   like.ID,
			Action:    like.Action,
			User:      profile,
			CreatedAt: like.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	return responses, nil
}

func (uc *SwipeUseCase) announceMatch(ctx context.Context, outcome *MatchOutcome) {
	if uc.events == nil {
		return
	}

	data := map[string]any{
		"match_id": outcome.Match.ID.String(),
		"user1_id": outcome.Match.User1ID.String(),
		"user2_id": outcome.Match.User2ID.String(),
	}
	if outcome.Conversation != nil {
		data["conversation_id"] = outcome.Conversation.ID.String()
	}

	for _, userID := range []uuid.UUID{outcome.Match.User1ID, outcome.Match.User2ID} {
		err := uc.events.Publish(ctx, realtime.UserTopic(userID), realtime.Event{
			Type: realtime.EventMatchCreated,
			Data: data,
		})
		if err != nil {
			uc.log.Warn("failed to publish match event", zap.String("user_id", userID.String()), zap.Error(err))
		}
	}
}
