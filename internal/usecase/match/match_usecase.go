package match

import (
	"context"
	"fmt"
	"time"

	"github.com/gdugdh24/collabswipe-backend/internal/domain"
	"github.com/gdugdh24/collabswipe-backend/internal/infrastructure/gemini"
	"github.com/gdugdh24/collabswipe-backend/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// reconcileBatch bounds how many orphan matches one Reconcile call repairs.
const reconcileBatch = 100

type MatchUseCase struct {
	matchRepo   repository.MatchRepository
	convRepo    repository.ConversationRepository
	profileRepo repository.ProfileRepository
	writer      gemini.Writer
	log         *zap.Logger
}

func NewMatchUseCase(
	matchRepo repository.MatchRepository,
	convRepo repository.ConversationRepository,
	profileRepo repository.ProfileRepository,
	writer gemini.Writer,
	log *zap.Logger,
) *MatchUseCase {
	return &MatchUseCase{
		matchRepo:   matchRepo,
		convRepo:    convRepo,
		profileRepo: profileRepo,
		writer:      writer,
		log:         log,
	}
}

// MatchView is a match as seen by one of its participants
type MatchView struct {
	ID             uuid.UUID       `json:"id"`
	MatchedUser    *domain.Profile `json:"matched_user"`
	ConversationID *uuid.UUID      `json:"conversation_id"`
	CreatedAt      time.Time       `json:"created_at"`
}

// ListMatches returns the user's active matches, newest first
func (uc *MatchUseCase) ListMatches(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*MatchView, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	matches, err := uc.matchRepo.ListActiveForUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	if len(matches) == 0 {
		return []*MatchView{}, nil
	}

	otherIDs := make([]uuid.UUID, 0, len(matches))
	for _, m := range matches {
		other, _ := m.GetOtherUserID(userID)
		otherIDs = append(otherIDs, other)
	}

	profiles, err := uc.profileRepo.GetByUserIDs(ctx, otherIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load matched profiles: %w", err)
	}
	byUser := make(map[uuid.UUID]*domain.Profile, len(profiles))
	for _, p := range profiles {
		byUser[p.UserID] = p
	}

	views := make([]*MatchView, 0, len(matches))
	for i, m := range matches {
		views = append(views, &MatchView{
			ID:             m.ID,
			MatchedUser:    byUser[otherIDs[i]],
			ConversationID: m.ConversationID,
			CreatedAt:      m.CreatedAt,
		})
	}
	return views, nil
}

// Icebreakers suggests opening lines for a match
func (uc *MatchUseCase) Icebreakers(ctx context.Context, userID, matchID uuid.UUID) ([]string, error) {
	m, err := uc.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	otherID, ok := m.GetOtherUserID(userID)
	if !ok {
		return nil, domain.ErrNotParticipant
	}

	profiles, err := uc.profileRepo.GetByUserIDs(ctx, []uuid.UUID{userID, otherID})
	if err != nil {
		return nil, fmt.Errorf("failed to load profiles: %w", err)
	}

	var me, them gemini.Brief
	for _, p := range profiles {
		switch p.UserID {
		case userID:
			me = brief(p)
		case otherID:
			them = brief(p)
		}
	}

	if uc.writer != nil {
		lines, err := uc.writer.GenerateIcebreakers(ctx, me, them)
		if err == nil {
			return lines, nil
		}
		uc.log.Warn("icebreaker generation failed, using templates",
			zap.String("match_id", matchID.String()), zap.Error(err))
	}
	return gemini.FallbackIcebreakers(me, them), nil
}

// Reconcile creates the missing conversation of matches that have none and
// returns how many were repaired.
func (uc *MatchUseCase) Reconcile(ctx context.Context) (int, error) {
	orphans, err := uc.matchRepo.ListWithoutConversation(ctx, reconcileBatch)
	if err != nil {
		return 0, fmt.Errorf("failed to list orphan matches: %w", err)
	}

	repaired := 0
	for _, m := range orphans {
		if err := ctx.Err(); err != nil {
			return repaired, err
		}
		conv := &domain.Conversation{MatchID: m.ID}
		if err := uc.convRepo.Create(ctx, conv); err != nil {
			uc.log.Error("failed to create missing conversation",
				zap.String("match_id", m.ID.String()), zap.Error(err))
			continue
		}
		repaired++
	}

	if len(orphans) > 0 {
		uc.log.Info("reconciled matches",
			zap.Int("found", len(orphans)), zap.Int("repaired", repaired))
	}
	return repaired, nil
}

func brief(p *domain.Profile) gemini.Brief {
	b := gemini.Brief{
		Name:      p.DisplayName,
		Skills:    p.Skills,
		Interests: p.Interests,
	}
	if p.Role != nil {
		b.Role = *p.Role
	}
	return b
}
