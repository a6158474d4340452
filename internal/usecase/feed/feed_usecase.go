package feed

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/gdugdh24/collabswipe-backend/internal/domain"
	"github.com/gdugdh24/collabswipe-backend/internal/repository"
	"github.com/google/uuid"
)

// candidatePool is how many rows are scored before the top of the list is cut.
const candidatePool = 200

type FeedUseCase struct {
	profileRepo repository.ProfileRepository
	projectRepo repository.ProjectRepository
}

func NewFeedUseCase(
	profileRepo repository.ProfileRepository,
	projectRepo repository.ProjectRepository,
) *FeedUseCase {
	return &FeedUseCase{
		profileRepo: profileRepo,
		projectRepo: projectRepo,
	}
}

// Candidate represents a user in the feed
type Candidate struct {
	*domain.Profile
	CompatibilityScore int `json:"compatibility_score"`
}

// ProjectCandidate represents an open project in the feed
type ProjectCandidate struct {
	*domain.Project
	RelevanceScore int `json:"relevance_score"`
}

// GetCandidates returns unswiped onboarded profiles, best match first
func (uc *FeedUseCase) GetCandidates(ctx context.Context, userID uuid.UUID, limit int) ([]*Candidate, error) {
	me, err := uc.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	profiles, err := uc.profileRepo.SearchCandidates(ctx, userID, candidatePool)
	if err != nil {
		return nil, fmt.Errorf("failed to search profiles: %w", err)
	}

	candidates := make([]*Candidate, 0, len(profiles))
	for _, p := range profiles {
		if p.UserID == userID {
			continue
		}
		candidates = append(candidates, &Candidate{
			Profile:            p,
			CompatibilityScore: int(compatibilityScore(me, p) + 0.5),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].CompatibilityScore > candidates[j].CompatibilityScore
	})
	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates, nil
}

// DiscoverProjects returns open projects the user is not part of, ranked by
// how well their tags and needs fit the user's skills and interests
func (uc *FeedUseCase) DiscoverProjects(ctx context.Context, userID uuid.UUID, limit int) ([]*ProjectCandidate, error) {
	me, err := uc.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	projects, err := uc.projectRepo.ListOpen(ctx, userID, candidatePool)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	mine := toSet(me.Skills, me.Interests)
	out := make([]*ProjectCandidate, 0, len(projects))
	for _, p := range projects {
		if p.OwnerID == userID {
			continue
		}
		wanted := toSet(p.Tags, p.LookingFor)
		score := 0.0
		if len(wanted) > 0 {
			score = float64(overlap(wanted, mine)) / float64(len(wanted)) * 100
		}
		out = append(out, &ProjectCandidate{Project: p, RelevanceScore: int(score + 0.5)})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RelevanceScore > out[j].RelevanceScore
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// compatibilityScore calculates a 0-100 score
func compatibilityScore(me, candidate *domain.Profile) float64 {
	score := 0.0

	// 1. Skills the candidate brings that I am looking for (50%)
	skillsScore := 0.0
	wanted := toSet(me.LookingFor)
	if len(wanted) > 0 {
		skillsScore = float64(overlap(wanted, toSet(candidate.Skills))) / float64(len(wanted))
	} else {
		// Neutral when I have not said what I need
		skillsScore = 0.5
	}
	score += skillsScore * 50

	// 2. Shared interests, Jaccard index (30%)
	score += jaccard(toSet(me.Interests), toSet(candidate.Interests)) * 30

	// 3. Same location (20%)
	if me.Location != nil && candidate.Location != nil &&
		strings.EqualFold(strings.TrimSpace(*me.Location), strings.TrimSpace(*candidate.Location)) {
		score += 20
	}

	return score
}

func toSet(lists ...[]string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, list := range lists {
		for _, item := range list {
			if item = strings.ToLower(strings.TrimSpace(item)); item != "" {
				set[item] = struct{}{}
			}
		}
	}
	return set
}

func overlap(a, b map[string]struct{}) int {
	n := 0
	for item := range a {
		if _, ok := b[item]; ok {
			n++
		}
	}
	return n
}

func jaccard(a, b map[string]struct{}) float64 {
	common := overlap(a, b)
	union := len(a) + len(b) - common
	if union == 0 {
		return 0
	}
	return float64(common) / float64(union)
}
