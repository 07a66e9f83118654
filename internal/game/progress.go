package game

import (
	"context"
	"sort"
	"time"

	"github.com/omega-realm/arena/internal/achievements"
	"github.com/omega-realm/arena/internal/combat"
	apperrors "github.com/omega-realm/arena/internal/errors"
	"github.com/omega-realm/arena/internal/models"
	"github.com/omega-realm/arena/internal/progression"
	"github.com/omega-realm/arena/internal/quests"
	"github.com/omega-realm/arena/internal/rewards"
)

// GrantRewards runs the reward cascade for an externally granted bundle.
func (s *Service) GrantRewards(ctx context.Context, playerID string, reward models.Reward) (out rewards.Outcome, err error) {
	ctx, span := s.startSpan(ctx, "GrantRewards", playerID)
	defer func() { endSpan(span, err) }()

	if reward.XP < 0 || reward.Gold < 0 {
		return rewards.Outcome{}, apperrors.WithMetadata(apperrors.CodeInvalidInput,
			"reward amounts must not be negative", map[string]string{"field": "reward"})
	}
	if reward.Item != "" {
		if _, ok := models.LookupItem(reward.Item); !ok {
			return rewards.Outcome{}, apperrors.WithMetadata(apperrors.CodeUnknownItem,
				"unknown item "+reward.Item, map[string]string{"item": reward.Item})
		}
	}

	_, err = s.update(ctx, playerID, func(p *models.Player, now time.Time) error {
		out = rewards.Grant(p, reward, now)
		return nil
	})
	return out, err
}

// AchievementResult lists what an achievement check paid out.
type AchievementResult struct {
	Achievements []achievements.Award `json:"achievements"`
	Levels       progression.LevelUps `json:"levels,omitempty"`
}

// CheckAchievements evaluates the achievements bound to trigger, pays the
// newly earned ones and settles any level-ups they cause.
func (s *Service) CheckAchievements(ctx context.Context, playerID string, trigger achievements.Trigger) (res AchievementResult, err error) {
	ctx, span := s.startSpan(ctx, "CheckAchievements", playerID)
	defer func() { endSpan(span, err) }()

	_, err = s.update(ctx, playerID, func(p *models.Player, now time.Time) error {
		res.Achievements = achievements.Settle(p, achievements.Check(p, trigger, now))
		res.Levels = progression.ApplyLevelUps(p)
		return nil
	})
	return res, err
}

// UpdateQuestsOnKill advances the player's quests for a kill of enemyType.
func (s *Service) UpdateQuestsOnKill(ctx context.Context, playerID, enemyType string) (updates quests.Updates, err error) {
	ctx, span := s.startSpan(ctx, "UpdateQuestsOnKill", playerID)
	defer func() { endSpan(span, err) }()

	if !knownEnemy(enemyType) {
		return nil, apperrors.WithMetadata(apperrors.CodeInvalidInput,
			"unknown enemy type "+enemyType, map[string]string{"enemy_type": enemyType})
	}
	_, err = s.update(ctx, playerID, func(p *models.Player, now time.Time) error {
		updates = quests.UpdateOnKill(p, enemyType, now)
		return nil
	})
	return updates, err
}

func knownEnemy(kind string) bool {
	for _, t := range combat.EnemyTypes() {
		if t == kind {
			return true
		}
	}
	return false
}

// StartQuest takes the fixed quest templateID.
func (s *Service) StartQuest(ctx context.Context, playerID, templateID string) (q *models.Quest, err error) {
	ctx, span := s.startSpan(ctx, "StartQuest", playerID)
	defer func() { endSpan(span, err) }()

	_, err = s.update(ctx, playerID, func(p *models.Player, now time.Time) error {
		var startErr error
		q, startErr = quests.Start(p, templateID, now)
		return startErr
	})
	return q, err
}

// StartRandomQuest takes a level-scaled random quest.
func (s *Service) StartRandomQuest(ctx context.Context, playerID string) (q *models.Quest, err error) {
	ctx, span := s.startSpan(ctx, "StartRandomQuest", playerID)
	defer func() { endSpan(span, err) }()

	_, err = s.update(ctx, playerID, func(p *models.Player, now time.Time) error {
		var startErr error
		q, startErr = quests.StartRandom(p, s.rng, s.newID, now)
		return startErr
	})
	return q, err
}

// ListQuests returns the player's quests, active first, oldest first.
func (s *Service) ListQuests(ctx context.Context, playerID string) ([]*models.Quest, error) {
	p, err := s.store.GetPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}
	out := make([]*models.Quest, 0, len(p.Quests))
	for _, q := range p.Quests {
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Status != out[j].Status {
			return out[i].Status == models.QuestActive
		}
		if !out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].StartedAt.Before(out[j].StartedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// EarnedAchievement pairs a catalog entry with its earn time.
type EarnedAchievement struct {
	achievements.Definition
	EarnedAt *time.Time `json:"earned_at,omitempty"`
}

// ListAchievements returns the whole catalog with the player's earn times.
func (s *Service) ListAchievements(ctx context.Context, playerID string) ([]EarnedAchievement, error) {
	p, err := s.store.GetPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}
	all := achievements.All()
	out := make([]EarnedAchievement, len(all))
	for i, d := range all {
		out[i] = EarnedAchievement{Definition: d}
		if at, ok := p.Achievements[string(d.ID)]; ok {
			at := at
			out[i].EarnedAt = &at
		}
	}
	return out, nil
}
