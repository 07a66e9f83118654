package game

import (
	"context"
	"strconv"
	"time"

	"github.com/omega-realm/arena/internal/achievements"
	apperrors "github.com/omega-realm/arena/internal/errors"
	"github.com/omega-realm/arena/internal/models"
	"github.com/omega-realm/arena/internal/progression"
	"github.com/omega-realm/arena/internal/rewards"
)

// DailyCooldown is the wait between daily rewards.
const DailyCooldown = 24 * time.Hour

// dailyRewards is indexed by streak day minus one; the streak wraps after
// the last entry.
var dailyRewards = []models.Reward{
	{Gold: 10, XP: 20, Item: models.ItemSmallPotion},
	{Gold: 15, XP: 25, Item: models.ItemStrengthRune},
	{Gold: 20, XP: 30, Item: models.ItemLeatherArmor},
	{Gold: 25, XP: 35, Item: models.ItemSmallPotion},
	{Gold: 30, XP: 40, Item: models.ItemLuckElixir},
	{Gold: 35, XP: 45, Item: models.ItemTeleportScroll},
	{Gold: 50, XP: 60, Item: models.ItemLargePotion},
}

// DailyResult describes a claimed daily reward.
type DailyResult struct {
	Streak       int                  `json:"streak"`
	Rewards      rewards.Outcome      `json:"rewards"`
	Achievements []achievements.Award `json:"achievements,omitempty"`
	Levels       progression.LevelUps `json:"levels,omitempty"`
}

func (r DailyResult) String() string {
	s := "Daily reward, day " + strconv.Itoa(r.Streak) + ": " + r.Rewards.String()
	for _, a := range r.Achievements {
		s += a.String()
	}
	return s + r.Levels.String()
}

func claimDaily(p *models.Player, now time.Time) (DailyResult, error) {
	if left := cooldownLeft(p.LastDailyReward, DailyCooldown, now); left > 0 {
		return DailyResult{}, apperrors.Cooldown(left)
	}
	streak := p.DailyStreak + 1
	if streak > len(dailyRewards) {
		streak = 1
	}
	p.DailyStreak = streak
	p.LastDailyReward = &now

	res := DailyResult{Streak: streak}
	res.Rewards = rewards.Grant(p, dailyRewards[streak-1], now)
	earned := achievements.CheckAll(p, now, achievements.TriggerDaily, achievements.TriggerInventory)
	res.Achievements = achievements.Settle(p, earned)
	res.Levels = progression.ApplyLevelUps(p)
	return res, nil
}

// ClaimDaily pays the daily reward once every 24 hours.
func (s *Service) ClaimDaily(ctx context.Context, playerID string) (res DailyResult, err error) {
	ctx, span := s.startSpan(ctx, "ClaimDaily", playerID)
	defer func() { endSpan(span, err) }()

	_, err = s.update(ctx, playerID, func(p *models.Player, now time.Time) error {
		var claimErr error
		res, claimErr = claimDaily(p, now)
		return claimErr
	})
	return res, err
}
