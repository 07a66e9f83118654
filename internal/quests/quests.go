// Package quests tracks quest instances and advances them from game events.
package quests

import (
	"fmt"
	"time"

	"github.com/omega-realm/arena/internal/achievements"
	apperrors "github.com/omega-realm/arena/internal/errors"
	"github.com/omega-realm/arena/internal/models"
	"github.com/omega-realm/arena/internal/progression"
	"github.com/omega-realm/arena/internal/rewards"
)

// Roller supplies random integers; *math/rand.Rand satisfies it.
type Roller interface {
	Intn(n int) int
}

// maxIDAttempts bounds the search for a free quest instance id.
const maxIDAttempts = 16

func instantiate(t Template, id string, now time.Time) *models.Quest {
	return &models.Quest{
		ID:          id,
		TemplateID:  t.ID,
		Title:       t.Title,
		Description: t.Description,
		TargetType:  t.TargetType,
		Required:    t.Required,
		Status:      models.QuestActive,
		Reward:      t.Reward,
		StartedAt:   now,
	}
}

// GrantStarter gives the starter quest regardless of the active cap. It is a
// no-op when the player already holds it.
func GrantStarter(p *models.Player, now time.Time) *models.Quest {
	if q, ok := p.Quests[StarterID]; ok {
		return q
	}
	q := instantiate(templates[StarterID], StarterID, now)
	p.Quests[StarterID] = q
	return q
}

// Start instantiates the fixed template id under its own id.
func Start(p *models.Player, templateID string, now time.Time) (*models.Quest, error) {
	t, ok := templates[templateID]
	if !ok {
		return nil, apperrors.WithMetadata(apperrors.CodeUnknownQuest,
			fmt.Sprintf("unknown quest %q", templateID), map[string]string{"quest": templateID})
	}
	if _, held := p.Quests[templateID]; held {
		return nil, apperrors.New(apperrors.CodeAlreadyExists, "quest already taken")
	}
	if len(p.ActiveQuests()) >= MaxActive {
		return nil, apperrors.ErrQuestCapReached
	}
	q := instantiate(t, templateID, now)
	p.Quests[templateID] = q
	return q, nil
}

// StartRandom generates a level-scaled quest and stores it under the first id
// from newID that the player does not already hold.
func StartRandom(p *models.Player, r Roller, newID func() string, now time.Time) (*models.Quest, error) {
	if len(p.ActiveQuests()) >= MaxActive {
		return nil, apperrors.ErrQuestCapReached
	}
	id := ""
	for i := 0; i < maxIDAttempts; i++ {
		candidate := newID()
		if _, taken := p.Quests[candidate]; !taken && candidate != "" {
			id = candidate
			break
		}
	}
	if id == "" {
		return nil, fmt.Errorf("allocate quest id: %d attempts collided", maxIDAttempts)
	}
	q := instantiate(GenerateRandom(r, p.Level), id, now)
	p.Quests[id] = q
	return q, nil
}

// Update reports what one event did to one quest.
type Update struct {
	QuestID   string `json:"quest_id"`
	Title     string `json:"title"`
	Progress  int    `json:"progress"`
	Required  int    `json:"required"`
	Completed bool   `json:"completed"`

	// Set only when the quest completed.
	Rewards      *rewards.Outcome     `json:"rewards,omitempty"`
	Achievements []achievements.Award `json:"achievements,omitempty"`
	Levels       progression.LevelUps `json:"levels,omitempty"`
}

func (u Update) String() string {
	if !u.Completed {
		return fmt.Sprintf("\nQuest '%s': progress %d/%d.", u.Title, u.Progress, u.Required)
	}
	s := fmt.Sprintf("\nQuest '%s' completed! %s", u.Title, u.Rewards)
	for _, a := range u.Achievements {
		s += a.String()
	}
	return s + u.Levels.String()
}

// Updates is the ordered list of quest changes from one event.
type Updates []Update

func (us Updates) String() string {
	s := ""
	for _, u := range us {
		s += u.String()
	}
	return s
}

// UpdateOnKill advances every active quest that targets enemyType or counts
// any kill. One kill may advance several quests.
func UpdateOnKill(p *models.Player, enemyType string, now time.Time) Updates {
	return advance(p, now, 1, func(q *models.Quest) bool {
		return q.TargetType == enemyType || q.TargetType == TargetEnemiesKilled
	})
}

// Advance adds amount to every active quest with exactly targetType.
func Advance(p *models.Player, targetType string, amount int, now time.Time) Updates {
	if amount <= 0 {
		return nil
	}
	return advance(p, now, amount, func(q *models.Quest) bool {
		return q.TargetType == targetType
	})
}

func advance(p *models.Player, now time.Time, amount int, match func(*models.Quest) bool) Updates {
	var updates Updates
	for _, q := range p.ActiveQuests() {
		if !match(q) {
			continue
		}
		q.Progress += amount
		u := Update{QuestID: q.ID, Title: q.Title, Required: q.Required}
		if q.Progress >= q.Required {
			q.Progress = q.Required
			q.Status = models.QuestCompleted
			done := now
			q.CompletedAt = &done

			outcome := rewards.Grant(p, q.Reward, now)
			earned := achievements.Check(p, achievements.TriggerQuestComplete, now)
			u.Achievements = achievements.Settle(p, earned)
			u.Levels = progression.ApplyLevelUps(p)
			u.Completed = true
			u.Rewards = &outcome
		}
		u.Progress = q.Progress
		updates = append(updates, u)
	}
	return updates
}
