package game

import (
	"context"
	"fmt"
	"time"

	"github.com/omega-realm/arena/internal/achievements"
	"github.com/omega-realm/arena/internal/combat"
	apperrors "github.com/omega-realm/arena/internal/errors"
	"github.com/omega-realm/arena/internal/models"
	"github.com/omega-realm/arena/internal/progression"
	"github.com/omega-realm/arena/internal/quests"
)

// CasinoCooldown is the wait between two casino games.
const CasinoCooldown = 30 * time.Second

// CasinoGame is a table in the casino.
type CasinoGame struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Multiplier float64 `json:"multiplier"`
	WinChance  float64 `json:"win_chance"`
	MinBet     int     `json:"min_bet"`
}

var casinoGames = []CasinoGame{
	{ID: "double", Name: "Double", Multiplier: 2, WinChance: 0.45, MinBet: 5},
	{ID: "dice", Name: "Dice", Multiplier: 1.5, WinChance: 0.5, MinBet: 5},
	{ID: "roulette", Name: "Roulette", Multiplier: 2, WinChance: 0.4, MinBet: 5},
	{ID: "slots", Name: "Slots", Multiplier: 3, WinChance: 0.3, MinBet: 10},
	{ID: "blackjack", Name: "Blackjack", Multiplier: 2.5, WinChance: 0.48, MinBet: 8},
}

// CasinoGames lists the tables in display order.
func CasinoGames() []CasinoGame {
	return append([]CasinoGame(nil), casinoGames...)
}

func lookupGame(id string) (CasinoGame, bool) {
	for _, g := range casinoGames {
		if g.ID == id {
			return g, true
		}
	}
	return CasinoGame{}, false
}

// CasinoResult describes one game.
type CasinoResult struct {
	Game         string               `json:"game"`
	Bet          int                  `json:"bet"`
	Won          bool                 `json:"won"`
	Payout       int                  `json:"payout"`
	Gold         int                  `json:"gold"`
	Streak       int                  `json:"streak"`
	Quests       quests.Updates       `json:"quests,omitempty"`
	Achievements []achievements.Award `json:"achievements,omitempty"`
	Levels       progression.LevelUps `json:"levels,omitempty"`
}

func (r CasinoResult) String() string {
	var s string
	if r.Won {
		s = fmt.Sprintf("You won %d gold at %s! Streak: %d.", r.Payout, r.Game, r.Streak)
	} else {
		s = fmt.Sprintf("You lost %d gold at %s.", r.Bet, r.Game)
	}
	for _, a := range r.Achievements {
		s += a.String()
	}
	return s + r.Levels.String() + r.Quests.String()
}

// playCasino settles one bet. The bet is taken first and a win pays bet
// times the multiplier, rounded down.
func playCasino(p *models.Player, gameID string, bet int, r combat.Roller, now time.Time) (CasinoResult, error) {
	game, ok := lookupGame(gameID)
	if !ok {
		return CasinoResult{}, apperrors.WithMetadata(apperrors.CodeInvalidBet,
			"unknown game "+gameID, map[string]string{"game": gameID})
	}
	if bet < game.MinBet {
		return CasinoResult{}, apperrors.WithMetadata(apperrors.CodeInvalidBet,
			fmt.Sprintf("minimum bet for %s is %d gold", game.Name, game.MinBet),
			map[string]string{"game": game.ID, "min_bet": fmt.Sprint(game.MinBet)})
	}
	if p.Gold < bet {
		return CasinoResult{}, apperrors.ErrInsufficientFunds
	}
	if left := cooldownLeft(p.LastCasinoPlay, CasinoCooldown, now); left > 0 {
		return CasinoResult{}, apperrors.Cooldown(left)
	}

	p.Gold -= bet
	p.LastCasinoPlay = &now
	res := CasinoResult{Game: game.Name, Bet: bet}

	if r.Float64() < game.WinChance {
		res.Won = true
		res.Payout = int(float64(bet) * game.Multiplier)
		p.Gold += res.Payout
		p.CasinoWinStreak++
		p.CasinoTotalWins++
		earned := achievements.CheckAll(p, now, achievements.TriggerCasinoWin, achievements.TriggerGold)
		res.Achievements = achievements.Settle(p, earned)
		res.Levels = progression.ApplyLevelUps(p)
	} else {
		p.CasinoWinStreak = 0
	}

	res.Quests = quests.Advance(p, quests.TargetCasinoPlays, 1, now)
	if profit := res.Payout - bet; profit > 0 {
		res.Quests = append(res.Quests, quests.Advance(p, quests.TargetGoldEarned, profit, now)...)
	}
	res.Gold = p.Gold
	res.Streak = p.CasinoWinStreak
	return res, nil
}

// PlayCasino bets gold on one of the casino games.
func (s *Service) PlayCasino(ctx context.Context, playerID, gameID string, bet int) (res CasinoResult, err error) {
	ctx, span := s.startSpan(ctx, "PlayCasino", playerID)
	defer func() { endSpan(span, err) }()

	_, err = s.update(ctx, playerID, func(p *models.Player, now time.Time) error {
		var playErr error
		res, playErr = playCasino(p, gameID, bet, s.rng, now)
		return playErr
	})
	return res, err
}
