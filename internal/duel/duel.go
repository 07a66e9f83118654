// Package duel runs player-versus-player duels: challenge requests, the
// one-duel-per-player exclusion map and turn-based resolution over frozen
// combat snapshots.
package duel

import (
	"fmt"
	"sync"
	"time"

	"github.com/omega-realm/arena/internal/models"
)

// LogSize is how many log entries a duel keeps.
const LogSize = 6

// RequestStatus is the lifecycle state of a challenge.
type RequestStatus string

const (
	StatusPending   RequestStatus = "pending"
	StatusAccepted  RequestStatus = "accepted"
	StatusDeclined  RequestStatus = "declined"
	StatusCancelled RequestStatus = "cancelled"
)

// Request is a challenge from one player to another.
type Request struct {
	ID             string        `json:"id"`
	ChallengerID   string        `json:"challenger_id"`
	ChallengerName string        `json:"challenger_name"`
	TargetID       string        `json:"target_id"`
	TargetName     string        `json:"target_name"`
	Status         RequestStatus `json:"status"`
	CreatedAt      time.Time     `json:"created_at"`
}

// Participant identifies one side of a duel.
type Participant struct {
	ID    string       `json:"id"`
	Name  string       `json:"name"`
	Class models.Class `json:"class"`
}

// Side is the frozen combat state of one participant.
type Side struct {
	HP          int  `json:"hp"`
	MaxHP       int  `json:"max_hp"`
	Attack      int  `json:"attack"`
	Defense     int  `json:"defense"`
	AbilityUsed bool `json:"ability_used"`
}

func freeze(p *models.Player) (Participant, Side) {
	s := p.EffectiveStats()
	return Participant{ID: p.ID, Name: p.Name, Class: p.Class},
		Side{HP: s.MaxHP, MaxHP: s.MaxHP, Attack: s.Attack, Defense: s.Defense}
}

// Duel is an active duel. All fields are guarded by mu.
type Duel struct {
	mu sync.Mutex

	id        string
	players   [2]Participant
	sides     [2]Side
	turn      int
	log       []string
	views     [2]string
	concluded bool
	startedAt time.Time
}

func (d *Duel) index(playerID string) int {
	for i, p := range d.players {
		if p.ID == playerID {
			return i
		}
	}
	return -1
}

func (d *Duel) addLog(format string, args ...any) {
	d.log = append(d.log, fmt.Sprintf(format, args...))
	if len(d.log) > LogSize {
		d.log = append([]string(nil), d.log[len(d.log)-LogSize:]...)
	}
}

// View is a read-only snapshot of a duel for rendering.
type View struct {
	ID        string         `json:"id"`
	Players   [2]Participant `json:"players"`
	Sides     [2]Side        `json:"sides"`
	TurnID    string         `json:"turn_id"`
	Log       []string       `json:"log"`
	Views     [2]string      `json:"views,omitempty"`
	Concluded bool           `json:"concluded"`
	StartedAt time.Time      `json:"started_at"`
}

// Opponent returns the participant facing playerID.
func (v View) Opponent(playerID string) Participant {
	if v.Players[0].ID == playerID {
		return v.Players[1]
	}
	return v.Players[0]
}

func (d *Duel) viewLocked() View {
	return View{
		ID:        d.id,
		Players:   d.players,
		Sides:     d.sides,
		TurnID:    d.players[d.turn].ID,
		Log:       append([]string(nil), d.log...),
		Views:     d.views,
		Concluded: d.concluded,
		StartedAt: d.startedAt,
	}
}

// View returns a snapshot of the duel.
func (d *Duel) View() View {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.viewLocked()
}
