package duel

import (
	"log"
	"sync"
	"time"

	"github.com/omega-realm/arena/internal/combat"
	apperrors "github.com/omega-realm/arena/internal/errors"
	"github.com/omega-realm/arena/internal/models"
)

// Manager owns pending requests, active duels and the exclusion map.
//
// Lock order is Duel.mu before Manager.mu.
type Manager struct {
	mu       sync.Mutex
	requests map[string]*Request
	duels    map[string]*Duel
	byPlayer map[string]string

	rng   combat.Roller
	newID func() string
	now   func() time.Time
}

// NewManager returns an empty manager. newID must return unique ids.
func NewManager(rng combat.Roller, newID func() string, now func() time.Time) *Manager {
	if now == nil {
		now = time.Now
	}
	return &Manager{
		requests: make(map[string]*Request),
		duels:    make(map[string]*Duel),
		byPlayer: make(map[string]string),
		rng:      rng,
		newID:    newID,
		now:      now,
	}
}

// CreateRequest records a pending challenge from challenger to target.
func (m *Manager) CreateRequest(challenger, target *models.Player) (Request, error) {
	if challenger.ID == target.ID {
		return Request{}, apperrors.ErrSelfTarget
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, busy := m.byPlayer[challenger.ID]; busy {
		return Request{}, apperrors.ErrBusy
	}
	if _, busy := m.byPlayer[target.ID]; busy {
		return Request{}, apperrors.ErrBusy
	}

	req := &Request{
		ID:             m.newID(),
		ChallengerID:   challenger.ID,
		ChallengerName: challenger.Name,
		TargetID:       target.ID,
		TargetName:     target.Name,
		Status:         StatusPending,
		CreatedAt:      m.now(),
	}
	m.requests[req.ID] = req
	log.Printf("[Duel] %s challenged %s (request %s)", challenger.ID, target.ID, req.ID)
	return *req, nil
}

// Request returns a copy of the request with id.
func (m *Manager) Request(id string) (Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	req, ok := m.requests[id]
	if !ok {
		return Request{}, apperrors.ErrRequestNotFound
	}
	return *req, nil
}

// pendingLocked validates that id is a pending request. Callers hold m.mu.
func (m *Manager) pendingLocked(id string) (*Request, error) {
	req, ok := m.requests[id]
	if !ok {
		return nil, apperrors.ErrRequestNotFound
	}
	if req.Status != StatusPending {
		return nil, apperrors.ErrAlreadyResolved
	}
	return req, nil
}

// Decline rejects a pending request. Only the target may decline.
func (m *Manager) Decline(requestID, responderID string) (Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	req, err := m.pendingLocked(requestID)
	if err != nil {
		return Request{}, err
	}
	if req.TargetID != responderID {
		return Request{}, apperrors.ErrForbidden
	}
	req.Status = StatusDeclined
	delete(m.requests, requestID)
	return *req, nil
}

// Cancel withdraws a pending request. Only the challenger may cancel.
func (m *Manager) Cancel(requestID, challengerID string) (Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	req, err := m.pendingLocked(requestID)
	if err != nil {
		return Request{}, err
	}
	if req.ChallengerID != challengerID {
		return Request{}, apperrors.ErrForbidden
	}
	req.Status = StatusCancelled
	delete(m.requests, requestID)
	return *req, nil
}

// Accept starts the duel for a pending request. The challenger and target
// records supply the stats frozen into the duel. If either player already
// occupies a duel the request stays pending and ErrBusy is returned.
func (m *Manager) Accept(requestID, responderID string, challenger, target *models.Player) (View, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	req, err := m.pendingLocked(requestID)
	if err != nil {
		return View{}, err
	}
	if req.TargetID != responderID {
		return View{}, apperrors.ErrForbidden
	}
	if challenger.ID != req.ChallengerID || target.ID != req.TargetID {
		return View{}, apperrors.ErrNotParticipant
	}
	if _, busy := m.byPlayer[req.ChallengerID]; busy {
		return View{}, apperrors.ErrBusy
	}
	if _, busy := m.byPlayer[req.TargetID]; busy {
		return View{}, apperrors.ErrBusy
	}

	d := &Duel{id: req.ID, turn: m.rng.Intn(2), startedAt: m.now()}
	d.players[0], d.sides[0] = freeze(challenger)
	d.players[1], d.sides[1] = freeze(target)
	d.addLog("The duel begins!")

	req.Status = StatusAccepted
	m.duels[d.id] = d
	m.byPlayer[req.ChallengerID] = d.id
	m.byPlayer[req.TargetID] = d.id
	log.Printf("[Duel] %s started: %s vs %s", d.id, req.ChallengerID, req.TargetID)
	return d.viewLocked(), nil
}

// DuelOf returns the id of the duel playerID occupies.
func (m *Manager) DuelOf(playerID string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.byPlayer[playerID]
	return id, ok
}

// InDuel reports whether playerID occupies a duel.
func (m *Manager) InDuel(playerID string) bool {
	_, ok := m.DuelOf(playerID)
	return ok
}

func (m *Manager) get(duelID string) (*Duel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.duels[duelID]
	if !ok {
		return nil, apperrors.ErrDuelNotFound
	}
	return d, nil
}

// View returns a snapshot of an active duel.
func (m *Manager) View(duelID string) (View, error) {
	d, err := m.get(duelID)
	if err != nil {
		return View{}, err
	}
	return d.View(), nil
}

// AttachView stores an opaque view reference for playerID's side.
func (m *Manager) AttachView(duelID, playerID, ref string) error {
	d, err := m.get(duelID)
	if err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	i := d.index(playerID)
	if i < 0 {
		return apperrors.ErrNotParticipant
	}
	d.views[i] = ref
	return nil
}

// release removes a concluded duel. Callers hold d.mu.
func (m *Manager) release(d *Duel) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.duels, d.id)
	delete(m.requests, d.id)
	for _, p := range d.players {
		if m.byPlayer[p.ID] == d.id {
			delete(m.byPlayer, p.ID)
		}
	}
}

// ActiveCount returns how many duels are running.
func (m *Manager) ActiveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.duels)
}
