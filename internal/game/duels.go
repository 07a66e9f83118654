package game

import (
	"context"
	"log"

	"github.com/omega-realm/arena/internal/combat"
	"github.com/omega-realm/arena/internal/duel"
	apperrors "github.com/omega-realm/arena/internal/errors"
	"github.com/omega-realm/arena/internal/models"
	"github.com/omega-realm/arena/internal/storage"
)

// CreateDuelRequest records a challenge from challengerID to targetID.
func (s *Service) CreateDuelRequest(ctx context.Context, challengerID, targetID string) (req duel.Request, err error) {
	ctx, span := s.startSpan(ctx, "CreateDuelRequest", challengerID)
	defer func() { endSpan(span, err) }()

	if challengerID == targetID {
		return duel.Request{}, apperrors.ErrSelfTarget
	}
	challenger, err := s.store.GetPlayer(ctx, challengerID)
	if err != nil {
		return duel.Request{}, err
	}
	target, err := s.store.GetPlayer(ctx, targetID)
	if err != nil {
		return duel.Request{}, err
	}
	return s.duels.CreateRequest(challenger, target)
}

// DuelResponse is the result of answering a request.
type DuelResponse struct {
	Request duel.Request `json:"request"`
	View    *duel.View   `json:"view,omitempty"`
}

// RespondToDuelRequest accepts or declines a pending request. Accepting
// starts the duel with both players' current effective stats.
func (s *Service) RespondToDuelRequest(ctx context.Context, requestID, responderID string, accept bool) (res DuelResponse, err error) {
	ctx, span := s.startSpan(ctx, "RespondToDuelRequest", responderID)
	defer func() { endSpan(span, err) }()

	if !accept {
		req, err := s.duels.Decline(requestID, responderID)
		if err != nil {
			return DuelResponse{}, err
		}
		return DuelResponse{Request: req}, nil
	}

	req, err := s.duels.Request(requestID)
	if err != nil {
		return DuelResponse{}, err
	}
	if req.TargetID != responderID {
		return DuelResponse{}, apperrors.ErrForbidden
	}

	unlock := s.locks.lock(playerKey(req.ChallengerID), playerKey(req.TargetID))
	defer unlock()

	challenger, err := s.store.GetPlayer(ctx, req.ChallengerID)
	if err != nil {
		return DuelResponse{}, err
	}
	target, err := s.store.GetPlayer(ctx, req.TargetID)
	if err != nil {
		return DuelResponse{}, err
	}

	view, err := s.duels.Accept(requestID, responderID, challenger, target)
	if err != nil {
		return DuelResponse{}, err
	}
	req.Status = duel.StatusAccepted
	s.notify(view)
	return DuelResponse{Request: req, View: &view}, nil
}

// CancelDuelRequest withdraws a pending request.
func (s *Service) CancelDuelRequest(ctx context.Context, requestID, challengerID string) (req duel.Request, err error) {
	_, span := s.startSpan(ctx, "CancelDuelRequest", challengerID)
	defer func() { endSpan(span, err) }()

	return s.duels.Cancel(requestID, challengerID)
}

// DuelActionResult is one resolved duel action, with the settlement when it
// ended the duel.
type DuelActionResult struct {
	duel.ActResult
	Conclusion *duel.Conclusion `json:"conclusion,omitempty"`
}

// Text renders the action for the chat layer.
func (r DuelActionResult) Text() string {
	if r.Conclusion == nil {
		return r.Entry
	}
	return r.Entry + "\n" + r.Conclusion.String()
}

// PerformDuelAction applies action for actorID. When the duel ends both
// persistent records receive the pvp rewards in one commit.
func (s *Service) PerformDuelAction(ctx context.Context, duelID, actorID string, action combat.Action) (res DuelActionResult, err error) {
	ctx, span := s.startSpan(ctx, "PerformDuelAction", actorID)
	defer func() { endSpan(span, err) }()

	view, err := s.duels.View(duelID)
	if err != nil {
		return DuelActionResult{}, err
	}
	if view.Players[0].ID != actorID && view.Players[1].ID != actorID {
		return DuelActionResult{}, apperrors.ErrNotParticipant
	}
	opponentID := view.Opponent(actorID).ID

	unlock := s.locks.lock(playerKey(actorID), playerKey(opponentID))
	defer unlock()

	actor, err := s.store.GetPlayer(ctx, actorID)
	if err != nil {
		return DuelActionResult{}, err
	}
	opponent, err := s.store.GetPlayer(ctx, opponentID)
	if err != nil {
		return DuelActionResult{}, err
	}

	// The duel only advances once the records are written, so a failed
	// commit leaves both the duel and the players as they were.
	act, err := s.duels.ActAndCommit(duelID, actorID, action, actor, func(act duel.ActResult) error {
		var batch storage.Batch
		if act.Ended {
			winner, loser := actor, opponent
			if act.WinnerID != actorID {
				winner, loser = opponent, actor
			}
			c := duel.Conclude(winner, loser, s.now())
			res.Conclusion = &c
			batch.Players = []*models.Player{winner, loser}
		} else if action == combat.ActionPotion && !act.Fizzled {
			batch.Players = []*models.Player{actor}
		}
		if batch.Empty() {
			return nil
		}
		return s.store.Commit(ctx, batch)
	})
	if err != nil {
		return DuelActionResult{}, err
	}
	res.ActResult = act

	if act.Ended && s.board != nil {
		winner, loser := act.View.Players[0], act.View.Players[1]
		if winner.ID != act.WinnerID {
			winner, loser = loser, winner
		}
		if err := s.board.RecordDuel(ctx, winner.ID, winner.Name, loser.ID, loser.Name); err != nil {
			log.Printf("[Game] Failed to record duel %s: %v", duelID, err)
		}
	}
	s.notify(act.View)
	return res, nil
}

// DuelView returns the duel as seen by one of its participants.
func (s *Service) DuelView(ctx context.Context, duelID, playerID string) (duel.View, error) {
	view, err := s.duels.View(duelID)
	if err != nil {
		return duel.View{}, err
	}
	if view.Players[0].ID != playerID && view.Players[1].ID != playerID {
		return duel.View{}, apperrors.ErrNotParticipant
	}
	return view, nil
}

// ActiveDuel returns the view of the duel playerID occupies.
func (s *Service) ActiveDuel(ctx context.Context, playerID string) (duel.View, error) {
	id, ok := s.duels.DuelOf(playerID)
	if !ok {
		return duel.View{}, apperrors.ErrDuelNotFound
	}
	return s.DuelView(ctx, id, playerID)
}
