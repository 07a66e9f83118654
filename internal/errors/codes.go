// Package errors provides the outcome signals returned by the game engine.
//
// None of these are fatal: every code describes a rejected action the caller
// reports back to the player while the player record stays unmodified.
package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Economy errors
	CodeInsufficientFunds     Code = "INSUFFICIENT_FUNDS"
	CodeInsufficientInventory Code = "INSUFFICIENT_INVENTORY"
	CodeInvalidBet            Code = "INVALID_BET"
	CodeUnknownItem           Code = "UNKNOWN_ITEM"

	// Duel errors
	CodeSelfTargetInvalid Code = "SELF_TARGET_INVALID"
	CodeBusy              Code = "ALREADY_IN_DUEL"
	CodeNotYourTurn       Code = "NOT_YOUR_TURN"
	CodeRequestNotFound   Code = "REQUEST_NOT_FOUND"
	CodeAlreadyResolved   Code = "REQUEST_ALREADY_RESOLVED"
	CodeDuelNotFound      Code = "DUEL_NOT_FOUND"
	CodeNotParticipant    Code = "NOT_PARTICIPANT"
	CodeForbidden         Code = "FORBIDDEN"

	// Combat errors
	CodeAbilityUsed     Code = "ABILITY_ALREADY_USED"
	CodeInvalidAction   Code = "INVALID_ACTION"
	CodeEncounterActive Code = "ENCOUNTER_ACTIVE"
	CodeNoEncounter     Code = "NO_ENCOUNTER"
	CodeCooldownActive  Code = "COOLDOWN_ACTIVE"

	// Progression errors
	CodeQuestCapReached    Code = "QUEST_CAP_REACHED"
	CodeUnknownQuest       Code = "UNKNOWN_QUEST"
	CodeUnknownAchievement Code = "UNKNOWN_ACHIEVEMENT"
	CodeInvalidClass       Code = "INVALID_CLASS"
	CodeClassAlreadySet    Code = "CLASS_ALREADY_SET"

	// Clan errors
	CodeClanExists  Code = "CLAN_EXISTS"
	CodeClanFull    Code = "CLAN_FULL"
	CodeNotInClan   Code = "NOT_IN_CLAN"
	CodeAlreadyClan Code = "ALREADY_IN_CLAN"

	// Request errors
	CodeInvalidInput Code = "INVALID_INPUT"

	// Storage errors
	CodeNotFound      Code = "NOT_FOUND"
	CodeAlreadyExists Code = "ALREADY_EXISTS"
)

// HTTPStatus maps the code to the status the HTTP adapter responds with.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeNotFound, CodeRequestNotFound, CodeDuelNotFound, CodeNoEncounter,
		CodeUnknownItem, CodeUnknownQuest, CodeUnknownAchievement, CodeNotInClan:
		return http.StatusNotFound
	case CodeForbidden, CodeNotParticipant:
		return http.StatusForbidden
	case CodeBusy, CodeAlreadyResolved, CodeEncounterActive, CodeClanExists,
		CodeClanFull, CodeAlreadyClan, CodeAlreadyExists, CodeClassAlreadySet,
		CodeNotYourTurn, CodeAbilityUsed:
		return http.StatusConflict
	case CodeCooldownActive:
		return http.StatusTooManyRequests
	case CodeUnknown:
		return http.StatusInternalServerError
	default:
		return http.StatusUnprocessableEntity
	}
}
