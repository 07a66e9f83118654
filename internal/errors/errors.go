package errors

import (
	stderrors "errors"
	"strconv"
	"time"
)

// Error is the domain error type with structured metadata.
type Error struct {
	Code     Code              // Machine-readable error code
	Message  string            // Human-readable message
	Metadata map[string]string // Additional context for the presentation layer
	Cause    error             // Wrapped underlying error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// New creates a simple domain error with a code and message.
func New(code Code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// WithMetadata creates a domain error with metadata.
func WithMetadata(code Code, message string, metadata map[string]string) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Metadata: metadata,
	}
}

// Wrap creates a domain error that wraps an underlying cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Sentinels for errors.Is comparisons. Matching is by code, so a sentinel
// matches any *Error carrying the same code regardless of message.
var (
	ErrInsufficientFunds     = New(CodeInsufficientFunds, "not enough gold")
	ErrInsufficientInventory = New(CodeInsufficientInventory, "item not available")
	ErrInvalidBet            = New(CodeInvalidBet, "invalid bet")
	ErrUnknownItem           = New(CodeUnknownItem, "unknown item")
	ErrSelfTarget            = New(CodeSelfTargetInvalid, "cannot challenge yourself")
	ErrBusy                  = New(CodeBusy, "a participant is already in a duel")
	ErrNotYourTurn           = New(CodeNotYourTurn, "not your turn")
	ErrRequestNotFound       = New(CodeRequestNotFound, "duel request not found")
	ErrAlreadyResolved       = New(CodeAlreadyResolved, "duel request already resolved")
	ErrDuelNotFound          = New(CodeDuelNotFound, "duel not found")
	ErrNotParticipant        = New(CodeNotParticipant, "not a participant of this duel")
	ErrForbidden             = New(CodeForbidden, "action not allowed for this player")
	ErrAbilityUsed           = New(CodeAbilityUsed, "ability already used in this fight")
	ErrInvalidAction         = New(CodeInvalidAction, "invalid action")
	ErrEncounterActive       = New(CodeEncounterActive, "finish the current encounter first")
	ErrNoEncounter           = New(CodeNoEncounter, "not in an encounter")
	ErrCooldownActive        = New(CodeCooldownActive, "cooldown active")
	ErrQuestCapReached       = New(CodeQuestCapReached, "maximum number of active quests reached")
	ErrUnknownQuest          = New(CodeUnknownQuest, "unknown quest")
	ErrUnknownAchievement    = New(CodeUnknownAchievement, "unknown achievement")
	ErrInvalidClass          = New(CodeInvalidClass, "invalid class")
	ErrClassAlreadySet       = New(CodeClassAlreadySet, "class already chosen")
	ErrClanExists            = New(CodeClanExists, "clan already exists")
	ErrClanFull              = New(CodeClanFull, "clan is full")
	ErrNotInClan             = New(CodeNotInClan, "not in a clan")
	ErrAlreadyInClan         = New(CodeAlreadyClan, "already in a clan")
	ErrInvalidInput          = New(CodeInvalidInput, "invalid input")
	ErrNotFound              = New(CodeNotFound, "not found")
	ErrAlreadyExists         = New(CodeAlreadyExists, "already exists")
)

const metaRemaining = "remaining_ms"

// Cooldown returns a CooldownActive error carrying the remaining wait.
func Cooldown(remaining time.Duration) *Error {
	if remaining < 0 {
		remaining = 0
	}
	return WithMetadata(CodeCooldownActive,
		"cooldown active, wait "+remaining.Round(time.Second).String(),
		map[string]string{metaRemaining: strconv.FormatInt(remaining.Milliseconds(), 10)},
	)
}

// RemainingCooldown extracts the remaining wait from a CooldownActive error.
func RemainingCooldown(err error) (time.Duration, bool) {
	var e *Error
	if !stderrors.As(err, &e) || e.Code != CodeCooldownActive {
		return 0, false
	}
	ms, convErr := strconv.ParseInt(e.Metadata[metaRemaining], 10, 64)
	if convErr != nil {
		return 0, false
	}
	return time.Duration(ms) * time.Millisecond, true
}

// CodeOf returns the code carried by err, or CodeUnknown.
func CodeOf(err error) Code {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code
	}
	return CodeUnknown
}
