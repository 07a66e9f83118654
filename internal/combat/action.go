package combat

import (
	"fmt"
	"strings"

	apperrors "github.com/omega-realm/arena/internal/errors"
)

// Action is a combat command.
type Action int

const (
	ActionAttack Action = iota + 1
	ActionAbility
	ActionPotion
	ActionFlee
	ActionSurrender
)

var actionNames = map[Action]string{
	ActionAttack:    "attack",
	ActionAbility:   "ability",
	ActionPotion:    "potion",
	ActionFlee:      "flee",
	ActionSurrender: "surrender",
}

func (a Action) String() string {
	if s, ok := actionNames[a]; ok {
		return s
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// ParseAction decodes a command name.
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "attack":
		return ActionAttack, nil
	case "ability":
		return ActionAbility, nil
	case "potion":
		return ActionPotion, nil
	case "flee", "run":
		return ActionFlee, nil
	case "surrender":
		return ActionSurrender, nil
	}
	return 0, apperrors.WithMetadata(apperrors.CodeInvalidAction,
		fmt.Sprintf("unknown action %q", s), map[string]string{"action": s})
}

func (a Action) MarshalText() ([]byte, error) {
	if _, ok := actionNames[a]; !ok {
		return nil, fmt.Errorf("marshal action %d", int(a))
	}
	return []byte(a.String()), nil
}

func (a *Action) UnmarshalText(b []byte) error {
	parsed, err := ParseAction(string(b))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
