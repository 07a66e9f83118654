package combat

import "github.com/omega-realm/arena/internal/models"

const (
	// DamageSpread is the upper bound of the random term added to attack.
	DamageSpread = 2
	// freeDefense is the part of defense that never mitigates damage.
	freeDefense = 2

	MageAbilityDamage  = 15
	RogueAbilitySpread = 2
)

// Damage rolls a standard hit: attack plus U(0, spread), reduced by defense
// above two, never below 1.
func Damage(r Roller, attack, defense int) int {
	mitigation := defense - freeDefense
	if mitigation < 0 {
		mitigation = 0
	}
	return max(1, attack+Between(r, 0, DamageSpread)-mitigation)
}

// AbilityDamage resolves a class ability. Characters without a class fall
// back to a standard roll.
func AbilityDamage(r Roller, class models.Class, attack, defense int) int {
	switch class {
	case models.ClassWarrior:
		return Damage(r, attack, defense) * 2
	case models.ClassMage:
		return MageAbilityDamage
	case models.ClassRogue:
		return max(1, attack+Between(r, 0, RogueAbilitySpread))
	default:
		return Damage(r, attack, defense)
	}
}

// AbilityName returns the display name of the class ability.
func AbilityName(class models.Class) string {
	if d, ok := models.GetClassDetails(class); ok {
		return d.Ability
	}
	return "Strike"
}
