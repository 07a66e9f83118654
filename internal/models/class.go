package models

import "strings"

// Class is a player's combat class.
type Class string

// Class constants
const (
	ClassNone    Class = ""
	ClassWarrior Class = "warrior"
	ClassMage    Class = "mage"
	ClassRogue   Class = "rogue"
)

// ClassDetails holds the base stats and ability of a class
type ClassDetails struct {
	ID          Class  `json:"id"`
	DisplayName string `json:"display_name"`
	HP          int    `json:"hp"`
	Attack      int    `json:"attack"`
	Defense     int    `json:"defense"`
	Ability     string `json:"ability"`
	AbilityDesc string `json:"ability_description"`
}

var classCatalog = map[Class]ClassDetails{
	ClassWarrior: {
		ID:          ClassWarrior,
		DisplayName: "Warrior",
		HP:          110,
		Attack:      7,
		Defense:     4,
		Ability:     "Mighty Blow",
		AbilityDesc: "Deal double damage once per fight.",
	},
	ClassMage: {
		ID:          ClassMage,
		DisplayName: "Mage",
		HP:          95,
		Attack:      9,
		Defense:     2,
		Ability:     "Fire Burst",
		AbilityDesc: "Deal 15 pure damage once per fight.",
	},
	ClassRogue: {
		ID:          ClassRogue,
		DisplayName: "Rogue",
		HP:          100,
		Attack:      7,
		Defense:     3,
		Ability:     "Shadow Strike",
		AbilityDesc: "Strike ignoring armor once per fight.",
	},
}

// ParseClass normalizes a class name and reports whether it is valid.
func ParseClass(name string) (Class, bool) {
	c := Class(strings.ToLower(strings.TrimSpace(name)))
	_, ok := classCatalog[c]
	return c, ok
}

// IsValidClass checks if a class ID is valid
func IsValidClass(c Class) bool {
	_, ok := classCatalog[c]
	return ok
}

// GetClassDetails returns static details for a class
func GetClassDetails(c Class) (ClassDetails, bool) {
	d, ok := classCatalog[c]
	return d, ok
}

// GetAllClasses returns all selectable classes
func GetAllClasses() []ClassDetails {
	return []ClassDetails{
		classCatalog[ClassWarrior],
		classCatalog[ClassMage],
		classCatalog[ClassRogue],
	}
}

// ApplyClass sets the player's class and resets base stats to the class values.
func (p *Player) ApplyClass(c Class) bool {
	d, ok := classCatalog[c]
	if !ok {
		return false
	}
	p.Class = c
	p.MaxHP = d.HP
	p.HP = d.HP
	p.Attack = d.Attack
	p.Defense = d.Defense
	return true
}
