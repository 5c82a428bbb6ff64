package dataset

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownCategory is returned when a collection name is not one of the
// known data file collections.
var ErrUnknownCategory = errors.New("unknown category")

// Category names a collection of the data file. The values are the
// top-level JSON keys.
type Category string

const (
	EBikes      Category = "e_bikes"
	Motors      Category = "motori"
	Batteries   Category = "batterie"
	Brakes      Category = "freni"
	Suspensions Category = "sospensioni"
)

var categoryLabels = map[Category]string{
	EBikes:      "E-Bike",
	Motors:      "Motori",
	Batteries:   "Batterie",
	Brakes:      "Freni",
	Suspensions: "Sospensioni",
}

var categoryPrefixes = map[Category]string{
	EBikes:      "EB",
	Motors:      "MO",
	Batteries:   "BA",
	Brakes:      "FR",
	Suspensions: "SU",
}

// Categories returns every collection in data file order.
func Categories() []Category {
	return []Category{EBikes, Motors, Batteries, Brakes, Suspensions}
}

// ComponentCategories returns the four component collections.
func ComponentCategories() []Category {
	return []Category{Motors, Batteries, Brakes, Suspensions}
}

// ParseCategory converts a collection name (as used in URLs and flags) to a
// Category.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.TrimSpace(s))
	if _, ok := categoryLabels[c]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}
	return c, nil
}

func (c Category) String() string {
	return string(c)
}

// Label is the human-readable collection name.
func (c Category) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return string(c)
}

// IDPrefix is the identifier prefix used by records of the collection.
func (c Category) IDPrefix() string {
	return categoryPrefixes[c]
}

// IsComponent reports whether c is one of the component collections.
func (c Category) IsComponent() bool {
	switch c {
	case Motors, Batteries, Brakes, Suspensions:
		return true
	default:
		return false
	}
}

// Role is the slot a component fills on an e-bike. Fork and shock share the
// suspension collection.
type Role string

const (
	RoleMotor   Role = "Motore"
	RoleBattery Role = "Batteria"
	RoleBrakes  Role = "Freni"
	RoleFork    Role = "Forcella"
	RoleShock   Role = "Ammortizzatore"
)

// Roles returns the e-bike component roles in display order.
func Roles() []Role {
	return []Role{RoleMotor, RoleBattery, RoleBrakes, RoleFork, RoleShock}
}

// Category returns the collection that holds components for the role.
func (r Role) Category() Category {
	c, _ := CategoryForRole(string(r))
	return c
}

// CategoryForRole maps a role label to its collection. Matching is exact and
// case-sensitive; unknown labels return false.
func CategoryForRole(name string) (Category, bool) {
	switch Role(name) {
	case RoleMotor:
		return Motors, true
	case RoleBattery:
		return Batteries, true
	case RoleBrakes:
		return Brakes, true
	case RoleFork, RoleShock:
		return Suspensions, true
	default:
		return "", false
	}
}
