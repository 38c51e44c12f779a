// Package group contains the domain model of a student group.
package group

import (
	"fmt"
	"regexp"

	"github.com/university-hub/university/internal/domain/shared"
)

// NamePattern is the shape every group name follows: two uppercase letters,
// a hyphen and two digits, e.g. "AB-22".
var NamePattern = regexp.MustCompile(`^[A-Z]{2}-[0-9]{2}$`)

// Group is a named set of students.
type Group struct {
	// ID is assigned by storage; zero until the group is persisted.
	ID int

	// Name follows NamePattern.
	Name string
}

// New creates an unsaved group.
func New(name string) Group {
	return Group{Name: name}
}

// IsPersisted reports whether storage has assigned an identifier.
func (g Group) IsPersisted() bool {
	return g.ID > 0
}

// Validate checks the group name against NamePattern.
func (g Group) Validate() error {
	if !NamePattern.MatchString(g.Name) {
		return shared.WrapError("group", "Validate", shared.ErrInvalidArgument,
			fmt.Sprintf("group name %q does not match %s", g.Name, NamePattern), shared.ErrInvalidFormat)
	}
	return nil
}

// Equal compares identifier and name.
func (g Group) Equal(other Group) bool {
	return g.ID == other.ID && g.Name == other.Name
}

// String renders the group for the console.
func (g Group) String() string {
	return fmt.Sprintf("id %d. %s", g.ID, g.Name)
}
