// Package course contains the domain model of a course.
package course

import "fmt"

// Course is a subject students can enroll in.
type Course struct {
	// ID is assigned by storage; zero until the course is persisted.
	ID int

	Name        string
	Description string
}

// New creates an unsaved course.
func New(name, description string) Course {
	return Course{Name: name, Description: description}
}

// IsPersisted reports whether storage has assigned an identifier.
func (c Course) IsPersisted() bool {
	return c.ID > 0
}

// Equal compares courses by identifier only.
func (c Course) Equal(other Course) bool {
	return c.ID == other.ID
}

// String renders the course for the console.
func (c Course) String() string {
	return fmt.Sprintf("id %d. %s - %s", c.ID, c.Name, c.Description)
}

// IDs returns the identifiers of the given courses in order.
func IDs(courses []Course) []int {
	ids := make([]int, 0, len(courses))
	for _, c := range courses {
		ids = append(ids, c.ID)
	}
	return ids
}
