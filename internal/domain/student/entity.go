package student

import (
	"fmt"

	"github.com/university-hub/university/internal/domain/course"
)

// Student is a person who belongs to at most one group and attends courses.
type Student struct {
	// ID is assigned by storage; zero until the student is persisted.
	ID int

	// GroupID references the student's group; nil when the student has none.
	GroupID *int

	FirstName string
	LastName  string

	// Courses holds the enrolled courses when they have been resolved.
	Courses []course.Course
}

// New creates an unsaved student.
func New(firstName, lastName string, groupID *int) Student {
	return Student{
		GroupID:   copyID(groupID),
		FirstName: firstName,
		LastName:  lastName,
	}
}

// IsPersisted reports whether storage has assigned an identifier.
func (s Student) IsPersisted() bool {
	return s.ID > 0
}

// HasGroup reports whether the student is assigned to a group.
func (s Student) HasGroup() bool {
	return s.GroupID != nil
}

// WithGroup returns a copy of the student assigned to the given group.
func (s Student) WithGroup(groupID int) Student {
	s.GroupID = &groupID
	return s
}

// WithoutGroup returns a copy of the student with no group.
func (s Student) WithoutGroup() Student {
	s.GroupID = nil
	return s
}

// WithCourses returns a copy of the student with the given enrolled courses.
func (s Student) WithCourses(courses []course.Course) Student {
	s.Courses = append([]course.Course(nil), courses...)
	s.GroupID = copyID(s.GroupID)
	return s
}

// Equal compares first name, last name, group reference and identifier.
// Enrolled courses are not part of a student's identity.
func (s Student) Equal(other Student) bool {
	return s.ID == other.ID &&
		s.FirstName == other.FirstName &&
		s.LastName == other.LastName &&
		sameGroup(s.GroupID, other.GroupID)
}

// String renders the student for the console.
func (s Student) String() string {
	return fmt.Sprintf("id %d. %s %s", s.ID, s.FirstName, s.LastName)
}

// Contains reports whether students holds a student equal to s.
func Contains(students []Student, s Student) bool {
	for _, candidate := range students {
		if candidate.Equal(s) {
			return true
		}
	}
	return false
}

func sameGroup(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func copyID(id *int) *int {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
