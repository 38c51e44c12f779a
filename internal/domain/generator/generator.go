// Package generator produces a consistent synthetic dataset of groups, students,
// courses and enrollments. All randomness comes from the injected source, so a
// fixed seed always yields the same dataset.
package generator

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/university-hub/university/internal/domain/course"
	"github.com/university-hub/university/internal/domain/group"
	"github.com/university-hub/university/internal/domain/shared"
	"github.com/university-hub/university/internal/domain/student"
)

const (
	// MinGroupSize and MaxGroupSize bound the randomized capacity of a group (inclusive).
	MinGroupSize = 10
	MaxGroupSize = 19

	// MinCoursesPerStudent and MaxCoursesPerStudent bound a generated enrollment set (inclusive).
	MinCoursesPerStudent = 1
	MaxCoursesPerStudent = 3

	courseDelimiter = "-"
	alphabetSize    = 26
)

// Generator creates synthetic entities.
type Generator struct {
	rand *rand.Rand
}

// New creates a Generator over the given source of randomness.
func New(r *rand.Rand) *Generator {
	return &Generator{rand: r}
}

// NewSeeded creates a Generator whose output is fully determined by seed.
func NewSeeded(seed uint64) *Generator {
	return New(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// GenerateGroups returns n unsaved groups with random names like "KT-07".
// Names are not deduplicated.
func (g *Generator) GenerateGroups(n int) []group.Group {
	if n <= 0 {
		return []group.Group{}
	}

	groups := make([]group.Group, 0, n)
	for len(groups) < n {
		name := fmt.Sprintf("%c%c-%d%d",
			g.randomLetter(), g.randomLetter(), g.rand.IntN(10), g.rand.IntN(10))
		groups = append(groups, group.New(name))
	}
	return groups
}

// GenerateStudents returns n unsaved students with names drawn from the given
// lists, distributed sequentially over groupCount groups of random size.
//
// Group references are 1-based ordinals of the generated groups: the first
// students point at group 1, the next batch at group 2 and so on. Students
// beyond the total capacity keep no group.
func (g *Generator) GenerateStudents(n, groupCount int, firstNames, lastNames []string) ([]student.Student, error) {
	if firstNames == nil || lastNames == nil {
		return nil, shared.InvalidArgument("generator", "GenerateStudents", "name lists can't be nil")
	}
	if n <= 0 {
		return []student.Student{}, nil
	}
	if len(firstNames) == 0 || len(lastNames) == 0 {
		return nil, shared.InvalidArgument("generator", "GenerateStudents", "name lists can't be empty")
	}

	students := make([]student.Student, 0, n)
	for len(students) < n {
		first := firstNames[g.rand.IntN(len(firstNames))]
		last := lastNames[g.rand.IntN(len(lastNames))]
		students = append(students, student.New(first, last, nil))
	}

	return g.assignToGroups(students, groupCount), nil
}

// GenerateCourses parses "Name-Description" lines into unsaved courses.
// The line is split on its first hyphen.
func (g *Generator) GenerateCourses(lines []string) ([]course.Course, error) {
	if lines == nil {
		return nil, shared.InvalidArgument("generator", "GenerateCourses", "course lines can't be nil")
	}

	courses := make([]course.Course, 0, len(lines))
	for i, line := range lines {
		name, description, found := strings.Cut(line, courseDelimiter)
		name = strings.TrimSpace(name)
		if !found || name == "" {
			return nil, shared.InvalidArgument("generator", "GenerateCourses",
				fmt.Sprintf("course line %d %q is not in Name-Description form", i+1, line))
		}
		courses = append(courses, course.New(name, strings.TrimSpace(description)))
	}
	return courses, nil
}

// GenerateStudentCourses returns copies of the students, each enrolled in a
// random set of distinct courses. Identifier and group are preserved; the
// input slice is left untouched.
func (g *Generator) GenerateStudentCourses(students []student.Student, courses []course.Course) ([]student.Student, error) {
	if students == nil || courses == nil {
		return nil, shared.InvalidArgument("generator", "GenerateStudentCourses", "students and courses can't be nil")
	}
	if len(students) > 0 && len(courses) == 0 {
		return nil, shared.InvalidArgument("generator", "GenerateStudentCourses", "no courses to assign")
	}

	result := make([]student.Student, 0, len(students))
	for _, s := range students {
		result = append(result, s.WithCourses(g.pickCourses(courses)))
	}
	return result, nil
}

func (g *Generator) pickCourses(courses []course.Course) []course.Course {
	upper := min(MaxCoursesPerStudent, len(courses))
	count := MinCoursesPerStudent + g.rand.IntN(upper-MinCoursesPerStudent+1)

	picked := make([]course.Course, 0, count)
	for _, idx := range g.rand.Perm(len(courses))[:count] {
		picked = append(picked, courses[idx])
	}
	return picked
}

func (g *Generator) assignToGroups(students []student.Student, groupCount int) []student.Student {
	next := 0
	for ordinal := 1; ordinal <= groupCount && next < len(students); ordinal++ {
		size := MinGroupSize + g.rand.IntN(MaxGroupSize-MinGroupSize+1)
		end := min(next+size, len(students))
		for i := next; i < end; i++ {
			students[i] = students[i].WithGroup(ordinal)
		}
		next = end
	}
	return students
}

func (g *Generator) randomLetter() rune {
	return rune('A' + g.rand.IntN(alphabetSize))
}
