package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/university-hub/university/internal/domain/course"
	"github.com/university-hub/university/internal/domain/shared"
	"github.com/university-hub/university/internal/domain/student"
)

var (
	firstNames = []string{"Ivan", "Anna", "Oleg", "Maria", "Petr"}
	lastNames  = []string{"Ivanov", "Petrova", "Sidorov", "Orlova"}
)

func TestGenerateGroups(t *testing.T) {
	gen := NewSeeded(42)

	for _, n := range []int{1, 2, 10, 57} {
		groups := gen.GenerateGroups(n)
		require.Len(t, groups, n)
		for _, g := range groups {
			assert.Regexp(t, `^[A-Z]{2}-[0-9]{2}$`, g.Name)
			assert.NoError(t, g.Validate())
			assert.False(t, g.IsPersisted())
		}
	}
}

func TestGenerateGroups_NonPositiveCount(t *testing.T) {
	gen := NewSeeded(1)

	assert.Empty(t, gen.GenerateGroups(0))
	assert.Empty(t, gen.GenerateGroups(-5))
	assert.NotNil(t, gen.GenerateGroups(0))
}

func TestGenerateGroups_SameSeedSameNames(t *testing.T) {
	a := NewSeeded(7).GenerateGroups(20)
	b := NewSeeded(7).GenerateGroups(20)
	assert.Equal(t, a, b)
}

func TestGenerateStudents_NamesComeFromLists(t *testing.T) {
	gen := NewSeeded(3)

	students, err := gen.GenerateStudents(200, 10, firstNames, lastNames)
	require.NoError(t, err)
	require.Len(t, students, 200)

	for _, s := range students {
		assert.Contains(t, firstNames, s.FirstName)
		assert.Contains(t, lastNames, s.LastName)
		assert.False(t, s.IsPersisted())
	}
}

func TestGenerateStudents_NonPositiveCount(t *testing.T) {
	gen := NewSeeded(3)

	for _, n := range []int{0, -1} {
		students, err := gen.GenerateStudents(n, 10, firstNames, lastNames)
		require.NoError(t, err)
		assert.Empty(t, students)
	}
}

func TestGenerateStudents_NilListsAreInvalid(t *testing.T) {
	gen := NewSeeded(3)

	_, err := gen.GenerateStudents(10, 2, nil, lastNames)
	assert.True(t, shared.IsInvalidArgument(err))

	_, err = gen.GenerateStudents(10, 2, firstNames, nil)
	assert.True(t, shared.IsInvalidArgument(err))
}

func TestGenerateStudents_EmptyListsAreInvalid(t *testing.T) {
	gen := NewSeeded(3)

	_, err := gen.GenerateStudents(10, 2, []string{}, lastNames)
	assert.True(t, shared.IsInvalidArgument(err))
}

func TestGenerateStudents_GroupAssignment(t *testing.T) {
	gen := NewSeeded(11)
	const groupCount = 5

	students, err := gen.GenerateStudents(200, groupCount, firstNames, lastNames)
	require.NoError(t, err)

	sizes := make(map[int]int)
	previous := 1
	ungroupedSeen := false
	for _, s := range students {
		if !s.HasGroup() {
			ungroupedSeen = true
			continue
		}
		require.False(t, ungroupedSeen, "grouped student after ungrouped one")
		gid := *s.GroupID
		require.GreaterOrEqual(t, gid, previous, "assignment must be sequential")
		require.LessOrEqual(t, gid, groupCount)
		previous = gid
		sizes[gid]++
	}

	require.Len(t, sizes, groupCount)
	for gid, size := range sizes {
		assert.GreaterOrEqual(t, size, MinGroupSize, "group %d", gid)
		assert.LessOrEqual(t, size, MaxGroupSize, "group %d", gid)
	}
	// 5 groups hold at most 95 students, so the rest stay ungrouped.
	assert.True(t, ungroupedSeen)
}

func TestGenerateStudents_NoGroups(t *testing.T) {
	gen := NewSeeded(5)

	students, err := gen.GenerateStudents(30, 0, firstNames, lastNames)
	require.NoError(t, err)
	for _, s := range students {
		assert.Nil(t, s.GroupID)
	}
}

func TestGenerateStudents_FewStudentsAllGrouped(t *testing.T) {
	gen := NewSeeded(5)

	students, err := gen.GenerateStudents(5, 3, firstNames, lastNames)
	require.NoError(t, err)
	for _, s := range students {
		require.NotNil(t, s.GroupID)
		assert.Equal(t, 1, *s.GroupID)
	}
}

func TestGenerateCourses(t *testing.T) {
	gen := NewSeeded(1)

	courses, err := gen.GenerateCourses([]string{"Math-Room 4", "Law-Room 1"})
	require.NoError(t, err)

	assert.Equal(t, []course.Course{
		{Name: "Math", Description: "Room 4"},
		{Name: "Law", Description: "Room 1"},
	}, courses)
}

func TestGenerateCourses_SplitsOnFirstHyphen(t *testing.T) {
	gen := NewSeeded(1)

	courses, err := gen.GenerateCourses([]string{"Biology-Lab 2-East wing"})
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "Biology", courses[0].Name)
	assert.Equal(t, "Lab 2-East wing", courses[0].Description)
}

func TestGenerateCourses_InvalidInput(t *testing.T) {
	gen := NewSeeded(1)

	tests := []struct {
		name  string
		lines []string
	}{
		{name: "nil", lines: nil},
		{name: "missing hyphen", lines: []string{"badline"}},
		{name: "one bad line among good", lines: []string{"Math-Room 4", "badline"}},
		{name: "empty name", lines: []string{"-Room 4"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			courses, err := gen.GenerateCourses(tt.lines)
			assert.Nil(t, courses)
			assert.True(t, shared.IsInvalidArgument(err))
		})
	}
}

func TestGenerateStudentCourses(t *testing.T) {
	gen := NewSeeded(9)
	courses := testCourses(10)
	students := testStudents(50)

	result, err := gen.GenerateStudentCourses(students, courses)
	require.NoError(t, err)
	require.Len(t, result, len(students))

	for i, s := range result {
		assert.True(t, s.Equal(students[i]), "identity and group must be preserved")
		assert.GreaterOrEqual(t, len(s.Courses), MinCoursesPerStudent)
		assert.LessOrEqual(t, len(s.Courses), MaxCoursesPerStudent)

		seen := make(map[int]bool)
		for _, c := range s.Courses {
			assert.False(t, seen[c.ID], "duplicate course %d for student %d", c.ID, s.ID)
			seen[c.ID] = true
		}
	}

	for _, s := range students {
		assert.Empty(t, s.Courses, "input students must not be modified")
	}
}

func TestGenerateStudentCourses_SingleCourse(t *testing.T) {
	gen := NewSeeded(9)

	result, err := gen.GenerateStudentCourses(testStudents(5), testCourses(1))
	require.NoError(t, err)
	for _, s := range result {
		require.Len(t, s.Courses, 1)
		assert.Equal(t, 1, s.Courses[0].ID)
	}
}

func TestGenerateStudentCourses_InvalidInput(t *testing.T) {
	gen := NewSeeded(9)

	_, err := gen.GenerateStudentCourses(nil, testCourses(3))
	assert.True(t, shared.IsInvalidArgument(err))

	_, err = gen.GenerateStudentCourses(testStudents(3), nil)
	assert.True(t, shared.IsInvalidArgument(err))

	_, err = gen.GenerateStudentCourses(testStudents(3), []course.Course{})
	assert.True(t, shared.IsInvalidArgument(err))
}

func TestGenerateStudentCourses_NoStudents(t *testing.T) {
	gen := NewSeeded(9)

	result, err := gen.GenerateStudentCourses([]student.Student{}, []course.Course{})
	require.NoError(t, err)
	assert.Empty(t, result)
}

func testCourses(n int) []course.Course {
	courses := make([]course.Course, 0, n)
	for i := 1; i <= n; i++ {
		courses = append(courses, course.Course{ID: i, Name: string(rune('A' + i)), Description: "room"})
	}
	return courses
}

func testStudents(n int) []student.Student {
	students := make([]student.Student, 0, n)
	for i := 1; i <= n; i++ {
		s := student.New("First", "Last", nil).WithGroup(1 + i%3)
		s.ID = i
		students = append(students, s)
	}
	return students
}
