// Package student contains the domain model of a student and the storage
// contract for students and their course enrollments.
//
// A student optionally belongs to one group and may be enrolled in any number
// of courses. Enrollment is a many-to-many relation keyed by the pair
// (student id, course id); a pair can exist at most once.
//
// Students are value types:
//
//	s := student.New("Jane", "Doe", nil)
//	s = s.WithGroup(3)
//	s = s.WithCourses(courses)
//
// The Courses field is transient. Repositories do not populate it; it is
// filled by the data generator before enrollments are written.
package student
