// Package memory keeps the university dataset in process memory. It follows
// the same contract as the PostgreSQL repositories (ids from 1, absent rows as
// nil, duplicate enrollments rejected) and is used for demo runs and tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/university-hub/university/internal/domain/course"
	"github.com/university-hub/university/internal/domain/group"
	"github.com/university-hub/university/internal/domain/shared"
	"github.com/university-hub/university/internal/domain/student"
)

type enrollment struct {
	studentID int
	courseID  int
}

// Store holds all tables behind one lock.
type Store struct {
	mu sync.RWMutex

	groups      map[int]group.Group
	courses     map[int]course.Course
	students    map[int]student.Student
	enrollments map[enrollment]struct{}

	nextGroupID   int
	nextCourseID  int
	nextStudentID int
}

// NewStore creates an empty store.
func NewStore() *Store {
	s := &Store{}
	s.reset()
	return s
}

// Migrate is a no-op; the store has no schema.
func (s *Store) Migrate(context.Context) error { return nil }

// Reset removes all data and restarts identifiers at 1.
func (s *Store) Reset(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
	return nil
}

func (s *Store) reset() {
	s.groups = make(map[int]group.Group)
	s.courses = make(map[int]course.Course)
	s.students = make(map[int]student.Student)
	s.enrollments = make(map[enrollment]struct{})
	s.nextGroupID, s.nextCourseID, s.nextStudentID = 1, 1, 1
}

// Groups returns the group repository view of the store.
func (s *Store) Groups() *GroupRepository { return &GroupRepository{store: s} }

// Courses returns the course repository view of the store.
func (s *Store) Courses() *CourseRepository { return &CourseRepository{store: s} }

// Students returns the student repository view of the store.
func (s *Store) Students() *StudentRepository { return &StudentRepository{store: s} }

func sortedValues[E any](m map[int]E) []E {
	ids := make([]int, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	out := make([]E, 0, len(ids))
	for _, id := range ids {
		out = append(out, m[id])
	}
	return out
}

func page[E any](all []E, limit, offset int) []E {
	if offset >= len(all) {
		return []E{}
	}
	end := min(offset+limit, len(all))
	return append([]E{}, all[offset:end]...)
}

func checkPage(domain string, limit, offset int) error {
	if limit < 0 || offset < 0 {
		return shared.InvalidArgument(domain, "FindPage",
			fmt.Sprintf("invalid page window limit=%d offset=%d", limit, offset))
	}
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// GROUPS
// ══════════════════════════════════════════════════════════════════════════════

// GroupRepository implements group.Repository over a Store.
type GroupRepository struct {
	store *Store
}

var _ group.Repository = (*GroupRepository)(nil)

// Save inserts a new group. Names must match group.NamePattern.
func (r *GroupRepository) Save(_ context.Context, g *group.Group) error {
	if g == nil {
		return shared.StorageError("group", "Save", "failed to save group", shared.ErrNilEntity)
	}
	if err := g.Validate(); err != nil {
		return shared.StorageError("group", "Save", fmt.Sprintf("failed to save group %q", g.Name), err)
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	id := r.store.nextGroupID
	r.store.nextGroupID++
	r.store.groups[id] = group.Group{ID: id, Name: g.Name}
	return nil
}

func (r *GroupRepository) FindByID(_ context.Context, id int) (*group.Group, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	g, ok := r.store.groups[id]
	if !ok {
		return nil, nil
	}
	return &g, nil
}

func (r *GroupRepository) FindAll(context.Context) ([]group.Group, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return sortedValues(r.store.groups), nil
}

func (r *GroupRepository) FindPage(_ context.Context, limit, offset int) ([]group.Group, error) {
	if err := checkPage("group", limit, offset); err != nil {
		return nil, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return page(sortedValues(r.store.groups), limit, offset), nil
}

// DeleteByID removes the group; its students stay without a group.
func (r *GroupRepository) DeleteByID(_ context.Context, id int) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	delete(r.store.groups, id)
	for sid, s := range r.store.students {
		if s.GroupID != nil && *s.GroupID == id {
			r.store.students[sid] = s.WithoutGroup()
		}
	}
	return nil
}

func (r *GroupRepository) FindAllBySizeEqualsOrLess(_ context.Context, maxSize int) ([]group.Group, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	sizes := make(map[int]int)
	for _, s := range r.store.students {
		if s.GroupID != nil {
			sizes[*s.GroupID]++
		}
	}

	result := make([]group.Group, 0)
	for _, g := range sortedValues(r.store.groups) {
		if size := sizes[g.ID]; size > 0 && size <= maxSize {
			result = append(result, g)
		}
	}
	return result, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// COURSES
// ══════════════════════════════════════════════════════════════════════════════

// CourseRepository implements course.Repository over a Store.
type CourseRepository struct {
	store *Store
}

var _ course.Repository = (*CourseRepository)(nil)

func (r *CourseRepository) Save(_ context.Context, c *course.Course) error {
	if c == nil {
		return shared.StorageError("course", "Save", "failed to save course", shared.ErrNilEntity)
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	id := r.store.nextCourseID
	r.store.nextCourseID++
	r.store.courses[id] = course.Course{ID: id, Name: c.Name, Description: c.Description}
	return nil
}

func (r *CourseRepository) FindByID(_ context.Context, id int) (*course.Course, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	c, ok := r.store.courses[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *CourseRepository) FindAll(context.Context) ([]course.Course, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return sortedValues(r.store.courses), nil
}

func (r *CourseRepository) FindPage(_ context.Context, limit, offset int) ([]course.Course, error) {
	if err := checkPage("course", limit, offset); err != nil {
		return nil, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return page(sortedValues(r.store.courses), limit, offset), nil
}

func (r *CourseRepository) DeleteByID(_ context.Context, id int) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	delete(r.store.courses, id)
	for e := range r.store.enrollments {
		if e.courseID == id {
			delete(r.store.enrollments, e)
		}
	}
	return nil
}

// FindByName returns the lowest-id course with this name.
func (r *CourseRepository) FindByName(_ context.Context, name string) (*course.Course, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, c := range sortedValues(r.store.courses) {
		if c.Name == name {
			return &c, nil
		}
	}
	return nil, nil
}

func (r *CourseRepository) FindAllByStudentID(_ context.Context, studentID int) ([]course.Course, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := make([]course.Course, 0)
	for _, c := range sortedValues(r.store.courses) {
		if _, ok := r.store.enrollments[enrollment{studentID: studentID, courseID: c.ID}]; ok {
			result = append(result, c)
		}
	}
	return result, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// STUDENTS
// ══════════════════════════════════════════════════════════════════════════════

// StudentRepository implements student.Repository over a Store.
type StudentRepository struct {
	store *Store
}

var _ student.Repository = (*StudentRepository)(nil)

// Save inserts a new student. A group reference must point at an existing group.
func (r *StudentRepository) Save(_ context.Context, s *student.Student) error {
	if s == nil {
		return shared.StorageError("student", "Save", "failed to save student", shared.ErrNilEntity)
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if s.GroupID != nil {
		if _, ok := r.store.groups[*s.GroupID]; !ok {
			return shared.StorageError("student", "Save",
				fmt.Sprintf("failed to save student %s %s: group with id %d does not exist", s.FirstName, s.LastName, *s.GroupID), nil)
		}
	}

	id := r.store.nextStudentID
	r.store.nextStudentID++
	stored := student.New(s.FirstName, s.LastName, s.GroupID)
	stored.ID = id
	r.store.students[id] = stored
	return nil
}

func (r *StudentRepository) FindByID(_ context.Context, id int) (*student.Student, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	s, ok := r.store.students[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *StudentRepository) FindAll(context.Context) ([]student.Student, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return sortedValues(r.store.students), nil
}

func (r *StudentRepository) FindPage(_ context.Context, limit, offset int) ([]student.Student, error) {
	if err := checkPage("student", limit, offset); err != nil {
		return nil, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return page(sortedValues(r.store.students), limit, offset), nil
}

func (r *StudentRepository) DeleteByID(_ context.Context, id int) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	delete(r.store.students, id)
	for e := range r.store.enrollments {
		if e.studentID == id {
			delete(r.store.enrollments, e)
		}
	}
	return nil
}

func (r *StudentRepository) FindAllByCourse(_ context.Context, courseName string) ([]student.Student, error) {
	result := make([]student.Student, 0)
	if courseName == "" {
		return result, nil
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, s := range sortedValues(r.store.students) {
		for e := range r.store.enrollments {
			if e.studentID == s.ID && r.store.courses[e.courseID].Name == courseName {
				result = append(result, s)
				break
			}
		}
	}
	return result, nil
}

func (r *StudentRepository) DeleteFromCourse(_ context.Context, studentID, courseID int) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	delete(r.store.enrollments, enrollment{studentID: studentID, courseID: courseID})
	return nil
}

// InsertStudentToCourses writes all pairs or none.
func (r *StudentRepository) InsertStudentToCourses(_ context.Context, s student.Student, courseIDs []int) error {
	if !s.IsPersisted() {
		return shared.StorageError("student", "InsertStudentToCourses",
			fmt.Sprintf("failed to enroll student %s %s", s.FirstName, s.LastName), shared.ErrNotPersisted)
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.students[s.ID]; !ok {
		return shared.StorageError("student", "InsertStudentToCourses",
			fmt.Sprintf("student with id %d does not exist", s.ID), nil)
	}

	batch := make(map[enrollment]struct{}, len(courseIDs))
	for _, courseID := range courseIDs {
		e := enrollment{studentID: s.ID, courseID: courseID}
		if _, ok := r.store.courses[courseID]; !ok {
			return shared.StorageError("student", "InsertStudentToCourses",
				fmt.Sprintf("course with id %d does not exist", courseID), nil)
		}
		_, exists := r.store.enrollments[e]
		_, repeated := batch[e]
		if exists || repeated {
			return shared.StorageError("student", "InsertStudentToCourses",
				fmt.Sprintf("student with id %d is already enrolled in course with id %d", s.ID, courseID), nil)
		}
		batch[e] = struct{}{}
	}

	for e := range batch {
		r.store.enrollments[e] = struct{}{}
	}
	return nil
}
