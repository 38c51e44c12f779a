// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/university-hub/university/internal/domain/course"
	"github.com/university-hub/university/internal/domain/generator"
	"github.com/university-hub/university/internal/domain/group"
	"github.com/university-hub/university/internal/domain/shared"
	"github.com/university-hub/university/internal/domain/student"
	"github.com/university-hub/university/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// INITIALIZE DATABASE COMMAND
// Applies the schema and fills an empty database with a synthetic dataset:
// groups, students spread over those groups, courses and enrollments.
// ══════════════════════════════════════════════════════════════════════════════

// Default dataset shape.
const (
	DefaultGroupCount   = 10
	DefaultStudentCount = 200

	DefaultFirstNamesFile = "first_names.txt"
	DefaultLastNamesFile  = "last_names.txt"
	DefaultCoursesFile    = "courses.txt"
)

// SchemaMigrator applies the schema and wipes data.
type SchemaMigrator interface {
	Migrate(ctx context.Context) error
	Reset(ctx context.Context) error
}

// SeedSource returns the lines of a named seed file.
type SeedSource interface {
	Read(name string) ([]string, error)
}

// InitializeDatabaseCommand contains the parameters of a run.
type InitializeDatabaseCommand struct {
	// GroupCount is the number of groups to generate.
	GroupCount int

	// StudentCount is the number of students to generate.
	StudentCount int

	// Reset wipes existing data first. Without it an already populated
	// database is left as is.
	Reset bool

	FirstNamesFile string
	LastNamesFile  string
	CoursesFile    string
}

// DefaultInitializeDatabaseCommand returns the standard 10 groups / 200 students run.
func DefaultInitializeDatabaseCommand() InitializeDatabaseCommand {
	return InitializeDatabaseCommand{
		GroupCount:     DefaultGroupCount,
		StudentCount:   DefaultStudentCount,
		FirstNamesFile: DefaultFirstNamesFile,
		LastNamesFile:  DefaultLastNamesFile,
		CoursesFile:    DefaultCoursesFile,
	}
}

// Validate validates the command.
func (c InitializeDatabaseCommand) Validate() error {
	if c.GroupCount < 0 {
		return errors.New("initialize_database: group_count cannot be negative")
	}
	if c.StudentCount < 0 {
		return errors.New("initialize_database: student_count cannot be negative")
	}
	if c.FirstNamesFile == "" || c.LastNamesFile == "" || c.CoursesFile == "" {
		return errors.New("initialize_database: seed file names are required")
	}
	return nil
}

// InitializeDatabaseResult summarizes a run.
type InitializeDatabaseResult struct {
	// RunID tags every log line of the run.
	RunID string

	// Skipped is true when the database already held data.
	Skipped bool

	Groups      int
	Students    int
	Courses     int
	Enrollments int

	Duration time.Duration
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// InitializeDatabaseHandler handles the InitializeDatabaseCommand.
type InitializeDatabaseHandler struct {
	migrator  SchemaMigrator
	seeds     SeedSource
	generator *generator.Generator
	groups    group.Repository
	courses   course.Repository
	students  student.Repository
	logger    *logger.Logger
}

// NewInitializeDatabaseHandler creates a new InitializeDatabaseHandler.
func NewInitializeDatabaseHandler(
	migrator SchemaMigrator,
	seeds SeedSource,
	gen *generator.Generator,
	groups group.Repository,
	courses course.Repository,
	students student.Repository,
	log *logger.Logger,
) *InitializeDatabaseHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &InitializeDatabaseHandler{
		migrator:  migrator,
		seeds:     seeds,
		generator: gen,
		groups:    groups,
		courses:   courses,
		students:  students,
		logger:    log.With(logger.Component("initializer")),
	}
}

// Handle executes the initialize database command.
func (h *InitializeDatabaseHandler) Handle(ctx context.Context, cmd InitializeDatabaseCommand) (*InitializeDatabaseResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("initialize_database: validation failed: %w", err)
	}

	startedAt := time.Now()
	result := &InitializeDatabaseResult{RunID: uuid.NewString()}
	log := h.logger.With(logger.RunID(result.RunID))

	// ─────────────────────────────────────────────────────────────────────────
	// Step 1: Schema
	// ─────────────────────────────────────────────────────────────────────────
	if err := h.migrator.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("initialize_database: failed to apply schema: %w", err)
	}
	if cmd.Reset {
		if err := h.migrator.Reset(ctx); err != nil {
			return nil, fmt.Errorf("initialize_database: failed to reset data: %w", err)
		}
		log.Info("existing data removed")
	} else {
		populated, err := h.isPopulated(ctx)
		if err != nil {
			return nil, fmt.Errorf("initialize_database: %w", err)
		}
		if populated {
			log.Info("database already populated, skipping generation")
			result.Skipped = true
			result.Duration = time.Since(startedAt)
			return result, nil
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// Step 2: Seeds and generation
	// ─────────────────────────────────────────────────────────────────────────
	firstNames, lastNames, courseLines, err := h.readSeeds(cmd)
	if err != nil {
		return nil, err
	}

	generatedGroups := h.generator.GenerateGroups(cmd.GroupCount)
	generatedCourses, err := h.generator.GenerateCourses(courseLines)
	if err != nil {
		return nil, fmt.Errorf("initialize_database: %w", err)
	}
	generatedStudents, err := h.generator.GenerateStudents(cmd.StudentCount, len(generatedGroups), firstNames, lastNames)
	if err != nil {
		return nil, fmt.Errorf("initialize_database: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// Step 3: Persist groups, then students pointing at real group ids
	// ─────────────────────────────────────────────────────────────────────────
	if err := SaveAll[group.Group](ctx, h.groups, generatedGroups); err != nil {
		return nil, fmt.Errorf("initialize_database: failed to save groups: %w", err)
	}
	groupIDs, err := h.persistedGroupIDs(ctx, len(generatedGroups))
	if err != nil {
		return nil, fmt.Errorf("initialize_database: %w", err)
	}
	generatedStudents = remapGroups(generatedStudents, groupIDs)

	if err := SaveAll[student.Student](ctx, h.students, generatedStudents); err != nil {
		return nil, fmt.Errorf("initialize_database: failed to save students: %w", err)
	}
	if err := SaveAll[course.Course](ctx, h.courses, generatedCourses); err != nil {
		return nil, fmt.Errorf("initialize_database: failed to save courses: %w", err)
	}

	result.Groups = len(generatedGroups)
	result.Students = len(generatedStudents)
	result.Courses = len(generatedCourses)
	log.Info("entities saved",
		logger.Int("groups", result.Groups),
		logger.Int("students", result.Students),
		logger.Int("courses", result.Courses),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// Step 4: Enrollments
	// ─────────────────────────────────────────────────────────────────────────
	enrollments, err := h.enroll(ctx)
	if err != nil {
		return nil, fmt.Errorf("initialize_database: %w", err)
	}
	result.Enrollments = enrollments
	result.Duration = time.Since(startedAt)

	log.Info("database initialized",
		logger.Int("enrollments", result.Enrollments),
		logger.Latency(result.Duration),
	)

	return result, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Helper Methods
// ─────────────────────────────────────────────────────────────────────────────

// SaveAll saves every entity through repo in order, stopping at the first failure.
func SaveAll[E any](ctx context.Context, repo shared.CrudRepository[E], entities []E) error {
	if entities == nil {
		return shared.InvalidArgument("initializer", "SaveAll", "input list of entities can't be nil")
	}
	if repo == nil {
		return shared.InvalidArgument("initializer", "SaveAll", "repository can't be nil")
	}

	for i := range entities {
		if err := repo.Save(ctx, &entities[i]); err != nil {
			return err
		}
	}
	return nil
}

func (h *InitializeDatabaseHandler) isPopulated(ctx context.Context) (bool, error) {
	groups, err := h.groups.FindPage(ctx, 1, 0)
	if err != nil {
		return false, err
	}
	if len(groups) > 0 {
		return true, nil
	}

	students, err := h.students.FindPage(ctx, 1, 0)
	if err != nil {
		return false, err
	}
	return len(students) > 0, nil
}

func (h *InitializeDatabaseHandler) readSeeds(cmd InitializeDatabaseCommand) (firstNames, lastNames, courseLines []string, err error) {
	if firstNames, err = h.seeds.Read(cmd.FirstNamesFile); err != nil {
		return nil, nil, nil, fmt.Errorf("initialize_database: failed to read first names: %w", err)
	}
	if lastNames, err = h.seeds.Read(cmd.LastNamesFile); err != nil {
		return nil, nil, nil, fmt.Errorf("initialize_database: failed to read last names: %w", err)
	}
	if courseLines, err = h.seeds.Read(cmd.CoursesFile); err != nil {
		return nil, nil, nil, fmt.Errorf("initialize_database: failed to read courses: %w", err)
	}
	return firstNames, lastNames, courseLines, nil
}

// persistedGroupIDs returns the ids of the last n saved groups in save order.
// Save does not report ids, so they are re-queried.
func (h *InitializeDatabaseHandler) persistedGroupIDs(ctx context.Context, n int) ([]int, error) {
	all, err := h.groups.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(all) < n {
		return nil, fmt.Errorf("expected at least %d groups after saving, found %d", n, len(all))
	}

	ids := make([]int, 0, n)
	for _, g := range all[len(all)-n:] {
		ids = append(ids, g.ID)
	}
	return ids, nil
}

// remapGroups replaces 1-based group ordinals with persisted group ids.
func remapGroups(students []student.Student, groupIDs []int) []student.Student {
	for i, s := range students {
		if !s.HasGroup() {
			continue
		}
		ordinal := *s.GroupID
		if ordinal < 1 || ordinal > len(groupIDs) {
			students[i] = s.WithoutGroup()
			continue
		}
		students[i] = s.WithGroup(groupIDs[ordinal-1])
	}
	return students
}

func (h *InitializeDatabaseHandler) enroll(ctx context.Context) (int, error) {
	courses, err := h.courses.FindAll(ctx)
	if err != nil {
		return 0, err
	}
	students, err := h.students.FindAll(ctx)
	if err != nil {
		return 0, err
	}
	if len(courses) == 0 {
		return 0, nil
	}

	enrolled, err := h.generator.GenerateStudentCourses(students, courses)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, s := range enrolled {
		ids := course.IDs(s.Courses)
		if err := h.students.InsertStudentToCourses(ctx, s, ids); err != nil {
			return total, err
		}
		total += len(ids)
	}
	return total, nil
}
