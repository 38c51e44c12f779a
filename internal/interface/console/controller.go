// Package console implements the interactive text menu over the university
// repositories.
package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/university-hub/university/internal/domain/course"
	"github.com/university-hub/university/internal/domain/group"
	"github.com/university-hub/university/internal/domain/student"
	"github.com/university-hub/university/pkg/logger"
)

const menu = "Hello, select a request by entering a number\n" +
	"1. Find all groups with less or equals student count\n" +
	"2. Find all students related to course\n" +
	"3. Add new student\n" +
	"4. Delete student by id\n" +
	"5. Add a student to the course\n" +
	"6. Remove the student from one course"

const (
	msgRepeat         = "Would you like to make another request? Input: [y] - yes, [n] - no"
	msgWrongNumber    = "Is not right number!"
	msgNoCourse       = "This course is not exist!"
	msgNoStudent      = "This student is not exist!"
	msgRequestFailed  = "Request failed: "
	msgShowStudents   = "Do you want to see a list of all students? [y] - yes, [n] - no"
	msgEnterStudentID = "Enter student id..."
)

// newStudentInput is validated before a student is saved.
type newStudentInput struct {
	FirstName string `validate:"required,max=50"`
	LastName  string `validate:"required,max=50"`
}

// Controller runs the request loop.
type Controller struct {
	students student.Repository
	courses  course.Repository
	groups   group.Repository
	view     *View
	validate *validator.Validate
	logger   *logger.Logger
}

// NewController creates a new Controller.
func NewController(
	students student.Repository,
	courses course.Repository,
	groups group.Repository,
	view *View,
	log *logger.Logger,
) *Controller {
	if log == nil {
		log = logger.Nop()
	}
	return &Controller{
		students: students,
		courses:  courses,
		groups:   groups,
		view:     view,
		validate: validator.New(),
		logger:   log.With(logger.Component("console")),
	}
}

// Run serves requests until the user declines another one or input ends.
// Request failures are reported to the user and do not stop the loop.
func (c *Controller) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		c.view.PrintMessage(menu)
		choice, err := c.view.ReadNumber()
		if err != nil {
			return endOfInput(err)
		}

		if err := c.dispatch(ctx, choice); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			c.logger.Error("request failed", logger.Int("choice", choice), logger.Err(err))
			c.view.PrintMessage(msgRequestFailed + err.Error())
		}

		c.view.PrintMessage(msgRepeat)
		answer, err := c.view.ReadString()
		if err != nil {
			return endOfInput(err)
		}
		if !strings.EqualFold(answer, "y") {
			return nil
		}
	}
}

func endOfInput(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (c *Controller) dispatch(ctx context.Context, choice int) error {
	switch choice {
	case 1:
		return c.findGroupsBySize(ctx)
	case 2:
		return c.findStudentsByCourse(ctx)
	case 3:
		return c.addStudent(ctx)
	case 4:
		return c.deleteStudent(ctx)
	case 5:
		return c.addStudentToCourse(ctx)
	case 6:
		return c.removeStudentFromCourse(ctx)
	default:
		c.view.PrintMessage(msgWrongNumber)
		return nil
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Requests
// ─────────────────────────────────────────────────────────────────────────────

func (c *Controller) findGroupsBySize(ctx context.Context) error {
	c.view.PrintMessage("Enter the number of students...")
	maxSize, err := c.view.ReadNumber()
	if err != nil {
		return err
	}

	groups, err := c.groups.FindAllBySizeEqualsOrLess(ctx, maxSize)
	if err != nil {
		return err
	}
	PrintList(c.view, groups, "There are no groups with the same or less students")
	return nil
}

func (c *Controller) findStudentsByCourse(ctx context.Context) error {
	crs, err := c.selectCourse(ctx)
	if err != nil || crs == nil {
		return err
	}

	students, err := c.students.FindAllByCourse(ctx, crs.Name)
	if err != nil {
		return err
	}
	PrintList(c.view, students, "There are no students on this course yet!")
	return nil
}

func (c *Controller) addStudent(ctx context.Context) error {
	c.view.PrintMessage("Enter student first name...")
	firstName, err := c.view.ReadString()
	if err != nil {
		return err
	}
	c.view.PrintMessage("Enter student last name...")
	lastName, err := c.view.ReadString()
	if err != nil {
		return err
	}

	input := newStudentInput{FirstName: firstName, LastName: lastName}
	if err := c.validate.Struct(input); err != nil {
		c.view.PrintMessage(describeValidation(err))
		return nil
	}

	s := student.New(input.FirstName, input.LastName, nil)
	if err := c.students.Save(ctx, &s); err != nil {
		return err
	}
	c.logger.Info("student added", logger.String("name", s.FirstName+" "+s.LastName))
	c.view.PrintMessage("Student added successfully!")
	return nil
}

func (c *Controller) deleteStudent(ctx context.Context) error {
	s, err := c.selectStudent(ctx)
	if err != nil || s == nil {
		return err
	}

	if err := c.students.DeleteByID(ctx, s.ID); err != nil {
		return err
	}
	c.logger.Info("student deleted", logger.StudentID(s.ID))
	c.view.PrintMessage("Student deleted successfully!")
	return nil
}

func (c *Controller) addStudentToCourse(ctx context.Context) error {
	crs, err := c.selectCourse(ctx)
	if err != nil || crs == nil {
		return err
	}
	s, err := c.selectStudent(ctx)
	if err != nil || s == nil {
		return err
	}

	enrolled, err := c.students.FindAllByCourse(ctx, crs.Name)
	if err != nil {
		return err
	}
	if student.Contains(enrolled, *s) {
		c.view.PrintMessage("This student already has this course!")
		return nil
	}

	if err := c.students.InsertStudentToCourses(ctx, *s, []int{crs.ID}); err != nil {
		return err
	}
	c.logger.Info("student enrolled", logger.StudentID(s.ID), logger.CourseID(crs.ID))
	c.view.PrintMessage("Student added to course successfully!")
	return nil
}

func (c *Controller) removeStudentFromCourse(ctx context.Context) error {
	s, err := c.selectStudent(ctx)
	if err != nil || s == nil {
		return err
	}

	courses, err := c.courses.FindAllByStudentID(ctx, s.ID)
	if err != nil {
		return err
	}
	if len(courses) == 0 {
		c.view.PrintMessage("This student has no courses!")
		return nil
	}
	c.view.PrintMessage("This student has courses: ")
	PrintList(c.view, courses, "")

	c.view.PrintMessage("Enter the course from which you want to remove the student...")
	crs, err := c.readCourse(ctx)
	if err != nil || crs == nil {
		return err
	}

	if err := c.students.DeleteFromCourse(ctx, s.ID, crs.ID); err != nil {
		return err
	}
	c.logger.Info("student removed from course", logger.StudentID(s.ID), logger.CourseID(crs.ID))
	c.view.PrintMessage("Student deleted from course successfully!")
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Helper Methods
// ─────────────────────────────────────────────────────────────────────────────

// selectCourse lists all courses and reads a course name. It returns nil
// after telling the user when the course does not exist.
func (c *Controller) selectCourse(ctx context.Context) (*course.Course, error) {
	c.view.PrintMessage("Select a course name...")
	courses, err := c.courses.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	PrintList(c.view, courses, "There are no courses yet!")
	c.view.PrintMessage("Enter the name of the course...")
	return c.readCourse(ctx)
}

func (c *Controller) readCourse(ctx context.Context) (*course.Course, error) {
	name, err := c.view.ReadString()
	if err != nil {
		return nil, err
	}

	crs, err := c.courses.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if crs == nil {
		c.view.PrintMessage(msgNoCourse)
	}
	return crs, nil
}

// selectStudent optionally lists all students and reads a student id. It
// returns nil after telling the user when the student does not exist.
func (c *Controller) selectStudent(ctx context.Context) (*student.Student, error) {
	c.view.PrintMessage(msgShowStudents)
	answer, err := c.view.ReadString()
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(answer, "y") {
		students, err := c.students.FindAll(ctx)
		if err != nil {
			return nil, err
		}
		PrintList(c.view, students, "There are no students yet!")
	}

	c.view.PrintMessage(msgEnterStudentID)
	id, err := c.view.ReadNumber()
	if err != nil {
		return nil, err
	}

	s, err := c.students.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		c.view.PrintMessage(msgNoStudent)
	}
	return s, nil
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", fe.Field()))
		}
	}
	return "Invalid student: " + strings.Join(msgs, ", ")
}
