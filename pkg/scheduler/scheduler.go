package scheduler

import (
	"errors"
	"time"

	"github.com/limaJavier/beeplan/pkg/model"
	"go.uber.org/zap"
)

var (
	// ErrUnsatisfiable is returned when no complete assignment exists under the constraints
	ErrUnsatisfiable = errors.New("no valid schedule could be generated with the given constraints")

	// ErrBudgetExhausted is returned when the search visits more nodes than the configured budget allows
	ErrBudgetExhausted = errors.New("search budget exhausted")
)

type Scheduler interface {
	Build(
		modelInput model.ModelInput,
	) (schedule *model.Schedule, stats Stats, err error)

	Verify(
		schedule *model.Schedule,
		modelInput model.ModelInput,
	) bool
}

// Stats describes the work done by a single Build call
type Stats struct {
	Units      int // Course sections to place
	Nodes      int // Candidate (slot, room) pairs evaluated
	Backtracks int // Placements undone
	Duration   time.Duration
}

type options struct {
	nodeBudget int
	logger     *zap.Logger
}

type Option func(*options)

// WithNodeBudget bounds the number of candidates the search may evaluate; zero means unlimited
func WithNodeBudget(nodes int) Option {
	return func(options *options) {
		options.nodeBudget = nodes
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(options *options) {
		if logger != nil {
			options.logger = logger
		}
	}
}

func newOptions(opts []Option) options {
	result := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&result)
	}
	return result
}

// GenerateSchedule places every section of every course or fails with model.ErrInvalidInput, ErrUnsatisfiable or
// ErrBudgetExhausted. Instructors may be nil; unknown instructors get the default daily cap.
func GenerateSchedule(
	courses []*model.Course,
	rooms []*model.Room,
	timeSlots []model.TimeSlot,
	instructors []*model.Instructor,
	opts ...Option,
) (*model.Schedule, error) {
	schedule, _, err := NewBacktrackingScheduler(opts...).Build(model.ModelInput{
		Courses:     courses,
		Rooms:       rooms,
		TimeSlots:   timeSlots,
		Instructors: instructors,
	})
	return schedule, err
}

// IsValidAssignment checks whether the course may start at the slot in the room given the schedule built so far
func IsValidAssignment(
	schedule *model.Schedule,
	course *model.Course,
	slot model.TimeSlot,
	room *model.Room,
	instructors []*model.Instructor,
	allCourses []*model.Course,
) bool {
	cell, ok := schedule.Cell(slot)
	if !ok {
		return false
	}
	return newPredicateEvaluator(allCourses, instructors).Valid(schedule, course, cell, room, false)
}
