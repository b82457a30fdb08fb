package scheduler

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/limaJavier/beeplan/pkg/model"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

type backtrackingScheduler struct {
	options options
}

func NewBacktrackingScheduler(opts ...Option) Scheduler {
	return &backtrackingScheduler{
		options: newOptions(opts),
	}
}

// unit is a single course section waiting to be placed
type unit struct {
	course  *model.Course
	section int
	cells   []int // Candidate start cells
}

// frame is the decision taken for one unit: the candidate cursor and what was committed for it
type frame struct {
	cursor    int
	room      *model.Room
	committed []int
}

func (scheduler *backtrackingScheduler) Build(modelInput model.ModelInput) (*model.Schedule, Stats, error) {
	started := time.Now()
	logger := scheduler.options.logger
	stats := Stats{}

	//** Validate input
	courses := lo.Compact(modelInput.Courses)
	rooms := lo.Compact(modelInput.Rooms)
	if len(courses) == 0 || len(rooms) == 0 || len(modelInput.TimeSlots) == 0 {
		return nil, stats, fmt.Errorf("%w: courses, rooms and time slots must be non-empty lists", model.ErrInvalidInput)
	}
	if err := model.CheckCourseIDs(courses); err != nil {
		return nil, stats, err
	}

	schedule, err := model.NewSchedule(modelInput.TimeSlots)
	if err != nil {
		return nil, stats, err
	}

	//** Initialize dependencies
	sortedCourses := sortCourses(courses)
	evaluator := newPredicateEvaluator(sortedCourses, lo.Compact(modelInput.Instructors))
	planner := newPlanner(evaluator)

	units, err := buildUnits(schedule, sortedCourses)
	if err != nil {
		return nil, stats, err
	}
	stats.Units = len(units)

	logger.Info("search started",
		zap.Int("courses", len(courses)),
		zap.Int("units", len(units)),
		zap.Int("rooms", len(rooms)),
		zap.Int("slots", len(schedule.SlotCells())),
	)

	//** Search
	frames := make([]frame, 1, len(units))
	for {
		depth := len(frames) - 1
		current := &frames[depth]
		unit := units[depth]

		// Undo the previous placement of this unit before trying its next candidate
		if current.committed != nil {
			for _, cell := range current.committed {
				schedule.Remove(cell, unit.course, unit.section)
			}
			current.committed = nil
			stats.Backtracks++
		}

		placed := false
		for candidates := len(unit.cells) * len(rooms); current.cursor < candidates; {
			if budget := scheduler.options.nodeBudget; budget > 0 && stats.Nodes >= budget {
				stats.Duration = time.Since(started)
				logger.Warn("search budget exhausted", zap.Int("nodes", stats.Nodes), zap.Int("depth", depth))
				return nil, stats, fmt.Errorf("%w: %v nodes evaluated", ErrBudgetExhausted, stats.Nodes)
			}

			start, room := unit.cells[current.cursor/len(rooms)], rooms[current.cursor%len(rooms)]
			current.cursor++
			stats.Nodes++

			cells, ok := planner.Plan(schedule, unit.course, start, room)
			if !ok {
				continue
			}

			for _, cell := range cells {
				schedule.Place(cell, model.Occupancy{Course: unit.course, Section: unit.section, Room: room})
			}
			current.room = room
			current.committed = cells
			placed = true
			break
		}

		if !placed {
			// Exhausted: hand control back to the previous unit
			frames = frames[:depth]
			if len(frames) == 0 {
				stats.Duration = time.Since(started)
				logger.Info("search exhausted", zap.Int("nodes", stats.Nodes), zap.Int("backtracks", stats.Backtracks))
				return nil, stats, ErrUnsatisfiable
			}
			logger.Debug("backtracking",
				zap.String("course", unit.course.Code),
				zap.Int("section", unit.section),
				zap.Int("depth", depth),
			)
			continue
		}

		if len(frames) == len(units) {
			break
		}
		frames = append(frames, frame{})
	}

	stats.Duration = time.Since(started)
	logger.Info("search finished",
		zap.Int("nodes", stats.Nodes),
		zap.Int("backtracks", stats.Backtracks),
		zap.Duration("duration", stats.Duration),
	)
	return schedule, stats, nil
}

func (scheduler *backtrackingScheduler) Verify(schedule *model.Schedule, modelInput model.ModelInput) bool {
	return verify(schedule, modelInput)
}

// sortCourses orders courses by priority (stable):
// fixed time slot first, common departments first, theory before lab, lower year first, mandatory first, code
func sortCourses(courses []*model.Course) []*model.Course {
	sorted := slices.Clone(courses)
	rank := func(condition bool) int { return lo.Ternary(condition, 0, 1) }

	slices.SortStableFunc(sorted, func(a, b *model.Course) int {
		return cmp.Or(
			cmp.Compare(rank(a.FixedSlot != nil), rank(b.FixedSlot != nil)),
			cmp.Compare(rank(a.IsCommon()), rank(b.IsCommon())),
			cmp.Compare(a.Type, b.Type),
			cmp.Compare(a.Year, b.Year),
			cmp.Compare(rank(a.Mandatory), rank(b.Mandatory)),
			strings.Compare(a.Code, b.Code),
		)
	})
	return sorted
}

// buildUnits expands every course into one unit per section together with its candidate start cells
func buildUnits(schedule *model.Schedule, courses []*model.Course) ([]unit, error) {
	units := make([]unit, 0, len(courses))
	slotCells := schedule.SlotCells()

	for _, course := range courses {
		cells := slotCells
		if course.FixedSlot != nil {
			cell, ok := schedule.Cell(*course.FixedSlot)
			if !ok {
				return nil, fmt.Errorf("%w: fixed time slot %v of course \"%v\" is not configured", model.ErrInvalidInput, *course.FixedSlot, course.Code)
			}
			cells = []int{cell}
		}

		for section := range max(course.Sections, 1) {
			units = append(units, unit{course: course, section: section, cells: cells})
		}
	}
	return units, nil
}
