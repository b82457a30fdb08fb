package scheduler

import (
	"github.com/limaJavier/beeplan/pkg/model"
	"github.com/samber/lo"
)

type predicateEvaluatorStandard struct {
	instructors  map[string]*model.Instructor
	counterparts map[string]*model.Course // Theory counterpart per lab course id (nil when it cannot be identified)
}

func newPredicateEvaluator(courses []*model.Course, instructors []*model.Instructor) predicateEvaluator {
	evaluator := predicateEvaluatorStandard{
		instructors: lo.SliceToMap(instructors, func(instructor *model.Instructor) (string, *model.Instructor) {
			return instructor.Name, instructor
		}),
		counterparts: make(map[string]*model.Course),
	}

	for _, course := range courses {
		if course.Type == model.Lab {
			evaluator.counterparts[course.ID] = findTheoryCounterpart(course, courses)
		}
	}

	return &evaluator
}

func (evaluator *predicateEvaluatorStandard) FixedSlotRespected(schedule *model.Schedule, course *model.Course, cell int) bool {
	if course.FixedSlot == nil {
		return true
	}
	return schedule.Slot(cell) == *course.FixedSlot
}

func (evaluator *predicateEvaluatorStandard) ExamBlock(schedule *model.Schedule, cell int) bool {
	return inExamBlock(schedule.Slot(cell))
}

func (evaluator *predicateEvaluatorStandard) RoomFits(course *model.Course, room *model.Room) bool {
	return roomFits(course, room)
}

func (evaluator *predicateEvaluatorStandard) WithinDailyLimit(schedule *model.Schedule, course *model.Course, cell int) bool {
	if course.Type != model.Theory {
		return true
	}
	instructor := evaluator.instructors[course.Instructor]

	// Every occupied cell stands for one hour taught
	total := 0
	for _, dayCell := range schedule.DayCells(cell) {
		total += lo.CountBy(schedule.Occupants(dayCell), func(occupancy model.Occupancy) bool {
			return occupancy.Course.Instructor == course.Instructor && countsTowardsCap(occupancy.Course, instructor)
		})
	}
	if countsTowardsCap(course, instructor) {
		total += course.RequiredHours()
	}

	return total <= instructor.DailyCap()
}

func (evaluator *predicateEvaluatorStandard) InstructorBusy(schedule *model.Schedule, course *model.Course, cell int) bool {
	return lo.SomeBy(schedule.Occupants(cell), func(occupancy model.Occupancy) bool {
		return instructorClash(course, occupancy.Course)
	})
}

func (evaluator *predicateEvaluatorStandard) RoomBusy(schedule *model.Schedule, room *model.Room, cell int) bool {
	return lo.SomeBy(schedule.Occupants(cell), func(occupancy model.Occupancy) bool {
		return occupancy.Room.Name == room.Name
	})
}

func (evaluator *predicateEvaluatorStandard) CohortClash(schedule *model.Schedule, course *model.Course, cell int) bool {
	return lo.SomeBy(schedule.Occupants(cell), func(occupancy model.Occupancy) bool {
		return cohortClash(course, occupancy.Course)
	})
}

func (evaluator *predicateEvaluatorStandard) ElectiveClash(schedule *model.Schedule, course *model.Course, cell int) bool {
	return lo.SomeBy(schedule.Occupants(cell), func(occupancy model.Occupancy) bool {
		return electiveClash(course, occupancy.Course)
	})
}

func (evaluator *predicateEvaluatorStandard) LabAfterTheory(schedule *model.Schedule, course *model.Course, cell int) bool {
	if course.Type != model.Lab {
		return true
	}
	theory := evaluator.counterparts[course.ID]
	if theory == nil {
		return false
	}
	return theoryPlacedBefore(schedule, theory, cell)
}

func (evaluator *predicateEvaluatorStandard) Valid(schedule *model.Schedule, course *model.Course, cell int, room *model.Room, continuation bool) bool {
	return (continuation || evaluator.FixedSlotRespected(schedule, course, cell)) &&
		!evaluator.ExamBlock(schedule, cell) &&
		evaluator.RoomFits(course, room) &&
		evaluator.WithinDailyLimit(schedule, course, cell) &&
		!evaluator.InstructorBusy(schedule, course, cell) &&
		!evaluator.RoomBusy(schedule, room, cell) &&
		!evaluator.CohortClash(schedule, course, cell) &&
		!evaluator.ElectiveClash(schedule, course, cell) &&
		evaluator.LabAfterTheory(schedule, course, cell)
}

// Checks whether the theory course occupies a cell of the same day starting strictly before the given cell
func theoryPlacedBefore(schedule *model.Schedule, theory *model.Course, cell int) bool {
	start := schedule.Slot(cell).Start
	for _, dayCell := range schedule.DayCells(cell) {
		if schedule.Slot(dayCell).Start >= start {
			return false
		}
		if lo.SomeBy(schedule.Occupants(dayCell), func(occupancy model.Occupancy) bool {
			return occupancy.Course.ID == theory.ID
		}) {
			return true
		}
	}
	return false
}
