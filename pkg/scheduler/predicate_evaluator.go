package scheduler

import "github.com/limaJavier/beeplan/pkg/model"

type predicateEvaluator interface {
	// Checks whether the course may start at the given cell considering its fixed time slot (if any)
	FixedSlotRespected(schedule *model.Schedule, course *model.Course, cell int) bool

	// Checks whether the cell lies inside the Friday exam block
	ExamBlock(schedule *model.Schedule, cell int) bool

	// Checks whether the room type and capacity suit the course
	RoomFits(course *model.Course, room *model.Room) bool

	// Checks whether adding the course on the cell's day keeps its instructor within the daily theory-hour cap
	WithinDailyLimit(schedule *model.Schedule, course *model.Course, cell int) bool

	// Checks whether the course's instructor already teaches at the cell
	InstructorBusy(schedule *model.Schedule, course *model.Course, cell int) bool

	// Checks whether the room is already booked at the cell
	RoomBusy(schedule *model.Schedule, room *model.Room, cell int) bool

	// Checks whether a mandatory course of the same year already occupies the cell
	CohortClash(schedule *model.Schedule, course *model.Course, cell int) bool

	// Checks whether the cell holds a course conflicting with the course under the elective rules
	ElectiveClash(schedule *model.Schedule, course *model.Course, cell int) bool

	// Checks whether a lab course is placed after its theory counterpart on the same day (always true for theory courses)
	LabAfterTheory(schedule *model.Schedule, course *model.Course, cell int) bool

	// Checks every constraint. Continuation cells of a multi-hour block are exempt from the fixed time slot constraint
	Valid(schedule *model.Schedule, course *model.Course, cell int, room *model.Room, continuation bool) bool
}
