package scheduler

import (
	"fmt"

	"github.com/limaJavier/beeplan/pkg/model"
	"github.com/onsi/gomega/matchers/support/goraph/bipartitegraph"
	"github.com/samber/lo"
)

// Report re-checks a schedule (possibly edited by hand after generation) against the hard constraints and returns
// one human-readable line per violation. The schedule is not modified and the output order is deterministic.
func Report(schedule *model.Schedule, modelInput model.ModelInput) []string {
	evaluator := newPredicateEvaluator(lo.Compact(modelInput.Courses), lo.Compact(modelInput.Instructors))
	instructors := lo.SliceToMap(lo.Compact(modelInput.Instructors), func(instructor *model.Instructor) (string, *model.Instructor) {
		return instructor.Name, instructor
	})
	violations := make([]string, 0)

	//** Per-slot checks
	for _, cell := range schedule.SlotCells() {
		slot := schedule.Slot(cell)
		occupants := schedule.Occupants(cell)
		roomCollision := false

		for i, occupancy := range occupants {
			course, room := occupancy.Course, occupancy.Room

			if inExamBlock(slot) {
				violations = append(violations, fmt.Sprintf("%v: %v is scheduled inside the Friday exam block", slot, course.Code))
			}
			if !roomFits(course, room) {
				violations = append(violations, fmt.Sprintf("%v: lab %v (capacity %v) does not fit room %v", slot, course.Code, course.Capacity, room))
			}
			if !evaluator.LabAfterTheory(schedule, course, cell) {
				violations = append(violations, fmt.Sprintf("%v: lab %v is not scheduled after its theory course on the same day", slot, course.Code))
			}

			for _, other := range occupants[i+1:] {
				if instructorClash(course, other.Course) {
					violations = append(violations, fmt.Sprintf("%v: instructor %v teaches %v and %v at the same time", slot, course.Instructor, course.Code, other.Course.Code))
				}
				if room.Name == other.Room.Name {
					roomCollision = true
					violations = append(violations, fmt.Sprintf("%v: room %v hosts %v and %v at the same time", slot, room.Name, course.Code, other.Course.Code))
				}
				if cohortClash(course, other.Course) {
					violations = append(violations, fmt.Sprintf("%v: mandatory year-%v courses %v and %v overlap", slot, course.Year, course.Code, other.Course.Code))
				}
				if electiveClash(course, other.Course) {
					violations = append(violations, fmt.Sprintf("%v: elective conflict between %v and %v", slot, course.Code, other.Course.Code))
				}
			}
		}

		if roomCollision {
			violations = append(violations, roomReassignmentHint(slot, occupants, modelInput.Rooms))
		}
	}

	//** Daily theory-hour caps
	for _, day := range schedule.Days() {
		hours := make(map[string]int)
		order := make([]string, 0)
		for _, cell := range schedule.CellsOfDay(day) {
			for _, occupancy := range schedule.Occupants(cell) {
				name := occupancy.Course.Instructor
				if !countsTowardsCap(occupancy.Course, instructors[name]) {
					continue
				}
				if _, ok := hours[name]; !ok {
					order = append(order, name)
				}
				hours[name]++
			}
		}
		for _, name := range order {
			if limit := instructors[name].DailyCap(); hours[name] > limit {
				violations = append(violations, fmt.Sprintf("%v: instructor %v teaches %v theory hours (limit %v)", day, name, hours[name], limit))
			}
		}
	}

	return violations
}

func verify(schedule *model.Schedule, modelInput model.ModelInput) bool {
	return schedule != nil && len(Report(schedule, modelInput)) == 0
}

// roomReassignmentHint tells whether the slot's occupants could be spread over suitable rooms without clashing
func roomReassignmentHint(slot model.TimeSlot, occupants []model.Occupancy, rooms []*model.Room) string {
	rooms = lo.Compact(rooms)

	// Build neighbors predicate based on room fitness
	neighbors := func(occupancyAny any, roomAny any) (bool, error) {
		return roomFits(occupancyAny.(model.Occupancy).Course, roomAny.(*model.Room)), nil
	}

	occupantsAny := lo.Map(occupants, func(occupancy model.Occupancy, _ int) any { return occupancy })
	roomsAny := lo.Map(rooms, func(room *model.Room, _ int) any { return room })

	graph, err := bipartitegraph.NewBipartiteGraph(occupantsAny, roomsAny, neighbors)
	if err != nil {
		return fmt.Sprintf("%v: cannot compute room reassignment: %v", slot, err)
	}

	matching := graph.LargestMatching()
	if len(matching) < len(occupants) {
		return fmt.Sprintf("%v: only %v of %v courses can be given distinct suitable rooms", slot, len(matching), len(occupants))
	}

	return fmt.Sprintf("%v: all %v courses can be reassigned to distinct suitable rooms", slot, len(occupants))
}
