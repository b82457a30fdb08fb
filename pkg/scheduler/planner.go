package scheduler

import "github.com/limaJavier/beeplan/pkg/model"

// planner turns a candidate (start cell, room) into the consecutive cells a course section needs
type planner struct {
	evaluator predicateEvaluator
}

func newPlanner(evaluator predicateEvaluator) *planner {
	return &planner{evaluator: evaluator}
}

// Plan returns the cells start, start+1h, ... covering the course's required hours. It fails when the start is
// invalid or any following hour is missing from the configured slots or violates a constraint.
func (planner *planner) Plan(schedule *model.Schedule, course *model.Course, start int, room *model.Room) ([]int, bool) {
	if !planner.evaluator.Valid(schedule, course, start, room, false) {
		return nil, false
	}

	required := course.RequiredHours()
	cells := make([]int, 1, max(required, 1))
	cells[0] = start
	for hour := 1; hour < required; hour++ {
		next, ok := schedule.Offset(start, hour)
		if !ok || !planner.evaluator.Valid(schedule, course, next, room, true) {
			return nil, false
		}
		cells = append(cells, next)
	}
	return cells, true
}
