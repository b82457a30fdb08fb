package model

import (
	"fmt"
	"slices"
	"time"

	"github.com/samber/lo"
)

// Occupancy is a single (course section, room) pair held by one cell of the schedule
type Occupancy struct {
	Course  *Course
	Section int
	Room    *Room
}

// Schedule is an index-addressed table of days × periods. Only cells matching a configured time slot exist;
// each of them holds an ordered list of occupancies.
type Schedule struct {
	indexer     indexer
	days        []time.Weekday
	periods     []Clock
	dayIndex    map[time.Weekday]int
	periodIndex map[Clock]int
	slotCells   []int // Cells of the configured slots, in input order
	exists      []bool
	cells       [][]Occupancy
}

// NewSchedule creates an empty schedule over the given time slots. Duplicated slots are ignored.
func NewSchedule(slots []TimeSlot) (*Schedule, error) {
	if len(slots) == 0 {
		return nil, fmt.Errorf("%w: time slots must be a non-empty list", ErrInvalidInput)
	}

	//** Extract days (first-seen order) and periods (ascending)
	days := lo.Uniq(lo.Map(slots, func(slot TimeSlot, _ int) time.Weekday { return slot.Day }))
	periods := lo.Uniq(lo.Map(slots, func(slot TimeSlot, _ int) Clock { return slot.Start }))
	slices.Sort(periods)

	schedule := &Schedule{
		indexer:     newIndexer(len(days), len(periods)),
		days:        days,
		periods:     periods,
		dayIndex:    make(map[time.Weekday]int, len(days)),
		periodIndex: make(map[Clock]int, len(periods)),
	}
	for i, day := range days {
		schedule.dayIndex[day] = i
	}
	for i, period := range periods {
		schedule.periodIndex[period] = i
	}

	//** Mark configured cells
	schedule.exists = make([]bool, schedule.indexer.Cells())
	schedule.cells = make([][]Occupancy, schedule.indexer.Cells())
	for _, slot := range slots {
		cell := schedule.indexer.Index(schedule.dayIndex[slot.Day], schedule.periodIndex[slot.Start])
		if schedule.exists[cell] {
			continue
		}
		schedule.exists[cell] = true
		schedule.slotCells = append(schedule.slotCells, cell)
	}

	return schedule, nil
}

// Cell returns the cell index of the slot and whether the slot is configured
func (schedule *Schedule) Cell(slot TimeSlot) (int, bool) {
	day, ok := schedule.dayIndex[slot.Day]
	if !ok {
		return 0, false
	}
	period, ok := schedule.periodIndex[slot.Start]
	if !ok {
		return 0, false
	}
	cell := schedule.indexer.Index(day, period)
	return cell, schedule.exists[cell]
}

// Offset returns the cell that starts the given number of hours after cell on the same day, if it is configured
func (schedule *Schedule) Offset(cell, hours int) (int, bool) {
	slot := schedule.Slot(cell)
	return schedule.Cell(TimeSlot{Day: slot.Day, Start: slot.Start.Add(hours)})
}

func (schedule *Schedule) Slot(cell int) TimeSlot {
	day, period := schedule.indexer.Attributes(cell)
	return TimeSlot{Day: schedule.days[day], Start: schedule.periods[period]}
}

// Slots returns the configured time slots in input order
func (schedule *Schedule) Slots() []TimeSlot {
	return lo.Map(schedule.slotCells, func(cell int, _ int) TimeSlot { return schedule.Slot(cell) })
}

// SlotCells returns the cells of the configured time slots in input order
func (schedule *Schedule) SlotCells() []int {
	return slices.Clone(schedule.slotCells)
}

// Days returns the days of the configured slots in first-seen order
func (schedule *Schedule) Days() []time.Weekday {
	return slices.Clone(schedule.days)
}

// DayCells returns the configured cells of the cell's day in ascending start order
func (schedule *Schedule) DayCells(cell int) []int {
	day, _ := schedule.indexer.Attributes(cell)
	return schedule.cellsOfDay(day)
}

// CellsOfDay returns the configured cells of the day in ascending start order
func (schedule *Schedule) CellsOfDay(day time.Weekday) []int {
	index, ok := schedule.dayIndex[day]
	if !ok {
		return nil
	}
	return schedule.cellsOfDay(index)
}

func (schedule *Schedule) cellsOfDay(day int) []int {
	cells := make([]int, 0, len(schedule.periods))
	for period := range schedule.periods {
		if index := schedule.indexer.Index(day, period); schedule.exists[index] {
			cells = append(cells, index)
		}
	}
	return cells
}

func (schedule *Schedule) Occupants(cell int) []Occupancy {
	return schedule.cells[cell]
}

// At returns the occupants of a time slot (nil for unknown slots)
func (schedule *Schedule) At(slot TimeSlot) []Occupancy {
	cell, ok := schedule.Cell(slot)
	if !ok {
		return nil
	}
	return schedule.cells[cell]
}

// Place appends the occupancy to the cell
func (schedule *Schedule) Place(cell int, occupancy Occupancy) {
	schedule.cells[cell] = append(schedule.cells[cell], occupancy)
}

// Remove drops every occupancy of the course section from the cell
func (schedule *Schedule) Remove(cell int, course *Course, section int) {
	schedule.cells[cell] = slices.DeleteFunc(schedule.cells[cell], func(occupancy Occupancy) bool {
		return occupancy.Course.ID == course.ID && occupancy.Section == section
	})
}

// Assign places an occupancy by time slot. It is meant for manual edits of a generated schedule.
func (schedule *Schedule) Assign(slot TimeSlot, occupancy Occupancy) error {
	cell, ok := schedule.Cell(slot)
	if !ok {
		return fmt.Errorf("%w: time slot %v is not configured", ErrInvalidInput, slot)
	}
	schedule.Place(cell, occupancy)
	return nil
}

// Map returns the schedule as a slot -> occupancies mapping containing only non-empty slots
func (schedule *Schedule) Map() map[TimeSlot][]Occupancy {
	result := make(map[TimeSlot][]Occupancy)
	for _, cell := range schedule.slotCells {
		if len(schedule.cells[cell]) > 0 {
			result[schedule.Slot(cell)] = slices.Clone(schedule.cells[cell])
		}
	}
	return result
}

// Len returns the total number of occupancies
func (schedule *Schedule) Len() int {
	return lo.SumBy(schedule.cells, func(occupants []Occupancy) int { return len(occupants) })
}
