package scheduler

import (
	"errors"
	"testing"
	"time"

	"github.com/limaJavier/beeplan/pkg/model"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func daySlots(day time.Weekday, times ...string) []model.TimeSlot {
	slots := make([]model.TimeSlot, 0, len(times))
	for _, value := range times {
		clock, err := model.ParseClock(value)
		if err != nil {
			panic(err)
		}
		slots = append(slots, model.TimeSlot{Day: day, Start: clock})
	}
	return slots
}

func slotAt(day time.Weekday, value string) model.TimeSlot {
	return daySlots(day, value)[0]
}

func newTheory(id, code, instructor string, hours, year int) *model.Course {
	return &model.Course{
		ID:          id,
		Code:        code,
		Name:        code,
		Instructor:  instructor,
		Hours:       hours,
		TheoryHours: hours,
		Type:        model.Theory,
		Year:        year,
		Mandatory:   true,
		Sections:    1,
		Capacity:    40,
		Department:  model.SENG,
	}
}

func newLab(id, code, instructor string, hours, year int) *model.Course {
	course := newTheory(id, code, instructor, hours, year)
	course.Type = model.Lab
	course.TheoryHours = 0
	course.LabHours = hours
	return course
}

func codesAt(schedule *model.Schedule, slot model.TimeSlot) []string {
	codes := make([]string, 0)
	for _, occupancy := range schedule.At(slot) {
		codes = append(codes, occupancy.Course.Code)
	}
	return codes
}

func TestBuild(t *testing.T) {
	t.Run("Places a two-hour course at the first consecutive window", func(t *testing.T) {
		// Arrange
		course := newTheory("1", "SENG101", "I", 2, 1)
		rooms := []*model.Room{{Name: "A101", Capacity: 60, Type: model.Theory}}
		slots := daySlots(time.Monday, "09:00", "10:00", "11:00")

		// Act
		schedule, err := GenerateSchedule([]*model.Course{course}, rooms, slots, nil)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, []string{"SENG101"}, codesAt(schedule, slotAt(time.Monday, "09:00")))
		assert.Equal(t, []string{"SENG101"}, codesAt(schedule, slotAt(time.Monday, "10:00")))
		assert.Empty(t, codesAt(schedule, slotAt(time.Monday, "11:00")))
		assert.Equal(t, 2, schedule.Len())
	})

	t.Run("Lab with only earlier slots than its theory is unsatisfiable", func(t *testing.T) {
		// Arrange
		theory := newTheory("1", "X101", "I", 1, 1)
		theory.FixedSlot = &model.TimeSlot{Day: time.Monday, Start: model.NewClock(10, 0)}
		lab := newLab("2", "X101L", "I", 1, 1)
		rooms := []*model.Room{
			{Name: "A101", Capacity: 60, Type: model.Theory},
			{Name: "LAB1", Capacity: 40, Type: model.Lab},
		}
		slots := daySlots(time.Monday, "09:00", "10:00")

		// Act
		schedule, err := GenerateSchedule([]*model.Course{lab, theory}, rooms, slots, nil)

		// Assert
		assert.ErrorIs(t, err, ErrUnsatisfiable)
		assert.Nil(t, schedule)
	})

	t.Run("Lab is placed after its theory when a later slot exists", func(t *testing.T) {
		// Arrange
		theory := newTheory("1", "X101", "I", 1, 1)
		theory.FixedSlot = &model.TimeSlot{Day: time.Monday, Start: model.NewClock(10, 0)}
		lab := newLab("2", "X101L", "I", 1, 1)
		rooms := []*model.Room{
			{Name: "A101", Capacity: 60, Type: model.Theory},
			{Name: "LAB1", Capacity: 40, Type: model.Lab},
		}
		slots := daySlots(time.Monday, "09:00", "10:00", "11:00")

		// Act
		schedule, err := GenerateSchedule([]*model.Course{lab, theory}, rooms, slots, nil)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, []string{"X101"}, codesAt(schedule, slotAt(time.Monday, "10:00")))
		assert.Equal(t, []string{"X101L"}, codesAt(schedule, slotAt(time.Monday, "11:00")))
		assert.Equal(t, "LAB1", schedule.At(slotAt(time.Monday, "11:00"))[0].Room.Name)
	})

	t.Run("Mandatory courses of the same year cannot share the only slot", func(t *testing.T) {
		// Arrange
		first := newTheory("1", "SENG201", "I", 1, 2)
		second := newTheory("2", "SENG203", "J", 1, 2)
		rooms := []*model.Room{
			{Name: "A101", Capacity: 60, Type: model.Theory},
			{Name: "A102", Capacity: 60, Type: model.Theory},
		}
		slots := daySlots(time.Monday, "09:00")

		// Act
		_, err := GenerateSchedule([]*model.Course{first, second}, rooms, slots, nil)

		// Assert
		assert.ErrorIs(t, err, ErrUnsatisfiable)
	})

	t.Run("Mandatory and elective courses of the same year may share a slot", func(t *testing.T) {
		// Arrange
		first := newTheory("1", "SENG201", "I", 1, 2)
		second := newTheory("2", "SENG203", "J", 1, 2)
		second.Mandatory = false
		rooms := []*model.Room{
			{Name: "A101", Capacity: 60, Type: model.Theory},
			{Name: "A102", Capacity: 60, Type: model.Theory},
		}
		slots := daySlots(time.Monday, "09:00")

		// Act
		schedule, err := GenerateSchedule([]*model.Course{first, second}, rooms, slots, nil)

		// Assert
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"SENG201", "SENG203"}, codesAt(schedule, slotAt(time.Monday, "09:00")))
	})

	t.Run("Empty inputs are rejected", func(t *testing.T) {
		rooms := []*model.Room{{Name: "A101", Capacity: 60, Type: model.Theory}}
		slots := daySlots(time.Monday, "09:00")
		courses := []*model.Course{newTheory("1", "SENG101", "I", 1, 1)}

		_, err := GenerateSchedule(nil, rooms, slots, nil)
		assert.ErrorIs(t, err, model.ErrInvalidInput)

		_, err = GenerateSchedule(courses, nil, slots, nil)
		assert.ErrorIs(t, err, model.ErrInvalidInput)

		_, err = GenerateSchedule(courses, rooms, nil, nil)
		assert.ErrorIs(t, err, model.ErrInvalidInput)
		assert.False(t, errors.Is(err, ErrUnsatisfiable))
	})

	t.Run("Courses without distinct ids are rejected", func(t *testing.T) {
		// Arrange
		rooms := []*model.Room{
			{Name: "A101", Capacity: 60, Type: model.Theory},
			{Name: "A102", Capacity: 60, Type: model.Theory},
		}
		slots := daySlots(time.Monday, "09:00")
		unnamed := []*model.Course{newTheory("", "SENG201", "I", 1, 2), newTheory("", "SENG203", "J", 1, 2)}
		repeated := []*model.Course{newTheory("1", "SENG201", "I", 1, 2), newTheory("1", "SENG203", "J", 1, 2)}

		// Act
		unnamedSchedule, unnamedErr := GenerateSchedule(unnamed, rooms, slots, nil)
		_, repeatedErr := GenerateSchedule(repeated, rooms, slots, nil)

		// Assert
		assert.ErrorIs(t, unnamedErr, model.ErrInvalidInput)
		assert.Nil(t, unnamedSchedule)
		assert.ErrorIs(t, repeatedErr, model.ErrInvalidInput)
		assert.ErrorContains(t, repeatedErr, "duplicate course id \"1\"")
	})

	t.Run("Friday exam block is never used", func(t *testing.T) {
		// Arrange
		course := newTheory("1", "SENG101", "I", 1, 1)
		rooms := []*model.Room{{Name: "A101", Capacity: 60, Type: model.Theory}}
		blocked := daySlots(time.Friday, "13:20", "14:20", "15:10")

		// Act
		_, err := GenerateSchedule([]*model.Course{course}, rooms, blocked, nil)

		// Assert
		assert.ErrorIs(t, err, ErrUnsatisfiable)

		// Act
		schedule, err := GenerateSchedule([]*model.Course{course}, rooms, append(blocked, slotAt(time.Friday, "15:20")), nil)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, []string{"SENG101"}, codesAt(schedule, slotAt(time.Friday, "15:20")))
	})

	t.Run("Lab courses need a lab room large enough", func(t *testing.T) {
		// Arrange
		theory := newTheory("1", "X101", "I", 1, 1)
		lab := newLab("2", "X101L", "I", 1, 1)
		lab.Capacity = 50
		rooms := []*model.Room{
			{Name: "A101", Capacity: 100, Type: model.Theory},
			{Name: "LAB1", Capacity: 40, Type: model.Lab},
		}
		slots := daySlots(time.Monday, "09:00", "10:00")

		// Act
		_, err := GenerateSchedule([]*model.Course{theory, lab}, rooms, slots, nil)

		// Assert
		assert.ErrorIs(t, err, ErrUnsatisfiable)

		// Act
		lab.Capacity = 40
		schedule, err := GenerateSchedule([]*model.Course{theory, lab}, rooms, slots, nil)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "LAB1", schedule.At(slotAt(time.Monday, "10:00"))[0].Room.Name)
	})

	t.Run("Daily theory cap pushes courses to another day", func(t *testing.T) {
		// Arrange
		courses := []*model.Course{
			newTheory("1", "SENG101", "I", 1, 1),
			newTheory("2", "SENG201", "I", 1, 2),
			newTheory("3", "SENG301", "I", 1, 3),
		}
		instructors := []*model.Instructor{{Name: "I", MaxDailyTheoryHours: 2}}
		rooms := []*model.Room{{Name: "A101", Capacity: 60, Type: model.Theory}}
		slots := append(daySlots(time.Monday, "09:00", "10:00", "11:00"), slotAt(time.Tuesday, "09:00"))

		// Act
		schedule, err := GenerateSchedule(courses, rooms, slots, instructors)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, []string{"SENG101"}, codesAt(schedule, slotAt(time.Monday, "09:00")))
		assert.Equal(t, []string{"SENG201"}, codesAt(schedule, slotAt(time.Monday, "10:00")))
		assert.Empty(t, codesAt(schedule, slotAt(time.Monday, "11:00")))
		assert.Equal(t, []string{"SENG301"}, codesAt(schedule, slotAt(time.Tuesday, "09:00")))
	})

	t.Run("Graduate courses are excluded from the cap when the instructor asks for it", func(t *testing.T) {
		// Arrange
		graduate := newTheory("3", "SENG501", "I", 1, 4)
		graduate.Graduate = true
		courses := []*model.Course{
			newTheory("1", "SENG101", "I", 1, 1),
			newTheory("2", "SENG201", "I", 1, 2),
			graduate,
		}
		instructors := []*model.Instructor{{Name: "I", MaxDailyTheoryHours: 2, ExcludeGraduateFromLimit: true}}
		rooms := []*model.Room{{Name: "A101", Capacity: 60, Type: model.Theory}}
		slots := daySlots(time.Monday, "09:00", "10:00", "11:00")

		// Act
		schedule, err := GenerateSchedule(courses, rooms, slots, instructors)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 3, schedule.Len())
	})

	t.Run("Every section is placed", func(t *testing.T) {
		// Arrange
		course := newTheory("1", "SENG101", "I", 1, 1)
		course.Sections = 2
		rooms := []*model.Room{{Name: "A101", Capacity: 60, Type: model.Theory}}
		slots := daySlots(time.Monday, "09:00", "10:00")

		// Act
		schedule, err := GenerateSchedule([]*model.Course{course}, rooms, slots, nil)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 0, schedule.At(slotAt(time.Monday, "09:00"))[0].Section)
		assert.Equal(t, 1, schedule.At(slotAt(time.Monday, "10:00"))[0].Section)
	})

	t.Run("Fixed time slots are honored", func(t *testing.T) {
		// Arrange
		course := newTheory("1", "MATH101", "I", 1, 1)
		course.Department = model.MATH
		course.FixedSlot = &model.TimeSlot{Day: time.Monday, Start: model.NewClock(11, 0)}
		rooms := []*model.Room{{Name: "A101", Capacity: 60, Type: model.Theory}}
		slots := daySlots(time.Monday, "09:00", "10:00", "11:00")

		// Act
		schedule, err := GenerateSchedule([]*model.Course{course}, rooms, slots, nil)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, []string{"MATH101"}, codesAt(schedule, slotAt(time.Monday, "11:00")))
	})

	t.Run("Fixed multi-hour courses occupy the hours after their pinned start", func(t *testing.T) {
		// Arrange
		course := newTheory("1", "MATH101", "I", 2, 1)
		course.FixedSlot = &model.TimeSlot{Day: time.Monday, Start: model.NewClock(10, 0)}
		rooms := []*model.Room{{Name: "A101", Capacity: 60, Type: model.Theory}}
		slots := daySlots(time.Monday, "09:00", "10:00", "11:00")

		// Act
		schedule, err := GenerateSchedule([]*model.Course{course}, rooms, slots, nil)

		// Assert
		require.NoError(t, err)
		assert.Empty(t, codesAt(schedule, slotAt(time.Monday, "09:00")))
		assert.Equal(t, []string{"MATH101"}, codesAt(schedule, slotAt(time.Monday, "10:00")))
		assert.Equal(t, []string{"MATH101"}, codesAt(schedule, slotAt(time.Monday, "11:00")))
	})

	t.Run("Fixed time slots outside the configured slots are rejected", func(t *testing.T) {
		course := newTheory("1", "MATH101", "I", 1, 1)
		course.FixedSlot = &model.TimeSlot{Day: time.Tuesday, Start: model.NewClock(11, 0)}
		rooms := []*model.Room{{Name: "A101", Capacity: 60, Type: model.Theory}}

		_, err := GenerateSchedule([]*model.Course{course}, rooms, daySlots(time.Monday, "09:00"), nil)

		assert.ErrorIs(t, err, model.ErrInvalidInput)
	})
}

func TestBuildBacktracks(t *testing.T) {
	// Arrange
	// A is tried first and grabs Monday 09:00, which leaves no two-hour window for B until A moves to Tuesday
	first := newTheory("1", "A100", "I", 1, 1)
	second := newTheory("2", "B100", "I", 2, 1)
	rooms := []*model.Room{{Name: "A101", Capacity: 60, Type: model.Theory}}
	slots := append(daySlots(time.Monday, "09:00", "10:00"), slotAt(time.Tuesday, "09:00"))
	scheduler := NewBacktrackingScheduler()
	input := model.ModelInput{Courses: []*model.Course{second, first}, Rooms: rooms, TimeSlots: slots}

	// Act
	schedule, stats, err := scheduler.Build(input)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{"B100"}, codesAt(schedule, slotAt(time.Monday, "09:00")))
	assert.Equal(t, []string{"B100"}, codesAt(schedule, slotAt(time.Monday, "10:00")))
	assert.Equal(t, []string{"A100"}, codesAt(schedule, slotAt(time.Tuesday, "09:00")))
	assert.Equal(t, 2, stats.Units)
	assert.Positive(t, stats.Backtracks)
	assert.True(t, scheduler.Verify(schedule, input))
}

func TestBuildNodeBudget(t *testing.T) {
	// Arrange
	courses := []*model.Course{
		newTheory("1", "SENG201", "I", 1, 2),
		newTheory("2", "SENG203", "J", 1, 2),
		newTheory("3", "SENG205", "K", 1, 2),
	}
	rooms := []*model.Room{
		{Name: "A101", Capacity: 60, Type: model.Theory},
		{Name: "A102", Capacity: 60, Type: model.Theory},
	}
	slots := daySlots(time.Monday, "09:00", "10:00")
	input := model.ModelInput{Courses: courses, Rooms: rooms, TimeSlots: slots}

	// Act
	_, stats, err := NewBacktrackingScheduler(WithNodeBudget(5)).Build(input)

	// Assert
	assert.ErrorIs(t, err, ErrBudgetExhausted)
	assert.Equal(t, 5, stats.Nodes)

	// Act
	_, _, err = NewBacktrackingScheduler().Build(input)

	// Assert
	assert.ErrorIs(t, err, ErrUnsatisfiable)
}

func TestSortCourses(t *testing.T) {
	// Arrange
	fixed := newTheory("1", "SENG499", "I", 1, 4)
	fixed.FixedSlot = &model.TimeSlot{Day: time.Monday, Start: model.NewClock(9, 0)}
	common := newTheory("2", "PHYS101", "I", 1, 2)
	common.Department = model.PHYS
	lab := newLab("3", "SENG101L", "I", 1, 1)
	elective := newTheory("4", "SENG102", "I", 1, 1)
	elective.Mandatory = false
	mandatory := newTheory("5", "SENG103", "I", 1, 1)
	senior := newTheory("6", "SENG201", "I", 1, 2)
	alphabetical := newTheory("7", "SENG100", "I", 1, 1)

	// Act
	sorted := sortCourses([]*model.Course{lab, elective, senior, mandatory, common, alphabetical, fixed})

	// Assert
	codes := make([]string, 0, len(sorted))
	for _, course := range sorted {
		codes = append(codes, course.Code)
	}
	assert.Equal(t, []string{"SENG499", "PHYS101", "SENG100", "SENG103", "SENG102", "SENG201", "SENG101L"}, codes)
}

func TestIsValidAssignment(t *testing.T) {
	// Arrange
	slots := daySlots(time.Monday, "09:00", "10:00")
	schedule, err := model.NewSchedule(slots)
	require.NoError(t, err)
	room := &model.Room{Name: "A101", Capacity: 60, Type: model.Theory}
	placed := newTheory("1", "SENG101", "I", 1, 1)
	require.NoError(t, schedule.Assign(slots[0], model.Occupancy{Course: placed, Room: room}))
	candidate := newTheory("2", "SENG102", "I", 1, 2)
	courses := []*model.Course{placed, candidate}

	// Act & Assert
	assert.False(t, IsValidAssignment(schedule, candidate, slots[0], room, nil, courses))
	assert.True(t, IsValidAssignment(schedule, candidate, slots[1], room, nil, courses))
	assert.False(t, IsValidAssignment(schedule, candidate, slotAt(time.Tuesday, "09:00"), room, nil, courses))
}

// A realistic department-sized instance used to check the schedule-wide properties
func departmentInput() model.ModelInput {
	physics := newTheory("phys101", "PHYS101", "Bob", 3, 1)
	physics.Department = model.PHYS
	physicsLab := newLab("phys101l", "PHYS101L", "Bob", 2, 1)
	physicsLab.Department = model.PHYS
	physicsLab.Capacity = 30
	calculus := newTheory("math101", "MATH101", "Alice", 4, 1)
	calculus.Department = model.MATH
	intro := newTheory("seng101", "SENG101", "Carol", 3, 1)
	intro.Sections = 2
	design := newTheory("seng201", "SENG201", "Carol", 3, 2)
	designLab := newLab("seng201l", "SENG201L", "Carol", 2, 2)
	designLab.Capacity = 35
	compilers := newTheory("ceng301", "CENG301", "Dave", 3, 3)
	compilers.Department = model.CENG
	compilers.Mandatory = false
	quality := newTheory("seng302", "SENG302", "Erin", 2, 3)
	quality.Mandatory = false
	research := newTheory("seng501", "SENG501", "Carol", 3, 4)
	research.Mandatory = false
	research.Graduate = true

	slots := make([]model.TimeSlot, 0)
	for _, day := range []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday} {
		slots = append(slots, daySlots(day, "09:00", "10:00", "11:00", "12:00", "13:00", "14:00", "15:00", "16:00")...)
	}

	return model.ModelInput{
		Courses: []*model.Course{designLab, research, quality, compilers, design, intro, physicsLab, physics, calculus},
		Rooms: []*model.Room{
			{Name: "A101", Capacity: 60, Type: model.Theory},
			{Name: "A102", Capacity: 60, Type: model.Theory},
			{Name: "LAB1", Capacity: 40, Type: model.Lab},
		},
		TimeSlots: slots,
		Instructors: []*model.Instructor{
			{Name: "Alice", MaxDailyTheoryHours: 4},
			{Name: "Bob", MaxDailyTheoryHours: 4},
			{Name: "Carol", MaxDailyTheoryHours: 4, ExcludeGraduateFromLimit: true},
			{Name: "Dave", MaxDailyTheoryHours: 4},
		},
	}
}

func TestGeneratedScheduleProperties(t *testing.T) {
	g := NewWithT(t)

	// Arrange
	input := departmentInput()
	instructors := map[string]*model.Instructor{}
	for _, instructor := range input.Instructors {
		instructors[instructor.Name] = instructor
	}

	// Act
	schedule, stats, err := NewBacktrackingScheduler().Build(input)

	// Assert
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(stats.Units).To(Equal(10))

	expectedOccupancies := 0
	for _, course := range input.Courses {
		expectedOccupancies += course.Sections * course.RequiredHours()
	}
	g.Expect(schedule.Len()).To(Equal(expectedOccupancies))

	for _, slot := range schedule.Slots() {
		occupants := schedule.At(slot)

		// No shared instructor and no shared room inside a slot
		seenInstructors, seenRooms := map[string]bool{}, map[string]bool{}
		for _, occupancy := range occupants {
			g.Expect(seenInstructors).NotTo(HaveKey(occupancy.Course.Instructor))
			g.Expect(seenRooms).NotTo(HaveKey(occupancy.Room.Name))
			seenInstructors[occupancy.Course.Instructor] = true
			seenRooms[occupancy.Room.Name] = true

			// Labs sit in lab rooms with enough seats
			if occupancy.Course.Type == model.Lab {
				g.Expect(occupancy.Room.Type).To(Equal(model.Lab))
				g.Expect(occupancy.Room.Capacity).To(BeNumerically(">=", occupancy.Course.Capacity))

				theory := findTheoryCounterpart(occupancy.Course, input.Courses)
				g.Expect(theory).NotTo(BeNil())
				g.Expect(theoryPlacedBefore(schedule, theory, mustCell(t, schedule, slot))).To(BeTrue())
			}
		}

		// The Friday exam block stays empty
		if slot.Day == time.Friday && slot.Start.Hours() >= 13.33 && slot.Start.Hours() < 15.17 {
			g.Expect(occupants).To(BeEmpty())
		}
	}

	// Daily theory caps hold
	for _, day := range schedule.Days() {
		hours := map[string]int{}
		for _, cell := range schedule.CellsOfDay(day) {
			for _, occupancy := range schedule.Occupants(cell) {
				if countsTowardsCap(occupancy.Course, instructors[occupancy.Course.Instructor]) {
					hours[occupancy.Course.Instructor]++
				}
			}
		}
		for name, total := range hours {
			g.Expect(total).To(BeNumerically("<=", instructors[name].DailyCap()))
		}
	}

	// The report finds nothing, twice
	first := Report(schedule, input)
	g.Expect(first).To(BeEmpty())
	g.Expect(Report(schedule, input)).To(Equal(first))
}

func mustCell(t *testing.T, schedule *model.Schedule, slot model.TimeSlot) int {
	t.Helper()
	cell, ok := schedule.Cell(slot)
	require.True(t, ok)
	return cell
}
