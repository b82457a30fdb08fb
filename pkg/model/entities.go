package model

import (
	"fmt"
	"slices"
	"strings"
)

// SessionType tells whether a course is taught in a lecture hall or a laboratory. Rooms use the same type.
type SessionType uint8

const (
	Theory SessionType = iota
	Lab
)

func (sessionType SessionType) String() string {
	switch sessionType {
	case Theory:
		return "theory"
	case Lab:
		return "lab"
	}
	return fmt.Sprintf("SessionType(%d)", uint8(sessionType))
}

func ParseSessionType(value string) (SessionType, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "theory":
		return Theory, nil
	case "lab":
		return Lab, nil
	}
	return 0, fmt.Errorf("%w: unknown session type \"%v\"", ErrInvalidInput, value)
}

type Department uint8

const (
	SENG Department = iota
	CENG
	PHYS
	MATH
	ENG
	TURK
	HIST
	BIO
	ESR
)

var departmentNames = []string{"SENG", "CENG", "PHYS", "MATH", "ENG", "TURK", "HIST", "BIO", "ESR"}

// Departments whose courses are shared by every program and therefore scheduled first
var commonDepartments = []Department{PHYS, MATH, ENG, TURK, HIST}

func (department Department) String() string {
	if int(department) < len(departmentNames) {
		return departmentNames[department]
	}
	return fmt.Sprintf("Department(%d)", uint8(department))
}

func ParseDepartment(value string) (Department, error) {
	index := slices.Index(departmentNames, strings.ToUpper(strings.TrimSpace(value)))
	if index < 0 {
		return 0, fmt.Errorf("%w: unknown department \"%v\"", ErrInvalidInput, value)
	}
	return Department(index), nil
}

// IsTechnical reports whether the department offers the SENG/CENG technical electives
func (department Department) IsTechnical() bool {
	return department == SENG || department == CENG
}

type Course struct {
	ID             string
	Code           string
	Name           string
	Instructor     string
	Hours          int
	Credits        string
	TheoryHours    int
	LabHours       int
	Type           SessionType
	Year           int
	Mandatory      bool
	Sections       int
	Capacity       int
	Department     Department
	Graduate       bool
	FixedSlot      *TimeSlot
	Groups         []string
	PairedCourseID string // Theory counterpart of a lab course; when empty the counterpart is found by code
}

// IsCommon reports whether the course belongs to one of the common (service) departments
func (course *Course) IsCommon() bool {
	return slices.Contains(commonDepartments, course.Department)
}

// RequiredHours returns the number of consecutive slots a single section occupies
func (course *Course) RequiredHours() int {
	hours := course.TheoryHours
	if course.Type == Lab {
		hours = course.LabHours
	}
	if hours > 0 {
		return hours
	}
	return course.Hours
}

func (course *Course) String() string {
	return fmt.Sprintf("%v - %v (%v, %vh, Y%v)", course.Code, course.Name, course.Type, course.Hours, course.Year)
}

const DefaultMaxDailyTheoryHours = 4

type Instructor struct {
	Name                     string
	MaxDailyTheoryHours      int
	PartTime                 bool
	ExcludeGraduateFromLimit bool // Graduate theory hours do not count towards the daily cap
}

// DailyCap returns the effective daily theory-hour cap of the instructor (nil instructors get the default cap)
func (instructor *Instructor) DailyCap() int {
	if instructor == nil || instructor.MaxDailyTheoryHours <= 0 {
		return DefaultMaxDailyTheoryHours
	}
	return instructor.MaxDailyTheoryHours
}

type Room struct {
	Name     string
	Capacity int
	Type     SessionType
}

func (room *Room) String() string {
	return fmt.Sprintf("%v (%v, cap:%v)", room.Name, room.Type, room.Capacity)
}
