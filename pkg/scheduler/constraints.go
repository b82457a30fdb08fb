package scheduler

import (
	"strings"
	"time"

	"github.com/limaJavier/beeplan/pkg/model"
	"github.com/samber/lo"
)

// Friday common-exam block, in decimal hours (13:20 - 15:10)
const (
	examBlockDay   = time.Friday
	examBlockStart = 13.33
	examBlockEnd   = 15.17
)

func inExamBlock(slot model.TimeSlot) bool {
	if slot.Day != examBlockDay {
		return false
	}
	start := slot.Start.Hours()
	return examBlockStart <= start && start < examBlockEnd
}

// A lab course needs a lab room big enough for its section. Theory courses fit anywhere.
func roomFits(course *model.Course, room *model.Room) bool {
	if course.Type != model.Lab {
		return true
	}
	return room.Type == model.Lab && room.Capacity >= course.Capacity
}

func instructorClash(course, other *model.Course) bool {
	return course.Instructor == other.Instructor
}

// Two mandatory courses of the same year are taken by the same cohort
func cohortClash(course, other *model.Course) bool {
	return course.Mandatory && other.Mandatory &&
		course.Year == other.Year &&
		course.ID != other.ID
}

// Checks the elective rules:
// - CENG and SENG electives never share a slot
// - 3rd year technical electives never share a slot
// - a 3rd year course never shares a slot with an elective (from either side)
func electiveClash(course, other *model.Course) bool {
	if !course.Mandatory && !other.Mandatory {
		if course.Department.IsTechnical() && other.Department.IsTechnical() {
			if course.Department != other.Department {
				return true
			}
			if course.Year == 3 && other.Year == 3 {
				return true
			}
		}
	}
	return (course.Year == 3 && !other.Mandatory) || (other.Year == 3 && !course.Mandatory)
}

// Counts towards the instructor's daily theory cap
func countsTowardsCap(course *model.Course, instructor *model.Instructor) bool {
	if course.Type != model.Theory {
		return false
	}
	return !(instructor != nil && instructor.ExcludeGraduateFromLimit && course.Graduate)
}

// findTheoryCounterpart resolves the theory course a lab belongs to. An explicit PairedCourseID wins;
// otherwise a theory course of the same year and instructor is matched by code.
func findTheoryCounterpart(lab *model.Course, courses []*model.Course) *model.Course {
	if lab.PairedCourseID != "" {
		theory, _ := lo.Find(courses, func(course *model.Course) bool {
			return course.ID == lab.PairedCourseID && course.Type == model.Theory
		})
		return theory
	}

	labBase := stripSuffixes(normalizeCode(lab.Code), "LAB", "L")
	if labBase == "" {
		return nil
	}

	theory, _ := lo.Find(courses, func(course *model.Course) bool {
		if course.Type != model.Theory || course.Year != lab.Year || course.Instructor != lab.Instructor {
			return false
		}
		theoryCode := normalizeCode(course.Code)
		if theoryCode == "" {
			return false
		}
		return strings.Contains(theoryCode, labBase) ||
			strings.Contains(labBase, theoryCode) ||
			stripSuffixes(theoryCode, "THEORY", "T") == labBase
	})
	return theory
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.Join(strings.Fields(code), ""))
}

// Removes the first matching suffix
func stripSuffixes(code string, suffixes ...string) string {
	for _, suffix := range suffixes {
		if trimmed, ok := strings.CutSuffix(code, suffix); ok {
			return trimmed
		}
	}
	return code
}
