package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	defaultCapacity   = 40
	defaultDepartment = "SENG"
	defaultRoomType   = "theory"
)

type RawTimeSlot struct {
	Day  string `mapstructure:"day" validate:"required"`
	Time string `mapstructure:"time" validate:"required"`
}

type RawCourse struct {
	Id             string       `mapstructure:"id"`
	Code           string       `mapstructure:"code" validate:"required"`
	Name           string       `mapstructure:"name"`
	Instructor     string       `mapstructure:"instructor" validate:"required"`
	Hours          int          `mapstructure:"hours" validate:"gte=0"`
	Credits        string       `mapstructure:"credits"`
	CourseType     string       `mapstructure:"course_type" validate:"required"`
	Year           int          `mapstructure:"year" validate:"min=1,max=4"`
	IsMandatory    *bool        `mapstructure:"is_mandatory"`
	Sections       int          `mapstructure:"sections" validate:"gte=0"`
	Capacity       int          `mapstructure:"capacity" validate:"gte=0"`
	Department     string       `mapstructure:"department"`
	IsGraduate     bool         `mapstructure:"is_graduate"`
	FixedTimeSlot  *RawTimeSlot `mapstructure:"fixed_time_slot"`
	Groups         []string     `mapstructure:"groups"`
	PairedCourseId string       `mapstructure:"paired_course_id"`
}

type RawRoom struct {
	Name     string `mapstructure:"name" validate:"required"`
	Capacity int    `mapstructure:"capacity" validate:"gte=0"`
	RoomType string `mapstructure:"room_type"`
}

type RawInstructor struct {
	Name                     string `mapstructure:"name" validate:"required"`
	MaxDailyTheoryHours      int    `mapstructure:"max_daily_theory_hours" validate:"gte=0"`
	IsPartTime               bool   `mapstructure:"is_part_time"`
	ExcludeGraduateFromLimit bool   `mapstructure:"exclude_graduate_from_limit"`
}

type RawModelInput struct {
	Courses     []RawCourse     `mapstructure:"courses" validate:"dive"`
	Rooms       []RawRoom       `mapstructure:"rooms" validate:"dive"`
	TimeSlots   []RawTimeSlot   `mapstructure:"time_slots" validate:"dive"`
	Instructors []RawInstructor `mapstructure:"instructors" validate:"dive"`
}

// ModelInput is the typed, read-only input of a scheduling request
type ModelInput struct {
	Courses     []*Course
	Rooms       []*Room
	TimeSlots   []TimeSlot
	Instructors []*Instructor
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func InputFromJson(file string, generator IDGenerator, logger *zap.Logger) (ModelInput, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return ModelInput{}, err
	}
	var inputJson map[string]any
	if err := json.Unmarshal(bytes, &inputJson); err != nil {
		return ModelInput{}, err
	}
	return inputFromMap(inputJson, generator, logger)
}

func InputFromYaml(file string, generator IDGenerator, logger *zap.Logger) (ModelInput, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return ModelInput{}, err
	}
	var inputYaml map[string]any
	if err := yaml.Unmarshal(bytes, &inputYaml); err != nil {
		return ModelInput{}, err
	}
	return inputFromMap(inputYaml, generator, logger)
}

// InputFromFile picks the decoder from the file extension (.yaml/.yml, anything else is read as JSON)
func InputFromFile(file string, generator IDGenerator, logger *zap.Logger) (ModelInput, error) {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".yaml", ".yml":
		return InputFromYaml(file, generator, logger)
	}
	return InputFromJson(file, generator, logger)
}

func inputFromMap(input map[string]any, generator IDGenerator, logger *zap.Logger) (ModelInput, error) {
	var rawInput RawModelInput
	if err := mapstructure.Decode(input, &rawInput); err != nil {
		return ModelInput{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return ProcessRawInput(rawInput, generator, logger)
}

func ProcessRawInput(rawInput RawModelInput, generator IDGenerator, logger *zap.Logger) (ModelInput, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if generator == nil {
		generator = NewUUIDGenerator()
	}

	if err := validate.Struct(rawInput); err != nil {
		return ModelInput{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if len(rawInput.Courses) == 0 || len(rawInput.Rooms) == 0 || len(rawInput.TimeSlots) == 0 {
		return ModelInput{}, fmt.Errorf("%w: courses, rooms and time slots must be non-empty lists", ErrInvalidInput)
	}

	input := ModelInput{}

	//** Manage time slots
	for _, rawSlot := range rawInput.TimeSlots {
		slot, err := NewTimeSlot(rawSlot.Day, rawSlot.Time)
		if err != nil {
			return ModelInput{}, err
		}
		input.TimeSlots = append(input.TimeSlots, slot)
	}

	//** Manage rooms
	for _, rawRoom := range rawInput.Rooms {
		roomType, err := ParseSessionType(lo.Ternary(rawRoom.RoomType == "", defaultRoomType, rawRoom.RoomType))
		if err != nil {
			return ModelInput{}, fmt.Errorf("room \"%v\": %w", rawRoom.Name, err)
		}
		input.Rooms = append(input.Rooms, &Room{
			Name:     rawRoom.Name,
			Capacity: rawRoom.Capacity,
			Type:     roomType,
		})
	}

	//** Manage instructors
	for _, rawInstructor := range rawInput.Instructors {
		input.Instructors = append(input.Instructors, &Instructor{
			Name:                     rawInstructor.Name,
			MaxDailyTheoryHours:      lo.Ternary(rawInstructor.MaxDailyTheoryHours == 0, DefaultMaxDailyTheoryHours, rawInstructor.MaxDailyTheoryHours),
			PartTime:                 rawInstructor.IsPartTime,
			ExcludeGraduateFromLimit: rawInstructor.ExcludeGraduateFromLimit,
		})
	}

	//** Manage courses
	for _, rawCourse := range rawInput.Courses {
		course, err := processRawCourse(rawCourse, generator, logger)
		if err != nil {
			return ModelInput{}, fmt.Errorf("course \"%v\": %w", rawCourse.Code, err)
		}
		input.Courses = append(input.Courses, course)
	}
	if err := CheckCourseIDs(input.Courses); err != nil {
		return ModelInput{}, err
	}

	return input, nil
}

func processRawCourse(rawCourse RawCourse, generator IDGenerator, logger *zap.Logger) (*Course, error) {
	courseType, err := ParseSessionType(rawCourse.CourseType)
	if err != nil {
		return nil, err
	}
	department, err := ParseDepartment(lo.Ternary(rawCourse.Department == "", defaultDepartment, rawCourse.Department))
	if err != nil {
		return nil, err
	}

	course := &Course{
		ID:             rawCourse.Id,
		Code:           rawCourse.Code,
		Name:           rawCourse.Name,
		Instructor:     rawCourse.Instructor,
		Hours:          rawCourse.Hours,
		Credits:        rawCourse.Credits,
		Type:           courseType,
		Year:           rawCourse.Year,
		Mandatory:      rawCourse.IsMandatory == nil || *rawCourse.IsMandatory,
		Sections:       max(rawCourse.Sections, 1),
		Capacity:       lo.Ternary(rawCourse.Capacity == 0, defaultCapacity, rawCourse.Capacity),
		Department:     department,
		Graduate:       rawCourse.IsGraduate,
		Groups:         rawCourse.Groups,
		PairedCourseID: rawCourse.PairedCourseId,
	}

	if course.ID == "" {
		course.ID = generator.NewID()
	}

	if rawCourse.Credits != "" {
		course.TheoryHours, course.LabHours, err = ParseCredits(rawCourse.Credits, rawCourse.Hours, courseType)
		if errors.Is(err, ErrMalformedCredits) {
			logger.Warn("falling back to hours", zap.String("course", rawCourse.Code), zap.Error(err))
		}
	} else if courseType == Lab {
		course.LabHours = rawCourse.Hours
	} else {
		course.TheoryHours = rawCourse.Hours
	}

	if rawCourse.FixedTimeSlot != nil {
		slot, err := NewTimeSlot(rawCourse.FixedTimeSlot.Day, rawCourse.FixedTimeSlot.Time)
		if err != nil {
			return nil, err
		}
		course.FixedSlot = &slot
	}

	return course, nil
}

// CheckCourseIDs makes sure every course carries a non-empty identifier not shared with any other course
func CheckCourseIDs(courses []*Course) error {
	ids := make(map[string]bool, len(courses))
	for _, course := range courses {
		if course.ID == "" {
			return fmt.Errorf("%w: course \"%v\" has an empty id", ErrInvalidInput, course.Code)
		}
		if ids[course.ID] {
			return fmt.Errorf("%w: duplicate course id \"%v\"", ErrInvalidInput, course.ID)
		}
		ids[course.ID] = true
	}
	return nil
}
