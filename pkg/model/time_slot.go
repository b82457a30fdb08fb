package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Clock is a wall-clock time expressed in minutes since midnight
type Clock int

func NewClock(hour, minute int) Clock {
	return Clock(hour*60 + minute)
}

// ParseClock accepts "H:MM" and "HH:MM"
func ParseClock(value string) (Clock, error) {
	hourStr, minuteStr, ok := strings.Cut(strings.TrimSpace(value), ":")
	if !ok {
		return 0, fmt.Errorf("%w: time \"%v\" is not in H:MM format", ErrInvalidInput, value)
	}
	hour, err := strconv.Atoi(hourStr)
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("%w: invalid hour in \"%v\"", ErrInvalidInput, value)
	}
	minute, err := strconv.Atoi(minuteStr)
	if err != nil || minute < 0 || minute > 59 || len(minuteStr) != 2 {
		return 0, fmt.Errorf("%w: invalid minute in \"%v\"", ErrInvalidInput, value)
	}
	return NewClock(hour, minute), nil
}

// Hours returns the clock as decimal hours, e.g. 13:20 -> 13.333
func (clock Clock) Hours() float64 {
	return float64(clock) / 60
}

// Add returns the clock shifted by the given number of whole hours
func (clock Clock) Add(hours int) Clock {
	return clock + Clock(hours*60)
}

func (clock Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(clock)/60, int(clock)%60)
}

func ParseDay(value string) (time.Weekday, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for day := time.Sunday; day <= time.Saturday; day++ {
		if strings.ToLower(day.String()) == normalized {
			return day, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown day \"%v\"", ErrInvalidInput, value)
}

type TimeSlot struct {
	Day   time.Weekday
	Start Clock
}

func NewTimeSlot(day, start string) (TimeSlot, error) {
	weekday, err := ParseDay(day)
	if err != nil {
		return TimeSlot{}, err
	}
	clock, err := ParseClock(start)
	if err != nil {
		return TimeSlot{}, err
	}
	return TimeSlot{Day: weekday, Start: clock}, nil
}

func (slot TimeSlot) String() string {
	return fmt.Sprintf("%v %v", slot.Day, slot.Start)
}
