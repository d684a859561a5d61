package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Weekday bounds for recurring blocks (1 = Monday ... 6 = Saturday).
const (
	MinWeekday = 1
	MaxWeekday = 6
)

// TimeBlock is one weekly recurring slot of the timetable grid.
type TimeBlock struct {
	ID        int64  `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	Weekday   int    `db:"weekday" json:"weekday"`
	StartTime string `db:"start_time" json:"start_time"`
	EndTime   string `db:"end_time" json:"end_time"`
}

// Validate checks weekday range and that the block starts before it ends.
func (b TimeBlock) Validate() error {
	if b.Weekday < MinWeekday || b.Weekday > MaxWeekday {
		return fmt.Errorf("weekday %d out of range", b.Weekday)
	}
	start, err := ClockMinutes(b.StartTime)
	if err != nil {
		return fmt.Errorf("start time: %w", err)
	}
	end, err := ClockMinutes(b.EndTime)
	if err != nil {
		return fmt.Errorf("end time: %w", err)
	}
	if start >= end {
		return fmt.Errorf("start time %s must be before end time %s", b.StartTime, b.EndTime)
	}
	return nil
}

// TimeRange renders the block as "HH:MM - HH:MM".
func (b TimeBlock) TimeRange() string {
	return fmt.Sprintf("%s - %s", shortClock(b.StartTime), shortClock(b.EndTime))
}

// ClockMinutes converts "HH:MM[:SS]" into minutes after midnight.
func ClockMinutes(raw string) (int, error) {
	parts := strings.Split(strings.TrimSpace(raw), ":")
	if len(parts) < 2 {
		return 0, fmt.Errorf("invalid clock value %q", raw)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("invalid hour in %q", raw)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid minute in %q", raw)
	}
	return hour*60 + minute, nil
}

func shortClock(raw string) string {
	if len(raw) >= 5 {
		return raw[:5]
	}
	return raw
}
