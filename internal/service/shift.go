package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/noah-isme/horario-admin-api/internal/models"
)

// Shift is a canonical daypart a group may prefer.
type Shift string

const (
	ShiftMorning   Shift = "morning"
	ShiftAfternoon Shift = "afternoon"
	ShiftNight     Shift = "night"
)

// ShiftPolicy maps the locale words stored on groups to canonical shifts.
type ShiftPolicy struct {
	Morning   string
	Afternoon string
	Night     string
}

// DefaultShiftPolicy uses the Spanish words the academic backend stores.
func DefaultShiftPolicy() ShiftPolicy {
	return ShiftPolicy{Morning: "mañana", Afternoon: "tarde", Night: "noche"}
}

// WithDefaults fills every blank token from DefaultShiftPolicy.
func (p ShiftPolicy) WithDefaults() ShiftPolicy {
	def := DefaultShiftPolicy()
	if strings.TrimSpace(p.Morning) == "" {
		p.Morning = def.Morning
	}
	if strings.TrimSpace(p.Afternoon) == "" {
		p.Afternoon = def.Afternoon
	}
	if strings.TrimSpace(p.Night) == "" {
		p.Night = def.Night
	}
	return p
}

// ShiftViolation reports a block whose start hour falls outside the group's preferred shift.
type ShiftViolation struct {
	Shift          Shift
	PreferredShift string
	StartHour      int
	BlockID        int64
}

// Error names the mismatched shift so it can be shown to the user as is.
func (v *ShiftViolation) Error() string {
	if v == nil {
		return "<nil>"
	}
	return fmt.Sprintf("shift conflict: block starting at %02d:00 does not match the group's preferred shift (%s)", v.StartHour, v.PreferredShift)
}

type shiftWindow struct {
	shift    Shift
	token    string
	violated func(hour int) bool
}

func (p ShiftPolicy) windows() []shiftWindow {
	return []shiftWindow{
		{ShiftMorning, p.Morning, func(h int) bool { return h < 7 || h >= 13 }},
		{ShiftAfternoon, p.Afternoon, func(h int) bool { return h < 13 || h >= 18 }},
		// 22 itself is still accepted as a night start.
		{ShiftNight, p.Night, func(h int) bool { return h < 18 || h > 22 }},
	}
}

// Validate checks the block's start hour against the group's preferred shift.
// It returns nil when there is nothing to check: no group, no declared shift,
// no block, or a start time without a readable hour.
func (p ShiftPolicy) Validate(block *models.TimeBlock, group *models.Group) *ShiftViolation {
	if block == nil || group == nil || strings.TrimSpace(group.PreferredShift) == "" {
		return nil
	}
	hour, ok := StartHour(block.StartTime)
	if !ok {
		return nil
	}
	preferred := strings.ToLower(group.PreferredShift)
	for _, w := range p.windows() {
		token := strings.ToLower(strings.TrimSpace(w.token))
		if token == "" || !strings.Contains(preferred, token) {
			continue
		}
		if w.violated(hour) {
			return &ShiftViolation{
				Shift:          w.shift,
				PreferredShift: group.PreferredShift,
				StartHour:      hour,
				BlockID:        block.ID,
			}
		}
	}
	return nil
}

// StartHour reads the leading hour digits of an "HH:MM:SS" clock value.
func StartHour(raw string) (int, bool) {
	head := strings.TrimSpace(raw)
	if idx := strings.IndexByte(head, ':'); idx >= 0 {
		head = head[:idx]
	}
	end := 0
	for end < len(head) && head[end] >= '0' && head[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	hour, err := strconv.Atoi(head[:end])
	if err != nil {
		return 0, false
	}
	return hour, true
}
