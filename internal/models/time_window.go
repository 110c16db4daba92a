package models

import (
	"fmt"
	"strconv"
	"strings"
)

type TimeUnit string

const (
	UnitHours TimeUnit = "hours"
	UnitDays  TimeUnit = "days"
)

// TimeWindow is the committed query window. Value and Unit are always
// replaced together; a window with a non-positive value never reaches the
// backend.
type TimeWindow struct {
	Value int      `json:"value"`
	Unit  TimeUnit `json:"unit"`
}

func DefaultTimeWindow(defaultHours int) TimeWindow {
	if defaultHours <= 0 {
		defaultHours = 24
	}
	return TimeWindow{Value: defaultHours, Unit: UnitHours}
}

// Hours is the canonical duration regardless of the selected unit.
func (w TimeWindow) Hours() int {
	if w.Unit == UnitDays {
		return w.Value * 24
	}
	return w.Value
}

func (w TimeWindow) Valid() bool {
	return w.Value > 0 && (w.Unit == UnitHours || w.Unit == UnitDays)
}

func (w TimeWindow) Label() string {
	unit := string(w.Unit)
	if w.Value == 1 {
		unit = strings.TrimSuffix(unit, "s")
	}
	return fmt.Sprintf("%d %s", w.Value, unit)
}

// ParseEdit accepts only strings that parse to a strictly positive integer.
// The empty string is a transient editing state, not a committed value.
func ParseEdit(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

// Commit replaces the committed value when the pending text parses, and
// silently retains the current window otherwise. A rejected edit is a local
// input concern and never becomes a user-visible error.
func Commit(pending string, current TimeWindow) (TimeWindow, bool) {
	v, ok := ParseEdit(pending)
	if !ok {
		return current, false
	}
	return TimeWindow{Value: v, Unit: current.Unit}, true
}

// ChangeUnit re-expresses the same elapsed duration under the new unit.
// Hours to days floors to whole days with a floor of one day, so windows
// under 24 hours widen to a single day. Days to hours is exact.
func ChangeUnit(newUnit TimeUnit, current TimeWindow) TimeWindow {
	if newUnit == current.Unit {
		return current
	}
	switch newUnit {
	case UnitDays:
		days := current.Hours() / 24
		if days < 1 {
			days = 1
		}
		return TimeWindow{Value: days, Unit: UnitDays}
	case UnitHours:
		return TimeWindow{Value: current.Hours(), Unit: UnitHours}
	}
	return current
}

func ParseUnit(raw string) (TimeUnit, bool) {
	switch TimeUnit(strings.ToLower(strings.TrimSpace(raw))) {
	case UnitHours:
		return UnitHours, true
	case UnitDays:
		return UnitDays, true
	}
	return "", false
}
