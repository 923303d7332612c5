package principal

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// SpeedLimitType selects how a transfer direction is capped.
// The numeric values are persisted.
type SpeedLimitType int

const (
	ServerDefault SpeedLimitType = iota
	Constant
	Scheduled
)

// Valid reports whether t is one of the persisted values.
func (t SpeedLimitType) Valid() bool {
	return t >= ServerDefault && t <= Scheduled
}

func (t SpeedLimitType) String() string {
	switch t {
	case ServerDefault:
		return "server-default"
	case Constant:
		return "constant"
	case Scheduled:
		return "scheduled"
	default:
		return fmt.Sprintf("SpeedLimitType(%d)", int(t))
	}
}

// DaysOfWeek is a bit set of weekdays, Monday in the lowest bit.
type DaysOfWeek uint8

const (
	Monday DaysOfWeek = 1 << iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday

	Weekdays = Monday | Tuesday | Wednesday | Thursday | Friday
	Weekend  = Saturday | Sunday
	EveryDay = Weekdays | Weekend
)

var dayNames = [...]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// Has reports whether the set includes the given calendar weekday.
func (d DaysOfWeek) Has(day time.Weekday) bool {
	// time.Sunday is 0; shift so Monday maps to bit 0.
	bit := (int(day) + 6) % 7
	return d&(1<<bit) != 0
}

func (d DaysOfWeek) String() string {
	if d == 0 {
		return "none"
	}
	var parts []string
	for i, n := range dayNames {
		if d&(1<<i) != 0 {
			parts = append(parts, n)
		}
	}
	return strings.Join(parts, ",")
}

// Date is a calendar date without a time zone.
type Date struct {
	Year  int        `yaml:"year"`
	Month time.Month `yaml:"month"`
	Day   int        `yaml:"day"`
}

// Is reports whether t falls on d in t's location.
func (d Date) Is(t time.Time) bool {
	y, m, day := t.Date()
	return y == d.Year && m == d.Month && day == d.Day
}

// TimePeriod is a half-open [Start, End) window of day offsets from midnight.
type TimePeriod struct {
	Start time.Duration `yaml:"start"`
	End   time.Duration `yaml:"end"`
}

// Contains reports whether the offset lies inside the window.
func (p TimePeriod) Contains(offset time.Duration) bool {
	return offset >= p.Start && offset < p.End
}

// SpeedLimitRule caps bandwidth in bytes per second during a window that is
// either tied to a Date or recurs on Days.
type SpeedLimitRule struct {
	Speed  int        `yaml:"speed"`
	Days   DaysOfWeek `yaml:"days,omitempty"`
	Date   *Date      `yaml:"date,omitempty"`
	Period TimePeriod `yaml:"period"`
}

// Applies reports whether the rule is active at t.
func (r SpeedLimitRule) Applies(t time.Time) bool {
	if r.Date != nil && !r.Date.Is(t) {
		return false
	}
	if r.Days != 0 && !r.Days.Has(t.Weekday()) {
		return false
	}
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return r.Period.Contains(t.Sub(midnight))
}

// SpeedLimit is the configuration for one transfer direction.
// ConstantLimit is only meaningful when Type is Constant.
type SpeedLimit struct {
	Type                SpeedLimitType   `yaml:"type"`
	ConstantLimit       *int             `yaml:"constant_limit,omitempty"`
	OverrideServerLimit bool             `yaml:"override_server_limit"`
	Rules               []SpeedLimitRule `yaml:"rules,omitempty"`
}

// Effective returns the cap in force at t, and false when the server default applies.
// Scheduled limits use the first matching rule.
func (l SpeedLimit) Effective(t time.Time) (int, bool) {
	switch l.Type {
	case Constant:
		if l.ConstantLimit == nil {
			return 0, false
		}
		return *l.ConstantLimit, true
	case Scheduled:
		for _, r := range l.Rules {
			if r.Applies(t) {
				return r.Speed, true
			}
		}
	}
	return 0, false
}

func (l SpeedLimit) clone() SpeedLimit {
	if l.ConstantLimit != nil {
		v := *l.ConstantLimit
		l.ConstantLimit = &v
	}
	l.Rules = slices.Clone(l.Rules)
	for i := range l.Rules {
		if d := l.Rules[i].Date; d != nil {
			c := *d
			l.Rules[i].Date = &c
		}
	}
	return l
}

// SpeedLimits holds the independently configured download and upload limits.
type SpeedLimits struct {
	Download SpeedLimit `yaml:"download"`
	Upload   SpeedLimit `yaml:"upload"`
}
