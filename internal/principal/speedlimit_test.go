package principal

import (
	"testing"
	"time"
)

// TestDaysOfWeek maps calendar weekdays onto the Monday-first bit set.
func TestDaysOfWeek(t *testing.T) {
	if !Monday.Has(time.Monday) || Monday.Has(time.Sunday) {
		t.Fatalf("Monday bit mismatch")
	}
	if !Sunday.Has(time.Sunday) {
		t.Fatalf("Sunday bit mismatch")
	}
	for d := time.Sunday; d <= time.Saturday; d++ {
		if !EveryDay.Has(d) {
			t.Fatalf("EveryDay missing %v", d)
		}
		weekend := d == time.Saturday || d == time.Sunday
		if Weekend.Has(d) != weekend || Weekdays.Has(d) == weekend {
			t.Fatalf("weekend/weekday mismatch for %v", d)
		}
	}
	if got := (Monday | Friday).String(); got != "Mon,Fri" {
		t.Fatalf("String() = %q", got)
	}
	if DaysOfWeek(0).String() != "none" {
		t.Fatalf("empty set should print none")
	}
}

// TestEffective covers constant, scheduled and server-default limits.
func TestEffective(t *testing.T) {
	// 2024-05-06 is a Monday.
	at := time.Date(2024, time.May, 6, 10, 30, 0, 0, time.UTC)

	if _, ok := (SpeedLimit{}).Effective(at); ok {
		t.Fatalf("server default must not report a cap")
	}
	if _, ok := (SpeedLimit{Type: Constant}).Effective(at); ok {
		t.Fatalf("constant without value must not report a cap")
	}
	if v, ok := (SpeedLimit{Type: Constant, ConstantLimit: intPtr(42)}).Effective(at); !ok || v != 42 {
		t.Fatalf("constant: got %d, %v", v, ok)
	}

	morning := TimePeriod{Start: 8 * time.Hour, End: 12 * time.Hour}
	l := SpeedLimit{
		Type: Scheduled,
		Rules: []SpeedLimitRule{
			{Speed: 1, Days: Weekend, Period: morning},
			{Speed: 2, Date: &Date{Year: 2024, Month: time.May, Day: 6}, Period: morning},
			{Speed: 3, Days: Monday, Period: morning},
		},
	}
	if v, ok := l.Effective(at); !ok || v != 2 {
		t.Fatalf("scheduled: got %d, %v; want first matching rule", v, ok)
	}
	if _, ok := l.Effective(at.Add(2 * time.Hour)); ok {
		t.Fatalf("rule window is half-open, 12:30 must not match")
	}
	if v, ok := l.Effective(at.AddDate(0, 0, 7)); !ok || v != 3 {
		t.Fatalf("next Monday: got %d, %v", v, ok)
	}
}
