package parking

import (
	"reflect"
	"testing"
	"time"
)

func day(n int) time.Time {
	return time.Date(2026, 1, n, 0, 0, 0, 0, time.UTC)
}

func TestResolveEmptyLedger(t *testing.T) {
	slots := []Slot{
		{ID: "p0.0", Row: 0, Column: 0, Number: "1", Status: StatusFree},
		{ID: "p0.1", Row: 0, Column: 1, Number: "2", Status: StatusFree},
	}

	resolved := Resolve(slots, nil, day(5))
	for _, s := range resolved {
		if s.Status != StatusFree {
			t.Fatalf("slot %s: expected free, got %s", s.ID, s.Status)
		}
		if s.UserID != "" {
			t.Fatalf("slot %s: expected no occupant, got %s", s.ID, s.UserID)
		}
	}
}

func TestResolveReservedSlot(t *testing.T) {
	slots := []Slot{
		{ID: "p0.0", Row: 0, Column: 0, Status: StatusFree},
		{ID: "p0.1", Row: 0, Column: 1, Status: StatusFree},
	}
	ledger := []Reservation{
		{ID: "r1", UserID: "u1", SlotID: "p0.0", StartDate: day(5), EndDate: day(5)},
	}

	resolved := Resolve(slots, ledger, day(5))
	if resolved[0].Status != StatusReserved || resolved[0].UserID != "u1" {
		t.Fatalf("expected p0.0 reserved by u1, got %s/%s", resolved[0].Status, resolved[0].UserID)
	}
	if resolved[1].Status != StatusFree {
		t.Fatalf("expected p0.1 free, got %s", resolved[1].Status)
	}

	// outside the range the slot is free again
	after := Resolve(slots, ledger, day(6))
	if after[0].Status != StatusFree {
		t.Fatalf("expected p0.0 free on day 6, got %s", after[0].Status)
	}
}

func TestResolveDisabledPassesThrough(t *testing.T) {
	slots := []Slot{{ID: "p0.0", Status: StatusDisabled, UserID: ""}}
	ledger := []Reservation{
		{ID: "r1", UserID: "u1", SlotID: "p0.0", StartDate: day(1), EndDate: day(9)},
	}

	resolved := Resolve(slots, ledger, day(5))
	if resolved[0].Status != StatusDisabled {
		t.Fatalf("expected disabled, got %s", resolved[0].Status)
	}
}

func TestResolveIsPureAndIdempotent(t *testing.T) {
	slots := []Slot{
		{ID: "p0.0", Row: 0, Column: 0, Status: StatusFree},
		{ID: "p0.1", Row: 0, Column: 1, Status: StatusDisabled},
	}
	ledger := []Reservation{
		{ID: "r1", UserID: "u1", SlotID: "p0.0", StartDate: day(3), EndDate: day(7)},
	}
	slotsCopy := make([]Slot, len(slots))
	copy(slotsCopy, slots)

	first := Resolve(slots, ledger, day(5))
	second := Resolve(slots, ledger, day(5))

	if !reflect.DeepEqual(first, second) {
		t.Fatal("resolve is not idempotent")
	}
	if !reflect.DeepEqual(slots, slotsCopy) {
		t.Fatal("resolve mutated its input")
	}
}

func TestResolveAnomalyPicksEarliestStart(t *testing.T) {
	slots := []Slot{{ID: "p0.0", Status: StatusFree}}
	// two overlapping reservations should never exist, but resolve must
	// not crash and must pick deterministically
	ledger := []Reservation{
		{ID: "r2", UserID: "u2", SlotID: "p0.0", StartDate: day(4), EndDate: day(6)},
		{ID: "r1", UserID: "u1", SlotID: "p0.0", StartDate: day(3), EndDate: day(6)},
	}

	resolved := Resolve(slots, ledger, day(5))
	if resolved[0].UserID != "u1" {
		t.Fatalf("expected earliest-start reservation to win, got %s", resolved[0].UserID)
	}
}

func TestNormalizeRangeBoundaries(t *testing.T) {
	start := time.Date(2026, 1, 5, 14, 30, 12, 0, time.UTC)
	end := time.Date(2026, 1, 6, 9, 1, 0, 0, time.UTC)

	ns, ne := NormalizeRange(start, end)
	if !ns.Equal(time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("start not normalized to midnight: %s", ns)
	}
	if !ne.Equal(time.Date(2026, 1, 6, 23, 59, 59, 999_000_000, time.UTC)) {
		t.Fatalf("end not normalized to end of day: %s", ne)
	}

	res := Reservation{StartDate: start, EndDate: end}
	if !res.Contains(time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)) {
		t.Fatal("range must contain exact midnight of the start day")
	}
	if !res.Contains(time.Date(2026, 1, 6, 23, 59, 59, 999_000_000, time.UTC)) {
		t.Fatal("range must contain the last millisecond of the end day")
	}
	if res.Contains(time.Date(2026, 1, 7, 0, 0, 0, 0, time.UTC)) {
		t.Fatal("range must not contain midnight of the following day")
	}
}

func TestReservationDays(t *testing.T) {
	res := Reservation{StartDate: day(5), EndDate: day(7)}
	got := res.Days()
	want := []string{"2026-01-05", "2026-01-06", "2026-01-07"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("days = %v, want %v", got, want)
	}
}
