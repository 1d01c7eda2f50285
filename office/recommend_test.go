package office

import (
	"errors"
	"testing"
	"time"
)

var testNow = time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC)

func TestRecommendClosestFreeSeat(t *testing.T) {
	seats := []Seat{
		{ID: "1", X: 0, Y: 0, Reserved: true, ReservedBy: "mate1", ReservedUntil: "2026-01-09"},
		{ID: "2", X: 0, Y: 2, Reserved: true, ReservedBy: "mate2", ReservedUntil: "2026-01-09"},
		{ID: "3", X: 0, Y: 1}, // between the teammates
		{ID: "4", X: 5, Y: 5},
	}

	best := Recommend(seats, []string{"1", "2"}, testNow)
	if best == nil || best.ID != "3" {
		t.Fatalf("expected seat 3, got %+v", best)
	}
}

func TestRecommendSkipsReservedSeats(t *testing.T) {
	seats := []Seat{
		{ID: "1", X: 0, Y: 0},
		{ID: "2", X: 0, Y: 1, Reserved: true, ReservedBy: "someone", ReservedUntil: "2026-01-09"},
		{ID: "3", X: 3, Y: 3},
	}

	best := Recommend(seats, []string{"1"}, testNow)
	if best == nil || best.ID != "1" {
		t.Fatalf("expected seat 1, got %+v", best)
	}
}

func TestRecommendTieKeepsFirst(t *testing.T) {
	// seats 2 and 3 are equidistant from the teammate; the first in
	// iteration order wins
	seats := []Seat{
		{ID: "1", X: 0, Y: 0},
		{ID: "2", X: 0, Y: 1},
		{ID: "3", X: 1, Y: 0},
	}

	best := Recommend(seats, []string{"1"}, testNow)
	if best == nil || best.ID != "1" {
		t.Fatalf("expected seat 1 at distance zero, got %+v", best)
	}

	best = Recommend(seats[1:], []string{"2"}, testNow)
	if best == nil || best.ID != "2" {
		t.Fatalf("expected first minimum to win, got %+v", best)
	}
}

func TestRecommendNoTeammates(t *testing.T) {
	seats := []Seat{{ID: "1"}, {ID: "2"}}
	if got := Recommend(seats, []string{"missing"}, testNow); got != nil {
		t.Fatalf("expected nil without teammates, got %+v", got)
	}
}

func TestSeatAvailability(t *testing.T) {
	free := Seat{ID: "1"}
	if !free.Available(testNow) {
		t.Fatal("unreserved seat must be available")
	}

	held := Seat{ID: "2", Reserved: true, ReservedUntil: "2026-01-06"}
	if held.Available(testNow) {
		t.Fatal("seat held through tomorrow must not be available")
	}

	expired := Seat{ID: "3", Reserved: true, ReservedUntil: "2026-01-03"}
	if !expired.Available(testNow) {
		t.Fatal("seat whose hold passed must be available again")
	}
}

func TestValidateHoldDate(t *testing.T) {
	tests := []struct {
		date    string
		wantErr error
	}{
		{"2026-01-05", nil},
		{"2026-01-12", nil},
		{"2026-01-13", ErrDateTooFar},
		{"2026-01-04", ErrDateInPast},
	}
	for _, tc := range tests {
		if err := ValidateHoldDate(tc.date, testNow); !errors.Is(err, tc.wantErr) {
			t.Fatalf("%s: got %v, want %v", tc.date, err, tc.wantErr)
		}
	}

	if err := ValidateHoldDate("not-a-date", testNow); err == nil {
		t.Fatal("malformed date must be rejected")
	}
}
