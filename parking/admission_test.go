package parking

import (
	"errors"
	"testing"
	"time"
)

func TestAdmissionRangeChecks(t *testing.T) {
	tests := []struct {
		name    string
		start   time.Time
		end     time.Time
		wantErr error
	}{
		{"single day", day(5), day(5), nil},
		{"full week", day(1), day(8), nil},
		{"eight days", day(1), day(9), ErrRangeTooLong},
		{"end before start", day(5), day(4), ErrRangeTooLong},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := CheckAdmission(ReservationRequest{
				UserID: "u1", SlotID: "p0.0", StartDate: tc.start, EndDate: tc.end,
			}, nil)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("got %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestAdmissionSlotConflict(t *testing.T) {
	existing := []Reservation{
		{ID: "r1", UserID: "u1", SlotID: "A", StartDate: day(5), EndDate: day(5)},
	}

	err := CheckAdmission(ReservationRequest{
		UserID: "u2", SlotID: "A", StartDate: day(5), EndDate: day(5),
	}, existing)
	if !errors.Is(err, ErrSlotAlreadyBooked) {
		t.Fatalf("got %v, want ErrSlotAlreadyBooked", err)
	}

	// a disjoint range on the same slot is fine
	err = CheckAdmission(ReservationRequest{
		UserID: "u2", SlotID: "A", StartDate: day(6), EndDate: day(7),
	}, existing)
	if err != nil {
		t.Fatalf("disjoint range rejected: %v", err)
	}
}

func TestAdmissionUserConflictAcrossFleet(t *testing.T) {
	// u1 already holds slot A on day 5; a different slot in the same
	// range must still be rejected, and the user check fires before the
	// slot check.
	existing := []Reservation{
		{ID: "r1", UserID: "u1", SlotID: "A", StartDate: day(5), EndDate: day(5)},
	}

	err := CheckAdmission(ReservationRequest{
		UserID: "u1", SlotID: "B", StartDate: day(5), EndDate: day(5),
	}, existing)
	if !errors.Is(err, ErrUserAlreadyBooked) {
		t.Fatalf("got %v, want ErrUserAlreadyBooked", err)
	}

	err = CheckAdmission(ReservationRequest{
		UserID: "u1", SlotID: "A", StartDate: day(5), EndDate: day(5),
	}, existing)
	if !errors.Is(err, ErrUserAlreadyBooked) {
		t.Fatalf("user check should fire before slot check, got %v", err)
	}
}

func TestAdmissionPartialOverlap(t *testing.T) {
	existing := []Reservation{
		{ID: "r1", UserID: "u1", SlotID: "A", StartDate: day(4), EndDate: day(6)},
	}

	err := CheckAdmission(ReservationRequest{
		UserID: "u2", SlotID: "A", StartDate: day(6), EndDate: day(8),
	}, existing)
	if !errors.Is(err, ErrSlotAlreadyBooked) {
		t.Fatalf("overlap at the range edge not rejected: %v", err)
	}
}

func TestReserveThenResolveScenario(t *testing.T) {
	// registry = slots A and B, ledger empty; u1 reserves A for day 5
	slots := []Slot{
		{ID: "A", Row: 0, Column: 0, Status: StatusFree},
		{ID: "B", Row: 0, Column: 1, Status: StatusFree},
	}
	req := ReservationRequest{UserID: "u1", SlotID: "A", StartDate: day(5), EndDate: day(5)}

	if err := CheckAdmission(req, nil); err != nil {
		t.Fatalf("admission failed on empty ledger: %v", err)
	}
	start, end := NormalizeRange(req.StartDate, req.EndDate)
	ledger := []Reservation{{ID: "r1", UserID: req.UserID, SlotID: req.SlotID, StartDate: start, EndDate: end}}

	resolved := Resolve(slots, ledger, day(5))
	if resolved[0].Status != StatusReserved || resolved[0].UserID != "u1" {
		t.Fatalf("A should be reserved by u1, got %s/%s", resolved[0].Status, resolved[0].UserID)
	}
	if resolved[1].Status != StatusFree {
		t.Fatalf("B should stay free, got %s", resolved[1].Status)
	}

	// second round of requests against the updated ledger
	if err := CheckAdmission(ReservationRequest{UserID: "u2", SlotID: "A", StartDate: day(5), EndDate: day(5)}, ledger); !errors.Is(err, ErrSlotAlreadyBooked) {
		t.Fatalf("u2 on A: got %v, want ErrSlotAlreadyBooked", err)
	}
	if err := CheckAdmission(ReservationRequest{UserID: "u1", SlotID: "B", StartDate: day(5), EndDate: day(5)}, ledger); !errors.Is(err, ErrUserAlreadyBooked) {
		t.Fatalf("u1 on B: got %v, want ErrUserAlreadyBooked", err)
	}
}

func TestRegridClearsLedgerScenario(t *testing.T) {
	// after a regrid the ledger must be empty, so every new slot resolves
	// free at any date
	newSlots := []Slot{
		{ID: "p0.0", Status: StatusFree}, {ID: "p0.1", Status: StatusFree},
		{ID: "p1.0", Status: StatusFree}, {ID: "p1.1", Status: StatusFree},
	}
	for _, d := range []time.Time{day(1), day(5), day(28)} {
		for _, s := range Resolve(newSlots, nil, d) {
			if s.Status != StatusFree {
				t.Fatalf("slot %s not free at %s after regrid", s.ID, d)
			}
		}
	}
}
