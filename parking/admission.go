package parking

import "time"

// ReservationRequest is what a user submits; dates arrive at day
// granularity and are normalized before any check.
type ReservationRequest struct {
	UserID    string
	SlotID    string
	StartDate time.Time
	EndDate   time.Time
}

// CheckAdmission validates a request against the current ledger.
// Checks run in order and short-circuit on the first failure:
//
//  1. end >= start and span <= MaxStayDays
//  2. the user holds no overlapping reservation anywhere in the fleet
//  3. the slot has no overlapping reservation
//
// The ledger is read only; committing is the store's job (see Reserve).
func CheckAdmission(req ReservationRequest, existing []Reservation) error {
	start, end := NormalizeRange(req.StartDate, req.EndDate)
	if end.Before(start) {
		return ErrRangeTooLong
	}
	// compare day starts so the 23:59:59.999 end normalization does not
	// count as an extra day
	endDay := end.Truncate(24 * time.Hour)
	if endDay.Sub(start) > MaxStayDays*24*time.Hour {
		return ErrRangeTooLong
	}

	for _, res := range existing {
		if res.UserID == req.UserID && res.Overlaps(start, end) {
			return ErrUserAlreadyBooked
		}
	}
	for _, res := range existing {
		if res.SlotID == req.SlotID && res.Overlaps(start, end) {
			return ErrSlotAlreadyBooked
		}
	}
	return nil
}
