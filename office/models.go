package office

import (
	"errors"
	"math"
	"time"
)

// Seat is a desk on the office floor plan. X/Y are layout coordinates;
// the reservation fields mirror the parking ledger but a seat holds at
// most one booking at a time.
type Seat struct {
	ID            string  `json:"id" bson:"id"`
	X             float64 `json:"x" bson:"x"`
	Y             float64 `json:"y" bson:"y"`
	Reserved      bool    `json:"reserved" bson:"reserved"`
	ReservedBy    string  `json:"reservedBy,omitempty" bson:"reservedBy,omitempty"`
	ReservedUntil string  `json:"reservedUntil,omitempty" bson:"reservedUntil,omitempty"`
}

// MaxAdvanceDays caps how far out a seat can be held.
const MaxAdvanceDays = 7

var (
	ErrSeatTaken  = errors.New("seat already reserved")
	ErrDateTooFar = errors.New("date beyond the booking window")
	ErrDateInPast = errors.New("date is in the past")
)

// Available reports whether the seat can be booked as of now: either it
// was never reserved or its hold date has passed.
func (s Seat) Available(now time.Time) bool {
	if !s.Reserved {
		return true
	}
	until, err := time.Parse("2006-01-02", s.ReservedUntil)
	if err != nil {
		return false
	}
	// the hold covers the whole reservedUntil day
	return now.UTC().After(until.AddDate(0, 0, 1))
}

// ValidateHoldDate enforces the booking window: today through
// MaxAdvanceDays days out.
func ValidateHoldDate(date string, now time.Time) error {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return err
	}
	today := time.Date(now.UTC().Year(), now.UTC().Month(), now.UTC().Day(), 0, 0, 0, 0, time.UTC)
	if d.Before(today) {
		return ErrDateInPast
	}
	if d.After(today.AddDate(0, 0, MaxAdvanceDays)) {
		return ErrDateTooFar
	}
	return nil
}

// Recommend picks the free seat with the smallest mean Euclidean distance
// to the given teammate seats. Ties keep the first minimum in iteration
// order. Returns nil when no seat qualifies.
func Recommend(seats []Seat, teammateIDs []string, now time.Time) *Seat {
	teammates := make([]Seat, 0, len(teammateIDs))
	for _, id := range teammateIDs {
		for _, s := range seats {
			if s.ID == id {
				teammates = append(teammates, s)
				break
			}
		}
	}
	if len(teammates) == 0 {
		return nil
	}

	var best *Seat
	bestDist := math.Inf(1)
	for i := range seats {
		seat := seats[i]
		if !seat.Available(now) {
			continue
		}
		total := 0.0
		for _, mate := range teammates {
			dx := seat.X - mate.X
			dy := seat.Y - mate.Y
			total += math.Sqrt(dx*dx + dy*dy)
		}
		avg := total / float64(len(teammates))
		if avg < bestDist {
			bestDist = avg
			best = &seats[i]
		}
	}
	return best
}
