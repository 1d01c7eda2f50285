package parking

import (
	"errors"
	"fmt"
	"time"
)

type SlotStatus string

const (
	StatusFree     SlotStatus = "free"
	StatusReserved SlotStatus = "reserved"
	StatusDisabled SlotStatus = "disabled"
)

// Slot is one parking space in the row/column grid. Status and UserID are
// derived from the ledger by Resolve; the persisted document only stores
// "disabled" authoritatively.
type Slot struct {
	ID     string     `json:"id" bson:"id"`
	Row    int        `json:"row" bson:"row"`
	Column int        `json:"column" bson:"column"`
	Number string     `json:"number" bson:"number"`
	Status SlotStatus `json:"status" bson:"status"`
	UserID string     `json:"userId,omitempty" bson:"userId,omitempty"`
}

// Reservation binds one user to one slot for an inclusive range of
// calendar days.
type Reservation struct {
	ID        string    `json:"id" bson:"id"`
	UserID    string    `json:"userId" bson:"userId"`
	SlotID    string    `json:"slotId" bson:"slotId"`
	StartDate time.Time `json:"startDate" bson:"startDate"`
	EndDate   time.Time `json:"endDate" bson:"endDate"`
	CreatedAt int64     `json:"createdAt" bson:"createdAt"`
}

// MaxStayDays caps a single reservation's span.
const MaxStayDays = 7

var (
	ErrRangeTooLong      = errors.New("reservation range invalid or longer than 7 days")
	ErrUserAlreadyBooked = errors.New("user already has a reservation in this range")
	ErrSlotAlreadyBooked = errors.New("slot already reserved in this range")
)

// SlotID derives a stable grid id from coordinates.
func SlotID(row, column int) string {
	return fmt.Sprintf("p%d.%d", row, column)
}

// NormalizeRange widens a range to whole days: start at 00:00:00.000 and
// end at 23:59:59.999 UTC. Both endpoints are inclusive.
func NormalizeRange(start, end time.Time) (time.Time, time.Time) {
	s := start.UTC()
	e := end.UTC()
	ns := time.Date(s.Year(), s.Month(), s.Day(), 0, 0, 0, 0, time.UTC)
	ne := time.Date(e.Year(), e.Month(), e.Day(), 23, 59, 59, 999_000_000, time.UTC)
	return ns, ne
}

// Contains reports whether t falls inside the reservation's normalized range.
func (r Reservation) Contains(t time.Time) bool {
	s, e := NormalizeRange(r.StartDate, r.EndDate)
	t = t.UTC()
	return !t.Before(s) && !t.After(e)
}

// Overlaps reports whether two normalized day ranges intersect.
func (r Reservation) Overlaps(start, end time.Time) bool {
	rs, re := NormalizeRange(r.StartDate, r.EndDate)
	os, oe := NormalizeRange(start, end)
	return !rs.After(oe) && !os.After(re)
}

// Days lists every calendar day of the reservation as "2006-01-02".
func (r Reservation) Days() []string {
	s, e := NormalizeRange(r.StartDate, r.EndDate)
	var days []string
	for d := s; !d.After(e); d = d.AddDate(0, 0, 1) {
		days = append(days, d.Format("2006-01-02"))
	}
	return days
}
