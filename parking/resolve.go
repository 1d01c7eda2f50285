package parking

import (
	"log"
	"sort"
	"time"
)

// Resolve derives every slot's effective status for asOf from the ledger.
// Disabled slots pass through untouched; every other slot is free unless a
// reservation's range contains asOf. Pure function: inputs are not mutated
// and repeated calls yield identical output.
func Resolve(slots []Slot, reservations []Reservation, asOf time.Time) []Slot {
	bySlot := make(map[string][]Reservation)
	for _, res := range reservations {
		if res.Contains(asOf) {
			bySlot[res.SlotID] = append(bySlot[res.SlotID], res)
		}
	}

	out := make([]Slot, len(slots))
	for i, slot := range slots {
		resolved := slot
		if slot.Status == StatusDisabled {
			out[i] = resolved
			continue
		}

		matches := bySlot[slot.ID]
		if len(matches) == 0 {
			resolved.Status = StatusFree
			resolved.UserID = ""
			out[i] = resolved
			continue
		}
		if len(matches) > 1 {
			// Admission should make this impossible; pick deterministically
			// and flag rather than fail.
			log.Printf("parking: slot %s has %d overlapping reservations at %s",
				slot.ID, len(matches), asOf.Format("2006-01-02"))
			sort.Slice(matches, func(a, b int) bool {
				if !matches[a].StartDate.Equal(matches[b].StartDate) {
					return matches[a].StartDate.Before(matches[b].StartDate)
				}
				return matches[a].ID < matches[b].ID
			})
		}

		resolved.Status = StatusReserved
		resolved.UserID = matches[0].UserID
		out[i] = resolved
	}
	return out
}
