package parking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"worknest/db"
	"worknest/globals"
	"worknest/mq"
	"worknest/rdx"
	"worknest/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const availCachePrefix = "parking:avail:"

func parseDay(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

func loadSlots(ctx context.Context) ([]Slot, error) {
	cur, err := db.ParkingSlotsCollection.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "row", Value: 1}, {Key: "column", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var slots []Slot
	if err := cur.All(ctx, &slots); err != nil {
		return nil, err
	}
	return slots, nil
}

func loadReservations(ctx context.Context, filter bson.M) ([]Reservation, error) {
	cur, err := db.ReservationsCollection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	var reservations []Reservation
	if err := cur.All(ctx, &reservations); err != nil {
		return nil, err
	}
	return reservations, nil
}

// invalidateAvailCache drops every cached per-date availability snapshot.
// Called on any ledger or registry write.
func invalidateAvailCache() {
	keys, err := rdx.Conn.Keys(globals.Ctx, availCachePrefix+"*").Result()
	if err != nil || len(keys) == 0 {
		return
	}
	rdx.Conn.Del(globals.Ctx, keys...)
}

// GetParking returns the grid resolved for ?date= (default today).
func GetParking(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	dateStr := r.URL.Query().Get("date")
	asOf := time.Now().UTC()
	if dateStr != "" {
		parsed, err := parseDay(dateStr)
		if err != nil {
			http.Error(w, "invalid date, want YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		asOf = parsed
	}
	dayKey := asOf.Format("2006-01-02")

	// The resolved view is derived state; the cache is just a snapshot
	// invalidated on every ledger write.
	if cached, err := rdx.RdxGet(availCachePrefix + dayKey); err == nil && cached != "" {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, cached)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	slots, err := loadSlots(ctx)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	reservations, err := loadReservations(ctx, bson.M{})
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}

	resolved := Resolve(slots, reservations, asOf)

	rows, columns := 0, 0
	if len(resolved) > 0 {
		last := resolved[len(resolved)-1]
		rows, columns = last.Row+1, last.Column+1
	}

	payload, err := json.Marshal(utils.M{
		"date":    dayKey,
		"rows":    rows,
		"columns": columns,
		"slots":   resolved,
	})
	if err != nil {
		http.Error(w, "encode error", http.StatusInternalServerError)
		return
	}
	if err := rdx.SetWithExpiry(availCachePrefix+dayKey, string(payload), time.Minute); err != nil {
		log.Printf("parking: availability cache write failed: %v", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(payload)
}

// Regrid rebuilds the whole registry. Slot identities are not stable
// across regrids, so the ledger is cleared first.
func Regrid(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body struct {
		Rows    int `json:"rows"`
		Columns int `json:"columns"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	if body.Rows <= 0 || body.Columns <= 0 || body.Rows*body.Columns > 1000 {
		http.Error(w, "invalid grid size", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Reservations (and claims) first: a crash after this point leaves an
	// empty ledger against old slots, never old reservations against new
	// slot identities.
	if _, err := deleteReservations(ctx, bson.M{}); err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	if _, err := db.ParkingSlotsCollection.DeleteMany(ctx, bson.M{}); err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}

	docs := make([]interface{}, 0, body.Rows*body.Columns)
	number := 1
	for row := 0; row < body.Rows; row++ {
		for col := 0; col < body.Columns; col++ {
			docs = append(docs, Slot{
				ID:     SlotID(row, col),
				Row:    row,
				Column: col,
				Number: fmt.Sprintf("%d", number),
				Status: StatusFree,
			})
			number++
		}
	}
	if _, err := db.ParkingSlotsCollection.InsertMany(ctx, docs); err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}

	invalidateAvailCache()
	broadcastUpdate()
	mq.EmitSystem(ctx, fmt.Sprintf("Parking regridded to %dx%d; all reservations were removed", body.Rows, body.Columns))

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true, "slots": len(docs)})
}

// SetSlotDisabled flips a slot in or out of the disabled state. Disabling
// supersedes any reservation the slot holds.
func SetSlotDisabled(disabled bool) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		slotID := ps.ByName("slotid")
		if slotID == "" {
			http.Error(w, "missing slot id", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		status := StatusFree
		if disabled {
			status = StatusDisabled
		}
		result, err := db.ParkingSlotsCollection.UpdateOne(ctx,
			bson.M{"id": slotID},
			bson.M{"$set": bson.M{"status": status}, "$unset": bson.M{"userId": ""}},
		)
		if err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		if result.MatchedCount == 0 {
			http.Error(w, "slot not found", http.StatusNotFound)
			return
		}
		if _, err := deleteReservations(ctx, bson.M{"slotId": slotID}); err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}

		invalidateAvailCache()
		broadcastUpdate()
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true, "slot": slotID, "status": status})
	}
}

// CreateReservation is the admission endpoint: ordered validation against
// the ledger, then an atomic day-claim commit in the store.
func CreateReservation(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, ok := r.Context().Value(globals.UserIDKey).(string)
	if !ok || userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var body struct {
		SlotID    string `json:"slotId"`
		StartDate string `json:"startDate"`
		EndDate   string `json:"endDate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	if body.SlotID == "" || body.StartDate == "" || body.EndDate == "" {
		http.Error(w, "missing required fields", http.StatusBadRequest)
		return
	}
	start, err1 := parseDay(body.StartDate)
	end, err2 := parseDay(body.EndDate)
	if err1 != nil || err2 != nil {
		http.Error(w, "invalid date, want YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var slot Slot
	if err := db.ParkingSlotsCollection.FindOne(ctx, bson.M{"id": body.SlotID}).Decode(&slot); err != nil {
		http.Error(w, "slot not found", http.StatusNotFound)
		return
	}
	if slot.Status == StatusDisabled {
		http.Error(w, "slot is disabled", http.StatusConflict)
		return
	}

	res, err := Reserve(ctx, ReservationRequest{
		UserID:    userID,
		SlotID:    body.SlotID,
		StartDate: start,
		EndDate:   end,
	})
	switch {
	case errors.Is(err, ErrRangeTooLong):
		utils.RespondWithJSON(w, http.StatusBadRequest, utils.M{"ok": false, "reason": "range-too-long"})
		return
	case errors.Is(err, ErrUserAlreadyBooked):
		utils.RespondWithJSON(w, http.StatusConflict, utils.M{"ok": false, "reason": "user-already-booked"})
		return
	case errors.Is(err, ErrSlotAlreadyBooked):
		utils.RespondWithJSON(w, http.StatusConflict, utils.M{"ok": false, "reason": "slot-already-booked"})
		return
	case err != nil:
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}

	invalidateAvailCache()
	broadcastUpdate()
	mq.EmitParking(ctx, userID, fmt.Sprintf("Slot %s reserved from %s to %s",
		res.SlotID, res.StartDate.Format("2006-01-02"), res.EndDate.Format("2006-01-02")))

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"ok": true, "reservation": res})
}

// ListReservations filters by ?userId= and/or ?slotId=.
func ListReservations(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	filter := bson.M{}
	if userID := r.URL.Query().Get("userId"); userID != "" {
		filter["userId"] = userID
	}
	if slotID := r.URL.Query().Get("slotId"); slotID != "" {
		filter["slotId"] = slotID
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	reservations, err := loadReservations(ctx, filter)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"reservations": reservations})
}

// DeleteReservation cancels one reservation. Owners can cancel their own;
// admins can cancel any.
func DeleteReservation(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	reservationID := ps.ByName("resid")
	if reservationID == "" {
		http.Error(w, "missing id", http.StatusBadRequest)
		return
	}
	userID, _ := r.Context().Value(globals.UserIDKey).(string)
	roles, _ := r.Context().Value(globals.RoleKey).([]string)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{"id": reservationID}
	if !utils.HasRole(roles, "admin") {
		filter["userId"] = userID
	}

	deleted, err := deleteReservations(ctx, filter)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	if deleted == 0 {
		http.Error(w, "reservation not found or not owned by user", http.StatusNotFound)
		return
	}

	invalidateAvailCache()
	broadcastUpdate()
	w.WriteHeader(http.StatusNoContent)
}

// DeleteAllReservations wipes the ledger (admin).
func DeleteAllReservations(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	deleted, err := deleteReservations(ctx, bson.M{})
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}

	invalidateAvailCache()
	broadcastUpdate()
	mq.EmitSystem(ctx, "All parking reservations were removed by an admin")
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true, "deleted": deleted})
}
