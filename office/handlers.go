package office

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"worknest/db"
	"worknest/globals"
	"worknest/mq"
	"worknest/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func loadSeats(ctx context.Context) ([]Seat, error) {
	cur, err := db.SeatsCollection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	var seats []Seat
	if err := cur.All(ctx, &seats); err != nil {
		return nil, err
	}
	return seats, nil
}

// ListSeats returns the floor plan. Holds whose date has passed are
// reported free; the stale flags are cleared lazily in the background.
func ListSeats(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	seats, err := loadSeats(ctx)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}

	now := time.Now()
	var stale []string
	for i, s := range seats {
		if s.Reserved && s.Available(now) {
			seats[i].Reserved = false
			seats[i].ReservedBy = ""
			seats[i].ReservedUntil = ""
			stale = append(stale, s.ID)
		}
	}
	if len(stale) > 0 {
		go func(ids []string) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			db.SeatsCollection.UpdateMany(ctx,
				bson.M{"id": bson.M{"$in": ids}},
				bson.M{"$set": bson.M{"reserved": false}, "$unset": bson.M{"reservedBy": "", "reservedUntil": ""}},
			)
		}(stale)
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"seats": seats})
}

// DefineSeats replaces the floor plan (admin). Seat ids are caller-chosen
// so layouts survive redefinition when ids are reused.
func DefineSeats(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body struct {
		Seats []Seat `json:"seats"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	if len(body.Seats) == 0 {
		http.Error(w, "missing seats", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := db.SeatsCollection.DeleteMany(ctx, bson.M{}); err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	docs := make([]interface{}, len(body.Seats))
	for i, s := range body.Seats {
		s.Reserved = false
		s.ReservedBy = ""
		s.ReservedUntil = ""
		docs[i] = s
	}
	if _, err := db.SeatsCollection.InsertMany(ctx, docs); err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true, "seats": len(docs)})
}

// ReserveSeat books a seat through a conditional update: the filter only
// matches an unreserved seat, so two racing requests cannot both win.
func ReserveSeat(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	seatID := ps.ByName("seatid")
	userID, _ := r.Context().Value(globals.UserIDKey).(string)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var body struct {
		Date string `json:"date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Date == "" {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	if err := ValidateHoldDate(body.Date, time.Now()); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := db.SeatsCollection.UpdateOne(ctx,
		bson.M{"id": seatID, "reserved": bson.M{"$ne": true}},
		bson.M{"$set": bson.M{"reserved": true, "reservedBy": userID, "reservedUntil": body.Date}},
	)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	if result.MatchedCount == 0 {
		// either missing or already held
		var seat Seat
		if err := db.SeatsCollection.FindOne(ctx, bson.M{"id": seatID}).Decode(&seat); err == mongo.ErrNoDocuments {
			http.Error(w, "seat not found", http.StatusNotFound)
			return
		}
		utils.RespondWithJSON(w, http.StatusConflict, utils.M{"ok": false, "reason": "seat-taken"})
		return
	}

	mq.EmitSeat(ctx, userID, fmt.Sprintf("Seat %s reserved until %s", seatID, body.Date))
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true, "seat": seatID, "until": body.Date})
}

// ReleaseSeat frees a seat. Owners release their own; admins any.
func ReleaseSeat(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	seatID := ps.ByName("seatid")
	userID, _ := r.Context().Value(globals.UserIDKey).(string)
	roles, _ := r.Context().Value(globals.RoleKey).([]string)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{"id": seatID, "reserved": true}
	if !utils.HasRole(roles, "admin") {
		filter["reservedBy"] = userID
	}

	result, err := db.SeatsCollection.UpdateOne(ctx, filter,
		bson.M{"$set": bson.M{"reserved": false}, "$unset": bson.M{"reservedBy": "", "reservedUntil": ""}},
	)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	if result.MatchedCount == 0 {
		http.Error(w, "seat not found or not held by user", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SwapSeats moves reservation info between two seats without touching
// coordinates (admin rearranging the floor).
func SwapSeats(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body struct {
		From string `json:"from"`
		To   string `json:"to"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.From == "" || body.To == "" || body.From == body.To {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var from, to Seat
	if err := db.SeatsCollection.FindOne(ctx, bson.M{"id": body.From}).Decode(&from); err != nil {
		http.Error(w, "seat not found", http.StatusNotFound)
		return
	}
	if err := db.SeatsCollection.FindOne(ctx, bson.M{"id": body.To}).Decode(&to); err != nil {
		http.Error(w, "seat not found", http.StatusNotFound)
		return
	}

	set := func(id string, src Seat) error {
		_, err := db.SeatsCollection.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": bson.M{
			"reserved":      src.Reserved,
			"reservedBy":    src.ReservedBy,
			"reservedUntil": src.ReservedUntil,
		}})
		return err
	}
	if err := set(body.From, to); err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	if err := set(body.To, from); err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true})
}

// RecommendSeat suggests the free seat closest to the caller's teammates,
// given ?team=id1,id2.
func RecommendSeat(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	team := r.URL.Query().Get("team")
	if team == "" {
		http.Error(w, "missing team param", http.StatusBadRequest)
		return
	}
	teammateIDs := strings.Split(team, ",")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	seats, err := loadSeats(ctx)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}

	best := Recommend(seats, teammateIDs, time.Now())
	if best == nil {
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"seat": nil})
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"seat": best})
}
