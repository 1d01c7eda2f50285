package events

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"worknest/db"
	"worknest/globals"
	"worknest/models"
	"worknest/mq"
	"worknest/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetEvents lists markers, newest first.
func GetEvents(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cur, err := db.EventsCollection.Find(ctx, bson.M{},
		options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		return
	}
	defer cur.Close(ctx)

	var events []models.Event
	if err := cur.All(ctx, &events); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"events": events})
}

func GetEvent(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	eventID := ps.ByName("eventid")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var event models.Event
	if err := db.EventsCollection.FindOne(ctx, bson.M{"id": eventID}).Decode(&event); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "event not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"event": event})
}

func CreateEvent(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, _ := r.Context().Value(globals.UserIDKey).(string)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var event models.Event
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	if event.Title == "" || event.Type == "" {
		http.Error(w, "missing required fields", http.StatusBadRequest)
		return
	}

	event.ID = utils.GenerateRandomDigitString(16)
	event.AuthorID = userID
	event.CreatedAt = time.Now().UnixMilli()
	event.Likes = []string{}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.EventsCollection.InsertOne(ctx, event); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		return
	}

	for _, invitee := range event.Invited {
		mq.EmitEvent(ctx, invitee, fmt.Sprintf("You were invited to %q", event.Title))
	}

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"event": event})
}

// ToggleLike adds or removes the caller from an event's likes.
func ToggleLike(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	eventID := ps.ByName("eventid")
	userID, _ := r.Context().Value(globals.UserIDKey).(string)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var event models.Event
	if err := db.EventsCollection.FindOne(ctx, bson.M{"id": eventID}).Decode(&event); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "event not found")
		return
	}

	update := bson.M{"$addToSet": bson.M{"likes": userID}}
	liked := true
	for _, id := range event.Likes {
		if id == userID {
			update = bson.M{"$pull": bson.M{"likes": userID}}
			liked = false
			break
		}
	}
	if _, err := db.EventsCollection.UpdateOne(ctx, bson.M{"id": eventID}, update); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true, "liked": liked})
}

// Invite adds users to an event's invite list and notifies them.
func Invite(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	eventID := ps.ByName("eventid")
	userID, _ := r.Context().Value(globals.UserIDKey).(string)

	var body struct {
		Users []string `json:"users"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || len(body.Users) == 0 {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var event models.Event
	if err := db.EventsCollection.FindOne(ctx, bson.M{"id": eventID}).Decode(&event); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "event not found")
		return
	}
	if event.AuthorID != userID {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	_, err := db.EventsCollection.UpdateOne(ctx,
		bson.M{"id": eventID},
		bson.M{"$addToSet": bson.M{"invited": bson.M{"$each": body.Users}}},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		return
	}

	for _, invitee := range body.Users {
		mq.EmitEvent(ctx, invitee, fmt.Sprintf("You were invited to %q", event.Title))
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true})
}

func DeleteEvent(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	eventID := ps.ByName("eventid")
	userID, _ := r.Context().Value(globals.UserIDKey).(string)
	roles, _ := r.Context().Value(globals.RoleKey).([]string)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{"id": eventID}
	if !utils.HasRole(roles, "admin") {
		filter["authorId"] = userID
	}

	result, err := db.EventsCollection.DeleteOne(ctx, filter)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		return
	}
	if result.DeletedCount == 0 {
		http.Error(w, "event not found or not owned by user", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
