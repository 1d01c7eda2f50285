package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"worknest/db"
	"worknest/globals"
	"worknest/models"
	"worknest/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// roomID is deterministic for a pair of users so opening a chat twice
// lands in the same room.
func roomID(a, b string) string {
	pair := []string{a, b}
	sort.Strings(pair)
	return pair[0] + "_" + pair[1]
}

// OpenDirectRoom finds or creates the direct room between the caller and
// ?with=<userid>.
func OpenDirectRoom(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, _ := r.Context().Value(globals.UserIDKey).(string)
	friendID := r.URL.Query().Get("with")
	if userID == "" || friendID == "" || friendID == userID {
		http.Error(w, "missing or invalid 'with' param", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// the friend must exist
	var friend models.User
	if err := db.UserCollection.FindOne(ctx, bson.M{"userid": friendID}).Decode(&friend); err != nil {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}

	room := roomID(userID, friendID)
	var chatDoc models.Chat
	err := db.ChatsCollection.FindOne(ctx, bson.M{"room": room}).Decode(&chatDoc)
	if err == mongo.ErrNoDocuments {
		chatDoc = models.Chat{
			Room:      room,
			Users:     []string{userID, friendID},
			CreatedAt: time.Now().Unix(),
		}
		if _, err := db.ChatsCollection.InsertOne(ctx, chatDoc); err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
	} else if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"room": chatDoc.Room,
		"friend": models.UserSummary{
			UserID:      friend.UserID,
			Username:    friend.Username,
			DisplayName: friend.DisplayName,
			Color:       friend.Color,
			CarURL:      friend.CarURL,
			PhotoURL:    friend.PhotoURL,
			Online:      friend.Online,
		},
	})
}

// ListRooms returns every room the caller participates in.
func ListRooms(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, _ := r.Context().Value(globals.UserIDKey).(string)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cur, err := db.ChatsCollection.Find(ctx, bson.M{"users": userID})
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	defer cur.Close(ctx)

	var rooms []models.Chat
	if err := cur.All(ctx, &rooms); err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"rooms": rooms})
}

// GetMessages returns a room's persisted history, oldest first. The
// caller must be a participant.
func GetMessages(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID, _ := r.Context().Value(globals.UserIDKey).(string)
	room := ps.ByName("room")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var chatDoc models.Chat
	err := db.ChatsCollection.FindOne(ctx, bson.M{
		"room":  room,
		"users": userID,
	}).Decode(&chatDoc)
	if err != nil {
		http.Error(w, "Chat not found", http.StatusNotFound)
		return
	}

	cur, err := db.MessagesCollection.Find(ctx, bson.M{"room": room},
		options.Find().SetSort(bson.M{"timestamp": 1}))
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	defer cur.Close(ctx)

	var messages []models.Message
	if err := cur.All(ctx, &messages); err != nil {
		http.Error(w, "Failed to decode messages", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(utils.M{
		"room":     room,
		"messages": messages,
	})
}
