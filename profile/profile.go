package profile

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"worknest/db"
	"worknest/globals"
	"worknest/models"
	"worknest/rdx"
	"worknest/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

// GetProfile returns the caller's own profile.
func GetProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, _ := r.Context().Value(globals.UserIDKey).(string)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var user models.User
	if err := db.UserCollection.FindOne(ctx, bson.M{"userid": userID}).Decode(&user); err != nil {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"profile": user})
}

// GetUser returns a public summary of any user.
func GetUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	targetID := ps.ByName("userid")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var user models.User
	if err := db.UserCollection.FindOne(ctx, bson.M{"userid": targetID}).Decode(&user); err != nil {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}

	summary := models.UserSummary{
		UserID:      user.UserID,
		Username:    user.Username,
		DisplayName: user.DisplayName,
		Color:       user.Color,
		CarURL:      user.CarURL,
		PhotoURL:    user.PhotoURL,
		Online:      user.Online,
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"user": summary})
}

// ListUsers returns summaries of all users, for teammate pickers and the
// seat map.
func ListUsers(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cur, err := db.UserCollection.Find(ctx, bson.M{})
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}

	summaries := make([]models.UserSummary, 0, len(users))
	for _, u := range users {
		summaries = append(summaries, models.UserSummary{
			UserID:      u.UserID,
			Username:    u.Username,
			DisplayName: u.DisplayName,
			Color:       u.Color,
			CarURL:      u.CarURL,
			PhotoURL:    u.PhotoURL,
			Online:      u.Online,
		})
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"users": summaries})
}

// UpdateProfile updates display name and map color.
func UpdateProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, _ := r.Context().Value(globals.UserIDKey).(string)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var body struct {
		DisplayName string `json:"displayName"`
		Color       string `json:"color"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	update := bson.M{}
	if body.DisplayName != "" {
		update["displayName"] = body.DisplayName
	}
	if body.Color != "" {
		update["color"] = body.Color
	}
	if len(update) == 0 {
		http.Error(w, "nothing to update", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := db.UserCollection.UpdateOne(ctx, bson.M{"userid": userID}, bson.M{"$set": update})
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	rdx.RdxDel("user:" + userID)

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true})
}
