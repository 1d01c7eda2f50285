package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"worknest/db"
	"worknest/globals"
	"worknest/rdx"
	"worknest/utils"

	"github.com/disintegration/imaging"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

const (
	carPicDir   = "./static/carpic"
	carThumbDir = "./static/carpic/thumb"
)

// Built-in car sprites shown on the parking map. Custom uploads come in
// through UploadCarImage instead.
var carCatalog = []string{
	"/static/cars/car-red.png",
	"/static/cars/car-blue.png",
	"/static/cars/car-green.png",
	"/static/cars/car-yellow.png",
	"/static/cars/car-black.png",
	"/static/cars/car-white.png",
	"/static/cars/van.png",
	"/static/cars/pickup.png",
}

// ListCarAvatars returns the built-in car sprite catalog.
func ListCarAvatars(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"cars": carCatalog})
}

// SetCarAvatar picks a car from the built-in catalog.
func SetCarAvatar(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, _ := r.Context().Value(globals.UserIDKey).(string)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var body struct {
		CarURL string `json:"carUrl"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	valid := false
	for _, c := range carCatalog {
		if c == body.CarURL {
			valid = true
			break
		}
	}
	if !valid {
		http.Error(w, "unknown car", http.StatusBadRequest)
		return
	}

	if err := setCarURL(r.Context(), userID, body.CarURL); err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"carUrl": body.CarURL})
}

// UploadCarImage accepts a custom car image, stores the original and a
// 300px-wide thumbnail, and points the profile at the thumbnail.
func UploadCarImage(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, _ := r.Context().Value(globals.UserIDKey).(string)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "unable to parse form", http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("car")
	if err != nil {
		http.Error(w, "missing car image", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if !utils.ValidateImageFileType(w, header) {
		return
	}

	img, err := imaging.Decode(file)
	if err != nil {
		http.Error(w, "failed to decode image", http.StatusBadRequest)
		return
	}

	if err := utils.EnsureDir(carPicDir); err != nil {
		http.Error(w, "storage error", http.StatusInternalServerError)
		return
	}
	if err := utils.EnsureDir(carThumbDir); err != nil {
		http.Error(w, "storage error", http.StatusInternalServerError)
		return
	}

	base := utils.SanitizeFilename(header.Filename)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	fileName := fmt.Sprintf("%s-%s-%s.jpg", userID, utils.GenerateRandomString(8), base)
	originalPath := filepath.Join(carPicDir, fileName)
	thumbPath := filepath.Join(carThumbDir, fileName)

	if err := imaging.Save(img, originalPath); err != nil {
		http.Error(w, "failed to save image", http.StatusInternalServerError)
		return
	}
	thumb := imaging.Resize(img, 300, 0, imaging.Lanczos)
	if err := imaging.Save(thumb, thumbPath); err != nil {
		http.Error(w, "failed to save thumbnail", http.StatusInternalServerError)
		return
	}

	carURL := "/static/carpic/thumb/" + fileName
	if err := setCarURL(r.Context(), userID, carURL); err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"carUrl": carURL})
}

func setCarURL(ctx context.Context, userID, carURL string) error {
	dbCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := db.UserCollection.UpdateOne(dbCtx,
		bson.M{"userid": userID},
		bson.M{"$set": bson.M{"carUrl": carURL}},
	)
	if err == nil {
		rdx.RdxDel("user:" + userID)
	}
	return err
}
