package gallery

import (
	"context"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"darbar/db"
	"darbar/globals"
	"darbar/models"
	"darbar/utils"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Directory to store uploaded gallery images
const galleryUploadDir = "./static/gallerypic/"

// GetGallery lists gallery images, newest first.
func GetGallery(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	sortOrder := bson.D{{Key: "created_at", Value: -1}}
	cursor, err := db.GalleryCollection.Find(ctx, bson.M{}, options.Find().SetSort(sortOrder))
	if err != nil {
		log.Printf("gallery find failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch gallery")
		return
	}
	defer cursor.Close(ctx)

	images := []models.GalleryImage{}
	if err = cursor.All(ctx, &images); err != nil {
		log.Printf("gallery decode failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch gallery")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, images)
}

// UploadImage accepts a multipart image, stores the original plus a
// 300px-wide thumbnail, and records the entry. Admin only.
func UploadImage(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid upload")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Image file is required")
		return
	}
	defer file.Close()

	if !utils.ValidateImageFileType(w, header) {
		return
	}

	img, err := imaging.Decode(file)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Failed to decode image")
		return
	}

	imageID := uuid.NewString()
	fileName := imageID + ".jpg"
	originalPath := filepath.Join(galleryUploadDir, fileName)
	thumbDir := filepath.Join(galleryUploadDir, "thumb")
	thumbnailPath := filepath.Join(thumbDir, fileName)

	if err := os.MkdirAll(thumbDir, 0755); err != nil {
		log.Printf("gallery mkdir failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to save image")
		return
	}

	if err := imaging.Save(img, originalPath); err != nil {
		log.Printf("gallery save failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to save image")
		return
	}

	thumbImg := imaging.Resize(img, 300, 0, imaging.Lanczos)
	if err := imaging.Save(thumbImg, thumbnailPath); err != nil {
		log.Printf("gallery thumbnail failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to save thumbnail")
		return
	}

	userID, _ := r.Context().Value(globals.UserIDKey).(string)
	entry := models.GalleryImage{
		ImageID:    imageID,
		Caption:    r.FormValue("caption"),
		URL:        "/static/gallerypic/" + fileName,
		ThumbURL:   "/static/gallerypic/thumb/" + fileName,
		UploadedBy: userID,
		CreatedAt:  time.Now(),
	}

	if _, err := db.GalleryCollection.InsertOne(r.Context(), entry); err != nil {
		log.Printf("gallery insert failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to save image")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, entry)
}
