package events

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"darbar/db"
	"darbar/globals"
	"darbar/models"
	"darbar/realtime"
	"darbar/utils"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetEvents returns all events sorted by date ascending.
func GetEvents(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	sortOrder := bson.D{{Key: "date", Value: 1}}
	cursor, err := db.EventsCollection.Find(ctx, bson.M{}, options.Find().SetSort(sortOrder))
	if err != nil {
		log.Printf("events find failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch events")
		return
	}
	defer cursor.Close(ctx)

	events := []models.Event{}
	if err = cursor.All(ctx, &events); err != nil {
		log.Printf("events decode failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch events")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, events)
}

type eventInput struct {
	Title       string `json:"title"`
	Date        string `json:"date"`
	Description string `json:"description"`
}

// CreateEvent adds a calendar entry. Admin only (enforced in routes).
func CreateEvent(hub *realtime.Hub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		var input eventInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
			return
		}
		if input.Title == "" || input.Date == "" {
			utils.RespondWithError(w, http.StatusBadRequest, "Title and date are required")
			return
		}

		userID, _ := r.Context().Value(globals.UserIDKey).(string)
		event := models.Event{
			EventID:     "e" + uuid.NewString(),
			Title:       input.Title,
			Date:        input.Date,
			Description: input.Description,
			CreatedBy:   userID,
			CreatedAt:   time.Now(),
		}

		if _, err := db.EventsCollection.InsertOne(r.Context(), event); err != nil {
			log.Printf("event insert failed: %v", err)
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create event")
			return
		}

		hub.Publish(realtime.TopicEvents, "created", event)
		utils.RespondWithJSON(w, http.StatusCreated, event)
	}
}

// UpdateEvent rewrites the editable fields of an event.
func UpdateEvent(hub *realtime.Hub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		id := ps.ByName("eventid")

		var input eventInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
			return
		}
		if input.Title == "" || input.Date == "" {
			utils.RespondWithError(w, http.StatusBadRequest, "Title and date are required")
			return
		}

		update := bson.M{"$set": bson.M{
			"title":       input.Title,
			"date":        input.Date,
			"description": input.Description,
			"updated_at":  time.Now(),
		}}

		var updated models.Event
		err := db.EventsCollection.FindOneAndUpdate(
			r.Context(),
			bson.M{"eventid": id},
			update,
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&updated)
		if err == mongo.ErrNoDocuments {
			utils.RespondWithError(w, http.StatusNotFound, "Event not found")
			return
		}
		if err != nil {
			log.Printf("event update failed: %v", err)
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update event")
			return
		}

		hub.Publish(realtime.TopicEvents, "updated", updated)
		utils.RespondWithJSON(w, http.StatusOK, updated)
	}
}

// DeleteEvent removes an event.
func DeleteEvent(hub *realtime.Hub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		id := ps.ByName("eventid")

		res, err := db.EventsCollection.DeleteOne(r.Context(), bson.M{"eventid": id})
		if err != nil {
			log.Printf("event delete failed: %v", err)
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete event")
			return
		}
		if res.DeletedCount == 0 {
			utils.RespondWithError(w, http.StatusNotFound, "Event not found")
			return
		}

		hub.Publish(realtime.TopicEvents, "deleted", map[string]string{"eventid": id})
		w.WriteHeader(http.StatusNoContent)
	}
}
