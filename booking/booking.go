package booking

import (
	"context"
	"encoding/json"
	"errors"
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

type bookingInput struct {
	Type   string `json:"type"`
	Name   string `json:"name"`
	Date   string `json:"date"`
	Phone  string `json:"phone"`
	People int    `json:"people"`
	Note   string `json:"note"`
}

func validate(in bookingInput) error {
	if !utils.Contains(models.BookingTypes, in.Type) {
		return errors.New("unknown booking type")
	}
	if in.Name == "" || in.Date == "" || in.Phone == "" {
		return errors.New("name, date and phone are required")
	}
	if in.People <= 0 {
		return errors.New("people must be a positive count")
	}
	return nil
}

// CreateBooking files a service request owned by the caller. It always
// starts out pending; only admins move it from there.
func CreateBooking(hub *realtime.Hub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		userID, ok := r.Context().Value(globals.UserIDKey).(string)
		if !ok || userID == "" {
			utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var input bookingInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
			return
		}
		if err := validate(input); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		booking := models.Booking{
			ID:        "b" + uuid.NewString(),
			Type:      input.Type,
			Name:      input.Name,
			Date:      input.Date,
			Phone:     input.Phone,
			People:    input.People,
			Note:      input.Note,
			UserID:    userID,
			Status:    models.BookingPending,
			CreatedAt: time.Now(),
		}

		if _, err := db.BookingsCollection.InsertOne(r.Context(), booking); err != nil {
			log.Printf("booking insert failed: %v", err)
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to submit booking")
			return
		}

		hub.Publish(realtime.TopicBookings, "created", booking)
		utils.RespondWithJSON(w, http.StatusCreated, booking)
	}
}

// GetMyBookings lists the caller's own bookings, newest first.
func GetMyBookings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, ok := r.Context().Value(globals.UserIDKey).(string)
	if !ok || userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	listBookings(w, r.Context(), bson.M{"userId": userID})
}

// GetBookings lists every booking for the admin dashboard, newest first.
func GetBookings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	filter := bson.M{}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["status"] = status
	}
	listBookings(w, r.Context(), filter)
}

func listBookings(w http.ResponseWriter, ctx context.Context, filter bson.M) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	sortOrder := bson.D{{Key: "createdAt", Value: -1}}
	cursor, err := db.BookingsCollection.Find(ctx, filter, options.Find().SetSort(sortOrder))
	if err != nil {
		log.Printf("bookings find failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch bookings")
		return
	}
	defer cursor.Close(ctx)

	bookings := []models.Booking{}
	if err = cursor.All(ctx, &bookings); err != nil {
		log.Printf("bookings decode failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch bookings")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, bookings)
}

// UpdateStatus confirms or rejects a booking.
func UpdateStatus(hub *realtime.Hub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		id := ps.ByName("id")

		var input struct {
			Status string `json:"status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
			return
		}
		if input.Status != models.BookingConfirmed && input.Status != models.BookingRejected {
			utils.RespondWithError(w, http.StatusBadRequest, "Status must be confirmed or rejected")
			return
		}

		var updated models.Booking
		err := db.BookingsCollection.FindOneAndUpdate(
			r.Context(),
			bson.M{"id": id},
			bson.M{"$set": bson.M{"status": input.Status}},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&updated)
		if err == mongo.ErrNoDocuments {
			utils.RespondWithError(w, http.StatusNotFound, "Booking not found")
			return
		}
		if err != nil {
			log.Printf("booking status update failed: %v", err)
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update booking")
			return
		}

		hub.Publish(realtime.TopicBookings, "updated", updated)
		utils.RespondWithJSON(w, http.StatusOK, updated)
	}
}

// ToggleShowAsEvent flips whether a booking appears in the public feed.
func ToggleShowAsEvent(hub *realtime.Hub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		id := ps.ByName("id")

		var current models.Booking
		err := db.BookingsCollection.FindOne(r.Context(), bson.M{"id": id}).Decode(&current)
		if err == mongo.ErrNoDocuments {
			utils.RespondWithError(w, http.StatusNotFound, "Booking not found")
			return
		}
		if err != nil {
			log.Printf("booking lookup failed: %v", err)
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update booking")
			return
		}

		var updated models.Booking
		err = db.BookingsCollection.FindOneAndUpdate(
			r.Context(),
			bson.M{"id": id},
			bson.M{"$set": bson.M{"showAsEvent": !current.ShowAsEvent}},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&updated)
		if err != nil {
			log.Printf("booking toggle failed: %v", err)
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update booking")
			return
		}

		hub.Publish(realtime.TopicBookings, "updated", updated)
		// the public feed changed as well
		hub.Publish(realtime.TopicEvents, "updated", updated)
		utils.RespondWithJSON(w, http.StatusOK, updated)
	}
}
