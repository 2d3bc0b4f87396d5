package events

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sort"
	"time"

	"darbar/db"
	"darbar/models"
	"darbar/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

// GetFeed returns the public event feed: native events plus bookings an
// admin promoted via showAsEvent, merged and sorted by date ascending.
func GetFeed(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cursor, err := db.EventsCollection.Find(ctx, bson.M{})
	if err != nil {
		log.Printf("feed events find failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch feed")
		return
	}
	var events []models.Event
	if err = cursor.All(ctx, &events); err != nil {
		log.Printf("feed events decode failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch feed")
		return
	}

	bCursor, err := db.BookingsCollection.Find(ctx, bson.M{"showAsEvent": true})
	if err != nil {
		log.Printf("feed bookings find failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch feed")
		return
	}
	var promoted []models.Booking
	if err = bCursor.All(ctx, &promoted); err != nil {
		log.Printf("feed bookings decode failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch feed")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, MergeFeed(events, promoted))
}

// MergeFeed interleaves events and promoted bookings by date. Dates are
// YYYY-MM-DD strings, so plain string comparison gives calendar order.
// The sort is stable: entries sharing a date keep their relative order,
// events before bookings.
func MergeFeed(events []models.Event, bookings []models.Booking) []models.Event {
	feed := make([]models.Event, 0, len(events)+len(bookings))
	for _, ev := range events {
		ev.Source = "event"
		feed = append(feed, ev)
	}
	for _, b := range bookings {
		feed = append(feed, bookingAsEvent(b))
	}
	sort.SliceStable(feed, func(i, j int) bool {
		return feed[i].Date < feed[j].Date
	})
	return feed
}

func bookingAsEvent(b models.Booking) models.Event {
	bookingType := b.Type
	if bookingType == "" {
		bookingType = "Booking"
	}
	description := b.Note
	if description == "" {
		description = "Booking request"
	}
	return models.Event{
		EventID:     b.ID,
		Title:       fmt.Sprintf("%s - %s", bookingType, b.Name),
		Date:        b.Date,
		Description: description,
		Source:      "booking",
		CreatedAt:   b.CreatedAt,
	}
}
