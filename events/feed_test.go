package events

import (
	"testing"

	"darbar/models"
)

func TestMergeFeedInterleavesByDate(t *testing.T) {
	events := []models.Event{
		{EventID: "e1", Title: "Gurpurab Kirtan", Date: "2025-01-05"},
		{EventID: "e2", Title: "Sunday Diwan", Date: "2025-01-01"},
	}
	bookings := []models.Booking{
		{ID: "b1", Type: "Langar Seva", Name: "A", Date: "2025-01-03", ShowAsEvent: true},
		{ID: "b2", Type: "Hall Booking", Name: "B", Date: "2025-01-10", ShowAsEvent: true},
	}

	feed := MergeFeed(events, bookings)

	wantOrder := []string{"e2", "b1", "e1", "b2"}
	if len(feed) != len(wantOrder) {
		t.Fatalf("feed length = %d, want %d", len(feed), len(wantOrder))
	}
	for i, id := range wantOrder {
		if feed[i].EventID != id {
			t.Fatalf("feed[%d] = %s, want %s", i, feed[i].EventID, id)
		}
	}
}

func TestMergeFeedSameDateKeepsEventsFirst(t *testing.T) {
	events := []models.Event{{EventID: "e1", Title: "Diwan", Date: "2025-02-01"}}
	bookings := []models.Booking{{ID: "b1", Type: "Akhand Path", Name: "C", Date: "2025-02-01"}}

	feed := MergeFeed(events, bookings)
	if feed[0].EventID != "e1" || feed[1].EventID != "b1" {
		t.Fatalf("same-date ordering broken: %s, %s", feed[0].EventID, feed[1].EventID)
	}
	if feed[0].Source != "event" || feed[1].Source != "booking" {
		t.Fatalf("sources not tagged: %s, %s", feed[0].Source, feed[1].Source)
	}
}

func TestBookingAsEventShape(t *testing.T) {
	got := bookingAsEvent(models.Booking{
		ID:   "b1",
		Type: "Langar Seva",
		Name: "A",
		Date: "2025-01-01",
		Note: "100 Sangat expected",
	})
	if got.Title != "Langar Seva - A" {
		t.Fatalf("title = %q", got.Title)
	}
	if got.Description != "100 Sangat expected" {
		t.Fatalf("description = %q", got.Description)
	}

	// missing type and note fall back to generic labels
	got = bookingAsEvent(models.Booking{ID: "b2", Name: "B", Date: "2025-01-02"})
	if got.Title != "Booking - B" || got.Description != "Booking request" {
		t.Fatalf("fallbacks broken: %q / %q", got.Title, got.Description)
	}
}
