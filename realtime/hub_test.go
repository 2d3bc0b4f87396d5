package realtime

import (
	"encoding/json"
	"testing"
	"time"
)

func TestHubRegisterBroadcastUnregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	// create fake client
	client := &Client{
		Send:  make(chan []byte, 10),
		Topic: TopicEvents,
	}

	// register client
	hub.register <- client

	hub.Publish(TopicEvents, "created", map[string]string{"title": "Gurpurab Kirtan"})

	select {
	case got := <-client.Send:
		var payload Payload
		if err := json.Unmarshal(got, &payload); err != nil {
			t.Fatalf("bad payload: %v", err)
		}
		if payload.Action != "created" || payload.Topic != TopicEvents {
			t.Fatalf("unexpected payload %+v", payload)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for message")
	}

	// unregister client
	hub.unregister <- client
}

func TestHubSubscribeCancel(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	ch, cancel := hub.Subscribe(TopicBookings)
	hub.Publish(TopicBookings, "updated", map[string]string{"id": "b1", "status": "confirmed"})

	select {
	case got, ok := <-ch:
		if !ok {
			t.Fatal("stream closed before delivery")
		}
		var payload Payload
		if err := json.Unmarshal(got, &payload); err != nil {
			t.Fatalf("bad payload: %v", err)
		}
		if payload.Action != "updated" {
			t.Fatalf("unexpected payload %+v", payload)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for subscription delivery")
	}

	cancel()

	select {
	case _, ok := <-ch:
		if ok {
			t.Fatal("expected stream to close after cancel")
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for stream close")
	}

	// publishes after cancel must not reach the stream
	hub.Publish(TopicBookings, "updated", nil)
}

func TestHubTopicsAreIsolated(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	events, cancelEvents := hub.Subscribe(TopicEvents)
	defer cancelEvents()

	hub.Publish(TopicBookings, "created", nil)

	select {
	case <-events:
		t.Fatal("bookings payload leaked into events topic")
	case <-time.After(100 * time.Millisecond):
	}
}
