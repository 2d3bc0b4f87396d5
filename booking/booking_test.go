package booking

import (
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	valid := bookingInput{
		Type:   "Langar Seva",
		Name:   "A",
		Date:   "2025-01-01",
		Phone:  "555",
		People: 50,
	}
	if err := validate(valid); err != nil {
		t.Fatalf("valid booking rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*bookingInput)
		want   string
	}{
		{"unknown type", func(b *bookingInput) { b.Type = "Parking" }, "unknown booking type"},
		{"empty type", func(b *bookingInput) { b.Type = "" }, "unknown booking type"},
		{"missing name", func(b *bookingInput) { b.Name = "" }, "required"},
		{"missing date", func(b *bookingInput) { b.Date = "" }, "required"},
		{"missing phone", func(b *bookingInput) { b.Phone = "" }, "required"},
		{"zero people", func(b *bookingInput) { b.People = 0 }, "positive"},
		{"negative people", func(b *bookingInput) { b.People = -3 }, "positive"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := valid
			tc.mutate(&in)
			err := validate(in)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestSignPayloadShape(t *testing.T) {
	payload := signPayload("b1", "2025-01-01")
	parts := strings.Split(payload, "|")
	if len(parts) != 3 {
		t.Fatalf("payload has %d parts, want 3: %q", len(parts), payload)
	}
	if parts[0] != "b1" || parts[1] != "2025-01-01" {
		t.Fatalf("payload data mismatch: %q", payload)
	}
	if payload == signPayload("b2", "2025-01-01") {
		t.Fatal("different bookings must not share a signature")
	}
}
