package mq

import (
	"context"
	"encoding/json"
	"log"

	"darbar/db"
	"darbar/mailer"
	"darbar/models"
	"darbar/rdx"

	"go.mongodb.org/mongo-driver/bson"
)

const adminRequestChannel = "admin-request-events"

// AdminRequestEvent is what gets published when a registration arrives.
type AdminRequestEvent struct {
	UID       string `json:"uid"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// EmitAdminRequest publishes a request-created event to Redis. Delivery
// is best-effort: a failed publish is logged and forgotten.
func EmitAdminRequest(req models.AdminRequest) {
	event := AdminRequestEvent{
		UID:       req.UID,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[EmitAdminRequest] marshal error: %v", err)
		return
	}

	if err := rdx.Conn.Publish(context.Background(), adminRequestChannel, data).Err(); err != nil {
		log.Printf("[EmitAdminRequest] publish error: %v", err)
	}
}

// StartAdminRequestWorker listens for new registrations and emails every
// super admin in one message. Failures are logged, never retried, and
// never surfaced to the requester. Approval and rejection outcomes send
// no mail.
func StartAdminRequestWorker() {
	ctx := context.Background()
	sub := rdx.Conn.Subscribe(ctx, adminRequestChannel)
	ch := sub.Channel()

	log.Println("[AdminRequestWorker] Listening for admin request events...")

	for msg := range ch {
		var event AdminRequestEvent
		if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
			log.Printf("[AdminRequestWorker] unmarshal error: %v", err)
			continue
		}

		recipients, err := superAdminEmails(ctx)
		if err != nil {
			log.Printf("[AdminRequestWorker] recipient lookup error: %v", err)
			continue
		}
		if len(recipients) == 0 {
			continue // nothing to notify
		}

		requester := event.Email
		if requester == "" {
			requester = event.UID
		}
		subject := "New admin request from " + requester
		body := "A new admin registration request was submitted.\n\n" +
			"Name: " + event.FirstName + " " + event.LastName + "\n" +
			"Email: " + event.Email + "\n" +
			"Please review in the Admin Panel."

		if err := mailer.Send(recipients, subject, body); err != nil {
			log.Printf("[AdminRequestWorker] mail error: %v", err)
		}
	}
}

// superAdminEmails gathers addresses from uid-keyed grants carrying an
// email field and from email-keyed grants, where the key is the address.
func superAdminEmails(ctx context.Context) ([]string, error) {
	filter := bson.M{"role": models.RoleSuperAdmin}

	var emails []string
	seen := map[string]bool{}

	cursor, err := db.AdminsCollection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	var grants []models.AdminGrant
	if err = cursor.All(ctx, &grants); err != nil {
		return nil, err
	}
	for _, g := range grants {
		if g.Email != "" && !seen[g.Email] {
			seen[g.Email] = true
			emails = append(emails, g.Email)
		}
	}

	cursor, err = db.AdminsByEmailCollection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	grants = nil
	if err = cursor.All(ctx, &grants); err != nil {
		return nil, err
	}
	for _, g := range grants {
		if g.ID != "" && !seen[g.ID] {
			seen[g.ID] = true
			emails = append(emails, g.ID)
		}
	}

	return emails, nil
}
