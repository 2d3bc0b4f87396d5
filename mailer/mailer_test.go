package mailer

import (
	"strings"
	"testing"
)

func TestBuildMessageMultiRecipient(t *testing.T) {
	msg := string(BuildMessage(
		"no-reply@example.com",
		[]string{"a@example.com", "b@example.com"},
		"New admin request from x@example.com",
		"Please review in the Admin Panel.",
	))

	if !strings.Contains(msg, "To: a@example.com, b@example.com\r\n") {
		t.Fatalf("recipients not joined into one header:\n%s", msg)
	}
	if !strings.Contains(msg, "Subject: New admin request from x@example.com\r\n") {
		t.Fatalf("subject missing:\n%s", msg)
	}
	if !strings.HasSuffix(msg, "\r\nPlease review in the Admin Panel.") {
		t.Fatalf("body not separated from headers:\n%s", msg)
	}
}
