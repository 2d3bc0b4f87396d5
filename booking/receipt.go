package booking

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"log"
	"net/http"
	"os"

	"darbar/db"
	"darbar/globals"
	"darbar/middleware"
	"darbar/models"
	"darbar/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
	"go.mongodb.org/mongo-driver/bson"
)

var hmacSecret = func() string {
	if s := os.Getenv("RECEIPT_HMAC_SECRET"); s != "" {
		return s
	}
	return "your-very-secret-key"
}()

// signPayload returns bookingID|date|signature so the office can verify a
// printed slip against the stored booking.
func signPayload(bookingID, date string) string {
	data := fmt.Sprintf("%s|%s", bookingID, date)
	h := hmac.New(sha256.New, []byte(hmacSecret))
	h.Write([]byte(data))
	sig := base64.StdEncoding.EncodeToString(h.Sum(nil))
	return fmt.Sprintf("%s|%s", data, sig)
}

// PrintReceipt renders a PDF confirmation slip with a signed QR code.
// Only confirmed bookings get a slip; the owner or any admin may print.
func PrintReceipt(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	userID, _ := r.Context().Value(globals.UserIDKey).(string)
	email, _ := r.Context().Value(globals.EmailKey).(string)

	var booking models.Booking
	if err := db.BookingsCollection.FindOne(r.Context(), bson.M{"id": id}).Decode(&booking); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Booking not found")
		return
	}

	if booking.UserID != userID {
		status, err := middleware.Authz.Resolve(r.Context(), userID, email)
		if err != nil || !status.IsAdmin {
			if err != nil {
				log.Printf("receipt role resolution failed: %v", err)
			}
			utils.RespondWithError(w, http.StatusForbidden, "Forbidden")
			return
		}
	}

	if booking.Status != models.BookingConfirmed {
		utils.RespondWithError(w, http.StatusConflict, "Booking is not confirmed")
		return
	}

	qrPNG, err := qrcode.Encode(signPayload(booking.ID, booking.Date), qrcode.Medium, 256)
	if err != nil {
		log.Printf("receipt QR failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate receipt")
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Booking Confirmation")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 10, fmt.Sprintf("Service: %s", booking.Type))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Name: %s", booking.Name))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Date: %s", booking.Date))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Sangat: %d", booking.People))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Contact: %s", booking.Phone))
	pdf.Ln(12)

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", opts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 20, pdf.GetY(), 60, 60, false, opts, 0, "")

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=booking-%s.pdf", booking.ID))
	if err := pdf.Output(w); err != nil {
		log.Printf("receipt render failed: %v", err)
	}
}
