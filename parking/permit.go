package parking

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"time"

	"worknest/db"
	"worknest/globals"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
	"go.mongodb.org/mongo-driver/bson"
)

func permitSecret() []byte {
	if s := os.Getenv("PERMIT_SECRET"); s != "" {
		return []byte(s)
	}
	return []byte("change_me_in_production")
}

// permitPayload returns reservationID|slotID|userID|timestamp|signature so
// the gate scanner can verify a permit offline.
func permitPayload(res Reservation) string {
	data := fmt.Sprintf("%s|%s|%s|%d", res.ID, res.SlotID, res.UserID, time.Now().Unix())
	h := hmac.New(sha256.New, permitSecret())
	h.Write([]byte(data))
	sig := base64.StdEncoding.EncodeToString(h.Sum(nil))
	return fmt.Sprintf("%s|%s", data, sig)
}

// PrintPermit renders a PDF parking permit with a signed QR code for one
// of the caller's reservations.
func PrintPermit(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	reservationID := ps.ByName("resid")
	userID, _ := r.Context().Value(globals.UserIDKey).(string)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var res Reservation
	err := db.ReservationsCollection.FindOne(ctx, bson.M{
		"id":     reservationID,
		"userId": userID,
	}).Decode(&res)
	if err != nil {
		http.Error(w, "reservation not found", http.StatusNotFound)
		return
	}

	var slot Slot
	slotNumber := res.SlotID
	if err := db.ParkingSlotsCollection.FindOne(ctx, bson.M{"id": res.SlotID}).Decode(&slot); err == nil {
		slotNumber = slot.Number
	}

	qrPNG, err := qrcode.Encode(permitPayload(res), qrcode.Medium, 256)
	if err != nil {
		http.Error(w, "Failed to generate QR code", http.StatusInternalServerError)
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Parking Permit")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 10, fmt.Sprintf("Slot: %s", slotNumber))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("From: %s", res.StartDate.Format("2006-01-02")))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("To: %s", res.EndDate.Format("2006-01-02")))
	pdf.Ln(12)

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 150, 40, 40, 40, false, imageOpts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		http.Error(w, "Failed to generate PDF", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=permit-"+res.ID+".pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
