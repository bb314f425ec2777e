package models

import "time"

// Appointment is the durable record of a completed call conversation.
type Appointment struct {
	ID        string    `bson:"id" json:"id"`                 // Unique appointment identifier (UUID)
	CallID    string    `bson:"call_id" json:"call_id"`       // Telephony call id the booking came from
	Name      string    `bson:"name" json:"name"`             // Caller name, verbatim as spoken
	Phone     string    `bson:"phone" json:"phone"`           // E.164 where parseable
	Date      string    `bson:"date" json:"date"`             // Appointment date in "YYYY-MM-DD" format
	Time      string    `bson:"time" json:"time"`             // Appointment time in "HH:MM" format
	Consent   bool      `bson:"consent" json:"consent"`       // Always true for bookings made through the call flow
	CreatedAt time.Time `bson:"created_at" json:"created_at"` // Timestamp when the appointment was recorded
}
