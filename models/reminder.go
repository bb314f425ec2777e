package models

// ReminderPayload is the task body queued for a scheduled reminder SMS.
type ReminderPayload struct {
	AppointmentID string `json:"appointmentId"`
	Phone         string `json:"phone"`
	Name          string `json:"name"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	FireDate      string `json:"fireDate"`
}
