// File: utils/constants.go
package utils

import "time"

// PracticeTimezone is the IANA zone all appointment times are anchored to.
const PracticeTimezone = "Europe/Berlin"

// AppointmentDuration is the fixed length of a booked appointment.
const AppointmentDuration = 15 * time.Minute
