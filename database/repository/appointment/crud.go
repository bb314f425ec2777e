package appointmentRepo

import (
	"context"
	"errors"
	"time"

	"praxisagent/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Create inserts a new appointment record and returns its ID.
func (r *mongoAppointmentRepo) Create(ctx context.Context, appt models.Appointment) (string, error) {
	if appt.ID == "" {
		appt.ID = uuid.New().String()
	}
	if appt.CreatedAt.IsZero() {
		appt.CreatedAt = time.Now()
	}

	_, err := r.coll.InsertOne(ctx, appt)
	if err != nil {
		return "", err
	}
	return appt.ID, nil
}

// GetByCallID returns the appointment booked from a specific call, if any.
func (r *mongoAppointmentRepo) GetByCallID(ctx context.Context, callID string) (*models.Appointment, error) {
	var appt models.Appointment
	err := r.coll.FindOne(ctx, bson.M{"call_id": callID}).Decode(&appt)
	if err != nil {
		return nil, err
	}
	return &appt, nil
}

// ListByDate fetches all appointments on a given date, ordered by time of day.
func (r *mongoAppointmentRepo) ListByDate(ctx context.Context, date string) ([]models.Appointment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "time", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"date": date}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var appts []models.Appointment
	if err := cursor.All(ctx, &appts); err != nil {
		return nil, err
	}
	return appts, nil
}

// DeleteByID removes an appointment record by ID.
func (r *mongoAppointmentRepo) DeleteByID(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return errors.New("appointment not found")
	}
	return nil
}
