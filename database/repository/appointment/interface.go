package appointmentRepo

import (
	"context"

	"praxisagent/config"
	"praxisagent/database"
	"praxisagent/models"

	"go.mongodb.org/mongo-driver/mongo"
)

type AppointmentRepository interface {
	Create(ctx context.Context, appt models.Appointment) (string, error)
	GetByCallID(ctx context.Context, callID string) (*models.Appointment, error)
	ListByDate(ctx context.Context, date string) ([]models.Appointment, error)
	DeleteByID(ctx context.Context, id string) error
}

type mongoAppointmentRepo struct {
	coll *mongo.Collection
}

// NewMongoAppointmentRepo returns a new AppointmentRepository instance using MongoDB.
func NewMongoAppointmentRepo() AppointmentRepository {
	db := database.MongoClient.Database(config.AppConfig.MongoDatabase)
	return &mongoAppointmentRepo{
		coll: db.Collection("appointments"),
	}
}
