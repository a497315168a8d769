// File: database/repository/booking/interface.go
package bookingRepo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"

	"courtbook/database"
	"courtbook/models"
)

// Conflict sentinels returned by the transactional commit when its in-session
// re-check loses a race. The service layer maps them onto rejection reasons.
var (
	ErrSlotConflict = errors.New("slot already taken")
	ErrUserConflict = errors.New("user already booked at that time")
	ErrCourtBlocked = errors.New("court blocked for the requested interval")
)

// BookingRepository persists bookings and answers the conflict queries the
// booking engine validates against.
type BookingRepository interface {
	GetByID(ctx context.Context, bookingID string) (*models.Booking, error)
	GetByCourtAndDate(ctx context.Context, courtID, date string) ([]models.Booking, error)
	GetByUserAndDate(ctx context.Context, userID, date string) ([]models.Booking, error)
	GetByUserBetween(ctx context.Context, userID, fromDate, toDate string) ([]models.Booking, error)
	GetByCourtBetween(ctx context.Context, courtID, fromDate, toDate string) ([]models.Booking, error)
	UpdateStatus(ctx context.Context, bookingID string, status models.BookingStatus) error
	// CreateConflictFree re-runs the overlap checks against a fresh read and
	// inserts the booking within a single transaction. It returns one of the
	// conflict sentinels when a concurrent writer won the slot.
	CreateConflictFree(ctx context.Context, booking *models.Booking) error
	EnsureIndexes() error
}

type mongoBookingRepo struct {
	bookingColl *mongo.Collection
	courtColl   *mongo.Collection
}

// NewMongoBookingRepo constructs a MongoDB-backed BookingRepository. It holds
// the courts collection as well so the transactional commit can re-read
// blocks inside the session.
func NewMongoBookingRepo() BookingRepository {
	db := database.MongoClient.Database(database.Name())
	return &mongoBookingRepo{
		bookingColl: db.Collection("bookings"),
		courtColl:   db.Collection("courts"),
	}
}
