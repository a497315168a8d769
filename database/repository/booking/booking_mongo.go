// File: database/repository/booking/booking_mongo.go
package bookingRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"courtbook/models"
)

// occupyingStatuses are the statuses that hold a slot against other bookings.
var occupyingStatuses = bson.A{models.BookingConfirmed, models.BookingPending}

func (r *mongoBookingRepo) GetByID(ctx context.Context, bookingID string) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var b models.Booking
	err := r.bookingColl.FindOne(ctx, bson.M{"id": bookingID}).Decode(&b)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch booking %s: %w", bookingID, err)
	}
	return &b, nil
}

func (r *mongoBookingRepo) GetByCourtAndDate(ctx context.Context, courtID, date string) ([]models.Booking, error) {
	return r.find(ctx, bson.M{"court_id": courtID, "date": date})
}

func (r *mongoBookingRepo) GetByUserAndDate(ctx context.Context, userID, date string) ([]models.Booking, error) {
	return r.find(ctx, bson.M{"user_id": userID, "date": date})
}

func (r *mongoBookingRepo) GetByUserBetween(ctx context.Context, userID, fromDate, toDate string) ([]models.Booking, error) {
	return r.find(ctx, bson.M{
		"user_id": userID,
		"date":    bson.M{"$gte": fromDate, "$lte": toDate},
	})
}

func (r *mongoBookingRepo) GetByCourtBetween(ctx context.Context, courtID, fromDate, toDate string) ([]models.Booking, error) {
	return r.find(ctx, bson.M{
		"court_id": courtID,
		"date":     bson.M{"$gte": fromDate, "$lte": toDate},
	})
}

func (r *mongoBookingRepo) find(ctx context.Context, filter bson.M) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "start", Value: 1}})
	cursor, err := r.bookingColl.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}

func (r *mongoBookingRepo) UpdateStatus(ctx context.Context, bookingID string, status models.BookingStatus) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"status": status}}
	if status == models.BookingCancelled {
		now := time.Now()
		update = bson.M{"$set": bson.M{"status": status, "cancelled_at": now}}
	}
	res, err := r.bookingColl.UpdateOne(ctx, bson.M{"id": bookingID}, update)
	if err != nil {
		return fmt.Errorf("failed to update booking %s status: %w", bookingID, err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
