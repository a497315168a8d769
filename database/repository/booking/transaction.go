// File: database/repository/booking/transaction.go
package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"courtbook/models"
)

// CreateConflictFree inserts the booking after re-running the overlap checks
// against the latest committed state, all inside one session transaction.
// Validation before this call reads a snapshot; two concurrent requests for
// the same slot can both pass it, so the losing writer must fail here with
// ErrSlotConflict rather than produce a double booking.
func (r *mongoBookingRepo) CreateConflictFree(ctx context.Context, booking *models.Booking) error {
	client := r.bookingColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) error {
		if err := r.recheckConflicts(sc, booking); err != nil {
			return err
		}
		if _, err := r.bookingColl.InsertOne(sc, booking); err != nil {
			return fmt.Errorf("insert booking failed: %w", err)
		}
		return nil
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		return err
	}
	return nil
}

// recheckConflicts re-evaluates the block, court-overlap and user-overlap
// rules inside the session. Policy rules (dates, duration, hours) are stable
// between validation and commit and are not repeated here.
func (r *mongoBookingRepo) recheckConflicts(sc mongo.SessionContext, booking *models.Booking) error {
	// Court double-booking: any occupying booking overlapping [start, end)
	// on the same court and date.
	courtFilter := bson.M{
		"court_id": booking.CourtID,
		"date":     booking.Date,
		"status":   bson.M{"$in": occupyingStatuses},
		"start":    bson.M{"$lt": booking.End},
		"end":      bson.M{"$gt": booking.Start},
	}
	n, err := r.bookingColl.CountDocuments(sc, courtFilter)
	if err != nil {
		return fmt.Errorf("court overlap re-check failed: %w", err)
	}
	if n > 0 {
		return ErrSlotConflict
	}

	// User self-conflict: same user, same date, any court.
	userFilter := bson.M{
		"user_id": booking.UserID,
		"date":    booking.Date,
		"status":  bson.M{"$in": occupyingStatuses},
		"start":   bson.M{"$lt": booking.End},
		"end":     bson.M{"$gt": booking.Start},
	}
	n, err = r.bookingColl.CountDocuments(sc, userFilter)
	if err != nil {
		return fmt.Errorf("user overlap re-check failed: %w", err)
	}
	if n > 0 {
		return ErrUserConflict
	}

	// Blocks may have been added since validation; re-read the court.
	var court models.Court
	if err := r.courtColl.FindOne(sc, bson.M{"id": booking.CourtID}).Decode(&court); err != nil {
		return fmt.Errorf("court re-read failed: %w", err)
	}
	absStart, ok := models.AnchorMinute(booking.Date, booking.Start, time.Local)
	if !ok {
		return fmt.Errorf("invalid booking date %q", booking.Date)
	}
	absEnd := absStart.Add(time.Duration(booking.End-booking.Start) * time.Minute)
	for _, blk := range court.Blocks {
		if blk.OverlapsRange(absStart, absEnd) {
			return ErrCourtBlocked
		}
	}

	return nil
}
