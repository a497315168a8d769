package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	bookingRepo "courtbook/database/repository/booking"
	courtRepo "courtbook/database/repository/court"
	"courtbook/models"
	"courtbook/utils"
)

// BookingEngine is the in-process boundary the HTTP layer talks to.
type BookingEngine interface {
	GetAvailableSlots(ctx context.Context, courtID, date string, durationMinutes int) ([]models.Slot, error)
	QuoteSlotPrice(ctx context.Context, courtID, date string, startMinute, durationMinutes int) (float64, error)
	CreateBooking(ctx context.Context, req Request) (*models.Booking, error)
	CancelBooking(ctx context.Context, bookingID, userID string) (*models.Booking, error)
	ListUserBookings(ctx context.Context, userID, fromDate, toDate string) ([]models.Booking, error)
	Subscribe(fn func(models.Booking))
}

// DefaultBookingEngine is the production booking engine.
type DefaultBookingEngine struct {
	CourtRepo   courtRepo.CourtRepository
	BookingRepo bookingRepo.BookingRepository
	Cache       *redis.Client
	CacheTTL    time.Duration
	// Now is the clock source; defaults to time.Now when nil.
	Now func() time.Time

	subscribers []func(models.Booking)
}

func (e *DefaultBookingEngine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

// Subscribe registers a callback invoked after every committed booking.
// Registration is expected at startup, before the engine serves requests.
func (e *DefaultBookingEngine) Subscribe(fn func(models.Booking)) {
	e.subscribers = append(e.subscribers, fn)
}

func (e *DefaultBookingEngine) emit(b models.Booking) {
	for _, fn := range e.subscribers {
		fn(b)
	}
}

// GetAvailableSlots computes the free slots for a court on a date. Responses
// are cached briefly; a slot shown as free may still lose the commit race.
func (e *DefaultBookingEngine) GetAvailableSlots(ctx context.Context, courtID, date string, durationMinutes int) ([]models.Slot, error) {
	court, err := e.fetchCourt(ctx, courtID)
	if err != nil {
		return nil, err
	}

	rules := court.BookingRules
	if durationMinutes < rules.MinDurationMinutes || durationMinutes > rules.MaxDurationMinutes {
		return nil, reject(ReasonDurationOutOfRange,
			"duration must be between %d and %d minutes",
			rules.MinDurationMinutes, rules.MaxDurationMinutes)
	}

	cacheKey := availabilityKey(courtID, date, durationMinutes)
	if cached, ok := e.cacheGet(ctx, cacheKey); ok {
		return cached, nil
	}

	bookings, err := e.BookingRepo.GetByCourtAndDate(ctx, courtID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load bookings for availability: %w", err)
	}

	slots := ComputeAvailableSlots(*court, date, durationMinutes, bookings, court.Blocks)
	for i := range slots {
		slots[i].Price = QuotePrice(*court, date, slots[i].Start, durationMinutes)
	}

	e.cacheSet(ctx, cacheKey, slots)
	return slots, nil
}

// QuoteSlotPrice prices a candidate slot without creating anything.
func (e *DefaultBookingEngine) QuoteSlotPrice(ctx context.Context, courtID, date string, startMinute, durationMinutes int) (float64, error) {
	court, err := e.fetchCourt(ctx, courtID)
	if err != nil {
		return 0, err
	}
	return QuotePrice(*court, date, startMinute, durationMinutes), nil
}

// CreateBooking validates the request, prices it, and commits it through the
// conflict-safe repository path. A request that loses the commit race
// surfaces the same rejection it would have received had the winner's
// booking been visible at validation time.
func (e *DefaultBookingEngine) CreateBooking(ctx context.Context, req Request) (*models.Booking, error) {
	court, err := e.fetchCourt(ctx, req.CourtID)
	if err != nil {
		return nil, err
	}

	courtBookings, err := e.BookingRepo.GetByCourtAndDate(ctx, req.CourtID, req.Date)
	if err != nil {
		return nil, fmt.Errorf("failed to load court bookings: %w", err)
	}
	userBookings, err := e.BookingRepo.GetByUserAndDate(ctx, req.UserID, req.Date)
	if err != nil {
		return nil, fmt.Errorf("failed to load user bookings: %w", err)
	}

	if err := Validate(req, *court, courtBookings, userBookings, e.now()); err != nil {
		return nil, err
	}

	booking := &models.Booking{
		ID:         uuid.New().String(),
		CourtID:    req.CourtID,
		UserID:     req.UserID,
		Date:       req.Date,
		Start:      req.Start,
		End:        req.End,
		Status:     models.BookingConfirmed,
		TotalPrice: QuotePrice(*court, req.Date, req.Start, req.End-req.Start),
		Players:    req.Players,
		CreatedAt:  e.now(),
	}

	if err := e.BookingRepo.CreateConflictFree(ctx, booking); err != nil {
		switch {
		case errors.Is(err, bookingRepo.ErrSlotConflict):
			return nil, reject(ReasonSlotTaken, "requested slot is already booked")
		case errors.Is(err, bookingRepo.ErrUserConflict):
			return nil, reject(ReasonUserDoubleBooked, "you already have a booking at that time")
		case errors.Is(err, bookingRepo.ErrCourtBlocked):
			return nil, reject(ReasonCourtBlocked, "court %s is blocked at the requested time", court.Name)
		}
		return nil, fmt.Errorf("booking commit failed: %w", err)
	}

	e.invalidateAvailability(ctx, req.CourtID, req.Date)
	e.emit(*booking)
	return booking, nil
}

// CancelBooking cancels a member's own booking, subject to the court's
// cancellation deadline.
func (e *DefaultBookingEngine) CancelBooking(ctx context.Context, bookingID, userID string) (*models.Booking, error) {
	booking, err := e.BookingRepo.GetByID(ctx, bookingID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	if booking.UserID != userID {
		return nil, ErrBookingNotFound
	}
	if !booking.Occupies() {
		return nil, ErrBookingNotActive
	}

	court, err := e.fetchCourt(ctx, booking.CourtID)
	if err != nil {
		return nil, err
	}
	deadline := court.BookingRules.CancellationDeadlineHours
	if deadline > 0 {
		start, ok := models.AnchorMinute(booking.Date, booking.Start, e.now().Location())
		if ok && e.now().After(start.Add(-time.Duration(deadline)*time.Hour)) {
			return nil, reject(ReasonCancellationDeadline,
				"bookings must be cancelled at least %d hours before start", deadline)
		}
	}

	if err := e.BookingRepo.UpdateStatus(ctx, bookingID, models.BookingCancelled); err != nil {
		return nil, fmt.Errorf("failed to cancel booking: %w", err)
	}
	booking.Status = models.BookingCancelled
	now := e.now()
	booking.CancelledAt = &now

	e.invalidateAvailability(ctx, booking.CourtID, booking.Date)
	return booking, nil
}

// ListUserBookings returns a member's bookings over an inclusive date range.
func (e *DefaultBookingEngine) ListUserBookings(ctx context.Context, userID, fromDate, toDate string) ([]models.Booking, error) {
	return e.BookingRepo.GetByUserBetween(ctx, userID, fromDate, toDate)
}

func (e *DefaultBookingEngine) fetchCourt(ctx context.Context, courtID string) (*models.Court, error) {
	court, err := e.CourtRepo.GetByID(ctx, courtID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrCourtNotFound
	}
	if err != nil {
		return nil, err
	}
	return court, nil
}

func availabilityKey(courtID, date string, durationMinutes int) string {
	return fmt.Sprintf("avail:%s:%s:%d", courtID, date, durationMinutes)
}

func (e *DefaultBookingEngine) cacheGet(ctx context.Context, key string) ([]models.Slot, bool) {
	if e.Cache == nil {
		return nil, false
	}
	data, err := e.Cache.Get(ctx, key).Result()
	if err != nil {
		return nil, false
	}
	var slots []models.Slot
	if err := json.Unmarshal([]byte(data), &slots); err != nil {
		return nil, false
	}
	return slots, true
}

func (e *DefaultBookingEngine) cacheSet(ctx context.Context, key string, slots []models.Slot) {
	if e.Cache == nil {
		return
	}
	data, err := json.Marshal(slots)
	if err != nil {
		return
	}
	ttl := e.CacheTTL
	if ttl <= 0 {
		ttl = 15 * time.Second
	}
	if err := e.Cache.Set(ctx, key, data, ttl).Err(); err != nil {
		utils.GetLogger().Warn("failed to cache availability", zap.String("key", key), zap.Error(err))
	}
}

// invalidateAvailability drops every cached duration for a court/date pair.
func (e *DefaultBookingEngine) invalidateAvailability(ctx context.Context, courtID, date string) {
	if e.Cache == nil {
		return
	}
	pattern := fmt.Sprintf("avail:%s:%s:*", courtID, date)
	keys, err := e.Cache.Keys(ctx, pattern).Result()
	if err != nil || len(keys) == 0 {
		return
	}
	if err := e.Cache.Del(ctx, keys...).Err(); err != nil {
		utils.GetLogger().Warn("failed to invalidate availability cache", zap.String("pattern", pattern), zap.Error(err))
	}
}
