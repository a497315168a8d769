package court

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	bookingRepo "courtbook/database/repository/booking"
	courtRepo "courtbook/database/repository/court"
	"courtbook/models"
	"courtbook/utils"
)

var ErrCourtNotFound = errors.New("court not found")

// CourtService manages courts and their maintenance blocks.
type CourtService interface {
	CreateCourt(ctx context.Context, court *models.Court) error
	GetCourt(ctx context.Context, courtID string) (*models.Court, error)
	ListCourts(ctx context.Context, activeOnly bool) ([]models.Court, error)
	UpdateCourt(ctx context.Context, court *models.Court) error
	SetActive(ctx context.Context, courtID string, active bool) error
	AddBlock(ctx context.Context, courtID string, block models.CourtBlock) (*models.CourtBlock, []models.Booking, error)
	RemoveBlock(ctx context.Context, courtID, blockID string) error
}

// DefaultCourtService is the production court service.
type DefaultCourtService struct {
	Repo        courtRepo.CourtRepository
	BookingRepo bookingRepo.BookingRepository
}

// validCourt checks the structural invariants of a court configuration.
func validCourt(c *models.Court) error {
	for day, w := range c.OperatingHours {
		open, okOpen := models.MinuteOfDay(w.Open)
		closeMin, okClose := models.MinuteOfDay(w.Close)
		if !okOpen || !okClose {
			return fmt.Errorf("invalid operating hours for %s: %s-%s", day, w.Open, w.Close)
		}
		if open >= closeMin {
			return fmt.Errorf("operating hours for %s must open before they close", day)
		}
	}
	rules := c.BookingRules
	if rules.MinDurationMinutes <= 0 || rules.MinDurationMinutes > rules.MaxDurationMinutes {
		return fmt.Errorf("min duration %d must be positive and at most max duration %d",
			rules.MinDurationMinutes, rules.MaxDurationMinutes)
	}
	switch rules.SlotIncrementMinutes {
	case 15, 30, 60:
	default:
		return fmt.Errorf("slot increment must be 15, 30 or 60 minutes, got %d", rules.SlotIncrementMinutes)
	}
	if len(c.Pricing.PeakWindows) > 0 && c.Pricing.PeakHourMultiplier < 1 {
		return fmt.Errorf("peak hour multiplier must be at least 1, got %v", c.Pricing.PeakHourMultiplier)
	}
	return nil
}

func (s *DefaultCourtService) CreateCourt(ctx context.Context, court *models.Court) error {
	if err := validCourt(court); err != nil {
		return err
	}
	return s.Repo.Create(ctx, court)
}

func (s *DefaultCourtService) GetCourt(ctx context.Context, courtID string) (*models.Court, error) {
	court, err := s.Repo.GetByID(ctx, courtID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrCourtNotFound
	}
	if err != nil {
		return nil, err
	}
	return court, nil
}

func (s *DefaultCourtService) ListCourts(ctx context.Context, activeOnly bool) ([]models.Court, error) {
	return s.Repo.List(ctx, activeOnly)
}

func (s *DefaultCourtService) UpdateCourt(ctx context.Context, court *models.Court) error {
	if err := validCourt(court); err != nil {
		return err
	}
	err := s.Repo.Update(ctx, court)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrCourtNotFound
	}
	return err
}

func (s *DefaultCourtService) SetActive(ctx context.Context, courtID string, active bool) error {
	err := s.Repo.SetActive(ctx, courtID, active)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrCourtNotFound
	}
	return err
}

// AddBlock attaches a maintenance block to a court and cancels the future
// confirmed or pending bookings it overlaps. Past bookings are untouched.
// Returns the stored block and the bookings that were cancelled.
func (s *DefaultCourtService) AddBlock(ctx context.Context, courtID string, block models.CourtBlock) (*models.CourtBlock, []models.Booking, error) {
	if !block.Start.Before(block.End) {
		return nil, nil, fmt.Errorf("block start %v must precede end %v", block.Start, block.End)
	}
	if _, err := s.GetCourt(ctx, courtID); err != nil {
		return nil, nil, err
	}

	if block.ID == "" {
		block.ID = uuid.New().String()
	}
	block.CreatedAt = time.Now()

	if err := s.Repo.AddBlock(ctx, courtID, block); err != nil {
		return nil, nil, err
	}

	cancelled, err := s.cancelOverlappingBookings(ctx, courtID, block)
	if err != nil {
		// Block is persisted either way; conflicting bookings that survive
		// will still be refused slots by the availability and commit paths.
		utils.GetLogger().Error("failed to cancel bookings overlapped by block",
			zap.String("courtID", courtID), zap.String("blockID", block.ID), zap.Error(err))
	}

	return &block, cancelled, nil
}

func (s *DefaultCourtService) RemoveBlock(ctx context.Context, courtID, blockID string) error {
	err := s.Repo.RemoveBlock(ctx, courtID, blockID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrCourtNotFound
	}
	return err
}

// cancelOverlappingBookings cancels occupying bookings whose anchored
// interval intersects the block and which have not already started.
func (s *DefaultCourtService) cancelOverlappingBookings(ctx context.Context, courtID string, block models.CourtBlock) ([]models.Booking, error) {
	loc := time.Local
	fromDate := block.Start.In(loc).Format(models.DateLayout)
	toDate := block.End.In(loc).Format(models.DateLayout)

	candidates, err := s.BookingRepo.GetByCourtBetween(ctx, courtID, fromDate, toDate)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var cancelled []models.Booking
	for _, b := range candidates {
		if !b.Occupies() {
			continue
		}
		start, ok := models.AnchorMinute(b.Date, b.Start, loc)
		if !ok || start.Before(now) {
			continue
		}
		end := start.Add(time.Duration(b.End-b.Start) * time.Minute)
		if !block.OverlapsRange(start, end) {
			continue
		}
		if err := s.BookingRepo.UpdateStatus(ctx, b.ID, models.BookingCancelled); err != nil {
			return cancelled, err
		}
		b.Status = models.BookingCancelled
		cancelled = append(cancelled, b)
	}
	return cancelled, nil
}
