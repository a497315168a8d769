package court

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"courtbook/models"
)

type fakeCourtRepo struct {
	courts map[string]models.Court
}

func (f *fakeCourtRepo) Create(_ context.Context, c *models.Court) error {
	if c.ID == "" {
		c.ID = "generated"
	}
	f.courts[c.ID] = *c
	return nil
}

func (f *fakeCourtRepo) GetByID(_ context.Context, id string) (*models.Court, error) {
	c, ok := f.courts[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return &c, nil
}

func (f *fakeCourtRepo) List(_ context.Context, activeOnly bool) ([]models.Court, error) {
	var out []models.Court
	for _, c := range f.courts {
		if activeOnly && !c.IsActive {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeCourtRepo) Update(_ context.Context, c *models.Court) error {
	if _, ok := f.courts[c.ID]; !ok {
		return mongo.ErrNoDocuments
	}
	f.courts[c.ID] = *c
	return nil
}

func (f *fakeCourtRepo) SetActive(_ context.Context, id string, active bool) error {
	c, ok := f.courts[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	c.IsActive = active
	f.courts[id] = c
	return nil
}

func (f *fakeCourtRepo) AddBlock(_ context.Context, id string, block models.CourtBlock) error {
	c, ok := f.courts[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	c.Blocks = append(c.Blocks, block)
	f.courts[id] = c
	return nil
}

func (f *fakeCourtRepo) RemoveBlock(_ context.Context, id, blockID string) error {
	c, ok := f.courts[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	var kept []models.CourtBlock
	for _, b := range c.Blocks {
		if b.ID != blockID {
			kept = append(kept, b)
		}
	}
	c.Blocks = kept
	f.courts[id] = c
	return nil
}

func (f *fakeCourtRepo) EnsureIndexes() error { return nil }

type fakeBookingRepo struct {
	bookings []models.Booking
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id string) (*models.Booking, error) {
	for _, b := range f.bookings {
		if b.ID == id {
			return &b, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeBookingRepo) GetByCourtAndDate(_ context.Context, courtID, date string) ([]models.Booking, error) {
	return f.filter(func(b models.Booking) bool { return b.CourtID == courtID && b.Date == date }), nil
}

func (f *fakeBookingRepo) GetByUserAndDate(_ context.Context, userID, date string) ([]models.Booking, error) {
	return f.filter(func(b models.Booking) bool { return b.UserID == userID && b.Date == date }), nil
}

func (f *fakeBookingRepo) GetByUserBetween(_ context.Context, userID, from, to string) ([]models.Booking, error) {
	return f.filter(func(b models.Booking) bool { return b.UserID == userID && b.Date >= from && b.Date <= to }), nil
}

func (f *fakeBookingRepo) GetByCourtBetween(_ context.Context, courtID, from, to string) ([]models.Booking, error) {
	return f.filter(func(b models.Booking) bool { return b.CourtID == courtID && b.Date >= from && b.Date <= to }), nil
}

func (f *fakeBookingRepo) filter(keep func(models.Booking) bool) []models.Booking {
	var out []models.Booking
	for _, b := range f.bookings {
		if keep(b) {
			out = append(out, b)
		}
	}
	return out
}

func (f *fakeBookingRepo) UpdateStatus(_ context.Context, id string, status models.BookingStatus) error {
	for i := range f.bookings {
		if f.bookings[i].ID == id {
			f.bookings[i].Status = status
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

func (f *fakeBookingRepo) CreateConflictFree(_ context.Context, b *models.Booking) error {
	f.bookings = append(f.bookings, *b)
	return nil
}

func (f *fakeBookingRepo) EnsureIndexes() error { return nil }

func validTestCourt() models.Court {
	return models.Court{
		ID:      "court-1",
		Name:    "Court 1",
		Type:    models.CourtTypeIndoor,
		Surface: models.SurfaceClay,
		OperatingHours: map[string]models.HoursWindow{
			"monday": {Open: "08:00", Close: "22:00"},
		},
		BookingRules: models.BookingRules{
			MinDurationMinutes:   60,
			MaxDurationMinutes:   120,
			AdvanceBookingDays:   14,
			SlotIncrementMinutes: 60,
		},
		Pricing:  models.PricingPolicy{BasePricePerHour: 20},
		IsActive: true,
	}
}

func newTestService() (*DefaultCourtService, *fakeCourtRepo, *fakeBookingRepo) {
	courts := &fakeCourtRepo{courts: map[string]models.Court{"court-1": validTestCourt()}}
	bookings := &fakeBookingRepo{}
	return &DefaultCourtService{Repo: courts, BookingRepo: bookings}, courts, bookings
}

func TestCreateCourtValidation(t *testing.T) {
	svc, _, _ := newTestService()

	tests := []struct {
		name   string
		mutate func(*models.Court)
		wantOK bool
	}{
		{"valid", func(*models.Court) {}, true},
		{"inverted hours", func(c *models.Court) {
			c.OperatingHours["monday"] = models.HoursWindow{Open: "22:00", Close: "08:00"}
		}, false},
		{"bad clock", func(c *models.Court) {
			c.OperatingHours["monday"] = models.HoursWindow{Open: "8am", Close: "22:00"}
		}, false},
		{"min above max", func(c *models.Court) {
			c.BookingRules.MinDurationMinutes = 180
		}, false},
		{"bad increment", func(c *models.Court) {
			c.BookingRules.SlotIncrementMinutes = 45
		}, false},
		{"multiplier below one with windows", func(c *models.Court) {
			c.Pricing.PeakHourMultiplier = 0.5
			c.Pricing.PeakWindows = []models.PeakWindow{{Weekday: "monday", Start: "17:00", End: "21:00"}}
		}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validTestCourt()
			c.ID = ""
			tt.mutate(&c)
			err := svc.CreateCourt(context.Background(), &c)
			if (err == nil) != tt.wantOK {
				t.Fatalf("CreateCourt error = %v, wantOK %v", err, tt.wantOK)
			}
		})
	}
}

func TestAddBlockCancelsOverlappingFutureBookings(t *testing.T) {
	svc, courts, bookings := newTestService()

	future := time.Now().AddDate(0, 0, 7)
	date := future.Format(models.DateLayout)
	bookings.bookings = []models.Booking{
		{ID: "hit", CourtID: "court-1", UserID: "u1", Date: date, Start: 600, End: 660, Status: models.BookingConfirmed},
		{ID: "miss", CourtID: "court-1", UserID: "u2", Date: date, Start: 720, End: 780, Status: models.BookingConfirmed},
		{ID: "other-court", CourtID: "court-2", UserID: "u3", Date: date, Start: 600, End: 660, Status: models.BookingConfirmed},
	}

	day, _ := models.ParseDate(date, time.Local)
	block := models.CourtBlock{
		Reason: "tournament",
		Start:  day.Add(9 * time.Hour),  // 09:00
		End:    day.Add(11 * time.Hour), // 11:00
	}
	stored, cancelled, err := svc.AddBlock(context.Background(), "court-1", block)
	if err != nil {
		t.Fatalf("AddBlock failed: %v", err)
	}
	if stored.ID == "" {
		t.Error("stored block has no ID")
	}
	if len(courts.courts["court-1"].Blocks) != 1 {
		t.Fatal("block was not attached to the court")
	}

	if len(cancelled) != 1 || cancelled[0].ID != "hit" {
		t.Fatalf("cancelled = %+v, want exactly the overlapping booking", cancelled)
	}
	for _, b := range bookings.bookings {
		switch b.ID {
		case "hit":
			if b.Status != models.BookingCancelled {
				t.Error("overlapping booking was not cancelled")
			}
		default:
			if b.Status != models.BookingConfirmed {
				t.Errorf("booking %s must stay confirmed", b.ID)
			}
		}
	}
}

func TestAddBlockRejectsInvertedInterval(t *testing.T) {
	svc, _, _ := newTestService()
	now := time.Now()

	if _, _, err := svc.AddBlock(context.Background(), "court-1", models.CourtBlock{
		Reason: "oops", Start: now, End: now.Add(-time.Hour),
	}); err == nil {
		t.Fatal("inverted block accepted")
	}
}

func TestAddBlockUnknownCourt(t *testing.T) {
	svc, _, _ := newTestService()
	now := time.Now()

	_, _, err := svc.AddBlock(context.Background(), "court-404", models.CourtBlock{
		Reason: "maintenance", Start: now, End: now.Add(time.Hour),
	})
	if err != ErrCourtNotFound {
		t.Fatalf("got %v, want ErrCourtNotFound", err)
	}
}

func TestRemoveBlock(t *testing.T) {
	svc, courts, _ := newTestService()
	now := time.Now()

	stored, _, err := svc.AddBlock(context.Background(), "court-1", models.CourtBlock{
		Reason: "maintenance", Start: now.Add(time.Hour), End: now.Add(2 * time.Hour),
	})
	if err != nil {
		t.Fatalf("AddBlock failed: %v", err)
	}
	if err := svc.RemoveBlock(context.Background(), "court-1", stored.ID); err != nil {
		t.Fatalf("RemoveBlock failed: %v", err)
	}
	if len(courts.courts["court-1"].Blocks) != 0 {
		t.Error("block still attached after removal")
	}
}
