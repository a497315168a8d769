package booking

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	bookingRepo "courtbook/database/repository/booking"
	"courtbook/models"
)

// fakeCourtRepo serves courts from a map.
type fakeCourtRepo struct {
	courts map[string]models.Court
}

func (f *fakeCourtRepo) Create(_ context.Context, c *models.Court) error {
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

// fakeBookingRepo keeps bookings in a slice and mirrors the transactional
// commit's re-check behavior against its own state.
type fakeBookingRepo struct {
	courts   *fakeCourtRepo
	bookings []models.Booking
	// beforeCommit, when set, runs at the start of CreateConflictFree to
	// simulate a concurrent writer landing between validation and commit.
	beforeCommit func()
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
	var out []models.Booking
	for _, b := range f.bookings {
		if b.CourtID == courtID && b.Date == date {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) GetByUserAndDate(_ context.Context, userID, date string) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range f.bookings {
		if b.UserID == userID && b.Date == date {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) GetByUserBetween(_ context.Context, userID, from, to string) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range f.bookings {
		if b.UserID == userID && b.Date >= from && b.Date <= to {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) GetByCourtBetween(_ context.Context, courtID, from, to string) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range f.bookings {
		if b.CourtID == courtID && b.Date >= from && b.Date <= to {
			out = append(out, b)
		}
	}
	return out, nil
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

func (f *fakeBookingRepo) CreateConflictFree(_ context.Context, booking *models.Booking) error {
	if f.beforeCommit != nil {
		f.beforeCommit()
		f.beforeCommit = nil
	}
	for _, b := range f.bookings {
		if !b.Occupies() || b.Date != booking.Date {
			continue
		}
		if b.CourtID == booking.CourtID && b.OverlapsMinutes(booking.Start, booking.End) {
			return bookingRepo.ErrSlotConflict
		}
		if b.UserID == booking.UserID && b.OverlapsMinutes(booking.Start, booking.End) {
			return bookingRepo.ErrUserConflict
		}
	}
	if court, ok := f.courts.courts[booking.CourtID]; ok {
		absStart, _ := models.AnchorMinute(booking.Date, booking.Start, time.Local)
		absEnd := absStart.Add(time.Duration(booking.End-booking.Start) * time.Minute)
		for _, blk := range court.Blocks {
			if blk.OverlapsRange(absStart, absEnd) {
				return bookingRepo.ErrCourtBlocked
			}
		}
	}
	f.bookings = append(f.bookings, *booking)
	return nil
}

func (f *fakeBookingRepo) EnsureIndexes() error { return nil }

func newTestEngine() (*DefaultBookingEngine, *fakeBookingRepo) {
	courts := &fakeCourtRepo{courts: map[string]models.Court{"court-1": testCourt()}}
	bookings := &fakeBookingRepo{courts: courts}
	engine := &DefaultBookingEngine{
		CourtRepo:   courts,
		BookingRepo: bookings,
		Now:         testNow,
	}
	return engine, bookings
}

func TestEngineCreateBooking(t *testing.T) {
	engine, repo := newTestEngine()
	var events []models.Booking
	engine.Subscribe(func(b models.Booking) { events = append(events, b) })

	created, err := engine.CreateBooking(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("CreateBooking failed: %v", err)
	}
	if created.Status != models.BookingConfirmed {
		t.Errorf("status = %s, want confirmed", created.Status)
	}
	if created.TotalPrice != 20.00 {
		t.Errorf("total price = %.2f, want 20.00", created.TotalPrice)
	}
	if created.ID == "" {
		t.Error("booking was not assigned an ID")
	}
	if len(repo.bookings) != 1 {
		t.Fatalf("expected 1 persisted booking, got %d", len(repo.bookings))
	}
	if len(events) != 1 || events[0].ID != created.ID {
		t.Errorf("expected one confirmed-booking event for %s", created.ID)
	}
}

func TestEngineCreateBookingUnknownCourt(t *testing.T) {
	engine, _ := newTestEngine()
	req := validRequest()
	req.CourtID = "court-404"

	if _, err := engine.CreateBooking(context.Background(), req); err != ErrCourtNotFound {
		t.Fatalf("got %v, want ErrCourtNotFound", err)
	}
}

func TestEngineCreateBookingSlotAlreadyTaken(t *testing.T) {
	engine, _ := newTestEngine()

	if _, err := engine.CreateBooking(context.Background(), validRequest()); err != nil {
		t.Fatalf("first booking failed: %v", err)
	}

	second := validRequest()
	second.UserID = "user-2"
	_, err := engine.CreateBooking(context.Background(), second)
	r := AsRejection(err)
	if r == nil || r.Reason != ReasonSlotTaken {
		t.Fatalf("got %v, want %s", err, ReasonSlotTaken)
	}
}

func TestEngineCreateBookingLosesCommitRace(t *testing.T) {
	engine, repo := newTestEngine()

	// The winner lands after this request's validation snapshot but before
	// its commit; the in-transaction re-check must catch it.
	repo.beforeCommit = func() {
		repo.bookings = append(repo.bookings, models.Booking{
			ID: "winner", CourtID: "court-1", UserID: "user-9", Date: testDate,
			Start: 600, End: 660, Status: models.BookingConfirmed,
		})
	}

	_, err := engine.CreateBooking(context.Background(), validRequest())
	r := AsRejection(err)
	if r == nil || r.Reason != ReasonSlotTaken {
		t.Fatalf("got %v, want %s", err, ReasonSlotTaken)
	}
	if len(repo.bookings) != 1 {
		t.Fatalf("losing request must not persist, have %d bookings", len(repo.bookings))
	}
}

func TestEngineGetAvailableSlots(t *testing.T) {
	engine, repo := newTestEngine()
	repo.bookings = append(repo.bookings, models.Booking{
		ID: "b1", CourtID: "court-1", UserID: "user-9", Date: testDate,
		Start: 840, End: 900, Status: models.BookingConfirmed,
	})

	slots, err := engine.GetAvailableSlots(context.Background(), "court-1", testDate, 60)
	if err != nil {
		t.Fatalf("GetAvailableSlots failed: %v", err)
	}
	if len(slots) != 13 {
		t.Fatalf("expected 13 slots, got %d", len(slots))
	}
	for _, s := range slots {
		if s.Start == 840 {
			t.Error("booked slot leaked into availability")
		}
		if s.Price != 20.00 {
			t.Errorf("slot %s priced %.2f, want 20.00", s.StartClock, s.Price)
		}
	}
}

func TestEngineGetAvailableSlotsDurationPolicy(t *testing.T) {
	engine, _ := newTestEngine()

	_, err := engine.GetAvailableSlots(context.Background(), "court-1", testDate, 30)
	r := AsRejection(err)
	if r == nil || r.Reason != ReasonDurationOutOfRange {
		t.Fatalf("got %v, want %s", err, ReasonDurationOutOfRange)
	}
}

func TestEngineCancelBooking(t *testing.T) {
	engine, repo := newTestEngine()
	created, err := engine.CreateBooking(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("CreateBooking failed: %v", err)
	}

	cancelled, err := engine.CancelBooking(context.Background(), created.ID, created.UserID)
	if err != nil {
		t.Fatalf("CancelBooking failed: %v", err)
	}
	if cancelled.Status != models.BookingCancelled {
		t.Errorf("status = %s, want cancelled", cancelled.Status)
	}
	if repo.bookings[0].Status != models.BookingCancelled {
		t.Error("cancellation not persisted")
	}
}

func TestEngineCancelBookingDeadline(t *testing.T) {
	engine, _ := newTestEngine()
	created, err := engine.CreateBooking(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("CreateBooking failed: %v", err)
	}

	// Move the clock to one hour before start; the 24-hour deadline has passed.
	engine.Now = func() time.Time {
		return time.Date(2026, 9, 7, 9, 0, 0, 0, time.Local)
	}
	_, err = engine.CancelBooking(context.Background(), created.ID, created.UserID)
	r := AsRejection(err)
	if r == nil || r.Reason != ReasonCancellationDeadline {
		t.Fatalf("got %v, want %s", err, ReasonCancellationDeadline)
	}
}

func TestEngineCancelBookingWrongUser(t *testing.T) {
	engine, _ := newTestEngine()
	created, err := engine.CreateBooking(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("CreateBooking failed: %v", err)
	}

	if _, err := engine.CancelBooking(context.Background(), created.ID, "someone-else"); err != ErrBookingNotFound {
		t.Fatalf("got %v, want ErrBookingNotFound", err)
	}
}

func TestEngineFreedSlotBecomesAvailable(t *testing.T) {
	engine, _ := newTestEngine()
	created, err := engine.CreateBooking(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("CreateBooking failed: %v", err)
	}
	if _, err := engine.CancelBooking(context.Background(), created.ID, created.UserID); err != nil {
		t.Fatalf("CancelBooking failed: %v", err)
	}

	slots, err := engine.GetAvailableSlots(context.Background(), "court-1", testDate, 60)
	if err != nil {
		t.Fatalf("GetAvailableSlots failed: %v", err)
	}
	for _, s := range slots {
		if s.Start == 600 {
			return
		}
	}
	t.Error("slot freed by cancellation is still unavailable")
}
