package booking

import (
	"fmt"
	"regexp"
	"sync"
	"testing"
	"time"

	"domik/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBookingRepo struct {
	mu     sync.Mutex
	nextID uint
	rows   map[uint]*models.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{rows: make(map[uint]*models.Booking)}
}

func (r *fakeBookingRepo) Create(b *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	b.ID = r.nextID
	clone := *b
	r.rows[b.ID] = &clone
	return nil
}

func (r *fakeBookingRepo) GetByID(id uint) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.rows[id]
	if !ok {
		return nil, fmt.Errorf("booking %d not found", id)
	}
	clone := *b
	return &clone, nil
}

func (r *fakeBookingRepo) UpdateStatus(id uint, from, to models.BookingStatus, amount *float64) (int64, error) {
	if !models.CanTransition(from, to) {
		return 0, fmt.Errorf("illegal booking status transition %s -> %s", from, to)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.rows[id]
	if !ok || b.Status != from {
		return 0, nil
	}
	b.Status = to
	if amount != nil {
		b.Amount = *amount
	}
	return 1, nil
}

func (r *fakeBookingRepo) ConfirmedOverlapping(resourceID, excludeID uint, checkIn, checkOut time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.rows {
		if b.ResourceID != resourceID || b.ID == excludeID || b.Status != models.StatusConfirmed {
			continue
		}
		if b.CheckIn == nil {
			continue
		}
		end := b.CheckIn
		if b.CheckOut != nil {
			end = b.CheckOut
		}
		if !checkIn.After(*end) && !checkOut.Before(*b.CheckIn) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeBookingRepo) ConfirmedForResource(resourceID uint, from time.Time) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.rows {
		if b.ResourceID != resourceID || b.Status != models.StatusConfirmed {
			continue
		}
		if b.CheckOut != nil && b.CheckOut.Before(from) {
			continue
		}
		out = append(out, *b)
	}
	return out, nil
}

func (r *fakeBookingRepo) FutureConfirmedByUser(telegramID int64, after time.Time) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.rows {
		if b.TelegramID != telegramID || b.Status != models.StatusConfirmed {
			continue
		}
		if b.CheckOut == nil || !b.CheckOut.After(after) {
			continue
		}
		out = append(out, *b)
	}
	return out, nil
}

func (r *fakeBookingRepo) ListAll(page, perPage int) ([]models.Booking, error) { return nil, nil }

func (r *fakeBookingRepo) Delete(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rows, id)
	return nil
}

type fakeResourceRepo struct {
	resources map[uint]*models.Resource
}

func (r *fakeResourceRepo) GetByID(id uint) (*models.Resource, error) {
	res, ok := r.resources[id]
	if !ok {
		return nil, fmt.Errorf("resource %d not found", id)
	}
	return res, nil
}

func (r *fakeResourceRepo) CountEnabled() (int64, error)                       { return int64(len(r.resources)), nil }
func (r *fakeResourceRepo) ListEnabled(page, perPage int) ([]models.Resource, error) {
	return nil, nil
}
func (r *fakeResourceRepo) ListAll() ([]models.Resource, error)          { return nil, nil }
func (r *fakeResourceRepo) Create(res *models.Resource) error            { return nil }
func (r *fakeResourceRepo) Update(res *models.Resource) error            { return nil }
func (r *fakeResourceRepo) Delete(id uint) error                         { return nil }
func (r *fakeResourceRepo) Images(resourceID uint) ([]models.Image, error) { return nil, nil }
func (r *fakeResourceRepo) GetImage(id uint) (*models.Image, error)      { return nil, nil }
func (r *fakeResourceRepo) CreateImage(img *models.Image) error          { return nil }
func (r *fakeResourceRepo) DeleteImage(id uint) error                    { return nil }

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newTestFlow() (*DefaultBookingFlow, *fakeBookingRepo) {
	bookings := newFakeBookingRepo()
	resources := &fakeResourceRepo{resources: map[uint]*models.Resource{
		1: {ID: 1, Location: "Lakeside cabin", Price: 100},
	}}
	flow := NewDefaultBookingFlow(bookings, resources, NewSessionStore())
	flow.Now = func() time.Time { return testNow }
	return flow, bookings
}

func confirmedBooking(repo *fakeBookingRepo, userID int64, in, out time.Time) *models.Booking {
	b := &models.Booking{
		TelegramID: userID,
		ResourceID: 1,
		CheckIn:    &in,
		CheckOut:   &out,
		Status:     models.StatusConfirmed,
	}
	if err := repo.Create(b); err != nil {
		panic(err)
	}
	return b
}

func TestNights(t *testing.T) {
	assert.Equal(t, 2, Nights(day(2024, 6, 10), day(2024, 6, 12)))
	assert.Equal(t, 1, Nights(day(2024, 6, 10), day(2024, 6, 11)))
	assert.Equal(t, 31, Nights(day(2024, 6, 15), day(2024, 7, 16)))
}

func TestAmountMinor(t *testing.T) {
	assert.Equal(t, int64(20000), AmountMinor(2, 100))
	assert.Equal(t, int64(19998), AmountMinor(2, 99.99))
	assert.Equal(t, int64(0), AmountMinor(0, 100))
}

func TestBookedRangesShapes(t *testing.T) {
	flow, repo := newTestFlow()

	confirmedBooking(repo, 10, day(2024, 6, 10), day(2024, 6, 12))
	// Check-out never picked: blocks the check-in day only.
	open := day(2024, 6, 20)
	require.NoError(t, repo.Create(&models.Booking{
		TelegramID: 11, ResourceID: 1, CheckIn: &open, Status: models.StatusConfirmed,
	}))
	// Entirely in the past relative to testNow.
	confirmedBooking(repo, 12, day(2024, 5, 1), day(2024, 5, 3))

	ranges, err := flow.BookedRanges(1)
	require.NoError(t, err)
	require.Len(t, ranges, 2)

	byUser := map[int64]models.BookedRange{}
	for _, r := range ranges {
		byUser[r.TelegramID] = r
	}
	assert.Equal(t, day(2024, 6, 10), byUser[10].Start)
	assert.Equal(t, day(2024, 6, 12), byUser[10].End)
	assert.Equal(t, day(2024, 6, 20), byUser[11].Start)
	assert.Equal(t, day(2024, 6, 20), byUser[11].End)
}

func TestPickCheckOutRejectsBadOrder(t *testing.T) {
	flow, _ := newTestFlow()
	flow.StartSession(42, 1)

	require.NoError(t, flow.PickCheckIn(42, day(2024, 6, 10)))
	assert.ErrorIs(t, flow.PickCheckOut(42, day(2024, 6, 10)), ErrDateOrder)
	assert.ErrorIs(t, flow.PickCheckOut(42, day(2024, 6, 9)), ErrDateOrder)

	sess, err := flow.Session(42)
	require.NoError(t, err)
	assert.Nil(t, sess.CheckOut, "a rejected pick must not stick")
}

func TestPickCheckOutOverlapResetsSelection(t *testing.T) {
	flow, repo := newTestFlow()
	confirmedBooking(repo, 99, day(2024, 6, 11), day(2024, 6, 13))

	flow.StartSession(42, 1)
	require.NoError(t, flow.PickCheckIn(42, day(2024, 6, 10)))

	err := flow.PickCheckOut(42, day(2024, 6, 12))
	assert.ErrorIs(t, err, ErrRangeOverlap)

	sess, err := flow.Session(42)
	require.NoError(t, err)
	assert.Nil(t, sess.CheckIn, "overlap must clear the check-in so the user restarts")
	assert.Nil(t, sess.CheckOut)
}

func TestPickCheckOutOverlapWithOpenEndedBooking(t *testing.T) {
	flow, repo := newTestFlow()
	// Confirmed booking that never picked a check-out occupies its
	// check-in day for the commit-time re-check too.
	open := day(2024, 6, 11)
	require.NoError(t, repo.Create(&models.Booking{
		TelegramID: 99, ResourceID: 1, CheckIn: &open, Status: models.StatusConfirmed,
	}))

	flow.StartSession(42, 1)
	require.NoError(t, flow.PickCheckIn(42, day(2024, 6, 10)))
	assert.ErrorIs(t, flow.PickCheckOut(42, day(2024, 6, 12)), ErrRangeOverlap)
}

func TestPickCheckOutHappyPath(t *testing.T) {
	flow, _ := newTestFlow()
	flow.StartSession(42, 1)
	require.NoError(t, flow.PickCheckIn(42, day(2024, 6, 10)))
	require.NoError(t, flow.PickCheckOut(42, day(2024, 6, 12)))

	sess, err := flow.Session(42)
	require.NoError(t, err)
	require.NotNil(t, sess.CheckOut)
	assert.Equal(t, day(2024, 6, 12), *sess.CheckOut)
}

func TestConfirmSelection(t *testing.T) {
	flow, repo := newTestFlow()
	flow.StartSession(42, 1)
	require.NoError(t, flow.PickCheckIn(42, day(2024, 6, 10)))

	_, err := flow.ConfirmSelection(42)
	assert.ErrorIs(t, err, ErrSessionIncomplete)

	require.NoError(t, flow.PickCheckOut(42, day(2024, 6, 12)))
	b, err := flow.ConfirmSelection(42)
	require.NoError(t, err)

	assert.Equal(t, models.StatusWaitingPayment, b.Status)
	assert.Equal(t, int64(42), b.TelegramID)
	assert.Regexp(t, regexp.MustCompile(`^\d+-[0-9a-f]{6}$`), b.OrderRef)

	stored, err := repo.GetByID(b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusWaitingPayment, stored.Status)

	_, err = flow.Session(42)
	assert.ErrorIs(t, err, ErrSessionNotFound, "session must be gone once the booking row exists")
}

func createWaiting(t *testing.T, flow *DefaultBookingFlow, userID int64, in, out time.Time) *models.Booking {
	t.Helper()
	flow.StartSession(userID, 1)
	require.NoError(t, flow.PickCheckIn(userID, in))
	require.NoError(t, flow.PickCheckOut(userID, out))
	b, err := flow.ConfirmSelection(userID)
	require.NoError(t, err)
	return b
}

func TestPreAuthorize(t *testing.T) {
	flow, repo := newTestFlow()
	b := createWaiting(t, flow, 42, day(2024, 6, 10), day(2024, 6, 12))

	// 2 nights at 100 per night.
	assert.ErrorIs(t, flow.PreAuthorize(b.ID, 19999), ErrAmountMismatch)
	assert.NoError(t, flow.PreAuthorize(b.ID, 20000))

	// A competing booking got confirmed between invoice and checkout.
	rival := confirmedBooking(repo, 99, day(2024, 6, 11), day(2024, 6, 13))
	assert.ErrorIs(t, flow.PreAuthorize(b.ID, 20000), ErrRangeConflict)

	stored, err := repo.GetByID(b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConflict, stored.Status)

	// Once out of waiting_payment nothing may be charged.
	assert.ErrorIs(t, flow.PreAuthorize(b.ID, 20000), ErrNotPayable)
	assert.ErrorIs(t, flow.PreAuthorize(rival.ID, 20000), ErrNotPayable)
}

func TestPreAuthorizeMissingDatesMarksFailed(t *testing.T) {
	flow, repo := newTestFlow()
	require.NoError(t, repo.Create(&models.Booking{
		TelegramID: 42, ResourceID: 1, Status: models.StatusWaitingPayment,
	}))

	assert.ErrorIs(t, flow.PreAuthorize(1, 20000), ErrMissingDates)

	stored, err := repo.GetByID(1)
	require.NoError(t, err)
	assert.Equal(t, models.StatusFailed, stored.Status)
}

func TestFinalizeIsIdempotent(t *testing.T) {
	flow, repo := newTestFlow()
	b := createWaiting(t, flow, 42, day(2024, 6, 10), day(2024, 6, 12))

	first, newly, err := flow.Finalize(b.ID, 20000)
	require.NoError(t, err)
	assert.True(t, newly)
	assert.Equal(t, models.StatusConfirmed, first.Status)
	assert.Equal(t, 200.0, first.Amount)

	again, newly, err := flow.Finalize(b.ID, 20000)
	require.NoError(t, err)
	assert.False(t, newly, "a replayed payment must not look newly confirmed")
	assert.Equal(t, models.StatusConfirmed, again.Status)

	stored, err := repo.GetByID(b.ID)
	require.NoError(t, err)
	assert.Equal(t, 200.0, stored.Amount)
}

func TestCancelOnlyFutureConfirmed(t *testing.T) {
	flow, repo := newTestFlow()

	future := confirmedBooking(repo, 42, day(2024, 6, 10), day(2024, 6, 12))
	got, err := flow.Cancel(future.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, got.Status)

	// Check-in today: the stay already started.
	today := confirmedBooking(repo, 42, day(2024, 6, 1), day(2024, 6, 3))
	_, err = flow.Cancel(today.ID)
	assert.ErrorIs(t, err, ErrNotCancellable)

	pending := createWaiting(t, flow, 43, day(2024, 6, 20), day(2024, 6, 22))
	_, err = flow.Cancel(pending.ID)
	assert.ErrorIs(t, err, ErrNotCancellable)
}
