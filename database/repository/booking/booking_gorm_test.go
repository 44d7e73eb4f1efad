package booking

import (
	"regexp"
	"testing"
	"time"

	"domik/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func newMockRepo(t *testing.T) (*GormBookingRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	return NewGormBookingRepo(gormDB), mock
}

func TestUpdateStatusGuardsOnCurrentStatus(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE `bookings` SET")).
		WithArgs(string(models.StatusConfirmed), 7, string(models.StatusWaitingPayment)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := repo.UpdateStatus(7, models.StatusWaitingPayment, models.StatusConfirmed, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusStampsAmount(t *testing.T) {
	repo, mock := newMockRepo(t)

	amount := 200.0
	mock.ExpectExec(regexp.QuoteMeta("UPDATE `bookings` SET")).
		WithArgs(amount, string(models.StatusConfirmed), 7, string(models.StatusWaitingPayment)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := repo.UpdateStatus(7, models.StatusWaitingPayment, models.StatusConfirmed, &amount)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusReportsLostRace(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE `bookings` SET")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	n, err := repo.UpdateStatus(7, models.StatusWaitingPayment, models.StatusConfirmed, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n, "a booking already out of waiting_payment must not be touched")
}

func TestUpdateStatusRejectsIllegalTransition(t *testing.T) {
	repo, mock := newMockRepo(t)

	// No SQL may be issued for a pair the transition table forbids.
	n, err := repo.UpdateStatus(7, models.StatusFailed, models.StatusConfirmed, nil)
	assert.ErrorIs(t, err, ErrIllegalTransition)
	assert.Equal(t, int64(0), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusRejectsReopeningCancelled(t *testing.T) {
	repo, mock := newMockRepo(t)

	n, err := repo.UpdateStatus(7, models.StatusCancelled, models.StatusWaitingPayment, nil)
	assert.ErrorIs(t, err, ErrIllegalTransition)
	assert.Equal(t, int64(0), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmedOverlapping(t *testing.T) {
	repo, mock := newMockRepo(t)

	in := time.Date(2024, 6, 11, 0, 0, 0, 0, time.UTC)
	out := time.Date(2024, 6, 13, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM `bookings`")).
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(1))

	overlap, err := repo.ConfirmedOverlapping(1, 99, in, out)
	require.NoError(t, err)
	assert.True(t, overlap)
}

func TestConfirmedOverlappingCountsOpenCheckOut(t *testing.T) {
	repo, mock := newMockRepo(t)

	in := time.Date(2024, 6, 11, 0, 0, 0, 0, time.UTC)
	out := time.Date(2024, 6, 13, 0, 0, 0, 0, time.UTC)

	// A NULL check-out must not drop the row out of the predicate.
	mock.ExpectQuery(regexp.QuoteMeta("COALESCE(check_out, check_in) >= ?")).
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(1))

	overlap, err := repo.ConfirmedOverlapping(1, 0, in, out)
	require.NoError(t, err)
	assert.True(t, overlap)
	assert.NoError(t, mock.ExpectationsWereMet())
}
