package booking

import (
	"testing"
	"time"

	"domik/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func juneView(stage SelectionStage, checkIn *time.Time) CalendarView {
	return CalendarView{
		Year:  2024,
		Month: time.June,
		Stage: stage,
		CheckIn: checkIn,
		Ranges: []models.BookedRange{
			{TelegramID: 1, Start: day(2024, 6, 10), End: day(2024, 6, 12)},
			{TelegramID: 2, Start: day(2024, 6, 20), End: day(2024, 6, 22)},
		},
		ViewerID:   1,
		ResourceID: 5,
		Page:       1,
		Today:      day(2024, 6, 5),
	}
}

// June 2024 starts on a Saturday; Monday-first that is column 5.
func juneCell(t *testing.T, rows [][]CalendarCell, dayNum int) CalendarCell {
	t.Helper()
	idx := 5 + dayNum - 1
	row := rows[2+idx/7]
	require.Greater(t, len(row), idx%7)
	return row[idx%7]
}

func TestRenderCalendarLayout(t *testing.T) {
	rows := RenderCalendar(juneView(StageCheckIn, nil))

	require.GreaterOrEqual(t, len(rows), 4)
	assert.Equal(t, "June 2024", rows[0][0].Label)
	require.Len(t, rows[1], 7)
	assert.Equal(t, "Mo", rows[1][0].Label)
	assert.Equal(t, "Su", rows[1][6].Label)

	footer := rows[len(rows)-1]
	require.Len(t, footer, 3)
	assert.Equal(t, "res:5:1", footer[0].Data)
	assert.Equal(t, "month:2024:5:check_in:1", footer[1].Data)
	assert.Equal(t, "month:2024:7:check_in:1", footer[2].Data)
}

func TestRenderCalendarClassification(t *testing.T) {
	rows := RenderCalendar(juneView(StageCheckIn, nil))

	past := juneCell(t, rows, 4)
	assert.Equal(t, markBlocked, past.Label)
	assert.Equal(t, noopData, past.Data)

	mine := juneCell(t, rows, 11)
	assert.Equal(t, markMine, mine.Label)
	assert.Equal(t, noopData, mine.Data)

	others := juneCell(t, rows, 21)
	assert.Equal(t, markOthers, others.Label)

	free := juneCell(t, rows, 15)
	assert.Equal(t, "15", free.Label)
	assert.Equal(t, "datepick:check_in:2024-06-15:1", free.Data)
}

func TestRenderCalendarCheckOutStage(t *testing.T) {
	checkIn := day(2024, 6, 15)
	rows := RenderCalendar(juneView(StageCheckOut, &checkIn))

	// Days at or before the check-in cannot be a check-out.
	assert.Equal(t, markBlocked, juneCell(t, rows, 15).Label)
	assert.Equal(t, markBlocked, juneCell(t, rows, 14).Label)

	next := juneCell(t, rows, 16)
	assert.Equal(t, "16", next.Label)
	assert.Equal(t, "datepick:check_out:2024-06-16:1", next.Data)

	// Occupancy markers outrank the stage constraint.
	assert.Equal(t, markOthers, juneCell(t, rows, 21).Label)
}

func TestRenderCalendarCheckOutStageWithoutCheckIn(t *testing.T) {
	rows := RenderCalendar(juneView(StageCheckOut, nil))
	assert.Equal(t, markBlocked, juneCell(t, rows, 15).Label)
	assert.Equal(t, markBlocked, juneCell(t, rows, 30).Label)
}

func TestRenderCalendarPadsTrailingWeek(t *testing.T) {
	rows := RenderCalendar(juneView(StageCheckIn, nil))
	for _, row := range rows[2 : len(rows)-1] {
		assert.Len(t, row, 7)
	}
}
