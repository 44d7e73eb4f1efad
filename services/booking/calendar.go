package booking

import (
	"fmt"
	"time"

	"domik/models"
)

// SelectionStage says which date the calendar is currently collecting.
type SelectionStage string

const (
	StageCheckIn  SelectionStage = "check_in"
	StageCheckOut SelectionStage = "check_out"
)

// CalendarCell is one inline button of the rendered grid: a visible
// label and a raw callback payload.
type CalendarCell struct {
	Label string
	Data  string
}

// noopData marks cells that only acknowledge the tap.
const noopData = "null"

var weekdayHeader = [7]string{"Mo", "Tu", "We", "Th", "Fr", "Sa", "Su"}

const (
	markBlocked = "—"
	markMine    = "🟩"
	markOthers  = "🟥"
)

// CalendarView pins everything the renderer needs to classify a day.
type CalendarView struct {
	Year  int
	Month time.Month
	Stage SelectionStage
	// CheckIn is the already-picked check-in, set during StageCheckOut.
	CheckIn *time.Time
	// Ranges are the occupied ranges of the resource, freshly resolved.
	Ranges []models.BookedRange
	// ViewerID distinguishes the viewer's own bookings on the grid.
	ViewerID int64
	// ResourceID and Page feed the back-navigation payload.
	ResourceID uint
	Page       int
	// Today caps the past; days before it are inert.
	Today time.Time
}

// RenderCalendar lays out one month as rows of cells: a title row, a
// weekday row, the day grid, and a navigation footer. Day cells carry
// datepick payloads; blocked days render as markers with no action.
func RenderCalendar(v CalendarView) [][]CalendarCell {
	first := time.Date(v.Year, v.Month, 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := first.AddDate(0, 1, -1).Day()

	rows := [][]CalendarCell{
		{{Label: fmt.Sprintf("%s %d", v.Month.String(), v.Year), Data: noopData}},
	}
	header := make([]CalendarCell, 7)
	for i, wd := range weekdayHeader {
		header[i] = CalendarCell{Label: wd, Data: noopData}
	}
	rows = append(rows, header)

	// Monday-first offset of the 1st.
	offset := (int(first.Weekday()) + 6) % 7
	week := make([]CalendarCell, 0, 7)
	for i := 0; i < offset; i++ {
		week = append(week, CalendarCell{Label: " ", Data: noopData})
	}

	for day := 1; day <= daysInMonth; day++ {
		date := time.Date(v.Year, v.Month, day, 0, 0, 0, 0, time.UTC)
		week = append(week, v.dayCell(date, day))
		if len(week) == 7 {
			rows = append(rows, week)
			week = make([]CalendarCell, 0, 7)
		}
	}
	if len(week) > 0 {
		for len(week) < 7 {
			week = append(week, CalendarCell{Label: " ", Data: noopData})
		}
		rows = append(rows, week)
	}

	prev := first.AddDate(0, -1, 0)
	next := first.AddDate(0, 1, 0)
	rows = append(rows, []CalendarCell{
		{Label: "↩️", Data: fmt.Sprintf("res:%d:%d", v.ResourceID, v.Page)},
		{Label: "<", Data: fmt.Sprintf("month:%d:%d:%s:%d", prev.Year(), int(prev.Month()), v.Stage, v.Page)},
		{Label: ">", Data: fmt.Sprintf("month:%d:%d:%s:%d", next.Year(), int(next.Month()), v.Stage, v.Page)},
	})
	return rows
}

// dayCell classifies a single day. Precedence: past, the viewer's own
// booking, someone else's booking, stage constraint, then selectable.
func (v CalendarView) dayCell(date time.Time, day int) CalendarCell {
	if date.Before(v.Today) {
		return CalendarCell{Label: markBlocked, Data: noopData}
	}
	for _, r := range v.Ranges {
		if !r.Contains(date) {
			continue
		}
		if r.TelegramID == v.ViewerID {
			return CalendarCell{Label: markMine, Data: noopData}
		}
		return CalendarCell{Label: markOthers, Data: noopData}
	}
	if v.Stage == StageCheckOut {
		// Check-out must land strictly after the picked check-in.
		if v.CheckIn == nil || !date.After(models.DateOnly(*v.CheckIn)) {
			return CalendarCell{Label: markBlocked, Data: noopData}
		}
	}
	return CalendarCell{
		Label: fmt.Sprintf("%d", day),
		Data:  fmt.Sprintf("datepick:%s:%s:%d", v.Stage, date.Format(dateLayout), v.Page),
	}
}
