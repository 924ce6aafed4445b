// Package calendar projects shifts onto calendar day cells for month and
// week views. It is a pure function of (date range, shift list); no date
// filtering happens in the store.
package calendar

import (
	"time"

	"github.com/mtolzdor/schedule-app/internal/repository"
)

// Cell is one renderable calendar day with the shifts that land on it.
type Cell struct {
	Date   time.Time
	Shifts []*repository.Shift
}

// Column returns the day-of-week offset (0=Sunday..6=Saturday) used for
// grid column placement of the first cell in a month view.
func (c Cell) Column() int {
	return int(c.Date.Weekday())
}

// Month returns the first and last day of t's month.
func Month(t time.Time) (time.Time, time.Time) {
	year, month, _ := t.Date()
	start := time.Date(year, month, 1, 0, 0, 0, 0, t.Location())
	end := start.AddDate(0, 1, -1)
	return start, end
}

// Week returns the Sunday and Saturday bounding t's week.
func Week(t time.Time) (time.Time, time.Time) {
	year, month, day := t.Date()
	midnight := time.Date(year, month, day, 0, 0, 0, 0, t.Location())
	start := midnight.AddDate(0, 0, -int(midnight.Weekday()))
	end := start.AddDate(0, 0, 6)
	return start, end
}

// Days enumerates every calendar day from start through end inclusive.
func Days(start, end time.Time) []time.Time {
	var days []time.Time
	for d := startOfDay(start); !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// Project builds one cell per day. A shift lands only on the cell matching
// its start date; multi-day shifts are never split across cells, the end
// date plays no part in placement.
func Project(days []time.Time, shifts []*repository.Shift) []Cell {
	cells := make([]Cell, len(days))
	for i, day := range days {
		cell := Cell{Date: day}
		for _, shift := range shifts {
			if SameDay(shift.StartDate, day) {
				cell.Shifts = append(cell.Shifts, shift)
			}
		}
		cells[i] = cell
	}
	return cells
}

func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
