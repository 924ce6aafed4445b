package calendar

import (
	"testing"
	"time"

	"github.com/mtolzdor/schedule-app/internal/repository"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestMonth(t *testing.T) {
	tests := []struct {
		name      string
		in        time.Time
		wantStart time.Time
		wantEnd   time.Time
	}{
		{"march 2024", date(2024, time.March, 15), date(2024, time.March, 1), date(2024, time.March, 31)},
		{"leap february", date(2024, time.February, 10), date(2024, time.February, 1), date(2024, time.February, 29)},
		{"plain february", date(2023, time.February, 10), date(2023, time.February, 1), date(2023, time.February, 28)},
		{"december wraps year", date(2024, time.December, 31), date(2024, time.December, 1), date(2024, time.December, 31)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := Month(tt.in)
			if !start.Equal(tt.wantStart) || !end.Equal(tt.wantEnd) {
				t.Errorf("Month(%v) = (%v, %v), want (%v, %v)", tt.in, start, end, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestWeek(t *testing.T) {
	tests := []struct {
		name      string
		in        time.Time
		wantStart time.Time
		wantEnd   time.Time
	}{
		// 2024-03-05 is a Tuesday
		{"midweek", date(2024, time.March, 5), date(2024, time.March, 3), date(2024, time.March, 9)},
		{"sunday is its own week start", date(2024, time.March, 3), date(2024, time.March, 3), date(2024, time.March, 9)},
		{"saturday closes the week", date(2024, time.March, 9), date(2024, time.March, 3), date(2024, time.March, 9)},
		{"week crossing month boundary", date(2024, time.March, 1), date(2024, time.February, 25), date(2024, time.March, 2)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := Week(tt.in)
			if !start.Equal(tt.wantStart) || !end.Equal(tt.wantEnd) {
				t.Errorf("Week(%v) = (%v, %v), want (%v, %v)", tt.in, start, end, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestDays(t *testing.T) {
	days := Days(date(2024, time.March, 1), date(2024, time.March, 31))
	if len(days) != 31 {
		t.Fatalf("expected 31 days, got %d", len(days))
	}
	if !days[0].Equal(date(2024, time.March, 1)) || !days[30].Equal(date(2024, time.March, 31)) {
		t.Errorf("day range = %v .. %v", days[0], days[30])
	}

	single := Days(date(2024, time.March, 5), date(2024, time.March, 5))
	if len(single) != 1 {
		t.Errorf("single-day range length = %d, want 1", len(single))
	}
}

func TestColumn(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want int
	}{
		{"sunday", date(2024, time.March, 3), 0},
		{"tuesday", date(2024, time.March, 5), 2},
		{"saturday", date(2024, time.March, 9), 6},
		// March 2024 starts on a Friday, so the month grid indents by 5
		{"first of march 2024", date(2024, time.March, 1), 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := (Cell{Date: tt.in}).Column(); got != tt.want {
				t.Errorf("Column(%v) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestProject(t *testing.T) {
	// A shift running 2024-03-05 22:00 through 2024-03-07 06:00
	multiDay := &repository.Shift{
		ID:        "s1",
		GroupID:   "g1",
		StartDate: time.Date(2024, time.March, 5, 22, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, time.March, 7, 6, 0, 0, 0, time.UTC),
	}
	sameDay := &repository.Shift{
		ID:        "s2",
		GroupID:   "g1",
		StartDate: time.Date(2024, time.March, 5, 8, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, time.March, 5, 16, 0, 0, 0, time.UTC),
	}

	start, end := Month(date(2024, time.March, 15))
	cells := Project(Days(start, end), []*repository.Shift{multiDay, sameDay})

	if len(cells) != 31 {
		t.Fatalf("expected 31 cells, got %d", len(cells))
	}

	t.Run("shift lands only on its start day", func(t *testing.T) {
		for _, cell := range cells {
			day := cell.Date.Day()
			switch day {
			case 5:
				if len(cell.Shifts) != 2 {
					t.Errorf("march 5: expected 2 shifts, got %d", len(cell.Shifts))
				}
			default:
				// In particular the 6th and 7th stay empty even though
				// the multi-day shift spans them.
				if len(cell.Shifts) != 0 {
					t.Errorf("march %d: expected no shifts, got %d", day, len(cell.Shifts))
				}
			}
		}
	})

	t.Run("empty shift list yields empty cells", func(t *testing.T) {
		empty := Project(Days(start, end), nil)
		for _, cell := range empty {
			if len(cell.Shifts) != 0 {
				t.Errorf("%v: expected empty cell", cell.Date)
			}
		}
	})
}

func TestSameDay(t *testing.T) {
	a := time.Date(2024, time.March, 5, 23, 59, 0, 0, time.UTC)
	b := time.Date(2024, time.March, 5, 0, 1, 0, 0, time.UTC)
	if !SameDay(a, b) {
		t.Error("times on the same date should match regardless of clock")
	}
	if SameDay(a, a.Add(2*time.Minute)) {
		t.Error("midnight rollover should not match")
	}
}
