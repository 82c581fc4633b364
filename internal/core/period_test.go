package core

import (
	"testing"
	"time"
)

func TestDailyWindow(t *testing.T) {
	now := time.Date(2024, 12, 18, 15, 30, 0, 0, time.UTC)
	w := DailyWindow{}.Window(now)

	wantStart := time.Date(2024, 12, 18, 0, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2024, 12, 18, 23, 59, 59, int(999*time.Millisecond), time.UTC)
	if !w.Start.Equal(wantStart) || !w.End.Equal(wantEnd) {
		t.Errorf("DailyWindow = [%v, %v], want [%v, %v]", w.Start, w.End, wantStart, wantEnd)
	}
}

func TestWeeklyWindow(t *testing.T) {
	tests := []struct {
		name      string
		now       time.Time
		wantStart time.Time
	}{
		{
			name:      "wednesday",
			now:       time.Date(2024, 12, 18, 10, 0, 0, 0, time.UTC),
			wantStart: time.Date(2024, 12, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "sunday starts the week",
			now:       time.Date(2024, 12, 15, 0, 0, 0, 0, time.UTC),
			wantStart: time.Date(2024, 12, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "saturday across month end",
			now:       time.Date(2024, 11, 2, 22, 0, 0, 0, time.UTC),
			wantStart: time.Date(2024, 10, 27, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := WeeklyWindow{}.Window(tt.now)
			if !w.Start.Equal(tt.wantStart) {
				t.Errorf("start = %v, want %v", w.Start, tt.wantStart)
			}
			wantEnd := tt.wantStart.AddDate(0, 0, 7).Add(-time.Millisecond)
			if !w.End.Equal(wantEnd) {
				t.Errorf("end = %v, want %v", w.End, wantEnd)
			}
			if w.End.Weekday() != time.Saturday {
				t.Errorf("week should end on Saturday, got %v", w.End.Weekday())
			}
		})
	}
}

func TestMonthlyWindow(t *testing.T) {
	tests := []struct {
		name    string
		now     time.Time
		wantEnd time.Time
	}{
		{"december", time.Date(2024, 12, 18, 0, 0, 0, 0, time.UTC), time.Date(2024, 12, 31, 23, 59, 59, int(999*time.Millisecond), time.UTC)},
		{"leap february", time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC), time.Date(2024, 2, 29, 23, 59, 59, int(999*time.Millisecond), time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := MonthlyWindow{}.Window(tt.now)
			if w.Start.Day() != 1 {
				t.Errorf("start day = %d, want 1", w.Start.Day())
			}
			if !w.End.Equal(tt.wantEnd) {
				t.Errorf("end = %v, want %v", w.End, tt.wantEnd)
			}
		})
	}
}

func TestPreviousMonthWindow(t *testing.T) {
	w := PreviousMonthWindow(time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC))
	if !w.Start.Equal(time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("start = %v", w.Start)
	}
	if !w.Contains(time.Date(2024, 12, 31, 23, 59, 0, 0, time.UTC)) {
		t.Errorf("window should contain the last minute of December")
	}
	if w.Contains(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("window should not contain January")
	}
}

func TestGetWindowResolver(t *testing.T) {
	tests := []struct {
		period  Frequency
		wantErr bool
	}{
		{Daily, false},
		{Weekly, false},
		{Monthly, false},
		{Yearly, true},
		{"hourly", true},
	}
	for _, tt := range tests {
		t.Run(string(tt.period), func(t *testing.T) {
			_, err := GetWindowResolver(tt.period)
			if (err != nil) != tt.wantErr {
				t.Errorf("GetWindowResolver(%q) error = %v, wantErr %v", tt.period, err, tt.wantErr)
			}
		})
	}
}

func TestDaysInMonth(t *testing.T) {
	if got := DaysInMonth(time.Date(2024, 12, 5, 0, 0, 0, 0, time.UTC)); got != 31 {
		t.Errorf("December = %d, want 31", got)
	}
	if got := DaysInMonth(time.Date(2023, 2, 5, 0, 0, 0, 0, time.UTC)); got != 28 {
		t.Errorf("February 2023 = %d, want 28", got)
	}
}
