// This file implements the Strategy Pattern for period windows.
// Each budget cadence (daily, weekly, monthly) has its own resolver that
// turns "now" into the concrete [start, end] range expenses are matched
// against.

package core

import (
	"fmt"
	"time"
)

// Window is an inclusive time range with millisecond resolution at the end.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls inside the window, bounds included.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Days returns the number of calendar days the window spans.
func (w Window) Days() int {
	return int(w.End.Sub(w.Start).Hours()/24) + 1
}

// closeWindow builds a window ending one millisecond before next.
func closeWindow(start, next time.Time) Window {
	return Window{Start: start, End: next.Add(-time.Millisecond)}
}

// StartOfDay truncates t to midnight in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// StartOfMonth returns midnight of the first day of t's month.
func StartOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

// DaysInMonth returns the number of days in t's month.
func DaysInMonth(t time.Time) int {
	return StartOfMonth(t).AddDate(0, 1, -1).Day()
}

// MonthWindow returns the calendar month containing t.
func MonthWindow(t time.Time) Window {
	start := StartOfMonth(t)
	return closeWindow(start, start.AddDate(0, 1, 0))
}

// PreviousMonthWindow returns the calendar month before the one containing t.
func PreviousMonthWindow(t time.Time) Window {
	return MonthWindow(StartOfMonth(t).AddDate(0, -1, 0))
}

// WindowResolver is the strategy interface for period windows.
type WindowResolver interface {
	// Window returns the period containing now.
	Window(now time.Time) Window
}

// DailyWindow resolves to today, 00:00:00.000 to 23:59:59.999.
type DailyWindow struct{}

func (DailyWindow) Window(now time.Time) Window {
	start := StartOfDay(now)
	return closeWindow(start, start.AddDate(0, 0, 1))
}

// WeeklyWindow resolves to this week's Sunday through the following Saturday.
type WeeklyWindow struct{}

func (WeeklyWindow) Window(now time.Time) Window {
	start := StartOfDay(now).AddDate(0, 0, -int(now.Weekday()))
	return closeWindow(start, start.AddDate(0, 0, 7))
}

// MonthlyWindow resolves to the current calendar month.
type MonthlyWindow struct{}

func (MonthlyWindow) Window(now time.Time) Window {
	return MonthWindow(now)
}

// windowStrategies maps budget cadences to their resolvers.
var windowStrategies = map[Frequency]WindowResolver{
	Daily:   DailyWindow{},
	Weekly:  WeeklyWindow{},
	Monthly: MonthlyWindow{},
}

// GetWindowResolver returns the resolver for a budget cadence.
func GetWindowResolver(period Frequency) (WindowResolver, error) {
	resolver, ok := windowStrategies[period]
	if !ok {
		return nil, fmt.Errorf("unknown budget period: %s", period)
	}
	return resolver, nil
}

// ResolveWindow is a shorthand for GetWindowResolver(period).Window(now).
func ResolveWindow(period Frequency, now time.Time) (Window, error) {
	resolver, err := GetWindowResolver(period)
	if err != nil {
		return Window{}, err
	}
	return resolver.Window(now), nil
}
