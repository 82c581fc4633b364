package core

import (
	"math"
	"time"
)

// GoalProgress is the read-time view of a goal with its derived fields.
type GoalProgress struct {
	*Goal
	ProgressPercentage int `json:"progressPercentage"`
	DaysRemaining      int `json:"daysRemaining"`
}

// ProgressRatio returns current/target*100 without rounding.
func (g *Goal) ProgressRatio() float64 {
	if g.TargetAmount.Cents <= 0 {
		return 0
	}
	return float64(g.CurrentAmount.Cents) / float64(g.TargetAmount.Cents) * 100
}

// ProgressPercentage returns the progress rounded to a whole percent.
func (g *Goal) ProgressPercentage() int {
	return int(math.Round(g.ProgressRatio()))
}

// DaysRemaining returns the whole days left until the target date, never
// negative.
func (g *Goal) DaysRemaining(now time.Time) int {
	days := math.Ceil(g.TargetDate.Sub(now).Hours() / 24)
	if days < 0 {
		return 0
	}
	return int(days)
}

// ApplyAutoCompletion marks the goal completed once the target is reached.
// It never clears the flag.
func (g *Goal) ApplyAutoCompletion() {
	if g.CurrentAmount.Cents >= g.TargetAmount.Cents {
		g.IsCompleted = true
	}
}

// Progress wraps g with its derived fields as of now.
func (g *Goal) Progress(now time.Time) GoalProgress {
	return GoalProgress{
		Goal:               g,
		ProgressPercentage: g.ProgressPercentage(),
		DaysRemaining:      g.DaysRemaining(now),
	}
}
