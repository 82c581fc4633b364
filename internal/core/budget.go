package core

// AlertLevel buckets a budget by how much of its limit has been spent.
type AlertLevel string

const (
	AlertSafe     AlertLevel = "safe"
	AlertWarning  AlertLevel = "warning"
	AlertDanger   AlertLevel = "danger"
	AlertExceeded AlertLevel = "exceeded"
)

// Classify maps spent/limit to an alert level: exceeded at 100% or more,
// danger from 80%, warning from 50%, safe below. Compared in cents so the
// boundaries are exact.
func Classify(spent, limit Money) AlertLevel {
	if limit.Cents <= 0 {
		if spent.Cents > 0 {
			return AlertExceeded
		}
		return AlertSafe
	}
	s, l := spent.Cents*100, limit.Cents
	switch {
	case s >= 100*l:
		return AlertExceeded
	case s >= 80*l:
		return AlertDanger
	case s >= 50*l:
		return AlertWarning
	default:
		return AlertSafe
	}
}

// BudgetStatus is a budget evaluated against the expenses of its current
// window. It is recomputed on every read.
type BudgetStatus struct {
	Spent      Money      `json:"spent"`
	Remaining  Money      `json:"remaining"`
	Percentage float64    `json:"percentage"`
	AlertLevel AlertLevel `json:"alertLevel"`
	Window     Window     `json:"window"`
}

// EvaluateBudget derives the status of a budget from what was spent in window.
func EvaluateBudget(limit, spent Money, window Window) BudgetStatus {
	return BudgetStatus{
		Spent:      spent,
		Remaining:  limit.Sub(spent),
		Percentage: Percent(spent.Cents, limit.Cents),
		AlertLevel: Classify(spent, limit),
		Window:     window,
	}
}

// BudgetAlertCounts counts budgets per alert level.
type BudgetAlertCounts struct {
	Exceeded int `json:"exceeded"`
	Danger   int `json:"danger"`
	Warning  int `json:"warning"`
	Safe     int `json:"safe"`
}

func (c *BudgetAlertCounts) Add(level AlertLevel) {
	switch level {
	case AlertExceeded:
		c.Exceeded++
	case AlertDanger:
		c.Danger++
	case AlertWarning:
		c.Warning++
	default:
		c.Safe++
	}
}
