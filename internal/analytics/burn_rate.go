package analytics

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"studentfin/internal/core"
)

type BurnPeriod struct {
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	DaysElapsed   int       `json:"daysElapsed"`
	DaysRemaining int       `json:"daysRemaining"`
	TotalDays     int       `json:"totalDays"`
}

type Rates struct {
	Daily   core.Money `json:"daily"`
	Weekly  core.Money `json:"weekly"`
	Monthly core.Money `json:"monthly"`
}

// Runway is how many days the month's remaining balance lasts at the current
// daily burn. With no spending it is unlimited and Days is nil.
type Runway struct {
	Days      *int   `json:"days"`
	Unlimited bool   `json:"unlimited"`
	Label     string `json:"label"`
}

func unlimitedRunway() Runway {
	return Runway{Unlimited: true, Label: "Unlimited"}
}

func runwayOf(days int) Runway {
	return Runway{Days: &days, Label: fmt.Sprintf("%d days", days)}
}

type Projections struct {
	ProjectedMonthlySpend core.Money `json:"projectedMonthlySpend"`
	TotalIncome           core.Money `json:"totalIncome"`
	RemainingBalance      core.Money `json:"remainingBalance"`
	Runway                Runway     `json:"runway"`
}

type DailyPoint struct {
	Day    int        `json:"day"`
	Amount core.Money `json:"amount"`
}

type BurnRate struct {
	Period        BurnPeriod   `json:"period"`
	BurnRate      Rates        `json:"burnRate"`
	Projections   Projections  `json:"projections"`
	DailySpending []DailyPoint `json:"dailySpending"`
}

// BurnRate projects the current month's spending from the days elapsed.
func (e *Engine) BurnRate(ctx context.Context, src Source) (BurnRate, error) {
	now := e.now()
	month := core.MonthWindow(now)

	expenses, incomes, err := monthTotals(ctx, src, month)
	if err != nil {
		return BurnRate{}, fmt.Errorf("burn rate: %w", err)
	}

	daysElapsed := now.Day()
	totalDays := core.DaysInMonth(now)
	spent := sumExpenses(expenses)
	income := sumIncomes(incomes)
	remaining := income.Sub(spent)

	perDay := decimal.Zero
	if daysElapsed > 0 {
		perDay = spent.Decimal().Div(decimal.NewFromInt(int64(daysElapsed)))
	}
	daily := core.MoneyFromDecimal(perDay)

	runway := unlimitedRunway()
	if daily.Cents > 0 {
		runway = runwayOf(int(math.Floor(float64(remaining.Cents) / float64(daily.Cents))))
	}

	return BurnRate{
		Period: BurnPeriod{
			Start:         month.Start,
			End:           month.End,
			DaysElapsed:   daysElapsed,
			DaysRemaining: totalDays - daysElapsed,
			TotalDays:     totalDays,
		},
		BurnRate: Rates{
			Daily:   daily,
			Weekly:  core.MoneyFromDecimal(perDay.Mul(decimal.NewFromInt(7))),
			Monthly: spent,
		},
		Projections: Projections{
			ProjectedMonthlySpend: core.MoneyFromDecimal(perDay.Mul(decimal.NewFromInt(int64(totalDays)))),
			TotalIncome:           income,
			RemainingBalance:      remaining,
			Runway:                runway,
		},
		DailySpending: dailySeries(expenses, now.Location(), daysElapsed),
	}, nil
}

// dailySeries has one point per elapsed day, zero where nothing was spent.
func dailySeries(expenses []*core.Expense, loc *time.Location, days int) []DailyPoint {
	byDay := make(map[int]core.Money, days)
	for _, e := range expenses {
		d := e.Date.In(loc).Day()
		byDay[d] = byDay[d].Add(e.Amount)
	}
	out := make([]DailyPoint, days)
	for i := range out {
		out[i] = DailyPoint{Day: i + 1, Amount: byDay[i+1]}
	}
	return out
}
