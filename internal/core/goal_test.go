package core

import (
	"testing"
	"time"
)

func TestGoalDerivedFields(t *testing.T) {
	now := time.Date(2024, 12, 18, 12, 0, 0, 0, time.UTC)
	g := &Goal{
		Name:          "New Laptop",
		TargetAmount:  Money{Cents: 1000000},
		CurrentAmount: Money{Cents: 150000},
		TargetDate:    time.Date(2024, 12, 20, 0, 0, 0, 0, time.UTC),
	}
	if got := g.ProgressPercentage(); got != 15 {
		t.Errorf("progress = %d, want 15", got)
	}
	if got := g.DaysRemaining(now); got != 2 {
		t.Errorf("days remaining = %d, want 2", got)
	}

	g.TargetDate = now.AddDate(0, 0, -3)
	if got := g.DaysRemaining(now); got != 0 {
		t.Errorf("past target date should give 0, got %d", got)
	}
}

func TestApplyAutoCompletion(t *testing.T) {
	tests := []struct {
		name    string
		current int64
		want    bool
	}{
		{"below target", 999999, false},
		{"at target", 1000000, true},
		{"above target", 1200000, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := &Goal{TargetAmount: Money{Cents: 1000000}, CurrentAmount: Money{Cents: tt.current}}
			g.ApplyAutoCompletion()
			if g.IsCompleted != tt.want {
				t.Errorf("IsCompleted = %v, want %v", g.IsCompleted, tt.want)
			}
		})
	}
}

func TestValidateCurrency(t *testing.T) {
	for _, code := range SupportedCurrencies() {
		if err := ValidateCurrency(code); err != nil {
			t.Errorf("%s should be supported: %v", code, err)
		}
	}
	for _, code := range []string{"", "XXX1", "CHF"} {
		if err := ValidateCurrency(code); err == nil {
			t.Errorf("%q should be rejected", code)
		}
	}
	if NormalizeCurrency(" usd ") != "USD" || NormalizeCurrency("") != DefaultCurrency {
		t.Errorf("unexpected normalization")
	}
}
