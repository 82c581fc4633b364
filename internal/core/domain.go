package core

import (
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	Daily   Frequency = "daily"
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
	Yearly  Frequency = "yearly"
)

const (
	KindIncome  CategoryKind = "income"
	KindExpense CategoryKind = "expense"
)

// Field limits.
const (
	MaxUserNameLen     = 100
	MinPasswordLen     = 6
	MaxCategoryNameLen = 50
	MaxNoteLen         = 500
	MaxGoalNameLen     = 100
)

type (
	Frequency    string
	CategoryKind string

	User struct {
		ID           string    `json:"id" firestore:"id"`
		Name         string    `json:"name" firestore:"name"`
		Email        string    `json:"email" firestore:"email"`
		PasswordHash string    `json:"-" firestore:"passwordHash"`
		Currency     string    `json:"currency" firestore:"currency"`
		CreatedAt    time.Time `json:"createdAt" firestore:"createdAt"`
		UpdatedAt    time.Time `json:"updatedAt" firestore:"updatedAt"`
	}

	Category struct {
		ID        string       `json:"id" firestore:"id"`
		OwnerID   string       `json:"ownerId" firestore:"ownerId"`
		Name      string       `json:"name" firestore:"name"`
		Kind      CategoryKind `json:"kind" firestore:"kind"`
		CreatedAt time.Time    `json:"createdAt" firestore:"createdAt"`
		UpdatedAt time.Time    `json:"updatedAt" firestore:"updatedAt"`
	}

	Expense struct {
		ID           string    `json:"id" firestore:"id"`
		OwnerID      string    `json:"ownerId" firestore:"ownerId"`
		CategoryID   string    `json:"categoryId" firestore:"categoryId"`
		CategoryName string    `json:"categoryName,omitempty" firestore:"-"`
		Amount       Money     `json:"amount" firestore:"amount"`
		Date         time.Time `json:"date" firestore:"date"`
		Note         string    `json:"note" firestore:"note"`
		CreatedAt    time.Time `json:"createdAt" firestore:"createdAt"`
		UpdatedAt    time.Time `json:"updatedAt" firestore:"updatedAt"`
	}

	Income struct {
		ID           string    `json:"id" firestore:"id"`
		OwnerID      string    `json:"ownerId" firestore:"ownerId"`
		CategoryID   string    `json:"categoryId" firestore:"categoryId"`
		CategoryName string    `json:"categoryName,omitempty" firestore:"-"`
		Amount       Money     `json:"amount" firestore:"amount"`
		Date         time.Time `json:"date" firestore:"date"`
		Description  string    `json:"description" firestore:"description"`
		CreatedAt    time.Time `json:"createdAt" firestore:"createdAt"`
		UpdatedAt    time.Time `json:"updatedAt" firestore:"updatedAt"`
	}

	Budget struct {
		ID           string    `json:"id" firestore:"id"`
		OwnerID      string    `json:"ownerId" firestore:"ownerId"`
		CategoryID   string    `json:"categoryId" firestore:"categoryId"`
		CategoryName string    `json:"categoryName,omitempty" firestore:"-"`
		Limit        Money     `json:"limit" firestore:"limit"`
		Period       Frequency `json:"period" firestore:"period"`
		CreatedAt    time.Time `json:"createdAt" firestore:"createdAt"`
		UpdatedAt    time.Time `json:"updatedAt" firestore:"updatedAt"`
	}

	Goal struct {
		ID            string    `json:"id" firestore:"id"`
		OwnerID       string    `json:"ownerId" firestore:"ownerId"`
		Name          string    `json:"name" firestore:"name"`
		Description   string    `json:"description" firestore:"description"`
		TargetAmount  Money     `json:"targetAmount" firestore:"targetAmount"`
		CurrentAmount Money     `json:"currentAmount" firestore:"currentAmount"`
		TargetDate    time.Time `json:"targetDate" firestore:"targetDate"`
		IsCompleted   bool      `json:"isCompleted" firestore:"isCompleted"`
		CreatedAt     time.Time `json:"createdAt" firestore:"createdAt"`
		UpdatedAt     time.Time `json:"updatedAt" firestore:"updatedAt"`
	}

	// RecurringExpense is stored and listed but never expanded into
	// concrete expenses.
	RecurringExpense struct {
		ID         string     `json:"id" firestore:"id"`
		OwnerID    string     `json:"ownerId" firestore:"ownerId"`
		CategoryID string     `json:"categoryId" firestore:"categoryId"`
		Amount     Money      `json:"amount" firestore:"amount"`
		Frequency  Frequency  `json:"frequency" firestore:"frequency"`
		StartDate  time.Time  `json:"startDate" firestore:"startDate"`
		EndDate    *time.Time `json:"endDate,omitempty" firestore:"endDate"`
		Note       string     `json:"note" firestore:"note"`
		IsActive   bool       `json:"isActive" firestore:"isActive"`
		CreatedAt  time.Time  `json:"createdAt" firestore:"createdAt"`
		UpdatedAt  time.Time  `json:"updatedAt" firestore:"updatedAt"`
	}
)

// Owned is implemented by every entity that belongs to a single user.
type Owned interface {
	Owner() string
}

func (c *Category) Owner() string         { return c.OwnerID }
func (e *Expense) Owner() string          { return e.OwnerID }
func (i *Income) Owner() string           { return i.OwnerID }
func (b *Budget) Owner() string           { return b.OwnerID }
func (g *Goal) Owner() string             { return g.OwnerID }
func (r *RecurringExpense) Owner() string { return r.OwnerID }

func (k CategoryKind) IsValid() bool {
	return k == KindIncome || k == KindExpense
}

// IsBudgetPeriod reports whether f can be used as a budget cadence.
func (f Frequency) IsBudgetPeriod() bool {
	_, ok := windowStrategies[f]
	return ok
}

func (f Frequency) IsValid() bool {
	switch f {
	case Daily, Weekly, Monthly, Yearly:
		return true
	}
	return false
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func tooLong(s string, max int) bool {
	return utf8.RuneCountInString(s) > max
}

func (u User) Validate() error {
	if strings.TrimSpace(u.Name) == "" || strings.TrimSpace(u.Email) == "" {
		return Validation("Please provide name, email and password")
	}
	if tooLong(u.Name, MaxUserNameLen) {
		return Validation("Name cannot be more than 100 characters")
	}
	if _, err := mail.ParseAddress(u.Email); err != nil {
		return Validation("Please provide a valid email")
	}
	return ValidateCurrency(u.Currency)
}

// ValidatePassword checks a plaintext password before hashing.
func ValidatePassword(password string) error {
	if password == "" {
		return Validation("Please provide name, email and password")
	}
	if len(password) < MinPasswordLen {
		return Validation("Password must be at least 6 characters")
	}
	return nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" || c.Kind == "" {
		return Validation("Please provide category name and kind")
	}
	if tooLong(c.Name, MaxCategoryNameLen) {
		return Validation("Category name cannot be more than 50 characters")
	}
	if !c.Kind.IsValid() {
		return ErrInvalidKind
	}
	return nil
}

func (e Expense) Validate() error {
	if strings.TrimSpace(e.CategoryID) == "" {
		return ErrEmptyCategory
	}
	if e.Amount.Cents < 1 {
		return ErrInvalidAmount
	}
	if e.Date.IsZero() {
		return ErrInvalidDate
	}
	if tooLong(e.Note, MaxNoteLen) {
		return Validation("Note cannot be more than 500 characters")
	}
	return nil
}

func (i Income) Validate() error {
	if strings.TrimSpace(i.CategoryID) == "" {
		return ErrEmptyCategory
	}
	if i.Amount.Cents < 0 {
		return ErrInvalidAmount
	}
	if i.Date.IsZero() {
		return ErrInvalidDate
	}
	if tooLong(i.Description, MaxNoteLen) {
		return Validation("Description cannot be more than 500 characters")
	}
	return nil
}

func (b Budget) Validate() error {
	if strings.TrimSpace(b.CategoryID) == "" || b.Limit.Cents == 0 || b.Period == "" {
		return Validation("Please provide category, limit and period")
	}
	if b.Limit.Cents < 0 {
		return ErrInvalidAmount
	}
	if !b.Period.IsBudgetPeriod() {
		return ErrInvalidPeriod
	}
	return nil
}

func (g Goal) Validate() error {
	if strings.TrimSpace(g.Name) == "" || g.TargetAmount.Cents == 0 || g.TargetDate.IsZero() {
		return Validation("Please provide goal name, target amount, and target date")
	}
	if tooLong(g.Name, MaxGoalNameLen) {
		return Validation("Goal name cannot be more than 100 characters")
	}
	if tooLong(g.Description, MaxNoteLen) {
		return Validation("Description cannot be more than 500 characters")
	}
	if g.TargetAmount.Cents < 100 {
		return Validation("Target amount must be at least 1")
	}
	if g.CurrentAmount.Cents < 0 {
		return Validation("Current amount cannot be negative")
	}
	return nil
}

func (re RecurringExpense) Validate() error {
	if strings.TrimSpace(re.CategoryID) == "" {
		return ErrEmptyCategory
	}
	if re.Amount.Cents < 1 {
		return ErrInvalidAmount
	}
	if !re.Frequency.IsValid() {
		return Validation("Frequency must be daily, weekly, monthly or yearly")
	}
	if re.StartDate.IsZero() {
		return Validation("invalid start date")
	}
	if re.EndDate != nil && re.EndDate.Before(re.StartDate) {
		return Validation("end date must be after start date")
	}
	if tooLong(re.Note, MaxNoteLen) {
		return Validation("Note cannot be more than 500 characters")
	}
	return nil
}
