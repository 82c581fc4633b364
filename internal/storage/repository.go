package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"studentfin/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteRepository implements Store on a local SQLite database.
type SQLiteRepository struct {
	db *sql.DB
}

var _ Store = (*SQLiteRepository)(nil)

func dsn(dbPath string) string {
	return dbPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func toMillis(t time.Time) int64   { return t.UTC().UnixMilli() }
func fromMillis(v int64) time.Time { return time.UnixMilli(v).UTC() }

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// mapWriteErr turns driver errors into core kinds.
func mapWriteErr(op string, err error) error {
	if isUniqueViolation(err) {
		return fmt.Errorf("%s: %w", op, core.ErrConflict)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func mapReadErr(op, id string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", op, id, core.ErrNotFound)
	}
	return fmt.Errorf("%s %s: %w", op, id, err)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func execAffecting(ctx context.Context, db execer, op, id, query string, args ...any) error {
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return mapWriteErr(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", op, id, core.ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// Users

const userColumns = `id, name, email, password_hash, currency, created_at, updated_at`

func scanUser(s rowScanner) (*core.User, error) {
	var u core.User
	var created, updated int64
	if err := s.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Currency, &created, &updated); err != nil {
		return nil, err
	}
	u.CreatedAt, u.UpdatedAt = fromMillis(created), fromMillis(updated)
	return &u, nil
}

func (r *SQLiteRepository) CreateUser(ctx context.Context, u *core.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Name, u.Email, u.PasswordHash, u.Currency, toMillis(u.CreatedAt), toMillis(u.UpdatedAt))
	if err != nil {
		return mapWriteErr("create user", err)
	}
	slog.DebugContext(ctx, "User saved to SQLite", "id", u.ID)
	return nil
}

func (r *SQLiteRepository) GetUser(ctx context.Context, id string) (*core.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	if err != nil {
		return nil, mapReadErr("get user", id, err)
	}
	return u, nil
}

func (r *SQLiteRepository) GetUserByEmail(ctx context.Context, email string) (*core.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email))
	if err != nil {
		return nil, mapReadErr("get user by email", email, err)
	}
	return u, nil
}

// Categories

const categoryColumns = `id, owner_id, name, kind, created_at, updated_at`

func scanCategory(s rowScanner) (*core.Category, error) {
	var c core.Category
	var created, updated int64
	if err := s.Scan(&c.ID, &c.OwnerID, &c.Name, &c.Kind, &created, &updated); err != nil {
		return nil, err
	}
	c.CreatedAt, c.UpdatedAt = fromMillis(created), fromMillis(updated)
	return &c, nil
}

func (r *SQLiteRepository) CreateCategory(ctx context.Context, c *core.Category) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (`+categoryColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.OwnerID, c.Name, c.Kind, toMillis(c.CreatedAt), toMillis(c.UpdatedAt))
	if err != nil {
		return mapWriteErr("create category", err)
	}
	return nil
}

func (r *SQLiteRepository) GetCategory(ctx context.Context, id string) (*core.Category, error) {
	c, err := scanCategory(r.db.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = ?`, id))
	if err != nil {
		return nil, mapReadErr("get category", id, err)
	}
	return c, nil
}

func (r *SQLiteRepository) FindCategory(ctx context.Context, ownerID, name string, kind core.CategoryKind) (*core.Category, error) {
	c, err := scanCategory(r.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE owner_id = ? AND name = ? AND kind = ?`,
		ownerID, name, kind))
	if err != nil {
		return nil, mapReadErr("find category", name, err)
	}
	return c, nil
}

func (r *SQLiteRepository) ListCategories(ctx context.Context, ownerID string, kind core.CategoryKind) ([]*core.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE owner_id = ?`
	args := []any{ownerID}
	if kind != "" {
		query += ` AND kind = ?`
		args = append(args, kind)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	out := make([]*core.Category, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) UpdateCategory(ctx context.Context, c *core.Category) error {
	return execAffecting(ctx, r.db, "update category", c.ID,
		`UPDATE categories SET name = ?, kind = ?, updated_at = ? WHERE id = ?`,
		c.Name, c.Kind, toMillis(c.UpdatedAt), c.ID)
}

// DeleteCategory removes the category together with the budgets and
// recurring expenses that point at it.
func (r *SQLiteRepository) DeleteCategory(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"budgets", "recurring_expenses"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE category_id = ?`, id); err != nil {
			return fmt.Errorf("delete %s: %w", table, err)
		}
	}
	if err := execAffecting(ctx, tx, "delete category", id, `DELETE FROM categories WHERE id = ?`, id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Expenses

const expenseSelect = `SELECT e.id, e.owner_id, e.category_id, COALESCE(c.name, ''), e.amount_cents, e.date, e.note, e.created_at, e.updated_at
FROM expenses e LEFT JOIN categories c ON c.id = e.category_id`

func scanExpense(s rowScanner) (*core.Expense, error) {
	var e core.Expense
	var date, created, updated int64
	if err := s.Scan(&e.ID, &e.OwnerID, &e.CategoryID, &e.CategoryName, &e.Amount.Cents, &date, &e.Note, &created, &updated); err != nil {
		return nil, err
	}
	e.Date, e.CreatedAt, e.UpdatedAt = fromMillis(date), fromMillis(created), fromMillis(updated)
	return &e, nil
}

// transactionWhere renders a filter against a table aliased as alias.
func transactionWhere(alias, ownerID string, f TransactionFilter) (string, []any) {
	clauses := []string{alias + ".owner_id = ?"}
	args := []any{ownerID}
	if f.CategoryID != "" {
		clauses = append(clauses, alias+".category_id = ?")
		args = append(args, f.CategoryID)
	}
	if f.From != nil {
		clauses = append(clauses, alias+".date >= ?")
		args = append(args, toMillis(*f.From))
	}
	if f.To != nil {
		clauses = append(clauses, alias+".date <= ?")
		args = append(args, toMillis(*f.To))
	}
	query := ` WHERE ` + strings.Join(clauses, " AND ") +
		` ORDER BY ` + alias + `.date DESC, ` + alias + `.created_at DESC, ` + alias + `.id DESC`
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}
	return query, args
}

func (r *SQLiteRepository) CreateExpense(ctx context.Context, e *core.Expense) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (id, owner_id, category_id, amount_cents, date, note, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.OwnerID, e.CategoryID, e.Amount.Cents, toMillis(e.Date), e.Note, toMillis(e.CreatedAt), toMillis(e.UpdatedAt))
	if err != nil {
		return mapWriteErr("create expense", err)
	}
	slog.DebugContext(ctx, "Expense saved to SQLite",
		"id", e.ID,
		"amount_cents", e.Amount.Cents,
		"category_id", e.CategoryID)
	return nil
}

func (r *SQLiteRepository) GetExpense(ctx context.Context, id string) (*core.Expense, error) {
	e, err := scanExpense(r.db.QueryRowContext(ctx, expenseSelect+` WHERE e.id = ?`, id))
	if err != nil {
		return nil, mapReadErr("get expense", id, err)
	}
	return e, nil
}

func (r *SQLiteRepository) ListExpenses(ctx context.Context, ownerID string, f TransactionFilter) ([]*core.Expense, error) {
	where, args := transactionWhere("e", ownerID, f)
	rows, err := r.db.QueryContext(ctx, expenseSelect+where, args...)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	out := make([]*core.Expense, 0)
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) CountExpensesByCategory(ctx context.Context, ownerID, categoryID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM expenses WHERE owner_id = ? AND category_id = ?`, ownerID, categoryID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count expenses: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) UpdateExpense(ctx context.Context, e *core.Expense) error {
	return execAffecting(ctx, r.db, "update expense", e.ID,
		`UPDATE expenses SET category_id = ?, amount_cents = ?, date = ?, note = ?, updated_at = ? WHERE id = ?`,
		e.CategoryID, e.Amount.Cents, toMillis(e.Date), e.Note, toMillis(e.UpdatedAt), e.ID)
}

func (r *SQLiteRepository) DeleteExpense(ctx context.Context, id string) error {
	return execAffecting(ctx, r.db, "delete expense", id, `DELETE FROM expenses WHERE id = ?`, id)
}

// Incomes

const incomeSelect = `SELECT i.id, i.owner_id, i.category_id, COALESCE(c.name, ''), i.amount_cents, i.date, i.description, i.created_at, i.updated_at
FROM incomes i LEFT JOIN categories c ON c.id = i.category_id`

func scanIncome(s rowScanner) (*core.Income, error) {
	var i core.Income
	var date, created, updated int64
	if err := s.Scan(&i.ID, &i.OwnerID, &i.CategoryID, &i.CategoryName, &i.Amount.Cents, &date, &i.Description, &created, &updated); err != nil {
		return nil, err
	}
	i.Date, i.CreatedAt, i.UpdatedAt = fromMillis(date), fromMillis(created), fromMillis(updated)
	return &i, nil
}

func (r *SQLiteRepository) CreateIncome(ctx context.Context, i *core.Income) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO incomes (id, owner_id, category_id, amount_cents, date, description, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		i.ID, i.OwnerID, i.CategoryID, i.Amount.Cents, toMillis(i.Date), i.Description, toMillis(i.CreatedAt), toMillis(i.UpdatedAt))
	if err != nil {
		return mapWriteErr("create income", err)
	}
	return nil
}

func (r *SQLiteRepository) GetIncome(ctx context.Context, id string) (*core.Income, error) {
	i, err := scanIncome(r.db.QueryRowContext(ctx, incomeSelect+` WHERE i.id = ?`, id))
	if err != nil {
		return nil, mapReadErr("get income", id, err)
	}
	return i, nil
}

func (r *SQLiteRepository) ListIncomes(ctx context.Context, ownerID string, f TransactionFilter) ([]*core.Income, error) {
	where, args := transactionWhere("i", ownerID, f)
	rows, err := r.db.QueryContext(ctx, incomeSelect+where, args...)
	if err != nil {
		return nil, fmt.Errorf("list incomes: %w", err)
	}
	defer rows.Close()

	out := make([]*core.Income, 0)
	for rows.Next() {
		i, err := scanIncome(rows)
		if err != nil {
			return nil, fmt.Errorf("scan income: %w", err)
		}
		out = append(out, i)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) CountIncomesByCategory(ctx context.Context, ownerID, categoryID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM incomes WHERE owner_id = ? AND category_id = ?`, ownerID, categoryID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count incomes: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) UpdateIncome(ctx context.Context, i *core.Income) error {
	return execAffecting(ctx, r.db, "update income", i.ID,
		`UPDATE incomes SET category_id = ?, amount_cents = ?, date = ?, description = ?, updated_at = ? WHERE id = ?`,
		i.CategoryID, i.Amount.Cents, toMillis(i.Date), i.Description, toMillis(i.UpdatedAt), i.ID)
}

func (r *SQLiteRepository) DeleteIncome(ctx context.Context, id string) error {
	return execAffecting(ctx, r.db, "delete income", id, `DELETE FROM incomes WHERE id = ?`, id)
}

// Budgets

const budgetSelect = `SELECT b.id, b.owner_id, b.category_id, COALESCE(c.name, ''), b.limit_cents, b.period, b.created_at, b.updated_at
FROM budgets b LEFT JOIN categories c ON c.id = b.category_id`

func scanBudget(s rowScanner) (*core.Budget, error) {
	var b core.Budget
	var created, updated int64
	if err := s.Scan(&b.ID, &b.OwnerID, &b.CategoryID, &b.CategoryName, &b.Limit.Cents, &b.Period, &created, &updated); err != nil {
		return nil, err
	}
	b.CreatedAt, b.UpdatedAt = fromMillis(created), fromMillis(updated)
	return &b, nil
}

func (r *SQLiteRepository) CreateBudget(ctx context.Context, b *core.Budget) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO budgets (id, owner_id, category_id, limit_cents, period, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.OwnerID, b.CategoryID, b.Limit.Cents, b.Period, toMillis(b.CreatedAt), toMillis(b.UpdatedAt))
	if err != nil {
		return mapWriteErr("create budget", err)
	}
	return nil
}

func (r *SQLiteRepository) GetBudget(ctx context.Context, id string) (*core.Budget, error) {
	b, err := scanBudget(r.db.QueryRowContext(ctx, budgetSelect+` WHERE b.id = ?`, id))
	if err != nil {
		return nil, mapReadErr("get budget", id, err)
	}
	return b, nil
}

func (r *SQLiteRepository) FindBudget(ctx context.Context, ownerID, categoryID string, period core.Frequency) (*core.Budget, error) {
	b, err := scanBudget(r.db.QueryRowContext(ctx,
		budgetSelect+` WHERE b.owner_id = ? AND b.category_id = ? AND b.period = ?`, ownerID, categoryID, period))
	if err != nil {
		return nil, mapReadErr("find budget", categoryID, err)
	}
	return b, nil
}

func (r *SQLiteRepository) ListBudgets(ctx context.Context, ownerID string, period core.Frequency) ([]*core.Budget, error) {
	query := budgetSelect + ` WHERE b.owner_id = ?`
	args := []any{ownerID}
	if period != "" {
		query += ` AND b.period = ?`
		args = append(args, period)
	}
	query += ` ORDER BY b.created_at DESC, b.id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	out := make([]*core.Budget, 0)
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) UpdateBudget(ctx context.Context, b *core.Budget) error {
	return execAffecting(ctx, r.db, "update budget", b.ID,
		`UPDATE budgets SET category_id = ?, limit_cents = ?, period = ?, updated_at = ? WHERE id = ?`,
		b.CategoryID, b.Limit.Cents, b.Period, toMillis(b.UpdatedAt), b.ID)
}

func (r *SQLiteRepository) DeleteBudget(ctx context.Context, id string) error {
	return execAffecting(ctx, r.db, "delete budget", id, `DELETE FROM budgets WHERE id = ?`, id)
}

// Goals

const goalColumns = `id, owner_id, name, description, target_cents, current_cents, target_date, is_completed, created_at, updated_at`

func scanGoal(s rowScanner) (*core.Goal, error) {
	var g core.Goal
	var target, created, updated, completed int64
	if err := s.Scan(&g.ID, &g.OwnerID, &g.Name, &g.Description, &g.TargetAmount.Cents, &g.CurrentAmount.Cents,
		&target, &completed, &created, &updated); err != nil {
		return nil, err
	}
	g.TargetDate, g.CreatedAt, g.UpdatedAt = fromMillis(target), fromMillis(created), fromMillis(updated)
	g.IsCompleted = completed != 0
	return &g, nil
}

func (r *SQLiteRepository) CreateGoal(ctx context.Context, g *core.Goal) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO goals (`+goalColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.OwnerID, g.Name, g.Description, g.TargetAmount.Cents, g.CurrentAmount.Cents,
		toMillis(g.TargetDate), boolToInt(g.IsCompleted), toMillis(g.CreatedAt), toMillis(g.UpdatedAt))
	if err != nil {
		return mapWriteErr("create goal", err)
	}
	return nil
}

func (r *SQLiteRepository) GetGoal(ctx context.Context, id string) (*core.Goal, error) {
	g, err := scanGoal(r.db.QueryRowContext(ctx, `SELECT `+goalColumns+` FROM goals WHERE id = ?`, id))
	if err != nil {
		return nil, mapReadErr("get goal", id, err)
	}
	return g, nil
}

func (r *SQLiteRepository) ListGoals(ctx context.Context, ownerID string, f GoalFilter) ([]*core.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE owner_id = ?`
	args := []any{ownerID}
	if f.Completed != nil {
		query += ` AND is_completed = ?`
		args = append(args, boolToInt(*f.Completed))
	}
	query += ` ORDER BY target_date ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	out := make([]*core.Goal, 0)
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) UpdateGoal(ctx context.Context, g *core.Goal) error {
	return execAffecting(ctx, r.db, "update goal", g.ID,
		`UPDATE goals SET name = ?, description = ?, target_cents = ?, current_cents = ?, target_date = ?,
		 is_completed = ?, updated_at = ? WHERE id = ?`,
		g.Name, g.Description, g.TargetAmount.Cents, g.CurrentAmount.Cents, toMillis(g.TargetDate),
		boolToInt(g.IsCompleted), toMillis(g.UpdatedAt), g.ID)
}

func (r *SQLiteRepository) DeleteGoal(ctx context.Context, id string) error {
	return execAffecting(ctx, r.db, "delete goal", id, `DELETE FROM goals WHERE id = ?`, id)
}

// Recurring expenses

func (r *SQLiteRepository) CreateRecurringExpense(ctx context.Context, re *core.RecurringExpense) error {
	var end sql.NullInt64
	if re.EndDate != nil {
		end = sql.NullInt64{Int64: toMillis(*re.EndDate), Valid: true}
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO recurring_expenses (id, owner_id, category_id, amount_cents, frequency, start_date, end_date,
		 note, is_active, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		re.ID, re.OwnerID, re.CategoryID, re.Amount.Cents, re.Frequency, toMillis(re.StartDate), end,
		re.Note, boolToInt(re.IsActive), toMillis(re.CreatedAt), toMillis(re.UpdatedAt))
	if err != nil {
		return mapWriteErr("create recurring expense", err)
	}
	return nil
}

func (r *SQLiteRepository) ListRecurringExpenses(ctx context.Context, ownerID string) ([]*core.RecurringExpense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, owner_id, category_id, amount_cents, frequency, start_date, end_date, note, is_active, created_at, updated_at
		 FROM recurring_expenses WHERE owner_id = ? ORDER BY start_date ASC, id ASC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list recurring expenses: %w", err)
	}
	defer rows.Close()

	out := make([]*core.RecurringExpense, 0)
	for rows.Next() {
		var re core.RecurringExpense
		var start, created, updated, active int64
		var end sql.NullInt64
		if err := rows.Scan(&re.ID, &re.OwnerID, &re.CategoryID, &re.Amount.Cents, &re.Frequency, &start, &end,
			&re.Note, &active, &created, &updated); err != nil {
			return nil, fmt.Errorf("scan recurring expense: %w", err)
		}
		re.StartDate, re.CreatedAt, re.UpdatedAt = fromMillis(start), fromMillis(created), fromMillis(updated)
		if end.Valid {
			t := fromMillis(end.Int64)
			re.EndDate = &t
		}
		re.IsActive = active != 0
		out = append(out, &re)
	}
	return out, rows.Err()
}

// DeleteOwnerData removes the owner's records in dependency order inside a
// single transaction.
func (r *SQLiteRepository) DeleteOwnerData(ctx context.Context, ownerID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"recurring_expenses", "budgets", "goals", "expenses", "incomes", "categories"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE owner_id = ?`, ownerID); err != nil {
			return fmt.Errorf("delete %s: %w", table, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
