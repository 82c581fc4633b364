// Package firestore implements storage.Store on Google Cloud Firestore.
//
// Every entity lives in its own top-level collection keyed by id, with an
// ownerId field used by the list queries. Uniqueness rules are checked with a
// query before the write and are therefore best effort.
package firestore

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"studentfin/internal/core"
	"studentfin/internal/storage"
)

const (
	usersCollection      = "users"
	categoriesCollection = "categories"
	expensesCollection   = "expenses"
	incomesCollection    = "incomes"
	budgetsCollection    = "budgets"
	goalsCollection      = "goals"
	recurringCollection  = "recurringExpenses"
)

// Store implements storage.Store using Firestore.
type Store struct {
	client *firestore.Client
}

var _ storage.Store = (*Store)(nil)

// NewStore connects to the project. An empty credentialsFile falls back to
// application default credentials.
func NewStore(ctx context.Context, projectID, credentialsFile string) (*Store, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("create firestore client: %w", err)
	}
	return &Store{client: client}, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	iter := s.client.Collection(usersCollection).Limit(1).Documents(ctx)
	defer iter.Stop()
	if _, err := iter.Next(); err != nil && !errors.Is(err, iterator.Done) {
		return fmt.Errorf("ping firestore: %w", err)
	}
	return nil
}

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

// get loads one document into a fresh T.
func get[T any](ctx context.Context, s *Store, collection, id string) (*T, error) {
	doc, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("get %s %s: %w", collection, id, core.ErrNotFound)
		}
		return nil, fmt.Errorf("get %s %s: %w", collection, id, err)
	}
	var v T
	if err := doc.DataTo(&v); err != nil {
		return nil, fmt.Errorf("decode %s %s: %w", collection, id, err)
	}
	return &v, nil
}

// all runs q and decodes every document.
func all[T any](ctx context.Context, q firestore.Query) ([]*T, error) {
	docs, err := q.Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	out := make([]*T, 0, len(docs))
	for _, doc := range docs {
		var v T
		if err := doc.DataTo(&v); err != nil {
			return nil, fmt.Errorf("decode %s: %w", doc.Ref.ID, err)
		}
		out = append(out, &v)
	}
	return out, nil
}

func (s *Store) set(ctx context.Context, collection, id string, v any) error {
	if _, err := s.client.Collection(collection).Doc(id).Set(ctx, v); err != nil {
		return fmt.Errorf("save %s %s: %w", collection, id, err)
	}
	return nil
}

// replace overwrites an existing document, failing with ErrNotFound when it
// is absent.
func (s *Store) replace(ctx context.Context, collection, id string, v any) error {
	ref := s.client.Collection(collection).Doc(id)
	if _, err := ref.Get(ctx); err != nil {
		if isNotFound(err) {
			return fmt.Errorf("update %s %s: %w", collection, id, core.ErrNotFound)
		}
		return fmt.Errorf("update %s %s: %w", collection, id, err)
	}
	return s.set(ctx, collection, id, v)
}

func (s *Store) remove(ctx context.Context, collection, id string) error {
	ref := s.client.Collection(collection).Doc(id)
	if _, err := ref.Delete(ctx, firestore.Exists); err != nil {
		if isNotFound(err) {
			return fmt.Errorf("delete %s %s: %w", collection, id, core.ErrNotFound)
		}
		return fmt.Errorf("delete %s %s: %w", collection, id, err)
	}
	return nil
}

func (s *Store) owned(collection, ownerID string) firestore.Query {
	return s.client.Collection(collection).Where("ownerId", "==", ownerID)
}

// categoryNames maps the owner's category ids to names for joins.
func (s *Store) categoryNames(ctx context.Context, ownerID string) (map[string]string, error) {
	cats, err := all[core.Category](ctx, s.owned(categoriesCollection, ownerID))
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(cats))
	for _, c := range cats {
		names[c.ID] = c.Name
	}
	return names, nil
}

func (s *Store) categoryName(ctx context.Context, id string) string {
	c, err := get[core.Category](ctx, s, categoriesCollection, id)
	if err != nil {
		return ""
	}
	return c.Name
}

// Users

func (s *Store) CreateUser(ctx context.Context, u *core.User) error {
	existing, err := all[core.User](ctx, s.client.Collection(usersCollection).Where("email", "==", u.Email).Limit(1))
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	if len(existing) > 0 {
		return fmt.Errorf("create user: %w", core.ErrConflict)
	}
	return s.set(ctx, usersCollection, u.ID, u)
}

func (s *Store) GetUser(ctx context.Context, id string) (*core.User, error) {
	return get[core.User](ctx, s, usersCollection, id)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*core.User, error) {
	users, err := all[core.User](ctx, s.client.Collection(usersCollection).Where("email", "==", email).Limit(1))
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("get user by email %s: %w", email, core.ErrNotFound)
	}
	return users[0], nil
}

// Categories

func (s *Store) categoryTaken(ctx context.Context, c *core.Category) (bool, error) {
	existing, err := s.FindCategory(ctx, c.OwnerID, c.Name, c.Kind)
	if errors.Is(err, core.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return existing.ID != c.ID, nil
}

func (s *Store) CreateCategory(ctx context.Context, c *core.Category) error {
	taken, err := s.categoryTaken(ctx, c)
	if err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	if taken {
		return fmt.Errorf("create category: %w", core.ErrConflict)
	}
	return s.set(ctx, categoriesCollection, c.ID, c)
}

func (s *Store) GetCategory(ctx context.Context, id string) (*core.Category, error) {
	return get[core.Category](ctx, s, categoriesCollection, id)
}

func (s *Store) FindCategory(ctx context.Context, ownerID, name string, kind core.CategoryKind) (*core.Category, error) {
	q := s.owned(categoriesCollection, ownerID).Where("name", "==", name).Where("kind", "==", string(kind)).Limit(1)
	cats, err := all[core.Category](ctx, q)
	if err != nil {
		return nil, fmt.Errorf("find category: %w", err)
	}
	if len(cats) == 0 {
		return nil, fmt.Errorf("find category %s: %w", name, core.ErrNotFound)
	}
	return cats[0], nil
}

func (s *Store) ListCategories(ctx context.Context, ownerID string, kind core.CategoryKind) ([]*core.Category, error) {
	q := s.owned(categoriesCollection, ownerID)
	if kind != "" {
		q = q.Where("kind", "==", string(kind))
	}
	return all[core.Category](ctx, q.OrderBy("createdAt", firestore.Desc))
}

func (s *Store) UpdateCategory(ctx context.Context, c *core.Category) error {
	taken, err := s.categoryTaken(ctx, c)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	if taken {
		return fmt.Errorf("update category: %w", core.ErrConflict)
	}
	return s.replace(ctx, categoriesCollection, c.ID, c)
}

// DeleteCategory removes the category with its budgets and recurring
// expenses in one transaction.
func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	ref := s.client.Collection(categoriesCollection).Doc(id)
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(ref); err != nil {
			return err
		}
		var dependents []*firestore.DocumentRef
		for _, collection := range []string{budgetsCollection, recurringCollection} {
			q := s.client.Collection(collection).Where("categoryId", "==", id).Select()
			docs, err := tx.Documents(q).GetAll()
			if err != nil {
				return err
			}
			for _, doc := range docs {
				dependents = append(dependents, doc.Ref)
			}
		}
		for _, dep := range dependents {
			if err := tx.Delete(dep); err != nil {
				return err
			}
		}
		return tx.Delete(ref)
	})
	if err != nil {
		if isNotFound(err) {
			return fmt.Errorf("delete category %s: %w", id, core.ErrNotFound)
		}
		return fmt.Errorf("delete category %s: %w", id, err)
	}
	return nil
}

// transactionQuery applies a filter. Firestore needs the range field to be
// ordered first, so ordering is by date only here. The query carries no
// limit; callers break ties in memory and then truncate.
func (s *Store) transactionQuery(collection, ownerID string, f storage.TransactionFilter) firestore.Query {
	q := s.owned(collection, ownerID)
	if f.CategoryID != "" {
		q = q.Where("categoryId", "==", f.CategoryID)
	}
	if f.From != nil {
		q = q.Where("date", ">=", *f.From)
	}
	if f.To != nil {
		q = q.Where("date", "<=", *f.To)
	}
	return q.OrderBy("date", firestore.Desc)
}

func (s *Store) countByCategory(ctx context.Context, collection, ownerID, categoryID string) (int, error) {
	docs, err := s.owned(collection, ownerID).Where("categoryId", "==", categoryID).Select().Documents(ctx).GetAll()
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", collection, err)
	}
	return len(docs), nil
}

// Expenses

func (s *Store) CreateExpense(ctx context.Context, e *core.Expense) error {
	return s.set(ctx, expensesCollection, e.ID, e)
}

func (s *Store) GetExpense(ctx context.Context, id string) (*core.Expense, error) {
	e, err := get[core.Expense](ctx, s, expensesCollection, id)
	if err != nil {
		return nil, err
	}
	e.CategoryName = s.categoryName(ctx, e.CategoryID)
	return e, nil
}

func (s *Store) ListExpenses(ctx context.Context, ownerID string, f storage.TransactionFilter) ([]*core.Expense, error) {
	list, err := all[core.Expense](ctx, s.transactionQuery(expensesCollection, ownerID, f))
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	names, err := s.categoryNames(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	for _, e := range list {
		e.CategoryName = names[e.CategoryID]
	}
	storage.SortNewestFirst(list, func(e *core.Expense) storage.TransactionKey {
		return storage.TransactionKey{Date: e.Date, CreatedAt: e.CreatedAt, ID: e.ID}
	})
	return storage.ApplyLimit(list, f.Limit), nil
}

func (s *Store) CountExpensesByCategory(ctx context.Context, ownerID, categoryID string) (int, error) {
	return s.countByCategory(ctx, expensesCollection, ownerID, categoryID)
}

func (s *Store) UpdateExpense(ctx context.Context, e *core.Expense) error {
	return s.replace(ctx, expensesCollection, e.ID, e)
}

func (s *Store) DeleteExpense(ctx context.Context, id string) error {
	return s.remove(ctx, expensesCollection, id)
}

// Incomes

func (s *Store) CreateIncome(ctx context.Context, i *core.Income) error {
	return s.set(ctx, incomesCollection, i.ID, i)
}

func (s *Store) GetIncome(ctx context.Context, id string) (*core.Income, error) {
	i, err := get[core.Income](ctx, s, incomesCollection, id)
	if err != nil {
		return nil, err
	}
	i.CategoryName = s.categoryName(ctx, i.CategoryID)
	return i, nil
}

func (s *Store) ListIncomes(ctx context.Context, ownerID string, f storage.TransactionFilter) ([]*core.Income, error) {
	list, err := all[core.Income](ctx, s.transactionQuery(incomesCollection, ownerID, f))
	if err != nil {
		return nil, fmt.Errorf("list incomes: %w", err)
	}
	names, err := s.categoryNames(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list incomes: %w", err)
	}
	for _, i := range list {
		i.CategoryName = names[i.CategoryID]
	}
	storage.SortNewestFirst(list, func(i *core.Income) storage.TransactionKey {
		return storage.TransactionKey{Date: i.Date, CreatedAt: i.CreatedAt, ID: i.ID}
	})
	return storage.ApplyLimit(list, f.Limit), nil
}

func (s *Store) CountIncomesByCategory(ctx context.Context, ownerID, categoryID string) (int, error) {
	return s.countByCategory(ctx, incomesCollection, ownerID, categoryID)
}

func (s *Store) UpdateIncome(ctx context.Context, i *core.Income) error {
	return s.replace(ctx, incomesCollection, i.ID, i)
}

func (s *Store) DeleteIncome(ctx context.Context, id string) error {
	return s.remove(ctx, incomesCollection, id)
}

// Budgets

func (s *Store) budgetTaken(ctx context.Context, b *core.Budget) (bool, error) {
	existing, err := s.FindBudget(ctx, b.OwnerID, b.CategoryID, b.Period)
	if errors.Is(err, core.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return existing.ID != b.ID, nil
}

func (s *Store) CreateBudget(ctx context.Context, b *core.Budget) error {
	taken, err := s.budgetTaken(ctx, b)
	if err != nil {
		return fmt.Errorf("create budget: %w", err)
	}
	if taken {
		return fmt.Errorf("create budget: %w", core.ErrConflict)
	}
	return s.set(ctx, budgetsCollection, b.ID, b)
}

func (s *Store) GetBudget(ctx context.Context, id string) (*core.Budget, error) {
	b, err := get[core.Budget](ctx, s, budgetsCollection, id)
	if err != nil {
		return nil, err
	}
	b.CategoryName = s.categoryName(ctx, b.CategoryID)
	return b, nil
}

func (s *Store) FindBudget(ctx context.Context, ownerID, categoryID string, period core.Frequency) (*core.Budget, error) {
	q := s.owned(budgetsCollection, ownerID).Where("categoryId", "==", categoryID).Where("period", "==", string(period)).Limit(1)
	budgets, err := all[core.Budget](ctx, q)
	if err != nil {
		return nil, fmt.Errorf("find budget: %w", err)
	}
	if len(budgets) == 0 {
		return nil, fmt.Errorf("find budget %s: %w", categoryID, core.ErrNotFound)
	}
	budgets[0].CategoryName = s.categoryName(ctx, categoryID)
	return budgets[0], nil
}

func (s *Store) ListBudgets(ctx context.Context, ownerID string, period core.Frequency) ([]*core.Budget, error) {
	q := s.owned(budgetsCollection, ownerID)
	if period != "" {
		q = q.Where("period", "==", string(period))
	}
	list, err := all[core.Budget](ctx, q.OrderBy("createdAt", firestore.Desc))
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	names, err := s.categoryNames(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	for _, b := range list {
		b.CategoryName = names[b.CategoryID]
	}
	return list, nil
}

func (s *Store) UpdateBudget(ctx context.Context, b *core.Budget) error {
	taken, err := s.budgetTaken(ctx, b)
	if err != nil {
		return fmt.Errorf("update budget: %w", err)
	}
	if taken {
		return fmt.Errorf("update budget: %w", core.ErrConflict)
	}
	return s.replace(ctx, budgetsCollection, b.ID, b)
}

func (s *Store) DeleteBudget(ctx context.Context, id string) error {
	return s.remove(ctx, budgetsCollection, id)
}

// Goals

func (s *Store) CreateGoal(ctx context.Context, g *core.Goal) error {
	return s.set(ctx, goalsCollection, g.ID, g)
}

func (s *Store) GetGoal(ctx context.Context, id string) (*core.Goal, error) {
	return get[core.Goal](ctx, s, goalsCollection, id)
}

func (s *Store) ListGoals(ctx context.Context, ownerID string, f storage.GoalFilter) ([]*core.Goal, error) {
	q := s.owned(goalsCollection, ownerID)
	if f.Completed != nil {
		q = q.Where("isCompleted", "==", *f.Completed)
	}
	return all[core.Goal](ctx, q.OrderBy("targetDate", firestore.Asc))
}

func (s *Store) UpdateGoal(ctx context.Context, g *core.Goal) error {
	return s.replace(ctx, goalsCollection, g.ID, g)
}

func (s *Store) DeleteGoal(ctx context.Context, id string) error {
	return s.remove(ctx, goalsCollection, id)
}

// Recurring expenses

func (s *Store) CreateRecurringExpense(ctx context.Context, r *core.RecurringExpense) error {
	return s.set(ctx, recurringCollection, r.ID, r)
}

func (s *Store) ListRecurringExpenses(ctx context.Context, ownerID string) ([]*core.RecurringExpense, error) {
	return all[core.RecurringExpense](ctx, s.owned(recurringCollection, ownerID).OrderBy("startDate", firestore.Asc))
}

// DeleteOwnerData removes the owner's documents with a bulk writer. It is
// not atomic across collections.
func (s *Store) DeleteOwnerData(ctx context.Context, ownerID string) error {
	bw := s.client.BulkWriter(ctx)
	for _, collection := range []string{
		recurringCollection, budgetsCollection, goalsCollection,
		expensesCollection, incomesCollection, categoriesCollection,
	} {
		docs, err := s.owned(collection, ownerID).Select().Documents(ctx).GetAll()
		if err != nil {
			bw.End()
			return fmt.Errorf("list %s: %w", collection, err)
		}
		for _, doc := range docs {
			if _, err := bw.Delete(doc.Ref); err != nil {
				bw.End()
				return fmt.Errorf("delete %s %s: %w", collection, doc.Ref.ID, err)
			}
		}
	}
	bw.End()
	return nil
}
