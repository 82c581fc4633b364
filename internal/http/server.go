package http

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"
	"sync"
	"time"

	"github.com/rs/cors"

	"studentfin/internal/analytics"
	"studentfin/internal/auth"
	applog "studentfin/internal/log"
	"studentfin/internal/middleware/ratelimit"
	"studentfin/internal/middleware/security"
	"studentfin/internal/middleware/trace"
	"studentfin/internal/services"
	"studentfin/internal/storage"
)

// Services are the operations the routes dispatch to.
type Services struct {
	Auth       *services.AuthService
	Categories *services.CategoryService
	Expenses   *services.ExpenseService
	Incomes    *services.IncomeService
	Budgets    *services.BudgetService
	Goals      *services.GoalService
	Analytics  *analytics.Engine
}

// Options configures a Server.
type Options struct {
	Addr            string
	Version         string
	Backend         string
	Environment     string
	CORSOrigins     []string
	RateLimitPerMin int
	Location        *time.Location
	Logger          *applog.Logger
	Clock           func() time.Time
}

type Server struct {
	http.Server

	store  storage.Store
	issuer *auth.Issuer
	svc    Services

	loc          *time.Location
	now          func() time.Time
	version      string
	backend      string
	environment  string
	exposeErrors bool

	logger      *applog.Logger
	sl          *applog.StructuredLogger
	rateLimiter *ratelimit.Limiter
	detector    *security.Detector

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server.
func NewServer(opts Options, store storage.Store, issuer *auth.Issuer, svc Services) *Server {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = applog.FromContext(context.Background())
	}
	if opts.Version == "" {
		opts.Version = "1.0.0"
	}

	s := &Server{
		store:        store,
		issuer:       issuer,
		svc:          svc,
		loc:          opts.Location,
		now:          opts.Clock,
		version:      opts.Version,
		backend:      opts.Backend,
		environment:  opts.Environment,
		exposeErrors: opts.Environment == "development",
		logger:       opts.Logger,
		sl:           applog.NewStructuredLogger(opts.Logger),
		rateLimiter:  ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitPerMin}),
		detector:     security.NewDetector(),
	}

	s.Server = http.Server{
		Addr:              opts.Addr,
		Handler:           s.middleware(s.routes(), opts.CORSOrigins),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	protect := auth.Middleware(s.issuer, s.store, s.authError)
	private := func(h http.HandlerFunc) http.Handler { return protect(h) }

	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /api/health", s.handleHealth)

	mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.Handle("GET /api/auth/me", private(s.handleMe))

	mux.Handle("GET /api/categories", private(s.handleListCategories))
	mux.Handle("POST /api/categories", private(s.handleCreateCategory))
	mux.Handle("GET /api/categories/{id}", private(s.handleGetCategory))
	mux.Handle("PUT /api/categories/{id}", private(s.handleUpdateCategory))
	mux.Handle("DELETE /api/categories/{id}", private(s.handleDeleteCategory))

	mux.Handle("GET /api/expenses/stats/summary", private(s.handleExpenseStats))
	mux.Handle("GET /api/expenses", private(s.handleListExpenses))
	mux.Handle("POST /api/expenses", private(s.handleCreateExpense))
	mux.Handle("GET /api/expenses/{id}", private(s.handleGetExpense))
	mux.Handle("PUT /api/expenses/{id}", private(s.handleUpdateExpense))
	mux.Handle("DELETE /api/expenses/{id}", private(s.handleDeleteExpense))

	mux.Handle("GET /api/incomes/stats/summary", private(s.handleIncomeStats))
	mux.Handle("GET /api/incomes", private(s.handleListIncomes))
	mux.Handle("POST /api/incomes", private(s.handleCreateIncome))
	mux.Handle("GET /api/incomes/{id}", private(s.handleGetIncome))
	mux.Handle("PUT /api/incomes/{id}", private(s.handleUpdateIncome))
	mux.Handle("DELETE /api/incomes/{id}", private(s.handleDeleteIncome))

	mux.Handle("GET /api/budgets/current/status", private(s.handleBudgetStatus))
	mux.Handle("GET /api/budgets", private(s.handleListBudgets))
	mux.Handle("POST /api/budgets", private(s.handleCreateBudget))
	mux.Handle("GET /api/budgets/{id}", private(s.handleGetBudget))
	mux.Handle("PUT /api/budgets/{id}", private(s.handleUpdateBudget))
	mux.Handle("DELETE /api/budgets/{id}", private(s.handleDeleteBudget))

	mux.Handle("GET /api/goals", private(s.handleListGoals))
	mux.Handle("POST /api/goals", private(s.handleCreateGoal))
	mux.Handle("GET /api/goals/{id}", private(s.handleGetGoal))
	mux.Handle("PUT /api/goals/{id}", private(s.handleUpdateGoal))
	mux.Handle("PATCH /api/goals/{id}/progress", private(s.handleGoalProgress))
	mux.Handle("DELETE /api/goals/{id}", private(s.handleDeleteGoal))

	mux.Handle("GET /api/dashboard/summary", private(s.handleDashboardSummary))
	mux.Handle("GET /api/dashboard/burn-rate", private(s.handleBurnRate))
	mux.Handle("GET /api/dashboard/trends", private(s.handleTrends))
	mux.Handle("GET /api/dashboard/recent-transactions", private(s.handleRecentTransactions))
	mux.Handle("GET /api/dashboard/health-score", private(s.handleHealthScore))

	// Anything else, including a known path with another method.
	mux.HandleFunc("/", s.handleNotFound)
	return mux
}

// middleware wraps h, outermost first: trace, panic recovery, security
// headers and probe detection, CORS, rate limiting.
func (s *Server) middleware(h http.Handler, origins []string) http.Handler {
	h = security.NoStore(h)
	h = s.rateLimiter.Middleware(s.detector.ExtractClientIP, s.rateLimited)(h)
	h = cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", trace.HeaderRequestID},
		ExposedHeaders:   []string{trace.HeaderRequestID, "Retry-After"},
		AllowCredentials: true,
		MaxAge:           600,
	}).Handler(h)
	h = s.detector.Middleware(h)
	h = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(h)
	h = s.recoverer(h)
	h = trace.NewMiddleware(s.logger, s.detector.ExtractClientIP).Middleware(h)
	return h
}

func (s *Server) rateLimited(w http.ResponseWriter, r *http.Request) {
	applog.FromContext(r.Context()).WithComponent(applog.ComponentRateLimit).WarnContext(r.Context(), "Rate limit exceeded",
		applog.FieldClientIP, s.detector.ExtractClientIP(r),
		applog.FieldPath, r.URL.Path)
	TooManyRequestsError().Write(w)
}

// recoverer turns a handler panic into the 500 envelope.
func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			applog.FromContext(r.Context()).ErrorContext(r.Context(), "Handler panic",
				applog.FieldError, fmt.Sprint(rec),
				applog.FieldPath, r.URL.Path,
				"stack", string(debug.Stack()))
			ServerError(fmt.Sprint(rec), s.exposeErrors).Write(w)
		}()
		next.ServeHTTP(w, r)
	})
}

// Shutdown stops the rate limiter and gracefully shuts the server down.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
