package main

import (
	"context"
	"errors"
	"net/http"

	"github.com/spf13/cobra"

	"studentfin/internal/analytics"
	"studentfin/internal/auth"
	"studentfin/internal/backend"
	"studentfin/internal/cli"
	apphttp "studentfin/internal/http"
	applog "studentfin/internal/log"
	"studentfin/internal/services"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return err
	}
	res, err := backend.NewFactory(logger.WithComponent(applog.ComponentBackend).Logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		return err
	}

	loc := cfg.Location()
	clock := services.ClockIn(loc)
	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.JWTExpiry)

	srv := apphttp.NewServer(apphttp.Options{
		Addr:            ":" + cfg.Port,
		Version:         version,
		Backend:         cfg.DataBackend,
		Environment:     cfg.Environment,
		CORSOrigins:     cfg.CORSOrigins,
		RateLimitPerMin: cfg.RateLimitPerMin,
		Location:        loc,
		Logger:          logger.WithComponent(applog.ComponentHTTP),
		Clock:           clock,
	}, res.Store, issuer, apphttp.Services{
		Auth:       services.NewAuthService(res.Store, issuer, clock),
		Categories: services.NewCategoryService(res.Store, res.Publisher, clock),
		Expenses:   services.NewExpenseService(res.Store, res.Publisher, clock),
		Incomes:    services.NewIncomeService(res.Store, res.Publisher, clock),
		Budgets:    services.NewBudgetService(res.Store, res.Publisher, clock),
		Goals:      services.NewGoalService(res.Store, res.Publisher, clock),
		Analytics:  analytics.NewEngine(clock),
	})

	shutdownCtx, done := cli.GracefulShutdown(logger, cfg.ShutdownTimeout, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", applog.FieldError, err)
		}
		if err := res.Cleanup(); err != nil {
			logger.Error("Backend cleanup error", applog.FieldError, err)
		}
	})

	logger.Info("Starting studentfin server",
		applog.FieldOperation, applog.OpStartup,
		"port", cfg.Port,
		"backend", cfg.DataBackend,
		"environment", cfg.Environment,
		"timezone", loc.String())

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		_ = res.Cleanup()
		return err
	}

	cli.WaitForShutdown(shutdownCtx, done)
	logger.Info("Server stopped gracefully", applog.FieldOperation, applog.OpShutdown)
	return nil
}
