package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"studentfin/internal/auth"
	"studentfin/internal/backend"
	applog "studentfin/internal/log"
	"studentfin/internal/seed"
	"studentfin/internal/services"
)

func seedCmd() *cobra.Command {
	var reset bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the demo student account",
		Long:  "Create the demo user " + seed.DemoEmail + " with categories, transactions, budgets and goals for the current month.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			log := logger.WithComponent(applog.ComponentSeed)

			backendCfg, err := backend.FromAppConfig(cfg)
			if err != nil {
				return err
			}
			res, err := backend.NewFactory(log.Logger).CreateBackend(ctx, backendCfg)
			if err != nil {
				return err
			}
			defer func() {
				if err := res.Cleanup(); err != nil {
					log.Error("Backend cleanup error", applog.FieldError, err)
				}
			}()

			clock := services.ClockIn(cfg.Location())
			issuer := auth.NewIssuer(cfg.JWTSecret, cfg.JWTExpiry)
			out, err := seed.Run(ctx, res.Store, seed.Services{
				Auth:       services.NewAuthService(res.Store, issuer, clock),
				Categories: services.NewCategoryService(res.Store, res.Publisher, clock),
				Expenses:   services.NewExpenseService(res.Store, res.Publisher, clock),
				Incomes:    services.NewIncomeService(res.Store, res.Publisher, clock),
				Budgets:    services.NewBudgetService(res.Store, res.Publisher, clock),
				Goals:      services.NewGoalService(res.Store, res.Publisher, clock),
			}, seed.Options{Reset: reset, Now: clock()})
			if err != nil {
				return err
			}

			log.Info("Demo data seeded",
				applog.FieldUserID, out.User.ID,
				"categories", out.Categories,
				"expenses", out.Expenses,
				"incomes", out.Incomes,
				"budgets", out.Budgets,
				"goals", out.Goals,
				"recurring", out.Recurring)
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %s (password %s)\n", seed.DemoEmail, seed.DemoPassword)
			return nil
		},
	}
	cmd.Flags().BoolVar(&reset, "reset", false, "delete the demo user's existing records first")
	return cmd
}
