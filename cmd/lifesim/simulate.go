package main

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/warp/lifesim/catalog"
	"github.com/warp/lifesim/config"
	"github.com/warp/lifesim/generic"
	"github.com/warp/lifesim/generic/store"
	"github.com/warp/lifesim/hiring"
	"github.com/warp/lifesim/session"
	"github.com/warp/lifesim/sim"
)

var (
	accent  = color.New(color.FgCyan, color.Bold)
	success = color.New(color.FgGreen)
	danger  = color.New(color.FgRed)
	warn    = color.New(color.FgYellow, color.Bold)
	neutral = color.New(color.FgHiWhite)
)

type simulateOptions struct {
	preset  string
	months  int
	savings float64
	debt    float64
	skip    bool
	apply   []string
	quiet   bool
}

// newSimulateCmd plays a game headless. Every month it resolves due job
// applications, takes any offer, prints the ledger for the fixed payments and
// commits the month.
func newSimulateCmd(cfg *config.Config) *cobra.Command {
	opts := simulateOptions{}
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Play N months headless and print each ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			return simulate(cmd.Context(), cmd.OutOrStdout(), cfg, opts)
		},
	}
	cmd.Flags().StringVar(&opts.preset, "preset", "default", "new-game preset")
	cmd.Flags().IntVar(&opts.months, "months", 12, "months to play")
	cmd.Flags().Float64Var(&opts.savings, "savings", 0, "monthly savings contribution")
	cmd.Flags().Float64Var(&opts.debt, "debt", 0, "monthly debt payment")
	cmd.Flags().BoolVar(&opts.skip, "skip", false, "skip the debt payment every month")
	cmd.Flags().StringSliceVar(&opts.apply, "apply", nil, "job titles to apply for in the first month")
	cmd.Flags().BoolVar(&opts.quiet, "quiet", false, "only print the final summary")
	cmd.Flags().Uint64Var(&cfg.Seed, "seed", cfg.Seed, "root seed (0 = wall clock)")
	return cmd
}

func simulate(ctx context.Context, out io.Writer, cfg *config.Config, opts simulateOptions) error {
	if opts.months < 1 {
		return fmt.Errorf("months must be at least 1")
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	engine := sim.NewEngine(catalog.Default(), sim.DefaultParams())
	saves := session.NewSaveManager(store.NewMemory(), logger)
	sess := session.NewRegistry(engine, saves, logger, cfg.Seed).Get("simulator")
	if _, err := sess.NewGame(ctx, opts.preset); err != nil {
		return err
	}

	for _, title := range opts.apply {
		if _, err := sess.ApplyForJob(title); err != nil {
			warn.Fprintf(out, "apply %s: %v\n", title, err)
		}
	}

	pay := sim.Payments{
		Savings: decimal.NewFromFloat(opts.savings),
		Debt:    decimal.NewFromFloat(opts.debt),
		Skip:    opts.skip,
	}
	for range opts.months {
		results, err := sess.OpenSettlement(ctx)
		if err != nil {
			logger.Warn("autosave failed", "err", err)
		}
		for _, r := range results {
			if r.Status != hiring.StatusAccepted {
				continue
			}
			if err := sess.AcceptJob(r.ApplicationID); err == nil {
				success.Fprintf(out, "Accepted %s at $%s/mo\n", r.Title, generic.FormatMoney(r.Job.BasePay))
			}
		}

		st, err := sess.State()
		if err != nil {
			return err
		}
		ledger, err := sess.BuildLedger(pay)
		if err != nil {
			return err
		}
		if !opts.quiet {
			printLedger(out, st, ledger)
		}

		outcome, err := sess.ProcessMonth(ctx, pay)
		if err != nil {
			logger.Warn("autosave failed", "err", err)
		}
		if !opts.quiet {
			printOutcome(out, outcome)
		}
	}

	st, err := sess.State()
	if err != nil {
		return err
	}
	printSummary(out, st)
	sum, err := sess.Loans(generic.Zero)
	if err != nil {
		return err
	}
	neutral.Fprintln(out, sum.String())
	return nil
}

// =============================================================================
// OUTPUT
// =============================================================================

func printLedger(out io.Writer, st *sim.State, l *generic.Ledger) {
	accent.Fprintf(out, "\n== %s | %s | %s ==\n", st.Date, st.Job.Title, st.City.Name)
	fmt.Fprintf(out, "%-4s %-34s %12s %12s\n", "#", "DESCRIPTION", "AMOUNT", "BALANCE")
	for _, line := range l.Lines {
		amount := fmt.Sprintf("%12s", generic.FormatMoney(line.Signed()))
		switch line.Kind {
		case generic.LineIncome:
			amount = success.Sprint(amount)
		case generic.LineExpense:
			amount = danger.Sprint(amount)
		}
		balance := fmt.Sprintf("%12s", generic.FormatMoney(line.RunningBalance))
		if line.RunningBalance.IsNegative() {
			balance = danger.Sprint(balance)
		}
		fmt.Fprintf(out, "%-4d %-34s %s %s\n", line.ID, line.Description, amount, balance)
	}
}

func printOutcome(out io.Writer, o sim.Outcome) {
	if o.AutoLoan.IsPositive() {
		warn.Fprintf(out, "Auto-loan: $%s\n", generic.FormatMoney(o.AutoLoan))
	}
	if o.DebtInterest.IsPositive() {
		fmt.Fprintf(out, "Debt interest: $%s\n", generic.FormatMoney(o.DebtInterest))
	}
	for _, v := range o.VehiclesSold {
		success.Fprintf(out, "Sold %s\n", v)
	}
	for _, w := range o.Warnings {
		warn.Fprintln(out, w)
	}
}

func printSummary(out io.Writer, st *sim.State) {
	accent.Fprintf(out, "\n== Final position (%s) ==\n", st.Date)
	fmt.Fprintf(out, "Checking:  $%s\n", generic.FormatMoney(st.Accounts.Checking))
	fmt.Fprintf(out, "Savings:   $%s\n", generic.FormatMoney(st.Accounts.Savings))
	debt := generic.FormatMoney(st.Accounts.Debt)
	if st.Accounts.Debt.IsPositive() {
		debt = danger.Sprint(debt)
	}
	fmt.Fprintf(out, "Debt:      $%s\n", debt)
	fmt.Fprintf(out, "Credit:    %d\n", st.CreditScore)
	fmt.Fprintf(out, "Job:       %s ($%s/mo)\n", st.Job.Title, generic.FormatMoney(st.Job.BasePay))
	if len(st.Credentials) > 0 {
		fmt.Fprintf(out, "Holds:     %v\n", st.Credentials)
	}
	if len(st.Log) > 0 {
		fmt.Fprintln(out)
		accent.Fprintln(out, "Log")
		for _, e := range st.Log {
			fmt.Fprintf(out, "  %s  %s\n", e.Date, e.Message)
		}
	}
}
