package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/iho/gobank/internal/adapter/cli"
	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/infrastructure/config"
	"github.com/iho/gobank/internal/usecase"
)

func main() {
	rootCmd := newRootCmd()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, cli.Message(err))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "bank",
		Short:         "GoBank banking simulator",
		Long:          `A single-user banking simulator: clients, accounts, deposits, withdrawals and statements.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runMenu,
	}

	menuCmd := &cobra.Command{
		Use:   "menu",
		Short: "Start the interactive menu",
		Args:  cobra.NoArgs,
		RunE:  runMenu,
	}

	rootCmd.AddCommand(
		menuCmd,
		newRegisterCmd(),
		newOpenCmd(),
		newOperationCmd(domain.EntryKindDeposit),
		newOperationCmd(domain.EntryKindWithdrawal),
		newStatementCmd(),
		newAccountsCmd(),
		newClientsCmd(),
		newLedgerCmd(),
		newResetCmd(),
	)

	return rootCmd
}

// withApp loads configuration, wires the application and runs fn with it.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) (err error) {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := newApp(ctx, cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := a.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	return fn(ctx, a)
}

func runMenu(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app) error {
		menu := cli.NewMenu(cmd.InOrStdin(), cmd.OutOrStdout(), cli.Services{
			Session:    a.session,
			Identities: a.identities,
			Accounts:   a.accounts,
			Clock:      a.clock,
		}, a.cfg.StatementDir, a.logger)

		return menu.Run(ctx)
	})
}

func newRegisterCmd() *cobra.Command {
	var input usecase.RegisterIdentityInput

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a client",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				input.IDNumber = domain.NormalizeIDNumber(input.IDNumber)
				identity, err := a.identities.Register(ctx, input)
				if identity != nil && !errors.Is(err, domain.ErrAlreadyRegistered) {
					fmt.Fprintf(cmd.OutOrStdout(), "Client %s registered.\n", identity.FullName)
				}
				return err
			})
		},
	}

	cmd.Flags().StringVar(&input.IDNumber, "id", "", "Identification number (11 digits)")
	cmd.Flags().StringVar(&input.FullName, "name", "", "Full name")
	cmd.Flags().StringVar(&input.BirthDate, "birth-date", "", "Birth date (dd-mm-yyyy)")
	cmd.Flags().StringVar(&input.Address, "address", "", "Address (street, number - district - city/state)")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newOpenCmd() *cobra.Command {
	var id string

	cmd := &cobra.Command{
		Use:   "open",
		Short: "Open an account for a registered client",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				account, err := a.accounts.OpenAccount(ctx, domain.NormalizeIDNumber(id))
				if account != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "Account %s opened (agency %s).\n", account.Number, account.Agency)
				}
				return err
			})
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Identification number of the owner")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}

func newOperationCmd(kind domain.EntryKind) *cobra.Command {
	var id, account string

	use, label := "deposit", "Deposit"
	if kind == domain.EntryKindWithdrawal {
		use, label = "withdraw", "Withdrawal"
	}

	cmd := &cobra.Command{
		Use:   use + " <amount>",
		Short: label + " on an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := cli.ParseAmount(args[0])
			if err != nil {
				return err
			}

			return withApp(cmd, func(ctx context.Context, a *app) error {
				if err := a.login(ctx, domain.NormalizeIDNumber(id), account); err != nil {
					return err
				}

				var balance decimal.Decimal
				if kind == domain.EntryKindWithdrawal {
					balance, err = a.session.Withdraw(ctx, amount)
				} else {
					balance, err = a.session.Deposit(ctx, amount)
				}
				if err != nil && !errors.Is(err, domain.ErrPersistence) {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "%s of %s completed. Balance: %s\n",
					label, cli.FormatMoney(amount), cli.FormatMoney(balance))
				return err
			})
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Identification number of the client")
	cmd.Flags().StringVar(&account, "account", "", "Account number (defaults to the client's first account)")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}

func newStatementCmd() *cobra.Command {
	var (
		id      string
		account string
		export  bool
	)

	cmd := &cobra.Command{
		Use:   "statement",
		Short: "Print or export an account statement",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				if err := a.login(ctx, domain.NormalizeIDNumber(id), account); err != nil {
					return err
				}

				active, err := a.session.ActiveAccount()
				if err != nil {
					return err
				}
				entries, err := a.session.Statement(ctx)
				if err != nil {
					return err
				}

				text := cli.FormatStatement(active, entries)
				if !export {
					fmt.Fprint(cmd.OutOrStdout(), text)
					return nil
				}

				path, err := cli.ExportStatement(a.cfg.StatementDir, active.Number, a.clock.Now(), text)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Statement exported to %s\n", path)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Identification number of the client")
	cmd.Flags().StringVar(&account, "account", "", "Account number (defaults to the client's first account)")
	cmd.Flags().BoolVar(&export, "export", false, "Write the statement to STATEMENT_DIR instead of stdout")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}

func newAccountsCmd() *cobra.Command {
	var id string

	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "List accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				accounts := a.accounts.ListAccounts(ctx)
				if id != "" {
					owner := domain.NormalizeIDNumber(id)
					if _, err := a.identities.Lookup(ctx, owner); err != nil {
						return err
					}
					accounts = a.accounts.FindByOwner(ctx, owner)
				}

				printAccounts(cmd.OutOrStdout(), accounts)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Only list accounts owned by this identification number")

	return cmd
}

func newClientsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clients",
		Short: "List registered clients",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				identities := a.identities.ListIdentities(ctx)
				if len(identities) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No clients.")
					return nil
				}
				for _, identity := range identities {
					fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  accounts: %s\n",
						identity.IDNumber, identity.FullName, strings.Join(identity.AccountNumbers, ", "))
				}
				return nil
			})
		},
	}
}

func printAccounts(w io.Writer, accounts []*domain.Account) {
	if len(accounts) == 0 {
		fmt.Fprintln(w, "No accounts.")
		return
	}
	for _, a := range accounts {
		fmt.Fprintf(w, "agency %s  account %s  owner %s  balance %s\n",
			a.Agency, a.Number, a.OwnerID, cli.FormatMoney(a.Balance))
	}
}

func newLedgerCmd() *cobra.Command {
	ledgerCmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	consistencyCmd := &cobra.Command{
		Use:   "consistency",
		Short: "Check ledger consistency",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				return checkConsistency(ctx, cmd.OutOrStdout(), a.reconciliation)
			})
		},
	}

	ledgerCmd.AddCommand(consistencyCmd)
	return ledgerCmd
}

func checkConsistency(ctx context.Context, w io.Writer, uc *usecase.ReconciliationUseCase) error {
	report, err := uc.GenerateReconciliationReport(ctx)
	if err != nil {
		return err
	}

	if !report.LedgerConsistent {
		fmt.Fprintln(w, "Consistency check FAILED")
		for _, d := range report.Discrepancies {
			fmt.Fprintf(w, "Account %s: recorded %s, calculated %s, difference %s\n",
				d.AccountNumber,
				cli.FormatMoney(d.RecordedBalance),
				cli.FormatMoney(d.CalculatedBalance),
				cli.FormatMoney(d.Difference))
		}
		return fmt.Errorf("%w: %d of %d accounts diverge from the log",
			usecase.ErrInconsistentLedger, len(report.Discrepancies), report.TotalAccounts)
	}

	fmt.Fprintln(w, "Consistency check PASSED")
	fmt.Fprintf(w, "Accounts: %d\n", report.TotalAccounts)
	fmt.Fprintf(w, "Entries: %d\n", report.TotalEntries)
	return nil
}

func newResetCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Erase all clients, accounts and transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				err := a.session.ResetAll(ctx, yes)
				if errors.Is(err, domain.ErrResetNotConfirmed) {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "All data has been erased.")
				return err
			})
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm the reset")

	return cmd
}
