// Package cli is the interactive text front-end of the bank. It parses user
// input, calls the use cases and turns their errors into messages.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/usecase"
)

const menuText = `
[d] Deposit
[w] Withdraw
[e] Statement
[x] Export statement
[n] New account
[l] List accounts
[s] Select account
[c] Register client
[u] Switch user
[r] Reset system
[q] Quit
=> `

var errQuit = errors.New("quit")

// Services groups the use cases the menu drives.
type Services struct {
	Session    *usecase.SessionUseCase
	Identities *usecase.IdentityUseCase
	Accounts   *usecase.AccountUseCase
	Clock      usecase.Clock
}

// Menu runs the interactive loop over a line-oriented reader and writer.
type Menu struct {
	in           *bufio.Scanner
	out          io.Writer
	svc          Services
	statementDir string
	logger       zerolog.Logger
}

// NewMenu creates a new Menu. Exported statements are written to statementDir.
func NewMenu(in io.Reader, out io.Writer, svc Services, statementDir string, logger zerolog.Logger) *Menu {
	return &Menu{
		in:           bufio.NewScanner(in),
		out:          out,
		svc:          svc,
		statementDir: statementDir,
		logger:       logger,
	}
}

// Run loops until the user quits or the input ends.
func (m *Menu) Run(ctx context.Context) error {
	m.println("Welcome to GoBank.")

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if !m.svc.Session.Authenticated() {
			if err := m.login(ctx); err != nil {
				return m.finish(err)
			}
			continue
		}

		choice, err := m.prompt(menuText)
		if err != nil {
			return m.finish(err)
		}
		if err := m.dispatch(ctx, strings.ToLower(choice)); err != nil {
			return m.finish(err)
		}
	}
}

func (m *Menu) finish(err error) error {
	if errors.Is(err, errQuit) || errors.Is(err, io.EOF) {
		m.println("Goodbye!")
		return nil
	}
	return err
}

func (m *Menu) dispatch(ctx context.Context, choice string) error {
	switch choice {
	case "d":
		return m.deposit(ctx)
	case "w":
		return m.withdraw(ctx)
	case "e":
		return m.statement(ctx, false)
	case "x":
		return m.statement(ctx, true)
	case "n":
		m.openAccount(ctx)
	case "l":
		m.listAccounts(ctx)
	case "s":
		return m.selectAccount(ctx)
	case "c":
		_, err := m.registerClient(ctx, "")
		return err
	case "u":
		m.svc.Session.SwitchUser()
		m.println("Logged out.")
	case "r":
		return m.reset(ctx)
	case "q":
		return errQuit
	default:
		m.println("Invalid option, please try again.")
	}
	return nil
}

// login authenticates a client, offering registration and account opening
// when the id is unknown or has no account.
func (m *Menu) login(ctx context.Context) error {
	input, err := m.prompt("\nIdentification number (11 digits, q to quit): ")
	if err != nil {
		return err
	}
	if strings.EqualFold(input, "q") {
		return errQuit
	}

	id := domain.NormalizeIDNumber(input)
	if err := domain.ValidateIDNumber(id); err != nil {
		m.println(Message(err))
		return nil
	}

	err = m.svc.Session.Authenticate(ctx, id)
	switch {
	case errors.Is(err, domain.ErrUnknownIdentity):
		m.println(Message(err))
		ok, err := m.confirm("Register a new client with this number? [y/N] ")
		if err != nil || !ok {
			return err
		}
		identity, err := m.registerClient(ctx, id)
		if err != nil || identity == nil {
			return err
		}
		return m.openFirstAccount(ctx, id)

	case errors.Is(err, domain.ErrNoAccounts):
		m.println(Message(err))
		ok, err := m.confirm("Open an account now? [y/N] ")
		if err != nil || !ok {
			return err
		}
		return m.openFirstAccount(ctx, id)

	case err != nil:
		m.println(Message(err))
		return nil
	}

	m.greet()
	return nil
}

func (m *Menu) openFirstAccount(ctx context.Context, id string) error {
	account, err := m.svc.Accounts.OpenAccount(ctx, id)
	if account == nil {
		m.println(Message(err))
		return nil
	}
	m.printf("Account %s opened (agency %s).\n", account.Number, account.Agency)
	if err != nil {
		m.println(Message(err))
	}

	if err := m.svc.Session.Authenticate(ctx, id); err != nil {
		m.println(Message(err))
		return nil
	}
	m.greet()
	return nil
}

func (m *Menu) greet() {
	identity, err := m.svc.Session.Identity()
	if err != nil {
		return
	}
	account, err := m.svc.Session.ActiveAccount()
	if err != nil {
		return
	}
	m.printf("Hello, %s! Active account: %s.\n", identity.FullName, account.Number)
}

func (m *Menu) deposit(ctx context.Context) error {
	amount, ok, err := m.readAmount("Deposit amount (e.g. 150.00 or 1.500,00): ")
	if err != nil || !ok {
		return err
	}
	balance, err := m.svc.Session.Deposit(ctx, amount)
	m.reportOperation("Deposit", amount, balance, err)
	return nil
}

func (m *Menu) withdraw(ctx context.Context) error {
	amount, ok, err := m.readAmount("Withdrawal amount (e.g. 150.00 or 1.500,00): ")
	if err != nil || !ok {
		return err
	}
	balance, err := m.svc.Session.Withdraw(ctx, amount)
	m.reportOperation("Withdrawal", amount, balance, err)
	return nil
}

func (m *Menu) reportOperation(label string, amount, balance decimal.Decimal, err error) {
	if err != nil && !errors.Is(err, domain.ErrPersistence) {
		m.println(Message(err))
		return
	}
	m.printf("%s of %s completed. Balance: %s\n", label, FormatMoney(amount), FormatMoney(balance))
	if err != nil {
		m.println(Message(err))
	}
}

func (m *Menu) statement(ctx context.Context, export bool) error {
	account, err := m.svc.Session.ActiveAccount()
	if err != nil {
		m.println(Message(err))
		return nil
	}
	entries, err := m.svc.Session.Statement(ctx)
	if err != nil {
		m.println(Message(err))
		return nil
	}

	text := FormatStatement(account, entries)
	if !export {
		fmt.Fprint(m.out, "\n"+text)
		return nil
	}

	path, err := ExportStatement(m.statementDir, account.Number, m.svc.Clock.Now(), text)
	if err != nil {
		m.logger.Error().Err(err).Msg("statement export failed")
		m.println(Message(err))
		return nil
	}
	m.printf("Statement exported to %s\n", path)
	return nil
}

func (m *Menu) openAccount(ctx context.Context) {
	account, err := m.svc.Session.OpenAccount(ctx)
	if account == nil {
		m.println(Message(err))
		return
	}
	m.printf("Account %s opened (agency %s) and selected.\n", account.Number, account.Agency)
	if err != nil {
		m.println(Message(err))
	}
}

func (m *Menu) listAccounts(ctx context.Context) {
	accounts, err := m.svc.Session.Accounts(ctx)
	if err != nil {
		m.println(Message(err))
		return
	}
	active, _ := m.svc.Session.ActiveAccount()

	for _, a := range accounts {
		marker := " "
		if active != nil && active.Number == a.Number {
			marker = "*"
		}
		m.printf("%s agency %s  account %s  balance %s\n", marker, a.Agency, a.Number, FormatMoney(a.Balance))
	}
}

func (m *Menu) selectAccount(ctx context.Context) error {
	number, err := m.prompt("Account number: ")
	if err != nil {
		return err
	}
	if err := m.svc.Session.SelectAccount(ctx, number); err != nil {
		m.println(Message(err))
		return nil
	}
	m.printf("Account %s selected.\n", number)
	return nil
}

// registerClient collects a client's details and registers them. An empty id
// is asked for. The returned identity is nil when registration failed.
func (m *Menu) registerClient(ctx context.Context, id string) (*domain.Identity, error) {
	if id == "" {
		input, err := m.prompt("Identification number (11 digits): ")
		if err != nil {
			return nil, err
		}
		id = domain.NormalizeIDNumber(input)
	}

	name, err := m.prompt("Full name: ")
	if err != nil {
		return nil, err
	}
	birthDate, err := m.prompt("Birth date (dd-mm-yyyy): ")
	if err != nil {
		return nil, err
	}
	address, err := m.prompt("Address (street, number - district - city/state): ")
	if err != nil {
		return nil, err
	}

	identity, err := m.svc.Identities.Register(ctx, usecase.RegisterIdentityInput{
		IDNumber:  id,
		FullName:  name,
		BirthDate: birthDate,
		Address:   address,
	})
	switch {
	case errors.Is(err, domain.ErrAlreadyRegistered):
		m.println(Message(err))
		return identity, nil
	case identity == nil:
		m.println(Message(err))
		return nil, nil
	}

	m.printf("Client %s registered.\n", identity.FullName)
	if err != nil {
		m.println(Message(err))
	}
	return identity, nil
}

func (m *Menu) reset(ctx context.Context) error {
	answer, err := m.prompt("This deletes ALL clients, accounts and transactions. Type 'yes' to confirm: ")
	if err != nil {
		return err
	}

	err = m.svc.Session.ResetAll(ctx, answer == "yes")
	if errors.Is(err, domain.ErrResetNotConfirmed) {
		m.println(Message(err))
		return nil
	}
	m.println("All data has been erased.")
	if err != nil {
		m.println(Message(err))
	}
	return nil
}

// readAmount prompts for an amount. ok is false when the input did not parse.
func (m *Menu) readAmount(label string) (decimal.Decimal, bool, error) {
	input, err := m.prompt(label)
	if err != nil {
		return decimal.Zero, false, err
	}
	amount, err := ParseAmount(input)
	if err != nil {
		m.println(Message(err))
		return decimal.Zero, false, nil
	}
	return amount, true, nil
}

func (m *Menu) confirm(label string) (bool, error) {
	answer, err := m.prompt(label)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// prompt prints label and reads one trimmed line. It returns io.EOF when the
// input is exhausted.
func (m *Menu) prompt(label string) (string, error) {
	fmt.Fprint(m.out, label)
	if !m.in.Scan() {
		if err := m.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(m.in.Text()), nil
}

func (m *Menu) println(a ...any) {
	fmt.Fprintln(m.out, a...)
}

func (m *Menu) printf(format string, a ...any) {
	fmt.Fprintf(m.out, format, a...)
}
