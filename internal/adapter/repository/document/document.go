// Package document converts the banking state to and from its four JSON
// documents. Storage backends only move the encoded bytes around.
package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/usecase"
)

// Document names.
const (
	Clients       = "clients"
	Accounts      = "accounts"
	Transactions  = "transactions"
	DailyCounters = "daily_counters"
)

// Names lists every document in write order.
var Names = []string{Clients, Accounts, Transactions, DailyCounters}

// ErrCorrupt marks a document that could not be decoded.
var ErrCorrupt = errors.New("corrupt document")

type clientRecord struct {
	FullName  string    `json:"full_name"`
	IDNumber  string    `json:"id_number"`
	BirthDate string    `json:"birth_date"`
	Address   string    `json:"address"`
	Accounts  []string  `json:"accounts"`
	CreatedAt time.Time `json:"created_at"`
}

type accountRecord struct {
	Agency           string          `json:"agency"`
	AccountNumber    string          `json:"account_number"`
	OwnerID          string          `json:"owner_id"`
	Balance          decimal.Decimal `json:"balance"`
	WithdrawalLimit  decimal.Decimal `json:"withdrawal_limit"`
	DailyWithdrawals int             `json:"daily_withdrawals"`
	CreatedAt        time.Time       `json:"created_at"`
}

type transactionRecord struct {
	ID              string          `json:"id"`
	Timestamp       time.Time       `json:"timestamp"`
	Kind            string          `json:"kind"`
	Amount          decimal.Decimal `json:"amount"`
	OwnerID         string          `json:"owner_id"`
	AccountNumber   string          `json:"account_number"`
	PreviousBalance decimal.Decimal `json:"previous_balance"`
	CurrentBalance  decimal.Decimal `json:"current_balance"`
}

type counterRecord struct {
	Withdrawals  int `json:"withdrawals"`
	Transactions int `json:"transactions"`
}

// account number -> day -> counters
type countersDocument map[string]map[string]counterRecord

// Encode renders snapshot as indented JSON documents keyed by name.
// Non-ASCII text is written as-is.
func Encode(snapshot *usecase.Snapshot) (map[string][]byte, error) {
	if snapshot == nil {
		snapshot = &usecase.Snapshot{}
	}

	clients := make([]clientRecord, 0, len(snapshot.Identities))
	for _, i := range snapshot.Identities {
		accounts := i.AccountNumbers
		if accounts == nil {
			accounts = []string{}
		}
		clients = append(clients, clientRecord{
			FullName:  i.FullName,
			IDNumber:  i.IDNumber,
			BirthDate: i.BirthDate,
			Address:   i.Address,
			Accounts:  accounts,
			CreatedAt: i.CreatedAt,
		})
	}

	accounts := make([]accountRecord, 0, len(snapshot.Accounts))
	counters := countersDocument{}
	for _, a := range snapshot.Accounts {
		accounts = append(accounts, accountRecord{
			Agency:           a.Agency,
			AccountNumber:    a.Number,
			OwnerID:          a.OwnerID,
			Balance:          a.Balance,
			WithdrawalLimit:  a.Policy.WithdrawalLimit,
			DailyWithdrawals: a.Policy.DailyWithdrawals,
			CreatedAt:        a.CreatedAt,
		})

		days := map[string]counterRecord{}
		for day, n := range a.Transactions {
			c := days[day]
			c.Transactions = n
			days[day] = c
		}
		for day, n := range a.Withdrawals {
			c := days[day]
			c.Withdrawals = n
			days[day] = c
		}
		if len(days) > 0 {
			counters[a.Number] = days
		}
	}

	transactions := make([]transactionRecord, 0, len(snapshot.Entries))
	for _, e := range snapshot.Entries {
		transactions = append(transactions, transactionRecord{
			ID:              e.ID,
			Timestamp:       e.CreatedAt,
			Kind:            string(e.Kind),
			Amount:          e.Amount,
			OwnerID:         e.OwnerID,
			AccountNumber:   e.AccountNumber,
			PreviousBalance: e.PreviousBalance,
			CurrentBalance:  e.CurrentBalance,
		})
	}

	docs := make(map[string][]byte, len(Names))
	for name, v := range map[string]any{
		Clients:       clients,
		Accounts:      accounts,
		Transactions:  transactions,
		DailyCounters: counters,
	} {
		data, err := marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", name, err)
		}
		docs[name] = data
	}
	return docs, nil
}

func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode rebuilds a snapshot from docs. Missing documents decode as empty.
// A corrupt document is replaced by its empty value and reported in the
// returned error, which wraps ErrCorrupt; the snapshot is never nil.
func Decode(docs map[string][]byte) (*usecase.Snapshot, error) {
	var errs []error
	decode := func(name string, v any) bool {
		data := bytes.TrimSpace(docs[name])
		if len(data) == 0 {
			return true
		}
		if err := json.Unmarshal(data, v); err != nil {
			errs = append(errs, fmt.Errorf("%w %s: %w", ErrCorrupt, name, err))
			return false
		}
		return true
	}

	var clients []clientRecord
	if !decode(Clients, &clients) {
		clients = nil
	}
	var accounts []accountRecord
	if !decode(Accounts, &accounts) {
		accounts = nil
	}
	var transactions []transactionRecord
	if !decode(Transactions, &transactions) {
		transactions = nil
	}
	var counters countersDocument
	if !decode(DailyCounters, &counters) {
		counters = nil
	}

	snapshot := &usecase.Snapshot{
		Identities: make([]*domain.Identity, 0, len(clients)),
		Accounts:   make([]*domain.Account, 0, len(accounts)),
		Entries:    make([]*domain.Entry, 0, len(transactions)),
	}

	for _, c := range clients {
		snapshot.Identities = append(snapshot.Identities, &domain.Identity{
			IDNumber:       c.IDNumber,
			FullName:       c.FullName,
			BirthDate:      c.BirthDate,
			Address:        c.Address,
			AccountNumbers: c.Accounts,
			CreatedAt:      c.CreatedAt,
		})
	}

	for _, r := range accounts {
		policy := domain.Policy{WithdrawalLimit: r.WithdrawalLimit, DailyWithdrawals: r.DailyWithdrawals}
		if !policy.WithdrawalLimit.IsPositive() || policy.DailyWithdrawals <= 0 {
			policy = domain.DefaultPolicy()
		}
		agency := r.Agency
		if agency == "" {
			agency = domain.DefaultAgency
		}

		account := &domain.Account{
			Number:       r.AccountNumber,
			Agency:       agency,
			OwnerID:      r.OwnerID,
			Balance:      r.Balance,
			Policy:       policy,
			Withdrawals:  domain.DailyCounter{},
			Transactions: domain.DailyCounter{},
			CreatedAt:    r.CreatedAt,
		}
		for day, c := range counters[r.AccountNumber] {
			if c.Withdrawals > 0 {
				account.Withdrawals[day] = c.Withdrawals
			}
			if c.Transactions > 0 {
				account.Transactions[day] = c.Transactions
			}
		}
		snapshot.Accounts = append(snapshot.Accounts, account)
	}

	for _, t := range transactions {
		snapshot.Entries = append(snapshot.Entries, &domain.Entry{
			ID:              t.ID,
			CreatedAt:       t.Timestamp,
			Kind:            domain.EntryKind(t.Kind),
			OwnerID:         t.OwnerID,
			AccountNumber:   t.AccountNumber,
			Amount:          t.Amount,
			PreviousBalance: t.PreviousBalance,
			CurrentBalance:  t.CurrentBalance,
		})
	}

	return snapshot, errors.Join(errs...)
}
