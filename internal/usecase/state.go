package usecase

import (
	"iter"

	"github.com/shopspring/decimal"

	"github.com/iho/gobank/internal/domain"
)

// State owns every mutable banking collection of one running process.
// It is not safe for concurrent use.
type State struct {
	identities    map[string]*domain.Identity
	identityOrder []string
	accounts      map[string]*domain.Account
	accountOrder  []string
	entries       []*domain.Entry
}

// NewState creates an empty State.
func NewState() *State {
	s := &State{}
	s.Reset()
	return s
}

// Reset wipes all identities, accounts and entries.
func (s *State) Reset() {
	s.identities = make(map[string]*domain.Identity)
	s.identityOrder = nil
	s.accounts = make(map[string]*domain.Account)
	s.accountOrder = nil
	s.entries = nil
}

// Identity returns the identity registered under idNumber.
func (s *State) Identity(idNumber string) (*domain.Identity, bool) {
	identity, ok := s.identities[idNumber]
	return identity, ok
}

// Identities returns identities in registration order.
func (s *State) Identities() []*domain.Identity {
	out := make([]*domain.Identity, 0, len(s.identityOrder))
	for _, id := range s.identityOrder {
		out = append(out, s.identities[id])
	}
	return out
}

func (s *State) addIdentity(identity *domain.Identity) {
	s.identities[identity.IDNumber] = identity
	s.identityOrder = append(s.identityOrder, identity.IDNumber)
}

// Account returns the account with number.
func (s *State) Account(number string) (*domain.Account, bool) {
	account, ok := s.accounts[number]
	return account, ok
}

// Accounts returns accounts in opening order.
func (s *State) Accounts() []*domain.Account {
	out := make([]*domain.Account, 0, len(s.accountOrder))
	for _, n := range s.accountOrder {
		out = append(out, s.accounts[n])
	}
	return out
}

// AccountCount returns the number of opened accounts.
func (s *State) AccountCount() int {
	return len(s.accountOrder)
}

func (s *State) addAccount(account *domain.Account) {
	s.accounts[account.Number] = account
	s.accountOrder = append(s.accountOrder, account.Number)
}

func (s *State) appendEntry(entry *domain.Entry) {
	s.entries = append(s.entries, entry)
}

// Entries returns a restartable sequence over the log in insertion order.
// Each call to the returned function scans the log from the start.
func (s *State) Entries() iter.Seq[*domain.Entry] {
	return func(yield func(*domain.Entry) bool) {
		for _, e := range s.entries {
			if !yield(e) {
				return
			}
		}
	}
}

// EntryCount returns the number of logged entries.
func (s *State) EntryCount() int {
	return len(s.entries)
}

// Snapshot exports the state for persistence.
func (s *State) Snapshot() *Snapshot {
	entries := make([]*domain.Entry, len(s.entries))
	copy(entries, s.entries)

	return &Snapshot{
		Identities: s.Identities(),
		Accounts:   s.Accounts(),
		Entries:    entries,
	}
}

// RestoreReport describes records dropped while restoring a snapshot.
type RestoreReport struct {
	DroppedIdentities int
	DroppedAccounts   int
	DroppedEntries    int
}

// Restore replaces the state with snapshot. Records that would break the
// ownership invariants (invalid ids, orphan accounts, entries of unknown
// accounts or of another owner, non-positive amounts) are dropped and
// counted in the report.
func (s *State) Restore(snapshot *Snapshot) RestoreReport {
	s.Reset()

	var report RestoreReport
	if snapshot == nil {
		return report
	}

	for _, identity := range snapshot.Identities {
		if identity == nil || domain.ValidateIDNumber(identity.IDNumber) != nil {
			report.DroppedIdentities++
			continue
		}
		if _, dup := s.identities[identity.IDNumber]; dup {
			report.DroppedIdentities++
			continue
		}
		identity.AccountNumbers = nil
		s.addIdentity(identity)
	}

	for _, account := range snapshot.Accounts {
		if account == nil || account.Number == "" {
			report.DroppedAccounts++
			continue
		}
		owner, ok := s.identities[account.OwnerID]
		if !ok {
			report.DroppedAccounts++
			continue
		}
		if _, dup := s.accounts[account.Number]; dup {
			report.DroppedAccounts++
			continue
		}
		if account.Withdrawals == nil {
			account.Withdrawals = domain.DailyCounter{}
		}
		if account.Transactions == nil {
			account.Transactions = domain.DailyCounter{}
		}
		s.addAccount(account)
		owner.AccountNumbers = append(owner.AccountNumbers, account.Number)
	}

	for _, entry := range snapshot.Entries {
		if entry == nil || !entry.Kind.IsValid() || entry.Amount.LessThanOrEqual(decimal.Zero) {
			report.DroppedEntries++
			continue
		}
		account, ok := s.accounts[entry.AccountNumber]
		if !ok || account.OwnerID != entry.OwnerID {
			report.DroppedEntries++
			continue
		}
		s.appendEntry(entry)
	}

	return report
}
