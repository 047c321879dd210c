package document_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/gobank/internal/adapter/repository/document"
	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/usecase"
)

var created = time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)

func sampleSnapshot() *usecase.Snapshot {
	account := domain.NewAccount("0001", "12345678901", domain.Policy{
		WithdrawalLimit:  decimal.RequireFromString("300.00"),
		DailyWithdrawals: 2,
	}, created)
	account.Balance = decimal.RequireFromString("75.50")
	account.Transactions["2026-10-19"] = 2
	account.Withdrawals["2026-10-19"] = 1

	return &usecase.Snapshot{
		Identities: []*domain.Identity{{
			IDNumber:       "12345678901",
			FullName:       "José Conceição",
			BirthDate:      "01/02/1990",
			Address:        "Rua São João, 5 <fundos> & casa",
			AccountNumbers: []string{"0001"},
			CreatedAt:      created,
		}},
		Accounts: []*domain.Account{account},
		Entries: []*domain.Entry{
			{
				ID:              "01J0000000000000000000000A",
				Kind:            domain.EntryKindDeposit,
				OwnerID:         "12345678901",
				AccountNumber:   "0001",
				Amount:          decimal.RequireFromString("100.00"),
				PreviousBalance: decimal.Zero,
				CurrentBalance:  decimal.RequireFromString("100.00"),
				CreatedAt:       created,
			},
			{
				ID:              "01J0000000000000000000000B",
				Kind:            domain.EntryKindWithdrawal,
				OwnerID:         "12345678901",
				AccountNumber:   "0001",
				Amount:          decimal.RequireFromString("24.50"),
				PreviousBalance: decimal.RequireFromString("100.00"),
				CurrentBalance:  decimal.RequireFromString("75.50"),
				CreatedAt:       created.Add(time.Minute),
			},
		},
	}
}

func TestEncodeDecode(t *testing.T) {
	docs, err := document.Encode(sampleSnapshot())
	require.NoError(t, err)
	require.Len(t, docs, len(document.Names))

	got, err := document.Decode(docs)
	require.NoError(t, err)

	require.Len(t, got.Identities, 1)
	assert.Equal(t, "José Conceição", got.Identities[0].FullName)
	assert.Equal(t, "Rua São João, 5 <fundos> & casa", got.Identities[0].Address)
	assert.Equal(t, []string{"0001"}, got.Identities[0].AccountNumbers)

	require.Len(t, got.Accounts, 1)
	account := got.Accounts[0]
	assert.Equal(t, "0001", account.Number)
	assert.Equal(t, domain.DefaultAgency, account.Agency)
	assert.True(t, account.Balance.Equal(decimal.RequireFromString("75.50")))
	assert.True(t, account.Policy.WithdrawalLimit.Equal(decimal.RequireFromString("300")))
	assert.Equal(t, 2, account.Policy.DailyWithdrawals)
	assert.Equal(t, 2, account.Transactions.On("2026-10-19"))
	assert.Equal(t, 1, account.Withdrawals.On("2026-10-19"))
	assert.True(t, account.CreatedAt.Equal(created))

	require.Len(t, got.Entries, 2)
	assert.Equal(t, domain.EntryKindWithdrawal, got.Entries[1].Kind)
	assert.True(t, got.Entries[1].Amount.Equal(decimal.RequireFromString("24.50")))
	assert.True(t, got.Entries[1].CreatedAt.Equal(created.Add(time.Minute)))
}

func TestEncodeIsHumanReadable(t *testing.T) {
	docs, err := document.Encode(sampleSnapshot())
	require.NoError(t, err)

	clients := string(docs[document.Clients])
	assert.Contains(t, clients, "\n  {")
	assert.Contains(t, clients, `"full_name": "José Conceição"`)
	assert.Contains(t, clients, "<fundos> & casa")
	assert.NotContains(t, clients, `\u00e9`)

	assert.Contains(t, string(docs[document.Accounts]), `"balance": "75.5"`)

	var counters map[string]map[string]map[string]int
	require.NoError(t, json.Unmarshal(docs[document.DailyCounters], &counters))
	assert.Equal(t, map[string]int{"withdrawals": 1, "transactions": 2}, counters["0001"]["2026-10-19"])
}

func TestEncodeEmpty(t *testing.T) {
	docs, err := document.Encode(nil)
	require.NoError(t, err)

	assert.Equal(t, "[]", strings.TrimSpace(string(docs[document.Clients])))
	assert.Equal(t, "[]", strings.TrimSpace(string(docs[document.Accounts])))
	assert.Equal(t, "[]", strings.TrimSpace(string(docs[document.Transactions])))
	assert.Equal(t, "{}", strings.TrimSpace(string(docs[document.DailyCounters])))
}

func TestDecodeTolerance(t *testing.T) {
	valid, err := document.Encode(sampleSnapshot())
	require.NoError(t, err)

	tests := []struct {
		name         string
		docs         map[string][]byte
		wantCorrupt  bool
		wantClients  int
		wantAccounts int
		wantEntries  int
		wantCounters bool
	}{
		{
			name: "no documents",
			docs: map[string][]byte{},
		},
		{
			name: "blank documents",
			docs: map[string][]byte{document.Clients: []byte("  \n"), document.Accounts: nil},
		},
		{
			name: "corrupt transactions",
			docs: map[string][]byte{
				document.Clients:       valid[document.Clients],
				document.Accounts:      valid[document.Accounts],
				document.Transactions:  []byte(`[{"id": "x", "amount": `),
				document.DailyCounters: valid[document.DailyCounters],
			},
			wantCorrupt:  true,
			wantClients:  1,
			wantAccounts: 1,
			wantCounters: true,
		},
		{
			name: "wrong shape",
			docs: map[string][]byte{
				document.Clients:  []byte(`{"id_number": "12345678901"}`),
				document.Accounts: valid[document.Accounts],
			},
			wantCorrupt:  true,
			wantAccounts: 1,
		},
		{
			name: "corrupt counters",
			docs: map[string][]byte{
				document.Accounts:      valid[document.Accounts],
				document.DailyCounters: []byte("garbage"),
			},
			wantCorrupt:  true,
			wantAccounts: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snapshot, err := document.Decode(tt.docs)
			require.NotNil(t, snapshot)
			if tt.wantCorrupt {
				assert.ErrorIs(t, err, document.ErrCorrupt)
			} else {
				assert.NoError(t, err)
			}

			assert.Len(t, snapshot.Identities, tt.wantClients)
			assert.Len(t, snapshot.Accounts, tt.wantAccounts)
			assert.Len(t, snapshot.Entries, tt.wantEntries)
			if tt.wantAccounts > 0 {
				assert.Equal(t, tt.wantCounters, len(snapshot.Accounts[0].Transactions) > 0)
			}
		})
	}
}

func TestDecodeLegacyAccount(t *testing.T) {
	docs := map[string][]byte{
		document.Accounts: []byte(`[{"account_number": "0001", "owner_id": "12345678901", "balance": 10.5}]`),
	}

	snapshot, err := document.Decode(docs)
	require.NoError(t, err)
	require.Len(t, snapshot.Accounts, 1)

	account := snapshot.Accounts[0]
	assert.Equal(t, domain.DefaultAgency, account.Agency)
	assert.Equal(t, domain.DefaultPolicy(), account.Policy)
	assert.True(t, account.Balance.Equal(decimal.RequireFromString("10.50")))
	assert.NotNil(t, account.Withdrawals)
}
