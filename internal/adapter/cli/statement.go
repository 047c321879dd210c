package cli

import (
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/iho/gobank/internal/domain"
)

const (
	statementTimeLayout = time.DateTime
	exportTimeLayout    = "20060102-150405"
	statementRule       = "=========================================="
)

// FormatStatement renders the entries of account followed by its balance.
func FormatStatement(account *domain.Account, entries iter.Seq[*domain.Entry]) string {
	var b strings.Builder

	fmt.Fprintln(&b, statementRule)
	fmt.Fprintf(&b, "Statement - agency %s, account %s\n", account.Agency, account.Number)
	fmt.Fprintln(&b, statementRule)

	n := 0
	for e := range entries {
		fmt.Fprintf(&b, "%s  %-10s  %s\n",
			e.CreatedAt.Format(statementTimeLayout), e.Kind.Label(), FormatMoney(e.Amount))
		n++
	}
	if n == 0 {
		fmt.Fprintln(&b, "No transactions recorded.")
	}

	fmt.Fprintf(&b, "\nBalance: %s\n", FormatMoney(account.Balance))
	fmt.Fprintln(&b, statementRule)

	return b.String()
}

// ExportStatement writes statement text to a timestamped file in dir and
// returns its path.
func ExportStatement(dir, accountNumber string, now time.Time, text string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create statement dir: %w", err)
	}

	name := fmt.Sprintf("statement_%s_%s.txt", accountNumber, now.Format(exportTimeLayout))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("failed to export statement: %w", err)
	}
	return path, nil
}
