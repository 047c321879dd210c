package domain

import "time"

// Identity represents a registered account holder keyed by national ID.
type Identity struct {
	IDNumber       string
	FullName       string
	BirthDate      string
	Address        string
	AccountNumbers []string
	CreatedAt      time.Time
}

// Owns reports whether the identity owns account number.
func (i *Identity) Owns(number string) bool {
	for _, n := range i.AccountNumbers {
		if n == number {
			return true
		}
	}
	return false
}
