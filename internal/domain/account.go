package domain

import "time"

// Account is a login identity. Customer accounts own exactly one customer
// record via CustomerID; admin and staff accounts have none.
type Account struct {
	ID           string
	Email        string
	PasswordHash string
	Role         Role
	CustomerID   *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity derives the token claim for this account.
func (a *Account) Identity() Identity {
	return Identity{SubjectID: a.ID, Role: a.Role, CustomerID: a.CustomerID}
}
