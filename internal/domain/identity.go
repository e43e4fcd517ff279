package domain

import "errors"

// Role enumerates caller roles.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleStaff    Role = "staff"
	RoleCustomer Role = "customer"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleStaff, RoleCustomer:
		return true
	}
	return false
}

// Elevated reports whether the role may act on any customer record.
func (r Role) Elevated() bool {
	return r == RoleAdmin || r == RoleStaff
}

// Identity is the set of facts asserted about an authenticated caller.
// It is carried verbatim inside the signed token and is never persisted
// server-side.
type Identity struct {
	SubjectID  string
	Role       Role
	CustomerID *string
}

var (
	// ErrCustomerScopeRequired is returned for a customer claim without an owned customer id.
	ErrCustomerScopeRequired = errors.New("customer role requires a customer id")
	// ErrCustomerScopeForbidden is returned for an elevated claim carrying a customer id.
	ErrCustomerScopeForbidden = errors.New("elevated roles must not carry a customer id")
	// ErrUnknownRole is returned for a claim with an unrecognized role.
	ErrUnknownRole = errors.New("unknown role")
)

// Validate enforces the role/customer-scope invariant.
func (i Identity) Validate() error {
	if !i.Role.Valid() {
		return ErrUnknownRole
	}
	if i.Role == RoleCustomer {
		if i.CustomerID == nil || *i.CustomerID == "" {
			return ErrCustomerScopeRequired
		}
		return nil
	}
	if i.CustomerID != nil {
		return ErrCustomerScopeForbidden
	}
	return nil
}
