package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentityValidate(t *testing.T) {
	scope := "cust-1"
	empty := ""

	tests := []struct {
		name     string
		identity Identity
		wantErr  error
	}{
		{name: "admin", identity: Identity{SubjectID: "a", Role: RoleAdmin}},
		{name: "staff", identity: Identity{SubjectID: "a", Role: RoleStaff}},
		{name: "customer with scope", identity: Identity{SubjectID: "a", Role: RoleCustomer, CustomerID: &scope}},
		{name: "customer without scope", identity: Identity{SubjectID: "a", Role: RoleCustomer}, wantErr: ErrCustomerScopeRequired},
		{name: "customer with empty scope", identity: Identity{SubjectID: "a", Role: RoleCustomer, CustomerID: &empty}, wantErr: ErrCustomerScopeRequired},
		{name: "admin with scope", identity: Identity{SubjectID: "a", Role: RoleAdmin, CustomerID: &scope}, wantErr: ErrCustomerScopeForbidden},
		{name: "staff with scope", identity: Identity{SubjectID: "a", Role: RoleStaff, CustomerID: &scope}, wantErr: ErrCustomerScopeForbidden},
		{name: "unknown role", identity: Identity{SubjectID: "a", Role: "root"}, wantErr: ErrUnknownRole},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.identity.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestRoleElevated(t *testing.T) {
	assert.True(t, RoleAdmin.Elevated())
	assert.True(t, RoleStaff.Elevated())
	assert.False(t, RoleCustomer.Elevated())
}
