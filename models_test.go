package storeauth_test

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	storeauth "github.com/mercatolabs/go-storeauth"
)

func TestAccount(t *testing.T) {
	customerID := uuid.New()
	customer := storeauth.NewCustomerAccount(&storeauth.Customer{
		ID:             customerID,
		FirstName:      "Pepe",
		LastName:       "Rone",
		Email:          "pepe.rone@example.com",
		PasswordHash:   "hash",
		EmailValidated: true,
	})

	employee := storeauth.NewEmployeeAccount(&storeauth.Employee{
		ID:        uuid.New(),
		FirstName: "Ada",
		LastName:  "Staff",
		Email:     "ada.staff@example.com",
		Role:      storeauth.RoleAdmin,
	})

	t.Run("identity accessors", func(t *testing.T) {
		assert.Equal(t, customerID.String(), customer.ID())
		assert.Equal(t, "pepe.rone@example.com", customer.Email())
		assert.Equal(t, "Pepe Rone", customer.Name())
		assert.Equal(t, "hash", customer.PasswordHash())
		assert.True(t, customer.IsVerified())
		assert.False(t, employee.IsVerified())
	})

	t.Run("customers always hold the customer role", func(t *testing.T) {
		assert.Equal(t, storeauth.RoleCustomer, customer.Role())
	})

	t.Run("employees hold their record role", func(t *testing.T) {
		assert.Equal(t, storeauth.RoleAdmin, employee.Role())
	})

	t.Run("employees default to the employee role", func(t *testing.T) {
		plain := storeauth.NewEmployeeAccount(&storeauth.Employee{Email: "x@example.com"})
		assert.Equal(t, storeauth.RoleEmployee, plain.Role())
	})

	t.Run("empty union", func(t *testing.T) {
		empty := &storeauth.Account{Type: storeauth.UserTypeCustomer}
		assert.Equal(t, "", empty.Email())
		assert.Equal(t, "", empty.PasswordHash())
		assert.False(t, empty.IsVerified())
	})
}

func TestAccountSanitize(t *testing.T) {
	account := storeauth.NewCustomerAccount(&storeauth.Customer{
		ID:           uuid.New(),
		FirstName:    "Pepe",
		LastName:     "Rone",
		Email:        "pepe.rone@example.com",
		Phone:        "+12125551234",
		PasswordHash: "super-secret-hash",
	})

	dto := account.Sanitize()

	assert.Equal(t, account.ID(), dto.ID)
	assert.Equal(t, storeauth.UserTypeCustomer, dto.Type)
	assert.Equal(t, storeauth.RoleCustomer, dto.Role)
	assert.Equal(t, "Pepe", dto.FirstName)
	assert.Equal(t, "+12125551234", dto.Phone)
	assert.False(t, dto.Verified)

	raw, err := json.Marshal(dto)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "super-secret-hash")
	assert.NotContains(t, string(raw), "password")
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "pepe.rone@example.com", storeauth.NormalizeEmail("  Pepe.Rone@Example.COM "))
	assert.Equal(t, "", storeauth.NormalizeEmail("   "))
}
