package storeauth

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// UserType names the table an account lives in
type UserType = string

const (
	// UserTypeCustomer is a storefront customer account
	UserTypeCustomer UserType = "customer"
	// UserTypeEmployee is a back office employee account
	UserTypeEmployee UserType = "employee"
)

// Customer is the storefront account model
type Customer struct {
	bun.BaseModel  `bun:"table:customers,alias:cst"`
	ID             uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	FirstName      string     `bun:"first_name,notnull" json:"first_name,omitempty"`
	LastName       string     `bun:"last_name,notnull" json:"last_name,omitempty"`
	Email          string     `bun:"email,notnull,unique" json:"email,omitempty"`
	Phone          string     `bun:"phone_number" json:"phone_number,omitempty"`
	PasswordHash   string     `bun:"password_hash" json:"-"`
	EmailValidated bool       `bun:"is_email_verified" json:"is_email_verified,omitempty"`
	LoggedInAt     *time.Time `bun:"loggedin_at" json:"loggedin_at,omitempty"`
	CreatedAt      *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt      *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt      *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// Employee is the back office account model. Admins are employees whose
// Role column holds RoleAdmin.
type Employee struct {
	bun.BaseModel  `bun:"table:employees,alias:emp"`
	ID             uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Role           UserRole   `bun:"user_role,notnull" json:"user_role,omitempty"`
	FirstName      string     `bun:"first_name,notnull" json:"first_name,omitempty"`
	LastName       string     `bun:"last_name,notnull" json:"last_name,omitempty"`
	Email          string     `bun:"email,notnull,unique" json:"email,omitempty"`
	Phone          string     `bun:"phone_number" json:"phone_number,omitempty"`
	PasswordHash   string     `bun:"password_hash" json:"-"`
	EmailValidated bool       `bun:"is_email_verified" json:"is_email_verified,omitempty"`
	LoggedInAt     *time.Time `bun:"loggedin_at" json:"loggedin_at,omitempty"`
	CreatedAt      *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt      *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt      *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// Account is a tagged union over the two account tables. Exactly one of
// Customer or Employee is non nil, matching Type.
type Account struct {
	Type     UserType  `json:"type"`
	Customer *Customer `json:"customer,omitempty"`
	Employee *Employee `json:"employee,omitempty"`
}

var _ Identity = (*Account)(nil)

// NewCustomerAccount wraps a customer record as an Account
func NewCustomerAccount(c *Customer) *Account {
	return &Account{Type: UserTypeCustomer, Customer: c}
}

// NewEmployeeAccount wraps an employee record as an Account
func NewEmployeeAccount(e *Employee) *Account {
	return &Account{Type: UserTypeEmployee, Employee: e}
}

// ID returns the account's ID
func (a *Account) ID() string {
	switch a.Type {
	case UserTypeCustomer:
		if a.Customer != nil {
			return a.Customer.ID.String()
		}
	case UserTypeEmployee:
		if a.Employee != nil {
			return a.Employee.ID.String()
		}
	}
	return ""
}

// Email returns the account's email
func (a *Account) Email() string {
	switch a.Type {
	case UserTypeCustomer:
		if a.Customer != nil {
			return a.Customer.Email
		}
	case UserTypeEmployee:
		if a.Employee != nil {
			return a.Employee.Email
		}
	}
	return ""
}

// Role returns the account's role. Customers always hold RoleCustomer,
// employees hold whatever their record says.
func (a *Account) Role() UserRole {
	switch a.Type {
	case UserTypeCustomer:
		return RoleCustomer
	case UserTypeEmployee:
		if a.Employee != nil && a.Employee.Role != "" {
			return a.Employee.Role
		}
		return RoleEmployee
	}
	return ""
}

// Name returns the account's display name
func (a *Account) Name() string {
	var first, last string
	switch a.Type {
	case UserTypeCustomer:
		if a.Customer != nil {
			first, last = a.Customer.FirstName, a.Customer.LastName
		}
	case UserTypeEmployee:
		if a.Employee != nil {
			first, last = a.Employee.FirstName, a.Employee.LastName
		}
	}
	return strings.TrimSpace(first + " " + last)
}

// IsVerified reports whether the account's email was verified
func (a *Account) IsVerified() bool {
	switch a.Type {
	case UserTypeCustomer:
		return a.Customer != nil && a.Customer.EmailValidated
	case UserTypeEmployee:
		return a.Employee != nil && a.Employee.EmailValidated
	}
	return false
}

// PasswordHash returns the stored bcrypt hash
func (a *Account) PasswordHash() string {
	switch a.Type {
	case UserTypeCustomer:
		if a.Customer != nil {
			return a.Customer.PasswordHash
		}
	case UserTypeEmployee:
		if a.Employee != nil {
			return a.Employee.PasswordHash
		}
	}
	return ""
}

// AccountDTO is the wire representation we hand back to clients. It never
// carries the password hash.
type AccountDTO struct {
	ID        string   `json:"id"`
	Type      UserType `json:"type"`
	Role      UserRole `json:"role"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Email     string   `json:"email"`
	Phone     string   `json:"phone_number,omitempty"`
	Verified  bool     `json:"is_email_verified"`
}

// Sanitize converts an account to its wire representation
func (a *Account) Sanitize() AccountDTO {
	dto := AccountDTO{
		ID:       a.ID(),
		Type:     a.Type,
		Role:     a.Role(),
		Email:    a.Email(),
		Verified: a.IsVerified(),
	}

	switch a.Type {
	case UserTypeCustomer:
		if a.Customer != nil {
			dto.FirstName = a.Customer.FirstName
			dto.LastName = a.Customer.LastName
			dto.Phone = a.Customer.Phone
		}
	case UserTypeEmployee:
		if a.Employee != nil {
			dto.FirstName = a.Employee.FirstName
			dto.LastName = a.Employee.LastName
			dto.Phone = a.Employee.Phone
		}
	}

	return dto
}

// NormalizeEmail lowercases and trims an email so lookups across both
// account tables behave the same.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
