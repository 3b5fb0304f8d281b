package storeauth

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

// Directory resolves an email across both account tables. When the same
// email exists in customers and employees the customer record wins.
type Directory struct {
	customers Customers
	employees Employees
	logger    Logger
}

// NewDirectory creates a Directory over the two account repositories
func NewDirectory(customers Customers, employees Employees) *Directory {
	return &Directory{
		customers: customers,
		employees: employees,
		logger:    defLogger{},
	}
}

// WithLogger sets the logger used for resolution failures
func (d *Directory) WithLogger(logger Logger) *Directory {
	if logger != nil {
		d.logger = logger
	}
	return d
}

// Resolve finds the account for an email, customers first.
func (d *Directory) Resolve(ctx context.Context, email string) (*Account, error) {
	return d.ResolveTx(ctx, nil, email)
}

// ResolveTx is Resolve inside an optional transaction.
func (d *Directory) ResolveTx(ctx context.Context, tx bun.IDB, email string) (*Account, error) {
	if !isEmail(email) {
		return nil, ErrAccountNotFound.Clone().WithMetadata(map[string]any{
			"email": NormalizeEmail(email),
		})
	}

	customer, err := d.customerByEmail(ctx, tx, email)
	if err == nil {
		return NewCustomerAccount(customer), nil
	}

	if !goerrors.IsNotFound(err) && !repository.IsRecordNotFound(err) {
		return nil, err
	}

	employee, err := d.employeeByEmail(ctx, tx, email)
	if err == nil {
		return NewEmployeeAccount(employee), nil
	}

	if !goerrors.IsNotFound(err) && !repository.IsRecordNotFound(err) {
		return nil, err
	}

	d.logger.Debug("directory resolve found no account", "email", NormalizeEmail(email))

	return nil, ErrAccountNotFound.Clone().WithMetadata(map[string]any{
		"email": NormalizeEmail(email),
	})
}

// ResolveByType finds the account for an email in a specific table.
func (d *Directory) ResolveByType(ctx context.Context, email string, userType UserType) (*Account, error) {
	return d.ResolveByTypeTx(ctx, nil, email, userType)
}

// ResolveByTypeTx is ResolveByType inside an optional transaction.
func (d *Directory) ResolveByTypeTx(ctx context.Context, tx bun.IDB, email string, userType UserType) (*Account, error) {
	switch userType {
	case UserTypeCustomer:
		customer, err := d.customerByEmail(ctx, tx, email)
		if err != nil {
			return nil, notFoundAsAccountError(err, email)
		}
		return NewCustomerAccount(customer), nil
	case UserTypeEmployee:
		employee, err := d.employeeByEmail(ctx, tx, email)
		if err != nil {
			return nil, notFoundAsAccountError(err, email)
		}
		return NewEmployeeAccount(employee), nil
	default:
		return d.ResolveTx(ctx, tx, email)
	}
}

// MarkVerifiedTx flips the verified flag for the account's table.
func (d *Directory) MarkVerifiedTx(ctx context.Context, tx bun.IDB, email string, userType UserType) error {
	switch userType {
	case UserTypeEmployee:
		if tx == nil {
			return d.employees.MarkVerified(ctx, email)
		}
		return d.employees.MarkVerifiedTx(ctx, tx, email)
	default:
		if tx == nil {
			return d.customers.MarkVerified(ctx, email)
		}
		return d.customers.MarkVerifiedTx(ctx, tx, email)
	}
}

// SetPasswordTx updates the password hash for the account's table.
func (d *Directory) SetPasswordTx(ctx context.Context, tx bun.IDB, email string, userType UserType, passwordHash string) error {
	switch userType {
	case UserTypeEmployee:
		if tx == nil {
			return d.employees.SetPassword(ctx, email, passwordHash)
		}
		return d.employees.SetPasswordTx(ctx, tx, email, passwordHash)
	default:
		if tx == nil {
			return d.customers.SetPassword(ctx, email, passwordHash)
		}
		return d.customers.SetPasswordTx(ctx, tx, email, passwordHash)
	}
}

func (d *Directory) customerByEmail(ctx context.Context, tx bun.IDB, email string) (*Customer, error) {
	if tx != nil {
		return d.customers.GetByEmailTx(ctx, tx, email)
	}
	return d.customers.GetByEmail(ctx, email)
}

func (d *Directory) employeeByEmail(ctx context.Context, tx bun.IDB, email string) (*Employee, error) {
	if tx != nil {
		return d.employees.GetByEmailTx(ctx, tx, email)
	}
	return d.employees.GetByEmail(ctx, email)
}

func notFoundAsAccountError(err error, email string) error {
	if goerrors.IsNotFound(err) || repository.IsRecordNotFound(err) {
		return ErrAccountNotFound.Clone().WithMetadata(map[string]any{
			"email": NormalizeEmail(email),
		})
	}
	return err
}
