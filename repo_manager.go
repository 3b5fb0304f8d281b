package storeauth

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

// RepositoryManager exposes all repositories
type RepositoryManager interface {
	repository.Validator
	repository.TransactionManager
	Customers() Customers
	Employees() Employees
	Directory() *Directory
}

type mngr struct {
	db        *bun.DB
	customers Customers
	employees Employees
	directory *Directory
}

func NewRepositoryManager(db *bun.DB) RepositoryManager {
	customers := NewCustomersRepository(db)
	employees := NewEmployeesRepository(db)

	return &mngr{
		db:        db,
		customers: customers,
		employees: employees,
		directory: NewDirectory(customers, employees),
	}
}

func (m mngr) Validate() error {
	if m.customers == nil {
		return errors.New("repository customers should be initialized")
	}

	if m.employees == nil {
		return errors.New("repository employees should be initialized")
	}

	return nil
}

func (m mngr) MustValidate() {
	if err := m.Validate(); err != nil {
		log.Panic(err)
	}
}

func (m mngr) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return m.db.RunInTx(ctx, opts, f)
	}
}

func (m mngr) Customers() Customers {
	return m.customers
}

func (m mngr) Employees() Employees {
	return m.employees
}

func (m mngr) Directory() *Directory {
	return m.directory
}
