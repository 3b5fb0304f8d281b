package storeauth

import (
	"context"
	"net/mail"
	"strings"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

var MarkCustomerVerifiedSQL = `UPDATE "customers" AS "cst"
SET
	"is_email_verified" = TRUE
WHERE
	"cst"."deleted_at" IS NULL
AND (
	"cst"."email" = ?
) RETURNING *;`

var SetCustomerPasswordSQL = `UPDATE "customers" AS "cst"
SET
	"password_hash" = ?
WHERE
	"cst"."deleted_at" IS NULL
AND (
	"cst"."email" = ?
) RETURNING *;`

var MarkEmployeeVerifiedSQL = `UPDATE "employees" AS "emp"
SET
	"is_email_verified" = TRUE
WHERE
	"emp"."deleted_at" IS NULL
AND (
	"emp"."email" = ?
) RETURNING *;`

var SetEmployeePasswordSQL = `UPDATE "employees" AS "emp"
SET
	"password_hash" = ?
WHERE
	"emp"."deleted_at" IS NULL
AND (
	"emp"."email" = ?
) RETURNING *;`

type Customers interface {
	repository.Repository[*Customer]

	Register(ctx context.Context, record *Customer) (*Customer, error)
	RegisterTx(ctx context.Context, tx bun.IDB, record *Customer) (*Customer, error)
	GetByEmail(ctx context.Context, email string) (*Customer, error)
	GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*Customer, error)
	MarkVerified(ctx context.Context, email string) error
	MarkVerifiedTx(ctx context.Context, tx bun.IDB, email string) error
	SetPassword(ctx context.Context, email, passwordHash string) error
	SetPasswordTx(ctx context.Context, tx bun.IDB, email, passwordHash string) error
}

type Employees interface {
	repository.Repository[*Employee]

	Register(ctx context.Context, record *Employee) (*Employee, error)
	RegisterTx(ctx context.Context, tx bun.IDB, record *Employee) (*Employee, error)
	GetByEmail(ctx context.Context, email string) (*Employee, error)
	GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*Employee, error)
	MarkVerified(ctx context.Context, email string) error
	MarkVerifiedTx(ctx context.Context, tx bun.IDB, email string) error
	SetPassword(ctx context.Context, email, passwordHash string) error
	SetPasswordTx(ctx context.Context, tx bun.IDB, email, passwordHash string) error
}

type customers struct {
	repository.Repository[*Customer]
	db *bun.DB
}

type employees struct {
	repository.Repository[*Employee]
	db *bun.DB
}

var (
	_ Customers = (*customers)(nil)
	_ Employees = (*employees)(nil)
)

func NewCustomersRepository(db *bun.DB) Customers {
	repo := repository.NewRepository[*Customer](db, repository.ModelHandlers[*Customer]{
		NewRecord: func() *Customer { return &Customer{} },
		GetID: func(c *Customer) uuid.UUID {
			if c == nil {
				return uuid.Nil
			}
			return c.ID
		},
		SetID: func(c *Customer, id uuid.UUID) {
			if c != nil {
				c.ID = id
			}
		},
		GetIdentifier: func() string {
			return "email"
		},
	})

	return &customers{
		Repository: repo,
		db:         db,
	}
}

func NewEmployeesRepository(db *bun.DB) Employees {
	repo := repository.NewRepository[*Employee](db, repository.ModelHandlers[*Employee]{
		NewRecord: func() *Employee { return &Employee{} },
		GetID: func(e *Employee) uuid.UUID {
			if e == nil {
				return uuid.Nil
			}
			return e.ID
		},
		SetID: func(e *Employee, id uuid.UUID) {
			if e != nil {
				e.ID = id
			}
		},
		GetIdentifier: func() string {
			return "email"
		},
	})

	return &employees{
		Repository: repo,
		db:         db,
	}
}

func (r *customers) Register(ctx context.Context, record *Customer) (*Customer, error) {
	return r.RegisterTx(ctx, r.db, record)
}

func (r *customers) RegisterTx(ctx context.Context, tx bun.IDB, record *Customer) (*Customer, error) {
	prepareCustomerDefaults(record)
	return r.Repository.CreateTx(ctx, tx, record)
}

func (r *customers) GetByEmail(ctx context.Context, email string) (*Customer, error) {
	return r.GetByEmailTx(ctx, r.db, email)
}

func (r *customers) GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*Customer, error) {
	return getByEmail[*Customer](ctx, tx, NormalizeEmail(email), func() *Customer { return &Customer{} })
}

func (r *customers) MarkVerified(ctx context.Context, email string) error {
	return r.MarkVerifiedTx(ctx, r.db, email)
}

func (r *customers) MarkVerifiedTx(ctx context.Context, tx bun.IDB, email string) error {
	return execReturning(ctx, func() ([]*Customer, error) {
		return r.Repository.RawTx(ctx, tx, MarkCustomerVerifiedSQL, NormalizeEmail(email))
	}, email)
}

func (r *customers) SetPassword(ctx context.Context, email, passwordHash string) error {
	return r.SetPasswordTx(ctx, r.db, email, passwordHash)
}

func (r *customers) SetPasswordTx(ctx context.Context, tx bun.IDB, email, passwordHash string) error {
	return execReturning(ctx, func() ([]*Customer, error) {
		return r.Repository.RawTx(ctx, tx, SetCustomerPasswordSQL, passwordHash, NormalizeEmail(email))
	}, email)
}

func (r *employees) Register(ctx context.Context, record *Employee) (*Employee, error) {
	return r.RegisterTx(ctx, r.db, record)
}

func (r *employees) RegisterTx(ctx context.Context, tx bun.IDB, record *Employee) (*Employee, error) {
	prepareEmployeeDefaults(record)
	return r.Repository.CreateTx(ctx, tx, record)
}

func (r *employees) GetByEmail(ctx context.Context, email string) (*Employee, error) {
	return r.GetByEmailTx(ctx, r.db, email)
}

func (r *employees) GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*Employee, error) {
	return getByEmail[*Employee](ctx, tx, NormalizeEmail(email), func() *Employee { return &Employee{} })
}

func (r *employees) MarkVerified(ctx context.Context, email string) error {
	return r.MarkVerifiedTx(ctx, r.db, email)
}

func (r *employees) MarkVerifiedTx(ctx context.Context, tx bun.IDB, email string) error {
	return execReturning(ctx, func() ([]*Employee, error) {
		return r.Repository.RawTx(ctx, tx, MarkEmployeeVerifiedSQL, NormalizeEmail(email))
	}, email)
}

func (r *employees) SetPassword(ctx context.Context, email, passwordHash string) error {
	return r.SetPasswordTx(ctx, r.db, email, passwordHash)
}

func (r *employees) SetPasswordTx(ctx context.Context, tx bun.IDB, email, passwordHash string) error {
	return execReturning(ctx, func() ([]*Employee, error) {
		return r.Repository.RawTx(ctx, tx, SetEmployeePasswordSQL, passwordHash, NormalizeEmail(email))
	}, email)
}

func getByEmail[T any](ctx context.Context, tx bun.IDB, email string, newRecord func() T) (T, error) {
	record := newRecord()

	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.email = ?", email).
		Limit(1).
		Scan(ctx)

	if err != nil {
		var zero T
		if repository.IsRecordNotFound(err) {
			return zero, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"email": email,
				})
		}
		return zero, err
	}

	return record, nil
}

func execReturning[T any](_ context.Context, run func() ([]T, error), email string) error {
	res, err := run()
	if err != nil {
		return err
	}

	if len(res) == 0 {
		return repository.NewRecordNotFound().
			WithMetadata(map[string]any{
				"email": NormalizeEmail(email),
			})
	}

	return nil
}

func prepareCustomerDefaults(record *Customer) {
	if record == nil {
		return
	}

	record.Email = NormalizeEmail(record.Email)

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
}

func prepareEmployeeDefaults(record *Employee) {
	if record == nil {
		return
	}

	record.Email = NormalizeEmail(record.Email)

	if record.Role == "" {
		record.Role = RoleEmployee
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
}

func isEmail(email string) bool {
	_, err := mail.ParseAddress(strings.TrimSpace(email))
	return err == nil
}
