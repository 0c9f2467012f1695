package repository

import (
	"context"
	"fmt"
	"time"

	domainRepo "github.com/sangkips/spareshop-api/internal/domain/repository"
	"gorm.io/gorm"
)

// NewRepositories binds every repository to db. Passing a transaction
// handle makes all of them share it.
func NewRepositories(db *gorm.DB) *domainRepo.Repositories {
	return &domainRepo.Repositories{
		Products:        NewProductRepository(db),
		Categories:      NewCategoryRepository(db),
		Movements:       NewMovementRepository(db),
		Agents:          NewAgentRepository(db),
		Ledger:          NewLedgerRepository(db),
		Payments:        NewPaymentRepository(db),
		Transactions:    NewTransactionRepository(db),
		Reconciliations: NewReconciliationRepository(db),
		Audit:           NewAuditRepository(db),
	}
}

type unitOfWork struct {
	db          *gorm.DB
	lockTimeout time.Duration
}

// NewUnitOfWork creates a transaction runner. lockTimeout bounds row lock
// waits inside each transaction; zero leaves the server default.
func NewUnitOfWork(db *gorm.DB, lockTimeout time.Duration) domainRepo.UnitOfWork {
	return &unitOfWork{db: db, lockTimeout: lockTimeout}
}

func (u *unitOfWork) Do(ctx context.Context, fn func(ctx context.Context, repos *domainRepo.Repositories) error) error {
	err := u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if u.lockTimeout > 0 {
			stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", u.lockTimeout.Milliseconds())
			if err := tx.Exec(stmt).Error; err != nil {
				return err
			}
		}
		return fn(ctx, NewRepositories(tx))
	})
	return translateError(err)
}
