package repository

//go:generate mockgen -source=unit_of_work.go -destination=mock/unit_of_work_mock.go -package=mock

import "context"

// Repositories bundles every repository bound to the same database handle.
// Inside UnitOfWork.Do they all share one transaction.
type Repositories struct {
	Products        ProductRepository
	Categories      CategoryRepository
	Movements       MovementRepository
	Agents          AgentRepository
	Ledger          LedgerRepository
	Payments        PaymentRepository
	Transactions    TransactionRepository
	Reconciliations ReconciliationRepository
	Audit           AuditRepository
}

// UnitOfWork runs fn inside one database transaction. Any error returned by
// fn rolls back every write made through repos.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context, repos *Repositories) error) error
}
