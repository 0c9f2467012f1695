package service_test

import (
	"bytes"
	"context"
	"errors"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sangkips/spareshop-api/internal/domain/entity"
	"github.com/sangkips/spareshop-api/internal/domain/enum"
	"github.com/sangkips/spareshop-api/internal/domain/repository"
	"github.com/sangkips/spareshop-api/pkg/apperror"
	"github.com/sangkips/spareshop-api/pkg/pagination"
)

var errInjected = errors.New("injected storage failure")

// memData is the full contents of the store. Values are copied in and out
// so callers never alias stored rows.
type memData struct {
	products     map[uuid.UUID]entity.Product
	categories   map[uuid.UUID]entity.Category
	movements    []entity.InventoryMovement
	agents       map[uuid.UUID]entity.Agent
	ledger       map[uuid.UUID]entity.AgentLedger
	payments     []entity.AgentPayment
	transactions map[uuid.UUID]entity.Transaction
	recons       map[uuid.UUID]entity.Reconciliation
	reconItems   map[uuid.UUID]entity.ReconciliationItem
	audit        []entity.AuditLog
}

func (d memData) clone() memData {
	return memData{
		products:     maps.Clone(d.products),
		categories:   maps.Clone(d.categories),
		movements:    slices.Clone(d.movements),
		agents:       maps.Clone(d.agents),
		ledger:       maps.Clone(d.ledger),
		payments:     slices.Clone(d.payments),
		transactions: maps.Clone(d.transactions),
		recons:       maps.Clone(d.recons),
		reconItems:   maps.Clone(d.reconItems),
		audit:        slices.Clone(d.audit),
	}
}

// memStore is an in-memory stand-in for the Postgres repositories. Do
// serializes units of work, which models the row locks, and restores a
// snapshot when fn fails.
type memStore struct {
	txMu sync.Mutex
	mu   sync.Mutex
	data memData
	tick time.Time

	// failOn makes the named operation return errInjected
	failOn string
}

func newMemStore() *memStore {
	return &memStore{
		data: memData{
			products:     map[uuid.UUID]entity.Product{},
			categories:   map[uuid.UUID]entity.Category{},
			agents:       map[uuid.UUID]entity.Agent{},
			ledger:       map[uuid.UUID]entity.AgentLedger{},
			transactions: map[uuid.UUID]entity.Transaction{},
			recons:       map[uuid.UUID]entity.Reconciliation{},
			reconItems:   map[uuid.UUID]entity.ReconciliationItem{},
		},
		tick: time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC),
	}
}

func (s *memStore) repos() *repository.Repositories {
	return &repository.Repositories{
		Products:        memProducts{s},
		Categories:      memCategories{s},
		Movements:       memMovements{s},
		Agents:          memAgents{s},
		Ledger:          memLedger{s},
		Payments:        memPayments{s},
		Transactions:    memTransactions{s},
		Reconciliations: memReconciliations{s},
		Audit:           memAudit{s},
	}
}

func (s *memStore) Do(ctx context.Context, fn func(ctx context.Context, repos *repository.Repositories) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := s.data.clone()
	s.mu.Unlock()

	if err := fn(ctx, s.repos()); err != nil {
		s.mu.Lock()
		s.data = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *memStore) fail(op string) error {
	if s.failOn == op {
		return errInjected
	}
	return nil
}

// now hands out strictly increasing timestamps
func (s *memStore) now() time.Time {
	s.tick = s.tick.Add(time.Millisecond)
	return s.tick
}

// snapshot returns a copy of the current contents for assertions
func (s *memStore) snapshot() memData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.clone()
}

func (s *memStore) addProduct(name string, stock int, price int64) *entity.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := entity.Product{
		ID:              uuid.New(),
		SKU:             strings.ToUpper(strings.ReplaceAll(name, " ", "-")),
		Name:            name,
		CostPrice:       decimal.NewFromInt(price / 2),
		SellingPrice:    decimal.NewFromInt(price),
		QuantityInStock: stock,
		ReorderLevel:    entity.DefaultReorderLevel,
		IsActive:        true,
		CreatedAt:       s.now(),
	}
	s.data.products[p.ID] = p
	if stock > 0 {
		s.data.movements = append(s.data.movements, entity.InventoryMovement{
			ID:            uuid.New(),
			ProductID:     p.ID,
			MovementType:  enum.MovementTypePurchase,
			QuantityDelta: stock,
			QuantityAfter: stock,
			CreatedAt:     s.now(),
		})
	}
	return &p
}

func (s *memStore) addAgent(name string, limit int64, trusted bool) *entity.Agent {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := entity.Agent{
		ID:          uuid.New(),
		FullName:    name,
		PhoneNumber: "07" + uuid.NewString()[:8],
		CreditLimit: decimal.NewFromInt(limit),
		IsTrusted:   trusted,
		IsActive:    true,
		CreatedAt:   s.now(),
	}
	s.data.agents[a.ID] = a
	return &a
}

// addLedger seeds an unpaid entry transferred at the given time
func (s *memStore) addLedger(agentID, productID uuid.UUID, debt int64, at time.Time) entity.AgentLedger {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := entity.AgentLedger{
		ID:           uuid.New(),
		AgentID:      agentID,
		ProductID:    productID,
		Quantity:     1,
		UnitPrice:    decimal.NewFromInt(debt),
		DebtAmount:   decimal.NewFromInt(debt),
		TransferDate: at,
		PaidAmount:   decimal.Zero,
		CreatedAt:    s.now(),
	}
	s.data.ledger[e.ID] = e
	return e
}

func (s *memStore) product(id uuid.UUID) entity.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.products[id]
}

func (s *memStore) ledgerEntry(id uuid.UUID) entity.AgentLedger {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.ledger[id]
}

// outstanding recomputes an agent's debt straight from the ledger rows
func (d memData) outstanding(agentID uuid.UUID) decimal.Decimal {
	sum := decimal.Zero
	for _, e := range d.ledger {
		if e.AgentID == agentID && !e.IsPaid {
			sum = sum.Add(e.DebtAmount.Sub(e.PaidAmount))
		}
	}
	return sum
}

// movementSum replays the movement log for one product
func (d memData) movementSum(productID uuid.UUID) int {
	sum := 0
	for _, m := range d.movements {
		if m.ProductID == productID {
			sum += m.QuantityDelta
		}
	}
	return sum
}

func page[T any](items []T, params *pagination.PaginationParams) ([]T, int64) {
	total := int64(len(items))
	if params == nil {
		return items, total
	}
	start := min(params.Offset(), len(items))
	end := min(start+params.PerPage, len(items))
	return items[start:end], total
}

func compareIDs(a, b uuid.UUID) int {
	return bytes.Compare(a[:], b[:])
}

type memProducts struct{ s *memStore }

func (r memProducts) Create(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("products.create"); err != nil {
		return err
	}
	for _, existing := range r.s.data.products {
		if existing.SKU == p.SKU {
			return apperror.NewConflictError("sku already exists")
		}
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt = r.s.now()
	r.s.data.products[p.ID] = *p
	return nil
}

func (r memProducts) GetByID(_ context.Context, id uuid.UUID) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.data.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r memProducts) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.data.products {
		if p.SKU == sku {
			return &p, nil
		}
	}
	return nil, nil
}

func (r memProducts) GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r memProducts) GetByIDsForUpdate(_ context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.Product
	for _, id := range ids {
		if p, ok := r.s.data.products[id]; ok {
			out = append(out, p)
		}
	}
	slices.SortFunc(out, func(a, b entity.Product) int { return compareIDs(a.ID, b.ID) })
	return out, nil
}

func (r memProducts) Update(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.data.products[p.ID]
	if !ok {
		return errors.New("product not found")
	}
	qty, field := stored.QuantityInStock, stored.QuantityInField
	stored = *p
	stored.QuantityInStock, stored.QuantityInField = qty, field
	r.s.data.products[p.ID] = stored
	return nil
}

func (r memProducts) ApplyStockDelta(_ context.Context, id uuid.UUID, stockDelta, fieldDelta int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("products.apply_stock_delta"); err != nil {
		return err
	}
	p, ok := r.s.data.products[id]
	if !ok {
		return errors.New("product not found")
	}
	if p.QuantityInStock+stockDelta < 0 {
		return apperror.ErrInsufficientStock
	}
	if p.QuantityInField+fieldDelta < 0 {
		return apperror.ErrValidation
	}
	p.QuantityInStock += stockDelta
	p.QuantityInField += fieldDelta
	r.s.data.products[id] = p
	return nil
}

func (r memProducts) List(_ context.Context, params *repository.ProductFilterParams) ([]entity.Product, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.Product
	for _, p := range r.s.data.products {
		if !params.IncludeInactive && !p.IsActive {
			continue
		}
		if params.LowStock && !p.IsLowStock() {
			continue
		}
		if params.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(params.Search)) {
			continue
		}
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b entity.Product) int { return strings.Compare(a.Name, b.Name) })
	items, total := page(out, params.Pagination)
	return items, total, nil
}

func (r memProducts) GetLowStock(ctx context.Context) ([]entity.Product, error) {
	items, _, err := r.List(ctx, &repository.ProductFilterParams{LowStock: true})
	return items, err
}

func (r memProducts) Summary(_ context.Context) (*repository.InventorySummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sum := &repository.InventorySummary{StockValue: decimal.Zero}
	for _, p := range r.s.data.products {
		if !p.IsActive {
			continue
		}
		sum.ActiveProducts++
		if p.IsLowStock() {
			sum.LowStock++
		}
		sum.UnitsInStock += int64(p.QuantityInStock)
		sum.UnitsInField += int64(p.QuantityInField)
		sum.StockValue = sum.StockValue.Add(p.StockValue())
	}
	return sum, nil
}

type memCategories struct{ s *memStore }

func (r memCategories) Create(_ context.Context, c *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.s.data.categories[c.ID] = *c
	return nil
}

func (r memCategories) GetByID(_ context.Context, id uuid.UUID) (*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.data.categories[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r memCategories) GetByName(_ context.Context, name string) (*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.data.categories {
		if strings.EqualFold(c.Name, name) {
			return &c, nil
		}
	}
	return nil, nil
}

func (r memCategories) Update(_ context.Context, c *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.data.categories[c.ID] = *c
	return nil
}

func (r memCategories) List(_ context.Context, params *pagination.PaginationParams, search string) ([]entity.Category, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.Category
	for _, c := range r.s.data.categories {
		if search == "" || strings.Contains(strings.ToLower(c.Name), strings.ToLower(search)) {
			out = append(out, c)
		}
	}
	slices.SortFunc(out, func(a, b entity.Category) int { return strings.Compare(a.Name, b.Name) })
	items, total := page(out, params)
	return items, total, nil
}

type memMovements struct{ s *memStore }

func (r memMovements) Create(_ context.Context, m *entity.InventoryMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("movements.create"); err != nil {
		return err
	}
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt = r.s.now()
	r.s.data.movements = append(r.s.data.movements, *m)
	return nil
}

func (r memMovements) List(_ context.Context, params *repository.MovementFilterParams) ([]entity.InventoryMovement, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.InventoryMovement
	for i := len(r.s.data.movements) - 1; i >= 0; i-- {
		m := r.s.data.movements[i]
		if params.ProductID != nil && m.ProductID != *params.ProductID {
			continue
		}
		if params.MovementType != nil && m.MovementType != *params.MovementType {
			continue
		}
		if params.Reference != "" && m.Reference != params.Reference {
			continue
		}
		out = append(out, m)
	}
	items, total := page(out, params.Pagination)
	return items, total, nil
}

func (r memMovements) SumDeltas(_ context.Context, productID uuid.UUID) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.data.movementSum(productID), nil
}

type memAgents struct{ s *memStore }

func (r memAgents) Create(_ context.Context, a *entity.Agent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.data.agents {
		if existing.PhoneNumber == a.PhoneNumber {
			return apperror.NewConflictError("phone already exists")
		}
	}
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	a.CreatedAt = r.s.now()
	r.s.data.agents[a.ID] = *a
	return nil
}

func (r memAgents) GetByID(_ context.Context, id uuid.UUID) (*entity.Agent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.data.agents[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r memAgents) GetByPhone(_ context.Context, phone string) (*entity.Agent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.data.agents {
		if a.PhoneNumber == phone {
			return &a, nil
		}
	}
	return nil, nil
}

func (r memAgents) GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.Agent, error) {
	return r.GetByID(ctx, id)
}

func (r memAgents) Update(_ context.Context, a *entity.Agent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored := *a
	stored.TotalDebt = nil
	r.s.data.agents[a.ID] = stored
	return nil
}

func (r memAgents) List(_ context.Context, params *repository.AgentFilterParams) ([]entity.Agent, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.Agent
	for _, a := range r.s.data.agents {
		if params.IsActive != nil && a.IsActive != *params.IsActive {
			continue
		}
		if params.IsTrusted != nil && a.IsTrusted != *params.IsTrusted {
			continue
		}
		out = append(out, a)
	}
	slices.SortFunc(out, func(a, b entity.Agent) int { return strings.Compare(a.FullName, b.FullName) })
	items, total := page(out, params.Pagination)
	return items, total, nil
}

func (r memAgents) CountActive(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, a := range r.s.data.agents {
		if a.IsActive {
			n++
		}
	}
	return n, nil
}

type memLedger struct{ s *memStore }

func (r memLedger) Create(_ context.Context, e *entity.AgentLedger) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("ledger.create"); err != nil {
		return err
	}
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	e.CreatedAt = r.s.now()
	stored := *e
	stored.Product = nil
	r.s.data.ledger[e.ID] = stored
	return nil
}

func (r memLedger) GetByID(_ context.Context, id uuid.UUID) (*entity.AgentLedger, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.data.ledger[id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (r memLedger) unpaid(keep func(entity.AgentLedger) bool) []entity.AgentLedger {
	var out []entity.AgentLedger
	for _, e := range r.s.data.ledger {
		if !e.IsPaid && keep(e) {
			out = append(out, e)
		}
	}
	slices.SortFunc(out, func(a, b entity.AgentLedger) int {
		if c := a.TransferDate.Compare(b.TransferDate); c != 0 {
			return c
		}
		return compareIDs(a.ID, b.ID)
	})
	return out
}

func (r memLedger) GetUnpaidByAgent(_ context.Context, agentID uuid.UUID) ([]entity.AgentLedger, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.unpaid(func(e entity.AgentLedger) bool { return e.AgentID == agentID }), nil
}

func (r memLedger) GetUnpaidByIDs(_ context.Context, agentID uuid.UUID, ids []uuid.UUID) ([]entity.AgentLedger, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.unpaid(func(e entity.AgentLedger) bool {
		return e.AgentID == agentID && slices.Contains(ids, e.ID)
	}), nil
}

func (r memLedger) UpdatePayment(_ context.Context, e *entity.AgentLedger) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("ledger.update_payment"); err != nil {
		return err
	}
	stored, ok := r.s.data.ledger[e.ID]
	if !ok {
		return errors.New("ledger entry not found")
	}
	stored.PaidAmount = e.PaidAmount
	stored.IsPaid = e.IsPaid
	stored.PaymentDate = e.PaymentDate
	r.s.data.ledger[e.ID] = stored
	return nil
}

func (r memLedger) RecordReturn(_ context.Context, e *entity.AgentLedger) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("ledger.record_return"); err != nil {
		return err
	}
	stored, ok := r.s.data.ledger[e.ID]
	if !ok {
		return errors.New("ledger entry not found")
	}
	if e.ReturnedQuantity > stored.Quantity {
		return apperror.ErrValidation
	}
	stored.ReturnedQuantity = e.ReturnedQuantity
	stored.PaidAmount = e.PaidAmount
	stored.IsPaid = e.IsPaid
	stored.PaymentDate = e.PaymentDate
	r.s.data.ledger[e.ID] = stored
	return nil
}

func (r memLedger) SumOutstanding(_ context.Context, agentID uuid.UUID) (decimal.Decimal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.data.outstanding(agentID), nil
}

func (r memLedger) SumOutstandingAll(_ context.Context) (decimal.Decimal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sum := decimal.Zero
	for _, e := range r.s.data.ledger {
		if !e.IsPaid {
			sum = sum.Add(e.Outstanding())
		}
	}
	return sum, nil
}

func (r memLedger) ListByAgent(_ context.Context, agentID uuid.UUID, isPaid *bool, params *pagination.PaginationParams) ([]entity.AgentLedger, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.AgentLedger
	for _, e := range r.s.data.ledger {
		if e.AgentID != agentID || (isPaid != nil && e.IsPaid != *isPaid) {
			continue
		}
		out = append(out, e)
	}
	slices.SortFunc(out, func(a, b entity.AgentLedger) int { return b.TransferDate.Compare(a.TransferDate) })
	items, total := page(out, params)
	return items, total, nil
}

type memPayments struct{ s *memStore }

func (r memPayments) Create(_ context.Context, p *entity.AgentPayment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("payments.create"); err != nil {
		return err
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt = r.s.now()
	for i := range p.Allocations {
		p.Allocations[i].ID = uuid.New()
		p.Allocations[i].PaymentID = p.ID
	}
	stored := *p
	stored.Allocations = slices.Clone(p.Allocations)
	r.s.data.payments = append(r.s.data.payments, stored)
	return nil
}

func (r memPayments) ListByAgent(_ context.Context, agentID uuid.UUID, params *pagination.PaginationParams) ([]entity.AgentPayment, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.AgentPayment
	for i := len(r.s.data.payments) - 1; i >= 0; i-- {
		if r.s.data.payments[i].AgentID == agentID {
			out = append(out, r.s.data.payments[i])
		}
	}
	items, total := page(out, params)
	return items, total, nil
}

type memTransactions struct{ s *memStore }

func (r memTransactions) Create(_ context.Context, t *entity.Transaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("transactions.create"); err != nil {
		return err
	}
	if t.ReversalOfID != nil {
		for _, existing := range r.s.data.transactions {
			if existing.ReversalOfID != nil && *existing.ReversalOfID == *t.ReversalOfID {
				return apperror.NewConflictError("already reversed")
			}
		}
	}
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	t.CreatedAt = r.s.now()
	for i := range t.Items {
		t.Items[i].ID = uuid.New()
		t.Items[i].TransactionID = t.ID
	}
	stored := *t
	stored.Items = slices.Clone(t.Items)
	r.s.data.transactions[t.ID] = stored
	return nil
}

func (r memTransactions) GetByID(_ context.Context, id uuid.UUID) (*entity.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.data.transactions[id]
	if !ok {
		return nil, nil
	}
	t.Items = slices.Clone(t.Items)
	return &t, nil
}

func (r memTransactions) GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	return r.GetByID(ctx, id)
}

func (r memTransactions) HasReversal(_ context.Context, id uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, t := range r.s.data.transactions {
		if t.ReversalOfID != nil && *t.ReversalOfID == id {
			return true, nil
		}
	}
	return false, nil
}

func (r memTransactions) List(_ context.Context, params *repository.TransactionFilterParams) ([]entity.Transaction, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.Transaction
	for _, t := range r.s.data.transactions {
		if params.TransactionType != nil && t.TransactionType != *params.TransactionType {
			continue
		}
		out = append(out, t)
	}
	slices.SortFunc(out, func(a, b entity.Transaction) int { return b.TransactionDate.Compare(a.TransactionDate) })
	items, total := page(out, params.Pagination)
	return items, total, nil
}

func (r memTransactions) SalesSummary(_ context.Context, from, to time.Time) (*repository.SalesSummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	summary := &repository.SalesSummary{
		TotalSales:      decimal.Zero,
		ByPaymentMethod: map[enum.PaymentMethod]decimal.Decimal{},
	}
	for _, t := range r.s.data.transactions {
		if t.TransactionDate.Before(from) || !t.TransactionDate.Before(to) {
			continue
		}
		amount := t.TotalAmount
		switch t.TransactionType {
		case enum.TransactionTypeSale:
			summary.TransactionCount++
		case enum.TransactionTypeReversal:
			amount = amount.Neg()
			summary.TransactionCount--
		default:
			continue
		}
		summary.TotalSales = summary.TotalSales.Add(amount)
		summary.ByPaymentMethod[t.PaymentMethod] = summary.ByPaymentMethod[t.PaymentMethod].Add(amount)
	}
	return summary, nil
}

type memReconciliations struct{ s *memStore }

func (r memReconciliations) Create(_ context.Context, rec *entity.Reconciliation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	rec.CreatedAt = r.s.now()
	r.s.data.recons[rec.ID] = *rec
	return nil
}

func (r memReconciliations) GetByID(ctx context.Context, id uuid.UUID) (*entity.Reconciliation, error) {
	rec, err := r.GetForUpdate(ctx, id)
	if rec == nil || err != nil {
		return rec, err
	}
	rec.Items, err = r.ListItems(ctx, id)
	return rec, err
}

func (r memReconciliations) GetForUpdate(_ context.Context, id uuid.UUID) (*entity.Reconciliation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec, ok := r.s.data.recons[id]
	if !ok {
		return nil, nil
	}
	rec.Items = nil
	return &rec, nil
}

func (r memReconciliations) Update(_ context.Context, rec *entity.Reconciliation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored := *rec
	stored.Items = nil
	r.s.data.recons[rec.ID] = stored
	return nil
}

func (r memReconciliations) UpsertItem(_ context.Context, item *entity.ReconciliationItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, existing := range r.s.data.reconItems {
		if existing.ReconciliationID == item.ReconciliationID && existing.ProductID == item.ProductID {
			item.ID = id
			item.CreatedAt = existing.CreatedAt
		}
	}
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
		item.CreatedAt = r.s.now()
	}
	stored := *item
	stored.Product = nil
	r.s.data.reconItems[item.ID] = stored
	return nil
}

func (r memReconciliations) ListItems(_ context.Context, reconciliationID uuid.UUID) ([]entity.ReconciliationItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.ReconciliationItem
	for _, item := range r.s.data.reconItems {
		if item.ReconciliationID == reconciliationID {
			out = append(out, item)
		}
	}
	slices.SortFunc(out, func(a, b entity.ReconciliationItem) int { return compareIDs(a.ProductID, b.ProductID) })
	return out, nil
}

func (r memReconciliations) MarkItemCorrected(_ context.Context, itemID, movementID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	item := r.s.data.reconItems[itemID]
	item.CorrectionApplied = true
	item.AdjustmentMovementID = &movementID
	r.s.data.reconItems[itemID] = item
	return nil
}

func (r memReconciliations) List(_ context.Context, params *repository.ReconciliationFilterParams) ([]entity.Reconciliation, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.Reconciliation
	for _, rec := range r.s.data.recons {
		if params.Status != nil && rec.Status != *params.Status {
			continue
		}
		if params.Type != nil && rec.ReconciliationType != *params.Type {
			continue
		}
		out = append(out, rec)
	}
	items, total := page(out, params.Pagination)
	return items, total, nil
}

func (r memReconciliations) CountByStatus(_ context.Context, status enum.ReconciliationStatus) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, rec := range r.s.data.recons {
		if rec.Status == status {
			n++
		}
	}
	return n, nil
}

type memAudit struct{ s *memStore }

func (r memAudit) Create(_ context.Context, log *entity.AuditLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	log.CreatedAt = r.s.now()
	r.s.data.audit = append(r.s.data.audit, *log)
	return nil
}

func (r memAudit) List(_ context.Context, params *repository.AuditFilterParams) ([]entity.AuditLog, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.AuditLog
	for i := len(r.s.data.audit) - 1; i >= 0; i-- {
		log := r.s.data.audit[i]
		if params.ModelName != "" && log.ModelName != params.ModelName {
			continue
		}
		if params.Action != "" && log.Action != params.Action {
			continue
		}
		out = append(out, log)
	}
	items, total := page(out, params.Pagination)
	return items, total, nil
}
