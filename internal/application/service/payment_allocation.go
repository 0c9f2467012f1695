package service

import (
	"bytes"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/spareshop-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Allocation is the part of a payment applied to one ledger entry
type Allocation struct {
	LedgerID uuid.UUID       `json:"ledger_id"`
	Amount   decimal.Decimal `json:"amount"`
}

// sortOldestFirst orders entries by transfer date, then id
func sortOldestFirst(entries []entity.AgentLedger) {
	slices.SortStableFunc(entries, func(a, b entity.AgentLedger) int {
		if c := a.TransferDate.Compare(b.TransferDate); c != 0 {
			return c
		}
		return bytes.Compare(a.ID[:], b.ID[:])
	})
}

// AllocateFIFO settles amount against entries oldest first, mutating the
// entries in place. It returns one allocation per touched entry and the
// part of amount that could not be applied.
func AllocateFIFO(entries []entity.AgentLedger, amount decimal.Decimal, at time.Time) ([]Allocation, decimal.Decimal) {
	sortOldestFirst(entries)

	remaining := amount
	var allocations []Allocation
	for i := range entries {
		if !remaining.IsPositive() {
			break
		}
		applied := entries[i].ApplyPayment(remaining, at)
		if applied.IsZero() {
			continue
		}
		allocations = append(allocations, Allocation{LedgerID: entries[i].ID, Amount: applied})
		remaining = remaining.Sub(applied)
	}
	return allocations, remaining
}

// DebtAging splits outstanding debt by days since transfer
type DebtAging struct {
	Days0To7   decimal.Decimal `json:"days_0_7"`
	Days8To30  decimal.Decimal `json:"days_8_30"`
	Days31To60 decimal.Decimal `json:"days_31_60"`
	Days61To90 decimal.Decimal `json:"days_61_90"`
	Over90     decimal.Decimal `json:"days_over_90"`
}

// NewDebtAging buckets the outstanding balance of each unpaid entry
func NewDebtAging(entries []entity.AgentLedger, asOf time.Time) DebtAging {
	aging := DebtAging{
		Days0To7:   decimal.Zero,
		Days8To30:  decimal.Zero,
		Days31To60: decimal.Zero,
		Days61To90: decimal.Zero,
		Over90:     decimal.Zero,
	}
	for i := range entries {
		e := &entries[i]
		if e.IsPaid {
			continue
		}
		outstanding := e.Outstanding()
		switch days := int(asOf.Sub(e.TransferDate).Hours() / 24); {
		case days <= 7:
			aging.Days0To7 = aging.Days0To7.Add(outstanding)
		case days <= 30:
			aging.Days8To30 = aging.Days8To30.Add(outstanding)
		case days <= 60:
			aging.Days31To60 = aging.Days31To60.Add(outstanding)
		case days <= 90:
			aging.Days61To90 = aging.Days61To90.Add(outstanding)
		default:
			aging.Over90 = aging.Over90.Add(outstanding)
		}
	}
	return aging
}

// Total is the sum of all buckets
func (a DebtAging) Total() decimal.Decimal {
	return decimal.Sum(a.Days0To7, a.Days8To30, a.Days31To60, a.Days61To90, a.Over90)
}
