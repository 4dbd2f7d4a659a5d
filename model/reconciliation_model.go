/*
Copyright 2025 Reckon Ledger Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Reconciliation report statuses. A report only ever moves forward:
// draft -> in_progress -> completed, or draft/in_progress -> cancelled.
const (
	StatusDraft      = "draft"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// Reconciliation item types.
const (
	ItemOutstandingCheck = "outstanding_check"
	ItemDepositInTransit = "deposit_in_transit"
	ItemBankFee          = "bank_fee"
	ItemTimingDifference = "timing_difference"
)

// Adjustment directions.
const (
	AdjustmentIncrease = "increase"
	AdjustmentDecrease = "decrease"
)

// ReconciliationReport compares the book balance of an account over a period
// against an externally supplied statement balance. The derived fields obey
// two identities at all times:
//
//	reconciled_balance = book_balance + sum(reconciled item amounts) + sum(signed adjustments)
//	variance           = statement_balance - reconciled_balance
type ReconciliationReport struct {
	ID                int64                      `json:"-"`
	ReportID          string                     `json:"report_id"`
	ReportNumber      string                     `json:"report_number"`
	AccountID         string                     `json:"account_id"`
	Period            AccountingPeriod           `json:"period"`
	BookBalance       decimal.Decimal            `json:"book_balance"`
	StatementBalance  decimal.Decimal            `json:"statement_balance"`
	ReconciledBalance decimal.Decimal            `json:"reconciled_balance"`
	Variance          decimal.Decimal            `json:"variance"`
	Status            string                     `json:"status"`
	Notes             string                     `json:"notes"`
	Items             []ReconciliationItem       `json:"items"`
	Adjustments       []ReconciliationAdjustment `json:"adjustments"`
	ReconciledBy      string                     `json:"reconciled_by,omitempty"`
	ReconciledAt      *time.Time                 `json:"reconciled_at,omitempty"`
	Version           int                        `json:"-"`
	CreatedAt         time.Time                  `json:"created_at"`
	UpdatedAt         time.Time                  `json:"updated_at"`
}

// ReconciliationItem is a discrete, trackable explanation for part of the
// variance, e.g. a check that has not cleared yet. Items are created
// unreconciled and flip to reconciled exactly once; only reconciled items
// fold into the report's reconciled balance.
type ReconciliationItem struct {
	ID             int64           `json:"-"`
	ItemID         string          `json:"item_id"`
	ReportID       string          `json:"report_id"`
	Description    string          `json:"description"`
	Amount         decimal.Decimal `json:"amount"`
	Type           string          `json:"type"`
	IsReconciled   bool            `json:"is_reconciled"`
	ReconciledDate *time.Time      `json:"reconciled_date,omitempty"`
	Notes          string          `json:"notes"`
	CreatedAt      time.Time       `json:"created_at"`
}

// ReconciliationAdjustment is a correcting entry applied to the reconciliation
// itself, never to the underlying ledger. Adjustments are immutable once
// created; undoing one means creating an equal-and-opposite adjustment.
type ReconciliationAdjustment struct {
	ID             int64           `json:"-"`
	AdjustmentID   string          `json:"adjustment_id"`
	ReportID       string          `json:"report_id"`
	Amount         decimal.Decimal `json:"amount"`
	Direction      string          `json:"direction"`
	Reason         string          `json:"reason"`
	LedgerEntryRef string          `json:"ledger_entry_ref,omitempty"`
	CreatedBy      string          `json:"created_by"`
	CreatedAt      time.Time       `json:"created_at"`
}

// SignedAmount returns the adjustment amount signed by its direction.
func (a ReconciliationAdjustment) SignedAmount() decimal.Decimal {
	if a.Direction == AdjustmentDecrease {
		return a.Amount.Neg()
	}
	return a.Amount
}

// ValidItemType reports whether t is one of the recognized item types.
func ValidItemType(t string) bool {
	switch t {
	case ItemOutstandingCheck, ItemDepositInTransit, ItemBankFee, ItemTimingDifference:
		return true
	}
	return false
}

// CanTransition reports whether a report may move from one status to another.
// Completed and cancelled are terminal.
func CanTransition(from, to string) bool {
	switch from {
	case StatusDraft:
		return to == StatusInProgress || to == StatusCompleted || to == StatusCancelled
	case StatusInProgress:
		return to == StatusCompleted || to == StatusCancelled
	}
	return false
}

// Mutable reports whether items and adjustments may still be attached.
func (r *ReconciliationReport) Mutable() bool {
	return r.Status == StatusDraft || r.Status == StatusInProgress
}

// Recompute rebuilds the derived balances from the report's current items and
// adjustments. It is the single source of the reconciliation identities;
// every mutation path calls it before persisting.
func (r *ReconciliationReport) Recompute() {
	reconciled := r.BookBalance
	for _, item := range r.Items {
		if item.IsReconciled {
			reconciled = reconciled.Add(item.Amount)
		}
	}
	for _, adj := range r.Adjustments {
		reconciled = reconciled.Add(adj.SignedAmount())
	}
	r.ReconciledBalance = reconciled
	r.Variance = r.StatementBalance.Sub(reconciled)
}

// UnreconciledCount returns the number of items still outstanding.
func (r *ReconciliationReport) UnreconciledCount() int {
	n := 0
	for _, item := range r.Items {
		if !item.IsReconciled {
			n++
		}
	}
	return n
}

// ReconciliationFilter narrows GetReconciliations. Only the fields listed
// here are recognized; an empty status means all statuses.
type ReconciliationFilter struct {
	Status   string
	DateFrom time.Time
	DateTo   time.Time
	Limit    int
	Offset   int
}

// ReconciliationSummary holds portfolio-level statistics across reports.
type ReconciliationSummary struct {
	TotalReconciliations     int             `json:"total_reconciliations"`
	CompletedReconciliations int             `json:"completed_reconciliations"`
	PendingReconciliations   int             `json:"pending_reconciliations"`
	TotalVariance            decimal.Decimal `json:"total_variance"`
	AverageVariance          decimal.Decimal `json:"average_variance"`
	AccountsReconciled       int             `json:"accounts_reconciled"`
	SuppliersReconciled      int             `json:"suppliers_reconciled"`
}

// StatementEntry is one line parsed from an uploaded bank or supplier
// statement. Entries are candidates for reconciliation items; they are not
// persisted on their own.
type StatementEntry struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Reference   string          `json:"reference"`
	Date        time.Time       `json:"date"`
}
