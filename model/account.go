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

// Account types as recorded in the chart of accounts. The reconciliation core
// only reads accounts; it never creates or mutates them.
const (
	AccountTypeAsset     = "asset"
	AccountTypeLiability = "liability"
	AccountTypeEquity    = "equity"
	AccountTypeRevenue   = "revenue"
	AccountTypeExpense   = "expense"
)

type Account struct {
	ID        int64           `json:"-"`
	AccountID string          `json:"account_id"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Type      string          `json:"type"`
	Category  string          `json:"category"`
	Balance   decimal.Decimal `json:"balance"`
	IsActive  bool            `json:"is_active"`
	CreatedAt time.Time       `json:"created_at"`
}

// DebitNormal reports whether debits increase this account's balance.
// Asset and expense accounts are debit-normal; liability, equity and revenue
// accounts carry credit-normal balances, so their movement sign is flipped
// when aggregating a book balance.
func (a *Account) DebitNormal() bool {
	return a.Type == AccountTypeAsset || a.Type == AccountTypeExpense
}

// AccountingPeriod is the date window a reconciliation covers. It is a value
// type: once attached to a report it never changes.
type AccountingPeriod struct {
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	FiscalYear int       `json:"fiscal_year"`
}

// NewAccountingPeriod builds a period, deriving the fiscal year from the end
// date when it is not supplied.
func NewAccountingPeriod(start, end time.Time) AccountingPeriod {
	return AccountingPeriod{
		StartDate:  start,
		EndDate:    end,
		FiscalYear: end.Year(),
	}
}

// Valid reports whether the period has a positive length. Zero-length periods
// are allowed (a single-day reconciliation), negative ones are not.
func (p AccountingPeriod) Valid() bool {
	return !p.StartDate.IsZero() && !p.EndDate.IsZero() && !p.EndDate.Before(p.StartDate)
}

// Contains reports whether t falls within the period, bounds inclusive.
func (p AccountingPeriod) Contains(t time.Time) bool {
	return !t.Before(p.StartDate) && !t.After(p.EndDate)
}

// LedgerMovement is one raw debit/credit posting read from the ledger store.
type LedgerMovement struct {
	MovementID  string          `json:"movement_id"`
	AccountID   string          `json:"account_id"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
}

// JournalEntry is the correcting posting the adjustment engine hands to the
// ledger write port. The core never reads journals back; it only keeps the
// returned reference on the adjustment.
type JournalEntry struct {
	EntryID     string          `json:"entry_id"`
	AccountID   string          `json:"account_id"`
	Amount      decimal.Decimal `json:"amount"`
	Direction   string          `json:"direction"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
}
