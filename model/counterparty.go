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

// Counterparty kinds.
const (
	CounterpartySupplier = "supplier"
	CounterpartyCustomer = "customer"
)

// Discrepancy types.
const (
	DiscrepancyAmountDifference = "amount_difference"
)

type Counterparty struct {
	ID             int64     `json:"-"`
	CounterpartyID string    `json:"counterparty_id"`
	Name           string    `json:"name"`
	Kind           string    `json:"kind"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
}

// Discrepancy records one classified difference between a counterparty's
// reported balance and the locally computed one.
type Discrepancy struct {
	Type               string          `json:"type"`
	CounterpartyAmount decimal.Decimal `json:"counterparty_amount"`
	BookAmount         decimal.Decimal `json:"book_amount"`
}

// CounterpartyReconciliationResult is computed on demand and never persisted.
// Running it twice over unchanged data yields identical results.
type CounterpartyReconciliationResult struct {
	CounterpartyID      string           `json:"counterparty_id"`
	Period              AccountingPeriod `json:"period"`
	CounterpartyBalance decimal.Decimal  `json:"counterparty_balance"`
	BookBalance         decimal.Decimal  `json:"book_balance"`
	Discrepancies       []Discrepancy    `json:"discrepancies"`
}

// Balanced reports whether the counterparty's statement agrees with the books.
func (r *CounterpartyReconciliationResult) Balanced() bool {
	return len(r.Discrepancies) == 0
}
