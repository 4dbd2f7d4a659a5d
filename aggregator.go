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

package reckon

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/reckon-ledger/reckon/internal/apierror"
	"github.com/reckon-ledger/reckon/model"
)

// ComputeBookBalance aggregates an account's ledger movements over a period
// into its book balance. Each movement contributes debit minus credit; for
// credit-normal accounts (liability, equity, revenue) the sign is flipped so
// the returned balance always carries the account's natural sign. Period
// bounds are inclusive. The balance is recomputed from raw movements on every
// call; nothing is cached.
func (r *Reckon) ComputeBookBalance(ctx context.Context, accountID string, period model.AccountingPeriod) (decimal.Decimal, error) {
	if !period.Valid() {
		return decimal.Zero, apierror.NewAPIError(apierror.ErrInvalidInput, "Period end date must not precede start date", nil)
	}

	account, err := r.datasource.GetAccountByID(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}

	movements, err := r.datasource.GetLedgerMovements(ctx, accountID, period.StartDate, period.EndDate)
	if err != nil {
		return decimal.Zero, err
	}

	balance := decimal.Zero
	for _, movement := range movements {
		balance = balance.Add(movement.Debit.Sub(movement.Credit))
	}
	if !account.DebitNormal() {
		balance = balance.Neg()
	}

	return balance, nil
}

// lockKey names the redis lock guarding one report's mutations.
func lockKey(reportID string) string {
	return fmt.Sprintf("reconciliation:%s", reportID)
}
