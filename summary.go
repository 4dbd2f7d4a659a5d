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

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/reckon-ledger/reckon/model"
)

// GetReconciliationSummary computes portfolio statistics across every report.
// Accounts are counted once no matter how many reports cover them, and the
// suppliers-reconciled figure counts distinct counterparties that have ever
// had a reconciliation run. A failed scan fails the whole summary; partial
// figures are never returned.
func (r *Reckon) GetReconciliationSummary(ctx context.Context) (*model.ReconciliationSummary, error) {
	rows, err := r.datasource.GetReconciliationStatRows(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "scanning reconciliation reports for summary")
	}

	summary := &model.ReconciliationSummary{
		TotalVariance:   decimal.Zero,
		AverageVariance: decimal.Zero,
	}

	accounts := map[string]struct{}{}
	for _, row := range rows {
		summary.TotalReconciliations++
		switch row.Status {
		case model.StatusCompleted:
			summary.CompletedReconciliations++
		case model.StatusDraft, model.StatusInProgress:
			summary.PendingReconciliations++
		}
		summary.TotalVariance = summary.TotalVariance.Add(row.Variance)
		accounts[row.AccountID] = struct{}{}
	}
	summary.AccountsReconciled = len(accounts)

	if summary.TotalReconciliations > 0 {
		summary.AverageVariance = summary.TotalVariance.Div(decimal.NewFromInt(int64(summary.TotalReconciliations)))
	}

	counterparties, err := r.datasource.CountDistinctCounterpartyRuns(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "counting reconciled counterparties")
	}
	summary.SuppliersReconciled = int(counterparties)

	return summary, nil
}
