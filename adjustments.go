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
	"time"

	"github.com/shopspring/decimal"

	"github.com/reckon-ledger/reckon/internal/apierror"
	"github.com/reckon-ledger/reckon/internal/audit"
	"github.com/reckon-ledger/reckon/model"
)

// AddAdjustment records a correcting adjustment on a mutable report and folds
// it into the reconciled balance immediately. The adjustment is immutable
// once written; a correcting journal entry is recorded through the ledger
// write port and its reference kept on the adjustment.
func (r *Reckon) AddAdjustment(ctx context.Context, reportID string, amount decimal.Decimal, direction, reason, actor string) (*model.ReconciliationAdjustment, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, "Adjustment amount must be positive", nil)
	}
	if direction != model.AdjustmentIncrease && direction != model.AdjustmentDecrease {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, fmt.Sprintf("Unknown adjustment direction %s", direction), nil)
	}
	if reason == "" {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, "Adjustment reason is required", nil)
	}

	locker, err := r.acquireReportLock(ctx, reportID)
	if err != nil {
		return nil, err
	}
	defer r.releaseLock(ctx, locker)

	report, err := r.hydrateReport(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if !report.Mutable() {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput,
			fmt.Sprintf("Cannot adjust a %s reconciliation", report.Status), nil)
	}

	ref, err := r.datasource.RecordJournalEntry(ctx, &model.JournalEntry{
		AccountID:   report.AccountID,
		Amount:      amount,
		Direction:   direction,
		Description: fmt.Sprintf("Reconciliation adjustment on %s: %s", report.ReportNumber, reason),
		Date:        time.Now(),
	})
	if err != nil {
		return nil, err
	}

	adjustment := &model.ReconciliationAdjustment{
		AdjustmentID:   model.GenerateUUIDWithSuffix("adj"),
		ReportID:       reportID,
		Amount:         amount,
		Direction:      direction,
		Reason:         reason,
		LedgerEntryRef: ref,
		CreatedBy:      actor,
		CreatedAt:      time.Now(),
	}

	if err := r.datasource.RecordReconciliationAdjustment(ctx, adjustment); err != nil {
		return nil, err
	}

	report.Adjustments = append(report.Adjustments, *adjustment)
	report.Recompute()
	if err := r.datasource.UpdateReconciliationReport(ctx, report, report.Version); err != nil {
		return nil, err
	}

	audit.Record(audit.NewEvent("reconciliation.adjusted", "reconciliation_adjustment", adjustment.AdjustmentID, actor, map[string]interface{}{
		"report_id": reportID,
		"direction": direction,
		"amount":    amount.String(),
	}))

	return adjustment, nil
}

// ReverseAdjustment undoes an adjustment by creating an equal-and-opposite
// one. The original record is never touched; the reconciliation history stays
// append-only.
func (r *Reckon) ReverseAdjustment(ctx context.Context, reportID, adjustmentID, actor string) (*model.ReconciliationAdjustment, error) {
	adjustments, err := r.datasource.GetReconciliationAdjustments(ctx, reportID)
	if err != nil {
		return nil, err
	}

	var original *model.ReconciliationAdjustment
	for i := range adjustments {
		if adjustments[i].AdjustmentID == adjustmentID {
			original = &adjustments[i]
			break
		}
	}
	if original == nil {
		return nil, apierror.NewAPIError(apierror.ErrNotFound, "Adjustment not found", nil)
	}

	opposite := model.AdjustmentIncrease
	if original.Direction == model.AdjustmentIncrease {
		opposite = model.AdjustmentDecrease
	}

	return r.AddAdjustment(ctx, reportID, original.Amount, opposite,
		fmt.Sprintf("Reversal of %s: %s", original.AdjustmentID, original.Reason), actor)
}
