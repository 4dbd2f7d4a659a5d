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
	"github.com/wacul/ptr"

	"github.com/reckon-ledger/reckon/internal/apierror"
	"github.com/reckon-ledger/reckon/internal/audit"
	"github.com/reckon-ledger/reckon/model"
)

// AddReconciliationItem attaches an unreconciled item to a mutable report.
// Adding an item never moves the reconciled balance; only reconciling it
// does.
func (r *Reckon) AddReconciliationItem(ctx context.Context, reportID, description string, amount decimal.Decimal, itemType, notes, actor string) (*model.ReconciliationItem, error) {
	if description == "" {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, "Item description is required", nil)
	}
	if amount.IsZero() {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, "Item amount must be non-zero", nil)
	}
	if !model.ValidItemType(itemType) {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, fmt.Sprintf("Unknown item type %s", itemType), nil)
	}

	locker, err := r.acquireReportLock(ctx, reportID)
	if err != nil {
		return nil, err
	}
	defer r.releaseLock(ctx, locker)

	report, err := r.datasource.GetReconciliationReport(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if !report.Mutable() {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput,
			fmt.Sprintf("Cannot add items to a %s reconciliation", report.Status), nil)
	}

	item := &model.ReconciliationItem{
		ItemID:      model.GenerateUUIDWithSuffix("itm"),
		ReportID:    reportID,
		Description: description,
		Amount:      amount,
		Type:        itemType,
		Notes:       notes,
		CreatedAt:   time.Now(),
	}

	if err := r.datasource.RecordReconciliationItem(ctx, item); err != nil {
		return nil, err
	}

	audit.Record(audit.NewEvent("reconciliation.item_added", "reconciliation_item", item.ItemID, actor, map[string]interface{}{
		"report_id": reportID,
		"type":      itemType,
		"amount":    amount.String(),
	}))

	return item, nil
}

// ReconcileItem marks an item as reconciled and folds its amount into the
// report's reconciled balance. Item amounts are signed, so a positive amount
// raises the reconciled balance and a negative one lowers it. Reconciling an
// item that is already reconciled is a no-op success: the caller retrying a
// timed-out request must not double-count the amount.
//
// The item flip is persisted before the report's derived fields; if the
// report update then fails the stored derived balances are momentarily stale.
// The next mutation recomputes them from the items and adjustments, so the
// identities re-establish themselves without a rollback.
func (r *Reckon) ReconcileItem(ctx context.Context, itemID, actor string) (*model.ReconciliationItem, error) {
	item, err := r.datasource.GetReconciliationItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	locker, err := r.acquireReportLock(ctx, item.ReportID)
	if err != nil {
		return nil, err
	}
	defer r.releaseLock(ctx, locker)

	// Re-read under the lock; the item may have been reconciled in between.
	item, err = r.datasource.GetReconciliationItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.IsReconciled {
		return item, nil
	}

	report, err := r.hydrateReport(ctx, item.ReportID)
	if err != nil {
		return nil, err
	}
	if !report.Mutable() {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput,
			fmt.Sprintf("Cannot reconcile items on a %s reconciliation", report.Status), nil)
	}

	item.IsReconciled = true
	item.ReconciledDate = ptr.Time(time.Now())
	if err := r.datasource.UpdateReconciliationItem(ctx, item); err != nil {
		return nil, err
	}

	for i := range report.Items {
		if report.Items[i].ItemID == item.ItemID {
			report.Items[i] = *item
		}
	}
	report.Recompute()
	if err := r.datasource.UpdateReconciliationReport(ctx, report, report.Version); err != nil {
		return nil, err
	}

	audit.Record(audit.NewEvent("reconciliation.item_reconciled", "reconciliation_item", item.ItemID, actor, map[string]interface{}{
		"report_id": item.ReportID,
		"amount":    item.Amount.String(),
	}))

	return item, nil
}
