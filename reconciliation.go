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

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/shopspring/decimal"
	"github.com/wacul/ptr"

	"github.com/reckon-ledger/reckon/config"
	"github.com/reckon-ledger/reckon/internal/apierror"
	"github.com/reckon-ledger/reckon/internal/audit"
	redlock "github.com/reckon-ledger/reckon/internal/lock"
	"github.com/reckon-ledger/reckon/model"
)

// acquireReportLock takes the per-report redis lock. Every mutation of a
// report and its children goes through this, so concurrent operations on the
// same report serialize instead of clobbering each other's derived balances.
func (r *Reckon) acquireReportLock(ctx context.Context, reportID string) (*redlock.Locker, error) {
	conf, err := config.Fetch()
	if err != nil {
		return nil, err
	}
	lockDuration := time.Duration(*conf.Reconciliation.LockDurationSec) * time.Second

	locker := redlock.NewLocker(r.redis, lockKey(reportID), model.GenerateUUIDWithSuffix("loc"))
	if err := locker.WaitLock(ctx, lockDuration, lockDuration); err != nil {
		return nil, err
	}
	return locker, nil
}

func (r *Reckon) releaseLock(ctx context.Context, locker *redlock.Locker) {
	if err := locker.Unlock(ctx); err != nil {
		audit.NotifyError(err)
	}
}

// allocateReportNumber allocates the next RECON-{year}-NNNN number, retrying
// transient storage failures with exponential backoff.
func (r *Reckon) allocateReportNumber(ctx context.Context, fiscalYear int) (string, error) {
	var number string
	operation := func() error {
		var err error
		number, err = r.datasource.NextReportNumber(ctx, fiscalYear)
		return err
	}
	bo := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3)
	if err := backoff.Retry(operation, backoff.WithContext(bo, ctx)); err != nil {
		return "", err
	}
	return number, nil
}

// CreateReconciliation opens a new draft reconciliation report for an account
// over a period. The book balance is aggregated from the ledger at creation
// time and the initial reconciled balance equals it, so the starting variance
// is statement minus book.
func (r *Reckon) CreateReconciliation(ctx context.Context, accountID string, period model.AccountingPeriod, statementBalance decimal.Decimal, notes, actor string) (*model.ReconciliationReport, error) {
	if !period.Valid() {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, "Period end date must not precede start date", nil)
	}

	bookBalance, err := r.ComputeBookBalance(ctx, accountID, period)
	if err != nil {
		return nil, err
	}

	reportNumber, err := r.allocateReportNumber(ctx, period.FiscalYear)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	report := &model.ReconciliationReport{
		ReportID:          model.GenerateUUIDWithSuffix("rpt"),
		ReportNumber:      reportNumber,
		AccountID:         accountID,
		Period:            period,
		BookBalance:       bookBalance,
		StatementBalance:  statementBalance,
		ReconciledBalance: bookBalance,
		Variance:          statementBalance.Sub(bookBalance),
		Status:            model.StatusDraft,
		Notes:             notes,
		Version:           1,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := r.datasource.RecordReconciliationReport(ctx, report); err != nil {
		return nil, err
	}

	audit.Record(audit.NewEvent("reconciliation.created", "reconciliation_report", report.ReportID, actor, map[string]interface{}{
		"report_number": report.ReportNumber,
		"account_id":    accountID,
	}))

	return report, nil
}

// StartReconciliation moves a draft report into in_progress.
func (r *Reckon) StartReconciliation(ctx context.Context, reportID, actor string) (*model.ReconciliationReport, error) {
	return r.transition(ctx, reportID, model.StatusInProgress, "reconciliation.started", actor)
}

// CancelReconciliation cancels a draft or in-progress report. Cancelled is
// terminal; the report keeps its items and adjustments for the record but
// accepts no further mutation.
func (r *Reckon) CancelReconciliation(ctx context.Context, reportID, actor string) (*model.ReconciliationReport, error) {
	return r.transition(ctx, reportID, model.StatusCancelled, "reconciliation.cancelled", actor)
}

func (r *Reckon) transition(ctx context.Context, reportID, to, action, actor string) (*model.ReconciliationReport, error) {
	locker, err := r.acquireReportLock(ctx, reportID)
	if err != nil {
		return nil, err
	}
	defer r.releaseLock(ctx, locker)

	report, err := r.hydrateReport(ctx, reportID)
	if err != nil {
		return nil, err
	}

	if !model.CanTransition(report.Status, to) {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput,
			fmt.Sprintf("Cannot move reconciliation from %s to %s", report.Status, to), nil)
	}

	report.Status = to
	if err := r.datasource.UpdateReconciliationReport(ctx, report, report.Version); err != nil {
		return nil, err
	}

	audit.Record(audit.NewEvent(action, "reconciliation_report", report.ReportID, actor, nil))
	return report, nil
}

// CompleteReconciliation finalizes a report. Derived balances are recomputed
// from the current items and adjustments before the status flips, so a
// completed report always carries consistent figures. Reports with
// unreconciled items are rejected unless the caller overrides; overriding is
// an explicit sign-off, recorded in the audit trail.
func (r *Reckon) CompleteReconciliation(ctx context.Context, reportID, actor string, override bool) (*model.ReconciliationReport, error) {
	locker, err := r.acquireReportLock(ctx, reportID)
	if err != nil {
		return nil, err
	}
	defer r.releaseLock(ctx, locker)

	report, err := r.hydrateReport(ctx, reportID)
	if err != nil {
		return nil, err
	}

	if !model.CanTransition(report.Status, model.StatusCompleted) {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput,
			fmt.Sprintf("Cannot complete reconciliation in status %s", report.Status), nil)
	}

	if n := report.UnreconciledCount(); n > 0 && !override {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput,
			fmt.Sprintf("Reconciliation has %d unreconciled items", n), nil)
	}

	report.Recompute()
	report.Status = model.StatusCompleted
	report.ReconciledBy = actor
	report.ReconciledAt = ptr.Time(time.Now())

	if err := r.datasource.UpdateReconciliationReport(ctx, report, report.Version); err != nil {
		return nil, err
	}

	audit.Record(audit.NewEvent("reconciliation.completed", "reconciliation_report", report.ReportID, actor, map[string]interface{}{
		"variance": report.Variance.String(),
		"override": override,
	}))

	return report, nil
}

// GetReconciliationByID retrieves a fully hydrated report. A missing report
// yields (nil, nil); absence is not an error here, callers decide what it
// means.
func (r *Reckon) GetReconciliationByID(ctx context.Context, reportID string) (*model.ReconciliationReport, error) {
	report, err := r.hydrateReport(ctx, reportID)
	if err != nil {
		if apierror.CodeOf(err) == apierror.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	return report, nil
}

// GetReconciliations retrieves hydrated reports matching the filter along
// with the total count before pagination.
func (r *Reckon) GetReconciliations(ctx context.Context, filter model.ReconciliationFilter) ([]*model.ReconciliationReport, int64, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}

	reports, total, err := r.datasource.GetReconciliationReports(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	for _, report := range reports {
		if err := r.hydrateChildren(ctx, report); err != nil {
			return nil, 0, err
		}
	}

	return reports, total, nil
}

// hydrateReport loads a report with its items and adjustments.
func (r *Reckon) hydrateReport(ctx context.Context, reportID string) (*model.ReconciliationReport, error) {
	report, err := r.datasource.GetReconciliationReport(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if err := r.hydrateChildren(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

func (r *Reckon) hydrateChildren(ctx context.Context, report *model.ReconciliationReport) error {
	items, err := r.datasource.GetReconciliationItems(ctx, report.ReportID)
	if err != nil {
		return err
	}
	adjustments, err := r.datasource.GetReconciliationAdjustments(ctx, report.ReportID)
	if err != nil {
		return err
	}
	report.Items = items
	report.Adjustments = adjustments
	return nil
}
