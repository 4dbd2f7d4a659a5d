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

package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"

	"github.com/reckon-ledger/reckon/internal/apierror"
	"github.com/reckon-ledger/reckon/model"
)

// StatRow is the slice of a report the summary is computed from. Keeping the
// row this narrow lets the summary scan every report without hydrating items
// or adjustments.
type StatRow struct {
	Status    string
	Variance  decimal.Decimal
	AccountID string
}

// RecordReconciliationReport inserts a new reconciliation report into the database
func (d Datasource) RecordReconciliationReport(ctx context.Context, report *model.ReconciliationReport) error {
	ctx, span := otel.Tracer("Reconciliation").Start(ctx, "Saving reconciliation report to db")
	defer span.End()

	_, err := d.Conn.ExecContext(ctx,
		`INSERT INTO reconciliation_reports(
			report_id, report_number, account_id, period_start, period_end, fiscal_year,
			book_balance, statement_balance, reconciled_balance, variance,
			status, notes, version, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		report.ReportID, report.ReportNumber, report.AccountID,
		report.Period.StartDate, report.Period.EndDate, report.Period.FiscalYear,
		report.BookBalance, report.StatementBalance, report.ReconciledBalance, report.Variance,
		report.Status, report.Notes, report.Version, report.CreatedAt, report.UpdatedAt,
	)

	if err != nil {
		pqErr, ok := err.(*pq.Error)
		if ok {
			switch pqErr.Code.Name() {
			case "unique_violation":
				return apierror.NewAPIError(apierror.ErrConflict, "Reconciliation report with this ID or number already exists", err)
			case "foreign_key_violation":
				return apierror.NewAPIError(apierror.ErrNotFound, "Account does not exist", err)
			default:
				return apierror.NewAPIError(apierror.ErrInternalServer, "Database error occurred", err)
			}
		}
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to create reconciliation report", err)
	}

	return nil
}

// GetReconciliationReport retrieves a bare report by its ID. Items and
// adjustments are loaded separately.
func (d Datasource) GetReconciliationReport(ctx context.Context, id string) (*model.ReconciliationReport, error) {
	ctx, span := otel.Tracer("Reconciliation").Start(ctx, "Fetching reconciliation report from db")
	defer span.End()

	report := &model.ReconciliationReport{}
	var reconciledBy sql.NullString
	var reconciledAt sql.NullTime
	err := d.Conn.QueryRowContext(ctx, `
		SELECT id, report_id, report_number, account_id, period_start, period_end, fiscal_year,
			book_balance, statement_balance, reconciled_balance, variance,
			status, notes, reconciled_by, reconciled_at, version, created_at, updated_at
		FROM reconciliation_reports
		WHERE report_id = $1
	`, id).Scan(
		&report.ID, &report.ReportID, &report.ReportNumber, &report.AccountID,
		&report.Period.StartDate, &report.Period.EndDate, &report.Period.FiscalYear,
		&report.BookBalance, &report.StatementBalance, &report.ReconciledBalance, &report.Variance,
		&report.Status, &report.Notes, &reconciledBy, &reconciledAt,
		&report.Version, &report.CreatedAt, &report.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, "Reconciliation report not found", err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve reconciliation report", err)
	}

	if reconciledBy.Valid {
		report.ReconciledBy = reconciledBy.String
	}
	if reconciledAt.Valid {
		report.ReconciledAt = &reconciledAt.Time
	}

	return report, nil
}

// GetReconciliationReports retrieves bare reports matching the filter, newest
// first, along with the total count before pagination.
func (d Datasource) GetReconciliationReports(ctx context.Context, filter model.ReconciliationFilter) ([]*model.ReconciliationReport, int64, error) {
	ctx, span := otel.Tracer("Reconciliation").Start(ctx, "Fetching reconciliation reports from db")
	defer span.End()

	var total int64
	err := d.Conn.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM reconciliation_reports
		WHERE ($1 = '' OR status = $1)
			AND ($2::timestamp IS NULL OR period_start >= $2)
			AND ($3::timestamp IS NULL OR period_end <= $3)
	`, filter.Status, nullTime(filter.DateFrom), nullTime(filter.DateTo)).Scan(&total)
	if err != nil {
		return nil, 0, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to count reconciliation reports", err)
	}

	rows, err := d.Conn.QueryContext(ctx, `
		SELECT id, report_id, report_number, account_id, period_start, period_end, fiscal_year,
			book_balance, statement_balance, reconciled_balance, variance,
			status, notes, reconciled_by, reconciled_at, version, created_at, updated_at
		FROM reconciliation_reports
		WHERE ($1 = '' OR status = $1)
			AND ($2::timestamp IS NULL OR period_start >= $2)
			AND ($3::timestamp IS NULL OR period_end <= $3)
		ORDER BY created_at DESC
		LIMIT $4 OFFSET $5
	`, filter.Status, nullTime(filter.DateFrom), nullTime(filter.DateTo), filter.Limit, filter.Offset)
	if err != nil {
		return nil, 0, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve reconciliation reports", err)
	}
	defer rows.Close()

	var reports []*model.ReconciliationReport

	for rows.Next() {
		report := &model.ReconciliationReport{}
		var reconciledBy sql.NullString
		var reconciledAt sql.NullTime
		err = rows.Scan(
			&report.ID, &report.ReportID, &report.ReportNumber, &report.AccountID,
			&report.Period.StartDate, &report.Period.EndDate, &report.Period.FiscalYear,
			&report.BookBalance, &report.StatementBalance, &report.ReconciledBalance, &report.Variance,
			&report.Status, &report.Notes, &reconciledBy, &reconciledAt,
			&report.Version, &report.CreatedAt, &report.UpdatedAt,
		)
		if err != nil {
			return nil, 0, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan reconciliation report data", err)
		}

		if reconciledBy.Valid {
			report.ReconciledBy = reconciledBy.String
		}
		if reconciledAt.Valid {
			report.ReconciledAt = &reconciledAt.Time
		}

		reports = append(reports, report)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, apierror.NewAPIError(apierror.ErrInternalServer, "Error occurred while iterating over reconciliation reports", err)
	}

	return reports, total, nil
}

// UpdateReconciliationReport persists the report's derived fields and status.
// The write is guarded by the version counter: a row that no longer carries
// expectedVersion was modified by a concurrent operation and the update is
// rejected with a conflict.
func (d Datasource) UpdateReconciliationReport(ctx context.Context, report *model.ReconciliationReport, expectedVersion int) error {
	ctx, span := otel.Tracer("Reconciliation").Start(ctx, "Updating reconciliation report")
	defer span.End()

	reconciledBy := sql.NullString{String: report.ReconciledBy, Valid: report.ReconciledBy != ""}
	reconciledAt := sql.NullTime{}
	if report.ReconciledAt != nil {
		reconciledAt = sql.NullTime{Time: *report.ReconciledAt, Valid: true}
	}

	result, err := d.Conn.ExecContext(ctx, `
		UPDATE reconciliation_reports
		SET statement_balance = $2, reconciled_balance = $3, variance = $4, status = $5,
			notes = $6, reconciled_by = $7, reconciled_at = $8, version = version + 1, updated_at = $9
		WHERE report_id = $1 AND version = $10
	`, report.ReportID, report.StatementBalance, report.ReconciledBalance, report.Variance,
		report.Status, report.Notes, reconciledBy, reconciledAt, time.Now(), expectedVersion)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to update reconciliation report", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to update reconciliation report", err)
	}
	if affected == 0 {
		return apierror.NewAPIError(apierror.ErrConflict, "Reconciliation report was modified concurrently", nil)
	}

	report.Version = expectedVersion + 1
	return nil
}

// RecordReconciliationItem inserts a new reconciliation item into the database
func (d Datasource) RecordReconciliationItem(ctx context.Context, item *model.ReconciliationItem) error {
	ctx, span := otel.Tracer("Reconciliation").Start(ctx, "Saving reconciliation item to db")
	defer span.End()

	_, err := d.Conn.ExecContext(ctx,
		`INSERT INTO reconciliation_items(
			item_id, report_id, description, amount, type, is_reconciled, reconciled_date, notes, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		item.ItemID, item.ReportID, item.Description, item.Amount, item.Type,
		item.IsReconciled, item.ReconciledDate, item.Notes, item.CreatedAt,
	)

	if err != nil {
		pqErr, ok := err.(*pq.Error)
		if ok {
			switch pqErr.Code.Name() {
			case "unique_violation":
				return apierror.NewAPIError(apierror.ErrConflict, "Reconciliation item with this ID already exists", err)
			case "foreign_key_violation":
				return apierror.NewAPIError(apierror.ErrNotFound, "Reconciliation report does not exist", err)
			default:
				return apierror.NewAPIError(apierror.ErrInternalServer, "Database error occurred", err)
			}
		}
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to create reconciliation item", err)
	}

	return nil
}

// GetReconciliationItem retrieves a reconciliation item by its ID
func (d Datasource) GetReconciliationItem(ctx context.Context, id string) (*model.ReconciliationItem, error) {
	ctx, span := otel.Tracer("Reconciliation").Start(ctx, "Fetching reconciliation item from db")
	defer span.End()

	item := &model.ReconciliationItem{}
	var reconciledDate sql.NullTime
	err := d.Conn.QueryRowContext(ctx, `
		SELECT id, item_id, report_id, description, amount, type, is_reconciled, reconciled_date, notes, created_at
		FROM reconciliation_items
		WHERE item_id = $1
	`, id).Scan(
		&item.ID, &item.ItemID, &item.ReportID, &item.Description, &item.Amount,
		&item.Type, &item.IsReconciled, &reconciledDate, &item.Notes, &item.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, "Reconciliation item not found", err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve reconciliation item", err)
	}

	if reconciledDate.Valid {
		item.ReconciledDate = &reconciledDate.Time
	}

	return item, nil
}

// UpdateReconciliationItem persists an item's reconciled flag and date.
func (d Datasource) UpdateReconciliationItem(ctx context.Context, item *model.ReconciliationItem) error {
	ctx, span := otel.Tracer("Reconciliation").Start(ctx, "Updating reconciliation item")
	defer span.End()

	reconciledDate := sql.NullTime{}
	if item.ReconciledDate != nil {
		reconciledDate = sql.NullTime{Time: *item.ReconciledDate, Valid: true}
	}

	_, err := d.Conn.ExecContext(ctx, `
		UPDATE reconciliation_items
		SET is_reconciled = $2, reconciled_date = $3, notes = $4
		WHERE item_id = $1
	`, item.ItemID, item.IsReconciled, reconciledDate, item.Notes)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to update reconciliation item", err)
	}

	return nil
}

// GetReconciliationItems retrieves all items of a report, oldest first.
func (d Datasource) GetReconciliationItems(ctx context.Context, reportID string) ([]model.ReconciliationItem, error) {
	ctx, span := otel.Tracer("Reconciliation").Start(ctx, "Fetching reconciliation items by report ID")
	defer span.End()

	rows, err := d.Conn.QueryContext(ctx, `
		SELECT id, item_id, report_id, description, amount, type, is_reconciled, reconciled_date, notes, created_at
		FROM reconciliation_items
		WHERE report_id = $1
		ORDER BY created_at ASC
	`, reportID)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve reconciliation items", err)
	}
	defer rows.Close()

	items := []model.ReconciliationItem{}

	for rows.Next() {
		item := model.ReconciliationItem{}
		var reconciledDate sql.NullTime
		err = rows.Scan(
			&item.ID, &item.ItemID, &item.ReportID, &item.Description, &item.Amount,
			&item.Type, &item.IsReconciled, &reconciledDate, &item.Notes, &item.CreatedAt,
		)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan reconciliation item data", err)
		}

		if reconciledDate.Valid {
			item.ReconciledDate = &reconciledDate.Time
		}

		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Error occurred while iterating over reconciliation items", err)
	}

	return items, nil
}

// RecordReconciliationAdjustment inserts a new adjustment into the database.
// Adjustments have no update path; they are immutable once written.
func (d Datasource) RecordReconciliationAdjustment(ctx context.Context, adjustment *model.ReconciliationAdjustment) error {
	ctx, span := otel.Tracer("Reconciliation").Start(ctx, "Saving reconciliation adjustment to db")
	defer span.End()

	ledgerEntryRef := sql.NullString{String: adjustment.LedgerEntryRef, Valid: adjustment.LedgerEntryRef != ""}

	_, err := d.Conn.ExecContext(ctx,
		`INSERT INTO reconciliation_adjustments(
			adjustment_id, report_id, amount, direction, reason, ledger_entry_ref, created_by, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		adjustment.AdjustmentID, adjustment.ReportID, adjustment.Amount, adjustment.Direction,
		adjustment.Reason, ledgerEntryRef, adjustment.CreatedBy, adjustment.CreatedAt,
	)

	if err != nil {
		pqErr, ok := err.(*pq.Error)
		if ok {
			switch pqErr.Code.Name() {
			case "unique_violation":
				return apierror.NewAPIError(apierror.ErrConflict, "Adjustment with this ID already exists", err)
			case "foreign_key_violation":
				return apierror.NewAPIError(apierror.ErrNotFound, "Reconciliation report does not exist", err)
			default:
				return apierror.NewAPIError(apierror.ErrInternalServer, "Database error occurred", err)
			}
		}
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to create adjustment", err)
	}

	return nil
}

// GetReconciliationAdjustments retrieves all adjustments of a report, oldest first.
func (d Datasource) GetReconciliationAdjustments(ctx context.Context, reportID string) ([]model.ReconciliationAdjustment, error) {
	ctx, span := otel.Tracer("Reconciliation").Start(ctx, "Fetching adjustments by report ID")
	defer span.End()

	rows, err := d.Conn.QueryContext(ctx, `
		SELECT id, adjustment_id, report_id, amount, direction, reason, ledger_entry_ref, created_by, created_at
		FROM reconciliation_adjustments
		WHERE report_id = $1
		ORDER BY created_at ASC
	`, reportID)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve adjustments", err)
	}
	defer rows.Close()

	adjustments := []model.ReconciliationAdjustment{}

	for rows.Next() {
		adjustment := model.ReconciliationAdjustment{}
		var ledgerEntryRef sql.NullString
		err = rows.Scan(
			&adjustment.ID, &adjustment.AdjustmentID, &adjustment.ReportID, &adjustment.Amount,
			&adjustment.Direction, &adjustment.Reason, &ledgerEntryRef,
			&adjustment.CreatedBy, &adjustment.CreatedAt,
		)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan adjustment data", err)
		}

		if ledgerEntryRef.Valid {
			adjustment.LedgerEntryRef = ledgerEntryRef.String
		}

		adjustments = append(adjustments, adjustment)
	}

	if err = rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Error occurred while iterating over adjustments", err)
	}

	return adjustments, nil
}

// GetReconciliationStatRows retrieves the status, variance and account of
// every report for summary computation.
func (d Datasource) GetReconciliationStatRows(ctx context.Context) ([]StatRow, error) {
	ctx, span := otel.Tracer("Reconciliation").Start(ctx, "Fetching reconciliation stat rows")
	defer span.End()

	rows, err := d.Conn.QueryContext(ctx, `
		SELECT status, variance, account_id
		FROM reconciliation_reports
	`)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve reconciliation stats", err)
	}
	defer rows.Close()

	stats := []StatRow{}

	for rows.Next() {
		var row StatRow
		err = rows.Scan(&row.Status, &row.Variance, &row.AccountID)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan reconciliation stat data", err)
		}
		stats = append(stats, row)
	}

	if err = rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Error occurred while iterating over reconciliation stats", err)
	}

	return stats, nil
}

// nullTime maps the zero time to a SQL NULL so optional date filters drop out
// of the query.
func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
