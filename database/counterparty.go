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

// GetCounterpartyByID retrieves a counterparty by its ID
func (d Datasource) GetCounterpartyByID(ctx context.Context, id string) (*model.Counterparty, error) {
	ctx, span := otel.Tracer("Counterparty").Start(ctx, "Fetching counterparty from db")
	defer span.End()

	counterparty := &model.Counterparty{}
	err := d.Conn.QueryRowContext(ctx, `
		SELECT id, counterparty_id, name, kind, is_active, created_at
		FROM counterparties
		WHERE counterparty_id = $1
	`, id).Scan(
		&counterparty.ID, &counterparty.CounterpartyID, &counterparty.Name,
		&counterparty.Kind, &counterparty.IsActive, &counterparty.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, "Counterparty not found", err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve counterparty", err)
	}

	return counterparty, nil
}

// SumInvoices totals a counterparty's invoices within a period, bounds
// inclusive. COALESCE keeps the sum zero when no rows match.
func (d Datasource) SumInvoices(ctx context.Context, counterpartyID string, from, to time.Time) (decimal.Decimal, error) {
	ctx, span := otel.Tracer("Counterparty").Start(ctx, "Summing invoices")
	defer span.End()

	var total decimal.Decimal
	err := d.Conn.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount), 0)
		FROM invoices
		WHERE counterparty_id = $1 AND date >= $2 AND date <= $3
	`, counterpartyID, from, to).Scan(&total)
	if err != nil {
		return decimal.Zero, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to sum invoices", err)
	}

	return total, nil
}

// SumPayments totals a counterparty's payments within a period, bounds
// inclusive.
func (d Datasource) SumPayments(ctx context.Context, counterpartyID string, from, to time.Time) (decimal.Decimal, error) {
	ctx, span := otel.Tracer("Counterparty").Start(ctx, "Summing payments")
	defer span.End()

	var total decimal.Decimal
	err := d.Conn.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount), 0)
		FROM payments
		WHERE counterparty_id = $1 AND date >= $2 AND date <= $3
	`, counterpartyID, from, to).Scan(&total)
	if err != nil {
		return decimal.Zero, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to sum payments", err)
	}

	return total, nil
}

// RecordCounterpartyRun records that a counterparty reconciliation ran. Only
// the fact of the run is persisted; the computed result stays with the caller.
func (d Datasource) RecordCounterpartyRun(ctx context.Context, counterpartyID string, from, to time.Time) error {
	ctx, span := otel.Tracer("Counterparty").Start(ctx, "Recording counterparty run")
	defer span.End()

	_, err := d.Conn.ExecContext(ctx, `
		INSERT INTO counterparty_runs (counterparty_id, period_start, period_end)
		VALUES ($1, $2, $3)
	`, counterpartyID, from, to)
	if err != nil {
		pqErr, ok := err.(*pq.Error)
		if ok && pqErr.Code.Name() == "foreign_key_violation" {
			return apierror.NewAPIError(apierror.ErrNotFound, "Counterparty does not exist", err)
		}
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to record counterparty run", err)
	}

	return nil
}

// CountDistinctCounterpartyRuns counts the distinct counterparties that have
// ever been reconciled.
func (d Datasource) CountDistinctCounterpartyRuns(ctx context.Context) (int64, error) {
	ctx, span := otel.Tracer("Counterparty").Start(ctx, "Counting distinct counterparty runs")
	defer span.End()

	var count int64
	err := d.Conn.QueryRowContext(ctx, `
		SELECT COUNT(DISTINCT counterparty_id)
		FROM counterparty_runs
	`).Scan(&count)
	if err != nil {
		return 0, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to count counterparty runs", err)
	}

	return count, nil
}
