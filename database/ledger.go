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
	"time"

	"github.com/lib/pq"
	"go.opentelemetry.io/otel"

	"github.com/reckon-ledger/reckon/internal/apierror"
	"github.com/reckon-ledger/reckon/model"
)

// GetLedgerMovements retrieves an account's raw movements within a period,
// bounds inclusive, oldest first.
func (d Datasource) GetLedgerMovements(ctx context.Context, accountID string, from, to time.Time) ([]model.LedgerMovement, error) {
	ctx, span := otel.Tracer("Ledger").Start(ctx, "Fetching ledger movements from db")
	defer span.End()

	rows, err := d.Conn.QueryContext(ctx, `
		SELECT movement_id, account_id, debit, credit, description, date
		FROM ledger_movements
		WHERE account_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date ASC
	`, accountID, from, to)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve ledger movements", err)
	}
	defer rows.Close()

	movements := []model.LedgerMovement{}

	for rows.Next() {
		movement := model.LedgerMovement{}
		err = rows.Scan(
			&movement.MovementID, &movement.AccountID, &movement.Debit,
			&movement.Credit, &movement.Description, &movement.Date,
		)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan ledger movement data", err)
		}

		movements = append(movements, movement)
	}

	if err = rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Error occurred while iterating over ledger movements", err)
	}

	return movements, nil
}

// RecordJournalEntry writes a correcting journal entry and returns its
// reference.
func (d Datasource) RecordJournalEntry(ctx context.Context, entry *model.JournalEntry) (string, error) {
	ctx, span := otel.Tracer("Ledger").Start(ctx, "Saving journal entry to db")
	defer span.End()

	if entry.EntryID == "" {
		entry.EntryID = model.GenerateUUIDWithSuffix("jrn")
	}
	if entry.Date.IsZero() {
		entry.Date = time.Now()
	}

	_, err := d.Conn.ExecContext(ctx,
		`INSERT INTO journal_entries(
			entry_id, account_id, amount, direction, description, date
		) VALUES ($1, $2, $3, $4, $5, $6)`,
		entry.EntryID, entry.AccountID, entry.Amount, entry.Direction, entry.Description, entry.Date,
	)

	if err != nil {
		pqErr, ok := err.(*pq.Error)
		if ok {
			switch pqErr.Code.Name() {
			case "unique_violation":
				return "", apierror.NewAPIError(apierror.ErrConflict, "Journal entry with this ID already exists", err)
			case "foreign_key_violation":
				return "", apierror.NewAPIError(apierror.ErrNotFound, "Account does not exist", err)
			default:
				return "", apierror.NewAPIError(apierror.ErrInternalServer, "Database error occurred", err)
			}
		}
		return "", apierror.NewAPIError(apierror.ErrInternalServer, "Failed to create journal entry", err)
	}

	return entry.EntryID, nil
}
