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

	"go.opentelemetry.io/otel"

	"github.com/reckon-ledger/reckon/internal/apierror"
	"github.com/reckon-ledger/reckon/model"
)

// GetAccountByID retrieves an account from the chart of accounts by its ID
func (d Datasource) GetAccountByID(ctx context.Context, id string) (*model.Account, error) {
	ctx, span := otel.Tracer("Account").Start(ctx, "Fetching account from db")
	defer span.End()

	account := &model.Account{}
	err := d.Conn.QueryRowContext(ctx, `
		SELECT id, account_id, code, name, type, category, balance, is_active, created_at
		FROM accounts
		WHERE account_id = $1
	`, id).Scan(
		&account.ID, &account.AccountID, &account.Code, &account.Name,
		&account.Type, &account.Category, &account.Balance, &account.IsActive, &account.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, "Account not found", err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve account", err)
	}

	return account, nil
}
