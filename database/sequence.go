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
	"fmt"

	"go.opentelemetry.io/otel"

	"github.com/reckon-ledger/reckon/internal/apierror"
)

// NextReportNumber allocates the next report number for a fiscal year, in the
// form RECON-{year}-{seq}. The upsert increments the counter row atomically,
// so concurrent allocations for the same year never collide.
func (d Datasource) NextReportNumber(ctx context.Context, fiscalYear int) (string, error) {
	ctx, span := otel.Tracer("Reconciliation").Start(ctx, "Allocating report number")
	defer span.End()

	var seq int
	err := d.Conn.QueryRowContext(ctx, `
		INSERT INTO report_sequences (fiscal_year, last_seq)
		VALUES ($1, 1)
		ON CONFLICT (fiscal_year)
		DO UPDATE SET last_seq = report_sequences.last_seq + 1
		RETURNING last_seq
	`, fiscalYear).Scan(&seq)
	if err != nil {
		return "", apierror.NewAPIError(apierror.ErrInternalServer, "Failed to allocate report number", err)
	}

	return fmt.Sprintf("RECON-%d-%04d", fiscalYear, seq), nil
}
