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

	"github.com/shopspring/decimal"

	"github.com/reckon-ledger/reckon/model"
)

// IDataSource defines the interface for data source operations, grouping related functionalities.
type IDataSource interface {
	account        // Interface for chart-of-accounts reads
	ledger         // Interface for ledger movement reads and journal writes
	reconciliation // Interface for reconciliation reports, items and adjustments
	sequence       // Interface for report number allocation
	counterparty   // Interface for counterparty balance sources
}

// account defines read access to the chart of accounts. The reconciliation
// core never writes accounts.
type account interface {
	GetAccountByID(ctx context.Context, id string) (*model.Account, error) // Retrieves an account by ID
}

// ledger defines the read port for raw movements and the write port for
// adjustment journal entries.
type ledger interface {
	GetLedgerMovements(ctx context.Context, accountID string, from, to time.Time) ([]model.LedgerMovement, error) // Retrieves movements within a period, bounds inclusive
	RecordJournalEntry(ctx context.Context, entry *model.JournalEntry) (string, error)                            // Records a correcting journal entry, returns its reference
}

// reconciliation defines methods for handling reconciliation reports and
// their child entities.
type reconciliation interface {
	RecordReconciliationReport(ctx context.Context, report *model.ReconciliationReport) error                                 // Records a new reconciliation report
	GetReconciliationReport(ctx context.Context, id string) (*model.ReconciliationReport, error)                              // Retrieves a bare report by ID (no children)
	GetReconciliationReports(ctx context.Context, filter model.ReconciliationFilter) ([]*model.ReconciliationReport, int64, error) // Retrieves reports with pagination and the total count
	UpdateReconciliationReport(ctx context.Context, report *model.ReconciliationReport, expectedVersion int) error            // Persists derived fields and status, guarded by the version counter
	RecordReconciliationItem(ctx context.Context, item *model.ReconciliationItem) error                                       // Records a new reconciliation item
	GetReconciliationItem(ctx context.Context, id string) (*model.ReconciliationItem, error)                                  // Retrieves an item by ID
	UpdateReconciliationItem(ctx context.Context, item *model.ReconciliationItem) error                                       // Persists an item's reconciled flag and date
	GetReconciliationItems(ctx context.Context, reportID string) ([]model.ReconciliationItem, error)                          // Retrieves all items of a report
	RecordReconciliationAdjustment(ctx context.Context, adjustment *model.ReconciliationAdjustment) error                     // Records an immutable adjustment
	GetReconciliationAdjustments(ctx context.Context, reportID string) ([]model.ReconciliationAdjustment, error)              // Retrieves all adjustments of a report
	GetReconciliationStatRows(ctx context.Context) ([]StatRow, error)                                                         // Retrieves the per-report rows the summary is computed from
}

// sequence allocates report numbers. Implementations must be collision-free
// under concurrent allocation for the same fiscal year.
type sequence interface {
	NextReportNumber(ctx context.Context, fiscalYear int) (string, error)
}

// counterparty defines the balance sources for supplier/customer
// reconciliation.
type counterparty interface {
	GetCounterpartyByID(ctx context.Context, id string) (*model.Counterparty, error)                         // Retrieves a counterparty by ID
	SumInvoices(ctx context.Context, counterpartyID string, from, to time.Time) (decimal.Decimal, error)     // Sums invoice totals within a period
	SumPayments(ctx context.Context, counterpartyID string, from, to time.Time) (decimal.Decimal, error)     // Sums payment totals within a period
	RecordCounterpartyRun(ctx context.Context, counterpartyID string, from, to time.Time) error              // Records that a counterparty reconciliation ran, for summary stats
	CountDistinctCounterpartyRuns(ctx context.Context) (int64, error)                                        // Counts distinct counterparties ever reconciled
}
