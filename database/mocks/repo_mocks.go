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
package mocks

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/reckon-ledger/reckon/database"
	"github.com/reckon-ledger/reckon/model"
)

// MockDataSource is a mock implementation of the IDataSource interface
type MockDataSource struct {
	mock.Mock
}

// Account methods

func (m *MockDataSource) GetAccountByID(ctx context.Context, id string) (*model.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Account), args.Error(1)
}

// Ledger methods

func (m *MockDataSource) GetLedgerMovements(ctx context.Context, accountID string, from, to time.Time) ([]model.LedgerMovement, error) {
	args := m.Called(ctx, accountID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.LedgerMovement), args.Error(1)
}

func (m *MockDataSource) RecordJournalEntry(ctx context.Context, entry *model.JournalEntry) (string, error) {
	args := m.Called(ctx, entry)
	return args.String(0), args.Error(1)
}

// Reconciliation methods

func (m *MockDataSource) RecordReconciliationReport(ctx context.Context, report *model.ReconciliationReport) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *MockDataSource) GetReconciliationReport(ctx context.Context, id string) (*model.ReconciliationReport, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ReconciliationReport), args.Error(1)
}

func (m *MockDataSource) GetReconciliationReports(ctx context.Context, filter model.ReconciliationFilter) ([]*model.ReconciliationReport, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*model.ReconciliationReport), args.Get(1).(int64), args.Error(2)
}

func (m *MockDataSource) UpdateReconciliationReport(ctx context.Context, report *model.ReconciliationReport, expectedVersion int) error {
	args := m.Called(ctx, report, expectedVersion)
	return args.Error(0)
}

func (m *MockDataSource) RecordReconciliationItem(ctx context.Context, item *model.ReconciliationItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockDataSource) GetReconciliationItem(ctx context.Context, id string) (*model.ReconciliationItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ReconciliationItem), args.Error(1)
}

func (m *MockDataSource) UpdateReconciliationItem(ctx context.Context, item *model.ReconciliationItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockDataSource) GetReconciliationItems(ctx context.Context, reportID string) ([]model.ReconciliationItem, error) {
	args := m.Called(ctx, reportID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ReconciliationItem), args.Error(1)
}

func (m *MockDataSource) RecordReconciliationAdjustment(ctx context.Context, adjustment *model.ReconciliationAdjustment) error {
	args := m.Called(ctx, adjustment)
	return args.Error(0)
}

func (m *MockDataSource) GetReconciliationAdjustments(ctx context.Context, reportID string) ([]model.ReconciliationAdjustment, error) {
	args := m.Called(ctx, reportID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ReconciliationAdjustment), args.Error(1)
}

func (m *MockDataSource) GetReconciliationStatRows(ctx context.Context) ([]database.StatRow, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]database.StatRow), args.Error(1)
}

// Sequence methods

func (m *MockDataSource) NextReportNumber(ctx context.Context, fiscalYear int) (string, error) {
	args := m.Called(ctx, fiscalYear)
	return args.String(0), args.Error(1)
}

// Counterparty methods

func (m *MockDataSource) GetCounterpartyByID(ctx context.Context, id string) (*model.Counterparty, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Counterparty), args.Error(1)
}

func (m *MockDataSource) SumInvoices(ctx context.Context, counterpartyID string, from, to time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, counterpartyID, from, to)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockDataSource) SumPayments(ctx context.Context, counterpartyID string, from, to time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, counterpartyID, from, to)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockDataSource) RecordCounterpartyRun(ctx context.Context, counterpartyID string, from, to time.Time) error {
	args := m.Called(ctx, counterpartyID, from, to)
	return args.Error(0)
}

func (m *MockDataSource) CountDistinctCounterpartyRuns(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
