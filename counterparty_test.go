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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/reckon-ledger/reckon/internal/apierror"
	"github.com/reckon-ledger/reckon/model"
)

func TestReconcileCounterpartyBalances_Balanced(t *testing.T) {
	engine, mockDS := newTestReckon(t)
	ctx := context.Background()
	period := testPeriod()

	mockDS.On("GetCounterpartyByID", mock.Anything, "cpt_1").Return(&model.Counterparty{
		CounterpartyID: "cpt_1",
		Name:           "Acme Supplies",
		Kind:           model.CounterpartySupplier,
	}, nil)
	mockDS.On("SumInvoices", mock.Anything, "cpt_1", period.StartDate, period.EndDate).Return(dec(5000), nil)
	mockDS.On("SumPayments", mock.Anything, "cpt_1", period.StartDate, period.EndDate).Return(dec(3000), nil)
	mockDS.On("RecordCounterpartyRun", mock.Anything, "cpt_1", period.StartDate, period.EndDate).Return(nil)

	result, err := engine.ReconcileCounterpartyBalances(ctx, "cpt_1", period, dec(2000))
	assert.NoError(t, err)
	assert.True(t, result.Balanced())
	assert.True(t, result.BookBalance.Equal(dec(2000)))
	assert.Empty(t, result.Discrepancies)
}

func TestReconcileCounterpartyBalances_AmountDifference(t *testing.T) {
	engine, mockDS := newTestReckon(t)
	ctx := context.Background()
	period := testPeriod()

	mockDS.On("GetCounterpartyByID", mock.Anything, "cpt_1").Return(&model.Counterparty{
		CounterpartyID: "cpt_1",
	}, nil)
	mockDS.On("SumInvoices", mock.Anything, "cpt_1", period.StartDate, period.EndDate).Return(dec(5000), nil)
	mockDS.On("SumPayments", mock.Anything, "cpt_1", period.StartDate, period.EndDate).Return(dec(3000), nil)
	mockDS.On("RecordCounterpartyRun", mock.Anything, "cpt_1", period.StartDate, period.EndDate).Return(nil)

	result, err := engine.ReconcileCounterpartyBalances(ctx, "cpt_1", period, dec(2500))
	assert.NoError(t, err)
	assert.False(t, result.Balanced())
	assert.Len(t, result.Discrepancies, 1)
	assert.Equal(t, model.DiscrepancyAmountDifference, result.Discrepancies[0].Type)
	assert.True(t, result.Discrepancies[0].CounterpartyAmount.Equal(dec(2500)))
	assert.True(t, result.Discrepancies[0].BookAmount.Equal(dec(2000)))
}

func TestReconcileCounterpartyBalances_Deterministic(t *testing.T) {
	engine, mockDS := newTestReckon(t)
	ctx := context.Background()
	period := testPeriod()

	mockDS.On("GetCounterpartyByID", mock.Anything, "cpt_1").Return(&model.Counterparty{CounterpartyID: "cpt_1"}, nil)
	mockDS.On("SumInvoices", mock.Anything, "cpt_1", period.StartDate, period.EndDate).Return(dec(100), nil)
	mockDS.On("SumPayments", mock.Anything, "cpt_1", period.StartDate, period.EndDate).Return(dec(40), nil)
	mockDS.On("RecordCounterpartyRun", mock.Anything, "cpt_1", period.StartDate, period.EndDate).Return(nil)

	first, err := engine.ReconcileCounterpartyBalances(ctx, "cpt_1", period, dec(55))
	assert.NoError(t, err)
	second, err := engine.ReconcileCounterpartyBalances(ctx, "cpt_1", period, dec(55))
	assert.NoError(t, err)
	assert.Equal(t, first.BookBalance, second.BookBalance)
	assert.Equal(t, len(first.Discrepancies), len(second.Discrepancies))
}

func TestReconcileCounterpartyBalances_Missing(t *testing.T) {
	engine, mockDS := newTestReckon(t)
	ctx := context.Background()

	mockDS.On("GetCounterpartyByID", mock.Anything, "cpt_ghost").
		Return(nil, apierror.NewAPIError(apierror.ErrNotFound, "Counterparty not found", nil))

	_, err := engine.ReconcileCounterpartyBalances(ctx, "cpt_ghost", testPeriod(), dec(10))
	assert.Error(t, err)
	assert.Equal(t, apierror.ErrNotFound, apierror.CodeOf(err))
}
