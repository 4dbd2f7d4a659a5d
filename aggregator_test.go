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
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/reckon-ledger/reckon/internal/apierror"
	"github.com/reckon-ledger/reckon/model"
)

func TestComputeBookBalance_DebitNormal(t *testing.T) {
	engine, mockDS := newTestReckon(t)
	ctx := context.Background()
	period := testPeriod()

	mockDS.On("GetAccountByID", mock.Anything, "acc_cash").Return(&model.Account{
		AccountID: "acc_cash",
		Type:      model.AccountTypeAsset,
	}, nil)
	mockDS.On("GetLedgerMovements", mock.Anything, "acc_cash", period.StartDate, period.EndDate).Return([]model.LedgerMovement{
		{Debit: dec(1000), Credit: dec(0)},
		{Debit: dec(0), Credit: dec(300)},
		{Debit: dec(50), Credit: dec(0)},
	}, nil)

	balance, err := engine.ComputeBookBalance(ctx, "acc_cash", period)
	assert.NoError(t, err)
	assert.True(t, balance.Equal(dec(750)), "expected 750, got %s", balance)
	mockDS.AssertExpectations(t)
}

func TestComputeBookBalance_CreditNormalFlipsSign(t *testing.T) {
	engine, mockDS := newTestReckon(t)
	ctx := context.Background()
	period := testPeriod()

	mockDS.On("GetAccountByID", mock.Anything, "acc_payable").Return(&model.Account{
		AccountID: "acc_payable",
		Type:      model.AccountTypeLiability,
	}, nil)
	mockDS.On("GetLedgerMovements", mock.Anything, "acc_payable", period.StartDate, period.EndDate).Return([]model.LedgerMovement{
		{Debit: dec(200), Credit: dec(900)},
	}, nil)

	balance, err := engine.ComputeBookBalance(ctx, "acc_payable", period)
	assert.NoError(t, err)
	assert.True(t, balance.Equal(dec(700)), "expected 700, got %s", balance)
}

func TestComputeBookBalance_EmptyPeriodIsZero(t *testing.T) {
	engine, mockDS := newTestReckon(t)
	ctx := context.Background()
	period := testPeriod()

	mockDS.On("GetAccountByID", mock.Anything, "acc_cash").Return(&model.Account{
		AccountID: "acc_cash",
		Type:      model.AccountTypeAsset,
	}, nil)
	mockDS.On("GetLedgerMovements", mock.Anything, "acc_cash", period.StartDate, period.EndDate).Return([]model.LedgerMovement{}, nil)

	balance, err := engine.ComputeBookBalance(ctx, "acc_cash", period)
	assert.NoError(t, err)
	assert.True(t, balance.IsZero())
}

func TestComputeBookBalance_AccountMissing(t *testing.T) {
	engine, mockDS := newTestReckon(t)
	ctx := context.Background()

	mockDS.On("GetAccountByID", mock.Anything, "acc_missing").
		Return(nil, apierror.NewAPIError(apierror.ErrNotFound, "Account not found", nil))

	_, err := engine.ComputeBookBalance(ctx, "acc_missing", testPeriod())
	assert.Error(t, err)
	assert.Equal(t, apierror.ErrNotFound, apierror.CodeOf(err))
	mockDS.AssertNotCalled(t, "GetLedgerMovements", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestComputeBookBalance_InvalidPeriod(t *testing.T) {
	engine, _ := newTestReckon(t)
	ctx := context.Background()

	period := model.AccountingPeriod{
		StartDate: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	_, err := engine.ComputeBookBalance(ctx, "acc_cash", period)
	assert.Error(t, err)
	assert.Equal(t, apierror.ErrInvalidInput, apierror.CodeOf(err))
}
