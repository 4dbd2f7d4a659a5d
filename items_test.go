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

func TestAddReconciliationItem(t *testing.T) {
	engine, mockDS := newTestReckon(t)
	ctx := context.Background()

	report := &model.ReconciliationReport{
		ReportID: "rpt_1",
		Status:   model.StatusInProgress,
		Version:  1,
	}
	mockDS.On("GetReconciliationReport", mock.Anything, "rpt_1").Return(report, nil)
	mockDS.On("RecordReconciliationItem", mock.Anything, mock.Anything).Return(nil)

	item, err := engine.AddReconciliationItem(ctx, "rpt_1", "Outstanding check #1042", dec(150), model.ItemOutstandingCheck, "", "jane")
	assert.NoError(t, err)
	assert.Contains(t, item.ItemID, "itm_")
	assert.False(t, item.IsReconciled)
	assert.Nil(t, item.ReconciledDate)
	// Adding an item must not touch the report's derived balances.
	mockDS.AssertNotCalled(t, "UpdateReconciliationReport", mock.Anything, mock.Anything, mock.Anything)
}

func TestAddReconciliationItem_Validation(t *testing.T) {
	engine, _ := newTestReckon(t)
	ctx := context.Background()

	_, err := engine.AddReconciliationItem(ctx, "rpt_1", "", dec(150), model.ItemBankFee, "", "jane")
	assert.Equal(t, apierror.ErrInvalidInput, apierror.CodeOf(err))

	_, err = engine.AddReconciliationItem(ctx, "rpt_1", "fee", dec(0), model.ItemBankFee, "", "jane")
	assert.Equal(t, apierror.ErrInvalidInput, apierror.CodeOf(err))

	_, err = engine.AddReconciliationItem(ctx, "rpt_1", "fee", dec(10), "mystery_type", "", "jane")
	assert.Equal(t, apierror.ErrInvalidInput, apierror.CodeOf(err))
}

func TestAddReconciliationItem_CompletedReport(t *testing.T) {
	engine, mockDS := newTestReckon(t)
	ctx := context.Background()

	report := &model.ReconciliationReport{
		ReportID: "rpt_done",
		Status:   model.StatusCompleted,
		Version:  2,
	}
	mockDS.On("GetReconciliationReport", mock.Anything, "rpt_done").Return(report, nil)

	_, err := engine.AddReconciliationItem(ctx, "rpt_done", "late fee", dec(10), model.ItemBankFee, "", "jane")
	assert.Error(t, err)
	assert.Equal(t, apierror.ErrInvalidInput, apierror.CodeOf(err))
	mockDS.AssertNotCalled(t, "RecordReconciliationItem", mock.Anything, mock.Anything)
}

func TestReconcileItem_FoldsIntoBalance(t *testing.T) {
	engine, mockDS := newTestReckon(t)
	ctx := context.Background()

	item := &model.ReconciliationItem{
		ItemID:   "itm_1",
		ReportID: "rpt_1",
		Amount:   dec(150),
		Type:     model.ItemOutstandingCheck,
	}
	report := &model.ReconciliationReport{
		ReportID:         "rpt_1",
		Status:           model.StatusInProgress,
		BookBalance:      dec(10000),
		StatementBalance: dec(9500),
		Version:          1,
		Items:            []model.ReconciliationItem{*item},
	}

	mockDS.On("GetReconciliationItem", mock.Anything, "itm_1").Return(item, nil)
	expectBareReport(mockDS, report)
	mockDS.On("UpdateReconciliationItem", mock.Anything, mock.Anything).Return(nil)

	var persisted *model.ReconciliationReport
	mockDS.On("UpdateReconciliationReport", mock.Anything, mock.Anything, 1).
		Run(func(args mock.Arguments) {
			persisted = args.Get(1).(*model.ReconciliationReport)
		}).Return(nil)

	reconciled, err := engine.ReconcileItem(ctx, "itm_1", "jane")
	assert.NoError(t, err)
	assert.True(t, reconciled.IsReconciled)
	assert.NotNil(t, reconciled.ReconciledDate)
	assert.True(t, persisted.ReconciledBalance.Equal(dec(10150)))
	assert.True(t, persisted.Variance.Equal(dec(-650)))
}

func TestReconcileItem_NegativeAmountLowersBalance(t *testing.T) {
	engine, mockDS := newTestReckon(t)
	ctx := context.Background()

	item := &model.ReconciliationItem{
		ItemID:   "itm_fee",
		ReportID: "rpt_1",
		Amount:   dec(-25),
		Type:     model.ItemBankFee,
	}
	report := &model.ReconciliationReport{
		ReportID:         "rpt_1",
		Status:           model.StatusInProgress,
		BookBalance:      dec(1000),
		StatementBalance: dec(975),
		Version:          1,
		Items:            []model.ReconciliationItem{*item},
	}

	mockDS.On("GetReconciliationItem", mock.Anything, "itm_fee").Return(item, nil)
	expectBareReport(mockDS, report)
	mockDS.On("UpdateReconciliationItem", mock.Anything, mock.Anything).Return(nil)

	var persisted *model.ReconciliationReport
	mockDS.On("UpdateReconciliationReport", mock.Anything, mock.Anything, 1).
		Run(func(args mock.Arguments) {
			persisted = args.Get(1).(*model.ReconciliationReport)
		}).Return(nil)

	_, err := engine.ReconcileItem(ctx, "itm_fee", "jane")
	assert.NoError(t, err)
	assert.True(t, persisted.ReconciledBalance.Equal(dec(975)))
	assert.True(t, persisted.Variance.IsZero())
}

func TestReconcileItem_ReportConflictSurfaces(t *testing.T) {
	engine, mockDS := newTestReckon(t)
	ctx := context.Background()

	item := &model.ReconciliationItem{
		ItemID:   "itm_1",
		ReportID: "rpt_1",
		Amount:   dec(150),
		Type:     model.ItemOutstandingCheck,
	}
	report := &model.ReconciliationReport{
		ReportID:         "rpt_1",
		Status:           model.StatusInProgress,
		BookBalance:      dec(10000),
		StatementBalance: dec(10150),
		Version:          2,
		Items:            []model.ReconciliationItem{*item},
	}

	mockDS.On("GetReconciliationItem", mock.Anything, "itm_1").Return(item, nil)
	expectBareReport(mockDS, report)
	mockDS.On("UpdateReconciliationItem", mock.Anything, mock.Anything).Return(nil)
	mockDS.On("UpdateReconciliationReport", mock.Anything, mock.Anything, 2).
		Return(apierror.NewAPIError(apierror.ErrConflict, "Reconciliation report was modified concurrently", nil))

	// The item flip lands first; a version conflict on the report update
	// surfaces to the caller and the derived fields heal on the next
	// recompute-carrying mutation.
	_, err := engine.ReconcileItem(ctx, "itm_1", "jane")
	assert.Error(t, err)
	assert.Equal(t, apierror.ErrConflict, apierror.CodeOf(err))
	mockDS.AssertCalled(t, "UpdateReconciliationItem", mock.Anything, mock.Anything)
}

func TestReconcileItem_AlreadyReconciledIsNoOp(t *testing.T) {
	engine, mockDS := newTestReckon(t)
	ctx := context.Background()

	when := time.Now()
	item := &model.ReconciliationItem{
		ItemID:         "itm_1",
		ReportID:       "rpt_1",
		Amount:         dec(150),
		IsReconciled:   true,
		ReconciledDate: &when,
	}
	mockDS.On("GetReconciliationItem", mock.Anything, "itm_1").Return(item, nil)

	reconciled, err := engine.ReconcileItem(ctx, "itm_1", "jane")
	assert.NoError(t, err)
	assert.True(t, reconciled.IsReconciled)
	assert.Equal(t, &when, reconciled.ReconciledDate)
	// No recompute, no writes: the amount must not be double-counted.
	mockDS.AssertNotCalled(t, "UpdateReconciliationItem", mock.Anything, mock.Anything)
	mockDS.AssertNotCalled(t, "UpdateReconciliationReport", mock.Anything, mock.Anything, mock.Anything)
}
