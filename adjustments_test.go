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

func TestAddAdjustment_FoldsImmediately(t *testing.T) {
	engine, mockDS := newTestReckon(t)
	ctx := context.Background()

	report := &model.ReconciliationReport{
		ReportID:         "rpt_1",
		ReportNumber:     "RECON-2026-0001",
		AccountID:        "acc_cash",
		Status:           model.StatusInProgress,
		BookBalance:      dec(10150),
		StatementBalance: dec(9500),
		Version:          1,
	}
	expectBareReport(mockDS, report)
	mockDS.On("RecordJournalEntry", mock.Anything, mock.Anything).Return("jrn_abc", nil)
	mockDS.On("RecordReconciliationAdjustment", mock.Anything, mock.Anything).Return(nil)

	var persisted *model.ReconciliationReport
	mockDS.On("UpdateReconciliationReport", mock.Anything, mock.Anything, 1).
		Run(func(args mock.Arguments) {
			persisted = args.Get(1).(*model.ReconciliationReport)
		}).Return(nil)

	adjustment, err := engine.AddAdjustment(ctx, "rpt_1", dec(650), model.AdjustmentDecrease, "Duplicate deposit entry", "jane")
	assert.NoError(t, err)
	assert.Contains(t, adjustment.AdjustmentID, "adj_")
	assert.Equal(t, "jrn_abc", adjustment.LedgerEntryRef)
	assert.Equal(t, "jane", adjustment.CreatedBy)
	assert.True(t, persisted.ReconciledBalance.Equal(dec(9500)))
	assert.True(t, persisted.Variance.IsZero())
}

func TestAddAdjustment_Validation(t *testing.T) {
	engine, _ := newTestReckon(t)
	ctx := context.Background()

	_, err := engine.AddAdjustment(ctx, "rpt_1", dec(0), model.AdjustmentIncrease, "reason", "jane")
	assert.Equal(t, apierror.ErrInvalidInput, apierror.CodeOf(err))

	_, err = engine.AddAdjustment(ctx, "rpt_1", dec(-5), model.AdjustmentIncrease, "reason", "jane")
	assert.Equal(t, apierror.ErrInvalidInput, apierror.CodeOf(err))

	_, err = engine.AddAdjustment(ctx, "rpt_1", dec(5), "sideways", "reason", "jane")
	assert.Equal(t, apierror.ErrInvalidInput, apierror.CodeOf(err))

	_, err = engine.AddAdjustment(ctx, "rpt_1", dec(5), model.AdjustmentIncrease, "", "jane")
	assert.Equal(t, apierror.ErrInvalidInput, apierror.CodeOf(err))
}

func TestAddAdjustment_ImmutableReport(t *testing.T) {
	engine, mockDS := newTestReckon(t)
	ctx := context.Background()

	report := &model.ReconciliationReport{
		ReportID: "rpt_done",
		Status:   model.StatusCancelled,
		Version:  2,
	}
	expectBareReport(mockDS, report)

	_, err := engine.AddAdjustment(ctx, "rpt_done", dec(100), model.AdjustmentIncrease, "late fix", "jane")
	assert.Error(t, err)
	assert.Equal(t, apierror.ErrInvalidInput, apierror.CodeOf(err))
	mockDS.AssertNotCalled(t, "RecordReconciliationAdjustment", mock.Anything, mock.Anything)
}

func TestReverseAdjustment(t *testing.T) {
	engine, mockDS := newTestReckon(t)
	ctx := context.Background()

	original := model.ReconciliationAdjustment{
		AdjustmentID: "adj_1",
		ReportID:     "rpt_1",
		Amount:       dec(650),
		Direction:    model.AdjustmentDecrease,
		Reason:       "Duplicate deposit entry",
	}
	report := &model.ReconciliationReport{
		ReportID:         "rpt_1",
		ReportNumber:     "RECON-2026-0001",
		AccountID:        "acc_cash",
		Status:           model.StatusInProgress,
		BookBalance:      dec(10000),
		StatementBalance: dec(9500),
		Version:          2,
		Adjustments:      []model.ReconciliationAdjustment{original},
	}

	// First lookup scans the report's adjustments, then AddAdjustment rehydrates.
	mockDS.On("GetReconciliationAdjustments", mock.Anything, "rpt_1").Return(report.Adjustments, nil)
	mockDS.On("GetReconciliationReport", mock.Anything, "rpt_1").Return(report, nil)
	mockDS.On("GetReconciliationItems", mock.Anything, "rpt_1").Return([]model.ReconciliationItem{}, nil)
	mockDS.On("RecordJournalEntry", mock.Anything, mock.Anything).Return("jrn_rev", nil)
	mockDS.On("RecordReconciliationAdjustment", mock.Anything, mock.Anything).Return(nil)
	mockDS.On("UpdateReconciliationReport", mock.Anything, mock.Anything, 2).Return(nil)

	reversal, err := engine.ReverseAdjustment(ctx, "rpt_1", "adj_1", "jane")
	assert.NoError(t, err)
	assert.Equal(t, model.AdjustmentIncrease, reversal.Direction)
	assert.True(t, reversal.Amount.Equal(dec(650)))
	assert.Contains(t, reversal.Reason, "Reversal of adj_1")
}

func TestReverseAdjustment_Missing(t *testing.T) {
	engine, mockDS := newTestReckon(t)
	ctx := context.Background()

	mockDS.On("GetReconciliationAdjustments", mock.Anything, "rpt_1").Return([]model.ReconciliationAdjustment{}, nil)

	_, err := engine.ReverseAdjustment(ctx, "rpt_1", "adj_ghost", "jane")
	assert.Error(t, err)
	assert.Equal(t, apierror.ErrNotFound, apierror.CodeOf(err))
}
