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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/reckon-ledger/reckon/internal/apierror"
	"github.com/reckon-ledger/reckon/model"
)

const sampleCSV = `Description,Amount,Date,Reference
Outstanding check #1042,150,2026-01-15,CHK1042
Bank service fee,-25,2026-01-31,FEE01
Deposit in transit,900,2026-01-30,DEP88
`

func TestParseStatement_CSV(t *testing.T) {
	newTestReckon(t) // installs the mock config

	entries, err := ParseStatement([]byte(sampleCSV), "january.csv")
	assert.NoError(t, err)
	assert.Len(t, entries, 3)
	assert.Equal(t, "Outstanding check #1042", entries[0].Description)
	assert.True(t, entries[0].Amount.Equal(dec(150)))
	assert.Equal(t, "CHK1042", entries[0].Reference)
	assert.Equal(t, 2026, entries[0].Date.Year())
	assert.True(t, entries[1].Amount.Equal(dec(-25)))
}

func TestParseStatement_JSON(t *testing.T) {
	newTestReckon(t)

	payload := `[{"description":"Bank service fee","amount":"-25","reference":"FEE01","date":"2026-01-31T00:00:00Z"}]`
	entries, err := ParseStatement([]byte(payload), "january.json")
	assert.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.True(t, entries[0].Amount.Equal(dec(-25)))
}

func TestParseStatement_MissingColumn(t *testing.T) {
	newTestReckon(t)

	_, err := ParseStatement([]byte("Description,Reference\nfee,F1\n"), "bad.csv")
	assert.Error(t, err)
	assert.Equal(t, apierror.ErrInvalidInput, apierror.CodeOf(err))
}

func TestParseStatement_SniffsContentWithoutExtension(t *testing.T) {
	newTestReckon(t)

	entries, err := ParseStatement([]byte(sampleCSV), "statement")
	assert.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestSuggestItems_SkipsMatches(t *testing.T) {
	existing := []model.ReconciliationItem{
		{Description: "Outstanding check #1042", Amount: dec(150)},
	}
	entries := []model.StatementEntry{
		{Description: "OUTSTANDING CHECK #1042", Amount: dec(150)},
		{Description: "outstanding check 1042", Amount: dec(150)},
		{Description: "Bank service fee", Amount: dec(-25)},
		{Description: "Outstanding check #1042", Amount: dec(151)}, // amount differs
	}

	unmatched := SuggestItems(entries, existing)
	assert.Len(t, unmatched, 2)
	assert.Equal(t, "Bank service fee", unmatched[0].Description)
	assert.True(t, unmatched[1].Amount.Equal(dec(151)))
}

func TestSuggestItems_ReconciledItemsStillMatch(t *testing.T) {
	existing := []model.ReconciliationItem{
		{Description: "Outstanding check #1042", Amount: dec(150), IsReconciled: true},
	}
	entries := []model.StatementEntry{
		{Description: "Outstanding check #1042", Amount: dec(150)},
		{Description: "Bank service fee", Amount: dec(-25)},
	}

	// Re-uploading a statement after its items were reconciled must not
	// resurrect them as new items.
	unmatched := SuggestItems(entries, existing)
	assert.Len(t, unmatched, 1)
	assert.Equal(t, "Bank service fee", unmatched[0].Description)
}

func TestUploadStatement_CreatesOnlyUnmatchedItems(t *testing.T) {
	engine, mockDS := newTestReckon(t)
	ctx := context.Background()

	report := &model.ReconciliationReport{
		ReportID: "rpt_1",
		Status:   model.StatusInProgress,
		Version:  1,
		Items: []model.ReconciliationItem{
			{ItemID: "itm_1", Description: "Outstanding check #1042", Amount: dec(150)},
		},
	}
	expectBareReport(mockDS, report)
	mockDS.On("RecordReconciliationItem", mock.Anything, mock.Anything).Return(nil)

	created, err := engine.UploadStatement(ctx, "rpt_1", strings.NewReader(sampleCSV), "january.csv", "jane")
	assert.NoError(t, err)
	assert.Len(t, created, 2, "the matched check must not be duplicated")
	for _, item := range created {
		assert.Equal(t, model.ItemTimingDifference, item.Type)
		assert.False(t, item.IsReconciled)
	}
	mockDS.AssertNumberOfCalls(t, "RecordReconciliationItem", 2)
}

func TestUploadStatement_RejectsCompletedReport(t *testing.T) {
	engine, mockDS := newTestReckon(t)
	ctx := context.Background()

	report := &model.ReconciliationReport{
		ReportID: "rpt_done",
		Status:   model.StatusCompleted,
		Version:  1,
	}
	expectBareReport(mockDS, report)

	_, err := engine.UploadStatement(ctx, "rpt_done", strings.NewReader(sampleCSV), "january.csv", "jane")
	assert.Error(t, err)
	assert.Equal(t, apierror.ErrInvalidInput, apierror.CodeOf(err))
}
