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

package model

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestGenerateUUIDWithSuffix(t *testing.T) {
	id := GenerateUUIDWithSuffix("rpt")
	assert.True(t, strings.HasPrefix(id, "rpt_"))
	assert.NotEqual(t, id, GenerateUUIDWithSuffix("rpt"))
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(StatusDraft, StatusInProgress))
	assert.True(t, CanTransition(StatusDraft, StatusCompleted))
	assert.True(t, CanTransition(StatusDraft, StatusCancelled))
	assert.True(t, CanTransition(StatusInProgress, StatusCompleted))
	assert.True(t, CanTransition(StatusInProgress, StatusCancelled))

	assert.False(t, CanTransition(StatusCompleted, StatusInProgress))
	assert.False(t, CanTransition(StatusCompleted, StatusCancelled))
	assert.False(t, CanTransition(StatusCancelled, StatusDraft))
	assert.False(t, CanTransition(StatusInProgress, StatusDraft))
}

func TestRecompute_BalanceIdentity(t *testing.T) {
	report := &ReconciliationReport{
		BookBalance:      decimal.NewFromInt(10000),
		StatementBalance: decimal.NewFromInt(9500),
	}
	report.Recompute()
	assert.True(t, report.ReconciledBalance.Equal(decimal.NewFromInt(10000)))
	assert.True(t, report.Variance.Equal(decimal.NewFromInt(500)))

	// Unreconciled items do not move the reconciled balance.
	report.Items = append(report.Items, ReconciliationItem{
		Amount: decimal.NewFromInt(150),
		Type:   ItemOutstandingCheck,
	})
	report.Recompute()
	assert.True(t, report.ReconciledBalance.Equal(decimal.NewFromInt(10000)))
	assert.True(t, report.Variance.Equal(decimal.NewFromInt(500)))

	// Reconciled items fold in.
	report.Items[0].IsReconciled = true
	report.Recompute()
	assert.True(t, report.ReconciledBalance.Equal(decimal.NewFromInt(10150)))
	assert.True(t, report.Variance.Equal(decimal.NewFromInt(-650)))

	// Adjustments fold in signed by direction.
	report.Adjustments = append(report.Adjustments, ReconciliationAdjustment{
		Amount:    decimal.NewFromInt(650),
		Direction: AdjustmentDecrease,
	})
	report.Recompute()
	assert.True(t, report.ReconciledBalance.Equal(decimal.NewFromInt(9500)))
	assert.True(t, report.Variance.IsZero())
}

func TestSignedAmount(t *testing.T) {
	increase := ReconciliationAdjustment{Amount: decimal.NewFromInt(75), Direction: AdjustmentIncrease}
	decrease := ReconciliationAdjustment{Amount: decimal.NewFromInt(75), Direction: AdjustmentDecrease}
	assert.True(t, increase.SignedAmount().Equal(decimal.NewFromInt(75)))
	assert.True(t, decrease.SignedAmount().Equal(decimal.NewFromInt(-75)))
}

func TestUnreconciledCount(t *testing.T) {
	report := &ReconciliationReport{
		Items: []ReconciliationItem{
			{IsReconciled: true},
			{IsReconciled: false},
			{IsReconciled: false},
		},
	}
	assert.Equal(t, 2, report.UnreconciledCount())
}

func TestAccountingPeriod(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)

	period := NewAccountingPeriod(start, end)
	assert.True(t, period.Valid())
	assert.Equal(t, 2025, period.FiscalYear)

	assert.True(t, period.Contains(start))
	assert.True(t, period.Contains(end))
	assert.True(t, period.Contains(start.AddDate(0, 0, 15)))
	assert.False(t, period.Contains(end.AddDate(0, 0, 1)))

	inverted := NewAccountingPeriod(end, start)
	assert.False(t, inverted.Valid())

	// Zero-length periods are legal.
	single := NewAccountingPeriod(start, start)
	assert.True(t, single.Valid())
}

func TestDebitNormal(t *testing.T) {
	assert.True(t, (&Account{Type: AccountTypeAsset}).DebitNormal())
	assert.True(t, (&Account{Type: AccountTypeExpense}).DebitNormal())
	assert.False(t, (&Account{Type: AccountTypeLiability}).DebitNormal())
	assert.False(t, (&Account{Type: AccountTypeEquity}).DebitNormal())
	assert.False(t, (&Account{Type: AccountTypeRevenue}).DebitNormal())
}

func TestValidItemType(t *testing.T) {
	assert.True(t, ValidItemType(ItemOutstandingCheck))
	assert.True(t, ValidItemType(ItemBankFee))
	assert.False(t, ValidItemType("wire_transfer"))
	assert.False(t, ValidItemType(""))
}
