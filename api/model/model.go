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
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/reckon-ledger/reckon/model"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const dateLayout = "2006-01-02"

func validateDateFormat(value interface{}) error {
	dateStr, ok := value.(string)
	if !ok {
		return errors.New("invalid type for date")
	}
	if _, err := time.Parse(dateLayout, dateStr); err != nil {
		return errors.New("please format the date as 'YYYY-MM-DD' (e.g., 2026-01-31)")
	}
	return nil
}

// CreateReconciliation opens a draft report for an account over a period.
type CreateReconciliation struct {
	AccountID        string          `json:"account_id"`
	StartDate        string          `json:"start_date"`
	EndDate          string          `json:"end_date"`
	StatementBalance decimal.Decimal `json:"statement_balance"`
	Notes            string          `json:"notes"`
	PerformedBy      string          `json:"performed_by"`
}

func (r *CreateReconciliation) ValidateCreateReconciliation() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.AccountID, validation.Required),
		validation.Field(&r.StartDate, validation.Required, validation.By(validateDateFormat)),
		validation.Field(&r.EndDate, validation.Required, validation.By(validateDateFormat)),
	)
}

// Period converts the validated date strings into an accounting period.
func (r *CreateReconciliation) Period() model.AccountingPeriod {
	start, _ := time.Parse(dateLayout, r.StartDate)
	end, _ := time.Parse(dateLayout, r.EndDate)
	return model.NewAccountingPeriod(start, end)
}

// TransitionReconciliation drives start and cancel; complete adds an override.
type TransitionReconciliation struct {
	PerformedBy string `json:"performed_by"`
}

type CompleteReconciliation struct {
	Override    bool   `json:"override"`
	PerformedBy string `json:"performed_by"`
}

// AddReconciliationItem attaches one variance explanation to a report.
type AddReconciliationItem struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type"`
	Notes       string          `json:"notes"`
	PerformedBy string          `json:"performed_by"`
}

func (i *AddReconciliationItem) ValidateAddReconciliationItem() error {
	return validation.ValidateStruct(i,
		validation.Field(&i.Description, validation.Required),
		validation.Field(&i.Type, validation.Required, validation.In(
			model.ItemOutstandingCheck, model.ItemDepositInTransit, model.ItemBankFee, model.ItemTimingDifference)),
	)
}

// AddAdjustment applies a correcting entry to a report.
type AddAdjustment struct {
	Amount      decimal.Decimal `json:"amount"`
	Direction   string          `json:"direction"`
	Reason      string          `json:"reason"`
	PerformedBy string          `json:"performed_by"`
}

func (a *AddAdjustment) ValidateAddAdjustment() error {
	return validation.ValidateStruct(a,
		validation.Field(&a.Direction, validation.Required, validation.In(
			model.AdjustmentIncrease, model.AdjustmentDecrease)),
		validation.Field(&a.Reason, validation.Required),
	)
}

// ReconcileCounterparty compares a counterparty's reported balance against the
// books over a period.
type ReconcileCounterparty struct {
	StartDate        string          `json:"start_date"`
	EndDate          string          `json:"end_date"`
	StatementBalance decimal.Decimal `json:"statement_balance"`
}

func (r *ReconcileCounterparty) ValidateReconcileCounterparty() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.StartDate, validation.Required, validation.By(validateDateFormat)),
		validation.Field(&r.EndDate, validation.Required, validation.By(validateDateFormat)),
	)
}

func (r *ReconcileCounterparty) Period() model.AccountingPeriod {
	start, _ := time.Parse(dateLayout, r.StartDate)
	end, _ := time.Parse(dateLayout, r.EndDate)
	return model.NewAccountingPeriod(start, end)
}
