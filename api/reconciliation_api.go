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
package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	model2 "github.com/reckon-ledger/reckon/api/model"
	"github.com/reckon-ledger/reckon/internal/apierror"
	"github.com/reckon-ledger/reckon/model"
)

func respondError(c *gin.Context, err error) {
	logrus.Error(err)
	c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
}

// CreateReconciliation opens a new draft reconciliation report.
func (a Api) CreateReconciliation(c *gin.Context) {
	var req model2.CreateReconciliation
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.ValidateCreateReconciliation(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := a.reckon.CreateReconciliation(c.Request.Context(), req.AccountID, req.Period(), req.StatementBalance, req.Notes, req.PerformedBy)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, report)
}

// GetReconciliation retrieves one fully hydrated report.
func (a Api) GetReconciliation(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	report, err := a.reckon.GetReconciliationByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if report == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Reconciliation report not found"})
		return
	}

	c.JSON(http.StatusOK, report)
}

// GetReconciliations lists reports matching the query filter.
func (a Api) GetReconciliations(c *gin.Context) {
	filter := model.ReconciliationFilter{
		Status: c.Query("status"),
	}
	if v := c.Query("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a number"})
			return
		}
		filter.Limit = limit
	}
	if v := c.Query("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "offset must be a number"})
			return
		}
		filter.Offset = offset
	}
	if v := c.Query("date_from"); v != "" {
		from, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date_from must be formatted as YYYY-MM-DD"})
			return
		}
		filter.DateFrom = from
	}
	if v := c.Query("date_to"); v != "" {
		to, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date_to must be formatted as YYYY-MM-DD"})
			return
		}
		filter.DateTo = to
	}

	reports, total, err := a.reckon.GetReconciliations(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reconciliations": reports, "total": total})
}

// StartReconciliation moves a draft report into in_progress.
func (a Api) StartReconciliation(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	var req model2.TransitionReconciliation
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := a.reckon.StartReconciliation(c.Request.Context(), id, req.PerformedBy)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// CompleteReconciliation finalizes a report.
func (a Api) CompleteReconciliation(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	var req model2.CompleteReconciliation
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := a.reckon.CompleteReconciliation(c.Request.Context(), id, req.PerformedBy, req.Override)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// CancelReconciliation cancels a draft or in-progress report.
func (a Api) CancelReconciliation(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	var req model2.TransitionReconciliation
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := a.reckon.CancelReconciliation(c.Request.Context(), id, req.PerformedBy)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// AddReconciliationItem attaches a variance item to a report.
func (a Api) AddReconciliationItem(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	var req model2.AddReconciliationItem
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.ValidateAddReconciliationItem(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := a.reckon.AddReconciliationItem(c.Request.Context(), id, req.Description, req.Amount, req.Type, req.Notes, req.PerformedBy)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, item)
}

// ReconcileItem marks a single item as reconciled.
func (a Api) ReconcileItem(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	var req model2.TransitionReconciliation
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := a.reckon.ReconcileItem(c.Request.Context(), id, req.PerformedBy)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

// AddAdjustment applies a correcting entry to a report.
func (a Api) AddAdjustment(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	var req model2.AddAdjustment
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.ValidateAddAdjustment(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	adjustment, err := a.reckon.AddAdjustment(c.Request.Context(), id, req.Amount, req.Direction, req.Reason, req.PerformedBy)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, adjustment)
}

// ReverseAdjustment creates the equal-and-opposite adjustment.
func (a Api) ReverseAdjustment(c *gin.Context) {
	reportID, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}
	adjustmentID, passed := c.Params.Get("adjustment_id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "adjustment_id is required"})
		return
	}

	var req model2.TransitionReconciliation
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	adjustment, err := a.reckon.ReverseAdjustment(c.Request.Context(), reportID, adjustmentID, req.PerformedBy)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, adjustment)
}

// UploadStatement imports a bank statement file into a report. Matched entries
// are skipped, unmatched ones come back as new timing-difference items.
func (a Api) UploadStatement(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File upload failed"})
		return
	}
	defer file.Close()

	performedBy := c.PostForm("performed_by")

	created, err := a.reckon.UploadStatement(c.Request.Context(), id, file, header.Filename, performedBy)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": created, "created_count": len(created)})
}

// ReconcileCounterparty compares a counterparty's reported balance against the
// books over a period.
func (a Api) ReconcileCounterparty(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	var req model2.ReconcileCounterparty
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.ValidateReconcileCounterparty(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := a.reckon.ReconcileCounterpartyBalances(c.Request.Context(), id, req.Period(), req.StatementBalance)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetReconciliationSummary returns portfolio-level statistics.
func (a Api) GetReconciliationSummary(c *gin.Context) {
	summary, err := a.reckon.GetReconciliationSummary(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
