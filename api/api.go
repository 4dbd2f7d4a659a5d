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
	"github.com/gin-gonic/gin"

	"github.com/reckon-ledger/reckon"
	"github.com/reckon-ledger/reckon/api/middleware"
	"github.com/reckon-ledger/reckon/config"
)

type Api struct {
	reckon *reckon.Reckon
	router *gin.Engine
}

func (a Api) Router() *gin.Engine {
	router := a.router
	router.POST("/reconciliations", a.CreateReconciliation)
	router.GET("/reconciliations", a.GetReconciliations)
	router.GET("/reconciliations/summary", a.GetReconciliationSummary)
	router.GET("/reconciliations/:id", a.GetReconciliation)
	router.POST("/reconciliations/:id/start", a.StartReconciliation)
	router.POST("/reconciliations/:id/complete", a.CompleteReconciliation)
	router.POST("/reconciliations/:id/cancel", a.CancelReconciliation)

	router.POST("/reconciliations/:id/items", a.AddReconciliationItem)
	router.POST("/reconciliations/:id/adjustments", a.AddAdjustment)
	router.POST("/reconciliations/:id/adjustments/:adjustment_id/reverse", a.ReverseAdjustment)
	router.POST("/reconciliations/:id/statement", a.UploadStatement)

	router.POST("/items/:id/reconcile", a.ReconcileItem)

	router.POST("/counterparties/:id/reconcile", a.ReconcileCounterparty)
	return a.router
}

func NewAPI(r *reckon.Reckon) *Api {
	gin.SetMode(gin.ReleaseMode)
	conf, err := config.Fetch()
	if err != nil {
		return nil
	}
	router := gin.Default()
	router.Use(middleware.RateLimitMiddleware(conf))
	if conf.Server.Secure {
		router.Use(middleware.SecretKeyAuthMiddleware())
	}

	router.GET("/", func(c *gin.Context) {
		c.JSON(200, "server running...")
	})

	return &Api{reckon: r, router: router}
}
