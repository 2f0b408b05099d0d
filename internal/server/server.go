// Package server exposes the admin HTTP surface: report triggers, manual
// single-item checks, health and metrics. No authentication; the service
// runs behind the platform ingress.
package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"prisoner-finance-recon/internal/usecase"
)

// New builds the gin router. Report triggers return 202 immediately and
// run in the background; their outcome is telemetry-only. Manual checks
// are synchronous and return the mismatch (200), no mismatch (204) or 404
// when the target does not exist.
func New(log *zap.Logger, balances *usecase.BalanceReconciliation, transactions *usecase.TransactionReconciliation, reg *prometheus.Registry) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	reports := router.Group("/reports")
	{
		reports.PUT("/prison-balances", func(c *gin.Context) {
			go balances.GeneratePrisonBalancesReport(detached())
			c.JSON(http.StatusAccepted, gin.H{"message": "prison balance reconciliation started"})
		})
		reports.PUT("/prisoner-balances", func(c *gin.Context) {
			go balances.GeneratePrisonerBalancesReport(detached())
			c.JSON(http.StatusAccepted, gin.H{"message": "prisoner balance reconciliation started"})
		})
		reports.PUT("/prison-transactions", func(c *gin.Context) {
			prisonID := c.Query("prisonId")
			date, err := time.Parse(time.DateOnly, c.Query("date"))
			if prisonID == "" || err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "prisonId and date=YYYY-MM-DD are required"})
				return
			}
			go transactions.GeneratePrisonTransactionsReport(detached(), prisonID, date)
			c.JSON(http.StatusAccepted, gin.H{"message": "prison transaction reconciliation started"})
		})
		reports.PUT("/prisoner-transactions", func(c *gin.Context) {
			transactions.GeneratePrisonerTransactionsReport(c.Request.Context())
			c.JSON(http.StatusNotImplemented, gin.H{"error": "prisoner transaction batch reconciliation is not implemented"})
		})
	}

	checks := router.Group("/checks")
	{
		checks.GET("/prison-balances/:prisonId", func(c *gin.Context) {
			mismatch, err := balances.CheckPrisonBalanceMatch(c.Request.Context(), c.Param("prisonId"))
			respond(c, log, mismatch, err)
		})
		checks.GET("/prisoner-balances/:prisonNumber", func(c *gin.Context) {
			mismatch, err := balances.CheckPrisonerBalanceMatch(c.Request.Context(), c.Param("prisonNumber"))
			respond(c, log, mismatch, err)
		})
		checks.GET("/prison-transactions/:prisonId/:date/:transactionId", func(c *gin.Context) {
			date, err := time.Parse(time.DateOnly, c.Param("date"))
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
				return
			}
			transactionID, err := strconv.ParseInt(c.Param("transactionId"), 10, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "transactionId must be numeric"})
				return
			}
			mismatch, err := transactions.CheckPrisonTransactionMatch(c.Request.Context(), c.Param("prisonId"), date, transactionID)
			respond(c, log, mismatch, err)
		})
		checks.GET("/prisoner-transactions/:transactionId", func(c *gin.Context) {
			transactionID, err := strconv.ParseInt(c.Param("transactionId"), 10, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "transactionId must be numeric"})
				return
			}
			mismatch, err := transactions.CheckPrisonerTransactionMatch(c.Request.Context(), transactionID)
			respond(c, log, mismatch, err)
		})
	}

	return router
}

// respond maps a check outcome onto the HTTP surface. mismatch must be a
// pointer; a typed nil means no mismatch was found.
func respond[M any](c *gin.Context, log *zap.Logger, mismatch *M, err error) {
	switch {
	case errors.Is(err, usecase.ErrNotFound), errors.Is(err, usecase.ErrTransactionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case err != nil:
		log.Error("manual check failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	case mismatch == nil:
		c.Status(http.StatusNoContent)
	default:
		c.JSON(http.StatusOK, mismatch)
	}
}

// detached gives background report runs a context that outlives the
// triggering request.
func detached() context.Context {
	return context.Background()
}
