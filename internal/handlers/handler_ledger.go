package handlers

import (
	"net/http"
	"time"

	portssvc "github.com/finbooks/glcore/internal/core/ports/services"
	"github.com/finbooks/glcore/internal/dto"
	"github.com/finbooks/glcore/internal/middleware"
	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

// ledgerHandler handles HTTP requests for ledger and trial balance reports.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

func newLedgerHandler(ledgerService portssvc.LedgerSvcFacade) *ledgerHandler {
	return &ledgerHandler{
		ledgerService: ledgerService,
	}
}

// registerLedgerRoutes mounts the report endpoints on the company-scoped
// group. Ledger and balance live under the account they describe.
func registerLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newLedgerHandler(ledgerService)
	rg.GET("/accounts/:accountID/ledger", h.getLedger)
	rg.GET("/accounts/:accountID/balance", h.getBalance)
	rg.GET("/trial-balance", h.getTrialBalance)
}

// parseDateQuery reads an optional YYYY-MM-DD query parameter. The bool
// reports whether parsing failed.
func parseDateQuery(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, false
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, true
	}
	return &t, false
}

// getLedger godoc
// @Summary Get an account ledger statement
// @Description Reconstructs the account's posted activity with opening, running and closing balances
// @Tags reports
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Param   accountID path string true "Account ID"
// @Param   from query string false "Start date (YYYY-MM-DD, inclusive)"
// @Param   to query string false "End date (YYYY-MM-DD, inclusive)"
// @Success 200 {object} dto.LedgerResponse "The ledger statement"
// @Failure 400 {object} map[string]string "Invalid date parameters"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to build ledger"
// @Router /companies/{companyID}/accounts/{accountID}/ledger [get]
func (h *ledgerHandler) getLedger(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")
	accountID := c.Param("accountID")

	from, badFrom := parseDateQuery(c, "from")
	to, badTo := parseDateQuery(c, "to")
	if badFrom || badTo {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from/to must be YYYY-MM-DD dates"})
		return
	}
	if from != nil && to != nil && to.Before(*from) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to must not be before from"})
		return
	}

	result, err := h.ledgerService.GetLedger(c.Request.Context(), companyID, accountID, from, to)
	if err != nil {
		respondWithError(c, logger, err, "Failed to build ledger")
		return
	}

	c.JSON(http.StatusOK, dto.ToLedgerResponse(result))
}

// getBalance godoc
// @Summary Get an account balance as of a date
// @Tags reports
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Param   accountID path string true "Account ID"
// @Param   asOf query string false "Balance date (YYYY-MM-DD, inclusive; defaults to today)"
// @Success 200 {object} dto.BalanceResponse "The balance"
// @Failure 400 {object} map[string]string "Invalid date parameter"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to compute balance"
// @Router /companies/{companyID}/accounts/{accountID}/balance [get]
func (h *ledgerHandler) getBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")
	accountID := c.Param("accountID")

	asOfPtr, bad := parseDateQuery(c, "asOf")
	if bad {
		c.JSON(http.StatusBadRequest, gin.H{"error": "asOf must be a YYYY-MM-DD date"})
		return
	}
	asOf := time.Now().UTC().Truncate(24 * time.Hour)
	if asOfPtr != nil {
		asOf = *asOfPtr
	}

	balance, err := h.ledgerService.GetAccountBalance(c.Request.Context(), companyID, accountID, asOf)
	if err != nil {
		respondWithError(c, logger, err, "Failed to compute balance")
		return
	}

	c.JSON(http.StatusOK, dto.BalanceResponse{
		AccountID: accountID,
		AsOf:      asOf,
		Balance:   balance,
	})
}

// getTrialBalance godoc
// @Summary Get the trial balance
// @Description Per-account debit/credit totals over posted journals, with grand totals
// @Tags reports
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Param   from query string false "Start date (YYYY-MM-DD, inclusive)"
// @Param   to query string false "End date (YYYY-MM-DD, inclusive)"
// @Success 200 {object} dto.TrialBalanceResponse "The trial balance"
// @Failure 400 {object} map[string]string "Invalid date parameters"
// @Failure 500 {object} map[string]string "Failed to build trial balance"
// @Router /companies/{companyID}/trial-balance [get]
func (h *ledgerHandler) getTrialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")

	from, badFrom := parseDateQuery(c, "from")
	to, badTo := parseDateQuery(c, "to")
	if badFrom || badTo {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from/to must be YYYY-MM-DD dates"})
		return
	}

	result, err := h.ledgerService.GetTrialBalance(c.Request.Context(), companyID, from, to)
	if err != nil {
		respondWithError(c, logger, err, "Failed to build trial balance")
		return
	}

	c.JSON(http.StatusOK, dto.ToTrialBalanceResponse(result))
}
