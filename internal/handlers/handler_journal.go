package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/finbooks/glcore/internal/core/ports/services"
	"github.com/finbooks/glcore/internal/dto"
	"github.com/finbooks/glcore/internal/middleware"
	"github.com/gin-gonic/gin"
)

// journalHandler handles HTTP requests related to journals.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
}

// newJournalHandler creates a new journalHandler.
func newJournalHandler(journalService portssvc.JournalSvcFacade) *journalHandler {
	return &journalHandler{
		journalService: journalService,
	}
}

// registerJournalRoutes mounts the journal lifecycle endpoints on the
// company-scoped group.
func registerJournalRoutes(rg *gin.RouterGroup, journalService portssvc.JournalSvcFacade) {
	h := newJournalHandler(journalService)
	journals := rg.Group("/journals")
	{
		journals.POST("", h.createJournal)
		journals.GET("", h.listJournals)
		journals.GET("/:journalID", h.getJournal)
		journals.POST("/:journalID/post", h.postJournal)
		journals.POST("/:journalID/reverse", h.reverseJournal)
		journals.POST("/:journalID/void", h.voidJournal)
	}
}

// createJournal godoc
// @Summary Create a draft journal
// @Description Validates and stores a new journal in DRAFT status with its entries
// @Tags journals
// @Accept  json
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Param   journal body dto.CreateJournalRequest true "Journal with entries"
// @Success 201 {object} dto.JournalResponse "The created journal"
// @Failure 400 {object} map[string]interface{} "Invalid request or validation violations"
// @Failure 409 {object} map[string]string "A journal for the same source already exists"
// @Failure 500 {object} map[string]string "Failed to create journal"
// @Router /companies/{companyID}/journals [post]
func (h *journalHandler) createJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")

	createReq := dto.CreateJournalRequest{}
	if err := c.ShouldBindJSON(&createReq); err != nil {
		logger.Error("Failed to bind JSON for createJournal", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	creatorUserID := middleware.GetActorIDFromContext(c.Request.Context())
	logger = logger.With(slog.String("creator_user_id", creatorUserID), slog.String("company_id", companyID))

	journal, err := h.journalService.CreateJournal(c.Request.Context(), companyID, createReq, creatorUserID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to create journal")
		return
	}

	logger.Info("Journal created", slog.String("journal_id", journal.JournalID), slog.String("journal_no", journal.JournalNo))
	c.JSON(http.StatusCreated, dto.ToJournalResponse(journal))
}

// listJournals godoc
// @Summary List journals
// @Description Retrieves a paginated list of journals for the company, newest first
// @Tags journals
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Param   limit query int false "Page size (default 20)"
// @Param   nextToken query string false "Pagination token from a previous response"
// @Param   includeEntries query bool false "Include entry lines in each journal"
// @Success 200 {object} dto.ListJournalsResponse "Paginated journals"
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 500 {object} map[string]string "Failed to list journals"
// @Router /companies/{companyID}/journals [get]
func (h *journalHandler) listJournals(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")

	var params dto.ListJournalsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Error("Failed to bind query for listJournals", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	resp, err := h.journalService.ListJournals(c.Request.Context(), companyID, params)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list journals")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// getJournal godoc
// @Summary Get a journal with its entries
// @Tags journals
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Param   journalID path string true "Journal ID"
// @Success 200 {object} dto.JournalResponse "Journal and its entries"
// @Failure 404 {object} map[string]string "Journal not found"
// @Failure 500 {object} map[string]string "Failed to retrieve journal"
// @Router /companies/{companyID}/journals/{journalID} [get]
func (h *journalHandler) getJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")
	journalID := c.Param("journalID")

	journal, err := h.journalService.GetJournalByID(c.Request.Context(), companyID, journalID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to retrieve journal")
		return
	}

	c.JSON(http.StatusOK, dto.ToJournalResponse(journal))
}

// postJournal godoc
// @Summary Post a draft journal
// @Description Transitions a DRAFT journal to POSTED and applies its balance effect
// @Tags journals
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Param   journalID path string true "Journal ID"
// @Success 200 {object} dto.JournalResponse "The posted journal"
// @Failure 404 {object} map[string]string "Journal not found"
// @Failure 409 {object} map[string]string "Journal is not in DRAFT status"
// @Failure 500 {object} map[string]string "Failed to post journal"
// @Router /companies/{companyID}/journals/{journalID}/post [post]
func (h *journalHandler) postJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")
	journalID := c.Param("journalID")
	userID := middleware.GetActorIDFromContext(c.Request.Context())

	journal, err := h.journalService.PostJournal(c.Request.Context(), companyID, journalID, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to post journal")
		return
	}

	logger.Info("Journal posted", slog.String("journal_id", journalID))
	c.JSON(http.StatusOK, dto.ToJournalResponse(journal))
}

// reverseJournal godoc
// @Summary Reverse a posted journal
// @Description Creates and posts a compensating journal with debits and credits swapped
// @Tags journals
// @Accept  json
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Param   journalID path string true "Journal ID of the posted journal to reverse"
// @Param   reversal body dto.ReverseJournalRequest true "Reversal date and optional description"
// @Success 201 {object} dto.JournalResponse "The reversing journal"
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 404 {object} map[string]string "Journal not found"
// @Failure 409 {object} map[string]string "Journal is not posted, is itself a reversal, or is already reversed"
// @Failure 500 {object} map[string]string "Failed to reverse journal"
// @Router /companies/{companyID}/journals/{journalID}/reverse [post]
func (h *journalHandler) reverseJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")
	journalID := c.Param("journalID")

	reverseReq := dto.ReverseJournalRequest{}
	if err := c.ShouldBindJSON(&reverseReq); err != nil {
		logger.Error("Failed to bind JSON for reverseJournal", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID := middleware.GetActorIDFromContext(c.Request.Context())

	reversal, err := h.journalService.ReverseJournal(c.Request.Context(), companyID, journalID, reverseReq, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to reverse journal")
		return
	}

	logger.Info("Journal reversed",
		slog.String("journal_id", journalID),
		slog.String("reversing_journal_id", reversal.JournalID))
	c.JSON(http.StatusCreated, dto.ToJournalResponse(reversal))
}

// voidJournal godoc
// @Summary Void a draft journal
// @Description Transitions a DRAFT journal to VOID. Posted journals must be reversed instead.
// @Tags journals
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Param   journalID path string true "Journal ID"
// @Success 200 {object} dto.JournalResponse "The voided journal"
// @Failure 404 {object} map[string]string "Journal not found"
// @Failure 409 {object} map[string]string "Journal is not in DRAFT status"
// @Failure 500 {object} map[string]string "Failed to void journal"
// @Router /companies/{companyID}/journals/{journalID}/void [post]
func (h *journalHandler) voidJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")
	journalID := c.Param("journalID")
	userID := middleware.GetActorIDFromContext(c.Request.Context())

	journal, err := h.journalService.VoidJournal(c.Request.Context(), companyID, journalID, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to void journal")
		return
	}

	logger.Info("Journal voided", slog.String("journal_id", journalID))
	c.JSON(http.StatusOK, dto.ToJournalResponse(journal))
}
