package handler

import (
	"net/http"

	"salestrack/internal/services"
	"salestrack/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

// ReportHandler serves the dashboard KPI endpoints.
type ReportHandler struct {
	reports *services.ReportService
}

func NewReportHandler(reports *services.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// MySummary is the agent dashboard KPI block.
func (h *ReportHandler) MySummary(c *gin.Context) {
	userID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "unauthenticated"))
		return
	}

	year, month := yearMonth(c)
	summary, err := h.reports.AgentSummary(c.Request.Context(), userID, year, month)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(summary))
}

// Overview is the admin landing block. Admin only.
func (h *ReportHandler) Overview(c *gin.Context) {
	year, month := yearMonth(c)
	overview, err := h.reports.AdminOverview(c.Request.Context(), year, month)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(overview))
}

// Team is the per-agent KPI table. Admin only.
func (h *ReportHandler) Team(c *gin.Context) {
	year, month := yearMonth(c)
	summaries, err := h.reports.TeamSummaries(c.Request.Context(), year, month)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(summaries))
}

// Ranking is the month's leaderboard, visible to every signed-in user.
func (h *ReportHandler) Ranking(c *gin.Context) {
	year, month := yearMonth(c)
	entries, err := h.reports.Ranking(c.Request.Context(), year, month)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(entries))
}
