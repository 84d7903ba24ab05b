package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "spendwise/internal/errors"
	"spendwise/internal/export"
	"spendwise/internal/services"
)

// ReportHandler serves budget and spend reports.
type ReportHandler struct {
	reportService services.ReportServicer
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService services.ReportServicer) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// MyReport handles the caller's own report
// @Summary     My report
// @Description Budget against spend per month for the caller
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       from query string false "First month (YYYY-MM)"
// @Param       to   query string false "Last month (YYYY-MM)"
// @Success     200 {object} reporting.UserReport "Report"
// @Failure     400 {object} ErrorResponse "Invalid period"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /reports/me [get]
func (h *ReportHandler) MyReport(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	rng, err := parseMonthRange(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	report, err := h.reportService.UserReport(c.Request.Context(), userID, getUserRole(c), userID, rng)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"report": report})
}

// UserReport handles an admin reading one user's report
// @Summary     User report
// @Tags        admin
// @Produce     json
// @Security    BearerAuth
// @Param       id   path  string true  "User ID"
// @Param       from query string false "First month (YYYY-MM)"
// @Param       to   query string false "Last month (YYYY-MM)"
// @Success     200 {object} reporting.UserReport "Report"
// @Failure     400 {object} ErrorResponse "Invalid period or admin target"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /admin/reports/users/{id} [get]
func (h *ReportHandler) UserReport(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	targetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	rng, err := parseMonthRange(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	report, err := h.reportService.UserReport(c.Request.Context(), actorID, getUserRole(c), targetID, rng)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"report": report})
}

// UserSummaries handles the per-user summary listing
// @Summary     Report by user
// @Description One report per regular user, highest spend first
// @Tags        admin
// @Produce     json
// @Security    BearerAuth
// @Param       from query string false "First month (YYYY-MM)"
// @Param       to   query string false "Last month (YYYY-MM)"
// @Success     200 {array}  reporting.UserReport "Reports"
// @Failure     400 {object} ErrorResponse "Invalid period"
// @Failure     403 {object} ErrorResponse "Admin only"
// @Router      /admin/reports/users [get]
func (h *ReportHandler) UserSummaries(c *gin.Context) {
	rng, err := parseMonthRange(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	reports, err := h.reportService.UserSummaries(c.Request.Context(), getUserRole(c), rng)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

// FleetReport handles the all-users aggregate
// @Summary     Fleet report
// @Tags        admin
// @Produce     json
// @Security    BearerAuth
// @Param       from query string false "First month (YYYY-MM)"
// @Param       to   query string false "Last month (YYYY-MM)"
// @Success     200 {object} reporting.FleetReport "Report"
// @Failure     400 {object} ErrorResponse "Invalid period"
// @Failure     403 {object} ErrorResponse "Admin only"
// @Router      /admin/reports/fleet [get]
func (h *ReportHandler) FleetReport(c *gin.Context) {
	rng, err := parseMonthRange(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	report, err := h.reportService.FleetReport(c.Request.Context(), getUserRole(c), rng)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"report": report})
}

// ExportFleet handles the spreadsheet download of the fleet report
// @Summary     Export fleet report
// @Description XLSX workbook with summary, monthly, category and per-user sheets
// @Tags        admin
// @Produce     application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security    BearerAuth
// @Param       from query string false "First month (YYYY-MM)"
// @Param       to   query string false "Last month (YYYY-MM)"
// @Success     200 {file}   file "Workbook"
// @Failure     400 {object} ErrorResponse "Invalid period"
// @Failure     403 {object} ErrorResponse "Admin only"
// @Router      /admin/reports/fleet/export [get]
func (h *ReportHandler) ExportFleet(c *gin.Context) {
	rng, err := parseMonthRange(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	ctx := c.Request.Context()
	role := getUserRole(c)
	fleet, err := h.reportService.FleetReport(ctx, role, rng)
	if err != nil {
		respondWithError(c, err)
		return
	}
	users, err := h.reportService.UserSummaries(ctx, role, rng)
	if err != nil {
		respondWithError(c, err)
		return
	}

	// Render fully before writing headers so a failure can still be reported.
	var buf bytes.Buffer
	if err := export.WriteFleetWorkbook(&buf, *fleet, users); err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"fleet_report_%s.xlsx\"",
		time.Now().Format("20060102")))
	c.Data(http.StatusOK, export.ContentType, buf.Bytes())
}
