package v1

import (
	"net/http"
	"strconv"
	"strings"

	"maplehr-backend/internal/delivery/http/response"
	"maplehr-backend/internal/domain"
	"maplehr-backend/pkg/apperror"
	"maplehr-backend/pkg/validation"

	"github.com/gin-gonic/gin"
)

type ATSHandler struct {
	scoringUC domain.ScoringUsecase
	reviewUC  domain.ReviewUsecase
}

type scoreRequest struct {
	ApplicantID string `json:"applicantId" binding:"required"`
}

type decisionRequest struct {
	Decision string `json:"decision" binding:"required,decision"`
}

// NewATSHandler registers ATS routes
func NewATSHandler(v1 *gin.RouterGroup, scoringUC domain.ScoringUsecase, reviewUC domain.ReviewUsecase, guards ...gin.HandlerFunc) {
	handler := &ATSHandler{scoringUC: scoringUC, reviewUC: reviewUC}

	ats := v1.Group("/ats", guards...)
	{
		ats.POST("/score", handler.Score)
		ats.GET("/applicants/:id/match", handler.LatestMatch)
		ats.GET("/applicants/:id/matches", handler.MatchHistory)
		ats.DELETE("/applicants/:id/resume-text", handler.ClearResumeText)
		ats.PATCH("/applicants/:id/decision", handler.SetDecision)
		ats.GET("/jobs/:jobId/matches/export", handler.ExportMatches)
	}
}

// Score godoc
// @Summary      Score an applicant against their job opening
// @Description  Computes the keyword match rate and appends a new match result
// @Tags         ats
// @Accept       json
// @Produce      json
// @Param        request  body      scoreRequest  true  "Applicant"
// @Success      200  {object}  domain.ScoreResult
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      429  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Failure      502  {object}  response.Response
// @Router       /ats/score [post]
func (h *ATSHandler) Score(c *gin.Context) {
	var req scoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.Validation(validation.Message(err)))
		return
	}

	res, err := h.scoringUC.Score(c.Request.Context(), req.ApplicantID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// LatestMatch godoc
// @Summary      Latest match result of an applicant
// @Tags         ats
// @Produce      json
// @Param        id   path      string  true  "Applicant id"
// @Success      200  {object}  response.Response{data=domain.MatchResult}
// @Failure      404  {object}  response.Response
// @Router       /ats/applicants/{id}/match [get]
func (h *ATSHandler) LatestMatch(c *gin.Context) {
	m, err := h.reviewUC.LatestMatch(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Latest match result", m)
}

// MatchHistory godoc
// @Summary      Match history of an applicant, newest first
// @Tags         ats
// @Produce      json
// @Param        id   path      string  true  "Applicant id"
// @Success      200  {object}  response.Response{data=[]domain.MatchResult}
// @Failure      404  {object}  response.Response
// @Router       /ats/applicants/{id}/matches [get]
func (h *ATSHandler) MatchHistory(c *gin.Context) {
	history, err := h.reviewUC.MatchHistory(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Match history", history)
}

// ClearResumeText godoc
// @Summary      Clear cached resume text
// @Description  The next score re-extracts text from the stored file
// @Tags         ats
// @Produce      json
// @Param        id   path      string  true  "Applicant id"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /ats/applicants/{id}/resume-text [delete]
func (h *ATSHandler) ClearResumeText(c *gin.Context) {
	if err := h.reviewUC.ClearResumeCache(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Resume text cache cleared", nil)
}

// SetDecision godoc
// @Summary      Record the recruiter decision
// @Tags         ats
// @Accept       json
// @Produce      json
// @Param        id       path      string           true  "Applicant id"
// @Param        request  body      decisionRequest  true  "Approved, Declined or On-Hold"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /ats/applicants/{id}/decision [patch]
func (h *ATSHandler) SetDecision(c *gin.Context) {
	var req decisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.Validation(validation.Message(err)))
		return
	}

	if err := h.reviewUC.SetDecision(c.Request.Context(), c.Param("id"), req.Decision); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Decision saved", nil)
}

// ExportMatches godoc
// @Summary      Export a job's applicants with their latest scores
// @Tags         ats
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce      text/csv
// @Param        jobId   path      int     true   "Job opening id"
// @Param        format  query     string  false  "xlsx (default) or csv"
// @Success      200  {file}    file
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /ats/jobs/{jobId}/matches/export [get]
func (h *ATSHandler) ExportMatches(c *gin.Context) {
	jobID, err := strconv.ParseInt(c.Param("jobId"), 10, 64)
	if err != nil {
		c.Error(apperror.Validation("invalid jobId"))
		return
	}

	format := c.DefaultQuery("format", "xlsx")
	data, filename, err := h.reviewUC.ExportJobMatches(c.Request.Context(), jobID, format)
	if err != nil {
		c.Error(err)
		return
	}

	// Set content type based on format
	contentType := "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	if strings.EqualFold(format, "csv") {
		contentType = "text/csv"
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, contentType, data)
}
