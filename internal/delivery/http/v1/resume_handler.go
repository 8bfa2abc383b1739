package v1

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"maplehr-backend/internal/domain"
	"maplehr-backend/pkg/apperror"
	"maplehr-backend/pkg/validation"

	"github.com/gin-gonic/gin"
)

type ResumeHandler struct {
	ingestUC domain.IngestionUsecase
	reviewUC domain.ReviewUsecase
	maxBytes int64
}

type signedURLRequest struct {
	ApplicantID string `json:"applicantId" binding:"required"`
}

// NewResumeHandler registers resume routes. uploadGuards run before the upload handler.
func NewResumeHandler(v1 *gin.RouterGroup, ingestUC domain.IngestionUsecase, reviewUC domain.ReviewUsecase, maxBytes int64, uploadGuards ...gin.HandlerFunc) {
	handler := &ResumeHandler{ingestUC: ingestUC, reviewUC: reviewUC, maxBytes: maxBytes}

	resume := v1.Group("/resume")
	{
		resume.POST("/upload", append(uploadGuards, handler.Upload)...)
		resume.GET("/upload", handler.UploadProbe)
		resume.POST("/signed-url", handler.SignedURL)
	}
}

// Upload godoc
// @Summary      Upload an applicant resume
// @Description  Stores the file, extracts its text and records the resume on the applicant. Re-uploads overwrite the stored file.
// @Tags         resume
// @Accept       multipart/form-data
// @Produce      json
// @Param        file         formData  file    true  "Resume (pdf, doc, docx, txt)"
// @Param        jobId        formData  int     true  "Job opening id"
// @Param        applicantId  formData  string  true  "Applicant id"
// @Success      200  {object}  domain.IngestResult
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      413  {object}  response.Response
// @Failure      415  {object}  response.Response
// @Failure      429  {object}  response.Response
// @Failure      502  {object}  response.Response
// @Router       /resume/upload [post]
func (h *ResumeHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.Error(apperror.PayloadTooLarge(fmt.Sprintf("file exceeds the %d byte upload limit", h.maxBytes)))
			return
		}
		c.Error(apperror.Validation("missing file/jobId/applicantId"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.Error(apperror.Internal(err))
		return
	}
	defer file.Close()

	// One byte past the limit is enough for the size check
	data, err := io.ReadAll(io.LimitReader(file, h.maxBytes+1))
	if err != nil {
		c.Error(apperror.Internal(err))
		return
	}

	// Non-numeric ids become 0 and fail validation
	jobID, _ := strconv.ParseInt(strings.TrimSpace(c.PostForm("jobId")), 10, 64)

	res, err := h.ingestUC.Ingest(c.Request.Context(), domain.IngestRequest{
		File:        data,
		FileName:    fileHeader.Filename,
		MimeType:    fileHeader.Header.Get("Content-Type"),
		JobID:       jobID,
		ApplicantID: strings.TrimSpace(c.PostForm("applicantId")),
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// UploadProbe godoc
// @Summary      Upload route probe
// @Tags         resume
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /resume/upload [get]
func (h *ResumeHandler) UploadProbe(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "route": "/v1/resume/upload", "method": http.MethodGet})
}

// SignedURL godoc
// @Summary      Create a resume download link
// @Description  Returns a presigned URL for the applicant's stored resume, valid for 60 seconds
// @Tags         resume
// @Accept       json
// @Produce      json
// @Param        request  body      signedURLRequest  true  "Applicant"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      502  {object}  response.Response
// @Router       /resume/signed-url [post]
func (h *ResumeHandler) SignedURL(c *gin.Context) {
	var req signedURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.Validation(validation.Message(err)))
		return
	}

	url, err := h.reviewUC.ResumeURL(c.Request.Context(), req.ApplicantID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}
