package submit

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"cvmatch-backend/internal/extract"
	"cvmatch-backend/internal/feedback"
	"cvmatch-backend/internal/llm"
	"cvmatch-backend/internal/reports"
	"cvmatch-backend/internal/shared/server/middleware"
	"cvmatch-backend/internal/shared/server/respond"
)

const maxUploadSize = 10 << 20 // 10MB

// Handler wires HTTP handlers to the submission, report, and feedback
// services.
type Handler struct {
	Svc      *Service
	Reports  *reports.Store
	Feedback *feedback.Store
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, reps *reports.Store, fb *feedback.Store) *Handler {
	return &Handler{Svc: svc, Reports: reps, Feedback: fb}
}

// RegisterRoutes attaches the API routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/analyze", h.analyze)
	rg.GET("/reports", h.listReports)
	rg.GET("/reports/:id", h.viewReport)
	rg.GET("/reports/:id/download", h.downloadReport)
	rg.POST("/feedback", h.submitFeedback)
}

type analyzeRequest struct {
	CVText   string `json:"cvText"`
	JDText   string `json:"jdText"`
	Language string `json:"language"`
	Rewrite  bool   `json:"rewrite"`
}

func (h *Handler) analyze(c *gin.Context) {
	req, ok := h.bindAnalyze(c)
	if !ok {
		return
	}

	result, err := h.Svc.Submit(c.Request.Context(), Request{
		CVText:   req.CVText,
		JDText:   req.JDText,
		Language: req.Language,
		Rewrite:  req.Rewrite,
	})
	if err != nil {
		respondSubmitError(c, err)
		return
	}

	if result.ReportID != "" {
		middleware.SetReportID(c, result.ReportID)
	}

	resp := gin.H{
		"reportId":     result.ReportID,
		"analysisHtml": result.AnalysisHTML,
	}
	if result.RewrittenHTML != nil {
		resp["rewrittenHtml"] = *result.RewrittenHTML
	}
	if len(result.Warnings) > 0 {
		resp["warnings"] = result.Warnings
	}
	respond.JSON(c, http.StatusOK, resp)
}

// bindAnalyze accepts either a JSON body or a multipart form. The multipart
// form may carry the CV as an uploaded file under "cvFile"; its text is
// extracted before submission.
func (h *Handler) bindAnalyze(c *gin.Context) (analyzeRequest, bool) {
	var req analyzeRequest

	contentType := c.ContentType()
	if !strings.HasPrefix(contentType, "multipart/form-data") {
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
			return req, false
		}
		return req, true
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	req.CVText = c.PostForm("cvText")
	req.JDText = c.PostForm("jdText")
	req.Language = c.PostForm("language")
	req.Rewrite = c.PostForm("rewrite") == "true"

	fileHeader, err := c.FormFile("cvFile")
	if err != nil {
		if req.CVText == "" {
			respond.Error(c, http.StatusBadRequest, "validation_error", "cvText or cvFile is required", nil)
			return req, false
		}
		return req, true
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read uploaded file", nil)
		return req, false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read uploaded file", nil)
		return req, false
	}

	text, err := extract.Text(data, fileHeader.Header.Get("Content-Type"), fileHeader.Filename)
	if err != nil {
		if errors.Is(err, extract.ErrUnsupportedType) {
			respond.Error(c, http.StatusBadRequest, "validation_error", "unsupported file type; use PDF, DOCX, or plain text", nil)
			return req, false
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "could not extract text from uploaded file", nil)
		return req, false
	}
	req.CVText = text

	return req, true
}

func respondSubmitError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		return
	}

	kind, ok := llm.KindOf(err)
	if !ok {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to process submission", map[string]any{"error": err.Error()})
		return
	}
	switch kind {
	case llm.KindUnconfigured:
		respond.Error(c, http.StatusServiceUnavailable, "llm_unconfigured", "no language model provider is configured", nil)
	default:
		respond.Error(c, http.StatusBadGateway, "llm_error", "analysis service is currently unavailable", map[string]any{"error": err.Error()})
	}
}

func (h *Handler) listReports(c *gin.Context) {
	metas, err := h.Reports.List(50)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list reports", nil)
		return
	}

	resp := make([]gin.H, 0, len(metas))
	for _, m := range metas {
		resp = append(resp, gin.H{
			"reportId":  m.ID,
			"createdAt": m.CreatedAt,
			"sizeBytes": m.SizeBytes,
		})
	}
	respond.JSON(c, http.StatusOK, resp)
}

func (h *Handler) viewReport(c *gin.Context) {
	html, err := h.Reports.GetHTML(c.Param("id"))
	if err != nil {
		respondReportError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

func (h *Handler) downloadReport(c *gin.Context) {
	id := c.Param("id")
	content, err := h.Reports.Get(id)
	if err != nil {
		respondReportError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+id+`.md"`)
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(content))
}

func respondReportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, reports.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "report not found", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to read report", nil)
	}
}

type feedbackRequest struct {
	Contact  string `json:"contact"`
	Comments string `json:"comments"`
	Rating   int    `json:"rating"`
}

func (h *Handler) submitFeedback(c *gin.Context) {
	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	req.Comments = strings.TrimSpace(req.Comments)
	if req.Comments == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "comments are required", nil)
		return
	}
	if req.Rating < 0 || req.Rating > 5 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "rating must be between 1 and 5", nil)
		return
	}

	name, err := h.Feedback.Save(feedback.Entry{
		Contact:  strings.TrimSpace(req.Contact),
		Comments: req.Comments,
		Rating:   req.Rating,
	})
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to save feedback", nil)
		return
	}

	respond.JSON(c, http.StatusCreated, gin.H{"status": "received", "file": name})
}
