package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vtuportal/internal/domain"
	"vtuportal/internal/export"
	"vtuportal/internal/middleware"
	"vtuportal/internal/service"
)

// ResultHandler handles result evaluation and record endpoints.
type ResultHandler struct {
	results service.ResultService
}

// NewResultHandler creates a new ResultHandler.
func NewResultHandler(results service.ResultService) *ResultHandler {
	return &ResultHandler{results: results}
}

// Evaluate handles POST /api/v1/results/evaluate
// @Summary Evaluate a result document
// @Description Extract identity and subject rows from a VTU result PDF, compute the SGPA and save it to the shared result table
// @Tags results
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Result PDF with a text layer"
// @Param semester formData string false "Semester id (default from configuration)"
// @Param persist formData bool false "Save the SGPA to the result table" default(true)
// @Success 200 {object} Response{data=EvaluationResponse} "SGPA computed"
// @Failure 400 {object} ErrorResponseBody "Missing file, unsupported type or unknown semester"
// @Failure 413 {object} ErrorResponseBody "File too large"
// @Failure 422 {object} TerminalEvaluationBody "No subject rows recognised or SGPA undefined"
// @Router /results/evaluate [post]
func (h *ResultHandler) Evaluate(c *gin.Context) {
	persist, err := strconv.ParseBool(c.DefaultPostForm("persist", "true"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_PERSIST", "persist must be true or false")
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	data, err := h.results.ReadUpload(file, header)
	if err != nil {
		HandleError(c, err)
		return
	}

	ev, err := h.results.Evaluate(c.Request.Context(), service.EvaluateInput{
		SemesterID: c.PostForm("semester"),
		Document:   data,
		Persist:    persist,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	body := EvaluationResponse{Evaluation: ev}
	switch ev.Status {
	case domain.EvaluationNoData:
		c.JSON(http.StatusUnprocessableEntity, APIResponse{
			Data:  body,
			Error: &APIError{Code: "NO_SUBJECTS", Message: "no subject rows recognised; check the document and the selected semester"},
		})
		return
	case domain.EvaluationSGPAUndefined:
		c.JSON(http.StatusUnprocessableEntity, APIResponse{
			Data:  body,
			Error: &APIError{Code: "SGPA_UNDEFINED", Message: "cannot compute SGPA: recognised subjects carry no credits"},
		})
		return
	}

	if ev.Persistence.Status == domain.PersistenceUnavailable {
		body.Warning = "result computed but could not be saved: " + ev.Persistence.Reason
		middleware.GetLogger(c).Warn("evaluation not persisted",
			zap.String("usn", ev.Identity.ExternalID),
			zap.String("reason", ev.Persistence.Reason))
	}
	RespondOK(c, body)
}

// Lookup handles GET /api/v1/records/:usn
// @Summary Look up a record by USN
// @Description First row for the USN in table order, optionally restricted to one semester
// @Tags records
// @Produce json
// @Param usn path string true "University Seat Number"
// @Param semester query string false "Semester id"
// @Success 200 {object} Response{data=domain.ResultRow}
// @Failure 400 {object} ErrorResponseBody "Unknown semester"
// @Failure 404 {object} ErrorResponseBody "No such record"
// @Router /records/{usn} [get]
func (h *ResultHandler) Lookup(c *gin.Context) {
	row, err := h.results.Lookup(c.Request.Context(), c.Param("usn"), c.Query("semester"))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, row)
}

// History handles GET /api/v1/records/:usn/history
// @Summary Every semester row for a USN
// @Tags records
// @Produce json
// @Param usn path string true "University Seat Number"
// @Success 200 {object} Response{data=[]domain.ResultRow}
// @Failure 404 {object} ErrorResponseBody "No such record"
// @Router /records/{usn}/history [get]
func (h *ResultHandler) History(c *gin.Context) {
	rows, err := h.results.History(c.Request.Context(), c.Param("usn"))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, rows)
}

// List handles GET /api/v1/records
// @Summary List records
// @Tags records
// @Produce json
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Success 200 {object} Response{data=[]domain.ResultRow,meta=PagMeta}
// @Router /records [get]
func (h *ResultHandler) List(c *gin.Context) {
	offset, limit := parsePagination(c)

	rows, total, err := h.results.ListRecords(c.Request.Context(), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, rows, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// Export handles GET /api/v1/records/export
// @Summary Export all records
// @Tags records
// @Produce text/csv
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param format query string false "csv or xlsx" default(csv)
// @Success 200 {file} file
// @Failure 400 {object} ErrorResponseBody "Unsupported format"
// @Failure 500 {object} ErrorResponseBody "Store failure"
// @Router /records/export [get]
func (h *ResultHandler) Export(c *gin.Context) {
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		HandleError(c, err)
		return
	}

	out := &attachmentWriter{
		c:           c,
		contentType: export.ContentType(format),
		filename:    export.BuildFilename("results", format, time.Now()),
	}
	err = h.results.ExportRecords(c.Request.Context(), out, format)
	switch {
	case err != nil && !out.started:
		HandleError(c, err)
	case err != nil:
		// The attachment is already on the wire.
		middleware.GetLogger(c).Error("export failed", zap.String("format", string(format)), zap.Error(err))
	case !out.started:
		out.start()
	}
}

// attachmentWriter defers the attachment headers until the first write, so
// an error raised before any output can still become a JSON error response.
type attachmentWriter struct {
	c           *gin.Context
	contentType string
	filename    string
	started     bool
}

func (w *attachmentWriter) start() {
	w.started = true
	w.c.Header("Content-Type", w.contentType)
	w.c.Header("Content-Disposition", `attachment; filename="`+w.filename+`"`)
	w.c.Status(http.StatusOK)
}

func (w *attachmentWriter) Write(p []byte) (int, error) {
	if !w.started {
		w.start()
	}
	return w.c.Writer.Write(p)
}
