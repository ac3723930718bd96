package handler

import (
	"github.com/gin-gonic/gin"

	"vtuportal/internal/service"
)

// SemesterHandler serves the semester catalogue.
type SemesterHandler struct {
	results service.ResultService
}

// NewSemesterHandler creates a new SemesterHandler.
func NewSemesterHandler(results service.ResultService) *SemesterHandler {
	return &SemesterHandler{results: results}
}

// List handles GET /api/v1/semesters
// @Summary List semesters
// @Description Course codes, credits and name cleanup rule of each configured semester
// @Tags semesters
// @Produce json
// @Success 200 {object} Response{data=[]SemesterResponse}
// @Router /semesters [get]
func (h *SemesterHandler) List(c *gin.Context) {
	configs := h.results.Semesters()
	out := make([]SemesterResponse, 0, len(configs))
	for _, cfg := range configs {
		out = append(out, newSemesterResponse(cfg))
	}
	RespondOK(c, out)
}
