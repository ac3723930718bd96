package handler_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"vtuportal/internal/domain"
	"vtuportal/internal/handler"
)

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{domain.ErrUnknownSemester, http.StatusBadRequest, "UNKNOWN_SEMESTER"},
		{domain.ErrUnknownCourseCode, http.StatusUnprocessableEntity, "UNKNOWN_COURSE_CODE"},
		{domain.ErrUnsupportedFileType, http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE"},
		{domain.ErrFileTooLarge, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE"},
		{domain.ErrUnsupportedFormat, http.StatusBadRequest, "UNSUPPORTED_FORMAT"},
		{domain.ErrStoreConflict, http.StatusServiceUnavailable, "STORE_BUSY"},
		{domain.ErrInvalidSheet, http.StatusInternalServerError, "STORE_INVALID"},
		{errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			status, code, msg := handler.MapDomainError(fmt.Errorf("wrapped: %w", tt.err))
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, code)
			assert.NotEmpty(t, msg)
		})
	}
}
